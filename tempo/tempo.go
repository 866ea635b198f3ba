package tempo

import (
	"sort"

	"github.com/barline/barline/constants"
	"github.com/barline/barline/model"
	"github.com/pkg/errors"
)

// TempoAt returns the bpm in effect at tick: the bpm of the last tempo event
// at or before it, or 120 if no event qualifies.
func TempoAt(m *model.TemporalMap, tick int64) float64 {
	bpm := float64(constants.DefaultBPM)
	for _, ev := range m.Tempos {
		if ev.Tick > tick {
			break
		}
		bpm = ev.BPM
	}
	return bpm
}

// TimeSignatureAt returns the time signature in effect at tick, defaulting to
// 4/4 when no event qualifies.
func TimeSignatureAt(m *model.TemporalMap, tick int64) (int, int) {
	num := constants.DefaultNumerator
	den := constants.DefaultDenominator
	for _, ev := range m.TimeSigs {
		if ev.Tick > tick {
			break
		}
		num = ev.Numerator
		den = ev.Denominator
	}
	return num, den
}

// SetTempo inserts a tempo event at tick, replacing any event already there.
// The event list stays sorted with strictly increasing ticks.
func SetTempo(m *model.TemporalMap, tick int64, bpm float64) error {
	if tick < 0 {
		return errors.Wrapf(model.ErrInvalidArgument, "tempo tick %d is negative", tick)
	}
	if bpm <= 0 {
		return errors.Wrapf(model.ErrInvalidArgument, "bpm %v is not positive", bpm)
	}
	for i := range m.Tempos {
		if m.Tempos[i].Tick == tick {
			m.Tempos[i].BPM = bpm
			return nil
		}
	}
	m.Tempos = append(m.Tempos, model.TempoEvent{Tick: tick, BPM: bpm})
	sort.Slice(m.Tempos, func(i, j int) bool {
		return m.Tempos[i].Tick < m.Tempos[j].Tick
	})
	return nil
}

// SetTimeSignature inserts a time signature event at tick, replacing any
// event already there.
func SetTimeSignature(m *model.TemporalMap, tick int64, num, den int) error {
	if tick < 0 {
		return errors.Wrapf(model.ErrInvalidArgument, "time signature tick %d is negative", tick)
	}
	if num <= 0 || den <= 0 {
		return errors.Wrapf(model.ErrInvalidArgument, "time signature %d/%d is not positive", num, den)
	}
	for i := range m.TimeSigs {
		if m.TimeSigs[i].Tick == tick {
			m.TimeSigs[i].Numerator = num
			m.TimeSigs[i].Denominator = den
			return nil
		}
	}
	m.TimeSigs = append(m.TimeSigs, model.TimeSigEvent{Tick: tick, Numerator: num, Denominator: den})
	sort.Slice(m.TimeSigs, func(i, j int) bool {
		return m.TimeSigs[i].Tick < m.TimeSigs[j].Tick
	})
	return nil
}
