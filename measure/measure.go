package measure

import (
	"math"

	"github.com/barline/barline/model"
	"github.com/barline/barline/tempo"
	"github.com/pkg/errors"
)

// Conversions between ticks and measure/beat coordinates. Measures are
// 1-based and every conversion walks forward from tick 0, accumulating the
// length of each measure as the time signature in effect at its start
// dictates. A closed-form formula would be wrong as soon as any time
// signature event exists after tick 0, so the walk is the source of truth.
// Documents have at most a few thousand measures and none of this is on a
// hot path.

// TicksPerMeasure returns the length in ticks of a measure starting at tick.
// The result can be non-integral for denominators that are not powers of
// two; callers round when materializing tick positions.
func TicksPerMeasure(doc *model.Document, tick int64) float64 {
	num, den := tempo.TimeSignatureAt(&doc.Map, tick)
	return float64(doc.PPQ) * float64(num) * 4 / float64(den)
}

// TicksPerBeat returns the length in ticks of one beat of the time signature
// in effect at tick.
func TicksPerBeat(doc *model.Document, tick int64) float64 {
	_, den := tempo.TimeSignatureAt(&doc.Map, tick)
	return float64(doc.PPQ) * 4 / float64(den)
}

// Range returns the half-open tick interval [start, end) covered by the given
// 1-based measure. Measure numbers below 1 are treated as 1.
func Range(doc *model.Document, measureNum int) (float64, float64, error) {
	if measureNum < 1 {
		measureNum = 1
	}
	start := 0.0
	for cur := 1; cur < measureNum; cur++ {
		tpm := TicksPerMeasure(doc, roundTick(start))
		if tpm <= 0 {
			return 0, 0, errors.Wrapf(model.ErrInvalidArgument, "measure at tick %v has non-positive length %v", start, tpm)
		}
		start += tpm
	}
	tpm := TicksPerMeasure(doc, roundTick(start))
	if tpm <= 0 {
		return 0, 0, errors.Wrapf(model.ErrInvalidArgument, "measure at tick %v has non-positive length %v", start, tpm)
	}
	return start, start + tpm, nil
}

// TickToMeasureBeat locates the measure whose interval contains tick and
// returns its 1-based number together with the 1-based fractional beat inside
// it. Negative ticks belong to measure 1, beat 1.
func TickToMeasureBeat(doc *model.Document, tick int64) (int, float64, error) {
	if tick < 0 {
		tick = 0
	}
	start := 0.0
	num := 1
	for {
		tpm := TicksPerMeasure(doc, roundTick(start))
		if tpm <= 0 {
			return 0, 0, errors.Wrapf(model.ErrInvalidArgument, "measure at tick %v has non-positive length %v", start, tpm)
		}
		if float64(tick) < start+tpm {
			tpb := TicksPerBeat(doc, roundTick(start))
			beat := 1 + (float64(tick)-start)/tpb
			return num, beat, nil
		}
		start += tpm
		num++
	}
}

// TotalMeasures counts the full measures needed to cover every note in the
// document, i.e. up to the largest startTick+durationTicks across all
// tracks. A document without notes has zero measures.
func TotalMeasures(doc *model.Document) (int, error) {
	end := LastNoteEnd(doc)
	if end == 0 {
		return 0, nil
	}
	count := 0
	cur := 0.0
	for cur < float64(end) {
		tpm := TicksPerMeasure(doc, roundTick(cur))
		if tpm <= 0 {
			return 0, errors.Wrapf(model.ErrInvalidArgument, "measure at tick %v has non-positive length %v", cur, tpm)
		}
		cur += tpm
		count++
	}
	return count, nil
}

// LastNoteEnd returns the last tick at which any note in any track ends.
func LastNoteEnd(doc *model.Document) int64 {
	var end int64
	for _, tr := range doc.Tracks {
		for _, n := range tr.Notes {
			if n.StartTick+n.DurationTicks > end {
				end = n.StartTick + n.DurationTicks
			}
		}
	}
	return end
}

func roundTick(t float64) int64 {
	return int64(math.Round(t))
}
