package engine

import (
	"math"
	"sort"

	"github.com/barline/barline/constants"
	"github.com/barline/barline/measure"
	"github.com/barline/barline/model"
	"github.com/barline/barline/pitch"
	"github.com/barline/barline/tempo"
	"github.com/barline/barline/util"
	"github.com/pkg/errors"
)

// Search returns every note satisfying all supplied filters, sorted by
// (measure, beat, pitch). The note list is truncated after sorting; the
// reported total is the full match count.
func (e *Engine) Search(alias string, f model.SearchFilters) (*model.SearchResult, error) {
	entry, err := e.reg.Get(alias)
	if err != nil {
		return nil, err
	}
	doc := entry.Doc

	var pitchClass *int
	if f.PitchClass != nil {
		c, err := pitch.ParseClass(*f.PitchClass)
		if err != nil {
			return nil, err
		}
		pitchClass = &c
	}
	if f.Track != nil {
		if _, err := e.track(doc, *f.Track); err != nil {
			return nil, err
		}
	}

	matches := make([]model.NoteInfo, 0)
	for ti, tr := range doc.Tracks {
		if f.Track != nil && *f.Track != ti {
			continue
		}
		for _, n := range tr.Notes {
			if f.PitchMin != nil && n.Pitch < *f.PitchMin {
				continue
			}
			if f.PitchMax != nil && n.Pitch > *f.PitchMax {
				continue
			}
			if pitchClass != nil && n.Pitch%12 != *pitchClass {
				continue
			}
			m, beat, err := measure.TickToMeasureBeat(doc, n.StartTick)
			if err != nil {
				return nil, err
			}
			if f.MeasureStart != nil && m < *f.MeasureStart {
				continue
			}
			if f.MeasureEnd != nil && m > *f.MeasureEnd {
				continue
			}
			matches = append(matches, model.NoteInfo{
				Track:         ti,
				Measure:       m,
				Beat:          beat,
				Pitch:         n.Pitch,
				Name:          pitch.Name(n.Pitch),
				Velocity:      model.VelocityToByte(n.Velocity),
				StartTick:     n.StartTick,
				DurationTicks: n.DurationTicks,
			})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Measure != matches[j].Measure {
			return matches[i].Measure < matches[j].Measure
		}
		if matches[i].Beat != matches[j].Beat {
			return matches[i].Beat < matches[j].Beat
		}
		return matches[i].Pitch < matches[j].Pitch
	})

	total := len(matches)
	matches = matches[:util.Min(total, constants.MaxSearchResults)]
	return &model.SearchResult{TotalMatches: total, Notes: matches}, nil
}

// Measures reports the notes of each measure in the inclusive range, with
// beats and durations scaled by the time signature in effect at the measure
// start. Only note onsets count: a note sustained across a barline belongs to
// the measure it starts in.
func (e *Engine) Measures(alias string, startMeasure, endMeasure int, track *int) ([]model.MeasureInfo, error) {
	entry, err := e.reg.Get(alias)
	if err != nil {
		return nil, err
	}
	doc := entry.Doc
	if track != nil {
		if _, err := e.track(doc, *track); err != nil {
			return nil, err
		}
	}
	total, err := measure.TotalMeasures(doc)
	if err != nil {
		return nil, err
	}
	if startMeasure < 1 {
		startMeasure = 1
	}
	if endMeasure > total {
		endMeasure = total
	}

	infos := make([]model.MeasureInfo, 0)
	for m := startMeasure; m <= endMeasure; m++ {
		start, end, err := measure.Range(doc, m)
		if err != nil {
			return nil, err
		}
		startTick := int64(math.Round(start))
		num, den := tempo.TimeSignatureAt(&doc.Map, startTick)
		tpb := measure.TicksPerBeat(doc, startTick)

		info := model.MeasureInfo{
			Number:      m,
			StartTick:   startTick,
			EndTick:     int64(math.Round(end)),
			BPM:         tempo.TempoAt(&doc.Map, startTick),
			Numerator:   num,
			Denominator: den,
			Notes:       make([]model.MeasureNote, 0),
		}
		for ti, tr := range doc.Tracks {
			if track != nil && *track != ti {
				continue
			}
			for _, n := range tr.Notes {
				if float64(n.StartTick) < start || float64(n.StartTick) >= end {
					continue
				}
				info.Notes = append(info.Notes, model.MeasureNote{
					Beat:          1 + (float64(n.StartTick)-start)/tpb,
					Pitch:         n.Pitch,
					Name:          pitch.Name(n.Pitch),
					Velocity:      model.VelocityToByte(n.Velocity),
					DurationBeats: float64(n.DurationTicks) / float64(doc.PPQ) * float64(den) / 4,
					Track:         ti,
				})
			}
		}
		sort.Slice(info.Notes, func(i, j int) bool {
			if info.Notes[i].Beat != info.Notes[j].Beat {
				return info.Notes[i].Beat < info.Notes[j].Beat
			}
			return info.Notes[i].Pitch < info.Notes[j].Pitch
		})
		infos = append(infos, info)
	}
	return infos, nil
}

// AddNotes validates and converts the whole batch before touching the track:
// either every note is added or none is.
func (e *Engine) AddNotes(alias string, trackIndex int, inputs []model.NoteInput) (*model.AddResult, error) {
	entry, err := e.reg.Get(alias)
	if err != nil {
		return nil, err
	}
	doc := entry.Doc
	track, err := e.track(doc, trackIndex)
	if err != nil {
		return nil, err
	}

	prepared := make([]model.Note, 0, len(inputs))
	for _, in := range inputs {
		p, err := pitch.Parse(in.Pitch)
		if err != nil {
			return nil, err
		}
		if in.DurationBeats <= 0 {
			return nil, errors.Wrapf(model.ErrInvalidArgument, "duration %v beats is not positive", in.DurationBeats)
		}
		start, _, err := measure.Range(doc, in.Measure)
		if err != nil {
			return nil, err
		}
		tpb := measure.TicksPerBeat(doc, int64(math.Round(start)))
		tick := int64(math.Round(start + (in.Beat-1)*tpb))
		if tick < 0 {
			return nil, errors.Wrapf(model.ErrInvalidArgument, "beat %v lands before the start of the document", in.Beat)
		}
		duration := int64(math.Round(in.DurationBeats * tpb))
		if duration < 1 {
			return nil, errors.Wrapf(model.ErrInvalidArgument, "duration %v beats rounds to zero ticks", in.DurationBeats)
		}
		velocity := constants.DefaultVelocity
		if in.Velocity != nil {
			velocity = util.Clamp(*in.Velocity, 1, 127)
		}
		prepared = append(prepared, model.Note{
			Pitch:         p,
			StartTick:     tick,
			DurationTicks: duration,
			Velocity:      model.VelocityFromByte(velocity),
		})
	}

	if len(prepared) > 0 {
		track.Notes = append(track.Notes, prepared...)
		entry.Dirty = true
	}

	added := make([]model.NoteInfo, 0, len(prepared))
	for _, n := range prepared {
		m, beat, err := measure.TickToMeasureBeat(doc, n.StartTick)
		if err != nil {
			return nil, err
		}
		added = append(added, model.NoteInfo{
			Track:         trackIndex,
			Measure:       m,
			Beat:          beat,
			Pitch:         n.Pitch,
			Name:          pitch.Name(n.Pitch),
			Velocity:      model.VelocityToByte(n.Velocity),
			StartTick:     n.StartTick,
			DurationTicks: n.DurationTicks,
		})
	}
	return &model.AddResult{Added: added, TrackNotes: len(track.Notes)}, nil
}

// DeleteNotes removes every note of the track whose onset falls inside the
// inclusive measure range, optionally narrowed to a pitch range. Notes
// sustaining into the range from an earlier onset are untouched.
func (e *Engine) DeleteNotes(alias string, trackIndex, startMeasure, endMeasure int, pitchMin, pitchMax *int) (*model.DeleteResult, error) {
	entry, err := e.reg.Get(alias)
	if err != nil {
		return nil, err
	}
	doc := entry.Doc
	track, err := e.track(doc, trackIndex)
	if err != nil {
		return nil, err
	}
	if startMeasure < 1 {
		startMeasure = 1
	}
	if endMeasure < startMeasure {
		endMeasure = startMeasure
	}
	startF, _, err := measure.Range(doc, startMeasure)
	if err != nil {
		return nil, err
	}
	_, endF, err := measure.Range(doc, endMeasure)
	if err != nil {
		return nil, err
	}
	start := int64(math.Round(startF))
	end := int64(math.Round(endF))

	kept := track.Notes[:0]
	removed := 0
	for _, n := range track.Notes {
		match := n.StartTick >= start && n.StartTick < end
		if match && pitchMin != nil && n.Pitch < *pitchMin {
			match = false
		}
		if match && pitchMax != nil && n.Pitch > *pitchMax {
			match = false
		}
		if match {
			removed++
			continue
		}
		kept = append(kept, n)
	}
	track.Notes = kept
	if removed > 0 {
		entry.Dirty = true
	}
	return &model.DeleteResult{Removed: removed, Remaining: len(track.Notes)}, nil
}

// Transpose shifts the pitch of every note whose onset falls in the resolved
// range, clamping the result to the midi range rather than dropping notes
// pushed past a boundary. Returns the number of notes shifted.
func (e *Engine) Transpose(alias string, trackIndex, semitones int, startMeasure, endMeasure *int) (int, error) {
	entry, err := e.reg.Get(alias)
	if err != nil {
		return 0, err
	}
	doc := entry.Doc
	track, err := e.track(doc, trackIndex)
	if err != nil {
		return 0, err
	}
	start, end, err := e.onsetWindow(doc, startMeasure, endMeasure)
	if err != nil {
		return 0, err
	}

	affected := 0
	for i := range track.Notes {
		n := &track.Notes[i]
		if float64(n.StartTick) < start || float64(n.StartTick) >= end {
			continue
		}
		n.Pitch = util.Clamp(n.Pitch+semitones, 0, 127)
		affected++
	}
	if affected > 0 {
		entry.Dirty = true
	}
	return affected, nil
}

// Quantize snaps note onsets in the resolved range to the nearest multiple
// of the grid. Ties round up. Durations never change, and a snapped onset is
// allowed to land outside the requested measure range. Returns the number of
// notes that moved.
func (e *Engine) Quantize(alias string, trackIndex int, gridBeats float64, startMeasure, endMeasure *int) (int, error) {
	entry, err := e.reg.Get(alias)
	if err != nil {
		return 0, err
	}
	doc := entry.Doc
	track, err := e.track(doc, trackIndex)
	if err != nil {
		return 0, err
	}
	gridTicks := int64(math.Round(float64(doc.PPQ) * gridBeats))
	if gridTicks <= 0 {
		return 0, errors.Wrapf(model.ErrInvalidArgument, "grid of %v beats is not positive", gridBeats)
	}
	start, end, err := e.onsetWindow(doc, startMeasure, endMeasure)
	if err != nil {
		return 0, err
	}

	moved := 0
	for i := range track.Notes {
		n := &track.Notes[i]
		if float64(n.StartTick) < start || float64(n.StartTick) >= end {
			continue
		}
		snapped := int64(math.Floor(float64(n.StartTick)/float64(gridTicks)+0.5)) * gridTicks
		if snapped != n.StartTick {
			n.StartTick = snapped
			moved++
		}
	}
	if moved > 0 {
		entry.Dirty = true
	}
	return moved, nil
}

// onsetWindow resolves an optional measure range into a half-open tick
// interval, unbounded on either side the range leaves open.
func (e *Engine) onsetWindow(doc *model.Document, startMeasure, endMeasure *int) (float64, float64, error) {
	start := math.Inf(-1)
	end := math.Inf(1)
	if startMeasure != nil {
		s, _, err := measure.Range(doc, *startMeasure)
		if err != nil {
			return 0, 0, err
		}
		start = s
	}
	if endMeasure != nil {
		_, f, err := measure.Range(doc, *endMeasure)
		if err != nil {
			return 0, 0, err
		}
		end = f
	}
	return start, end, nil
}
