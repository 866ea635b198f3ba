package engine

import (
	"fmt"

	"github.com/barline/barline/constants"
	"github.com/barline/barline/model"
	"github.com/barline/barline/tempo"
	"github.com/pkg/errors"
)

// SetTempo writes a tempo change at tick, replacing any change already there.
func (e *Engine) SetTempo(alias string, tick int64, bpm float64) error {
	entry, err := e.reg.Get(alias)
	if err != nil {
		return err
	}
	if err := tempo.SetTempo(&entry.Doc.Map, tick, bpm); err != nil {
		return err
	}
	entry.Dirty = true
	return nil
}

// SetTimeSignature writes a time signature change at tick, replacing any
// change already there.
func (e *Engine) SetTimeSignature(alias string, tick int64, num, den int) error {
	entry, err := e.reg.Get(alias)
	if err != nil {
		return err
	}
	if err := tempo.SetTimeSignature(&entry.Doc.Map, tick, num, den); err != nil {
		return err
	}
	entry.Dirty = true
	return nil
}

// AddTrack appends a track (tracks are never inserted or reordered) and
// returns its index. An empty name defaults to one derived from the index.
func (e *Engine) AddTrack(alias, name string, channel int, program *int) (int, error) {
	entry, err := e.reg.Get(alias)
	if err != nil {
		return 0, err
	}
	doc := entry.Doc
	if channel < 0 || channel > 15 {
		return 0, errors.Wrapf(model.ErrInvalidArgument, "channel %d is outside 0-15", channel)
	}
	if name == "" {
		name = fmt.Sprintf("Track %d", len(doc.Tracks)+1)
	}
	track := &model.Track{Name: name, Channel: uint8(channel)}
	if program != nil {
		if *program < 0 || *program > 127 {
			return 0, errors.Wrapf(model.ErrInvalidArgument, "program %d is outside 0-127", *program)
		}
		track.Program = uint8(*program)
		track.ProgramName = constants.ProgramName(track.Program)
	}
	doc.Tracks = append(doc.Tracks, track)
	entry.Dirty = true
	return len(doc.Tracks) - 1, nil
}

// SetInstrument assigns a General MIDI program to a track.
func (e *Engine) SetInstrument(alias string, trackIndex, program int) error {
	entry, err := e.reg.Get(alias)
	if err != nil {
		return err
	}
	track, err := e.track(entry.Doc, trackIndex)
	if err != nil {
		return err
	}
	if program < 0 || program > 127 {
		return errors.Wrapf(model.ErrInvalidArgument, "program %d is outside 0-127", program)
	}
	track.Program = uint8(program)
	track.ProgramName = constants.ProgramName(track.Program)
	entry.Dirty = true
	return nil
}
