package midi

import (
	"bytes"
	"os"
	"sort"

	"github.com/barline/barline/constants"
	"github.com/barline/barline/model"
	"github.com/barline/barline/tempo"
	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// Codec between standard midi file bytes and the document model. The smf
// package does the wire-level work; this package reshapes its event streams
// into absolute-tick notes and the temporal map, and back.

func ReadMidiFile(filepath string) (*model.Document, error) {
	dat, err := os.ReadFile(filepath)
	if err != nil {
		return nil, errors.Wrapf(model.ErrIOFailure, "reading midi file: %v", err)
	}
	return ParseDocument(dat)
}

func WriteMidiFile(filepath string, doc *model.Document) error {
	dat, err := SerializeDocument(doc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath, dat, 0644); err != nil {
		return errors.Wrapf(model.ErrIOFailure, "writing midi file: %v", err)
	}
	return nil
}

// ParseDocument decodes midi bytes into a document. A leading track that
// carries only meta events (the conductor track of a format 1 file) is
// folded into the temporal map and the document name; every later track
// becomes a model track even when empty, so track indices survive a save and
// reload unchanged.
func ParseDocument(dat []byte) (doc *model.Document, e error) {
	// the smf reader panics on some malformed files
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if r := recover(); r != nil {
			doc = nil
			e = errors.Wrapf(model.ErrFormat, "parsing midi file: %v", r)
		}
	}()

	s, err := smf.ReadFrom(bytes.NewReader(dat))
	if err != nil {
		return nil, errors.Wrapf(model.ErrFormat, "parsing midi file: %v", err)
	}

	mt, ok := s.TimeFormat.(smf.MetricTicks)
	if !ok {
		return nil, errors.Wrap(model.ErrFormat, "smpte time format is not supported")
	}

	doc = &model.Document{PPQ: int(mt)}
	for i, events := range s.Tracks {
		track, err := parseTrack(doc, events)
		if err != nil {
			return nil, err
		}
		if i == 0 && len(track.Notes) == 0 && track.ProgramName == "" {
			doc.Name = track.Name
			continue
		}
		doc.Tracks = append(doc.Tracks, track)
	}
	return doc, nil
}

type openNote struct {
	startTick int64
	velocity  uint8
}

func parseTrack(doc *model.Document, events smf.Track) (*model.Track, error) {
	track := &model.Track{}
	open := make(map[[2]uint8][]openNote)

	var absTicks int64
	for _, event := range events {
		absTicks += int64(event.Delta)
		var channel, key, velocity, num, den, program uint8
		var bpm float64
		var name string
		switch {
		case event.Message.GetNoteStart(&channel, &key, &velocity):
			track.Channel = channel
			k := [2]uint8{channel, key}
			open[k] = append(open[k], openNote{startTick: absTicks, velocity: velocity})
		case event.Message.GetNoteEnd(&channel, &key):
			k := [2]uint8{channel, key}
			pending := open[k]
			if len(pending) == 0 {
				continue
			}
			on := pending[len(pending)-1]
			open[k] = pending[:len(pending)-1]
			duration := absTicks - on.startTick
			if duration < 1 {
				duration = 1
			}
			track.Notes = append(track.Notes, model.Note{
				Pitch:         int(key),
				StartTick:     on.startTick,
				DurationTicks: duration,
				Velocity:      float64(on.velocity) / 127,
			})
		case event.Message.GetMetaTempo(&bpm):
			if err := tempo.SetTempo(&doc.Map, absTicks, bpm); err != nil {
				return nil, errors.Wrapf(model.ErrFormat, "tempo event at tick %d: %v", absTicks, err)
			}
		case event.Message.GetMetaMeter(&num, &den):
			if err := tempo.SetTimeSignature(&doc.Map, absTicks, int(num), int(den)); err != nil {
				return nil, errors.Wrapf(model.ErrFormat, "time signature event at tick %d: %v", absTicks, err)
			}
		case event.Message.GetMetaTrackName(&name):
			if track.Name == "" {
				track.Name = name
			}
		case event.Message.GetProgramChange(&channel, &program):
			track.Channel = channel
			track.Program = program
			track.ProgramName = constants.ProgramName(program)
		}
	}
	return track, nil
}

type absEvent struct {
	tick int64
	// note offs sort before note ons at the same tick so back-to-back
	// repetitions of a pitch pair up correctly
	order int
	msg   smf.Message
}

// SerializeDocument encodes a document as a format 1 midi file: a conductor
// track holding the name, tempo and time signature events, then one track
// per model track.
func SerializeDocument(doc *model.Document) ([]byte, error) {
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(doc.PPQ)

	var conductor []absEvent
	if doc.Name != "" {
		conductor = append(conductor, absEvent{msg: smf.MetaTrackSequenceName(doc.Name)})
	}
	for _, ev := range doc.Map.Tempos {
		conductor = append(conductor, absEvent{tick: ev.Tick, order: 1, msg: smf.MetaTempo(ev.BPM)})
	}
	for _, ev := range doc.Map.TimeSigs {
		conductor = append(conductor, absEvent{tick: ev.Tick, order: 1, msg: smf.MetaMeter(uint8(ev.Numerator), uint8(ev.Denominator))})
	}
	addTrack(s, conductor)

	for _, track := range doc.Tracks {
		var events []absEvent
		if track.Name != "" {
			events = append(events, absEvent{msg: smf.MetaTrackSequenceName(track.Name)})
		}
		if track.ProgramName != "" {
			events = append(events, absEvent{msg: smf.MetaInstrument(track.ProgramName)})
			events = append(events, absEvent{msg: smf.Message(midi.ProgramChange(track.Channel, track.Program))})
		}
		for _, n := range track.Notes {
			velocity := uint8(model.VelocityToByte(n.Velocity))
			events = append(events, absEvent{
				tick:  n.StartTick,
				order: 2,
				msg:   smf.Message(midi.NoteOn(track.Channel, uint8(n.Pitch), velocity)),
			})
			events = append(events, absEvent{
				tick:  n.StartTick + n.DurationTicks,
				order: 1,
				msg:   smf.Message(midi.NoteOff(track.Channel, uint8(n.Pitch))),
			})
		}
		addTrack(s, events)
	}

	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		return nil, errors.Wrapf(model.ErrFormat, "serializing midi file: %v", err)
	}
	return buf.Bytes(), nil
}

func addTrack(s *smf.SMF, events []absEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].tick != events[j].tick {
			return events[i].tick < events[j].tick
		}
		return events[i].order < events[j].order
	})

	var tr smf.Track
	var lastTick int64
	for _, ev := range events {
		tr.Add(uint32(ev.tick-lastTick), ev.msg)
		lastTick = ev.tick
	}
	tr.Close(0)
	s.Add(tr)
}
