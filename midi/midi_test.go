package midi

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/barline/barline/model"
	"github.com/barline/barline/tempo"
	"github.com/stretchr/testify/assert"
	"gitlab.com/gomidi/midi/v2/smf"
)

func testDocument(t *testing.T) *model.Document {
	doc := &model.Document{Name: "Test Song", PPQ: 480}
	assert.NoError(t, tempo.SetTempo(&doc.Map, 0, 100))
	assert.NoError(t, tempo.SetTimeSignature(&doc.Map, 0, 3, 4))
	assert.NoError(t, tempo.SetTimeSignature(&doc.Map, 2880, 4, 4))
	doc.Tracks = append(doc.Tracks, &model.Track{
		Name:        "Piano",
		Channel:     0,
		Program:     0,
		ProgramName: "Acoustic Grand Piano",
		Notes: []model.Note{
			{Pitch: 60, StartTick: 0, DurationTicks: 480, Velocity: model.VelocityFromByte(80)},
			{Pitch: 64, StartTick: 480, DurationTicks: 240, Velocity: model.VelocityFromByte(100)},
			{Pitch: 60, StartTick: 720, DurationTicks: 240, Velocity: model.VelocityFromByte(64)},
		},
	})
	return doc
}

func TestSerializeParseRoundTrip(t *testing.T) {
	doc := testDocument(t)

	dat, err := SerializeDocument(doc)
	assert := assert.New(t)
	assert.NoError(err)

	got, err := ParseDocument(dat)
	assert.NoError(err)
	assert.Equal("Test Song", got.Name)
	assert.Equal(480, got.PPQ)

	assert.Equal(1, len(got.Map.Tempos))
	assert.InDelta(100.0, got.Map.Tempos[0].BPM, 0.01)
	assert.Equal(2, len(got.Map.TimeSigs))
	assert.Equal(3, got.Map.TimeSigs[0].Numerator)
	assert.Equal(4, got.Map.TimeSigs[0].Denominator)
	assert.Equal(int64(2880), got.Map.TimeSigs[1].Tick)

	assert.Equal(1, len(got.Tracks))
	track := got.Tracks[0]
	assert.Equal("Piano", track.Name)
	assert.Equal("Acoustic Grand Piano", track.ProgramName)
	assert.Equal(3, len(track.Notes))
	for i, n := range track.Notes {
		want := doc.Tracks[0].Notes[i]
		assert.Equal(want.Pitch, n.Pitch)
		assert.Equal(want.StartTick, n.StartTick)
		assert.Equal(want.DurationTicks, n.DurationTicks)
		assert.Equal(model.VelocityToByte(want.Velocity), model.VelocityToByte(n.Velocity))
	}
}

func TestEmptyTrackSurvivesRoundTrip(t *testing.T) {
	doc := testDocument(t)
	doc.Tracks = append(doc.Tracks, &model.Track{Name: "Reserved", Channel: 1})

	dat, err := SerializeDocument(doc)
	assert := assert.New(t)
	assert.NoError(err)

	got, err := ParseDocument(dat)
	assert.NoError(err)
	assert.Equal(2, len(got.Tracks))
	assert.Equal("Piano", got.Tracks[0].Name)
	assert.Equal("Reserved", got.Tracks[1].Name)
	assert.Equal(0, len(got.Tracks[1].Notes))
}

func TestParseRejectsInvalidMeter(t *testing.T) {
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(480)
	var tr smf.Track
	tr.Add(0, smf.MetaMeter(0, 4))
	tr.Close(0)
	s.Add(tr)

	var buf bytes.Buffer
	_, err := s.WriteTo(&buf)
	assert := assert.New(t)
	assert.NoError(err)

	_, err = ParseDocument(buf.Bytes())
	assert.ErrorIs(err, model.ErrFormat)
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := ParseDocument([]byte("this is not a midi file"))
	assert.ErrorIs(t, err, model.ErrFormat)
}

func TestReadMissingFileFails(t *testing.T) {
	_, err := ReadMidiFile(filepath.Join(t.TempDir(), "missing.mid"))
	assert.ErrorIs(t, err, model.ErrIOFailure)
}

func TestWriteThenReadFile(t *testing.T) {
	doc := testDocument(t)
	path := filepath.Join(t.TempDir(), "song.mid")

	assert := assert.New(t)
	assert.NoError(WriteMidiFile(path, doc))

	info, err := os.Stat(path)
	assert.NoError(err)
	assert.Greater(info.Size(), int64(0))

	got, err := ReadMidiFile(path)
	assert.NoError(err)
	assert.Equal(1, len(got.Tracks))
	assert.Equal(3, len(got.Tracks[0].Notes))
}
