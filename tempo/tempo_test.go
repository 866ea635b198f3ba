package tempo

import (
	"testing"

	"github.com/barline/barline/model"
	"github.com/stretchr/testify/assert"
)

func TestTempoDefaultsTo120(t *testing.T) {
	var m model.TemporalMap

	assert := assert.New(t)
	assert.Equal(120.0, TempoAt(&m, 0))
	assert.Equal(120.0, TempoAt(&m, 99999))
}

func TestTempoIsRightContinuousStepFunction(t *testing.T) {
	var m model.TemporalMap
	assert.NoError(t, SetTempo(&m, 0, 100))
	assert.NoError(t, SetTempo(&m, 960, 140))

	assert := assert.New(t)
	assert.Equal(100.0, TempoAt(&m, 0))
	assert.Equal(100.0, TempoAt(&m, 959))
	assert.Equal(140.0, TempoAt(&m, 960))
	assert.Equal(140.0, TempoAt(&m, 5000))
	// repeated queries are stable
	assert.Equal(140.0, TempoAt(&m, 5000))
}

func TestSetTempoReplacesExistingTick(t *testing.T) {
	var m model.TemporalMap
	assert.NoError(t, SetTempo(&m, 480, 90))
	assert.NoError(t, SetTempo(&m, 480, 180))

	assert := assert.New(t)
	assert.Equal(1, len(m.Tempos))
	assert.Equal(180.0, TempoAt(&m, 480))
}

func TestSetTempoKeepsEventsSorted(t *testing.T) {
	var m model.TemporalMap
	assert.NoError(t, SetTempo(&m, 960, 150))
	assert.NoError(t, SetTempo(&m, 0, 100))
	assert.NoError(t, SetTempo(&m, 480, 120))

	assert := assert.New(t)
	assert.Equal(int64(0), m.Tempos[0].Tick)
	assert.Equal(int64(480), m.Tempos[1].Tick)
	assert.Equal(int64(960), m.Tempos[2].Tick)
}

func TestSetTempoRejectsBadInput(t *testing.T) {
	var m model.TemporalMap

	assert := assert.New(t)
	assert.ErrorIs(SetTempo(&m, -1, 120), model.ErrInvalidArgument)
	assert.ErrorIs(SetTempo(&m, 0, 0), model.ErrInvalidArgument)
	assert.ErrorIs(SetTempo(&m, 0, -10), model.ErrInvalidArgument)
}

func TestTimeSignatureDefaultsToFourFour(t *testing.T) {
	var m model.TemporalMap

	num, den := TimeSignatureAt(&m, 1234)
	assert := assert.New(t)
	assert.Equal(4, num)
	assert.Equal(4, den)
}

func TestTimeSignatureStepFunction(t *testing.T) {
	var m model.TemporalMap
	assert.NoError(t, SetTimeSignature(&m, 0, 3, 4))
	assert.NoError(t, SetTimeSignature(&m, 1440, 7, 8))

	num, den := TimeSignatureAt(&m, 1439)
	assert.Equal(t, 3, num)
	assert.Equal(t, 4, den)

	num, den = TimeSignatureAt(&m, 1440)
	assert.Equal(t, 7, num)
	assert.Equal(t, 8, den)
}

func TestSetTimeSignatureRejectsBadInput(t *testing.T) {
	var m model.TemporalMap

	assert := assert.New(t)
	assert.ErrorIs(SetTimeSignature(&m, 0, 0, 4), model.ErrInvalidArgument)
	assert.ErrorIs(SetTimeSignature(&m, 0, 4, 0), model.ErrInvalidArgument)
	assert.ErrorIs(SetTimeSignature(&m, -5, 4, 4), model.ErrInvalidArgument)
}
