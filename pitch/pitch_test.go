package pitch

import (
	"fmt"
	"testing"

	"github.com/barline/barline/model"
	"github.com/stretchr/testify/assert"
)

func TestNameMiddleC(t *testing.T) {
	assert.Equal(t, "C4", Name(60))
}

func TestNameUsesSharpsOnly(t *testing.T) {
	assert := assert.New(t)
	assert.Equal("C#4", Name(61))
	assert.Equal("A#0", Name(22))
	assert.Equal("G9", Name(127))
	assert.Equal("C-1", Name(0))
}

func TestParse(t *testing.T) {
	cases := []struct {
		name string
		want int
	}{
		{"C4", 60},
		{"c4", 60},
		{"F#3", 54},
		{"Bb5", 82},
		{"bb5", 82},
		{"C-1", 0},
		{"G9", 127},
		{"Cbb4", 58},
		{"D##4", 64},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := Parse(c.name)
			assert.NoError(t, err)
			assert.Equal(t, c.want, got)
		})
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	cases := []string{"H2", "", "C", "4", "C#b4", "Cb#4", "C4x", "#4"}
	for _, c := range cases {
		t.Run(fmt.Sprintf("reject %q", c), func(t *testing.T) {
			_, err := Parse(c)
			assert.ErrorIs(t, err, model.ErrInvalidArgument)
		})
	}
}

func TestParseRejectsOutOfRange(t *testing.T) {
	assert := assert.New(t)

	_, err := Parse("G#9")
	assert.ErrorIs(err, model.ErrInvalidArgument)
	_, err = Parse("B-2")
	assert.ErrorIs(err, model.ErrInvalidArgument)
}

func TestRoundTripAllPitches(t *testing.T) {
	for p := 0; p < 128; p++ {
		got, err := Parse(Name(p))
		assert.NoError(t, err)
		assert.Equal(t, p, got)
	}
}

func TestParseClass(t *testing.T) {
	cases := []struct {
		name string
		want int
	}{
		{"C", 0},
		{"c#", 1},
		{"Db", 1},
		{"B", 11},
		{"Cb", 11},
		{"B#", 0},
	}
	for _, c := range cases {
		got, err := ParseClass(c.name)
		assert.NoError(t, err)
		assert.Equal(t, c.want, got, c.name)
	}

	_, err := ParseClass("H")
	assert.ErrorIs(t, err, model.ErrInvalidArgument)
	_, err = ParseClass("C4")
	assert.ErrorIs(t, err, model.ErrInvalidArgument)
}
