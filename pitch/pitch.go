package pitch

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/barline/barline/model"
	"github.com/pkg/errors"
)

// Scientific pitch notation codec. Names are emitted with sharps only;
// parsing accepts both sharps and flats (not mixed) and any signed octave,
// as long as the result lands in the 0-127 midi range. Pitch 60 is "C4".

var sharpNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

var letterBase = map[string]int{
	"C": 0, "D": 2, "E": 4, "F": 5, "G": 7, "A": 9, "B": 11,
}

var nameRe = regexp.MustCompile(`^([A-Ga-g])(#+|b+)?(-?\d+)$`)
var classRe = regexp.MustCompile(`^([A-Ga-g])(#+|b+)?$`)

// Name encodes a 0-127 pitch number as scientific pitch notation.
func Name(p int) string {
	octave := p/12 - 1
	return sharpNames[p%12] + strconv.Itoa(octave)
}

// Parse decodes scientific pitch notation into a pitch number.
func Parse(name string) (int, error) {
	m := nameRe.FindStringSubmatch(name)
	if m == nil {
		return 0, errors.Wrapf(model.ErrInvalidArgument, "cannot parse pitch name %q", name)
	}
	octave, err := strconv.Atoi(m[3])
	if err != nil {
		return 0, errors.Wrapf(model.ErrInvalidArgument, "cannot parse octave in %q", name)
	}
	p := (octave+1)*12 + letterBase[strings.ToUpper(m[1])] + accidentalSum(m[2])
	if p < 0 || p > 127 {
		return 0, errors.Wrapf(model.ErrInvalidArgument, "pitch %q is outside the midi range (%d)", name, p)
	}
	return p, nil
}

// ParseClass decodes an octave-free pitch class like "C#" or "eb" into its
// chromatic class 0-11.
func ParseClass(name string) (int, error) {
	m := classRe.FindStringSubmatch(name)
	if m == nil {
		return 0, errors.Wrapf(model.ErrInvalidArgument, "cannot parse pitch class %q", name)
	}
	c := letterBase[strings.ToUpper(m[1])] + accidentalSum(m[2])
	return ((c % 12) + 12) % 12, nil
}

func accidentalSum(acc string) int {
	if strings.HasPrefix(acc, "b") {
		return -len(acc)
	}
	return len(acc)
}

// FormatWithVelocity is a convenience for log and CLI output, e.g. "C4(90)".
func FormatWithVelocity(p int, velocity int) string {
	return fmt.Sprintf("%v(%v)", Name(p), velocity)
}
