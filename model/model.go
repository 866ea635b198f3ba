package model

import "math"

// TempoEvent sets the tempo in effect from Tick onward.
type TempoEvent struct {
	Tick int64
	BPM  float64
}

// TimeSigEvent sets the time signature in effect from Tick onward.
type TimeSigEvent struct {
	Tick        int64
	Numerator   int
	Denominator int
}

// TemporalMap holds the tempo and time signature changes of a document as two
// independent event lists, each sorted by tick with at most one event per
// tick. Both behave as right-continuous step functions: the value in effect
// at tick T is the value of the last event at or before T.
type TemporalMap struct {
	Tempos   []TempoEvent
	TimeSigs []TimeSigEvent
}

// Note is a single note exclusively owned by one track. StartTick is absolute
// from the start of the document. Velocity is stored normalized in [0, 1] and
// exposed as 1-127 at the API boundary.
type Note struct {
	Pitch         int
	StartTick     int64
	DurationTicks int64
	Velocity      float64
}

type Track struct {
	Name        string
	Channel     uint8
	Program     uint8
	ProgramName string
	Notes       []Note
}

// Document is the unit of load/save/unload. PPQ is fixed at creation/load.
type Document struct {
	Name   string
	PPQ    int
	Map    TemporalMap
	Tracks []*Track
}

// VelocityToByte converts a normalized velocity to the 1-127 range used
// everywhere callers see velocities. Anything audible maps to at least 1.
func VelocityToByte(v float64) int {
	b := int(math.Round(v * 127))
	if b < 1 {
		return 1
	}
	if b > 127 {
		return 127
	}
	return b
}

func VelocityFromByte(b int) float64 {
	return float64(b) / 127
}
