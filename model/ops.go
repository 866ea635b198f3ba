package model

// Request/result types shared by the engine and the HTTP layer. Optional
// filter fields are pointers: nil means the filter imposes no constraint.

type CreateOptions struct {
	Alias       string  `json:"alias,omitempty"`
	Name        string  `json:"name,omitempty"`
	PPQ         int     `json:"ppq,omitempty"`
	BPM         float64 `json:"bpm,omitempty"`
	Numerator   int     `json:"numerator,omitempty"`
	Denominator int     `json:"denominator,omitempty"`
}

type DocumentInfo struct {
	Alias         string `json:"alias"`
	Name          string `json:"name,omitempty"`
	Path          string `json:"path,omitempty"`
	Dirty         bool   `json:"dirty"`
	TrackCount    int    `json:"track_count"`
	NoteCount     int    `json:"note_count"`
	TotalMeasures int    `json:"total_measures"`
}

type SearchFilters struct {
	PitchMin     *int    `json:"pitch_min,omitempty"`
	PitchMax     *int    `json:"pitch_max,omitempty"`
	PitchClass   *string `json:"pitch_class,omitempty"`
	Track        *int    `json:"track,omitempty"`
	MeasureStart *int    `json:"measure_start,omitempty"`
	MeasureEnd   *int    `json:"measure_end,omitempty"`
}

// NoteInfo is a note with its derived musical coordinates filled in.
type NoteInfo struct {
	Track         int     `json:"track"`
	Measure       int     `json:"measure"`
	Beat          float64 `json:"beat"`
	Pitch         int     `json:"pitch"`
	Name          string  `json:"name"`
	Velocity      int     `json:"velocity"`
	StartTick     int64   `json:"start_tick"`
	DurationTicks int64   `json:"duration_ticks"`
}

type SearchResult struct {
	TotalMatches int        `json:"total_matches"`
	Notes        []NoteInfo `json:"notes"`
}

type NoteInput struct {
	Measure       int     `json:"measure"`
	Beat          float64 `json:"beat"`
	Pitch         string  `json:"pitch"`
	DurationBeats float64 `json:"duration_beats"`
	Velocity      *int    `json:"velocity,omitempty"`
}

type AddResult struct {
	Added      []NoteInfo `json:"added"`
	TrackNotes int        `json:"track_notes"`
}

type DeleteResult struct {
	Removed   int `json:"removed"`
	Remaining int `json:"remaining"`
}

type MeasureNote struct {
	Beat          float64 `json:"beat"`
	Pitch         int     `json:"pitch"`
	Name          string  `json:"name"`
	Velocity      int     `json:"velocity"`
	DurationBeats float64 `json:"duration_beats"`
	Track         int     `json:"track"`
}

type MeasureInfo struct {
	Number      int           `json:"number"`
	StartTick   int64         `json:"start_tick"`
	EndTick     int64         `json:"end_tick"`
	BPM         float64       `json:"bpm"`
	Numerator   int           `json:"numerator"`
	Denominator int           `json:"denominator"`
	Notes       []MeasureNote `json:"notes"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
