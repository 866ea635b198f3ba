package engine

import (
	"path/filepath"
	"strings"

	"github.com/barline/barline/constants"
	"github.com/barline/barline/measure"
	"github.com/barline/barline/midi"
	"github.com/barline/barline/model"
	"github.com/barline/barline/registry"
	"github.com/barline/barline/tempo"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Load parses the midi file at path and registers it under alias. An empty
// alias is derived from the file name without its extension. Loading onto an
// existing alias overwrites that entry.
func (e *Engine) Load(path, alias string) (string, error) {
	doc, err := midi.ReadMidiFile(path)
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrapf(model.ErrIOFailure, "resolving path %q: %v", path, err)
	}
	if alias == "" {
		alias = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	e.reg.Put(alias, &registry.Entry{Doc: doc, Path: abs})
	return alias, nil
}

// Create registers a new empty document seeded with a tempo and a time
// signature event at tick 0. The document starts dirty since it exists
// nowhere on disk yet.
func (e *Engine) Create(opts model.CreateOptions) (string, error) {
	ppq := opts.PPQ
	if ppq == 0 {
		ppq = constants.DefaultPPQ
	}
	if ppq < 0 {
		return "", errors.Wrapf(model.ErrInvalidArgument, "ppq %d is not positive", ppq)
	}
	bpm := opts.BPM
	if bpm == 0 {
		bpm = constants.DefaultBPM
	}
	num, den := opts.Numerator, opts.Denominator
	if num == 0 {
		num = constants.DefaultNumerator
	}
	if den == 0 {
		den = constants.DefaultDenominator
	}

	doc := &model.Document{Name: opts.Name, PPQ: ppq}
	if err := tempo.SetTempo(&doc.Map, 0, bpm); err != nil {
		return "", err
	}
	if err := tempo.SetTimeSignature(&doc.Map, 0, num, den); err != nil {
		return "", err
	}

	alias := opts.Alias
	if alias == "" {
		alias = uuid.New().String()
	}
	e.reg.Put(alias, &registry.Entry{Doc: doc, Dirty: true})
	return alias, nil
}

// Save serializes the document to newPath, or to its stored path when
// newPath is empty, then clears the dirty flag and remembers the path.
func (e *Engine) Save(alias, newPath string) (string, error) {
	entry, err := e.reg.Get(alias)
	if err != nil {
		return "", err
	}
	path := newPath
	if path == "" {
		path = entry.Path
	}
	if path == "" {
		return "", errors.Wrapf(model.ErrInvalidArgument, "document %q has no stored path and none was given", alias)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrapf(model.ErrIOFailure, "resolving path %q: %v", path, err)
	}
	if err := midi.WriteMidiFile(abs, entry.Doc); err != nil {
		return "", err
	}
	entry.Path = abs
	entry.Dirty = false
	return abs, nil
}

// Unload drops the document and reports whether unsaved changes existed.
func (e *Engine) Unload(alias string) (bool, error) {
	entry, err := e.reg.Remove(alias)
	if err != nil {
		return false, err
	}
	return entry.Dirty, nil
}

// List snapshots every open document. It recomputes counts on each call so
// re-querying always reflects current state.
func (e *Engine) List() ([]model.DocumentInfo, error) {
	infos := make([]model.DocumentInfo, 0, e.reg.Len())
	for _, alias := range e.reg.Aliases() {
		entry, err := e.reg.Get(alias)
		if err != nil {
			return nil, err
		}
		total, err := measure.TotalMeasures(entry.Doc)
		if err != nil {
			return nil, err
		}
		noteCount := 0
		for _, tr := range entry.Doc.Tracks {
			noteCount += len(tr.Notes)
		}
		infos = append(infos, model.DocumentInfo{
			Alias:         alias,
			Name:          entry.Doc.Name,
			Path:          entry.Path,
			Dirty:         entry.Dirty,
			TrackCount:    len(entry.Doc.Tracks),
			NoteCount:     noteCount,
			TotalMeasures: total,
		})
	}
	return infos, nil
}
