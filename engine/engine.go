package engine

import (
	"github.com/barline/barline/model"
	"github.com/barline/barline/registry"
	"github.com/pkg/errors"
)

// Engine exposes every document operation in musical coordinates. It owns no
// state of its own; all open documents live in the registry handed to New.
type Engine struct {
	reg *registry.Registry
}

func New(reg *registry.Registry) *Engine {
	return &Engine{reg: reg}
}

func (e *Engine) track(doc *model.Document, index int) (*model.Track, error) {
	if index < 0 || index >= len(doc.Tracks) {
		return nil, errors.Wrapf(model.ErrNotFound, "track %d does not exist (document has %d tracks)", index, len(doc.Tracks))
	}
	return doc.Tracks[index], nil
}
