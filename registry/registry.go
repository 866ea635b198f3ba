package registry

import (
	"sort"

	"github.com/barline/barline/model"
	"github.com/barline/barline/util"
	"github.com/pkg/errors"
)

// Entry is one open document plus its bookkeeping: where it came from and
// whether it has unsaved mutations.
type Entry struct {
	Doc   *model.Document
	Path  string
	Dirty bool
}

// Registry maps aliases to open documents. It is an explicit object owned by
// the caller, not process-wide state, and does no locking: operations on one
// registry must come from a single logical thread of control.
type Registry struct {
	entries map[string]*Entry
}

func New() *Registry {
	return &Registry{entries: make(map[string]*Entry)}
}

// Put registers an entry under alias. An existing entry under the same alias
// is overwritten, never merged.
func (r *Registry) Put(alias string, e *Entry) {
	r.entries[alias] = e
}

func (r *Registry) Get(alias string) (*Entry, error) {
	e, ok := r.entries[alias]
	if !ok {
		return nil, errors.Wrapf(model.ErrNotFound, "no open document %q", alias)
	}
	return e, nil
}

// Remove drops the entry for alias and returns it.
func (r *Registry) Remove(alias string) (*Entry, error) {
	e, err := r.Get(alias)
	if err != nil {
		return nil, err
	}
	delete(r.entries, alias)
	return e, nil
}

// Aliases returns every registered alias in sorted order.
func (r *Registry) Aliases() []string {
	keys := util.GetKeys(r.entries)
	sort.Strings(keys)
	return keys
}

func (r *Registry) Len() int {
	return len(r.entries)
}
