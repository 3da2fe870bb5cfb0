// Package shader owns compiled GPU programs keyed by purpose tag.
package shader

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by Registry.Get for a tag with no program.
var ErrNotFound = errors.New("shader program not found")

// Registry owns at most one program per tag.
type Registry struct {
	programs map[Tag]*Program
}

func NewRegistry() *Registry {
	return &Registry{programs: make(map[Tag]*Program)}
}

// Register stores p under its tag. A program already stored under that tag
// is released and replaced.
func (r *Registry) Register(p *Program) {
	if p == nil {
		panic("shader: Register called with nil program")
	}
	if prev, ok := r.programs[p.tag]; ok && prev != p {
		prev.release()
	}
	r.programs[p.tag] = p
}

// Get returns the program registered for tag.
func (r *Registry) Get(tag Tag) (*Program, error) {
	p, ok := r.programs[tag]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, tag)
	}
	return p, nil
}

// Len reports how many tags have a live program.
func (r *Registry) Len() int {
	return len(r.programs)
}

// Release deletes every program and empties the registry.
func (r *Registry) Release() {
	for tag, p := range r.programs {
		p.release()
		delete(r.programs, tag)
	}
}
