package arcade

import (
	"errors"
	"fmt"
	"slices"
)

// ErrUnknownGame is returned by Lookup for names nobody registered.
var ErrUnknownGame = errors.New("unknown game")

// Factory builds a fresh World.
type Factory func(env Env) (*World, error)

type Registry struct {
	factories map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a game. Registering a name twice panics.
func (r *Registry) Register(name string, factory Factory) {
	if _, ok := r.factories[name]; ok {
		panic("arcade: game " + name + " registered twice")
	}
	r.factories[name] = factory
}

func (r *Registry) Lookup(name string) (Factory, error) {
	f, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("%w %q (have %v)", ErrUnknownGame, name, r.Names())
	}
	return f, nil
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Build looks up name and runs its factory.
func (r *Registry) Build(name string, env Env) (*World, error) {
	factory, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}
	w, err := factory(env)
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", name, err)
	}
	return w, nil
}
