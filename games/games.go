// Package games wires every game into an arcade.Registry.
package games

import (
	"github.com/plus3/arcade/games/arena"
	"github.com/plus3/arcade/games/cave"
	"github.com/plus3/arcade/games/chaser"
	"github.com/plus3/arcade/games/dodge"
	"github.com/plus3/arcade/games/survivors"
	"github.com/plus3/arcade/internal/arcade"
)

// Register adds every game to r. "cave" follows the configured variant;
// "cave-auto" and "cave-manual" pin one.
func Register(r *arcade.Registry) {
	r.Register(survivors.Name, survivors.New)
	r.Register(dodge.Name, dodge.New)
	r.Register(chaser.Name, chaser.New)
	r.Register(cave.Name, cave.New)
	r.Register(cave.Name+"-"+string(cave.Auto), cave.NewVariant(cave.Auto))
	r.Register(cave.Name+"-"+string(cave.Manual), cave.NewVariant(cave.Manual))
	r.Register(arena.Name, arena.New)
}

// NewRegistry returns a registry holding every game.
func NewRegistry() *arcade.Registry {
	r := arcade.NewRegistry()
	Register(r)
	return r
}
