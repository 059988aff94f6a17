package ecs_test

import "github.com/plus3/arcade/ecs"

type Position struct {
	X, Y float32
}

type Velocity struct {
	DX, DY float32
}

type Health struct {
	Current int
	Max     int
}

type Name struct {
	Value string
}

type Bullet struct{}

type Score int32

func newTestRegistry() *ecs.ComponentRegistry {
	r := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Position](r)
	ecs.RegisterComponent[Velocity](r)
	ecs.RegisterComponent[Health](r)
	ecs.RegisterComponent[Name](r)
	ecs.RegisterComponent[Bullet](r)
	ecs.RegisterComponent[Score](r)
	return r
}
