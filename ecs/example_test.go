package ecs_test

import (
	"fmt"

	"github.com/plus3/arcade/ecs"
)

func ExampleStorage() {
	storage := ecs.NewStorage(newTestRegistry())

	id := storage.Spawn(Position{X: 1, Y: 2}, Velocity{DX: 1})
	pos := ecs.ReadComponent[Position](storage, id)
	fmt.Println(pos.X, pos.Y)

	id = storage.AddComponent(id, Health{Current: 3, Max: 3})
	fmt.Println(ecs.ReadComponent[Health](storage, id).Current)
	// Output:
	// 1 2
	// 3
}

func ExampleView() {
	storage := ecs.NewStorage(newTestRegistry())
	storage.Spawn(Position{X: 1}, Velocity{DX: 2})
	storage.Spawn(Position{X: 5})

	view := ecs.NewView[Mover](storage)
	for m := range view.Values() {
		m.X += m.DX
		fmt.Println(m.X)
	}
	// Output: 3
}

func ExampleEntityRef() {
	storage := ecs.NewStorage(newTestRegistry())
	id := storage.Spawn(Position{})
	ref := storage.CreateEntityRef(id)

	storage.AddComponent(id, Name{Value: "tracked"})
	current, _ := storage.ResolveEntityRef(ref)
	fmt.Println(ecs.ReadComponent[Name](storage, current).Value)

	storage.Delete(current)
	fmt.Println(ref.Alive())
	// Output:
	// tracked
	// false
}
