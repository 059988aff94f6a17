package ecs

import (
	"iter"
	"reflect"
)

// ComponentRegistry maps component types to column constructors. Every
// Storage owns one, so independent worlds never share component layouts.
type ComponentRegistry struct {
	columns map[reflect.Type]func() column
}

// NewComponentRegistry returns an empty registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		columns: make(map[reflect.Type]func() column),
	}
}

// RegisterComponent makes T usable as a component. Spawning an entity with an
// unregistered type panics.
func RegisterComponent[T any](r *ComponentRegistry) {
	r.columns[reflect.TypeFor[T]()] = func() column {
		return &blockColumn[T]{}
	}
}

// Registered reports whether t has been registered.
func (r *ComponentRegistry) Registered(t reflect.Type) bool {
	_, ok := r.columns[t]
	return ok
}

func (r *ComponentRegistry) newColumn(t reflect.Type) column {
	ctor, ok := r.columns[t]
	if !ok {
		panic("ecs: component type " + t.String() + " not registered")
	}
	return ctor()
}

// column is the type-erased view of a blockColumn.
type column interface {
	append(item any) int
	remove(index int)
	get(index int) any
	has(index int) bool
	compact() map[int]int
	live() iter.Seq[int]
	len() int
}

const blockSize = 64

// blockColumn stores components in fixed-size blocks. Blocks are allocated
// individually so a pointer returned by get stays valid while other
// components are appended.
type blockColumn[T any] struct {
	blocks []*[blockSize]T
	used   []*[blockSize]bool
	free   []int
	next   int
	count  int
}

func (c *blockColumn[T]) append(item any) int {
	var value T
	switch v := item.(type) {
	case T:
		value = v
	case *T:
		value = *v
	default:
		panic("ecs: component of type " + reflect.TypeOf(item).String() + " appended to wrong column")
	}

	var index int
	if n := len(c.free); n > 0 {
		index = c.free[n-1]
		c.free = c.free[:n-1]
	} else {
		index = c.next
		c.next++
		if index/blockSize >= len(c.blocks) {
			c.blocks = append(c.blocks, new([blockSize]T))
			c.used = append(c.used, new([blockSize]bool))
		}
	}

	c.blocks[index/blockSize][index%blockSize] = value
	c.used[index/blockSize][index%blockSize] = true
	c.count++
	return index
}

func (c *blockColumn[T]) has(index int) bool {
	if index < 0 || index >= c.next {
		return false
	}
	return c.used[index/blockSize][index%blockSize]
}

func (c *blockColumn[T]) get(index int) any {
	if !c.has(index) {
		return nil
	}
	return &c.blocks[index/blockSize][index%blockSize]
}

func (c *blockColumn[T]) remove(index int) {
	if !c.has(index) {
		return
	}
	var zero T
	c.blocks[index/blockSize][index%blockSize] = zero
	c.used[index/blockSize][index%blockSize] = false
	c.free = append(c.free, index)
	c.count--
}

func (c *blockColumn[T]) len() int {
	return c.count
}

// compact packs live components to the front and returns old -> new indices.
func (c *blockColumn[T]) compact() map[int]int {
	moved := make(map[int]int, c.count)
	if c.count == 0 {
		c.blocks, c.used, c.free, c.next = nil, nil, nil, 0
		return moved
	}

	nblocks := (c.count + blockSize - 1) / blockSize
	blocks := make([]*[blockSize]T, nblocks)
	used := make([]*[blockSize]bool, nblocks)
	for i := range blocks {
		blocks[i] = new([blockSize]T)
		used[i] = new([blockSize]bool)
	}

	w := 0
	for r := range c.live() {
		blocks[w/blockSize][w%blockSize] = c.blocks[r/blockSize][r%blockSize]
		used[w/blockSize][w%blockSize] = true
		moved[r] = w
		w++
	}

	c.blocks, c.used, c.free, c.next = blocks, used, nil, w
	return moved
}

func (c *blockColumn[T]) live() iter.Seq[int] {
	return func(yield func(int) bool) {
		for i := 0; i < c.next; i++ {
			if !c.used[i/blockSize][i%blockSize] {
				continue
			}
			if !yield(i) {
				return
			}
		}
	}
}
