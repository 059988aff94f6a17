package ecs

import (
	"slices"
	"strings"
)

// StorageStats is a point-in-time census of a Storage.
type StorageStats struct {
	ArchetypeCount     int
	TotalEntityCount   int
	SingletonCount     int
	ArchetypeBreakdown []ArchetypeStats
	SingletonTypes     []string
}

// ArchetypeStats describes one archetype.
type ArchetypeStats struct {
	ID             uint32
	ComponentTypes []string
	EntityCount    int
}

// Label joins the component type names.
func (a ArchetypeStats) Label() string {
	return strings.Join(a.ComponentTypes, ", ")
}

// CollectStats walks the storage and counts entities per archetype.
func (s *Storage) CollectStats() *StorageStats {
	stats := &StorageStats{
		ArchetypeCount: len(s.archetypes),
		SingletonCount: len(s.singletons),
	}

	for _, a := range s.archetypes {
		names := make([]string, len(a.types))
		for i, t := range a.types {
			names[i] = t.String()
		}
		n := a.Len()
		stats.TotalEntityCount += n
		stats.ArchetypeBreakdown = append(stats.ArchetypeBreakdown, ArchetypeStats{
			ID:             a.id,
			ComponentTypes: names,
			EntityCount:    n,
		})
	}
	slices.SortFunc(stats.ArchetypeBreakdown, func(a, b ArchetypeStats) int {
		return strings.Compare(a.Label(), b.Label())
	})

	for t := range s.singletons {
		stats.SingletonTypes = append(stats.SingletonTypes, t.String())
	}
	slices.Sort(stats.SingletonTypes)

	return stats
}
