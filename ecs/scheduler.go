package ecs

import (
	"context"
	"reflect"
	"time"
)

// System is one step of the frame. Systems may declare Query and Singleton
// fields; Scheduler.Register wires them to the storage.
type System interface {
	Execute(frame *UpdateFrame)
}

// UpdateFrame is handed to every system of a frame.
type UpdateFrame struct {
	DeltaTime float64
	Frame     int64
	Commands  *Commands
	Storage   *Storage
}

// SchedulerStats summarizes system timings.
type SchedulerStats struct {
	SystemCount     int
	TotalExecutions int64
	Systems         []SystemStats
}

// SystemStats holds timings for one system.
type SystemStats struct {
	Name           string
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type storageBinder interface {
	Init(*Storage)
}

type snapshotter interface {
	Execute()
}

type registeredSystem struct {
	system  System
	queries []snapshotter
	stats   SystemStats
}

// Scheduler runs systems in registration order.
type Scheduler struct {
	storage  *Storage
	systems  []*registeredSystem
	commands *Commands
	frame    int64
}

// NewScheduler creates a scheduler for storage.
func NewScheduler(storage *Storage) *Scheduler {
	return &Scheduler{
		storage:  storage,
		commands: NewCommands(),
	}
}

// Storage returns the storage systems run against.
func (s *Scheduler) Storage() *Storage {
	return s.storage
}

// Register binds the system's Query and Singleton fields and appends it.
func (s *Scheduler) Register(system System) {
	rs := &registeredSystem{
		system: system,
		stats:  SystemStats{Name: systemName(system), MinDuration: time.Duration(1<<63 - 1)},
	}

	sv := reflect.ValueOf(system)
	if sv.Kind() == reflect.Pointer {
		sv = sv.Elem()
	}
	if sv.Kind() == reflect.Struct {
		for i := 0; i < sv.NumField(); i++ {
			field := sv.Field(i)
			if !field.CanAddr() || !field.Addr().CanInterface() {
				continue
			}
			binder, ok := field.Addr().Interface().(storageBinder)
			if !ok {
				continue
			}
			binder.Init(s.storage)
			if q, ok := binder.(snapshotter); ok {
				rs.queries = append(rs.queries, q)
			}
		}
	}

	s.systems = append(s.systems, rs)
}

func systemName(system System) string {
	t := reflect.TypeOf(system)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}

// Once runs every system once and flushes the command buffer.
func (s *Scheduler) Once(dt float64) {
	s.frame++
	frame := &UpdateFrame{
		DeltaTime: dt,
		Frame:     s.frame,
		Commands:  s.commands,
		Storage:   s.storage,
	}

	for _, rs := range s.systems {
		for _, q := range rs.queries {
			q.Execute()
		}

		start := time.Now()
		rs.system.Execute(frame)
		d := time.Since(start)

		st := &rs.stats
		st.ExecutionCount++
		st.LastDuration = d
		st.TotalDuration += d
		st.MinDuration = min(st.MinDuration, d)
		st.MaxDuration = max(st.MaxDuration, d)
	}

	s.commands.Flush(s.storage)
}

// Run calls Once every interval until ctx is done.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.Once(now.Sub(last).Seconds())
			last = now
		}
	}
}

// GetStats returns a copy of the per-system timings.
func (s *Scheduler) GetStats() *SchedulerStats {
	stats := &SchedulerStats{
		SystemCount: len(s.systems),
		Systems:     make([]SystemStats, len(s.systems)),
	}
	for i, rs := range s.systems {
		st := rs.stats
		if st.ExecutionCount > 0 {
			st.AvgDuration = st.TotalDuration / time.Duration(st.ExecutionCount)
		}
		stats.Systems[i] = st
		stats.TotalExecutions += st.ExecutionCount
	}
	return stats
}
