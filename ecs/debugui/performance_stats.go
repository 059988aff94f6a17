package debugui

import (
	"fmt"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/arcade/ecs"
)

// NamedScheduler labels a scheduler in the performance window.
type NamedScheduler struct {
	Name      string
	Scheduler *ecs.Scheduler
}

func NewPerformanceStatsComponent(historyFrames int) PerformanceStatsComponent {
	return PerformanceStatsComponent{
		historyFrames: historyFrames,
		frameHistory:  make([]float32, historyFrames),
	}
}

// Record stores one frame time in seconds.
func (ps *PerformanceStatsComponent) Record(deltaTime float32) {
	ps.frameHistory[ps.frameIndex] = deltaTime * 1000.0
	ps.frameIndex = (ps.frameIndex + 1) % ps.historyFrames
	ps.filled = min(ps.filled+1, ps.historyFrames)
}

// AverageFrameTime returns the mean of the recorded frames in milliseconds.
func (ps *PerformanceStatsComponent) AverageFrameTime() float32 {
	if ps.filled == 0 {
		return 0
	}
	var sum float32
	for _, ft := range ps.frameHistory {
		sum += ft
	}
	return sum / float32(ps.filled)
}

func (ps *PerformanceStatsComponent) Render(storage *ecs.Storage, schedulers []NamedScheduler, deltaTime float32) {
	ps.Record(deltaTime)

	imgui.SetNextWindowPosV(imgui.NewVec2(10, 10), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(360, 320), imgui.CondOnce)
	if !imgui.BeginV("Performance Stats", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	stats := storage.CollectStats()

	imgui.Text(fmt.Sprintf("Total Entities: %d", stats.TotalEntityCount))
	imgui.Text(fmt.Sprintf("Archetypes: %d", stats.ArchetypeCount))
	imgui.Text(fmt.Sprintf("Singletons: %d", stats.SingletonCount))

	avg := ps.AverageFrameTime()
	if avg > 0 {
		imgui.Text(fmt.Sprintf("Avg Frame Time: %.2f ms (%.0f FPS)", avg, 1000.0/avg))
	}

	imgui.Separator()
	imgui.Text("Frame Time Graph (ms)")
	imgui.PlotLinesFloatPtr("##frametime", &ps.frameHistory[0], int32(len(ps.frameHistory)))

	for _, named := range schedulers {
		if !imgui.TreeNodeStr(named.Name + " Systems") {
			continue
		}
		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV(named.Name+"SystemTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("System")
			imgui.TableSetupColumn("Last")
			imgui.TableSetupColumn("Avg")
			imgui.TableSetupColumn("Max")
			imgui.TableHeadersRow()

			for _, sys := range named.Scheduler.GetStats().Systems {
				imgui.TableNextRow()
				imgui.TableNextColumn()
				imgui.Text(sys.Name)
				imgui.TableNextColumn()
				imgui.Text(formatDuration(sys.LastDuration))
				imgui.TableNextColumn()
				imgui.Text(formatDuration(sys.AvgDuration))
				imgui.TableNextColumn()
				imgui.Text(formatDuration(sys.MaxDuration))
			}
			imgui.EndTable()
		}
		imgui.TreePop()
	}

	if imgui.TreeNodeStr("Singleton Details") {
		for _, singletonType := range stats.SingletonTypes {
			imgui.BulletText(singletonType)
		}
		imgui.TreePop()
	}

	imgui.End()
}

func formatDuration(d time.Duration) string {
	return fmt.Sprintf("%.3f ms", float64(d.Microseconds())/1000)
}

type FrameTimer struct {
	lastFrameTime time.Time
}

func NewFrameTimer() *FrameTimer {
	return &FrameTimer{
		lastFrameTime: time.Now(),
	}
}

func (ft *FrameTimer) GetDeltaTime() float32 {
	now := time.Now()
	delta := float32(now.Sub(ft.lastFrameTime).Seconds())
	ft.lastFrameTime = now
	return delta
}
