package debugui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
)

// Advance reports whether the simulation should tick this frame and
// consumes one pending step if paused.
func (p *PauseState) Advance() bool {
	if !p.Paused {
		return true
	}
	if p.StepRequested {
		p.StepRequested = false
		return true
	}
	if p.FramesToAdvance > 0 {
		p.FramesToAdvance--
		return true
	}
	return false
}

// Toggle flips between paused and running and drops any queued steps.
func (p *PauseState) Toggle() {
	p.Paused = !p.Paused
	p.StepRequested = false
	p.FramesToAdvance = 0
}

func (p *PauseState) Render() {
	imgui.SetNextWindowPosV(imgui.NewVec2(10, 340), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(250, 150), imgui.CondOnce)

	if !imgui.BeginV("Simulation Control", nil, 0) {
		imgui.End()
		return
	}

	if p.Paused {
		imgui.PushStyleColorVec4(imgui.ColButton, imgui.NewVec4(0.2, 0.7, 0.2, 1.0))
		imgui.PushStyleColorVec4(imgui.ColButtonHovered, imgui.NewVec4(0.3, 0.8, 0.3, 1.0))
		imgui.PushStyleColorVec4(imgui.ColButtonActive, imgui.NewVec4(0.1, 0.6, 0.1, 1.0))
		if imgui.Button("Resume") {
			p.Toggle()
		}
		imgui.PopStyleColor()
		imgui.PopStyleColor()
		imgui.PopStyleColor()

		imgui.TextColored(imgui.NewVec4(1.0, 0.8, 0.0, 1.0), "PAUSED")
		if p.FramesToAdvance > 0 {
			imgui.Text(fmt.Sprintf("Advancing %d frames", p.FramesToAdvance))
		}

		imgui.Separator()
		imgui.Text("Step Forward:")
		if imgui.Button("1 Frame") {
			p.StepRequested = true
		}
		imgui.SameLine()
		if imgui.Button("1 Second") {
			p.FramesToAdvance = 60
		}
	} else {
		imgui.PushStyleColorVec4(imgui.ColButton, imgui.NewVec4(0.7, 0.2, 0.2, 1.0))
		imgui.PushStyleColorVec4(imgui.ColButtonHovered, imgui.NewVec4(0.8, 0.3, 0.3, 1.0))
		imgui.PushStyleColorVec4(imgui.ColButtonActive, imgui.NewVec4(0.6, 0.1, 0.1, 1.0))
		if imgui.Button("Pause") {
			p.Toggle()
		}
		imgui.PopStyleColor()
		imgui.PopStyleColor()
		imgui.PopStyleColor()

		imgui.TextColored(imgui.NewVec4(0.0, 1.0, 0.0, 1.0), "RUNNING")
	}

	imgui.End()
}
