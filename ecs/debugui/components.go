package debugui

type PerformanceStatsComponent struct {
	historyFrames int
	frameHistory  []float32
	frameIndex    int
	filled        int
}

type CensusComponent struct {
	filterText    string
	sortColumn    int
	sortAscending bool
	rows          []censusRow
}

// PauseState is the singleton the pause window edits. The game loop asks
// Advance once per frame whether the simulation should tick.
type PauseState struct {
	Paused          bool
	StepRequested   bool
	FramesToAdvance int
}
