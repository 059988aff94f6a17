package soak

import (
	"io"
	"maps"
	"runtime"
	"slices"
	"text/template"
	"time"
)

type Report struct {
	RunID      string
	Seed       uint64
	Frames     int
	Started    time.Time
	TotalTime  time.Duration
	Results    []Result
	MemStart   runtime.MemStats
	MemEnd     runtime.MemStats
	SystemRows bool
}

const reportTemplate = `
# Arcade Soak Report

## Run
- **Run ID:** {{.RunID}}
- **Started:** {{.Started.Format "2006-01-02 15:04:05"}}
- **Seed:** {{.Seed}}
- **Frames per game:** {{.Frames}}
- **Wall time:** {{.TotalTime}}

## Games
| Game | Frames | Total | Avg step | Min step | Max step | Entities | Archetypes |
|---|---|---|---|---|---|---|---|
{{- range .Results}}
| {{.Game}} | {{.Frames}} | {{.TotalTime}} | {{.StepTime.Avg}} | {{.StepTime.Min}} | {{.StepTime.Max}} | {{.Entities}} | {{.Archetypes}} |
{{- end}}

## Sounds
{{- range $res := .Results}}
- **{{$res.Game}}:**{{range $name := sortedKeys $res.Sounds}} {{$name}}={{index $res.Sounds $name}}{{end}}
{{- end}}
{{if .SystemRows}}
## Systems
{{- range .Results}}

### {{.Game}}
| System | Runs | Avg | Max |
|---|---|---|---|
{{- range .Systems}}
| {{.Name}} | {{.ExecutionCount}} | {{.AvgDuration}} | {{.MaxDuration}} |
{{- end}}
{{- end}}
{{end}}
## Memory
- Heap Alloc:  {{.MemStart.HeapAlloc}} -> {{.MemEnd.HeapAlloc}} (delta {{bsub .MemEnd.HeapAlloc .MemStart.HeapAlloc}})
- Total Alloc: {{.MemStart.TotalAlloc}} -> {{.MemEnd.TotalAlloc}} (delta {{bsub .MemEnd.TotalAlloc .MemStart.TotalAlloc}})
- Num GC:      {{.MemStart.NumGC}} -> {{.MemEnd.NumGC}} (delta {{usub .MemEnd.NumGC .MemStart.NumGC}})
`

var funcs = template.FuncMap{
	"bsub": func(a, b uint64) int64 {
		return int64(a) - int64(b)
	},
	"usub": func(a, b uint32) uint32 {
		return a - b
	},
	"sortedKeys": func(m map[string]int) []string {
		return slices.Sorted(maps.Keys(m))
	},
}

var reportTmpl = template.Must(template.New("report").Funcs(funcs).Parse(reportTemplate))

func (r *Report) Generate(w io.Writer) error {
	return reportTmpl.Execute(w, r)
}
