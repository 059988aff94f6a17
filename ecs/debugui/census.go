package debugui

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/arcade/ecs"
)

const (
	censusColumnID = iota
	censusColumnComponents
	censusColumnEntities
)

type censusRow struct {
	ID          uint32
	Components  string
	EntityCount int
}

func NewCensusComponent() CensusComponent {
	return CensusComponent{
		sortColumn:    censusColumnEntities,
		sortAscending: false,
	}
}

// refresh rebuilds the rows from a stats snapshot, applying the filter and
// the current sort.
func (c *CensusComponent) refresh(stats *ecs.StorageStats) {
	c.rows = c.rows[:0]
	filter := strings.ToLower(c.filterText)
	for _, arch := range stats.ArchetypeBreakdown {
		label := arch.Label()
		if filter != "" && !strings.Contains(strings.ToLower(label), filter) {
			continue
		}
		c.rows = append(c.rows, censusRow{ID: arch.ID, Components: label, EntityCount: arch.EntityCount})
	}
	sortCensus(c.rows, c.sortColumn, c.sortAscending)
}

func sortCensus(rows []censusRow, column int, ascending bool) {
	slices.SortStableFunc(rows, func(a, b censusRow) int {
		var c int
		switch column {
		case censusColumnID:
			c = cmp.Compare(a.ID, b.ID)
		case censusColumnComponents:
			c = strings.Compare(a.Components, b.Components)
		default:
			c = cmp.Compare(a.EntityCount, b.EntityCount)
		}
		if !ascending {
			return -c
		}
		return c
	})
}

func (c *CensusComponent) Render(storage *ecs.Storage) {
	imgui.SetNextWindowPosV(imgui.NewVec2(380, 10), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(420, 300), imgui.CondOnce)
	if !imgui.BeginV("Entity Census", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	imgui.InputTextWithHint("##filter", "Filter components...", &c.filterText, imgui.InputTextFlagsNone, nil)
	imgui.SameLine()
	if imgui.Button("Clear") {
		c.filterText = ""
	}

	stats := storage.CollectStats()
	c.refresh(stats)
	imgui.Text(fmt.Sprintf("%d entities in %d archetypes", stats.TotalEntityCount, stats.ArchetypeCount))

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("CensusTable", 3, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Archetype ID")
		imgui.TableSetupColumn("Components")
		imgui.TableSetupColumn("Entities")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			c.sortColumn = int(spec.ColumnIndex())
			c.sortAscending = spec.SortDirection() == imgui.SortDirectionAscending
			sortCensus(c.rows, c.sortColumn, c.sortAscending)
			sortSpecs.SetSpecsDirty(false)
		}

		for _, row := range c.rows {
			imgui.TableNextRow()
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("0x%X", row.ID))
			imgui.TableNextColumn()
			imgui.Text(row.Components)
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", row.EntityCount))
		}
		imgui.EndTable()
	}

	imgui.End()
}
