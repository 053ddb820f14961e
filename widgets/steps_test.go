package widgets

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func cells(s string) []Cell {
	var out []Cell
	for _, r := range s {
		out = append(out, Cell{Symbol: r, Color: "#ff0000"})
	}
	return out
}

func TestRenderStepRow(t *testing.T) {
	row := StepRow{Label: "T1", Cells: cells("●··◆"), Status: "fwd"}
	assert.Equal(t, " T1  ● · · ◆  fwd", RenderStepRow(row, 3))

	row.Split = 2
	row.Divider = '|'
	row.Selected = true
	assert.Equal(t, ">T1  ● ·|· ◆  fwd", RenderStepRow(row, 3))
}

func TestRenderStepRowsAlign(t *testing.T) {
	out := RenderStepRows([]StepRow{
		{Label: "CV1", Cells: cells("▪")},
		{Label: "T1", Cells: cells("·")},
	})
	assert.Equal(t, " CV1 ▪\n T1  ·", out)
}

func TestRenderKeyHelp(t *testing.T) {
	out := RenderKeyHelp([]KeySection{{Title: "Edit", Keys: []KeyBinding{{Key: "space", Desc: "cycle gate"}}}})
	assert.Equal(t, "Edit\n  space        cycle gate", out)
}
