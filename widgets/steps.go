package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Cell is one rendered step
type Cell struct {
	Symbol rune
	Color  lipgloss.Color // empty for the terminal default
	Bold   bool
}

// StepRow is a labelled row of step cells with an optional section divider
type StepRow struct {
	Label    string
	Cells    []Cell
	Split    int  // divider drawn before this step, 0 for none
	Divider  rune // rune drawn at Split
	Status   string
	Selected bool
}

// RenderCell renders a single colored step
func RenderCell(c Cell) string {
	style := lipgloss.NewStyle().Bold(c.Bold)
	if c.Color != "" {
		style = style.Foreground(c.Color)
	}
	return style.Render(string(c.Symbol))
}

// RenderStepRow renders "label  cells  status"
func RenderStepRow(row StepRow, labelWidth int) string {
	var out strings.Builder

	marker := " "
	if row.Selected {
		marker = ">"
	}
	out.WriteString(fmt.Sprintf("%s%-*s ", marker, labelWidth, row.Label))

	for i, c := range row.Cells {
		if row.Split > 0 && i == row.Split {
			out.WriteRune(row.Divider)
		} else if i > 0 {
			out.WriteString(" ")
		}
		out.WriteString(RenderCell(c))
	}

	if row.Status != "" {
		out.WriteString("  ")
		out.WriteString(row.Status)
	}
	return out.String()
}

// RenderStepRows renders rows aligned on the widest label
func RenderStepRows(rows []StepRow) string {
	width := 0
	for _, r := range rows {
		if n := lipgloss.Width(r.Label); n > width {
			width = n
		}
	}
	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = RenderStepRow(r, width)
	}
	return strings.Join(lines, "\n")
}

// RenderKeyHelp formats key bindings in a friendly way
func RenderKeyHelp(sections []KeySection) string {
	var lines []string
	for _, sec := range sections {
		if sec.Title != "" {
			lines = append(lines, sec.Title)
		}
		for _, k := range sec.Keys {
			lines = append(lines, fmt.Sprintf("  %-12s %s", k.Key, k.Desc))
		}
	}
	return strings.Join(lines, "\n")
}

// KeySection groups related key bindings
type KeySection struct {
	Title string
	Keys  []KeyBinding
}

// KeyBinding is a single key and its description
type KeyBinding struct {
	Key  string
	Desc string
}
