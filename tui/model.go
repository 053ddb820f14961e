package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"vseq/debug"
	"vseq/sequencer"
	"vseq/theme"
	"vseq/widgets"
)

// nudgeStep is one +/- press, about 0.1V
const nudgeStep = 655

type Model struct {
	Runner  *sequencer.Runner
	Store   *sequencer.ProjectStore // nil disables saving
	Project string
	Theme   *theme.Theme

	browser   *PresetBrowser // open preset browser, nil when closed
	editGates bool
	sel       int // sequencer or track
	step      int
	out       int // CV output being edited
	status    string
	quitting  bool
}

type UpdateMsg struct{}

func NewModel(runner *sequencer.Runner, store *sequencer.ProjectStore, project string, th *theme.Theme) Model {
	return Model{
		Runner:  runner,
		Store:   store,
		Project: project,
		Theme:   th,
	}
}

func ListenForUpdates(runner *sequencer.Runner) tea.Cmd {
	return func() tea.Msg {
		<-runner.UpdateChan
		return UpdateMsg{}
	}
}

func (m Model) Init() tea.Cmd {
	return ListenForUpdates(m.Runner)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case UpdateMsg:
		return m, ListenForUpdates(m.Runner)
	}

	return m, nil
}

func (m Model) rows() int {
	if m.editGates {
		return sequencer.NumTracks
	}
	return sequencer.NumSequencers
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if m.browser != nil && key != "ctrl+c" {
		return m.handleBrowserKey(msg)
	}

	switch key {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "p":
		if m.Store == nil {
			m.status = "presets disabled"
		} else {
			m.browser = NewPresetBrowser(m.Store, m.Project)
		}

	case "tab":
		m.editGates = !m.editGates
		if m.sel >= m.rows() {
			m.sel = m.rows() - 1
		}

	case "j", "down":
		if m.sel < m.rows()-1 {
			m.sel++
		}

	case "k", "up":
		if m.sel > 0 {
			m.sel--
		}

	case "h", "left":
		if m.step > 0 {
			m.step--
		}

	case "l", "right":
		if m.step < sequencer.MaxSteps-1 {
			m.step++
		}

	case "1", "2", "3":
		m.out = int(key[0] - '1')

	case " ", "space":
		if m.editGates {
			m.Runner.Edit(func(mc *sequencer.Machine) {
				mc.CycleStepState(m.sel, m.step)
			})
		}

	case "+", "=":
		m.nudge(nudgeStep)

	case "-", "_":
		m.nudge(-nudgeStep)

	case "d":
		m.Runner.Edit(func(mc *sequencer.Machine) {
			p := mc.Params()
			if m.editGates {
				c := p.Tracks[m.sel]
				c.Direction = c.Direction.Next()
				mc.SetGateConfig(m.sel, c)
			} else {
				c := p.Sequencers[m.sel]
				c.Direction = c.Direction.Next()
				mc.SetSequencerConfig(m.sel, c)
			}
		})

	case "[", "]":
		delta := 1
		if key == "[" {
			delta = -1
		}
		m.Runner.Edit(func(mc *sequencer.Machine) {
			p := mc.Params()
			if m.editGates {
				c := p.Tracks[m.sel]
				c.Length += delta
				mc.SetGateConfig(m.sel, c)
			} else {
				mc.SetSequencerLength(m.sel, p.Sequencers[m.sel].Length+delta)
			}
		})

	case "r":
		if m.editGates {
			m.Runner.Edit(func(mc *sequencer.Machine) {
				c := mc.Params().Tracks[m.sel]
				c.Running = !c.Running
				mc.SetGateConfig(m.sel, c)
			})
		}

	case "s":
		m.status = m.save()
	}

	return m, nil
}

func (m Model) handleBrowserKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	res := m.browser.HandleKey(msg)
	if res.Patterns != nil {
		m.Runner.Edit(func(mc *sequencer.Machine) {
			mc.LoadPatterns(res.Patterns)
		})
	}
	if res.Project != "" {
		m.Project = res.Project
	}
	if res.Status != "" {
		m.status = res.Status
	}
	if res.Close {
		m.browser = nil
	}
	return m, nil
}

func (m Model) nudge(delta int) {
	if m.editGates {
		return
	}
	m.Runner.Edit(func(mc *sequencer.Machine) {
		v := mc.CV(m.sel).StepValue(m.step, m.out)
		mc.SetStepValue(m.sel, m.step, m.out, sequencer.NudgeValue(v, delta))
	})
}

func (m Model) save() string {
	if m.Store == nil {
		return "saving disabled"
	}
	snap := m.Runner.Snapshot()
	filename, err := m.Store.SaveProject(m.Project, "", &snap.Patterns)
	if err != nil {
		debug.Log("preset", "save failed: %v", err)
		return "save failed: " + err.Error()
	}
	return "saved " + filename
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if m.browser != nil {
		return "\n" + m.browser.View()
	}

	snap := m.Runner.Snapshot()

	// Styles
	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent())
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())

	mode := "CV"
	if m.editGates {
		mode = "GATE"
	}
	header := headerStyle.Render(fmt.Sprintf("vseq  %s  step:%02d  out:%d  clocks:%d",
		mode, m.step+1, m.out+1, m.Runner.Clocks()))

	var rows []widgets.StepRow
	for i := range snap.CV {
		rows = append(rows, m.cvRow(snap, i))
	}
	rows = append(rows, widgets.StepRow{})
	for i := range snap.Gates {
		rows = append(rows, m.gateRow(snap, i))
	}

	help := dimStyle.Render("tab:cv/gate  hjkl:nav  space:cycle  +/-:value  1-3:output  d:dir  []:length  r:run  s:save  p:presets  q:quit")

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n\n")
	out.WriteString(widgets.RenderStepRows(rows))
	out.WriteString("\n\n")
	out.WriteString(help)
	if m.status != "" {
		out.WriteString("\n")
		out.WriteString(dimStyle.Render(m.status))
	}
	return out.String()
}

func (m Model) cvRow(snap sequencer.Snapshot, seq int) widgets.StepRow {
	c := snap.Params.Sequencers[seq]
	head := snap.CV[seq].Playhead
	selected := !m.editGates && m.sel == seq

	cells := make([]widgets.Cell, sequencer.MaxSteps)
	for step := range cells {
		v := snap.Patterns.CV[seq][step][m.out]
		cells[step] = m.cell(step, c.Length, head.Step, selected, m.Theme.Symbols.StepValue, true)
		if step < c.Length {
			cells[step].Color = m.Theme.Color(sequencer.Normalized(v))
		}
	}

	return widgets.StepRow{
		Label:    fmt.Sprintf("CV%d", seq+1),
		Cells:    cells,
		Split:    splitColumn(c),
		Divider:  m.Theme.Symbols.Split,
		Status:   fmt.Sprintf("%-8s %s %.2fV", c.Direction, sectionStatus(c, head), sequencer.Volts(snap.CV[seq].Values[m.out])),
		Selected: selected,
	}
}

func (m Model) gateRow(snap sequencer.Snapshot, track int) widgets.StepRow {
	c := snap.Params.Tracks[track]
	g := snap.Gates[track]
	selected := m.editGates && m.sel == track

	cells := make([]widgets.Cell, sequencer.MaxSteps)
	for step := range cells {
		state := snap.Patterns.Gates[track][step]
		symbol := m.Theme.Symbols.StepOff
		switch state {
		case sequencer.GateNormal:
			symbol = m.Theme.Symbols.StepNormal
		case sequencer.GateAccent:
			symbol = m.Theme.Symbols.StepAccent
		}
		cells[step] = m.cell(step, c.Length, g.Playhead.Step, selected, symbol, state != sequencer.GateOff)
		if step < c.Length && state == sequencer.GateAccent {
			cells[step].Color = m.Theme.Warning()
		}
	}

	run := "stop"
	if c.Running {
		run = "run "
	}
	trig := " "
	if g.TriggerActive {
		trig = string(m.Theme.Symbols.Trigger)
	}

	return widgets.StepRow{
		Label:    fmt.Sprintf("T%d", track+1),
		Cells:    cells,
		Split:    splitColumn(c.SequencerConfig),
		Divider:  m.Theme.Symbols.Split,
		Status:   fmt.Sprintf("%-8s %s %s %s", c.Direction, sectionStatus(c.SequencerConfig, g.Playhead), run, trig),
		Selected: selected,
	}
}

// cell picks the symbol for one step from its position relative to the
// playhead, the cursor and the sequence length
func (m Model) cell(step, length, playhead int, selected bool, symbol rune, on bool) widgets.Cell {
	sym := m.Theme.Symbols
	cursor := selected && step == m.step

	switch {
	case step >= length && cursor:
		return widgets.Cell{Symbol: sym.CursorBeyond, Color: m.Theme.Cursor()}
	case step >= length:
		return widgets.Cell{Symbol: sym.StepBeyond, Color: m.Theme.Muted()}
	case step == playhead && cursor:
		return widgets.Cell{Symbol: sym.CursorPlayhead, Color: m.Theme.Cursor(), Bold: true}
	case step == playhead:
		return widgets.Cell{Symbol: sym.StepPlayhead, Color: m.Theme.Active(), Bold: true}
	case cursor && on:
		return widgets.Cell{Symbol: sym.CursorOn, Color: m.Theme.Cursor()}
	case cursor:
		return widgets.Cell{Symbol: sym.CursorOff, Color: m.Theme.Cursor()}
	}
	return widgets.Cell{Symbol: symbol, Color: m.Theme.FG()}
}

func splitColumn(c sequencer.SequencerConfig) int {
	if !c.Sectioned() {
		return 0
	}
	return c.SplitPoint
}

func sectionStatus(c sequencer.SequencerConfig, h sequencer.Playhead) string {
	if !c.Sectioned() || c.Direction == sequencer.Pingpong {
		return fmt.Sprintf("len %2d      ", c.Length)
	}
	if h.InSection2 {
		return fmt.Sprintf("len %2d S2 %d/%d", c.Length, h.Section2Count+1, c.Section2Reps)
	}
	return fmt.Sprintf("len %2d S1 %d/%d", c.Length, h.Section1Count+1, c.Section1Reps)
}
