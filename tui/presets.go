package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"vseq/sequencer"
	"vseq/widgets"
)

// InputMode for text input
type InputMode int

const (
	InputNone InputMode = iota
	InputNewProject
	InputRenameProject
	InputRenameSave
)

// browserResult tells the model what a key press changed
type browserResult struct {
	Patterns *sequencer.Patterns // set when a save was loaded
	Project  string              // new current project, empty for no change
	Close    bool
	Status   string
}

// PresetBrowser lists projects and their saves for loading, renaming and deleting
type PresetBrowser struct {
	store   *sequencer.ProjectStore
	current string

	// Cached data
	projects []string
	saves    []sequencer.SaveInfo

	// Selection state
	projectIdx int // selected project
	saveIdx    int // selected save
	column     int // 0=projects, 1=saves

	// Input mode (for new project / rename)
	inputMode InputMode
	input     textinput.Model

	// Confirmation dialog
	confirmMode   bool
	confirmMsg    string
	confirmAction func() error

	err error
}

// NewPresetBrowser creates a browser with the current project selected
func NewPresetBrowser(store *sequencer.ProjectStore, current string) *PresetBrowser {
	b := &PresetBrowser{store: store, current: current, input: newNameInput()}
	b.Refresh()
	for i, name := range b.projects {
		if name == current {
			b.projectIdx = i
			b.Refresh()
		}
	}
	return b
}

func newNameInput() textinput.Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 40
	ti.Width = 40
	return ti
}

// startInput switches to text entry with value prefilled
func (b *PresetBrowser) startInput(mode InputMode, value string) {
	b.inputMode = mode
	b.input.Reset()
	b.input.SetValue(value)
	b.input.CursorEnd()
	b.input.Focus()
}

func (b *PresetBrowser) stopInput() {
	b.inputMode = InputNone
	b.input.Blur()
	b.input.Reset()
}

// IsInputMode returns true if the browser is accepting text input
func (b *PresetBrowser) IsInputMode() bool {
	return b.inputMode != InputNone || b.confirmMode
}

// Refresh reloads project and save lists
func (b *PresetBrowser) Refresh() {
	projects, err := b.store.ListProjects()
	if err != nil {
		b.err = err
	}
	b.projects = projects

	// Clamp selection
	if b.projectIdx >= len(b.projects) {
		b.projectIdx = max(0, len(b.projects)-1)
	}

	// Load saves for selected project
	b.saves = nil
	if len(b.projects) > 0 {
		saves, err := b.store.ListSaves(b.projects[b.projectIdx])
		if err != nil {
			b.err = err
		}
		b.saves = saves
	}

	// Clamp save selection
	if b.saveIdx >= len(b.saves) {
		b.saveIdx = max(0, len(b.saves)-1)
	}
	if len(b.projects) == 0 {
		b.column = 0
	}
}

func (b *PresetBrowser) View() string {
	var out strings.Builder

	// Header
	projectName := "(none)"
	if b.current != "" {
		projectName = b.current
	}
	out.WriteString(fmt.Sprintf("PRESETS  Project: %s\n\n", projectName))

	// Confirmation dialog takes over
	if b.confirmMode {
		out.WriteString("─────────────────────────────────────────────────\n")
		out.WriteString(fmt.Sprintf("\n%s\n\n", b.confirmMsg))
		out.WriteString("  [y] Yes    [n] No\n")
		out.WriteString("\n─────────────────────────────────────────────────\n")
		return out.String()
	}

	// Input mode takes over
	if b.inputMode != InputNone {
		var label string
		switch b.inputMode {
		case InputNewProject:
			label = "New project name"
		case InputRenameProject:
			label = "Rename project to"
		case InputRenameSave:
			label = "Name this save"
		}
		out.WriteString("─────────────────────────────────────────────────\n")
		out.WriteString(fmt.Sprintf("\n%s: %s\n", label, b.input.View()))
		out.WriteString("\n[enter] confirm  [esc] cancel\n")
		out.WriteString("\n─────────────────────────────────────────────────\n")
		return out.String()
	}

	// Two column layout
	out.WriteString("Projects                    Saves\n")
	out.WriteString("─────────────────────────────────────────────────\n")

	maxRows := 12
	rows := min(maxRows, max(1, len(b.projects), len(b.saves)))

	for row := 0; row < rows; row++ {
		if row < len(b.projects) {
			name := b.projects[row]
			if len(name) > 20 {
				name = name[:17] + "..."
			}
			out.WriteString(fmt.Sprintf("%s%-20s", b.prefix(0, row, b.projectIdx), name))
		} else {
			out.WriteString(strings.Repeat(" ", 22))
		}

		out.WriteString("    ")

		if row < len(b.saves) {
			save := b.saves[row]
			display := save.Timestamp.Format("01-02 15:04:05")
			if save.Name != "" {
				display += " " + save.Name
			}
			if len(display) > 24 {
				display = display[:21] + "..."
			}
			out.WriteString(b.prefix(1, row, b.saveIdx) + display)
		}

		out.WriteString("\n")
	}

	if len(b.projects) == 0 {
		out.WriteString("  (no projects yet)\n")
	}
	if b.err != nil {
		out.WriteString(fmt.Sprintf("\nerror: %v\n", b.err))
	}

	out.WriteString("\n")
	out.WriteString(widgets.RenderKeyHelp([]widgets.KeySection{
		{Keys: []widgets.KeyBinding{
			{Key: "h / l", Desc: "switch columns"},
			{Key: "j / k", Desc: "navigate list"},
			{Key: "enter", Desc: "load selected"},
			{Key: "n", Desc: "new project"},
			{Key: "r", Desc: "rename"},
			{Key: "d", Desc: "delete"},
			{Key: "esc", Desc: "back"},
		}},
	}))

	return out.String()
}

func (b *PresetBrowser) prefix(column, row, selected int) string {
	if row != selected {
		return "  "
	}
	if b.column == column {
		return "> "
	}
	return "* "
}

func (b *PresetBrowser) HandleKey(msg tea.KeyMsg) browserResult {
	key := msg.String()

	// Confirmation mode
	if b.confirmMode {
		switch key {
		case "y", "Y":
			if b.confirmAction != nil {
				b.err = b.confirmAction()
			}
			b.confirmMode = false
			b.confirmAction = nil
			b.Refresh()
		case "n", "N", "esc", "q":
			b.confirmMode = false
			b.confirmAction = nil
		}
		return browserResult{}
	}

	// Input mode
	if b.inputMode != InputNone {
		switch key {
		case "enter":
			return b.commitInput()
		case "esc":
			b.stopInput()
		case "/", "\\":
			// no path separators in names
		default:
			b.input, _ = b.input.Update(msg)
		}
		return browserResult{}
	}

	// Normal navigation
	switch key {
	case "esc", "p", "q":
		return browserResult{Close: true}
	case "h", "left":
		b.column = 0
	case "l", "right":
		if len(b.projects) > 0 {
			b.column = 1
		}
	case "j", "down":
		if b.column == 0 {
			if b.projectIdx < len(b.projects)-1 {
				b.projectIdx++
				b.saveIdx = 0
				b.Refresh() // reload saves for new project
			}
		} else if b.saveIdx < len(b.saves)-1 {
			b.saveIdx++
		}
	case "k", "up":
		if b.column == 0 {
			if b.projectIdx > 0 {
				b.projectIdx--
				b.saveIdx = 0
				b.Refresh() // reload saves for new project
			}
		} else if b.saveIdx > 0 {
			b.saveIdx--
		}
	case "enter", " ", "space":
		return b.loadSelected()
	case "n":
		b.startInput(InputNewProject, "")
	case "r":
		if b.column == 0 && len(b.projects) > 0 {
			b.startInput(InputRenameProject, b.projects[b.projectIdx])
		} else if b.column == 1 && len(b.saves) > 0 {
			b.startInput(InputRenameSave, b.saves[b.saveIdx].Name)
		}
	case "d":
		b.deleteSelected()
	}
	return browserResult{}
}

func (b *PresetBrowser) commitInput() browserResult {
	name := strings.TrimSpace(b.input.Value())
	var res browserResult

	switch b.inputMode {
	case InputNewProject:
		// The project folder appears with its first save
		if name != "" {
			b.current = name
			res = browserResult{Project: name, Close: true, Status: "project " + name}
		}
	case InputRenameProject:
		if name != "" && len(b.projects) > 0 {
			oldName := b.projects[b.projectIdx]
			b.err = b.store.RenameProject(oldName, name)
			if b.err == nil && b.current == oldName {
				b.current = name
				res.Project = name
			}
		}
	case InputRenameSave:
		// Empty name is allowed (removes the name)
		if len(b.saves) > 0 {
			_, b.err = b.store.RenameSave(b.projects[b.projectIdx], b.saves[b.saveIdx].Filename, name)
		}
	}

	b.stopInput()
	b.Refresh()
	return res
}

func (b *PresetBrowser) loadSelected() browserResult {
	if len(b.projects) == 0 {
		return browserResult{}
	}

	projectName := b.projects[b.projectIdx]
	filename := ""
	if b.column == 1 && len(b.saves) > 0 {
		filename = b.saves[b.saveIdx].Filename
	}

	p, err := b.store.LoadProject(projectName, filename)
	if err != nil {
		b.err = err
		return browserResult{}
	}
	b.current = projectName
	return browserResult{Patterns: p, Project: projectName, Close: true, Status: "loaded " + projectName}
}

func (b *PresetBrowser) deleteSelected() {
	if b.column == 0 {
		if len(b.projects) == 0 {
			return
		}
		name := b.projects[b.projectIdx]
		b.confirmMsg = fmt.Sprintf("Delete project '%s' and all saves?", name)
		b.confirmAction = func() error {
			return b.store.DeleteProject(name)
		}
		b.confirmMode = true
		return
	}

	if len(b.saves) == 0 {
		return
	}
	project := b.projects[b.projectIdx]
	save := b.saves[b.saveIdx]
	b.confirmMsg = fmt.Sprintf("Delete save '%s'?", save.Timestamp.Format("2006-01-02 15:04:05"))
	b.confirmAction = func() error {
		return b.store.DeleteSave(project, save.Filename)
	}
	b.confirmMode = true
}
