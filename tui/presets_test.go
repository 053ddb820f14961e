package tui

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vseq/sequencer"
)

func newPresetStore(t *testing.T) *sequencer.ProjectStore {
	store := sequencer.NewProjectStore(afero.NewMemMapFs(), "/projects")

	jam := sequencer.NewPatterns()
	jam.Gates[2][5] = sequencer.GateAccent
	_, err := store.SaveProject("jam", "", jam)
	require.NoError(t, err)

	live := sequencer.NewPatterns()
	live.Gates[2][5] = sequencer.GateNormal
	_, err = store.SaveProject("live", "", live)
	require.NoError(t, err)

	return store
}

func TestBrowserLoadsProject(t *testing.T) {
	assert := assert.New(t)

	m := press(newTestModel(newPresetStore(t)), "p")
	require.NotNil(t, m.browser)
	assert.Contains(m.View(), "PRESETS")
	assert.Contains(m.View(), "jam")

	m = press(m, "j", "enter")
	assert.Nil(m.browser)
	assert.Equal("live", m.Project)
	assert.Equal("loaded live", m.status)
	assert.Equal(sequencer.GateNormal, m.Runner.Snapshot().Patterns.Gates[2][5])
}

func TestBrowserRenameAndDeleteSave(t *testing.T) {
	store := newPresetStore(t)
	m := newTestModel(store)
	m.Project = "live"

	m = press(m, "p", "l", "r", "x", "y", "enter")
	saves, err := store.ListSaves("live")
	require.NoError(t, err)
	require.Len(t, saves, 1)
	assert.Equal(t, "xy", saves[0].Name)

	m = press(m, "d", "n")
	saves, _ = store.ListSaves("live")
	assert.Len(t, saves, 1, "declined delete keeps the save")

	m = press(m, "d", "y")
	saves, _ = store.ListSaves("live")
	assert.Empty(t, saves)

	m = press(m, "esc")
	assert.Nil(t, m.browser)
}

func TestBrowserDeleteProject(t *testing.T) {
	store := newPresetStore(t)
	m := press(newTestModel(store), "p", "d", "y")

	projects, err := store.ListProjects()
	require.NoError(t, err)
	assert.Equal(t, []string{"live"}, projects)
	assert.NotNil(t, m.browser)
}

func TestBrowserNewProject(t *testing.T) {
	m := press(newTestModel(newPresetStore(t)), "p", "n", "s", "e", "t", "backspace", "t", "enter")
	assert.Nil(t, m.browser)
	assert.Equal(t, "set", m.Project)

	// Saving creates the project folder
	m = press(m, "s")
	projects, err := m.Store.ListProjects()
	require.NoError(t, err)
	assert.Contains(t, projects, "set")
}

func TestBrowserCtrlCQuits(t *testing.T) {
	m := press(newTestModel(newPresetStore(t)), "p")
	_, cmd := m.Update(key("ctrl+c"))
	require.NotNil(t, cmd)
}

func TestBrowserNameInputDropsSeparators(t *testing.T) {
	m := press(newTestModel(newPresetStore(t)), "p", "n", "a", "/", "b", "\\", "enter")
	assert.Nil(t, m.browser)
	assert.Equal(t, "ab", m.Project)
}
