package sequencer

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/afero"

	"vseq/debug"
)

// Save filenames start with a timestamp in this layout
const saveTimeLayout = "2006-01-02_15-04-05"

// SaveInfo represents a saved preset file (for listing)
type SaveInfo struct {
	Filename  string
	Name      string // parsed from filename (empty if unnamed)
	Timestamp time.Time
}

// ProjectStore keeps presets as projects/<project>/<timestamp>[_name].json.
// Only pattern data is stored; playheads always start fresh after a load.
type ProjectStore struct {
	fs  afero.Fs
	dir string
	now func() time.Time
}

// ProjectsDir returns the default projects directory path
func ProjectsDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "vseq", "projects"), nil
}

// NewProjectStore creates a store rooted at dir on fs
func NewProjectStore(fs afero.Fs, dir string) *ProjectStore {
	return &ProjectStore{fs: fs, dir: dir, now: time.Now}
}

// ProjectDir returns the path to a specific project
func (s *ProjectStore) ProjectDir(projectName string) (string, error) {
	if projectName == "" || projectName != filepath.Base(projectName) || projectName == "." || projectName == ".." {
		return "", fmt.Errorf("%w: %q", ErrInvalidProject, projectName)
	}
	return filepath.Join(s.dir, projectName), nil
}

// ListProjects returns all project folder names
func (s *ProjectStore) ListProjects() ([]string, error) {
	entries, err := afero.ReadDir(s.fs, s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}

	projects := []string{}
	for _, entry := range entries {
		if entry.IsDir() {
			projects = append(projects, entry.Name())
		}
	}

	sort.Strings(projects)
	return projects, nil
}

// ListSaves returns timestamped saves for a project, newest first
func (s *ProjectStore) ListSaves(projectName string) ([]SaveInfo, error) {
	dir, err := s.ProjectDir(projectName)
	if err != nil {
		return nil, err
	}

	entries, err := afero.ReadDir(s.fs, dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []SaveInfo{}, nil
		}
		return nil, err
	}

	saves := []SaveInfo{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, ok := parseSaveFilename(entry.Name())
		if ok {
			saves = append(saves, info)
		}
	}

	// Sort by timestamp, newest first
	sort.Slice(saves, func(i, j int) bool {
		return saves[i].Timestamp.After(saves[j].Timestamp)
	})

	return saves, nil
}

// parseSaveFilename parses 2024-01-15_14-30-00.json or 2024-01-15_14-30-00_name.json
func parseSaveFilename(name string) (SaveInfo, bool) {
	if !strings.HasSuffix(name, ".json") {
		return SaveInfo{}, false
	}
	baseName := strings.TrimSuffix(name, ".json")
	if len(baseName) < len(saveTimeLayout) {
		return SaveInfo{}, false
	}

	ts, err := time.Parse(saveTimeLayout, baseName[:len(saveTimeLayout)])
	if err != nil {
		return SaveInfo{}, false
	}

	saveName := ""
	rest := baseName[len(saveTimeLayout):]
	if len(rest) > 1 && rest[0] == '_' {
		saveName = rest[1:]
	}

	return SaveInfo{Filename: name, Name: saveName, Timestamp: ts}, true
}

// SaveProject writes the patterns as a new timestamped save and returns its filename
func (s *ProjectStore) SaveProject(projectName, saveName string, p *Patterns) (string, error) {
	if projectName == "" {
		projectName = "untitled"
	}

	dir, err := s.ProjectDir(projectName)
	if err != nil {
		return "", err
	}

	// Create project directory if it doesn't exist
	if err := s.fs.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return "", err
	}

	filename := s.now().Format(saveTimeLayout)
	if saveName != "" {
		filename += "_" + sanitizeFilename(saveName)
	}
	filename += ".json"

	if err := afero.WriteFile(s.fs, filepath.Join(dir, filename), data, 0644); err != nil {
		return "", err
	}

	debug.Log("preset", "saved %s/%s", projectName, filename)
	return filename, nil
}

// LoadProject loads a specific save (or most recent if filename empty)
func (s *ProjectStore) LoadProject(projectName, filename string) (*Patterns, error) {
	dir, err := s.ProjectDir(projectName)
	if err != nil {
		return nil, err
	}

	// If no filename specified, load most recent
	if filename == "" {
		saves, err := s.ListSaves(projectName)
		if err != nil {
			return nil, err
		}
		if len(saves) == 0 {
			return nil, fmt.Errorf("%w in project %s", ErrNoSaves, projectName)
		}
		filename = saves[0].Filename // saves are sorted newest first
	}

	data, err := afero.ReadFile(s.fs, filepath.Join(dir, filename))
	if err != nil {
		return nil, err
	}

	p, err := DecodePatterns(data)
	if err != nil {
		return nil, fmt.Errorf("%s/%s: %w", projectName, filename, err)
	}

	debug.Log("preset", "loaded %s/%s", projectName, filename)
	return p, nil
}

// DeleteSave deletes a specific save file
func (s *ProjectStore) DeleteSave(projectName, filename string) error {
	dir, err := s.ProjectDir(projectName)
	if err != nil {
		return err
	}
	return s.fs.Remove(filepath.Join(dir, filepath.Base(filename)))
}

// RenameSave renames a save file (changes the name part, keeps timestamp)
func (s *ProjectStore) RenameSave(projectName, oldFilename, newName string) (string, error) {
	dir, err := s.ProjectDir(projectName)
	if err != nil {
		return "", err
	}

	info, ok := parseSaveFilename(oldFilename)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrInvalidSaveName, oldFilename)
	}

	newFilename := info.Timestamp.Format(saveTimeLayout)
	if newName != "" {
		newFilename += "_" + sanitizeFilename(newName)
	}
	newFilename += ".json"

	oldPath := filepath.Join(dir, oldFilename)
	newPath := filepath.Join(dir, newFilename)
	if err := s.fs.Rename(oldPath, newPath); err != nil {
		return "", err
	}
	return newFilename, nil
}

// DeleteProject deletes entire project folder
func (s *ProjectStore) DeleteProject(name string) error {
	dir, err := s.ProjectDir(name)
	if err != nil {
		return err
	}
	return s.fs.RemoveAll(dir)
}

// RenameProject renames a project folder
func (s *ProjectStore) RenameProject(oldName, newName string) error {
	oldDir, err := s.ProjectDir(oldName)
	if err != nil {
		return err
	}
	newDir, err := s.ProjectDir(newName)
	if err != nil {
		return err
	}
	return s.fs.Rename(oldDir, newDir)
}

// sanitizeFilename removes/replaces characters that are problematic in filenames
func sanitizeFilename(name string) string {
	r := strings.NewReplacer(
		" ", "-", "/", "-", "\\", "-", ":", "-",
		"*", "", "?", "", "\"", "", "<", "", ">", "", "|", "",
	)
	return r.Replace(name)
}

// DecodePatterns parses a preset best-effort. Only invalid JSON is an error.
// Anything missing or of the wrong type keeps its power-on value, extra
// sequencers/tracks/steps are ignored, step triples that are not exactly three
// values are skipped and out of range values are clamped. Legacy boolean gates
// load as off/normal.
func DecodePatterns(data []byte) (*Patterns, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	p := NewPatterns()
	root, _ := doc.(map[string]any)

	seqs, _ := root["stepValues"].([]any)
	for seq := 0; seq < len(seqs) && seq < NumSequencers; seq++ {
		steps, _ := seqs[seq].([]any)
		for step := 0; step < len(steps) && step < MaxSteps; step++ {
			triple, _ := steps[step].([]any)
			if len(triple) != NumOutputs {
				continue
			}
			for out, leaf := range triple {
				if v, ok := leaf.(float64); ok {
					p.CV[seq][step][out] = clampInt16(v)
				}
			}
		}
	}

	tracks, _ := root["gateSteps"].([]any)
	for track := 0; track < len(tracks) && track < NumTracks; track++ {
		steps, _ := tracks[track].([]any)
		for step := 0; step < len(steps) && step < MaxSteps; step++ {
			switch v := steps[step].(type) {
			case float64:
				p.Gates[track][step] = clampGateState(v)
			case bool:
				if v {
					p.Gates[track][step] = GateNormal
				} else {
					p.Gates[track][step] = GateOff
				}
			}
		}
	}
	return p, nil
}

func clampInt16(v float64) int16 {
	if math.IsNaN(v) {
		return 0
	}
	if v < math.MinInt16 {
		return math.MinInt16
	}
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	return int16(v)
}

// clampGateState maps legacy on/off values: anything above Accent counts as Normal
func clampGateState(v float64) GateState {
	switch {
	case v <= 0:
		return GateOff
	case v > float64(GateAccent):
		return GateNormal
	}
	return GateState(v)
}
