package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"vseq/midi"
	"vseq/sequencer"
)

// EngineConfig controls how the machine is hosted
type EngineConfig struct {
	SampleRate int `json:"sampleRate"`
	BlockSize  int `json:"blockSize"` // frames per cycle
}

// MIDIConfig names the ports used for clock input and note/CC output.
// Empty port names disable that side.
type MIDIConfig struct {
	ClockPort    string `json:"clockPort,omitempty"`
	ClockDivider int    `json:"clockDivider"` // MIDI clocks per step
	OutputPort   string `json:"outputPort,omitempty"`
	sequencer.MIDISettings
}

// UIConfig stores UI preferences
type UIConfig struct {
	LastPreset string `json:"lastPreset,omitempty"`
}

// Config is the main configuration structure
type Config struct {
	Engine     EngineConfig                                       `json:"engine"`
	MIDI       MIDIConfig                                         `json:"midi"`
	Sequencers [sequencer.NumSequencers]sequencer.SequencerConfig `json:"sequencers"`
	Tracks     [sequencer.NumTracks]sequencer.GateConfig          `json:"tracks"`
	UI         UIConfig                                           `json:"ui"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	p := sequencer.DefaultParams()
	return &Config{
		Engine: EngineConfig{
			SampleRate: sequencer.DefaultSampleRate,
			BlockSize:  128,
		},
		MIDI: MIDIConfig{
			ClockDivider: midi.DefaultDivider,
			MIDISettings: sequencer.DefaultMIDISettings(),
		},
		Sequencers: p.Sequencers,
		Tracks:     p.Tracks,
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "vseq"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config at path, or returns defaults if not found.
// Fields missing from the file keep their defaults.
func Load(fs afero.Fs, path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.fillMissing()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// Validate rejects engine settings the runner cannot use. Sequencer
// parameters are clamped instead.
func (c *Config) Validate() error {
	if c.Engine.SampleRate <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSampleRate, c.Engine.SampleRate)
	}
	if c.Engine.BlockSize <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidBlockSize, c.Engine.BlockSize)
	}
	p := c.Params()
	c.Sequencers = p.Sequencers
	c.Tracks = p.Tracks
	return nil
}

// fillMissing restores defaults for entries a short JSON array zeroed
func (c *Config) fillMissing() {
	for i := range c.Sequencers {
		if c.Sequencers[i].Length == 0 {
			c.Sequencers[i] = sequencer.DefaultSequencerConfig()
		}
	}
	for i := range c.Tracks {
		if c.Tracks[i].Length == 0 {
			c.Tracks[i] = sequencer.DefaultGateConfig()
		}
	}
}

// Params returns the sequencer parameters, clamped into range
func (c *Config) Params() sequencer.Params {
	p := sequencer.Params{
		Sequencers: c.Sequencers,
		Tracks:     c.Tracks,
	}
	p.Clamp()
	return p
}

// SetParams stores the machine's current parameters
func (c *Config) SetParams(p sequencer.Params) {
	c.Sequencers = p.Sequencers
	c.Tracks = p.Tracks
}

// Save writes the config to path
func (c *Config) Save(fs afero.Fs, path string) error {
	// Create directory if it doesn't exist
	if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return afero.WriteFile(fs, path, data, 0644)
}
