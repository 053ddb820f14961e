package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/afero"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver

	"vseq/config"
	"vseq/debug"
	"vseq/midi"
	"vseq/sequencer"
	"vseq/theme"
	"vseq/tui"
)

func main() {
	configPath := flag.String("config", "", "config file (default ~/.config/vseq/config.json)")
	preset := flag.String("preset", "", "load a preset: project, or project/file")
	script := flag.String("script", "", "Starlark script that generates the patterns")
	palette := flag.String("palette", "", "GIMP palette file for the TUI")
	headless := flag.Bool("headless", false, "run without the TUI")
	debugLog := flag.Bool("debug", false, "write a debug log to ~/.config/vseq/debug.log")
	flag.Parse()

	if *debugLog {
		if err := debug.Enable(); err != nil {
			log.Fatalf("debug log: %v", err)
		}
		defer debug.Disable()
	}

	fs := afero.NewOsFs()

	path := *configPath
	if path == "" {
		p, err := config.ConfigPath()
		if err != nil {
			log.Fatalf("config: %v", err)
		}
		path = p
	}
	cfg, err := config.Load(fs, path)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	machine := sequencer.NewMachine(cfg.Engine.SampleRate)
	machine.SetParams(cfg.Params())

	projectsDir, err := sequencer.ProjectsDir()
	if err != nil {
		log.Fatalf("projects: %v", err)
	}
	store := sequencer.NewProjectStore(fs, projectsDir)

	project := cfg.UI.LastPreset
	if *preset != "" {
		project = loadPreset(store, machine, *preset)
	} else if project != "" {
		// The last preset may have been deleted since
		p, err := store.LoadProject(project, "")
		if err != nil {
			debug.Log("preset", "last preset %s: %v", project, err)
		} else {
			machine.LoadPatterns(p)
		}
	}

	if *script != "" {
		src, err := afero.ReadFile(fs, *script)
		if err != nil {
			log.Fatalf("script: %v", err)
		}
		p := machine.Patterns()
		if err := sequencer.ApplyScript(p, *script, string(src)); err != nil {
			log.Fatalf("script: %v", err)
		}
		machine.LoadPatterns(p)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	var sampler sequencer.Sampler = &sequencer.Levels{}
	if cfg.MIDI.ClockPort != "" {
		in, err := midi.FindInPort(cfg.MIDI.ClockPort)
		if err != nil {
			log.Fatalf("clock input: %v", err)
		}
		clock := midi.NewClockInput(cfg.MIDI.ClockDivider)
		if err := clock.Open(in); err != nil {
			log.Fatalf("clock input: %v", err)
		}
		defer clock.Close()
		sampler = clock
	}

	if cfg.MIDI.OutputPort != "" {
		out, err := midi.FindOutPort(cfg.MIDI.OutputPort)
		if err != nil {
			log.Fatalf("midi output: %v", err)
		}
		queue, err := midi.OpenOutput(out, 256)
		if err != nil {
			log.Fatalf("midi output: %v", err)
		}
		go queue.Run(ctx)
		machine.SetListener(sequencer.NewMIDIEmitter(cfg.MIDI.MIDISettings, queue.Send))
	}

	runner := sequencer.NewRunner(machine, sampler, cfg.Engine.BlockSize)
	go runner.Run(ctx)

	if *headless {
		fmt.Println("vseq running headless, ctrl+c to stop")
		<-ctx.Done()
	} else {
		th := theme.New(nil)
		if *palette != "" {
			p, err := theme.LoadGPL(fs, *palette)
			if err != nil {
				log.Fatalf("palette: %v", err)
			}
			th = theme.New(p)
		}

		m := tui.NewModel(runner, store, project, th)
		p := tea.NewProgram(m, tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		cancel()
	}

	cfg.SetParams(runner.Snapshot().Params)
	cfg.UI.LastPreset = project
	if err := cfg.Save(fs, path); err != nil {
		log.Printf("save config: %v", err)
	}
}

// loadPreset loads "project" (latest save) or "project/file" into the machine
// and returns the project name
func loadPreset(store *sequencer.ProjectStore, machine *sequencer.Machine, name string) string {
	project, file, _ := strings.Cut(name, "/")
	p, err := store.LoadProject(project, file)
	if err != nil {
		log.Fatalf("preset: %v", err)
	}
	machine.LoadPatterns(p)
	return project
}
