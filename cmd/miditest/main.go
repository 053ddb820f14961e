package main

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"vseq/midi"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	switch os.Args[1] {
	case "list":
		listPorts()
	case "clock":
		monitorClock(arg(2))
	case "note":
		testNote(arg(2))
	default:
		usage()
	}
}

func arg(i int) string {
	if len(os.Args) > i {
		return os.Args[i]
	}
	return ""
}

func usage() {
	fmt.Println("MIDI Test Scripts")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list          - List all MIDI ports")
	fmt.Println("  clock <port>  - Show clock, start and stop from an input")
	fmt.Println("  note <port>   - Send a test note and trigger CC to an output")
}

func listPorts() {
	fmt.Println("=== MIDI Input Ports ===")
	fmt.Println("(waiting up to 3 seconds...)")

	ins, outs, err := midi.Ports()
	if err != nil {
		fmt.Println("\nTIMEOUT! CoreMIDI is hung.")
		fmt.Println("Fix: sudo killall coreaudiod midiserver")
		return
	}

	for i, p := range ins {
		fmt.Printf("  %d: %s\n", i, p.String())
	}
	fmt.Println("\n=== MIDI Output Ports ===")
	for i, p := range outs {
		fmt.Printf("  %d: %s\n", i, p.String())
	}
}

func monitorClock(name string) {
	in, err := midi.FindInPort(name)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Printf("Listening on %s. Ctrl+C to exit.\n", in.String())

	// Steps as the sequencer would see them, at the default divider
	clock := midi.NewClockInput(midi.DefaultDivider)
	if err := clock.Open(in); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer clock.Close()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	poll := time.NewTicker(time.Millisecond)
	defer poll.Stop()

	steps := 0
	wasRunning := true
	var last uint64
	for {
		select {
		case <-interrupt:
			fmt.Println()
			return
		case <-poll.C:
			c, r := clock.Sample()
			if c > 0 {
				steps++
			}
			if r > 0 {
				fmt.Printf("[%s] %s\n", time.Now().Format("15:04:05.000"), midi.RealtimeName(midi.Start))
				steps = 0
			}
			if running := clock.Running(); running != wasRunning {
				if !running {
					fmt.Printf("[%s] %s\n", time.Now().Format("15:04:05.000"), midi.RealtimeName(midi.Stop))
				}
				wasRunning = running
			}
		case <-ticker.C:
			n := clock.Received()
			bpm := float64(n-last) * 60 / midi.PulsesPerQuarter
			fmt.Printf("clocks/s:%3d  ~%5.1f bpm  steps:%d  running:%v\n", n-last, bpm, steps, clock.Running())
			last = n
		}
	}
}

func testNote(name string) {
	out, err := midi.FindOutPort(name)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	send, err := gomidi.SendTo(out)
	if err != nil {
		fmt.Printf("Error opening port: %v\n", err)
		return
	}

	fmt.Printf("Using output: %s\n", out.String())

	fmt.Println("Sending: note 60 on channel 1")
	if err := send(gomidi.NoteOn(0, 60, 100)); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	time.Sleep(200 * time.Millisecond)
	send(gomidi.NoteOff(0, 60))

	fmt.Println("Sending: CC 36 = 127 on channel 10")
	if err := send(gomidi.ControlChange(9, 36, 127)); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Println("Done!")
}
