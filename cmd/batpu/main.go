// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/k0kubun/pp/v3"
	"golang.org/x/term"

	"github.com/ezrec/batpu/emulator"
	"github.com/ezrec/batpu/machine"
	"github.com/ezrec/batpu/script"
	"github.com/ezrec/batpu/translate"
)

const (
	FRAME_RATE = 30 // Interactive redraws per second.
)

func main() {
	var compile string
	var code string
	var output string
	var save bool
	var rate float64
	var ticks int
	var interactive bool
	var dumpState bool
	var verbose bool
	var lang string

	flag.StringVar(&compile, "c", "", ".star program to compile")
	flag.StringVar(&code, "m", "", ".mc machine code to load")
	flag.StringVar(&output, "o", "", ".mc machine code to write")
	flag.BoolVar(&save, "s", false, "Save machine code only, do not execute")
	flag.Float64Var(&rate, "r", emulator.DEFAULT_RATE, "Instructions per second in interactive mode")
	flag.IntVar(&ticks, "n", 0, "Maximum ticks to execute, 0 for no limit")
	flag.BoolVar(&interactive, "i", false, "Interactive mode")
	flag.BoolVar(&dumpState, "p", false, "Pretty print the final machine state")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.StringVar(&lang, "l", "", "Message locale, default from the host")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	if len(lang) != 0 {
		err := translate.SetLocale(lang)
		if err != nil {
			log.Fatalf("%v: %v", lang, err)
		}
	}

	if len(compile) != 0 && len(code) != 0 {
		log.Fatalf("%v: -c and -m are exclusive", os.Args[0])
	}

	emu := emulator.NewEmulator()
	emu.Verbose = verbose
	emu.Rate = rate

	prog := &machine.Program{}

	// Compile a new instruction stream.
	if len(compile) != 0 {
		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()

		builder := &script.Builder{Verbose: verbose}
		for name, value := range emu.Defines() {
			builder.Predefine(name, value)
		}
		prog, err = builder.Parse(compile, inf)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
	}

	// Load an existing instruction stream.
	if len(code) != 0 {
		inf, err := os.Open(code)
		if err != nil {
			log.Fatalf("%v: %v", code, err)
		}
		defer inf.Close()

		prog, err = machine.ReadMachineCode(inf)
		if err != nil {
			log.Fatalf("%v: %v", code, err)
		}
	}

	if len(output) != 0 {
		ouf, err := os.Create(output)
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
		err = machine.WriteMachineCode(ouf, prog)
		if err == nil {
			err = ouf.Close()
		}
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
	}

	if save {
		return
	}

	emu.Load(prog)

	var err error
	if interactive {
		err = runInteractive(emu, ticks)
	} else {
		err = runBatch(emu, ticks)
	}
	if err != nil {
		log.Print(emu.Machine.String())
		log.Fatal(err)
	}

	snap := emu.Snapshot()
	if !interactive {
		err = render(os.Stdout, &snap, "\n")
		if err != nil {
			log.Fatal(err)
		}
	}

	if dumpState {
		err = dump(os.Stdout, &snap, term.IsTerminal(int(os.Stdout.Fd())))
		if err != nil {
			log.Fatal(err)
		}
	}
}

// dump pretty prints a snapshot.
func dump(w io.Writer, snap *emulator.Snapshot, color bool) (err error) {
	pp.Default.SetColoringEnabled(color)
	_, err = pp.Fprintln(w, *snap)
	return
}

// runBatch executes until halt, or until the tick limit if set.
func runBatch(emu *emulator.Emulator, limit int) (err error) {
	for n := 0; limit == 0 || n < limit; n++ {
		var done bool
		done, err = emu.Tick()
		if err != nil || done {
			return
		}
	}

	return
}

// runInteractive executes at the emulator rate, feeding the keyboard into
// the controller and redrawing on change, until quit or the tick limit.
func runInteractive(emu *emulator.Emulator, limit int) (err error) {
	kb, err := NewKeyboard()
	if err != nil {
		return
	}
	defer kb.Close()

	frame := time.NewTicker(time.Second / FRAME_RATE)
	defer frame.Stop()

	held := holds{}
	last := time.Now()

	for {
		select {
		case keys, ok := <-kb.Keys:
			if !ok {
				return
			}
			now := time.Now()
			for _, k := range keys {
				if k.Quit {
					return
				}
				held.press(k.Button, now)
			}
		case now := <-frame.C:
			held.apply(emu.Press, now)

			_, err = emu.Run(now.Sub(last))
			last = now
			if err != nil {
				return
			}

			snap, dirty := emu.Poll()
			if dirty != 0 {
				fmt.Print("\x1b[H\x1b[2J")
				err = render(os.Stdout, &snap, "\r\n")
				if err != nil {
					return
				}
			}

			if limit != 0 && snap.Ticks >= limit {
				return
			}
		}
	}
}
