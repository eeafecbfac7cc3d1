// Command c8 executes CHIP-8 ROMs on a COSMAC VIP-style machine.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime/pprof"

	"github.com/okeefe/c8/chip8"
	"github.com/okeefe/c8/cosmac"
)

func main() {
	log.SetPrefix("c8: ")
	log.SetFlags(0)

	var (
		cliFlag   = flag.Bool("cli", false, "render to the terminal instead of a window")
		speedFlag = flag.Int("speed", 700, "instructions executed per second")
		muteFlag  = flag.Bool("mute", false, "disable the beeper")
		watchFlag = flag.Bool("watch", false, "reload the ROM when its file changes")

		cpuProfileFlag = flag.String("cpu_profile", "", "write CPU profile to `file`")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [-cli] [-watch] [-speed n] <program.ch8>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
	}

	var cpuProfile io.Closer
	if prof := *cpuProfileFlag; prof != "" {
		f, err := os.Create(prof)
		if err != nil {
			log.Fatalf("creating CPU profile file: %v", err)
		}
		pprof.StartCPUProfile(f)
		cpuProfile = f
	}

	err := run(flag.Arg(0), *cliFlag, *speedFlag, *muteFlag, *watchFlag)

	if f := cpuProfile; f != nil {
		pprof.StopCPUProfile()
		f.Close()
	}

	if err != nil {
		log.Fatal(err)
	}
}

func run(romFile string, cli bool, speed int, mute, watch bool) error {
	romFile = filepath.Clean(romFile)
	rom, err := os.ReadFile(romFile)
	if err != nil {
		return err
	}
	m, err := chip8.New(rom)
	if err != nil {
		return err
	}

	beep := cosmac.Silence()
	if !mute {
		if b, err := cosmac.NewBeeper(); err != nil {
			log.Printf("audio disabled: %v", err)
		} else {
			beep = b
		}
	}

	r := cosmac.NewRunner(m, speed, beep)
	if watch {
		go watchROM(romFile, r)
	}

	var (
		exit    = make(chan bool)
		execErr error
	)
	go func() {
		execErr = r.Run()
		close(exit)
	}()

	if cli {
		err = termRun(r, filepath.Base(romFile), speed, exit)
	} else {
		err = cosmac.NewGUI(r).Run(exit)
	}
	r.Halt()
	<-exit

	if execErr != nil {
		return execErr
	}
	return err
}
