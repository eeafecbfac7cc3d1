// Package cosmac runs a chip8.Machine as a complete computer: it
// drives the fetch-decode-execute loop and the fixed 60 Hz timer
// schedule, and connects the machine's pixel buffer, keypad, and
// sound timer to display, input, and audio front ends. It is named
// for the COSMAC VIP, the machine CHIP-8 originally ran on.
package cosmac

import (
	"errors"
	"sync"
	"time"

	"github.com/okeefe/c8/chip8"
)

// TimerHz is the rate of the timer/display schedule. Unlike the
// instruction rate it is an architecture constant: both countdown
// timers decrement at exactly this frequency regardless of how fast
// instructions execute.
const TimerHz = 60

// Frame is a snapshot of the machine's pixel buffer, safe to read
// from any goroutine.
type Frame struct {
	Pix [chip8.DisplayWidth * chip8.DisplayHeight]byte
	Seq uint64 // the machine's draw counter when the snapshot was taken
}

// Beeper is the audio sink: Beep(true) while the sound timer runs,
// Beep(false) when it reaches zero.
type Beeper interface {
	Beep(on bool)
}

type silence struct{}

func (silence) Beep(bool) {}

// Silence returns a Beeper that does nothing.
func Silence() Beeper { return silence{} }

type keyEvent struct {
	key  byte
	down bool
}

// Runner owns a Machine and is the only mutator of its state. Front
// ends communicate with it through channels: key transitions in,
// frame snapshots out. Its loop interleaves two schedules: the 60 Hz
// timer tick and a configurable instructions-per-second execution
// rate, batched under each tick so timer cadence never drifts with
// instruction throughput.
type Runner struct {
	speed int
	beep  Beeper

	m *chip8.Machine

	keys   chan keyEvent
	swap   chan *chip8.Machine
	frames chan *Frame
	halt   chan struct{}
	done   chan struct{}

	haltOnce sync.Once

	drawn   uint64 // Draws value of the last published frame
	beeping bool
}

// NewRunner returns a Runner executing speed instructions per second
// on m, signalling beep while the sound timer runs.
func NewRunner(m *chip8.Machine, speed int, beep Beeper) *Runner {
	return &Runner{
		speed:  speed,
		beep:   beep,
		m:      m,
		keys:   make(chan keyEvent, 64),
		swap:   make(chan *chip8.Machine),
		frames: make(chan *Frame, 1),
		halt:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Frames returns the channel on which the Runner publishes pixel
// buffer snapshots. Only the latest frame is retained; a slow
// consumer never blocks execution.
func (r *Runner) Frames() <-chan *Frame { return r.frames }

// Key reports a key transition from a front end. It never blocks.
func (r *Runner) Key(k byte, down bool) {
	select {
	case r.keys <- keyEvent{k, down}:
	default:
	}
}

// Swap replaces the running machine with a fresh one loaded with rom.
// It returns the rom's load error, if any, or an error if the Runner
// has already stopped.
func (r *Runner) Swap(rom []byte) error {
	m, err := chip8.New(rom)
	if err != nil {
		return err
	}
	select {
	case r.swap <- m:
		return nil
	case <-r.done:
		return errors.New("runner stopped")
	}
}

// Halt stops Run. It may be called more than once.
func (r *Runner) Halt() {
	r.haltOnce.Do(func() { close(r.halt) })
}

// Run executes the machine until it faults or Halt is called. The
// returned error is the machine's FaultError, which carries the
// program counter at the time of failure.
func (r *Runner) Run() error {
	defer close(r.done)
	defer r.beep.Beep(false)
	tick := time.NewTicker(time.Second / TimerHz)
	defer tick.Stop()
	for {
		select {
		case <-r.halt:
			return nil
		case m := <-r.swap:
			r.m = m
			r.publish()
		case ev := <-r.keys:
			r.m.SetKey(ev.key, ev.down)
		case <-tick.C:
			if err := r.tick(); err != nil {
				return err
			}
		}
	}
}

// tick is one step of the 60 Hz schedule: decrement the timers,
// update the beeper, then run this tick's share of the instruction
// budget. A machine waiting for a key executes nothing, but its
// timers still count down.
func (r *Runner) tick() error {
	sound := r.m.TickTimers()
	if sound != r.beeping {
		r.beeping = sound
		r.beep.Beep(sound)
	}
	n := r.speed / TimerHz
	if n < 1 {
		n = 1
	}
	for i := 0; i < n && !r.m.Waiting(); i++ {
		if err := r.m.Step(); err != nil {
			return err
		}
	}
	if r.m.Draws != r.drawn {
		r.publish()
	}
	return nil
}

// publish snapshots the pixel buffer onto the frames channel,
// discarding any stale frame a consumer has not collected.
func (r *Runner) publish() {
	f := &Frame{Seq: r.m.Draws}
	copy(f.Pix[:], r.m.Pix[:])
	r.drawn = r.m.Draws
	for {
		select {
		case r.frames <- f:
			return
		default:
		}
		select {
		case <-r.frames:
		default:
		}
	}
}
