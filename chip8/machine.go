// Package chip8 provides an implementation of the CHIP-8 virtual
// machine, called Machine, that can be used to execute CHIP-8
// program images.
package chip8

import (
	"errors"
	"fmt"
	"math/rand"
)

const (
	// MemSize is the size of the machine's byte-addressable memory.
	MemSize = 4096
	// LoadAddr is the address programs are loaded at and where
	// execution begins. The region below it is reserved; the machine
	// keeps the font sprites there.
	LoadAddr = 0x200

	// DisplayWidth and DisplayHeight are the dimensions of the
	// monochrome pixel buffer.
	DisplayWidth  = 64
	DisplayHeight = 32

	// FontAddr is the address of the built-in font sprites, five
	// bytes per hexadecimal digit.
	FontAddr = 0x050

	stackSize = 16
)

// addIndexSetsFlag pins the policy for the ADD I,Vx instruction:
// reference implementations disagree on whether VF should report the
// address register overflowing past 0xFFF. This machine sets it.
const addIndexSetsFlag = true

// Machine is an implementation of a CHIP-8 CPU and its attached state:
// memory, registers, call stack, timers, pixel buffer, and keypad.
// It is not safe for concurrent use; a single owner must serialize
// Step, TickTimers, and SetKey (see package cosmac).
type Machine struct {
	Mem   [MemSize]byte
	V     [16]byte // V[0xF] doubles as the carry/borrow/collision flag
	I     uint16
	PC    uint16
	Stack [stackSize]uint16
	SP    byte // count of occupied stack slots

	Delay byte
	Sound byte

	// Pix is the pixel buffer in row-major order; cells are 0 or 1.
	Pix [DisplayWidth * DisplayHeight]byte
	// Draws counts instructions that modified Pix, so display sinks
	// can detect changes without diffing the buffer.
	Draws uint64

	Keys [16]bool

	// Rand supplies the random byte consumed by the RND instruction.
	// New sets it to the shared math/rand source; tests replace it
	// to make execution deterministic.
	Rand func() byte

	waiting bool // suspended by LDK until the next key press
	waitReg byte
}

// ErrROMTooLarge is returned by New for a program image that would
// extend past the end of memory.
var ErrROMTooLarge = errors.New("program image too large")

// New returns a Machine with rom loaded at LoadAddr and the program
// counter pointing at its first instruction.
func New(rom []byte) (*Machine, error) {
	if len(rom) > MemSize-LoadAddr {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrROMTooLarge, len(rom), MemSize-LoadAddr)
	}
	m := &Machine{
		PC:   LoadAddr,
		Rand: func() byte { return byte(rand.Intn(256)) },
	}
	copy(m.Mem[FontAddr:], font[:])
	copy(m.Mem[LoadAddr:], rom)
	return m, nil
}

// Pixel reports the pixel at (x, y); coordinates wrap.
func (m *Machine) Pixel(x, y int) byte {
	return m.Pix[y%DisplayHeight*DisplayWidth+x%DisplayWidth]
}

// SetKey records key k as pressed or released. A press while the
// machine is waiting on LDK completes the wait.
func (m *Machine) SetKey(k byte, down bool) {
	k &= 0xf
	m.Keys[k] = down
	if down && m.waiting {
		m.V[m.waitReg] = k
		m.waiting = false
	}
}

// Waiting reports whether the machine is suspended by LDK. The
// scheduler must not Step a waiting machine; timers keep ticking.
func (m *Machine) Waiting() bool { return m.waiting }

// TickTimers applies one 60 Hz timer tick, decrementing both timers
// toward zero, and reports whether the sound timer is still running
// (the audio sink should emit sound while it is).
func (m *Machine) TickTimers() (sound bool) {
	if m.Delay > 0 {
		m.Delay--
	}
	if m.Sound > 0 {
		m.Sound--
	}
	return m.Sound > 0
}

func (m *Machine) push(addr uint16) {
	if m.SP == stackSize {
		panic(StackOverflow)
	}
	m.Stack[m.SP] = addr
	m.SP++
}

func (m *Machine) pop() uint16 {
	if m.SP == 0 {
		panic(StackUnderflow)
	}
	m.SP--
	return m.Stack[m.SP]
}

// checkMem panics with AddressOutOfRange unless [addr, addr+n) lies
// within memory.
func (m *Machine) checkMem(addr uint16, n uint16) {
	if uint32(addr)+uint32(n) > MemSize {
		panic(AddressOutOfRange)
	}
}

// FaultError is returned by Step when execution halts the machine.
type FaultError struct {
	FaultCode
	Word uint16 // the faulting opcode, zero if the fetch itself faulted
	Addr uint16 // PC of the faulting instruction
}

func (e FaultError) Error() string {
	return fmt.Sprintf("%s executing %.4x at %.4x", e.FaultCode, e.Word, e.Addr)
}

// FaultCode signifies the type of condition that halted execution.
type FaultCode byte

const (
	UnknownOpcode FaultCode = iota
	StackOverflow
	StackUnderflow
	AddressOutOfRange
)

func (c FaultCode) String() string {
	if s, ok := map[FaultCode]string{
		UnknownOpcode:     "unknown opcode",
		StackOverflow:     "stack overflow",
		StackUnderflow:    "stack underflow",
		AddressOutOfRange: "address out of range",
	}[c]; ok {
		return s
	}
	return fmt.Sprintf("unknown fault (%.2x)", byte(c))
}

// font is the standard 4x5 sprite set for the hexadecimal digits,
// one row per byte, drawn from the high bit down.
var font = [80]byte{
	0xf0, 0x90, 0x90, 0x90, 0xf0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xf0, 0x10, 0xf0, 0x80, 0xf0, // 2
	0xf0, 0x10, 0xf0, 0x10, 0xf0, // 3
	0x90, 0x90, 0xf0, 0x10, 0x10, // 4
	0xf0, 0x80, 0xf0, 0x10, 0xf0, // 5
	0xf0, 0x80, 0xf0, 0x90, 0xf0, // 6
	0xf0, 0x10, 0x20, 0x40, 0x40, // 7
	0xf0, 0x90, 0xf0, 0x90, 0xf0, // 8
	0xf0, 0x90, 0xf0, 0x10, 0xf0, // 9
	0xf0, 0x90, 0xf0, 0x90, 0x90, // A
	0xe0, 0x90, 0xe0, 0x90, 0xe0, // B
	0xf0, 0x80, 0x80, 0x80, 0xf0, // C
	0xe0, 0x90, 0x90, 0x90, 0xe0, // D
	0xf0, 0x80, 0xf0, 0x80, 0xf0, // E
	0xf0, 0x80, 0xf0, 0x80, 0x80, // F
}
