package chip8

import "strings"

// Op identifies the instruction class of a decoded CHIP-8 opcode.
// Unknown marks a bit pattern that matches no instruction; classifying
// it as a fault is left to Machine.Step.
type Op byte

const (
	Unknown Op = iota
	SYS        // 0nnn: machine code routine; ignored
	CLS        // 00E0: clear the display
	RET        // 00EE: return from subroutine
	JP         // 1nnn: jump to nnn
	CALL       // 2nnn: call subroutine at nnn
	SE         // 3xnn: skip next if Vx == nn
	SNE        // 4xnn: skip next if Vx != nn
	SEV        // 5xy0: skip next if Vx == Vy
	LD         // 6xnn: Vx = nn
	ADD        // 7xnn: Vx += nn, no flag
	LDV        // 8xy0: Vx = Vy
	OR         // 8xy1: Vx |= Vy
	AND        // 8xy2: Vx &= Vy
	XOR        // 8xy3: Vx ^= Vy
	ADDV       // 8xy4: Vx += Vy, VF = carry
	SUB        // 8xy5: Vx -= Vy, VF = 1 if no borrow
	SHR        // 8xy6: VF = bit 0 of Vx, Vx >>= 1
	SUBN       // 8xy7: Vx = Vy - Vx, VF = 1 if no borrow
	SHL        // 8xyE: VF = bit 7 of Vx, Vx <<= 1
	SNEV       // 9xy0: skip next if Vx != Vy
	LDI        // Annn: I = nnn
	JPV        // Bnnn: jump to nnn + V0
	RND        // Cxnn: Vx = random byte & nn
	DRW        // Dxyn: draw n-byte sprite from I at (Vx, Vy)
	SKP        // Ex9E: skip next if key Vx is down
	SKNP       // ExA1: skip next if key Vx is up
	LDDT       // Fx07: Vx = delay timer
	LDK        // Fx0A: wait for a key press, Vx = key
	STDT       // Fx15: delay timer = Vx
	STST       // Fx18: sound timer = Vx
	ADDI       // Fx1E: I += Vx
	LDF        // Fx29: I = address of font sprite for digit Vx
	BCD        // Fx33: decimal digits of Vx to I, I+1, I+2
	STR        // Fx55: store V0..Vx at I
	LDR        // Fx65: load V0..Vx from I
)

func (o Op) String() string { return opStrings[o] }

var opStrings = strings.Fields(`
	???
	SYS
	CLS
	RET
	JP
	CALL
	SE
	SNE
	SEV
	LD
	ADD
	LDV
	OR
	AND
	XOR
	ADDV
	SUB
	SHR
	SUBN
	SHL
	SNEV
	LDI
	JPV
	RND
	DRW
	SKP
	SKNP
	LDDT
	LDK
	STDT
	STST
	ADDI
	LDF
	BCD
	STR
	LDR
`)

// Instruction is a decoded opcode. It is a pure value; Decode never
// inspects or mutates machine state.
type Instruction struct {
	Word uint16 // the opcode as fetched
	Op   Op

	X, Y byte   // register operands (second and third nibbles)
	N    byte   // low nibble
	NN   byte   // low byte
	NNN  uint16 // low 12 bits
}

// Decode splits word into its operand fields and classifies it.
// It is total: unrecognized patterns decode to Op Unknown.
func Decode(word uint16) Instruction {
	in := Instruction{
		Word: word,
		X:    byte(word >> 8 & 0xf),
		Y:    byte(word >> 4 & 0xf),
		N:    byte(word & 0xf),
		NN:   byte(word),
		NNN:  word & 0xfff,
	}
	switch word & 0xf000 {
	case 0x0000:
		switch word {
		case 0x00e0:
			in.Op = CLS
		case 0x00ee:
			in.Op = RET
		default:
			in.Op = SYS
		}
	case 0x1000:
		in.Op = JP
	case 0x2000:
		in.Op = CALL
	case 0x3000:
		in.Op = SE
	case 0x4000:
		in.Op = SNE
	case 0x5000:
		if in.N == 0 {
			in.Op = SEV
		}
	case 0x6000:
		in.Op = LD
	case 0x7000:
		in.Op = ADD
	case 0x8000:
		switch in.N {
		case 0x0:
			in.Op = LDV
		case 0x1:
			in.Op = OR
		case 0x2:
			in.Op = AND
		case 0x3:
			in.Op = XOR
		case 0x4:
			in.Op = ADDV
		case 0x5:
			in.Op = SUB
		case 0x6:
			in.Op = SHR
		case 0x7:
			in.Op = SUBN
		case 0xe:
			in.Op = SHL
		}
	case 0x9000:
		if in.N == 0 {
			in.Op = SNEV
		}
	case 0xa000:
		in.Op = LDI
	case 0xb000:
		in.Op = JPV
	case 0xc000:
		in.Op = RND
	case 0xd000:
		in.Op = DRW
	case 0xe000:
		switch in.NN {
		case 0x9e:
			in.Op = SKP
		case 0xa1:
			in.Op = SKNP
		}
	case 0xf000:
		switch in.NN {
		case 0x07:
			in.Op = LDDT
		case 0x0a:
			in.Op = LDK
		case 0x15:
			in.Op = STDT
		case 0x18:
			in.Op = STST
		case 0x1e:
			in.Op = ADDI
		case 0x29:
			in.Op = LDF
		case 0x33:
			in.Op = BCD
		case 0x55:
			in.Op = STR
		case 0x65:
			in.Op = LDR
		}
	}
	return in
}
