package chip8

import "testing"

func TestDecode(t *testing.T) {
	for _, c := range []struct {
		word uint16
		want Instruction
	}{
		{0x0000, Instruction{Op: SYS}},
		{0x0123, Instruction{Op: SYS, X: 1, Y: 2, N: 3, NN: 0x23, NNN: 0x123}},
		{0x00e0, Instruction{Op: CLS, Y: 0xe, NN: 0xe0, NNN: 0x0e0}},
		{0x00ee, Instruction{Op: RET, Y: 0xe, N: 0xe, NN: 0xee, NNN: 0x0ee}},
		{0x1234, Instruction{Op: JP, X: 2, Y: 3, N: 4, NN: 0x34, NNN: 0x234}},
		{0x2345, Instruction{Op: CALL, X: 3, Y: 4, N: 5, NN: 0x45, NNN: 0x345}},
		{0x3abc, Instruction{Op: SE, X: 0xa, Y: 0xb, N: 0xc, NN: 0xbc, NNN: 0xabc}},
		{0x4abc, Instruction{Op: SNE, X: 0xa, Y: 0xb, N: 0xc, NN: 0xbc, NNN: 0xabc}},
		{0x5120, Instruction{Op: SEV, X: 1, Y: 2, NN: 0x20, NNN: 0x120}},
		{0x5121, Instruction{Op: Unknown, X: 1, Y: 2, N: 1, NN: 0x21, NNN: 0x121}},
		{0x60ff, Instruction{Op: LD, Y: 0xf, N: 0xf, NN: 0xff, NNN: 0x0ff}},
		{0x7001, Instruction{Op: ADD, N: 1, NN: 0x01, NNN: 0x001}},
		{0x8120, Instruction{Op: LDV, X: 1, Y: 2, NN: 0x20, NNN: 0x120}},
		{0x8121, Instruction{Op: OR, X: 1, Y: 2, N: 1, NN: 0x21, NNN: 0x121}},
		{0x8122, Instruction{Op: AND, X: 1, Y: 2, N: 2, NN: 0x22, NNN: 0x122}},
		{0x8123, Instruction{Op: XOR, X: 1, Y: 2, N: 3, NN: 0x23, NNN: 0x123}},
		{0x8124, Instruction{Op: ADDV, X: 1, Y: 2, N: 4, NN: 0x24, NNN: 0x124}},
		{0x8125, Instruction{Op: SUB, X: 1, Y: 2, N: 5, NN: 0x25, NNN: 0x125}},
		{0x8126, Instruction{Op: SHR, X: 1, Y: 2, N: 6, NN: 0x26, NNN: 0x126}},
		{0x8127, Instruction{Op: SUBN, X: 1, Y: 2, N: 7, NN: 0x27, NNN: 0x127}},
		{0x812e, Instruction{Op: SHL, X: 1, Y: 2, N: 0xe, NN: 0x2e, NNN: 0x12e}},
		{0x812f, Instruction{Op: Unknown, X: 1, Y: 2, N: 0xf, NN: 0x2f, NNN: 0x12f}},
		{0x9120, Instruction{Op: SNEV, X: 1, Y: 2, NN: 0x20, NNN: 0x120}},
		{0x9121, Instruction{Op: Unknown, X: 1, Y: 2, N: 1, NN: 0x21, NNN: 0x121}},
		{0xa123, Instruction{Op: LDI, X: 1, Y: 2, N: 3, NN: 0x23, NNN: 0x123}},
		{0xb123, Instruction{Op: JPV, X: 1, Y: 2, N: 3, NN: 0x23, NNN: 0x123}},
		{0xc1ff, Instruction{Op: RND, X: 1, Y: 0xf, N: 0xf, NN: 0xff, NNN: 0x1ff}},
		{0xd123, Instruction{Op: DRW, X: 1, Y: 2, N: 3, NN: 0x23, NNN: 0x123}},
		{0xe19e, Instruction{Op: SKP, X: 1, Y: 9, N: 0xe, NN: 0x9e, NNN: 0x19e}},
		{0xe1a1, Instruction{Op: SKNP, X: 1, Y: 0xa, N: 1, NN: 0xa1, NNN: 0x1a1}},
		{0xe1aa, Instruction{Op: Unknown, X: 1, Y: 0xa, N: 0xa, NN: 0xaa, NNN: 0x1aa}},
		{0xf107, Instruction{Op: LDDT, X: 1, N: 7, NN: 0x07, NNN: 0x107}},
		{0xf10a, Instruction{Op: LDK, X: 1, N: 0xa, NN: 0x0a, NNN: 0x10a}},
		{0xf115, Instruction{Op: STDT, X: 1, Y: 1, N: 5, NN: 0x15, NNN: 0x115}},
		{0xf118, Instruction{Op: STST, X: 1, Y: 1, N: 8, NN: 0x18, NNN: 0x118}},
		{0xf11e, Instruction{Op: ADDI, X: 1, Y: 1, N: 0xe, NN: 0x1e, NNN: 0x11e}},
		{0xf129, Instruction{Op: LDF, X: 1, Y: 2, N: 9, NN: 0x29, NNN: 0x129}},
		{0xf133, Instruction{Op: BCD, X: 1, Y: 3, N: 3, NN: 0x33, NNN: 0x133}},
		{0xf155, Instruction{Op: STR, X: 1, Y: 5, N: 5, NN: 0x55, NNN: 0x155}},
		{0xf165, Instruction{Op: LDR, X: 1, Y: 6, N: 5, NN: 0x65, NNN: 0x165}},
		{0xf1ff, Instruction{Op: Unknown, X: 1, Y: 0xf, N: 0xf, NN: 0xff, NNN: 0x1ff}},
	} {
		c.want.Word = c.word
		if got := Decode(c.word); got != c.want {
			t.Errorf("Decode(%.4x) = %+v, want %+v", c.word, got, c.want)
		}
	}
}

// Check that every opcode class has its own string.
func TestOpString(t *testing.T) {
	seen := make(map[string]Op)
	for o := Unknown; o <= LDR; o++ {
		s := o.String()
		if s == "" {
			t.Errorf("Op(%d) has no string", o)
			continue
		}
		if prev, ok := seen[s]; ok {
			t.Errorf("Op(%d) and Op(%d) share the string %q", prev, o, s)
		}
		seen[s] = o
	}
	if len(opStrings) != int(LDR)+1 {
		t.Errorf("opStrings has %d entries, want %d", len(opStrings), int(LDR)+1)
	}
}
