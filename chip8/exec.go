package chip8

// Step fetches, decodes, and executes the instruction at m.PC.
// It returns a FaultError if the instruction halts the machine;
// faults are fatal and leave the machine unusable for further Steps.
// Step is a no-op while the machine is waiting on LDK.
func (m *Machine) Step() (err error) {
	if m.waiting {
		return nil
	}
	opPC := m.PC
	if int(opPC)+1 >= MemSize {
		return FaultError{FaultCode: AddressOutOfRange, Addr: opPC}
	}
	word := uint16(m.Mem[opPC])<<8 | uint16(m.Mem[opPC+1])

	defer func() {
		if e := recover(); e != nil {
			if code, ok := e.(FaultCode); ok {
				err = FaultError{
					FaultCode: code,
					Word:      word,
					Addr:      opPC,
				}
			} else {
				panic(e)
			}
		}
	}()

	m.PC += 2
	m.exec(Decode(word))
	return nil
}

// exec applies the instruction's effect. The program counter has
// already been advanced past it; control-flow instructions overwrite
// that default. Instructions that write both a result register and
// the flag store the result first, so the flag wins when x is 0xF.
func (m *Machine) exec(in Instruction) {
	switch in.Op {
	case SYS:
		// Machine code for the host CPU; no modern program uses it.
	case CLS:
		m.Pix = [len(m.Pix)]byte{}
		m.Draws++
	case RET:
		m.PC = m.pop()
	case JP:
		m.PC = in.NNN
	case CALL:
		m.push(m.PC)
		m.PC = in.NNN
	case SE:
		if m.V[in.X] == in.NN {
			m.PC += 2
		}
	case SNE:
		if m.V[in.X] != in.NN {
			m.PC += 2
		}
	case SEV:
		if m.V[in.X] == m.V[in.Y] {
			m.PC += 2
		}
	case LD:
		m.V[in.X] = in.NN
	case ADD:
		m.V[in.X] += in.NN
	case LDV:
		m.V[in.X] = m.V[in.Y]
	case OR:
		m.V[in.X] |= m.V[in.Y]
	case AND:
		m.V[in.X] &= m.V[in.Y]
	case XOR:
		m.V[in.X] ^= m.V[in.Y]
	case ADDV:
		sum := uint16(m.V[in.X]) + uint16(m.V[in.Y])
		m.V[in.X] = byte(sum)
		m.V[0xf] = byte(sum >> 8)
	case SUB:
		vx, vy := m.V[in.X], m.V[in.Y]
		m.V[in.X] = vx - vy
		m.V[0xf] = flag(vx >= vy)
	case SHR:
		v := m.V[in.X]
		m.V[in.X] = v >> 1
		m.V[0xf] = v & 1
	case SUBN:
		vx, vy := m.V[in.X], m.V[in.Y]
		m.V[in.X] = vy - vx
		m.V[0xf] = flag(vy >= vx)
	case SHL:
		v := m.V[in.X]
		m.V[in.X] = v << 1
		m.V[0xf] = v >> 7
	case SNEV:
		if m.V[in.X] != m.V[in.Y] {
			m.PC += 2
		}
	case LDI:
		m.I = in.NNN
	case JPV:
		m.PC = in.NNN + uint16(m.V[0])
	case RND:
		m.V[in.X] = m.Rand() & in.NN
	case DRW:
		m.draw(int(m.V[in.X]), int(m.V[in.Y]), in.N)
	case SKP:
		if m.Keys[m.V[in.X]&0xf] {
			m.PC += 2
		}
	case SKNP:
		if !m.Keys[m.V[in.X]&0xf] {
			m.PC += 2
		}
	case LDDT:
		m.V[in.X] = m.Delay
	case LDK:
		m.waiting = true
		m.waitReg = in.X
	case STDT:
		m.Delay = m.V[in.X]
	case STST:
		m.Sound = m.V[in.X]
	case ADDI:
		sum := uint32(m.I) + uint32(m.V[in.X])
		m.I = uint16(sum)
		if addIndexSetsFlag {
			m.V[0xf] = flag(sum > 0xfff)
		}
	case LDF:
		m.I = FontAddr + 5*uint16(m.V[in.X]&0xf)
	case BCD:
		m.checkMem(m.I, 3)
		v := m.V[in.X]
		m.Mem[m.I] = v / 100
		m.Mem[m.I+1] = v / 10 % 10
		m.Mem[m.I+2] = v % 10
	case STR:
		m.checkMem(m.I, uint16(in.X)+1)
		copy(m.Mem[m.I:], m.V[:in.X+1])
	case LDR:
		m.checkMem(m.I, uint16(in.X)+1)
		copy(m.V[:in.X+1], m.Mem[m.I:])
	case Unknown:
		panic(UnknownOpcode)
	}
}

// draw XORs an n-byte sprite read from memory at I onto the pixel
// buffer at (x, y). Coordinates wrap on both axes. VF reports whether
// any pixel was erased (collision).
func (m *Machine) draw(x, y int, n byte) {
	m.checkMem(m.I, uint16(n))
	collision := byte(0)
	for row := 0; row < int(n); row++ {
		bits := m.Mem[int(m.I)+row]
		py := (y + row) % DisplayHeight
		for col := 0; col < 8; col++ {
			if bits&(0x80>>col) == 0 {
				continue
			}
			px := (x + col) % DisplayWidth
			p := &m.Pix[py*DisplayWidth+px]
			collision |= *p
			*p ^= 1
		}
	}
	m.V[0xf] = collision
	m.Draws++
}

func flag(b bool) byte {
	if b {
		return 1
	}
	return 0
}
