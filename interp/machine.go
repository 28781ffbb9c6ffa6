package interp

import (
	"fmt"
	"io"

	"github.com/AkiNeko11/MyCompiler/common"
	"github.com/AkiNeko11/MyCompiler/pcode"
)

// DefaultStackLimit is the runtime stack growth cap in slots when the
// project config does not override it.
const DefaultStackLimit = 65536

// Machine executes a P-code buffer on a growable integer stack.  One machine
// runs one program; sp is the base of the current activation record, top the
// next free slot, and pc the instruction cursor.
//
// Each frame is laid out as return address, dynamic link, display pointer,
// then one display slot per lexical level up to the frame's own, then locals.
type Machine struct {
	code  []pcode.Instr
	stack []int32

	pc, sp, top int

	limit int

	in  io.Reader
	out io.Writer
}

// NewMachine creates a machine over the compiled code, reading RED input
// from in and writing WRT output to out.
func NewMachine(code *pcode.List, in io.Reader, out io.Writer) *Machine {
	return &Machine{
		code:  code.Instructions(),
		limit: DefaultStackLimit,
		in:    in,
		out:   out,
	}
}

// SetStackLimit caps the runtime stack at n slots.
func (m *Machine) SetStackLimit(n int) {
	m.limit = n
}

// Run executes the program from address 0 until the top-level return or the
// end of the code buffer.  Runtime faults (division by zero, input failure,
// a jump outside the buffer, stack overflow) abort execution with an error.
func (m *Machine) Run() error {
	m.pc, m.sp, m.top = 0, 0, 0

	for m.pc >= 0 && m.pc < len(m.code) {
		ins := m.code[m.pc]

		var err error
		halt := false

		switch ins.Op {
		case pcode.Lit:
			err = m.push(int32(ins.A))
			m.pc++
		case pcode.Opr:
			halt, err = m.operate(ins.A)
		case pcode.Lod:
			base := m.stack[m.sp+common.DisplaySlot+ins.L]
			err = m.push(m.stack[int(base)+ins.A])
			m.pc++
		case pcode.Sto:
			err = m.store(ins.L, ins.A)
			m.pc++
		case pcode.Cal:
			err = m.call(ins.L, ins.A)
		case pcode.Int:
			err = m.allocate(ins.A)
			m.pc++
		case pcode.Jmp:
			err = m.jump(ins.A)
		case pcode.Jpc:
			if m.pop() == 0 {
				err = m.jump(ins.A)
			} else {
				m.pc++
			}
		case pcode.Red:
			err = m.read()
			m.pc++
		case pcode.Wrt:
			_, err = fmt.Fprintf(m.out, "%d ", m.pop())
			m.pc++
		default:
			err = fmt.Errorf("illegal instruction %d at address %d", ins.Op, m.pc)
		}

		if err != nil {
			return err
		}

		if halt {
			return nil
		}
	}

	return nil
}

// ensure grows the stack so that slot idx exists.
func (m *Machine) ensure(idx int) error {
	if idx >= m.limit {
		return fmt.Errorf("stack limit of %d slots exceeded", m.limit)
	}

	for len(m.stack) <= idx {
		m.stack = append(m.stack, 0)
	}

	return nil
}

func (m *Machine) push(v int32) error {
	if err := m.ensure(m.top); err != nil {
		return err
	}

	m.stack[m.top] = v
	m.top++
	return nil
}

func (m *Machine) pop() int32 {
	m.top--
	return m.stack[m.top]
}

func (m *Machine) jump(target int) error {
	if target < 0 || target >= len(m.code) {
		return fmt.Errorf("jump target %d outside the code buffer", target)
	}

	m.pc = target
	return nil
}

// store implements STO.  A negative level addresses the argument region of a
// frame that has not been pushed yet: the slot lives above top, is grown
// into existence, and top itself is left alone.
func (m *Machine) store(level, offset int) error {
	v := m.pop()

	if level >= 0 {
		base := int(m.stack[m.sp+common.DisplaySlot+level])
		m.stack[base+offset] = v
		return nil
	}

	if err := m.ensure(m.top + offset); err != nil {
		return err
	}

	m.stack[m.top+offset] = v
	return nil
}

// call pushes a new activation record for a procedure declared at level and
// transfers control to its prologue at target.  The callee's display is the
// caller's first level+1 entries plus the new frame base for the callee's
// own level.
func (m *Machine) call(level, target int) error {
	if err := m.ensure(m.top + common.DisplaySlot + level + 1); err != nil {
		return err
	}

	m.stack[m.top+common.RetAddrSlot] = int32(m.pc + 1)

	gd := int(m.stack[m.sp+common.DisplayPtrSlot])
	for i := 0; i <= level; i++ {
		m.stack[m.top+common.DisplaySlot+i] = m.stack[gd+i]
	}
	m.stack[m.top+common.DisplaySlot+level+1] = int32(m.top)

	m.stack[m.top+common.DynLinkSlot] = int32(m.sp)
	m.sp = m.top

	return m.jump(target)
}

// allocate implements INT: the frame grows to exactly size slots and the
// display pointer slot is cached for later CALs out of this frame.
func (m *Machine) allocate(size int) error {
	if err := m.ensure(m.sp + size - 1); err != nil {
		return err
	}

	m.top = m.sp + size
	m.stack[m.sp+common.DisplayPtrSlot] = int32(m.sp + common.DisplaySlot)
	return nil
}

func (m *Machine) read() error {
	var n int32
	if _, err := fmt.Fscan(m.in, &n); err != nil {
		return fmt.Errorf("read failed: %s", err.Error())
	}

	return m.push(n)
}

// operate dispatches an OPR sub-code.  The returned boolean is true when a
// top-level return halts the machine.
func (m *Machine) operate(code int) (bool, error) {
	switch code {
	case pcode.OprRet:
		wasMain := m.sp == 0
		m.pc = int(m.stack[m.sp+common.RetAddrSlot])
		oldSP := int(m.stack[m.sp+common.DynLinkSlot])
		m.top = m.sp
		m.sp = oldSP
		return wasMain, nil
	case pcode.OprNeg:
		m.stack[m.top-1] = -m.stack[m.top-1]
	case pcode.OprAdd:
		rhs := m.pop()
		m.stack[m.top-1] += rhs
	case pcode.OprSub:
		rhs := m.pop()
		m.stack[m.top-1] -= rhs
	case pcode.OprMul:
		rhs := m.pop()
		m.stack[m.top-1] *= rhs
	case pcode.OprDiv:
		rhs := m.pop()
		if rhs == 0 {
			return false, fmt.Errorf("division by zero at address %d", m.pc)
		}

		m.stack[m.top-1] /= rhs
	case pcode.OprOdd:
		m.stack[m.top-1] &= 1
	case pcode.OprEql:
		m.compare(func(a, b int32) bool { return a == b })
	case pcode.OprNeq:
		m.compare(func(a, b int32) bool { return a != b })
	case pcode.OprLss:
		m.compare(func(a, b int32) bool { return a < b })
	case pcode.OprGeq:
		m.compare(func(a, b int32) bool { return a >= b })
	case pcode.OprGrt:
		m.compare(func(a, b int32) bool { return a > b })
	case pcode.OprLeq:
		m.compare(func(a, b int32) bool { return a <= b })
	case pcode.OprPrintln:
		if _, err := fmt.Fprintln(m.out); err != nil {
			return false, err
		}
	default:
		return false, fmt.Errorf("illegal OPR sub-code %d at address %d", code, m.pc)
	}

	m.pc++
	return false, nil
}

func (m *Machine) compare(rel func(a, b int32) bool) {
	rhs := m.pop()
	if rel(m.stack[m.top-1], rhs) {
		m.stack[m.top-1] = 1
	} else {
		m.stack[m.top-1] = 0
	}
}
