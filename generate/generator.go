package generate

import (
	"fmt"

	"github.com/AkiNeko11/MyCompiler/common"
	"github.com/AkiNeko11/MyCompiler/pcode"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// Generator lowers a compiled P-code buffer to an LLVM IR module.  The
// machine model carries over directly: one global i32 array is the runtime
// stack, sp and top live in allocas, and every instruction index becomes a
// basic block.  Straight-line instructions branch to the next index,
// jumps and calls branch to their static targets, and returns run through a
// dispatcher that switches on the saved return address (whose possible
// values are exactly the instruction indices following each CAL).
type Generator struct {
	code      []pcode.Instr
	stackSize int

	mod  *ir.Module
	fn   *ir.Func
	arrT *types.ArrayType

	stack *ir.Global

	spPtr, topPtr, raPtr *ir.InstAlloca

	printf, scanf *ir.Func

	fmtWrite, fmtLine, fmtRead value.Value

	// blocks[i] lowers the instruction at address i.
	blocks   []*ir.Block
	exit     *ir.Block
	dispatch *ir.Block

	// block is the block currently being appended to.
	block *ir.Block
}

// NewGenerator creates a generator for the given code buffer and runtime
// stack size in slots.
func NewGenerator(code *pcode.List, stackSize int) *Generator {
	return &Generator{
		code:      code.Instructions(),
		stackSize: stackSize,
		mod:       ir.NewModule(),
	}
}

// Generate lowers the whole buffer and returns the completed module.  The
// buffer is assumed well formed: generation only runs on error-free
// compiles.
func (g *Generator) Generate() *ir.Module {
	g.declareRuntime()

	g.fn = g.mod.NewFunc("main", types.I32)

	entry := g.fn.NewBlock("entry")
	g.spPtr = entry.NewAlloca(types.I32)
	g.topPtr = entry.NewAlloca(types.I32)
	g.raPtr = entry.NewAlloca(types.I32)
	entry.NewStore(ci32(0), g.spPtr)
	entry.NewStore(ci32(0), g.topPtr)
	entry.NewStore(ci32(0), g.raPtr)

	for i := range g.code {
		g.blocks = append(g.blocks, g.fn.NewBlock(fmt.Sprintf("i%d", i)))
	}

	g.exit = g.fn.NewBlock("exit")
	g.exit.NewRet(ci32(0))

	if g.hasCalls() {
		g.dispatch = g.fn.NewBlock("ret.dispatch")
	}

	if len(g.blocks) > 0 {
		entry.NewBr(g.blocks[0])
	} else {
		entry.NewBr(g.exit)
	}

	for i, ins := range g.code {
		g.block = g.blocks[i]
		g.genInstr(i, ins)
	}

	if g.dispatch != nil {
		g.genDispatch()
	}

	return g.mod
}

// declareRuntime defines the stack global, the libc I/O declarations, and
// the interned format strings.
func (g *Generator) declareRuntime() {
	g.arrT = types.NewArray(uint64(g.stackSize), types.I32)
	g.stack = g.mod.NewGlobalDef("stack", constant.NewZeroInitializer(g.arrT))

	g.printf = g.mod.NewFunc("printf", types.I32, ir.NewParam("", types.I8Ptr))
	g.printf.Sig.Variadic = true

	g.scanf = g.mod.NewFunc("scanf", types.I32, ir.NewParam("", types.I8Ptr))
	g.scanf.Sig.Variadic = true

	g.fmtWrite = g.internString("fmt.write", "%d \x00")
	g.fmtLine = g.internString("fmt.line", "\n\x00")
	g.fmtRead = g.internString("fmt.read", "%d\x00")
}

// internString defines a private constant byte array and returns an i8
// pointer to its first character.
func (g *Generator) internString(name, s string) value.Value {
	arr := constant.NewCharArrayFromString(s)
	glob := g.mod.NewGlobalDef(name, arr)
	glob.Immutable = true
	glob.Linkage = enum.LinkagePrivate

	zero := constant.NewInt(types.I64, 0)
	return constant.NewGetElementPtr(arr.Typ, glob, zero, zero)
}

func (g *Generator) hasCalls() bool {
	for _, ins := range g.code {
		if ins.Op == pcode.Cal {
			return true
		}
	}

	return false
}

// genInstr lowers the instruction at address addr into its block, always
// leaving the block terminated.
func (g *Generator) genInstr(addr int, ins pcode.Instr) {
	switch ins.Op {
	case pcode.Lit:
		g.push(ci32(ins.A))
		g.next(addr)
	case pcode.Opr:
		g.genOperate(addr, ins.A)
	case pcode.Lod:
		base := g.loadSlot(g.add(g.sp(), ci32(common.DisplaySlot+ins.L)))
		g.push(g.loadSlot(g.add(base, ci32(ins.A))))
		g.next(addr)
	case pcode.Sto:
		v := g.pop()
		if ins.L >= 0 {
			base := g.loadSlot(g.add(g.sp(), ci32(common.DisplaySlot+ins.L)))
			g.storeSlot(g.add(base, ci32(ins.A)), v)
		} else {
			// argument store into the callee's frame above top
			g.storeSlot(g.add(g.top(), ci32(ins.A)), v)
		}

		g.next(addr)
	case pcode.Cal:
		g.genCall(addr, ins.L, ins.A)
	case pcode.Int:
		sp := g.sp()
		g.block.NewStore(g.add(sp, ci32(ins.A)), g.topPtr)
		g.storeSlot(g.add(sp, ci32(common.DisplayPtrSlot)), g.add(sp, ci32(common.DisplaySlot)))
		g.next(addr)
	case pcode.Jmp:
		g.block.NewBr(g.target(ins.A))
	case pcode.Jpc:
		isZero := g.block.NewICmp(enum.IPredEQ, g.pop(), ci32(0))
		g.block.NewCondBr(isZero, g.target(ins.A), g.nextBlock(addr))
	case pcode.Red:
		top := g.top()
		g.block.NewCall(g.scanf, g.fmtRead, g.slotPtr(top))
		g.block.NewStore(g.add(top, ci32(1)), g.topPtr)
		g.next(addr)
	case pcode.Wrt:
		g.block.NewCall(g.printf, g.fmtWrite, g.pop())
		g.next(addr)
	}
}

// genCall lowers CAL: the saved return address is the literal next
// instruction index, the caller's display is copied slot by slot (the copy
// length is the compile-time L field), and control branches statically to
// the callee's prologue.
func (g *Generator) genCall(addr, level, target int) {
	top := g.top()

	g.storeSlot(g.add(top, ci32(common.RetAddrSlot)), ci32(addr+1))

	gd := g.loadSlot(g.add(g.sp(), ci32(common.DisplayPtrSlot)))
	for i := 0; i <= level; i++ {
		g.storeSlot(
			g.add(top, ci32(common.DisplaySlot+i)),
			g.loadSlot(g.add(gd, ci32(i))),
		)
	}
	g.storeSlot(g.add(top, ci32(common.DisplaySlot+level+1)), top)

	g.storeSlot(g.add(top, ci32(common.DynLinkSlot)), g.sp())
	g.block.NewStore(top, g.spPtr)

	g.block.NewBr(g.target(target))
}

// genOperate lowers an OPR sub-code.
func (g *Generator) genOperate(addr, sub int) {
	switch sub {
	case pcode.OprRet:
		sp := g.sp()
		ra := g.loadSlot(sp)
		old := g.loadSlot(g.add(sp, ci32(common.DynLinkSlot)))

		g.block.NewStore(sp, g.topPtr)
		g.block.NewStore(old, g.spPtr)
		g.block.NewStore(ra, g.raPtr)

		isMain := g.block.NewICmp(enum.IPredEQ, sp, ci32(0))
		if g.dispatch != nil {
			g.block.NewCondBr(isMain, g.exit, g.dispatch)
		} else {
			g.block.NewBr(g.exit)
		}

		return
	case pcode.OprNeg:
		v := g.pop()
		g.push(g.block.NewSub(ci32(0), v))
	case pcode.OprAdd:
		rhs, lhs := g.pop(), g.pop()
		g.push(g.block.NewAdd(lhs, rhs))
	case pcode.OprSub:
		rhs, lhs := g.pop(), g.pop()
		g.push(g.block.NewSub(lhs, rhs))
	case pcode.OprMul:
		rhs, lhs := g.pop(), g.pop()
		g.push(g.block.NewMul(lhs, rhs))
	case pcode.OprDiv:
		rhs, lhs := g.pop(), g.pop()
		g.push(g.block.NewSDiv(lhs, rhs))
	case pcode.OprOdd:
		v := g.pop()
		g.push(g.block.NewAnd(v, ci32(1)))
	case pcode.OprEql:
		g.genCompare(enum.IPredEQ)
	case pcode.OprNeq:
		g.genCompare(enum.IPredNE)
	case pcode.OprLss:
		g.genCompare(enum.IPredSLT)
	case pcode.OprGeq:
		g.genCompare(enum.IPredSGE)
	case pcode.OprGrt:
		g.genCompare(enum.IPredSGT)
	case pcode.OprLeq:
		g.genCompare(enum.IPredSLE)
	case pcode.OprPrintln:
		g.block.NewCall(g.printf, g.fmtLine)
	}

	g.next(addr)
}

func (g *Generator) genCompare(pred enum.IPred) {
	rhs, lhs := g.pop(), g.pop()
	cmp := g.block.NewICmp(pred, lhs, rhs)
	g.push(g.block.NewZExt(cmp, types.I32))
}

// genDispatch builds the return dispatcher: a switch on the saved return
// address over every instruction index that follows a CAL.
func (g *Generator) genDispatch() {
	ra := g.dispatch.NewLoad(types.I32, g.raPtr)

	var cases []*ir.Case
	for i, ins := range g.code {
		if ins.Op == pcode.Cal && i+1 < len(g.code) {
			cases = append(cases, ir.NewCase(ci32(i+1), g.blocks[i+1]))
		}
	}

	g.dispatch.NewSwitch(ra, g.exit, cases...)
}

// -----------------------------------------------------------------------------

func ci32(n int) *constant.Int {
	return constant.NewInt(types.I32, int64(n))
}

func (g *Generator) sp() value.Value {
	return g.block.NewLoad(types.I32, g.spPtr)
}

func (g *Generator) top() value.Value {
	return g.block.NewLoad(types.I32, g.topPtr)
}

func (g *Generator) add(a, b value.Value) value.Value {
	return g.block.NewAdd(a, b)
}

// slotPtr returns a pointer to stack[idx].
func (g *Generator) slotPtr(idx value.Value) value.Value {
	return g.block.NewGetElementPtr(g.arrT, g.stack, constant.NewInt(types.I64, 0), idx)
}

func (g *Generator) loadSlot(idx value.Value) value.Value {
	return g.block.NewLoad(types.I32, g.slotPtr(idx))
}

func (g *Generator) storeSlot(idx value.Value, v value.Value) {
	g.block.NewStore(v, g.slotPtr(idx))
}

func (g *Generator) push(v value.Value) {
	top := g.top()
	g.storeSlot(top, v)
	g.block.NewStore(g.add(top, ci32(1)), g.topPtr)
}

func (g *Generator) pop() value.Value {
	top := g.block.NewSub(g.top(), ci32(1))
	g.block.NewStore(top, g.topPtr)
	return g.loadSlot(top)
}

// next terminates the current block with a fall-through branch.
func (g *Generator) next(addr int) {
	g.block.NewBr(g.nextBlock(addr))
}

func (g *Generator) nextBlock(addr int) *ir.Block {
	if addr+1 < len(g.blocks) {
		return g.blocks[addr+1]
	}

	return g.exit
}

// target resolves a static jump target, tolerating a target one past the
// buffer (a backpatched exit).
func (g *Generator) target(addr int) *ir.Block {
	if addr >= 0 && addr < len(g.blocks) {
		return g.blocks[addr]
	}

	return g.exit
}
