// Package x86_64 lowers a SyC ir.Module into GNU AT&T-syntax x86-64 text.
//
// Grounded on original_source/src/codegen/codegen.cpp's per-opcode switch and
// stack_offset/var_offsets bookkeeping — not on the teacher's SSA-aware
// emit.go/ra.go, whose register allocator has no analogue here (spec.md's
// Non-goals exclude register allocation; see DESIGN.md). Every operand gets
// its own 8-byte stack slot, spilled through %rax/%rbx scratch registers,
// exactly as the original toy backend does.
package x86_64

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tinyrange/syc/internal/ir"
)

// frame tracks one function's stack_offset counter and its operand→offset
// map, both reset per function per spec.md §4.5 step 2.
type frame struct {
	offsets map[string]int
	next    int
}

func newFrame() *frame {
	return &frame{offsets: make(map[string]int)}
}

// slot returns the byte offset for name, allocating a fresh 8-byte slot on
// first use.
func (fr *frame) slot(name string) int {
	if off, ok := fr.offsets[name]; ok {
		return off
	}
	fr.next += 8
	fr.offsets[name] = fr.next
	return fr.next
}

func (fr *frame) has(name string) bool {
	_, ok := fr.offsets[name]
	return ok
}

// Emit renders m as a complete assembly text, per spec.md §4.5.
func Emit(m *ir.Module) (string, error) {
	var b strings.Builder
	b.WriteString(".text\n.global main\n\n")
	for _, f := range m.Functions {
		emitFunction(&b, f)
	}
	return b.String(), nil
}

func emitFunction(b *strings.Builder, f *ir.Function) {
	fr := newFrame()
	k := 8 * (f.TempCount() + 16)

	fmt.Fprintf(b, "%s:\n", f.Name)
	b.WriteString("  pushq %rbp\n")
	b.WriteString("  movq %rsp, %rbp\n")
	fmt.Fprintf(b, "  subq $%d, %%rsp\n", k)

	for i, p := range f.Params {
		off := fr.slot(p)
		if i < len(paramRegs) {
			fmt.Fprintf(b, "  movq %s, -%d(%%rbp)\n", paramRegs[i], off)
		}
	}

	for _, instr := range f.Instructions {
		emitInstruction(b, fr, instr)
	}

	emitEpilogue(b)
}

var paramRegs = []string{"%rdi", "%rsi", "%rdx", "%rcx", "%r8", "%r9"}

// loadOperand loads operand (a slot name or a bare integer literal) into reg.
func loadOperand(b *strings.Builder, fr *frame, operand, reg string) {
	if fr.has(operand) {
		fmt.Fprintf(b, "  movq -%d(%%rbp), %s\n", fr.slot(operand), reg)
		return
	}
	if _, err := strconv.Atoi(operand); err == nil {
		fmt.Fprintf(b, "  movq $%s, %s\n", operand, reg)
		return
	}
	// Unknown name with no slot: treat as a global symbol (spec.md LOAD rule).
	fmt.Fprintf(b, "  movq %s(%%rip), %s\n", operand, reg)
}

func emitInstruction(b *strings.Builder, fr *frame, i ir.Instruction) {
	switch i.Op {
	case ir.CONST:
		off := fr.slot(i.Result)
		if _, err := strconv.Atoi(i.Arg1); err == nil {
			fmt.Fprintf(b, "  movq $%s, %%rax\n", i.Arg1)
		} else {
			b.WriteString("  # Unimplemented instruction: non-numeric CONST\n")
			b.WriteString("  movq $0, %rax\n")
		}
		fmt.Fprintf(b, "  movq %%rax, -%d(%%rbp)\n", off)

	case ir.LOAD:
		off := fr.slot(i.Result)
		loadOperand(b, fr, i.Arg1, "%rax")
		fmt.Fprintf(b, "  movq %%rax, -%d(%%rbp)\n", off)

	case ir.STORE:
		loadOperand(b, fr, i.Arg1, "%rax")
		off := fr.slot(i.Result)
		fmt.Fprintf(b, "  movq %%rax, -%d(%%rbp)\n", off)

	case ir.ADD, ir.SUB, ir.MUL:
		loadOperand(b, fr, i.Arg1, "%rax")
		loadOperand(b, fr, i.Arg2, "%rbx")
		switch i.Op {
		case ir.ADD:
			b.WriteString("  addq %rbx, %rax\n")
		case ir.SUB:
			b.WriteString("  subq %rbx, %rax\n")
		case ir.MUL:
			b.WriteString("  imulq %rbx, %rax\n")
		}
		off := fr.slot(i.Result)
		fmt.Fprintf(b, "  movq %%rax, -%d(%%rbp)\n", off)

	case ir.DIV:
		loadOperand(b, fr, i.Arg1, "%rax")
		b.WriteString("  cqto\n")
		loadOperand(b, fr, i.Arg2, "%rbx")
		b.WriteString("  idivq %rbx\n")
		off := fr.slot(i.Result)
		fmt.Fprintf(b, "  movq %%rax, -%d(%%rbp)\n", off)

	case ir.LABEL:
		fmt.Fprintf(b, "%s:\n", i.Result)

	case ir.JUMP:
		fmt.Fprintf(b, "  jmp %s\n", i.Result)

	case ir.BRANCH:
		loadOperand(b, fr, i.Arg1, "%rax")
		b.WriteString("  cmpq $0, %rax\n")
		fmt.Fprintf(b, "  jne %s\n", i.Result)
		fmt.Fprintf(b, "  jmp %s\n", i.Arg2)

	case ir.RETURN:
		if i.Result != "" && fr.has(i.Result) {
			fmt.Fprintf(b, "  movq -%d(%%rbp), %%rax\n", fr.slot(i.Result))
		} else if i.Result != "" {
			loadOperand(b, fr, i.Result, "%rax")
		}
		emitEpilogue(b)

	case ir.CALL:
		fmt.Fprintf(b, "  call %s\n", i.Arg1)
		if i.Result != "" {
			off := fr.slot(i.Result)
			fmt.Fprintf(b, "  movq %%rax, -%d(%%rbp)\n", off)
		}

	case ir.ALLOC:
		size := 4
		if n, err := strconv.Atoi(i.Arg1); err == nil {
			size = n
		}
		size = alignUp(size, 8)
		_ = fr.slot(i.Result)
		for size > 8 {
			fr.next += 8
			size -= 8
		}

	default:
		fmt.Fprintf(b, "  # Unimplemented instruction: %s\n", i.Op)
	}
}

func emitEpilogue(b *strings.Builder) {
	b.WriteString("  movq %rbp, %rsp\n")
	b.WriteString("  popq %rbp\n")
	b.WriteString("  ret\n")
}

func alignUp(n, a int) int {
	if n <= 0 {
		return a
	}
	return ((n + a - 1) / a) * a
}
