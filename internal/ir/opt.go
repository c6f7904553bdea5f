package ir

import "strconv"

const maxOptIterations = 10

// Optimize returns a module whose global-var map is copied through
// untouched and whose functions are each optimized independently (spec.md
// §4.4). Grounded 1:1 on original_source/src/optimizer/optimizer.cpp's
// optimize/optimizeFunction pair, restructured into the teacher's
// pass-runner shape.
func Optimize(m *Module) *Module {
	out := NewModule()
	for k, v := range m.GlobalVars {
		out.GlobalVars[k] = v
	}
	for _, f := range m.Functions {
		out.AddFunction(optimizeFunction(f))
	}
	return out
}

func optimizeFunction(f *Function) *Function {
	nf := &Function{
		Name:         f.Name,
		ReturnType:   f.ReturnType,
		Params:       append([]string(nil), f.Params...),
		Instructions: append([]Instruction(nil), f.Instructions...),
		tempCounter:  f.tempCounter,
		labelCounter: f.labelCounter,
	}

	changed := true
	iterations := 0
	for changed && iterations < maxOptIterations {
		changed = false
		c1 := constantFolding(nf)
		c2 := constantPropagation(nf)
		c3 := deadCodeElimination(nf)
		changed = c1 || c2 || c3
		iterations++
	}
	return nf
}

// isConstOperand classifies an operand as constant exactly as spec.md §4.4
// does: non-empty and its first character is a decimal digit or '-'.
func isConstOperand(s string) bool {
	if s == "" {
		return false
	}
	c := s[0]
	return (c >= '0' && c <= '9') || c == '-'
}

// constantFolding replaces arithmetic over two constant operands with a
// single CONST instruction. DIV/MOD by zero is left untouched, matching
// optimizer.cpp's `goto keep_instruction`.
func constantFolding(f *Function) bool {
	changed := false
	out := make([]Instruction, 0, len(f.Instructions))
	for _, instr := range f.Instructions {
		switch instr.Op {
		case ADD, SUB, MUL, DIV, MOD:
			if isConstOperand(instr.Arg1) && isConstOperand(instr.Arg2) {
				v1, err1 := strconv.Atoi(instr.Arg1)
				v2, err2 := strconv.Atoi(instr.Arg2)
				if err1 == nil && err2 == nil {
					var result int
					keep := false
					switch instr.Op {
					case ADD:
						result = v1 + v2
					case SUB:
						result = v1 - v2
					case MUL:
						result = v1 * v2
					case DIV:
						if v2 == 0 {
							keep = true
						} else {
							result = v1 / v2
						}
					case MOD:
						if v2 == 0 {
							keep = true
						} else {
							result = v1 % v2
						}
					}
					if !keep {
						out = append(out, Instruction{Op: CONST, Result: instr.Result, Arg1: strconv.Itoa(result)})
						changed = true
						continue
					}
				}
			}
		}
		out = append(out, instr)
	}
	f.Instructions = out
	return changed
}

// constantPropagation rewrites arg1/arg2 uses of a temp known (from a prior
// CONST in this same linear scan) to hold a literal, clearing the map
// conservatively on STORE/CALL.
func constantPropagation(f *Function) bool {
	changed := false
	constants := map[string]string{}
	out := make([]Instruction, 0, len(f.Instructions))

	for _, instr := range f.Instructions {
		if instr.Op == CONST {
			constants[instr.Result] = instr.Arg1
			out = append(out, instr)
			continue
		}

		ni := instr
		if v, ok := constants[instr.Arg1]; ok {
			ni.Arg1 = v
			changed = true
		}
		if v, ok := constants[instr.Arg2]; ok {
			ni.Arg2 = v
			changed = true
		}

		if instr.Op == STORE || instr.Op == CALL {
			constants = map[string]string{}
		}

		out = append(out, ni)
	}

	f.Instructions = out
	return changed
}

// hasSideEffect reports whether an instruction must never be dropped by DCE,
// per spec.md §4.4's explicit list.
func hasSideEffect(op Opcode) bool {
	switch op {
	case STORE, CALL, RETURN, JUMP, BRANCH, LABEL, PARAM, ALLOC:
		return true
	default:
		return false
	}
}

func isTemp(s string) bool { return len(s) > 0 && s[0] == 't' }

// deadCodeElimination drops instructions whose temp result is never used as
// arg1/arg2 elsewhere in the function, never touching side-effecting
// opcodes.
func deadCodeElimination(f *Function) bool {
	used := map[string]bool{}
	for _, instr := range f.Instructions {
		if isTemp(instr.Arg1) {
			used[instr.Arg1] = true
		}
		if isTemp(instr.Arg2) {
			used[instr.Arg2] = true
		}
		// RETURN and PARAM carry their read operand in Result rather than
		// Arg1/Arg2 (spec.md §6's "RETURN result" / "PARAM result" textual
		// form), so a temp's only use may live there.
		if (instr.Op == RETURN || instr.Op == PARAM) && isTemp(instr.Result) {
			used[instr.Result] = true
		}
	}

	changed := false
	out := make([]Instruction, 0, len(f.Instructions))
	for _, instr := range f.Instructions {
		if hasSideEffect(instr.Op) {
			out = append(out, instr)
			continue
		}
		if instr.Result == "" || !isTemp(instr.Result) || used[instr.Result] {
			out = append(out, instr)
		} else {
			changed = true
		}
	}
	f.Instructions = out
	return changed
}
