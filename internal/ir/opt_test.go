package ir

import "testing"

func TestConstantFoldingArithmetic(t *testing.T) {
	f := NewFunction("f", "int")
	f.Add(Instruction{Op: CONST, Result: "t0", Arg1: "2"})
	f.Add(Instruction{Op: CONST, Result: "t1", Arg1: "3"})
	f.Add(Instruction{Op: ADD, Result: "t2", Arg1: "t0", Arg2: "t1"})
	changed := constantPropagation(f)
	changed = constantFolding(f) || changed
	var folded bool
	for _, instr := range f.Instructions {
		if instr.Result == "t2" && instr.Op == CONST && instr.Arg1 == "5" {
			folded = true
		}
	}
	if !folded {
		t.Fatalf("expected t2 folded to CONST 5, got %+v", f.Instructions)
	}
	if !changed {
		t.Fatalf("expected optimize passes to report a change")
	}
}

func TestConstantFoldingLeavesDivByZero(t *testing.T) {
	f := NewFunction("f", "int")
	f.Add(Instruction{Op: DIV, Result: "t0", Arg1: "4", Arg2: "0"})
	constantFolding(f)
	if f.Instructions[0].Op != DIV {
		t.Fatalf("division by zero should not be folded, got %+v", f.Instructions[0])
	}
}

func TestConstantPropagationClearsOnStore(t *testing.T) {
	f := NewFunction("f", "int")
	f.Add(Instruction{Op: CONST, Result: "t0", Arg1: "7"})
	f.Add(Instruction{Op: STORE, Result: "x", Arg1: "t0"})
	f.Add(Instruction{Op: LOAD, Result: "t1", Arg1: "x"})
	f.Add(Instruction{Op: ADD, Result: "t2", Arg1: "t0", Arg2: "t1"})
	constantPropagation(f)
	store := f.Instructions[1]
	if store.Arg1 != "7" {
		t.Fatalf("expected t0 propagated to '7' in the STORE, got %q", store.Arg1)
	}
	last := f.Instructions[len(f.Instructions)-1]
	if last.Arg1 != "t0" {
		t.Fatalf("t0 should not be propagated past the STORE, got %q", last.Arg1)
	}
	if last.Arg2 != "t1" {
		t.Fatalf("t1 should not be propagated (defined by LOAD, not CONST), got %q", last.Arg2)
	}
}

func TestDeadCodeEliminationDropsUnusedTemp(t *testing.T) {
	f := NewFunction("f", "int")
	f.Add(Instruction{Op: CONST, Result: "t0", Arg1: "1"})
	f.Add(Instruction{Op: CONST, Result: "t1", Arg1: "2"})
	f.Add(Instruction{Op: RETURN, Result: "t0"})
	deadCodeElimination(f)
	for _, instr := range f.Instructions {
		if instr.Result == "t1" {
			t.Fatalf("unused temp t1 should have been eliminated: %+v", f.Instructions)
		}
	}
}

func TestDeadCodeEliminationPreservesSideEffects(t *testing.T) {
	f := NewFunction("f", "int")
	f.Add(Instruction{Op: CONST, Result: "t0", Arg1: "1"})
	f.Add(Instruction{Op: STORE, Result: "x", Arg1: "t0"})
	f.Add(Instruction{Op: CALL, Result: "t1", Arg1: "sideEffect"})
	deadCodeElimination(f)
	var sawStore, sawCall bool
	for _, instr := range f.Instructions {
		if instr.Op == STORE {
			sawStore = true
		}
		if instr.Op == CALL {
			sawCall = true
		}
	}
	if !sawStore || !sawCall {
		t.Fatalf("side-effecting instructions must never be eliminated: %+v", f.Instructions)
	}
}

func TestOptimizeIsIdempotent(t *testing.T) {
	m := NewModule()
	f := NewFunction("f", "int")
	f.Add(Instruction{Op: CONST, Result: "t0", Arg1: "2"})
	f.Add(Instruction{Op: CONST, Result: "t1", Arg1: "3"})
	f.Add(Instruction{Op: ADD, Result: "t2", Arg1: "t0", Arg2: "t1"})
	f.Add(Instruction{Op: RETURN, Result: "t2"})
	m.AddFunction(f)

	once := Optimize(m)
	twice := Optimize(once)
	if len(once.Functions[0].Instructions) != len(twice.Functions[0].Instructions) {
		t.Fatalf("optimize is not idempotent: %+v vs %+v", once.Functions[0].Instructions, twice.Functions[0].Instructions)
	}
}

func TestOptimizeCopiesGlobalVars(t *testing.T) {
	m := NewModule()
	m.GlobalVars["g"] = 0
	out := Optimize(m)
	if _, ok := out.GlobalVars["g"]; !ok {
		t.Fatalf("expected global vars to survive optimization")
	}
}

func TestIsConstOperand(t *testing.T) {
	cases := map[string]bool{
		"0": true, "42": true, "-3": true, "t0": false, "x": false, "": false,
	}
	for s, want := range cases {
		if got := isConstOperand(s); got != want {
			t.Fatalf("isConstOperand(%q) = %v, want %v", s, got, want)
		}
	}
}
