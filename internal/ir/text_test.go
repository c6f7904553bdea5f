package ir

import (
	"strings"
	"testing"
)

func TestTextRendersEachOpcodeForm(t *testing.T) {
	f := NewFunction("f", "int")
	f.Params = []string{"n"}
	f.Add(Instruction{Op: CONST, Result: "t0", Arg1: "1"})
	f.Add(Instruction{Op: ADD, Result: "t1", Arg1: "t0", Arg2: "n"})
	f.Add(Instruction{Op: NOT, Result: "t2", Arg1: "t1"})
	f.Add(Instruction{Op: LOAD, Result: "t3", Arg1: "n"})
	f.Add(Instruction{Op: STORE, Result: "n", Arg1: "t3"})
	f.Add(Instruction{Op: ALLOC, Result: "arr", Arg1: "40"})
	f.Add(Instruction{Op: LABEL, Result: "L0"})
	f.Add(Instruction{Op: JUMP, Result: "L0"})
	f.Add(Instruction{Op: BRANCH, Result: "L1", Arg1: "t1", Arg2: "L2"})
	f.Add(Instruction{Op: CALL, Result: "t4", Arg1: "foo"})
	f.Add(Instruction{Op: CALL, Arg1: "bar"})
	f.Add(Instruction{Op: PARAM, Result: "t4"})
	f.Add(Instruction{Op: RETURN, Result: "t4"})
	f.Add(Instruction{Op: RETURN})

	m := NewModule()
	m.AddFunction(f)
	text := m.Text()

	want := []string{
		"function f(int):",
		"param n",
		"t0 = 1",
		"t1 = t0 + n",
		"t2 = ! t1",
		"t3 = LOAD n",
		"STORE t3, n",
		"arr = ALLOC 40",
		"L0:",
		"JUMP L0",
		"BRANCH t1, L1, L2",
		"t4 = CALL foo",
		"CALL bar",
		"PARAM t4",
		"RETURN t4",
		"RETURN",
	}
	for _, w := range want {
		if !strings.Contains(text, w) {
			t.Fatalf("expected IR text to contain %q, got:\n%s", w, text)
		}
	}
}
