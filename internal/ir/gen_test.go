package ir

import (
	"testing"

	"github.com/tinyrange/syc/internal/ast"
	"github.com/tinyrange/syc/internal/parser"
)

func genFrom(t *testing.T, src string) *Module {
	t.Helper()
	prog, err := parser.ParseFile("t.sy", src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	m, err := Generate(prog)
	if err != nil {
		t.Fatalf("generate error: %v", err)
	}
	return m
}

func TestGenerateSimpleReturn(t *testing.T) {
	m := genFrom(t, "int main() { return 42; }")
	if len(m.Functions) != 1 {
		t.Fatalf("got %d functions, want 1", len(m.Functions))
	}
	f := m.Functions[0]
	last := f.Instructions[len(f.Instructions)-1]
	if last.Op != RETURN {
		t.Fatalf("last instruction is %v, want RETURN", last.Op)
	}
}

func TestGenerateIfWithoutElseAllocatesThreeLabels(t *testing.T) {
	m := genFrom(t, "int main() { if (1) { return 1; } return 0; }")
	f := m.Functions[0]
	labels := 0
	for _, instr := range f.Instructions {
		if instr.Op == LABEL {
			labels++
		}
	}
	// then/else_/end are all allocated, but the unused else_ label is never
	// emitted: two LABEL instructions, three labels consumed.
	if labels != 2 {
		t.Fatalf("got %d emitted labels for if-without-else, want 2", labels)
	}
	if f.labelCounter != 3 {
		t.Fatalf("got %d labels allocated for if-without-else, want 3", f.labelCounter)
	}
}

func TestGenerateWhileLoopLabels(t *testing.T) {
	m := genFrom(t, "int main() { while (1) { break; } return 0; }")
	f := m.Functions[0]
	var sawBranch, sawJump bool
	for _, instr := range f.Instructions {
		if instr.Op == BRANCH {
			sawBranch = true
		}
		if instr.Op == JUMP {
			sawJump = true
		}
	}
	if !sawBranch || !sawJump {
		t.Fatalf("while loop missing BRANCH/JUMP: %+v", f.Instructions)
	}
}

func TestGenerateAssignmentToNonIdentIsSemanticError(t *testing.T) {
	prog, err := parser.ParseFile("t.sy", "int main() { int a[2]; a[0] = 1; return 0; }")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	_, err = Generate(prog)
	if err == nil {
		t.Fatalf("expected SemanticError for non-Ident assignment LHS")
	}
	if _, ok := err.(*SemanticError); !ok {
		t.Fatalf("expected *SemanticError, got %T", err)
	}
}

func TestGenerateArrayAccessOperandShape(t *testing.T) {
	m := genFrom(t, "int main() { int a[2]; return a[1]; }")
	f := m.Functions[0]
	var found bool
	for _, instr := range f.Instructions {
		if instr.Op == LOAD && instr.Arg1 == "a[t0]" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected synthesized array-access operand 'a[t0]': %+v", f.Instructions)
	}
}

func TestGenerateTempAndLabelNamesAreUnique(t *testing.T) {
	m := genFrom(t, "int main() { int x; x = 1 + 2 * 3; if (x) { } return x; }")
	f := m.Functions[0]
	seenTemps := map[string]bool{}
	seenLabels := map[string]bool{}
	for _, instr := range f.Instructions {
		// RETURN and PARAM read their temp from Result; every other temp
		// Result is a definition and must be fresh.
		if isTemp(instr.Result) && instr.Op != RETURN && instr.Op != PARAM {
			if seenTemps[instr.Result] {
				t.Fatalf("temp %s defined twice", instr.Result)
			}
			seenTemps[instr.Result] = true
		}
		if instr.Op == LABEL {
			if seenLabels[instr.Result] {
				t.Fatalf("label %s allocated twice", instr.Result)
			}
			seenLabels[instr.Result] = true
		}
	}
}

func TestGenerateGlobalVarDecl(t *testing.T) {
	m := genFrom(t, "int counter = 5; int main() { return counter; }")
	if _, ok := m.GlobalVars["counter"]; !ok {
		t.Fatalf("expected 'counter' to be recorded as a global")
	}
}

func TestGenerateUnknownBinaryOperatorIsSemanticError(t *testing.T) {
	g := &generator{module: NewModule()}
	g.current = NewFunction("f", "int")
	g.symbols = map[string]string{}
	_, err := g.genBinary(&ast.Binary{
		Op:    "??",
		Left:  &ast.IntLiteral{Value: 1},
		Right: &ast.IntLiteral{Value: 2},
	})
	if err == nil {
		t.Fatalf("expected error for unrecognized binary operator")
	}
	if _, ok := err.(*SemanticError); !ok {
		t.Fatalf("expected *SemanticError, got %T", err)
	}
}
