package ir

import (
	"fmt"
	"strconv"

	"github.com/tinyrange/syc/internal/ast"
)

// SemanticError is raised by the generator on an unknown binary operator or
// a non-identifier assignment LHS (spec.md §7, DESIGN.md Open Question 3).
type SemanticError struct {
	Message string
}

func (e *SemanticError) Error() string { return e.Message }

// generator walks a Program and lowers it into a Module. Its shape — a
// single mutable struct carrying the current function, a last-result
// register, and lexical break/continue label stacks — is kept from the
// teacher's buildCtx (tinyrange-ccomp/internal/ir/ir.go), generalized from
// SSA value construction to the original's direct label+jump emission
// (original_source/src/ir/ir_generator.cpp). Per spec.md §9's "Loop
// context" redesign note, break/continue labels are threaded through two
// parallel slices rather than mutable fields — exactly what the teacher's
// own breakTargets/contTargets already do for its SSA loops.
type generator struct {
	module     *Module
	current    *Function
	lastResult string
	symbols    map[string]string
	breakLbls  []string
	contLbls   []string
}

// Generate lowers prog into an IRModule, or returns the first SemanticError
// encountered.
func Generate(prog *ast.Program) (*Module, error) {
	g := &generator{module: NewModule()}
	for _, d := range prog.Decls {
		if err := g.genDecl(d); err != nil {
			return nil, err
		}
	}
	return g.module, nil
}

func (g *generator) genDecl(d ast.Decl) error {
	switch d := d.(type) {
	case *ast.FunctionDef:
		return g.genFunctionDef(d)
	case *ast.VarDecl:
		// top-level: global variable, recorded with initial value 0
		// regardless of any initializer expression (original_source only
		// ever records 0; evaluating a non-constant global initializer has
		// no current_function to emit into).
		g.module.GlobalVars[d.Name] = 0
		return nil
	case *ast.StructDecl, *ast.TypedefDecl:
		// Vocabulary placeholders per spec.md §9 — never produce IR.
		return nil
	default:
		return &SemanticError{Message: fmt.Sprintf("unsupported top-level declaration %T", d)}
	}
}

func (g *generator) genFunctionDef(fd *ast.FunctionDef) error {
	f := NewFunction(fd.Name, fd.ReturnType.String())
	g.current = f
	g.symbols = map[string]string{}
	for _, p := range fd.Params {
		f.Params = append(f.Params, p.Name)
		g.symbols[p.Name] = p.Name
	}
	if err := g.genBlock(fd.Body); err != nil {
		return err
	}
	g.module.AddFunction(f)
	g.current = nil
	g.symbols = nil
	return nil
}

func (g *generator) genBlock(b *ast.Block) error {
	for _, s := range b.Statements {
		if err := g.genStmt(s); err != nil {
			return err
		}
	}
	return nil
}

func (g *generator) genStmt(s ast.Stmt) error {
	switch s := s.(type) {
	case *ast.VarDecl:
		return g.genLocalVarDecl(s)
	case *ast.Block:
		return g.genBlock(s)
	case *ast.IfStmt:
		return g.genIf(s)
	case *ast.WhileStmt:
		return g.genWhile(s)
	case *ast.ReturnStmt:
		return g.genReturn(s)
	case *ast.BreakStmt:
		if len(g.breakLbls) > 0 {
			g.current.Add(Instruction{Op: JUMP, Result: g.breakLbls[len(g.breakLbls)-1]})
		}
		return nil
	case *ast.ContinueStmt:
		if len(g.contLbls) > 0 {
			g.current.Add(Instruction{Op: JUMP, Result: g.contLbls[len(g.contLbls)-1]})
		}
		return nil
	case *ast.ExprStmt:
		if s.Expr != nil {
			_, err := g.genExpr(s.Expr)
			return err
		}
		return nil
	default:
		return &SemanticError{Message: fmt.Sprintf("unsupported statement %T", s)}
	}
}

func (g *generator) genLocalVarDecl(d *ast.VarDecl) error {
	name := d.Name
	if d.IsArray {
		g.current.Add(Instruction{Op: ALLOC, Result: name, Arg1: strconv.Itoa(d.ArraySize)})
	} else {
		g.current.Add(Instruction{Op: ALLOC, Result: name, Arg1: "4"})
	}
	g.symbols[name] = name
	if d.Init != nil {
		res, err := g.genExpr(d.Init)
		if err != nil {
			return err
		}
		g.current.Add(Instruction{Op: STORE, Result: name, Arg1: res})
	}
	return nil
}

// genIf always allocates three labels (then/else_/end) whether or not an
// else branch exists, matching original_source/src/ir/ir_generator.cpp
// exactly — see DESIGN.md Open Question 4.
func (g *generator) genIf(s *ast.IfStmt) error {
	thenLbl := g.current.NewLabel()
	elseLbl := g.current.NewLabel()
	endLbl := g.current.NewLabel()

	condRes, err := g.genExpr(s.Cond)
	if err != nil {
		return err
	}

	if s.Else != nil {
		g.current.Add(Instruction{Op: BRANCH, Result: thenLbl, Arg1: condRes, Arg2: elseLbl})
	} else {
		g.current.Add(Instruction{Op: BRANCH, Result: thenLbl, Arg1: condRes, Arg2: endLbl})
	}

	g.current.Add(Instruction{Op: LABEL, Result: thenLbl})
	if err := g.genStmt(s.Then); err != nil {
		return err
	}
	g.current.Add(Instruction{Op: JUMP, Result: endLbl})

	if s.Else != nil {
		g.current.Add(Instruction{Op: LABEL, Result: elseLbl})
		if err := g.genStmt(s.Else); err != nil {
			return err
		}
		g.current.Add(Instruction{Op: JUMP, Result: endLbl})
	}

	g.current.Add(Instruction{Op: LABEL, Result: endLbl})
	return nil
}

func (g *generator) genWhile(s *ast.WhileStmt) error {
	loopLbl := g.current.NewLabel()
	bodyLbl := g.current.NewLabel()
	endLbl := g.current.NewLabel()

	g.breakLbls = append(g.breakLbls, endLbl)
	g.contLbls = append(g.contLbls, loopLbl)

	g.current.Add(Instruction{Op: LABEL, Result: loopLbl})
	condRes, err := g.genExpr(s.Cond)
	if err != nil {
		return err
	}
	g.current.Add(Instruction{Op: BRANCH, Result: bodyLbl, Arg1: condRes, Arg2: endLbl})

	g.current.Add(Instruction{Op: LABEL, Result: bodyLbl})
	if err := g.genStmt(s.Body); err != nil {
		return err
	}
	g.current.Add(Instruction{Op: JUMP, Result: loopLbl})

	g.current.Add(Instruction{Op: LABEL, Result: endLbl})

	g.breakLbls = g.breakLbls[:len(g.breakLbls)-1]
	g.contLbls = g.contLbls[:len(g.contLbls)-1]
	return nil
}

func (g *generator) genReturn(s *ast.ReturnStmt) error {
	if s.Value != nil {
		res, err := g.genExpr(s.Value)
		if err != nil {
			return err
		}
		g.current.Add(Instruction{Op: RETURN, Result: res})
	} else {
		g.current.Add(Instruction{Op: RETURN})
	}
	return nil
}

// genExpr lowers an expression, returning the operand string carrying its
// result (last_result in original_source's terms).
func (g *generator) genExpr(e ast.Expr) (string, error) {
	switch e := e.(type) {
	case *ast.IntLiteral:
		t := g.current.NewTemp()
		g.current.Add(Instruction{Op: CONST, Result: t, Arg1: strconv.Itoa(e.Value)})
		return t, nil
	case *ast.CharLiteral:
		t := g.current.NewTemp()
		g.current.Add(Instruction{Op: CONST, Result: t, Arg1: strconv.Itoa(e.Value)})
		return t, nil
	case *ast.StringLiteral:
		// Open Question 1: no new opcode; the raw string is embedded as
		// CONST's arg1 exactly per §4.3. The backend treats a non-numeric
		// CONST arg1 as a known limitation (see codegen).
		t := g.current.NewTemp()
		g.current.Add(Instruction{Op: CONST, Result: t, Arg1: "\"" + e.Value + "\""})
		return t, nil
	case *ast.Ident:
		t := g.current.NewTemp()
		g.current.Add(Instruction{Op: LOAD, Result: t, Arg1: e.Name})
		return t, nil
	case *ast.ArrayAccess:
		idxRes, err := g.genExpr(e.Index)
		if err != nil {
			return "", err
		}
		t := g.current.NewTemp()
		// Open Question 2: synthesized "name[tK]" operand string, left
		// exactly as spec.md §4.3 and original_source describe it; the
		// backend has no decoding rule for this operand shape.
		g.current.Add(Instruction{Op: LOAD, Result: t, Arg1: e.ArrayName + "[" + idxRes + "]"})
		return t, nil
	case *ast.Call:
		for _, arg := range e.Args {
			res, err := g.genExpr(arg)
			if err != nil {
				return "", err
			}
			g.current.Add(Instruction{Op: PARAM, Result: res})
		}
		t := g.current.NewTemp()
		g.current.Add(Instruction{Op: CALL, Result: t, Arg1: e.FuncName})
		return t, nil
	case *ast.Unary:
		return g.genUnary(e)
	case *ast.Binary:
		return g.genBinary(e)
	default:
		return "", &SemanticError{Message: fmt.Sprintf("unsupported expression %T", e)}
	}
}

func (g *generator) genUnary(u *ast.Unary) (string, error) {
	operandRes, err := g.genExpr(u.Operand)
	if err != nil {
		return "", err
	}
	switch u.Op {
	case "-":
		t := g.current.NewTemp()
		g.current.Add(Instruction{Op: SUB, Result: t, Arg1: "0", Arg2: operandRes})
		return t, nil
	case "!":
		t := g.current.NewTemp()
		g.current.Add(Instruction{Op: NOT, Result: t, Arg1: operandRes})
		return t, nil
	case "+":
		return operandRes, nil
	default:
		// &, *, ++, -- appear in the grammar (spec.md §4.2) but have no
		// lowering rule in original_source/src/ir/ir_generator.cpp — SyC's
		// Non-goals exclude pointer semantics beyond placeholder vocabulary.
		return "", &SemanticError{Message: "unsupported unary operator: " + u.Op}
	}
}

func (g *generator) genBinary(b *ast.Binary) (string, error) {
	if b.Op == "=" {
		ident, ok := b.Left.(*ast.Ident)
		if !ok {
			return "", &SemanticError{Message: "left side of assignment must be an identifier"}
		}
		rightRes, err := g.genExpr(b.Right)
		if err != nil {
			return "", err
		}
		g.current.Add(Instruction{Op: STORE, Result: ident.Name, Arg1: rightRes})
		return rightRes, nil
	}

	leftRes, err := g.genExpr(b.Left)
	if err != nil {
		return "", err
	}
	rightRes, err := g.genExpr(b.Right)
	if err != nil {
		return "", err
	}

	var op Opcode
	switch b.Op {
	case "+":
		op = ADD
	case "-":
		op = SUB
	case "*":
		op = MUL
	case "/":
		op = DIV
	case "%":
		op = MOD
	case "==":
		op = EQ
	case "!=":
		op = NE
	case "<":
		op = LT
	case "<=":
		op = LE
	case ">":
		op = GT
	case ">=":
		op = GE
	case "&&":
		op = AND
	case "||":
		op = OR
	default:
		return "", &SemanticError{Message: "unknown binary operator: " + b.Op}
	}

	t := g.current.NewTemp()
	g.current.Add(Instruction{Op: op, Result: t, Arg1: leftRes, Arg2: rightRes})
	return t, nil
}
