// Package ast defines the tagged-union syntax tree SyC's parser builds.
//
// Shape (Decl/Stmt/Expr interfaces with private marker methods) is grounded
// on tinyrange-ccomp/internal/ast/ast.go; the node table is spec.md §3's full
// vocabulary, including the struct/typedef/member-access placeholders that
// spec.md §9 says exist only as vocabulary, never constructed by the parser.
package ast

import "github.com/tinyrange/syc/internal/types"

// Program is the tree root: an ordered list of top-level declarations.
type Program struct {
	Decls []Decl
}

type Decl interface{ isDecl() }

// FunctionDef is a top-level function definition.
type FunctionDef struct {
	Name       string
	ReturnType types.Type
	Params     []Param
	Body       *Block
}

func (*FunctionDef) isDecl() {}

type Param struct {
	Name string
	Type types.Type
}

// VarDecl is a variable or const declaration, at top level or inside a block.
type VarDecl struct {
	Name       string
	VarType    types.Type
	IsConst    bool
	IsArray    bool
	ArraySize  int
	Init       Expr // nil if uninitialized
}

func (*VarDecl) isDecl() {}
func (*VarDecl) isStmt() {}

// StructDecl and TypedefDecl exist only as AST vocabulary per spec.md §9 —
// the parser's top-level dispatch (§4.2) never constructs one.
type StructDecl struct {
	Name    string
	Members []Param
}

func (*StructDecl) isDecl() {}

type TypedefDecl struct {
	Name       string
	Underlying types.Type
}

func (*TypedefDecl) isDecl() {}

type Stmt interface{ isStmt() }

type Block struct {
	Statements []Stmt
}

func (*Block) isStmt() {}

type ExprStmt struct {
	Expr Expr
}

func (*ExprStmt) isStmt() {}

type IfStmt struct {
	Cond Expr
	Then Stmt
	Else Stmt // nil if no else branch
}

func (*IfStmt) isStmt() {}

type WhileStmt struct {
	Cond Expr
	Body Stmt
}

func (*WhileStmt) isStmt() {}

type ReturnStmt struct {
	Value Expr // nil for bare `return;`
}

func (*ReturnStmt) isStmt() {}

type BreakStmt struct{}

func (*BreakStmt) isStmt() {}

type ContinueStmt struct{}

func (*ContinueStmt) isStmt() {}

type Expr interface{ isExpr() }

type IntLiteral struct {
	Value int
}

func (*IntLiteral) isExpr() {}

type CharLiteral struct {
	Value int // 0..255
}

func (*CharLiteral) isExpr() {}

type StringLiteral struct {
	Value string // already escape-decoded
}

func (*StringLiteral) isExpr() {}

type Ident struct {
	Name string
}

func (*Ident) isExpr() {}

// Binary covers every binary operator including assignment ("=") — the
// parser always constructs one for `=`, per the redesign decision recorded
// in DESIGN.md (Open Question 3).
type Binary struct {
	Op    string
	Left  Expr
	Right Expr
}

func (*Binary) isExpr() {}

// Unary covers +, -, !, &, *, ++, --.
type Unary struct {
	Op      string
	Operand Expr
}

func (*Unary) isExpr() {}

type Call struct {
	FuncName string
	Args     []Expr
}

func (*Call) isExpr() {}

type ArrayAccess struct {
	ArrayName string
	Index     Expr
}

func (*ArrayAccess) isExpr() {}

// MemberAccess exists only as AST vocabulary per spec.md §9 — the parser
// never builds one (SyC's grammar has no `.`/`->` member expression rule).
type MemberAccess struct {
	Object  Expr
	Member  string
	IsArrow bool
}

func (*MemberAccess) isExpr() {}
