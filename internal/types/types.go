// Package types describes the handful of scalar kinds SyC's grammar admits.
package types

// Kind is a base scalar kind. SyC recognizes exactly three.
type Kind int

const (
	Int Kind = iota
	Char
	Void
)

func (k Kind) String() string {
	switch k {
	case Int:
		return "int"
	case Char:
		return "char"
	case Void:
		return "void"
	default:
		return "?"
	}
}

// Type is a base kind plus a pointer suffix depth (e.g. `int**` has PointerLevel 2).
type Type struct {
	Base         Kind
	PointerLevel int
}

func (t Type) IsPointer() bool { return t.PointerLevel > 0 }

// Size is the ALLOC size in bytes for a scalar of this type. Every scalar,
// pointer or not, occupies one 4-byte slot per the IR generator's lowering
// scheme (§4.3) — the backend widens everything to 64 bits at emission time.
func (t Type) Size() int {
	return 4
}

func (t Type) String() string {
	s := t.Base.String()
	for i := 0; i < t.PointerLevel; i++ {
		s += "*"
	}
	return s
}
