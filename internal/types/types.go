// Package types implements the closed native-type lattice the compiler
// infers over instead of full Hindley-Milner unification: every Python
// value maps to exactly one of a fixed set of backend-representable
// types, with `Unknown` as the top element any two incompatible types
// widen to.
package types

import "fmt"

// Kind enumerates the native lattice elements.
type Kind int

const (
	Unknown Kind = iota
	Int
	Float
	Bool
	String
	BigInt
	ListType
	TupleType
	SetType
	DictType
	DequeType
	CounterType
	StringIOType
	BytesIOType
	FileType
	HashObjectType
	SQLiteConnectionType
	SQLiteCursorType
	ClassInstanceType
	FunctionType
	NoneType
)

var kindNames = map[Kind]string{
	Unknown: "unknown", Int: "int", Float: "float", Bool: "bool", String: "string",
	BigInt: "bigint", ListType: "list", TupleType: "tuple", SetType: "set", DictType: "dict",
	DequeType: "deque", CounterType: "counter", StringIOType: "stringio", BytesIOType: "bytesio",
	FileType: "file", HashObjectType: "hash_object", SQLiteConnectionType: "sqlite_connection",
	SQLiteCursorType: "sqlite_cursor", ClassInstanceType: "class_instance", FunctionType: "function",
	NoneType: "none",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Type is one native-lattice value. ClassName is set only for
// ClassInstanceType; Elem/Key/Value describe container element types
// where known (nil/Unknown when not yet narrowed).
type Type struct {
	Kind      Kind
	ClassName string
	Elem      *Type // list/set/deque/tuple element type, generator/iterator yield type
	Key       *Type // dict key type
	Value     *Type // dict value type
}

func Simple(k Kind) Type { return Type{Kind: k} }

func ClassInstance(name string) Type { return Type{Kind: ClassInstanceType, ClassName: name} }

func List(elem Type) Type { return Type{Kind: ListType, Elem: &elem} }

func Dict(key, val Type) Type { return Type{Kind: DictType, Key: &key, Value: &val} }

var (
	TUnknown = Simple(Unknown)
	TInt     = Simple(Int)
	TFloat   = Simple(Float)
	TBool    = Simple(Bool)
	TString  = Simple(String)
	TBigInt  = Simple(BigInt)
	TNone    = Simple(NoneType)
)

func (t Type) String() string {
	switch t.Kind {
	case ClassInstanceType:
		return "class_instance(" + t.ClassName + ")"
	case ListType:
		if t.Elem != nil {
			return "list[" + t.Elem.String() + "]"
		}
		return "list"
	case DictType:
		if t.Key != nil && t.Value != nil {
			return "dict[" + t.Key.String() + ", " + t.Value.String() + "]"
		}
		return "dict"
	default:
		return t.Kind.String()
	}
}

// Equal reports structural equality, treating unparametrized containers
// as equal to any parametrization of the same Kind (used once a join has
// already widened element types).
func Equal(a, b Type) bool {
	if a.Kind != b.Kind {
		return false
	}
	if a.Kind == ClassInstanceType {
		return a.ClassName == b.ClassName
	}
	return true
}

// Join computes the least upper bound of two types in the lattice. Equal
// types join to themselves; int with float widens to float; anything else
// (including two different class instances) widens to Unknown, since the
// lattice has no other subtyping below Unknown.
func Join(a, b Type) Type {
	if Equal(a, b) {
		if a.Kind == ListType && a.Elem != nil && b.Elem != nil {
			joined := Join(*a.Elem, *b.Elem)
			return List(joined)
		}
		if a.Kind == DictType && a.Key != nil && a.Value != nil && b.Key != nil && b.Value != nil {
			return Dict(Join(*a.Key, *b.Key), Join(*a.Value, *b.Value))
		}
		return a
	}
	if a.Kind == Unknown || b.Kind == Unknown {
		return TUnknown
	}
	// int widens to float under mixed arithmetic, matching Python's
	// numeric tower for the subset of types this compiler supports.
	if (a.Kind == Int && b.Kind == Float) || (a.Kind == Float && b.Kind == Int) {
		return TFloat
	}
	return TUnknown
}

// IsNumeric reports whether t supports arithmetic operators.
func IsNumeric(t Type) bool {
	switch t.Kind {
	case Int, Float, BigInt, Bool:
		return true
	}
	return false
}

// IsContainer reports whether t supports `len()`/iteration/subscripting.
func IsContainer(t Type) bool {
	switch t.Kind {
	case ListType, TupleType, SetType, DictType, DequeType, String, BigInt:
		return true
	}
	return false
}

// IsHashable reports whether a value of type t may be a dict key or set
// element. Mutable containers are excluded, matching Python semantics.
func IsHashable(t Type) bool {
	switch t.Kind {
	case ListType, SetType, DictType:
		return false
	}
	return true
}
