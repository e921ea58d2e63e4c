package codegen

import "github.com/sunholo/pyzig/internal/types"

// zigType maps a lattice Type to the Zig type the generator emits for
// it. Unknown widens to the runtime's tagged-union value type, since
// the backend still needs a concrete representation for anything the
// inferrer couldn't pin down.
func zigType(t types.Type) string {
	switch t.Kind {
	case types.Int:
		return "i64"
	case types.Float:
		return "f64"
	case types.Bool:
		return "bool"
	case types.String:
		return "pyzig_runtime.PyString"
	case types.BigInt:
		return "pyzig_runtime.PyBigInt"
	case types.NoneType:
		return "void"
	case types.ListType:
		if t.Elem != nil {
			return "pyzig_runtime.PyList(" + zigType(*t.Elem) + ")"
		}
		return "pyzig_runtime.PyList(pyzig_runtime.PyValue)"
	case types.TupleType:
		return "pyzig_runtime.PyTuple"
	case types.SetType:
		return "pyzig_runtime.PySet"
	case types.DictType:
		if t.Key != nil && t.Value != nil {
			return "pyzig_runtime.PyDict(" + zigType(*t.Key) + ", " + zigType(*t.Value) + ")"
		}
		return "pyzig_runtime.PyDict(pyzig_runtime.PyValue, pyzig_runtime.PyValue)"
	case types.DequeType:
		return "pyzig_runtime.PyDeque"
	case types.CounterType:
		return "pyzig_runtime.PyCounter"
	case types.StringIOType:
		return "pyzig_runtime.PyStringIO"
	case types.BytesIOType:
		return "pyzig_runtime.PyBytesIO"
	case types.FileType:
		return "pyzig_runtime.PyFile"
	case types.HashObjectType:
		return "pyzig_runtime.PyHashObject"
	case types.SQLiteConnectionType:
		return "pyzig_runtime.PySqliteConnection"
	case types.SQLiteCursorType:
		return "pyzig_runtime.PySqliteCursor"
	case types.ClassInstanceType:
		return "*" + t.ClassName
	case types.FunctionType:
		return "pyzig_runtime.PyFunction"
	default:
		return "pyzig_runtime.PyValue"
	}
}
