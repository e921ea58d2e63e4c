package bytecode

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Wire format: magic("PYZB"), version byte, instruction-array length +
// bytes, constant count + length-prefixed, kind-tagged constant entries.
// Stable across compiler runs (spec.md §6) so a cached artifact loads on
// a later invocation without re-deriving the bytecode.
var magic = [4]byte{'P', 'Y', 'Z', 'B'}

const wireVersion = 1

const (
	kindInt byte = iota
	kindFloat
	kindString
	kindBool
	kindNone
	kindList
)

// Serialize renders p as the self-describing byte stream spec.md §6
// documents.
func (p *Program) Serialize() []byte {
	buf := make([]byte, 0, len(p.Instructions)+32)
	buf = append(buf, magic[:]...)
	buf = append(buf, wireVersion)

	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(p.Instructions)))
	buf = append(buf, lenBuf[:]...)
	buf = append(buf, p.Instructions...)

	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(p.Constants)))
	buf = append(buf, lenBuf[:]...)
	for _, c := range p.Constants {
		buf = appendConstant(buf, c)
	}
	return buf
}

func appendConstant(buf []byte, v any) []byte {
	var u32 [4]byte
	var u64 [8]byte
	switch val := v.(type) {
	case int64:
		buf = append(buf, kindInt)
		binary.BigEndian.PutUint64(u64[:], uint64(val))
		buf = append(buf, u64[:]...)
	case int:
		buf = append(buf, kindInt)
		binary.BigEndian.PutUint64(u64[:], uint64(int64(val)))
		buf = append(buf, u64[:]...)
	case float64:
		buf = append(buf, kindFloat)
		binary.BigEndian.PutUint64(u64[:], math.Float64bits(val))
		buf = append(buf, u64[:]...)
	case bool:
		buf = append(buf, kindBool)
		if val {
			buf = append(buf, 1)
		} else {
			buf = append(buf, 0)
		}
	case nil:
		buf = append(buf, kindNone)
	case string:
		buf = append(buf, kindString)
		binary.BigEndian.PutUint32(u32[:], uint32(len(val)))
		buf = append(buf, u32[:]...)
		buf = append(buf, val...)
	case []any:
		buf = append(buf, kindList)
		binary.BigEndian.PutUint32(u32[:], uint32(len(val)))
		buf = append(buf, u32[:]...)
		for _, elem := range val {
			buf = appendConstant(buf, elem)
		}
	default:
		// Unreachable for constants produced by this package's own
		// compiler; guards a future constant kind added to addConstant
		// without a matching wire encoding.
		panic(fmt.Sprintf("bytecode: constant kind %T has no wire encoding", v))
	}
	return buf
}

// Deserialize parses the byte stream Serialize produced back into a
// Program. Round-trips with Serialize: Deserialize(p.Serialize()) == p
// (spec.md §8 invariant 1).
func Deserialize(data []byte) (*Program, error) {
	if len(data) < 5 || [4]byte{data[0], data[1], data[2], data[3]} != magic {
		return nil, fmt.Errorf("bytecode: bad magic header")
	}
	if data[4] != wireVersion {
		return nil, fmt.Errorf("bytecode: unsupported wire version %d", data[4])
	}
	off := 5
	insLen := int(binary.BigEndian.Uint32(data[off:]))
	off += 4
	instructions := make([]byte, insLen)
	copy(instructions, data[off:off+insLen])
	off += insLen

	numConsts := int(binary.BigEndian.Uint32(data[off:]))
	off += 4
	constants := make([]any, numConsts)
	for i := 0; i < numConsts; i++ {
		v, n, err := readConstant(data[off:])
		if err != nil {
			return nil, err
		}
		constants[i] = v
		off += n
	}
	return &Program{Instructions: instructions, Constants: constants}, nil
}

func readConstant(data []byte) (any, int, error) {
	if len(data) < 1 {
		return nil, 0, fmt.Errorf("bytecode: truncated constant")
	}
	kind := data[0]
	switch kind {
	case kindInt:
		return int64(binary.BigEndian.Uint64(data[1:9])), 9, nil
	case kindFloat:
		return math.Float64frombits(binary.BigEndian.Uint64(data[1:9])), 9, nil
	case kindBool:
		return data[1] != 0, 2, nil
	case kindNone:
		return nil, 1, nil
	case kindString:
		n := int(binary.BigEndian.Uint32(data[1:5]))
		return string(data[5 : 5+n]), 5 + n, nil
	case kindList:
		n := int(binary.BigEndian.Uint32(data[1:5]))
		off := 5
		elems := make([]any, n)
		for i := 0; i < n; i++ {
			v, consumed, err := readConstant(data[off:])
			if err != nil {
				return nil, 0, err
			}
			elems[i] = v
			off += consumed
		}
		return elems, off, nil
	default:
		return nil, 0, fmt.Errorf("bytecode: unknown constant kind %d", kind)
	}
}
