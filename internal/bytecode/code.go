// Package bytecode compiles a single eval()/exec() string-literal argument
// into the small, self-describing bytecode program spec.md §4.7 and §6
// describe: a stack-machine instruction stream plus a length-prefixed
// constants pool, embedded verbatim into the emitted IR and deserialized
// by the runtime VM. The opcode/operand/constants-pool shape follows
// informatter-nilan/compiler's bytecode compiler (the teacher has no
// bytecode VM of its own), restricted to the arithmetic, comparison, and
// global/local variable subset a folded or straight-line eval() body
// needs.
package bytecode

import (
	"encoding/binary"
	"fmt"
)

// Opcode identifies one bytecode instruction.
type Opcode byte

const (
	OpConstant Opcode = iota
	OpAdd
	OpSubtract
	OpMultiply
	OpDivide
	OpFloorDivide
	OpModulo
	OpNegate
	OpNot
	OpAnd
	OpOr
	OpEqual
	OpNotEqual
	OpLess
	OpLessEqual
	OpGreater
	OpGreaterEqual
	OpGetGlobal
	OpSetGlobal
	OpGetLocal
	OpSetLocal
	OpJump
	OpJumpIfFalse
	OpPop
	OpReturn
)

// Definition describes one opcode's human name and operand widths, each
// entry in bytes. Every defined opcode here takes at most one 2-byte
// operand (an index into the constants pool, a global-name slot, or a
// local slot), matching nilan's OP_CONSTANT/OP_DEFINE_GLOBAL shape.
type Definition struct {
	Name          string
	OperandWidths []int
}

var definitions = map[Opcode]*Definition{
	OpConstant:      {"OP_CONSTANT", []int{2}},
	OpAdd:           {"OP_ADD", nil},
	OpSubtract:      {"OP_SUBTRACT", nil},
	OpMultiply:      {"OP_MULTIPLY", nil},
	OpDivide:        {"OP_DIVIDE", nil},
	OpFloorDivide:   {"OP_FLOOR_DIVIDE", nil},
	OpModulo:        {"OP_MODULO", nil},
	OpNegate:        {"OP_NEGATE", nil},
	OpNot:           {"OP_NOT", nil},
	OpAnd:           {"OP_AND", nil},
	OpOr:            {"OP_OR", nil},
	OpEqual:         {"OP_EQUAL", nil},
	OpNotEqual:      {"OP_NOT_EQUAL", nil},
	OpLess:          {"OP_LESS", nil},
	OpLessEqual:     {"OP_LESS_EQUAL", nil},
	OpGreater:       {"OP_GREATER", nil},
	OpGreaterEqual:  {"OP_GREATER_EQUAL", nil},
	OpGetGlobal:     {"OP_GET_GLOBAL", []int{2}},
	OpSetGlobal:     {"OP_SET_GLOBAL", []int{2}},
	OpGetLocal:      {"OP_GET_LOCAL", []int{2}},
	OpSetLocal:      {"OP_SET_LOCAL", []int{2}},
	OpJump:          {"OP_JUMP", []int{2}},
	OpJumpIfFalse:   {"OP_JUMP_IF_FALSE", []int{2}},
	OpPop:           {"OP_POP", nil},
	OpReturn:        {"OP_RETURN", nil},
}

// Lookup returns op's definition, or an error if op is not a recognized
// opcode (a corrupt or future-version bytecode blob).
func Lookup(op Opcode) (*Definition, error) {
	def, ok := definitions[op]
	if !ok {
		return nil, fmt.Errorf("bytecode: opcode %d undefined", op)
	}
	return def, nil
}

// MakeInstruction assembles one instruction from an opcode and its
// operands, encoding multi-byte operands big-endian. Returns nil if op is
// not recognized.
func MakeInstruction(op Opcode, operands ...int) []byte {
	def, err := Lookup(op)
	if err != nil {
		return nil
	}
	length := 1
	for _, w := range def.OperandWidths {
		length += w
	}
	instr := make([]byte, length)
	instr[0] = byte(op)
	offset := 1
	for i, operand := range operands {
		width := def.OperandWidths[i]
		switch width {
		case 2:
			binary.BigEndian.PutUint16(instr[offset:], uint16(operand))
		}
		offset += width
	}
	return instr
}

// ReadOperands decodes the operands for def starting at ins[0], returning
// the decoded values and the number of bytes consumed.
func ReadOperands(def *Definition, ins []byte) ([]int, int) {
	operands := make([]int, len(def.OperandWidths))
	offset := 0
	for i, width := range def.OperandWidths {
		switch width {
		case 2:
			operands[i] = int(binary.BigEndian.Uint16(ins[offset:]))
		}
		offset += width
	}
	return operands, offset
}
