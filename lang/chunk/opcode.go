// Package chunk implements the per-function bytecode container (opcode
// stream, line table, constant pool), and the Function and Closure heap
// object variants that own or reference a Chunk.
package chunk

import "fmt"

// OpCode is one bytecode instruction. Operand byte counts are fixed per
// opcode (spec 4.2's instruction table); multi-byte operands are big-endian.
type OpCode uint8

//nolint:revive
const (
	OpConstant OpCode = iota
	OpNull
	OpTrue
	OpFalse
	OpPop

	OpGetLocal
	OpSetLocal
	OpGetGlobal
	OpDefineGlobal
	OpSetGlobal
	OpGetUpvalue
	OpSetUpvalue
	OpCloseUpvalue

	OpEqual
	OpGreater
	OpLess

	OpAdd
	OpSubtract
	OpMultiply
	OpDivide
	OpModulo
	OpPower
	OpNegate
	OpNot

	OpPrint   // pop and print without a trailing newline
	OpPrintln // pop and print with a trailing newline

	OpJump
	OpJumpIfFalse
	OpLoop

	OpCall
	OpClosure
	OpReturn

	maxOpCode
)

var opcodeNames = [...]string{
	OpConstant:      "CONSTANT",
	OpNull:          "NULL",
	OpTrue:          "TRUE",
	OpFalse:         "FALSE",
	OpPop:           "POP",
	OpGetLocal:      "GET_LOCAL",
	OpSetLocal:      "SET_LOCAL",
	OpGetGlobal:     "GET_GLOBAL",
	OpDefineGlobal:  "DEFINE_GLOBAL",
	OpSetGlobal:     "SET_GLOBAL",
	OpGetUpvalue:    "GET_UPVALUE",
	OpSetUpvalue:    "SET_UPVALUE",
	OpCloseUpvalue:  "CLOSE_UPVALUE",
	OpEqual:         "EQUAL",
	OpGreater:       "GREATER",
	OpLess:          "LESS",
	OpAdd:           "ADD",
	OpSubtract:      "SUBTRACT",
	OpMultiply:      "MULTIPLY",
	OpDivide:        "DIVIDE",
	OpModulo:        "MODULO",
	OpPower:         "POWER",
	OpNegate:        "NEGATE",
	OpNot:           "NOT",
	OpPrint:         "PRINT",
	OpPrintln:       "PRINTLN",
	OpJump:          "JUMP",
	OpJumpIfFalse:   "JUMP_IF_FALSE",
	OpLoop:          "LOOP",
	OpCall:          "CALL",
	OpClosure:       "CLOSURE",
	OpReturn:        "RETURN",
}

func (op OpCode) String() string {
	if op < maxOpCode {
		if s := opcodeNames[op]; s != "" {
			return s
		}
	}
	return fmt.Sprintf("illegal opcode (%d)", op)
}
