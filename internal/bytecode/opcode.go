package bytecode

// Bytecode operations. Operands follow the opcode inline: short indexed forms
// take one byte, _LONG forms take three bytes little-endian, jumps take two
// bytes big-endian.
const (
	OP_CONSTANT byte = iota
	OP_CONSTANT_LONG
	OP_NIL
	OP_TRUE
	OP_FALSE
	OP_POP

	OP_GET_LOCAL
	OP_GET_LOCAL_LONG
	OP_SET_LOCAL
	OP_SET_LOCAL_LONG
	OP_GET_GLOBAL
	OP_GET_GLOBAL_LONG
	OP_DEFINE_GLOBAL
	OP_DEFINE_GLOBAL_LONG
	OP_SET_GLOBAL
	OP_SET_GLOBAL_LONG

	OP_EQUAL
	OP_GREATER
	OP_LESS
	OP_ADD
	OP_SUBTRACT
	OP_MULTIPLY
	OP_DIVIDE
	OP_NOT
	OP_NEGATE

	OP_PRINT
	OP_JUMP
	OP_JUMP_IF_FALSE
	OP_JUMP_BACK
	OP_RETURN

	numOps
)

var opNames = [numOps]string{
	OP_CONSTANT:           "OP_CONSTANT",
	OP_CONSTANT_LONG:      "OP_CONSTANT_LONG",
	OP_NIL:                "OP_NIL",
	OP_TRUE:               "OP_TRUE",
	OP_FALSE:              "OP_FALSE",
	OP_POP:                "OP_POP",
	OP_GET_LOCAL:          "OP_GET_LOCAL",
	OP_GET_LOCAL_LONG:     "OP_GET_LOCAL_LONG",
	OP_SET_LOCAL:          "OP_SET_LOCAL",
	OP_SET_LOCAL_LONG:     "OP_SET_LOCAL_LONG",
	OP_GET_GLOBAL:         "OP_GET_GLOBAL",
	OP_GET_GLOBAL_LONG:    "OP_GET_GLOBAL_LONG",
	OP_DEFINE_GLOBAL:      "OP_DEFINE_GLOBAL",
	OP_DEFINE_GLOBAL_LONG: "OP_DEFINE_GLOBAL_LONG",
	OP_SET_GLOBAL:         "OP_SET_GLOBAL",
	OP_SET_GLOBAL_LONG:    "OP_SET_GLOBAL_LONG",
	OP_EQUAL:              "OP_EQUAL",
	OP_GREATER:            "OP_GREATER",
	OP_LESS:               "OP_LESS",
	OP_ADD:                "OP_ADD",
	OP_SUBTRACT:           "OP_SUBTRACT",
	OP_MULTIPLY:           "OP_MULTIPLY",
	OP_DIVIDE:             "OP_DIVIDE",
	OP_NOT:                "OP_NOT",
	OP_NEGATE:             "OP_NEGATE",
	OP_PRINT:              "OP_PRINT",
	OP_JUMP:               "OP_JUMP",
	OP_JUMP_IF_FALSE:      "OP_JUMP_IF_FALSE",
	OP_JUMP_BACK:          "OP_JUMP_BACK",
	OP_RETURN:             "OP_RETURN",
}

// OpName returns the mnemonic for op.
func OpName(op byte) string {
	if op < numOps {
		return opNames[op]
	}
	return ""
}

// Width limits for indexed operands and jump distances.
const (
	MaxShortIndex = 0xFF
	MaxLongIndex  = 0xFFFFFF
	MaxJump       = 0xFFFF
)
