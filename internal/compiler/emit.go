package compiler

import (
	"github.com/xirelogy/golox/internal/bytecode"
	"github.com/xirelogy/golox/internal/token"
	"github.com/xirelogy/golox/internal/value"
)

func (c *compiler) emitByte(b byte) {
	c.chunk.Write(b, c.previous.Line)
}

func (c *compiler) emitBytes(b ...byte) {
	for _, x := range b {
		c.emitByte(x)
	}
}

// emitIndexed writes short or long depending on how wide index is, reporting
// overflow as a compile error.
func (c *compiler) emitIndexed(short, long byte, index int, overflow string) {
	if err := c.chunk.WriteIndexed(short, long, index, c.previous.Line); err != nil {
		c.error(overflow)
	}
}

func (c *compiler) emitConstant(v value.Value) {
	c.emitIndexed(bytecode.OP_CONSTANT, bytecode.OP_CONSTANT_LONG,
		c.chunk.AddConstant(v), "Too many constants in one chunk.")
}

func (c *compiler) emitGlobal(short, long byte, index int) {
	c.emitIndexed(short, long, index, "Too many global variables in one chunk.")
}

// identifierConstant returns the constant slot holding name, adding it on
// first use.
func (c *compiler) identifierConstant(name token.Token) int {
	s := c.heap.CopyString(name.Lexeme)
	if idx, ok := c.globals.Get(s); ok {
		return int(idx.Num)
	}
	index := c.chunk.AddConstant(value.FromObject(s))
	c.globals.Set(s, value.Number(float64(index)))
	return index
}

// emitJump writes op with a placeholder operand and returns the operand's
// offset for patchJump.
func (c *compiler) emitJump(op byte) int {
	c.emitByte(op)
	c.emitByte(0xff)
	c.emitByte(0xff)
	return len(c.chunk.Code) - 2
}

// patchJump points the placeholder at offset to the current end of code.
func (c *compiler) patchJump(offset int) {
	jump := len(c.chunk.Code) - offset - 2
	if jump > bytecode.MaxJump {
		c.error("Too much code to jump over.")
		return
	}
	c.chunk.Code[offset] = byte(jump >> 8)
	c.chunk.Code[offset+1] = byte(jump)
}

// emitLoop jumps back to loopStart. The distance counts the operand itself.
func (c *compiler) emitLoop(loopStart int) {
	c.emitByte(bytecode.OP_JUMP_BACK)
	offset := len(c.chunk.Code) - loopStart + 2
	if offset > bytecode.MaxJump {
		c.error("Loop body too large.")
		offset = 0
	}
	c.emitByte(byte(offset >> 8))
	c.emitByte(byte(offset))
}
