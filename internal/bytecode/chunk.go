package bytecode

import (
	"errors"
	"fmt"

	"github.com/xirelogy/golox/internal/value"
)

// ErrIndexTooLarge is returned by WriteIndexed when an index does not fit the
// three-byte long operand.
var ErrIndexTooLarge = errors.New("index exceeds long operand range")

// LineRun covers a run of consecutive code bytes emitted for one source line.
// Count is cumulative: the number of code bytes up to and including the run.
type LineRun struct {
	Line  int
	Count int
}

// Chunk is a compiled bytecode sequence with its constant pool and a
// run-length encoded line index.
type Chunk struct {
	Code      []byte
	Constants []value.Value
	Lines     []LineRun
}

func NewChunk() *Chunk {
	return &Chunk{}
}

// Write appends one byte produced by source line line.
func (c *Chunk) Write(b byte, line int) {
	c.Code = append(c.Code, b)
	if n := len(c.Lines); n > 0 && c.Lines[n-1].Line == line {
		c.Lines[n-1].Count++
		return
	}
	c.Lines = append(c.Lines, LineRun{Line: line, Count: len(c.Code)})
}

// AddConstant appends v to the constant pool and returns its index.
func (c *Chunk) AddConstant(v value.Value) int {
	c.Constants = append(c.Constants, v)
	return len(c.Constants) - 1
}

// WriteIndexed emits an instruction whose operand is index, choosing the short
// or long opcode by width.
func (c *Chunk) WriteIndexed(short, long byte, index int, line int) error {
	switch {
	case index < 0 || index > MaxLongIndex:
		return fmt.Errorf("%w: %d", ErrIndexTooLarge, index)
	case index <= MaxShortIndex:
		c.Write(short, line)
		c.Write(byte(index), line)
	default:
		c.Write(long, line)
		c.Write(byte(index), line)
		c.Write(byte(index>>8), line)
		c.Write(byte(index>>16), line)
	}
	return nil
}

// Line returns the source line of the byte at offset. The offset must lie
// inside the chunk.
func (c *Chunk) Line(offset int) int {
	line, ok := c.LookupLine(offset)
	if !ok {
		panic(fmt.Sprintf("bytecode offset %d outside chunk of %d bytes", offset, len(c.Code)))
	}
	return line
}

// LookupLine is Line without the panic.
func (c *Chunk) LookupLine(offset int) (int, bool) {
	if offset < 0 {
		return 0, false
	}
	for _, run := range c.Lines {
		if offset < run.Count {
			return run.Line, true
		}
	}
	return 0, false
}

// ReadLong decodes a three-byte little-endian operand starting at offset.
func ReadLong(code []byte, offset int) int {
	return int(code[offset]) | int(code[offset+1])<<8 | int(code[offset+2])<<16
}

// ReadJump decodes a two-byte big-endian jump distance starting at offset.
func ReadJump(code []byte, offset int) int {
	return int(code[offset])<<8 | int(code[offset+1])
}
