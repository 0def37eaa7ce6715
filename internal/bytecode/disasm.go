package bytecode

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xirelogy/golox/internal/value"
)

// Disassembler formats bytecode as a readable assembly-style dump.
type Disassembler struct {
	w io.Writer
}

// NewDisassembler constructs a disassembler that writes to w.
func NewDisassembler(w io.Writer) *Disassembler {
	return &Disassembler{w: w}
}

// DisassembleChunk emits a header followed by every instruction of chunk.
func (d *Disassembler) DisassembleChunk(name string, chunk *Chunk) error {
	if chunk == nil {
		return fmt.Errorf("nil chunk")
	}
	if name == "" {
		name = "<script>"
	}
	fmt.Fprintf(d.w, "== %s ==\n", name)
	for offset := 0; offset < len(chunk.Code); {
		next, err := d.DisassembleInstruction(chunk, offset)
		if err != nil {
			return err
		}
		offset = next
	}
	return nil
}

// DisassembleInstruction emits the instruction at offset and returns the
// offset of the following one.
func (d *Disassembler) DisassembleInstruction(chunk *Chunk, offset int) (int, error) {
	code := chunk.Code
	if offset < 0 || offset >= len(code) {
		return offset, fmt.Errorf("offset %d outside chunk", offset)
	}
	op := code[offset]
	ip := offset + 1

	lineStr := "-"
	if line, ok := chunk.LookupLine(offset); ok {
		lineStr = strconv.Itoa(line)
		if prev, ok := chunk.LookupLine(offset - 1); ok && prev == line {
			lineStr = "|"
		}
	}
	name := OpName(op)
	if name == "" {
		name = fmt.Sprintf("OP_0x%02X", op)
	}

	detail, err := decodeOperands(op, chunk, offset, &ip)
	if err != nil {
		return ip, err
	}
	fmt.Fprintf(d.w, "%04d %4s %-16s", offset, lineStr, name)
	if detail != "" {
		fmt.Fprintf(d.w, " %s", detail)
	}
	fmt.Fprintln(d.w)
	return ip, nil
}

func decodeOperands(op byte, chunk *Chunk, offset int, ip *int) (string, error) {
	code := chunk.Code
	switch op {
	case OP_CONSTANT, OP_CONSTANT_LONG:
		idx, err := readIndex(code, ip, op == OP_CONSTANT_LONG)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%d ; %s", idx, formatConstRef(chunk, idx)), nil
	case OP_GET_GLOBAL, OP_SET_GLOBAL, OP_DEFINE_GLOBAL,
		OP_GET_GLOBAL_LONG, OP_SET_GLOBAL_LONG, OP_DEFINE_GLOBAL_LONG:
		long := op == OP_GET_GLOBAL_LONG || op == OP_SET_GLOBAL_LONG || op == OP_DEFINE_GLOBAL_LONG
		idx, err := readIndex(code, ip, long)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%d ; name=%s", idx, formatConstRef(chunk, idx)), nil
	case OP_GET_LOCAL, OP_SET_LOCAL, OP_GET_LOCAL_LONG, OP_SET_LOCAL_LONG:
		slot, err := readIndex(code, ip, op == OP_GET_LOCAL_LONG || op == OP_SET_LOCAL_LONG)
		if err != nil {
			return "", err
		}
		return strconv.Itoa(slot), nil
	case OP_JUMP, OP_JUMP_IF_FALSE, OP_JUMP_BACK:
		dist, err := readU16(code, ip)
		if err != nil {
			return "", err
		}
		target := offset + 3 + int(dist)
		if op == OP_JUMP_BACK {
			target = offset + 3 - int(dist)
		}
		return fmt.Sprintf("%d -> %d", offset, target), nil
	default:
		return "", nil
	}
}

func readIndex(code []byte, ip *int, long bool) (int, error) {
	if !long {
		b, err := readU8(code, ip)
		return int(b), err
	}
	if *ip+2 >= len(code) {
		return 0, fmt.Errorf("unexpected end of bytecode")
	}
	idx := ReadLong(code, *ip)
	*ip += 3
	return idx, nil
}

func readU8(code []byte, ip *int) (byte, error) {
	if *ip >= len(code) {
		return 0, fmt.Errorf("unexpected end of bytecode")
	}
	val := code[*ip]
	*ip = *ip + 1
	return val, nil
}

func readU16(code []byte, ip *int) (uint16, error) {
	if *ip+1 >= len(code) {
		return 0, fmt.Errorf("unexpected end of bytecode")
	}
	hi := code[*ip]
	lo := code[*ip+1]
	*ip += 2
	return uint16(hi)<<8 | uint16(lo), nil
}

func formatConstRef(chunk *Chunk, idx int) string {
	if chunk == nil || idx >= len(chunk.Constants) {
		return "<invalid>"
	}
	return formatConst(chunk.Constants[idx])
}

func formatConst(v value.Value) string {
	if s := v.AsString(); s != nil {
		return strconv.Quote(s.Chars)
	}
	return v.String()
}
