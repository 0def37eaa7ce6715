package vm

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/xirelogy/golox/internal/bytecode"
	"github.com/xirelogy/golox/internal/compiler"
	"github.com/xirelogy/golox/internal/heap"
)

// Disassemble compiles source without running it and writes the listing to
// w. Constants are interned into a scratch heap, leaving the VM untouched.
func (vm *VM) Disassemble(w io.Writer, name, source string) error {
	if vm == nil {
		return fmt.Errorf("nil VM")
	}
	if w == nil {
		return fmt.Errorf("nil writer")
	}
	scratch := heap.New()
	defer scratch.Free()
	chunk, err := compiler.Compile(source, scratch)
	if err != nil {
		return err
	}
	return bytecode.NewDisassembler(w).DisassembleChunk(name, chunk)
}

// logInstruction writes the stack contents and the instruction at offset to
// the debug log.
func (vm *VM) logInstruction(offset int) {
	var sb strings.Builder
	for i := 0; i < vm.sp; i++ {
		fmt.Fprintf(&sb, "[ %s ]", vm.stack[i].String())
	}
	var buf bytes.Buffer
	if _, err := bytecode.NewDisassembler(&buf).DisassembleInstruction(vm.chunk, offset); err != nil {
		log.Debugf("vm %s: %s", vm.id, err.Error())
		return
	}
	log.Debugf("vm %s: stack %s", vm.id, sb.String())
	log.Debugf("vm %s: %s", vm.id, strings.TrimRight(buf.String(), "\n"))
}
