package vm

import (
	"errors"
	"fmt"

	"github.com/tliron/commonlog"
)

var (
	ErrStackOverflow  = errors.New("stack overflow")
	ErrStackUnderflow = errors.New("stack underflow")
)

// TraceInfo describes a single instruction dispatch for debugging/tracing.
type TraceInfo struct {
	Op         byte
	Line       int
	IP         int
	StackDepth int
}

// TraceHook observes instruction dispatch for debugging/profiling.
type TraceHook func(TraceInfo)

// RuntimeError reports the instruction that failed and its source line.
type RuntimeError struct {
	Message string
	Line    int
	IP      int
	Op      byte
	Cause   error
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s\n[line %d] in script", e.Message, e.Line)
}

// Unwrap exposes the original error, if any.
func (e *RuntimeError) Unwrap() error {
	return e.Cause
}

// runtimeError builds the error for the instruction at offset and resets the
// stack.
func (vm *VM) runtimeError(offset int, cause error, format string, args ...any) *RuntimeError {
	err := &RuntimeError{
		Message: fmt.Sprintf(format, args...),
		IP:      offset,
		Cause:   cause,
	}
	if offset < len(vm.chunk.Code) {
		err.Op = vm.chunk.Code[offset]
		err.Line = vm.chunk.Line(offset)
	}
	vm.resetStack()
	log.Debugf("vm %s: runtime error at %04d: %s", vm.id, offset, err.Message)
	return err
}

func faultMessage(err error) string {
	switch err {
	case ErrStackOverflow:
		return "Stack overflow."
	case ErrStackUnderflow:
		return "Stack underflow."
	default:
		return err.Error()
	}
}

func (vm *VM) trace(offset int) {
	if h := vm.opts.TraceHook; h != nil {
		line, _ := vm.chunk.LookupLine(offset)
		h(TraceInfo{
			Op:         vm.chunk.Code[offset],
			Line:       line,
			IP:         offset,
			StackDepth: vm.sp,
		})
	}
	if vm.opts.TraceExecution && log.AllowLevel(commonlog.Debug) {
		vm.logInstruction(offset)
	}
}
