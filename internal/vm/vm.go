// Package vm executes compiled chunks on a fixed-capacity value stack.
package vm

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/tliron/commonlog"

	"github.com/xirelogy/golox/internal/bytecode"
	"github.com/xirelogy/golox/internal/compiler"
	"github.com/xirelogy/golox/internal/heap"
	"github.com/xirelogy/golox/internal/table"
	"github.com/xirelogy/golox/internal/value"
)

var log = commonlog.GetLogger("golox.vm")

// DefaultStackSize is the stack capacity used when Options leaves it unset.
const DefaultStackSize = 1 << 16

// InterpretResult is the coarse outcome of Interpret.
type InterpretResult int

const (
	InterpretOK InterpretResult = iota
	InterpretCompileError
	InterpretRuntimeError
)

func (r InterpretResult) String() string {
	switch r {
	case InterpretOK:
		return "ok"
	case InterpretCompileError:
		return "compile error"
	case InterpretRuntimeError:
		return "runtime error"
	default:
		return fmt.Sprintf("InterpretResult(%d)", int(r))
	}
}

// Options configures a VM. Zero values select defaults.
type Options struct {
	// Stdout receives print output. Defaults to os.Stdout.
	Stdout    io.Writer
	StackSize int
	TraceHook TraceHook
	// TraceExecution logs every instruction at debug level.
	TraceExecution bool
	// CodeWriter, when set, receives a listing of every compiled chunk.
	CodeWriter io.Writer
}

// VM is one program context: a stack, a globals table and the heap that owns
// every string the program creates. A VM is not safe for concurrent use.
type VM struct {
	id      string
	opts    Options
	chunk   *bytecode.Chunk
	ip      int
	stack   []value.Value
	sp      int
	globals *table.Table
	heap    *heap.Heap
	out     io.Writer
}

// New constructs an empty VM instance.
func New(opts Options) *VM {
	if opts.StackSize <= 0 {
		opts.StackSize = DefaultStackSize
	}
	out := opts.Stdout
	if out == nil {
		out = os.Stdout
	}
	vm := &VM{
		id:      uuid.NewString(),
		opts:    opts,
		stack:   make([]value.Value, opts.StackSize),
		globals: table.New(),
		heap:    heap.New(),
		out:     out,
	}
	log.Debugf("vm %s created (stack=%d)", vm.id, opts.StackSize)
	return vm
}

// ID identifies this instance in log output.
func (vm *VM) ID() string { return vm.id }

// SetTraceHook registers a callback for instruction-level tracing.
func (vm *VM) SetTraceHook(h TraceHook) {
	vm.opts.TraceHook = h
}

// Interpret compiles source and runs it. A compile failure returns
// InterpretCompileError with a *compiler.Error and executes nothing.
func (vm *VM) Interpret(source string) (InterpretResult, error) {
	chunk, err := compiler.Compile(source, vm.heap)
	if err != nil {
		return InterpretCompileError, err
	}
	if w := vm.opts.CodeWriter; w != nil {
		if err := bytecode.NewDisassembler(w).DisassembleChunk("script", chunk); err != nil {
			log.Warningf("vm %s: listing failed: %s", vm.id, err.Error())
		}
	}
	return vm.Run(chunk)
}

// Run executes an already compiled chunk against this VM's globals.
func (vm *VM) Run(chunk *bytecode.Chunk) (InterpretResult, error) {
	vm.chunk = chunk
	vm.ip = 0
	vm.resetStack()
	if err := vm.run(); err != nil {
		return InterpretRuntimeError, err
	}
	return InterpretOK, nil
}

// Free releases every heap object and clears the globals. The VM stays usable.
func (vm *VM) Free() int {
	vm.globals = table.New()
	vm.chunk = nil
	vm.resetStack()
	freed := vm.heap.Free()
	log.Infof("vm %s freed %d objects", vm.id, freed)
	return freed
}

func (vm *VM) resetStack() {
	vm.sp = 0
}

// stackFault aborts run from deep inside push/pop.
type stackFault struct{ err error }

func (vm *VM) push(v value.Value) {
	if vm.sp == len(vm.stack) {
		panic(stackFault{ErrStackOverflow})
	}
	vm.stack[vm.sp] = v
	vm.sp++
}

func (vm *VM) pop() value.Value {
	if vm.sp == 0 {
		panic(stackFault{ErrStackUnderflow})
	}
	vm.sp--
	return vm.stack[vm.sp]
}

func (vm *VM) peek(distance int) value.Value {
	if distance >= vm.sp {
		panic(stackFault{ErrStackUnderflow})
	}
	return vm.stack[vm.sp-1-distance]
}

func (vm *VM) readByte() byte {
	b := vm.chunk.Code[vm.ip]
	vm.ip++
	return b
}

func (vm *VM) readLong() int {
	idx := bytecode.ReadLong(vm.chunk.Code, vm.ip)
	vm.ip += 3
	return idx
}

func (vm *VM) readShort() int {
	off := bytecode.ReadJump(vm.chunk.Code, vm.ip)
	vm.ip += 2
	return off
}

func (vm *VM) readIndex(long bool) int {
	if long {
		return vm.readLong()
	}
	return int(vm.readByte())
}

func (vm *VM) readString(long bool) *value.ObjString {
	return vm.chunk.Constants[vm.readIndex(long)].AsString()
}

func (vm *VM) run() (err error) {
	start := 0
	defer func() {
		if r := recover(); r != nil {
			fault, ok := r.(stackFault)
			if !ok {
				panic(r)
			}
			err = vm.runtimeError(start, fault.err, "%s", faultMessage(fault.err))
		}
	}()

	code := vm.chunk.Code
	for vm.ip < len(code) {
		start = vm.ip
		if vm.opts.TraceHook != nil || vm.opts.TraceExecution {
			vm.trace(start)
		}
		op := vm.readByte()

		switch op {
		case bytecode.OP_CONSTANT, bytecode.OP_CONSTANT_LONG:
			vm.push(vm.chunk.Constants[vm.readIndex(op == bytecode.OP_CONSTANT_LONG)])
		case bytecode.OP_NIL:
			vm.push(value.Nil())
		case bytecode.OP_TRUE:
			vm.push(value.Bool(true))
		case bytecode.OP_FALSE:
			vm.push(value.Bool(false))
		case bytecode.OP_POP:
			vm.pop()

		case bytecode.OP_GET_LOCAL, bytecode.OP_GET_LOCAL_LONG:
			slot := vm.readIndex(op == bytecode.OP_GET_LOCAL_LONG)
			vm.push(vm.stack[slot])
		case bytecode.OP_SET_LOCAL, bytecode.OP_SET_LOCAL_LONG:
			slot := vm.readIndex(op == bytecode.OP_SET_LOCAL_LONG)
			vm.stack[slot] = vm.peek(0)

		case bytecode.OP_GET_GLOBAL, bytecode.OP_GET_GLOBAL_LONG:
			name := vm.readString(op == bytecode.OP_GET_GLOBAL_LONG)
			v, ok := vm.globals.Get(name)
			if !ok {
				return vm.runtimeError(start, nil, "Undefined variable '%s'.", name.Chars)
			}
			vm.push(v)
		case bytecode.OP_DEFINE_GLOBAL, bytecode.OP_DEFINE_GLOBAL_LONG:
			name := vm.readString(op == bytecode.OP_DEFINE_GLOBAL_LONG)
			vm.globals.Set(name, vm.peek(0))
			vm.pop()
		case bytecode.OP_SET_GLOBAL, bytecode.OP_SET_GLOBAL_LONG:
			name := vm.readString(op == bytecode.OP_SET_GLOBAL_LONG)
			if vm.globals.Set(name, vm.peek(0)) {
				vm.globals.Delete(name)
				return vm.runtimeError(start, nil, "Undefined variable '%s'.", name.Chars)
			}

		case bytecode.OP_EQUAL:
			b := vm.pop()
			a := vm.pop()
			vm.push(value.Bool(value.Equal(a, b)))
		case bytecode.OP_GREATER, bytecode.OP_LESS,
			bytecode.OP_SUBTRACT, bytecode.OP_MULTIPLY, bytecode.OP_DIVIDE:
			if !vm.peek(0).IsNumber() || !vm.peek(1).IsNumber() {
				return vm.runtimeError(start, nil, "Operands must be numbers.")
			}
			b := vm.pop().Num
			a := vm.pop().Num
			vm.push(arithmetic(op, a, b))
		case bytecode.OP_ADD:
			switch {
			case vm.peek(0).IsString() && vm.peek(1).IsString():
				b := vm.pop().AsString()
				a := vm.pop().AsString()
				vm.push(value.FromObject(vm.heap.Concat(a, b)))
			case vm.peek(0).IsNumber() && vm.peek(1).IsNumber():
				b := vm.pop().Num
				a := vm.pop().Num
				vm.push(value.Number(a + b))
			default:
				return vm.runtimeError(start, nil, "Operands must be two numbers or two strings.")
			}
		case bytecode.OP_NOT:
			v := vm.peek(0)
			if !v.IsBool() && !v.IsNil() {
				return vm.runtimeError(start, nil, "Operand must be a boolean or nil.")
			}
			vm.pop()
			vm.push(value.Bool(value.IsFalsey(v)))
		case bytecode.OP_NEGATE:
			if !vm.peek(0).IsNumber() {
				return vm.runtimeError(start, nil, "Operand must be a number.")
			}
			vm.push(value.Number(-vm.pop().Num))

		case bytecode.OP_PRINT:
			fmt.Fprintln(vm.out, vm.pop().String())
		case bytecode.OP_JUMP:
			offset := vm.readShort()
			vm.ip += offset
		case bytecode.OP_JUMP_IF_FALSE:
			offset := vm.readShort()
			if value.IsFalsey(vm.peek(0)) {
				vm.ip += offset
			}
		case bytecode.OP_JUMP_BACK:
			offset := vm.readShort()
			vm.ip -= offset
		case bytecode.OP_RETURN:
			return nil
		default:
			return vm.runtimeError(start, nil, "Unknown opcode %d.", op)
		}
	}
	return nil
}

func arithmetic(op byte, a, b float64) value.Value {
	switch op {
	case bytecode.OP_GREATER:
		return value.Bool(a > b)
	case bytecode.OP_LESS:
		return value.Bool(a < b)
	case bytecode.OP_SUBTRACT:
		return value.Number(a - b)
	case bytecode.OP_MULTIPLY:
		return value.Number(a * b)
	default:
		return value.Number(a / b)
	}
}
