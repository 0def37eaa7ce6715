// Package golox embeds a bytecode interpreter for a small dynamically typed
// scripting language. Each VM is an independent program context: globals and
// interned strings persist across Interpret calls on the same VM and are never
// shared between VMs.
package golox

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/tliron/commonlog"

	"github.com/xirelogy/golox/internal/bytecode"
	"github.com/xirelogy/golox/internal/config"
	"github.com/xirelogy/golox/internal/diagnostics"
	"github.com/xirelogy/golox/internal/value"
	"github.com/xirelogy/golox/internal/vm"
)

var log = commonlog.GetLogger("golox")

// ErrBusy is returned when a VM is asked to run while it is already running.
var ErrBusy = errors.New("VM is busy")

// Result classifies the outcome of Interpret.
type Result int

const (
	ResultOK Result = iota
	ResultCompileError
	ResultRuntimeError
	// ResultIOError means the source could not be read; nothing ran.
	ResultIOError
)

func (r Result) String() string {
	switch r {
	case ResultOK:
		return "ok"
	case ResultCompileError:
		return "compile error"
	case ResultRuntimeError:
		return "runtime error"
	case ResultIOError:
		return "io error"
	default:
		return fmt.Sprintf("Result(%d)", int(r))
	}
}

// Config holds interpreter settings.
type Config = config.Config

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return config.Default()
}

// LoadConfig reads settings from a .toml, .yaml or .yml file.
func LoadConfig(path string) (Config, error) {
	return config.Load(path)
}

// TypeError reports a Go value that has no script equivalent.
type TypeError struct {
	Name string
	Got  string
}

func (e TypeError) Error() string {
	return fmt.Sprintf("global %q: unsupported Go type %s", e.Name, e.Got)
}

// TraceInfo captures execution steps for debug hooks.
type TraceInfo struct {
	Op         string
	Line       int
	IP         int
	StackDepth int
}

// TraceHook observes instruction dispatch for debugging/profiling.
type TraceHook func(TraceInfo)

// Option customizes a VM at construction.
type Option func(*options)

type options struct {
	stdout io.Writer
	stderr io.Writer
}

// WithStdout directs print output to w.
func WithStdout(w io.Writer) Option {
	return func(o *options) { o.stdout = w }
}

// WithStderr directs diagnostics and code listings to w.
func WithStderr(w io.Writer) Option {
	return func(o *options) { o.stderr = w }
}

// VM is the host-facing interpreter. It is safe to call from several
// goroutines, but runs one program at a time: a concurrent call fails with
// ErrBusy instead of waiting.
type VM struct {
	core   *vm.VM
	cfg    Config
	opts   options
	diag   *diagnostics.Printer
	mu     sync.Mutex
	busy   bool
	closed bool
}

// NewVM constructs a VM from cfg. Unset or out-of-range fields fall back to
// their defaults.
func NewVM(cfg Config, opts ...Option) *VM {
	o := options{stdout: os.Stdout, stderr: os.Stderr}
	for _, opt := range opts {
		opt(&o)
	}
	def := config.Default()
	if cfg.StackSize <= 0 || cfg.StackSize > config.MaxStackSize {
		cfg.StackSize = def.StackSize
	}
	if cfg.Color == "" {
		cfg.Color = def.Color
	}
	return newVM(cfg, o)
}

func newVM(cfg Config, o options) *VM {
	coreOpts := vm.Options{
		Stdout:         o.stdout,
		StackSize:      cfg.StackSize,
		TraceExecution: cfg.Trace,
	}
	if cfg.PrintCode {
		coreOpts.CodeWriter = o.stderr
	}
	v := &VM{
		core: vm.New(coreOpts),
		cfg:  cfg,
		opts: o,
		diag: diagnostics.NewPrinter(o.stderr, cfg.Color),
	}
	log.Infof("vm %s ready", v.core.ID())
	return v
}

func (v *VM) acquire() error {
	if v == nil || v.core == nil {
		return errors.New("nil VM")
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return errors.New("VM is closed")
	}
	if v.busy {
		return ErrBusy
	}
	v.busy = true
	return nil
}

func (v *VM) release() {
	v.mu.Lock()
	v.busy = false
	v.mu.Unlock()
}

// Interpret compiles and runs source. print output goes to the configured
// stdout as it happens; diagnostics go to the configured stderr and are also
// returned as the error.
func (v *VM) Interpret(source string) (Result, error) {
	if err := v.acquire(); err != nil {
		if v != nil && v.diag != nil {
			v.diag.Print(err)
		}
		return ResultRuntimeError, err
	}
	defer v.release()

	res, err := v.core.Interpret(source)
	if err != nil {
		v.diag.Print(err)
	}
	switch res {
	case vm.InterpretCompileError:
		return ResultCompileError, err
	case vm.InterpretRuntimeError:
		return ResultRuntimeError, err
	default:
		return ResultOK, nil
	}
}

// InterpretFile reads path and interprets its contents.
func (v *VM) InterpretFile(path string) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		err = fmt.Errorf("reading %s: %w", path, err)
		v.diag.Print(err)
		return ResultIOError, err
	}
	log.Debugf("interpreting %s (%d bytes)", path, len(data))
	return v.Interpret(string(data))
}

// Disassemble compiles source without running it and writes a bytecode
// listing to w.
func (v *VM) Disassemble(w io.Writer, name, source string) error {
	if v == nil || v.core == nil {
		return errors.New("nil VM")
	}
	return v.core.Disassemble(w, name, source)
}

// idle holds mu and reports whether the core can be read. The caller must
// unlock mu.
func (v *VM) idle() bool {
	v.mu.Lock()
	return !v.busy && !v.closed
}

// Global returns a global as a Go value: nil, bool, float64 or string. It
// reports false while a program is running.
func (v *VM) Global(name string) (any, bool) {
	if v == nil || v.core == nil {
		return nil, false
	}
	defer v.mu.Unlock()
	if !v.idle() {
		return nil, false
	}
	val, ok := v.core.Global(name)
	if !ok {
		return nil, false
	}
	return toGo(val), true
}

// Globals snapshots every global as Go values. It returns nil while a program
// is running.
func (v *VM) Globals() map[string]any {
	if v == nil || v.core == nil {
		return nil
	}
	defer v.mu.Unlock()
	if !v.idle() {
		return nil
	}
	raw := v.core.Globals()
	out := make(map[string]any, len(raw))
	for name, val := range raw {
		out[name] = toGo(val)
	}
	return out
}

// SetGlobal binds a Go value to a global name. Supported types are nil, bool,
// string and Go's integer and float types.
func (v *VM) SetGlobal(name string, x any) error {
	if err := v.acquire(); err != nil {
		return err
	}
	defer v.release()

	val, err := v.fromGo(name, x)
	if err != nil {
		return err
	}
	v.core.DefineGlobal(name, val)
	return nil
}

// Duplicate clones the VM configuration and global state into a new instance.
// The duplicate has independent memory and no in-flight execution state.
func (v *VM) Duplicate() (*VM, error) {
	if err := v.acquire(); err != nil {
		if errors.Is(err, ErrBusy) {
			return nil, errors.New("VM is busy; cannot duplicate while running")
		}
		return nil, err
	}
	defer v.release()

	core := v.core.Duplicate()
	if core == nil {
		return nil, errors.New("VM duplicate failed")
	}
	return &VM{
		core: core,
		cfg:  v.cfg,
		opts: v.opts,
		diag: v.diag,
	}, nil
}

// SetTraceHook attaches a debug hook that observes instruction dispatch. The
// hook cannot be swapped while a program is running.
func (v *VM) SetTraceHook(h TraceHook) error {
	if err := v.acquire(); err != nil {
		return err
	}
	defer v.release()

	if h == nil {
		v.core.SetTraceHook(nil)
		return nil
	}
	v.core.SetTraceHook(func(info vm.TraceInfo) {
		h(TraceInfo{
			Op:         bytecode.OpName(info.Op),
			Line:       info.Line,
			IP:         info.IP,
			StackDepth: info.StackDepth,
		})
	})
	return nil
}

// ID returns the instance id used in log output.
func (v *VM) ID() string {
	if v == nil || v.core == nil {
		return ""
	}
	return v.core.ID()
}

// Close releases every object the VM allocated and reports how many there
// were. A closed VM rejects further work.
func (v *VM) Close() (int, error) {
	if err := v.acquire(); err != nil {
		return 0, err
	}
	freed := v.core.Free()
	v.mu.Lock()
	v.busy = false
	v.closed = true
	v.mu.Unlock()
	return freed, nil
}

func toGo(val value.Value) any {
	switch val.Kind {
	case value.KindBool:
		return val.B
	case value.KindNumber:
		return val.Num
	case value.KindObject:
		if s := val.AsString(); s != nil {
			return s.Chars
		}
		return val.String()
	default:
		return nil
	}
}

func (v *VM) fromGo(name string, x any) (value.Value, error) {
	switch t := x.(type) {
	case nil:
		return value.Nil(), nil
	case bool:
		return value.Bool(t), nil
	case string:
		return v.core.NewString(t), nil
	case float64:
		return value.Number(t), nil
	case float32:
		return value.Number(float64(t)), nil
	case int:
		return value.Number(float64(t)), nil
	case int8:
		return value.Number(float64(t)), nil
	case int16:
		return value.Number(float64(t)), nil
	case int32:
		return value.Number(float64(t)), nil
	case int64:
		return value.Number(float64(t)), nil
	case uint:
		return value.Number(float64(t)), nil
	case uint8:
		return value.Number(float64(t)), nil
	case uint16:
		return value.Number(float64(t)), nil
	case uint32:
		return value.Number(float64(t)), nil
	case uint64:
		return value.Number(float64(t)), nil
	default:
		return value.Nil(), TypeError{Name: name, Got: fmt.Sprintf("%T", x)}
	}
}
