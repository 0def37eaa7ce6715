package vm

import (
	"github.com/xirelogy/golox/internal/value"
)

// Global returns the value bound to name, if any.
func (vm *VM) Global(name string) (value.Value, bool) {
	key := vm.heap.Strings().FindString(name, value.HashString(name))
	if key == nil {
		return value.Nil(), false
	}
	return vm.globals.Get(key)
}

// Globals snapshots every global binding.
func (vm *VM) Globals() map[string]value.Value {
	out := make(map[string]value.Value, vm.globals.Len())
	vm.globals.Each(func(k *value.ObjString, v value.Value) bool {
		out[k.Chars] = v
		return true
	})
	return out
}

// DefineGlobal binds a value into the global environment. String values must
// come from NewString on the same VM.
func (vm *VM) DefineGlobal(name string, v value.Value) {
	vm.globals.Set(vm.heap.CopyString(name), v)
}

// NewString interns s in this VM's heap.
func (vm *VM) NewString(s string) value.Value {
	return value.FromObject(vm.heap.CopyString(s))
}

// StackDepth reports how many values are on the stack.
func (vm *VM) StackDepth() int {
	return vm.sp
}

// ObjectCount reports how many heap objects are live.
func (vm *VM) ObjectCount() int {
	return vm.heap.Count()
}
