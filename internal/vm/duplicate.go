package vm

import (
	"github.com/xirelogy/golox/internal/value"
)

// Duplicate returns a new VM with copied globals and configuration. The copy
// owns a fresh heap, so every string is re-interned there. Execution state is
// not carried over.
func (vm *VM) Duplicate() *VM {
	if vm == nil {
		return nil
	}
	dup := New(vm.opts)
	vm.globals.Each(func(k *value.ObjString, v value.Value) bool {
		dup.globals.Set(dup.heap.CopyString(k.Chars), dup.cloneValue(v))
		return true
	})
	log.Debugf("vm %s duplicated into %s (%d globals)", vm.id, dup.id, dup.globals.Len())
	return dup
}

func (vm *VM) cloneValue(v value.Value) value.Value {
	if s := v.AsString(); s != nil {
		return value.FromObject(vm.heap.CopyString(s.Chars))
	}
	return v
}
