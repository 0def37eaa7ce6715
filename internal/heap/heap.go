// Package heap owns every object allocated by a program context. Objects are
// threaded onto an intrusive list at creation and released together by Free.
package heap

import (
	"github.com/xirelogy/golox/internal/table"
	"github.com/xirelogy/golox/internal/value"
)

// Heap is the object registry and string intern set of one VM.
type Heap struct {
	objects value.Object
	count   int
	strings *table.Table
}

func New() *Heap {
	return &Heap{strings: table.New()}
}

// CopyString returns the interned string with the given contents, allocating
// it on first use.
func (h *Heap) CopyString(chars string) *value.ObjString {
	hash := value.HashString(chars)
	if interned := h.strings.FindString(chars, hash); interned != nil {
		return interned
	}
	return h.allocateString(chars, hash)
}

// Concat returns the interned concatenation of a and b.
func (h *Heap) Concat(a, b *value.ObjString) *value.ObjString {
	return h.CopyString(a.Chars + b.Chars)
}

func (h *Heap) allocateString(chars string, hash uint32) *value.ObjString {
	s := value.NewString(chars, hash)
	h.track(s)
	h.strings.Set(s, value.Nil())
	return s
}

func (h *Heap) track(o value.Object) {
	value.LinkObject(o, h.objects)
	h.objects = o
	h.count++
}

// Count returns the number of live objects.
func (h *Heap) Count() int { return h.count }

// Strings exposes the intern set.
func (h *Heap) Strings() *table.Table { return h.strings }

// Each visits objects from newest to oldest.
func (h *Heap) Each(fn func(o value.Object) bool) {
	for o := h.objects; o != nil; o = value.NextObject(o) {
		if !fn(o) {
			return
		}
	}
}

// Free releases every object and the intern set, returning how many objects
// were released. The heap is empty and reusable afterwards.
func (h *Heap) Free() int {
	freed := 0
	o := h.objects
	for o != nil {
		next := value.NextObject(o)
		value.LinkObject(o, nil)
		o = next
		freed++
	}
	h.objects = nil
	h.count = 0
	h.strings = table.New()
	return freed
}
