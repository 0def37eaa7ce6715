package table

import (
	"github.com/xirelogy/golox/internal/value"
)

const maxLoad = 0.75

// Entry is one slot of the table. A slot with a nil key is empty when its
// value is nil and a tombstone when its value is true.
type Entry struct {
	Key   *value.ObjString
	Value value.Value
}

// Table is an open-addressing hash map keyed by interned strings. Keys are
// compared by identity, so callers must intern them first.
type Table struct {
	count   int // live entries plus tombstones
	entries []Entry
}

// New returns an empty table.
func New() *Table {
	return &Table{}
}

// Count returns the number of occupied slots, tombstones included.
func (t *Table) Count() int { return t.count }

// Capacity returns the number of slots.
func (t *Table) Capacity() int { return len(t.entries) }

// Len returns the number of live keys.
func (t *Table) Len() int {
	n := 0
	for i := range t.entries {
		if t.entries[i].Key != nil {
			n++
		}
	}
	return n
}

// Get returns the value stored under key.
func (t *Table) Get(key *value.ObjString) (value.Value, bool) {
	if t.count == 0 {
		return value.Nil(), false
	}
	e := findEntry(t.entries, key)
	if e.Key == nil {
		return value.Nil(), false
	}
	return e.Value, true
}

// Set stores v under key and reports whether key was newly added.
func (t *Table) Set(key *value.ObjString, v value.Value) bool {
	if float64(t.count+1) > float64(len(t.entries))*maxLoad {
		t.adjustCapacity(growCapacity(len(t.entries)))
	}
	e := findEntry(t.entries, key)
	isNew := e.Key == nil
	// reusing a tombstone keeps count unchanged; it was counted already
	if isNew && e.Value.IsNil() {
		t.count++
	}
	e.Key = key
	e.Value = v
	return isNew
}

// Delete removes key, leaving a tombstone so probe sequences stay intact.
func (t *Table) Delete(key *value.ObjString) bool {
	if t.count == 0 {
		return false
	}
	e := findEntry(t.entries, key)
	if e.Key == nil {
		return false
	}
	e.Key = nil
	e.Value = value.Bool(true)
	return true
}

// AddAll copies every live entry of from into t.
func (t *Table) AddAll(from *Table) {
	for i := range from.entries {
		e := &from.entries[i]
		if e.Key != nil {
			t.Set(e.Key, e.Value)
		}
	}
}

// Each calls fn for every live entry in slot order until fn returns false.
func (t *Table) Each(fn func(key *value.ObjString, v value.Value) bool) {
	for i := range t.entries {
		e := &t.entries[i]
		if e.Key == nil {
			continue
		}
		if !fn(e.Key, e.Value) {
			return
		}
	}
}

// FindString looks a key up by content rather than identity. It is the
// interning path: a nil result means no string with these bytes exists yet.
func (t *Table) FindString(chars string, hash uint32) *value.ObjString {
	if t.count == 0 {
		return nil
	}
	capacity := uint32(len(t.entries))
	index := hash % capacity
	for {
		e := &t.entries[index]
		if e.Key == nil {
			if e.Value.IsNil() {
				return nil
			}
		} else if len(e.Key.Chars) == len(chars) && e.Key.Hash == hash && e.Key.Chars == chars {
			return e.Key
		}
		index = (index + 1) % capacity
	}
}

func (t *Table) adjustCapacity(capacity int) {
	entries := make([]Entry, capacity)
	for i := range entries {
		entries[i].Value = value.Nil()
	}

	t.count = 0
	for i := range t.entries {
		e := &t.entries[i]
		if e.Key == nil {
			continue
		}
		dest := findEntry(entries, e.Key)
		dest.Key = e.Key
		dest.Value = e.Value
		t.count++
	}
	t.entries = entries
}

func findEntry(entries []Entry, key *value.ObjString) *Entry {
	capacity := uint32(len(entries))
	index := key.Hash % capacity
	var tombstone *Entry
	for {
		e := &entries[index]
		if e.Key == nil {
			if e.Value.IsNil() {
				if tombstone != nil {
					return tombstone
				}
				return e
			}
			if tombstone == nil {
				tombstone = e
			}
		} else if e.Key == key {
			return e
		}
		index = (index + 1) % capacity
	}
}

func growCapacity(capacity int) int {
	if capacity < 8 {
		return 8
	}
	return capacity * 2
}
