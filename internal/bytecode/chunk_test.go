package bytecode

import (
	"errors"
	"testing"

	"github.com/xirelogy/golox/internal/value"
)

func TestLineRoundTrip(t *testing.T) {
	lines := []int{1, 1, 1, 2, 2, 5, 5, 5, 5, 6, 1, 1}
	c := NewChunk()
	for i, line := range lines {
		c.Write(byte(i), line)
	}
	for offset, want := range lines {
		if got := c.Line(offset); got != want {
			t.Fatalf("offset %d: expected line %d, got %d", offset, want, got)
		}
	}
	if len(c.Lines) != 5 {
		t.Fatalf("expected 5 runs, got %d: %+v", len(c.Lines), c.Lines)
	}
	last := 0
	for _, run := range c.Lines {
		if run.Count <= last {
			t.Fatalf("run counts must strictly increase: %+v", c.Lines)
		}
		last = run.Count
	}
	if last != len(c.Code) {
		t.Fatalf("last run count %d != code length %d", last, len(c.Code))
	}
}

func TestLinePanicsOutsideChunk(t *testing.T) {
	c := NewChunk()
	c.Write(OP_RETURN, 1)
	if _, ok := c.LookupLine(1); ok {
		t.Fatalf("expected lookup past end to fail")
	}
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	c.Line(1)
}

func TestWriteIndexedWidths(t *testing.T) {
	cases := []struct {
		index int
		want  []byte
	}{
		{0, []byte{OP_CONSTANT, 0}},
		{255, []byte{OP_CONSTANT, 255}},
		{256, []byte{OP_CONSTANT_LONG, 0x00, 0x01, 0x00}},
		{0x123456, []byte{OP_CONSTANT_LONG, 0x56, 0x34, 0x12}},
		{MaxLongIndex, []byte{OP_CONSTANT_LONG, 0xFF, 0xFF, 0xFF}},
	}
	for _, tc := range cases {
		c := NewChunk()
		if err := c.WriteIndexed(OP_CONSTANT, OP_CONSTANT_LONG, tc.index, 3); err != nil {
			t.Fatalf("index %d: %v", tc.index, err)
		}
		if string(c.Code) != string(tc.want) {
			t.Fatalf("index %d: expected % x, got % x", tc.index, tc.want, c.Code)
		}
		if len(tc.want) == 4 && ReadLong(c.Code, 1) != tc.index {
			t.Fatalf("index %d: long operand decodes to %d", tc.index, ReadLong(c.Code, 1))
		}
	}

	c := NewChunk()
	err := c.WriteIndexed(OP_CONSTANT, OP_CONSTANT_LONG, MaxLongIndex+1, 1)
	if !errors.Is(err, ErrIndexTooLarge) {
		t.Fatalf("expected ErrIndexTooLarge, got %v", err)
	}
	if len(c.Code) != 0 {
		t.Fatalf("nothing should be written on error")
	}
}

func TestAddConstant(t *testing.T) {
	c := NewChunk()
	if idx := c.AddConstant(value.Number(1)); idx != 0 {
		t.Fatalf("expected 0, got %d", idx)
	}
	if idx := c.AddConstant(value.Number(1)); idx != 1 {
		t.Fatalf("constants are not deduplicated; expected 1, got %d", idx)
	}
}
