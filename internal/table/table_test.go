package table

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/xirelogy/golox/internal/value"
)

func key(s string) *value.ObjString {
	return value.NewString(s, value.HashString(s))
}

func TestTableSetGet(t *testing.T) {
	tbl := New()
	a := key("a")
	if _, ok := tbl.Get(a); ok {
		t.Fatalf("expected empty table miss")
	}
	if !tbl.Set(a, value.Number(1)) {
		t.Fatalf("expected first set to report new key")
	}
	if tbl.Set(a, value.Number(2)) {
		t.Fatalf("expected overwrite to report existing key")
	}
	v, ok := tbl.Get(a)
	if !ok || v.Num != 2 {
		t.Fatalf("expected 2, got %v (ok=%v)", v, ok)
	}
	if tbl.Count() != 1 || tbl.Len() != 1 {
		t.Fatalf("expected count 1, got count=%d len=%d", tbl.Count(), tbl.Len())
	}
}

func TestTableKeysCompareByIdentity(t *testing.T) {
	tbl := New()
	tbl.Set(key("x"), value.Bool(true))
	if _, ok := tbl.Get(key("x")); ok {
		t.Fatalf("uninterned key with equal content must not match")
	}
}

func TestTableGrowth(t *testing.T) {
	tbl := New()
	keys := make([]*value.ObjString, 0, 100)
	for i := 0; i < 100; i++ {
		k := key(fmt.Sprintf("k%d", i))
		keys = append(keys, k)
		tbl.Set(k, value.Number(float64(i)))
		if float64(tbl.Count()) > float64(tbl.Capacity())*maxLoad {
			t.Fatalf("load factor exceeded at %d: count=%d cap=%d", i, tbl.Count(), tbl.Capacity())
		}
	}
	if tbl.Capacity() < 8 || tbl.Capacity()&(tbl.Capacity()-1) != 0 {
		t.Fatalf("capacity should be a power of two >= 8, got %d", tbl.Capacity())
	}
	for i, k := range keys {
		v, ok := tbl.Get(k)
		if !ok || v.Num != float64(i) {
			t.Fatalf("key %s: expected %d, got %v (ok=%v)", k.Chars, i, v, ok)
		}
	}
}

func TestTableDeleteEveryThird(t *testing.T) {
	for _, seed := range []int64{1, 2, 3, 42} {
		rng := rand.New(rand.NewSource(seed))
		const n = 500
		keys := make([]*value.ObjString, n)
		for i := range keys {
			keys[i] = key(fmt.Sprintf("key-%d-%d", seed, i))
		}
		order := rng.Perm(n)

		tbl := New()
		for _, i := range order {
			tbl.Set(keys[i], value.Number(float64(i)))
		}
		deleted := map[int]bool{}
		for _, i := range rng.Perm(n) {
			if i%3 == 0 {
				if !tbl.Delete(keys[i]) {
					t.Fatalf("seed %d: delete of %d reported missing", seed, i)
				}
				deleted[i] = true
			}
		}
		for i, k := range keys {
			v, ok := tbl.Get(k)
			if deleted[i] {
				if ok {
					t.Fatalf("seed %d: deleted key %d still present", seed, i)
				}
				continue
			}
			if !ok || v.Num != float64(i) {
				t.Fatalf("seed %d: key %d expected %d, got %v (ok=%v)", seed, i, i, v, ok)
			}
		}
		if got, want := tbl.Len(), n-len(deleted); got != want {
			t.Fatalf("seed %d: expected %d live keys, got %d", seed, want, got)
		}
	}
}

func TestTableTombstoneReuseKeepsCount(t *testing.T) {
	tbl := New()
	a, b := key("a"), key("b")
	tbl.Set(a, value.Number(1))
	tbl.Set(b, value.Number(2))
	if !tbl.Delete(a) {
		t.Fatalf("expected delete to succeed")
	}
	if tbl.Delete(a) {
		t.Fatalf("second delete should report missing")
	}
	if tbl.Count() != 2 {
		t.Fatalf("tombstone should stay counted, got count %d", tbl.Count())
	}
	// a re-inserted key lands in the tombstone or an empty slot; only the
	// latter may raise the count
	tbl.Set(a, value.Number(3))
	if tbl.Count() > 3 {
		t.Fatalf("unexpected count %d", tbl.Count())
	}
	if v, ok := tbl.Get(a); !ok || v.Num != 3 {
		t.Fatalf("expected 3, got %v", v)
	}
}

func TestTableTombstoneReusedForCollidingKey(t *testing.T) {
	tbl := New()
	// same hash forces a shared probe sequence
	a := value.NewString("a", 7)
	b := value.NewString("b", 7)
	c := value.NewString("c", 7)
	tbl.Set(a, value.Number(1))
	tbl.Set(b, value.Number(2))
	tbl.Delete(a)
	before := tbl.Count()
	if !tbl.Set(c, value.Number(3)) {
		t.Fatalf("expected new key")
	}
	if tbl.Count() != before {
		t.Fatalf("tombstone reuse must not raise count: before=%d after=%d", before, tbl.Count())
	}
	if v, ok := tbl.Get(b); !ok || v.Num != 2 {
		t.Fatalf("probe past tombstone failed: %v %v", v, ok)
	}
	if v, ok := tbl.Get(c); !ok || v.Num != 3 {
		t.Fatalf("expected c=3, got %v %v", v, ok)
	}
}

func TestTableGrowthDropsTombstones(t *testing.T) {
	tbl := New()
	var keys []*value.ObjString
	for i := 0; i < 6; i++ {
		k := key(fmt.Sprintf("t%d", i))
		keys = append(keys, k)
		tbl.Set(k, value.Nil())
	}
	for _, k := range keys[:5] {
		tbl.Delete(k)
	}
	// count is 6 of 8; next insert triggers a rehash that drops tombstones
	tbl.Set(key("fresh"), value.Number(1))
	if tbl.Capacity() != 16 {
		t.Fatalf("expected capacity 16, got %d", tbl.Capacity())
	}
	if tbl.Count() != 2 {
		t.Fatalf("expected rehash to keep only live keys, got count %d", tbl.Count())
	}
}

func TestTableFindString(t *testing.T) {
	tbl := New()
	if tbl.FindString("x", value.HashString("x")) != nil {
		t.Fatalf("expected miss on empty table")
	}
	x := key("x")
	tbl.Set(x, value.Nil())
	if got := tbl.FindString("x", value.HashString("x")); got != x {
		t.Fatalf("expected interned x, got %v", got)
	}
	if tbl.FindString("y", value.HashString("y")) != nil {
		t.Fatalf("expected miss for y")
	}
	tbl.Delete(x)
	if tbl.FindString("x", value.HashString("x")) != nil {
		t.Fatalf("deleted string must not be found")
	}
}

func TestTableAddAllAndEach(t *testing.T) {
	from := New()
	a, b := key("a"), key("b")
	from.Set(a, value.Number(1))
	from.Set(b, value.Number(2))
	from.Delete(b)

	to := New()
	to.AddAll(from)
	if to.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", to.Len())
	}
	seen := 0
	to.Each(func(k *value.ObjString, v value.Value) bool {
		seen++
		if k != a || v.Num != 1 {
			t.Fatalf("unexpected entry %s=%v", k.Chars, v)
		}
		return true
	})
	if seen != 1 {
		t.Fatalf("expected 1 visit, got %d", seen)
	}
}
