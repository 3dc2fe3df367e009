package chains

import (
	"encoding/json"
	"testing"
)

func TestChain(t *testing.T) {
	c := Chain{"a", "b", "c"}
	if got := c.String(); got != "a -> b -> c" {
		t.Errorf("String() = %q", got)
	}
	if got := c.Hops(); got != 2 {
		t.Errorf("Hops() = %d, want 2", got)
	}
	if got := (Chain{}).Hops(); got != 0 {
		t.Errorf("empty Hops() = %d, want 0", got)
	}
}

func TestSet(t *testing.T) {
	var s Set
	if !s.Empty() || s.Length() != 0 {
		t.Fatal("zero Set should be empty")
	}

	src := Chain{"a", "b"}
	if !s.Add(src) {
		t.Error("first Add should report insertion")
	}
	if s.Add(Chain{"a", "b"}) {
		t.Error("duplicate Add should report no insertion")
	}
	if s.Add(nil) {
		t.Error("empty chain should be ignored")
	}
	src[0] = "mutated"
	if !s.Contains(Chain{"a", "b"}) {
		t.Error("Add should store a copy")
	}

	s.Add(Chain{"a", "x", "b"})
	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}
	if s.Length() != 2 {
		t.Errorf("Length() = %d, want 2", s.Length())
	}

	got := s.Chains()
	got[0][0] = "changed"
	if !s.Contains(Chain{"a", "b"}) {
		t.Error("Chains should return copies")
	}
}

func TestSetNil(t *testing.T) {
	var s *Set
	if s.Len() != 0 || s.Contains(Chain{"a"}) || s.Length() != 0 || s.Chains() != nil {
		t.Error("nil Set should behave as empty")
	}
}

func TestSetJSON(t *testing.T) {
	s := NewSet(Chain{"b", "c"}, Chain{"a", "c"})
	data, err := json.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}
	if want := `[["a","c"],["b","c"]]`; string(data) != want {
		t.Errorf("Marshal = %s, want %s", data, want)
	}

	var empty Set
	data, _ = json.Marshal(&empty)
	if string(data) != "[]" {
		t.Errorf("empty Marshal = %s, want []", data)
	}

	var back Set
	if err := json.Unmarshal([]byte(`[["x","y"],["x","y"],[]]`), &back); err != nil {
		t.Fatal(err)
	}
	if back.Len() != 1 || !back.Contains(Chain{"x", "y"}) {
		t.Errorf("Unmarshal = %v", back.Chains())
	}
}
