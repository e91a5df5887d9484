package deps

import (
	"encoding/json"
	"slices"
	"testing"
)

func TestSet(t *testing.T) {
	s := NewSet("b", "a", "b")
	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}
	if !s.Has("a") || s.Has("c") {
		t.Error("Has() reports wrong membership")
	}
	if got := s.Sorted(); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("Sorted() = %v", got)
	}

	u := s.Union(NewSet("c"))
	if u.Len() != 3 || s.Len() != 2 {
		t.Error("Union() should return a new set and leave the receiver alone")
	}
}

func TestSetJSON(t *testing.T) {
	data, err := json.Marshal(ResolvedSet{"x": NewSet("2.0.0", "1.0.0"), "a": NewSet()})
	if err != nil {
		t.Fatal(err)
	}
	if want := `{"a":[],"x":["1.0.0","2.0.0"]}`; string(data) != want {
		t.Errorf("Marshal() = %s, want %s", data, want)
	}

	var back ResolvedSet
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if !back["x"].Has("1.0.0") || back["a"] == nil {
		t.Errorf("Unmarshal() = %v", back)
	}
}

func TestDemandSetAdd(t *testing.T) {
	d := DemandSet{}
	d.Add("lodash")
	if _, ok := d["lodash"]; ok {
		t.Error("Add without specifiers should not register the name")
	}

	d.Add("lodash", "^4.0.0", "^4.0.0", "latest")
	d.Add("react", "18.2.0")
	if d.Len() != 3 {
		t.Errorf("Len() = %d, want 3", d.Len())
	}
	if got := d.Names(); !slices.Equal(got, []string{"lodash", "react"}) {
		t.Errorf("Names() = %v", got)
	}

	want := []Pair{{"lodash", "^4.0.0"}, {"lodash", "latest"}, {"react", "18.2.0"}}
	if got := d.Pairs(); !slices.Equal(got, want) {
		t.Errorf("Pairs() = %v, want %v", got, want)
	}
}

func TestResolvedSetAddRegistersName(t *testing.T) {
	r := ResolvedSet{}
	r.Add("left-pad")
	if s, ok := r["left-pad"]; !ok || s.Len() != 0 {
		t.Error("Add without versions should register an empty entry")
	}
	r.Add("left-pad", "1.3.0")
	if r.Len() != 1 {
		t.Errorf("Len() = %d, want 1", r.Len())
	}
}
