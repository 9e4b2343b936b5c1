package tron

import "testing"

func TestVacuumPreservesValueAndStripsHistory(t *testing.T) {
	doc, err := Encode(map[string]any{"a": int64(1), "b": []any{int64(1), int64(2)}})
	if err != nil {
		t.Fatal(err)
	}
	doc, err = SetPath(doc, Path{Field("a")}, int64(2))
	if err != nil {
		t.Fatal(err)
	}
	before, err := Decode(doc)
	if err != nil {
		t.Fatal(err)
	}

	compacted, err := Vacuum(doc)
	if err != nil {
		t.Fatal(err)
	}
	tr, err := ParseTrailer(compacted)
	if err != nil {
		t.Fatal(err)
	}
	if tr.PrevRootOffset != 0 {
		t.Fatalf("vacuumed prevRootOffset = %d, want 0", tr.PrevRootOffset)
	}
	after, err := Decode(compacted)
	if err != nil {
		t.Fatal(err)
	}
	if !deepEqualAny(before, after) {
		t.Fatalf("vacuum changed logical value: before=%#v after=%#v", before, after)
	}
}

func TestVacuumIdempotent(t *testing.T) {
	doc, err := Encode(map[string]any{"a": []any{int64(1), "two", nil, true}})
	if err != nil {
		t.Fatal(err)
	}
	once, err := Vacuum(doc)
	if err != nil {
		t.Fatal(err)
	}
	twice, err := Vacuum(once)
	if err != nil {
		t.Fatal(err)
	}
	if string(once) != string(twice) {
		t.Fatalf("vacuum not idempotent")
	}
}

func deepEqualAny(a, b any) bool {
	switch av := a.(type) {
	case map[string]any:
		bv, ok := b.(map[string]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			if !deepEqualAny(v, bv[k]) {
				return false
			}
		}
		return true
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !deepEqualAny(av[i], bv[i]) {
				return false
			}
		}
		return true
	case []byte:
		bv, ok := b.([]byte)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if av[i] != bv[i] {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}
