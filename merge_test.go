package tron

import "testing"

func TestMergeMapDocumentsRightWins(t *testing.T) {
	left, err := Encode(map[string]any{"a": int64(1), "b": int64(2)})
	if err != nil {
		t.Fatal(err)
	}
	right, err := Encode(map[string]any{"b": int64(20), "c": int64(3)})
	if err != nil {
		t.Fatal(err)
	}
	merged, err := MergeMapDocuments(left, right)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Decode(merged)
	if err != nil {
		t.Fatal(err)
	}
	m := got.(map[string]any)
	if m["a"] != int64(1) {
		t.Fatalf("a = %#v, want 1", m["a"])
	}
	if m["b"] != int64(20) {
		t.Fatalf("b = %#v, want 20 (right wins)", m["b"])
	}
	if m["c"] != int64(3) {
		t.Fatalf("c = %#v, want 3", m["c"])
	}
}

func TestMergeMapDocumentsNested(t *testing.T) {
	left, err := Encode(map[string]any{"outer": map[string]any{"x": int64(1), "y": int64(2)}})
	if err != nil {
		t.Fatal(err)
	}
	right, err := Encode(map[string]any{"outer": map[string]any{"y": int64(99)}})
	if err != nil {
		t.Fatal(err)
	}
	merged, err := MergeMapDocuments(left, right)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Decode(merged)
	if err != nil {
		t.Fatal(err)
	}
	outer := got.(map[string]any)["outer"].(map[string]any)
	if outer["x"] != int64(1) || outer["y"] != int64(99) {
		t.Fatalf("outer = %#v", outer)
	}
}
