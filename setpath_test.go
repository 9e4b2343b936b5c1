package tron

import "testing"

func TestSetPathCreatesNestedMaps(t *testing.T) {
	doc, err := Encode(map[string]any{})
	if err != nil {
		t.Fatal(err)
	}
	doc, err = SetPath(doc, Path{Field("a"), Field("b")}, int64(7))
	if err != nil {
		t.Fatal(err)
	}
	got, err := Decode(doc)
	if err != nil {
		t.Fatal(err)
	}
	m, ok := got.(map[string]any)
	if !ok {
		t.Fatalf("root is not a map: %#v", got)
	}
	inner, ok := m["a"].(map[string]any)
	if !ok {
		t.Fatalf("m[\"a\"] is not a map: %#v", m["a"])
	}
	if inner["b"] != int64(7) {
		t.Fatalf("m[\"a\"][\"b\"] = %#v, want 7", inner["b"])
	}
}

func TestSetPathPreservesSiblings(t *testing.T) {
	doc, err := Encode(map[string]any{
		"x": map[string]any{"keep": int64(1)},
		"y": int64(2),
	})
	if err != nil {
		t.Fatal(err)
	}
	doc, err = SetPath(doc, Path{Field("x"), Field("new")}, int64(99))
	if err != nil {
		t.Fatal(err)
	}
	got, err := Decode(doc)
	if err != nil {
		t.Fatal(err)
	}
	m := got.(map[string]any)
	if m["y"] != int64(2) {
		t.Fatalf("sibling y changed: %#v", m["y"])
	}
	x := m["x"].(map[string]any)
	if x["keep"] != int64(1) {
		t.Fatalf("x.keep changed: %#v", x["keep"])
	}
	if x["new"] != int64(99) {
		t.Fatalf("x.new = %#v, want 99", x["new"])
	}
}

func TestSetPathTrailerHistory(t *testing.T) {
	doc, err := Encode(map[string]any{"a": int64(1)})
	if err != nil {
		t.Fatal(err)
	}
	trOld, err := ParseTrailer(doc)
	if err != nil {
		t.Fatal(err)
	}
	newDoc, err := SetPath(doc, Path{Field("a")}, int64(2))
	if err != nil {
		t.Fatal(err)
	}
	trNew, err := ParseTrailer(newDoc)
	if err != nil {
		t.Fatal(err)
	}
	if trNew.PrevRootOffset != trOld.RootOffset {
		t.Fatalf("prevRootOffset = %d, want %d", trNew.PrevRootOffset, trOld.RootOffset)
	}
}

func TestSetPathArrayAppend(t *testing.T) {
	doc, err := Encode([]any{int64(1), int64(2)})
	if err != nil {
		t.Fatal(err)
	}
	doc, err = SetPath(doc, Path{Elem(2)}, int64(3))
	if err != nil {
		t.Fatal(err)
	}
	got, err := Decode(doc)
	if err != nil {
		t.Fatal(err)
	}
	arr := got.([]any)
	if len(arr) != 3 || arr[2] != int64(3) {
		t.Fatalf("array after append = %#v", arr)
	}
}

func TestSetPathThroughScalarFails(t *testing.T) {
	doc, err := Encode(map[string]any{"a": int64(1)})
	if err != nil {
		t.Fatal(err)
	}
	_, err = SetPath(doc, Path{Field("a"), Field("b")}, int64(1))
	if err == nil {
		t.Fatal("expected error setting through a scalar")
	}
	if kind, ok := ErrorKind(err); !ok || kind != KindPath {
		t.Fatalf("error kind = %v, want path", kind)
	}
}
