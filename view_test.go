package tron

import "testing"

func TestViewReadScalarAndMissing(t *testing.T) {
	doc, err := Encode(map[string]any{"a": int64(1), "b": "hi"})
	if err != nil {
		t.Fatal(err)
	}
	view, err := NewView(doc, ViewOptions{})
	if err != nil {
		t.Fatal(err)
	}
	val, ok, err := view.Read(Path{Field("a")})
	if err != nil || !ok || val != int64(1) {
		t.Fatalf("Read(a) = %#v, %v, %v", val, ok, err)
	}
	_, ok, err = view.Read(Path{Field("missing")})
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("Read(missing) reported present")
	}
}

func TestViewSubviewIdentity(t *testing.T) {
	doc, err := Encode(map[string]any{"inner": map[string]any{"x": int64(1)}})
	if err != nil {
		t.Fatal(err)
	}
	view, err := NewView(doc, ViewOptions{})
	if err != nil {
		t.Fatal(err)
	}
	v1, ok, err := view.Read(Path{Field("inner")})
	if err != nil || !ok {
		t.Fatalf("Read(inner): %v %v", ok, err)
	}
	v2, ok, err := view.Read(Path{Field("inner")})
	if err != nil || !ok {
		t.Fatalf("Read(inner) again: %v %v", ok, err)
	}
	if v1.(*View) != v2.(*View) {
		t.Fatal("sub-view identity not preserved across reads")
	}
}

func TestViewWriteBumpsVersionAndStaleSubviewRefetches(t *testing.T) {
	doc, err := Encode(map[string]any{"inner": map[string]any{"x": int64(1)}})
	if err != nil {
		t.Fatal(err)
	}
	view, err := NewView(doc, ViewOptions{})
	if err != nil {
		t.Fatal(err)
	}
	inner, ok, err := view.Read(Path{Field("inner")})
	if err != nil || !ok {
		t.Fatal(err)
	}
	sub := inner.(*View)
	x, ok, err := sub.Read(Path{Field("x")})
	if err != nil || !ok || x != int64(1) {
		t.Fatalf("sub.Read(x) = %#v", x)
	}
	if err := view.Write(Path{Field("inner"), Field("x")}, int64(5)); err != nil {
		t.Fatal(err)
	}
	x, ok, err = sub.Read(Path{Field("x")})
	if err != nil || !ok || x != int64(5) {
		t.Fatalf("sub.Read(x) after write = %#v, want 5", x)
	}
}

func TestViewI64ModeNumberRejectsUnsafeRange(t *testing.T) {
	doc, err := Encode(map[string]any{"big": int64(1) << 60})
	if err != nil {
		t.Fatal(err)
	}
	view, err := NewView(doc, ViewOptions{I64Mode: I64Number})
	if err != nil {
		t.Fatal(err)
	}
	_, _, err = view.Read(Path{Field("big")})
	if err == nil {
		t.Fatal("expected range error under I64Number mode")
	}
	if kind, ok := ErrorKind(err); !ok || kind != KindRange {
		t.Fatalf("error kind = %v, want range", kind)
	}
}

func TestViewI64ModeBigintSurfacesBigInt(t *testing.T) {
	big := int64(1) << 60
	doc, err := Encode(map[string]any{"big": big})
	if err != nil {
		t.Fatal(err)
	}
	view, err := NewView(doc, ViewOptions{I64Mode: I64Bigint})
	if err != nil {
		t.Fatal(err)
	}
	val, ok, err := view.Read(Path{Field("big")})
	if err != nil || !ok {
		t.Fatal(err)
	}
	if _, isBigInt := val.(interface{ BitLen() int }); !isBigInt {
		t.Fatalf("expected *big.Int, got %T", val)
	}
}
