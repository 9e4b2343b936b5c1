package tron

import "testing"

func TestCanonicalEqualsEncodeDecode(t *testing.T) {
	doc, err := Encode(map[string]any{"b": int64(2), "a": []any{int64(1), nil, "x"}})
	if err != nil {
		t.Fatal(err)
	}
	canon, err := Canonical(doc)
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := Decode(doc)
	if err != nil {
		t.Fatal(err)
	}
	reencoded, err := Encode(decoded)
	if err != nil {
		t.Fatal(err)
	}
	if string(canon) != string(reencoded) {
		t.Fatalf("Canonical(doc) != Encode(Decode(doc))")
	}
}

func TestCanonicalIdempotent(t *testing.T) {
	doc, err := Encode(map[string]any{"a": int64(1)})
	if err != nil {
		t.Fatal(err)
	}
	once, err := Canonical(doc)
	if err != nil {
		t.Fatal(err)
	}
	twice, err := Canonical(once)
	if err != nil {
		t.Fatal(err)
	}
	if string(once) != string(twice) {
		t.Fatalf("Canonical not idempotent")
	}
}
