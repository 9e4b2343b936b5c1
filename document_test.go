package tron

import "testing"

func TestEncodeScalarDocumentRoundTrip(t *testing.T) {
	cases := []any{
		nil,
		true,
		false,
		int64(42),
		int64(-1),
		3.5,
		"hello",
		[]byte{1, 2, 3},
	}
	for _, c := range cases {
		doc, err := Encode(c)
		if err != nil {
			t.Fatalf("Encode(%v): %v", c, err)
		}
		docType, err := DetectDocType(doc)
		if err != nil {
			t.Fatalf("DetectDocType(%v): %v", c, err)
		}
		if docType != DocScalar {
			t.Fatalf("Encode(%v) produced doc type %v, want scalar", c, docType)
		}
		got, err := Decode(doc)
		if err != nil {
			t.Fatalf("Decode(%v): %v", c, err)
		}
		switch want := c.(type) {
		case []byte:
			gotBytes, ok := got.([]byte)
			if !ok || string(gotBytes) != string(want) {
				t.Fatalf("roundtrip %v: got %#v", c, got)
			}
		default:
			if got != c {
				t.Fatalf("roundtrip %v: got %#v", c, got)
			}
		}
	}
}

func TestEncodeNilDocumentMinimumSize(t *testing.T) {
	doc, err := Encode(nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(doc) != 13 {
		t.Fatalf("nil document size = %d, want 13", len(doc))
	}
}

func TestEncodeTreeDocumentType(t *testing.T) {
	doc, err := Encode(map[string]any{"a": int64(1)})
	if err != nil {
		t.Fatal(err)
	}
	docType, err := DetectDocType(doc)
	if err != nil {
		t.Fatal(err)
	}
	if docType != DocTree {
		t.Fatalf("map document type = %v, want tree", docType)
	}

	doc, err = Encode([]any{int64(1), int64(2)})
	if err != nil {
		t.Fatal(err)
	}
	docType, err = DetectDocType(doc)
	if err != nil {
		t.Fatal(err)
	}
	if docType != DocTree {
		t.Fatalf("array document type = %v, want tree", docType)
	}
}

func TestEncodeEmptyContainers(t *testing.T) {
	doc, err := Encode(map[string]any{})
	if err != nil {
		t.Fatal(err)
	}
	got, err := Decode(doc)
	if err != nil {
		t.Fatal(err)
	}
	m, ok := got.(map[string]any)
	if !ok || len(m) != 0 {
		t.Fatalf("empty map roundtrip: got %#v", got)
	}

	doc, err = Encode([]any{})
	if err != nil {
		t.Fatal(err)
	}
	got, err = Decode(doc)
	if err != nil {
		t.Fatal(err)
	}
	a, ok := got.([]any)
	if !ok || len(a) != 0 {
		t.Fatalf("empty array roundtrip: got %#v", got)
	}
}
