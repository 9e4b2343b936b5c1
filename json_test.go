package tron

import (
	"strings"
	"testing"
)

func TestJSONRoundTripBinBase64Bridge(t *testing.T) {
	doc, err := Encode(map[string]any{"payload": []byte{0xDE, 0xAD, 0xBE, 0xEF}})
	if err != nil {
		t.Fatal(err)
	}
	js, err := ToJSON(doc)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(js, `"b64:`) {
		t.Fatalf("expected b64: prefix in json output, got %s", js)
	}
	back, err := FromJSON([]byte(js))
	if err != nil {
		t.Fatal(err)
	}
	got, err := Decode(back)
	if err != nil {
		t.Fatal(err)
	}
	m := got.(map[string]any)
	payload, ok := m["payload"].([]byte)
	if !ok || string(payload) != "\xde\xad\xbe\xef" {
		t.Fatalf("bin roundtrip through json: %#v", m["payload"])
	}
}

func TestJSONRoundTripTextAndNumbers(t *testing.T) {
	src := `{"name":"café","count":3,"price":1.5,"ok":true,"nothing":null,"list":[1,2,3]}`
	doc, err := FromJSON([]byte(src))
	if err != nil {
		t.Fatal(err)
	}
	got, err := Decode(doc)
	if err != nil {
		t.Fatal(err)
	}
	m := got.(map[string]any)
	if m["name"] != "café" {
		t.Fatalf("name = %#v", m["name"])
	}
	if m["count"] != int64(3) {
		t.Fatalf("count = %#v", m["count"])
	}
	if m["price"] != 1.5 {
		t.Fatalf("price = %#v", m["price"])
	}
	if m["ok"] != true {
		t.Fatalf("ok = %#v", m["ok"])
	}
	if m["nothing"] != nil {
		t.Fatalf("nothing = %#v", m["nothing"])
	}
	list := m["list"].([]any)
	if len(list) != 3 || list[0] != int64(1) {
		t.Fatalf("list = %#v", list)
	}
}
