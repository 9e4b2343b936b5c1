package tron

import (
	"math"
	"strconv"
	"strings"
)

func boolAs(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func float64FitsInt64(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0) && f >= math.MinInt64 && f <= math.MaxInt64
}

// AsInt64 returns the value as int64 when it can be reasonably converted.
// Numeric and text values are converted using best-effort parsing.
func (v Value) AsInt64() (int64, bool) {
	switch v.Type {
	case TypeI64:
		return v.I64, true
	case TypeF64:
		if !float64FitsInt64(v.F64) {
			return 0, false
		}
		return int64(v.F64), true
	case TypeTxt:
		return parseInt64(string(v.Bytes))
	case TypeBit:
		return boolAs(v.Bool), true
	default:
		return 0, false
	}
}

// AsFloat64 returns the value as float64 when it can be reasonably converted.
// Numeric and text values are converted using best-effort parsing.
func (v Value) AsFloat64() (float64, bool) {
	switch v.Type {
	case TypeF64:
		return v.F64, true
	case TypeI64:
		return float64(v.I64), true
	case TypeTxt:
		return parseFloat64(string(v.Bytes))
	case TypeBit:
		return float64(boolAs(v.Bool)), true
	default:
		return 0, false
	}
}

// AsString returns the value as string when it can be reasonably converted.
// Numeric and boolean values are formatted as their scalar representations.
func (v Value) AsString() (string, bool) {
	switch v.Type {
	case TypeTxt, TypeBin:
		return string(v.Bytes), true
	case TypeI64:
		return strconv.FormatInt(v.I64, 10), true
	case TypeF64:
		return strconv.FormatFloat(v.F64, 'g', -1, 64), true
	case TypeBit:
		return strconv.FormatInt(boolAs(v.Bool), 10), true
	default:
		return "", false
	}
}

// AsBytes returns the value as bytes when it can be reasonably converted.
// Text and binary values are returned directly; other scalars are formatted.
func (v Value) AsBytes() ([]byte, bool) {
	if v.Type == TypeBin || v.Type == TypeTxt {
		return v.Bytes, true
	}
	str, ok := v.AsString()
	if !ok {
		return nil, false
	}
	return []byte(str), true
}

// AsArray converts a TypeArr value into a []any using the provided document.
func (v Value) AsArray(doc []byte) ([]any, error) {
	if v.Type != TypeArr {
		return nil, newErr(KindType, "value is not array")
	}
	return valueArrayToAny(doc, v.Offset)
}

// AsObject converts a TypeMap value into a map[string]any using the provided document.
func (v Value) AsObject(doc []byte) (map[string]any, error) {
	if v.Type != TypeMap {
		return nil, newErr(KindType, "value is not map")
	}
	return valueMapToAny(doc, v.Offset)
}

func valueToAny(doc []byte, v Value) (any, error) {
	switch v.Type {
	case TypeNil:
		return nil, nil
	case TypeBit:
		return v.Bool, nil
	case TypeI64:
		return v.I64, nil
	case TypeF64:
		return v.F64, nil
	case TypeTxt:
		return string(v.Bytes), nil
	case TypeBin:
		return v.Bytes, nil
	case TypeArr:
		return valueArrayToAny(doc, v.Offset)
	case TypeMap:
		return valueMapToAny(doc, v.Offset)
	default:
		return nil, newErr(KindType, "unknown value type %d", v.Type)
	}
}

func parseInt64(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || !float64FitsInt64(f) {
		return 0, false
	}
	return int64(f), true
}

func parseFloat64(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// docWalker decodes nested map/array nodes into plain Go values (the
// decode-to-`any` counterpart of docCloner's decode-to-node-offset walk).
type docWalker struct {
	doc []byte
}

func (w docWalker) mapToAny(off uint32) (map[string]any, error) {
	out := make(map[string]any)
	if err := w.fillMap(off, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (w docWalker) fillMap(off uint32, out map[string]any) error {
	h, node, err := NodeSliceAt(w.doc, off)
	if err != nil {
		return err
	}
	if h.KeyType != KeyMap {
		return newErr(KindType, "node is not a map")
	}
	if h.Kind != NodeLeaf {
		branch, err := ParseMapBranchNode(node)
		if err != nil {
			return err
		}
		defer ReleaseMapBranchNode(&branch)
		for _, child := range branch.Children {
			if err := w.fillMap(child, out); err != nil {
				return err
			}
		}
		return nil
	}

	leaf, err := ParseMapLeafNode(w.doc, node)
	if err != nil {
		return err
	}
	defer ReleaseMapLeafNode(&leaf)
	for _, entry := range leaf.Entries {
		val, err := valueToAny(w.doc, entry.Value)
		if err != nil {
			return err
		}
		out[string(entry.Key)] = val
	}
	return nil
}

func (w docWalker) arrayToAny(off uint32) ([]any, error) {
	length, err := ArrayRootLength(w.doc, off)
	if err != nil {
		return nil, err
	}
	out := make([]any, length)
	for i := range out {
		val, ok, err := ArrGet(w.doc, off, uint32(i))
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, newErr(KindOff, "array index missing: %d", i)
		}
		conv, err := valueToAny(w.doc, val)
		if err != nil {
			return nil, err
		}
		out[i] = conv
	}
	return out, nil
}

func valueMapToAny(doc []byte, off uint32) (map[string]any, error) {
	return docWalker{doc: doc}.mapToAny(off)
}

func valueArrayToAny(doc []byte, off uint32) ([]any, error) {
	return docWalker{doc: doc}.arrayToAny(off)
}
