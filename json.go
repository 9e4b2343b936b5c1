package tron

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/minio/simdjson-go"
)

const b64Prefix = "b64:"

// decodeB64Text recognizes the "b64:"-prefixed text convention used to
// round-trip bin values through JSON; ok is false when s isn't prefixed or
// doesn't decode, in which case the caller should keep it as plain text.
func decodeB64Text(s []byte) (decoded []byte, ok bool) {
	if len(s) < len(b64Prefix) || string(s[:len(b64Prefix)]) != b64Prefix {
		return nil, false
	}
	out, err := base64.StdEncoding.DecodeString(string(s[len(b64Prefix):]))
	if err != nil {
		return nil, false
	}
	return out, true
}

// integralOrFloat returns an i64 Value when f is a whole number representable
// exactly in the int64 range, otherwise an f64 Value.
func integralOrFloat(f float64) Value {
	if f >= math.MinInt64 && f < math.MaxInt64 && math.Trunc(f) == f {
		return Value{Type: TypeI64, I64: int64(f)}
	}
	return Value{Type: TypeF64, F64: f}
}

// FromJSON parses JSON and returns a TRON document. Objects and arrays are
// parsed with simdjson-go; a bare scalar is parsed with encoding/json.
func FromJSON(data []byte) ([]byte, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, newErr(KindShort, "json input is empty")
	}
	if trimmed[0] != '{' && trimmed[0] != '[' {
		val, err := scalarValueFromJSON(trimmed)
		if err != nil {
			return nil, err
		}
		return EncodeScalarDocument(val)
	}

	parsed, err := simdjson.Parse(data, nil)
	if err != nil {
		return nil, err
	}
	it := parsed.Iter()
	if it.Advance() != simdjson.TypeRoot {
		return nil, newErr(KindShort, "json root not found")
	}
	typ, root, err := it.Root(nil)
	if err != nil {
		return nil, err
	}

	builder := NewBuilder()
	workspace := newEncodeWorkspace()
	val, err := valueFromJSONIter(typ, root, builder, workspace)
	if err != nil {
		return nil, err
	}
	if val.Type == TypeArr || val.Type == TypeMap {
		return builder.BytesWithTrailer(val.Offset, 0), nil
	}
	return EncodeScalarDocument(val)
}

func scalarValueFromJSON(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return Value{}, err
	}
	if _, err := dec.Token(); err == nil || err != io.EOF {
		return Value{}, newErr(KindExtra, "invalid character after top-level value")
	}

	switch val := v.(type) {
	case nil:
		return Value{Type: TypeNil}, nil
	case bool:
		return Value{Type: TypeBit, Bool: val}, nil
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return Value{Type: TypeI64, I64: i}, nil
		}
		f, err := val.Float64()
		if err != nil {
			return Value{}, newErr(KindNum, "invalid json number: %s", val)
		}
		return Value{Type: TypeF64, F64: f}, nil
	case float64:
		return integralOrFloat(val), nil
	case string:
		if decoded, ok := decodeB64Text([]byte(val)); ok {
			return Value{Type: TypeBin, Bytes: decoded}, nil
		}
		return Value{Type: TypeTxt, Bytes: []byte(val)}, nil
	default:
		return Value{}, newErr(KindType, "unsupported scalar json type %T", v)
	}
}

func valueFromJSONIter(typ simdjson.Type, it *simdjson.Iter, builder *Builder, workspace *encodeWorkspace) (Value, error) {
	switch typ {
	case simdjson.TypeNull:
		return Value{Type: TypeNil}, nil
	case simdjson.TypeBool:
		v, err := it.Bool()
		return Value{Type: TypeBit, Bool: v}, err
	case simdjson.TypeInt:
		v, err := it.Int()
		return Value{Type: TypeI64, I64: v}, err
	case simdjson.TypeUint:
		v, err := it.Uint()
		if err != nil {
			return Value{}, err
		}
		if v > math.MaxInt64 {
			return Value{Type: TypeF64, F64: float64(v)}, nil
		}
		return Value{Type: TypeI64, I64: int64(v)}, nil
	case simdjson.TypeFloat:
		v, err := it.Float()
		if err != nil {
			return Value{}, err
		}
		return integralOrFloat(v), nil
	case simdjson.TypeString:
		b, err := it.StringBytes()
		if err != nil {
			return Value{}, err
		}
		if decoded, ok := decodeB64Text(b); ok {
			return Value{Type: TypeBin, Bytes: decoded}, nil
		}
		return Value{Type: TypeTxt, Bytes: append([]byte{}, b...)}, nil
	case simdjson.TypeObject:
		return mapValueFromJSONIter(it, builder, workspace)
	case simdjson.TypeArray:
		return arrayValueFromJSONIter(it, builder, workspace)
	default:
		return Value{}, newErr(KindType, "unsupported json type: %v", typ)
	}
}

func mapValueFromJSONIter(it *simdjson.Iter, builder *Builder, workspace *encodeWorkspace) (Value, error) {
	obj, err := it.Object(nil)
	if err != nil {
		return Value{}, err
	}
	mb := newMapBuilderWithWorkspace(workspace)
	var fieldErr error
	err = obj.ForEach(func(key []byte, elem simdjson.Iter) {
		if fieldErr != nil {
			return
		}
		val, err := valueFromJSONIter(elem.Type(), &elem, builder, workspace)
		if err != nil {
			fieldErr = err
			return
		}
		mb.Set(key, val)
	}, nil)
	if err != nil {
		return Value{}, err
	}
	if fieldErr != nil {
		return Value{}, fieldErr
	}
	off, err := mb.Build(builder)
	if err != nil {
		return Value{}, err
	}
	return Value{Type: TypeMap, Offset: off}, nil
}

func arrayValueFromJSONIter(it *simdjson.Iter, builder *Builder, workspace *encodeWorkspace) (Value, error) {
	arr, err := it.Array(nil)
	if err != nil {
		return Value{}, err
	}
	ab := newArrayBuilderWithWorkspace(workspace)
	iter := arr.Iter()
	for {
		t := iter.Advance()
		if t == simdjson.TypeNone {
			break
		}
		elem := iter
		val, err := valueFromJSONIter(t, &elem, builder, workspace)
		if err != nil {
			return Value{}, err
		}
		ab.Append(val)
	}
	off, err := ab.Build(builder)
	if err != nil {
		return Value{}, err
	}
	return Value{Type: TypeArr, Offset: off}, nil
}

// ToJSON encodes a TRON document into a JSON string.
func ToJSON(doc []byte) (string, error) {
	var sb strings.Builder
	if err := WriteJSON(&sb, doc); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// WriteJSON appends JSON for doc to sb.
func WriteJSON(sb *strings.Builder, doc []byte) error {
	docType, err := DetectDocType(doc)
	if err != nil {
		return err
	}
	w := jsonWriter{sb: sb, doc: doc}
	switch docType {
	case DocScalar:
		val, err := DecodeScalarDocument(doc)
		if err != nil {
			return err
		}
		return w.value(val)
	case DocTree:
		tr, err := ParseTrailer(doc)
		if err != nil {
			return err
		}
		header, _, err := NodeSliceAt(doc, tr.RootOffset)
		if err != nil {
			return err
		}
		switch header.KeyType {
		case KeyMap:
			return w.value(Value{Type: TypeMap, Offset: tr.RootOffset})
		case KeyArr:
			return w.value(Value{Type: TypeArr, Offset: tr.RootOffset})
		default:
			return newErr(KindType, "unknown root node type")
		}
	default:
		return newErr(KindType, "unsupported document type")
	}
}

// jsonWriter streams a TRON value tree to a strings.Builder, mirroring
// docWalker/docCloner's receiver-bundles-doc-state shape for tree recursion.
type jsonWriter struct {
	sb  *strings.Builder
	doc []byte
}

func (w jsonWriter) value(v Value) error {
	switch v.Type {
	case TypeNil:
		w.sb.WriteString("null")
	case TypeBit:
		if v.Bool {
			w.sb.WriteString("true")
		} else {
			w.sb.WriteString("false")
		}
	case TypeI64:
		w.sb.WriteString(strconv.FormatInt(v.I64, 10))
	case TypeF64:
		w.sb.WriteString(strconv.FormatFloat(v.F64, 'g', -1, 64))
	case TypeTxt:
		writeJSONStringBytes(w.sb, v.Bytes)
	case TypeBin:
		w.sb.WriteByte('"')
		w.sb.WriteString(b64Prefix)
		w.sb.WriteString(base64.StdEncoding.EncodeToString(v.Bytes))
		w.sb.WriteByte('"')
	case TypeArr:
		return w.array(v.Offset)
	case TypeMap:
		return w.object(v.Offset)
	default:
		return newErr(KindType, "unknown value type %d", v.Type)
	}
	return nil
}

func (w jsonWriter) object(off uint32) error {
	w.sb.WriteByte('{')
	first := true
	if err := w.mapNode(off, &first); err != nil {
		return err
	}
	w.sb.WriteByte('}')
	return nil
}

func (w jsonWriter) mapNode(off uint32, first *bool) error {
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
		defer releaseMapBranchNode(&branch)
		for _, child := range branch.Children {
			if err := w.mapNode(child, first); err != nil {
				return err
			}
		}
		return nil
	}

	leaf, err := ParseMapLeafNode(w.doc, node)
	if err != nil {
		return err
	}
	defer releaseMapLeafNode(&leaf)
	for _, entry := range leaf.Entries {
		if !*first {
			w.sb.WriteByte(',')
		}
		*first = false
		writeJSONStringBytes(w.sb, entry.Key)
		w.sb.WriteByte(':')
		if err := w.value(entry.Value); err != nil {
			return err
		}
	}
	return nil
}

func (w jsonWriter) array(off uint32) error {
	length, err := arrayNodeLength(w.doc, off)
	if err != nil {
		return err
	}
	if length == 0 {
		w.sb.WriteString("[]")
		return nil
	}

	values := make([]Value, length)
	present := make([]bool, length)
	if err := w.collectArray(off, 0, values, present); err != nil {
		return err
	}

	w.sb.WriteByte('[')
	for i := range values {
		if i > 0 {
			w.sb.WriteByte(',')
		}
		if !present[i] {
			w.sb.WriteString("null")
			continue
		}
		if err := w.value(values[i]); err != nil {
			return err
		}
	}
	w.sb.WriteByte(']')
	return nil
}

func arrayNodeLength(doc []byte, off uint32) (uint32, error) {
	h, node, err := NodeSliceAt(doc, off)
	if err != nil {
		return 0, err
	}
	if h.KeyType != KeyArr {
		return 0, newErr(KindType, "node is not an array")
	}
	switch h.Kind {
	case NodeLeaf:
		leaf, err := ParseArrayLeafNode(node)
		if err != nil {
			return 0, err
		}
		defer releaseArrayLeafNode(&leaf)
		return leaf.Length, nil
	case NodeBranch:
		branch, err := ParseArrayBranchNode(node)
		if err != nil {
			return 0, err
		}
		defer releaseArrayBranchNode(&branch)
		return branch.Length, nil
	default:
		return 0, newErr(KindType, "unknown array node kind")
	}
}

func (w jsonWriter) collectArray(off uint32, base uint32, values []Value, present []bool) error {
	h, node, err := NodeSliceAt(w.doc, off)
	if err != nil {
		return err
	}
	if h.KeyType != KeyArr {
		return newErr(KindType, "node is not an array")
	}
	if h.Kind == NodeLeaf {
		leaf, err := ParseArrayLeafNode(node)
		if err != nil {
			return err
		}
		defer releaseArrayLeafNode(&leaf)
		if leaf.Shift != 0 {
			return newErr(KindLen, "array leaf shift must be 0")
		}
		idx := 0
		for slot := 0; slot < 16; slot++ {
			if (leaf.Bitmap>>uint(slot))&1 == 0 {
				continue
			}
			index := base + uint32(slot)
			if index >= uint32(len(values)) {
				return newErr(KindRange, "array index out of range: %d", index)
			}
			val, err := DecodeValueAt(w.doc, leaf.ValueAddrs[idx])
			if err != nil {
				return err
			}
			values[index] = val
			present[index] = true
			idx++
		}
		return nil
	}

	branch, err := ParseArrayBranchNode(node)
	if err != nil {
		return err
	}
	defer releaseArrayBranchNode(&branch)
	idx := 0
	for slot := 0; slot < 16; slot++ {
		if (branch.Bitmap>>uint(slot))&1 == 0 {
			continue
		}
		childBase := base + (uint32(slot) << branch.Shift)
		if err := w.collectArray(branch.Children[idx], childBase, values, present); err != nil {
			return err
		}
		idx++
	}
	return nil
}

func writeJSONStringBytes(sb *strings.Builder, b []byte) {
	sb.WriteByte('"')
	for _, c := range b {
		switch c {
		case '"', '\\':
			sb.WriteByte('\\')
			sb.WriteByte(c)
		case '\b':
			sb.WriteString(`\b`)
		case '\f':
			sb.WriteString(`\f`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			if c < 0x20 {
				sb.WriteString(`\u00`)
				sb.WriteByte(hexDigit(c >> 4))
				sb.WriteByte(hexDigit(c & 0xF))
			} else {
				sb.WriteByte(c)
			}
		}
	}
	sb.WriteByte('"')
}

func hexDigit(n byte) byte {
	if n < 10 {
		return '0' + n
	}
	return 'A' + (n - 10)
}
