package tron

import "encoding/binary"

// DocType indicates the top-level document kind, determined by reading
// the tag at the root offset rather than a distinct trailer marker.
type DocType uint8

const (
	DocUnknown DocType = iota
	DocScalar
	DocTree
)

func (t DocType) String() string {
	switch t {
	case DocScalar:
		return "scalar"
	case DocTree:
		return "tree"
	default:
		return "unknown"
	}
}

// DetectDocType parses the trailer and root tag to classify a document.
func DetectDocType(b []byte) (DocType, error) {
	tr, err := ParseTrailer(b)
	if err != nil {
		return DocUnknown, err
	}
	if int(tr.RootOffset) >= len(b) {
		return DocUnknown, newErr(KindOff, "root offset out of range: %d", tr.RootOffset)
	}
	switch TypeFromTag(b[tr.RootOffset]) {
	case TypeArr, TypeMap:
		return DocTree, nil
	default:
		return DocScalar, nil
	}
}

// DecodeScalarDocument decodes a scalar-rooted document into a value.
func DecodeScalarDocument(b []byte) (Value, error) {
	tr, err := ParseTrailer(b)
	if err != nil {
		return Value{}, err
	}
	if int(tr.RootOffset) >= len(b) {
		return Value{}, newErr(KindOff, "root offset out of range: %d", tr.RootOffset)
	}
	payload := b[tr.RootOffset : len(b)-TrailerSize]
	val, n, err := DecodeValue(payload)
	if err != nil {
		return Value{}, err
	}
	if n != len(payload) {
		return Value{}, newErr(KindExtra, "extra bytes after scalar value")
	}
	return val, nil
}

// EncodeScalarDocument encodes a scalar value into a complete document.
func EncodeScalarDocument(v Value) ([]byte, error) {
	enc, err := EncodeValue(v)
	if err != nil {
		return nil, err
	}
	out := append([]byte{}, HeaderMagic[:]...)
	out = append(out, enc...)
	out = AppendTrailer(out, Trailer{RootOffset: uint32(len(HeaderMagic)), PrevRootOffset: 0})
	return out, nil
}

// ParseRootHeader returns the trailer and root node header for a tree document.
func ParseRootHeader(b []byte) (Trailer, NodeHeader, error) {
	tr, err := ParseTrailer(b)
	if err != nil {
		return Trailer{}, NodeHeader{}, err
	}
	h, _, err := NodeSliceAt(b, tr.RootOffset)
	return tr, h, err
}

// Builder helps assemble a document by appending nodes and value records.
// The buffer always begins with HeaderMagic.
type Builder struct {
	buf []byte
}

// NewBuilder creates an empty builder seeded with the header magic.
func NewBuilder() *Builder {
	buf := make([]byte, 0, 1024)
	buf = append(buf, HeaderMagic[:]...)
	return &Builder{buf: buf}
}

// NewBuilderWithCapacity creates an empty builder with a given capacity.
func NewBuilderWithCapacity(capacity int) *Builder {
	if capacity <= len(HeaderMagic) {
		return NewBuilder()
	}
	buf := make([]byte, 0, capacity)
	buf = append(buf, HeaderMagic[:]...)
	return &Builder{buf: buf}
}

// NewBuilderFromDocument copies a document's node storage (without its
// trailer) into a builder, preserving every existing offset so CoW
// updates can reuse untouched subtrees verbatim.
func NewBuilderFromDocument(doc []byte) (*Builder, Trailer, error) {
	tr, err := ParseTrailer(doc)
	if err != nil {
		return nil, Trailer{}, err
	}
	buf := append([]byte{}, doc[:len(doc)-TrailerSize]...)
	return &Builder{buf: buf}, tr, nil
}

// AppendNode appends raw node/value bytes and returns their offset.
func (b *Builder) AppendNode(node []byte) uint32 {
	off := uint32(len(b.buf))
	b.buf = append(b.buf, node...)
	return off
}

// Buffer returns the current builder buffer (without trailer).
func (b *Builder) Buffer() []byte {
	return b.buf
}

// Reset clears the builder buffer, re-seeding the header magic.
func (b *Builder) Reset() {
	b.buf = b.buf[:0]
	b.buf = append(b.buf, HeaderMagic[:]...)
}

// BytesWithTrailer returns the document with a trailer appended.
func (b *Builder) BytesWithTrailer(rootOffset, prevRootOffset uint32) []byte {
	out := append([]byte{}, b.buf...)
	return AppendTrailer(out, Trailer{RootOffset: rootOffset, PrevRootOffset: prevRootOffset})
}

// BytesWithTrailerInPlace appends a trailer to the builder buffer itself
// and returns it, avoiding the extra copy BytesWithTrailer makes.
func (b *Builder) BytesWithTrailerInPlace(rootOffset, prevRootOffset uint32) []byte {
	start := len(b.buf)
	if cap(b.buf) < start+TrailerSize {
		b.buf = append(b.buf, make([]byte, TrailerSize)...)
	} else {
		b.buf = b.buf[:start+TrailerSize]
	}
	binary.LittleEndian.PutUint32(b.buf[start:start+4], rootOffset)
	binary.LittleEndian.PutUint32(b.buf[start+4:start+8], prevRootOffset)
	return b.buf
}
