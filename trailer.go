package tron

import (
	"bytes"
	"encoding/binary"
)

// HeaderMagic opens every TRON document.
var HeaderMagic = [4]byte{'T', 'R', 'O', 'N'}

// TrailerSize is the fixed byte width of the footer at the end of a
// document: two little-endian uint32 offsets, no length prefix needed
// since the position is always relative to the end of the buffer.
const TrailerSize = 8

// Trailer is the root pointer pair stored at the tail of a document.
type Trailer struct {
	RootOffset     uint32
	PrevRootOffset uint32
}

func hasHeaderMagic(b []byte) bool {
	return len(b) >= len(HeaderMagic) && bytes.Equal(b[:len(HeaderMagic)], HeaderMagic[:])
}

// ParseTrailer validates the leading magic and reads the trailing 8 bytes.
func ParseTrailer(b []byte) (Trailer, error) {
	minLen := len(HeaderMagic) + TrailerSize
	if len(b) < minLen {
		return Trailer{}, newErr(KindShort, "document too short: %d bytes", len(b))
	}
	if !hasHeaderMagic(b) {
		return Trailer{}, newErr(KindMagic, "missing TRON header magic")
	}
	footer := b[len(b)-TrailerSize:]
	return Trailer{
		RootOffset:     binary.LittleEndian.Uint32(footer[0:4]),
		PrevRootOffset: binary.LittleEndian.Uint32(footer[4:8]),
	}, nil
}

// bytes encodes the trailer to its fixed 8-byte wire representation.
func (t Trailer) bytes() [TrailerSize]byte {
	var buf [TrailerSize]byte
	binary.LittleEndian.PutUint32(buf[0:4], t.RootOffset)
	binary.LittleEndian.PutUint32(buf[4:8], t.PrevRootOffset)
	return buf
}

// AppendTrailer appends t's wire bytes to dst.
func AppendTrailer(dst []byte, t Trailer) []byte {
	footer := t.bytes()
	return append(dst, footer[:]...)
}
