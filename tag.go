package tron

// ValueType is the value kind encoded in the low 3 bits of a tag byte.
type ValueType uint8

const (
	TypeNil ValueType = iota
	TypeBit
	TypeI64
	TypeF64
	TypeTxt
	TypeBin
	TypeArr
	TypeMap
)

func (t ValueType) String() string {
	switch t {
	case TypeNil:
		return "nil"
	case TypeBit:
		return "bit"
	case TypeI64:
		return "i64"
	case TypeF64:
		return "f64"
	case TypeTxt:
		return "txt"
	case TypeBin:
		return "bin"
	case TypeArr:
		return "arr"
	case TypeMap:
		return "map"
	default:
		return "unknown"
	}
}

const (
	TagNil      byte = 0x00 // 00000000
	TagBitFalse byte = 0x01 // 00000001
	TagBitTrue  byte = 0x09 // 00001001 (bit3 set => true)
	TagI64      byte = 0x02 // 00000010
	TagF64      byte = 0x03 // 00000011
)

// TypeFromTag returns the ValueType encoded in the low 3 bits of tag.
func TypeFromTag(tag byte) ValueType {
	return ValueType(tag & 0x07)
}

// IsPacked reports whether a txt/bin tag packs its length inline (bit 3 set)
// rather than deferring to an extended length-of-length encoding.
func IsPacked(tag byte) bool {
	return tag&0x08 != 0
}

// IsContainerLeaf reports whether an arr/map container tag marks a leaf
// node (bit 3 set) as opposed to a branch.
func IsContainerLeaf(tag byte) bool {
	return tag&0x08 != 0
}

// IsArrayNonRoot reports whether an array container tag's bit 6 (isNonRoot)
// is set. Only meaningful for TypeArr tags.
func IsArrayNonRoot(tag byte) bool {
	return tag&0x40 != 0
}

// ContainerLenBytes returns the number of little-endian length bytes that
// follow a container tag, decoded from bits 4-5 (stored as lenBytes-1).
func ContainerLenBytes(tag byte) int {
	return int((tag>>4)&0x3) + 1
}
