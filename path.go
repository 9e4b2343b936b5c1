package tron

import "strconv"

// PathSegment is one step of a navigation path: either a map key (string)
// or an array index (non-negative int). Exactly one of IsKey/IsIndex holds.
type PathSegment struct {
	Key     string
	Index   uint32
	IsIndex bool
}

// Field builds a map-key path segment.
func Field(key string) PathSegment {
	return PathSegment{Key: key}
}

// Elem builds an array-index path segment.
func Elem(index uint32) PathSegment {
	return PathSegment{Index: index, IsIndex: true}
}

func (s PathSegment) String() string {
	if s.IsIndex {
		return "[" + strconv.FormatUint(uint64(s.Index), 10) + "]"
	}
	return s.Key
}

// Path is a sequence of path segments resolved left to right.
type Path []PathSegment
