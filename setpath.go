package tron

// SetPath installs value at path within doc's logical document and returns a
// new document. Containers missing along path are created as the type the
// next segment implies. Sibling subtrees are reused verbatim; only nodes on
// the path from root to the updated leaf are freshly appended.
func SetPath(doc []byte, path Path, value any) ([]byte, error) {
	builder, tr, err := NewBuilderFromDocument(doc)
	if err != nil {
		return nil, err
	}
	val, err := encodeAny(builder, value)
	if err != nil {
		return nil, err
	}
	var newRoot uint32
	if len(path) == 0 {
		switch val.Type {
		case TypeArr, TypeMap:
			newRoot = val.Offset
		default:
			newRoot, err = valueAddress(builder, val)
			if err != nil {
				return nil, err
			}
		}
	} else {
		newRoot, err = setPathNode(builder, tr.RootOffset, path, val)
		if err != nil {
			return nil, err
		}
	}
	return builder.BytesWithTrailer(newRoot, tr.RootOffset), nil
}

func containerTypeFromSegment(seg PathSegment) ValueType {
	if seg.IsIndex {
		return TypeArr
	}
	return TypeMap
}

func setPathNode(builder *Builder, off uint32, path []PathSegment, val Value) (uint32, error) {
	seg := path[0]
	if seg.IsIndex {
		return setPathIntoArray(builder, off, seg.Index, path[1:], val)
	}
	return setPathIntoMap(builder, off, seg.Key, path[1:], val)
}

func setPathIntoMap(builder *Builder, off uint32, key string, rest []PathSegment, val Value) (uint32, error) {
	if off == 0 {
		var err error
		off, err = EmptyMapRoot(builder)
		if err != nil {
			return 0, err
		}
	} else {
		h, _, err := NodeSliceAt(builder.buf, off)
		if err != nil {
			return 0, err
		}
		if h.KeyType != KeyMap {
			return 0, newErr(KindPath, "path segment %q targets a non-map container", key)
		}
	}
	if len(rest) == 0 {
		newOff, _, err := MapSetNode(builder, off, []byte(key), val)
		return newOff, err
	}
	childOff, err := existingContainerChildOffset(builder.buf, off, key, 0, false)
	if err != nil {
		return 0, err
	}
	newChildOff, err := setPathNode(builder, childOff, rest, val)
	if err != nil {
		return 0, err
	}
	childVal := Value{Type: containerTypeFromSegment(rest[0]), Offset: newChildOff}
	newOff, _, err := MapSetNode(builder, off, []byte(key), childVal)
	return newOff, err
}

func setPathIntoArray(builder *Builder, off uint32, index uint32, rest []PathSegment, val Value) (uint32, error) {
	var length uint32
	if off == 0 {
		var err error
		off, err = emptyArrayRoot(builder)
		if err != nil {
			return 0, err
		}
	} else {
		h, _, err := NodeSliceAt(builder.buf, off)
		if err != nil {
			return 0, err
		}
		if h.KeyType != KeyArr {
			return 0, newErr(KindPath, "path segment %d targets a non-array container", index)
		}
		length, err = ArrayRootLength(builder.buf, off)
		if err != nil {
			return 0, err
		}
	}
	newLength := length
	if index+1 > newLength {
		newLength = index + 1
	}
	if len(rest) == 0 {
		return ArraySetNode(builder, off, index, val, newLength)
	}
	var childOff uint32
	if index < length {
		var err error
		childOff, err = existingContainerChildOffset(builder.buf, off, "", index, true)
		if err != nil {
			return 0, err
		}
	}
	newChildOff, err := setPathNode(builder, childOff, rest, val)
	if err != nil {
		return 0, err
	}
	childVal := Value{Type: containerTypeFromSegment(rest[0]), Offset: newChildOff}
	return ArraySetNode(builder, off, index, childVal, newLength)
}

// existingContainerChildOffset returns the current child offset at key/index,
// or 0 if absent. It fails with KindPath if the existing value is a scalar.
func existingContainerChildOffset(doc []byte, off uint32, key string, index uint32, isArray bool) (uint32, error) {
	var childVal Value
	var ok bool
	var err error
	if isArray {
		childVal, ok, err = ArrGet(doc, off, index)
	} else {
		childVal, ok, err = MapGet(doc, off, []byte(key))
	}
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}
	if childVal.Type != TypeArr && childVal.Type != TypeMap {
		return 0, newErr(KindPath, "path continues past a scalar value")
	}
	return childVal.Offset, nil
}

func emptyArrayRoot(builder *Builder) (uint32, error) {
	leaf := ArrayLeafNode{Header: NodeHeader{Kind: NodeLeaf, KeyType: KeyArr, IsRoot: true}}
	return appendArrayLeafNode(builder, leaf)
}
