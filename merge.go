package tron

// docMerger deep-merges a right-hand map tree document into a left-hand one,
// right-biased on key conflicts, reusing left builder storage wherever a
// subtree is untouched. Bundling left/right/builder in a receiver mirrors
// docCloner's state-carrying shape rather than threading three parameters
// through every recursive call.
type docMerger struct {
	left    []byte
	right   []byte
	builder *Builder
}

// MergeMapDocuments merges two map tree documents with right-biased semantics.
func MergeMapDocuments(left, right []byte) ([]byte, error) {
	leftTrailer, err := ParseTrailer(left)
	if err != nil {
		return nil, err
	}
	rightTrailer, err := ParseTrailer(right)
	if err != nil {
		return nil, err
	}
	leftHeader, _, err := NodeSliceAt(left, leftTrailer.RootOffset)
	if err != nil {
		return nil, err
	}
	rightHeader, _, err := NodeSliceAt(right, rightTrailer.RootOffset)
	if err != nil {
		return nil, err
	}
	if leftHeader.KeyType != KeyMap || rightHeader.KeyType != KeyMap {
		return nil, newErr(KindType, "merge expects map roots")
	}

	builder, _, err := NewBuilderFromDocument(left)
	if err != nil {
		return nil, err
	}
	m := docMerger{left: left, right: right, builder: builder}
	root, _, err := m.merge(leftTrailer.RootOffset, rightTrailer.RootOffset, 0)
	if err != nil {
		return nil, err
	}
	return builder.BytesWithTrailer(root, leftTrailer.RootOffset), nil
}

func (m *docMerger) merge(leftOff, rightOff uint32, depth int) (uint32, bool, error) {
	leftHeader, leftNode, err := NodeSliceAt(m.left, leftOff)
	if err != nil {
		return 0, false, err
	}
	rightHeader, rightNode, err := NodeSliceAt(m.right, rightOff)
	if err != nil {
		return 0, false, err
	}
	if leftHeader.KeyType != KeyMap || rightHeader.KeyType != KeyMap {
		return 0, false, newErr(KindType, "merge expects map nodes")
	}

	switch {
	case rightHeader.Kind == NodeLeaf:
		return m.applyRightLeaf(leftOff, rightNode, depth)
	case leftHeader.Kind == NodeLeaf:
		return m.graftLeftLeaf(rightOff, leftNode, depth)
	default:
		return m.mergeBranches(leftOff, leftNode, rightOff, rightNode, depth)
	}
}

// applyRightLeaf folds every entry of a right-hand leaf into the left
// subtree one at a time via ordinary CoW set, so the result always obeys
// normal HAMT shape regardless of how deep the right leaf sits.
func (m *docMerger) applyRightLeaf(leftOff uint32, rightNode []byte, depth int) (uint32, bool, error) {
	rightLeaf, err := ParseMapLeafNode(m.right, rightNode)
	if err != nil {
		return 0, false, err
	}
	defer releaseMapLeafNode(&rightLeaf)

	off := leftOff
	changed := false
	for _, entry := range rightLeaf.Entries {
		leftVal, inLeft, err := mapGet(m.left, leftOff, entry.Key, depth)
		if err != nil {
			return 0, false, err
		}
		var val Value
		if inLeft && leftVal.Type == TypeMap && entry.Value.Type == TypeMap {
			var merged uint32
			merged, _, err = m.merge(leftVal.Offset, entry.Value.Offset, 0)
			val = Value{Type: TypeMap, Offset: merged}
		} else {
			val, err = cloneValueFromDoc(m.right, entry.Value, m.builder)
		}
		if err != nil {
			return 0, false, err
		}
		newOff, didChange, err := mapSet(m.builder.buf, off, entry.Key, val, depth, m.builder)
		if err != nil {
			return 0, false, err
		}
		changed = changed || didChange
		off = newOff
	}
	return off, changed, nil
}

// graftLeftLeaf is the mirror case: the left side bottomed out into a leaf
// while the right side still has a branch beneath it. The right subtree is
// cloned wholesale, then every left entry not already present is set on
// top of it. A key present on both sides keeps the right value, except
// when both values are maps, which are merged recursively.
func (m *docMerger) graftLeftLeaf(rightOff uint32, leftNode []byte, depth int) (uint32, bool, error) {
	off, err := cloneMapNode(m.right, rightOff, m.builder)
	if err != nil {
		return 0, false, err
	}
	leftLeaf, err := ParseMapLeafNode(m.left, leftNode)
	if err != nil {
		return 0, false, err
	}
	defer releaseMapLeafNode(&leftLeaf)

	for _, entry := range leftLeaf.Entries {
		rightVal, exists, err := mapGet(m.right, rightOff, entry.Key, depth)
		if err != nil {
			return 0, false, err
		}
		val := entry.Value
		if exists {
			if rightVal.Type != TypeMap || entry.Value.Type != TypeMap {
				continue
			}
			merged, _, err := m.merge(entry.Value.Offset, rightVal.Offset, 0)
			if err != nil {
				return 0, false, err
			}
			val = Value{Type: TypeMap, Offset: merged}
		}
		newOff, _, err := mapSet(m.builder.buf, off, entry.Key, val, depth, m.builder)
		if err != nil {
			return 0, false, err
		}
		off = newOff
	}
	return off, true, nil
}

func (m *docMerger) mergeBranches(leftOff uint32, leftNode []byte, rightOff uint32, rightNode []byte, depth int) (uint32, bool, error) {
	leftBranch, err := ParseMapBranchNode(leftNode)
	if err != nil {
		return 0, false, err
	}
	defer releaseMapBranchNode(&leftBranch)
	rightBranch, err := ParseMapBranchNode(rightNode)
	if err != nil {
		return 0, false, err
	}
	defer releaseMapBranchNode(&rightBranch)

	union := leftBranch.Bitmap | rightBranch.Bitmap
	children := make([]uint32, 0, popcount16(uint16(union)))
	changed := false
	li, ri := 0, 0

	for slot := 0; slot < 16; slot++ {
		inLeft := (leftBranch.Bitmap>>uint(slot))&1 == 1
		inRight := (rightBranch.Bitmap>>uint(slot))&1 == 1
		if !inLeft && !inRight {
			continue
		}

		var child uint32
		switch {
		case inLeft && inRight:
			merged, childChanged, err := m.merge(leftBranch.Children[li], rightBranch.Children[ri], depth+1)
			if err != nil {
				return 0, false, err
			}
			child = merged
			changed = changed || childChanged
		case inLeft:
			child = leftBranch.Children[li]
		default:
			cloned, err := cloneMapNode(m.right, rightBranch.Children[ri], m.builder)
			if err != nil {
				return 0, false, err
			}
			child = cloned
			changed = true
		}

		children = append(children, child)
		if inLeft {
			li++
		}
		if inRight {
			ri++
		}
	}

	if !changed && union == leftBranch.Bitmap && slicesEqual(children, leftBranch.Children) {
		return leftOff, false, nil
	}
	off, err := appendMapBranchNode(m.builder, MapBranchNode{
		Header:   NodeHeader{Kind: NodeBranch, KeyType: KeyMap},
		Bitmap:   union,
		Children: children,
	})
	return off, true, err
}

func slicesEqual(a, b []uint32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
