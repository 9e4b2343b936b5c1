package tron

// Vacuum compacts doc by rewriting its live root into a fresh buffer in a
// single DFS pass, dropping every node only reachable through prevRootOffset
// history. Nodes reached more than once from the live root (shared subtrees
// from copy-on-write reuse) are copied once and shared again in the output.
// The returned document's prevRootOffset is zero.
func Vacuum(doc []byte) ([]byte, error) {
	tr, err := ParseTrailer(doc)
	if err != nil {
		return nil, err
	}
	builder := NewBuilder()
	memo := make(map[uint32]uint32)

	docType, err := DetectDocType(doc)
	if err != nil {
		return nil, err
	}
	switch docType {
	case DocScalar:
		val, err := DecodeScalarDocument(doc)
		if err != nil {
			return nil, err
		}
		val, err = vacuumValue(doc, val, builder, memo)
		if err != nil {
			return nil, err
		}
		newRoot, err := valueAddress(builder, val)
		if err != nil {
			return nil, err
		}
		return builder.BytesWithTrailer(newRoot, 0), nil
	case DocTree:
		newRoot, err := vacuumNode(doc, tr.RootOffset, builder, memo)
		if err != nil {
			return nil, err
		}
		return builder.BytesWithTrailer(newRoot, 0), nil
	default:
		return nil, newErr(KindType, "unsupported document type")
	}
}

// CountNodes reports the number of distinct container nodes reachable from
// off, counting a node shared by more than one parent once.
func CountNodes(doc []byte, off uint32) (int, error) {
	seen := make(map[uint32]struct{})
	if err := countNode(doc, off, seen); err != nil {
		return 0, err
	}
	return len(seen), nil
}

func countNode(doc []byte, off uint32, seen map[uint32]struct{}) error {
	if _, ok := seen[off]; ok {
		return nil
	}
	seen[off] = struct{}{}
	header, node, err := NodeSliceAt(doc, off)
	if err != nil {
		return err
	}
	switch header.KeyType {
	case KeyMap:
		if header.Kind == NodeLeaf {
			leaf, err := ParseMapLeafNode(doc, node)
			if err != nil {
				return err
			}
			defer releaseMapLeafNode(&leaf)
			for _, entry := range leaf.Entries {
				if entry.Value.Type == TypeArr || entry.Value.Type == TypeMap {
					if err := countNode(doc, entry.Value.Offset, seen); err != nil {
						return err
					}
				}
			}
			return nil
		}
		branch, err := ParseMapBranchNode(node)
		if err != nil {
			return err
		}
		defer releaseMapBranchNode(&branch)
		for _, child := range branch.Children {
			if err := countNode(doc, child, seen); err != nil {
				return err
			}
		}
		return nil
	case KeyArr:
		if header.Kind == NodeLeaf {
			leaf, err := ParseArrayLeafNode(node)
			if err != nil {
				return err
			}
			defer releaseArrayLeafNode(&leaf)
			for _, addr := range leaf.ValueAddrs {
				val, err := DecodeValueAt(doc, addr)
				if err != nil {
					return err
				}
				if val.Type == TypeArr || val.Type == TypeMap {
					if err := countNode(doc, val.Offset, seen); err != nil {
						return err
					}
				}
			}
			return nil
		}
		branch, err := ParseArrayBranchNode(node)
		if err != nil {
			return err
		}
		defer releaseArrayBranchNode(&branch)
		for _, child := range branch.Children {
			if err := countNode(doc, child, seen); err != nil {
				return err
			}
		}
		return nil
	default:
		return newErr(KindType, "unknown node kind while counting")
	}
}

func vacuumValue(doc []byte, v Value, builder *Builder, memo map[uint32]uint32) (Value, error) {
	switch v.Type {
	case TypeArr, TypeMap:
		newOff, err := vacuumNode(doc, v.Offset, builder, memo)
		if err != nil {
			return Value{}, err
		}
		return Value{Type: v.Type, Offset: newOff}, nil
	default:
		return v, nil
	}
}

func vacuumNode(doc []byte, off uint32, builder *Builder, memo map[uint32]uint32) (uint32, error) {
	if newOff, ok := memo[off]; ok {
		return newOff, nil
	}
	header, node, err := NodeSliceAt(doc, off)
	if err != nil {
		return 0, err
	}
	var newOff uint32
	switch header.KeyType {
	case KeyMap:
		newOff, err = vacuumMapNode(doc, header, node, builder, memo)
	case KeyArr:
		newOff, err = vacuumArrayNode(doc, header, node, builder, memo)
	default:
		return 0, newErr(KindType, "unknown node kind during vacuum")
	}
	if err != nil {
		return 0, err
	}
	memo[off] = newOff
	return newOff, nil
}

func vacuumMapNode(doc []byte, header NodeHeader, node []byte, builder *Builder, memo map[uint32]uint32) (uint32, error) {
	if header.Kind == NodeLeaf {
		leaf, err := ParseMapLeafNode(doc, node)
		if err != nil {
			return 0, err
		}
		defer releaseMapLeafNode(&leaf)
		for i := range leaf.Entries {
			val, err := vacuumValue(doc, leaf.Entries[i].Value, builder, memo)
			if err != nil {
				return 0, err
			}
			leaf.Entries[i].Value = val
		}
		return appendMapLeafNodeSorted(builder, leaf.Entries)
	}
	branch, err := ParseMapBranchNode(node)
	if err != nil {
		return 0, err
	}
	defer releaseMapBranchNode(&branch)
	for i, child := range branch.Children {
		newChild, err := vacuumNode(doc, child, builder, memo)
		if err != nil {
			return 0, err
		}
		branch.Children[i] = newChild
	}
	return appendMapBranchNode(builder, branch)
}

func vacuumArrayNode(doc []byte, header NodeHeader, node []byte, builder *Builder, memo map[uint32]uint32) (uint32, error) {
	if header.Kind == NodeLeaf {
		leaf, err := ParseArrayLeafNode(node)
		if err != nil {
			return 0, err
		}
		defer releaseArrayLeafNode(&leaf)
		newAddrs := make([]uint32, len(leaf.ValueAddrs))
		for i, addr := range leaf.ValueAddrs {
			val, err := DecodeValueAt(doc, addr)
			if err != nil {
				return 0, err
			}
			val, err = vacuumValue(doc, val, builder, memo)
			if err != nil {
				return 0, err
			}
			newAddr, err := valueAddress(builder, val)
			if err != nil {
				return 0, err
			}
			newAddrs[i] = newAddr
		}
		leaf.ValueAddrs = newAddrs
		return appendArrayLeafNode(builder, leaf)
	}
	branch, err := ParseArrayBranchNode(node)
	if err != nil {
		return 0, err
	}
	defer releaseArrayBranchNode(&branch)
	for i, child := range branch.Children {
		newChild, err := vacuumNode(doc, child, builder, memo)
		if err != nil {
			return 0, err
		}
		branch.Children[i] = newChild
	}
	return appendArrayBranchNode(builder, branch)
}
