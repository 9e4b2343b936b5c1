package tron

// docCloner copies nodes from a source document into a fresh builder's
// buffer, deep enough to include every nested array/map value. Bundling
// doc+builder in a receiver avoids threading both through every recursive
// call, the same way docMerger carries its own state.
type docCloner struct {
	doc     []byte
	builder *Builder
}

func (c *docCloner) value(v Value) (Value, error) {
	switch v.Type {
	case TypeTxt, TypeBin:
		return Value{Type: v.Type, Bytes: v.Bytes}, nil
	case TypeArr:
		off, err := c.arrayNode(v.Offset)
		if err != nil {
			return Value{}, err
		}
		return Value{Type: TypeArr, Offset: off}, nil
	case TypeMap:
		off, err := c.mapNode(v.Offset)
		if err != nil {
			return Value{}, err
		}
		return Value{Type: TypeMap, Offset: off}, nil
	default:
		return v, nil
	}
}

func (c *docCloner) mapNode(off uint32) (uint32, error) {
	header, node, err := NodeSliceAt(c.doc, off)
	if err != nil {
		return 0, err
	}
	if header.KeyType != KeyMap {
		return 0, newErr(KindType, "clone expects map node")
	}
	if header.Kind != NodeLeaf {
		branch, err := ParseMapBranchNode(node)
		if err != nil {
			return 0, err
		}
		defer releaseMapBranchNode(&branch)
		for i, child := range branch.Children {
			cloned, err := c.mapNode(child)
			if err != nil {
				return 0, err
			}
			branch.Children[i] = cloned
		}
		return appendMapBranchNode(c.builder, branch)
	}

	leaf, err := ParseMapLeafNode(c.doc, node)
	if err != nil {
		return 0, err
	}
	defer releaseMapLeafNode(&leaf)
	for i := range leaf.Entries {
		cloned, err := c.value(leaf.Entries[i].Value)
		if err != nil {
			return 0, err
		}
		leaf.Entries[i].Value = cloned
	}
	return appendMapLeafNodeSorted(c.builder, leaf.Entries)
}

func (c *docCloner) arrayNode(off uint32) (uint32, error) {
	header, node, err := NodeSliceAt(c.doc, off)
	if err != nil {
		return 0, err
	}
	if header.KeyType != KeyArr {
		return 0, newErr(KindType, "clone expects array node")
	}
	if header.Kind != NodeLeaf {
		branch, err := ParseArrayBranchNode(node)
		if err != nil {
			return 0, err
		}
		defer releaseArrayBranchNode(&branch)
		for i, child := range branch.Children {
			cloned, err := c.arrayNode(child)
			if err != nil {
				return 0, err
			}
			branch.Children[i] = cloned
		}
		return appendArrayBranchNode(c.builder, branch)
	}

	leaf, err := ParseArrayLeafNode(node)
	if err != nil {
		return 0, err
	}
	defer releaseArrayLeafNode(&leaf)
	newAddrs := make([]uint32, len(leaf.ValueAddrs))
	for i, addr := range leaf.ValueAddrs {
		val, err := DecodeValueAt(c.doc, addr)
		if err != nil {
			return 0, err
		}
		cloned, err := c.value(val)
		if err != nil {
			return 0, err
		}
		newAddr, err := valueAddress(c.builder, cloned)
		if err != nil {
			return 0, err
		}
		newAddrs[i] = newAddr
	}
	leaf.ValueAddrs = newAddrs
	return appendArrayLeafNode(c.builder, leaf)
}

func cloneValueFromDoc(doc []byte, v Value, builder *Builder) (Value, error) {
	c := docCloner{doc: doc, builder: builder}
	return c.value(v)
}

// CloneValueFromDoc clones a value from a source document into builder storage.
func CloneValueFromDoc(doc []byte, v Value, builder *Builder) (Value, error) {
	return cloneValueFromDoc(doc, v, builder)
}

func cloneMapNode(doc []byte, off uint32, builder *Builder) (uint32, error) {
	c := docCloner{doc: doc, builder: builder}
	return c.mapNode(off)
}

// CloneMapNode clones a map subtree from doc into builder storage.
func CloneMapNode(doc []byte, off uint32, builder *Builder) (uint32, error) {
	return cloneMapNode(doc, off, builder)
}

func cloneArrayNode(doc []byte, off uint32, builder *Builder) (uint32, error) {
	c := docCloner{doc: doc, builder: builder}
	return c.arrayNode(off)
}

// CloneArrayNode clones an array subtree from doc into builder storage.
func CloneArrayNode(doc []byte, off uint32, builder *Builder) (uint32, error) {
	return cloneArrayNode(doc, off, builder)
}
