package tron

import (
	"strconv"
	"strings"
)

// ViewOptions configures a View.
type ViewOptions struct {
	I64Mode I64Mode
}

type cachedResolve struct {
	val     Value
	present bool
	version uint64
}

// View is a lazy navigation handle over a document buffer. Every sub-view
// returned by Read shares the root View's buffer, hash cache, and resolved
// path cache; writing through any view bumps the shared version counter so
// stale cache entries are recomputed on next use rather than eagerly wiped.
type View struct {
	root *View
	path Path

	buf     []byte
	rootOff uint32
	version uint64
	opts    ViewOptions

	hashes   map[string]uint32
	resolved map[string]cachedResolve
	subviews map[string]*View
}

// NewView creates a View bound to buf.
func NewView(buf []byte, opts ViewOptions) (*View, error) {
	tr, err := ParseTrailer(buf)
	if err != nil {
		return nil, err
	}
	return &View{
		buf:      buf,
		rootOff:  tr.RootOffset,
		opts:     opts,
		hashes:   make(map[string]uint32),
		resolved: make(map[string]cachedResolve),
		subviews: make(map[string]*View),
	}, nil
}

func (v *View) rootView() *View {
	if v.root == nil {
		return v
	}
	return v.root
}

func (v *View) fullPath(path Path) Path {
	full := make(Path, 0, len(v.path)+len(path))
	full = append(full, v.path...)
	full = append(full, path...)
	return full
}

// Read resolves path relative to v and returns its value. Scalars are
// returned as native Go values; arr/map values are returned as a memoized
// sub-view bound to the same buffer. The bool result reports presence.
func (v *View) Read(path Path) (any, bool, error) {
	root := v.rootView()
	full := v.fullPath(path)
	val, ok, err := root.resolve(full)
	if err != nil || !ok {
		return nil, ok, err
	}
	switch val.Type {
	case TypeArr, TypeMap:
		return root.subviewFor(full), true, nil
	case TypeI64:
		native, err := surfaceI64(root.opts.I64Mode, val.I64)
		return native, true, err
	default:
		native, err := valueToAny(root.buf, val)
		return native, true, err
	}
}

// Write installs value at path (relative to v) and updates the shared
// buffer. It bumps the version counter so every view over this document
// resolves fresh offsets on next Read.
func (v *View) Write(path Path, value any) error {
	root := v.rootView()
	full := v.fullPath(path)
	newBuf, err := SetPath(root.buf, full, value)
	if err != nil {
		return err
	}
	tr, err := ParseTrailer(newBuf)
	if err != nil {
		return err
	}
	root.buf = newBuf
	root.rootOff = tr.RootOffset
	root.version++
	return nil
}

// Bytes returns the current document buffer backing this view.
func (v *View) Bytes() []byte {
	return v.rootView().buf
}

func (root *View) resolve(path Path) (Value, bool, error) {
	key := pathCacheKey(path)
	if entry, ok := root.resolved[key]; ok && entry.version == root.version {
		return entry.val, entry.present, nil
	}
	cur, err := root.currentRootValue()
	if err != nil {
		return Value{}, false, err
	}
	present := true
	for _, seg := range path {
		if seg.IsIndex {
			if cur.Type != TypeArr {
				return Value{}, false, newErr(KindPath, "path segment %d expects an array", seg.Index)
			}
			val, ok, err := ArrGet(root.buf, cur.Offset, seg.Index)
			if err != nil {
				return Value{}, false, err
			}
			if !ok {
				present = false
				break
			}
			cur = val
			continue
		}
		if cur.Type != TypeMap {
			return Value{}, false, newErr(KindPath, "path segment %q expects a map", seg.Key)
		}
		hash := root.hashFor(seg.Key)
		val, ok, err := MapGetHashed(root.buf, cur.Offset, []byte(seg.Key), hash)
		if err != nil {
			return Value{}, false, err
		}
		if !ok {
			present = false
			break
		}
		cur = val
	}
	root.resolved[key] = cachedResolve{val: cur, present: present, version: root.version}
	return cur, present, nil
}

func (root *View) currentRootValue() (Value, error) {
	docType, err := DetectDocType(root.buf)
	if err != nil {
		return Value{}, err
	}
	switch docType {
	case DocScalar:
		return DecodeScalarDocument(root.buf)
	case DocTree:
		header, _, err := NodeSliceAt(root.buf, root.rootOff)
		if err != nil {
			return Value{}, err
		}
		switch header.KeyType {
		case KeyMap:
			return Value{Type: TypeMap, Offset: root.rootOff}, nil
		case KeyArr:
			return Value{Type: TypeArr, Offset: root.rootOff}, nil
		default:
			return Value{}, newErr(KindType, "unknown root node type")
		}
	default:
		return Value{}, newErr(KindType, "unsupported document type")
	}
}

func (root *View) hashFor(key string) uint32 {
	if h, ok := root.hashes[key]; ok {
		return h
	}
	h := XXH32([]byte(key), 0)
	root.hashes[key] = h
	return h
}

func (root *View) subviewFor(path Path) *View {
	key := pathCacheKey(path)
	if sv, ok := root.subviews[key]; ok {
		return sv
	}
	sv := &View{root: root, path: append(Path{}, path...)}
	root.subviews[key] = sv
	return sv
}

func pathCacheKey(path Path) string {
	var sb strings.Builder
	for _, seg := range path {
		if seg.IsIndex {
			sb.WriteByte('#')
			sb.WriteString(strconv.FormatUint(uint64(seg.Index), 10))
		} else {
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(len(seg.Key)))
			sb.WriteByte(':')
			sb.WriteString(seg.Key)
		}
		sb.WriteByte('\x1f')
	}
	return sb.String()
}
