package tron

// Decode materializes a full TRON document into native Go values: nil,
// bool, int64, float64, string, []byte, []any, map[string]any.
func Decode(doc []byte) (any, error) {
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
		return valueToAny(doc, val)
	case DocTree:
		tr, err := ParseTrailer(doc)
		if err != nil {
			return nil, err
		}
		header, _, err := NodeSliceAt(doc, tr.RootOffset)
		if err != nil {
			return nil, err
		}
		switch header.KeyType {
		case KeyMap:
			return valueMapToAny(doc, tr.RootOffset)
		case KeyArr:
			return valueArrayToAny(doc, tr.RootOffset)
		default:
			return nil, newErr(KindType, "unknown root node type")
		}
	default:
		return nil, newErr(KindType, "unsupported document type")
	}
}
