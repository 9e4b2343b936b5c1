package tron

// Canonical rewrites doc into the reference encoder's normal form: the
// logical document is decoded and re-encoded from scratch, so the result is
// byte-identical to calling Encode on Decode's output (Encode visits map
// keys in sorted order, so that output is deterministic). Canonical is
// idempotent and does not preserve node sharing or history.
func Canonical(doc []byte) ([]byte, error) {
	v, err := Decode(doc)
	if err != nil {
		return nil, err
	}
	return Encode(v)
}
