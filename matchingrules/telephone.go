package matchingrules

func newTelephoneNumberRule() Rule {
	strip := func(value []byte) []byte {
		out := make([]byte, 0, len(value))
		for _, b := range value {
			if b == ' ' || b == '-' {
				continue
			}
			out = append(out, b)
		}
		return out
	}
	normalize := func(value []byte) ([]byte, error) {
		return foldCase(strip(value)), nil
	}
	normSub := func(value []byte, kind SubstringKind) ([]byte, error) {
		return foldCase(strip(value)), nil
	}
	return &baseRule{
		name:         "telephoneNumberMatch",
		equalityOID:  "2.5.13.20",
		substringOID: "2.5.13.21",
		normalize:    normalize,
		normSub:      normSub,
	}
}

func init() {
	register(newTelephoneNumberRule())
}
