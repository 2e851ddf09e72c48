package matchingrules

func newOctetStringRule() Rule {
	identity := func(value []byte) ([]byte, error) {
		out := make([]byte, len(value))
		copy(out, value)
		return out, nil
	}
	return &baseRule{
		name:        "octetStringMatch",
		equalityOID: "2.5.13.17",
		orderingOID: "2.5.13.18",
		normalize:   identity,
		ordered:     true,
	}
}

func init() {
	register(newOctetStringRule())
}
