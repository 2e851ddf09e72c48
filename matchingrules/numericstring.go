package matchingrules

func newNumericStringRule() Rule {
	normalize := func(value []byte) ([]byte, error) {
		out := make([]byte, 0, len(value))
		for i, b := range value {
			switch {
			case b == ' ':
				continue
			case b >= '0' && b <= '9':
				out = append(out, b)
			default:
				return nil, &InvalidSyntaxError{
					Rule:   "numericStringMatch",
					Offset: i,
					Reason: "expected ASCII digit or space",
				}
			}
		}
		return out, nil
	}
	return &baseRule{
		name:         "numericStringMatch",
		equalityOID:  "2.5.13.8",
		orderingOID:  "2.5.13.9",
		substringOID: "2.5.13.10",
		normalize:    normalize,
		ordered:      true,
	}
}

func init() {
	register(newNumericStringRule())
}
