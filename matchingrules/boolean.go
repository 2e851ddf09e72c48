package matchingrules

import "bytes"

func newBooleanRule() Rule {
	normalize := func(value []byte) ([]byte, error) {
		switch {
		case bytes.EqualFold(value, []byte("TRUE")):
			return []byte("TRUE"), nil
		case bytes.EqualFold(value, []byte("FALSE")):
			return []byte("FALSE"), nil
		default:
			return nil, &InvalidSyntaxError{
				Rule:   "booleanMatch",
				Offset: 0,
				Reason: `expected "TRUE" or "FALSE"`,
			}
		}
	}
	return &baseRule{
		name:        "booleanMatch",
		equalityOID: "2.5.13.13",
		normalize:   normalize,
	}
}

func init() {
	register(newBooleanRule())
}
