package matchingrules

func newIntegerRule() Rule {
	normalize := func(value []byte) ([]byte, error) {
		if len(value) == 0 {
			return nil, &InvalidSyntaxError{Rule: "integerMatch", Offset: 0, Reason: "empty value"}
		}

		negative := false
		i := 0
		if value[0] == '-' {
			negative = true
			i = 1
		} else if value[0] == '+' {
			i = 1
		}
		if i == len(value) {
			return nil, &InvalidSyntaxError{Rule: "integerMatch", Offset: i, Reason: "no digits after sign"}
		}

		for j := i; j < len(value); j++ {
			if value[j] < '0' || value[j] > '9' {
				return nil, &InvalidSyntaxError{
					Rule:   "integerMatch",
					Offset: j,
					Reason: "expected ASCII digit",
				}
			}
		}

		digits := value[i:]
		for len(digits) > 1 && digits[0] == '0' {
			digits = digits[1:]
		}
		if len(digits) == 1 && digits[0] == '0' {
			return []byte("0"), nil
		}

		out := make([]byte, 0, len(digits)+1)
		if negative {
			out = append(out, '-')
		}
		out = append(out, digits...)
		return out, nil
	}
	return &baseRule{
		name:        "integerMatch",
		equalityOID: "2.5.13.14",
		orderingOID: "2.5.13.15",
		normalize:   normalize,
		ordered:     true,
		compare:     compareNormalizedIntegers,
	}
}

// compareNormalizedIntegers orders two integerMatch-normalized values
// numerically: by sign first, then by digit-string length, then
// lexicographically (safe once lengths match, since leading zeros were
// already stripped by normalize).
func compareNormalizedIntegers(na, nb []byte) int {
	aNeg, aDigits := splitSign(na)
	bNeg, bDigits := splitSign(nb)

	if aNeg != bNeg {
		if aNeg {
			return -1
		}
		return 1
	}

	cmp := compareDigitMagnitude(aDigits, bDigits)
	if aNeg {
		return -cmp
	}
	return cmp
}

func splitSign(v []byte) (negative bool, digits []byte) {
	if len(v) > 0 && v[0] == '-' {
		return true, v[1:]
	}
	return false, v
}

func compareDigitMagnitude(a, b []byte) int {
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	for i := range a {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

func init() {
	register(newIntegerRule())
}
