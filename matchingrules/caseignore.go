package matchingrules

import (
	"golang.org/x/text/cases"
)

var foldCaser = cases.Fold()

// isASCII reports whether every byte in value is in the ASCII range; the
// ASCII fast path avoids the x/text transform machinery for the
// overwhelming majority of directory string values.
func isASCII(value []byte) bool {
	for _, b := range value {
		if b >= 0x80 {
			return false
		}
	}
	return true
}

func asciiLower(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b - 'A' + 'a'
	}
	return b
}

func foldCase(value []byte) []byte {
	if isASCII(value) {
		out := make([]byte, len(value))
		for i, b := range value {
			out[i] = asciiLower(b)
		}
		return out
	}
	return foldCaser.Bytes(value)
}

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\v' || b == '\f'
}

// collapseSpace folds runs of whitespace to a single ASCII space, optionally
// trimming the leading and/or trailing edge. Substring components that
// border a filter wildcard ("*") keep the space on that edge significant,
// since RFC 4517's insignificant-space handling only applies to the ends of
// the whole attribute value, not to edges that abut a substring wildcard.
func collapseSpace(value []byte, trimLeading, trimTrailing bool) []byte {
	out := make([]byte, 0, len(value))
	inSpace := false
	wroteAny := false
	leadingSpace := false
	for _, b := range value {
		if isSpaceByte(b) {
			inSpace = true
			if !wroteAny {
				leadingSpace = true
			}
			continue
		}
		if inSpace && wroteAny {
			out = append(out, ' ')
		}
		out = append(out, b)
		wroteAny = true
		inSpace = false
	}
	trailingSpace := inSpace && wroteAny

	if leadingSpace && !trimLeading {
		out = append([]byte{' '}, out...)
	}
	if trailingSpace && !trimTrailing {
		out = append(out, ' ')
	}
	return out
}

func newCaseIgnoreRule() Rule {
	normalize := func(value []byte) ([]byte, error) {
		return collapseSpace(foldCase(value), true, true), nil
	}
	normSub := func(value []byte, kind SubstringKind) ([]byte, error) {
		folded := foldCase(value)
		switch kind {
		case SubstringInitial:
			return collapseSpace(folded, true, false), nil
		case SubstringFinal:
			return collapseSpace(folded, false, true), nil
		default:
			return collapseSpace(folded, false, false), nil
		}
	}
	return &baseRule{
		name:         "caseIgnoreMatch",
		equalityOID:  "2.5.13.2",
		orderingOID:  "2.5.13.3",
		substringOID: "2.5.13.4",
		normalize:    normalize,
		normSub:      normSub,
		ordered:      true,
	}
}

func newCaseExactRule() Rule {
	normalize := func(value []byte) ([]byte, error) {
		return collapseSpace(value, true, true), nil
	}
	normSub := func(value []byte, kind SubstringKind) ([]byte, error) {
		switch kind {
		case SubstringInitial:
			return collapseSpace(value, true, false), nil
		case SubstringFinal:
			return collapseSpace(value, false, true), nil
		default:
			return collapseSpace(value, false, false), nil
		}
	}
	return &baseRule{
		name:         "caseExactMatch",
		equalityOID:  "2.5.13.5",
		orderingOID:  "2.5.13.6",
		substringOID: "2.5.13.7",
		normalize:    normalize,
		normSub:      normSub,
		ordered:      true,
	}
}

func init() {
	register(newCaseIgnoreRule())
	register(newCaseExactRule())
}
