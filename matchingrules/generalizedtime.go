package matchingrules

import (
	"fmt"
	"time"
)

// canonicalGeneralizedTimeLayout is the YYYYMMDDHHMMSS part of the wire form
// emitted by generalizedTimeMatch normalization: YYYYMMDDHHMMSS[.fff]Z,
// always UTC, with the .fff millisecond part omitted when there's no
// sub-second part.
const canonicalGeneralizedTimeLayout = "20060102150405"

// generalizedTimeLayouts are the GeneralizedTime forms RFC 4517 Section
// 3.3.13 permits: a fractional-seconds component and a zone of either "Z"
// or a numeric UTC offset.
var generalizedTimeLayouts = []string{
	"20060102150405.999999999Z0700",
	"20060102150405Z0700",
	"200601021504.999999999Z0700",
	"200601021504Z0700",
	"2006010215.999999999Z0700",
	"2006010215Z0700",
}

func newGeneralizedTimeRule() Rule {
	normalize := func(value []byte) ([]byte, error) {
		s := string(value)
		var parsed time.Time
		var err error
		matched := false
		for _, layout := range generalizedTimeLayouts {
			parsed, err = time.Parse(layout, s)
			if err == nil {
				matched = true
				break
			}
		}
		if !matched {
			return nil, &InvalidSyntaxError{
				Rule:   "generalizedTimeMatch",
				Offset: 0,
				Reason: "not a valid GeneralizedTime value",
			}
		}

		utc := parsed.UTC()
		ms := utc.Nanosecond() / int(time.Millisecond)
		base := utc.Format(canonicalGeneralizedTimeLayout)
		if ms == 0 {
			return []byte(base + "Z"), nil
		}
		return []byte(fmt.Sprintf("%s.%03dZ", base, ms)), nil
	}

	compare := func(na, nb []byte) int {
		ta, errA := time.Parse("20060102150405.999Z", string(na))
		tb, errB := time.Parse("20060102150405.999Z", string(nb))
		if errA != nil || errB != nil {
			if string(na) < string(nb) {
				return -1
			}
			if string(na) > string(nb) {
				return 1
			}
			return 0
		}
		switch {
		case ta.Before(tb):
			return -1
		case ta.After(tb):
			return 1
		default:
			return 0
		}
	}

	return &baseRule{
		name:        "generalizedTimeMatch",
		equalityOID: "2.5.13.27",
		orderingOID: "2.5.13.28",
		normalize:   normalize,
		ordered:     true,
		compare:     compare,
	}
}

func init() {
	register(newGeneralizedTimeRule())
}
