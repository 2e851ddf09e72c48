package ldap

import (
	"errors"

	"github.com/ldapwire/ldapcore/ber"
)

// SearchScope selects which part of the DIT a SearchRequest examines, RFC
// 4511 Section 4.5.1.
type SearchScope int

const (
	ScopeBaseObject   SearchScope = 0
	ScopeSingleLevel  SearchScope = 1
	ScopeWholeSubtree SearchScope = 2
)

// String returns the string representation of the search scope.
func (s SearchScope) String() string {
	switch s {
	case ScopeBaseObject:
		return "BaseObject"
	case ScopeSingleLevel:
		return "SingleLevel"
	case ScopeWholeSubtree:
		return "WholeSubtree"
	default:
		return "Unknown"
	}
}

// DerefAliases selects when the server dereferences alias entries while
// evaluating a search, RFC 4511 Section 4.5.1.
type DerefAliases int

const (
	DerefNever          DerefAliases = 0
	DerefInSearching    DerefAliases = 1
	DerefFindingBaseObj DerefAliases = 2
	DerefAlways         DerefAliases = 3
)

// String returns the string representation of the deref aliases setting.
func (d DerefAliases) String() string {
	switch d {
	case DerefNever:
		return "NeverDerefAliases"
	case DerefInSearching:
		return "DerefInSearching"
	case DerefFindingBaseObj:
		return "DerefFindingBaseObj"
	case DerefAlways:
		return "DerefAlways"
	default:
		return "Unknown"
	}
}

// Filter tag numbers (context-specific CHOICE), RFC 4511 Section 4.5.1.
const (
	FilterTagAnd             = 0
	FilterTagOr              = 1
	FilterTagNot             = 2
	FilterTagEqualityMatch   = 3
	FilterTagSubstrings      = 4
	FilterTagGreaterOrEqual  = 5
	FilterTagLessOrEqual     = 6
	FilterTagPresent         = 7
	FilterTagApproxMatch     = 8
	FilterTagExtensibleMatch = 9
)

// Substring component tags within a SubstringFilter, RFC 4511 Section 4.5.1.
const (
	SubstringInitial = 0
	SubstringAny     = 1
	SubstringFinal   = 2
)

// Extensible match component tags within a MatchingRuleAssertion.
const (
	ExtMatchMatchingRule = 1
	ExtMatchType         = 2
	ExtMatchMatchValue   = 3
	ExtMatchDNAttributes = 4
)

// maxFilterDepth bounds recursive descent into nested AND/OR/NOT filters. A
// crafted message with thousands of nested filters must fail deterministically
// rather than exhaust the goroutine stack.
const maxFilterDepth = ber.DefaultMaxDepth

var (
	// ErrInvalidSearchScope is returned when the search scope is out of range.
	ErrInvalidSearchScope = errors.New("ldap: invalid search scope")

	// ErrInvalidDerefAliases is returned when the deref aliases value is out of range.
	ErrInvalidDerefAliases = errors.New("ldap: invalid deref aliases value")

	// ErrInvalidFilter is returned when a filter is malformed or has an
	// unknown CHOICE tag.
	ErrInvalidFilter = errors.New("ldap: invalid search filter")

	// ErrFilterTooDeep is returned when a filter's AND/OR/NOT nesting
	// exceeds maxFilterDepth.
	ErrFilterTooDeep = errors.New("ldap: filter nesting exceeds maximum depth")
)

// SubstringAssertion is the components of a SubstringFilter's substrings
// SEQUENCE: an optional initial anchor, any number of floating middle
// fragments, and an optional final anchor.
type SubstringAssertion struct {
	Initial []byte
	Any     [][]byte
	Final   []byte
}

// ExtensibleMatchAssertion is a MatchingRuleAssertion, RFC 4511 Section 4.5.1.
type ExtensibleMatchAssertion struct {
	MatchingRule string
	Type         string
	MatchValue   []byte
	DNAttributes bool
}

// Filter is a recursive LDAP search filter CHOICE, RFC 4511 Section 4.5.1.
// Exactly the fields relevant to Tag are populated; the rest are zero.
type Filter struct {
	Tag int

	// And/Or: one or more child filters. Not: exactly one child filter.
	Children []*Filter

	// EqualityMatch/GreaterOrEqual/LessOrEqual/ApproxMatch/Present:
	// attribute description; every variant except Present also sets Value.
	Attribute string
	Value     []byte

	Substrings *SubstringAssertion

	ExtensibleMatch *ExtensibleMatchAssertion
}

// ParseSearchRequest parses a SearchRequest from the contents of its
// APPLICATION 3 tag, RFC 4511 Section 4.5.1:
//
//	SearchRequest ::= [APPLICATION 3] SEQUENCE {
//	    baseObject      LDAPDN,
//	    scope           ENUMERATED { ... },
//	    derefAliases    ENUMERATED { ... },
//	    sizeLimit       INTEGER (0 .. maxInt),
//	    timeLimit       INTEGER (0 .. maxInt),
//	    typesOnly       BOOLEAN,
//	    filter          Filter,
//	    attributes      AttributeSelection
//	}
func ParseSearchRequest(data []byte) (*SearchRequest, error) {
	if len(data) == 0 {
		return nil, NewParseError(0, "empty search request data", nil)
	}

	decoder := ber.NewDecoder(data)
	req := &SearchRequest{}

	baseBytes, err := decoder.ReadOctetString()
	if err != nil {
		return nil, NewParseError(decoder.Offset(), "failed to read baseObject", err)
	}
	req.BaseObject = string(baseBytes)

	scope, err := decoder.ReadEnumerated()
	if err != nil {
		return nil, NewParseError(decoder.Offset(), "failed to read scope", err)
	}
	if scope < int64(ScopeBaseObject) || scope > int64(ScopeWholeSubtree) {
		return nil, ErrInvalidSearchScope
	}
	req.Scope = SearchScope(scope)

	deref, err := decoder.ReadEnumerated()
	if err != nil {
		return nil, NewParseError(decoder.Offset(), "failed to read derefAliases", err)
	}
	if deref < int64(DerefNever) || deref > int64(DerefAlways) {
		return nil, ErrInvalidDerefAliases
	}
	req.DerefAliases = DerefAliases(deref)

	sizeLimit, err := decoder.ReadInteger()
	if err != nil {
		return nil, NewParseError(decoder.Offset(), "failed to read sizeLimit", err)
	}
	req.SizeLimit = int(sizeLimit)

	timeLimit, err := decoder.ReadInteger()
	if err != nil {
		return nil, NewParseError(decoder.Offset(), "failed to read timeLimit", err)
	}
	req.TimeLimit = int(timeLimit)

	typesOnly, err := decoder.ReadBoolean()
	if err != nil {
		return nil, NewParseError(decoder.Offset(), "failed to read typesOnly", err)
	}
	req.TypesOnly = typesOnly

	filter, err := parseFilter(decoder, 0)
	if err != nil {
		return nil, NewParseError(decoder.Offset(), "failed to read filter", err)
	}
	req.Filter = filter

	attrSeqLen, err := decoder.ExpectSequence()
	if err != nil {
		return nil, NewParseError(decoder.Offset(), "failed to read attributes sequence", err)
	}
	attrEnd := decoder.Offset() + attrSeqLen

	var attributes []string
	for decoder.Offset() < attrEnd && decoder.Remaining() > 0 {
		attrBytes, err := decoder.ReadOctetString()
		if err != nil {
			return nil, NewParseError(decoder.Offset(), "failed to read attribute", err)
		}
		attributes = append(attributes, string(attrBytes))
	}
	req.Attributes = attributes

	return req, nil
}

// SearchRequest initiates a search or read, RFC 4511 Section 4.5.1.
type SearchRequest struct {
	BaseObject   string
	Scope        SearchScope
	DerefAliases DerefAliases
	SizeLimit    int
	TimeLimit    int
	TypesOnly    bool
	Filter       *Filter
	Attributes   []string
}

// Encode encodes the SearchRequest body (without the APPLICATION tag).
func (r *SearchRequest) Encode() ([]byte, error) {
	encoder := ber.NewEncoder(256)

	if err := encoder.WriteOctetString([]byte(r.BaseObject)); err != nil {
		return nil, err
	}
	if err := encoder.WriteEnumerated(int64(r.Scope)); err != nil {
		return nil, err
	}
	if err := encoder.WriteEnumerated(int64(r.DerefAliases)); err != nil {
		return nil, err
	}
	if err := encoder.WriteInteger(int64(r.SizeLimit)); err != nil {
		return nil, err
	}
	if err := encoder.WriteInteger(int64(r.TimeLimit)); err != nil {
		return nil, err
	}
	if err := encoder.WriteBoolean(r.TypesOnly); err != nil {
		return nil, err
	}

	if r.Filter == nil {
		return nil, ErrInvalidFilter
	}
	if err := encodeFilter(encoder, r.Filter); err != nil {
		return nil, err
	}

	attrPos := encoder.BeginSequence()
	for _, attr := range r.Attributes {
		if err := encoder.WriteOctetString([]byte(attr)); err != nil {
			return nil, err
		}
	}
	if err := encoder.EndSequence(attrPos); err != nil {
		return nil, err
	}

	return encoder.Bytes(), nil
}

// parseFilter parses a Filter CHOICE value, recursing into AND/OR/NOT
// children. depth counts the current nesting level and is checked against
// maxFilterDepth before any recursive call.
func parseFilter(decoder *ber.Decoder, depth int) (*Filter, error) {
	if depth > maxFilterDepth {
		return nil, ErrFilterTooDeep
	}

	tagNum, constructed, content, err := decoder.ReadTaggedValue()
	if err != nil {
		return nil, err
	}

	filter := &Filter{Tag: tagNum}

	switch tagNum {
	case FilterTagAnd, FilterTagOr:
		if !constructed {
			return nil, ErrInvalidFilter
		}
		if depth+1 > maxFilterDepth {
			return nil, ErrFilterTooDeep
		}
		sub, err := decoder.SubDecoder(content)
		if err != nil {
			return nil, err
		}
		for sub.Remaining() > 0 {
			child, err := parseFilter(sub, depth+1)
			if err != nil {
				return nil, err
			}
			filter.Children = append(filter.Children, child)
		}

	case FilterTagNot:
		if !constructed {
			return nil, ErrInvalidFilter
		}
		if depth+1 > maxFilterDepth {
			return nil, ErrFilterTooDeep
		}
		sub, err := decoder.SubDecoder(content)
		if err != nil {
			return nil, err
		}
		child, err := parseFilter(sub, depth+1)
		if err != nil {
			return nil, err
		}
		filter.Children = []*Filter{child}

	case FilterTagEqualityMatch, FilterTagGreaterOrEqual, FilterTagLessOrEqual, FilterTagApproxMatch:
		if !constructed {
			return nil, ErrInvalidFilter
		}
		sub, err := decoder.SubDecoder(content)
		if err != nil {
			return nil, err
		}
		attrBytes, err := sub.ReadOctetString()
		if err != nil {
			return nil, err
		}
		valueBytes, err := sub.ReadOctetString()
		if err != nil {
			return nil, err
		}
		filter.Attribute = string(attrBytes)
		filter.Value = valueBytes

	case FilterTagSubstrings:
		if !constructed {
			return nil, ErrInvalidFilter
		}
		sub, err := decoder.SubDecoder(content)
		if err != nil {
			return nil, err
		}
		attrBytes, err := sub.ReadOctetString()
		if err != nil {
			return nil, err
		}
		filter.Attribute = string(attrBytes)

		substrSeqLen, err := sub.ExpectSequence()
		if err != nil {
			return nil, err
		}
		substrEnd := sub.Offset() + substrSeqLen

		assertion := &SubstringAssertion{}
		for sub.Offset() < substrEnd && sub.Remaining() > 0 {
			compTag, _, compValue, err := sub.ReadTaggedValue()
			if err != nil {
				return nil, err
			}
			switch compTag {
			case SubstringInitial:
				assertion.Initial = compValue
			case SubstringAny:
				assertion.Any = append(assertion.Any, compValue)
			case SubstringFinal:
				assertion.Final = compValue
			default:
				return nil, ErrInvalidFilter
			}
		}
		filter.Substrings = assertion

	case FilterTagPresent:
		if constructed {
			return nil, ErrInvalidFilter
		}
		filter.Attribute = string(content)

	case FilterTagExtensibleMatch:
		if !constructed {
			return nil, ErrInvalidFilter
		}
		sub, err := decoder.SubDecoder(content)
		if err != nil {
			return nil, err
		}
		ext := &ExtensibleMatchAssertion{}
		for sub.Remaining() > 0 {
			compTag, _, compValue, err := sub.ReadTaggedValue()
			if err != nil {
				return nil, err
			}
			switch compTag {
			case ExtMatchMatchingRule:
				ext.MatchingRule = string(compValue)
			case ExtMatchType:
				ext.Type = string(compValue)
			case ExtMatchMatchValue:
				ext.MatchValue = compValue
			case ExtMatchDNAttributes:
				ext.DNAttributes = len(compValue) > 0 && compValue[0] != 0
			default:
				return nil, ErrInvalidFilter
			}
		}
		filter.ExtensibleMatch = ext

	default:
		return nil, ErrInvalidFilter
	}

	return filter, nil
}

// encodeFilter writes a Filter CHOICE value.
func encodeFilter(encoder *ber.Encoder, f *Filter) error {
	switch f.Tag {
	case FilterTagAnd, FilterTagOr:
		pos := encoder.WriteContextTag(f.Tag, true)
		for _, child := range f.Children {
			if err := encodeFilter(encoder, child); err != nil {
				return err
			}
		}
		return encoder.EndContextTag(pos)

	case FilterTagNot:
		if len(f.Children) != 1 {
			return ErrInvalidFilter
		}
		pos := encoder.WriteContextTag(f.Tag, true)
		if err := encodeFilter(encoder, f.Children[0]); err != nil {
			return err
		}
		return encoder.EndContextTag(pos)

	case FilterTagEqualityMatch, FilterTagGreaterOrEqual, FilterTagLessOrEqual, FilterTagApproxMatch:
		pos := encoder.WriteContextTag(f.Tag, true)
		if err := encoder.WriteOctetString([]byte(f.Attribute)); err != nil {
			return err
		}
		if err := encoder.WriteOctetString(f.Value); err != nil {
			return err
		}
		return encoder.EndContextTag(pos)

	case FilterTagSubstrings:
		pos := encoder.WriteContextTag(f.Tag, true)
		if err := encoder.WriteOctetString([]byte(f.Attribute)); err != nil {
			return err
		}
		seqPos := encoder.BeginSequence()
		if f.Substrings != nil {
			if len(f.Substrings.Initial) > 0 {
				if err := encoder.WriteTaggedValue(SubstringInitial, false, f.Substrings.Initial); err != nil {
					return err
				}
			}
			for _, any := range f.Substrings.Any {
				if err := encoder.WriteTaggedValue(SubstringAny, false, any); err != nil {
					return err
				}
			}
			if len(f.Substrings.Final) > 0 {
				if err := encoder.WriteTaggedValue(SubstringFinal, false, f.Substrings.Final); err != nil {
					return err
				}
			}
		}
		if err := encoder.EndSequence(seqPos); err != nil {
			return err
		}
		return encoder.EndContextTag(pos)

	case FilterTagPresent:
		return encoder.WriteTaggedValue(f.Tag, false, []byte(f.Attribute))

	case FilterTagExtensibleMatch:
		pos := encoder.WriteContextTag(f.Tag, true)
		ext := f.ExtensibleMatch
		if ext == nil {
			return ErrInvalidFilter
		}
		if ext.MatchingRule != "" {
			if err := encoder.WriteTaggedValue(ExtMatchMatchingRule, false, []byte(ext.MatchingRule)); err != nil {
				return err
			}
		}
		if ext.Type != "" {
			if err := encoder.WriteTaggedValue(ExtMatchType, false, []byte(ext.Type)); err != nil {
				return err
			}
		}
		if err := encoder.WriteTaggedValue(ExtMatchMatchValue, false, ext.MatchValue); err != nil {
			return err
		}
		if ext.DNAttributes {
			if err := encoder.WriteTaggedValue(ExtMatchDNAttributes, false, []byte{0xFF}); err != nil {
				return err
			}
		}
		return encoder.EndContextTag(pos)

	default:
		return ErrInvalidFilter
	}
}
