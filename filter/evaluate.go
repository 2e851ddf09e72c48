package filter

import (
	"strings"

	"github.com/ldapwire/ldapcore/ldap"
	"github.com/ldapwire/ldapcore/matchingrules"
)

// AttributeSource is the minimal read interface Evaluate needs from a
// candidate entry. Callers implement it over whatever in-memory entry
// representation they hold; this package owns no entry storage.
type AttributeSource interface {
	// Values returns the values held for attributeType, or nil if the
	// entry has none. Lookups are case-insensitive on attributeType.
	Values(attributeType string) [][]byte
}

// RuleResolver maps an attribute type to the matching rule that governs
// equality, ordering, and substring comparisons for it. ByAttribute returns
// (nil, false) to fall back to the evaluator's default rule.
type RuleResolver interface {
	ByAttribute(attributeType string) (matchingrules.Rule, bool)
}

// StaticRules is a RuleResolver backed by a fixed attribute-type-to-rule-name
// map, resolved against matchingrules.Default. It is the simplest way to
// steer a handful of non-string attributes (e.g. a GeneralizedTime or
// Boolean attribute) onto the right rule without a full schema.
type StaticRules map[string]string

// ByAttribute implements RuleResolver.
func (s StaticRules) ByAttribute(attributeType string) (matchingrules.Rule, bool) {
	name, ok := s[strings.ToLower(attributeType)]
	if !ok {
		return nil, false
	}
	return matchingrules.Default.ByName(name)
}

// Evaluator evaluates ldap.Filter trees against entries read through an
// AttributeSource, using a RuleResolver to pick each leaf's matching rule.
// Evaluator holds no mutable state and is safe for concurrent use.
type Evaluator struct {
	rules RuleResolver
}

// NewEvaluator builds an Evaluator. A nil resolver evaluates every
// attribute with caseIgnoreMatch, matching the RFC 4517 default for
// DirectoryString-syntax attributes.
func NewEvaluator(rules RuleResolver) *Evaluator {
	return &Evaluator{rules: rules}
}

func (e *Evaluator) ruleFor(attributeType string) matchingrules.Rule {
	if e.rules != nil {
		if r, ok := e.rules.ByAttribute(attributeType); ok {
			return r
		}
	}
	r, _ := matchingrules.Default.ByName("caseIgnoreMatch")
	return r
}

// Evaluate reports whether entry matches f. A malformed filter tree (nil
// children where required, an unrecognized tag) evaluates to false rather
// than panicking; wire-level shape is already enforced by ldap.ParseSearchRequest.
func (e *Evaluator) Evaluate(f *ldap.Filter, entry AttributeSource) bool {
	if f == nil || entry == nil {
		return false
	}

	switch f.Tag {
	case ldap.FilterTagAnd:
		for _, child := range f.Children {
			if !e.Evaluate(child, entry) {
				return false
			}
		}
		return true

	case ldap.FilterTagOr:
		for _, child := range f.Children {
			if e.Evaluate(child, entry) {
				return true
			}
		}
		return false

	case ldap.FilterTagNot:
		if len(f.Children) != 1 {
			return false
		}
		return !e.Evaluate(f.Children[0], entry)

	case ldap.FilterTagPresent:
		return len(entry.Values(f.Attribute)) > 0

	case ldap.FilterTagEqualityMatch:
		return e.matchAny(f.Attribute, f.Value, entry)

	case ldap.FilterTagApproxMatch:
		// No approximate (soundex/metaphone) matching rule is wired into
		// matchingrules; fall back to equality, which is the conservative
		// and RFC-permitted behavior when approxMatch isn't implemented.
		return e.matchAny(f.Attribute, f.Value, entry)

	case ldap.FilterTagGreaterOrEqual:
		return e.compareAny(f.Attribute, f.Value, entry, func(cmp int) bool { return cmp >= 0 })

	case ldap.FilterTagLessOrEqual:
		return e.compareAny(f.Attribute, f.Value, entry, func(cmp int) bool { return cmp <= 0 })

	case ldap.FilterTagSubstrings:
		return e.matchSubstrings(f.Attribute, f.Substrings, entry)

	case ldap.FilterTagExtensibleMatch:
		return e.matchExtensible(f.ExtensibleMatch, entry)

	default:
		return false
	}
}

func (e *Evaluator) matchAny(attribute string, want []byte, entry AttributeSource) bool {
	rule := e.ruleFor(attribute)
	for _, have := range entry.Values(attribute) {
		if ok, err := rule.ValuesMatch(have, want); err == nil && ok {
			return true
		}
	}
	return false
}

func (e *Evaluator) compareAny(attribute string, want []byte, entry AttributeSource, accept func(int) bool) bool {
	rule := e.ruleFor(attribute)
	ordering, ok := rule.(matchingrules.OrderingRule)
	if !ok {
		return false
	}
	for _, have := range entry.Values(attribute) {
		cmp, err := ordering.CompareValues(have, want)
		if err == nil && accept(cmp) {
			return true
		}
	}
	return false
}

func (e *Evaluator) matchSubstrings(attribute string, sub *ldap.SubstringAssertion, entry AttributeSource) bool {
	if sub == nil {
		return false
	}
	rule := e.ruleFor(attribute)
	for _, have := range entry.Values(attribute) {
		if substringMatches(rule, have, sub) {
			return true
		}
	}
	return false
}

func substringMatches(rule matchingrules.Rule, value []byte, sub *ldap.SubstringAssertion) bool {
	normValue, err := rule.Normalize(value)
	if err != nil {
		return false
	}
	pos := 0

	if len(sub.Initial) > 0 {
		piece, err := rule.NormalizeSubstring(sub.Initial, matchingrules.SubstringInitial)
		if err != nil || !hasPrefix(normValue, piece) {
			return false
		}
		pos = len(piece)
	}

	for _, any := range sub.Any {
		piece, err := rule.NormalizeSubstring(any, matchingrules.SubstringAny)
		if err != nil || len(piece) == 0 {
			continue
		}
		idx := indexFrom(normValue, piece, pos)
		if idx < 0 {
			return false
		}
		pos = idx + len(piece)
	}

	if len(sub.Final) > 0 {
		piece, err := rule.NormalizeSubstring(sub.Final, matchingrules.SubstringFinal)
		if err != nil || !hasSuffixFrom(normValue, piece, pos) {
			return false
		}
	}

	return true
}

func (e *Evaluator) matchExtensible(ext *ldap.ExtensibleMatchAssertion, entry AttributeSource) bool {
	if ext == nil || ext.Type == "" {
		return false
	}
	rule := e.ruleFor(ext.Type)
	if ext.MatchingRule != "" {
		if r, ok := matchingrules.Default.ByName(ext.MatchingRule); ok {
			rule = r
		} else if r, ok := matchingrules.Default.ByOID(ext.MatchingRule); ok {
			rule = r
		}
	}
	for _, have := range entry.Values(ext.Type) {
		if ok, err := rule.ValuesMatch(have, ext.MatchValue); err == nil && ok {
			return true
		}
	}
	return false
}

func hasPrefix(value, prefix []byte) bool {
	if len(prefix) > len(value) {
		return false
	}
	for i := range prefix {
		if value[i] != prefix[i] {
			return false
		}
	}
	return true
}

func hasSuffixFrom(value, suffix []byte, from int) bool {
	if len(suffix) > len(value)-from {
		return false
	}
	offset := len(value) - len(suffix)
	for i := range suffix {
		if value[offset+i] != suffix[i] {
			return false
		}
	}
	return true
}

func indexFrom(haystack, needle []byte, from int) int {
	if from > len(haystack) {
		return -1
	}
	for i := from; i+len(needle) <= len(haystack); i++ {
		match := true
		for j := range needle {
			if haystack[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
