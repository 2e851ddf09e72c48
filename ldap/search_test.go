package ldap

import (
	"bytes"
	"testing"
)

func TestSearchRequestRoundTrip(t *testing.T) {
	req := &SearchRequest{
		BaseObject:   "dc=example,dc=com",
		Scope:        ScopeWholeSubtree,
		DerefAliases: DerefNever,
		SizeLimit:    0,
		TimeLimit:    0,
		TypesOnly:    false,
		Filter: &Filter{
			Tag:       FilterTagEqualityMatch,
			Attribute: "mail",
			Value:     []byte("a@b"),
		},
		Attributes: []string{"cn", "mail"},
	}

	encoded, err := req.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	decoded, err := ParseSearchRequest(encoded)
	if err != nil {
		t.Fatalf("ParseSearchRequest: %v", err)
	}

	if decoded.BaseObject != req.BaseObject {
		t.Errorf("BaseObject = %q, want %q", decoded.BaseObject, req.BaseObject)
	}
	if decoded.Scope != req.Scope {
		t.Errorf("Scope = %v, want %v", decoded.Scope, req.Scope)
	}
	if decoded.Filter.Attribute != "mail" || !bytes.Equal(decoded.Filter.Value, []byte("a@b")) {
		t.Errorf("Filter = %+v, want equality mail=a@b", decoded.Filter)
	}
	if len(decoded.Attributes) != 2 || decoded.Attributes[0] != "cn" || decoded.Attributes[1] != "mail" {
		t.Errorf("Attributes = %v, want [cn mail]", decoded.Attributes)
	}
}

func TestSearchRequestFilterVariants(t *testing.T) {
	filter := &Filter{
		Tag: FilterTagAnd,
		Children: []*Filter{
			{Tag: FilterTagPresent, Attribute: "objectClass"},
			{
				Tag: FilterTagOr,
				Children: []*Filter{
					{Tag: FilterTagEqualityMatch, Attribute: "uid", Value: []byte("jdoe")},
					{
						Tag:       FilterTagSubstrings,
						Attribute: "cn",
						Substrings: &SubstringAssertion{
							Initial: []byte("J"),
							Any:     [][]byte{[]byte("oh")},
							Final:   []byte("e"),
						},
					},
				},
			},
			{
				Tag: FilterTagNot,
				Children: []*Filter{
					{Tag: FilterTagGreaterOrEqual, Attribute: "age", Value: []byte("18")},
				},
			},
			{
				Tag: FilterTagExtensibleMatch,
				ExtensibleMatch: &ExtensibleMatchAssertion{
					MatchingRule: "caseIgnoreMatch",
					Type:         "cn",
					MatchValue:   []byte("value"),
					DNAttributes: true,
				},
			},
		},
	}

	req := &SearchRequest{
		BaseObject: "dc=example,dc=com",
		Scope:      ScopeSingleLevel,
		Filter:     filter,
	}

	encoded, err := req.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	decoded, err := ParseSearchRequest(encoded)
	if err != nil {
		t.Fatalf("ParseSearchRequest: %v", err)
	}

	if decoded.Filter.Tag != FilterTagAnd || len(decoded.Filter.Children) != 4 {
		t.Fatalf("unexpected top-level filter: %+v", decoded.Filter)
	}

	substr := decoded.Filter.Children[1].Children[1]
	if substr.Tag != FilterTagSubstrings {
		t.Fatalf("expected substrings filter, got %+v", substr)
	}
	if string(substr.Substrings.Initial) != "J" || string(substr.Substrings.Final) != "e" {
		t.Errorf("substrings anchors = %+v", substr.Substrings)
	}
	if len(substr.Substrings.Any) != 1 || string(substr.Substrings.Any[0]) != "oh" {
		t.Errorf("substrings any = %+v", substr.Substrings.Any)
	}

	ext := decoded.Filter.Children[3]
	if ext.ExtensibleMatch == nil || ext.ExtensibleMatch.MatchingRule != "caseIgnoreMatch" || !ext.ExtensibleMatch.DNAttributes {
		t.Errorf("extensible match = %+v", ext.ExtensibleMatch)
	}
}

func TestSearchRequestFilterDepthExceeded(t *testing.T) {
	filter := &Filter{Tag: FilterTagPresent, Attribute: "cn"}
	for i := 0; i <= maxFilterDepth+1; i++ {
		filter = &Filter{Tag: FilterTagNot, Children: []*Filter{filter}}
	}

	req := &SearchRequest{
		BaseObject: "dc=example,dc=com",
		Scope:      ScopeBaseObject,
		Filter:     filter,
	}

	encoded, err := req.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	if _, err := ParseSearchRequest(encoded); err == nil {
		t.Fatal("expected an error decoding an over-deep filter, got nil")
	}
}

func TestSearchRequestMissingFilterRejected(t *testing.T) {
	req := &SearchRequest{BaseObject: "dc=example,dc=com"}
	if _, err := req.Encode(); err == nil {
		t.Fatal("expected error encoding a SearchRequest with no filter")
	}
}
