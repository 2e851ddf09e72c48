package filter

import (
	"testing"

	"github.com/ldapwire/ldapcore/ldap"
)

func TestOptimizeFlattensNestedAnd(t *testing.T) {
	nested := &ldap.Filter{Tag: ldap.FilterTagAnd, Children: []*ldap.Filter{
		{Tag: ldap.FilterTagEqualityMatch, Attribute: "cn", Value: []byte("a")},
		{Tag: ldap.FilterTagAnd, Children: []*ldap.Filter{
			{Tag: ldap.FilterTagEqualityMatch, Attribute: "sn", Value: []byte("b")},
			{Tag: ldap.FilterTagEqualityMatch, Attribute: "mail", Value: []byte("c")},
		}},
	}}

	got := Optimize(nested)
	if got.Tag != ldap.FilterTagAnd {
		t.Fatalf("Tag = %d, want AND", got.Tag)
	}
	if len(got.Children) != 3 {
		t.Fatalf("expected flattened AND with 3 children, got %d", len(got.Children))
	}
}

func TestOptimizeDropsAlwaysTruePresentUnderAnd(t *testing.T) {
	f := &ldap.Filter{Tag: ldap.FilterTagAnd, Children: []*ldap.Filter{
		{Tag: ldap.FilterTagPresent, Attribute: "objectClass"},
		{Tag: ldap.FilterTagEqualityMatch, Attribute: "cn", Value: []byte("a")},
	}}

	got := Optimize(f)
	if got.Tag != ldap.FilterTagEqualityMatch {
		t.Fatalf("expected single remaining equality leaf, got tag %d with %d children", got.Tag, len(got.Children))
	}
}

func TestOptimizeKeepsAlwaysTruePresentUnderOr(t *testing.T) {
	f := &ldap.Filter{Tag: ldap.FilterTagOr, Children: []*ldap.Filter{
		{Tag: ldap.FilterTagPresent, Attribute: "objectClass"},
		{Tag: ldap.FilterTagEqualityMatch, Attribute: "cn", Value: []byte("a")},
	}}

	got := Optimize(f)
	if got.Tag != ldap.FilterTagOr || len(got.Children) != 2 {
		t.Fatalf("expected OR to retain both children, got %+v", got)
	}
}

func TestOptimizeNotRecursesIntoChild(t *testing.T) {
	f := &ldap.Filter{Tag: ldap.FilterTagNot, Children: []*ldap.Filter{
		{Tag: ldap.FilterTagAnd, Children: []*ldap.Filter{
			{Tag: ldap.FilterTagAnd, Children: []*ldap.Filter{
				{Tag: ldap.FilterTagEqualityMatch, Attribute: "cn", Value: []byte("a")},
			}},
		}},
	}}

	got := Optimize(f)
	if got.Tag != ldap.FilterTagNot {
		t.Fatalf("Tag = %d, want NOT", got.Tag)
	}
	if got.Children[0].Tag != ldap.FilterTagEqualityMatch {
		t.Fatalf("expected nested AND-of-one to collapse to its single child, got %+v", got.Children[0])
	}
}

func TestOptimizeNilFilter(t *testing.T) {
	if Optimize(nil) != nil {
		t.Error("Optimize(nil) should return nil")
	}
}
