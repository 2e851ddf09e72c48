package filter

import "github.com/ldapwire/ldapcore/ldap"

// Optimize returns a simplified equivalent of f for evaluation purposes: it
// flattens nested AND/OR of the same kind and drops objectClass=* leaves
// under an AND, since they are true for every entry the caller would ever
// be asked to test. Optimize never touches wire encoding — its output is
// only ever passed to Evaluate, never re-encoded.
func Optimize(f *ldap.Filter) *ldap.Filter {
	if f == nil {
		return nil
	}

	switch f.Tag {
	case ldap.FilterTagAnd:
		return optimizeAndOr(f, ldap.FilterTagAnd, true)
	case ldap.FilterTagOr:
		return optimizeAndOr(f, ldap.FilterTagOr, false)
	case ldap.FilterTagNot:
		if len(f.Children) != 1 {
			return f
		}
		return &ldap.Filter{Tag: ldap.FilterTagNot, Children: []*ldap.Filter{Optimize(f.Children[0])}}
	default:
		return f
	}
}

// optimizeAndOr flattens nested same-tag children and, for AND nodes, drops
// always-true present leaves (objectClass=*-shaped: present filter on
// "objectclass"). dropAlwaysTrue is false for OR, where dropping a leaf
// would change the result.
func optimizeAndOr(f *ldap.Filter, tag int, dropAlwaysTrue bool) *ldap.Filter {
	flattened := make([]*ldap.Filter, 0, len(f.Children))
	for _, child := range f.Children {
		optimizedChild := Optimize(child)
		if optimizedChild == nil {
			continue
		}
		if optimizedChild.Tag == tag {
			flattened = append(flattened, optimizedChild.Children...)
			continue
		}
		if dropAlwaysTrue && isAlwaysTruePresent(optimizedChild) {
			continue
		}
		flattened = append(flattened, optimizedChild)
	}
	if len(flattened) == 1 {
		return flattened[0]
	}
	return &ldap.Filter{Tag: tag, Children: flattened}
}

func isAlwaysTruePresent(f *ldap.Filter) bool {
	return f.Tag == ldap.FilterTagPresent && equalFold(f.Attribute, "objectclass")
}

func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}
