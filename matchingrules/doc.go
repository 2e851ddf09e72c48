// Package matchingrules implements the syntax-driven value normalizers LDAP
// attribute comparisons rely on: equality, ordering, and substring matching
// rules keyed by OID or name, per RFC 4517.
//
// Each rule is an immutable, stateless value; the package-level registry is
// populated once via init() and is safe for concurrent lookups. Callers that
// need isolation (tests, alternate schemas) can build their own Table with
// NewTable instead of using the package-level Default.
package matchingrules
