// Package filter evaluates a decoded ldap.Filter against an in-memory
// attribute set, and offers a pre-evaluation simplification pass over the
// filter tree.
//
// Evaluate never touches the wire: it consumes the *ldap.Filter produced by
// ldap.ParseSearchRequest and answers whether a candidate entry matches it,
// using matchingrules.Default to resolve the comparison semantics for each
// attribute type. Callers own entry storage; this package only needs an
// AttributeSource to read values out of whatever representation they use.
package filter
