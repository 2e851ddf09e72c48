// Package ber implements the subset of ASN.1 BER (ITU-T X.690) that LDAP
// (RFC 4511) actually uses: definite-length tags only, primitive
// BOOLEAN/INTEGER/OCTET STRING/ENUMERATED/NULL, and constructed
// SEQUENCE/SET plus the APPLICATION and context-specific tags LDAP builds
// its protocol operations and controls out of.
//
// Decoding starts from a single framed element, read with ReadFrame from
// any io.Reader:
//
//	frame, err := ber.ReadFrame(conn, 0)
//	dec := ber.NewDecoder(frame)
//
// A Decoder reads primitives directly off its buffer and hands out
// sub-decoders over nested constructed content:
//
//	seq, err := dec.ReadSequenceContents()
//	id, err := seq.ReadInteger()
//	tagNum, constructed, value, err := seq.ReadTaggedValue()
//
// Sub-decoders inherit the parent's recursion budget, so a message with
// deeply nested filters or controls fails with ErrDepthExceeded instead of
// recursing without bound. Call WithStrictIntegers(true) before decoding if
// the caller wants non-minimal INTEGER/ENUMERATED encodings rejected rather
// than accepted leniently.
//
// Encoding builds a buffer with an Encoder. Fixed-size primitives append
// directly; constructed values whose length isn't known until their
// content is written use the Begin/End pattern, which reserves the tag
// position and splices the computed length in once the matching End call
// runs:
//
//	enc := ber.NewEncoder(0)
//	pos := enc.BeginSequence()
//	enc.WriteInteger(1)
//	enc.WriteOctetString([]byte("cn=admin"))
//	enc.EndSequence(pos)
package ber
