package ldap

import (
	"errors"

	"github.com/ldapwire/ldapcore/ber"
)

// CompareRequest tests whether an entry has an attribute value, RFC 4511
// Section 4.10:
//
//	CompareRequest ::= [APPLICATION 14] SEQUENCE {
//	    entry           LDAPDN,
//	    ava             AttributeValueAssertion
//	}
//	AttributeValueAssertion ::= SEQUENCE {
//	    attributeDesc   AttributeDescription,
//	    assertionValue  AssertionValue
//	}
type CompareRequest struct {
	DN        string
	Attribute string
	Value     []byte
}

var (
	// ErrEmptyCompareDN is returned when the DN to compare is empty.
	ErrEmptyCompareDN = errors.New("ldap: compare DN cannot be empty")

	// ErrEmptyCompareAttribute is returned when the attribute to compare is empty.
	ErrEmptyCompareAttribute = errors.New("ldap: compare attribute cannot be empty")
)

// ParseCompareRequest parses a CompareRequest from the contents of its
// APPLICATION 14 tag.
func ParseCompareRequest(data []byte) (*CompareRequest, error) {
	if len(data) == 0 {
		return nil, NewParseError(0, "empty compare request data", nil)
	}

	decoder := ber.NewDecoder(data)
	req := &CompareRequest{}

	dnBytes, err := decoder.ReadOctetString()
	if err != nil {
		return nil, NewParseError(decoder.Offset(), "failed to read entry DN", err)
	}
	req.DN = string(dnBytes)

	avaDecoder, err := decoder.ReadSequenceContents()
	if err != nil {
		return nil, NewParseError(decoder.Offset(), "failed to read AttributeValueAssertion", err)
	}

	attrBytes, err := avaDecoder.ReadOctetString()
	if err != nil {
		return nil, NewParseError(decoder.Offset(), "failed to read attribute description", err)
	}
	req.Attribute = string(attrBytes)

	valueBytes, err := avaDecoder.ReadOctetString()
	if err != nil {
		return nil, NewParseError(decoder.Offset(), "failed to read assertion value", err)
	}
	req.Value = valueBytes

	return req, nil
}

// Encode encodes the CompareRequest body (without the APPLICATION tag).
func (r *CompareRequest) Encode() ([]byte, error) {
	if r.DN == "" {
		return nil, ErrEmptyCompareDN
	}
	if r.Attribute == "" {
		return nil, ErrEmptyCompareAttribute
	}

	encoder := ber.NewEncoder(128)

	if err := encoder.WriteOctetString([]byte(r.DN)); err != nil {
		return nil, err
	}

	avaPos := encoder.BeginSequence()
	if err := encoder.WriteOctetString([]byte(r.Attribute)); err != nil {
		return nil, err
	}
	if err := encoder.WriteOctetString(r.Value); err != nil {
		return nil, err
	}
	if err := encoder.EndSequence(avaPos); err != nil {
		return nil, err
	}

	return encoder.Bytes(), nil
}

// Validate validates the CompareRequest.
func (r *CompareRequest) Validate() error {
	if r.DN == "" {
		return ErrEmptyCompareDN
	}
	if r.Attribute == "" {
		return ErrEmptyCompareAttribute
	}
	return nil
}
