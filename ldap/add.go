package ldap

import (
	"errors"

	"github.com/ldapwire/ldapcore/ber"
)

// Attribute is an attribute type with its values, used wherever an
// AttributeList or PartialAttribute appears.
type Attribute struct {
	Type   string
	Values [][]byte
}

// AddRequest creates a new entry, RFC 4511 Section 4.7:
//
//	AddRequest ::= [APPLICATION 8] SEQUENCE {
//	    entry           LDAPDN,
//	    attributes      AttributeList
//	}
//	AttributeList ::= SEQUENCE OF attribute Attribute
//	Attribute ::= PartialAttribute(WITH VALUES)
//	PartialAttribute ::= SEQUENCE {
//	    type       AttributeDescription,
//	    vals       SET OF value AttributeValue
//	}
type AddRequest struct {
	Entry      string
	Attributes []Attribute
}

var (
	// ErrEmptyEntry is returned when the entry DN is empty.
	ErrEmptyEntry = errors.New("ldap: entry DN cannot be empty")

	// ErrInvalidAttribute is returned when an attribute is malformed.
	ErrInvalidAttribute = errors.New("ldap: invalid attribute")

	// ErrEmptyAttributeValues is returned when an attribute has no values.
	ErrEmptyAttributeValues = errors.New("ldap: attribute must have at least one value")
)

// ParseAddRequest parses an AddRequest from the contents of its
// APPLICATION 8 tag.
func ParseAddRequest(data []byte) (*AddRequest, error) {
	if len(data) == 0 {
		return nil, NewParseError(0, "empty add request data", nil)
	}

	decoder := ber.NewDecoder(data)
	req := &AddRequest{}

	entryBytes, err := decoder.ReadOctetString()
	if err != nil {
		return nil, NewParseError(decoder.Offset(), "failed to read entry DN", err)
	}
	req.Entry = string(entryBytes)

	attrListLen, err := decoder.ExpectSequence()
	if err != nil {
		return nil, NewParseError(decoder.Offset(), "failed to read attributes sequence", err)
	}

	attrListEnd := decoder.Offset() + attrListLen
	var attributes []Attribute

	for decoder.Offset() < attrListEnd && decoder.Remaining() > 0 {
		attr, err := parseAttribute(decoder)
		if err != nil {
			return nil, err
		}
		attributes = append(attributes, attr)
	}

	req.Attributes = attributes
	return req, nil
}

// parseAttribute parses a single PartialAttribute.
func parseAttribute(decoder *ber.Decoder) (Attribute, error) {
	attr := Attribute{}

	attrDecoder, err := decoder.ReadSequenceContents()
	if err != nil {
		return attr, NewParseError(decoder.Offset(), "failed to read attribute sequence", err)
	}

	typeBytes, err := attrDecoder.ReadOctetString()
	if err != nil {
		return attr, NewParseError(decoder.Offset(), "failed to read attribute type", err)
	}
	attr.Type = string(typeBytes)

	valSetLen, err := attrDecoder.ExpectSet()
	if err != nil {
		return attr, NewParseError(decoder.Offset(), "failed to read attribute values set", err)
	}

	valSetEnd := attrDecoder.Offset() + valSetLen
	var values [][]byte

	for attrDecoder.Offset() < valSetEnd && attrDecoder.Remaining() > 0 {
		valueBytes, err := attrDecoder.ReadOctetString()
		if err != nil {
			return attr, NewParseError(decoder.Offset(), "failed to read attribute value", err)
		}
		values = append(values, valueBytes)
	}

	attr.Values = values
	return attr, nil
}

// Encode encodes the AddRequest body (without the APPLICATION tag).
func (r *AddRequest) Encode() ([]byte, error) {
	if r.Entry == "" {
		return nil, ErrEmptyEntry
	}

	encoder := ber.NewEncoder(256)

	if err := encoder.WriteOctetString([]byte(r.Entry)); err != nil {
		return nil, err
	}

	attrListPos := encoder.BeginSequence()
	for _, attr := range r.Attributes {
		if err := encodeAttribute(encoder, attr); err != nil {
			return nil, err
		}
	}
	if err := encoder.EndSequence(attrListPos); err != nil {
		return nil, err
	}

	return encoder.Bytes(), nil
}

// Validate validates the AddRequest.
func (r *AddRequest) Validate() error {
	if r.Entry == "" {
		return ErrEmptyEntry
	}
	return nil
}

func encodeAttribute(encoder *ber.Encoder, attr Attribute) error {
	attrPos := encoder.BeginSequence()

	if err := encoder.WriteOctetString([]byte(attr.Type)); err != nil {
		return err
	}

	valSetPos := encoder.BeginSet()
	for _, value := range attr.Values {
		if err := encoder.WriteOctetString(value); err != nil {
			return err
		}
	}
	if err := encoder.EndSet(valSetPos); err != nil {
		return err
	}

	return encoder.EndSequence(attrPos)
}

// GetAttribute returns the first attribute with the given type name, or nil.
func (r *AddRequest) GetAttribute(attrType string) *Attribute {
	for i := range r.Attributes {
		if r.Attributes[i].Type == attrType {
			return &r.Attributes[i]
		}
	}
	return nil
}

// GetAttributeValues returns all values for the given attribute type, or nil.
func (r *AddRequest) GetAttributeValues(attrType string) [][]byte {
	attr := r.GetAttribute(attrType)
	if attr == nil {
		return nil
	}
	return attr.Values
}

// GetAttributeStringValues returns all values for the given attribute type as strings.
func (r *AddRequest) GetAttributeStringValues(attrType string) []string {
	values := r.GetAttributeValues(attrType)
	if values == nil {
		return nil
	}
	result := make([]string, len(values))
	for i, v := range values {
		result[i] = string(v)
	}
	return result
}
