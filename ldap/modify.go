package ldap

import (
	"errors"

	"github.com/ldapwire/ldapcore/ber"
)

// ModifyOperation identifies the kind of change a Modification applies.
type ModifyOperation int

// Modify operation codes, RFC 4511 Section 4.6 plus the increment extension
// from RFC 4525.
const (
	ModifyOperationAdd       ModifyOperation = 0
	ModifyOperationDelete    ModifyOperation = 1
	ModifyOperationReplace   ModifyOperation = 2
	ModifyOperationIncrement ModifyOperation = 3
)

// String returns the string representation of the modify operation.
func (m ModifyOperation) String() string {
	switch m {
	case ModifyOperationAdd:
		return "Add"
	case ModifyOperationDelete:
		return "Delete"
	case ModifyOperationReplace:
		return "Replace"
	case ModifyOperationIncrement:
		return "Increment"
	default:
		return "Unknown"
	}
}

// Modification is a single change within a ModifyRequest:
//
//	Change ::= SEQUENCE {
//	    operation       ENUMERATED { add(0), delete(1), replace(2), increment(3) },
//	    modification    PartialAttribute
//	}
type Modification struct {
	Operation ModifyOperation
	Attribute Attribute
}

// ModifyRequest changes an entry's attributes, RFC 4511 Section 4.6:
//
//	ModifyRequest ::= [APPLICATION 6] SEQUENCE {
//	    object          LDAPDN,
//	    changes         SEQUENCE OF change Change
//	}
type ModifyRequest struct {
	Object  string
	Changes []Modification
}

var (
	// ErrEmptyModifyObject is returned when the object DN is empty.
	ErrEmptyModifyObject = errors.New("ldap: modify object DN cannot be empty")

	// ErrInvalidModifyOperation is returned when the modify operation code is invalid.
	ErrInvalidModifyOperation = errors.New("ldap: invalid modify operation")

	// ErrEmptyModifications is returned when there are no modifications.
	ErrEmptyModifications = errors.New("ldap: modify request must have at least one modification")
)

// ParseModifyRequest parses a ModifyRequest from the contents of its
// APPLICATION 6 tag.
func ParseModifyRequest(data []byte) (*ModifyRequest, error) {
	if len(data) == 0 {
		return nil, NewParseError(0, "empty modify request data", nil)
	}

	decoder := ber.NewDecoder(data)
	req := &ModifyRequest{}

	objectBytes, err := decoder.ReadOctetString()
	if err != nil {
		return nil, NewParseError(decoder.Offset(), "failed to read object DN", err)
	}
	req.Object = string(objectBytes)

	changesLen, err := decoder.ExpectSequence()
	if err != nil {
		return nil, NewParseError(decoder.Offset(), "failed to read changes sequence", err)
	}

	changesEnd := decoder.Offset() + changesLen
	var changes []Modification

	for decoder.Offset() < changesEnd && decoder.Remaining() > 0 {
		change, err := parseModification(decoder)
		if err != nil {
			return nil, err
		}
		changes = append(changes, change)
	}

	req.Changes = changes
	return req, nil
}

func parseModification(decoder *ber.Decoder) (Modification, error) {
	mod := Modification{}

	changeDecoder, err := decoder.ReadSequenceContents()
	if err != nil {
		return mod, NewParseError(decoder.Offset(), "failed to read change sequence", err)
	}

	operation, err := changeDecoder.ReadEnumerated()
	if err != nil {
		return mod, NewParseError(decoder.Offset(), "failed to read operation", err)
	}
	if operation < 0 || operation > int64(ModifyOperationIncrement) {
		return mod, ErrInvalidModifyOperation
	}
	mod.Operation = ModifyOperation(operation)

	attr, err := parsePartialAttribute(changeDecoder)
	if err != nil {
		return mod, err
	}
	mod.Attribute = attr

	return mod, nil
}

func parsePartialAttribute(decoder *ber.Decoder) (Attribute, error) {
	attr := Attribute{}

	attrDecoder, err := decoder.ReadSequenceContents()
	if err != nil {
		return attr, NewParseError(decoder.Offset(), "failed to read partial attribute sequence", err)
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

// Encode encodes the ModifyRequest body (without the APPLICATION tag).
func (r *ModifyRequest) Encode() ([]byte, error) {
	if r.Object == "" {
		return nil, ErrEmptyModifyObject
	}

	encoder := ber.NewEncoder(256)

	if err := encoder.WriteOctetString([]byte(r.Object)); err != nil {
		return nil, err
	}

	changesPos := encoder.BeginSequence()
	for _, change := range r.Changes {
		if err := encodeModification(encoder, change); err != nil {
			return nil, err
		}
	}
	if err := encoder.EndSequence(changesPos); err != nil {
		return nil, err
	}

	return encoder.Bytes(), nil
}

func encodeModification(encoder *ber.Encoder, mod Modification) error {
	changePos := encoder.BeginSequence()

	if err := encoder.WriteEnumerated(int64(mod.Operation)); err != nil {
		return err
	}
	if err := encodeAttribute(encoder, mod.Attribute); err != nil {
		return err
	}

	return encoder.EndSequence(changePos)
}

// Validate validates the ModifyRequest.
func (r *ModifyRequest) Validate() error {
	if r.Object == "" {
		return ErrEmptyModifyObject
	}
	if len(r.Changes) == 0 {
		return ErrEmptyModifications
	}
	for _, change := range r.Changes {
		if change.Operation < 0 || change.Operation > ModifyOperationIncrement {
			return ErrInvalidModifyOperation
		}
	}
	return nil
}

// AddModification appends a modification to the request.
func (r *ModifyRequest) AddModification(op ModifyOperation, attrType string, values ...[]byte) {
	r.Changes = append(r.Changes, Modification{
		Operation: op,
		Attribute: Attribute{
			Type:   attrType,
			Values: values,
		},
	})
}

// AddStringModification appends a modification with string values to the request.
func (r *ModifyRequest) AddStringModification(op ModifyOperation, attrType string, values ...string) {
	byteValues := make([][]byte, len(values))
	for i, v := range values {
		byteValues[i] = []byte(v)
	}
	r.AddModification(op, attrType, byteValues...)
}
