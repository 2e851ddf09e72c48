package ldap

import (
	"errors"

	"github.com/ldapwire/ldapcore/ber"
)

// ModifyDNRequest renames or moves an entry, RFC 4511 Section 4.9:
//
//	ModifyDNRequest ::= [APPLICATION 12] SEQUENCE {
//	    entry           LDAPDN,
//	    newrdn          RelativeLDAPDN,
//	    deleteoldrdn    BOOLEAN,
//	    newSuperior     [0] LDAPDN OPTIONAL
//	}
type ModifyDNRequest struct {
	Entry        string
	NewRDN       string
	DeleteOldRDN bool
	NewSuperior  string
}

var (
	// ErrEmptyModifyDNEntry is returned when the entry DN is empty.
	ErrEmptyModifyDNEntry = errors.New("ldap: modifydn entry DN cannot be empty")

	// ErrEmptyNewRDN is returned when the new RDN is empty.
	ErrEmptyNewRDN = errors.New("ldap: modifydn new RDN cannot be empty")
)

// ParseModifyDNRequest parses a ModifyDNRequest from the contents of its
// APPLICATION 12 tag.
func ParseModifyDNRequest(data []byte) (*ModifyDNRequest, error) {
	if len(data) == 0 {
		return nil, NewParseError(0, "empty modifydn request data", nil)
	}

	decoder := ber.NewDecoder(data)
	req := &ModifyDNRequest{}

	entryBytes, err := decoder.ReadOctetString()
	if err != nil {
		return nil, NewParseError(decoder.Offset(), "failed to read entry DN", err)
	}
	req.Entry = string(entryBytes)

	newRDNBytes, err := decoder.ReadOctetString()
	if err != nil {
		return nil, NewParseError(decoder.Offset(), "failed to read new RDN", err)
	}
	req.NewRDN = string(newRDNBytes)

	deleteOldRDN, err := decoder.ReadBoolean()
	if err != nil {
		return nil, NewParseError(decoder.Offset(), "failed to read deleteoldrdn", err)
	}
	req.DeleteOldRDN = deleteOldRDN

	if decoder.Remaining() > 0 && decoder.IsContextTag(0) {
		tagNum, _, value, err := decoder.ReadTaggedValue()
		if err != nil {
			return nil, NewParseError(decoder.Offset(), "failed to read newSuperior", err)
		}
		if tagNum == 0 {
			req.NewSuperior = string(value)
		}
	}

	return req, nil
}

// Encode encodes the ModifyDNRequest body (without the APPLICATION tag).
func (r *ModifyDNRequest) Encode() ([]byte, error) {
	if r.Entry == "" {
		return nil, ErrEmptyModifyDNEntry
	}
	if r.NewRDN == "" {
		return nil, ErrEmptyNewRDN
	}

	encoder := ber.NewEncoder(256)

	if err := encoder.WriteOctetString([]byte(r.Entry)); err != nil {
		return nil, err
	}
	if err := encoder.WriteOctetString([]byte(r.NewRDN)); err != nil {
		return nil, err
	}
	if err := encoder.WriteBoolean(r.DeleteOldRDN); err != nil {
		return nil, err
	}

	if r.NewSuperior != "" {
		ctxPos := encoder.WriteContextTag(0, false)
		encoder.WriteRaw([]byte(r.NewSuperior))
		if err := encoder.EndContextTag(ctxPos); err != nil {
			return nil, err
		}
	}

	return encoder.Bytes(), nil
}

// Validate validates the ModifyDNRequest.
func (r *ModifyDNRequest) Validate() error {
	if r.Entry == "" {
		return ErrEmptyModifyDNEntry
	}
	if r.NewRDN == "" {
		return ErrEmptyNewRDN
	}
	return nil
}

// HasNewSuperior reports whether a new parent DN is specified.
func (r *ModifyDNRequest) HasNewSuperior() bool {
	return r.NewSuperior != ""
}
