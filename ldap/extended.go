package ldap

import (
	"errors"

	"github.com/ldapwire/ldapcore/ber"
)

// ErrInvalidExtendedRequest is returned when an ExtendedRequest's requestName
// tag does not match the expected context tag.
var ErrInvalidExtendedRequest = errors.New("ldap: invalid extended request")

// Context-specific tags for ExtendedRequest/ExtendedResponse fields, RFC
// 4511 Section 4.12.
const (
	ContextTagExtReqOID   = 0
	ContextTagExtReqValue = 1

	ContextTagExtResOID   = 10
	ContextTagExtResValue = 11
)

// ExtendedRequest invokes an extended operation identified by an OID, RFC
// 4511 Section 4.12:
//
//	ExtendedRequest ::= [APPLICATION 23] SEQUENCE {
//	    requestName      [0] LDAPOID,
//	    requestValue     [1] OCTET STRING OPTIONAL
//	}
type ExtendedRequest struct {
	RequestName  string
	RequestValue []byte
}

// NewExtendedRequest builds an ExtendedRequest for the given OID and
// optional value.
func NewExtendedRequest(oid string, value []byte) *ExtendedRequest {
	return &ExtendedRequest{RequestName: oid, RequestValue: value}
}

// ParseExtendedRequest parses an ExtendedRequest from the contents of its
// APPLICATION 23 tag.
func ParseExtendedRequest(data []byte) (*ExtendedRequest, error) {
	if len(data) == 0 {
		return nil, NewParseError(0, "empty extended request data", nil)
	}

	decoder := ber.NewDecoder(data)
	req := &ExtendedRequest{}

	nameTag, _, nameValue, err := decoder.ReadTaggedValue()
	if err != nil {
		return nil, NewParseError(decoder.Offset(), "failed to read requestName", err)
	}
	if nameTag != ContextTagExtReqOID {
		return nil, NewParseError(decoder.Offset(), "unexpected tag for requestName", ErrInvalidExtendedRequest)
	}
	req.RequestName = string(nameValue)

	if decoder.Remaining() > 0 && decoder.IsContextTag(ContextTagExtReqValue) {
		_, _, valueBytes, err := decoder.ReadTaggedValue()
		if err != nil {
			return nil, NewParseError(decoder.Offset(), "failed to read requestValue", err)
		}
		req.RequestValue = valueBytes
	}

	return req, nil
}

// Encode encodes the ExtendedRequest body (without the APPLICATION tag).
func (r *ExtendedRequest) Encode() ([]byte, error) {
	encoder := ber.NewEncoder(64)

	if err := encoder.WriteTaggedValue(ContextTagExtReqOID, false, []byte(r.RequestName)); err != nil {
		return nil, err
	}
	if r.RequestValue != nil {
		if err := encoder.WriteTaggedValue(ContextTagExtReqValue, false, r.RequestValue); err != nil {
			return nil, err
		}
	}

	return encoder.Bytes(), nil
}

// ExtendedResponse is the reply to an ExtendedRequest, RFC 4511 Section
// 4.12:
//
//	ExtendedResponse ::= [APPLICATION 24] SEQUENCE {
//	    COMPONENTS OF LDAPResult,
//	    responseName     [10] LDAPOID OPTIONAL,
//	    responseValue    [11] OCTET STRING OPTIONAL
//	}
type ExtendedResponse struct {
	LDAPResult
	ResponseName  string
	ResponseValue []byte
}

// ParseExtendedResponse parses an ExtendedResponse from the contents of its
// APPLICATION 24 tag.
func ParseExtendedResponse(data []byte) (*ExtendedResponse, error) {
	decoder := ber.NewDecoder(data)
	result, err := decodeLDAPResult(decoder)
	if err != nil {
		return nil, err
	}
	resp := &ExtendedResponse{LDAPResult: result}

	if decoder.Remaining() > 0 && decoder.IsContextTag(ContextTagExtResOID) {
		_, _, nameBytes, err := decoder.ReadTaggedValue()
		if err != nil {
			return nil, NewParseError(decoder.Offset(), "failed to read responseName", err)
		}
		resp.ResponseName = string(nameBytes)
	}

	if decoder.Remaining() > 0 && decoder.IsContextTag(ContextTagExtResValue) {
		_, _, valueBytes, err := decoder.ReadTaggedValue()
		if err != nil {
			return nil, NewParseError(decoder.Offset(), "failed to read responseValue", err)
		}
		resp.ResponseValue = valueBytes
	}

	return resp, nil
}

// Encode encodes the ExtendedResponse body (without the APPLICATION tag).
func (r *ExtendedResponse) Encode() ([]byte, error) {
	encoder := ber.NewEncoder(64)

	if err := r.LDAPResult.Encode(encoder); err != nil {
		return nil, err
	}
	if r.ResponseName != "" {
		if err := encoder.WriteTaggedValue(ContextTagExtResOID, false, []byte(r.ResponseName)); err != nil {
			return nil, err
		}
	}
	if r.ResponseValue != nil {
		if err := encoder.WriteTaggedValue(ContextTagExtResValue, false, r.ResponseValue); err != nil {
			return nil, err
		}
	}

	return encoder.Bytes(), nil
}
