package ldap

import (
	"github.com/ldapwire/ldapcore/ber"
)

// Context-specific tags for IntermediateResponse fields, RFC 4511 Section
// 4.13.
const (
	ContextTagIntermediateOID   = 0
	ContextTagIntermediateValue = 1
)

// IntermediateResponse carries an unsolicited, non-terminal reply associated
// with an in-progress operation, RFC 4511 Section 4.13:
//
//	IntermediateResponse ::= [APPLICATION 25] SEQUENCE {
//	    responseName     [0] LDAPOID OPTIONAL,
//	    responseValue    [1] OCTET STRING OPTIONAL
//	}
//
// The content-sync operation's syncInfoValue is one concrete payload carried
// this way; decoding that payload is SyncInfoMessage's job, not this
// envelope's.
type IntermediateResponse struct {
	ResponseName  string
	ResponseValue []byte
}

// ParseIntermediateResponse parses an IntermediateResponse from the contents
// of its APPLICATION 25 tag.
func ParseIntermediateResponse(data []byte) (*IntermediateResponse, error) {
	decoder := ber.NewDecoder(data)
	resp := &IntermediateResponse{}

	if decoder.Remaining() > 0 && decoder.IsContextTag(ContextTagIntermediateOID) {
		_, _, nameBytes, err := decoder.ReadTaggedValue()
		if err != nil {
			return nil, NewParseError(decoder.Offset(), "failed to read responseName", err)
		}
		resp.ResponseName = string(nameBytes)
	}

	if decoder.Remaining() > 0 && decoder.IsContextTag(ContextTagIntermediateValue) {
		_, _, valueBytes, err := decoder.ReadTaggedValue()
		if err != nil {
			return nil, NewParseError(decoder.Offset(), "failed to read responseValue", err)
		}
		resp.ResponseValue = valueBytes
	}

	return resp, nil
}

// Encode encodes the IntermediateResponse body (without the APPLICATION tag).
func (r *IntermediateResponse) Encode() ([]byte, error) {
	encoder := ber.NewEncoder(64)

	if r.ResponseName != "" {
		if err := encoder.WriteTaggedValue(ContextTagIntermediateOID, false, []byte(r.ResponseName)); err != nil {
			return nil, err
		}
	}
	if r.ResponseValue != nil {
		if err := encoder.WriteTaggedValue(ContextTagIntermediateValue, false, r.ResponseValue); err != nil {
			return nil, err
		}
	}

	return encoder.Bytes(), nil
}
