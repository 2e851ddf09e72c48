package ldap

import (
	"errors"

	"github.com/ldapwire/ldapcore/ber"
)

// DeleteRequest removes an entry, RFC 4511 Section 4.8:
//
//	DelRequest ::= [APPLICATION 10] LDAPDN
//
// DelRequest is primitive: its body is the DN octets directly, not a
// SEQUENCE.
type DeleteRequest struct {
	DN string
}

// ErrEmptyDeleteDN is returned when the DN to delete is empty.
var ErrEmptyDeleteDN = errors.New("ldap: delete DN cannot be empty")

// ParseDeleteRequest parses a DeleteRequest from the contents of its
// APPLICATION 10 tag.
func ParseDeleteRequest(data []byte) (*DeleteRequest, error) {
	return &DeleteRequest{DN: string(data)}, nil
}

// Encode returns the DN bytes, since DelRequest is a primitive LDAPDN.
func (r *DeleteRequest) Encode() ([]byte, error) {
	return []byte(r.DN), nil
}

// Validate validates the DeleteRequest.
func (r *DeleteRequest) Validate() error {
	if r.DN == "" {
		return ErrEmptyDeleteDN
	}
	return nil
}

// UnbindRequest closes a connection, RFC 4511 Section 4.3:
//
//	UnbindRequest ::= [APPLICATION 2] NULL
type UnbindRequest struct{}

// ParseUnbindRequest parses an UnbindRequest. UnbindRequest carries no
// content; any data is accepted for robustness.
func ParseUnbindRequest(_ []byte) (*UnbindRequest, error) {
	return &UnbindRequest{}, nil
}

// Encode returns an empty body, since UnbindRequest is NULL.
func (r *UnbindRequest) Encode() ([]byte, error) {
	return []byte{}, nil
}

// AbandonRequest cancels an in-progress operation, RFC 4511 Section 4.11:
//
//	AbandonRequest ::= [APPLICATION 16] MessageID
//
// AbandonRequest is primitive: its body is a bare INTEGER value, with no
// surrounding INTEGER tag (the APPLICATION 16 tag supplies the framing).
type AbandonRequest struct {
	MessageID int
}

// ParseAbandonRequest parses an AbandonRequest from the contents of its
// APPLICATION 16 tag: a minimal two's complement integer with no tag/length
// prefix of its own.
func ParseAbandonRequest(data []byte) (*AbandonRequest, error) {
	if len(data) == 0 {
		return nil, NewParseError(0, "empty abandon request data", nil)
	}

	var msgID int64
	if data[0]&0x80 != 0 {
		msgID = -1
	}
	for _, b := range data {
		msgID = (msgID << 8) | int64(b)
	}

	return &AbandonRequest{MessageID: int(msgID)}, nil
}

// Encode returns the MessageID as bare minimal two's complement octets.
func (r *AbandonRequest) Encode() ([]byte, error) {
	return ber.EncodeIntegerValue(int64(r.MessageID)), nil
}
