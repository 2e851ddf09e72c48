package ldap

import (
	"errors"

	"github.com/ldapwire/ldapcore/ber"
)

// Authentication method tags (context-specific), RFC 4511 Section 4.2.
const (
	AuthSimple = 0
	AuthSASL   = 3
)

// AuthMethod identifies how a BindRequest authenticates.
type AuthMethod int

const (
	AuthMethodSimple AuthMethod = iota
	AuthMethodSASL
)

// String returns the string representation of the authentication method.
func (a AuthMethod) String() string {
	switch a {
	case AuthMethodSimple:
		return "Simple"
	case AuthMethodSASL:
		return "SASL"
	default:
		return "Unknown"
	}
}

// SASLCredentials carries a SASL mechanism name and optional credentials:
//
//	SaslCredentials ::= SEQUENCE {
//	    mechanism               LDAPString,
//	    credentials             OCTET STRING OPTIONAL
//	}
type SASLCredentials struct {
	Mechanism   string
	Credentials []byte
}

// BindRequest authenticates a connection, RFC 4511 Section 4.2:
//
//	BindRequest ::= [APPLICATION 0] SEQUENCE {
//	    version                 INTEGER (1 .. 127),
//	    name                    LDAPDN,
//	    authentication          AuthenticationChoice
//	}
//	AuthenticationChoice ::= CHOICE {
//	    simple                  [0] OCTET STRING,
//	    sasl                    [3] SaslCredentials
//	}
type BindRequest struct {
	Version         int
	Name            string
	AuthMethod      AuthMethod
	SimplePassword  []byte
	SASLCredentials *SASLCredentials
}

var (
	// ErrInvalidBindVersion is returned when the bind version is out of range.
	ErrInvalidBindVersion = errors.New("ldap: bind version must be between 1 and 127")

	// ErrUnknownAuthMethod is returned when the authentication choice tag is unrecognized.
	ErrUnknownAuthMethod = errors.New("ldap: unknown authentication method")

	// ErrInvalidSASLCredentials is returned when SASL credentials are malformed.
	ErrInvalidSASLCredentials = errors.New("ldap: invalid SASL credentials")
)

// NewSimpleBindRequest builds a BindRequest for name/password authentication.
func NewSimpleBindRequest(version int, name string, password []byte) *BindRequest {
	return &BindRequest{
		Version:        version,
		Name:           name,
		AuthMethod:     AuthMethodSimple,
		SimplePassword: password,
	}
}

// NewSASLBindRequest builds a BindRequest for SASL authentication.
func NewSASLBindRequest(version int, name, mechanism string, credentials []byte) *BindRequest {
	return &BindRequest{
		Version:    version,
		Name:       name,
		AuthMethod: AuthMethodSASL,
		SASLCredentials: &SASLCredentials{
			Mechanism:   mechanism,
			Credentials: credentials,
		},
	}
}

// ParseBindRequest parses a BindRequest from the contents of its
// APPLICATION 0 tag (the tag and length are already consumed).
func ParseBindRequest(data []byte) (*BindRequest, error) {
	if len(data) == 0 {
		return nil, NewParseError(0, "empty bind request data", nil)
	}

	decoder := ber.NewDecoder(data)
	req := &BindRequest{}

	version, err := decoder.ReadInteger()
	if err != nil {
		return nil, NewParseError(decoder.Offset(), "failed to read bind version", err)
	}
	if version < 1 || version > 127 {
		return nil, ErrInvalidBindVersion
	}
	req.Version = int(version)

	nameBytes, err := decoder.ReadOctetString()
	if err != nil {
		return nil, NewParseError(decoder.Offset(), "failed to read bind name", err)
	}
	req.Name = string(nameBytes)

	tagNum, constructed, authData, err := decoder.ReadTaggedValue()
	if err != nil {
		return nil, NewParseError(decoder.Offset(), "failed to read authentication", err)
	}

	switch tagNum {
	case AuthSimple:
		req.AuthMethod = AuthMethodSimple
		req.SimplePassword = authData

	case AuthSASL:
		if !constructed {
			return nil, NewParseError(decoder.Offset(), "SASL credentials must be constructed", ErrInvalidSASLCredentials)
		}

		saslDecoder := ber.NewDecoder(authData)
		saslCreds := &SASLCredentials{}

		mechBytes, err := saslDecoder.ReadOctetString()
		if err != nil {
			return nil, NewParseError(decoder.Offset(), "failed to read SASL mechanism", err)
		}
		saslCreds.Mechanism = string(mechBytes)

		if saslDecoder.Remaining() > 0 {
			credBytes, err := saslDecoder.ReadOctetString()
			if err != nil {
				return nil, NewParseError(decoder.Offset(), "failed to read SASL credentials", err)
			}
			saslCreds.Credentials = credBytes
		}

		req.AuthMethod = AuthMethodSASL
		req.SASLCredentials = saslCreds

	default:
		return nil, NewParseError(decoder.Offset(), "unknown authentication method tag", ErrUnknownAuthMethod)
	}

	return req, nil
}

// Encode encodes the BindRequest body (without the APPLICATION tag).
func (r *BindRequest) Encode() ([]byte, error) {
	if r.Version < 1 || r.Version > 127 {
		return nil, ErrInvalidBindVersion
	}

	encoder := ber.NewEncoder(128)

	if err := encoder.WriteInteger(int64(r.Version)); err != nil {
		return nil, err
	}
	if err := encoder.WriteOctetString([]byte(r.Name)); err != nil {
		return nil, err
	}

	switch r.AuthMethod {
	case AuthMethodSimple:
		if err := encoder.WriteTaggedValue(AuthSimple, false, r.SimplePassword); err != nil {
			return nil, err
		}

	case AuthMethodSASL:
		if r.SASLCredentials == nil {
			return nil, ErrInvalidSASLCredentials
		}
		saslEncoder := ber.NewEncoder(64)

		if err := saslEncoder.WriteOctetString([]byte(r.SASLCredentials.Mechanism)); err != nil {
			return nil, err
		}
		if len(r.SASLCredentials.Credentials) > 0 {
			if err := saslEncoder.WriteOctetString(r.SASLCredentials.Credentials); err != nil {
				return nil, err
			}
		}

		if err := encoder.WriteTaggedValue(AuthSASL, true, saslEncoder.Bytes()); err != nil {
			return nil, err
		}

	default:
		return nil, ErrUnknownAuthMethod
	}

	return encoder.Bytes(), nil
}

// IsAnonymous reports whether this is an anonymous bind: an empty name with
// an empty simple password.
func (r *BindRequest) IsAnonymous() bool {
	return r.Name == "" && r.AuthMethod == AuthMethodSimple && len(r.SimplePassword) == 0
}
