package ldap

import (
	"github.com/ldapwire/ldapcore/ber"
)

// Context-specific tags for response fields.
const (
	// ContextTagReferral is the tag for referral URIs in LDAPResult [3].
	ContextTagReferral = 3

	// ContextTagServerSASLCreds is the tag for server SASL credentials in BindResponse [7].
	ContextTagServerSASLCreds = 7
)

// LDAPResult is the outcome structure embedded in most LDAP responses, RFC
// 4511 Section 4.1.9:
//
//	LDAPResult ::= SEQUENCE {
//	    resultCode         ENUMERATED { ... },
//	    matchedDN          LDAPDN,
//	    diagnosticMessage  LDAPString,
//	    referral           [3] Referral OPTIONAL
//	}
type LDAPResult struct {
	ResultCode        ResultCode
	MatchedDN         string
	DiagnosticMessage string
	Referral          []string
}

// Encode writes the LDAPResult fields (no outer tag) to an in-progress
// response encoding.
func (r *LDAPResult) Encode(encoder *ber.Encoder) error {
	if err := encoder.WriteEnumerated(int64(r.ResultCode)); err != nil {
		return err
	}
	if err := encoder.WriteOctetString([]byte(r.MatchedDN)); err != nil {
		return err
	}
	if err := encoder.WriteOctetString([]byte(r.DiagnosticMessage)); err != nil {
		return err
	}

	if len(r.Referral) > 0 {
		refPos := encoder.WriteContextTag(ContextTagReferral, true)
		for _, uri := range r.Referral {
			if err := encoder.WriteOctetString([]byte(uri)); err != nil {
				return err
			}
		}
		if err := encoder.EndContextTag(refPos); err != nil {
			return err
		}
	}

	return nil
}

// decodeLDAPResult reads the LDAPResult fields from an already-opened
// decoder (positioned right after the APPLICATION tag of the response that
// embeds it).
func decodeLDAPResult(decoder *ber.Decoder) (LDAPResult, error) {
	result := LDAPResult{}

	code, err := decoder.ReadEnumerated()
	if err != nil {
		return result, NewParseError(decoder.Offset(), "failed to read resultCode", err)
	}
	result.ResultCode = ResultCode(code)

	matchedDN, err := decoder.ReadOctetString()
	if err != nil {
		return result, NewParseError(decoder.Offset(), "failed to read matchedDN", err)
	}
	result.MatchedDN = string(matchedDN)

	diagMsg, err := decoder.ReadOctetString()
	if err != nil {
		return result, NewParseError(decoder.Offset(), "failed to read diagnosticMessage", err)
	}
	result.DiagnosticMessage = string(diagMsg)

	if decoder.Remaining() > 0 && decoder.IsContextTag(ContextTagReferral) {
		refDecoder, err := decoder.ReadContextTagContents(ContextTagReferral)
		if err != nil {
			return result, NewParseError(decoder.Offset(), "failed to read referral", err)
		}
		var referrals []string
		for refDecoder.Remaining() > 0 {
			uri, err := refDecoder.ReadOctetString()
			if err != nil {
				return result, NewParseError(refDecoder.Offset(), "failed to read referral URI", err)
			}
			referrals = append(referrals, string(uri))
		}
		result.Referral = referrals
	}

	return result, nil
}

// BindResponse is the reply to a BindRequest, RFC 4511 Section 4.2.2:
//
//	BindResponse ::= [APPLICATION 1] SEQUENCE {
//	    COMPONENTS OF LDAPResult,
//	    serverSaslCreds    [7] OCTET STRING OPTIONAL
//	}
type BindResponse struct {
	LDAPResult
	ServerSASLCreds []byte
}

// ParseBindResponse parses a BindResponse from the contents of its
// APPLICATION 1 tag.
func ParseBindResponse(data []byte) (*BindResponse, error) {
	decoder := ber.NewDecoder(data)
	resp := &BindResponse{}

	result, err := decodeLDAPResult(decoder)
	if err != nil {
		return nil, err
	}
	resp.LDAPResult = result

	if decoder.Remaining() > 0 && decoder.IsContextTag(ContextTagServerSASLCreds) {
		_, _, creds, err := decoder.ReadTaggedValue()
		if err != nil {
			return nil, NewParseError(decoder.Offset(), "failed to read serverSaslCreds", err)
		}
		resp.ServerSASLCreds = creds
	}

	return resp, nil
}

// Encode encodes the BindResponse body (without the APPLICATION tag).
func (r *BindResponse) Encode() ([]byte, error) {
	encoder := ber.NewEncoder(128)

	if err := r.LDAPResult.Encode(encoder); err != nil {
		return nil, err
	}

	if len(r.ServerSASLCreds) > 0 {
		if err := encoder.WriteTaggedValue(ContextTagServerSASLCreds, false, r.ServerSASLCreds); err != nil {
			return nil, err
		}
	}

	return encoder.Bytes(), nil
}

// PartialAttribute is an attribute description with its values, RFC 4511
// Section 4.1.7:
//
//	PartialAttribute ::= SEQUENCE {
//	    type       AttributeDescription,
//	    vals       SET OF value AttributeValue
//	}
type PartialAttribute struct {
	Type   string
	Values [][]byte
}

// SearchResultEntry carries one matching entry, RFC 4511 Section 4.5.2:
//
//	SearchResultEntry ::= [APPLICATION 4] SEQUENCE {
//	    objectName      LDAPDN,
//	    attributes      PartialAttributeList
//	}
//	PartialAttributeList ::= SEQUENCE OF partialAttribute PartialAttribute
type SearchResultEntry struct {
	ObjectName string
	Attributes []PartialAttribute
}

// ParseSearchResultEntry parses a SearchResultEntry from the contents of
// its APPLICATION 4 tag.
func ParseSearchResultEntry(data []byte) (*SearchResultEntry, error) {
	if len(data) == 0 {
		return nil, NewParseError(0, "empty search result entry data", nil)
	}

	decoder := ber.NewDecoder(data)
	entry := &SearchResultEntry{}

	objectName, err := decoder.ReadOctetString()
	if err != nil {
		return nil, NewParseError(decoder.Offset(), "failed to read objectName", err)
	}
	entry.ObjectName = string(objectName)

	attrListLen, err := decoder.ExpectSequence()
	if err != nil {
		return nil, NewParseError(decoder.Offset(), "failed to read attributes sequence", err)
	}
	attrListEnd := decoder.Offset() + attrListLen

	var attrs []PartialAttribute
	for decoder.Offset() < attrListEnd && decoder.Remaining() > 0 {
		attrDecoder, err := decoder.ReadSequenceContents()
		if err != nil {
			return nil, NewParseError(decoder.Offset(), "failed to read partial attribute", err)
		}

		typeBytes, err := attrDecoder.ReadOctetString()
		if err != nil {
			return nil, NewParseError(attrDecoder.Offset(), "failed to read attribute type", err)
		}

		valSetLen, err := attrDecoder.ExpectSet()
		if err != nil {
			return nil, NewParseError(attrDecoder.Offset(), "failed to read attribute values set", err)
		}
		valSetEnd := attrDecoder.Offset() + valSetLen

		var values [][]byte
		for attrDecoder.Offset() < valSetEnd && attrDecoder.Remaining() > 0 {
			v, err := attrDecoder.ReadOctetString()
			if err != nil {
				return nil, NewParseError(attrDecoder.Offset(), "failed to read attribute value", err)
			}
			values = append(values, v)
		}

		attrs = append(attrs, PartialAttribute{Type: string(typeBytes), Values: values})
	}

	entry.Attributes = attrs
	return entry, nil
}

// Encode encodes the SearchResultEntry body (without the APPLICATION tag).
func (r *SearchResultEntry) Encode() ([]byte, error) {
	encoder := ber.NewEncoder(256)

	if err := encoder.WriteOctetString([]byte(r.ObjectName)); err != nil {
		return nil, err
	}

	attrSeqPos := encoder.BeginSequence()
	for _, attr := range r.Attributes {
		partialAttrPos := encoder.BeginSequence()

		if err := encoder.WriteOctetString([]byte(attr.Type)); err != nil {
			return nil, err
		}

		valsPos := encoder.BeginSet()
		for _, val := range attr.Values {
			if err := encoder.WriteOctetString(val); err != nil {
				return nil, err
			}
		}
		if err := encoder.EndSet(valsPos); err != nil {
			return nil, err
		}

		if err := encoder.EndSequence(partialAttrPos); err != nil {
			return nil, err
		}
	}
	if err := encoder.EndSequence(attrSeqPos); err != nil {
		return nil, err
	}

	return encoder.Bytes(), nil
}

// SearchResultReference carries one or more referral URLs a client may
// follow to continue a search elsewhere, RFC 4511 Section 4.5.2:
//
//	SearchResultReference ::= [APPLICATION 19] SEQUENCE SIZE (1..MAX) OF uri URI
type SearchResultReference struct {
	URIs []string
}

// ParseSearchResultReference parses a SearchResultReference from the
// contents of its APPLICATION 19 tag.
func ParseSearchResultReference(data []byte) (*SearchResultReference, error) {
	if len(data) == 0 {
		return nil, NewParseError(0, "empty search result reference data", nil)
	}

	decoder := ber.NewDecoder(data)
	var uris []string

	for decoder.Remaining() > 0 {
		uri, err := decoder.ReadOctetString()
		if err != nil {
			return nil, NewParseError(decoder.Offset(), "failed to read reference URI", err)
		}
		uris = append(uris, string(uri))
	}

	if len(uris) == 0 {
		return nil, NewParseError(0, "search result reference must have at least one URI", nil)
	}

	return &SearchResultReference{URIs: uris}, nil
}

// Encode encodes the SearchResultReference body (without the APPLICATION tag).
func (r *SearchResultReference) Encode() ([]byte, error) {
	encoder := ber.NewEncoder(64)

	for _, uri := range r.URIs {
		if err := encoder.WriteOctetString([]byte(uri)); err != nil {
			return nil, err
		}
	}

	return encoder.Bytes(), nil
}

// SearchResultDone is the final response to a search, RFC 4511 Section
// 4.5.2: SearchResultDone ::= [APPLICATION 5] LDAPResult
type SearchResultDone struct {
	LDAPResult
}

// ParseSearchResultDone parses a SearchResultDone from the contents of its
// APPLICATION 5 tag.
func ParseSearchResultDone(data []byte) (*SearchResultDone, error) {
	result, err := decodeLDAPResult(ber.NewDecoder(data))
	if err != nil {
		return nil, err
	}
	return &SearchResultDone{LDAPResult: result}, nil
}

// Encode encodes the SearchResultDone to BER format.
func (r *SearchResultDone) Encode() ([]byte, error) {
	return encodeLDAPResultResponse(&r.LDAPResult)
}

// ModifyResponse is the reply to a ModifyRequest, RFC 4511 Section 4.6:
// ModifyResponse ::= [APPLICATION 7] LDAPResult
type ModifyResponse struct {
	LDAPResult
}

// ParseModifyResponse parses a ModifyResponse from the contents of its
// APPLICATION 7 tag.
func ParseModifyResponse(data []byte) (*ModifyResponse, error) {
	result, err := decodeLDAPResult(ber.NewDecoder(data))
	if err != nil {
		return nil, err
	}
	return &ModifyResponse{LDAPResult: result}, nil
}

// Encode encodes the ModifyResponse to BER format.
func (r *ModifyResponse) Encode() ([]byte, error) {
	return encodeLDAPResultResponse(&r.LDAPResult)
}

// AddResponse is the reply to an AddRequest, RFC 4511 Section 4.7:
// AddResponse ::= [APPLICATION 9] LDAPResult
type AddResponse struct {
	LDAPResult
}

// ParseAddResponse parses an AddResponse from the contents of its
// APPLICATION 9 tag.
func ParseAddResponse(data []byte) (*AddResponse, error) {
	result, err := decodeLDAPResult(ber.NewDecoder(data))
	if err != nil {
		return nil, err
	}
	return &AddResponse{LDAPResult: result}, nil
}

// Encode encodes the AddResponse to BER format.
func (r *AddResponse) Encode() ([]byte, error) {
	return encodeLDAPResultResponse(&r.LDAPResult)
}

// DeleteResponse is the reply to a DelRequest, RFC 4511 Section 4.8:
// DelResponse ::= [APPLICATION 11] LDAPResult
type DeleteResponse struct {
	LDAPResult
}

// ParseDeleteResponse parses a DeleteResponse from the contents of its
// APPLICATION 11 tag.
func ParseDeleteResponse(data []byte) (*DeleteResponse, error) {
	result, err := decodeLDAPResult(ber.NewDecoder(data))
	if err != nil {
		return nil, err
	}
	return &DeleteResponse{LDAPResult: result}, nil
}

// Encode encodes the DeleteResponse to BER format.
func (r *DeleteResponse) Encode() ([]byte, error) {
	return encodeLDAPResultResponse(&r.LDAPResult)
}

// ModifyDNResponse is the reply to a ModifyDNRequest, RFC 4511 Section 4.9:
// ModifyDNResponse ::= [APPLICATION 13] LDAPResult
type ModifyDNResponse struct {
	LDAPResult
}

// ParseModifyDNResponse parses a ModifyDNResponse from the contents of its
// APPLICATION 13 tag.
func ParseModifyDNResponse(data []byte) (*ModifyDNResponse, error) {
	result, err := decodeLDAPResult(ber.NewDecoder(data))
	if err != nil {
		return nil, err
	}
	return &ModifyDNResponse{LDAPResult: result}, nil
}

// Encode encodes the ModifyDNResponse to BER format.
func (r *ModifyDNResponse) Encode() ([]byte, error) {
	return encodeLDAPResultResponse(&r.LDAPResult)
}

// CompareResponse is the reply to a CompareRequest, RFC 4511 Section 4.10:
// CompareResponse ::= [APPLICATION 15] LDAPResult
//
// A successful comparison is reported via ResultCode (compareTrue=6 or
// compareFalse=5), not a separate boolean.
type CompareResponse struct {
	LDAPResult
}

// ParseCompareResponse parses a CompareResponse from the contents of its
// APPLICATION 15 tag.
func ParseCompareResponse(data []byte) (*CompareResponse, error) {
	result, err := decodeLDAPResult(ber.NewDecoder(data))
	if err != nil {
		return nil, err
	}
	return &CompareResponse{LDAPResult: result}, nil
}

// Encode encodes the CompareResponse to BER format.
func (r *CompareResponse) Encode() ([]byte, error) {
	return encodeLDAPResultResponse(&r.LDAPResult)
}

// encodeLDAPResultResponse encodes a response body that is exactly an
// LDAPResult (the caller's APPLICATION tag is added by the message
// envelope, not here).
func encodeLDAPResultResponse(result *LDAPResult) ([]byte, error) {
	encoder := ber.NewEncoder(64)
	if err := result.Encode(encoder); err != nil {
		return nil, err
	}
	return encoder.Bytes(), nil
}

// NewSuccessResult creates an LDAPResult reporting success.
func NewSuccessResult() LDAPResult {
	return LDAPResult{ResultCode: ResultSuccess}
}

// NewErrorResult creates an LDAPResult reporting the given error code and message.
func NewErrorResult(code ResultCode, message string) LDAPResult {
	return LDAPResult{ResultCode: code, DiagnosticMessage: message}
}

// NewErrorResultWithDN creates an LDAPResult reporting an error alongside the matched DN.
func NewErrorResultWithDN(code ResultCode, matchedDN, message string) LDAPResult {
	return LDAPResult{ResultCode: code, MatchedDN: matchedDN, DiagnosticMessage: message}
}
