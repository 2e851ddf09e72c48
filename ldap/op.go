package ldap

import (
	"fmt"

	"github.com/ldapwire/ldapcore/ber"
)

// Decode parses a RawOperation into its typed variant based on its
// APPLICATION tag, returning one of the *Request/*Response types defined
// throughout this package. Callers that already know which operation they
// expect can call the matching Parse* function directly instead.
func (op *RawOperation) Decode() (interface{}, error) {
	switch op.Tag {
	case ApplicationBindRequest:
		return ParseBindRequest(op.Data)
	case ApplicationBindResponse:
		return ParseBindResponse(op.Data)
	case ApplicationUnbindRequest:
		return ParseUnbindRequest(op.Data)
	case ApplicationSearchRequest:
		return ParseSearchRequest(op.Data)
	case ApplicationSearchResultEntry:
		return ParseSearchResultEntry(op.Data)
	case ApplicationSearchResultDone:
		return ParseSearchResultDone(op.Data)
	case ApplicationModifyRequest:
		return ParseModifyRequest(op.Data)
	case ApplicationModifyResponse:
		return ParseModifyResponse(op.Data)
	case ApplicationAddRequest:
		return ParseAddRequest(op.Data)
	case ApplicationAddResponse:
		return ParseAddResponse(op.Data)
	case ApplicationDelRequest:
		return ParseDeleteRequest(op.Data)
	case ApplicationDelResponse:
		return ParseDeleteResponse(op.Data)
	case ApplicationModifyDNRequest:
		return ParseModifyDNRequest(op.Data)
	case ApplicationModifyDNResponse:
		return ParseModifyDNResponse(op.Data)
	case ApplicationCompareRequest:
		return ParseCompareRequest(op.Data)
	case ApplicationCompareResponse:
		return ParseCompareResponse(op.Data)
	case ApplicationAbandonRequest:
		return ParseAbandonRequest(op.Data)
	case ApplicationSearchResultReference:
		return ParseSearchResultReference(op.Data)
	case ApplicationExtendedRequest:
		return ParseExtendedRequest(op.Data)
	case ApplicationExtendedResponse:
		return ParseExtendedResponse(op.Data)
	case ApplicationIntermediateResponse:
		return ParseIntermediateResponse(op.Data)
	default:
		return nil, NewParseError(0, fmt.Sprintf("no decoder registered for APPLICATION %d", op.Tag), ErrUnknownResponseTag)
	}
}

// AsElement decodes the operation body into a generic, navigable BER
// element tree rather than one of the typed *Request/*Response variants.
// It is useful for an operation tag this library has no Parse* function
// for, and for logging or inspecting a message's wire shape without first
// committing to its typed meaning.
func (op *RawOperation) AsElement() (*ber.Element, error) {
	constructedFlag := ber.TypePrimitive
	if isConstructedOperation(op.Tag) {
		constructedFlag = ber.TypeConstructed
	}

	enc := ber.NewEncoder(len(op.Data) + 8)
	if err := enc.WriteTag(ber.ClassApplication, constructedFlag, op.Tag); err != nil {
		return nil, err
	}
	if err := enc.WriteLength(len(op.Data)); err != nil {
		return nil, err
	}
	enc.WriteRaw(op.Data)

	return ber.DecodeElement(enc.Bytes())
}

// EncodableOperation is any typed protocol operation that knows its own
// APPLICATION tag and how to encode its body.
type EncodableOperation interface {
	Encode() ([]byte, error)
}

// applicationTag maps a typed operation value to its APPLICATION tag number.
func applicationTag(op EncodableOperation) (int, error) {
	switch op.(type) {
	case *BindRequest:
		return ApplicationBindRequest, nil
	case *BindResponse:
		return ApplicationBindResponse, nil
	case *UnbindRequest:
		return ApplicationUnbindRequest, nil
	case *SearchRequest:
		return ApplicationSearchRequest, nil
	case *SearchResultEntry:
		return ApplicationSearchResultEntry, nil
	case *SearchResultDone:
		return ApplicationSearchResultDone, nil
	case *ModifyRequest:
		return ApplicationModifyRequest, nil
	case *ModifyResponse:
		return ApplicationModifyResponse, nil
	case *AddRequest:
		return ApplicationAddRequest, nil
	case *AddResponse:
		return ApplicationAddResponse, nil
	case *DeleteRequest:
		return ApplicationDelRequest, nil
	case *DeleteResponse:
		return ApplicationDelResponse, nil
	case *ModifyDNRequest:
		return ApplicationModifyDNRequest, nil
	case *ModifyDNResponse:
		return ApplicationModifyDNResponse, nil
	case *CompareRequest:
		return ApplicationCompareRequest, nil
	case *CompareResponse:
		return ApplicationCompareResponse, nil
	case *AbandonRequest:
		return ApplicationAbandonRequest, nil
	case *SearchResultReference:
		return ApplicationSearchResultReference, nil
	case *ExtendedRequest:
		return ApplicationExtendedRequest, nil
	case *ExtendedResponse:
		return ApplicationExtendedResponse, nil
	case *IntermediateResponse:
		return ApplicationIntermediateResponse, nil
	default:
		return 0, fmt.Errorf("ldap: unrecognized operation type %T", op)
	}
}

// NewRawOperation encodes a typed operation into a RawOperation carrying its
// APPLICATION tag, ready to be embedded in an LDAPMessage and written with
// Encode.
func NewRawOperation(op EncodableOperation) (*RawOperation, error) {
	tag, err := applicationTag(op)
	if err != nil {
		return nil, err
	}
	data, err := op.Encode()
	if err != nil {
		return nil, err
	}
	return &RawOperation{Tag: tag, Data: data}, nil
}
