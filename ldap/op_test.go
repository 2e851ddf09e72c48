package ldap

import "testing"

func TestRawOperationDecodeDispatchesOnTag(t *testing.T) {
	bindReq := NewSimpleBindRequest(3, "cn=admin,dc=example,dc=com", []byte("secret"))
	data, err := bindReq.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	raw := &RawOperation{Tag: ApplicationBindRequest, Data: data}
	decoded, err := raw.Decode()
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	got, ok := decoded.(*BindRequest)
	if !ok {
		t.Fatalf("decoded type = %T, want *BindRequest", decoded)
	}
	if got.Name != bindReq.Name {
		t.Errorf("Name = %q, want %q", got.Name, bindReq.Name)
	}
}

func TestRawOperationDecodeUnknownTag(t *testing.T) {
	raw := &RawOperation{Tag: 99, Data: []byte{}}
	if _, err := raw.Decode(); err == nil {
		t.Fatal("expected error decoding unknown APPLICATION tag")
	}
}

func TestNewRawOperationRoundTripsThroughLDAPMessage(t *testing.T) {
	searchReq := &SearchRequest{
		BaseObject: "dc=example,dc=com",
		Scope:      ScopeWholeSubtree,
		Filter:     &Filter{Tag: FilterTagPresent, Attribute: "objectClass"},
	}

	raw, err := NewRawOperation(searchReq)
	if err != nil {
		t.Fatalf("NewRawOperation: %v", err)
	}
	if raw.Tag != ApplicationSearchRequest {
		t.Errorf("Tag = %d, want %d", raw.Tag, ApplicationSearchRequest)
	}

	msg := &LDAPMessage{MessageID: 7, Operation: raw}
	encoded, err := msg.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	decodedMsg, err := ParseLDAPMessage(encoded)
	if err != nil {
		t.Fatalf("ParseLDAPMessage: %v", err)
	}
	if decodedMsg.MessageID != 7 {
		t.Errorf("MessageID = %d, want 7", decodedMsg.MessageID)
	}
	if decodedMsg.OperationType() != ApplicationSearchRequest {
		t.Errorf("OperationType = %v, want SearchRequest", decodedMsg.OperationType())
	}

	decodedOp, err := decodedMsg.Operation.Decode()
	if err != nil {
		t.Fatalf("Operation.Decode: %v", err)
	}
	gotReq, ok := decodedOp.(*SearchRequest)
	if !ok {
		t.Fatalf("decoded type = %T, want *SearchRequest", decodedOp)
	}
	if gotReq.BaseObject != searchReq.BaseObject {
		t.Errorf("BaseObject = %q, want %q", gotReq.BaseObject, searchReq.BaseObject)
	}
}

func TestNewRawOperationUnknownType(t *testing.T) {
	if _, err := NewRawOperation(&notAnOperation{}); err == nil {
		t.Fatal("expected error for a type with no registered APPLICATION tag")
	}
}

type notAnOperation struct{}

func (*notAnOperation) Encode() ([]byte, error) { return nil, nil }
