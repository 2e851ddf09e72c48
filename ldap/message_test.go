package ldap

import "testing"

func TestModifyRequestRoundTripViaLDAPMessage(t *testing.T) {
	req := &ModifyRequest{Object: "dc=example,dc=com"}
	req.AddStringModification(ModifyOperationReplace, "mail", "a@b")

	raw, err := NewRawOperation(req)
	if err != nil {
		t.Fatalf("NewRawOperation: %v", err)
	}
	if raw.Tag != ApplicationModifyRequest {
		t.Fatalf("Tag = %d, want %d", raw.Tag, ApplicationModifyRequest)
	}

	msg := &LDAPMessage{MessageID: 1, Operation: raw}
	encoded, err := msg.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	decoded, err := ParseLDAPMessage(encoded)
	if err != nil {
		t.Fatalf("ParseLDAPMessage: %v", err)
	}
	if decoded.OperationType() != ApplicationModifyRequest {
		t.Fatalf("OperationType = %v, want ModifyRequest", decoded.OperationType())
	}

	op, err := decoded.Operation.Decode()
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	gotReq := op.(*ModifyRequest)
	if gotReq.Object != "dc=example,dc=com" {
		t.Errorf("Object = %q", gotReq.Object)
	}
	if len(gotReq.Changes) != 1 || gotReq.Changes[0].Operation != ModifyOperationReplace {
		t.Fatalf("Changes = %+v", gotReq.Changes)
	}
	if gotReq.Changes[0].Attribute.Type != "mail" || string(gotReq.Changes[0].Attribute.Values[0]) != "a@b" {
		t.Errorf("Attribute = %+v", gotReq.Changes[0].Attribute)
	}
}

func TestLDAPMessageWithUnknownCriticalControlRejectedAtResolve(t *testing.T) {
	msg := &LDAPMessage{
		MessageID: 2,
		Operation: &RawOperation{Tag: ApplicationUnbindRequest, Data: []byte{}},
		Controls: []Control{
			{OID: "1.2.3.4.5.unregistered", Criticality: true},
		},
	}

	_, err := ResolveControls(DefaultRegistry, msg.Controls)
	if err == nil {
		t.Fatal("expected an error resolving an unrecognized critical control")
	}
}

func TestLDAPMessageInvalidMessageIDRejected(t *testing.T) {
	msg := &LDAPMessage{
		MessageID: -1,
		Operation: &RawOperation{Tag: ApplicationUnbindRequest, Data: []byte{}},
	}
	if _, err := msg.Encode(); err != ErrInvalidMessageID {
		t.Fatalf("Encode error = %v, want ErrInvalidMessageID", err)
	}
}

func TestParseLDAPMessageEmptyData(t *testing.T) {
	if _, err := ParseLDAPMessage(nil); err != ErrEmptyMessage {
		t.Fatalf("err = %v, want ErrEmptyMessage", err)
	}
}
