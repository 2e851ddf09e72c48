package ldap

import (
	"bytes"
	"testing"
)

func TestExtendedRequestRoundTrip(t *testing.T) {
	req := NewExtendedRequest("1.3.6.1.4.1.4203.1.11.1", []byte("payload"))

	encoded, err := req.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	decoded, err := ParseExtendedRequest(encoded)
	if err != nil {
		t.Fatalf("ParseExtendedRequest: %v", err)
	}

	if decoded.RequestName != req.RequestName {
		t.Errorf("RequestName = %q, want %q", decoded.RequestName, req.RequestName)
	}
	if !bytes.Equal(decoded.RequestValue, req.RequestValue) {
		t.Errorf("RequestValue = %q, want %q", decoded.RequestValue, req.RequestValue)
	}
}

func TestExtendedRequestNoValue(t *testing.T) {
	req := NewExtendedRequest("1.3.6.1.4.1.1466.20037", nil)

	encoded, err := req.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	decoded, err := ParseExtendedRequest(encoded)
	if err != nil {
		t.Fatalf("ParseExtendedRequest: %v", err)
	}
	if decoded.RequestValue != nil {
		t.Errorf("RequestValue = %v, want nil", decoded.RequestValue)
	}
}

func TestExtendedResponseRoundTrip(t *testing.T) {
	resp := &ExtendedResponse{
		LDAPResult:    NewSuccessResult(),
		ResponseName:  "1.3.6.1.4.1.4203.1.11.1",
		ResponseValue: []byte("result"),
	}

	encoded, err := resp.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	decoded, err := ParseExtendedResponse(encoded)
	if err != nil {
		t.Fatalf("ParseExtendedResponse: %v", err)
	}

	if decoded.ResultCode != ResultSuccess {
		t.Errorf("ResultCode = %v, want Success", decoded.ResultCode)
	}
	if decoded.ResponseName != resp.ResponseName {
		t.Errorf("ResponseName = %q, want %q", decoded.ResponseName, resp.ResponseName)
	}
	if !bytes.Equal(decoded.ResponseValue, resp.ResponseValue) {
		t.Errorf("ResponseValue = %q, want %q", decoded.ResponseValue, resp.ResponseValue)
	}
}

func TestExtendedResponseWithoutOptionalFields(t *testing.T) {
	resp := &ExtendedResponse{LDAPResult: NewErrorResult(ResultOperationsError, "boom")}

	encoded, err := resp.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	decoded, err := ParseExtendedResponse(encoded)
	if err != nil {
		t.Fatalf("ParseExtendedResponse: %v", err)
	}
	if decoded.ResponseName != "" || decoded.ResponseValue != nil {
		t.Errorf("expected no optional fields, got name=%q value=%q", decoded.ResponseName, decoded.ResponseValue)
	}
}
