package ldap

import "testing"

func TestCompareRequestRoundTrip(t *testing.T) {
	req := &CompareRequest{DN: "uid=jdoe,dc=example,dc=com", Attribute: "mail", Value: []byte("jdoe@example.com")}

	encoded, err := req.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	decoded, err := ParseCompareRequest(encoded)
	if err != nil {
		t.Fatalf("ParseCompareRequest: %v", err)
	}
	if decoded.DN != req.DN || decoded.Attribute != req.Attribute || string(decoded.Value) != string(req.Value) {
		t.Errorf("decoded = %+v, want %+v", decoded, req)
	}
}

func TestCompareRequestValidate(t *testing.T) {
	if err := (&CompareRequest{}).Validate(); err != ErrEmptyCompareDN {
		t.Fatalf("err = %v, want ErrEmptyCompareDN", err)
	}
	if err := (&CompareRequest{DN: "dc=example,dc=com"}).Validate(); err != ErrEmptyCompareAttribute {
		t.Fatalf("err = %v, want ErrEmptyCompareAttribute", err)
	}
}

func TestCompareResponseRoundTrip(t *testing.T) {
	resp := &CompareResponse{LDAPResult: LDAPResult{ResultCode: ResultCompareTrue}}
	encoded, err := resp.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decoded, err := ParseCompareResponse(encoded)
	if err != nil {
		t.Fatalf("ParseCompareResponse: %v", err)
	}
	if decoded.ResultCode != ResultCompareTrue {
		t.Errorf("ResultCode = %v, want ResultCompareTrue", decoded.ResultCode)
	}
}
