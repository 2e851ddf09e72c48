package ldap

import "testing"

func TestModifyDNRequestRoundTripWithNewSuperior(t *testing.T) {
	req := &ModifyDNRequest{
		Entry:        "cn=old,ou=people,dc=example,dc=com",
		NewRDN:       "cn=new",
		DeleteOldRDN: true,
		NewSuperior:  "ou=archive,dc=example,dc=com",
	}

	encoded, err := req.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	decoded, err := ParseModifyDNRequest(encoded)
	if err != nil {
		t.Fatalf("ParseModifyDNRequest: %v", err)
	}
	if decoded.Entry != req.Entry || decoded.NewRDN != req.NewRDN || decoded.DeleteOldRDN != req.DeleteOldRDN {
		t.Errorf("decoded = %+v, want %+v", decoded, req)
	}
	if decoded.NewSuperior != req.NewSuperior {
		t.Errorf("NewSuperior = %q, want %q", decoded.NewSuperior, req.NewSuperior)
	}
	if !decoded.HasNewSuperior() {
		t.Error("HasNewSuperior() = false, want true")
	}
}

func TestModifyDNRequestWithoutNewSuperior(t *testing.T) {
	req := &ModifyDNRequest{Entry: "cn=old,dc=example,dc=com", NewRDN: "cn=new", DeleteOldRDN: false}

	encoded, err := req.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	decoded, err := ParseModifyDNRequest(encoded)
	if err != nil {
		t.Fatalf("ParseModifyDNRequest: %v", err)
	}
	if decoded.HasNewSuperior() {
		t.Error("HasNewSuperior() = true, want false")
	}
}

func TestModifyDNRequestValidate(t *testing.T) {
	if err := (&ModifyDNRequest{}).Validate(); err != ErrEmptyModifyDNEntry {
		t.Fatalf("err = %v, want ErrEmptyModifyDNEntry", err)
	}
	if err := (&ModifyDNRequest{Entry: "dc=example,dc=com"}).Validate(); err != ErrEmptyNewRDN {
		t.Fatalf("err = %v, want ErrEmptyNewRDN", err)
	}
}
