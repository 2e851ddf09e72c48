package ldap

import "testing"

func TestSimpleBindRequestRoundTrip(t *testing.T) {
	req := NewSimpleBindRequest(3, "cn=admin,dc=example,dc=com", []byte("secret"))

	encoded, err := req.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decoded, err := ParseBindRequest(encoded)
	if err != nil {
		t.Fatalf("ParseBindRequest: %v", err)
	}
	if decoded.Version != 3 || decoded.Name != req.Name || decoded.AuthMethod != AuthMethodSimple {
		t.Errorf("decoded = %+v", decoded)
	}
	if string(decoded.SimplePassword) != "secret" {
		t.Errorf("SimplePassword = %q, want %q", decoded.SimplePassword, "secret")
	}
}

func TestSASLBindRequestRoundTrip(t *testing.T) {
	req := NewSASLBindRequest(3, "", "DIGEST-MD5", []byte("initial-response"))

	encoded, err := req.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decoded, err := ParseBindRequest(encoded)
	if err != nil {
		t.Fatalf("ParseBindRequest: %v", err)
	}
	if decoded.AuthMethod != AuthMethodSASL {
		t.Fatalf("AuthMethod = %v, want SASL", decoded.AuthMethod)
	}
	if decoded.SASLCredentials.Mechanism != "DIGEST-MD5" {
		t.Errorf("Mechanism = %q", decoded.SASLCredentials.Mechanism)
	}
	if string(decoded.SASLCredentials.Credentials) != "initial-response" {
		t.Errorf("Credentials = %q", decoded.SASLCredentials.Credentials)
	}
}

func TestBindRequestInvalidVersionRejected(t *testing.T) {
	req := NewSimpleBindRequest(0, "", nil)
	if _, err := req.Encode(); err != ErrInvalidBindVersion {
		t.Fatalf("err = %v, want ErrInvalidBindVersion", err)
	}
}

func TestBindRequestIsAnonymous(t *testing.T) {
	anon := NewSimpleBindRequest(3, "", nil)
	if !anon.IsAnonymous() {
		t.Error("expected anonymous bind to report IsAnonymous() = true")
	}

	named := NewSimpleBindRequest(3, "cn=admin,dc=example,dc=com", []byte("secret"))
	if named.IsAnonymous() {
		t.Error("expected named bind to report IsAnonymous() = false")
	}
}
