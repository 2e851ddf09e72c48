package ldap

import "testing"

func TestAddRequestRoundTrip(t *testing.T) {
	req := &AddRequest{
		Entry: "cn=new,dc=example,dc=com",
		Attributes: []Attribute{
			{Type: "objectClass", Values: [][]byte{[]byte("top"), []byte("person")}},
			{Type: "cn", Values: [][]byte{[]byte("new")}},
		},
	}

	encoded, err := req.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	decoded, err := ParseAddRequest(encoded)
	if err != nil {
		t.Fatalf("ParseAddRequest: %v", err)
	}
	if decoded.Entry != req.Entry {
		t.Errorf("Entry = %q, want %q", decoded.Entry, req.Entry)
	}
	if len(decoded.Attributes) != 2 {
		t.Fatalf("Attributes = %+v", decoded.Attributes)
	}

	values := decoded.GetAttributeStringValues("objectClass")
	if len(values) != 2 || values[0] != "top" || values[1] != "person" {
		t.Errorf("objectClass values = %v", values)
	}
}

func TestAddRequestEmptyEntryRejected(t *testing.T) {
	req := &AddRequest{Entry: ""}
	if _, err := req.Encode(); err != ErrEmptyEntry {
		t.Fatalf("err = %v, want ErrEmptyEntry", err)
	}
}
