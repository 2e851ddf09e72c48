package ber

import (
	"bytes"
	"errors"
	"testing"
)

func TestReadBoolean(t *testing.T) {
	cases := []struct {
		name string
		data []byte
		want bool
	}{
		{"canonical true", []byte{0x01, 0x01, 0xFF}, true},
		{"non-canonical true", []byte{0x01, 0x01, 0x01}, true},
		{"false", []byte{0x01, 0x01, 0x00}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := NewDecoder(tc.data)
			got, err := d.ReadBoolean()
			if err != nil {
				t.Fatalf("ReadBoolean: %v", err)
			}
			if got != tc.want {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestReadInteger(t *testing.T) {
	cases := []struct {
		name string
		data []byte
		want int64
	}{
		{"zero", []byte{0x02, 0x01, 0x00}, 0},
		{"127", []byte{0x02, 0x01, 0x7F}, 127},
		{"128", []byte{0x02, 0x02, 0x00, 0x80}, 128},
		{"-1", []byte{0x02, 0x01, 0xFF}, -1},
		{"-129", []byte{0x02, 0x02, 0xFF, 0x7F}, -129},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := NewDecoder(tc.data)
			got, err := d.ReadInteger()
			if err != nil {
				t.Fatalf("ReadInteger: %v", err)
			}
			if got != tc.want {
				t.Errorf("got %d, want %d", got, tc.want)
			}
		})
	}
}

func TestReadIntegerStrictRejectsNonMinimal(t *testing.T) {
	// 0x00 0x01 is a non-minimal encoding of 1 (the leading 0x00 is redundant).
	data := []byte{0x02, 0x02, 0x00, 0x01}

	lenient := NewDecoder(data)
	if _, err := lenient.ReadInteger(); err != nil {
		t.Fatalf("lenient decode should accept non-minimal integer: %v", err)
	}

	strict := NewDecoder(data).WithStrictIntegers(true)
	_, err := strict.ReadInteger()
	if !errors.Is(err, ErrNonMinimalInteger) {
		t.Errorf("expected ErrNonMinimalInteger, got %v", err)
	}
}

func TestReadOctetString(t *testing.T) {
	d := NewDecoder([]byte{0x04, 0x03, 'f', 'o', 'o'})
	got, err := d.ReadOctetString()
	if err != nil {
		t.Fatalf("ReadOctetString: %v", err)
	}
	if !bytes.Equal(got, []byte("foo")) {
		t.Errorf("got %q, want %q", got, "foo")
	}
}

func TestReadNullRejectsNonZeroLength(t *testing.T) {
	d := NewDecoder([]byte{0x05, 0x01, 0x00})
	if err := d.ReadNull(); !errors.Is(err, ErrInvalidNull) {
		t.Errorf("expected ErrInvalidNull, got %v", err)
	}
}

func TestIndefiniteLengthRejected(t *testing.T) {
	d := NewDecoder([]byte{0x30, 0x80})
	if _, err := d.ExpectSequence(); !errors.Is(err, ErrIndefiniteLength) {
		t.Errorf("expected ErrIndefiniteLength, got %v", err)
	}
}

func TestTagMismatch(t *testing.T) {
	d := NewDecoder([]byte{0x04, 0x01, 'x'})
	_, err := d.ReadInteger()
	var mismatch *TagMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected *TagMismatchError, got %T: %v", err, err)
	}
	if !errors.Is(err, ErrTagMismatch) {
		t.Errorf("expected errors.Is to match ErrTagMismatch")
	}
}

func TestReadSequenceContents(t *testing.T) {
	data := []byte{
		0x30, 0x05,
		0x02, 0x01, 0x2A,
		0x01, 0x00,
	}
	d := NewDecoder(data)
	seq, err := d.ReadSequenceContents()
	if err != nil {
		t.Fatalf("ReadSequenceContents: %v", err)
	}
	n, err := seq.ReadInteger()
	if err != nil {
		t.Fatalf("ReadInteger: %v", err)
	}
	if n != 42 {
		t.Errorf("got %d, want 42", n)
	}
	if seq.Remaining() != 2 {
		t.Errorf("expected 2 bytes remaining, got %d", seq.Remaining())
	}
}

func TestDepthLimitEnforced(t *testing.T) {
	d := NewDecoder([]byte{0x30, 0x00}).WithMaxDepth(0)
	_, err := d.ReadSequenceContents()
	if !errors.Is(err, ErrDepthExceeded) {
		t.Errorf("expected ErrDepthExceeded, got %v", err)
	}
}

func TestDepthLimitPropagatesToSubDecoders(t *testing.T) {
	// Three levels of nested SEQUENCE, with a limit of 2.
	inner := []byte{0x30, 0x00}
	middle := append([]byte{0x30, byte(len(inner))}, inner...)
	outer := append([]byte{0x30, byte(len(middle))}, middle...)

	d := NewDecoder(outer).WithMaxDepth(2)
	lvl1, err := d.ReadSequenceContents()
	if err != nil {
		t.Fatalf("level 1: %v", err)
	}
	lvl2, err := lvl1.ReadSequenceContents()
	if err != nil {
		t.Fatalf("level 2: %v", err)
	}
	_, err = lvl2.ReadSequenceContents()
	if !errors.Is(err, ErrDepthExceeded) {
		t.Errorf("expected ErrDepthExceeded at level 3, got %v", err)
	}
}

func TestExpectContextAndApplicationTag(t *testing.T) {
	d := NewDecoder([]byte{0xA0, 0x01, 0x05})
	length, err := d.ExpectContextTag(0)
	if err != nil {
		t.Fatalf("ExpectContextTag: %v", err)
	}
	if length != 1 {
		t.Errorf("got length %d, want 1", length)
	}

	d2 := NewDecoder([]byte{0x60, 0x00})
	if _, err := d2.ExpectApplicationTag(0); err != nil {
		t.Fatalf("ExpectApplicationTag: %v", err)
	}
}

func TestIsContextAndApplicationTag(t *testing.T) {
	d := NewDecoder([]byte{0xA3, 0x00})
	if !d.IsContextTag(3) {
		t.Error("expected IsContextTag(3) to be true")
	}
	if d.IsContextTag(4) {
		t.Error("expected IsContextTag(4) to be false")
	}

	d2 := NewDecoder([]byte{0x64, 0x00})
	if !d2.IsApplicationTag(4) {
		t.Error("expected IsApplicationTag(4) to be true")
	}
}

func TestTruncatedDataReturnsUnexpectedEOF(t *testing.T) {
	d := NewDecoder([]byte{0x04, 0x05, 'a', 'b'})
	_, err := d.ReadOctetString()
	if !errors.Is(err, ErrUnexpectedEOF) {
		t.Errorf("expected ErrUnexpectedEOF, got %v", err)
	}
}

func TestRoundTripEncodeDecode(t *testing.T) {
	e := NewEncoder(0)
	pos := e.BeginSequence()
	e.WriteInteger(99)
	e.WriteOctetString([]byte("cn=admin,dc=example,dc=com"))
	e.WriteBoolean(true)
	if err := e.EndSequence(pos); err != nil {
		t.Fatalf("EndSequence: %v", err)
	}

	d := NewDecoder(e.Bytes())
	seq, err := d.ReadSequenceContents()
	if err != nil {
		t.Fatalf("ReadSequenceContents: %v", err)
	}
	n, err := seq.ReadInteger()
	if err != nil || n != 99 {
		t.Fatalf("ReadInteger: got %d, err %v", n, err)
	}
	dn, err := seq.ReadOctetString()
	if err != nil || string(dn) != "cn=admin,dc=example,dc=com" {
		t.Fatalf("ReadOctetString: got %q, err %v", dn, err)
	}
	b, err := seq.ReadBoolean()
	if err != nil || !b {
		t.Fatalf("ReadBoolean: got %v, err %v", b, err)
	}
	if seq.Remaining() != 0 {
		t.Errorf("expected 0 bytes remaining, got %d", seq.Remaining())
	}
}
