package ber

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

func TestReadFrameShortForm(t *testing.T) {
	data := []byte{0x30, 0x05, 0x02, 0x01, 0x01, 0x01, 0x00}
	r := bytes.NewReader(append(append([]byte{}, data...), 0xDE, 0xAD))
	frame, err := ReadFrame(r, 0)
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if !bytes.Equal(frame, data) {
		t.Errorf("got % x, want % x", frame, data)
	}
	// trailing bytes must be left untouched in r
	rest, _ := io.ReadAll(r)
	if !bytes.Equal(rest, []byte{0xDE, 0xAD}) {
		t.Errorf("expected trailing bytes preserved, got % x", rest)
	}
}

func TestReadFrameLongForm(t *testing.T) {
	content := bytes.Repeat([]byte{0x41}, 200)
	var buf bytes.Buffer
	buf.WriteByte(0x04)
	buf.WriteByte(0x81)
	buf.WriteByte(200)
	buf.Write(content)

	frame, err := ReadFrame(&buf, 0)
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if len(frame) != 3+200 {
		t.Fatalf("got frame length %d, want %d", len(frame), 3+200)
	}
}

func TestReadFrameRejectsOversized(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteByte(0x04)
	buf.WriteByte(0x82)
	buf.WriteByte(0xFF)
	buf.WriteByte(0xFF)
	buf.Write(bytes.Repeat([]byte{0x00}, 10))

	_, err := ReadFrame(&buf, 100)
	if !errors.Is(err, ErrFrameTooLarge) {
		t.Errorf("expected ErrFrameTooLarge, got %v", err)
	}
}

func TestReadFrameEOFOnEmptyStream(t *testing.T) {
	_, err := ReadFrame(bytes.NewReader(nil), 0)
	if !errors.Is(err, io.EOF) {
		t.Errorf("expected io.EOF, got %v", err)
	}
}

func TestReadFrameRejectsIndefiniteLength(t *testing.T) {
	r := bytes.NewReader([]byte{0x30, 0x80})
	_, err := ReadFrame(r, 0)
	if !errors.Is(err, ErrIndefiniteLength) {
		t.Errorf("expected ErrIndefiniteLength, got %v", err)
	}
}

func TestReadFrameThenDecode(t *testing.T) {
	e := NewEncoder(0)
	pos := e.BeginSequence()
	e.WriteInteger(1)
	e.WriteOctetString([]byte("hello"))
	if err := e.EndSequence(pos); err != nil {
		t.Fatalf("EndSequence: %v", err)
	}

	r := bytes.NewReader(e.Bytes())
	frame, err := ReadFrame(r, 0)
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}

	d := NewDecoder(frame)
	seq, err := d.ReadSequenceContents()
	if err != nil {
		t.Fatalf("ReadSequenceContents: %v", err)
	}
	n, err := seq.ReadInteger()
	if err != nil || n != 1 {
		t.Fatalf("ReadInteger: got %d, err %v", n, err)
	}
	s, err := seq.ReadOctetString()
	if err != nil || string(s) != "hello" {
		t.Fatalf("ReadOctetString: got %q, err %v", s, err)
	}
}
