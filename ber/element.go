package ber

// Element is a single decoded BER TLV value materialized into memory: its
// tag, its raw content octets, and, if it is constructed, the child
// elements found within that content. Unlike Decoder, which consumes a
// buffer once while handing nested content to sub-decoders, an Element can
// be held onto, walked with Children, and re-serialized with Encode after
// the fact — useful for logging, tests, and callers that want to inspect a
// message tree without knowing its shape ahead of time.
type Element struct {
	Class       int
	Constructed bool
	Tag         int
	Value       []byte
	kids        []*Element
}

// Children returns the element's nested elements in wire order. It returns
// nil for a primitive element; a constructed element with empty content
// returns an empty, non-nil slice.
func (e *Element) Children() []*Element {
	return e.kids
}

// Bytes returns the element's raw content octets: the value of a primitive
// element, or the concatenated encoding of a constructed element's children.
func (e *Element) Bytes() []byte {
	return e.Value
}

// Type returns the element's identifier octet's tag number together with
// its class and constructed bit, mirroring what ReadTag reports while
// streaming. Long-form (>=31) tag numbers, such as those used by some
// control values, are returned in full rather than truncated to a single
// octet.
func (e *Element) Type() (class int, constructed bool, number int) {
	return e.Class, e.Constructed, e.Tag
}

// DecodeElement decodes exactly one top-level BER TLV value from data:
// tag, length, and content. Decoding is strict regardless of any decoder
// configured elsewhere in this package: trailing bytes after the declared
// length are rejected rather than silently ignored, and — recursively — a
// child's declared length is rejected if it would run past the end of its
// parent's content. Constructed values are decoded into Children up to
// DefaultMaxDepth levels of nesting; deeper input fails with
// ErrDepthExceeded.
func DecodeElement(data []byte) (*Element, error) {
	el, n, err := decodeElement(data, 0, DefaultMaxDepth)
	if err != nil {
		return nil, err
	}
	if n != len(data) {
		return nil, NewDecodeError(n, "trailing data after element", ErrTrailingData)
	}
	return el, nil
}

// decodeElement decodes a single TLV starting at the front of data and
// returns it along with the number of bytes it consumed. It never consumes
// bytes beyond what the declared length allows its caller to hand it.
func decodeElement(data []byte, depth, maxDepth int) (*Element, int, error) {
	if depth > maxDepth {
		return nil, 0, NewDecodeError(0, "element nesting too deep", ErrDepthExceeded)
	}

	d := NewDecoder(data)
	class, constructed, number, err := d.ReadTag()
	if err != nil {
		return nil, 0, err
	}

	length, err := d.ReadLength()
	if err != nil {
		return nil, 0, err
	}

	headerLen := d.Offset()
	if length < 0 || headerLen+length > len(data) {
		return nil, 0, NewDecodeError(headerLen, "element length exceeds available data", ErrInvalidLength)
	}

	value := data[headerLen : headerLen+length]
	el := &Element{Class: class, Constructed: constructed != 0, Tag: number, Value: value}

	if el.Constructed {
		children, err := decodeChildren(value, depth+1, maxDepth)
		if err != nil {
			return nil, 0, err
		}
		el.kids = children
	}

	return el, headerLen + length, nil
}

// decodeChildren decodes a run of sibling TLVs that together fill content
// exactly; a child whose declared length would spill past the end of
// content is rejected rather than clamped.
func decodeChildren(content []byte, depth, maxDepth int) ([]*Element, error) {
	children := make([]*Element, 0)
	offset := 0
	for offset < len(content) {
		child, n, err := decodeElement(content[offset:], depth, maxDepth)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
		offset += n
	}
	return children, nil
}

// Encode re-serializes the element to canonical BER: identifier octets,
// definite-form length, and content. A constructed element is re-encoded
// from its current Children rather than its original Value, so editing
// Children before calling Encode changes the output.
func (e *Element) Encode() ([]byte, error) {
	enc := NewEncoder(len(e.Value) + 8)

	content := e.Value
	if e.Constructed {
		var buf []byte
		for _, child := range e.kids {
			b, err := child.Encode()
			if err != nil {
				return nil, err
			}
			buf = append(buf, b...)
		}
		content = buf
	}

	constructedFlag := 0
	if e.Constructed {
		constructedFlag = TypeConstructed
	}
	if err := enc.WriteTag(e.Class, constructedFlag, e.Tag); err != nil {
		return nil, err
	}
	if err := enc.WriteLength(len(content)); err != nil {
		return nil, err
	}
	enc.buf = append(enc.buf, content...)

	return enc.Bytes(), nil
}
