package ldap

import (
	"github.com/ldapwire/ldapcore/ber"
)

// ParseLDAPMessage parses a BER-encoded LDAPMessage envelope, RFC 4511
// Section 4.1.1. Controls (if present) are decoded generically here; giving
// them typed shape is the control registry's job (see ResolveControls).
func ParseLDAPMessage(data []byte) (*LDAPMessage, error) {
	if len(data) == 0 {
		return nil, ErrEmptyMessage
	}

	decoder := ber.NewDecoder(data)

	seqLength, err := decoder.ExpectSequence()
	if err != nil {
		return nil, NewParseError(0, "expected SEQUENCE for LDAPMessage", err)
	}

	seqContentStart := decoder.Offset()
	seqContentEnd := seqContentStart + seqLength

	msgID, err := decoder.ReadInteger()
	if err != nil {
		return nil, NewParseError(decoder.Offset(), "failed to read messageID", err)
	}
	if msgID < MinMessageID || msgID > MaxMessageID {
		return nil, ErrInvalidMessageID
	}

	opStartOffset := decoder.Offset()

	class, _, tagNum, err := decoder.ReadTag()
	if err != nil {
		return nil, NewParseError(opStartOffset, "failed to read protocolOp tag", err)
	}
	if class != ber.ClassApplication {
		return nil, NewParseError(opStartOffset, "protocolOp must have APPLICATION tag class", ErrInvalidOperation)
	}

	opLength, err := decoder.ReadLength()
	if err != nil {
		return nil, NewParseError(decoder.Offset(), "failed to read protocolOp length", err)
	}

	opContentStart := decoder.Offset()
	opContentEnd := opContentStart + opLength
	if opContentEnd > len(data) {
		return nil, NewParseError(opContentStart, "truncated protocolOp data", ber.ErrUnexpectedEOF)
	}

	opData := make([]byte, opLength)
	copy(opData, data[opContentStart:opContentEnd])

	msg := &LDAPMessage{
		MessageID: int(msgID),
		Operation: &RawOperation{Tag: tagNum, Data: opData},
	}

	if opContentEnd < seqContentEnd {
		remainingData := data[opContentEnd:seqContentEnd]
		if len(remainingData) > 0 {
			controlsDecoder := ber.NewDecoder(remainingData)
			if controlsDecoder.IsContextTag(ContextTagControls) {
				controls, err := parseControls(controlsDecoder)
				if err != nil {
					return nil, NewParseError(opContentEnd, "failed to parse controls", err)
				}
				msg.Controls = controls
			}
		}
	}

	return msg, nil
}

// parseControls parses the [0] Controls field. Controls ::= SEQUENCE OF
// Control, but some clients in the wild send bare Control SEQUENCE(s)
// without the wrapper; both forms are accepted defensively.
func parseControls(decoder *ber.Decoder) ([]Control, error) {
	ctrlSeqLength, err := decoder.ExpectContextTag(ContextTagControls)
	if err != nil {
		return nil, err
	}
	if ctrlSeqLength == 0 {
		return nil, nil
	}

	class, _, tagNum, peekErr := decoder.PeekTag()
	if peekErr != nil {
		return nil, peekErr
	}

	var controls []Control

	if class != ber.ClassUniversal || tagNum != ber.TagSequence {
		return nil, NewParseError(decoder.Offset(), "expected SEQUENCE for controls", nil)
	}

	startOffset := decoder.Offset()
	seqLength, err := decoder.ExpectSequence()
	if err != nil {
		return nil, err
	}
	seqEnd := decoder.Offset() + seqLength

	if decoder.Remaining() > 0 {
		innerClass, _, innerTag, _ := decoder.PeekTag()
		if innerClass == ber.ClassUniversal && innerTag == ber.TagOctetString {
			// The outer SEQUENCE was a bare Control, not a SEQUENCE OF wrapper.
			decoder.SetOffset(startOffset)
			ctrl, err := parseControl(decoder)
			if err != nil {
				return nil, err
			}
			controls = append(controls, ctrl)
			for decoder.Remaining() > 0 {
				ctrl, err := parseControl(decoder)
				if err != nil {
					break
				}
				controls = append(controls, ctrl)
			}
			return controls, nil
		}
	}

	for decoder.Offset() < seqEnd && decoder.Remaining() > 0 {
		ctrl, err := parseControl(decoder)
		if err != nil {
			return nil, err
		}
		controls = append(controls, ctrl)
	}

	return controls, nil
}

// parseControl parses a single Control SEQUENCE.
func parseControl(decoder *ber.Decoder) (Control, error) {
	ctrl := Control{Criticality: false}

	ctrlSeqDecoder, err := decoder.ReadSequenceContents()
	if err != nil {
		return ctrl, err
	}

	oidBytes, err := ctrlSeqDecoder.ReadOctetString()
	if err != nil {
		return ctrl, NewParseError(ctrlSeqDecoder.Offset(), "failed to read control OID", err)
	}
	ctrl.OID = string(oidBytes)

	if ctrlSeqDecoder.Remaining() > 0 {
		class, _, tagNum, err := ctrlSeqDecoder.PeekTag()
		if err == nil && class == ber.ClassUniversal && tagNum == ber.TagBoolean {
			criticality, err := ctrlSeqDecoder.ReadBoolean()
			if err != nil {
				return ctrl, NewParseError(ctrlSeqDecoder.Offset(), "failed to read control criticality", err)
			}
			ctrl.Criticality = criticality
		}
	}

	if ctrlSeqDecoder.Remaining() > 0 {
		class, _, tagNum, err := ctrlSeqDecoder.PeekTag()
		if err == nil && class == ber.ClassUniversal && tagNum == ber.TagOctetString {
			value, err := ctrlSeqDecoder.ReadOctetString()
			if err != nil {
				return ctrl, NewParseError(ctrlSeqDecoder.Offset(), "failed to read control value", err)
			}
			ctrl.Value = value
		}
	}

	return ctrl, nil
}

// Encode encodes the LDAPMessage to BER.
func (m *LDAPMessage) Encode() ([]byte, error) {
	if m.MessageID < MinMessageID || m.MessageID > MaxMessageID {
		return nil, ErrInvalidMessageID
	}
	if m.Operation == nil {
		return nil, ErrMissingOperation
	}

	encoder := ber.NewEncoder(256)

	seqPos := encoder.BeginSequence()

	if err := encoder.WriteInteger(int64(m.MessageID)); err != nil {
		return nil, err
	}

	constructed := isConstructedOperation(m.Operation.Tag)
	appPos := encoder.WriteApplicationTag(m.Operation.Tag, constructed)
	encoder.WriteRaw(m.Operation.Data)
	if err := encoder.EndApplicationTag(appPos); err != nil {
		return nil, err
	}

	if len(m.Controls) > 0 {
		if err := encodeControls(encoder, m.Controls); err != nil {
			return nil, err
		}
	}

	if err := encoder.EndSequence(seqPos); err != nil {
		return nil, err
	}

	return encoder.Bytes(), nil
}

// isConstructedOperation reports whether an operation's APPLICATION tag
// wraps a constructed (SEQUENCE) or primitive body.
func isConstructedOperation(tag int) bool {
	switch tag {
	case ApplicationUnbindRequest, ApplicationAbandonRequest, ApplicationDelRequest:
		return false
	default:
		return true
	}
}

func encodeControls(encoder *ber.Encoder, controls []Control) error {
	ctxPos := encoder.WriteContextTag(ContextTagControls, true)

	seqPos := encoder.BeginSequence()
	for _, ctrl := range controls {
		if err := encodeControl(encoder, ctrl); err != nil {
			return err
		}
	}
	if err := encoder.EndSequence(seqPos); err != nil {
		return err
	}

	return encoder.EndContextTag(ctxPos)
}

func encodeControl(encoder *ber.Encoder, ctrl Control) error {
	seqPos := encoder.BeginSequence()

	if err := encoder.WriteOctetString([]byte(ctrl.OID)); err != nil {
		return err
	}

	if ctrl.Criticality {
		if err := encoder.WriteBoolean(true); err != nil {
			return err
		}
	}

	if len(ctrl.Value) > 0 {
		if err := encoder.WriteOctetString(ctrl.Value); err != nil {
			return err
		}
	}

	return encoder.EndSequence(seqPos)
}
