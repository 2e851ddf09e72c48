package ldap

import (
	"errors"

	"github.com/google/uuid"

	"github.com/ldapwire/ldapcore/ber"
)

// Content Synchronization Operation control and message OIDs, RFC 4533.
const (
	OIDSyncRequestControl = "1.3.6.1.4.1.4203.1.9.1.1"
	OIDSyncStateControl   = "1.3.6.1.4.1.4203.1.9.1.2"
	OIDSyncDoneControl    = "1.3.6.1.4.1.4203.1.9.1.3"
	OIDSyncInfoMessage    = "1.3.6.1.4.1.4203.1.9.1.4"
)

// SyncRequestMode selects refresh-only or persistent content synchronization.
type SyncRequestMode int

const (
	SyncRequestModeRefreshOnly       SyncRequestMode = 1
	SyncRequestModeRefreshAndPersist SyncRequestMode = 3
)

var (
	// ErrInvalidSyncMode is returned when a SyncRequestControl's mode is not
	// one of refreshOnly(1) or refreshAndPersist(3).
	ErrInvalidSyncMode = errors.New("ldap: invalid sync request mode")

	// ErrInvalidSyncState is returned when a SyncStateControl's state tag is
	// not one of present(0), add(1), modify(2), delete(3).
	ErrInvalidSyncState = errors.New("ldap: invalid sync state")

	// ErrInvalidEntryUUID is returned when a SyncStateControl's entryUUID is
	// not exactly 16 bytes.
	ErrInvalidEntryUUID = errors.New("ldap: entryUUID must be 16 bytes")

	// ErrDuplicateSyncField is returned when a sync control's value encodes
	// the same optional field twice.
	ErrDuplicateSyncField = errors.New("ldap: duplicate field in sync control value")

	// ErrUnexpectedSyncField is returned when a sync control's value
	// contains a universal type that isn't part of its defined shape.
	ErrUnexpectedSyncField = errors.New("ldap: unexpected type in sync control value")
)

// SyncRequestControl is the client-to-server control requesting content
// synchronization, RFC 4533 Section 2.2:
//
//	syncRequestValue ::= SEQUENCE {
//	    mode            ENUMERATED { refreshOnly (1), refreshAndPersist (3) },
//	    cookie          syncCookie OPTIONAL,
//	    reloadHint      BOOLEAN DEFAULT FALSE
//	}
type SyncRequestControl struct {
	Mode       SyncRequestMode
	Cookie     []byte
	ReloadHint bool
}

// Encode serializes the control value (the SEQUENCE carried as the
// Control's OCTET STRING, not the Control envelope itself).
func (c *SyncRequestControl) Encode() ([]byte, error) {
	if c.Mode != SyncRequestModeRefreshOnly && c.Mode != SyncRequestModeRefreshAndPersist {
		return nil, ErrInvalidSyncMode
	}

	enc := ber.NewEncoder(32)
	seqPos := enc.BeginSequence()

	if err := enc.WriteEnumerated(int64(c.Mode)); err != nil {
		return nil, err
	}
	if c.Cookie != nil {
		if err := enc.WriteOctetString(c.Cookie); err != nil {
			return nil, err
		}
	}
	if c.ReloadHint {
		if err := enc.WriteBoolean(true); err != nil {
			return nil, err
		}
	}

	if err := enc.EndSequence(seqPos); err != nil {
		return nil, err
	}
	return enc.Bytes(), nil
}

// ToControl wraps the encoded value as a wire Control.
func (c *SyncRequestControl) ToControl(criticality bool) (Control, error) {
	value, err := c.Encode()
	if err != nil {
		return Control{}, err
	}
	return Control{OID: OIDSyncRequestControl, Criticality: criticality, Value: value}, nil
}

func decodeSyncRequestControl(_ string, _ bool, value []byte) (interface{}, error) {
	d := ber.NewDecoder(value)
	seq, err := d.ReadSequenceContents()
	if err != nil {
		return nil, err
	}

	mode, err := seq.ReadEnumerated()
	if err != nil {
		return nil, err
	}
	if mode != int64(SyncRequestModeRefreshOnly) && mode != int64(SyncRequestModeRefreshAndPersist) {
		return nil, ErrInvalidSyncMode
	}

	ctrl := &SyncRequestControl{Mode: SyncRequestMode(mode)}

	if seq.Remaining() > 0 {
		class, _, tag, _ := seq.PeekTag()
		if class == ber.ClassUniversal && tag == ber.TagOctetString {
			cookie, err := seq.ReadOctetString()
			if err != nil {
				return nil, err
			}
			ctrl.Cookie = cookie
		}
	}

	if seq.Remaining() > 0 {
		class, _, tag, _ := seq.PeekTag()
		if class == ber.ClassUniversal && tag == ber.TagBoolean {
			hint, err := seq.ReadBoolean()
			if err != nil {
				return nil, err
			}
			ctrl.ReloadHint = hint
		}
	}

	return ctrl, nil
}

// SyncStateValue enumerates how an entry relates to the client's view of
// the content, RFC 4533 Section 2.3.
type SyncStateValue int

const (
	SyncStatePresent SyncStateValue = 0
	SyncStateAdd     SyncStateValue = 1
	SyncStateModify  SyncStateValue = 2
	SyncStateDelete  SyncStateValue = 3
)

// SyncStateControl is attached to SearchResultEntry and
// SearchResultReference, RFC 4533 Section 2.3:
//
//	syncStateValue ::= SEQUENCE {
//	    state           ENUMERATED { present (0), add (1), modify (2), delete (3) },
//	    entryUUID       syncUUID,
//	    cookie          syncCookie OPTIONAL
//	}
type SyncStateControl struct {
	State     SyncStateValue
	EntryUUID uuid.UUID
	Cookie    []byte
}

// Encode serializes the control value.
func (c *SyncStateControl) Encode() ([]byte, error) {
	if c.State < SyncStatePresent || c.State > SyncStateDelete {
		return nil, ErrInvalidSyncState
	}

	enc := ber.NewEncoder(32)
	seqPos := enc.BeginSequence()

	if err := enc.WriteEnumerated(int64(c.State)); err != nil {
		return nil, err
	}
	uuidBytes, err := c.EntryUUID.MarshalBinary()
	if err != nil {
		return nil, err
	}
	if err := enc.WriteOctetString(uuidBytes); err != nil {
		return nil, err
	}
	if c.Cookie != nil {
		if err := enc.WriteOctetString(c.Cookie); err != nil {
			return nil, err
		}
	}

	if err := enc.EndSequence(seqPos); err != nil {
		return nil, err
	}
	return enc.Bytes(), nil
}

// ToControl wraps the encoded value as a wire Control.
func (c *SyncStateControl) ToControl(criticality bool) (Control, error) {
	value, err := c.Encode()
	if err != nil {
		return Control{}, err
	}
	return Control{OID: OIDSyncStateControl, Criticality: criticality, Value: value}, nil
}

func decodeSyncStateControl(_ string, _ bool, value []byte) (interface{}, error) {
	d := ber.NewDecoder(value)
	seq, err := d.ReadSequenceContents()
	if err != nil {
		return nil, err
	}

	state, err := seq.ReadEnumerated()
	if err != nil {
		return nil, err
	}
	if state < int64(SyncStatePresent) || state > int64(SyncStateDelete) {
		return nil, ErrInvalidSyncState
	}

	entryUUIDBytes, err := seq.ReadOctetString()
	if err != nil {
		return nil, err
	}
	if len(entryUUIDBytes) != 16 {
		return nil, ErrInvalidEntryUUID
	}
	entryUUID, err := uuid.FromBytes(entryUUIDBytes)
	if err != nil {
		return nil, err
	}

	ctrl := &SyncStateControl{State: SyncStateValue(state), EntryUUID: entryUUID}

	if seq.Remaining() > 0 {
		cookie, err := seq.ReadOctetString()
		if err != nil {
			return nil, err
		}
		ctrl.Cookie = cookie
	}

	return ctrl, nil
}

// SyncDoneControl marks the end of the refresh phase, RFC 4533 Section 2.4:
//
//	syncDoneValue ::= SEQUENCE {
//	    cookie          syncCookie OPTIONAL,
//	    refreshDeletes  BOOLEAN DEFAULT FALSE
//	}
type SyncDoneControl struct {
	Cookie         []byte
	RefreshDeletes bool
}

// Encode serializes the control value. An empty SEQUENCE (`30 00`) is legal
// when both fields are at their default/absent values.
func (c *SyncDoneControl) Encode() ([]byte, error) {
	enc := ber.NewEncoder(8)
	seqPos := enc.BeginSequence()

	if c.Cookie != nil {
		if err := enc.WriteOctetString(c.Cookie); err != nil {
			return nil, err
		}
	}
	if c.RefreshDeletes {
		if err := enc.WriteBoolean(true); err != nil {
			return nil, err
		}
	}

	if err := enc.EndSequence(seqPos); err != nil {
		return nil, err
	}
	return enc.Bytes(), nil
}

// ToControl wraps the encoded value as a wire Control.
func (c *SyncDoneControl) ToControl(criticality bool) (Control, error) {
	value, err := c.Encode()
	if err != nil {
		return Control{}, err
	}
	return Control{OID: OIDSyncDoneControl, Criticality: criticality, Value: value}, nil
}

func decodeSyncDoneControl(_ string, _ bool, value []byte) (interface{}, error) {
	d := ber.NewDecoder(value)
	seq, err := d.ReadSequenceContents()
	if err != nil {
		return nil, err
	}

	ctrl := &SyncDoneControl{}
	haveCookie := false
	haveBool := false

	for seq.Remaining() > 0 {
		class, _, tag, err := seq.PeekTag()
		if err != nil {
			return nil, err
		}
		if class != ber.ClassUniversal {
			return nil, ErrUnexpectedSyncField
		}
		switch tag {
		case ber.TagOctetString:
			if haveCookie || haveBool {
				return nil, ErrDuplicateSyncField
			}
			cookie, err := seq.ReadOctetString()
			if err != nil {
				return nil, err
			}
			ctrl.Cookie = cookie
			haveCookie = true
		case ber.TagBoolean:
			if haveBool {
				return nil, ErrDuplicateSyncField
			}
			refreshDeletes, err := seq.ReadBoolean()
			if err != nil {
				return nil, err
			}
			ctrl.RefreshDeletes = refreshDeletes
			haveBool = true
		default:
			return nil, ErrUnexpectedSyncField
		}
	}

	return ctrl, nil
}

// SyncInfoMessage is the intermediate-response payload used during
// refreshAndPersist synchronization, RFC 4533 Section 2.5. Exactly one of
// the typed fields is populated, selected by Kind.
type SyncInfoMessage struct {
	Kind SyncInfoKind

	NewCookie []byte // Kind == SyncInfoNewCookie

	// Kind == SyncInfoRefreshDelete or SyncInfoRefreshPresent
	RefreshCookie []byte
	RefreshDone   bool

	// Kind == SyncInfoSyncIDSet
	SyncIDSetCookie         []byte
	SyncIDSetRefreshDeletes bool
	SyncUUIDs               []uuid.UUID
}

// SyncInfoKind identifies which CHOICE arm a SyncInfoMessage carries.
type SyncInfoKind int

const (
	SyncInfoNewCookie SyncInfoKind = iota
	SyncInfoRefreshDelete
	SyncInfoRefreshPresent
	SyncInfoSyncIDSet
)

const (
	syncInfoTagNewCookie      = 0
	syncInfoTagRefreshDelete  = 1
	syncInfoTagRefreshPresent = 2
	syncInfoTagSyncIDSet      = 3
)

// Encode serializes the SyncInfoMessage CHOICE value.
func (m *SyncInfoMessage) Encode() ([]byte, error) {
	enc := ber.NewEncoder(32)

	switch m.Kind {
	case SyncInfoNewCookie:
		if err := enc.WriteTaggedValue(syncInfoTagNewCookie, false, m.NewCookie); err != nil {
			return nil, err
		}

	case SyncInfoRefreshDelete, SyncInfoRefreshPresent:
		tag := syncInfoTagRefreshDelete
		if m.Kind == SyncInfoRefreshPresent {
			tag = syncInfoTagRefreshPresent
		}
		pos := enc.WriteContextTag(tag, true)
		if m.RefreshCookie != nil {
			if err := enc.WriteOctetString(m.RefreshCookie); err != nil {
				return nil, err
			}
		}
		if !m.RefreshDone {
			if err := enc.WriteBoolean(false); err != nil {
				return nil, err
			}
		}
		if err := enc.EndContextTag(pos); err != nil {
			return nil, err
		}

	case SyncInfoSyncIDSet:
		pos := enc.WriteContextTag(syncInfoTagSyncIDSet, true)
		if m.SyncIDSetCookie != nil {
			if err := enc.WriteOctetString(m.SyncIDSetCookie); err != nil {
				return nil, err
			}
		}
		if m.SyncIDSetRefreshDeletes {
			if err := enc.WriteBoolean(true); err != nil {
				return nil, err
			}
		}
		setPos := enc.BeginSet()
		for _, id := range m.SyncUUIDs {
			idBytes, err := id.MarshalBinary()
			if err != nil {
				return nil, err
			}
			if err := enc.WriteOctetString(idBytes); err != nil {
				return nil, err
			}
		}
		if err := enc.EndSet(setPos); err != nil {
			return nil, err
		}
		if err := enc.EndContextTag(pos); err != nil {
			return nil, err
		}
	}

	return enc.Bytes(), nil
}

func decodeSyncInfoMessage(_ string, _ bool, value []byte) (interface{}, error) {
	return ParseSyncInfoMessage(value)
}

// ParseSyncInfoMessage decodes a SyncInfoMessage CHOICE value, as carried
// by an IntermediateResponse's responseValue.
func ParseSyncInfoMessage(data []byte) (*SyncInfoMessage, error) {
	d := ber.NewDecoder(data)

	tagNum, constructed, content, err := d.ReadTaggedValue()
	if err != nil {
		return nil, err
	}

	switch tagNum {
	case syncInfoTagNewCookie:
		if constructed {
			return nil, ErrUnexpectedSyncField
		}
		return &SyncInfoMessage{Kind: SyncInfoNewCookie, NewCookie: content}, nil

	case syncInfoTagRefreshDelete, syncInfoTagRefreshPresent:
		if !constructed {
			return nil, ErrUnexpectedSyncField
		}
		kind := SyncInfoRefreshDelete
		if tagNum == syncInfoTagRefreshPresent {
			kind = SyncInfoRefreshPresent
		}
		sub, err := d.SubDecoder(content)
		if err != nil {
			return nil, err
		}
		msg := &SyncInfoMessage{Kind: kind, RefreshDone: true}
		if sub.Remaining() > 0 {
			class, _, tag, _ := sub.PeekTag()
			if class == ber.ClassUniversal && tag == ber.TagOctetString {
				cookie, err := sub.ReadOctetString()
				if err != nil {
					return nil, err
				}
				msg.RefreshCookie = cookie
			}
		}
		if sub.Remaining() > 0 {
			class, _, tag, _ := sub.PeekTag()
			if class == ber.ClassUniversal && tag == ber.TagBoolean {
				done, err := sub.ReadBoolean()
				if err != nil {
					return nil, err
				}
				msg.RefreshDone = done
			}
		}
		return msg, nil

	case syncInfoTagSyncIDSet:
		if !constructed {
			return nil, ErrUnexpectedSyncField
		}
		sub, err := d.SubDecoder(content)
		if err != nil {
			return nil, err
		}
		msg := &SyncInfoMessage{Kind: SyncInfoSyncIDSet}
		if sub.Remaining() > 0 {
			class, _, tag, _ := sub.PeekTag()
			if class == ber.ClassUniversal && tag == ber.TagOctetString {
				cookie, err := sub.ReadOctetString()
				if err != nil {
					return nil, err
				}
				msg.SyncIDSetCookie = cookie
			}
		}
		if sub.Remaining() > 0 {
			class, _, tag, _ := sub.PeekTag()
			if class == ber.ClassUniversal && tag == ber.TagBoolean {
				refreshDeletes, err := sub.ReadBoolean()
				if err != nil {
					return nil, err
				}
				msg.SyncIDSetRefreshDeletes = refreshDeletes
			}
		}
		if sub.Remaining() > 0 {
			uuidSet, err := sub.ReadSetContents()
			if err != nil {
				return nil, err
			}
			for uuidSet.Remaining() > 0 {
				idBytes, err := uuidSet.ReadOctetString()
				if err != nil {
					return nil, err
				}
				if len(idBytes) != 16 {
					return nil, ErrInvalidEntryUUID
				}
				id, err := uuid.FromBytes(idBytes)
				if err != nil {
					return nil, err
				}
				msg.SyncUUIDs = append(msg.SyncUUIDs, id)
			}
		}
		return msg, nil

	default:
		return nil, ErrUnexpectedSyncField
	}
}
