package ldap

import "sync"

// ControlDecoder produces a typed control from a wire-level Control's OID,
// criticality, and optional value.
type ControlDecoder func(oid string, criticality bool, value []byte) (interface{}, error)

// Registry is a process-wide mapping from control OID to decoder. Many
// concurrent readers are expected (every decoded message consults it once
// per control); writes are rare, so a sync.RWMutex-guarded map is enough —
// lookups never block other lookups.
type Registry struct {
	mu       sync.RWMutex
	decoders map[string]ControlDecoder
}

// NewRegistry creates an empty control registry.
func NewRegistry() *Registry {
	return &Registry{decoders: make(map[string]ControlDecoder)}
}

// Register associates a decoder with a control OID, replacing any existing
// registration for that OID.
func (r *Registry) Register(oid string, decoder ControlDecoder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.decoders[oid] = decoder
}

// Deregister removes any decoder registered for the given OID.
func (r *Registry) Deregister(oid string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.decoders, oid)
}

// Resolve returns the decoder registered for oid, if any.
func (r *Registry) Resolve(oid string) (ControlDecoder, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.decoders[oid]
	return d, ok
}

// DefaultRegistry is the process-wide registry used by ResolveControls when
// no explicit registry is supplied. It comes pre-populated with the
// content-synchronization control decoders (see sync.go). Tests that need
// an isolated registry should construct their own with NewRegistry instead
// of mutating DefaultRegistry, to avoid cross-test bleed.
var DefaultRegistry = NewRegistry()

func init() {
	DefaultRegistry.Register(OIDSyncRequestControl, decodeSyncRequestControl)
	DefaultRegistry.Register(OIDSyncStateControl, decodeSyncStateControl)
	DefaultRegistry.Register(OIDSyncDoneControl, decodeSyncDoneControl)
	DefaultRegistry.Register(OIDSyncInfoMessage, decodeSyncInfoMessage)
}

// ResolveControls walks a message's generic Controls, producing typed
// values for every OID the registry recognizes. Per RFC 4511 Section 4.1.11:
// an unrecognized critical control makes the message undecodable (the
// caller must surface a protocol error and tear down, not proceed with a
// partial result); an unrecognized non-critical control is kept as its
// generic Control with a nil typed value.
func ResolveControls(registry *Registry, controls []Control) ([]ResolvedControl, error) {
	if registry == nil {
		registry = DefaultRegistry
	}

	resolved := make([]ResolvedControl, len(controls))
	for i, ctrl := range controls {
		resolved[i].Control = ctrl

		decoder, ok := registry.Resolve(ctrl.OID)
		if !ok {
			if ctrl.Criticality {
				return nil, ErrUnknownCriticalControl
			}
			continue
		}

		typed, err := decoder(ctrl.OID, ctrl.Criticality, ctrl.Value)
		if err != nil {
			return nil, NewParseError(0, "control decode failed for "+ctrl.OID, err)
		}
		resolved[i].Typed = typed
	}

	return resolved, nil
}

// ResolvedControl pairs a generic wire-level Control with its typed
// decoding, when the registry recognized the OID.
type ResolvedControl struct {
	Control Control
	Typed   interface{}
}
