package intake

import "sort"

// DeniedSentinel marks a field the principal stated does not apply. It is
// distinct from a field that was never mentioned.
const DeniedSentinel = "EXPLICITLY_DENIED"

// Presence tells callers which of the four field conditions holds.
type Presence int

const (
	PresenceAbsent Presence = iota
	PresenceEmpty
	PresenceDenied
	PresenceFilled
)

func (p Presence) String() string {
	switch p {
	case PresenceEmpty:
		return "empty"
	case PresenceDenied:
		return "denied"
	case PresenceFilled:
		return "filled"
	default:
		return "absent"
	}
}

// Entity is one extracted fact with the turn that last set it.
type Entity struct {
	Value string `json:"value"`
	Turn  int    `json:"turn"`
}

func (e Entity) IsDenied() bool {
	return e.Value == DeniedSentinel
}

// Field is a single oracle observation for a field.
type Field struct {
	Value  string `json:"value"`
	Denied bool   `json:"denied,omitempty"`
	// Explicit is set when the value was stated in the latest turn rather than
	// re-derived from earlier history.
	Explicit   bool    `json:"explicit,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
}

// EntityStore maps field names to entities for one session.
type EntityStore map[string]Entity

func (s EntityStore) Presence(field string) Presence {
	e, ok := s[field]
	switch {
	case !ok:
		return PresenceAbsent
	case e.IsDenied():
		return PresenceDenied
	case e.Value == "":
		return PresenceEmpty
	default:
		return PresenceFilled
	}
}

func (s EntityStore) Filled(field string) bool {
	return s.Presence(field) == PresenceFilled
}

// Satisfied reports whether the principal has answered the field, either with
// a value or with an explicit denial.
func (s EntityStore) Satisfied(field string) bool {
	p := s.Presence(field)
	return p == PresenceFilled || p == PresenceDenied
}

func (s EntityStore) Clone() EntityStore {
	out := make(EntityStore, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Values flattens the store for responses and document generation. Denied
// fields carry the sentinel, empty fields an empty string.
func (s EntityStore) Values() map[string]string {
	out := make(map[string]string, len(s))
	for k, v := range s {
		out[k] = v.Value
	}
	return out
}

// Keys returns the field names in a stable order.
func (s EntityStore) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Merge applies one extraction result observed at the given turn and reports
// whether the store changed. Applying the same result twice is a no-op.
func (s EntityStore) Merge(fields map[string]Field, turn int) bool {
	changed := false
	for _, name := range sortedFieldNames(fields) {
		if s.mergeField(name, fields[name], turn) {
			changed = true
		}
	}
	return changed
}

func (s EntityStore) mergeField(name string, in Field, turn int) bool {
	incoming := in.Value
	if in.Denied {
		incoming = DeniedSentinel
	}

	current, exists := s[name]
	if !exists {
		s[name] = Entity{Value: incoming, Turn: turn}
		return true
	}
	if current.Value == incoming {
		return false
	}
	if incoming == "" {
		return false
	}
	if current.IsDenied() && (!in.Explicit || turn <= current.Turn) {
		return false
	}

	s[name] = Entity{Value: incoming, Turn: turn}
	return true
}

func sortedFieldNames(fields map[string]Field) []string {
	names := make([]string, 0, len(fields))
	for k := range fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
