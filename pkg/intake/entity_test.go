package intake

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEntityStoreMerge(t *testing.T) {
	tests := []struct {
		name        string
		start       EntityStore
		fields      map[string]Field
		turn        int
		wantValue   string
		wantChanged bool
	}{
		{
			name:        "absent field is set",
			start:       EntityStore{},
			fields:      map[string]Field{FieldName: {Value: "Rahul"}},
			turn:        1,
			wantValue:   "Rahul",
			wantChanged: true,
		},
		{
			name:        "equal value is a no-op",
			start:       EntityStore{FieldName: {Value: "Rahul", Turn: 1}},
			fields:      map[string]Field{FieldName: {Value: "Rahul", Explicit: true}},
			turn:        2,
			wantValue:   "Rahul",
			wantChanged: false,
		},
		{
			name:        "empty value never erases",
			start:       EntityStore{FieldName: {Value: "Rahul", Turn: 1}},
			fields:      map[string]Field{FieldName: {Value: ""}},
			turn:        2,
			wantValue:   "Rahul",
			wantChanged: false,
		},
		{
			name:        "newer value replaces older",
			start:       EntityStore{FieldDate: {Value: "12/05/2025", Turn: 1}},
			fields:      map[string]Field{FieldDate: {Value: "13/05/2025", Explicit: true}},
			turn:        2,
			wantValue:   "13/05/2025",
			wantChanged: true,
		},
		{
			name:        "denial replaces a value",
			start:       EntityStore{FieldAccused: {Value: "Ravi", Turn: 1}},
			fields:      map[string]Field{FieldAccused: {Denied: true}},
			turn:        2,
			wantValue:   DeniedSentinel,
			wantChanged: true,
		},
		{
			name:        "re-derived value does not clear a denial",
			start:       EntityStore{FieldAccused: {Value: DeniedSentinel, Turn: 2}},
			fields:      map[string]Field{FieldAccused: {Value: "Ravi"}},
			turn:        3,
			wantValue:   DeniedSentinel,
			wantChanged: false,
		},
		{
			name:        "explicit later value clears a denial",
			start:       EntityStore{FieldAccused: {Value: DeniedSentinel, Turn: 2}},
			fields:      map[string]Field{FieldAccused: {Value: "Suresh", Explicit: true}},
			turn:        3,
			wantValue:   "Suresh",
			wantChanged: true,
		},
		{
			name:        "explicit value from the same turn does not clear a denial",
			start:       EntityStore{FieldAccused: {Value: DeniedSentinel, Turn: 3}},
			fields:      map[string]Field{FieldAccused: {Value: "Suresh", Explicit: true}},
			turn:        3,
			wantValue:   DeniedSentinel,
			wantChanged: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := tt.start.Clone()
			changed := store.Merge(tt.fields, tt.turn)

			assert.Equal(t, tt.wantChanged, changed)
			for name := range tt.fields {
				assert.Equal(t, tt.wantValue, store[name].Value)
			}
		})
	}
}

func TestEntityStoreMergeIsIdempotent(t *testing.T) {
	fields := map[string]Field{
		FieldName:     {Value: "Rahul", Explicit: true},
		FieldLocation: {Value: "Chennai", Explicit: true},
		FieldAccused:  {Denied: true, Explicit: true},
	}

	once := EntityStore{}
	once.Merge(fields, 1)

	twice := once.Clone()
	changed := twice.Merge(fields, 1)

	assert.False(t, changed)
	assert.Equal(t, once, twice)
}

func TestEntityStorePresence(t *testing.T) {
	store := EntityStore{
		FieldName:    {Value: "Rahul"},
		FieldWitness: {Value: DeniedSentinel},
		FieldAmount:  {Value: ""},
	}

	assert.Equal(t, PresenceFilled, store.Presence(FieldName))
	assert.Equal(t, PresenceDenied, store.Presence(FieldWitness))
	assert.Equal(t, PresenceEmpty, store.Presence(FieldAmount))
	assert.Equal(t, PresenceAbsent, store.Presence(FieldDate))

	assert.True(t, store.Satisfied(FieldWitness))
	assert.False(t, store.Filled(FieldWitness))
	assert.False(t, store.Satisfied(FieldAmount))
	assert.Equal(t, "denied", store.Presence(FieldWitness).String())
}

func TestEntityStoreCloneIsIndependent(t *testing.T) {
	store := EntityStore{FieldName: {Value: "Rahul", Turn: 1}}
	cp := store.Clone()
	cp[FieldName] = Entity{Value: "Ravi", Turn: 2}

	assert.Equal(t, "Rahul", store[FieldName].Value)
	assert.Equal(t, []string{FieldName}, store.Keys())
}
