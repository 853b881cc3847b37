package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode(t *testing.T) {
	in := New(CaseMaterialized, map[string]interface{}{
		"case_id":          "c-1",
		"reference_number": "LDA-2026-000001",
	})

	b, err := Encode(in)
	require.NoError(t, err)

	out, err := Decode(b)
	require.NoError(t, err)
	assert.Equal(t, CaseMaterialized, out.EventType())
	assert.Equal(t, "LDA-2026-000001", String(out, "reference_number"))
	assert.True(t, in.Timestamp().Equal(out.Timestamp()))
}

func TestDecodeRejectsGarbage(t *testing.T) {
	tests := map[string]string{
		"not json":     "hello",
		"missing type": `{"data":{}}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Decode([]byte(body))
			assert.Error(t, err)
		})
	}
}

func TestStringMissingKey(t *testing.T) {
	assert.Equal(t, "", String(New(SessionStarted, nil), "session_id"))
}
