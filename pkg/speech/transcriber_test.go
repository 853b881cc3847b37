package speech

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranscribeHintWins(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	res, err := NewHTTPTranscriber(srv.URL, 0).Transcribe(context.Background(), Audio{Data: []byte("x"), Language: "ta"}, "  my bike was stolen ")

	require.NoError(t, err)
	assert.Equal(t, "my bike was stolen", res.Text)
	assert.Equal(t, "ta", res.Language)
	assert.False(t, called)
}

func TestTranscribeRemote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseMultipartForm(1<<20))
		f, _, err := r.FormFile("file")
		if assert.NoError(t, err) {
			data, _ := io.ReadAll(f)
			assert.Equal(t, "RIFF", string(data))
		}
		assert.Equal(t, "hi", r.FormValue("language"))
		_, _ = w.Write([]byte(`{"text":" Mera phone chori ho gaya ","language":"hi"}`))
	}))
	defer srv.Close()

	res, err := NewHTTPTranscriber(srv.URL, 0).Transcribe(context.Background(), Audio{FileName: "a.wav", Data: []byte("RIFF"), Language: "hi"}, "")

	require.NoError(t, err)
	assert.Equal(t, "Mera phone chori ho gaya", res.Text)
	assert.Equal(t, "hi", res.Language)
}

func TestTranscribeFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		audio   Audio
		url     bool
	}{
		{name: "no endpoint", audio: Audio{Data: []byte("x")}},
		{name: "no audio", url: true, handler: func(w http.ResponseWriter, r *http.Request) {}},
		{name: "server error", url: true, audio: Audio{Data: []byte("x")}, handler: func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
		}},
		{name: "empty text", url: true, audio: Audio{Data: []byte("x")}, handler: func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"text":"  "}`))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewHTTPTranscriber("", 0)
			if tt.url {
				srv := httptest.NewServer(tt.handler)
				defer srv.Close()
				tr = NewHTTPTranscriber(srv.URL, 0)
			}
			_, err := tr.Transcribe(context.Background(), tt.audio, "")
			assert.Error(t, err)
		})
	}
}
