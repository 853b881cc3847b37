// Package speech turns voice turns into text.
package speech

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
)

var ErrNoTranscript = errors.New("no transcript available")

type Audio struct {
	FileName string
	Data     []byte
	// Language is the client's hint, e.g. "ta" or "hi". Empty lets the
	// backend detect it.
	Language string
}

type Result struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

type Transcriber interface {
	Transcribe(ctx context.Context, audio Audio, hint string) (*Result, error)
}

// HTTPTranscriber posts audio to a speech-to-text endpoint. A client-side
// transcript hint always wins and skips the remote call.
type HTTPTranscriber struct {
	URL    string
	Client *http.Client
}

const DefaultTimeout = 60 * time.Second

func NewHTTPTranscriber(url string, timeout time.Duration) *HTTPTranscriber {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPTranscriber{
		URL:    url,
		Client: &http.Client{Timeout: timeout},
	}
}

type transcribeResponse struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

func (t *HTTPTranscriber) Transcribe(ctx context.Context, audio Audio, hint string) (*Result, error) {
	if hint = strings.TrimSpace(hint); hint != "" {
		return &Result{Text: hint, Language: audio.Language}, nil
	}
	if t.URL == "" || len(audio.Data) == 0 {
		return nil, ErrNoTranscript
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", audio.FileName)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(audio.Data); err != nil {
		return nil, fmt.Errorf("write audio: %w", err)
	}
	if audio.Language != "" {
		if err := w.WriteField("language", audio.Language); err != nil {
			return nil, fmt.Errorf("write language: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.URL, &body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := t.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("speech request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("speech error: status %d, body: %s", resp.StatusCode, string(raw))
	}

	var out transcribeResponse
	if err := sonic.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	if strings.TrimSpace(out.Text) == "" {
		return nil, ErrNoTranscript
	}
	if out.Language == "" {
		out.Language = audio.Language
	}
	return &Result{Text: strings.TrimSpace(out.Text), Language: out.Language}, nil
}
