package dto

import "github.com/Murugavl/AI-Powered-Legal-Issue-classification/pkg/intake"

type StartSessionRequest struct {
	Text     string `json:"text" validate:"required"`
	Language string `json:"language" validate:"omitempty,len=2"`
}

type AnswerRequest struct {
	Text     string `json:"text" validate:"required"`
	Language string `json:"language" validate:"omitempty,len=2"`
}

type SelectActionRequest struct {
	Title string `json:"title" validate:"required"`
}

// ConfirmRequest accepts by default so an empty body confirms.
type ConfirmRequest struct {
	Accept *bool `json:"accept"`
}

func (r ConfirmRequest) Accepted() bool {
	return r.Accept == nil || *r.Accept
}

// VoiceAnswerRequest is assembled from the multipart form.
type VoiceAnswerRequest struct {
	FileName       string
	Audio          []byte
	TranscriptHint string
	Language       string
}

type EvidenceUploadRequest struct {
	FileName    string
	ContentType string
	Data        []byte
}

type EvidenceResponse struct {
	Id       string           `json:"id"`
	FileName string           `json:"file_name"`
	Size     int64            `json:"size"`
	Session  *intake.Response `json:"session"`
}
