package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/pkg/casepatch"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/pkg/intake"
)

type CaseResponse struct {
	Id                 uuid.UUID          `json:"id"`
	ReferenceNumber    string             `json:"reference_number"`
	SessionId          string             `json:"session_id"`
	IssueType          string             `json:"issue_type"`
	SubCategory        string             `json:"sub_category"`
	Entities           casepatch.Entities `json:"entities"`
	SelectedAction     string             `json:"selected_action,omitempty"`
	ReadinessScore     int                `json:"readiness_score"`
	ReadinessStatus    string             `json:"readiness_status"`
	SuggestedAuthority string             `json:"suggested_authority,omitempty"`
	Guidance           *intake.Guidance   `json:"filing_guidance,omitempty"`
	SuggestedSections  []string           `json:"suggested_sections"`
	Status             string             `json:"status"`
	Completeness       float64            `json:"completeness"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
	CompletedAt        *time.Time         `json:"completed_at,omitempty"`
	Evidence           []EvidenceSummary  `json:"evidence,omitempty"`
}

// EvidenceSummary lists an uploaded file without its contents.
type EvidenceSummary struct {
	Id          uuid.UUID `json:"id"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type,omitempty"`
	Size        int64     `json:"size"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

type CaseListResponse struct {
	Items []CaseResponse `json:"items"`
	Total int64          `json:"total"`
}

type ListCasesRequest struct {
	Limit  int    `query:"limit" validate:"omitempty,min=1,max=100"`
	Offset int    `query:"offset" validate:"omitempty,min=0"`
	Status string `query:"status" validate:"omitempty,oneof=draft in_progress ready completed"`
}

type PatchCaseRequest struct {
	Operations []casepatch.Operation `json:"operations" validate:"required,min=1,dive"`
}

type ConfirmEntityRequest struct {
	Field string `json:"field" validate:"required"`
}

type DocumentResponse struct {
	Id          uuid.UUID `json:"id"`
	CaseId      uuid.UUID `json:"case_id"`
	Kind        string    `json:"kind"`
	Title       string    `json:"title"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateDraftCaseRequest opens a case outside an intake conversation.
type CreateDraftCaseRequest struct {
	IssueType   string            `json:"issue_type" validate:"required"`
	SubCategory string            `json:"sub_category"`
	Entities    map[string]string `json:"entities"`
}
