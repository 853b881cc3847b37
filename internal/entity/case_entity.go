package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/pkg/casepatch"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/pkg/intake"
)

type CaseStatus string

const (
	CaseStatusDraft      CaseStatus = "draft"
	CaseStatusInProgress CaseStatus = "in_progress"
	CaseStatusReady      CaseStatus = "ready"
	CaseStatusCompleted  CaseStatus = "completed"
)

// Editable reports whether entities may still change.
func (s CaseStatus) Editable() bool {
	return s == CaseStatusDraft || s == CaseStatusInProgress
}

type Case struct {
	Id                 uuid.UUID
	ReferenceNumber    string
	SessionId          string
	UserPrincipal      string
	IssueType          string
	SubCategory        string
	Entities           casepatch.Entities
	SelectedAction     string
	ReadinessScore     int
	ReadinessStatus    string
	SuggestedAuthority string
	Guidance           *intake.Guidance
	SuggestedSections  []string
	Status             CaseStatus
	CreatedAt          time.Time
	UpdatedAt          time.Time
	CompletedAt        *time.Time
}

func (c *Case) OwnedBy(p intake.Principal) bool {
	return p != "" && c.UserPrincipal == string(p)
}

func (c *Case) Completeness() float64 {
	return casepatch.Completeness(c.Entities)
}

type GeneratedDocument struct {
	Id          uuid.UUID
	CaseId      uuid.UUID
	Kind        string
	Title       string
	FileName    string
	ContentType string
	Body        []byte
	CreatedAt   time.Time
}

// CaseEvidence is a file uploaded during intake. CaseId is set once the
// session materializes.
type CaseEvidence struct {
	Id            uuid.UUID
	SessionId     string
	CaseId        *uuid.UUID
	UserPrincipal string
	FileName      string
	StoredPath    string
	ContentType   string
	Size          int64
	CreatedAt     time.Time
}
