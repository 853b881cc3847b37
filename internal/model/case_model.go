package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/pkg/casepatch"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/pkg/intake"
)

type LegalCase struct {
	Id                 uuid.UUID                             `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ReferenceNumber    string                                `gorm:"type:varchar(32);uniqueIndex;not null"`
	SessionId          string                                `gorm:"type:varchar(64);uniqueIndex;not null"`
	UserPrincipal      string                                `gorm:"type:varchar(255);not null;index:idx_legal_cases_principal_created,priority:1"`
	IssueType          string                                `gorm:"type:varchar(64);not null"`
	SubCategory        string                                `gorm:"type:varchar(128)"`
	Entities           datatypes.JSONType[casepatch.Entities] `gorm:"type:jsonb;not null"`
	SelectedAction     string                                `gorm:"type:varchar(255)"`
	ReadinessScore     int                                   `gorm:"not null;default:0"`
	ReadinessStatus    string                                `gorm:"type:varchar(32)"`
	SuggestedAuthority string                                `gorm:"type:varchar(255)"`
	Guidance           datatypes.JSONType[intake.Guidance]    `gorm:"type:jsonb;not null"`
	SuggestedSections  datatypes.JSONSlice[string]           `gorm:"type:jsonb"`
	Status             string                                `gorm:"type:varchar(20);not null;default:'draft';index"`
	CreatedAt          time.Time                             `gorm:"autoCreateTime;index:idx_legal_cases_principal_created,priority:2"`
	UpdatedAt          time.Time                             `gorm:"autoUpdateTime"`
	CompletedAt        *time.Time
}

func (LegalCase) TableName() string {
	return "legal_cases"
}

type GeneratedDocument struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CaseId      uuid.UUID `gorm:"type:uuid;not null;index:idx_generated_documents_case_created,priority:1"`
	Kind        string    `gorm:"type:varchar(32);not null"`
	Title       string    `gorm:"type:varchar(255);not null"`
	FileName    string    `gorm:"type:varchar(255);not null"`
	ContentType string    `gorm:"type:varchar(100);not null"`
	Body        []byte    `gorm:"type:bytea;not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index:idx_generated_documents_case_created,priority:2"`
}

func (GeneratedDocument) TableName() string {
	return "generated_documents"
}

type CaseEvidence struct {
	Id            uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId     string     `gorm:"type:varchar(64);not null;index"`
	CaseId        *uuid.UUID `gorm:"type:uuid;index"`
	UserPrincipal string     `gorm:"type:varchar(255);not null"`
	FileName      string     `gorm:"type:varchar(255);not null"`
	StoredPath    string     `gorm:"type:text;not null"`
	ContentType   string     `gorm:"type:varchar(100)"`
	Size          int64      `gorm:"not null"`
	CreatedAt     time.Time  `gorm:"autoCreateTime"`
}

func (CaseEvidence) TableName() string {
	return "case_evidence"
}
