package contract

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/entity"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/repository/specification"
)

type CaseRepository interface {
	Create(ctx context.Context, c *entity.Case) error
	Update(ctx context.Context, c *entity.Case) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Case, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Case, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// MarkCompleted moves a ready case to completed. It reports false when
	// the case was not in the ready state.
	MarkCompleted(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
	// HighestReference returns the largest reference number starting with
	// prefix, or "" when there is none.
	HighestReference(ctx context.Context, prefix string) (string, error)
}

type DocumentRepository interface {
	Create(ctx context.Context, doc *entity.GeneratedDocument) error
	FindLatest(ctx context.Context, caseID uuid.UUID) (*entity.GeneratedDocument, error)
}

type EvidenceRepository interface {
	Create(ctx context.Context, evidence *entity.CaseEvidence) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CaseEvidence, error)
	// AttachToCase links every upload of a session to its case.
	AttachToCase(ctx context.Context, sessionID string, caseID uuid.UUID) error
	DeleteBySession(ctx context.Context, sessionID string) error
}
