package unitofwork

import (
	"context"

	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/repository/contract"
)

// RepositoryFactory hands out units of work. Repositories taken from a unit
// that never calls Begin run outside any transaction.
type RepositoryFactory interface {
	NewUnitOfWork(ctx context.Context) UnitOfWork
}

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	CaseRepository() contract.CaseRepository
	DocumentRepository() contract.DocumentRepository
	EvidenceRepository() contract.EvidenceRepository
	NotificationRepository() contract.NotificationRepository
}
