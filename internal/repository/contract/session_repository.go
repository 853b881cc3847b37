package contract

import (
	"context"
	"time"

	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/pkg/intake"
)

// SessionRepository persists intake sessions. FindByID returns nil, nil
// when the session does not exist.
type SessionRepository interface {
	Save(ctx context.Context, s *intake.Session) error
	FindByID(ctx context.Context, id string) (*intake.Session, error)
	Delete(ctx context.Context, id string) error
	// FindIdle lists ids of sessions inactive since before, oldest first.
	FindIdle(ctx context.Context, before time.Time, limit int) ([]string, error)
}
