package contract

import (
	"context"

	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/entity"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/repository/specification"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	Update(ctx context.Context, user *entity.User) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
