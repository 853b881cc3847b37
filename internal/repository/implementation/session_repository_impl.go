package implementation

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/mapper"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/model"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/repository/contract"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/repository/scope"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/pkg/intake"
)

type SessionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SessionMapper
}

func NewSessionRepository(db *gorm.DB) contract.SessionRepository {
	return &SessionRepositoryImpl{
		db:     db,
		mapper: mapper.NewSessionMapper(),
	}
}

func (r *SessionRepositoryImpl) Save(ctx context.Context, s *intake.Session) error {
	row, err := r.mapper.ToModel(s)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"state", "domain", "snapshot", "case_id", "last_activity_at"}),
		}).
		Create(row).Error
}

func (r *SessionRepositoryImpl) FindByID(ctx context.Context, id string) (*intake.Session, error) {
	var row model.IntakeSession
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToSession(&row)
}

func (r *SessionRepositoryImpl) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.IntakeSession{}).Error
}

func (r *SessionRepositoryImpl) FindIdle(ctx context.Context, before time.Time, limit int) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.IntakeSession{}).
		Scopes(scope.OrderByActivityAsc).
		Where("last_activity_at < ?", before).
		Limit(limit).
		Pluck("id", &ids).Error
	return ids, err
}
