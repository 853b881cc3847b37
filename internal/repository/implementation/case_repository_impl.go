package implementation

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/entity"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/mapper"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/model"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/repository/contract"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/repository/specification"
)

type CaseRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CaseMapper
}

func NewCaseRepository(db *gorm.DB) contract.CaseRepository {
	return &CaseRepositoryImpl{
		db:     db,
		mapper: mapper.NewCaseMapper(),
	}
}

func (r *CaseRepositoryImpl) Create(ctx context.Context, c *entity.Case) error {
	modelCase := r.mapper.ToModel(c)
	if err := r.db.WithContext(ctx).Create(modelCase).Error; err != nil {
		return err
	}
	*c = *r.mapper.ToEntity(modelCase)
	return nil
}

func (r *CaseRepositoryImpl) Update(ctx context.Context, c *entity.Case) error {
	modelCase := r.mapper.ToModel(c)
	if err := r.db.WithContext(ctx).Save(modelCase).Error; err != nil {
		return err
	}
	*c = *r.mapper.ToEntity(modelCase)
	return nil
}

func (r *CaseRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.LegalCase{}).Error
}

func (r *CaseRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Case, error) {
	var modelCase model.LegalCase
	query := applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.First(&modelCase).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&modelCase), nil
}

func (r *CaseRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Case, error) {
	var modelCases []*model.LegalCase
	query := applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.Find(&modelCases).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(modelCases), nil
}

func (r *CaseRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.LegalCase{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *CaseRepositoryImpl) MarkCompleted(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.LegalCase{}).
		Where("id = ? AND status = ?", id, string(entity.CaseStatusReady)).
		Updates(map[string]interface{}{
			"status":       string(entity.CaseStatusCompleted),
			"completed_at": at,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *CaseRepositoryImpl) HighestReference(ctx context.Context, prefix string) (string, error) {
	var refs []string
	err := r.db.WithContext(ctx).
		Model(&model.LegalCase{}).
		Where("reference_number LIKE ?", prefix+"%").
		Order("length(reference_number) DESC, reference_number DESC").
		Limit(1).
		Pluck("reference_number", &refs).Error
	if err != nil {
		return "", err
	}
	if len(refs) == 0 {
		return "", nil
	}
	return refs[0], nil
}
