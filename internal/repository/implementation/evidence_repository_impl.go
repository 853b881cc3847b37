package implementation

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/entity"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/mapper"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/model"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/repository/contract"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/repository/scope"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/repository/specification"
)

type EvidenceRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CaseMapper
}

func NewEvidenceRepository(db *gorm.DB) contract.EvidenceRepository {
	return &EvidenceRepositoryImpl{
		db:     db,
		mapper: mapper.NewCaseMapper(),
	}
}

func (r *EvidenceRepositoryImpl) Create(ctx context.Context, evidence *entity.CaseEvidence) error {
	modelEvidence := r.mapper.EvidenceToModel(evidence)
	if err := r.db.WithContext(ctx).Create(modelEvidence).Error; err != nil {
		return err
	}
	*evidence = *r.mapper.EvidenceToEntity(modelEvidence)
	return nil
}

func (r *EvidenceRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CaseEvidence, error) {
	var rows []*model.CaseEvidence
	db := r.db.WithContext(ctx).Scopes(scope.OrderByCreatedAsc)
	if err := applySpecifications(db, specs...).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*entity.CaseEvidence, len(rows))
	for i, row := range rows {
		out[i] = r.mapper.EvidenceToEntity(row)
	}
	return out, nil
}

func (r *EvidenceRepositoryImpl) AttachToCase(ctx context.Context, sessionID string, caseID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.CaseEvidence{}).
		Where("session_id = ? AND case_id IS NULL", sessionID).
		Update("case_id", caseID).Error
}

func (r *EvidenceRepositoryImpl) DeleteBySession(ctx context.Context, sessionID string) error {
	return r.db.WithContext(ctx).
		Where("session_id = ? AND case_id IS NULL", sessionID).
		Delete(&model.CaseEvidence{}).Error
}
