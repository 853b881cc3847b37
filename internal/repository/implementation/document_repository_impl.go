package implementation

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/entity"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/mapper"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/model"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/repository/contract"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/repository/scope"
)

type DocumentRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CaseMapper
}

func NewDocumentRepository(db *gorm.DB) contract.DocumentRepository {
	return &DocumentRepositoryImpl{
		db:     db,
		mapper: mapper.NewCaseMapper(),
	}
}

func (r *DocumentRepositoryImpl) Create(ctx context.Context, doc *entity.GeneratedDocument) error {
	modelDoc := r.mapper.DocumentToModel(doc)
	if err := r.db.WithContext(ctx).Create(modelDoc).Error; err != nil {
		return err
	}
	*doc = *r.mapper.DocumentToEntity(modelDoc)
	return nil
}

func (r *DocumentRepositoryImpl) FindLatest(ctx context.Context, caseID uuid.UUID) (*entity.GeneratedDocument, error) {
	var modelDoc model.GeneratedDocument
	err := r.db.WithContext(ctx).
		Scopes(scope.OrderByCreatedDesc).
		Where("case_id = ?", caseID).
		First(&modelDoc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.DocumentToEntity(&modelDoc), nil
}
