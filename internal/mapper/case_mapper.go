package mapper

import (
	"gorm.io/datatypes"

	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/entity"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/model"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/pkg/casepatch"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/pkg/intake"
)

type CaseMapper struct{}

func NewCaseMapper() *CaseMapper {
	return &CaseMapper{}
}

func (m *CaseMapper) ToEntity(c *model.LegalCase) *entity.Case {
	if c == nil {
		return nil
	}
	entities := c.Entities.Data()
	if entities == nil {
		entities = casepatch.Entities{}
	}
	var guidance *intake.Guidance
	if g := c.Guidance.Data(); g.Authority != "" {
		guidance = &g
	}
	return &entity.Case{
		Id:                 c.Id,
		ReferenceNumber:    c.ReferenceNumber,
		SessionId:          c.SessionId,
		UserPrincipal:      c.UserPrincipal,
		IssueType:          c.IssueType,
		SubCategory:        c.SubCategory,
		Entities:           entities,
		SelectedAction:     c.SelectedAction,
		ReadinessScore:     c.ReadinessScore,
		ReadinessStatus:    c.ReadinessStatus,
		SuggestedAuthority: c.SuggestedAuthority,
		Guidance:           guidance,
		SuggestedSections:  []string(c.SuggestedSections),
		Status:             entity.CaseStatus(c.Status),
		CreatedAt:          c.CreatedAt,
		UpdatedAt:          c.UpdatedAt,
		CompletedAt:        c.CompletedAt,
	}
}

func (m *CaseMapper) ToModel(c *entity.Case) *model.LegalCase {
	if c == nil {
		return nil
	}
	entities := c.Entities
	if entities == nil {
		entities = casepatch.Entities{}
	}
	var guidance intake.Guidance
	if c.Guidance != nil {
		guidance = *c.Guidance
	}
	sections := c.SuggestedSections
	if sections == nil {
		sections = []string{}
	}
	return &model.LegalCase{
		Id:                 c.Id,
		ReferenceNumber:    c.ReferenceNumber,
		SessionId:          c.SessionId,
		UserPrincipal:      c.UserPrincipal,
		IssueType:          c.IssueType,
		SubCategory:        c.SubCategory,
		Entities:           datatypes.NewJSONType(entities),
		SelectedAction:     c.SelectedAction,
		ReadinessScore:     c.ReadinessScore,
		ReadinessStatus:    c.ReadinessStatus,
		SuggestedAuthority: c.SuggestedAuthority,
		Guidance:           datatypes.NewJSONType(guidance),
		SuggestedSections:  datatypes.JSONSlice[string](sections),
		Status:             string(c.Status),
		CreatedAt:          c.CreatedAt,
		UpdatedAt:          c.UpdatedAt,
		CompletedAt:        c.CompletedAt,
	}
}

func (m *CaseMapper) ToEntities(cases []*model.LegalCase) []*entity.Case {
	entities := make([]*entity.Case, len(cases))
	for i, c := range cases {
		entities[i] = m.ToEntity(c)
	}
	return entities
}

func (m *CaseMapper) DocumentToEntity(d *model.GeneratedDocument) *entity.GeneratedDocument {
	if d == nil {
		return nil
	}
	return &entity.GeneratedDocument{
		Id:          d.Id,
		CaseId:      d.CaseId,
		Kind:        d.Kind,
		Title:       d.Title,
		FileName:    d.FileName,
		ContentType: d.ContentType,
		Body:        d.Body,
		CreatedAt:   d.CreatedAt,
	}
}

func (m *CaseMapper) DocumentToModel(d *entity.GeneratedDocument) *model.GeneratedDocument {
	if d == nil {
		return nil
	}
	return &model.GeneratedDocument{
		Id:          d.Id,
		CaseId:      d.CaseId,
		Kind:        d.Kind,
		Title:       d.Title,
		FileName:    d.FileName,
		ContentType: d.ContentType,
		Body:        d.Body,
		CreatedAt:   d.CreatedAt,
	}
}

func (m *CaseMapper) EvidenceToEntity(e *model.CaseEvidence) *entity.CaseEvidence {
	if e == nil {
		return nil
	}
	return &entity.CaseEvidence{
		Id:            e.Id,
		SessionId:     e.SessionId,
		CaseId:        e.CaseId,
		UserPrincipal: e.UserPrincipal,
		FileName:      e.FileName,
		StoredPath:    e.StoredPath,
		ContentType:   e.ContentType,
		Size:          e.Size,
		CreatedAt:     e.CreatedAt,
	}
}

func (m *CaseMapper) EvidenceToModel(e *entity.CaseEvidence) *model.CaseEvidence {
	if e == nil {
		return nil
	}
	return &model.CaseEvidence{
		Id:            e.Id,
		SessionId:     e.SessionId,
		CaseId:        e.CaseId,
		UserPrincipal: e.UserPrincipal,
		FileName:      e.FileName,
		StoredPath:    e.StoredPath,
		ContentType:   e.ContentType,
		Size:          e.Size,
		CreatedAt:     e.CreatedAt,
	}
}
