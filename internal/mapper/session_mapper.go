package mapper

import (
	"fmt"

	"github.com/bytedance/sonic"
	"gorm.io/datatypes"

	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/model"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/pkg/intake"
)

type SessionMapper struct{}

func NewSessionMapper() *SessionMapper {
	return &SessionMapper{}
}

func (m *SessionMapper) ToModel(s *intake.Session) (*model.IntakeSession, error) {
	snapshot, err := sonic.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode session %s: %w", s.ID, err)
	}
	var caseID *string
	if s.CaseID != "" {
		id := s.CaseID
		caseID = &id
	}
	return &model.IntakeSession{
		Id:             s.ID,
		Principal:      string(s.Principal),
		State:          string(s.State),
		Domain:         s.Domain,
		Snapshot:       datatypes.JSON(snapshot),
		CaseId:         caseID,
		CreatedAt:      s.CreatedAt,
		LastActivityAt: s.LastActivityAt,
	}, nil
}

func (m *SessionMapper) ToSession(row *model.IntakeSession) (*intake.Session, error) {
	var s intake.Session
	if err := sonic.Unmarshal(row.Snapshot, &s); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", row.Id, err)
	}
	if s.Entities == nil {
		s.Entities = intake.EntityStore{}
	}
	return &s, nil
}
