package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BySessionID struct {
	SessionID string
}

func (s BySessionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_id = ?", s.SessionID)
}

// OwnedByPrincipal restricts rows to the given intake principal.
type OwnedByPrincipal struct {
	Principal string
}

func (s OwnedByPrincipal) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_principal = ?", s.Principal)
}

type ByStatus struct {
	Statuses []string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status IN ?", s.Statuses)
}

type ByReference struct {
	ReferenceNumber string
}

func (s ByReference) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("reference_number = ?", s.ReferenceNumber)
}

type ByCaseID struct {
	CaseID uuid.UUID
}

func (s ByCaseID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("case_id = ?", s.CaseID)
}
