package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/entity"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/metrics"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/pkg/logger"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/repository/unitofwork"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/pkg/document"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/pkg/events"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/pkg/intake"
)

// ICaseMaterializer turns a completed session into a case with its
// generated document.
type ICaseMaterializer interface {
	Materialize(ctx context.Context, s *intake.Session) (*intake.CaseSummary, error)
}

type caseMaterializer struct {
	cases      ICaseService
	documents  document.Generator
	uowFactory unitofwork.RepositoryFactory
	registry   *intake.Registry
	publisher  IPublisherService
	metrics    *metrics.Metrics
	logger     logger.ILogger
	now        func() time.Time
}

func NewCaseMaterializer(
	cases ICaseService,
	documents document.Generator,
	uowFactory unitofwork.RepositoryFactory,
	registry *intake.Registry,
	publisher IPublisherService,
	m *metrics.Metrics,
	log logger.ILogger,
) ICaseMaterializer {
	return &caseMaterializer{
		cases:      cases,
		documents:  documents,
		uowFactory: uowFactory,
		registry:   registry,
		publisher:  publisher,
		metrics:    m,
		logger:     log,
		now:        time.Now,
	}
}

// Materialize is safe to retry. The case is created at most once per
// session and a case that already has its document is returned as is.
func (m *caseMaterializer) Materialize(ctx context.Context, s *intake.Session) (*intake.CaseSummary, error) {
	profile := m.registry.Lookup(s.Domain)

	summary, err := m.cases.CreateCase(ctx, CreateCaseRequest{
		Principal:         s.Principal,
		SessionID:         s.ID,
		Entities:          s.Entities.Values(),
		IssueType:         profile.IssueType,
		SubCategory:       profile.SubCategory,
		SelectedAction:    s.SelectedAction,
		Readiness:         s.Readiness,
		SuggestedSections: s.SuggestedSections,
	})
	if err != nil {
		return nil, fmt.Errorf("create case: %w", err)
	}
	if summary.Status == string(entity.CaseStatusCompleted) {
		return summary, nil
	}

	caseID, err := uuid.Parse(summary.CaseID)
	if err != nil {
		return nil, fmt.Errorf("case id %q: %w", summary.CaseID, err)
	}

	authority := ""
	if s.Readiness.Guidance != nil {
		authority = s.Readiness.Guidance.Authority
	}
	now := m.now()
	doc, err := m.documents.Generate(ctx, document.Request{
		ReferenceNumber:   summary.ReferenceNumber,
		IssueType:         profile.IssueType,
		SubCategory:       profile.SubCategory,
		Action:            s.SelectedAction,
		Fields:            s.Entities.Values(),
		SuggestedSections: s.SuggestedSections,
		Authority:         authority,
		Date:              now,
	})
	if err != nil {
		return nil, fmt.Errorf("generate document: %w", err)
	}

	stored := &entity.GeneratedDocument{
		Id:          uuid.New(),
		CaseId:      caseID,
		Kind:        string(doc.Kind),
		Title:       doc.Title,
		FileName:    doc.FileName,
		ContentType: doc.ContentType,
		Body:        doc.Body,
		CreatedAt:   now,
	}

	uow := m.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.DocumentRepository().Create(ctx, stored); err != nil {
		return nil, fmt.Errorf("store document: %w", err)
	}
	if err := uow.EvidenceRepository().AttachToCase(ctx, s.ID, caseID); err != nil {
		return nil, fmt.Errorf("attach evidence: %w", err)
	}
	completed, err := uow.CaseRepository().MarkCompleted(ctx, caseID, now)
	if err != nil {
		return nil, fmt.Errorf("complete case: %w", err)
	}
	if !completed {
		// Someone else finished the case between CreateCase and here; keep
		// their document.
		return summary, nil
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	summary.Status = string(entity.CaseStatusCompleted)
	m.metrics.CasesMaterialized.WithLabelValues(profile.IssueType).Inc()
	m.logger.Info("CASE", "Case materialized", map[string]interface{}{
		"case_id":          summary.CaseID,
		"reference_number": summary.ReferenceNumber,
		"session_id":       s.ID,
		"document":         stored.FileName,
	})

	m.publish(ctx, events.New(events.CaseMaterialized, map[string]interface{}{
		"case_id":          summary.CaseID,
		"reference_number": summary.ReferenceNumber,
		"session_id":       s.ID,
		"principal":        string(s.Principal),
		"issue_type":       profile.IssueType,
		"selected_action":  s.SelectedAction,
	}))
	m.publish(ctx, events.New(events.DocumentGenerated, map[string]interface{}{
		"case_id":          summary.CaseID,
		"document_id":      stored.Id.String(),
		"reference_number": summary.ReferenceNumber,
		"principal":        string(s.Principal),
		"issue_type":       profile.IssueType,
		"document_title":   stored.Title,
		"authority":        authority,
	}))
	return summary, nil
}

func (m *caseMaterializer) publish(ctx context.Context, e events.Event) {
	if err := m.publisher.Publish(ctx, e); err != nil {
		m.logger.Warn("CASE", "Failed to publish event", map[string]interface{}{
			"type":  e.EventType(),
			"error": err.Error(),
		})
	}
}
