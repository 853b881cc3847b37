package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/dto"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/entity"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/pkg/logger"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/repository/specification"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/repository/unitofwork"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/pkg/apperror"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/pkg/casepatch"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/pkg/intake"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/pkg/reference"
)

const (
	defaultCasePageSize  = 20
	maxReferenceAttempts = 5
)

// CreateCaseRequest carries a confirmed session to the case store.
type CreateCaseRequest struct {
	Principal         intake.Principal
	SessionID         string
	Entities          map[string]string
	IssueType         string
	SubCategory       string
	SelectedAction    string
	Readiness         intake.Readiness
	SuggestedSections []string
}

type ICaseService interface {
	// CreateCase is idempotent per session: a second call returns the case
	// created by the first.
	CreateCase(ctx context.Context, req CreateCaseRequest) (*intake.CaseSummary, error)
	CreateDraft(ctx context.Context, principal intake.Principal, req *dto.CreateDraftCaseRequest) (*dto.CaseResponse, error)
	List(ctx context.Context, principal intake.Principal, req *dto.ListCasesRequest) (*dto.CaseListResponse, error)
	Show(ctx context.Context, principal intake.Principal, id uuid.UUID) (*dto.CaseResponse, error)
	Patch(ctx context.Context, principal intake.Principal, id uuid.UUID, req *dto.PatchCaseRequest) (*dto.CaseResponse, error)
	ConfirmEntity(ctx context.Context, principal intake.Principal, id uuid.UUID, req *dto.ConfirmEntityRequest) (*dto.CaseResponse, error)
	Delete(ctx context.Context, principal intake.Principal, id uuid.UUID) error
	LatestDocument(ctx context.Context, principal intake.Principal, id uuid.UUID) (*dto.DocumentResponse, error)
	// ResumeReferences moves the reference counter past the highest number
	// already stored for the current year. Run it once at startup.
	ResumeReferences(ctx context.Context) error
}

type caseService struct {
	uowFactory unitofwork.RepositoryFactory
	references reference.Generator
	patcher    *casepatch.Patcher
	logger     logger.ILogger
	now        func() time.Time
}

func NewCaseService(uowFactory unitofwork.RepositoryFactory, references reference.Generator, log logger.ILogger) ICaseService {
	fields := append([]string{intake.FieldRelationship, intake.FieldDescription}, intake.DefaultPriority...)
	return &caseService{
		uowFactory: uowFactory,
		references: references,
		patcher:    casepatch.New(casepatch.DefaultAllowedPaths, fields),
		logger:     log,
		now:        time.Now,
	}
}

func (s *caseService) CreateCase(ctx context.Context, req CreateCaseRequest) (*intake.CaseSummary, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.CaseRepository().FindOne(ctx, specification.BySessionID{SessionID: req.SessionID})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return caseSummary(existing), nil
	}

	now := s.now()
	c := &entity.Case{
		Id:                uuid.New(),
		SessionId:         req.SessionID,
		UserPrincipal:     string(req.Principal),
		IssueType:         req.IssueType,
		SubCategory:       req.SubCategory,
		Entities:          toCaseEntities(req.Entities),
		SelectedAction:    req.SelectedAction,
		ReadinessScore:    req.Readiness.Score,
		ReadinessStatus:   string(req.Readiness.Band),
		Guidance:          req.Readiness.Guidance,
		SuggestedSections: req.SuggestedSections,
		Status:            entity.CaseStatusReady,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if req.Readiness.Guidance != nil {
		c.SuggestedAuthority = req.Readiness.Guidance.Authority
	}

	if err := s.insert(ctx, uow, c); err != nil {
		// A concurrent materialization of the same session won the unique
		// session_id constraint.
		if winner, findErr := uow.CaseRepository().FindOne(ctx, specification.BySessionID{SessionID: req.SessionID}); findErr == nil && winner != nil {
			return caseSummary(winner), nil
		}
		return nil, err
	}

	s.logger.Info("CASE", "Case created", map[string]interface{}{
		"case_id":          c.Id.String(),
		"reference_number": c.ReferenceNumber,
		"session_id":       c.SessionId,
	})
	return caseSummary(c), nil
}

func (s *caseService) CreateDraft(ctx context.Context, principal intake.Principal, req *dto.CreateDraftCaseRequest) (*dto.CaseResponse, error) {
	if principal == "" {
		return nil, apperror.Forbidden("a principal is required")
	}
	now := s.now()
	c := &entity.Case{
		Id:              uuid.New(),
		SessionId:       "manual-" + uuid.NewString(),
		UserPrincipal:   string(principal),
		IssueType:       req.IssueType,
		SubCategory:     req.SubCategory,
		Entities:        toCaseEntities(req.Entities),
		Status:          entity.CaseStatusDraft,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.insert(ctx, s.uowFactory.NewUnitOfWork(ctx), c); err != nil {
		return nil, err
	}
	return toCaseResponse(c), nil
}

// insert stores c under a fresh reference number, skipping numbers that are
// already taken.
func (s *caseService) insert(ctx context.Context, uow unitofwork.UnitOfWork, c *entity.Case) error {
	var err error
	for attempt := 0; attempt < maxReferenceAttempts; attempt++ {
		if c.ReferenceNumber, err = s.references.Next(ctx); err != nil {
			return err
		}
		if err = uow.CaseRepository().Create(ctx, c); err == nil {
			return nil
		}

		taken, findErr := uow.CaseRepository().FindOne(ctx, specification.ByReference{ReferenceNumber: c.ReferenceNumber})
		if findErr != nil || taken == nil {
			return err
		}
		s.logger.Warn("CASE", "Reference number already taken", map[string]interface{}{
			"reference_number": c.ReferenceNumber,
			"attempt":          attempt + 1,
		})
	}
	return err
}

func (s *caseService) ResumeReferences(ctx context.Context) error {
	year := s.now().Year()
	highest, err := s.uowFactory.NewUnitOfWork(ctx).CaseRepository().HighestReference(ctx, reference.YearPrefix(year))
	if err != nil {
		return err
	}
	if highest == "" {
		return nil
	}

	_, seq, ok := reference.Parse(highest)
	if !ok {
		return fmt.Errorf("unrecognised reference number %q", highest)
	}
	if err := s.references.Resume(ctx, year, seq); err != nil {
		return err
	}
	s.logger.Info("CASE", "Reference counter resumed", map[string]interface{}{"after": highest})
	return nil
}

func (s *caseService) List(ctx context.Context, principal intake.Principal, req *dto.ListCasesRequest) (*dto.CaseListResponse, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = defaultCasePageSize
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	filters := []specification.Specification{specification.OwnedByPrincipal{Principal: string(principal)}}
	if req.Status != "" {
		filters = append(filters, specification.ByStatus{Statuses: []string{req.Status}})
	}

	cases, err := uow.CaseRepository().FindAll(ctx, append(filters,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: req.Offset},
	)...)
	if err != nil {
		return nil, err
	}
	total, err := uow.CaseRepository().Count(ctx, filters...)
	if err != nil {
		return nil, err
	}

	items := make([]dto.CaseResponse, 0, len(cases))
	for _, c := range cases {
		items = append(items, *toCaseResponse(c))
	}
	return &dto.CaseListResponse{Items: items, Total: total}, nil
}

func (s *caseService) Show(ctx context.Context, principal intake.Principal, id uuid.UUID) (*dto.CaseResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	c, err := s.ownedCase(ctx, uow, principal, id)
	if err != nil {
		return nil, err
	}
	evidence, err := uow.EvidenceRepository().FindAll(ctx, specification.ByCaseID{CaseID: c.Id})
	if err != nil {
		return nil, err
	}

	res := toCaseResponse(c)
	for _, e := range evidence {
		res.Evidence = append(res.Evidence, dto.EvidenceSummary{
			Id:          e.Id,
			FileName:    e.FileName,
			ContentType: e.ContentType,
			Size:        e.Size,
			UploadedAt:  e.CreatedAt,
		})
	}
	return res, nil
}

func (s *caseService) Patch(ctx context.Context, principal intake.Principal, id uuid.UUID, req *dto.PatchCaseRequest) (*dto.CaseResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	c, err := s.ownedCase(ctx, uow, principal, id)
	if err != nil {
		return nil, err
	}
	if !c.Status.Editable() {
		return nil, apperror.InvalidState("case %s is %s and can no longer be edited", c.ReferenceNumber, c.Status)
	}

	patched, err := s.patcher.Apply(c.Entities, req.Operations)
	if err != nil {
		if errors.Is(err, casepatch.ErrInvalidPatch) || errors.Is(err, casepatch.ErrPathDenied) {
			return nil, apperror.ValidationFailed("%s", err.Error())
		}
		return nil, err
	}

	c.Entities = patched
	if c.Status == entity.CaseStatusDraft {
		c.Status = entity.CaseStatusInProgress
	}
	c.UpdatedAt = s.now()

	if err := uow.CaseRepository().Update(ctx, c); err != nil {
		return nil, err
	}
	return toCaseResponse(c), nil
}

func (s *caseService) ConfirmEntity(ctx context.Context, principal intake.Principal, id uuid.UUID, req *dto.ConfirmEntityRequest) (*dto.CaseResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	c, err := s.ownedCase(ctx, uow, principal, id)
	if err != nil {
		return nil, err
	}
	if c.Status == entity.CaseStatusCompleted {
		return nil, apperror.InvalidState("case %s is completed", c.ReferenceNumber)
	}

	v, ok := c.Entities[req.Field]
	if !ok {
		return nil, apperror.NotFound("case %s has no field %q", c.ReferenceNumber, req.Field)
	}
	if v.Confirmed {
		return toCaseResponse(c), nil
	}
	v.Confirmed = true
	c.Entities[req.Field] = v
	c.UpdatedAt = s.now()

	if err := uow.CaseRepository().Update(ctx, c); err != nil {
		return nil, err
	}
	return toCaseResponse(c), nil
}

func (s *caseService) Delete(ctx context.Context, principal intake.Principal, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	c, err := s.ownedCase(ctx, uow, principal, id)
	if err != nil {
		return err
	}
	if c.Status != entity.CaseStatusDraft {
		return apperror.InvalidState("only draft cases can be deleted, case %s is %s", c.ReferenceNumber, c.Status)
	}
	return uow.CaseRepository().Delete(ctx, c.Id)
}

func (s *caseService) LatestDocument(ctx context.Context, principal intake.Principal, id uuid.UUID) (*dto.DocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	c, err := s.ownedCase(ctx, uow, principal, id)
	if err != nil {
		return nil, err
	}
	doc, err := uow.DocumentRepository().FindLatest(ctx, c.Id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, apperror.NotFound("case %s has no document yet", c.ReferenceNumber)
	}
	return &dto.DocumentResponse{
		Id:          doc.Id,
		CaseId:      doc.CaseId,
		Kind:        doc.Kind,
		Title:       doc.Title,
		FileName:    doc.FileName,
		ContentType: doc.ContentType,
		Content:     string(doc.Body),
		CreatedAt:   doc.CreatedAt,
	}, nil
}

func (s *caseService) ownedCase(ctx context.Context, uow unitofwork.UnitOfWork, principal intake.Principal, id uuid.UUID) (*entity.Case, error) {
	c, err := uow.CaseRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperror.NotFound("case %s not found", id)
	}
	if !c.OwnedBy(principal) {
		return nil, apperror.Forbidden("case %s belongs to another principal", id)
	}
	return c, nil
}

func toCaseEntities(values map[string]string) casepatch.Entities {
	out := make(casepatch.Entities, len(values))
	for k, v := range values {
		switch v {
		case "":
		case intake.DeniedSentinel:
			out[k] = casepatch.EntityValue{Denied: true}
		default:
			out[k] = casepatch.EntityValue{Value: v}
		}
	}
	return out
}

func caseSummary(c *entity.Case) *intake.CaseSummary {
	return &intake.CaseSummary{
		CaseID:          c.Id.String(),
		ReferenceNumber: c.ReferenceNumber,
		Status:          string(c.Status),
		Completeness:    c.Completeness(),
	}
}

func toCaseResponse(c *entity.Case) *dto.CaseResponse {
	sections := c.SuggestedSections
	if sections == nil {
		sections = []string{}
	}
	return &dto.CaseResponse{
		Id:                 c.Id,
		ReferenceNumber:    c.ReferenceNumber,
		SessionId:          c.SessionId,
		IssueType:          c.IssueType,
		SubCategory:        c.SubCategory,
		Entities:           c.Entities,
		SelectedAction:     c.SelectedAction,
		ReadinessScore:     c.ReadinessScore,
		ReadinessStatus:    c.ReadinessStatus,
		SuggestedAuthority: c.SuggestedAuthority,
		Guidance:           c.Guidance,
		SuggestedSections:  sections,
		Status:             string(c.Status),
		Completeness:       c.Completeness(),
		CreatedAt:          c.CreatedAt,
		UpdatedAt:          c.UpdatedAt,
		CompletedAt:        c.CompletedAt,
	}
}
