package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/entity"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/repository/contract"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/repository/implementation"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/repository/specification"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/repository/unitofwork"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/pkg/casepatch"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/pkg/events"
)

// store is an in-memory backing for every repository the services use.
type store struct {
	mu            sync.Mutex
	users         map[uuid.UUID]*entity.User
	cases         map[uuid.UUID]*entity.Case
	documents     []*entity.GeneratedDocument
	evidence      []*entity.CaseEvidence
	notifications []*entity.Notification

	commits     int
	failCommit  error
	failCaseNew error
}

func newStore() *store {
	return &store{
		users: map[uuid.UUID]*entity.User{},
		cases: map[uuid.UUID]*entity.Case{},
	}
}

func (s *store) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUow{s: s}
}

type fakeUow struct {
	s *store
}

func (u *fakeUow) Begin(ctx context.Context) error { return nil }

func (u *fakeUow) Commit() error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	if u.s.failCommit != nil {
		return u.s.failCommit
	}
	u.s.commits++
	return nil
}

func (u *fakeUow) Rollback() error { return nil }

func (u *fakeUow) UserRepository() contract.UserRepository {
	return fakeUsers{u.s}
}

func (u *fakeUow) CaseRepository() contract.CaseRepository {
	return fakeCases{u.s}
}

func (u *fakeUow) DocumentRepository() contract.DocumentRepository {
	return fakeDocuments{u.s}
}

func (u *fakeUow) EvidenceRepository() contract.EvidenceRepository {
	return fakeEvidence{u.s}
}

func (u *fakeUow) NotificationRepository() contract.NotificationRepository {
	return fakeNotifications{u.s}
}

type fakeUsers struct{ s *store }

func (r fakeUsers) Create(_ context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *user
	r.s.users[user.Id] = &cp
	return nil
}

func (r fakeUsers) Update(ctx context.Context, user *entity.User) error {
	return r.Create(ctx, user)
}

func (r fakeUsers) FindOne(_ context.Context, specs ...specification.Specification) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if matchUser(u, specs) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r fakeUsers) Count(_ context.Context, specs ...specification.Specification) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, u := range r.s.users {
		if matchUser(u, specs) {
			n++
		}
	}
	return n, nil
}

func matchUser(u *entity.User, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch sp := spec.(type) {
		case specification.ByID:
			if u.Id != sp.ID {
				return false
			}
		case specification.ByPhone:
			if u.PhoneNumber != sp.Phone {
				return false
			}
		case specification.ByEmail:
			if u.Email == nil || *u.Email != sp.Email {
				return false
			}
		case specification.ActiveUsers:
			if u.Status != entity.UserStatusActive {
				return false
			}
		}
	}
	return true
}

type fakeCases struct{ s *store }

func (r fakeCases) Create(_ context.Context, c *entity.Case) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failCaseNew != nil {
		return r.s.failCaseNew
	}
	for _, existing := range r.s.cases {
		if existing.ReferenceNumber == c.ReferenceNumber {
			return errDuplicateReference
		}
	}
	r.s.cases[c.Id] = cloneCase(c)
	return nil
}

var errDuplicateReference = errors.New(`duplicate key value violates unique constraint "idx_legal_cases_reference_number"`)

func (r fakeCases) HighestReference(_ context.Context, prefix string) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	best := ""
	for _, c := range r.s.cases {
		ref := c.ReferenceNumber
		if !strings.HasPrefix(ref, prefix) {
			continue
		}
		if len(ref) > len(best) || (len(ref) == len(best) && ref > best) {
			best = ref
		}
	}
	return best, nil
}

func (r fakeCases) Update(_ context.Context, c *entity.Case) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.cases[c.Id] = cloneCase(c)
	return nil
}

func (r fakeCases) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.cases, id)
	return nil
}

func (r fakeCases) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Case, error) {
	all, _ := r.FindAll(ctx, specs...)
	if len(all) == 0 {
		return nil, nil
	}
	return all[0], nil
}

func (r fakeCases) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.Case, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Case
	for _, c := range r.s.cases {
		if matchCase(c, specs) {
			out = append(out, cloneCase(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	for _, spec := range specs {
		if p, ok := spec.(specification.Pagination); ok {
			if p.Offset >= len(out) {
				return nil, nil
			}
			out = out[p.Offset:]
			if p.Limit > 0 && p.Limit < len(out) {
				out = out[:p.Limit]
			}
		}
	}
	return out, nil
}

func (r fakeCases) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

func (r fakeCases) MarkCompleted(_ context.Context, id uuid.UUID, at time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.cases[id]
	if !ok || c.Status != entity.CaseStatusReady {
		return false, nil
	}
	c.Status = entity.CaseStatusCompleted
	c.CompletedAt = &at
	return true, nil
}

func matchCase(c *entity.Case, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch sp := spec.(type) {
		case specification.ByID:
			if c.Id != sp.ID {
				return false
			}
		case specification.BySessionID:
			if c.SessionId != sp.SessionID {
				return false
			}
		case specification.OwnedByPrincipal:
			if c.UserPrincipal != sp.Principal {
				return false
			}
		case specification.ByReference:
			if c.ReferenceNumber != sp.ReferenceNumber {
				return false
			}
		case specification.ByStatus:
			found := false
			for _, st := range sp.Statuses {
				found = found || string(c.Status) == st
			}
			if !found {
				return false
			}
		}
	}
	return true
}

func cloneCase(c *entity.Case) *entity.Case {
	cp := *c
	cp.Entities = make(casepatch.Entities, len(c.Entities))
	for k, v := range c.Entities {
		cp.Entities[k] = v
	}
	return &cp
}

type fakeDocuments struct{ s *store }

func (r fakeDocuments) Create(_ context.Context, doc *entity.GeneratedDocument) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.documents = append(r.s.documents, doc)
	return nil
}

func (r fakeDocuments) FindLatest(_ context.Context, caseID uuid.UUID) (*entity.GeneratedDocument, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := len(r.s.documents) - 1; i >= 0; i-- {
		if r.s.documents[i].CaseId == caseID {
			return r.s.documents[i], nil
		}
	}
	return nil, nil
}

type fakeEvidence struct{ s *store }

func (r fakeEvidence) Create(_ context.Context, e *entity.CaseEvidence) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.evidence = append(r.s.evidence, e)
	return nil
}

func (r fakeEvidence) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.CaseEvidence, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.CaseEvidence
	for _, e := range r.s.evidence {
		keep := true
		for _, spec := range specs {
			switch sp := spec.(type) {
			case specification.ByCaseID:
				keep = keep && e.CaseId != nil && *e.CaseId == sp.CaseID
			case specification.BySessionID:
				keep = keep && e.SessionId == sp.SessionID
			}
		}
		if keep {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r fakeEvidence) AttachToCase(_ context.Context, sessionID string, caseID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.evidence {
		if e.SessionId == sessionID {
			id := caseID
			e.CaseId = &id
		}
	}
	return nil
}

func (r fakeEvidence) DeleteBySession(_ context.Context, sessionID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	kept := r.s.evidence[:0]
	for _, e := range r.s.evidence {
		if e.SessionId != sessionID || e.CaseId != nil {
			kept = append(kept, e)
		}
	}
	r.s.evidence = kept
	return nil
}

type fakeNotifications struct{ s *store }

func (r fakeNotifications) Create(_ context.Context, n *entity.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *n
	r.s.notifications = append(r.s.notifications, &cp)
	return nil
}

func (r fakeNotifications) FindByUser(_ context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Notification, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Notification
	for _, n := range r.s.notifications {
		if n.UserId == userID {
			out = append(out, n)
		}
	}
	total := int64(len(out))
	if offset >= len(out) {
		return nil, total, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, total, nil
}

func (r fakeNotifications) UnreadCount(_ context.Context, userID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, x := range r.s.notifications {
		if x.UserId == userID && !x.IsRead {
			n++
		}
	}
	return n, nil
}

func (r fakeNotifications) MarkAsRead(_ context.Context, userID, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.notifications {
		if x.Id == id && x.UserId == userID {
			x.IsRead = true
			return nil
		}
	}
	return implementation.ErrNotificationNotFound
}

func (r fakeNotifications) MarkAllAsRead(_ context.Context, userID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.notifications {
		if x.UserId == userID {
			x.IsRead = true
		}
	}
	return nil
}

func (r fakeNotifications) MarkDelivered(_ context.Context, id uuid.UUID, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.notifications {
		if x.Id == id {
			x.DeliveredAt = &at
		}
	}
	return nil
}

// recordingPublisher keeps every published event.
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	return out
}
