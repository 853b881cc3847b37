package memory

import (
	"context"
	"sort"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/repository/contract"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/pkg/intake"
)

// SessionRepository keeps sessions in process memory. Entries expire after
// ttl as a backstop; the idle sweeper normally removes them first.
type SessionRepository struct {
	cache *cache.Cache
}

var _ contract.SessionRepository = (*SessionRepository)(nil)

func NewSessionRepository(ttl time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &SessionRepository{
		cache: cache.New(2*ttl, 10*time.Minute),
	}
}

// Stored values are private copies so callers never share a session.

func (r *SessionRepository) Save(_ context.Context, s *intake.Session) error {
	r.cache.Set(s.ID, s.Clone(), cache.DefaultExpiration)
	return nil
}

func (r *SessionRepository) FindByID(_ context.Context, id string) (*intake.Session, error) {
	if x, found := r.cache.Get(id); found {
		return x.(*intake.Session).Clone(), nil
	}
	return nil, nil
}

func (r *SessionRepository) Delete(_ context.Context, id string) error {
	r.cache.Delete(id)
	return nil
}

func (r *SessionRepository) FindIdle(_ context.Context, before time.Time, limit int) ([]string, error) {
	type idle struct {
		id string
		at time.Time
	}
	var found []idle
	for id, item := range r.cache.Items() {
		s := item.Object.(*intake.Session)
		if s.LastActivityAt.Before(before) {
			found = append(found, idle{id: id, at: s.LastActivityAt})
		}
	}
	sort.Slice(found, func(i, j int) bool { return found[i].at.Before(found[j].at) })
	if limit > 0 && len(found) > limit {
		found = found[:limit]
	}
	ids := make([]string, len(found))
	for i, f := range found {
		ids[i] = f.id
	}
	return ids, nil
}
