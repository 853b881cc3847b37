package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/dto"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/entity"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/metrics"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/pkg/logger"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/repository/contract"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/repository/specification"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/repository/unitofwork"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/pkg/apperror"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/pkg/events"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/pkg/intake"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/pkg/lock"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/pkg/speech"
)

const sweepBatch = 100

type IIntakeService interface {
	Start(ctx context.Context, principal intake.Principal, req *dto.StartSessionRequest) (*intake.Response, error)
	Answer(ctx context.Context, principal intake.Principal, sessionID string, req *dto.AnswerRequest) (*intake.Response, error)
	Voice(ctx context.Context, principal intake.Principal, sessionID string, req *dto.VoiceAnswerRequest) (*intake.Response, error)
	SelectAction(ctx context.Context, principal intake.Principal, sessionID string, req *dto.SelectActionRequest) (*intake.Response, error)
	Confirm(ctx context.Context, principal intake.Principal, sessionID string, accept bool) (*intake.Response, error)
	Status(ctx context.Context, principal intake.Principal, sessionID string) (*intake.Response, error)
	UploadEvidence(ctx context.Context, principal intake.Principal, sessionID string, req *dto.EvidenceUploadRequest) (*dto.EvidenceResponse, error)
	Delete(ctx context.Context, principal intake.Principal, sessionID string) error

	// SweepIdle removes sessions idle for longer than the configured TTL
	// and reports how many were removed.
	SweepIdle(ctx context.Context) (int, error)
	RunSweeper(ctx context.Context, interval time.Duration)
}

// IntakeDeps groups the collaborators of the intake service.
type IntakeDeps struct {
	Machine      *intake.Machine
	Sessions     contract.SessionRepository
	Locker       lock.Locker
	Materializer ICaseMaterializer
	Transcriber  speech.Transcriber
	UowFactory   unitofwork.RepositoryFactory
	Publisher    IPublisherService
	Metrics      *metrics.Metrics
	Logger       logger.ILogger
	UploadDir    string
	SessionTTL   time.Duration

	// SpeechTimeout bounds recognition of one voice turn.
	SpeechTimeout time.Duration
}

type intakeService struct {
	IntakeDeps
	now   func() time.Time
	newID func() string
}

func NewIntakeService(deps IntakeDeps) IIntakeService {
	return &intakeService{
		IntakeDeps: deps,
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

func (s *intakeService) Start(ctx context.Context, principal intake.Principal, req *dto.StartSessionRequest) (*intake.Response, error) {
	turn := intake.Turn{Text: req.Text, Source: intake.SourceText, Language: req.Language}

	sess, res, err := s.Machine.Start(ctx, s.newID(), principal, turn)
	if err != nil {
		return nil, withText(err, req.Text)
	}
	if err := s.Sessions.Save(ctx, sess); err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, err, "could not save session")
	}

	s.Metrics.ObserveTransition("", sess.State)
	s.Logger.Info("INTAKE", "Session started", map[string]interface{}{
		"session_id": sess.ID,
		"domain":     sess.Domain,
		"state":      string(sess.State),
	})
	s.publish(ctx, events.New(events.SessionStarted, map[string]interface{}{
		"session_id": sess.ID,
		"principal":  string(sess.Principal),
		"domain":     sess.Domain,
		"state":      string(sess.State),
	}))
	return res, nil
}

func (s *intakeService) Answer(ctx context.Context, principal intake.Principal, sessionID string, req *dto.AnswerRequest) (*intake.Response, error) {
	return s.transition(ctx, principal, sessionID, func(sess *intake.Session) (*intake.Response, error) {
		res, err := s.Machine.Submit(ctx, sess, intake.Turn{Text: req.Text, Source: intake.SourceText, Language: req.Language})
		return res, withText(err, req.Text)
	})
}

func (s *intakeService) Voice(ctx context.Context, principal intake.Principal, sessionID string, req *dto.VoiceAnswerRequest) (*intake.Response, error) {
	var recording string

	res, err := s.transition(ctx, principal, sessionID, func(sess *intake.Session) (*intake.Response, error) {
		if sess.State == intake.StateActionChoice || sess.State == intake.StateComplete {
			return nil, apperror.InvalidState("session %s does not accept answers while %s", sess.ID, sess.State)
		}

		speechCtx, cancel := context.WithTimeout(ctx, s.speechTimeout())
		result, err := s.Transcriber.Transcribe(speechCtx, speech.Audio{
			FileName: req.FileName,
			Data:     req.Audio,
			Language: req.Language,
		}, req.TranscriptHint)
		cancel()
		if errors.Is(err, speech.ErrNoTranscript) {
			return nil, apperror.ValidationFailed("no speech could be recognised in the recording")
		}
		if err != nil {
			return nil, apperror.Wrap(apperror.KindOracleUnavailable, err, "speech recognition is unavailable")
		}

		turn := intake.Turn{Text: result.Text, Source: intake.SourceVoice, Language: result.Language}
		if len(req.Audio) > 0 {
			name := fmt.Sprintf("voice-%d%s", len(sess.Turns)+1, extOr(req.FileName, ".webm"))
			path, err := s.store(sess.ID, name, req.Audio)
			if err != nil {
				return nil, apperror.Wrap(apperror.KindInternal, err, "could not store recording")
			}
			recording = path
			turn.AudioPath = path
		}

		res, err := s.Machine.Submit(ctx, sess, turn)
		if err != nil {
			return nil, withText(err, result.Text)
		}
		res.Transcript = result.Text
		return res, nil
	})

	// The session never referenced a recording whose turn was rejected.
	if err != nil && recording != "" {
		if rmErr := os.Remove(recording); rmErr != nil && !os.IsNotExist(rmErr) {
			s.Logger.Warn("INTAKE", "Failed to remove rejected recording", map[string]interface{}{"path": recording, "error": rmErr.Error()})
		}
	}
	return res, err
}

func (s *intakeService) SelectAction(ctx context.Context, principal intake.Principal, sessionID string, req *dto.SelectActionRequest) (*intake.Response, error) {
	return s.transition(ctx, principal, sessionID, func(sess *intake.Session) (*intake.Response, error) {
		return s.Machine.SelectAction(sess, req.Title)
	})
}

func (s *intakeService) Confirm(ctx context.Context, principal intake.Principal, sessionID string, accept bool) (*intake.Response, error) {
	return s.transition(ctx, principal, sessionID, func(sess *intake.Session) (*intake.Response, error) {
		return s.Machine.Confirm(sess, accept)
	})
}

func (s *intakeService) Status(ctx context.Context, principal intake.Principal, sessionID string) (*intake.Response, error) {
	sess, err := s.load(ctx, principal, sessionID)
	if err != nil {
		return nil, err
	}
	res := intake.Respond(sess)
	if res.Complete != nil && sess.CaseID != "" {
		res.Complete.Case = s.lookupCase(ctx, sess.ID)
	}
	return res, nil
}

func (s *intakeService) UploadEvidence(ctx context.Context, principal intake.Principal, sessionID string, req *dto.EvidenceUploadRequest) (*dto.EvidenceResponse, error) {
	var evidence *entity.CaseEvidence

	res, err := s.transition(ctx, principal, sessionID, func(sess *intake.Session) (*intake.Response, error) {
		if sess.State == intake.StateComplete {
			return nil, apperror.InvalidState("session %s is complete", sess.ID)
		}
		if len(req.Data) == 0 {
			return nil, apperror.ValidationFailed("uploaded file is empty")
		}

		id := uuid.New()
		name := filepath.Base(req.FileName)
		path, err := s.store(sess.ID, id.String()+"-"+name, req.Data)
		if err != nil {
			return nil, apperror.Wrap(apperror.KindInternal, err, "could not store upload")
		}

		evidence = &entity.CaseEvidence{
			Id:            id,
			SessionId:     sess.ID,
			UserPrincipal: string(sess.Principal),
			FileName:      name,
			StoredPath:    path,
			ContentType:   req.ContentType,
			Size:          int64(len(req.Data)),
			CreatedAt:     s.now(),
		}
		uow := s.UowFactory.NewUnitOfWork(ctx)
		if err := uow.EvidenceRepository().Create(ctx, evidence); err != nil {
			return nil, apperror.Wrap(apperror.KindInternal, err, "could not record upload")
		}

		listed := name
		if sess.Entities.Filled(intake.FieldEvidence) {
			listed = sess.Entities[intake.FieldEvidence].Value + "; " + name
		}
		return s.Machine.Amend(sess, map[string]intake.Field{
			intake.FieldEvidence: {Value: listed, Explicit: true, Confidence: 1},
		})
	})
	if err != nil {
		return nil, err
	}

	return &dto.EvidenceResponse{
		Id:       evidence.Id.String(),
		FileName: evidence.FileName,
		Size:     evidence.Size,
		Session:  res,
	}, nil
}

func (s *intakeService) Delete(ctx context.Context, principal intake.Principal, sessionID string) error {
	// Ownership first: a stranger gets Forbidden even while the owner holds
	// the lock.
	if _, err := s.load(ctx, principal, sessionID); err != nil {
		return err
	}

	release, err := s.acquire(ctx, sessionID)
	if err != nil {
		return err
	}
	defer release()

	sess, err := s.load(ctx, principal, sessionID)
	if err != nil {
		return err
	}
	return s.remove(ctx, sess, "owner")
}

func (s *intakeService) SweepIdle(ctx context.Context) (int, error) {
	cutoff := s.now().Add(-s.SessionTTL)
	ids, err := s.Sessions.FindIdle(ctx, cutoff, sweepBatch)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, id := range ids {
		release, err := s.Locker.TryLock(ctx, sessionLockKey(id))
		if err != nil {
			// In use right now, so not idle.
			continue
		}
		sess, err := s.Sessions.FindByID(ctx, id)
		if err == nil && sess != nil && sess.LastActivityAt.Before(cutoff) {
			if err := s.remove(ctx, sess, "idle"); err != nil {
				s.Logger.Warn("INTAKE", "Failed to sweep session", map[string]interface{}{"session_id": id, "error": err.Error()})
			} else {
				removed++
			}
		}
		release()
	}

	if removed > 0 {
		s.Metrics.SessionsSwept.Add(float64(removed))
		s.Logger.Info("INTAKE", "Swept idle sessions", map[string]interface{}{"count": removed})
	}
	return removed, nil
}

func (s *intakeService) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.SweepIdle(ctx); err != nil {
				s.Logger.Error("INTAKE", "Idle session sweep failed", map[string]interface{}{"error": err.Error()})
			}
		}
	}
}

// transition runs one mutating call under the session lock. fn works on a
// copy; the stored session changes only when fn and everything after it
// succeed.
func (s *intakeService) transition(ctx context.Context, principal intake.Principal, sessionID string, fn func(sess *intake.Session) (*intake.Response, error)) (*intake.Response, error) {
	release, err := s.acquire(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer release()

	current, err := s.load(ctx, principal, sessionID)
	if err != nil {
		return nil, err
	}

	work := current.Clone()
	res, err := fn(work)
	if err != nil {
		return nil, err
	}

	if work.State == intake.StateComplete && current.State != intake.StateComplete {
		summary, err := s.Materializer.Materialize(ctx, work)
		if err != nil {
			s.Logger.Error("INTAKE", "Case materialization failed", map[string]interface{}{
				"session_id": work.ID,
				"error":      err.Error(),
			})
			return nil, apperror.Wrap(apperror.KindInternal, err, "could not create the case, please retry")
		}
		work.CaseID = summary.CaseID
		res = intake.Respond(work)
		res.Complete.Case = summary
	}

	if err := s.Sessions.Save(ctx, work); err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, err, "could not save session")
	}

	if work.State != current.State {
		s.Metrics.ObserveTransition(current.State, work.State)
		s.publish(ctx, events.New(events.SessionTransitioned, map[string]interface{}{
			"session_id": work.ID,
			"principal":  string(work.Principal),
			"from":       string(current.State),
			"to":         string(work.State),
		}))
	}
	return res, nil
}

func (s *intakeService) acquire(ctx context.Context, sessionID string) (lock.Release, error) {
	release, err := s.Locker.TryLock(ctx, sessionLockKey(sessionID))
	if errors.Is(err, lock.ErrHeld) {
		s.Metrics.BusyRejections.Inc()
		return nil, apperror.Busy("session %s is processing another request", sessionID)
	}
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, err, "could not lock session")
	}
	return release, nil
}

func (s *intakeService) load(ctx context.Context, principal intake.Principal, sessionID string) (*intake.Session, error) {
	sess, err := s.Sessions.FindByID(ctx, sessionID)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, err, "could not load session")
	}
	if sess == nil {
		return nil, apperror.NotFound("session %s not found", sessionID)
	}
	if !sess.OwnedBy(principal) {
		return nil, apperror.Forbidden("session %s belongs to another principal", sessionID)
	}
	return sess, nil
}

func (s *intakeService) remove(ctx context.Context, sess *intake.Session, reason string) error {
	if err := s.Sessions.Delete(ctx, sess.ID); err != nil {
		return apperror.Wrap(apperror.KindInternal, err, "could not delete session")
	}

	// Uploads of a session that never became a case go with it.
	if sess.CaseID == "" {
		uow := s.UowFactory.NewUnitOfWork(ctx)
		if err := uow.EvidenceRepository().DeleteBySession(ctx, sess.ID); err != nil {
			s.Logger.Warn("INTAKE", "Failed to delete session uploads", map[string]interface{}{"session_id": sess.ID, "error": err.Error()})
		}
		if s.UploadDir != "" {
			if err := os.RemoveAll(filepath.Join(s.UploadDir, sess.ID)); err != nil {
				s.Logger.Warn("INTAKE", "Failed to remove upload directory", map[string]interface{}{"session_id": sess.ID, "error": err.Error()})
			}
		}
	}

	s.publish(ctx, events.New(events.SessionDeleted, map[string]interface{}{
		"session_id": sess.ID,
		"principal":  string(sess.Principal),
		"state":      string(sess.State),
		"reason":     reason,
	}))
	return nil
}

func (s *intakeService) lookupCase(ctx context.Context, sessionID string) *intake.CaseSummary {
	uow := s.UowFactory.NewUnitOfWork(ctx)
	c, err := uow.CaseRepository().FindOne(ctx, specification.BySessionID{SessionID: sessionID})
	if err != nil || c == nil {
		return nil
	}
	return caseSummary(c)
}

// store writes an upload under UploadDir/<session id>/ and returns its path.
func (s *intakeService) store(sessionID, name string, data []byte) (string, error) {
	if s.UploadDir == "" {
		return "", nil
	}
	dir := filepath.Join(s.UploadDir, sessionID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, filepath.Base(name))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func (s *intakeService) publish(ctx context.Context, e events.Event) {
	if err := s.Publisher.Publish(ctx, e); err != nil {
		s.Logger.Warn("INTAKE", "Failed to publish event", map[string]interface{}{
			"type":  e.EventType(),
			"error": err.Error(),
		})
	}
}

func (s *intakeService) speechTimeout() time.Duration {
	if s.SpeechTimeout > 0 {
		return s.SpeechTimeout
	}
	return speech.DefaultTimeout
}

func sessionLockKey(id string) string {
	return "session:" + id
}

// withText attaches the rejected turn to an oracle failure so the client
// can resubmit it verbatim.
func withText(err error, text string) error {
	if err == nil {
		return nil
	}
	if appErr, ok := apperror.From(err); ok && appErr.Kind == apperror.KindOracleUnavailable {
		return appErr.WithDetail("text", text)
	}
	return err
}

func extOr(name, fallback string) string {
	if ext := strings.ToLower(filepath.Ext(name)); ext != "" {
		return ext
	}
	return fallback
}
