package implementation

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/repository/specification"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/pkg/intake"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestCaseRepositoryFindOneNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCaseRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "legal_cases" WHERE session_id = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	c, err := repo.FindOne(context.Background(), specification.BySessionID{SessionID: "s1"})

	require.NoError(t, err)
	assert.Nil(t, c)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCaseRepositoryMarkCompleted(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		want     bool
	}{
		{name: "ready case completes", affected: 1, want: true},
		{name: "already completed", affected: 0, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			repo := NewCaseRepository(db)

			mock.ExpectExec(`UPDATE "legal_cases" SET .*"status"=.* WHERE id = \$\d+ AND status = \$\d+`).
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			ok, err := repo.MarkCompleted(context.Background(), uuid.New(), time.Now())

			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSessionRepositoryFindByIDDecodesSnapshot(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSessionRepository(db)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	snapshot := `{"id":"s1","principal":"user-1","state":"CONFIRMATION","turns":[{"text":"my phone was stolen","source":"text","at":"2026-03-01T10:00:00Z"}],"entities":{"name":{"value":"Ravi","turn":1},"accused":{"value":"EXPLICITLY_DENIED","turn":2}},"domain":"theft","confidence":0.8,"readiness":{"score":85,"status":"ready"},"created_at":"2026-03-01T10:00:00Z","last_activity_at":"2026-03-01T10:00:00Z"}`
	rows := sqlmock.NewRows([]string{"id", "principal", "state", "domain", "snapshot", "case_id", "created_at", "last_activity_at"}).
		AddRow("s1", "user-1", "CONFIRMATION", "theft", []byte(snapshot), nil, now, now)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "intake_sessions" WHERE id = $1`)).WillReturnRows(rows)

	s, err := repo.FindByID(context.Background(), "s1")

	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, intake.StateConfirmation, s.State)
	assert.Equal(t, intake.Principal("user-1"), s.Principal)
	assert.Equal(t, intake.PresenceDenied, s.Entities.Presence("accused"))
	assert.Equal(t, 85, s.Readiness.Score)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepositoryFindIdle(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSessionRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT "id" FROM "intake_sessions" WHERE last_activity_at < $1 ORDER BY last_activity_at ASC LIMIT`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("a").AddRow("b"))

	ids, err := repo.FindIdle(context.Background(), time.Now(), 50)

	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEvidenceRepositoryFindAllOldestFirst(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEvidenceRepository(db)
	caseID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "case_evidence" WHERE case_id = \$1 ORDER BY created_at ASC`).
		WithArgs(caseID.String()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "session_id", "case_id", "file_name", "size"}).
			AddRow(uuid.NewString(), "s1", caseID.String(), "fir.pdf", 2048).
			AddRow(uuid.NewString(), "s1", caseID.String(), "photo.jpg", 512))

	rows, err := repo.FindAll(context.Background(), specification.ByCaseID{CaseID: caseID})

	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "fir.pdf", rows[0].FileName)
	assert.Equal(t, caseID, *rows[1].CaseId)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCaseRepositoryHighestReference(t *testing.T) {
	tests := []struct {
		name string
		rows *sqlmock.Rows
		want string
	}{
		{name: "latest of the year", rows: sqlmock.NewRows([]string{"reference_number"}).AddRow("LDA-2026-000042"), want: "LDA-2026-000042"},
		{name: "nothing issued yet", rows: sqlmock.NewRows([]string{"reference_number"}), want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			repo := NewCaseRepository(db)

			mock.ExpectQuery(`SELECT "reference_number" FROM "legal_cases" WHERE reference_number LIKE \$1 ORDER BY length\(reference_number\) DESC, reference_number DESC`).
				WillReturnRows(tt.rows)

			got, err := repo.HighestReference(context.Background(), "LDA-2026-")

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
