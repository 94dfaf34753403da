package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

const (
	insertSQL = `^INSERT INTO weekly_availability \(owner_id,day_of_week,start_time,end_time,slot_duration_minutes,is_active\) ` +
		`VALUES \(\$1,\$2,\$3,\$4,\$5,\$6\) ON CONFLICT \(owner_id, day_of_week\) DO NOTHING RETURNING id, created_at, updated_at$`
	selectByIDSQL      = `FROM weekly_availability WHERE id = \$1$`
	selectForUpdateSQL = `FROM weekly_availability WHERE id = \$1 FOR UPDATE$`
)

func newMockRepository(t *testing.T) (*Repository, *dbmetrics.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	wrapped := dbmetrics.New(db, nil)
	return NewRepository(wrapped), wrapped, mock
}

func mondayWindow() *domain.WeeklyAvailability {
	return &domain.WeeklyAvailability{
		OwnerID:             10,
		DayOfWeek:           time.Monday,
		StartTime:           types.MustTimeString("09:00"),
		EndTime:             types.MustTimeString("17:00"),
		SlotDurationMinutes: 60,
		IsActive:            true,
	}
}

func windowRow(id int64) *sqlmock.Rows {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return sqlmock.NewRows(columns).AddRow(id, int64(10), 1, "09:00:00", "17:00:00", 60, true, at, at)
}

func TestCreate_InsertIfAbsent(t *testing.T) {
	repo, _, mock := newMockRepository(t)
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(insertSQL).
		WithArgs(int64(10), 1, "09:00", "17:00", 60, true).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(7), at, at))

	created, err := repo.Create(context.Background(), mondayWindow())
	require.NoError(t, err)
	assert.Equal(t, int64(7), created.ID)
	assert.Equal(t, at, created.CreatedAt)

	// ON CONFLICT DO NOTHING не вернул строку: окно на этот день уже есть
	mock.ExpectQuery(insertSQL).
		WithArgs(int64(10), 1, "09:00", "17:00", 60, true).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}))

	_, err = repo.Create(context.Background(), mondayWindow())
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestCreate_DriverErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"уникальный ключ", &pq.Error{Code: pqUniqueViolation}, ErrAlreadyExists},
		{"check ограничение", &pq.Error{Code: pqCheckViolation}, ErrConstraintViolation},
		{"обрыв соединения", errors.New("connection reset"), ErrExecQuery},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, _, mock := newMockRepository(t)
			mock.ExpectQuery(insertSQL).WillReturnError(tt.err)

			_, err := repo.Create(context.Background(), mondayWindow())
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestGetByID(t *testing.T) {
	repo, _, mock := newMockRepository(t)

	mock.ExpectQuery(selectByIDSQL).WithArgs(int64(3)).WillReturnRows(windowRow(3))
	got, err := repo.GetByID(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, time.Monday, got.DayOfWeek)
	assert.Equal(t, types.TimeString("09:00"), got.StartTime)
	assert.Equal(t, types.TimeString("17:00"), got.EndTime)

	mock.ExpectQuery(selectByIDSQL).WithArgs(int64(4)).WillReturnRows(sqlmock.NewRows(columns))
	_, err = repo.GetByID(context.Background(), 4)
	assert.ErrorIs(t, err, ErrAvailabilityNotFound)
}

func TestGetByID_LocksRowInTransaction(t *testing.T) {
	repo, db, mock := newMockRepository(t)

	mock.ExpectBegin()
	mock.ExpectQuery(selectForUpdateSQL).WithArgs(int64(3)).WillReturnRows(windowRow(3))
	mock.ExpectRollback()

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)

	_, err = repo.GetByID(dbmetrics.WithTx(context.Background(), tx), 3)
	require.NoError(t, err)
	require.NoError(t, tx.Rollback())
}

func TestUpdate(t *testing.T) {
	repo, _, mock := newMockRepository(t)
	w := mondayWindow()
	w.ID = 3

	mock.ExpectQuery(`^UPDATE weekly_availability SET .* WHERE id = \$5 RETURNING created_at, updated_at$`).
		WithArgs("09:00", "17:00", 60, true, int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}))
	_, err := repo.Update(context.Background(), w)
	assert.ErrorIs(t, err, ErrAvailabilityNotFound)

	mock.ExpectQuery(`^UPDATE weekly_availability`).WillReturnError(&pq.Error{Code: pqCheckViolation})
	_, err = repo.Update(context.Background(), w)
	assert.ErrorIs(t, err, ErrConstraintViolation)
}

func TestDelete(t *testing.T) {
	repo, _, mock := newMockRepository(t)

	mock.ExpectExec(`^DELETE FROM weekly_availability WHERE id = \$1$`).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Delete(context.Background(), 3))

	mock.ExpectExec(`^DELETE FROM weekly_availability WHERE id = \$1$`).
		WithArgs(int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Delete(context.Background(), 4), ErrAvailabilityNotFound)
}

func TestClassify(t *testing.T) {
	err := classify("Create", &pq.Error{Code: pqUniqueViolation})
	assert.ErrorIs(t, err, ErrAlreadyExists)

	var pqErr *pq.Error
	assert.True(t, errors.As(err, &pqErr), "driver error stays in the chain")

	assert.ErrorIs(t, classify("Update", &pq.Error{Code: pqCheckViolation}), ErrConstraintViolation)
	assert.ErrorIs(t, classify("Update", errors.New("connection reset")), ErrExecQuery)
}
