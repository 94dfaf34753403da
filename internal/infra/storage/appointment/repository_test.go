package appointment

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
	"github.com/m04kA/SMC-SchedulingService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-SchedulingService/pkg/txmanager"
)

func TestClassify_Exclusion(t *testing.T) {
	err := classify("Create", &pq.Error{Code: pqExclusionViolation})
	assert.ErrorIs(t, err, ErrOverlap)
}

func TestClassify_SerializationStaysVisible(t *testing.T) {
	err := classify("Create", &pq.Error{Code: "40001"})
	assert.ErrorIs(t, err, ErrExecQuery)
	assert.True(t, txmanager.IsSerializationFailure(err))
	assert.False(t, errors.Is(err, ErrOverlap))
}

func TestReturningColumns(t *testing.T) {
	got := returningColumns()
	assert.True(t, strings.HasPrefix(got, "id, owner_id, patient_id"))
	assert.Equal(t, len(columns)-1, strings.Count(got, ", "))
}

func TestActiveStatusFilterSQL(t *testing.T) {
	query, args, err := psqlbuilder.Select("id").
		From(table).
		Where(map[string]interface{}{"status": statusStrings(domain.ActiveStatuses)}).
		ToSql()
	require.NoError(t, err)

	assert.Equal(t, "SELECT id FROM appointments WHERE status IN ($1,$2)", query)
	assert.Equal(t, []interface{}{"pending", "confirmed"}, args)
}

var bookedAt = time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)

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

func appointmentRows() *sqlmock.Rows {
	return sqlmock.NewRows(columns)
}

func appointmentRow(id int64, status string) *sqlmock.Rows {
	return appointmentRows().AddRow(
		id, int64(10), int64(20), bookedAt, bookedAt.Add(time.Hour), status, "consultation",
		nil, []byte("{}"), nil, nil, bookedAt, bookedAt,
	)
}

func TestCreate_ExclusionViolationIsOverlap(t *testing.T) {
	repo, _, mock := newMockRepository(t)

	mock.ExpectQuery(`^INSERT INTO appointments \(owner_id,patient_id,scheduled_at,ends_at,status,type,reason,notes\) .* RETURNING id, created_at, updated_at$`).
		WithArgs(int64(10), int64(20), bookedAt, bookedAt.Add(time.Hour), "pending", "consultation", nil, sqlmock.AnyArg()).
		WillReturnError(&pq.Error{Code: pqExclusionViolation})

	_, err := repo.Create(context.Background(), &domain.Appointment{
		OwnerID:     10,
		PatientID:   20,
		ScheduledAt: bookedAt,
		EndsAt:      bookedAt.Add(time.Hour),
		Status:      domain.StatusPending,
		Type:        "consultation",
	})
	assert.ErrorIs(t, err, ErrOverlap)
}

func TestUpdateStatus_CompareAndSwap(t *testing.T) {
	const updateSQL = `^UPDATE appointments SET status = \$1, updated_at = NOW\(\) WHERE id = \$2 AND status = \$3 RETURNING id, owner_id`

	repo, _, mock := newMockRepository(t)

	mock.ExpectQuery(updateSQL).
		WithArgs("confirmed", int64(5), "pending").
		WillReturnRows(appointmentRow(5, "confirmed"))

	got, err := repo.UpdateStatus(context.Background(), 5, domain.StatusPending, domain.StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, got.Status)
	assert.Equal(t, []string{}, got.Notes)

	// статус уже сменил другой запрос: строка не обновлена
	mock.ExpectQuery(updateSQL).
		WithArgs("confirmed", int64(5), "pending").
		WillReturnRows(appointmentRows())

	_, err = repo.UpdateStatus(context.Background(), 5, domain.StatusPending, domain.StatusConfirmed)
	assert.ErrorIs(t, err, ErrStatusChanged)
}

func TestCancel_CompareAndSwap(t *testing.T) {
	const cancelSQL = `^UPDATE appointments SET status = \$1, cancellation_reason = \$2, cancelled_at = NOW\(\), updated_at = NOW\(\) ` +
		`WHERE id = \$3 AND status = \$4 RETURNING id, owner_id`

	repo, _, mock := newMockRepository(t)

	mock.ExpectQuery(cancelSQL).
		WithArgs("cancelled", "передумал", int64(5), "confirmed").
		WillReturnRows(appointmentRows().AddRow(
			int64(5), int64(10), int64(20), bookedAt, bookedAt.Add(time.Hour), "cancelled", "consultation",
			nil, []byte("{}"), "передумал", bookedAt, bookedAt, bookedAt,
		))

	got, err := repo.Cancel(context.Background(), 5, domain.StatusConfirmed, ptr.Ptr("передумал"))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, got.Status)
	require.NotNil(t, got.CancellationReason)
	assert.Equal(t, "передумал", *got.CancellationReason)
	require.NotNil(t, got.CancelledAt)

	mock.ExpectQuery(cancelSQL).
		WithArgs("cancelled", nil, int64(5), "confirmed").
		WillReturnRows(appointmentRows())

	_, err = repo.Cancel(context.Background(), 5, domain.StatusConfirmed, nil)
	assert.ErrorIs(t, err, ErrStatusChanged)
}

func TestAddNote(t *testing.T) {
	const addNoteSQL = `^UPDATE appointments SET notes = array_append\(notes, \$1\), updated_at = NOW\(\) WHERE id = \$2 RETURNING`

	repo, _, mock := newMockRepository(t)

	mock.ExpectQuery(addNoteSQL).
		WithArgs("давление в норме", int64(5)).
		WillReturnRows(appointmentRows().AddRow(
			int64(5), int64(10), int64(20), bookedAt, bookedAt.Add(time.Hour), "completed", "consultation",
			nil, []byte(`{"первый осмотр","давление в норме"}`), nil, nil, bookedAt, bookedAt,
		))

	got, err := repo.AddNote(context.Background(), 5, "давление в норме")
	require.NoError(t, err)
	assert.Equal(t, []string{"первый осмотр", "давление в норме"}, got.Notes)

	mock.ExpectQuery(addNoteSQL).WithArgs("x", int64(6)).WillReturnRows(appointmentRows())
	_, err = repo.AddNote(context.Background(), 6, "x")
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestListByOwner_ActiveForUpdateInTransaction(t *testing.T) {
	repo, db, mock := newMockRepository(t)
	from, to := bookedAt.Truncate(24*time.Hour), bookedAt.Truncate(24*time.Hour).Add(24*time.Hour)

	mock.ExpectBegin()
	mock.ExpectQuery(`WHERE owner_id = \$1 AND scheduled_at >= \$2 AND scheduled_at < \$3 AND status IN \(\$4,\$5\) ` +
		`ORDER BY scheduled_at ASC FOR UPDATE$`).
		WithArgs(int64(10), from, to, "pending", "confirmed").
		WillReturnRows(appointmentRow(1, "pending"))
	mock.ExpectRollback()

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)

	got, err := repo.ListByOwner(dbmetrics.WithTx(context.Background(), tx), domain.OwnerAppointmentsFilter{
		OwnerID:    10,
		From:       &from,
		To:         &to,
		ActiveOnly: true,
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, domain.StatusPending, got[0].Status)
	require.NoError(t, tx.Rollback())
}

func TestGetByID_NotFound(t *testing.T) {
	repo, _, mock := newMockRepository(t)

	mock.ExpectQuery(`FROM appointments WHERE id = \$1$`).WithArgs(int64(9)).WillReturnRows(appointmentRows())
	_, err := repo.GetByID(context.Background(), 9)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}
