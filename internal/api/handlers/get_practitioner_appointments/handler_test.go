package get_practitioner_appointments

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/service/appointments"
	"github.com/m04kA/SMC-SchedulingService/internal/service/appointments/models"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeService struct {
	got *models.GetOwnerAppointmentsRequest
	err error
}

func (f *fakeService) ListForOwner(_ context.Context, req *models.GetOwnerAppointmentsRequest) (*models.AppointmentListResponse, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.AppointmentListResponse{Appointments: []models.AppointmentResponse{
		{ID: 1, OwnerID: req.OwnerID, Status: "confirmed", Notes: []string{}},
	}}, nil
}

func serve(svc *fakeService, ownerID string, userID int64, query string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/practitioners/"+ownerID+"/appointments"+query, nil)
	req = mux.SetURLVars(req, map[string]string{"ownerId": ownerID})
	if userID > 0 {
		req = req.WithContext(middleware.WithUserID(req.Context(), userID))
	}
	rec := httptest.NewRecorder()
	NewHandler(svc, time.UTC, nopLogger{}).Handle(rec, req)
	return rec
}

func TestHandle_DayFilter(t *testing.T) {
	svc := &fakeService{}
	rec := serve(svc, "10", 10, "?date=2026-03-09&activeOnly=true")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(10), svc.got.ActorID)
	assert.Equal(t, time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), *svc.got.From)
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), *svc.got.To)
	assert.True(t, svc.got.ActiveOnly)

	var resp []models.AppointmentResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "confirmed", resp[0].Status)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name    string
		ownerID string
		userID  int64
		query   string
		err     error
		status  int
		message string
	}{
		{"некорректный ID", "abc", 10, "", nil, http.StatusBadRequest, msgInvalidOwnerID},
		{"нет пользователя", "10", 0, "", nil, http.StatusUnauthorized, msgMissingUserID},
		{"date вместе с from", "10", 10, "?date=2026-03-09&from=2026-03-01", nil, http.StatusBadRequest, msgInvalidParams},
		{"чужое расписание", "10", 11, "", appointments.ErrAccessDenied, http.StatusForbidden, msgForbidden},
		{"неизвестный статус", "10", 10, "?status=lost", appointments.ErrInvalidStatus, http.StatusBadRequest, msgInvalidStatus},
		{"from позже to", "10", 10, "?from=2026-03-09&to=2026-03-01", appointments.ErrInvalidInput, http.StatusBadRequest, msgInvalidParams},
		{"внутренняя ошибка", "10", 10, "", appointments.ErrInternal, http.StatusInternalServerError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&fakeService{err: tt.err}, tt.ownerID, tt.userID, tt.query)
			assert.Equal(t, tt.status, rec.Code)

			var body handlers.ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.status, body.Code)
			if tt.message != "" {
				assert.Equal(t, tt.message, body.Message)
			}
		})
	}
}
