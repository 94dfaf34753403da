package update_availability

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/service/availability"
	"github.com/m04kA/SMC-SchedulingService/internal/service/availability/models"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeService struct {
	gotID int64
	got   *models.UpdateAvailabilityRequest
	err   error
}

func (f *fakeService) Update(_ context.Context, id int64, req *models.UpdateAvailabilityRequest) (*models.AvailabilityResponse, error) {
	f.gotID, f.got = id, req
	if f.err != nil {
		return nil, f.err
	}
	return &models.AvailabilityResponse{ID: id, OwnerID: req.ActorID, StartTime: "09:00", EndTime: "13:00", IsActive: false}, nil
}

func serve(svc *fakeService, id, body string, userID int64) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/availability/"+id, strings.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"availabilityId": id})
	if userID > 0 {
		req = req.WithContext(middleware.WithUserID(req.Context(), userID))
	}
	rec := httptest.NewRecorder()
	NewHandler(svc, nopLogger{}).Handle(rec, req)
	return rec
}

func TestHandle_PartialUpdate(t *testing.T) {
	svc := &fakeService{}
	rec := serve(svc, "3", `{"endTime":"13:00","isActive":false}`, 10)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(3), svc.gotID)
	assert.Equal(t, int64(10), svc.got.ActorID)
	assert.Nil(t, svc.got.StartTime)
	assert.Nil(t, svc.got.SlotDurationMinutes)
	require.NotNil(t, svc.got.EndTime)
	assert.Equal(t, "13:00", *svc.got.EndTime)
	require.NotNil(t, svc.got.IsActive)
	assert.False(t, *svc.got.IsActive)

	var resp models.AvailabilityResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "13:00", resp.EndTime)
}

func TestHandle_Errors(t *testing.T) {
	const body = `{"slotDurationMinutes":30}`

	tests := []struct {
		name    string
		id      string
		body    string
		userID  int64
		err     error
		status  int
		message string
	}{
		{"некорректный ID", "0", body, 10, nil, http.StatusBadRequest, msgInvalidAvailabilityID},
		{"нет пользователя", "3", body, 0, nil, http.StatusUnauthorized, msgMissingUserID},
		{"битый json", "3", `{"slotDurationMinutes":`, 10, nil, http.StatusBadRequest, msgInvalidRequestBody},
		{"окно не найдено", "3", body, 10, availability.ErrAvailabilityNotFound, http.StatusNotFound, msgNotFound},
		{"не владелец", "3", body, 11, availability.ErrAccessDenied, http.StatusForbidden, msgForbidden},
		{"плохое время", "3", body, 10, availability.ErrInvalidTime, http.StatusBadRequest, msgInvalidTime},
		{"конец раньше начала", "3", body, 10, availability.ErrInvalidTimeRange, http.StatusBadRequest, msgInvalidTimeRange},
		{"слот длиннее окна", "3", body, 10, availability.ErrInvalidSlotDuration, http.StatusBadRequest, msgInvalidSlotDuration},
		{"внутренняя ошибка", "3", body, 10, availability.ErrInternal, http.StatusInternalServerError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&fakeService{err: tt.err}, tt.id, tt.body, tt.userID)
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
