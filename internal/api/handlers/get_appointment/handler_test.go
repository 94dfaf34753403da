package get_appointment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

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
	gotID, gotActor int64
	err             error
}

func (f *fakeService) GetByID(_ context.Context, id int64, actorID int64) (*models.AppointmentResponse, error) {
	f.gotID, f.gotActor = id, actorID
	if f.err != nil {
		return nil, f.err
	}
	return &models.AppointmentResponse{ID: id, OwnerID: 10, PatientID: actorID, Status: "pending", Notes: []string{}}, nil
}

func serve(svc *fakeService, id string, userID int64) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/appointments/"+id, nil)
	req = mux.SetURLVars(req, map[string]string{"appointmentId": id})
	if userID > 0 {
		req = req.WithContext(middleware.WithUserID(req.Context(), userID))
	}
	rec := httptest.NewRecorder()
	NewHandler(svc, nopLogger{}).Handle(rec, req)
	return rec
}

func TestHandle_OK(t *testing.T) {
	svc := &fakeService{}
	rec := serve(svc, "7", 20)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(7), svc.gotID)
	assert.Equal(t, int64(20), svc.gotActor)

	var resp models.AppointmentResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, int64(7), resp.ID)
	assert.Equal(t, "pending", resp.Status)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		userID  int64
		err     error
		status  int
		message string
	}{
		{"некорректный ID", "0", 20, nil, http.StatusBadRequest, msgInvalidAppointmentID},
		{"нет пользователя", "7", 0, nil, http.StatusUnauthorized, msgMissingUserID},
		{"неизвестная запись", "7", 20, appointments.ErrAppointmentNotFound, http.StatusNotFound, msgNotFound},
		{"чужая запись", "7", 21, appointments.ErrAccessDenied, http.StatusForbidden, msgForbidden},
		{"внутренняя ошибка", "7", 20, appointments.ErrInternal, http.StatusInternalServerError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&fakeService{err: tt.err}, tt.id, tt.userID)
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
