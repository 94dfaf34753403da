package get_patient_appointments

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
	got *models.GetPatientAppointmentsRequest
	err error
}

func (f *fakeService) ListForPatient(_ context.Context, req *models.GetPatientAppointmentsRequest) (*models.AppointmentListResponse, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.AppointmentListResponse{Appointments: []models.AppointmentResponse{
		{ID: 1, PatientID: req.PatientID, Status: "pending", Notes: []string{}},
		{ID: 2, PatientID: req.PatientID, Status: "completed", Notes: []string{}},
	}}, nil
}

func serve(svc *fakeService, patientID string, userID int64, query string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/patients/"+patientID+"/appointments"+query, nil)
	req = mux.SetURLVars(req, map[string]string{"patientId": patientID})
	if userID > 0 {
		req = req.WithContext(middleware.WithUserID(req.Context(), userID))
	}
	rec := httptest.NewRecorder()
	NewHandler(svc, nopLogger{}).Handle(rec, req)
	return rec
}

func TestHandle_ReturnsArray(t *testing.T) {
	svc := &fakeService{}
	rec := serve(svc, "20", 20, "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, &models.GetPatientAppointmentsRequest{ActorID: 20, PatientID: 20}, svc.got)

	var resp []models.AppointmentResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp, 2)
	assert.Equal(t, "completed", resp[1].Status)
}

func TestHandle_StatusFilter(t *testing.T) {
	svc := &fakeService{}
	rec := serve(svc, "20", 20, "?status=pending")

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.got.Status)
	assert.Equal(t, "pending", *svc.got.Status)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name      string
		patientID string
		userID    int64
		query     string
		err       error
		status    int
		message   string
	}{
		{"некорректный ID", "abc", 20, "", nil, http.StatusBadRequest, msgInvalidPatientID},
		{"нет пользователя", "20", 0, "", nil, http.StatusUnauthorized, msgMissingUserID},
		{"чужая история", "20", 21, "", appointments.ErrAccessDenied, http.StatusForbidden, msgForbidden},
		{"неизвестный статус", "20", 20, "?status=lost", appointments.ErrInvalidStatus, http.StatusBadRequest, msgInvalidStatus},
		{"внутренняя ошибка", "20", 20, "", appointments.ErrInternal, http.StatusInternalServerError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&fakeService{err: tt.err}, tt.patientID, tt.userID, tt.query)
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
