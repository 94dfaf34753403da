package add_appointment_note

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
	"github.com/m04kA/SMC-SchedulingService/internal/service/appointments"
	"github.com/m04kA/SMC-SchedulingService/internal/service/appointments/models"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeService struct {
	gotID  int64
	gotReq *models.AddNoteRequest
	err    error
}

func (f *fakeService) AddNote(_ context.Context, id int64, req *models.AddNoteRequest) (*models.AppointmentResponse, error) {
	f.gotID, f.gotReq = id, req
	if f.err != nil {
		return nil, f.err
	}
	return &models.AppointmentResponse{ID: id, Status: "confirmed", Notes: []string{"первая", req.Text}}, nil
}

func serve(svc *fakeService, id string, userID int64, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments/"+id+"/notes", strings.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"appointmentId": id})
	if userID > 0 {
		req = req.WithContext(middleware.WithUserID(req.Context(), userID))
	}
	rec := httptest.NewRecorder()
	NewHandler(svc, nopLogger{}).Handle(rec, req)
	return rec
}

func TestHandle_Created(t *testing.T) {
	svc := &fakeService{}
	rec := serve(svc, "7", 10, `{"text":"принести анализы"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, int64(7), svc.gotID)
	assert.Equal(t, &models.AddNoteRequest{ActorID: 10, Text: "принести анализы"}, svc.gotReq)

	var resp models.AppointmentResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, []string{"первая", "принести анализы"}, resp.Notes)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		userID  int64
		body    string
		err     error
		status  int
		message string
	}{
		{"некорректный ID", "-7", 10, `{"text":"a"}`, nil, http.StatusBadRequest, msgInvalidAppointmentID},
		{"нет пользователя", "7", 0, `{"text":"a"}`, nil, http.StatusUnauthorized, msgMissingUserID},
		{"неизвестное поле", "7", 10, `{"note":"a"}`, nil, http.StatusBadRequest, msgInvalidRequestBody},
		{"неизвестная запись", "7", 10, `{"text":"a"}`, appointments.ErrAppointmentNotFound, http.StatusNotFound, msgNotFound},
		{"посторонний", "7", 30, `{"text":"a"}`, appointments.ErrAccessDenied, http.StatusForbidden, msgForbidden},
		{"пустая заметка", "7", 10, `{"text":""}`, appointments.ErrInvalidInput, http.StatusBadRequest, msgInvalidNote},
		{"внутренняя ошибка", "7", 10, `{"text":"a"}`, appointments.ErrInternal, http.StatusInternalServerError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&fakeService{err: tt.err}, tt.id, tt.userID, tt.body)
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
