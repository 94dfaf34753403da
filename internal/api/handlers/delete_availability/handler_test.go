package delete_availability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/service/availability"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeService struct {
	gotID, gotActor int64
	err             error
}

func (f *fakeService) Delete(_ context.Context, id int64, actorID int64) error {
	f.gotID, f.gotActor = id, actorID
	return f.err
}

func serve(svc *fakeService, id string, userID int64) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/availability/"+id, nil)
	req = mux.SetURLVars(req, map[string]string{"availabilityId": id})
	if userID > 0 {
		req = req.WithContext(middleware.WithUserID(req.Context(), userID))
	}
	rec := httptest.NewRecorder()
	NewHandler(svc, nopLogger{}).Handle(rec, req)
	return rec
}

func TestHandle(t *testing.T) {
	tests := []struct {
		name   string
		id     string
		userID int64
		err    error
		status int
	}{
		{"удалено", "3", 10, nil, http.StatusNoContent},
		{"некорректный ID", "x", 10, nil, http.StatusBadRequest},
		{"нет пользователя", "3", 0, nil, http.StatusUnauthorized},
		{"неизвестное окно", "3", 10, availability.ErrAvailabilityNotFound, http.StatusNotFound},
		{"не владелец", "3", 11, availability.ErrAccessDenied, http.StatusForbidden},
		{"внутренняя ошибка", "3", 10, availability.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{err: tt.err}
			rec := serve(svc, tt.id, tt.userID)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestHandle_PassesActor(t *testing.T) {
	svc := &fakeService{}
	rec := serve(svc, "3", 10)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.Equal(t, int64(3), svc.gotID)
	assert.Equal(t, int64(10), svc.gotActor)
}
