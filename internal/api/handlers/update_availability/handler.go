package update_availability

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/service/availability"
)

const (
	msgInvalidAvailabilityID = "некорректный ID окна приема"
	msgInvalidRequestBody    = "некорректное тело запроса"
	msgMissingUserID         = "отсутствует ID пользователя"
	msgNotFound              = "окно приема не найдено"
	msgForbidden             = "управлять расписанием может только сам специалист"
	msgInvalidTime           = "некорректный формат времени, ожидается H:MM или HH:MM"
	msgInvalidTimeRange      = "время окончания должно быть позже времени начала"
	msgInvalidSlotDuration   = "некорректная длительность слота"
	msgInvalidInput          = "некорректные данные окна приема"
)

type Handler struct {
	service AvailabilityService
	logger  Logger
}

func NewHandler(service AvailabilityService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/availability/{availabilityId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	availabilityID, err := handlers.PathInt64(r, "availabilityId")
	if err != nil {
		h.logger.Warn("PATCH /availability/{id} - Invalid availability ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAvailabilityID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /availability/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req UpdateAvailabilityRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /availability/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Update(r.Context(), availabilityID, req.ToServiceRequest(userID))
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrAvailabilityNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, availability.ErrAccessDenied):
			h.logger.Warn("PATCH /availability/{id} - Access denied: id=%d, user_id=%d", availabilityID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, availability.ErrInvalidTime):
			handlers.RespondBadRequest(w, msgInvalidTime)

		case errors.Is(err, availability.ErrInvalidTimeRange):
			handlers.RespondBadRequest(w, msgInvalidTimeRange)

		case errors.Is(err, availability.ErrInvalidSlotDuration):
			handlers.RespondBadRequest(w, msgInvalidSlotDuration)

		case errors.Is(err, availability.ErrInvalidInput):
			h.logger.Warn("PATCH /availability/{id} - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("PATCH /availability/{id} - Failed to update availability: id=%d, error=%v",
				availabilityID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /availability/{id} - Availability updated: id=%d", availabilityID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
