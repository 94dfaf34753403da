package create_availability

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/service/availability"
)

const (
	msgInvalidOwnerID      = "некорректный ID специалиста"
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgMissingUserID       = "отсутствует ID пользователя"
	msgForbidden           = "управлять расписанием может только сам специалист"
	msgAlreadyExists       = "окно приема на этот день недели уже существует"
	msgInvalidTime         = "некорректный формат времени, ожидается H:MM или HH:MM"
	msgInvalidTimeRange    = "время окончания должно быть позже времени начала"
	msgInvalidSlotDuration = "некорректная длительность слота"
	msgInvalidInput        = "некорректные данные окна приема"
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

// Handle POST /api/v1/practitioners/{ownerId}/availability
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	ownerID, err := handlers.PathInt64(r, "ownerId")
	if err != nil {
		h.logger.Warn("POST /practitioners/{id}/availability - Invalid owner ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidOwnerID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /practitioners/{id}/availability - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateAvailabilityRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /practitioners/{id}/availability - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Create(r.Context(), req.ToServiceRequest(userID, ownerID))
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrAccessDenied):
			h.logger.Warn("POST /practitioners/{id}/availability - Access denied: owner_id=%d, user_id=%d", ownerID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, availability.ErrAlreadyExists):
			h.logger.Warn("POST /practitioners/{id}/availability - Already exists: owner_id=%d", ownerID)
			handlers.RespondConflict(w, msgAlreadyExists)

		case errors.Is(err, availability.ErrInvalidTime):
			handlers.RespondBadRequest(w, msgInvalidTime)

		case errors.Is(err, availability.ErrInvalidTimeRange):
			handlers.RespondBadRequest(w, msgInvalidTimeRange)

		case errors.Is(err, availability.ErrInvalidSlotDuration):
			handlers.RespondBadRequest(w, msgInvalidSlotDuration)

		case errors.Is(err, availability.ErrInvalidInput):
			h.logger.Warn("POST /practitioners/{id}/availability - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /practitioners/{id}/availability - Failed to create availability: owner_id=%d, error=%v",
				ownerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /practitioners/{id}/availability - Availability created: id=%d, owner_id=%d, day=%s",
		result.ID, ownerID, result.DayName)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
