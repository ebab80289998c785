package create_reservation

import (
	"net/http"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidFields      = "некорректный формат полей, время ожидается в RFC3339"
)

type Handler struct {
	manager ReservationManager
	logger  Logger
}

func NewHandler(manager ReservationManager, logger Logger) *Handler {
	return &Handler{
		manager: manager,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	rsvp, err := req.ToDomain()
	if err != nil {
		h.logger.Warn("POST /reservations - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidFields)
		return
	}

	created, err := h.manager.Reserve(r.Context(), rsvp)
	if err != nil {
		if handlers.IsServerError(err) {
			h.logger.Error("POST /reservations - Failed to create reservation: user_id=%s, resource_id=%s, error=%v",
				req.UserID, req.ResourceID, err)
		} else {
			h.logger.Warn("POST /reservations - Rejected: user_id=%s, resource_id=%s, error=%v",
				req.UserID, req.ResourceID, err)
		}
		handlers.RespondDomainError(w, err)
		return
	}

	h.logger.Info("POST /reservations - Reservation created successfully: id=%s, resource_id=%s",
		created.ID, created.ResourceID)
	handlers.RespondJSON(w, http.StatusCreated, handlers.FromDomainReservation(created))
}
