package get_reservation

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
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

// Handle GET /api/v1/reservations/{id}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	rsvp, err := h.manager.Get(r.Context(), id)
	if err != nil {
		if handlers.IsServerError(err) {
			h.logger.Error("GET /reservations/{id} - Failed to get reservation: id=%s, error=%v", id, err)
		} else {
			h.logger.Warn("GET /reservations/{id} - Rejected: id=%s, error=%v", id, err)
		}
		handlers.RespondDomainError(w, err)
		return
	}

	h.logger.Info("GET /reservations/{id} - Reservation retrieved successfully: id=%s", id)
	handlers.RespondJSON(w, http.StatusOK, handlers.FromDomainReservation(rsvp))
}
