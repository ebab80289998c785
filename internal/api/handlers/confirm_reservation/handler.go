package confirm_reservation

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

// Handle PATCH /api/v1/reservations/{id}/confirm
// 404 также означает, что резервация уже подтверждена или заблокирована
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	confirmed, err := h.manager.ChangeStatus(r.Context(), id)
	if err != nil {
		if handlers.IsServerError(err) {
			h.logger.Error("PATCH /reservations/{id}/confirm - Failed to confirm: id=%s, error=%v", id, err)
		} else {
			h.logger.Warn("PATCH /reservations/{id}/confirm - Rejected: id=%s, error=%v", id, err)
		}
		handlers.RespondDomainError(w, err)
		return
	}

	h.logger.Info("PATCH /reservations/{id}/confirm - Reservation confirmed: id=%s", id)
	handlers.RespondJSON(w, http.StatusOK, handlers.FromDomainReservation(confirmed))
}
