package delete_reservation

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

// Handle DELETE /api/v1/reservations/{id}
// Удаление идемпотентно: для несуществующей резервации тоже 204
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.manager.Delete(r.Context(), id); err != nil {
		if handlers.IsServerError(err) {
			h.logger.Error("DELETE /reservations/{id} - Failed to delete: id=%s, error=%v", id, err)
		} else {
			h.logger.Warn("DELETE /reservations/{id} - Rejected: id=%s, error=%v", id, err)
		}
		handlers.RespondDomainError(w, err)
		return
	}

	h.logger.Info("DELETE /reservations/{id} - Reservation deleted: id=%s", id)
	handlers.RespondNoContent(w)
}
