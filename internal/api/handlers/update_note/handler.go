package update_note

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
)

const msgInvalidRequestBody = "некорректное тело запроса, ожидается поле note"

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

// Handle PATCH /api/v1/reservations/{id}/note
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req UpdateNoteRequest
	if err := handlers.DecodeJSON(r, &req); err != nil || req.Note == nil {
		h.logger.Warn("PATCH /reservations/{id}/note - Invalid request body: id=%s, error=%v", id, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	updated, err := h.manager.UpdateNote(r.Context(), id, *req.Note)
	if err != nil {
		if handlers.IsServerError(err) {
			h.logger.Error("PATCH /reservations/{id}/note - Failed to update note: id=%s, error=%v", id, err)
		} else {
			h.logger.Warn("PATCH /reservations/{id}/note - Rejected: id=%s, error=%v", id, err)
		}
		handlers.RespondDomainError(w, err)
		return
	}

	h.logger.Info("PATCH /reservations/{id}/note - Note updated: id=%s", id)
	handlers.RespondJSON(w, http.StatusOK, handlers.FromDomainReservation(updated))
}
