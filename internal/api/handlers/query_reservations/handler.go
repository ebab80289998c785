package query_reservations

import (
	"net/http"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
)

const msgInvalidParams = "некорректные параметры запроса"

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

// Handle GET /api/v1/reservations
// Query params: resourceId, userId, status, start, end, mode, orderBy, desc, page, pageSize (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query, err := ToDomainQuery(r.URL.Query())
	if err != nil {
		h.logger.Warn("GET /reservations - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	found, err := h.manager.Query(r.Context(), query)
	if err != nil {
		if handlers.IsServerError(err) {
			h.logger.Error("GET /reservations - Failed to query reservations: error=%v", err)
		} else {
			h.logger.Warn("GET /reservations - Rejected: error=%v", err)
		}
		handlers.RespondDomainError(w, err)
		return
	}

	h.logger.Info("GET /reservations - Reservations retrieved successfully: count=%d, page=%d",
		len(found), query.Page)
	handlers.RespondJSON(w, http.StatusOK, &QueryReservationsResponse{
		Reservations: handlers.FromDomainReservations(found),
		Page:         query.Page,
		PageSize:     query.PageSize,
	})
}
