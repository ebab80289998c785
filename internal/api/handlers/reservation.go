package handlers

import (
	"net/http"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// Сообщения об ошибках резерваций
const (
	msgInvalidReservationID = "некорректный ID резервации"
	msgInvalidUserID        = "некорректный ID пользователя"
	msgInvalidResourceID    = "некорректный ID ресурса"
	msgInvalidStatus        = "некорректный статус резервации"
	msgInvalidTime          = "некорректное временное окно: начало должно быть раньше конца"
	msgNotFound             = "резервация не найдена"
	msgConflict             = "ресурс уже зарезервирован на пересекающееся время"
)

// ReservationResponse HTTP модель резервации
type ReservationResponse struct {
	ID         string `json:"id"`
	ResourceID string `json:"resourceId"`
	UserID     string `json:"userId"`
	StartTime  string `json:"startTime"`
	EndTime    string `json:"endTime"`
	Note       string `json:"note"`
	Status     string `json:"status"`
}

// WindowResponse HTTP модель окна резервации из описания конфликта
type WindowResponse struct {
	ResourceID string `json:"resourceId"`
	StartTime  string `json:"startTime"`
	EndTime    string `json:"endTime"`
}

// ConflictResponse тело ответа 409.
// Если описание конфликта не удалось разобрать, заполняется Detail.
type ConflictResponse struct {
	Error  string          `json:"error"`
	New    *WindowResponse `json:"new,omitempty"`
	Old    *WindowResponse `json:"old,omitempty"`
	Detail string          `json:"detail,omitempty"`
}

// FromDomainReservation конвертирует доменную резервацию в HTTP модель
func FromDomainReservation(r *domain.Reservation) *ReservationResponse {
	return &ReservationResponse{
		ID:         r.ID,
		ResourceID: r.ResourceID,
		UserID:     r.UserID,
		StartTime:  formatTime(r.StartTime),
		EndTime:    formatTime(r.EndTime),
		Note:       r.Note,
		Status:     r.Status.String(),
	}
}

// FromDomainReservations конвертирует список резерваций
func FromDomainReservations(list []*domain.Reservation) []*ReservationResponse {
	result := make([]*ReservationResponse, 0, len(list))
	for _, r := range list {
		result = append(result, FromDomainReservation(r))
	}
	return result
}

// StatusCode возвращает HTTP статус для ошибки менеджера резерваций
func StatusCode(err error) int {
	switch domain.KindOf(err) {
	case domain.KindInvalidReservationID, domain.KindInvalidUserID, domain.KindInvalidResourceID,
		domain.KindInvalidStatus, domain.KindInvalidTime:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflictReservation:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// IsServerError true, если ошибка не вызвана запросом клиента
func IsServerError(err error) bool {
	return StatusCode(err) == http.StatusInternalServerError
}

// RespondDomainError отправляет ответ для ошибки менеджера резерваций
func RespondDomainError(w http.ResponseWriter, err error) {
	switch domain.KindOf(err) {
	case domain.KindInvalidReservationID:
		RespondBadRequest(w, msgInvalidReservationID)
	case domain.KindInvalidUserID:
		RespondBadRequest(w, msgInvalidUserID)
	case domain.KindInvalidResourceID:
		RespondBadRequest(w, msgInvalidResourceID)
	case domain.KindInvalidStatus:
		RespondBadRequest(w, msgInvalidStatus)
	case domain.KindInvalidTime:
		RespondBadRequest(w, msgInvalidTime)
	case domain.KindNotFound:
		RespondNotFound(w, msgNotFound)
	case domain.KindConflictReservation:
		info, _ := domain.ConflictOf(err)
		RespondJSON(w, http.StatusConflict, newConflictResponse(info))
	default:
		RespondInternalError(w)
	}
}

func newConflictResponse(info domain.ConflictInfo) *ConflictResponse {
	resp := &ConflictResponse{Error: msgConflict}
	if !info.IsParsed() {
		resp.Detail = info.Raw
		return resp
	}
	resp.New = fromDomainWindow(info.Conflict.New)
	resp.Old = fromDomainWindow(info.Conflict.Old)
	return resp
}

func fromDomainWindow(w domain.ReservationWindow) *WindowResponse {
	return &WindowResponse{
		ResourceID: w.ResourceID,
		StartTime:  w.Start.UTC().Format(domain.TimeFormat),
		EndTime:    w.End.UTC().Format(domain.TimeFormat),
	}
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(domain.TimeFormat)
}

// ParseTime разбирает время в формате RFC3339. Пустая строка - nil.
func ParseTime(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(domain.TimeFormat, s)
	if err != nil {
		return nil, err
	}
	t = t.UTC()
	return &t, nil
}
