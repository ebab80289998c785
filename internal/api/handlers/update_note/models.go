package update_note

// UpdateNoteRequest HTTP request model
// Note обязателен: пустая строка очищает заметку, отсутствие поля - ошибка
type UpdateNoteRequest struct {
	Note *string `json:"note"`
}
