package update_note

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

type MockReservationManager struct {
	mock.Mock
}

func (m *MockReservationManager) UpdateNote(ctx context.Context, id, note string) (*domain.Reservation, error) {
	args := m.Called(ctx, id, note)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

const id = "5f8e6f3c-3c9a-4c55-9a5e-1f1f7e1c0a11"

func patchNote(h *Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/reservations/"+id+"/note", strings.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"id": id})
	w := httptest.NewRecorder()
	h.Handle(w, req)
	return w
}

func TestHandler_Updated(t *testing.T) {
	manager := new(MockReservationManager)
	h := NewHandler(manager, nopLogger{})

	manager.On("UpdateNote", mock.Anything, id, "world.").
		Return(&domain.Reservation{ID: id, Note: "world.", Status: domain.StatusPending}, nil)

	w := patchNote(h, `{"note":"world."}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "world.")
}

func TestHandler_EmptyNoteClears(t *testing.T) {
	manager := new(MockReservationManager)
	h := NewHandler(manager, nopLogger{})

	manager.On("UpdateNote", mock.Anything, id, "").
		Return(&domain.Reservation{ID: id, Status: domain.StatusPending}, nil)

	assert.Equal(t, http.StatusOK, patchNote(h, `{"note":""}`).Code)
	manager.AssertExpectations(t)
}

func TestHandler_Errors(t *testing.T) {
	manager := new(MockReservationManager)
	h := NewHandler(manager, nopLogger{})

	assert.Equal(t, http.StatusBadRequest, patchNote(h, `{}`).Code)
	assert.Equal(t, http.StatusBadRequest, patchNote(h, "").Code)
	manager.AssertNotCalled(t, "UpdateNote", mock.Anything, mock.Anything, mock.Anything)

	manager.On("UpdateNote", mock.Anything, id, "x").Return(nil, domain.ErrNotFound)
	assert.Equal(t, http.StatusNotFound, patchNote(h, `{"note":"x"}`).Code)
}
