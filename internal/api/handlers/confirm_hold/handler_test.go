package confirm_hold

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	confirmHold "github.com/m04kA/TRP-ReservationService/internal/usecase/confirm_hold"
)

type fakeUseCase struct {
	resp *confirmHold.Response
	err  error
}

func (f *fakeUseCase) Execute(_ context.Context, _ *confirmHold.Request) (*confirmHold.Response, error) {
	return f.resp, f.err
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func doConfirm(uc ConfirmHoldUseCase) *httptest.ResponseRecorder {
	h := NewHandler(uc, nopLogger{})

	router := mux.NewRouter()
	router.HandleFunc("/api/v1/holds/{id}/confirm", h.Handle).Methods(http.MethodPost)

	body := `{"idempotencyToken":"tok-1","guestName":"Анна","guestContact":"+79990001122"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/holds/hld-1/confirm", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandle_ErrorStatusCodes(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{name: "hold not found", err: confirmHold.ErrHoldNotFound, wantCode: http.StatusNotFound},
		{name: "hold expired", err: confirmHold.ErrHoldExpired, wantCode: http.StatusConflict},
		{name: "invalid input", err: confirmHold.ErrInvalidInput, wantCode: http.StatusBadRequest},
		{name: "internal error", err: confirmHold.ErrInternal, wantCode: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doConfirm(&fakeUseCase{err: tt.err})
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}
