package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lgardea/tax-intake-service/internal/dto"
	"github.com/lgardea/tax-intake-service/internal/service"
)

type stubContactService struct {
	err error
}

func (s *stubContactService) Relay(ctx context.Context, req *dto.ContactRequest, actor service.Actor) error {
	return s.err
}

func newContactRouter(svc service.ContactService) *gin.Engine {
	gin.SetMode(gin.TestMode)

	h := NewContactHandler(svc, zap.NewNop())
	router := gin.New()
	router.POST("/api/v1/contact", h.Relay)
	return router
}

const contactBody = `{"name":"Jane","email":"jane@example.com","message":"hello","captcha_token":"tok"}`

func TestContactRelay_Success(t *testing.T) {
	router := newContactRouter(&stubContactService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/contact", strings.NewReader(contactBody))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestContactRelay_HoneypotGetsFakeSuccess(t *testing.T) {
	router := newContactRouter(&stubContactService{err: service.ErrSpam})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/contact", strings.NewReader(contactBody))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	// the bot must not learn it was detected
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Message sent") {
		t.Errorf("expected fake success body, got %s", w.Body.String())
	}
}

func TestContactRelay_CaptchaFailure(t *testing.T) {
	router := newContactRouter(&stubContactService{err: service.ErrCaptchaFailed})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/contact", strings.NewReader(contactBody))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestContactRelay_MissingFields(t *testing.T) {
	router := newContactRouter(&stubContactService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/contact", strings.NewReader(`{"name":"Jane"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}
