package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	xhttp "MarketPulse/pkg/http"
	"MarketPulse/pkg/logger"
)

func postReports(t *testing.T, body string) *xhttp.APIResponse {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reports", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	// Validation failures never reach the usecase.
	h := NewReportsEchoHandler(logger.Nop(), nil)
	if err := h.Create(c); err != nil {
		t.Fatalf("unexpected handler error: %v", err)
	}

	var resp xhttp.APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return &resp
}

func TestCreateRejectsUnknownEnhanceProvider(t *testing.T) {
	resp := postReports(t, `{"level":1,"source":"mock","enhance_provider":"bogus"}`)
	if resp.Status != http.StatusBadRequest {
		t.Fatalf("unknown provider must be a validation failure, got status %d", resp.Status)
	}
}

func TestCreateRejectsUnknownFormat(t *testing.T) {
	resp := postReports(t, `{"level":1,"source":"mock","format":"parchment"}`)
	if resp.Status != http.StatusBadRequest {
		t.Fatalf("unknown format must be a validation failure, got status %d", resp.Status)
	}
}

func TestCreateRejectsOutOfRangeLevel(t *testing.T) {
	resp := postReports(t, `{"level":4,"source":"mock"}`)
	if resp.Status != http.StatusBadRequest {
		t.Fatalf("out-of-range level must be a validation failure, got status %d", resp.Status)
	}
}
