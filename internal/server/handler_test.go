package server

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/webform-cli/readwebform/internal/deadline"
	"github.com/webform-cli/readwebform/internal/protocol"
	"github.com/webform-cli/readwebform/internal/storage"
)

func newTestHandler(t *testing.T) *handlerContext {
	t.Helper()
	dir, err := os.MkdirTemp("", "readwebform_handler_test_")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	fs := storage.New(dir)
	dl := deadline.New(time.Hour, true, func() {})
	return newHandlerContext("<form method=\"POST\"></form>", "thetoken", "/readform_abc", 0, 0, fs, dl, false)
}

func TestHandler_GetServesStoredHTML(t *testing.T) {
	h := newTestHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/readform_abc", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "<form") {
		t.Fatalf("expected form HTML, got %q", w.Body.String())
	}
}

func TestHandler_UnknownPathIs404(t *testing.T) {
	h := newTestHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/not-the-endpoint", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("got status %d", w.Code)
	}
}

func TestHandler_PostWithWrongCSRFTokenIsForbidden(t *testing.T) {
	h := newTestHandler(t)
	form := url.Values{protocol.CSRFFieldName: {"wrong"}, "name": {"Ada"}}
	encoded := form.Encode()
	req := httptest.NewRequest(http.MethodPost, "/readform_abc", strings.NewReader(encoded))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Content-Length", strconv.Itoa(len(encoded)))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("got status %d, body %q", w.Code, w.Body.String())
	}
	select {
	case <-h.done:
		t.Fatal("expected no success to be published for an invalid CSRF token")
	default:
	}
}

func TestHandler_PostWithValidTokenPublishesSuccess(t *testing.T) {
	h := newTestHandler(t)
	form := url.Values{protocol.CSRFFieldName: {"thetoken"}, "name": {"Ada"}}
	encoded := form.Encode()
	req := httptest.NewRequest(http.MethodPost, "/readform_abc", strings.NewReader(encoded))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Content-Length", strconv.Itoa(len(encoded)))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, body %q", w.Code, w.Body.String())
	}
	select {
	case <-h.done:
	default:
		t.Fatal("expected success to be published")
	}
	if !h.outcome.Success {
		t.Fatal("expected outcome.Success")
	}
	v, ok := h.outcome.Form.Field("name")
	if !ok || v.String() != "Ada" {
		t.Fatalf("got %v", v)
	}
	if _, ok := h.outcome.Form.Field(protocol.CSRFFieldName); ok {
		t.Fatal("expected csrf field to be stripped from the published form")
	}
}

func TestHandler_PublishSuccessIsAtMostOnce(t *testing.T) {
	h := newTestHandler(t)
	h.publishSuccess(nil, nil)
	h.publishSuccess(nil, nil) // must not panic on double-close
	select {
	case <-h.done:
	default:
		t.Fatal("expected done to be closed")
	}
}
