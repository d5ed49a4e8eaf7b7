package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPostHandler_Preview_RendersMarkdown(t *testing.T) {
	h := NewPostHandler(nil)

	body := strings.NewReader(`{"text":"# 見出し\n**太字**"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/posts/preview", body)
	rec := httptest.NewRecorder()

	h.Preview(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), ">見出し</h1>")
	assert.Contains(t, rec.Body.String(), ">太字</strong>")
}

func TestPostHandler_Preview_RejectsBadBody(t *testing.T) {
	h := NewPostHandler(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/posts/preview", strings.NewReader("not json"))
	rec := httptest.NewRecorder()

	h.Preview(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.5:51234"
	assert.Equal(t, "203.0.113.5", getClientIP(req))

	req.Header.Set("X-Real-IP", "198.51.100.7")
	assert.Equal(t, "198.51.100.7", getClientIP(req))

	req.Header.Set("X-Forwarded-For", "192.0.2.1, 198.51.100.7")
	assert.Equal(t, "192.0.2.1", getClientIP(req))
}
