package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"go_gizmo/internal/auth"
	"go_gizmo/internal/httpx"
)

func quietLogger() *logrus.Entry {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return logrus.NewEntry(log)
}

func newRouter(t *testing.T, issuer *auth.TokenIssuer) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestLogger(quietLogger()))
	r.GET("/me", AuthRequired(issuer), func(c *gin.Context) {
		httpx.OK(c, gin.H{"uid": UID(c)})
	})
	return r
}

func TestAuthRequired(t *testing.T) {
	issuer, err := auth.NewTokenIssuer("secret", "go_gizmo", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	token, _, err := issuer.Generate(7, "alice", "user")
	if err != nil {
		t.Fatal(err)
	}
	r := newRouter(t, issuer)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer abc.def.ghi", http.StatusUnauthorized},
		{"valid token", "Bearer " + token, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			r.ServeHTTP(w, req)

			if w.Code != tt.status {
				t.Errorf("status = %d; want %d (%s)", w.Code, tt.status, w.Body.String())
			}
		})
	}
}

func TestRequestLoggerID(t *testing.T) {
	issuer, _ := auth.NewTokenIssuer("secret", "go_gizmo", time.Hour)
	r := newRouter(t, issuer)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/me", nil)
	r.ServeHTTP(w, req)
	if _, err := uuid.Parse(w.Header().Get(RequestIDHeader)); err != nil {
		t.Errorf("response carries no request id: %q", w.Header().Get(RequestIDHeader))
	}

	id := uuid.NewString()
	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(RequestIDHeader, id)
	r.ServeHTTP(w, req)
	if got := w.Header().Get(RequestIDHeader); got != id {
		t.Errorf("request id = %q; want incoming %q", got, id)
	}
}
