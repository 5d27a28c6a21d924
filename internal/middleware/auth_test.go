package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/tempizhere/docstore/internal/config"
)

func TestBasicAuthMiddleware(t *testing.T) {
	cfg := &config.Config{
		AdminUser:     "admin",
		AdminPassword: "secret",
	}

	handler := BasicAuthMiddleware(cfg, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name           string
		user           string
		password       string
		omitAuth       bool
		expectedStatus int
	}{
		{
			name:           "valid credentials",
			user:           "admin",
			password:       "secret",
			expectedStatus: http.StatusNoContent,
		},
		{
			name:           "missing authorization header",
			omitAuth:       true,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "wrong password",
			user:           "admin",
			password:       "wrong",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "wrong user",
			user:           "intruder",
			password:       "secret",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "empty credentials",
			user:           "",
			password:       "",
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodDelete, "/api/docs/packages/1", nil)
			if !tt.omitAuth {
				req.SetBasicAuth(tt.user, tt.password)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusUnauthorized {
				assert.Equal(t, `Basic realm="docstore"`, w.Header().Get("WWW-Authenticate"))
				assert.JSONEq(t, `{"detail":"Incorrect username or password"}`, w.Body.String())
			}
		})
	}
}

func TestBasicAuthMiddleware_EmptyConfiguredCredentials(t *testing.T) {
	// Без настроенных учётных данных мутирующие запросы отклоняются
	cfg := &config.Config{}
	handler := BasicAuthMiddleware(cfg, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/docs/packages", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
