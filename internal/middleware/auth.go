package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/tempizhere/docstore/internal/config"
	"go.uber.org/zap"
)

// BasicAuthMiddleware проверяет учётные данные администратора для мутирующих маршрутов.
// Имя пользователя и пароль сравниваются за постоянное время, чтобы исключить
// утечку по таймингу; ответ не различает неверное имя и неверный пароль.
func BasicAuthMiddleware(cfg *config.Config, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, password, ok := r.BasicAuth()
			if !ok {
				unauthorized(w)
				return
			}

			userMatch := subtle.ConstantTimeCompare([]byte(user), []byte(cfg.AdminUser)) == 1
			passwordMatch := subtle.ConstantTimeCompare([]byte(password), []byte(cfg.AdminPassword)) == 1
			if !userMatch || !passwordMatch {
				logger.Warn("Rejected admin credentials",
					zap.String("method", r.Method),
					zap.String("uri", r.RequestURI),
					zap.String("remote_addr", r.RemoteAddr))
				unauthorized(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// unauthorized пишет ответ 401 с challenge-заголовком базовой аутентификации
func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Basic realm="docstore"`)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"detail":"Incorrect username or password"}`))
}
