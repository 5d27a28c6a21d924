package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"
)

// GzipMiddleware обрабатывает Gzip-сжатие для запросов и ответов
func GzipMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Обработка сжатого запроса
		if strings.Contains(r.Header.Get("Content-Encoding"), "gzip") {
			gz, err := gzip.NewReader(r.Body)
			if err != nil {
				http.Error(w, "Invalid gzip data", http.StatusBadRequest)
				return
			}
			defer gz.Close()
			r.Body = io.NopCloser(gz)
		}

		// Проверка, поддерживает ли клиент сжатие ответа
		if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
			next.ServeHTTP(w, r)
			return
		}

		// Создаём кастомный ResponseWriter для сжатия ответа
		gw := &gzipResponseWriter{ResponseWriter: w}
		defer gw.Close()

		// Передаём управление следующему обработчику
		next.ServeHTTP(gw, r)
	})
}

// gzipResponseWriter оборачивает http.ResponseWriter для сжатия ответа.
// Статус ответа придерживается до первой записи: решение о сжатии должно
// быть принято и Content-Encoding выставлен до отправки заголовков клиенту.
type gzipResponseWriter struct {
	http.ResponseWriter
	gz      *gzip.Writer
	status  int
	decided bool
}

func (w *gzipResponseWriter) WriteHeader(statusCode int) {
	if w.decided {
		w.ResponseWriter.WriteHeader(statusCode)
		return
	}
	w.status = statusCode
}

func (w *gzipResponseWriter) Write(b []byte) (int, error) {
	if !w.decided {
		w.decided = true

		// Сжимаем только JSON-ответы заметного размера
		contentType := w.Header().Get("Content-Type")
		if strings.HasPrefix(contentType, "application/json") && len(b) >= 1400 {
			w.Header().Set("Content-Encoding", "gzip")
			w.gz = gzip.NewWriter(w.ResponseWriter)
		}

		// Отложенный статус уходит только теперь, вместе с Content-Encoding
		if w.status != 0 {
			w.ResponseWriter.WriteHeader(w.status)
		}
	}

	if w.gz != nil {
		return w.gz.Write(b)
	}
	return w.ResponseWriter.Write(b)
}

// Close досылает отложенный статус для ответов без тела и закрывает gzip.Writer
func (w *gzipResponseWriter) Close() error {
	if !w.decided && w.status != 0 {
		w.decided = true
		w.ResponseWriter.WriteHeader(w.status)
	}
	if w.gz != nil {
		return w.gz.Close()
	}
	return nil
}
