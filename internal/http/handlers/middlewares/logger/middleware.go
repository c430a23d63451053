package logger

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"urlshortener/internal/http/httputils"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const slowRequest = 100 * time.Millisecond

type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	size       int
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	if r.statusCode == 0 {
		r.statusCode = http.StatusOK
	}
	size, err := r.ResponseWriter.Write(b)
	r.size += size
	return size, err
}

// MiddlewareLogging логирует каждый запрос и перехватывает паники.
// X-Request-ID берется из запроса либо генерируется и возвращается в ответе.
func MiddlewareLogging(log *zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := r.Header.Get(httputils.HeaderRequestID)
			if requestID == "" {
				requestID = uuid.NewString()
			}
			w.Header().Set(httputils.HeaderRequestID, requestID)

			recorder := &responseRecorder{ResponseWriter: w}

			log.Debug().
				Str("request_id", requestID).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("ip", r.RemoteAddr).
				Msg("request started")

			defer func() {
				if err := recover(); err != nil {
					log.Error().
						Str("request_id", requestID).
						Str("panic", fmt.Sprintf("%v", err)).
						Str("stack", string(debug.Stack())).
						Msg("request panic")
					httputils.WriteDetail(recorder, http.StatusInternalServerError, httputils.DetailInternal)
				}

				duration := time.Since(start)

				var msg string
				switch {
				case recorder.statusCode >= 500:
					msg = "server error"
				case recorder.statusCode >= 400:
					msg = "client error"
				default:
					msg = "request completed"
				}

				logEntry := log.Info().
					Str("request_id", requestID).
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Int("status", recorder.statusCode).
					Dur("duration_ms", duration).
					Int("bytes", recorder.size).
					Str("ip", r.RemoteAddr)

				if duration > slowRequest {
					logEntry = logEntry.Bool("slow", true)
				}

				if recorder.statusCode >= 400 && recorder.statusCode < 500 {
					logEntry = logEntry.Str("error_type", "client_error")
				}
				if recorder.statusCode >= 500 {
					logEntry = logEntry.Str("error_type", "server_error")
				}

				logEntry.Msg(msg)
			}()

			next.ServeHTTP(recorder, r)
		})
	}
}
