package httputils

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"urlshortener/internal/domain/models"

	"github.com/rs/zerolog"
)

// MIME: https://developer.mozilla.org/en-US/docs/Web/HTTP/Guides/MIME_types/Common_types

const (
	HeaderContentType     = "Content-Type"
	HeaderContentEncoding = "Content-Encoding"
	HeaderAcceptEncoding  = "Accept-Encoding"
	HeaderContentLength   = "Content-Length"
	HeaderAuthorization   = "Authorization"
	HeaderRequestID       = "X-Request-ID"
	HeaderLocation        = "Location"

	MIMEApplicationJSON = "application/json"
	MIMETextHTML        = "text/html"
	MIMETextPlain       = "text/plain"

	EncodingGzip = "gzip"

	BearerPrefix = "Bearer "
)

// Тексты ошибок в формате DRF, их ждет клиент.
const (
	DetailNotAuthenticated = "Authentication credentials were not provided."
	DetailTokenNotValid    = "Given token not valid for any token type"
	DetailInvalidCreds     = "Invalid credentials"
	DetailNotFound         = "Not found."
	DetailThrottled        = "Request was throttled."
	DetailMethodNotAllowed = "Method not allowed."
	DetailInternal         = "A server error occurred."
)

type DetailResponse struct {
	Detail string `json:"detail"`
}

func WriteJSONResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set(HeaderContentType, MIMEApplicationJSON)
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func WriteDetail(w http.ResponseWriter, status int, detail string) {
	WriteJSONResponse(w, status, DetailResponse{Detail: detail})
}

// WriteFieldErrors пишет 400 с телом {"field": ["msg"]}.
func WriteFieldErrors(w http.ResponseWriter, fields map[string]string) {
	body := make(map[string][]string, len(fields))
	for field, msg := range fields {
		body[field] = []string{msg}
	}
	WriteJSONResponse(w, http.StatusBadRequest, body)
}

// BearerToken достает токен из Authorization. Пустая строка, если схема не Bearer.
func BearerToken(r *http.Request) string {
	header := r.Header.Get(HeaderAuthorization)
	if !strings.HasPrefix(header, BearerPrefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix))
}

// WriteError переводит ошибку сервиса в ответ. Неизвестные ошибки логируются
// и отдаются как 500 без подробностей.
func WriteError(w http.ResponseWriter, log *zerolog.Logger, err error) {
	var validationErr *models.ValidationError

	switch {
	case errors.As(err, &validationErr):
		WriteFieldErrors(w, validationErr.Fields)
	case errors.Is(err, models.ErrInvalidCreds):
		WriteDetail(w, http.StatusUnauthorized, DetailInvalidCreds)
	case errors.Is(err, models.ErrInvalidToken):
		WriteDetail(w, http.StatusUnauthorized, DetailTokenNotValid)
	case errors.Is(err, models.ErrUnfound), errors.Is(err, models.ErrInactive):
		WriteDetail(w, http.StatusNotFound, DetailNotFound)
	case errors.Is(err, models.ErrInvalidData):
		WriteDetail(w, http.StatusBadRequest, err.Error())
	default:
		log.Error().Err(err).Msg("request failed")
		WriteDetail(w, http.StatusInternalServerError, DetailInternal)
	}
}

// DecodeJSON читает тело запроса. Пустое тело считается {}.
func DecodeJSON(r *http.Request, dst any) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
