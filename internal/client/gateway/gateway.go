// Package gateway sends requests to the shortener API and attaches the
// bearer token from the token store.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"urlshortener/internal/domain/models"
	"urlshortener/internal/http/httputils"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// TokenReader - чтение токена. Читается заново на каждый запрос.
type TokenReader interface {
	ReadToken(ctx context.Context) (string, error)
}

type Gateway struct {
	baseURL string
	client  *http.Client
	tokens  TokenReader
	log     *zerolog.Logger
}

type requestOptions struct {
	skipAuth bool
	headers  map[string]string
}

type RequestOption func(*requestOptions)

// WithoutAuth - не прикладывать Authorization (login, register).
func WithoutAuth() RequestOption {
	return func(o *requestOptions) {
		o.skipAuth = true
	}
}

// WithHeader добавляет заголовок запроса. Content-Type и Authorization
// выставляются поверх.
func WithHeader(key, value string) RequestOption {
	return func(o *requestOptions) {
		if o.headers == nil {
			o.headers = make(map[string]string)
		}
		o.headers[key] = value
	}
}

// New создает gateway. nil client -> http.DefaultClient без своего таймаута.
func New(baseURL string, client *http.Client, tokens TokenReader, log *zerolog.Logger) (*Gateway, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("base url cannot be empty")
	}
	if tokens == nil {
		return nil, errors.New("token reader cannot be nil")
	}
	if log == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &Gateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		tokens:  tokens,
		log:     log,
	}, nil
}

// Do отправляет запрос на baseURL+path. body сериализуется в JSON, если не nil.
// Ответ возвращается при любом статусе, не-2xx ошибкой не считается.
// Транспортные сбои возвращаются как *models.NetworkError.
func (g *Gateway) Do(ctx context.Context, method, path string, body any, opts ...RequestOption) (*http.Response, error) {
	options := requestOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	url := g.baseURL + path

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	for key, value := range options.headers {
		req.Header.Set(key, value)
	}
	req.Header.Set(httputils.HeaderContentType, httputils.MIMEApplicationJSON)
	req.Header.Set(httputils.HeaderRequestID, uuid.NewString())

	authSet := false
	if !options.skipAuth {
		authSet = g.attachToken(ctx, req)
	}

	g.log.Debug().
		Str("method", method).
		Str("url", url).
		Bool("auth", authSet).
		Str("request_id", req.Header.Get(httputils.HeaderRequestID)).
		Msg("API call")

	start := time.Now()
	resp, err := g.client.Do(req)
	if err != nil {
		g.log.Error().Err(err).Str("method", method).Str("url", url).Msg("Fetch error")
		return nil, &models.NetworkError{Method: method, URL: url, Err: err}
	}

	logEntry := g.log.Debug()
	if resp.StatusCode >= http.StatusBadRequest {
		logEntry = g.log.Warn().Str("body", g.rebufferBody(resp))
	}
	logEntry.
		Str("method", method).
		Str("url", url).
		Int("status", resp.StatusCode).
		Dur("duration_ms", time.Since(start)).
		Msg("API response")

	return resp, nil
}

// attachToken - ошибка чтения хранилища равна отсутствию токена.
func (g *Gateway) attachToken(ctx context.Context, req *http.Request) bool {
	token, err := g.tokens.ReadToken(ctx)
	if err != nil {
		if !errors.Is(err, models.ErrTokenAbsent) {
			g.log.Warn().Err(err).Msg("Token read failed, request will be unauthenticated")
		}
		return false
	}
	if token == "" {
		return false
	}

	req.Header.Set(httputils.HeaderAuthorization, httputils.BearerPrefix+token)
	return true
}

// rebufferBody читает тело для лога и подменяет его копией, чтобы
// вызывающий мог прочитать его еще раз.
func (g *Gateway) rebufferBody(resp *http.Response) string {
	if resp.Body == nil {
		return ""
	}

	raw, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	resp.Body = io.NopCloser(bytes.NewReader(raw))
	if err != nil {
		return fmt.Sprintf("<unreadable: %v>", err)
	}
	return string(raw)
}
