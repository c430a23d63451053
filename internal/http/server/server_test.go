package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"urlshortener/internal/config"
	"urlshortener/internal/http/dto"
	"urlshortener/internal/repository/inmemory"
	"urlshortener/internal/services/accounts"
	"urlshortener/internal/services/links"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBaseURL = "http://short.test"

type testEnv struct {
	ts     *httptest.Server
	client *http.Client
}

func newTestEnv(t *testing.T, authRPM int) *testEnv {
	t.Helper()

	log := zerolog.Nop()
	storage := inmemory.NewStorage()

	secret := base64.StdEncoding.EncodeToString([]byte("test-secret-key-32-bytes-long!!!"))
	acc, err := accounts.NewAccounts(storage, secret, time.Minute, time.Hour)
	require.NoError(t, err)

	cfg := config.ServerConfig{
		ServerAddress:    "localhost:0",
		BaseURL:          testBaseURL,
		AuthRateLimitRPM: authRPM,
	}

	shortener, err := links.NewLinkShortener(storage, cfg.BaseURL)
	require.NoError(t, err)

	s, err := NewServer(&log, cfg, shortener, acc)
	require.NoError(t, err)

	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)

	return &testEnv{
		ts: ts,
		client: &http.Client{
			CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse },
		},
	}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, e.ts.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func (e *testEnv) login(t *testing.T, username string) dto.LoginResponse {
	t.Helper()

	resp, _ := e.do(t, http.MethodPost, "/api/accounts/register/", "", dto.RegisterRequest{
		Username: username, Email: username + "@example.com", Password: "secret1",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := e.do(t, http.MethodPost, "/api/accounts/login/", "", dto.LoginRequest{Username: username, Password: "secret1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out dto.LoginResponse
	require.NoError(t, json.Unmarshal(body, &out))
	return out
}

func TestServer_Accounts(t *testing.T) {
	env := newTestEnv(t, 0)

	resp, body := env.do(t, http.MethodPost, "/api/accounts/register/", "", dto.RegisterRequest{
		Username: "alice", Email: "alice@example.com", Password: "secret1",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var user dto.UserResponse
	require.NoError(t, json.Unmarshal(body, &user))
	assert.Equal(t, "alice", user.Username)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	t.Run("Повторная регистрация", func(t *testing.T) {
		resp, body := env.do(t, http.MethodPost, "/api/accounts/register/", "", dto.RegisterRequest{
			Username: "alice", Email: "other@example.com", Password: "secret1",
		})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.JSONEq(t, `{"username":["A user with that username already exists."]}`, string(body))
	})

	t.Run("Неверный пароль", func(t *testing.T) {
		resp, body := env.do(t, http.MethodPost, "/api/accounts/login/", "", dto.LoginRequest{Username: "alice", Password: "nope"})
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.JSONEq(t, `{"detail":"Invalid credentials"}`, string(body))
	})

	t.Run("Логин и refresh", func(t *testing.T) {
		resp, body := env.do(t, http.MethodPost, "/api/accounts/login/", "", dto.LoginRequest{Username: "alice", Password: "secret1"})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var out dto.LoginResponse
		require.NoError(t, json.Unmarshal(body, &out))
		assert.NotEmpty(t, out.Access)
		assert.Equal(t, user.ID, out.User.ID)

		resp, body = env.do(t, http.MethodPost, "/api/accounts/token/refresh/", "", dto.RefreshRequest{Refresh: out.Refresh})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var refreshed dto.RefreshResponse
		require.NoError(t, json.Unmarshal(body, &refreshed))
		assert.NotEmpty(t, refreshed.Access)
	})
}

func TestServer_LinksLifecycle(t *testing.T) {
	env := newTestEnv(t, 0)
	alice := env.login(t, "alice")
	bob := env.login(t, "bob")

	resp, body := env.do(t, http.MethodPost, "/api/links/urls/create/", alice.Access, dto.CreateLinkRequest{OriginalURL: "https://example.com/long"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var link dto.LinkResponse
	require.NoError(t, json.Unmarshal(body, &link))
	assert.True(t, link.IsActive)
	assert.Len(t, link.ShortCode, 5)
	assert.Equal(t, testBaseURL+"/api/links/"+link.ShortCode+"/", link.ShortURL)

	t.Run("Без токена", func(t *testing.T) {
		resp, body := env.do(t, http.MethodGet, "/api/links/urls/list/", "", nil)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.JSONEq(t, `{"detail":"Authentication credentials were not provided."}`, string(body))
	})

	t.Run("Невалидный токен", func(t *testing.T) {
		resp, _ := env.do(t, http.MethodGet, "/api/links/urls/list/", "garbage", nil)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("Refresh не годится как access", func(t *testing.T) {
		resp, _ := env.do(t, http.MethodGet, "/api/links/urls/list/", alice.Refresh, nil)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("Некорректный URL", func(t *testing.T) {
		resp, body := env.do(t, http.MethodPost, "/api/links/urls/create/", alice.Access, dto.CreateLinkRequest{OriginalURL: "nope"})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.JSONEq(t, `{"original_url":["Enter a valid URL."]}`, string(body))
	})

	t.Run("Списки раздельны по владельцам", func(t *testing.T) {
		resp, body := env.do(t, http.MethodGet, "/api/links/urls/list/", bob.Access, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `[]`, string(body))

		resp, _ = env.do(t, http.MethodGet, "/api/links/urls/1/", bob.Access, nil)
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("Редирект считает клики", func(t *testing.T) {
		resp, _ := env.do(t, http.MethodGet, "/api/links/"+link.ShortCode+"/", "", nil)
		require.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, "https://example.com/long", resp.Header.Get("Location"))

		resp, body := env.do(t, http.MethodGet, "/api/links/urls/list/", alice.Access, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var list []dto.LinkResponse
		require.NoError(t, json.Unmarshal(body, &list))
		require.Len(t, list, 1)
		assert.Equal(t, int64(1), list[0].Clicks)
	})

	t.Run("Выключение и редирект 404", func(t *testing.T) {
		resp, body := env.do(t, http.MethodPut, "/api/links/urls/1/update/", alice.Access, map[string]any{"is_active": false})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var updated dto.LinkResponse
		require.NoError(t, json.Unmarshal(body, &updated))
		assert.False(t, updated.IsActive)
		assert.Equal(t, "https://example.com/long", updated.OriginalURL, "адрес не менялся")

		resp, _ = env.do(t, http.MethodGet, "/api/links/"+link.ShortCode+"/", "", nil)
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("Смена адреса через PATCH", func(t *testing.T) {
		resp, body := env.do(t, http.MethodPatch, "/api/links/urls/1/update/", alice.Access, map[string]any{"original_url": "https://example.org"})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var updated dto.LinkResponse
		require.NoError(t, json.Unmarshal(body, &updated))
		assert.Equal(t, "https://example.org", updated.OriginalURL)
		assert.False(t, updated.IsActive, "активность не менялась")
	})

	t.Run("Чужое удаление", func(t *testing.T) {
		resp, body := env.do(t, http.MethodDelete, "/api/links/urls/1/delete/", bob.Access, nil)
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.JSONEq(t, `{"detail":"Not found."}`, string(body))
	})

	t.Run("Удаление", func(t *testing.T) {
		resp, body := env.do(t, http.MethodDelete, "/api/links/urls/1/delete/", alice.Access, nil)
		require.Equal(t, http.StatusNoContent, resp.StatusCode)
		assert.Empty(t, body)

		resp, _ = env.do(t, http.MethodGet, "/api/links/urls/1/", alice.Access, nil)
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestServer_RoutingErrors(t *testing.T) {
	env := newTestEnv(t, 0)

	resp, body := env.do(t, http.MethodGet, "/nowhere", "", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"detail":"Not found."}`, string(body))

	resp, body = env.do(t, http.MethodGet, "/api/accounts/login/", "", nil)
	require.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.JSONEq(t, `{"detail":"Method not allowed."}`, string(body))

	resp, _ = env.do(t, http.MethodGet, "/ping", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServer_AuthRateLimit(t *testing.T) {
	env := newTestEnv(t, 2)

	for i := 0; i < 2; i++ {
		resp, _ := env.do(t, http.MethodPost, "/api/accounts/login/", "", dto.LoginRequest{Username: "x", Password: "y"})
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}

	resp, body := env.do(t, http.MethodPost, "/api/accounts/login/", "", dto.LoginRequest{Username: "x", Password: "y"})
	require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.JSONEq(t, `{"detail":"Request was throttled."}`, string(body))
}

func TestNewServer_Validation(t *testing.T) {
	log := zerolog.Nop()
	_, err := NewServer(&log, config.ServerConfig{}, nil, nil)
	require.Error(t, err)
}
