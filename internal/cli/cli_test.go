package cli

import (
	"bytes"
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"urlshortener/internal/client/api"
	"urlshortener/internal/client/gateway"
	"urlshortener/internal/client/links"
	"urlshortener/internal/client/navigation"
	"urlshortener/internal/client/session"
	"urlshortener/internal/client/tokenstore"
	"urlshortener/internal/config"
	"urlshortener/internal/http/server"
	"urlshortener/internal/repository/inmemory"
	"urlshortener/internal/services/accounts"
	shortener "urlshortener/internal/services/links"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testEnv - эмулированный API и общее хранилище токена. Каждый run
// собирает клиент заново, как новый запуск процесса.
type testEnv struct {
	ts       *httptest.Server
	store    *tokenstore.Store
	requests atomic.Int64
}

type runResult struct {
	out string
	err string
	ret error
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	log := zerolog.Nop()
	storage := inmemory.NewStorage()

	secret := base64.StdEncoding.EncodeToString([]byte("test-secret-key-32-bytes-long!!!"))
	acc, err := accounts.NewAccounts(storage, secret, time.Minute, time.Hour)
	require.NoError(t, err)

	linkService, err := shortener.NewLinkShortener(storage, "http://short.test")
	require.NoError(t, err)

	srv, err := server.NewServer(&log, config.ServerConfig{ServerAddress: "localhost:0"}, linkService, acc)
	require.NoError(t, err)

	env := &testEnv{store: tokenstore.NewMemoryStore()}
	handler := srv.Handler()
	env.ts = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		env.requests.Add(1)
		handler.ServeHTTP(w, r)
	}))
	t.Cleanup(env.ts.Close)
	return env
}

func (e *testEnv) run(t *testing.T, stdin string, args ...string) runResult {
	t.Helper()

	log := zerolog.Nop()

	sessionManager, err := session.NewManager(e.store, &log)
	require.NoError(t, err)

	gw, err := gateway.New(e.ts.URL+"/api", e.ts.Client(), e.store, &log)
	require.NoError(t, err)

	client, err := api.NewClient(gw)
	require.NoError(t, err)

	collection, err := links.NewCollection(client, &log)
	require.NoError(t, err)

	var out, errOut bytes.Buffer
	app, err := NewApp(Deps{
		Session:  sessionManager,
		Accounts: client,
		Links:    collection,
		In:       strings.NewReader(stdin),
		Out:      &out,
		Err:      &errOut,
		Log:      &log,
	})
	require.NoError(t, err)
	defer app.Close()

	ret := app.Run(context.Background(), args)
	return runResult{out: out.String(), err: errOut.String(), ret: ret}
}

func TestApp_FullFlow(t *testing.T) {
	env := newTestEnv(t)

	res := env.run(t, "", "register", "-username", "alice", "-email", "alice@example.com", "-password", "secret1", "-confirm", "secret1")
	require.NoError(t, res.ret, res.err)
	assert.Contains(t, res.out, "Account created! Please log in with your credentials.")

	// регистрация не логинит
	res = env.run(t, "", "status")
	require.NoError(t, res.ret)
	assert.Contains(t, res.out, "Session: unauthenticated")

	res = env.run(t, "", "login", "-username", "alice", "-password", "secret1")
	require.NoError(t, res.ret, res.err)
	assert.Contains(t, res.out, "Welcome, alice!")

	token, err := env.store.ReadToken(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	res = env.run(t, "", "links")
	require.NoError(t, res.ret, res.err)
	assert.Contains(t, res.out, "No links yet")

	res = env.run(t, "", "shorten", "https://example.com/very/long/path")
	require.NoError(t, res.ret, res.err)
	assert.Contains(t, res.out, "Short link created")
	assert.Contains(t, res.out, "http://short.test/api/links/")

	res = env.run(t, "", "links")
	require.NoError(t, res.ret, res.err)
	assert.Contains(t, res.out, "https://example.com/very/long/path")
	assert.Contains(t, res.out, "Active")

	res = env.run(t, "", "toggle", "1")
	require.NoError(t, res.ret, res.err)
	assert.Contains(t, res.out, "Link disabled")

	res = env.run(t, "", "links")
	require.NoError(t, res.ret, res.err)
	assert.Contains(t, res.out, "Inactive")

	res = env.run(t, "", "toggle", "1")
	require.NoError(t, res.ret, res.err)
	assert.Contains(t, res.out, "Link enabled")

	res = env.run(t, "", "edit", "1", "https://example.org/new")
	require.NoError(t, res.ret, res.err)
	assert.Contains(t, res.out, "URL updated successfully")

	res = env.run(t, "", "copy", "1")
	require.NoError(t, res.ret, res.err)
	assert.Contains(t, res.out, "http://short.test/api/links/")
	assert.Contains(t, res.out, "Short link copied to clipboard")

	res = env.run(t, "", "share", "1")
	require.NoError(t, res.ret, res.err)
	assert.Contains(t, res.out, "Check out this link: http://short.test/api/links/")

	// отказ от подтверждения ничего не удаляет
	res = env.run(t, "n\n", "delete", "1")
	require.NoError(t, res.ret, res.err)
	assert.Contains(t, res.out, "Cancelled")

	res = env.run(t, "", "delete", "-yes", "1")
	require.NoError(t, res.ret, res.err)
	assert.Contains(t, res.out, "Link deleted successfully")

	res = env.run(t, "", "links")
	require.NoError(t, res.ret, res.err)
	assert.Contains(t, res.out, "No links yet")

	res = env.run(t, "", "logout")
	require.NoError(t, res.ret, res.err)
	assert.Contains(t, res.out, "Logged out.")

	_, err = env.store.ReadToken(context.Background())
	require.Error(t, err, "токен удален")
}

func TestApp_GateRefusals(t *testing.T) {
	env := newTestEnv(t)

	res := env.run(t, "", "links")
	require.ErrorIs(t, res.ret, navigation.ErrSignInRequired)
	assert.Equal(t, int64(0), env.requests.Load(), "гейт отказывает до сети")

	require.NoError(t, env.store.SaveToken(context.Background(), "stale"))

	res = env.run(t, "", "login", "-username", "alice", "-password", "secret1")
	require.ErrorIs(t, res.ret, navigation.ErrAlreadySignedIn)
	assert.Equal(t, int64(0), env.requests.Load())
}

func TestApp_ValidationNeverReachesNetwork(t *testing.T) {
	env := newTestEnv(t)

	res := env.run(t, "", "register", "-username", "alice", "-email", "alice@example.com", "-password", "secret1", "-confirm", "other1")
	require.Error(t, res.ret)
	assert.Contains(t, res.err, "Please fix the following:")
	assert.Contains(t, res.err, "confirm_password")
	assert.Equal(t, int64(0), env.requests.Load())
}

func TestApp_ServerErrors(t *testing.T) {
	env := newTestEnv(t)

	res := env.run(t, "", "login", "-username", "ghost", "-password", "secret1")
	require.Error(t, res.ret)
	assert.Contains(t, res.err, "Error: Invalid credentials")

	// протухший токен: сервер отвечает 401, сообщение из detail
	require.NoError(t, env.store.SaveToken(context.Background(), "stale"))
	res = env.run(t, "", "links")
	require.Error(t, res.ret)
	assert.Contains(t, res.err, "Error: Given token not valid for any token type")
}

func TestApp_NetworkError(t *testing.T) {
	env := newTestEnv(t)
	env.ts.Close()

	res := env.run(t, "", "login", "-username", "alice", "-password", "secret1")
	require.Error(t, res.ret)
	assert.Contains(t, res.err, "Could not connect to server. Please check your connection.")
}

func TestApp_Help(t *testing.T) {
	env := newTestEnv(t)

	res := env.run(t, "")
	require.NoError(t, res.ret)
	assert.Contains(t, res.out, "COMMANDS:")
	assert.Contains(t, res.out, "shorten")

	res = env.run(t, "", "bogus")
	require.ErrorIs(t, res.ret, ErrUnknownCommand)
}
