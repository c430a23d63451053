// Package cli is the terminal front end of the client: the auth screens
// (register, login) and the tab screens (shorten, links and link actions),
// gated by the session state.
package cli

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"urlshortener/internal/client/api"
	"urlshortener/internal/client/links"
	"urlshortener/internal/client/navigation"
	"urlshortener/internal/client/session"
	"urlshortener/internal/domain/models"

	"github.com/rs/zerolog"
)

// AccountsAPI - эндпоинты аккаунтов.
type AccountsAPI interface {
	Register(ctx context.Context, req api.RegisterRequest) (api.RegisteredUser, error)
	Login(ctx context.Context, req api.LoginRequest) (api.LoginResponse, error)
}

type Deps struct {
	Session   *session.Manager
	Accounts  AccountsAPI
	Links     *links.Collection
	Clipboard links.Clipboard
	Sharer    links.Sharer
	In        io.Reader
	Out       io.Writer
	Err       io.Writer
	Log       *zerolog.Logger
}

type App struct {
	session   *session.Manager
	gate      *navigation.Gate
	accounts  AccountsAPI
	links     *links.Collection
	clipboard links.Clipboard
	sharer    links.Sharer
	in        *bufio.Reader
	out       io.Writer
	errOut    io.Writer
	log       *zerolog.Logger
	registry  *CommandRegistry
}

func NewApp(deps Deps) (*App, error) {
	if deps.Session == nil {
		return nil, errors.New("session manager cannot be nil")
	}
	if deps.Accounts == nil {
		return nil, errors.New("accounts api cannot be nil")
	}
	if deps.Links == nil {
		return nil, errors.New("links collection cannot be nil")
	}
	if deps.Log == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if deps.Out == nil {
		deps.Out = io.Discard
	}
	if deps.Err == nil {
		deps.Err = deps.Out
	}
	if deps.In == nil {
		deps.In = strings.NewReader("")
	}
	if deps.Clipboard == nil {
		deps.Clipboard = NewWriterClipboard(deps.Out)
	}
	if deps.Sharer == nil {
		deps.Sharer = NewWriterSharer(deps.Out)
	}

	a := &App{
		session:   deps.Session,
		gate:      navigation.NewGate(deps.Session),
		accounts:  deps.Accounts,
		links:     deps.Links,
		clipboard: deps.Clipboard,
		sharer:    deps.Sharer,
		in:        bufio.NewReader(deps.In),
		out:       deps.Out,
		errOut:    deps.Err,
		log:       deps.Log,
		registry:  NewCommandRegistry(),
	}
	a.registerCommands()
	return a, nil
}

// Run восстанавливает сессию и выполняет команду. Ошибка уже показана
// пользователю в errOut, вызывающему остается код выхода.
func (a *App) Run(ctx context.Context, args []string) error {
	a.session.CheckAuth(ctx)
	if snap := a.session.Snapshot(); snap.LastError != nil {
		fmt.Fprintln(a.errOut, "Warning: saved session could not be read, please log in again.")
	}

	err := a.registry.Execute(ctx, args, a.out, a.errOut)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		fmt.Fprintln(a.errOut, describeError(err))
	}
	return err
}

// Close отписывает гейт от сессии.
func (a *App) Close() {
	a.gate.Close()
}

func (a *App) registerCommands() {
	a.registry.Register(&Command{
		Name:        "register",
		Description: "Create an account",
		Usage:       "urlshortener register -username NAME -email EMAIL -password PASS -confirm PASS",
		Examples:    []string{"urlshortener register -username alice -email alice@example.com -password secret1 -confirm secret1"},
		Run:         a.runRegister,
	})
	a.registry.Register(&Command{
		Name:        "login",
		Description: "Log in and remember the session",
		Usage:       "urlshortener login -username NAME -password PASS",
		Examples:    []string{"urlshortener login -username alice -password secret1"},
		Run:         a.runLogin,
	})
	a.registry.Register(&Command{
		Name:        "logout",
		Description: "Forget the saved session",
		Usage:       "urlshortener logout",
		Run:         a.runLogout,
	})
	a.registry.Register(&Command{
		Name:        "status",
		Description: "Show the session state",
		Usage:       "urlshortener status",
		Run:         a.runStatus,
	})
	a.registry.Register(&Command{
		Name:        "shorten",
		Description: "Create a short link",
		Usage:       "urlshortener shorten URL",
		Examples:    []string{"urlshortener shorten https://example.com/very/long/path"},
		Run:         a.runShorten,
	})
	a.registry.Register(&Command{
		Name:        "links",
		Description: "List your links",
		Usage:       "urlshortener links",
		Run:         a.runLinks,
	})
	a.registry.Register(&Command{
		Name:        "toggle",
		Description: "Enable or disable a link",
		Usage:       "urlshortener toggle ID",
		Run:         a.runToggle,
	})
	a.registry.Register(&Command{
		Name:        "edit",
		Description: "Change the destination of a link",
		Usage:       "urlshortener edit ID URL",
		Examples:    []string{"urlshortener edit 12 https://example.com/new"},
		Run:         a.runEdit,
	})
	a.registry.Register(&Command{
		Name:        "delete",
		Description: "Delete a link",
		Usage:       "urlshortener delete [-yes] ID",
		Run:         a.runDelete,
	})
	a.registry.Register(&Command{
		Name:        "copy",
		Description: "Copy a short link",
		Usage:       "urlshortener copy ID",
		Run:         a.runCopy,
	})
	a.registry.Register(&Command{
		Name:        "share",
		Description: "Share a short link",
		Usage:       "urlshortener share ID",
		Run:         a.runShare,
	})
}

func (a *App) command(name string) *Command {
	return a.registry.commands[name]
}

// parseID разбирает единственный позиционный аргумент ID.
func parseID(args []string) (int64, error) {
	if len(args) < 1 {
		return 0, fmt.Errorf("%w: link id is required", models.ErrInvalidData)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid link id %q", models.ErrInvalidData, args[0])
	}
	return id, nil
}

// confirm спрашивает подтверждение, по умолчанию "нет".
func (a *App) confirm(question string) bool {
	fmt.Fprintf(a.out, "%s [y/N]: ", question)
	answer, err := a.in.ReadString('\n')
	if err != nil && answer == "" {
		fmt.Fprintln(a.out)
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
