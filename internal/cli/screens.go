package cli

import (
	"context"
	"fmt"
	"strconv"

	"urlshortener/internal/client/api"
	"urlshortener/internal/client/forms"
	"urlshortener/internal/client/navigation"
	"urlshortener/internal/domain/models"
)

const createdDateLayout = "2006-01-02 15:04"

// auth screens

func (a *App) runRegister(ctx context.Context, args []string) error {
	if err := a.gate.Allow(navigation.RouteAuth); err != nil {
		return err
	}

	var form forms.RegisterForm
	fs := a.command("register").NewFlagSet(a.errOut)
	fs.StringVar(&form.Username, "username", "", "Username (3-150 characters)")
	fs.StringVar(&form.Email, "email", "", "Email address")
	fs.StringVar(&form.Password, "password", "", "Password (at least 6 characters)")
	fs.StringVar(&form.ConfirmPassword, "confirm", "", "Password confirmation")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := form.Validate(); err != nil {
		return err
	}

	user, err := a.accounts.Register(ctx, api.RegisterRequest{
		Username: form.Username,
		Email:    form.Email,
		Password: form.Password,
	})
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}

	a.log.Info().Int64("id", user.ID).Str("username", user.Username).Msg("Account created")
	fmt.Fprintln(a.out, "Account created! Please log in with your credentials.")
	return nil
}

func (a *App) runLogin(ctx context.Context, args []string) error {
	if err := a.gate.Allow(navigation.RouteAuth); err != nil {
		return err
	}

	var form forms.LoginForm
	fs := a.command("login").NewFlagSet(a.errOut)
	fs.StringVar(&form.Username, "username", "", "Username")
	fs.StringVar(&form.Password, "password", "", "Password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := form.Validate(); err != nil {
		return err
	}

	resp, err := a.accounts.Login(ctx, api.LoginRequest{Username: form.Username, Password: form.Password})
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	if err := a.session.Login(ctx, resp.Access, &resp.User); err != nil {
		return err
	}

	fmt.Fprintln(a.out, greeting(resp.User.Username))
	return nil
}

// tab screens

func (a *App) runLogout(ctx context.Context, _ []string) error {
	if err := a.gate.Allow(navigation.RouteTabs); err != nil {
		return err
	}

	if err := a.session.Logout(ctx); err != nil {
		return fmt.Errorf("failed to logout: %w", err)
	}
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

func (a *App) runStatus(_ context.Context, _ []string) error {
	snap := a.session.Snapshot()
	fmt.Fprintf(a.out, "Session: %s\n", snap.State)
	if snap.User != nil {
		fmt.Fprintln(a.out, greeting(snap.User.Username))
	}
	return nil
}

func (a *App) runShorten(ctx context.Context, args []string) error {
	if err := a.gate.Allow(navigation.RouteTabs); err != nil {
		return err
	}

	raw := ""
	if len(args) > 0 {
		raw = args[0]
	}

	link, err := a.links.Create(ctx, raw)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Short link created")
	if link.ShortURL != "" {
		fmt.Fprintln(a.out, link.ShortURL)
	}
	return nil
}

func (a *App) runLinks(ctx context.Context, _ []string) error {
	if err := a.gate.Allow(navigation.RouteTabs); err != nil {
		return err
	}

	if err := a.links.Load(ctx); err != nil {
		return err
	}

	list := a.links.Links()
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No links yet")
		return nil
	}

	table := NewTableWriter([]string{"ID", "SHORT URL", "ORIGINAL URL", "STATUS", "CLICKS", "CREATED"})
	for _, l := range list {
		status := "Inactive"
		if l.IsActive {
			status = "Active"
		}
		table.AddRow([]string{
			strconv.FormatInt(l.ID, 10),
			l.ShortURL,
			l.OriginalURL,
			status,
			strconv.FormatInt(l.Clicks, 10),
			l.CreatedAt.Local().Format(createdDateLayout),
		})
	}
	table.Print(a.out)
	return nil
}

func (a *App) runToggle(ctx context.Context, args []string) error {
	id, err := a.loadForLink(ctx, args)
	if err != nil {
		return err
	}

	link, _ := a.links.Find(id)
	if err := a.links.ToggleActive(ctx, link); err != nil {
		return err
	}

	state := "disabled"
	if !link.IsActive {
		state = "enabled"
	}
	fmt.Fprintf(a.out, "Link %s\n", state)
	return nil
}

func (a *App) runEdit(ctx context.Context, args []string) error {
	id, err := a.loadForLink(ctx, args)
	if err != nil {
		return err
	}

	newURL := ""
	if len(args) > 1 {
		newURL = args[1]
	}

	if err := a.links.UpdateURL(ctx, id, newURL); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "URL updated successfully")
	return nil
}

func (a *App) runDelete(ctx context.Context, args []string) error {
	if err := a.gate.Allow(navigation.RouteTabs); err != nil {
		return err
	}

	var yes bool
	fs := a.command("delete").NewFlagSet(a.errOut)
	fs.BoolVar(&yes, "yes", false, "Delete without confirmation")
	if err := fs.Parse(args); err != nil {
		return err
	}

	id, err := parseID(fs.Args())
	if err != nil {
		return err
	}

	if !yes && !a.confirm("Are you sure you want to delete this link?") {
		fmt.Fprintln(a.out, "Cancelled")
		return nil
	}

	if err := a.links.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Link deleted successfully")
	return nil
}

func (a *App) runCopy(ctx context.Context, args []string) error {
	id, err := a.loadForLink(ctx, args)
	if err != nil {
		return err
	}

	if err := a.links.Copy(id, a.clipboard); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Short link copied to clipboard")
	return nil
}

func (a *App) runShare(ctx context.Context, args []string) error {
	id, err := a.loadForLink(ctx, args)
	if err != nil {
		return err
	}

	return a.links.Share(ctx, id, a.sharer)
}

// loadForLink - общий пролог команд над одной ссылкой: гейт, ID, свежий
// список и проверка, что ссылка в нем есть.
func (a *App) loadForLink(ctx context.Context, args []string) (int64, error) {
	if err := a.gate.Allow(navigation.RouteTabs); err != nil {
		return 0, err
	}

	id, err := parseID(args)
	if err != nil {
		return 0, err
	}

	if err := a.links.Load(ctx); err != nil {
		return 0, err
	}

	if _, ok := a.links.Find(id); !ok {
		return 0, fmt.Errorf("%w: id %d", models.ErrLinkNotInView, id)
	}
	return id, nil
}

func greeting(username string) string {
	if username == "" {
		return "Welcome!"
	}
	return fmt.Sprintf("Welcome, %s!", username)
}
