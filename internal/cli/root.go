package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/ogtodo/internal/auth"
	"github.com/julianstephens/ogtodo/internal/backup"
	"github.com/julianstephens/ogtodo/internal/commitments"
	"github.com/julianstephens/ogtodo/internal/config"
	"github.com/julianstephens/ogtodo/internal/dashboard"
	"github.com/julianstephens/ogtodo/internal/logger"
	"github.com/julianstephens/ogtodo/internal/models"
	"github.com/julianstephens/ogtodo/internal/profile"
	"github.com/julianstephens/ogtodo/internal/storage"
	"github.com/julianstephens/ogtodo/internal/storage/postgres"
	"github.com/julianstephens/ogtodo/internal/storage/sqlite"
	"github.com/julianstephens/ogtodo/internal/streak"
	"github.com/julianstephens/ogtodo/internal/todos"
)

// Context is handed to every command's Run method.
type Context struct {
	Config *config.Config
	Store  storage.Provider
	// Email and Password identify the account for per-user commands.
	Email    string
	Password string
	// BcryptCost overrides the password hashing cost. Zero keeps the default.
	BcryptCost int

	Base context.Context
	Out  io.Writer
	Now  func() time.Time

	services *Services
}

// Services are the domain services built on top of Store.
type Services struct {
	Auth        *auth.Service
	Todos       *todos.Service
	Streaks     *streak.Engine
	Dashboard   *dashboard.Service
	Commitments *commitments.Service
	Profile     *profile.Service
}

var (
	_ storage.Provider = (*sqlite.Store)(nil)
	_ storage.Provider = (*postgres.Store)(nil)
)

// OpenStore picks the storage provider for a database reference: a
// PostgreSQL connection string or a SQLite file path.
func OpenStore(dbRef string) storage.Provider {
	if postgres.IsConnString(dbRef) {
		return postgres.New(dbRef)
	}
	return sqlite.NewStore(dbRef)
}

// IsSQLite reports whether the store is backed by a local file.
func (c *Context) IsSQLite() bool {
	_, ok := c.Store.(*sqlite.Store)
	return ok
}

func (c *Context) Context() context.Context {
	if c.Base != nil {
		return c.Base
	}
	return context.Background()
}

func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.writer(), format, args...)
}

func (c *Context) Println(args ...any) {
	fmt.Fprintln(c.writer(), args...)
}

func (c *Context) writer() io.Writer {
	if c.Out != nil {
		return c.Out
	}
	return os.Stdout
}

// Clock returns the time source for services, defaulting to time.Now.
func (c *Context) Clock() func() time.Time {
	if c.Now != nil {
		return c.Now
	}
	return time.Now
}

// Location is the configured timezone.
func (c *Context) Location() *time.Location {
	if c.Config == nil {
		return time.Local
	}
	return c.Config.Location()
}

// PerformAutomaticBackup backs up a SQLite database and only logs failures.
func (c *Context) PerformAutomaticBackup() {
	if !c.IsSQLite() {
		return
	}
	mgr := backup.NewManager(c.Store.GetConfigPath())
	if _, err := mgr.Create(c.Context()); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// Services builds the domain services once per run. The store must be loaded.
func (c *Context) Services() (*Services, error) {
	if c.services != nil {
		return c.services, nil
	}
	if c.Config == nil {
		return nil, errors.New("configuration not loaded")
	}

	secret, err := c.Config.ResolveJWTSecret()
	if err != nil {
		return nil, err
	}
	now, loc := c.Clock(), c.Location()

	authOpts := []auth.Option{auth.WithTTL(c.Config.SessionTTL), auth.WithClock(now)}
	if c.BcryptCost > 0 {
		authOpts = append(authOpts, auth.WithBcryptCost(c.BcryptCost))
	}
	authSvc, err := auth.NewService(c.Store, secret, authOpts...)
	if err != nil {
		return nil, err
	}

	engine := streak.NewEngine(c.Store, c.Store, streak.WithClock(now), streak.WithLocation(loc))
	dash := dashboard.NewService(c.Store, c.Store, engine).WithClock(now)
	profileSvc := profile.NewService(c.Store, dash, engine).WithClock(now)
	if c.BcryptCost > 0 {
		profileSvc = profileSvc.WithBcryptCost(c.BcryptCost)
	}

	c.services = &Services{
		Auth:        authSvc,
		Todos:       todos.NewService(c.Store).WithClock(now),
		Streaks:     engine,
		Dashboard:   dash,
		Commitments: commitments.NewService(c.Store).WithClock(now),
		Profile:     profileSvc,
	}
	return c.services, nil
}

// PromptPassword asks for a password on the terminal when current is empty.
func PromptPassword(title, current string) (string, error) {
	if current != "" {
		return current, nil
	}
	var password string
	err := huh.NewInput().
		Title(title).
		EchoMode(huh.EchoModePassword).
		Value(&password).
		Run()
	if err != nil {
		return "", err
	}
	return password, nil
}

// SignIn verifies the --email/--password account and returns the user.
func (c *Context) SignIn() (models.User, error) {
	if c.Email == "" {
		return models.User{}, errors.New("--email (or OGTODO_EMAIL) is required for this command")
	}
	if err := c.Store.Load(); err != nil {
		return models.User{}, err
	}
	svc, err := c.Services()
	if err != nil {
		return models.User{}, err
	}
	password, err := PromptPassword("Password for "+c.Email, c.Password)
	if err != nil {
		return models.User{}, err
	}

	ctx := c.Context()
	user, token, err := svc.Auth.SignIn(ctx, c.Email, password)
	if err != nil {
		return models.User{}, err
	}
	// The session only proves the password. Drop it.
	if err := svc.Auth.SignOut(ctx, token.Value); err != nil {
		logger.Warn("Failed to revoke CLI session", "error", err)
	}
	return user, nil
}
