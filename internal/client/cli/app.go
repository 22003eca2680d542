package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/jobtracker/jobtracker/internal/client/client"
	"github.com/jobtracker/jobtracker/internal/client/config"
	"github.com/jobtracker/jobtracker/internal/client/services"
	"github.com/jobtracker/jobtracker/internal/client/session"
	"github.com/jobtracker/jobtracker/internal/client/storage"
	"github.com/jobtracker/jobtracker/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// pingTimeout caps a single connectivity probe.
const pingTimeout = 3 * time.Second

// epochSource hands out the current session epoch; see session.Session.
type epochSource interface {
	Context() context.Context
}

type App struct {
	config      *config.Config
	authService services.AuthService
	jobService  services.JobService
	session     epochSource
	logger      logging.Logger
	db          *sql.DB
	reader      *bufio.Reader
	out         io.Writer

	mu       sync.Mutex
	mode     Mode
	userName string
	loggedIn bool
	// epoch is the session epoch captured at login. It is canceled as soon
	// as any request sees a 401.
	epoch context.Context
}

// NewApp opens the local database and wires the session, API client and
// services for the given configuration.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	db, err := storage.Open(ctx, c.DatabasePath)
	if err != nil {
		logger.Error(ctx, "error initializing database", "path", c.DatabasePath, "error", err)
		return nil, err
	}

	sess := session.New(db)

	apiClient, err := client.New(c.APIBaseURL, sess,
		client.WithTimeout(c.RequestTimeout),
		client.WithLogger(logger),
	)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	as := services.NewAuthService(apiClient, sess)
	js := services.NewJobService(apiClient)

	app := newApp(c, as, js, sess, bufio.NewReader(os.Stdin), os.Stdout, logger)
	app.db = db
	return app, nil
}

func newApp(c *config.Config, as services.AuthService, js services.JobService, sess epochSource, r *bufio.Reader, w io.Writer, logger logging.Logger) *App {
	return &App{
		config:      c,
		authService: as,
		jobService:  js,
		session:     sess,
		logger:      logger.With("module", "cli"),
		reader:      r,
		out:         w,
	}
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if !changed {
		return
	}
	if mode == ModeOffline {
		a.logger.Warn(ctx, "switched to offline mode")
	} else {
		a.logger.Info(ctx, "switched to online mode")
	}
}

func (a *App) currentMode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

// Run blocks in the REPL until the user exits or input ends, then releases
// the API client and the database.
func (a *App) Run(ctx context.Context) {
	defer func() {
		_ = a.authService.Close(ctx)
		if a.db != nil {
			_ = a.db.Close()
		}
	}()
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.loggedIn
}

func (a *App) setLoggedIn(name string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.loggedIn = true
	a.userName = name
	a.epoch = a.session.Context()
}

func (a *App) setLoggedOut() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.loggedIn = false
	a.userName = ""
	a.epoch = nil
}

// sessionLost reports whether a logged-in session has ended behind the
// user's back: its epoch was canceled by a 401, or the token has expired.
func (a *App) sessionLost(ctx context.Context) bool {
	a.mu.Lock()
	loggedIn, epoch := a.loggedIn, a.epoch
	a.mu.Unlock()

	if !loggedIn {
		return false
	}
	if epoch != nil && epoch.Err() != nil {
		return true
	}
	return !a.authService.IsAuthenticated(ctx)
}

// checkSession sends the user back to the login prompt when the session
// has been lost.
func (a *App) checkSession(ctx context.Context) {
	if !a.sessionLost(ctx) {
		return
	}
	a.logger.Info(ctx, "session expired")
	a.setLoggedOut()
	fmt.Fprintln(a.out, "Session expired, please log in again.")
	_ = a.Login(ctx)
}

// StartOnlineStatusWatcher pings the API every interval and flips the mode
// between online and offline. It returns when ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.probe(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) probe(ctx context.Context) {
	pctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	err := a.authService.Ping(pctx)
	switch {
	case err == nil:
		a.setMode(ctx, ModeOnline)
	case errors.Is(err, context.Canceled) && ctx.Err() != nil:
		// shutting down
	default:
		a.logger.Debug(ctx, "ping failed", "error", err)
		a.setMode(ctx, ModeOffline)
	}
}
