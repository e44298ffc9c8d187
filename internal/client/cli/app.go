package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/homelights/internal/client/client"
	"github.com/dmitrijs2005/homelights/internal/client/config"
	"github.com/dmitrijs2005/homelights/internal/client/control"
	"github.com/dmitrijs2005/homelights/internal/client/models"
	"github.com/dmitrijs2005/homelights/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/homelights/internal/client/services"
	"github.com/dmitrijs2005/homelights/internal/logging"
)

// lastUserStore remembers who logged in last on this machine.
type lastUserStore interface {
	LastUser(ctx context.Context) (string, error)
}

type App struct {
	config  *config.Config
	session *services.Session
	creds   lastUserStore
	log     logging.Logger
	db      *sql.DB
	reader  *bufio.Reader
	now     func() time.Time

	outMu sync.Mutex
	out   io.Writer

	mu     sync.Mutex
	lights map[string]*control.Light
	fleet  *control.Fleet
}

func NewApp(c *config.Config, log logging.Logger) (*App, error) {
	ctx := context.Background()

	db, err := client.InitDatabase(ctx, c.DBPath)
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	gw := client.NewHTTPClient(c.BaseURL, c.HTTPCache, log)
	storage := metadata.NewCredentialStore(db)
	session := services.NewSession(gw, storage, log)

	a := newApp(c, session, log, bufio.NewReader(os.Stdin), os.Stdout)
	a.db = db
	a.creds = storage
	return a, nil
}

var _ execIface = (*App)(nil)

func newApp(c *config.Config, s *services.Session, log logging.Logger, r *bufio.Reader, w io.Writer) *App {
	return &App{
		config:  c,
		session: s,
		log:     log,
		reader:  r,
		out:     w,
		now:     time.Now,
		lights:  make(map[string]*control.Light),
	}
}

// Run restores the persisted session and blocks in the REPL until the user
// exits or the input ends.
func (a *App) Run(ctx context.Context) error {
	defer a.Close(context.WithoutCancel(ctx))

	if err := a.session.RestoreSession(ctx); err != nil {
		return err
	}
	if e := a.session.LastError(services.OpLoadProfile); e != nil {
		a.printf("[!] %s\n", errorText(e))
	}

	a.printf("Welcome to homelights! Type 'help' for the list of commands.\n")
	_ = a.Dashboard(ctx)

	runREPL(ctx, a, a.status, a.reader)
	return nil
}

// Close sends whatever the widgets still hold and releases the session and
// the database.
func (a *App) Close(ctx context.Context) {
	a.closeWidgets(ctx)
	if err := a.session.Close(); err != nil {
		a.log.Warn(ctx, "error closing session", "error", err)
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.log.Warn(ctx, "error closing database", "error", err)
		}
	}
}

func (a *App) isLoggedIn() bool {
	return a.session.IsAuthenticated()
}

func (a *App) status() string {
	if u := a.session.CurrentUser(); u != nil {
		return u.Username
	}
	return "guest"
}

func (a *App) printf(format string, args ...any) {
	a.outMu.Lock()
	defer a.outMu.Unlock()
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) widgetOptions() control.Options {
	return control.Options{
		Interval: a.config.DebounceInterval,
		Log:      a.log,
		OnResult: a.onResult,
	}
}

func (a *App) onResult(target, message string, err error) {
	if target == "" {
		target = "all lights"
	}
	if err != nil {
		a.printf("[!] %s: %s\n", target, errorText(err))
		return
	}
	a.printf("[ok] %s: %s\n", target, message)
}

// light returns the widget of the named device, creating it from the
// store's copy on first use.
func (a *App) light(name string) (*control.Light, error) {
	d, ok := a.session.Device(name)
	if !ok {
		a.dropLight(name)
		return nil, fmt.Errorf("no device named %q", name)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if l, ok := a.lights[name]; ok {
		return l, nil
	}
	l := control.NewLight(a.session, d, a.widgetOptions())
	a.lights[name] = l
	return l, nil
}

func (a *App) allLights() *control.Fleet {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.fleet == nil {
		a.fleet = control.NewFleet(fleetTarget{a}, a.widgetOptions())
	}
	return a.fleet
}

// fleetTarget sends fleet actions through the session and, once one is
// acknowledged, brings the open light widgets in line with the store.
type fleetTarget struct {
	a *App
}

func (f fleetTarget) ControlLights(ctx context.Context, action models.LightAction) (string, error) {
	return f.a.session.ControlLights(ctx, action)
}

func (f fleetTarget) ReconcileAll(action models.LightAction) {
	f.a.session.ReconcileAll(action)

	f.a.mu.Lock()
	lights := make([]*control.Light, 0, len(f.a.lights))
	for _, l := range f.a.lights {
		lights = append(lights, l)
	}
	f.a.mu.Unlock()

	for _, l := range lights {
		l.Apply(action)
	}
}

func (a *App) dropLight(name string) {
	a.mu.Lock()
	l, ok := a.lights[name]
	delete(a.lights, name)
	a.mu.Unlock()

	if ok {
		l.Close()
	}
}

// closeWidgets flushes and closes every widget.
func (a *App) closeWidgets(ctx context.Context) {
	a.mu.Lock()
	lights := a.lights
	fleet := a.fleet
	a.lights = make(map[string]*control.Light)
	a.fleet = nil
	a.mu.Unlock()

	for name, l := range lights {
		if err := l.Flush(ctx); err != nil {
			a.log.Debug(ctx, "flush on close failed", "device", name, "error", err)
		}
		l.Close()
	}
	if fleet != nil {
		if err := fleet.Flush(ctx); err != nil {
			a.log.Debug(ctx, "flush on close failed", "device", "all", "error", err)
		}
		fleet.Close()
	}
}
