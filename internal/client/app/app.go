package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/fitkeeper/internal/client/config"
	"github.com/dmitrijs2005/fitkeeper/internal/client/dispatch"
	"github.com/dmitrijs2005/fitkeeper/internal/client/migrate"
	"github.com/dmitrijs2005/fitkeeper/internal/client/persist"
	"github.com/dmitrijs2005/fitkeeper/internal/client/session"
	"github.com/dmitrijs2005/fitkeeper/internal/client/stores"
	"github.com/dmitrijs2005/fitkeeper/internal/client/syncer"
	"github.com/dmitrijs2005/fitkeeper/internal/common"
	"github.com/dmitrijs2005/fitkeeper/internal/filex"
	"github.com/dmitrijs2005/fitkeeper/internal/logging"
	"github.com/dmitrijs2005/fitkeeper/internal/remote"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dialer connects to the remote at addr authenticated with token.
type Dialer func(addr, token string) (remote.Client, error)

func dialGRPC(addr, token string) (remote.Client, error) {
	return remote.NewGRPCClient(addr, token)
}

type Option func(*App)

// WithBackend uses b instead of opening the configured storage. The app
// closes it on Close.
func WithBackend(b persist.Backend) Option {
	return func(a *App) { a.backend = b }
}

func WithDialer(d Dialer) Option {
	return func(a *App) { a.dial = d }
}

func WithLogger(l logging.Logger) Option {
	return func(a *App) { a.log = l }
}

func WithClock(now func() time.Time) Option {
	return func(a *App) { a.now = now }
}

type App struct {
	config     *config.Config
	log        logging.Logger
	backend    persist.Backend
	registry   *prometheus.Registry
	dispatcher *dispatch.Dispatcher
	stores     *stores.Set
	syncer     *syncer.Syncer
	migrator   *migrate.Runner
	dial       Dialer
	now        func() time.Time
	metricsSrv *http.Server

	mu        sync.Mutex
	session   *session.Session
	client    remote.Client
	stopWatch context.CancelFunc
	watchDone chan struct{}
}

// New builds the app from c. Stores are loaded from the backend before New
// returns.
func New(ctx context.Context, c *config.Config, opts ...Option) (*App, error) {
	a := &App{config: c, dial: dialGRPC, now: time.Now}
	for _, opt := range opts {
		opt(a)
	}

	if a.log == nil {
		l, err := logging.New(c.LogFormat, c.LogLevel, os.Stderr)
		if err != nil {
			return nil, err
		}
		a.log = l
	}

	if a.backend == nil {
		b, err := openBackend(ctx, c)
		if err != nil {
			a.log.Error(ctx, "error initializing storage", "error", err)
			return nil, err
		}
		a.backend = b
	}

	a.registry = prometheus.NewRegistry()
	a.dispatcher = dispatch.New(a.log, nil, dispatch.NewMetrics(a.registry), c.DispatchTimeout)
	a.stores = stores.NewSet(ctx, stores.Deps{
		Backend:    a.backend,
		Dispatcher: a.dispatcher,
		Logger:     a.log,
		Now:        a.now,
	})
	a.syncer = syncer.New(a.stores.Bindings(), a.log, c.WatchRetryInterval)
	a.migrator = migrate.New(a.backend, a.dispatcher, a.log)

	if c.MetricsAddr != "" {
		a.startMetrics(ctx, c.MetricsAddr)
	}
	return a, nil
}

func openBackend(ctx context.Context, c *config.Config) (persist.Backend, error) {
	if c.Storage == persist.StorageMemory {
		return persist.NewMemoryBackend(), nil
	}
	dir, err := filex.EnsureDataDir(c.DataDir)
	if err != nil {
		return nil, err
	}
	return persist.Open(ctx, c.Storage, dir)
}

func (a *App) startMetrics(ctx context.Context, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))
	a.metricsSrv = &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		a.log.Info(ctx, "serving metrics", "address", addr)
		if err := a.metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error(ctx, "metrics server failed", "error", err)
		}
	}()
}

func (a *App) Stores() *stores.Set { return a.stores }

func (a *App) Registry() *prometheus.Registry { return a.registry }

// Mode reports whether the last remote interaction succeeded.
func (a *App) Mode() syncer.Mode { return a.syncer.Mode() }

// Session returns the signed-in session, if any.
func (a *App) Session() (session.Session, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.session == nil {
		return session.Session{}, false
	}
	return *a.session, true
}

// Login signs in with an access token, saves the session and connects. It
// returns common.ErrOtherAccount while the device still holds the data of a
// different user; Logout with wipe clears it.
func (a *App) Login(ctx context.Context, token string) (session.Session, error) {
	s, err := session.Parse(token, a.now())
	if err != nil {
		return session.Session{}, err
	}
	if err := a.checkOwner(ctx, s.UserID); err != nil {
		return session.Session{}, err
	}
	if err := a.connect(ctx, s); err != nil {
		return session.Session{}, err
	}
	if err := session.Save(ctx, a.backend, s); err != nil {
		return session.Session{}, fmt.Errorf("save session: %w", err)
	}
	return s, nil
}

// Resume connects with the saved session. It returns
// common.ErrNotAuthenticated if there is none.
func (a *App) Resume(ctx context.Context) (session.Session, error) {
	s, err := session.Load(ctx, a.backend, a.now())
	if err != nil {
		return session.Session{}, err
	}
	if err := a.checkOwner(ctx, s.UserID); err != nil {
		return session.Session{}, err
	}
	if err := a.connect(ctx, s); err != nil {
		return session.Session{}, err
	}
	return s, nil
}

func (a *App) checkOwner(ctx context.Context, userID string) error {
	owner, err := session.Owner(ctx, a.backend)
	if err != nil {
		return err
	}
	if owner != "" && owner != userID {
		a.log.Warn(ctx, "sign-in refused, device holds another account's data", "user", userID)
		return fmt.Errorf("signed out user %s: %w", owner, common.ErrOtherAccount)
	}
	return nil
}

func (a *App) connect(ctx context.Context, s session.Session) error {
	a.disconnect(ctx)

	c, err := a.dial(a.config.RemoteAddr, s.Token)
	if err != nil {
		return fmt.Errorf("connect %s: %w", a.config.RemoteAddr, err)
	}

	a.mu.Lock()
	a.session = &s
	a.client = c
	a.mu.Unlock()
	a.dispatcher.SetClient(c)

	pingErr := a.ping(ctx, c)
	if errors.Is(pingErr, remote.ErrUnauthorized) {
		a.disconnect(ctx)
		return pingErr
	}
	if err := session.Claim(ctx, a.backend, s.UserID); err != nil {
		a.disconnect(ctx)
		return err
	}
	if pingErr != nil {
		a.log.Warn(ctx, "remote unreachable, continuing offline", "error", pingErr)
	} else {
		a.uploadAndHydrate(ctx, c, s.UserID)
	}

	a.startWatch(c)
	a.log.Info(ctx, "signed in", "user", s.UserID)
	return nil
}

func (a *App) ping(ctx context.Context, c remote.Client) error {
	ctx, cancel := context.WithTimeout(ctx, a.config.DispatchTimeout)
	defer cancel()
	_, err := c.Query(ctx, remote.SettingsGet)
	return err
}

// uploadAndHydrate pushes local records the remote has not seen, whether
// they predate the first sign-in or were made while signed out, and waits
// for them before hydrating so replacing stores cannot drop them.
func (a *App) uploadAndHydrate(ctx context.Context, c remote.Client, userID string) {
	n, err := a.migrator.Run(ctx, userID, a.stores)
	if err != nil {
		a.log.Warn(ctx, "local data upload incomplete", "error", err)
	}
	if n > 0 {
		a.dispatcher.Wait()
	}

	if err := a.syncer.HydrateOnce(ctx, c); err != nil {
		a.log.Warn(ctx, "initial sync incomplete", "error", err)
	}
}

func (a *App) startWatch(c remote.Client) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	a.mu.Lock()
	a.stopWatch = cancel
	a.watchDone = done
	a.mu.Unlock()

	go func() {
		defer close(done)
		if err := a.syncer.Run(ctx, c); err != nil {
			a.log.Error(ctx, "live sync stopped", "error", err)
			if errors.Is(err, remote.ErrUnauthorized) {
				a.dispatcher.SetClient(nil)
			}
		}
	}()
}

// disconnect stops the subscription, unbinds the dispatcher, waits for
// in-flight mutations and closes the client.
func (a *App) disconnect(ctx context.Context) {
	a.mu.Lock()
	stop, done, c := a.stopWatch, a.watchDone, a.client
	a.stopWatch, a.watchDone, a.client, a.session = nil, nil, nil, nil
	a.mu.Unlock()

	if stop != nil {
		stop()
		<-done
	}
	a.dispatcher.SetClient(nil)
	a.dispatcher.Wait()

	if c != nil {
		if err := c.Close(); err != nil {
			a.log.Warn(ctx, "closing remote client", "error", err)
		}
	}
}

// SyncNow hydrates every store from the remote once.
func (a *App) SyncNow(ctx context.Context) error {
	a.mu.Lock()
	c := a.client
	a.mu.Unlock()
	if c == nil {
		return common.ErrNotAuthenticated
	}
	return a.syncer.HydrateOnce(ctx, c)
}

// Logout disconnects and forgets the session. Local data stays; wipe also
// drops it.
func (a *App) Logout(ctx context.Context, wipe bool) error {
	a.disconnect(ctx)
	if err := session.Clear(ctx, a.backend); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	if wipe {
		a.stores.Reset(ctx)
		if err := a.backend.Clear(ctx); err != nil {
			return fmt.Errorf("clear storage: %w", err)
		}
	}
	a.log.Info(ctx, "signed out", "wiped", wipe)
	return nil
}

// Close waits for pending mutations and releases every resource.
func (a *App) Close(ctx context.Context) error {
	a.disconnect(ctx)

	var errs []error
	if a.metricsSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		errs = append(errs, a.metricsSrv.Shutdown(shutdownCtx))
		cancel()
	}
	errs = append(errs, a.backend.Close())
	return errors.Join(errs...)
}
