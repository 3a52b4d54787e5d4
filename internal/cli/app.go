package cli

import (
	"bufio"
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/dmitrijs2005/fakeye/internal/auth"
	"github.com/dmitrijs2005/fakeye/internal/bridge"
	"github.com/dmitrijs2005/fakeye/internal/community"
	"github.com/dmitrijs2005/fakeye/internal/config"
	"github.com/dmitrijs2005/fakeye/internal/detect"
	"github.com/dmitrijs2005/fakeye/internal/history"
	"github.com/dmitrijs2005/fakeye/internal/logging"
	"github.com/dmitrijs2005/fakeye/internal/notify"
	"github.com/dmitrijs2005/fakeye/internal/storage"
)

// App owns the host-side object graph: the durable store, the caches over
// it, the mocked detectors, and the bridge the extension producer connects
// to.
type App struct {
	config    *config.Config
	log       logging.Logger
	store     storage.Store
	producer  storage.Store
	bus       *notify.Bus
	auth      *auth.Service
	history   *history.Service
	community *community.Service
	detector  *detect.Service
	syncer    *bridge.Syncer
	server    *http.Server
	reader    *bufio.Reader
}

func NewApp(cfg *config.Config, log logging.Logger) (*App, error) {
	ctx := context.Background()

	store, err := storage.Open(ctx, cfg.StorePath, log)
	if err != nil {
		return nil, err
	}

	// The producer's storage area is a separate database shared with the
	// extension process; the store's poller is what notices its writes.
	producerStore, err := storage.Open(ctx, cfg.ExtensionStorePath, log)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	bus := notify.NewBus()
	tokens := auth.NewTokenManager([]byte(cfg.SessionSecret), cfg.SessionTTL)
	var hasher auth.PasswordHasher = auth.NewBcryptHasher()
	if cfg.PlainPasswords {
		hasher = auth.PlainHasher{}
	}
	authService := auth.NewService(store, hasher, tokens, log)
	historyService := history.NewService(store, bus, log)
	communityService := community.NewService(store, authService, log)
	syncer := bridge.NewSyncer(store, producerStore, bus, cfg.SyncInterval, log)

	mux := http.NewServeMux()
	mux.Handle("/bridge", bridge.NewServer(syncer, store, log).Handler())

	return &App{
		config:    cfg,
		log:       log,
		store:     store,
		producer:  producerStore,
		bus:       bus,
		auth:      authService,
		history:   historyService,
		community: communityService,
		detector:  detect.NewService(),
		syncer:    syncer,
		server:    &http.Server{Addr: cfg.BridgeAddr, Handler: mux},
		reader:    bufio.NewReader(os.Stdin),
	}, nil
}

// Run restores the session, starts the caches, the reconciler and the
// bridge endpoint, then hands control to the REPL until the user exits or
// ctx is canceled.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if user, err := a.auth.Restore(ctx); err != nil {
		a.log.Warn(ctx, "session restore failed", "error", err)
	} else if user != nil {
		printlnFn("Welcome back,", user.Username)
	}

	if err := a.history.Start(ctx); err != nil {
		return err
	}
	if err := a.community.Start(ctx); err != nil {
		return err
	}

	go a.syncer.Run(ctx)

	go func() {
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error(ctx, "bridge endpoint failed", "error", err)
		}
	}()

	runREPL(ctx, a, a.status, bufio.NewScanner(os.Stdin))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer shutdownCancel()
	_ = a.server.Shutdown(shutdownCtx)

	return nil
}

// Close releases the stores.
func (a *App) Close() error {
	err := a.store.Close()
	if perr := a.producer.Close(); err == nil {
		err = perr
	}
	return err
}

func (a *App) isLoggedIn() bool {
	return a.auth.Current() != nil
}

func (a *App) status() string {
	if user := a.auth.Current(); user != nil {
		return "(" + user.Username + ")"
	}
	return ""
}
