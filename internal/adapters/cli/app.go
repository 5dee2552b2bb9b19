package cli

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/spf13/afero"

	"github.com/devbush/ad2video/internal/adapters/backend"
	"github.com/devbush/ad2video/internal/adapters/browser"
	"github.com/devbush/ad2video/internal/adapters/cache"
	"github.com/devbush/ad2video/internal/application"
	"github.com/devbush/ad2video/internal/config"
	"github.com/devbush/ad2video/internal/ports"
)

// App holds all application dependencies
type App struct {
	Config  *config.Config
	Logger  *log.Logger
	Backend *backend.Client
	Cache   ports.CacheStore
	Opener  ports.URLOpener

	PollInterval time.Duration
	CacheSvc     *application.CacheService
	DownloadSvc  *application.DownloadService
}

// NewApp creates and wires up all dependencies. logOut receives diagnostics.
func NewApp(logOut io.Writer) (*App, error) {
	// Ensure directories exist
	if err := config.EnsureDirs(); err != nil {
		return nil, err
	}

	// Load config
	cfg, err := config.LoadDefault()
	if err != nil {
		return nil, err
	}
	applyFlags(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Validate already checked these
	timeout, _ := cfg.GetTimeout()
	interval, _ := cfg.GetPollInterval()
	ttl, _ := cfg.GetCacheTTL()

	logger := log.New(logOut, "ad2video: ", log.LstdFlags)

	// Create adapters
	fs := afero.NewOsFs()
	client := backend.NewClient(cfg.BackendURL(), timeout, backend.WithLogger(logger))
	cacheStore := cache.NewFileCache(fs, config.CacheDir(), ttl)

	return &App{
		Config:       cfg,
		Logger:       logger,
		Backend:      client,
		Cache:        cacheStore,
		Opener:       browser.NewOpener(),
		PollInterval: interval,
		CacheSvc:     application.NewCacheService(cacheStore),
		DownloadSvc:  application.NewDownloadService(client, cacheStore, fs),
	}, nil
}

// applyFlags lets command line flags win over file and environment values
func applyFlags(cfg *config.Config) {
	if backendURLFlag != "" {
		cfg.Backend.URL = backendURLFlag
	}
	if pollIntervalFlag != "" {
		cfg.Defaults.PollInterval = pollIntervalFlag
	}
}

// NewController builds a controller over the app's backend
func (a *App) NewController(confirmer ports.Confirmer, opts ...application.ControllerOption) *application.Controller {
	opts = append([]application.ControllerOption{
		application.WithPollInterval(a.PollInterval),
		application.WithLogger(a.Logger),
	}, opts...)
	return application.NewController(a.Backend, a.Opener, confirmer, opts...)
}

// DownloadDir returns the directory videos are saved to by default
func (a *App) DownloadDir() string {
	if a.Config.Defaults.DownloadDir == "" {
		return "."
	}
	return a.Config.Defaults.DownloadDir
}

var globalApp *App

// GetApp returns the global app instance, creating it if needed
func GetApp() (*App, error) {
	if globalApp == nil {
		var logOut io.Writer = os.Stderr
		if quietFlag {
			logOut = io.Discard
		}
		app, err := NewApp(logOut)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize: %w", err)
		}
		globalApp = app
	}
	return globalApp, nil
}
