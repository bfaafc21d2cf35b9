// Package app wires configuration, storage, clients, and services into the
// shared application core used by cmd/kwatch-server.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"kwatch/internal/clients/datago"
	"kwatch/internal/clients/naver"
	"kwatch/internal/common"
	"kwatch/internal/interfaces"
	"kwatch/internal/services/quote"
	"kwatch/internal/services/suggest"
	"kwatch/internal/services/watchlist"
	"kwatch/internal/storage"
)

// App holds all initialized services, clients, and storage.
type App struct {
	Config           *common.Config
	Logger           *common.Logger
	Storage          interfaces.StorageManager
	DataGoClient     interfaces.DataGoClient
	NaverClient      interfaces.NaverClient
	SuggestService   interfaces.SuggestService
	QuoteService     interfaces.QuoteService
	WatchlistService interfaces.WatchlistService
	StartupTime      time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes all services, clients, and storage.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	binDir := getBinaryDir()

	// Load configuration - check provided path, KWATCH_CONFIG, then binary dir, then fallback
	if configPath == "" {
		configPath = os.Getenv("KWATCH_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "kwatch.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/kwatch.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Missing upstream credential is fatal at startup, not per request.
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	// Resolve relative storage path to binary directory
	if config.Storage.Path != "" && !filepath.IsAbs(config.Storage.Path) {
		config.Storage.Path = filepath.Join(binDir, config.Storage.Path)
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	storageManager, err := storage.NewManager(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	// Initialize API clients
	dataGoOpts := []datago.ClientOption{
		datago.WithLogger(logger),
		datago.WithRateLimit(config.Clients.DataGo.RateLimit),
		datago.WithTimeout(config.Clients.DataGo.GetTimeout()),
	}
	if config.Clients.DataGo.BaseURL != "" {
		dataGoOpts = append(dataGoOpts, datago.WithBaseURL(config.Clients.DataGo.BaseURL))
	}
	dataGoClient := datago.NewClient(config.Clients.DataGo.ServiceKey, dataGoOpts...)

	naverOpts := []naver.ClientOption{
		naver.WithLogger(logger),
		naver.WithRateLimit(config.Clients.Naver.RateLimit),
		naver.WithTimeout(config.Clients.Naver.GetTimeout()),
	}
	if config.Clients.Naver.BaseURL != "" {
		naverOpts = append(naverOpts, naver.WithBaseURL(config.Clients.Naver.BaseURL))
	}
	if config.Clients.Naver.Referer != "" {
		naverOpts = append(naverOpts, naver.WithReferer(config.Clients.Naver.Referer))
	}
	naverClient := naver.NewClient(naverOpts...)

	// Initialize services
	suggestService := suggest.NewService(dataGoClient, logger)
	quoteService := quote.NewService(naverClient, logger)
	watchlistService := watchlist.NewService(storageManager, logger)

	a := &App{
		Config:           config,
		Logger:           logger,
		Storage:          storageManager,
		DataGoClient:     dataGoClient,
		NaverClient:      naverClient,
		SuggestService:   suggestService,
		QuoteService:     quoteService,
		WatchlistService: watchlistService,
		StartupTime:      startupStart,
	}

	logger.Info().Dur("startup", time.Since(startupStart)).Msg("App initialized")

	return a, nil
}

// Close releases application resources.
func (a *App) Close() {
	if a.Storage != nil {
		if err := a.Storage.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close storage")
		}
	}
}
