package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/charmbracelet/log"

	"github.com/hazadus/worship/internal/classifier"
	"github.com/hazadus/worship/internal/config"
	"github.com/hazadus/worship/internal/data"
	"github.com/hazadus/worship/internal/deezer"
	"github.com/hazadus/worship/internal/logger"
	"github.com/hazadus/worship/internal/metadata"
	"github.com/hazadus/worship/internal/player"
	"github.com/hazadus/worship/internal/repositories"
	"github.com/hazadus/worship/internal/search"
	"github.com/hazadus/worship/internal/track"
)

// Application связывает конфигурацию и сервисы, которыми пользуются команды
type Application struct {
	Config    *config.Config
	Logger    *log.Logger
	Store     track.Store
	Tracks    *track.Manager
	Search    *search.Orchestrator
	Engine    *player.Engine
	Extractor *metadata.Extractor

	db *sql.DB // Только для драйвера sqlite
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	app := &Application{}
	err := app.createRootCommand(ctx).Execute()

	app.Close()
	stop()

	if err != nil {
		os.Exit(1)
	}
}

// setup загружает конфигурацию и создает сервисы для реального окружения
func (app *Application) setup(configPath string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("ошибка загрузки конфигурации: %w", err)
	}

	l, err := logger.New(os.Stderr, cfg.Log.Level)
	if err != nil {
		return err
	}

	backend := player.NewBeepBackend(player.BeepOptions{
		SampleRate: cfg.Player.SampleRate,
		BufferSize: cfg.Player.BufferSize,
		UserAgent:  cfg.API.UserAgent,
	})

	return app.wire(cfg, l, backend)
}

// wire создает все сервисы приложения. Бэкенд воспроизведения передается
// снаружи, чтобы тесты обходились без звукового устройства.
func (app *Application) wire(cfg *config.Config, l *log.Logger, backend player.Backend) error {
	app.Config = cfg
	app.Logger = l

	store, db, err := openStore(cfg.Library)
	if err != nil {
		return err
	}
	app.Store = store
	app.db = db

	cls, err := newClassifier(cfg)
	if err != nil {
		return err
	}

	client := deezer.NewClient(deezer.Config{
		BaseURL:   cfg.API.BaseURL,
		Timeout:   cfg.API.Timeout,
		RateLimit: cfg.API.RateLimit,
		UserAgent: cfg.API.UserAgent,
	})

	app.Search = search.New(client, cls,
		search.WithLogger(logger.Component(l, "search")),
		search.WithSearchLimit(cfg.Search.Limit),
		search.WithFallbackLimit(cfg.Search.FallbackLimit),
		search.WithHighQualityLimit(cfg.Search.HighQualityLimit),
	)

	app.Engine = player.New(backend,
		player.WithProgressInterval(cfg.Player.ProgressInterval),
		player.WithFallbackDuration(cfg.Player.PreviewLength),
		player.WithLogger(logger.Component(l, "player")),
	)

	app.Tracks = track.NewManager(store, cls)
	app.Extractor = metadata.NewExtractor()

	l.Debug("приложение готово", "driver", cfg.Library.Driver, "library", cfg.Library.Path)
	return nil
}

// Close останавливает плеер и закрывает базу данных
func (app *Application) Close() {
	if app.Search != nil {
		app.Search.Cancel()
	}
	if app.Engine != nil {
		_ = app.Engine.Close()
	}
	app.closeStore()
}

func (app *Application) closeStore() {
	if app.db == nil {
		return
	}
	if err := app.db.Close(); err != nil && app.Logger != nil {
		app.Logger.Warn("ошибка закрытия базы данных", "err", err)
	}
	app.db = nil
}

// openStore открывает хранилище библиотеки согласно library.driver
func openStore(cfg config.LibraryConfig) (track.Store, *sql.DB, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		db, err := repositories.OpenDatabase(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return repositories.NewCollectionRepository(db), db, nil
	default:
		store, err := data.NewFileStore(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return store, nil, nil
	}
}

// newClassifier дополняет стандартные словари значениями из конфигурации
func newClassifier(cfg *config.Config) (*classifier.Classifier, error) {
	tag, err := cfg.LanguageTag()
	if err != nil {
		return nil, fmt.Errorf("ошибка разбора языка классификатора: %w", err)
	}

	keywords := append(slices.Clone(classifier.DefaultKeywords), cfg.Classifier.ExtraKeywords...)
	artists := append(slices.Clone(classifier.DefaultArtists), cfg.Classifier.ExtraArtists...)

	return classifier.New(
		classifier.WithLanguage(tag),
		classifier.WithKeywords(keywords),
		classifier.WithArtists(artists),
	), nil
}
