package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/rpggio/pantry/internal/config"
	"github.com/rpggio/pantry/internal/domain/activity"
	"github.com/rpggio/pantry/internal/domain/document"
	"github.com/rpggio/pantry/internal/filestore"
	"github.com/rpggio/pantry/internal/locale"
	"github.com/rpggio/pantry/internal/mcp"
	"github.com/rpggio/pantry/internal/sqlite"
)

// app holds the services a command runs against. Close releases the store
// and the log file.
type app struct {
	cfg      config.Config
	logger   *slog.Logger
	printer  *locale.Printer
	docs     *document.Service
	store    document.Store
	activity *activity.Service // nil with the file backend
	closers  []io.Closer
}

// openApp loads configuration, opens storage and installs the stored
// document. logOut receives logs unless a log file is configured.
func openApp(ctx context.Context, opts *RootOptions, logOut func(config.Config) io.Writer) (*app, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}

	a := &app{cfg: cfg}
	logWriter := logOut(cfg)
	if cfg.Log.Path != "" {
		fileWriter, err := newLogFileWriter(cfg.Log.Path)
		if err != nil {
			fmt.Fprintf(logWriter, "log file error: %v\n", err)
		} else {
			a.closers = append(a.closers, fileWriter)
			logWriter = fileWriter
		}
	}
	a.logger = slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	if err := a.openStore(); err != nil {
		a.Close()
		return nil, err
	}

	a.printer, err = locale.New(cfg.Display.Locale, cfg.Display.DateLayout)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("config error: %w", err)
	}

	var activityLog document.ActivityLogger
	if a.activity != nil {
		activityLog = a.activity
	}
	a.docs = document.NewService(activityLog, a.logger,
		document.WithPrinter(a.printer),
		document.WithStrict(cfg.Strict),
		document.WithSectionOffset(cfg.Display.SectionOffset),
	)

	res := <-a.docs.LoadAsync(ctx, a.store)
	if res.Err != nil {
		a.Close()
		return nil, fmt.Errorf("loading document: %w", res.Err)
	}
	a.docs.Replace(res.Document)
	a.logger.Debug("document loaded", "backend", cfg.Storage.Backend, "meals", len(a.docs.Meals()))

	return a, nil
}

func (a *app) openStore() error {
	switch a.cfg.Storage.Backend {
	case config.BackendSQLite:
		if err := ensureDir(a.cfg.DB.Path); err != nil {
			return fmt.Errorf("failed to prepare database path: %w", err)
		}
		db, err := sqlite.New(a.cfg.DB.Path)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, db)
		if err := db.RunMigrations(); err != nil {
			return err
		}
		a.store = sqlite.NewDocumentRepository(db, a.cfg.Storage.Document)
		a.activity = activity.NewService(sqlite.NewActivityRepository(db), a.logger)
	default:
		a.store = filestore.New(a.cfg.Storage.Path)
	}
	return nil
}

// persist writes the current document and waits for the write to finish.
func (a *app) persist(ctx context.Context) error {
	if err := <-a.docs.SaveAsync(ctx, a.store); err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	return nil
}

func (a *app) activityService() mcp.ActivityService {
	if a.activity == nil {
		return nil
	}
	return a.activity
}

func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i].Close())
	}
	a.closers = nil
	return errors.Join(errs...)
}
