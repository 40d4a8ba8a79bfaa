// Package daemon wires the application together and runs it.
package daemon

import (
	"context"
	"strconv"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/goinsights/goinsights/internal/auth"
	"github.com/goinsights/goinsights/internal/config"
	"github.com/goinsights/goinsights/internal/datasource"
	"github.com/goinsights/goinsights/internal/demo"
	"github.com/goinsights/goinsights/internal/queue"
	"github.com/goinsights/goinsights/internal/setup"
	"github.com/goinsights/goinsights/internal/telemetry"
	"github.com/goinsights/goinsights/internal/web"
	"github.com/goinsights/goinsights/internal/web/handler"
	"github.com/goinsights/goinsights/internal/web/session"
)

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	db         *gorm.DB
	queue      queue.TaskQueue
	worker     *queue.Worker
	webService *web.Service
}

// Start runs the worker and the web service until SIGINT or SIGTERM.
func (d *Daemon) Start() error {
	if d.worker != nil {
		if err := d.worker.Start(); err != nil {
			return err
		}
	}

	errCh := make(chan error, 1)

	go func() {
		errCh <- d.webService.Start(":" + strconv.Itoa(d.cfg.Webserver.Port))
	}()

	go d.webService.WaitShutdown()

	err := <-errCh

	d.Close()

	return err
}

// Close stops the worker and releases the queue and database.
func (d *Daemon) Close() {
	if d.worker != nil {
		d.worker.Stop()
	}

	if err := d.queue.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close task queue")
	}

	if sqlDB, err := d.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) (*Daemon, error) {
	db, err := OpenDB(cfg)
	if err != nil {
		return nil, err
	}

	if err = seed(context.Background(), cfg, db); err != nil {
		return nil, err
	}

	session.Init(sessionStorage(cfg))

	connector := datasource.NewConnector(cfg.DataSources)
	syncer := datasource.NewSyncer(db, connector)
	processor := func(ctx context.Context, task *queue.SyncTablesTask) error {
		return syncer.SyncTables(ctx, task.DataSource)
	}

	d := &Daemon{cfg: cfg, db: db, queue: queue.New(&cfg.Redis, processor)}

	if d.queue.IsAsync() {
		d.worker = queue.NewWorker(&cfg.Redis, processor)
	}

	setupService := setup.NewService(
		db,
		connector,
		demo.NewFactory(db, cfg.DataSources.SQLitePath, d.queue),
		telemetry.NewClient(cfg.Telemetry),
		d.queue,
	)

	d.webService, err = web.New(&handler.Deps{
		Cfg:   cfg,
		DB:    db,
		Auth:  auth.NewService(db),
		Setup: setupService,
	})
	if err != nil {
		return nil, err
	}

	return d, nil
}
