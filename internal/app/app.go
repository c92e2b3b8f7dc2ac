package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"blogposts/config"
	"blogposts/internal/adapter/in/rest"
	memstore "blogposts/internal/adapter/out/storage/inmemory"
	pgstore "blogposts/internal/adapter/out/storage/postgres"
	sqlitestore "blogposts/internal/adapter/out/storage/sqlite"
	"blogposts/internal/service"
	"blogposts/pkg/logger"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2/manager"
	"github.com/jackc/pgx/v5/pgxpool"
)

type App struct {
	cfg  config.Config
	srv  *http.Server
	pool *pgxpool.Pool
	db   *sql.DB
}

func NewApp(ctx context.Context, cfg config.Config) (*App, error) {
	log := logger.FromContext(ctx)

	var (
		postStorage service.PostStorage
		txManager   service.TxManager
		pool        *pgxpool.Pool
		db          *sql.DB
	)

	switch cfg.StorageType {
	case config.StoragePostgres:
		var err error
		pool, err = pgxpool.New(ctx, cfg.Postgres.GetDSN())
		if err != nil {
			return nil, fmt.Errorf("pgxpool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("ping postgres: %w", err)
		}
		if err := pgstore.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrate postgres: %w", err)
		}
		postStorage = pgstore.NewPostStorage(pool, trmpgx.DefaultCtxGetter)
		txManager = manager.Must(trmpgx.NewDefaultFactory(pool))

	case config.StorageSQLite:
		var err error
		db, err = sqlitestore.Open(cfg.SQLite.Path)
		if err != nil {
			return nil, fmt.Errorf("sqlite: %w", err)
		}
		postStorage = sqlitestore.NewPostStorage(db)
		txManager = sqlitestore.NewTxManager(db)

	default:
		postStorage = memstore.NewPostStorage()
		txManager = memstore.TxManager{}
	}

	postSvc := service.NewPostService(postStorage, txManager)

	router := rest.NewRouter(postSvc, rest.RouterConfig{
		UserHeader: cfg.Auth.UserHeader,
		Logger:     log,
	})

	addr := ":" + cfg.HTTP.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Info("app initialized", "addr", addr, "storage", cfg.StorageType)
	return &App{cfg: cfg, srv: srv, pool: pool, db: db}, nil
}

func (a *App) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", "addr", a.srv.Addr)
		errCh <- a.srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown requested")
		shCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := a.srv.Shutdown(shCtx); err != nil {
			log.Error("http shutdown", "error", err)
		}
		a.close()
		return nil

	case err := <-errCh:
		a.close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (a *App) close() {
	if a.pool != nil {
		a.pool.Close()
	}
	if a.db != nil {
		_ = a.db.Close()
	}
}
