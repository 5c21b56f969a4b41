package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/magabrotheeeer/apikit/internal/cache"
	"github.com/magabrotheeeer/apikit/internal/config"
	"github.com/magabrotheeeer/apikit/internal/events"
	"github.com/magabrotheeeer/apikit/internal/http/controller"
	"github.com/magabrotheeeer/apikit/internal/http/middlewarectx"
	"github.com/magabrotheeeer/apikit/internal/lib/jwt"
	"github.com/magabrotheeeer/apikit/internal/lib/sl"
	"github.com/magabrotheeeer/apikit/internal/migrations"
	"github.com/magabrotheeeer/apikit/internal/services/account"
	"github.com/magabrotheeeer/apikit/internal/storage/repository"
)

const shutdownTimeout = 15 * time.Second

// App HTTP-сервер со всеми подключениями.
type App struct {
	server  *http.Server
	logger  *slog.Logger
	closers []io.Closer
}

// New подключается к хранилищам и брокеру, применяет миграции и собирает роутер.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "api.New"
	app := &App{logger: logger}

	db, err := repository.New(ctx, cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	app.closers = append(app.closers, db)
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		app.close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		app.close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	app.closers = append(app.closers, cacheRedis)

	publisher, err := app.initPublisher(cfg.RabbitMQ)
	if err != nil {
		app.close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	maker, err := jwt.NewHMACMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	if err != nil {
		app.close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := middlewarectx.NewMetrics(registry)

	base := controller.New(logger, controller.Options{
		ClaimsName:     cfg.ClaimsName,
		Mock:           cfg.Mock,
		MockEnabled:    cfg.IsLocal(),
		ForbiddenCheck: cfg.ForbiddenCheckEnabled(),
		Observer:       metrics,
	})
	if cfg.IsLocal() && len(cfg.Mock) > 0 {
		logger.Warn("mock claims are enabled", slog.Int("keys", len(cfg.Mock)))
	}
	accounts := account.New(logger, db, cacheRedis, maker, publisher, cfg.CacheTTL)

	router := chi.NewRouter()
	RegisterRoutes(router, Deps{
		Logger:     logger,
		Base:       base,
		Accounts:   accounts,
		Verifier:   maker,
		Revoked:    cacheRedis,
		ClaimsName: cfg.ClaimsName,
		Limiter:    middlewarectx.NewRateLimiter(cfg.RPS, cfg.Burst, cfg.EvilAfter),
		Metrics:    metrics,
		Gatherer:   registry,
	})

	app.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return app, nil
}

// initPublisher подключается к RabbitMQ. Без url события только пишутся в лог.
func (a *App) initPublisher(cfg config.RabbitMQ) (account.Publisher, error) {
	if cfg.URL == "" {
		a.logger.Warn("rabbitmq url is empty, account events are discarded")
		return events.Discard{Log: a.logger}, nil
	}

	conn, err := events.Connect(cfg.URL, cfg.Retries, cfg.RetryDelay)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, conn)

	pub, err := events.NewPublisher(conn, cfg.Exchange)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, pub)
	return pub, nil
}

// Run запускает сервер и блокируется до ошибки или отмены ctx.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

// close освобождает ресурсы в обратном порядке.
func (a *App) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			a.logger.Error("failed to close resource", sl.Err(err))
		}
	}
	a.closers = nil
}
