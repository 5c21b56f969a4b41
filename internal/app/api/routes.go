// Package api собирает HTTP API учётных записей: маршруты, зависимости и жизненный цикл сервера.
package api

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	// Регистрирует swagger-документ для /docs.
	_ "github.com/magabrotheeeer/apikit/docs"
	"github.com/magabrotheeeer/apikit/internal/http/controller"
	"github.com/magabrotheeeer/apikit/internal/http/handlers/account/read"
	"github.com/magabrotheeeer/apikit/internal/http/handlers/account/remove"
	"github.com/magabrotheeeer/apikit/internal/http/handlers/account/update"
	"github.com/magabrotheeeer/apikit/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/apikit/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/apikit/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/apikit/internal/http/middlewarectx"
)

// AccountService всё, что обработчикам нужно от сервиса учётных записей.
type AccountService interface {
	register.Service
	login.Service
	logout.Service
	read.Service
	update.Service
	remove.Service
}

// Deps зависимости маршрутов. Limiter, Metrics и Gatherer необязательны.
type Deps struct {
	Logger     *slog.Logger
	Base       *controller.Base
	Accounts   AccountService
	Verifier   middlewarectx.Verifier
	Revoked    middlewarectx.RevocationChecker
	ClaimsName string
	Limiter    *middlewarectx.RateLimiter
	Metrics    *middlewarectx.Metrics
	Gatherer   prometheus.Gatherer
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, d Deps) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)
	if d.Metrics != nil {
		r.Use(d.Metrics.Middleware)
	}

	r.Route("/api/v1", func(r chi.Router) {
		if d.Limiter != nil {
			r.Use(d.Limiter.Middleware(d.Logger))
		}

		// Открытые конечные точки
		r.Post("/register", register.New(d.Base, d.Accounts).ServeHTTP)
		r.Post("/login", login.New(d.Base, d.Accounts).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(d.Verifier, d.Revoked, d.ClaimsName, d.Logger))

			readHandler := read.New(d.Base, d.Accounts)
			r.Post("/logout", logout.New(d.Base, d.Accounts).ServeHTTP)
			r.Get("/accounts/me", readHandler.Me)
			r.Get("/accounts/{id}", readHandler.ServeHTTP)
			r.Put("/accounts/{id}", update.New(d.Base, d.Accounts).ServeHTTP)
			r.Delete("/accounts/{id}", remove.New(d.Base, d.Accounts).ServeHTTP)
		})
	})

	r.Get("/docs/*", httpSwagger.WrapHandler)

	if d.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}
}
