// Package zendaaccess предоставляет маршруты HTTP-приложения движка доступа.
package zendaaccess

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/zendaapp/zenda-access/internal/http/handlers/admin/pointsadjust"
	"github.com/zendaapp/zenda-access/internal/http/handlers/admin/pointsbalance"
	"github.com/zendaapp/zenda-access/internal/http/handlers/admin/pointslist"
	"github.com/zendaapp/zenda-access/internal/http/handlers/admin/proofapprove"
	"github.com/zendaapp/zenda-access/internal/http/handlers/admin/prooflist"
	"github.com/zendaapp/zenda-access/internal/http/handlers/admin/proofreject"
	"github.com/zendaapp/zenda-access/internal/http/handlers/admin/subscriptiondeactivate"
	"github.com/zendaapp/zenda-access/internal/http/handlers/admin/subscriptionextend"
	"github.com/zendaapp/zenda-access/internal/http/handlers/admin/subscriptionlist"
	"github.com/zendaapp/zenda-access/internal/http/handlers/auth/login"
	"github.com/zendaapp/zenda-access/internal/http/handlers/auth/register"
	"github.com/zendaapp/zenda-access/internal/http/handlers/entitlement/resolve"
	"github.com/zendaapp/zenda-access/internal/http/handlers/health"
	"github.com/zendaapp/zenda-access/internal/http/handlers/proof/submit"
	"github.com/zendaapp/zenda-access/internal/http/handlers/subscription/mine"
	"github.com/zendaapp/zenda-access/internal/http/handlers/subscription/paymentinfo"
	"github.com/zendaapp/zenda-access/internal/http/handlers/subscription/redeem"
	"github.com/zendaapp/zenda-access/internal/http/handlers/subscription/starttrial"
	"github.com/zendaapp/zenda-access/internal/http/middlewarectx"
	"github.com/zendaapp/zenda-access/internal/models"
	authservice "github.com/zendaapp/zenda-access/internal/services/auth"
	entitlementservice "github.com/zendaapp/zenda-access/internal/services/entitlement"
	pointsservice "github.com/zendaapp/zenda-access/internal/services/points"
	proofservice "github.com/zendaapp/zenda-access/internal/services/proof"
	subscriptionservice "github.com/zendaapp/zenda-access/internal/services/subscription"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger,
	authService *authservice.Service,
	subscriptionService *subscriptionservice.Service,
	pointsService *pointsservice.Service,
	entitlementService *entitlementservice.Service,
	proofService *proofservice.Service,
) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/auth/register", register.New(logger, authService).ServeHTTP)
		r.Post("/auth/login", login.New(logger, authService).ServeHTTP)
		r.Get("/subscriptions/payment-info", paymentinfo.New(logger, subscriptionService).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Get("/entitlement", resolve.New(logger, entitlementService).ServeHTTP)
			r.Get("/subscriptions/mine", mine.New(logger, subscriptionService).ServeHTTP)
			r.Post("/subscriptions/start-trial", starttrial.New(logger, subscriptionService).ServeHTTP)
			r.Post("/subscriptions/{id}/payment-proofs",
				submit.New(logger, proofService, models.TargetSubscription).ServeHTTP)
			r.Post("/referral/redeem-subscription", redeem.New(logger, subscriptionService).ServeHTTP)

			// Админская группа
			r.Route("/admin", func(r chi.Router) {
				r.Use(middlewarectx.RequireAdmin(logger))
				r.Get("/subscriptions", subscriptionlist.New(logger, subscriptionService).ServeHTTP)
				r.Post("/subscriptions/{id}/deactivate", subscriptiondeactivate.New(logger, subscriptionService).ServeHTTP)
				r.Post("/subscriptions/{id}/extend-30-days", subscriptionextend.New(logger, subscriptionService).ServeHTTP)
				r.Get("/subscription-payment-proofs", prooflist.New(logger, proofService).ServeHTTP)
				r.Post("/subscription-payment-proofs/{id}/approve", proofapprove.New(logger, proofService).ServeHTTP)
				r.Post("/subscription-payment-proofs/{id}/reject", proofreject.New(logger, proofService).ServeHTTP)
				r.Get("/user-points", pointslist.New(logger, pointsService).ServeHTTP)
				r.Get("/user-points/{user}/balance", pointsbalance.New(logger, pointsService).ServeHTTP)
				r.Post("/user-points/adjust", pointsadjust.New(logger, pointsService).ServeHTTP)
			})
		})
	})

	r.Get("/health", health.New(logger).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
