// Package zendaaccess собирает HTTP-приложение движка доступа:
// хранилище, миграции, кеш, сервисы и маршруты.
package zendaaccess

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/zendaapp/zenda-access/internal/cache"
	"github.com/zendaapp/zenda-access/internal/config"
	"github.com/zendaapp/zenda-access/internal/lib/jwt"
	"github.com/zendaapp/zenda-access/internal/migrations"
	"github.com/zendaapp/zenda-access/internal/models"
	authservice "github.com/zendaapp/zenda-access/internal/services/auth"
	entitlementservice "github.com/zendaapp/zenda-access/internal/services/entitlement"
	pointsservice "github.com/zendaapp/zenda-access/internal/services/points"
	proofservice "github.com/zendaapp/zenda-access/internal/services/proof"
	subscriptionservice "github.com/zendaapp/zenda-access/internal/services/subscription"
	"github.com/zendaapp/zenda-access/internal/storage/repository"
)

type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	jwtMaker := jwt.NewMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	authService := authservice.New(db, jwtMaker)

	subscriptionService := subscriptionservice.New(db, cacheRedis, cfg.Payment, logger)
	pointsService := pointsservice.New(db, cfg.PointValueKz, logger)
	entitlementService := entitlementservice.New(db)
	proofService := proofservice.New(db, map[models.ProofTarget]proofservice.ActivatorFunc{
		models.TargetSubscription: subscriptionService.ActivateForProof,
		models.TargetCourse:       db.ActivateEnrollment,
		models.TargetMentorship:   db.ApproveMentorshipRequest,
	}, map[models.ProofTarget]proofservice.OwnerFunc{
		models.TargetSubscription: func(ctx context.Context, targetID int) (string, error) {
			sub, err := db.GetSubscription(ctx, targetID)
			if err != nil {
				return "", err
			}
			return sub.UserUID, nil
		},
	}, cfg.ProofUploadDir, logger)

	router := chi.NewRouter()

	RegisterRoutes(router, logger, authService, subscriptionService,
		pointsService, entitlementService, proofService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
	}, nil
}

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
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.db.DB.Close()
		return err
	}
}
