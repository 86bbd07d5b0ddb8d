// Package expirysweep собирает приложение фоновой уборки подписок:
// хранилище, RabbitMQ и цикл уборки.
package expirysweep

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/zendaapp/zenda-access/internal/config"
	"github.com/zendaapp/zenda-access/internal/lib/rabbitmq"
	sweepservice "github.com/zendaapp/zenda-access/internal/services/sweep"
	"github.com/zendaapp/zenda-access/internal/storage/repository"
)

// App представляет приложение уборки подписок.
type App struct {
	sweepService *sweepservice.Service
	conn         *amqp.Connection
	ch           *amqp.Channel
	logger       *slog.Logger
}

func waitForDB(db *repository.Storage) error {
	for range 10 {
		err := repository.CheckDatabaseReady(db)
		if err == nil {
			return nil
		}
		time.Sleep(3 * time.Second)
	}
	return fmt.Errorf("database not ready after retries")
}

// New создает новый экземпляр приложения уборки.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to connect RabbitMQ: %w", err)
	}

	queues := rabbitmq.GetNotificationQueues()
	ch, err := rabbitmq.SetupChannel(conn, queues)
	if err != nil {
		closeResources(nil, conn, logger)
		return nil, fmt.Errorf("failed to setup RabbitMQ channel: %w", err)
	}

	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		closeResources(ch, conn, logger)
		return nil, fmt.Errorf("failed to connect storage: %w", err)
	}

	if err := waitForDB(db); err != nil {
		closeResources(ch, conn, logger)
		return nil, err
	}

	publisher := rabbitmq.NewNotificationPublisher(ch)
	sweepService := sweepservice.New(db, publisher, cfg.Sweep, logger)

	return &App{
		sweepService: sweepService,
		conn:         conn,
		ch:           ch,
		logger:       logger,
	}, nil
}

func closeResources(ch *amqp.Channel, conn *amqp.Connection, logger *slog.Logger) {
	if ch != nil {
		if err := ch.Close(); err != nil {
			logger.Error("failed to close channel", "error", err)
		}
	}
	if conn != nil {
		if err := conn.Close(); err != nil {
			logger.Error("failed to close connection", "error", err)
		}
	}
}

// Run запускает цикл уборки до отмены контекста.
func (a *App) Run(ctx context.Context) error {
	go a.sweepService.Run(ctx)

	<-ctx.Done()

	a.logger.Info("shutting down expiry-sweep service")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}

	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}

	return nil
}
