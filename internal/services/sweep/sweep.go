// Package sweep реализует фоновую уборку подписок: перевод просроченных
// строк в expired и публикацию напоминаний о скором окончании. Цикл
// идемпотентен — пропущенный запуск навёрстывается следующим без
// двойных эффектов.
package sweep

import (
	"context"
	"log/slog"
	"time"

	"github.com/zendaapp/zenda-access/internal/config"
	"github.com/zendaapp/zenda-access/internal/lib/sl"
	"github.com/zendaapp/zenda-access/internal/models"
)

// Repository определяет методы хранилища для уборки подписок.
type Repository interface {
	ExpireLapsedSubscriptions(ctx context.Context, now time.Time) (int64, error)
	FindSubscriptionsExpiringSoon(ctx context.Context, now time.Time, within time.Duration) ([]*models.ExpiringSubscriptionInfo, error)
	MarkExpiryReminderSent(ctx context.Context, id int, sentAt time.Time) error
}

// Publisher публикует событие о скором окончании подписки.
type Publisher interface {
	PublishExpiring(message any) error
}

// Service реализует периодическую уборку подписок.
type Service struct {
	repo      Repository
	publisher Publisher
	cfg       config.Sweep
	log       *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, publisher Publisher, cfg config.Sweep, log *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		cfg:       cfg,
		log:       log,
	}
}

// Run запускает цикл уборки с интервалом из конфигурации до отмены
// контекста. Первый проход выполняется сразу при старте.
func (s *Service) Run(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.SweepInterval)
	defer ticker.Stop()

	s.RunOnce(ctx)
	for {
		select {
		case <-ticker.C:
			s.RunOnce(ctx)
		case <-ctx.Done():
			s.log.Info("sweep stopped")
			return
		}
	}
}

// RunOnce выполняет один проход уборки: сначала просрочка, затем
// напоминания. Ошибки логируются, но не прерывают проход — частичный
// результат лучше пропущенного.
func (s *Service) RunOnce(ctx context.Context) {
	now := time.Now().UTC()
	s.log.Info("starting subscription sweep")

	expired, err := s.repo.ExpireLapsedSubscriptions(ctx, now)
	if err != nil {
		s.log.Error("failed to expire lapsed subscriptions", sl.Err(err))
	} else if expired > 0 {
		s.log.Info("subscriptions expired", slog.Int64("count", expired))
	}

	s.sendReminders(ctx, now)
}

// sendReminders публикует напоминание для каждой подписки, окончание
// которой попадает в окно ReminderBefore. Отметка о напоминании
// ставится только после успешной публикации, поэтому сбой брокера
// означает повтор на следующем проходе, а не потерю письма.
func (s *Service) sendReminders(ctx context.Context, now time.Time) {
	expiring, err := s.repo.FindSubscriptionsExpiringSoon(ctx, now, s.cfg.ReminderBefore)
	if err != nil {
		s.log.Error("failed to find expiring subscriptions", sl.Err(err))
		return
	}
	for _, info := range expiring {
		if err := s.publisher.PublishExpiring(info); err != nil {
			s.log.Error("failed to publish expiring notification",
				slog.Int("subscription_id", info.SubscriptionID), sl.Err(err))
			continue
		}
		if err := s.repo.MarkExpiryReminderSent(ctx, info.SubscriptionID, now); err != nil {
			s.log.Error("failed to mark reminder as sent",
				slog.Int("subscription_id", info.SubscriptionID), sl.Err(err))
		}
	}
	if len(expiring) > 0 {
		s.log.Info("expiry reminders published", slog.Int("count", len(expiring)))
	}
}
