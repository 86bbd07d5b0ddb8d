// Package subscription содержит бизнес-логику жизненного цикла подписки
// мобильного приложения: пробный период, активацию по одобренному
// платёжному подтверждению, административные переходы и обмен баллов
// на продление. Горячие чтения идут через кеш; каждый переход
// инвалидирует ключ пользователя.
package subscription

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/zendaapp/zenda-access/internal/config"
	"github.com/zendaapp/zenda-access/internal/lib/sl"
	"github.com/zendaapp/zenda-access/internal/models"
	"github.com/zendaapp/zenda-access/internal/storage/repository"
)

// Длительность пробного периода и оплачиваемого продления.
const (
	TrialPeriod     = 7 * 24 * time.Hour
	ExtensionPeriod = 30 * 24 * time.Hour
)

// Repository определяет методы хранилища, используемые жизненным циклом подписки.
type Repository interface {
	Tx(ctx context.Context, fn func(tx *sql.Tx) error) error
	CreateTrialSubscription(ctx context.Context, userUID string, trialEndsAt time.Time) (*models.Subscription, error)
	GetSubscriptionByUser(ctx context.Context, userUID string) (*models.Subscription, error)
	GetSubscriptionByUserForUpdate(ctx context.Context, q repository.Querier, userUID string) (*models.Subscription, error)
	GetSubscription(ctx context.Context, id int) (*models.Subscription, error)
	ListSubscriptions(ctx context.Context, status models.SubscriptionStatus) ([]*models.Subscription, error)
	ActivateSubscription(ctx context.Context, q repository.Querier, id int) (*models.Subscription, error)
	DeactivateSubscription(ctx context.Context, id int) (*models.Subscription, error)
	LockUser(ctx context.Context, q repository.Querier, userUID string) error
	SumPoints(ctx context.Context, q repository.Querier, userUID string) (float64, error)
	InsertPointsTransaction(ctx context.Context, q repository.Querier, userUID string,
		txType models.TransactionType, amount float64, description string, courseID *int) (*models.PointsTransaction, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Service реализует жизненный цикл подписки мобильного приложения.
type Service struct {
	repo    Repository
	cache   Cache
	payment config.Payment
	log     *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, cache Cache, payment config.Payment, log *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		cache:   cache,
		payment: payment,
		log:     log,
	}
}

// CacheKey возвращает ключ кеша для подписки пользователя.
func CacheKey(userUID string) string {
	return fmt.Sprintf("subscription:user:%s", userUID)
}

func (s *Service) invalidate(userUID string) {
	if err := s.cache.Invalidate(CacheKey(userUID)); err != nil {
		s.log.Warn("failed to invalidate subscription cache",
			slog.String("user_uid", userUID), sl.Err(err))
	}
}

// StartTrial создаёт подписку в статусе trial на 7 дней. Существование
// строки в любом статусе означает, что пробный период уже использован —
// возвращается models.ErrTrialAlreadyUsed, даты первой попытки не меняются.
func (s *Service) StartTrial(ctx context.Context, userUID string) (*models.Subscription, error) {
	trialEndsAt := time.Now().UTC().Add(TrialPeriod)
	sub, err := s.repo.CreateTrialSubscription(ctx, userUID, trialEndsAt)
	if err != nil {
		return nil, err
	}
	s.log.Info("trial started",
		slog.String("user_uid", userUID),
		slog.Time("trial_ends_at", *sub.TrialEndsAt))
	s.invalidate(userUID)
	return sub, nil
}

// GetMine возвращает подписку пользователя, используя кеш или репозиторий.
// Кешируется строка как есть; has_access и days_until_expiry вычисляются
// вызывающим на текущий момент, поэтому кеш не может «продлить» доступ.
func (s *Service) GetMine(ctx context.Context, userUID string) (*models.Subscription, error) {
	var result *models.Subscription
	cacheKey := CacheKey(userUID)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		s.log.Warn("failed to read subscription cache", slog.String("key", cacheKey), sl.Err(err))
	}
	if found && result != nil {
		return result, nil
	}

	result, err = s.repo.GetSubscriptionByUser(ctx, userUID)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(cacheKey, result, time.Hour); err != nil {
		s.log.Warn("failed to cache subscription", slog.String("key", cacheKey), sl.Err(err))
	}
	return result, nil
}

// Get возвращает подписку по ID (админка).
func (s *Service) Get(ctx context.Context, id int) (*models.Subscription, error) {
	return s.repo.GetSubscription(ctx, id)
}

// List возвращает подписки с опциональным фильтром по статусу (админка).
func (s *Service) List(ctx context.Context, status models.SubscriptionStatus) ([]*models.Subscription, error) {
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("unknown subscription status: %s", status)
	}
	return s.repo.ListSubscriptions(ctx, status)
}

// Deactivate безусловно переводит подписку в cancelled из любого статуса.
// Доступ закрывается немедленно, независимо от неистёкших дат.
func (s *Service) Deactivate(ctx context.Context, id int) (*models.Subscription, error) {
	sub, err := s.repo.DeactivateSubscription(ctx, id)
	if err != nil {
		return nil, err
	}
	s.log.Info("subscription deactivated",
		slog.Int("id", sub.ID), slog.String("user_uid", sub.UserUID))
	s.invalidate(sub.UserUID)
	return sub, nil
}

// Extend30Days — административное продление в обход платёжного
// подтверждения: active и +30 дней от позднего из (сейчас, текущий конец)
// из любого статуса, включая expired и cancelled.
func (s *Service) Extend30Days(ctx context.Context, id int) (*models.Subscription, error) {
	var sub *models.Subscription
	err := s.repo.Tx(ctx, func(tx *sql.Tx) error {
		var err error
		sub, err = s.repo.ActivateSubscription(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("subscription extended by admin",
		slog.Int("id", sub.ID), slog.String("user_uid", sub.UserUID),
		slog.Time("subscription_ends_at", *sub.SubscriptionEndsAt))
	s.invalidate(sub.UserUID)
	return sub, nil
}

// ActivateForProof активирует подписку внутри транзакции одобрения
// платёжного подтверждения. Передаётся в PaymentProofWorkflow как
// колбэк цели subscription.
func (s *Service) ActivateForProof(ctx context.Context, q repository.Querier, id int) error {
	sub, err := s.repo.ActivateSubscription(ctx, q, id)
	if err != nil {
		return err
	}
	s.invalidate(sub.UserUID)
	return nil
}

// Redeem обменивает баллы на 30-дневное продление подписки. Проверка
// баланса, списание и продление выполняются в одной транзакции со
// взятой блокировкой строки пользователя: из двух конкурентных обменов
// против баланса на один порог пройдёт ровно один. Недостаточный баланс —
// models.ErrInsufficientPoints без каких-либо изменений.
func (s *Service) Redeem(ctx context.Context, userUID string) (*models.Subscription, error) {
	threshold := s.payment.RedemptionThreshold
	var sub *models.Subscription
	err := s.repo.Tx(ctx, func(tx *sql.Tx) error {
		if err := s.repo.LockUser(ctx, tx, userUID); err != nil {
			return err
		}
		current, err := s.repo.GetSubscriptionByUserForUpdate(ctx, tx, userUID)
		if err != nil {
			return err
		}
		balance, err := s.repo.SumPoints(ctx, tx, userUID)
		if err != nil {
			return err
		}
		if balance < threshold {
			return models.ErrInsufficientPoints
		}
		if _, err := s.repo.InsertPointsTransaction(ctx, tx, userUID,
			models.TransactionSpent, -threshold,
			"Resgate de subscrição mensal do app", nil); err != nil {
			return err
		}
		sub, err = s.repo.ActivateSubscription(ctx, tx, current.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("subscription redeemed with points",
		slog.String("user_uid", userUID),
		slog.Float64("points_spent", threshold),
		slog.Time("subscription_ends_at", *sub.SubscriptionEndsAt))
	s.invalidate(userUID)
	return sub, nil
}

// PaymentInfo возвращает статические платёжные реквизиты из конфигурации.
func (s *Service) PaymentInfo() models.PaymentInfo {
	return models.PaymentInfo{
		MonthlyPriceKz: s.payment.MonthlyPriceKz,
		Currency:       s.payment.Currency,
		IBAN:           s.payment.IBAN,
		PayeeName:      s.payment.PayeeName,
	}
}
