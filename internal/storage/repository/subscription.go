package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/zendaapp/zenda-access/internal/models"
)

const subscriptionColumns = `id, user_uid, status, trial_ends_at, subscription_ends_at,
			      expiry_reminder_sent_at, created_at, updated_at`

func scanSubscription(row interface{ Scan(...any) error }) (*models.Subscription, error) {
	var sub models.Subscription
	var trialEndsAt, subscriptionEndsAt, reminderSentAt sql.NullTime
	if err := row.Scan(&sub.ID, &sub.UserUID, &sub.Status, &trialEndsAt,
		&subscriptionEndsAt, &reminderSentAt, &sub.CreatedAt, &sub.UpdatedAt); err != nil {
		return nil, err
	}
	if trialEndsAt.Valid {
		sub.TrialEndsAt = &trialEndsAt.Time
	}
	if subscriptionEndsAt.Valid {
		sub.SubscriptionEndsAt = &subscriptionEndsAt.Time
	}
	if reminderSentAt.Valid {
		sub.ExpiryReminderSentAt = &reminderSentAt.Time
	}
	return &sub, nil
}

// CreateTrialSubscription создаёт строку подписки со статусом trial.
// Уникальный индекс по user_uid — единственный страж одноразовости
// пробного периода: если строка уже есть (в любом статусе), вставка не
// происходит и возвращается models.ErrTrialAlreadyUsed. Две конкурентные
// попытки разрешаются базой в ровно один успех.
func (s *Storage) CreateTrialSubscription(ctx context.Context, userUID string, trialEndsAt time.Time) (*models.Subscription, error) {
	const op = "storage.CreateTrialSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO mobile_app_subscriptions (user_uid, status, trial_ends_at)
			  VALUES ($1, $2, $3)
			  ON CONFLICT (user_uid) DO NOTHING
			  RETURNING ` + subscriptionColumns
	sub, err := scanSubscription(s.DB.QueryRowContext(ctx, query, userUID, models.SubscriptionTrial, trialEndsAt))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrTrialAlreadyUsed)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sub, nil
}

// GetSubscriptionByUser возвращает подписку пользователя.
func (s *Storage) GetSubscriptionByUser(ctx context.Context, userUID string) (*models.Subscription, error) {
	const op = "storage.GetSubscriptionByUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + subscriptionColumns + `
			  FROM mobile_app_subscriptions
			  WHERE user_uid = $1`
	sub, err := scanSubscription(s.DB.QueryRowContext(ctx, query, userUID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sub, nil
}

// GetSubscriptionByUserForUpdate возвращает подписку пользователя,
// захватывая строку FOR UPDATE внутри транзакции q. Используется при
// обмене баллов, чтобы проверка и продление видели одно состояние.
func (s *Storage) GetSubscriptionByUserForUpdate(ctx context.Context, q Querier, userUID string) (*models.Subscription, error) {
	const op = "storage.GetSubscriptionByUserForUpdate"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + subscriptionColumns + `
			  FROM mobile_app_subscriptions
			  WHERE user_uid = $1
			  FOR UPDATE`
	sub, err := scanSubscription(q.QueryRowContext(ctx, query, userUID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sub, nil
}

// GetSubscription возвращает подписку по её ID.
func (s *Storage) GetSubscription(ctx context.Context, id int) (*models.Subscription, error) {
	const op = "storage.GetSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + subscriptionColumns + `
			  FROM mobile_app_subscriptions
			  WHERE id = $1`
	sub, err := scanSubscription(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sub, nil
}

// ListSubscriptions возвращает подписки, опционально отфильтрованные по
// статусу (пустая строка — все).
func (s *Storage) ListSubscriptions(ctx context.Context, status models.SubscriptionStatus) ([]*models.Subscription, error) {
	const op = "storage.ListSubscriptions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + subscriptionColumns + `
			  FROM mobile_app_subscriptions
			  WHERE ($1 = '' OR status = $1)
			  ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, string(status))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Subscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ActivateSubscription переводит подписку в active и продлевает её на 30
// дней от позднего из (сейчас, текущий конец периода) — ранний продлевающий
// не теряет оставшиеся дни. Работает одинаково из trial, expired и
// cancelled. Сбрасывает отметку об отправленном напоминании.
func (s *Storage) ActivateSubscription(ctx context.Context, q Querier, id int) (*models.Subscription, error) {
	const op = "storage.ActivateSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE mobile_app_subscriptions
			  SET status = $2,
			      subscription_ends_at = GREATEST(COALESCE(subscription_ends_at, NOW()), NOW()) + INTERVAL '30 days',
			      expiry_reminder_sent_at = NULL,
			      updated_at = NOW()
			  WHERE id = $1
			  RETURNING ` + subscriptionColumns
	sub, err := scanSubscription(q.QueryRowContext(ctx, query, id, models.SubscriptionActive))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sub, nil
}

// DeactivateSubscription безусловно переводит подписку в cancelled.
// Даты окончания не трогаются: доступ закрывает сам статус.
func (s *Storage) DeactivateSubscription(ctx context.Context, id int) (*models.Subscription, error) {
	const op = "storage.DeactivateSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE mobile_app_subscriptions
			  SET status = $2, updated_at = NOW()
			  WHERE id = $1
			  RETURNING ` + subscriptionColumns
	sub, err := scanSubscription(s.DB.QueryRowContext(ctx, query, id, models.SubscriptionCancelled))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sub, nil
}

// ExpireLapsedSubscriptions переводит в expired все trial/active подписки,
// чей период уже закончился. Условный UPDATE делает операцию идемпотентной
// и безопасной рядом с конкурентным продлением: строка, которую одобрение
// успело продлить, под условие не попадает.
func (s *Storage) ExpireLapsedSubscriptions(ctx context.Context, now time.Time) (int64, error) {
	const op = "storage.ExpireLapsedSubscriptions"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE mobile_app_subscriptions
			  SET status = $1, updated_at = NOW()
			  WHERE (status = $2 AND trial_ends_at IS NOT NULL AND trial_ends_at <= $4)
			     OR (status = $3 AND subscription_ends_at IS NOT NULL AND subscription_ends_at <= $4)`
	result, err := s.DB.ExecContext(ctx, query,
		models.SubscriptionExpired, models.SubscriptionTrial, models.SubscriptionActive, now)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return rowsAffected, nil
}

// FindSubscriptionsExpiringSoon находит trial/active подписки, чей период
// заканчивается в пределах within от now и по которым напоминание ещё не
// отправлялось.
func (s *Storage) FindSubscriptionsExpiringSoon(ctx context.Context, now time.Time, within time.Duration) ([]*models.ExpiringSubscriptionInfo, error) {
	const op = "storage.FindSubscriptionsExpiringSoon"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	deadline := now.Add(within)
	query := `SELECT
			      s.id,
			      u.email,
			      u.username,
			      CASE WHEN s.status = $1 THEN s.subscription_ends_at ELSE s.trial_ends_at END AS end_date
			  FROM mobile_app_subscriptions s
			  JOIN users u ON s.user_uid = u.uid
			  WHERE s.status IN ($1, $2)
			    AND s.expiry_reminder_sent_at IS NULL
			    AND CASE WHEN s.status = $1 THEN s.subscription_ends_at ELSE s.trial_ends_at END > $3
			    AND CASE WHEN s.status = $1 THEN s.subscription_ends_at ELSE s.trial_ends_at END <= $4`
	rows, err := s.DB.QueryContext(ctx, query,
		models.SubscriptionActive, models.SubscriptionTrial, now, deadline)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.ExpiringSubscriptionInfo
	for rows.Next() {
		var info models.ExpiringSubscriptionInfo
		if err := rows.Scan(&info.SubscriptionID, &info.Email, &info.Username, &info.EndDate); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// MarkExpiryReminderSent проставляет отметку об отправленном напоминании,
// только если она ещё пуста: повторный проход сверки письмо не дублирует.
func (s *Storage) MarkExpiryReminderSent(ctx context.Context, id int, sentAt time.Time) error {
	const op = "storage.MarkExpiryReminderSent"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE mobile_app_subscriptions
			  SET expiry_reminder_sent_at = $2, updated_at = NOW()
			  WHERE id = $1 AND expiry_reminder_sent_at IS NULL`
	if _, err := s.DB.ExecContext(ctx, query, id, sentAt); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
