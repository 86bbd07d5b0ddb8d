// Package entitlement отвечает на единственный вопрос мобильного
// приложения: есть ли у пользователя доступ прямо сейчас. Доступ
// агрегируется по трём независимым источникам; ответ вычисляется
// на момент запроса и не кешируется.
package entitlement

import (
	"context"
	"errors"
	"time"

	"github.com/zendaapp/zenda-access/internal/models"
)

// Repository определяет проверки источников доступа.
type Repository interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	HasActiveEnrollment(ctx context.Context, userUID string) (bool, error)
	HasMentorshipEntitlement(ctx context.Context, userUID string) (bool, error)
	GetSubscriptionByUser(ctx context.Context, userUID string) (*models.Subscription, error)
}

// Service реализует агрегирующий резолвер доступа.
type Service struct {
	repo Repository
}

// New создает новый экземпляр Service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Resolve возвращает сводный ответ о доступе и список сработавших
// источников. Неизвестный пользователь — models.ErrNotFound, а не
// пустой отказ. Источники проверяются все: список нужен клиенту
// целиком, а не до первого совпадения.
func (s *Service) Resolve(ctx context.Context, userUID string) (*models.Entitlement, error) {
	if _, err := s.repo.GetUser(ctx, userUID); err != nil {
		return nil, err
	}

	result := &models.Entitlement{Sources: []models.EntitlementSource{}}

	enrolled, err := s.repo.HasActiveEnrollment(ctx, userUID)
	if err != nil {
		return nil, err
	}
	if enrolled {
		result.Sources = append(result.Sources, models.SourceEnrollment)
	}

	mentored, err := s.repo.HasMentorshipEntitlement(ctx, userUID)
	if err != nil {
		return nil, err
	}
	if mentored {
		result.Sources = append(result.Sources, models.SourceMentorship)
	}

	sub, err := s.repo.GetSubscriptionByUser(ctx, userUID)
	switch {
	case err == nil:
		if sub.HasAccess(time.Now().UTC()) {
			result.Sources = append(result.Sources, models.SourceSubscription)
		}
	case errors.Is(err, models.ErrNotFound):
		// отсутствие подписки не мешает другим источникам
	default:
		return nil, err
	}

	result.HasAccess = len(result.Sources) > 0
	return result, nil
}
