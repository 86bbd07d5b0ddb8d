package sweep

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/zendaapp/zenda-access/internal/config"
	"github.com/zendaapp/zenda-access/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) ExpireLapsedSubscriptions(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *RepoMock) FindSubscriptionsExpiringSoon(ctx context.Context, now time.Time, within time.Duration) ([]*models.ExpiringSubscriptionInfo, error) {
	args := m.Called(ctx, now, within)
	return args.Get(0).([]*models.ExpiringSubscriptionInfo), args.Error(1)
}

func (m *RepoMock) MarkExpiryReminderSent(ctx context.Context, id int, sentAt time.Time) error {
	return m.Called(ctx, id, sentAt).Error(0)
}

type PublisherMock struct{ mock.Mock }

func (m *PublisherMock) PublishExpiring(message any) error {
	return m.Called(message).Error(0)
}

func NewNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func newTestService(repo *RepoMock, pub *PublisherMock) *Service {
	cfg := config.Sweep{SweepInterval: time.Hour, ReminderBefore: 72 * time.Hour}
	return New(repo, pub, cfg, NewNoopLogger())
}

func TestService_RunOnce(t *testing.T) {
	t.Run("просрочка и напоминания за один проход", func(t *testing.T) {
		repo := new(RepoMock)
		pub := new(PublisherMock)
		svc := newTestService(repo, pub)

		info := &models.ExpiringSubscriptionInfo{
			SubscriptionID: 3,
			Email:          "user@example.com",
			Username:       "joao",
			EndDate:        time.Now().UTC().Add(24 * time.Hour),
		}

		repo.On("ExpireLapsedSubscriptions", mock.Anything, mock.Anything).
			Return(int64(2), nil).Once()
		repo.On("FindSubscriptionsExpiringSoon", mock.Anything, mock.Anything, 72*time.Hour).
			Return([]*models.ExpiringSubscriptionInfo{info}, nil).Once()
		pub.On("PublishExpiring", info).Return(nil).Once()
		repo.On("MarkExpiryReminderSent", mock.Anything, 3, mock.Anything).
			Return(nil).Once()

		svc.RunOnce(context.Background())

		repo.AssertExpectations(t)
		pub.AssertExpectations(t)
	})

	t.Run("сбой публикации не ставит отметку о напоминании", func(t *testing.T) {
		repo := new(RepoMock)
		pub := new(PublisherMock)
		svc := newTestService(repo, pub)

		first := &models.ExpiringSubscriptionInfo{SubscriptionID: 1, Email: "a@example.com"}
		second := &models.ExpiringSubscriptionInfo{SubscriptionID: 2, Email: "b@example.com"}

		repo.On("ExpireLapsedSubscriptions", mock.Anything, mock.Anything).
			Return(int64(0), nil).Once()
		repo.On("FindSubscriptionsExpiringSoon", mock.Anything, mock.Anything, mock.Anything).
			Return([]*models.ExpiringSubscriptionInfo{first, second}, nil).Once()
		pub.On("PublishExpiring", first).Return(errors.New("broker down")).Once()
		pub.On("PublishExpiring", second).Return(nil).Once()
		repo.On("MarkExpiryReminderSent", mock.Anything, 2, mock.Anything).
			Return(nil).Once()

		svc.RunOnce(context.Background())

		repo.AssertExpectations(t)
		repo.AssertNotCalled(t, "MarkExpiryReminderSent", mock.Anything, 1, mock.Anything)
	})

	t.Run("ошибка просрочки не мешает напоминаниям", func(t *testing.T) {
		repo := new(RepoMock)
		pub := new(PublisherMock)
		svc := newTestService(repo, pub)

		repo.On("ExpireLapsedSubscriptions", mock.Anything, mock.Anything).
			Return(int64(0), errors.New("db timeout")).Once()
		repo.On("FindSubscriptionsExpiringSoon", mock.Anything, mock.Anything, mock.Anything).
			Return([]*models.ExpiringSubscriptionInfo{}, nil).Once()

		svc.RunOnce(context.Background())

		repo.AssertExpectations(t)
	})
}

func TestService_Run_StopsOnContextCancel(t *testing.T) {
	repo := new(RepoMock)
	pub := new(PublisherMock)
	svc := newTestService(repo, pub)

	repo.On("ExpireLapsedSubscriptions", mock.Anything, mock.Anything).
		Return(int64(0), nil)
	repo.On("FindSubscriptionsExpiringSoon", mock.Anything, mock.Anything, mock.Anything).
		Return([]*models.ExpiringSubscriptionInfo{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("sweep did not stop after context cancellation")
	}
}
