package proof

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/zendaapp/zenda-access/internal/models"
	"github.com/zendaapp/zenda-access/internal/storage/repository"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) Tx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	return fn(nil)
}

func (m *RepoMock) CreateProof(ctx context.Context, proof models.PaymentProof) (*models.PaymentProof, error) {
	args := m.Called(ctx, proof)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PaymentProof), args.Error(1)
}

func (m *RepoMock) GetProof(ctx context.Context, id int) (*models.PaymentProof, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PaymentProof), args.Error(1)
}

func (m *RepoMock) ListProofs(ctx context.Context, filter models.ProofFilter) ([]*models.PaymentProof, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*models.PaymentProof), args.Error(1)
}

func (m *RepoMock) ResolveProof(ctx context.Context, q repository.Querier, id int,
	newStatus models.ProofStatus, reviewerUID string) (*models.PaymentProof, error) {
	args := m.Called(ctx, q, id, newStatus, reviewerUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PaymentProof), args.Error(1)
}

func NewNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

const (
	userUID     = "550e8400-e29b-41d4-a716-446655440000"
	reviewerUID = "660e8400-e29b-41d4-a716-446655440001"
)

func TestService_Submit(t *testing.T) {
	t.Run("файл сохраняется на диск, запись создаётся в статусе pending", func(t *testing.T) {
		repo := new(RepoMock)
		dir := t.TempDir()
		svc := New(repo, nil, nil, dir, NewNoopLogger())

		repo.On("CreateProof", mock.Anything, mock.MatchedBy(func(p models.PaymentProof) bool {
			return p.Target == models.TargetSubscription &&
				p.TargetID == 7 &&
				p.UserUID == userUID &&
				p.Status == models.ProofPending &&
				strings.HasSuffix(p.FilePath, ".png")
		})).Return(&models.PaymentProof{ID: 1, Status: models.ProofPending}, nil).Once()

		got, err := svc.Submit(context.Background(), models.TargetSubscription, 7,
			userUID, strings.NewReader("comprovativo"), "transfer.png", "pago via BAI")

		require.NoError(t, err)
		assert.Equal(t, models.ProofPending, got.Status)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		data, err := os.ReadFile(dir + "/" + entries[0].Name())
		require.NoError(t, err)
		assert.Equal(t, "comprovativo", string(data))
		repo.AssertExpectations(t)
	})

	t.Run("ошибка базы удаляет осиротевший файл", func(t *testing.T) {
		repo := new(RepoMock)
		dir := t.TempDir()
		svc := New(repo, nil, nil, dir, NewNoopLogger())

		repo.On("CreateProof", mock.Anything, mock.Anything).
			Return(nil, models.ErrNotFound).Once()

		_, err := svc.Submit(context.Background(), models.TargetCourse, 3,
			userUID, strings.NewReader("x"), "recibo.pdf", "")

		require.Error(t, err)
		entries, readErr := os.ReadDir(dir)
		require.NoError(t, readErr)
		assert.Empty(t, entries)
	})

	t.Run("чужая подписка отклоняется без побочных эффектов", func(t *testing.T) {
		repo := new(RepoMock)
		dir := t.TempDir()
		owners := map[models.ProofTarget]OwnerFunc{
			models.TargetSubscription: func(ctx context.Context, targetID int) (string, error) {
				return "owner-uid", nil
			},
		}
		svc := New(repo, nil, owners, dir, NewNoopLogger())

		_, err := svc.Submit(context.Background(), models.TargetSubscription, 777,
			"attacker-uid", strings.NewReader("x"), "transfer.png", "")

		require.ErrorIs(t, err, models.ErrPermissionDenied)
		entries, readErr := os.ReadDir(dir)
		require.NoError(t, readErr)
		assert.Empty(t, entries)
		repo.AssertNotCalled(t, "CreateProof", mock.Anything, mock.Anything)
	})

	t.Run("владелец подписки проходит проверку", func(t *testing.T) {
		repo := new(RepoMock)
		dir := t.TempDir()
		owners := map[models.ProofTarget]OwnerFunc{
			models.TargetSubscription: func(ctx context.Context, targetID int) (string, error) {
				return userUID, nil
			},
		}
		svc := New(repo, nil, owners, dir, NewNoopLogger())

		repo.On("CreateProof", mock.Anything, mock.Anything).
			Return(&models.PaymentProof{ID: 1, Status: models.ProofPending}, nil).Once()

		_, err := svc.Submit(context.Background(), models.TargetSubscription, 7,
			userUID, strings.NewReader("comprovativo"), "transfer.png", "")

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("несуществующая цель — ErrNotFound", func(t *testing.T) {
		repo := new(RepoMock)
		dir := t.TempDir()
		owners := map[models.ProofTarget]OwnerFunc{
			models.TargetSubscription: func(ctx context.Context, targetID int) (string, error) {
				return "", models.ErrNotFound
			},
		}
		svc := New(repo, nil, owners, dir, NewNoopLogger())

		_, err := svc.Submit(context.Background(), models.TargetSubscription, 999,
			userUID, strings.NewReader("x"), "transfer.png", "")

		require.ErrorIs(t, err, models.ErrNotFound)
		entries, readErr := os.ReadDir(dir)
		require.NoError(t, readErr)
		assert.Empty(t, entries)
	})

	t.Run("неизвестная цель отклоняется до записи файла", func(t *testing.T) {
		repo := new(RepoMock)
		dir := t.TempDir()
		svc := New(repo, nil, nil, dir, NewNoopLogger())

		_, err := svc.Submit(context.Background(), models.ProofTarget("bogus"), 1,
			userUID, strings.NewReader("x"), "a.png", "")

		require.Error(t, err)
		entries, readErr := os.ReadDir(dir)
		require.NoError(t, readErr)
		assert.Empty(t, entries)
		repo.AssertNotCalled(t, "CreateProof", mock.Anything, mock.Anything)
	})
}

func TestService_Approve(t *testing.T) {
	t.Run("одобрение вызывает активатор цели в транзакции", func(t *testing.T) {
		repo := new(RepoMock)
		activated := 0
		activators := map[models.ProofTarget]ActivatorFunc{
			models.TargetSubscription: func(ctx context.Context, q repository.Querier, targetID int) error {
				activated = targetID
				return nil
			},
		}
		svc := New(repo, activators, nil, t.TempDir(), NewNoopLogger())

		repo.On("ResolveProof", mock.Anything, mock.Anything, 5, models.ProofApproved, reviewerUID).
			Return(&models.PaymentProof{
				ID:       5,
				Target:   models.TargetSubscription,
				TargetID: 12,
				Status:   models.ProofApproved,
			}, nil).Once()

		got, err := svc.Approve(context.Background(), 5, reviewerUID)

		require.NoError(t, err)
		assert.Equal(t, models.ProofApproved, got.Status)
		assert.Equal(t, 12, activated)
		repo.AssertExpectations(t)
	})

	t.Run("уже обработанное подтверждение — ErrAlreadyProcessed, активатор не вызывается", func(t *testing.T) {
		repo := new(RepoMock)
		called := false
		activators := map[models.ProofTarget]ActivatorFunc{
			models.TargetSubscription: func(ctx context.Context, q repository.Querier, targetID int) error {
				called = true
				return nil
			},
		}
		svc := New(repo, activators, nil, t.TempDir(), NewNoopLogger())

		repo.On("ResolveProof", mock.Anything, mock.Anything, 5, models.ProofApproved, reviewerUID).
			Return(nil, models.ErrAlreadyProcessed).Once()

		_, err := svc.Approve(context.Background(), 5, reviewerUID)

		require.ErrorIs(t, err, models.ErrAlreadyProcessed)
		assert.False(t, called)
	})

	t.Run("цель без зарегистрированного активатора не одобряется", func(t *testing.T) {
		repo := new(RepoMock)
		svc := New(repo, map[models.ProofTarget]ActivatorFunc{}, nil, t.TempDir(), NewNoopLogger())

		repo.On("ResolveProof", mock.Anything, mock.Anything, 5, models.ProofApproved, reviewerUID).
			Return(&models.PaymentProof{
				ID:     5,
				Target: models.TargetMentorship,
			}, nil).Once()

		_, err := svc.Approve(context.Background(), 5, reviewerUID)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "no activator registered")
	})
}

func TestService_Reject(t *testing.T) {
	t.Run("отклонение не трогает активатор", func(t *testing.T) {
		repo := new(RepoMock)
		called := false
		activators := map[models.ProofTarget]ActivatorFunc{
			models.TargetSubscription: func(ctx context.Context, q repository.Querier, targetID int) error {
				called = true
				return nil
			},
		}
		svc := New(repo, activators, nil, t.TempDir(), NewNoopLogger())

		repo.On("ResolveProof", mock.Anything, mock.Anything, 9, models.ProofRejected, reviewerUID).
			Return(&models.PaymentProof{
				ID:     9,
				Target: models.TargetSubscription,
				Status: models.ProofRejected,
			}, nil).Once()

		got, err := svc.Reject(context.Background(), 9, reviewerUID)

		require.NoError(t, err)
		assert.Equal(t, models.ProofRejected, got.Status)
		assert.False(t, called)
		repo.AssertExpectations(t)
	})
}

func TestService_List(t *testing.T) {
	t.Run("неизвестный статус отклоняется", func(t *testing.T) {
		repo := new(RepoMock)
		svc := New(repo, nil, nil, t.TempDir(), NewNoopLogger())

		_, err := svc.List(context.Background(), models.ProofFilter{Status: "bogus"})
		require.Error(t, err)
		repo.AssertNotCalled(t, "ListProofs", mock.Anything, mock.Anything)
	})

	t.Run("фильтр по цели и статусу передается в репозиторий", func(t *testing.T) {
		repo := new(RepoMock)
		svc := New(repo, nil, nil, t.TempDir(), NewNoopLogger())

		filter := models.ProofFilter{Target: models.TargetCourse, Status: models.ProofPending}
		repo.On("ListProofs", mock.Anything, filter).
			Return([]*models.PaymentProof{{ID: 1}}, nil).Once()

		got, err := svc.List(context.Background(), filter)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})
}
