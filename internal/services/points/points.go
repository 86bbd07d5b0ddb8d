// Package points содержит бизнес-логику журнала баллов. Журнал только
// дописывается: четыре операции (earn, spend, expire, admin_adjustment)
// семантически одинаковы — подписанная запись — и различаются меткой
// типа и правилом знака. Увести баланс в минус разрешено только ручной
// корректировке администратора.
package points

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/zendaapp/zenda-access/internal/models"
	"github.com/zendaapp/zenda-access/internal/storage/repository"
)

// Repository определяет методы хранилища, используемые журналом баллов.
type Repository interface {
	Tx(ctx context.Context, fn func(tx *sql.Tx) error) error
	LockUser(ctx context.Context, q repository.Querier, userUID string) error
	SumPoints(ctx context.Context, q repository.Querier, userUID string) (float64, error)
	InsertPointsTransaction(ctx context.Context, q repository.Querier, userUID string,
		txType models.TransactionType, amount float64, description string, courseID *int) (*models.PointsTransaction, error)
	PointsBalance(ctx context.Context, userUID string) (float64, error)
	ListPointsTransactions(ctx context.Context, filter models.PointsFilter) ([]*models.PointsTransaction, error)
	GetUser(ctx context.Context, userUID string) (*models.User, error)
}

// Service реализует операции журнала баллов.
type Service struct {
	repo         Repository
	pointValueKz float64
	log          *slog.Logger
}

// New создает новый экземпляр Service. pointValueKz — курс балла в кванзах
// для отображения эквивалента баланса.
func New(repo Repository, pointValueKz float64, log *slog.Logger) *Service {
	return &Service{
		repo:         repo,
		pointValueKz: pointValueKz,
		log:          log,
	}
}

// append выполняет запись в журнал внутри транзакции с блокировкой строки
// пользователя. guarded запрещает уводить баланс в минус.
func (s *Service) append(ctx context.Context, userUID string, txType models.TransactionType,
	amount float64, description string, courseID *int, guarded bool) (*models.PointsTransaction, error) {
	var result *models.PointsTransaction
	err := s.repo.Tx(ctx, func(tx *sql.Tx) error {
		if err := s.repo.LockUser(ctx, tx, userUID); err != nil {
			return err
		}
		if guarded {
			balance, err := s.repo.SumPoints(ctx, tx, userUID)
			if err != nil {
				return err
			}
			if balance+amount < 0 {
				return models.ErrInsufficientPoints
			}
		}
		var err error
		result, err = s.repo.InsertPointsTransaction(ctx, tx, userUID, txType, amount, description, courseID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("points transaction recorded",
		slog.String("user_uid", userUID),
		slog.String("type", string(txType)),
		slog.Float64("points", amount),
		slog.Float64("balance_after", result.BalanceAfter))
	return result, nil
}

// Earn начисляет amount баллов (amount > 0).
func (s *Service) Earn(ctx context.Context, userUID string, amount float64, description string, courseID *int) (*models.PointsTransaction, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("earn amount must be positive")
	}
	return s.append(ctx, userUID, models.TransactionEarned, amount, description, courseID, false)
}

// Spend списывает amount баллов (amount > 0). Недостаточный баланс —
// models.ErrInsufficientPoints, запись не создаётся.
func (s *Service) Spend(ctx context.Context, userUID string, amount float64, description string) (*models.PointsTransaction, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("spend amount must be positive")
	}
	return s.append(ctx, userUID, models.TransactionSpent, -amount, description, nil, true)
}

// Expire сжигает amount баллов (amount > 0); в минус не уводит.
func (s *Service) Expire(ctx context.Context, userUID string, amount float64, description string) (*models.PointsTransaction, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("expire amount must be positive")
	}
	return s.append(ctx, userUID, models.TransactionExpired, -amount, description, nil, true)
}

// AdminAdjust записывает ручную корректировку с подписанной суммой.
// Единственная операция, которой разрешён отрицательный итоговый баланс:
// ею исправляют ошибки начисления встречной записью.
func (s *Service) AdminAdjust(ctx context.Context, userUID string, amount float64, description string) (*models.PointsTransaction, error) {
	if amount == 0 {
		return nil, fmt.Errorf("adjustment amount must not be zero")
	}
	return s.append(ctx, userUID, models.TransactionAdminAdjustment, amount, description, nil, false)
}

// Balance возвращает баланс пользователя и его эквивалент в кванзах.
func (s *Service) Balance(ctx context.Context, userUID string) (*models.PointsBalance, error) {
	user, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		return nil, err
	}
	balance, err := s.repo.PointsBalance(ctx, userUID)
	if err != nil {
		return nil, err
	}
	return &models.PointsBalance{
		UserUID:   user.UID,
		UserEmail: user.Email,
		Balance:   balance,
		BalanceKz: balance * s.pointValueKz,
	}, nil
}

// List возвращает журнал баллов по фильтру.
func (s *Service) List(ctx context.Context, filter models.PointsFilter) ([]*models.PointsTransaction, error) {
	if filter.TransactionType != "" && !filter.TransactionType.Valid() {
		return nil, fmt.Errorf("unknown transaction type: %s", filter.TransactionType)
	}
	return s.repo.ListPointsTransactions(ctx, filter)
}
