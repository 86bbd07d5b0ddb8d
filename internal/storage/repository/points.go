package repository

import (
	"context"
	"fmt"

	"github.com/zendaapp/zenda-access/internal/models"
)

const pointsColumns = `id, user_uid, transaction_type, points, balance_after,
			      description, course_id, created_at`

func scanPointsTransaction(row interface{ Scan(...any) error }) (*models.PointsTransaction, error) {
	var tx models.PointsTransaction
	if err := row.Scan(&tx.ID, &tx.UserUID, &tx.TransactionType, &tx.Points,
		&tx.BalanceAfter, &tx.Description, &tx.CourseID, &tx.CreatedAt); err != nil {
		return nil, err
	}
	return &tx, nil
}

// SumPoints возвращает баланс пользователя как сумму всех его записей
// журнала. Сумма — единственный источник истины о балансе; снимки
// balance_after в строках служат только для отображения.
func (s *Storage) SumPoints(ctx context.Context, q Querier, userUID string) (float64, error) {
	const op = "storage.SumPoints"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var balance float64
	query := `SELECT COALESCE(SUM(points), 0)
			  FROM user_points_transactions
			  WHERE user_uid = $1`
	if err := q.QueryRowContext(ctx, query, userUID).Scan(&balance); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return balance, nil
}

// InsertPointsTransaction дописывает подписанную запись в журнал баллов,
// вычисляя balance_after по текущей сумме. Вызывающий обязан предварительно
// захватить строку пользователя через LockUser в той же транзакции, иначе
// конкурентные вставки получат одинаковый снимок.
func (s *Storage) InsertPointsTransaction(ctx context.Context, q Querier, userUID string,
	txType models.TransactionType, amount float64, description string, courseID *int) (*models.PointsTransaction, error) {
	const op = "storage.InsertPointsTransaction"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	balance, err := s.SumPoints(ctx, q, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `INSERT INTO user_points_transactions
			      (user_uid, transaction_type, points, balance_after, description, course_id)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING ` + pointsColumns
	tx, err := scanPointsTransaction(q.QueryRowContext(ctx, query,
		userUID, txType, amount, balance+amount, description, courseID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return tx, nil
}

// PointsBalance возвращает баланс пользователя вне транзакции.
func (s *Storage) PointsBalance(ctx context.Context, userUID string) (float64, error) {
	return s.SumPoints(ctx, s.DB, userUID)
}

// ListPointsTransactions возвращает журнал баллов с фильтрами по
// пользователю и типу транзакции (пустые значения — без фильтра).
func (s *Storage) ListPointsTransactions(ctx context.Context, filter models.PointsFilter) ([]*models.PointsTransaction, error) {
	const op = "storage.ListPointsTransactions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + pointsColumns + `
			  FROM user_points_transactions
			  WHERE ($1 = '' OR user_uid::text = $1)
			    AND ($2 = '' OR transaction_type = $2)
			  ORDER BY created_at DESC, id DESC`
	rows, err := s.DB.QueryContext(ctx, query, filter.UserUID, string(filter.TransactionType))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.PointsTransaction
	for rows.Next() {
		tx, err := scanPointsTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
