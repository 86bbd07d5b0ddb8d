package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/zendaapp/zenda-access/internal/models"
)

const proofColumns = `id, target, target_id, user_uid, file_path, notes, status,
			      reviewed_by, reviewed_at, created_at`

func scanProof(row interface{ Scan(...any) error }) (*models.PaymentProof, error) {
	var proof models.PaymentProof
	var reviewedBy sql.NullString
	var reviewedAt sql.NullTime
	if err := row.Scan(&proof.ID, &proof.Target, &proof.TargetID, &proof.UserUID,
		&proof.FilePath, &proof.Notes, &proof.Status, &reviewedBy, &reviewedAt,
		&proof.CreatedAt); err != nil {
		return nil, err
	}
	if reviewedBy.Valid {
		proof.ReviewedBy = &reviewedBy.String
	}
	if reviewedAt.Valid {
		proof.ReviewedAt = &reviewedAt.Time
	}
	return &proof, nil
}

// CreateProof вставляет новое платёжное подтверждение в статусе pending.
func (s *Storage) CreateProof(ctx context.Context, proof models.PaymentProof) (*models.PaymentProof, error) {
	const op = "storage.CreateProof"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO payment_proofs (target, target_id, user_uid, file_path, notes, status)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING ` + proofColumns
	created, err := scanProof(s.DB.QueryRowContext(ctx, query,
		proof.Target, proof.TargetID, proof.UserUID, proof.FilePath, proof.Notes,
		models.ProofPending))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}

// GetProof возвращает подтверждение по ID.
func (s *Storage) GetProof(ctx context.Context, id int) (*models.PaymentProof, error) {
	const op = "storage.GetProof"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + proofColumns + ` FROM payment_proofs WHERE id = $1`
	proof, err := scanProof(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return proof, nil
}

// ListProofs возвращает подтверждения с фильтрами по цели и статусу
// (пустые значения — без фильтра).
func (s *Storage) ListProofs(ctx context.Context, filter models.ProofFilter) ([]*models.PaymentProof, error) {
	const op = "storage.ListProofs"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + proofColumns + `
			  FROM payment_proofs
			  WHERE ($1 = '' OR target = $1)
			    AND ($2 = '' OR status = $2)
			  ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, string(filter.Target), string(filter.Status))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.PaymentProof
	for rows.Next() {
		proof, err := scanProof(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, proof)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ResolveProof переводит подтверждение из pending в newStatus, заполняя
// рецензента и время разбора. Условие status = 'pending' в WHERE — страж
// от двойных кликов и повторов: из N конкурентных вызовов ровно один
// получает строку, остальным возвращается models.ErrAlreadyProcessed.
// Вызывается внутри транзакции q вместе с активацией цели.
func (s *Storage) ResolveProof(ctx context.Context, q Querier, id int, newStatus models.ProofStatus, reviewerUID string) (*models.PaymentProof, error) {
	const op = "storage.ResolveProof"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE payment_proofs
			  SET status = $2, reviewed_by = $3, reviewed_at = NOW()
			  WHERE id = $1 AND status = $4
			  RETURNING ` + proofColumns
	proof, err := scanProof(q.QueryRowContext(ctx, query, id, newStatus, reviewerUID, models.ProofPending))
	if err == nil {
		return proof, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// Ни одной строки: либо подтверждение уже разобрано, либо его нет.
	var exists bool
	if err := q.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM payment_proofs WHERE id = $1)`, id).Scan(&exists); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if exists {
		return nil, fmt.Errorf("%s: %w", op, models.ErrAlreadyProcessed)
	}
	return nil, fmt.Errorf("%s: %w", op, models.ErrNotFound)
}
