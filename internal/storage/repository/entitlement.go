package repository

import (
	"context"
	"fmt"

	"github.com/zendaapp/zenda-access/internal/models"
)

// HasActiveEnrollment сообщает, есть ли у пользователя хотя бы одна
// активная запись на курс.
func (s *Storage) HasActiveEnrollment(ctx context.Context, userUID string) (bool, error) {
	const op = "storage.HasActiveEnrollment"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var exists bool
	query := `SELECT EXISTS (
			      SELECT 1 FROM enrollments
			      WHERE user_uid = $1 AND status = $2
			  )`
	if err := s.DB.QueryRowContext(ctx, query, userUID, models.EnrollmentActive).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// HasMentorshipEntitlement сообщает, есть ли у пользователя заявка на
// менторство в статусе, дающем доступ (approved, scheduled, completed).
func (s *Storage) HasMentorshipEntitlement(ctx context.Context, userUID string) (bool, error) {
	const op = "storage.HasMentorshipEntitlement"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var exists bool
	query := `SELECT EXISTS (
			      SELECT 1 FROM mentorship_requests
			      WHERE user_uid = $1 AND status IN ($2, $3, $4)
			  )`
	if err := s.DB.QueryRowContext(ctx, query, userUID,
		models.MentorshipApproved, models.MentorshipScheduled, models.MentorshipCompleted).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// ActivateEnrollment переводит запись на курс в active. Вызывается внутри
// транзакции одобрения платёжного подтверждения с целью course.
func (s *Storage) ActivateEnrollment(ctx context.Context, q Querier, id int) error {
	const op = "storage.ActivateEnrollment"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE enrollments
			  SET status = $2, activated_at = NOW()
			  WHERE id = $1`
	result, err := q.ExecContext(ctx, query, id, models.EnrollmentActive)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	return nil
}

// ApproveMentorshipRequest переводит заявку на менторство в approved.
// Вызывается внутри транзакции одобрения подтверждения с целью mentorship.
func (s *Storage) ApproveMentorshipRequest(ctx context.Context, q Querier, id int) error {
	const op = "storage.ApproveMentorshipRequest"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE mentorship_requests
			  SET status = $2
			  WHERE id = $1`
	result, err := q.ExecContext(ctx, query, id, models.MentorshipApproved)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	return nil
}
