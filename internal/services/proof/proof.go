// Package proof реализует общий workflow платёжных подтверждений:
// отправка файла пользователем, модерация администратором и активация
// цели при одобрении. Тип цели (курс, менторство, подписка) — параметр
// записи; активация делегируется зарегистрированному колбэку и
// выполняется в одной транзакции с переходом статуса.
package proof

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/zendaapp/zenda-access/internal/models"
	"github.com/zendaapp/zenda-access/internal/storage/repository"
)

// Repository определяет методы хранилища для платёжных подтверждений.
type Repository interface {
	Tx(ctx context.Context, fn func(tx *sql.Tx) error) error
	CreateProof(ctx context.Context, proof models.PaymentProof) (*models.PaymentProof, error)
	GetProof(ctx context.Context, id int) (*models.PaymentProof, error)
	ListProofs(ctx context.Context, filter models.ProofFilter) ([]*models.PaymentProof, error)
	ResolveProof(ctx context.Context, q repository.Querier, id int,
		newStatus models.ProofStatus, reviewerUID string) (*models.PaymentProof, error)
}

// ActivatorFunc активирует цель одобренного подтверждения внутри
// транзакции модерации.
type ActivatorFunc func(ctx context.Context, q repository.Querier, targetID int) error

// OwnerFunc возвращает UID владельца цели подтверждения.
type OwnerFunc func(ctx context.Context, targetID int) (string, error)

// Service реализует workflow платёжных подтверждений.
type Service struct {
	repo       Repository
	activators map[models.ProofTarget]ActivatorFunc
	owners     map[models.ProofTarget]OwnerFunc
	uploadDir  string
	log        *slog.Logger
}

// New создает новый экземпляр Service. Колбэки активации и проверки
// владельца регистрируются по типу цели; цель без колбэка активации
// одобрить нельзя, цель с зарегистрированным владельцем может
// подтверждать только сам владелец.
func New(repo Repository, activators map[models.ProofTarget]ActivatorFunc,
	owners map[models.ProofTarget]OwnerFunc,
	uploadDir string, log *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		activators: activators,
		owners:     owners,
		uploadDir:  uploadDir,
		log:        log,
	}
}

// Submit сохраняет файл подтверждения на диск и создаёт запись в статусе
// pending. Повторная отправка для той же цели допустима — модератор
// видит обе записи.
func (s *Service) Submit(ctx context.Context, target models.ProofTarget, targetID int,
	userUID string, file io.Reader, filename, notes string) (*models.PaymentProof, error) {
	const op = "services.proof.Submit"

	if !target.Valid() {
		return nil, fmt.Errorf("%s: unknown proof target: %s", op, target)
	}

	if owner, ok := s.owners[target]; ok {
		ownerUID, err := owner(ctx, targetID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if ownerUID != userUID {
			return nil, fmt.Errorf("%s: %w", op, models.ErrPermissionDenied)
		}
	}

	filePath, err := s.saveFile(file, filename)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	proof, err := s.repo.CreateProof(ctx, models.PaymentProof{
		Target:   target,
		TargetID: targetID,
		UserUID:  userUID,
		FilePath: filePath,
		Notes:    notes,
		Status:   models.ProofPending,
	})
	if err != nil {
		if rmErr := os.Remove(filePath); rmErr != nil {
			s.log.Warn("failed to remove orphan proof file",
				slog.String("path", filePath))
		}
		return nil, err
	}

	s.log.Info("payment proof submitted",
		slog.Int("id", proof.ID),
		slog.String("target", string(target)),
		slog.Int("target_id", targetID),
		slog.String("user_uid", userUID))
	return proof, nil
}

func (s *Service) saveFile(file io.Reader, filename string) (string, error) {
	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	name := uuid.NewString() + filepath.Ext(filepath.Base(filename))
	path := filepath.Join(s.uploadDir, name)
	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create proof file: %w", err)
	}
	defer dst.Close()
	if _, err := io.Copy(dst, file); err != nil {
		return "", fmt.Errorf("write proof file: %w", err)
	}
	return path, nil
}

// Get возвращает подтверждение по ID.
func (s *Service) Get(ctx context.Context, id int) (*models.PaymentProof, error) {
	return s.repo.GetProof(ctx, id)
}

// List возвращает подтверждения с фильтрами по цели и статусу (админка).
func (s *Service) List(ctx context.Context, filter models.ProofFilter) ([]*models.PaymentProof, error) {
	if filter.Target != "" && !filter.Target.Valid() {
		return nil, fmt.Errorf("unknown proof target: %s", filter.Target)
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, fmt.Errorf("unknown proof status: %s", filter.Status)
	}
	return s.repo.ListProofs(ctx, filter)
}

// Approve переводит подтверждение из pending в approved и активирует его
// цель в той же транзакции. Подтверждение не в pending —
// models.ErrAlreadyProcessed; из двух конкурентных решений по одному
// подтверждению побеждает ровно одно.
func (s *Service) Approve(ctx context.Context, id int, reviewerUID string) (*models.PaymentProof, error) {
	var proof *models.PaymentProof
	err := s.repo.Tx(ctx, func(tx *sql.Tx) error {
		var err error
		proof, err = s.repo.ResolveProof(ctx, tx, id, models.ProofApproved, reviewerUID)
		if err != nil {
			return err
		}
		activate, ok := s.activators[proof.Target]
		if !ok {
			return fmt.Errorf("no activator registered for target: %s", proof.Target)
		}
		return activate(ctx, tx, proof.TargetID)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("payment proof approved",
		slog.Int("id", proof.ID),
		slog.String("target", string(proof.Target)),
		slog.Int("target_id", proof.TargetID),
		slog.String("reviewer_uid", reviewerUID))
	return proof, nil
}

// Reject переводит подтверждение из pending в rejected без побочных
// эффектов для цели.
func (s *Service) Reject(ctx context.Context, id int, reviewerUID string) (*models.PaymentProof, error) {
	var proof *models.PaymentProof
	err := s.repo.Tx(ctx, func(tx *sql.Tx) error {
		var err error
		proof, err = s.repo.ResolveProof(ctx, tx, id, models.ProofRejected, reviewerUID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("payment proof rejected",
		slog.Int("id", proof.ID),
		slog.String("target", string(proof.Target)),
		slog.Int("target_id", proof.TargetID),
		slog.String("reviewer_uid", reviewerUID))
	return proof, nil
}
