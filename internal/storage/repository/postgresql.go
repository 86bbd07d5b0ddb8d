// Package repository реализует хранилище данных на основе PostgreSQL
// для движка доступа: подписки мобильного приложения, платёжные
// подтверждения, журнал баллов, записи на курсы и заявки на менторство.
package repository

import (
	"context"
	"database/sql"
	"fmt"

	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Querier объединяет *sql.DB и *sql.Tx: методы репозитория, которые должны
// уметь работать внутри чужой транзакции, принимают его первым аргументом.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Storage инкапсулирует соединение с базой данных PostgreSQL
// и реализует методы работы с данными движка доступа.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// CheckDatabaseReady проверяет готовность базы данных.
func CheckDatabaseReady(storage *Storage) error {
	var exists bool
	err := storage.DB.QueryRow(`SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'mobile_app_subscriptions'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table mobile_app_subscriptions missing or query error: %w", err)
	}
	return nil
}

// Tx выполняет fn внутри транзакции. При ошибке транзакция откатывается;
// все переходы движка, которые должны быть атомарными, проходят через него.
func (s *Storage) Tx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	const op = "storage.Tx"
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%s: rollback after %v: %w", op, err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
