package repository

import (
	"context"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDataFactory содержит методы для создания тестовых данных
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory создает новую фабрику тестовых данных
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateUser создает тестового пользователя и возвращает его UID
func (f *TestDataFactory) CreateUser(t *testing.T, username, email, role string) string {
	uid := uuid.New().String()
	_, err := f.storage.DB.Exec(`INSERT INTO users (uid, username, email, password_hash, role)
		VALUES ($1, $2, $3, $4, $5)`,
		uid, username, email, "hashedpassword", role)
	require.NoError(t, err)
	return uid
}

// CreateSubscription создает тестовую подписку приложения
func (f *TestDataFactory) CreateSubscription(t *testing.T, userUID, status string,
	trialEndsAt, subscriptionEndsAt *time.Time) int {
	var id int
	err := f.storage.DB.QueryRow(`INSERT INTO mobile_app_subscriptions
		(user_uid, status, trial_ends_at, subscription_ends_at)
		VALUES ($1, $2, $3, $4) RETURNING id`,
		userUID, status, trialEndsAt, subscriptionEndsAt).Scan(&id)
	require.NoError(t, err)
	return id
}

// CreateProof создает тестовое платёжное подтверждение
func (f *TestDataFactory) CreateProof(t *testing.T, target string, targetID int, userUID, status string) int {
	var id int
	err := f.storage.DB.QueryRow(`INSERT INTO payment_proofs
		(target, target_id, user_uid, file_path, status)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		target, targetID, userUID, "/tmp/proof.jpg", status).Scan(&id)
	require.NoError(t, err)
	return id
}

// CreateEnrollment создает тестовую запись на курс
func (f *TestDataFactory) CreateEnrollment(t *testing.T, userUID string, courseID int, status string) int {
	var id int
	err := f.storage.DB.QueryRow(`INSERT INTO enrollments (user_uid, course_id, status)
		VALUES ($1, $2, $3) RETURNING id`,
		userUID, courseID, status).Scan(&id)
	require.NoError(t, err)
	return id
}

// CreateMentorshipRequest создает тестовую заявку на менторство
func (f *TestDataFactory) CreateMentorshipRequest(t *testing.T, userUID string, packageID int, status string) int {
	var id int
	err := f.storage.DB.QueryRow(`INSERT INTO mentorship_requests (user_uid, package_id, status)
		VALUES ($1, $2, $3) RETURNING id`,
		userUID, packageID, status).Scan(&id)
	require.NoError(t, err)
	return id
}

// CreatePointsTransaction создает тестовую транзакцию баллов
func (f *TestDataFactory) CreatePointsTransaction(t *testing.T, userUID, txType string, points, balanceAfter float64) int {
	var id int
	err := f.storage.DB.QueryRow(`INSERT INTO user_points_transactions
		(user_uid, transaction_type, points, balance_after)
		VALUES ($1, $2, $3, $4) RETURNING id`,
		userUID, txType, points, balanceAfter).Scan(&id)
	require.NoError(t, err)
	return id
}

const testSchema = `
CREATE EXTENSION IF NOT EXISTS pgcrypto;

CREATE TABLE users (
    uid UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    email TEXT NOT NULL UNIQUE,
    username TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    role TEXT NOT NULL DEFAULT 'user',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE enrollments (
    id SERIAL PRIMARY KEY,
    user_uid UUID NOT NULL REFERENCES users (uid),
    course_id INTEGER NOT NULL,
    status TEXT NOT NULL DEFAULT 'pending'
        CHECK (status IN ('pending', 'active', 'cancelled')),
    enrolled_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    activated_at TIMESTAMPTZ,
    UNIQUE (user_uid, course_id)
);

CREATE TABLE mentorship_requests (
    id SERIAL PRIMARY KEY,
    user_uid UUID NOT NULL REFERENCES users (uid),
    package_id INTEGER NOT NULL,
    status TEXT NOT NULL DEFAULT 'pending'
        CHECK (status IN ('pending', 'approved', 'scheduled', 'completed', 'cancelled')),
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE mobile_app_subscriptions (
    id SERIAL PRIMARY KEY,
    user_uid UUID NOT NULL UNIQUE REFERENCES users (uid),
    status TEXT NOT NULL DEFAULT 'trial'
        CHECK (status IN ('trial', 'active', 'expired', 'cancelled')),
    trial_ends_at TIMESTAMPTZ,
    subscription_ends_at TIMESTAMPTZ,
    expiry_reminder_sent_at TIMESTAMPTZ,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE payment_proofs (
    id SERIAL PRIMARY KEY,
    target TEXT NOT NULL
        CHECK (target IN ('course', 'mentorship', 'subscription')),
    target_id INTEGER NOT NULL,
    user_uid UUID NOT NULL REFERENCES users (uid),
    file_path TEXT NOT NULL,
    notes TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL DEFAULT 'pending'
        CHECK (status IN ('pending', 'approved', 'rejected')),
    reviewed_by UUID REFERENCES users (uid),
    reviewed_at TIMESTAMPTZ,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE user_points_transactions (
    id SERIAL PRIMARY KEY,
    user_uid UUID NOT NULL REFERENCES users (uid),
    transaction_type TEXT NOT NULL
        CHECK (transaction_type IN ('earned', 'spent', 'expired', 'admin_adjustment')),
    points NUMERIC(10, 2) NOT NULL,
    balance_after NUMERIC(10, 2) NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    course_id INTEGER,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

// setupTestDatabase создает тестовую БД с контейнером PostgreSQL
func setupTestDatabase(t *testing.T) (*Storage, func()) {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(wait.ForAll(
			wait.ForListeningPort(nat.Port("5432/tcp")),
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
		).WithDeadline(3*time.Minute)),
	)
	require.NoError(t, err, "failed to start container")

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "failed to get connection string")

	var storage *Storage
	for range 10 {
		storage, err = New(connStr)
		if err == nil {
			err = storage.DB.Ping()
			if err == nil {
				break
			}
		}
		time.Sleep(1 * time.Second)
	}
	require.NoError(t, err, "failed to create storage after retries")

	_, err = storage.DB.Exec(testSchema)
	require.NoError(t, err, "failed to create test schema")

	cleanup := func() {
		storage.DB.Close()
		if termErr := pgContainer.Terminate(ctx); termErr != nil {
			t.Logf("failed to terminate container: %v", termErr)
		}
	}
	return storage, cleanup
}
