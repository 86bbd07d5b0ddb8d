package models

import "time"

// TransactionType — закрытое перечисление типов транзакций баллов.
// Все типы семантически одинаковы (подписанная запись в журнале)
// и различаются только меткой для отчётности.
type TransactionType string

const (
	// TransactionEarned — баллы начислены (прохождение курса и т.п.).
	TransactionEarned TransactionType = "earned"
	// TransactionSpent — баллы потрачены (в т.ч. обмен на подписку).
	TransactionSpent TransactionType = "spent"
	// TransactionExpired — баллы сгорели.
	TransactionExpired TransactionType = "expired"
	// TransactionAdminAdjustment — ручная корректировка администратором.
	TransactionAdminAdjustment TransactionType = "admin_adjustment"
)

// Valid сообщает, является ли значение одним из допустимых типов.
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionEarned, TransactionSpent, TransactionExpired, TransactionAdminAdjustment:
		return true
	}
	return false
}

// PointsTransaction — запись журнала баллов. Журнал только дописывается:
// записи никогда не изменяются и не удаляются, ошибка исправляется
// встречной записью admin_adjustment. BalanceAfter — снимок баланса на
// момент вставки, используется для отображения и аудита; источником
// истины остаётся сумма всех записей пользователя.
type PointsTransaction struct {
	ID              int             `json:"id"`
	UserUID         string          `json:"user_uid"`
	TransactionType TransactionType `json:"transaction_type"`
	Points          float64         `json:"points"`
	BalanceAfter    float64         `json:"balance_after"`
	Description     string          `json:"description"`
	CourseID        *int            `json:"course_id,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// PointsFilter — параметры фильтрации журнала баллов в админке.
type PointsFilter struct {
	UserUID         string          // Пустое значение — все пользователи
	TransactionType TransactionType // Пустое значение — все типы
}

// PointsBalance — ответ на запрос баланса пользователя.
// BalanceKz — эквивалент баланса в кванзах по курсу из конфигурации.
type PointsBalance struct {
	UserUID   string  `json:"user_id"`
	UserEmail string  `json:"user_email"`
	Balance   float64 `json:"balance"`
	BalanceKz float64 `json:"balance_kz"`
}

// DummyAdjustRequest используется для приёма запроса корректировки
// баллов из JSON до валидации. Points может быть отрицательным —
// это единственная операция, которой разрешено увести баланс в минус.
type DummyAdjustRequest struct {
	UserUID     string  `json:"user_id" validate:"required,uuid"`
	Points      float64 `json:"points" validate:"required"`
	Description string  `json:"description,omitempty"`
}
