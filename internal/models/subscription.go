// Package models содержит доменные структуры движка доступа:
// подписку мобильного приложения, платёжные подтверждения, транзакции баллов
// и вспомогательные типы для приёма данных из JSON-запросов.
package models

import "time"

// SubscriptionStatus — закрытое перечисление статусов подписки.
// Строковые значения совпадают со значениями в базе данных и в API.
type SubscriptionStatus string

const (
	// SubscriptionTrial — пробный период (7 дней, выдаётся один раз).
	SubscriptionTrial SubscriptionStatus = "trial"
	// SubscriptionActive — оплаченная подписка.
	SubscriptionActive SubscriptionStatus = "active"
	// SubscriptionExpired — срок действия истёк.
	SubscriptionExpired SubscriptionStatus = "expired"
	// SubscriptionCancelled — подписка отменена администратором.
	SubscriptionCancelled SubscriptionStatus = "cancelled"
)

// Valid сообщает, является ли значение одним из допустимых статусов.
func (s SubscriptionStatus) Valid() bool {
	switch s {
	case SubscriptionTrial, SubscriptionActive, SubscriptionExpired, SubscriptionCancelled:
		return true
	}
	return false
}

// Subscription представляет подписку пользователя на мобильное приложение.
// Ровно одна строка на пользователя; само существование строки означает,
// что пробный период уже использован.
type Subscription struct {
	ID                    int                `json:"id"`
	UserUID               string             `json:"user_uid"`
	Status                SubscriptionStatus `json:"status"`
	TrialEndsAt           *time.Time         `json:"trial_ends_at"`
	SubscriptionEndsAt    *time.Time         `json:"subscription_ends_at"`
	ExpiryReminderSentAt  *time.Time         `json:"-"`
	CreatedAt             time.Time          `json:"created_at"`
	UpdatedAt             time.Time          `json:"updated_at"`
}

// HasAccess вычисляет доступ к приложению на момент now.
// Статусы cancelled и expired закрывают доступ независимо от дат:
// администраторская отмена действует немедленно, даже если оплаченный
// период формально ещё не кончился.
func (s *Subscription) HasAccess(now time.Time) bool {
	switch s.Status {
	case SubscriptionTrial:
		return s.TrialEndsAt != nil && now.Before(*s.TrialEndsAt)
	case SubscriptionActive:
		return s.SubscriptionEndsAt != nil && now.Before(*s.SubscriptionEndsAt)
	case SubscriptionExpired, SubscriptionCancelled:
		return false
	}
	return false
}

// DaysUntilExpiry возвращает число дней до конца текущего периода
// (пробного или оплаченного). Nil — когда даты окончания нет.
func (s *Subscription) DaysUntilExpiry(now time.Time) *int {
	var end *time.Time
	if s.Status == SubscriptionActive {
		end = s.SubscriptionEndsAt
	} else {
		end = s.TrialEndsAt
	}
	if end == nil {
		return nil
	}
	days := int(end.Sub(now).Hours() / 24)
	if days < 0 {
		days = 0
	}
	return &days
}

// SubscriptionView — представление подписки для ответа API,
// с вычисленными полями has_access и days_until_expiry.
type SubscriptionView struct {
	ID                 int                `json:"id"`
	Status             SubscriptionStatus `json:"status"`
	TrialEndsAt        *time.Time         `json:"trial_ends_at"`
	SubscriptionEndsAt *time.Time         `json:"subscription_ends_at"`
	HasAccess          bool               `json:"has_access"`
	DaysUntilExpiry    *int               `json:"days_until_expiry"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// View строит SubscriptionView на момент now.
func (s *Subscription) View(now time.Time) SubscriptionView {
	return SubscriptionView{
		ID:                 s.ID,
		Status:             s.Status,
		TrialEndsAt:        s.TrialEndsAt,
		SubscriptionEndsAt: s.SubscriptionEndsAt,
		HasAccess:          s.HasAccess(now),
		DaysUntilExpiry:    s.DaysUntilExpiry(now),
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
	}
}

// PaymentInfo — статические реквизиты для оплаты месячной подписки.
// Берутся из конфигурации, не из состояния движка.
type PaymentInfo struct {
	MonthlyPriceKz int    `json:"monthly_price_kz"`
	Currency       string `json:"currency"`
	IBAN           string `json:"iban"`
	PayeeName      string `json:"payee_name"`
}

// ExpiringSubscriptionInfo — данные для уведомления о скором окончании
// подписки, публикуемые в очередь нотификаций.
type ExpiringSubscriptionInfo struct {
	SubscriptionID int       `json:"-"`
	Email          string    `json:"email"`
	Username       string    `json:"username"`
	EndDate        time.Time `json:"end_date"`
}
