package models

import "time"

// ProofStatus — закрытое перечисление статусов платёжного подтверждения.
// После перехода в approved или rejected запись не изменяется.
type ProofStatus string

const (
	// ProofPending — подтверждение ожидает проверки администратором.
	ProofPending ProofStatus = "pending"
	// ProofApproved — подтверждение принято.
	ProofApproved ProofStatus = "approved"
	// ProofRejected — подтверждение отклонено.
	ProofRejected ProofStatus = "rejected"
)

// Valid сообщает, является ли значение одним из допустимых статусов.
func (s ProofStatus) Valid() bool {
	switch s {
	case ProofPending, ProofApproved, ProofRejected:
		return true
	}
	return false
}

// ProofTarget — сущность, которую активирует одобрение подтверждения.
type ProofTarget string

const (
	// TargetCourse — запись на курс (enrollment → active).
	TargetCourse ProofTarget = "course"
	// TargetMentorship — заявка на менторство (request → approved).
	TargetMentorship ProofTarget = "mentorship"
	// TargetSubscription — подписка мобильного приложения (продление на 30 дней).
	TargetSubscription ProofTarget = "subscription"
)

// Valid сообщает, является ли значение одной из известных целей.
func (t ProofTarget) Valid() bool {
	switch t {
	case TargetCourse, TargetMentorship, TargetSubscription:
		return true
	}
	return false
}

// PaymentProof представляет загруженное пользователем платёжное
// подтверждение. Одна общая форма для трёх целей: курс, менторство,
// подписка. Поля ReviewedBy и ReviewedAt заполняются при разборе.
type PaymentProof struct {
	ID         int         `json:"id"`
	Target     ProofTarget `json:"target"`
	TargetID   int         `json:"target_id"`
	UserUID    string      `json:"user_uid"`
	FilePath   string      `json:"file_path"`
	Notes      string      `json:"notes"`
	Status     ProofStatus `json:"status"`
	ReviewedBy *string     `json:"reviewed_by"`
	ReviewedAt *time.Time  `json:"reviewed_at"`
	CreatedAt  time.Time   `json:"created_at"`
}

// ProofFilter — параметры фильтрации списка подтверждений в админке.
type ProofFilter struct {
	Target ProofTarget // Пустое значение — все цели
	Status ProofStatus // Пустое значение — все статусы
}
