package models

import "time"

// EnrollmentStatus — закрытое перечисление статусов записи на курс.
type EnrollmentStatus string

const (
	// EnrollmentPending — запись ожидает подтверждения оплаты.
	EnrollmentPending EnrollmentStatus = "pending"
	// EnrollmentActive — запись активна и даёт доступ к приложению.
	EnrollmentActive EnrollmentStatus = "active"
	// EnrollmentCancelled — запись отменена.
	EnrollmentCancelled EnrollmentStatus = "cancelled"
)

// Enrollment представляет запись пользователя на курс. Создаётся внешним
// контуром курсов; движок доступа только читает её и переводит в active
// при одобрении платёжного подтверждения.
type Enrollment struct {
	ID          int              `json:"id"`
	UserUID     string           `json:"user_uid"`
	CourseID    int              `json:"course_id"`
	Status      EnrollmentStatus `json:"status"`
	EnrolledAt  time.Time        `json:"enrolled_at"`
	ActivatedAt *time.Time       `json:"activated_at"`
}

// MentorshipStatus — закрытое перечисление статусов заявки на менторство.
type MentorshipStatus string

const (
	// MentorshipPending — заявка подана, ожидает решения.
	MentorshipPending MentorshipStatus = "pending"
	// MentorshipApproved — заявка одобрена.
	MentorshipApproved MentorshipStatus = "approved"
	// MentorshipScheduled — сессия назначена.
	MentorshipScheduled MentorshipStatus = "scheduled"
	// MentorshipCompleted — менторство завершено.
	MentorshipCompleted MentorshipStatus = "completed"
	// MentorshipCancelled — заявка отменена.
	MentorshipCancelled MentorshipStatus = "cancelled"
)

// GrantsAccess сообщает, даёт ли статус заявки право доступа к приложению.
func (s MentorshipStatus) GrantsAccess() bool {
	switch s {
	case MentorshipApproved, MentorshipScheduled, MentorshipCompleted:
		return true
	case MentorshipPending, MentorshipCancelled:
		return false
	}
	return false
}

// MentorshipRequest представляет заявку пользователя на пакет менторства.
// Создаётся внешним контуром менторства; движок доступа читает её и
// переводит в approved при одобрении платёжного подтверждения.
type MentorshipRequest struct {
	ID        int              `json:"id"`
	UserUID   string           `json:"user_uid"`
	PackageID int              `json:"package_id"`
	Status    MentorshipStatus `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
}
