package models

// EntitlementSource — источник права доступа к мобильному приложению.
type EntitlementSource string

const (
	// SourceEnrollment — активная запись на курс.
	SourceEnrollment EntitlementSource = "enrollment"
	// SourceMentorship — одобренная/назначенная/завершённая заявка на менторство.
	SourceMentorship EntitlementSource = "mentorship"
	// SourceSubscription — действующая пробная или оплаченная подписка.
	SourceSubscription EntitlementSource = "subscription"
)

// Entitlement — результат вычисления доступа: итоговый флаг и список
// сработавших источников. Источники независимы, итог — дизъюнкция.
type Entitlement struct {
	HasAccess bool                `json:"has_access"`
	Sources   []EntitlementSource `json:"sources"`
}
