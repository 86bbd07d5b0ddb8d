package models

import "errors"

// Типизированные ошибки движка доступа. Обработчики различают их через
// errors.Is и возвращают клиенту структурированный код, а не строку.
var (
	// ErrNotFound — пользователь, подписка или подтверждение не найдены.
	ErrNotFound = errors.New("not found")
	// ErrTrialAlreadyUsed — строка подписки уже существует: пробный период
	// выдаётся один раз и не возобновляется ни в каком статусе.
	ErrTrialAlreadyUsed = errors.New("trial already used")
	// ErrAlreadyProcessed — подтверждение уже не в статусе pending.
	ErrAlreadyProcessed = errors.New("payment proof already processed")
	// ErrInsufficientPoints — баланс меньше порога списания.
	ErrInsufficientPoints = errors.New("insufficient points")
	// ErrPermissionDenied — операция требует роли admin.
	ErrPermissionDenied = errors.New("permission denied")
)
