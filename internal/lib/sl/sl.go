// Package sl содержит вспомогательные функции для структурированного
// логирования через slog, общие для всех слоёв движка доступа.
package sl

import "log/slog"

// Err возвращает slog.Attr с ключом "error" и текстом ошибки,
// чтобы ошибки во всех логах выводились единообразно.
//
// Пример:
//
//	log.Error("failed to submit proof", sl.Err(err))
func Err(err error) slog.Attr {
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}
