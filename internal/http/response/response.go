// Package response содержит вспомогательные типы и функции для формирования
// унифицированных JSON‑ответов HTTP‑обработчиков. Пакет упрощает возврат
// успешных ответов, типизированных ошибок движка и сообщений валидации.
package response

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator"
	"github.com/zendaapp/zenda-access/internal/models"
)

// Response описывает стандартную структуру JSON‑ответа сервера.
// Поле Status — статус запроса ("OK" или "Error").
// Поле Error — текст ошибки (опционально, при неуспехе).
// Поле Code — машинный код ошибки, по которому клиент ветвится.
// Поле Data — данные ответа (опционально, при успехе).
type Response struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Code   string `json:"code,omitempty"`
	Data   any    `json:"data,omitempty"`
}

// ErrorResponse — структура ошибки для Swagger-документации.
type ErrorResponse struct {
	Status string `json:"status" example:"Error"`
	Error  string `json:"error" example:"invalid request body"`
	Code   string `json:"code,omitempty" example:"validation_error"`
}

const (
	// StatusOK — значение статуса для успешного ответа.
	StatusOK = "OK"
	// StatusError — значение статуса для ответа с ошибкой.
	StatusError = "Error"
)

// Машинные коды ошибок движка доступа.
const (
	CodeTrialAlreadyUsed   = "trial_already_used"
	CodeAlreadyProcessed   = "already_processed"
	CodeInsufficientPoints = "insufficient_points"
	CodeNotFound           = "not_found"
	CodePermissionDenied   = "permission_denied"
	CodeValidationError    = "validation_error"
)

// OKWithData возвращает успешный Response с переданными данными.
func OKWithData(data any) Response {
	return Response{
		Status: StatusOK,
		Data:   data,
	}
}

// Error возвращает Response с ошибкой и переданным сообщением.
func Error(msg string) ErrorResponse {
	return ErrorResponse{
		Status: StatusError,
		Error:  msg,
	}
}

// ErrorWithCode возвращает Response с ошибкой, сообщением и машинным кодом.
func ErrorWithCode(msg, code string) ErrorResponse {
	return ErrorResponse{
		Status: StatusError,
		Error:  msg,
		Code:   code,
	}
}

// EngineError сопоставляет типизированную ошибку движка с HTTP статусом
// и машинным кодом. Возвращает false, если ошибка не относится к движку
// и обработчик должен ответить по-своему (обычно 500).
func EngineError(err error) (int, ErrorResponse, bool) {
	switch {
	case errors.Is(err, models.ErrTrialAlreadyUsed):
		return http.StatusConflict, ErrorResponse{
			Status: StatusError,
			Error:  "trial already used",
			Code:   CodeTrialAlreadyUsed,
		}, true
	case errors.Is(err, models.ErrAlreadyProcessed):
		return http.StatusConflict, ErrorResponse{
			Status: StatusError,
			Error:  "payment proof already processed",
			Code:   CodeAlreadyProcessed,
		}, true
	case errors.Is(err, models.ErrInsufficientPoints):
		return http.StatusUnprocessableEntity, ErrorResponse{
			Status: StatusError,
			Error:  "insufficient points balance",
			Code:   CodeInsufficientPoints,
		}, true
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound, ErrorResponse{
			Status: StatusError,
			Error:  "not found",
			Code:   CodeNotFound,
		}, true
	case errors.Is(err, models.ErrPermissionDenied):
		return http.StatusForbidden, ErrorResponse{
			Status: StatusError,
			Error:  "admin role required",
			Code:   CodePermissionDenied,
		}, true
	}
	return 0, ErrorResponse{}, false
}

// ValidationError формирует Response со статусом Error на основе ошибок валидации.
// Каждое нарушение формируется в человеко‑читаемый текст, объединённый через запятую.
func ValidationError(errs validator.ValidationErrors) Response {
	var errsMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "alphanum":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s can contain only numbers and letters", err.Field()))
		case "email":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be a valid email", err.Field()))
		case "uuid":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s can contain only uuid", err.Field()))
		case "min":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is too short", err.Field()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not a valid", err.Field()))
		}
	}
	return Response{
		Status: StatusError,
		Error:  strings.Join(errsMsgs, ", "),
		Code:   CodeValidationError,
	}
}
