// Package pointsadjust реализует админский HTTP-обработчик ручной
// корректировки баланса реферальных баллов.
package pointsadjust

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/zendaapp/zenda-access/internal/http/response"
	"github.com/zendaapp/zenda-access/internal/lib/sl"
	"github.com/zendaapp/zenda-access/internal/models"
)

// Service описывает интерфейс корректировки баллов.
type Service interface {
	AdminAdjust(ctx context.Context, userUID string, amount float64, description string) (*models.PointsTransaction, error)
}

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Скорректировать баллы пользователя
// @Description Записывает транзакцию admin_adjustment с произвольным знаком. Балансу разрешено уходить в минус.
// @Tags Admin
// @Accept  json
// @Produce  json
// @Param request body models.DummyAdjustRequest true "Параметры корректировки"
// @Success 200 {object} map[string]any "Созданная транзакция"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 403 {object} response.ErrorResponse "Требуется роль admin"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /admin/user-points/adjust [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.pointsadjust"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyAdjustRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	transaction, err := h.service.AdminAdjust(r.Context(), req.UserUID, req.Points, req.Description)
	if err != nil {
		if status, resp, ok := response.EngineError(err); ok {
			w.WriteHeader(status)
			render.JSON(w, r, resp)
			return
		}
		log.Error("failed to adjust points", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to adjust points"))
		return
	}

	render.JSON(w, r, response.OKWithData(transaction))
}
