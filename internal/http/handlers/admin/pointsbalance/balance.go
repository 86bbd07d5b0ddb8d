// Package pointsbalance реализует админский HTTP-обработчик баланса
// реферальных баллов пользователя.
package pointsbalance

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/zendaapp/zenda-access/internal/http/response"
	"github.com/zendaapp/zenda-access/internal/lib/sl"
	"github.com/zendaapp/zenda-access/internal/models"
)

// Service описывает интерфейс чтения баланса баллов.
type Service interface {
	Balance(ctx context.Context, userUID string) (*models.PointsBalance, error)
}

type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Баланс баллов пользователя
// @Description Возвращает сумму баллов пользователя и её эквивалент в кванзах.
// @Tags Admin
// @Produce  json
// @Param user path string true "UID пользователя"
// @Success 200 {object} map[string]any "Баланс баллов"
// @Failure 403 {object} response.ErrorResponse "Требуется роль admin"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /admin/user-points/{user}/balance [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.pointsbalance"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID := chi.URLParam(r, "user")

	balance, err := h.service.Balance(r.Context(), userUID)
	if err != nil {
		if status, resp, ok := response.EngineError(err); ok {
			w.WriteHeader(status)
			render.JSON(w, r, resp)
			return
		}
		log.Error("failed to get points balance", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to get points balance"))
		return
	}

	render.JSON(w, r, response.OKWithData(balance))
}
