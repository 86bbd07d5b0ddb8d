// Package subscriptiondeactivate реализует админский HTTP-обработчик
// принудительной деактивации подписки.
package subscriptiondeactivate

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/zendaapp/zenda-access/internal/http/response"
	"github.com/zendaapp/zenda-access/internal/lib/sl"
	"github.com/zendaapp/zenda-access/internal/models"
)

// Service описывает интерфейс деактивации подписки.
type Service interface {
	Deactivate(ctx context.Context, id int) (*models.Subscription, error)
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
// @Summary Деактивировать подписку
// @Description Переводит подписку в cancelled из любого статуса, доступ закрывается немедленно.
// @Tags Admin
// @Produce  json
// @Param id path int true "ID подписки"
// @Success 200 {object} map[string]any "Обновлённая подписка"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 403 {object} response.ErrorResponse "Требуется роль admin"
// @Failure 404 {object} response.ErrorResponse "Подписка не найдена"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /admin/subscriptions/{id}/deactivate [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.subscriptiondeactivate"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("invalid subscription id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid id"))
		return
	}

	sub, err := h.service.Deactivate(r.Context(), id)
	if err != nil {
		if status, resp, ok := response.EngineError(err); ok {
			w.WriteHeader(status)
			render.JSON(w, r, resp)
			return
		}
		log.Error("failed to deactivate subscription", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to deactivate subscription"))
		return
	}

	render.JSON(w, r, response.OKWithData(sub.View(time.Now().UTC())))
}
