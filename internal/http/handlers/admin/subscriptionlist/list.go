// Package subscriptionlist реализует админский HTTP-обработчик списка
// подписок с фильтром по статусу.
package subscriptionlist

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/zendaapp/zenda-access/internal/http/response"
	"github.com/zendaapp/zenda-access/internal/lib/sl"
	"github.com/zendaapp/zenda-access/internal/models"
)

// Service описывает интерфейс чтения списка подписок.
type Service interface {
	List(ctx context.Context, status models.SubscriptionStatus) ([]*models.Subscription, error)
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
// @Summary Список подписок
// @Description Возвращает подписки приложения, опционально отфильтрованные по статусу.
// @Tags Admin
// @Produce  json
// @Param status query string false "Фильтр по статусу" Enums(trial, active, expired, cancelled)
// @Success 200 {object} map[string]any "Список подписок"
// @Failure 400 {object} response.ErrorResponse "Неизвестный статус"
// @Failure 403 {object} response.ErrorResponse "Требуется роль admin"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /admin/subscriptions [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.subscriptionlist"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	status := models.SubscriptionStatus(r.URL.Query().Get("status"))
	if status != "" && !status.Valid() {
		log.Error("unknown subscription status", slog.String("status", string(status)))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("unknown subscription status"))
		return
	}

	subs, err := h.service.List(r.Context(), status)
	if err != nil {
		log.Error("failed to list subscriptions", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list subscriptions"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"count":         len(subs),
		"subscriptions": subs,
	}))
}
