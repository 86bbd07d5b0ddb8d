// Package pointslist реализует админский HTTP-обработчик журнала
// реферальных баллов.
package pointslist

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

// Service описывает интерфейс чтения журнала баллов.
type Service interface {
	List(ctx context.Context, filter models.PointsFilter) ([]*models.PointsTransaction, error)
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
// @Summary Журнал реферальных баллов
// @Description Возвращает транзакции баллов с фильтрами по пользователю и типу, новые первыми.
// @Tags Admin
// @Produce  json
// @Param user_id query string false "Фильтр по UID пользователя"
// @Param transaction_type query string false "Фильтр по типу" Enums(earned, spent, expired, admin_adjustment)
// @Success 200 {object} map[string]any "Список транзакций"
// @Failure 400 {object} response.ErrorResponse "Неизвестный тип транзакции"
// @Failure 403 {object} response.ErrorResponse "Требуется роль admin"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /admin/user-points [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.pointslist"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	filter := models.PointsFilter{
		UserUID:         r.URL.Query().Get("user_id"),
		TransactionType: models.TransactionType(r.URL.Query().Get("transaction_type")),
	}
	if filter.TransactionType != "" && !filter.TransactionType.Valid() {
		log.Error("unknown transaction type",
			slog.String("transaction_type", string(filter.TransactionType)))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("unknown transaction type"))
		return
	}

	transactions, err := h.service.List(r.Context(), filter)
	if err != nil {
		log.Error("failed to list points transactions", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list points transactions"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"count":        len(transactions),
		"transactions": transactions,
	}))
}
