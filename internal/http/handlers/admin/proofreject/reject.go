// Package proofreject реализует админский HTTP-обработчик отклонения
// платёжного подтверждения.
package proofreject

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/zendaapp/zenda-access/internal/http/middlewarectx"
	"github.com/zendaapp/zenda-access/internal/http/response"
	"github.com/zendaapp/zenda-access/internal/lib/sl"
	"github.com/zendaapp/zenda-access/internal/models"
)

// Service описывает интерфейс отклонения подтверждений.
type Service interface {
	Reject(ctx context.Context, id int, reviewerUID string) (*models.PaymentProof, error)
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
// @Summary Отклонить платёжное подтверждение
// @Description Переводит подтверждение в rejected без побочных эффектов для цели.
// @Tags Admin
// @Produce  json
// @Param id path int true "ID подтверждения"
// @Success 200 {object} map[string]any "Обновлённое подтверждение"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 403 {object} response.ErrorResponse "Требуется роль admin"
// @Failure 404 {object} response.ErrorResponse "Подтверждение не найдено"
// @Failure 409 {object} response.ErrorResponse "Подтверждение уже обработано"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /admin/subscription-payment-proofs/{id}/reject [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.proofreject"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	reviewerUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || reviewerUID == "" {
		log.Error("user identification missing")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("invalid proof id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid id"))
		return
	}

	proof, err := h.service.Reject(r.Context(), id, reviewerUID)
	if err != nil {
		if status, resp, ok := response.EngineError(err); ok {
			w.WriteHeader(status)
			render.JSON(w, r, resp)
			return
		}
		log.Error("failed to reject payment proof", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to reject payment proof"))
		return
	}

	render.JSON(w, r, response.OKWithData(proof))
}
