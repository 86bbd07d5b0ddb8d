// Package prooflist реализует админский HTTP-обработчик списка
// платёжных подтверждений для модерации.
package prooflist

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

// Service описывает интерфейс чтения списка подтверждений.
type Service interface {
	List(ctx context.Context, filter models.ProofFilter) ([]*models.PaymentProof, error)
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
// @Summary Список платёжных подтверждений
// @Description Возвращает подтверждения с фильтрами по цели и статусу.
// @Tags Admin
// @Produce  json
// @Param status query string false "Фильтр по статусу" Enums(pending, approved, rejected)
// @Param target query string false "Фильтр по цели" Enums(course, mentorship, subscription)
// @Success 200 {object} map[string]any "Список подтверждений"
// @Failure 400 {object} response.ErrorResponse "Неизвестный фильтр"
// @Failure 403 {object} response.ErrorResponse "Требуется роль admin"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /admin/subscription-payment-proofs [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.prooflist"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	filter := models.ProofFilter{
		Target: models.ProofTarget(r.URL.Query().Get("target")),
		Status: models.ProofStatus(r.URL.Query().Get("status")),
	}
	if filter.Target != "" && !filter.Target.Valid() {
		log.Error("unknown proof target", slog.String("target", string(filter.Target)))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("unknown proof target"))
		return
	}
	if filter.Status != "" && !filter.Status.Valid() {
		log.Error("unknown proof status", slog.String("status", string(filter.Status)))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("unknown proof status"))
		return
	}

	proofs, err := h.service.List(r.Context(), filter)
	if err != nil {
		log.Error("failed to list payment proofs", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list payment proofs"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"count":  len(proofs),
		"proofs": proofs,
	}))
}
