// Package submit реализует HTTP-обработчик загрузки платёжного
// подтверждения. Файл принимается multipart-формой; тип цели фиксируется
// при регистрации маршрута, ID цели берётся из URL.
package submit

import (
	"context"
	"io"
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

// Размер multipart-формы держим небольшим: скриншот перевода.
const maxUploadSize = 10 << 20

// Service описывает интерфейс приёма платёжных подтверждений.
type Service interface {
	Submit(ctx context.Context, target models.ProofTarget, targetID int,
		userUID string, file io.Reader, filename, notes string) (*models.PaymentProof, error)
}

type Handler struct {
	log     *slog.Logger
	service Service
	target  models.ProofTarget
}

// New создает новый Handler для приёма подтверждений указанной цели.
func New(log *slog.Logger, service Service, target models.ProofTarget) *Handler {
	return &Handler{
		log:     log,
		service: service,
		target:  target,
	}
}

// ServeHTTP godoc
// @Summary Загрузить платёжное подтверждение
// @Description Принимает файл подтверждения перевода и создает запись в статусе pending.
// @Tags Subscriptions
// @Accept  multipart/form-data
// @Produce  json
// @Param id path int true "ID цели"
// @Param file formData file true "Файл подтверждения"
// @Param notes formData string false "Комментарий"
// @Success 200 {object} map[string]any "Созданное подтверждение"
// @Failure 400 {object} response.ErrorResponse "Некорректная форма"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /subscriptions/{id}/payment-proofs [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.proof.submit"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user identification missing")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	targetID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("invalid target id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid id"))
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		log.Error("failed to parse multipart form", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid multipart form"))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		log.Error("file is missing in form", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("file is required"))
		return
	}
	defer file.Close()
	notes := r.FormValue("notes")

	proof, err := h.service.Submit(r.Context(), h.target, targetID, userUID,
		file, header.Filename, notes)
	if err != nil {
		if status, resp, ok := response.EngineError(err); ok {
			w.WriteHeader(status)
			render.JSON(w, r, resp)
			return
		}
		log.Error("failed to submit payment proof", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to submit payment proof"))
		return
	}

	render.JSON(w, r, response.OKWithData(proof))
}
