// Package paymentinfo реализует HTTP-обработчик платёжных реквизитов
// для ручной оплаты подписки банковским переводом.
package paymentinfo

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/zendaapp/zenda-access/internal/http/response"
	"github.com/zendaapp/zenda-access/internal/models"
)

// Service описывает интерфейс получения платёжных реквизитов.
type Service interface {
	PaymentInfo() models.PaymentInfo
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
// @Summary Получить платёжные реквизиты
// @Description Возвращает цену месяца, валюту, IBAN и получателя для банковского перевода.
// @Tags Subscriptions
// @Produce  json
// @Success 200 {object} map[string]any "Платёжные реквизиты"
// @Router /subscriptions/payment-info [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, response.OKWithData(h.service.PaymentInfo()))
}
