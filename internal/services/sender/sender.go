// Package sender отправляет email-напоминания о скором окончании
// подписки, потребляя события из очереди нотификаций.
package sender

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/zendaapp/zenda-access/internal/lib/sl"
	"github.com/zendaapp/zenda-access/internal/lib/smtp"
	"github.com/zendaapp/zenda-access/internal/models"
)

// Service отправляет письма пользователям через SMTP.
type Service struct {
	transport smtp.TransportInterface
	log       *slog.Logger
}

// New создает новый экземпляр Service.
func New(transport smtp.TransportInterface, log *slog.Logger) *Service {
	return &Service{
		transport: transport,
		log:       log,
	}
}

// SendExpiryReminder разбирает событие из очереди и отправляет письмо.
// Текст письма на португальском — язык пользователей приложения.
func (s *Service) SendExpiryReminder(body []byte) error {
	const op = "services.sender.SendExpiryReminder"

	var message models.ExpiringSubscriptionInfo
	if err := json.Unmarshal(body, &message); err != nil {
		return fmt.Errorf("%s: unmarshal message: %w", op, err)
	}
	if message.Email == "" {
		return fmt.Errorf("%s: message without email", op)
	}

	subject := "A sua subscrição da Zenda está a terminar"
	bodyText := fmt.Sprintf(
		"Olá, %s!\n\nA sua subscrição do aplicativo Zenda termina em %s.\n\nPara manter o acesso, renove a subscrição no aplicativo.",
		message.Username, message.EndDate.Format("02/01/2006"))

	msg := strings.Join([]string{
		fmt.Sprintf("From: %s", s.transport.GetSMTPUser()),
		fmt.Sprintf("To: %s", message.Email),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	defer client.Close()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		return fmt.Errorf("%s: set sender: %w", op, err)
	}
	if err := client.Rcpt(message.Email); err != nil {
		return fmt.Errorf("%s: set recipient: %w", op, err)
	}
	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("%s: open data writer: %w", op, err)
	}
	if _, err := w.Write([]byte(msg)); err != nil {
		return fmt.Errorf("%s: write message: %w", op, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("%s: close data writer: %w", op, err)
	}
	if err := client.Quit(); err != nil {
		s.log.Warn("failed to quit SMTP session", sl.Err(err))
	}

	s.log.Info("expiry reminder sent", slog.String("email", message.Email))
	return nil
}
