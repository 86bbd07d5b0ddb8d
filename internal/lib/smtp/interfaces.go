// Package smtp предоставляет интерфейсы SMTP-клиента и транспорта,
// через которые сервис sender отправляет письма-напоминания об истечении.
package smtp

import "io"

// Client — минимальный интерфейс SMTP-сессии, достаточный для отправки письма.
type Client interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}

// TransportInterface устанавливает соединение с SMTP-сервером.
type TransportInterface interface {
	Connect() (Client, error)
	GetSMTPUser() string
}
