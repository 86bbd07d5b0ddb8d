package sender

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/zendaapp/zenda-access/internal/lib/smtp"
)

type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Connect() (smtp.Client, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(smtp.Client), args.Error(1)
}

func (m *MockTransport) GetSMTPUser() string {
	args := m.Called()
	return args.String(0)
}

type MockSMTPClient struct {
	mock.Mock
}

func (m *MockSMTPClient) Mail(from string) error {
	args := m.Called(from)
	return args.Error(0)
}

func (m *MockSMTPClient) Rcpt(to string) error {
	args := m.Called(to)
	return args.Error(0)
}

func (m *MockSMTPClient) Data() (io.WriteCloser, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.WriteCloser), args.Error(1)
}

func (m *MockSMTPClient) Close() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockSMTPClient) Quit() error {
	args := m.Called()
	return args.Error(0)
}

type MockSMTPWriter struct {
	mock.Mock
}

func (m *MockSMTPWriter) Write(p []byte) (n int, err error) {
	args := m.Called(p)
	return args.Int(0), args.Error(1)
}

func (m *MockSMTPWriter) Close() error {
	args := m.Called()
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestSenderService_SendExpiryReminder(t *testing.T) {
	tests := []struct {
		name          string
		body          []byte
		setupMocks    func(*MockTransport)
		expectedError bool
		errorMessage  string
	}{
		{
			name: "успешная отправка напоминания",
			body: []byte(`{"email":"user@example.com","username":"joao","end_date":"2026-09-15T00:00:00Z"}`),
			setupMocks: func(tr *MockTransport) {
				mockClient := new(MockSMTPClient)
				mockWriter := new(MockSMTPWriter)

				tr.On("GetSMTPUser").Return("noreply@zenda.app")
				tr.On("Connect").Return(mockClient, nil).Once()
				mockClient.On("Mail", "noreply@zenda.app").Return(nil).Once()
				mockClient.On("Rcpt", "user@example.com").Return(nil).Once()
				mockClient.On("Data").Return(mockWriter, nil).Once()
				mockWriter.On("Write", mock.AnythingOfType("[]uint8")).Return(100, nil).Once()
				mockWriter.On("Close").Return(nil).Once()
				mockClient.On("Quit").Return(nil).Once()
				mockClient.On("Close").Return(nil).Once()
			},
			expectedError: false,
		},
		{
			name:          "некорректный JSON события",
			body:          []byte(`{"email":`),
			setupMocks:    func(*MockTransport) {},
			expectedError: true,
			errorMessage:  "unmarshal message",
		},
		{
			name:          "событие без email",
			body:          []byte(`{"username":"joao","end_date":"2026-09-15T00:00:00Z"}`),
			setupMocks:    func(*MockTransport) {},
			expectedError: true,
			errorMessage:  "message without email",
		},
		{
			name: "ошибка подключения к SMTP",
			body: []byte(`{"email":"user@example.com","username":"joao","end_date":"2026-09-15T00:00:00Z"}`),
			setupMocks: func(tr *MockTransport) {
				tr.On("GetSMTPUser").Return("noreply@zenda.app")
				tr.On("Connect").Return(nil, errors.New("connection refused")).Once()
			},
			expectedError: true,
			errorMessage:  "connection refused",
		},
		{
			name: "ошибка отправки получателя",
			body: []byte(`{"email":"user@example.com","username":"joao","end_date":"2026-09-15T00:00:00Z"}`),
			setupMocks: func(tr *MockTransport) {
				mockClient := new(MockSMTPClient)

				tr.On("GetSMTPUser").Return("noreply@zenda.app")
				tr.On("Connect").Return(mockClient, nil).Once()
				mockClient.On("Mail", "noreply@zenda.app").Return(nil).Once()
				mockClient.On("Rcpt", "user@example.com").Return(errors.New("mailbox unavailable")).Once()
				mockClient.On("Close").Return(nil).Once()
			},
			expectedError: true,
			errorMessage:  "set recipient",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := new(MockTransport)
			tt.setupMocks(transport)

			svc := New(transport, newNoopLogger())

			err := svc.SendExpiryReminder(tt.body)

			if tt.expectedError {
				assert.Error(t, err)
				if tt.errorMessage != "" {
					assert.Contains(t, err.Error(), tt.errorMessage)
				}
			} else {
				assert.NoError(t, err)
			}

			transport.AssertExpectations(t)
		})
	}
}
