package starttrial

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/zendaapp/zenda-access/internal/http/middlewarectx"
	"github.com/zendaapp/zenda-access/internal/models"
)

// MockService реализует интерфейс starttrial.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) StartTrial(ctx context.Context, userUID string) (*models.Subscription, error) {
	args := m.Called(ctx, userUID)
	if res := args.Get(0); res != nil {
		return res.(*models.Subscription), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestStartTrialHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	userUID := "550e8400-e29b-41d4-a716-446655440000"
	trialEnd := time.Now().UTC().Add(7 * 24 * time.Hour)

	tests := []struct {
		name           string
		userUID        string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:    "успешный запуск пробного периода",
			userUID: userUID,
			setupMock: func(m *MockService) {
				sub := &models.Subscription{
					ID:          1,
					UserUID:     userUID,
					Status:      models.SubscriptionTrial,
					TrialEndsAt: &trialEnd,
				}
				m.On("StartTrial", mock.Anything, userUID).Return(sub, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"status":"trial"`,
		},
		{
			name:    "повторный пробный период",
			userUID: userUID,
			setupMock: func(m *MockService) {
				m.On("StartTrial", mock.Anything, userUID).
					Return(nil, models.ErrTrialAlreadyUsed)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `"code":"trial_already_used"`,
		},
		{
			name:           "нет идентификатора пользователя в контексте",
			userUID:        "",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"error":"unauthorized"`,
		},
		{
			name:    "ошибка сервиса",
			userUID: userUID,
			setupMock: func(m *MockService) {
				m.On("StartTrial", mock.Anything, userUID).
					Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"error":"failed to start trial"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/subscriptions/start-trial", nil)
			if tt.userUID != "" {
				req = req.WithContext(context.WithValue(req.Context(), middlewarectx.UserUID, tt.userUID))
			}

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
