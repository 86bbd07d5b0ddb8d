package redeem

import (
	"context"
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

// MockService реализует интерфейс redeem.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Redeem(ctx context.Context, userUID string) (*models.Subscription, error) {
	args := m.Called(ctx, userUID)
	if res := args.Get(0); res != nil {
		return res.(*models.Subscription), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestRedeemHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	userUID := "550e8400-e29b-41d4-a716-446655440000"
	endDate := time.Now().UTC().Add(30 * 24 * time.Hour)

	tests := []struct {
		name           string
		userUID        string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:    "успешный обмен баллов на продление",
			userUID: userUID,
			setupMock: func(m *MockService) {
				sub := &models.Subscription{
					ID:                 1,
					UserUID:            userUID,
					Status:             models.SubscriptionActive,
					SubscriptionEndsAt: &endDate,
				}
				m.On("Redeem", mock.Anything, userUID).Return(sub, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"status":"active"`,
		},
		{
			name:    "недостаточно баллов",
			userUID: userUID,
			setupMock: func(m *MockService) {
				m.On("Redeem", mock.Anything, userUID).
					Return(nil, models.ErrInsufficientPoints)
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `"code":"insufficient_points"`,
		},
		{
			name:    "подписки ещё нет",
			userUID: userUID,
			setupMock: func(m *MockService) {
				m.On("Redeem", mock.Anything, userUID).
					Return(nil, models.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"code":"not_found"`,
		},
		{
			name:           "нет идентификатора пользователя в контексте",
			userUID:        "",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"error":"unauthorized"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/referral/redeem-subscription", nil)
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
