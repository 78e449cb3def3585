package listrecurring

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/finance-ledger/internal/http/middlewarectx"
	"github.com/magabrotheeeer/finance-ledger/internal/models"
	"github.com/magabrotheeeer/finance-ledger/internal/recurrence"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) ListRecurring(ctx context.Context, userUID string) ([]*models.Entry, error) {
	args := m.Called(ctx, userUID)
	if res := args.Get(0); res != nil {
		return res.([]*models.Entry), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestListRecurringHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name           string
		userUID        string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   []string
	}{
		{
			name:    "список шаблонов",
			userUID: "user-1",
			setupMock: func(m *MockService) {
				m.On("ListRecurring", mock.Anything, "user-1").Return([]*models.Entry{
					{ID: 1, Description: "Rent", Recurring: recurrence.Recurrence{IsRecurring: true, Frequency: recurrence.Monthly}},
					{ID: 2, Description: "Gym", Recurring: recurrence.Recurrence{IsRecurring: true, Frequency: recurrence.Weekly}},
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   []string{`"count":2`, `"description":"Rent"`, `"description":"Gym"`},
		},
		{
			name:    "пустой список",
			userUID: "user-1",
			setupMock: func(m *MockService) {
				m.On("ListRecurring", mock.Anything, "user-1").Return(nil, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   []string{`"count":0`, `"entries":[]`},
		},
		{
			name:           "нет пользователя в контексте",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   []string{`"error":"unauthorized"`},
		},
		{
			name:    "ошибка сервиса",
			userUID: "user-1",
			setupMock: func(m *MockService) {
				m.On("ListRecurring", mock.Anything, "user-1").Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   []string{`"error":"could not list recurring entries"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)
			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/entries/recurring", nil)
			ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "req-id")
			if tt.userUID != "" {
				ctx = context.WithValue(ctx, middlewarectx.UserUID, tt.userUID)
			}
			req = req.WithContext(ctx)

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			for _, part := range tt.expectedBody {
				assert.Contains(t, w.Body.String(), part)
			}
			mockService.AssertExpectations(t)
		})
	}
}
