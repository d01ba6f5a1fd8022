package resetpassword

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/clinicboard/clinic-record-service/internal/http/middlewarectx"
	"github.com/clinicboard/clinic-record-service/internal/models"
	authservice "github.com/clinicboard/clinic-record-service/internal/services/auth"
	"github.com/clinicboard/clinic-record-service/internal/storage/repository"
)

// MockService реализует интерфейс resetpassword.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) ResetPassword(ctx context.Context, callerUID, doctorID, newPassword string) (*models.User, error) {
	args := m.Called(ctx, callerUID, doctorID, newPassword)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func TestResetPasswordHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		doctorID       string
		userUID        string
		requestBody    interface{}
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:        "успешный сброс пароля",
			doctorID:    "d1",
			userUID:     "uid-1",
			requestBody: Request{NewPassword: "newsecret"},
			setupMock: func(m *MockService) {
				m.On("ResetPassword", mock.Anything, "uid-1", "d1", "newsecret").
					Return(&models.User{UID: "uid-1", DoctorID: "d1"}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"message":"password reset successful"`,
		},
		{
			name:           "отсутствует авторизация",
			doctorID:       "d1",
			userUID:        "",
			requestBody:    Request{NewPassword: "newsecret"},
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"status":"Error","error":"unauthorized"}`,
		},
		{
			name:           "некорректный JSON",
			doctorID:       "d1",
			userUID:        "uid-1",
			requestBody:    "not a json",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid request body"}`,
		},
		{
			name:           "слишком короткий пароль",
			doctorID:       "d1",
			userUID:        "uid-1",
			requestBody:    Request{NewPassword: "abc"},
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field NewPassword is too short`,
		},
		{
			name:        "чужая учётная запись",
			doctorID:    "d2",
			userUID:     "uid-1",
			requestBody: Request{NewPassword: "newsecret"},
			setupMock: func(m *MockService) {
				m.On("ResetPassword", mock.Anything, "uid-1", "d2", "newsecret").
					Return(nil, authservice.ErrForbidden)
			},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `{"status":"Error","error":"forbidden"}`,
		},
		{
			name:        "врач не найден",
			doctorID:    "d1",
			userUID:     "uid-1",
			requestBody: Request{NewPassword: "newsecret"},
			setupMock: func(m *MockService) {
				m.On("ResetPassword", mock.Anything, "uid-1", "d1", "newsecret").
					Return(nil, repository.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"doctor not found"}`,
		},
		{
			name:        "ошибка сервиса",
			doctorID:    "d1",
			userUID:     "uid-1",
			requestBody: Request{NewPassword: "newsecret"},
			setupMock: func(m *MockService) {
				m.On("ResetPassword", mock.Anything, "uid-1", "d1", "newsecret").
					Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			var body []byte
			var err error
			if str, ok := tt.requestBody.(string); ok {
				body = []byte(str)
			} else {
				body, err = json.Marshal(tt.requestBody)
				assert.NoError(t, err)
			}

			req := httptest.NewRequest(http.MethodPost, "/reset-password/"+tt.doctorID, bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			if tt.userUID != "" {
				ctx := context.WithValue(req.Context(), middlewarectx.UserUID, tt.userUID)
				req = req.WithContext(ctx)
			}

			// Устанавливаем URL параметр doctorID для chi
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("doctorID", tt.doctorID)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)

			mockService.AssertExpectations(t)
		})
	}
}
