// Package resetpassword реализует HTTP-обработчик сброса пароля врача.
//
// Сбросить можно только собственный пароль: идентификатор врача в пути
// должен совпадать с идентификатором врача вызывающего.
package resetpassword

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/clinicboard/clinic-record-service/internal/http/middlewarectx"
	"github.com/clinicboard/clinic-record-service/internal/http/response"
	"github.com/clinicboard/clinic-record-service/internal/lib/sl"
	"github.com/clinicboard/clinic-record-service/internal/models"
	authservice "github.com/clinicboard/clinic-record-service/internal/services/auth"
	"github.com/clinicboard/clinic-record-service/internal/storage/repository"
)

// Request — структура входных данных для сброса пароля.
type Request struct {
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// Handler обрабатывает запросы на сброс пароля.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс сброса пароля.
type Service interface {
	ResetPassword(ctx context.Context, callerUID, doctorID, newPassword string) (*models.User, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Сброс пароля
// @Description Перезаписывает пароль врача. Доступен только владельцу учётной записи.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param doctorID path string true "Идентификатор врача"
// @Param request body Request true "Новый пароль"
// @Success 200 {object} map[string]any "Пароль обновлён"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 403 {object} response.ErrorResponse "Чужая учётная запись"
// @Failure 404 {object} response.ErrorResponse "Врач не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /reset-password/{doctorID} [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.resetpassword"

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

	doctorID := chi.URLParam(r, "doctorID")

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	_, err := h.service.ResetPassword(r.Context(), userUID, doctorID, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, authservice.ErrForbidden):
			log.Error("attempt to reset password of another doctor",
				slog.String("doctor_id", doctorID))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("forbidden"))
		case errors.Is(err, repository.ErrNotFound):
			log.Error("doctor not found", slog.String("doctor_id", doctorID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("doctor not found"))
		default:
			log.Error("failed to reset password", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("internal server error"))
		}
		return
	}

	log.Info("password reset", slog.String("doctor_id", doctorID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "password reset successful",
	}))
}
