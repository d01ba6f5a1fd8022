// Package currentuser реализует HTTP-обработчик выдачи текущего пользователя
// по идентификатору, извлечённому из JWT токена.
package currentuser

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/clinicboard/clinic-record-service/internal/http/middlewarectx"
	"github.com/clinicboard/clinic-record-service/internal/http/response"
	"github.com/clinicboard/clinic-record-service/internal/lib/sl"
	"github.com/clinicboard/clinic-record-service/internal/models"
	"github.com/clinicboard/clinic-record-service/internal/storage/repository"
)

// Handler обрабатывает запросы текущего пользователя.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс получения пользователя по UID.
type Service interface {
	CurrentUser(ctx context.Context, userUID string) (*models.User, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Текущий пользователь
// @Description Возвращает пользователя, которому принадлежит предъявленный токен.
// @Tags Auth
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Данные пользователя"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /user [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.currentuser"

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

	user, err := h.service.CurrentUser(r.Context(), userUID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Error("user not found", slog.String("user_uid", userUID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
			return
		}
		log.Error("failed to get user", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal server error"))
		return
	}

	render.JSON(w, r, response.OKWithData(user))
}
