// Package deleteaccount реализует HTTP-обработчик удаления учётной записи
// вместе со всеми картами пациентов её врача.
package deleteaccount

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
	"github.com/clinicboard/clinic-record-service/internal/storage/repository"
)

// Handler обрабатывает запросы на удаление учётной записи.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс удаления учётной записи.
type Service interface {
	DeleteAccount(ctx context.Context, userUID string) (int64, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Удаление учётной записи
// @Description Удаляет учётную запись вызывающего и все карты пациентов его врача в одной транзакции.
// @Tags Auth
// @Security BearerAuth
// @Success 204 "Учётная запись удалена"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /account [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.deleteaccount"

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

	deleted, err := h.service.DeleteAccount(r.Context(), userUID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Error("user not found", slog.String("user_uid", userUID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
			return
		}
		log.Error("failed to delete account", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal server error"))
		return
	}

	log.Info("account deleted", slog.String("user_uid", userUID),
		slog.Int64("patients_deleted", deleted))
	w.WriteHeader(http.StatusNoContent)
}
