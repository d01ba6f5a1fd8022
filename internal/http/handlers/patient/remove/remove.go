// Package remove реализует HTTP-обработчик удаления карты пациента.
//
// При успешном удалении возвращается статус 204 без тела, а наблюдателям
// рассылается событие delete-patient с идентификатором удалённой карты.
package remove

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/clinicboard/clinic-record-service/internal/http/middlewarectx"
	"github.com/clinicboard/clinic-record-service/internal/http/response"
	"github.com/clinicboard/clinic-record-service/internal/lib/sl"
	patientservice "github.com/clinicboard/clinic-record-service/internal/services/patient"
	"github.com/clinicboard/clinic-record-service/internal/storage/repository"
)

// Handler управляет HTTP-запросами на удаление карт пациентов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики удаления карты.
type Service interface {
	Remove(ctx context.Context, callerUID, id string) error
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Удалить карту пациента
// @Description Удаляет карту пациента по идентификатору.
// @Tags Patients
// @Security BearerAuth
// @Param id path string true "Идентификатор карты"
// @Success 204 "Карта удалена"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Карта чужого врача"
// @Failure 404 {object} response.ErrorResponse "Карта не найдена"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при удалении"
// @Router /patients/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.patient.remove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user identification missing")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	if err := h.service.Remove(r.Context(), userUID, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			log.Error("patient not found", slog.String("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("patient not found"))
		case errors.Is(err, patientservice.ErrForbidden):
			log.Error("attempt to delete patient of another doctor", slog.String("id", id))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("forbidden"))
		default:
			log.Error("failed to delete patient", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not delete patient"))
		}
		return
	}

	log.Info("deleted patient", slog.String("id", id))
	w.WriteHeader(http.StatusNoContent)
}
