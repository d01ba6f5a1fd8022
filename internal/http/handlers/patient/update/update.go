// Package update реализует HTTP-обработчик обновления карты пациента.
//
// Поля карты заменяются телом запроса; карта после обновления возвращается
// вызывающему, а наблюдателям рассылается событие update-patient.
package update

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
	patientservice "github.com/clinicboard/clinic-record-service/internal/services/patient"
	"github.com/clinicboard/clinic-record-service/internal/storage/repository"
)

// Handler управляет HTTP-запросами на обновление карт пациентов.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики обновления карты.
type Service interface {
	Update(ctx context.Context, callerUID, id string, req models.DummyPatientUpdate) (*models.Patient, error)
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
// @Summary Обновить карту пациента
// @Description Заменяет поля карты пациента. Возвращает карту после обновления.
// @Tags Patients
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id path string true "Идентификатор карты"
// @Param request body models.DummyPatientUpdate true "Новые поля карты"
// @Success 200 {object} map[string]any "Карта после обновления"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Карта чужого врача"
// @Failure 404 {object} response.ErrorResponse "Карта не найдена"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при обновлении"
// @Router /patients/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.patient.update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")

	var req models.DummyPatientUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
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

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user identification missing")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	patient, err := h.service.Update(r.Context(), userUID, id, req)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			log.Error("patient not found", slog.String("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("patient not found"))
		case errors.Is(err, patientservice.ErrForbidden):
			log.Error("attempt to update patient of another doctor", slog.String("id", id))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("forbidden"))
		default:
			log.Error("failed to update patient", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not update patient"))
		}
		return
	}

	log.Info("updated patient", slog.String("id", patient.ID))
	render.JSON(w, r, response.OKWithData(patient))
}
