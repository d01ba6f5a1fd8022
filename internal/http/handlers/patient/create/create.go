// Package create реализует HTTP-обработчик для создания карт пациентов.
//
// Handler принимает JSON-запрос с данными карты, валидирует их, извлекает идентификатор
// пользователя из контекста, вызывает бизнес-логику создания карты через сервис
// и возвращает созданную карту в JSON-формате со статусом 201.
//
// После успешного сохранения всем подключённым наблюдателям рассылается событие new-patient.
package create

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/clinicboard/clinic-record-service/internal/http/middlewarectx"
	"github.com/clinicboard/clinic-record-service/internal/http/response"
	"github.com/clinicboard/clinic-record-service/internal/lib/sl"
	"github.com/clinicboard/clinic-record-service/internal/models"
	patientservice "github.com/clinicboard/clinic-record-service/internal/services/patient"
)

// Handler управляет HTTP-запросами на создание карт пациентов.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики для создания карт
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики создания карты пациента.
type Service interface {
	Create(ctx context.Context, callerUID string, req models.DummyPatient) (*models.Patient, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Создать карту пациента
// @Description Создает новую карту пациента для врача вызывающего. Возвращает созданную карту.
// @Tags Patients
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.DummyPatient true "Данные карты пациента"
// @Success 201 {object} map[string]any "Созданная карта"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Карта чужого врача"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при создании карты"
// @Router /patients [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.patient.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyPatient
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.Any("request", req))

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

	patient, err := h.service.Create(r.Context(), userUID, req)
	if err != nil {
		if errors.Is(err, patientservice.ErrForbidden) {
			log.Error("attempt to create patient for another doctor",
				slog.String("doctor_id", req.DoctorID))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("forbidden"))
			return
		}
		log.Error("failed to create patient", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create patient"))
		return
	}

	log.Info("created patient", slog.String("id", patient.ID))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithData(patient))
}
