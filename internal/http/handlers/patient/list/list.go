// Package list реализует HTTP-обработчик выдачи списка карт пациентов.
//
// Список фильтруется по идентификатору врача из query-параметра doctorID;
// отсутствующий параметр означает отсутствие фильтра, возвращаются все карты.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/clinicboard/clinic-record-service/internal/http/response"
	"github.com/clinicboard/clinic-record-service/internal/lib/sl"
	"github.com/clinicboard/clinic-record-service/internal/models"
)

// Handler обрабатывает запросы списка карт пациентов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс выборки карт пациентов.
type Service interface {
	List(ctx context.Context, doctorID string) ([]*models.Patient, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список карт пациентов
// @Description Возвращает карты пациентов врача doctorID; без параметра возвращаются все карты.
// @Tags Patients
// @Produce  json
// @Param doctorID query string false "Идентификатор врача"
// @Success 200 {object} map[string]any "Список карт"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при выборке"
// @Router /patients [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.patient.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	doctorID := r.URL.Query().Get("doctorID")

	patients, err := h.service.List(r.Context(), doctorID)
	if err != nil {
		log.Error("failed to list patients", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list patients"))
		return
	}
	if patients == nil {
		patients = []*models.Patient{}
	}

	log.Info("listed patients", slog.String("doctor_id", doctorID),
		slog.Int("count", len(patients)))
	render.JSON(w, r, response.OKWithData(patients))
}
