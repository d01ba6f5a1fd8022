// Package create реализует HTTP-обработчик добавления препарата в справочник.
//
// После сохранения всем подключённым наблюдателям рассылается событие new-drug.
package create

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/clinicboard/clinic-record-service/internal/http/response"
	"github.com/clinicboard/clinic-record-service/internal/lib/sl"
	"github.com/clinicboard/clinic-record-service/internal/models"
)

// Handler управляет HTTP-запросами на добавление препаратов.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики добавления препарата.
type Service interface {
	Create(ctx context.Context, req models.DummyDrug) (*models.Drug, error)
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
// @Summary Добавить препарат
// @Description Добавляет запись в справочник препаратов. Возвращает созданную запись.
// @Tags Drugs
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.DummyDrug true "Данные препарата"
// @Success 201 {object} map[string]any "Созданная запись"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при добавлении"
// @Router /drugs [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.drug.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyDrug
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

	drug, err := h.service.Create(r.Context(), req)
	if err != nil {
		log.Error("failed to create drug", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create drug"))
		return
	}

	log.Info("created drug", slog.String("id", drug.ID))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithData(drug))
}
