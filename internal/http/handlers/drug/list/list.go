// Package list реализует HTTP-обработчик выдачи справочника препаратов.
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

// Handler обрабатывает запросы справочника препаратов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс выборки справочника.
type Service interface {
	List(ctx context.Context) ([]*models.Drug, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Справочник препаратов
// @Description Возвращает весь справочник препаратов.
// @Tags Drugs
// @Produce  json
// @Success 200 {object} map[string]any "Список препаратов"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при выборке"
// @Router /drugs [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.drug.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	drugs, err := h.service.List(r.Context())
	if err != nil {
		log.Error("failed to list drugs", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list drugs"))
		return
	}
	if drugs == nil {
		drugs = []*models.Drug{}
	}

	log.Info("listed drugs", slog.Int("count", len(drugs)))
	render.JSON(w, r, response.OKWithData(drugs))
}
