// Package services содержит бизнес-логику работы со справочником препаратов.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/clinicboard/clinic-record-service/internal/broadcast"
	"github.com/clinicboard/clinic-record-service/internal/models"
)

// cacheKeyDrugs — ключ кеша для полного справочника препаратов.
const cacheKeyDrugs = "drugs:all"

// cacheTTL — время жизни кешированного справочника.
const cacheTTL = time.Hour

// DrugRepository определяет методы для работы со справочником в хранилище.
type DrugRepository interface {
	// CreateDrug сохраняет новую запись справочника.
	CreateDrug(ctx context.Context, drug models.Drug) error
	// ListDrugs возвращает весь справочник.
	ListDrugs(ctx context.Context) ([]*models.Drug, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Broadcaster рассылает события мутаций подключённым наблюдателям.
type Broadcaster interface {
	Broadcast(ev broadcast.Event)
}

// DrugService реализует бизнес-логику работы со справочником препаратов.
type DrugService struct {
	repo  DrugRepository
	cache Cache
	hub   Broadcaster
	log   *slog.Logger
}

// NewDrugService создает новый экземпляр DrugService.
func NewDrugService(repo DrugRepository, cache Cache, hub Broadcaster, log *slog.Logger) *DrugService {
	return &DrugService{
		repo:  repo,
		cache: cache,
		hub:   hub,
		log:   log,
	}
}

// Create сохраняет новую запись справочника со сгенерированным идентификатором.
// После сохранения наблюдателям рассылается событие new-drug с записью целиком.
func (s *DrugService) Create(ctx context.Context, req models.DummyDrug) (*models.Drug, error) {
	drug := models.Drug{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		Details:     req.Details,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.CreateDrug(ctx, drug); err != nil {
		return nil, err
	}
	s.log.Info("created drug record", slog.String("id", drug.ID))

	if err := s.cache.Invalidate(cacheKeyDrugs); err != nil {
		s.log.Warn("failed to invalidate drug cache", slog.Any("err", err))
	}
	s.hub.Broadcast(broadcast.Event{Type: broadcast.EventNewDrug, Payload: drug})
	return &drug, nil
}

// List возвращает весь справочник препаратов, используя кеш или хранилище.
func (s *DrugService) List(ctx context.Context) ([]*models.Drug, error) {
	var cached []*models.Drug
	found, err := s.cache.Get(cacheKeyDrugs, &cached)
	if err != nil {
		s.log.Warn("failed to read drug cache", slog.Any("err", err))
	}
	if found {
		return cached, nil
	}

	result, err := s.repo.ListDrugs(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(cacheKeyDrugs, result, cacheTTL); err != nil {
		s.log.Warn("failed to cache drug list", slog.Any("err", err))
	}
	return result, nil
}
