// Package services содержит бизнес-логику работы с картами пациентов:
// создание, выборку, обновление и удаление с рассылкой уведомлений
// наблюдателям и кешированием списков.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/clinicboard/clinic-record-service/internal/broadcast"
	"github.com/clinicboard/clinic-record-service/internal/models"
)

// ErrForbidden возвращается при попытке изменить карту чужого врача.
var ErrForbidden = errors.New("forbidden")

// cacheTTL — время жизни кешированных списков.
const cacheTTL = time.Hour

// CacheKeyAll — ключ кеша для выборки без фильтра по врачу.
// Экспортируется, чтобы удаление учётной записи сбрасывало те же ключи.
const CacheKeyAll = "patients:all"

// PatientRepository определяет методы для работы с картами пациентов в хранилище.
type PatientRepository interface {
	// CreatePatient сохраняет новую карту.
	CreatePatient(ctx context.Context, patient models.Patient) error
	// GetPatient возвращает карту по идентификатору.
	GetPatient(ctx context.Context, id string) (*models.Patient, error)
	// ListPatients возвращает карты врача; пустой doctorID — все карты.
	ListPatients(ctx context.Context, doctorID string) ([]*models.Patient, error)
	// UpdatePatient заменяет имя и поля анкеты и возвращает карту после обновления.
	UpdatePatient(ctx context.Context, id, name string, details map[string]any) (*models.Patient, error)
	// DeletePatient удаляет карту по идентификатору.
	DeletePatient(ctx context.Context, id string) error
}

// UserGetter возвращает пользователя по UID; нужен для проверки владения картой.
type UserGetter interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
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

// PatientService реализует бизнес-логику работы с картами пациентов.
type PatientService struct {
	repo  PatientRepository
	users UserGetter
	cache Cache
	hub   Broadcaster
	log   *slog.Logger
}

// NewPatientService создает новый экземпляр PatientService.
func NewPatientService(repo PatientRepository, users UserGetter, cache Cache,
	hub Broadcaster, log *slog.Logger) *PatientService {
	return &PatientService{
		repo:  repo,
		users: users,
		cache: cache,
		hub:   hub,
		log:   log,
	}
}

// CacheKeyDoctor возвращает ключ кеша списка карт одного врача.
func CacheKeyDoctor(doctorID string) string {
	return fmt.Sprintf("patients:doctor:%s", doctorID)
}

// invalidateLists сбрасывает кешированные выборки, затронутые мутацией.
// Ошибки кеша не прерывают операцию.
func (s *PatientService) invalidateLists(doctorID string) {
	for _, key := range []string{CacheKeyDoctor(doctorID), CacheKeyAll} {
		if err := s.cache.Invalidate(key); err != nil {
			s.log.Warn("failed to invalidate cache", slog.String("key", key),
				slog.Any("err", err))
		}
	}
}

// Create сохраняет новую карту пациента со сгенерированным идентификатором.
//
// Карту можно завести только на собственного врача: doctor_id запроса должен
// совпадать с идентификатором врача вызывающего, иначе возвращается ErrForbidden.
// После сохранения наблюдателям рассылается событие new-patient с картой целиком.
func (s *PatientService) Create(ctx context.Context, callerUID string, req models.DummyPatient) (*models.Patient, error) {
	caller, err := s.users.GetUser(ctx, callerUID)
	if err != nil {
		return nil, err
	}
	if req.DoctorID != caller.DoctorID {
		return nil, ErrForbidden
	}

	patient := models.Patient{
		ID:        uuid.NewString(),
		DoctorID:  req.DoctorID,
		Name:      req.Name,
		Details:   req.Details,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.CreatePatient(ctx, patient); err != nil {
		return nil, err
	}
	s.log.Info("created patient record", slog.String("id", patient.ID),
		slog.String("doctor_id", patient.DoctorID))

	s.invalidateLists(patient.DoctorID)
	s.hub.Broadcast(broadcast.Event{Type: broadcast.EventNewPatient, Payload: patient})
	return &patient, nil
}

// List возвращает карты пациентов врача doctorID, используя кеш или хранилище.
// Пустой doctorID означает отсутствие фильтра: возвращаются все карты.
func (s *PatientService) List(ctx context.Context, doctorID string) ([]*models.Patient, error) {
	key := CacheKeyAll
	if doctorID != "" {
		key = CacheKeyDoctor(doctorID)
	}

	var cached []*models.Patient
	found, err := s.cache.Get(key, &cached)
	if err != nil {
		s.log.Warn("failed to read cache", slog.String("key", key), slog.Any("err", err))
	}
	if found {
		return cached, nil
	}

	result, err := s.repo.ListPatients(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(key, result, cacheTTL); err != nil {
		s.log.Warn("failed to cache patient list", slog.String("key", key),
			slog.Any("err", err))
	}
	return result, nil
}

// Update заменяет имя и поля анкеты существующей карты и возвращает карту
// после обновления. Наблюдателям рассылается событие update-patient.
//
// Обновлять можно только карты собственного врача.
func (s *PatientService) Update(ctx context.Context, callerUID, id string, req models.DummyPatientUpdate) (*models.Patient, error) {
	existing, err := s.repo.GetPatient(ctx, id)
	if err != nil {
		return nil, err
	}
	caller, err := s.users.GetUser(ctx, callerUID)
	if err != nil {
		return nil, err
	}
	if existing.DoctorID != caller.DoctorID {
		return nil, ErrForbidden
	}

	updated, err := s.repo.UpdatePatient(ctx, id, req.Name, req.Details)
	if err != nil {
		return nil, err
	}
	s.log.Info("updated patient record", slog.String("id", id))

	s.invalidateLists(updated.DoctorID)
	s.hub.Broadcast(broadcast.Event{Type: broadcast.EventUpdatePatient, Payload: updated})
	return updated, nil
}

// Remove удаляет карту пациента. Наблюдателям рассылается событие
// delete-patient с идентификатором удалённой карты.
//
// Удалять можно только карты собственного врача.
func (s *PatientService) Remove(ctx context.Context, callerUID, id string) error {
	existing, err := s.repo.GetPatient(ctx, id)
	if err != nil {
		return err
	}
	caller, err := s.users.GetUser(ctx, callerUID)
	if err != nil {
		return err
	}
	if existing.DoctorID != caller.DoctorID {
		return ErrForbidden
	}

	if err := s.repo.DeletePatient(ctx, id); err != nil {
		return err
	}
	s.log.Info("deleted patient record", slog.String("id", id))

	s.invalidateLists(existing.DoctorID)
	s.hub.Broadcast(broadcast.Event{
		Type:    broadcast.EventDeletePatient,
		Payload: map[string]any{"id": id},
	})
	return nil
}
