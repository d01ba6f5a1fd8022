// Package services содержит логику бизнес-уровня для работы с пользователями и аутентификацией.
package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/clinicboard/clinic-record-service/internal/broadcast"
	"github.com/clinicboard/clinic-record-service/internal/lib/jwt"
	"github.com/clinicboard/clinic-record-service/internal/lib/password"
	"github.com/clinicboard/clinic-record-service/internal/models"
	patientservice "github.com/clinicboard/clinic-record-service/internal/services/patient"
)

// ErrInvalidCredentials возвращается при неизвестном пользователе или неверном пароле.
// Для обоих случаев используется одна ошибка, чтобы не раскрывать, что именно не совпало.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrForbidden возвращается при попытке сбросить пароль чужой учётной записи.
var ErrForbidden = errors.New("forbidden")

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// GetUserByUsername возвращает пользователя по имени или ошибку, если не найден.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// GetUser возвращает пользователя по его UID.
	GetUser(ctx context.Context, userUID string) (*models.User, error)

	// UpdatePasswordByDoctorID перезаписывает хэш пароля по идентификатору врача.
	UpdatePasswordByDoctorID(ctx context.Context, doctorID, passwordHash string) (*models.User, error)

	// DeleteUserWithPatients удаляет пользователя вместе с картами его пациентов.
	// Возвращает идентификатор врача и идентификаторы удалённых карт.
	DeleteUserWithPatients(ctx context.Context, userUID string) (string, []string, error)
}

// Cache описывает сброс кешированных списочных выборок.
type Cache interface {
	Invalidate(key string) error
}

// Broadcaster рассылает события мутаций подключённым наблюдателям.
type Broadcaster interface {
	Broadcast(ev broadcast.Event)
}

// AuthService отвечает за вход, выдачу токенов и операции с учётной записью.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
	cache    Cache
	hub      Broadcaster
	log      *slog.Logger
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker, cache Cache,
	hub Broadcaster, log *slog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
		cache:    cache,
		hub:      hub,
		log:      log,
	}
}

// Login проверяет пару логин-пароль и выпускает JWT, привязанный к UID пользователя.
//
// Пароль сверяется только с bcrypt-хэшем; одна корректная пара учётных данных
// соответствует одному выпускаемому токену.
func (s *AuthService) Login(ctx context.Context, username, rawPassword string) (string, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return "", ErrInvalidCredentials
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", ErrInvalidCredentials
	}
	token, err := s.jwtMaker.GenerateToken(user.UID)
	if err != nil {
		return "", err
	}
	s.log.Info("issued token", slog.String("username", user.Username))
	return token, nil
}

// CurrentUser возвращает пользователя по UID, извлечённому из токена.
// Если учётная запись была удалена после выпуска токена, вернётся ErrNotFound хранилища.
func (s *AuthService) CurrentUser(ctx context.Context, userUID string) (*models.User, error) {
	return s.users.GetUser(ctx, userUID)
}

// ResetPassword перезаписывает пароль врача doctorID новым значением.
//
// Сбросить можно только собственный пароль: идентификатор врача вызывающего
// должен совпадать с doctorID, иначе возвращается ErrForbidden.
func (s *AuthService) ResetPassword(ctx context.Context, callerUID, doctorID, newPassword string) (*models.User, error) {
	caller, err := s.users.GetUser(ctx, callerUID)
	if err != nil {
		return nil, err
	}
	if caller.DoctorID != doctorID {
		return nil, ErrForbidden
	}
	hash, err := password.GetHash(newPassword)
	if err != nil {
		return nil, err
	}
	user, err := s.users.UpdatePasswordByDoctorID(ctx, doctorID, hash)
	if err != nil {
		return nil, err
	}
	s.log.Info("password reset", slog.String("doctor_id", doctorID))
	return user, nil
}

// DeleteAccount удаляет учётную запись вызывающего вместе со всеми картами
// его пациентов в одной транзакции хранилища. Возвращает число удалённых карт.
//
// После фиксации транзакции сбрасываются кешированные списки карт врача
// и рассылается событие delete-patient на каждую удалённую карту: для
// наблюдателей каскадное удаление неотличимо от поштучного.
func (s *AuthService) DeleteAccount(ctx context.Context, userUID string) (int64, error) {
	doctorID, patientIDs, err := s.users.DeleteUserWithPatients(ctx, userUID)
	if err != nil {
		return 0, err
	}
	s.log.Info("account deleted", slog.String("user_uid", userUID),
		slog.Int("patients_deleted", len(patientIDs)))

	for _, key := range []string{patientservice.CacheKeyDoctor(doctorID), patientservice.CacheKeyAll} {
		if err := s.cache.Invalidate(key); err != nil {
			s.log.Warn("failed to invalidate cache", slog.String("key", key),
				slog.Any("err", err))
		}
	}
	for _, id := range patientIDs {
		s.hub.Broadcast(broadcast.Event{
			Type:    broadcast.EventDeletePatient,
			Payload: map[string]any{"id": id},
		})
	}
	return int64(len(patientIDs)), nil
}
