package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicboard/clinic-record-service/internal/models"
)

func TestStorage_Users_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("пропускаем интеграционный тест в коротком режиме")
	}

	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	verification := NewTestVerification(storage)
	ctx := context.Background()

	factory.CreateUser(t, "11111111-1111-1111-1111-111111111111",
		"drsmith", "Dr. Smith", "d1", "$2a$10$abcdefghijklmnopqrstuv")

	t.Run("получение пользователя по username", func(t *testing.T) {
		user, err := storage.GetUserByUsername(ctx, "drsmith")
		require.NoError(t, err)
		assert.Equal(t, "11111111-1111-1111-1111-111111111111", user.UID)
		assert.Equal(t, "Dr. Smith", user.Name)
		assert.Equal(t, "d1", user.DoctorID)
	})

	t.Run("неизвестный username", func(t *testing.T) {
		_, err := storage.GetUserByUsername(ctx, "nobody")
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("получение пользователя по UID", func(t *testing.T) {
		user, err := storage.GetUser(ctx, "11111111-1111-1111-1111-111111111111")
		require.NoError(t, err)
		assert.Equal(t, "drsmith", user.Username)
	})

	t.Run("неизвестный UID", func(t *testing.T) {
		_, err := storage.GetUser(ctx, "99999999-9999-9999-9999-999999999999")
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("смена пароля по идентификатору врача", func(t *testing.T) {
		user, err := storage.UpdatePasswordByDoctorID(ctx, "d1", "$2a$10$newhashnewhashnewhashn")
		require.NoError(t, err)
		assert.Equal(t, "$2a$10$newhashnewhashnewhashn", user.PasswordHash)

		_, err = storage.UpdatePasswordByDoctorID(ctx, "unknown-doctor", "hash")
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("удаление аккаунта вместе с картами пациентов", func(t *testing.T) {
		factory.CreateUser(t, "22222222-2222-2222-2222-222222222222",
			"drjones", "Dr. Jones", "d2", "$2a$10$abcdefghijklmnopqrstuv")
		factory.CreatePatient(t, "aaaaaaaa-0000-0000-0000-000000000001", "d2", "Ivanov")
		factory.CreatePatient(t, "aaaaaaaa-0000-0000-0000-000000000002", "d2", "Petrov")
		factory.CreatePatient(t, "aaaaaaaa-0000-0000-0000-000000000003", "d1", "Sidorov")

		doctorID, patientIDs, err := storage.DeleteUserWithPatients(ctx, "22222222-2222-2222-2222-222222222222")
		require.NoError(t, err)
		assert.Equal(t, "d2", doctorID)
		assert.ElementsMatch(t, []string{
			"aaaaaaaa-0000-0000-0000-000000000001",
			"aaaaaaaa-0000-0000-0000-000000000002",
		}, patientIDs)

		verification.VerifyUserDeleted(t, "22222222-2222-2222-2222-222222222222")
		verification.VerifyPatientCount(t, "d2", 0)
		// Карты других врачей не затронуты.
		verification.VerifyPatientCount(t, "d1", 1)
	})

	t.Run("удаление несуществующего аккаунта", func(t *testing.T) {
		_, _, err := storage.DeleteUserWithPatients(ctx, "33333333-3333-3333-3333-333333333333")
		assert.True(t, errors.Is(err, ErrNotFound))
	})
}

func TestStorage_Patients_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("пропускаем интеграционный тест в коротком режиме")
	}

	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	t.Run("создание и чтение карты", func(t *testing.T) {
		patient := models.Patient{
			ID:       "bbbbbbbb-0000-0000-0000-000000000001",
			DoctorID: "d1",
			Name:     "Ivanov",
			Details: map[string]any{
				"diagnosis": "flu",
				"age":       float64(42),
			},
			CreatedAt: now,
		}
		require.NoError(t, storage.CreatePatient(ctx, patient))

		got, err := storage.GetPatient(ctx, patient.ID)
		require.NoError(t, err)
		assert.Equal(t, "Ivanov", got.Name)
		assert.Equal(t, "d1", got.DoctorID)
		assert.Equal(t, "flu", got.Details["diagnosis"])
		assert.Equal(t, float64(42), got.Details["age"])
	})

	t.Run("чтение несуществующей карты", func(t *testing.T) {
		_, err := storage.GetPatient(ctx, "bbbbbbbb-0000-0000-0000-000000000099")
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("список карт с фильтром по врачу", func(t *testing.T) {
		require.NoError(t, storage.CreatePatient(ctx, models.Patient{
			ID: "bbbbbbbb-0000-0000-0000-000000000002", DoctorID: "d2",
			Name: "Petrov", CreatedAt: now.Add(time.Second),
		}))

		mine, err := storage.ListPatients(ctx, "d1")
		require.NoError(t, err)
		require.Len(t, mine, 1)
		assert.Equal(t, "Ivanov", mine[0].Name)

		// Пустой doctorID снимает фильтр.
		all, err := storage.ListPatients(ctx, "")
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})

	t.Run("порядок списка по времени создания", func(t *testing.T) {
		all, err := storage.ListPatients(ctx, "")
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, "Ivanov", all[0].Name)
		assert.Equal(t, "Petrov", all[1].Name)
	})

	t.Run("обновление карты", func(t *testing.T) {
		updated, err := storage.UpdatePatient(ctx,
			"bbbbbbbb-0000-0000-0000-000000000001",
			"Ivanov I.I.", map[string]any{"diagnosis": "recovered"})
		require.NoError(t, err)
		assert.Equal(t, "Ivanov I.I.", updated.Name)
		assert.Equal(t, "recovered", updated.Details["diagnosis"])
		// Врач и время создания не меняются.
		assert.Equal(t, "d1", updated.DoctorID)
	})

	t.Run("обновление без изменений возвращает карту как есть", func(t *testing.T) {
		before, err := storage.GetPatient(ctx, "bbbbbbbb-0000-0000-0000-000000000001")
		require.NoError(t, err)

		after, err := storage.UpdatePatient(ctx, before.ID, before.Name, before.Details)
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})

	t.Run("обновление несуществующей карты", func(t *testing.T) {
		_, err := storage.UpdatePatient(ctx,
			"bbbbbbbb-0000-0000-0000-000000000099", "Nobody", nil)
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("удаление карты", func(t *testing.T) {
		err := storage.DeletePatient(ctx, "bbbbbbbb-0000-0000-0000-000000000002")
		require.NoError(t, err)

		_, err = storage.GetPatient(ctx, "bbbbbbbb-0000-0000-0000-000000000002")
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("повторное удаление", func(t *testing.T) {
		err := storage.DeletePatient(ctx, "bbbbbbbb-0000-0000-0000-000000000002")
		assert.True(t, errors.Is(err, ErrNotFound))
	})
}

func TestStorage_Drugs_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("пропускаем интеграционный тест в коротком режиме")
	}

	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	t.Run("пустой справочник", func(t *testing.T) {
		drugs, err := storage.ListDrugs(ctx)
		require.NoError(t, err)
		assert.Empty(t, drugs)
	})

	t.Run("создание и список препаратов", func(t *testing.T) {
		require.NoError(t, storage.CreateDrug(ctx, models.Drug{
			ID: "cccccccc-0000-0000-0000-000000000001", Name: "Aspirin",
			Description: "painkiller",
			Details:     map[string]any{"dosage": "500mg"},
			CreatedAt:   now,
		}))
		require.NoError(t, storage.CreateDrug(ctx, models.Drug{
			ID: "cccccccc-0000-0000-0000-000000000002", Name: "Ibuprofen",
			CreatedAt: now.Add(time.Second),
		}))

		drugs, err := storage.ListDrugs(ctx)
		require.NoError(t, err)
		require.Len(t, drugs, 2)
		assert.Equal(t, "Aspirin", drugs[0].Name)
		assert.Equal(t, "500mg", drugs[0].Details["dosage"])
		assert.Equal(t, "Ibuprofen", drugs[1].Name)
		assert.Nil(t, drugs[1].Details)
	})
}

func TestStorage_CheckDatabaseReady_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("пропускаем интеграционный тест в коротком режиме")
	}

	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()

	t.Run("база готова", func(t *testing.T) {
		assert.NoError(t, storage.CheckDatabaseReady(ctx))
	})

	t.Run("нет нужной таблицы", func(t *testing.T) {
		_, err := storage.DB.Exec(`DROP TABLE patients CASCADE`)
		require.NoError(t, err)

		assert.Error(t, storage.CheckDatabaseReady(ctx))
	})
}
