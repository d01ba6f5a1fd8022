package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/clinicboard/clinic-record-service/internal/models"
)

// GetUserByUsername возвращает пользователя по его username.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.GetUserByUsername"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, username, name, doctor_id, password_hash, created_at
			  FROM users
			  WHERE username = $1`
	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query, username)
	if err := row.Scan(&u.UID, &u.Username, &u.Name, &u.DoctorID,
		&u.PasswordHash, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUser возвращает пользователя по его UID.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, username, name, doctor_id, password_hash, created_at
			  FROM users
			  WHERE uid = $1`
	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query, userUID)
	if err := row.Scan(&u.UID, &u.Username, &u.Name, &u.DoctorID,
		&u.PasswordHash, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// UpdatePasswordByDoctorID перезаписывает хэш пароля пользователя,
// найденного по идентификатору врача, и возвращает обновлённого пользователя.
func (s *Storage) UpdatePasswordByDoctorID(ctx context.Context, doctorID, passwordHash string) (*models.User, error) {
	const op = "storage.UpdatePasswordByDoctorID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET password_hash = $1
			  WHERE doctor_id = $2
			  RETURNING uid, username, name, doctor_id, password_hash, created_at`
	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query, passwordHash, doctorID)
	if err := row.Scan(&u.UID, &u.Username, &u.Name, &u.DoctorID,
		&u.PasswordHash, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// DeleteUserWithPatients удаляет пользователя и все карты пациентов его врача
// в одной транзакции. Возвращает идентификатор врача и идентификаторы
// удалённых карт, чтобы вызывающий мог сбросить кеш и разослать события.
//
// Частичного удаления не бывает: либо фиксируются обе операции, либо ни одной.
func (s *Storage) DeleteUserWithPatients(ctx context.Context, userUID string) (string, []string, error) {
	const op = "storage.DeleteUserWithPatients"
	select {
	case <-ctx.Done():
		return "", nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var doctorID string
	row := tx.QueryRowContext(ctx, `SELECT doctor_id FROM users WHERE uid = $1`, userUID)
	if err = row.Scan(&doctorID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := tx.QueryContext(ctx,
		`DELETE FROM patients WHERE doctor_id = $1 RETURNING id`, doctorID)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	var patientIDs []string
	for rows.Next() {
		var id string
		if err = rows.Scan(&id); err != nil {
			_ = rows.Close()
			return "", nil, fmt.Errorf("%s: %w", op, err)
		}
		patientIDs = append(patientIDs, id)
	}
	if err = rows.Err(); err != nil {
		_ = rows.Close()
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	_ = rows.Close()

	if _, err = tx.ExecContext(ctx, `DELETE FROM users WHERE uid = $1`, userUID); err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	return doctorID, patientIDs, nil
}
