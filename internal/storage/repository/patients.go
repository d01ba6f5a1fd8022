package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/clinicboard/clinic-record-service/internal/models"
)

// marshalDetails сериализует произвольные поля анкеты в JSONB.
// Пустая карта хранится как NULL.
func marshalDetails(details map[string]any) (any, error) {
	if len(details) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(details)
	if err != nil {
		return nil, err
	}
	return raw, nil
}

// unmarshalDetails разбирает JSONB-колонку обратно в карту полей анкеты.
func unmarshalDetails(raw []byte, dst *map[string]any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dst)
}

// CreatePatient сохраняет новую карту пациента.
func (s *Storage) CreatePatient(ctx context.Context, patient models.Patient) error {
	const op = "storage.CreatePatient"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	details, err := marshalDetails(patient.Details)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	query := `INSERT INTO patients (id, doctor_id, name, details, created_at)
			  VALUES ($1, $2, $3, $4, $5)`
	if _, err := s.DB.ExecContext(ctx, query,
		patient.ID, patient.DoctorID, patient.Name, details, patient.CreatedAt); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetPatient возвращает карту пациента по её идентификатору.
func (s *Storage) GetPatient(ctx context.Context, id string) (*models.Patient, error) {
	const op = "storage.GetPatient"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, doctor_id, name, details, created_at
			  FROM patients
			  WHERE id = $1`
	p := &models.Patient{}
	var details []byte
	row := s.DB.QueryRowContext(ctx, query, id)
	if err := row.Scan(&p.ID, &p.DoctorID, &p.Name, &details, &p.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := unmarshalDetails(details, &p.Details); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// ListPatients возвращает карты пациентов указанного врача.
// Пустой doctorID означает отсутствие фильтра: возвращаются все карты.
func (s *Storage) ListPatients(ctx context.Context, doctorID string) ([]*models.Patient, error) {
	const op = "storage.ListPatients"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, doctor_id, name, details, created_at
			  FROM patients
			  WHERE $1 = '' OR doctor_id = $1
			  ORDER BY created_at`
	rows, err := s.DB.QueryContext(ctx, query, doctorID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Patient
	for rows.Next() {
		var p models.Patient
		var details []byte
		if err = rows.Scan(&p.ID, &p.DoctorID, &p.Name, &details, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if err = unmarshalDetails(details, &p.Details); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdatePatient заменяет имя и поля анкеты существующей карты
// и возвращает карту после обновления.
func (s *Storage) UpdatePatient(ctx context.Context, id, name string, detailsMap map[string]any) (*models.Patient, error) {
	const op = "storage.UpdatePatient"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	details, err := marshalDetails(detailsMap)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	query := `UPDATE patients
			  SET name = $1, details = $2
			  WHERE id = $3
			  RETURNING id, doctor_id, name, details, created_at`
	p := &models.Patient{}
	var rawDetails []byte
	row := s.DB.QueryRowContext(ctx, query, name, details, id)
	if err = row.Scan(&p.ID, &p.DoctorID, &p.Name, &rawDetails, &p.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = unmarshalDetails(rawDetails, &p.Details); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// DeletePatient удаляет карту пациента по идентификатору.
func (s *Storage) DeletePatient(ctx context.Context, id string) error {
	const op = "storage.DeletePatient"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}
