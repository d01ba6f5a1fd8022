package repository

import (
	"context"
	"fmt"

	"github.com/clinicboard/clinic-record-service/internal/models"
)

// CreateDrug сохраняет новую запись справочника препаратов.
func (s *Storage) CreateDrug(ctx context.Context, drug models.Drug) error {
	const op = "storage.CreateDrug"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	details, err := marshalDetails(drug.Details)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	query := `INSERT INTO drugs (id, name, description, details, created_at)
			  VALUES ($1, $2, $3, $4, $5)`
	if _, err := s.DB.ExecContext(ctx, query,
		drug.ID, drug.Name, drug.Description, details, drug.CreatedAt); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListDrugs возвращает весь справочник препаратов без фильтрации.
func (s *Storage) ListDrugs(ctx context.Context) ([]*models.Drug, error) {
	const op = "storage.ListDrugs"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, description, details, created_at
			  FROM drugs
			  ORDER BY created_at`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Drug
	for rows.Next() {
		var d models.Drug
		var details []byte
		if err = rows.Scan(&d.ID, &d.Name, &d.Description, &details, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if err = unmarshalDetails(details, &d.Details); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &d)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
