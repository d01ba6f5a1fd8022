// Package models содержит доменную модель записи справочника препаратов.
package models

import "time"

// Drug представляет запись справочника препаратов.
// Запись не привязана к врачу и доступна всем.
type Drug struct {
	ID          string         `json:"id"` // Сгенерированный идентификатор записи
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Details     map[string]any `json:"details,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// DummyDrug используется для приёма данных из JSON-запроса,
// прежде чем конвертировать их в Drug.
type DummyDrug struct {
	Name        string         `json:"name" validate:"required"`
	Description string         `json:"description,omitempty"`
	Details     map[string]any `json:"details,omitempty"`
}
