// Package models содержит доменные структуры регистрационной карты пациента,
// а также вспомогательные типы для приёма данных из JSON-запросов.
package models

import "time"

// Patient представляет регистрационную карту пациента.
// Карта принадлежит ровно одному врачу (поле DoctorID), произвольные
// поля анкеты хранятся в Details без серверной схемы.
type Patient struct {
	ID        string         `json:"id"`        // Сгенерированный идентификатор записи
	DoctorID  string         `json:"doctor_id"` // Идентификатор врача-владельца
	Name      string         `json:"name"`      // Имя пациента
	Details   map[string]any `json:"details,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// DummyPatient используется для приёма данных из JSON-запроса,
// прежде чем конвертировать их в Patient.
type DummyPatient struct {
	DoctorID string         `json:"doctor_id" validate:"required"` // Идентификатор врача
	Name     string         `json:"name" validate:"required"`      // Имя пациента
	Details  map[string]any `json:"details,omitempty"`             // Произвольные поля анкеты
}

// DummyPatientUpdate используется для приёма данных запроса на обновление карты.
// Идентификатор врача при обновлении не меняется.
type DummyPatientUpdate struct {
	Name    string         `json:"name" validate:"required"`
	Details map[string]any `json:"details,omitempty"`
}
