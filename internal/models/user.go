// Package models содержит доменную модель пользователя-врача,
// включающую учётные данные, хэш пароля и уникальный идентификатор врача.
// Структура используется в бизнес‑логике и при работе с хранилищем.
package models

import "time"

// User представляет зарегистрированного врача системы.
type User struct {
	UID          string    `json:"uid"`       // Уникальный идентификатор пользователя
	Username     string    `json:"username"`  // Имя учётной записи (уникальное)
	Name         string    `json:"name"`      // Отображаемое имя врача
	DoctorID     string    `json:"doctor_id"` // Идентификатор врача (уникальный)
	PasswordHash string    `json:"-"`         // Хэш пароля, наружу не отдаётся
	CreatedAt    time.Time `json:"created_at"`
}
