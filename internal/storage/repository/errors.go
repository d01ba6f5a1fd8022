package repository

import "errors"

// ErrNotFound возвращается, когда запись с указанным идентификатором
// отсутствует в хранилище. Обработчики транслируют её в HTTP 404.
var ErrNotFound = errors.New("record not found")
