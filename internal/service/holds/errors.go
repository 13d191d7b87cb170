package holds

import "errors"

var (
	// ErrHoldNotFound холд не найден
	ErrHoldNotFound = errors.New("holds: hold not found")
	// ErrInternal внутренняя ошибка сервиса
	ErrInternal = errors.New("holds: internal error")
)
