package confirm_hold

import "errors"

var (
	// ErrHoldNotFound возвращается, когда холд не найден
	// Терминальная пользовательская ошибка: гость начинает поток заново
	ErrHoldNotFound = errors.New("confirm_hold: hold not found")

	// ErrHoldExpired возвращается, когда lease холда истёк или холд был отпущен
	// Терминальная пользовательская ошибка: гость начинает поток заново
	ErrHoldExpired = errors.New("confirm_hold: hold expired or released")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("confirm_hold: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	// Вызывающая сторона повторяет запрос с тем же токеном идемпотентности
	ErrInternal = errors.New("confirm_hold: internal error")
)
