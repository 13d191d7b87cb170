package resprovider

import "errors"

var (
	// ErrTimeout возвращается, когда внешний сервис не ответил за отведённое время
	// Никогда не доходит до гостя: координатор подтверждения поглощает эту
	// ошибку fallback-путём
	ErrTimeout = errors.New("resprovider client: request timed out")

	// ErrInvalidResponse возвращается при некорректном или неполном ответе сервиса
	// (отсутствует reservation_id и т.п.) - трактуется так же, как отказ
	ErrInvalidResponse = errors.New("resprovider client: invalid response")

	// ErrRejected возвращается, когда сервис явно отклонил бронь (4xx)
	ErrRejected = errors.New("resprovider client: reservation rejected")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("resprovider client: internal error")
)
