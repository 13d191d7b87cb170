package idempotency

import "errors"

var (
	// ErrTokenNotFound возвращается, когда токен идемпотентности не найден
	ErrTokenNotFound = errors.New("idempotency.repository: token not found")

	// ErrTokenExists возвращается при попытке повторно записать тот же токен
	// Вызывающая сторона перечитывает запись и возвращает сохранённый результат
	ErrTokenExists = errors.New("idempotency.repository: token already recorded")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("idempotency.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("idempotency.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("idempotency.repository: failed to scan row")
)
