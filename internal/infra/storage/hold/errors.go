package hold

import "errors"

var (
	// ErrHoldNotFound возвращается, когда холд не найден
	ErrHoldNotFound = errors.New("hold.repository: hold not found")

	// ErrSlotTaken возвращается, когда слот уже занят активным холдом
	// Уникальный частичный индекс (tenant_id, slot_key) WHERE status='active'
	// гарантирует, что ровно один из конкурирующих INSERT выигрывает
	ErrSlotTaken = errors.New("hold.repository: slot is taken by an active hold")

	// ErrHoldNotActive возвращается при попытке перевести холд не из active статуса
	// Терминальные статусы неизменяемы, повторный перевод это no-op на уровне выше
	ErrHoldNotActive = errors.New("hold.repository: hold is not active")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("hold.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("hold.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("hold.repository: failed to scan row")
)
