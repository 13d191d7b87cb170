package allocate_hold

import "errors"

var (
	// ErrTenantNotFound возвращается, когда арендатор не найден или деактивирован
	ErrTenantNotFound = errors.New("allocate_hold: tenant not found")

	// ErrInvalidSlotRequest возвращается при некорректных входных данных
	// (нулевое время, недопустимый размер группы, время в прошлом)
	ErrInvalidSlotRequest = errors.New("allocate_hold: invalid slot request")

	// ErrSlotConflict возвращается, когда слот занят живым холдом
	// Это ожидаемый бизнес-результат, а не сбой: вызывающая сторона
	// предлагает гостю другое время
	ErrSlotConflict = errors.New("allocate_hold: slot is held by another session")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("allocate_hold: internal error")
)
