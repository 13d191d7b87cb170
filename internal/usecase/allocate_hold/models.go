package allocate_hold

import "time"

// Request модель запроса на аллокацию холда
type Request struct {
	TenantID    int64     // ID арендатора (ресторана)
	BookingTime time.Time // Запрошенное время бронирования
	PartySize   int       // Размер группы гостей
	SessionID   string    // Сессия виджета
}

// Response модель ответа с созданным холдом
type Response struct {
	HoldID    string    // UUID холда
	TenantID  int64     // ID арендатора
	SlotKey   string    // Канонический ключ слота (для отладки и логов)
	PartySize int       // Размер группы
	SessionID string    // Сессия виджета
	CreatedAt time.Time // Время создания
	ExpiresAt time.Time // Время истечения lease
}
