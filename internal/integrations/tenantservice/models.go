package tenantservice

// Tenant модель арендатора (ресторана) из TenantService
type Tenant struct {
	ID                     int64  `json:"id"`
	Slug                   string `json:"slug"`
	Name                   string `json:"name"`
	Timezone               string `json:"timezone"`
	SeatingDurationMinutes int    `json:"seating_duration_minutes"` // Гранулярность окна посадки
	MaxPartySize           int    `json:"max_party_size"`
	Active                 bool   `json:"active"`
}

// ErrorResponse модель ошибки от TenantService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
