package notifyservice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrInternal возвращается при внутренних ошибках клиента
var ErrInternal = errors.New("notifyservice client: internal error")

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент сервиса уведомлений
// Все вызовы fire-and-forget: ошибки доставки логируются и никогда
// не откатывают бронирование
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента сервиса уведомлений
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		timeout: timeout,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// Dispatch отправляет событие в сервис уведомлений
func (c *Client) Dispatch(ctx context.Context, event *BookingEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal event: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/internal/notifications", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("%w: unexpected status code %d", ErrInternal, resp.StatusCode)
	}

	return nil
}

// DispatchAsync отправляет событие в отдельной горутине с graceful degradation
// Недоступность сервиса уведомлений не влияет на результат бронирования,
// ошибка только логируется
func (c *Client) DispatchAsync(event *BookingEvent) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		defer cancel()

		if err := c.Dispatch(ctx, event); err != nil {
			c.log.Error("NotifyService unavailable, event dropped: type=%s booking_id=%d: %v",
				event.Type, event.BookingID, err)
			return
		}

		c.log.Info("Notification dispatched: type=%s booking_id=%d", event.Type, event.BookingID)
	}()
}
