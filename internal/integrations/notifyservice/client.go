package notifyservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент для работы с сервисом гостевых уведомлений
// Вызывается только из фоновых задач диспетчера: неуспех доставки никогда
// не становится ошибкой бронирования
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента сервиса уведомлений
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// SendGuestConfirmation отправляет гостю подтверждение бронирования
func (c *Client) SendGuestConfirmation(ctx context.Context, phone, templateID string, params []string) error {
	url := fmt.Sprintf("%s/internal/notifications/send", c.baseURL)

	payload, err := json.Marshal(SendRequest{
		Phone:      phone,
		TemplateID: templateID,
		Params:     params,
	})
	if err != nil {
		return fmt.Errorf("%w: failed to encode request: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var result SendResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	if !result.Delivered() {
		return fmt.Errorf("%w: phone=%s template=%s", ErrDeliveryFailed, phone, templateID)
	}

	c.log.Info("notifyservice: confirmation delivered, phone=%s template=%s", phone, templateID)
	return nil
}
