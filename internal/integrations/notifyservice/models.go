package notifyservice

// SendRequest запрос на отправку гостевого уведомления (WhatsApp/SMS)
// Рендеринг шаблона и транспорт - забота внешнего сервиса
type SendRequest struct {
	Phone      string   `json:"phone"`
	TemplateID string   `json:"templateId"`
	Params     []string `json:"params"`
}

// SendResponse результат отправки уведомления
type SendResponse struct {
	Status string `json:"status"` // "delivered" | "failed"
}

// Delivered возвращает true, если уведомление доставлено
func (r *SendResponse) Delivered() bool {
	return r.Status == "delivered"
}

// ErrorResponse модель ошибки от сервиса уведомлений
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
