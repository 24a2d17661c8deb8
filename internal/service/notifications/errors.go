package notifications

import "errors"

var (
	// ErrRender возвращается при ошибке рендеринга шаблона письма
	ErrRender = errors.New("notifications: failed to render template")

	// ErrSend возвращается при ошибке отправки письма
	ErrSend = errors.New("notifications: failed to send email")

	// ErrNoRecipient возвращается, когда адрес получателя неизвестен
	ErrNoRecipient = errors.New("notifications: recipient email unknown")
)
