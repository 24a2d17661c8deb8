package run_reminder_pass

import "errors"

var (
	// ErrInternal возвращается, когда не удалось получить кандидатов ни для одного окна
	ErrInternal = errors.New("run_reminder_pass: internal error")
)
