package lock

import "errors"

var (
	// ErrLockFailed возвращается при ошибке обращения к Redis
	ErrLockFailed = errors.New("lock: redis operation failed")

	// ErrNotOwner возвращается, если блокировка уже принадлежит другому владельцу или истекла
	ErrNotOwner = errors.New("lock: lock not owned by this client")
)
