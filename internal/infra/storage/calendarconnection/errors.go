package calendarconnection

import "errors"

var (
	// ErrConnectionNotFound возвращается, когда у терапевта нет активного подключения календаря
	ErrConnectionNotFound = errors.New("calendarconnection.repository: connection not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("calendarconnection.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("calendarconnection.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("calendarconnection.repository: failed to scan row")
)
