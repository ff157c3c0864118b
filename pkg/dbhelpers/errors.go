package dbhelpers

import (
	"fmt"
	"strings"
)

// HelperError - запрошен незарегистрированный тип БД.
type HelperError struct {
	DBType     string
	Registered []string
}

func (e *HelperError) Error() string {
	return fmt.Sprintf("unsupported database type %q (registered: %s)",
		e.DBType, strings.Join(e.Registered, ", "))
}

// ConnectionError - не удалось установить или проверить подключение.
type ConnectionError struct {
	DBType string
	Err    error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("failed to connect to %s database: %v", e.DBType, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }
