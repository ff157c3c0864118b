package dbhelpers

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/BritishGeologicalSurvey/etlhelper/pkg/dbparams"
)

// Connection связывает открытый *sql.DB с движком его базы данных.
// Все операции пакета etl принимают Connection, чтобы знать и как
// выполнять запросы, и как строить плейсхолдеры.
type Connection struct {
	db     *sql.DB
	helper Helper
}

// DB возвращает нижележащий пул соединений.
func (c *Connection) DB() *sql.DB { return c.db }

// Helper возвращает движок подключения.
func (c *Connection) Helper() Helper { return c.helper }

// DBType возвращает тип базы данных подключения.
func (c *Connection) DBType() string { return c.helper.DBType() }

// Ping проверяет живость подключения.
func (c *Connection) Ping(ctx context.Context) error {
	if err := c.db.PingContext(ctx); err != nil {
		return &ConnectionError{DBType: c.helper.DBType(), Err: err}
	}
	return nil
}

// Close закрывает пул соединений.
func (c *Connection) Close() error { return c.db.Close() }

// WrapDB оборачивает уже открытый *sql.DB в Connection. Полезно,
// когда пул создается вне библиотеки (например, из пула приложения).
func WrapDB(db *sql.DB, dbType string) (*Connection, error) {
	h, err := FromDBType(dbType)
	if err != nil {
		return nil, err
	}
	return &Connection{db: db, helper: h}, nil
}

// Connect открывает подключение по DbParams. passwordVariable - имя
// переменной окружения с паролем; пустая строка означает подключение
// без пароля. Подключение проверяется через PingContext.
func Connect(ctx context.Context, params dbparams.DbParams, passwordVariable string) (*Connection, error) {
	h, err := FromDBType(params.DBType())
	if err != nil {
		return nil, err
	}
	if err := ValidateParams(params); err != nil {
		return nil, err
	}

	password, err := Password(passwordVariable)
	if err != nil {
		return nil, err
	}

	dsn, err := h.ConnectionString(params, password)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(h.DriverName(), dsn)
	if err != nil {
		return nil, &ConnectionError{DBType: h.DBType(), Err: err}
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, &ConnectionError{DBType: h.DBType(), Err: err}
	}
	return &Connection{db: db, helper: h}, nil
}

// ValidateParams проверяет состав DbParams против требований движка:
// все обязательные ключи присутствуют, посторонних ключей нет.
func ValidateParams(params dbparams.DbParams) error {
	h, err := FromDBType(params.DBType())
	if err != nil {
		return err
	}

	allowed := map[string]bool{"dbtype": true}
	var missing []string
	for _, key := range h.RequiredParams() {
		allowed[key] = true
		if params[key] == "" {
			missing = append(missing, key)
		}
	}
	for _, key := range h.OptionalParams() {
		allowed[key] = true
	}

	var extra []string
	for key := range params {
		if !allowed[key] {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)

	if len(missing) > 0 {
		return &dbparams.ParamsError{Msg: fmt.Sprintf(
			"%s connection requires parameters: %s",
			h.DBType(), strings.Join(missing, ", "))}
	}
	if len(extra) > 0 {
		return &dbparams.ParamsError{Msg: fmt.Sprintf(
			"unexpected parameters for %s connection: %s",
			h.DBType(), strings.Join(extra, ", "))}
	}
	return nil
}

// Password читает пароль из переменной окружения. Пустое имя
// переменной допустимо и означает отсутствие пароля; заданная, но
// не установленная переменная - ошибка конфигурации.
func Password(passwordVariable string) (string, error) {
	if passwordVariable == "" {
		return "", nil
	}
	password, ok := os.LookupEnv(passwordVariable)
	if !ok {
		return "", &dbparams.ParamsError{Msg: fmt.Sprintf(
			"password environment variable %s is not set", passwordVariable)}
	}
	return password, nil
}

// IsReachable проверяет доступность хоста и порта базы по TCP,
// не открывая подключение к самой базе.
func IsReachable(params dbparams.DbParams, timeout time.Duration) bool {
	host, port := params["host"], params["port"]
	if host == "" || port == "" {
		return false
	}
	conn, err := net.DialTimeout("tcp", net.JoinHostPort(host, port), timeout)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}
