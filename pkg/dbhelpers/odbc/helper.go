// Package odbc - подключение к произвольной базе через настроенный
// ODBC источник данных. Движок не знает диалекта базы за источником,
// поэтому запрос метаданных не поддерживается.
package odbc

import (
	_ "github.com/alexbrainman/odbc" // драйвер "odbc"

	"github.com/BritishGeologicalSurvey/etlhelper/pkg/dbhelpers"
)

const dbType = "odbc"

func init() {
	dbhelpers.Register(dbType, &Helper{})
}

// Helper реализует dbhelpers.Helper для ODBC источников.
type Helper struct{}

// Проверка реализации интерфейса на этапе компиляции
var _ dbhelpers.Helper = (*Helper)(nil)

func (h *Helper) DBType() string     { return dbType }
func (h *Helper) DriverName() string { return "odbc" }

func (h *Helper) Paramstyle() string      { return "qmark (?)" }
func (h *Helper) NamedParamstyle() string { return "" }

func (h *Helper) Placeholder(int) string { return "?" }

func (h *Helper) NamedPlaceholder(name string) string { return "" }

func (h *Helper) SavepointSQL(name string) string {
	return "SAVEPOINT " + name
}

func (h *Helper) RollbackToSQL(name string) string {
	return "ROLLBACK TO SAVEPOINT " + name
}

func (h *Helper) ReleaseSQL(name string) string {
	return "RELEASE SAVEPOINT " + name
}

func (h *Helper) TableInfoQuery() string { return "" }

func (h *Helper) RequiredParams() []string {
	return []string{"dsn"}
}

func (h *Helper) OptionalParams() []string { return nil }

// ConnectionString передает строку подключения ODBC как есть,
// добавляя пароль атрибутом PWD при его наличии.
func (h *Helper) ConnectionString(params map[string]string, password string) (string, error) {
	dsn := params["dsn"]
	if password != "" {
		dsn += ";PWD=" + password
	}
	return dsn, nil
}
