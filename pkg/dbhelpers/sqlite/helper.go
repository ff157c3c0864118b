// Package sqlite - движок SQLite поверх чистого Go драйвера
// modernc.org/sqlite. Не требует cgo, поэтому используется и в тестах
// остальных пакетов.
package sqlite

import (
	_ "modernc.org/sqlite" // драйвер "sqlite"

	"github.com/BritishGeologicalSurvey/etlhelper/pkg/dbhelpers"
)

const dbType = "sqlite"

func init() {
	dbhelpers.Register(dbType, &Helper{})
}

// Helper реализует dbhelpers.Helper для SQLite.
type Helper struct{}

// Проверка реализации интерфейса на этапе компиляции
var _ dbhelpers.Helper = (*Helper)(nil)

func (h *Helper) DBType() string     { return dbType }
func (h *Helper) DriverName() string { return "sqlite" }

func (h *Helper) Paramstyle() string      { return "qmark (?)" }
func (h *Helper) NamedParamstyle() string { return "named (:name)" }

func (h *Helper) Placeholder(int) string { return "?" }

func (h *Helper) NamedPlaceholder(name string) string { return ":" + name }

func (h *Helper) SavepointSQL(name string) string {
	return "SAVEPOINT " + name
}

func (h *Helper) RollbackToSQL(name string) string {
	return "ROLLBACK TO SAVEPOINT " + name
}

func (h *Helper) ReleaseSQL(name string) string {
	return "RELEASE SAVEPOINT " + name
}

// TableInfoQuery использует pragma_table_info. Фиктивное условие с
// COALESCE нужно, чтобы запрос принимал и второй параметр (схему),
// которого SQLite не различает.
func (h *Helper) TableInfoQuery() string {
	return `
		SELECT
			name,
			lower(type) AS type,
			"notnull" AS not_null,
			dflt_value IS NOT NULL AS has_default
		FROM pragma_table_info(?)
		WHERE COALESCE(1, ?)`
}

func (h *Helper) RequiredParams() []string {
	return []string{"filename"}
}

func (h *Helper) OptionalParams() []string { return nil }

func (h *Helper) ConnectionString(params map[string]string, password string) (string, error) {
	return params["filename"], nil
}
