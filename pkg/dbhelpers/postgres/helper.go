// Package postgres - движок PostgreSQL поверх драйвера pgx.
package postgres

import (
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // драйвер "pgx"

	"github.com/BritishGeologicalSurvey/etlhelper/pkg/dbhelpers"
)

const dbType = "postgres"

func init() {
	dbhelpers.Register(dbType, &Helper{})
}

// Helper реализует dbhelpers.Helper для PostgreSQL.
type Helper struct{}

// Проверка реализации интерфейса на этапе компиляции
var _ dbhelpers.Helper = (*Helper)(nil)

func (h *Helper) DBType() string     { return dbType }
func (h *Helper) DriverName() string { return "pgx" }

func (h *Helper) Paramstyle() string      { return "numbered ($1)" }
func (h *Helper) NamedParamstyle() string { return "" }

func (h *Helper) Placeholder(n int) string { return fmt.Sprintf("$%d", n) }

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

func (h *Helper) TableInfoQuery() string {
	return `
		SELECT
			pg_attribute.attname AS name,
			pg_catalog.format_type(pg_attribute.atttypid, pg_attribute.atttypmod) AS type,
			pg_attribute.attnotnull AS not_null,
			pg_attribute.atthasdef AS has_default
		FROM pg_catalog.pg_attribute
		INNER JOIN pg_catalog.pg_class ON pg_class.oid = pg_attribute.attrelid
		INNER JOIN pg_catalog.pg_namespace ON pg_namespace.oid = pg_class.relnamespace
		WHERE pg_attribute.attnum > 0
			AND NOT pg_attribute.attisdropped
			AND pg_class.relname = $1
			AND pg_namespace.nspname ~ COALESCE($2, '.*')
		ORDER BY pg_attribute.attnum`
}

func (h *Helper) RequiredParams() []string {
	return []string{"host", "port", "dbname", "user"}
}

func (h *Helper) OptionalParams() []string {
	return []string{"sslmode"}
}

func (h *Helper) ConnectionString(params map[string]string, password string) (string, error) {
	parts := []string{
		"host=" + params["host"],
		"port=" + params["port"],
		"dbname=" + params["dbname"],
		"user=" + params["user"],
	}
	if password != "" {
		parts = append(parts, "password="+password)
	}
	if sslmode := params["sslmode"]; sslmode != "" {
		parts = append(parts, "sslmode="+sslmode)
	}
	return strings.Join(parts, " "), nil
}
