// Package mysql - движок MySQL / MariaDB поверх go-sql-driver/mysql.
package mysql

import (
	"net"

	driver "github.com/go-sql-driver/mysql"

	"github.com/BritishGeologicalSurvey/etlhelper/pkg/dbhelpers"
)

const dbType = "mysql"

func init() {
	dbhelpers.Register(dbType, &Helper{})
}

// Helper реализует dbhelpers.Helper для MySQL.
type Helper struct{}

// Проверка реализации интерфейса на этапе компиляции
var _ dbhelpers.Helper = (*Helper)(nil)

func (h *Helper) DBType() string     { return dbType }
func (h *Helper) DriverName() string { return "mysql" }

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

func (h *Helper) TableInfoQuery() string {
	return `
		SELECT
			column_name AS name,
			column_type AS type,
			is_nullable = 'NO' AS not_null,
			column_default IS NOT NULL AS has_default
		FROM information_schema.columns
		WHERE table_name = ?
			AND table_schema LIKE COALESCE(?, '%')
		ORDER BY ordinal_position`
}

func (h *Helper) RequiredParams() []string {
	return []string{"host", "port", "dbname", "user"}
}

func (h *Helper) OptionalParams() []string { return nil }

func (h *Helper) ConnectionString(params map[string]string, password string) (string, error) {
	cfg := driver.NewConfig()
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(params["host"], params["port"])
	cfg.DBName = params["dbname"]
	cfg.User = params["user"]
	cfg.Passwd = password
	cfg.ParseTime = true
	return cfg.FormatDSN(), nil
}
