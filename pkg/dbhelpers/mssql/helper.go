// Package mssql - движок Microsoft SQL Server поверх go-mssqldb.
package mssql

import (
	"fmt"
	"net"
	"net/url"

	_ "github.com/denisenkom/go-mssqldb" // драйвер "sqlserver"

	"github.com/BritishGeologicalSurvey/etlhelper/pkg/dbhelpers"
)

const dbType = "mssql"

func init() {
	dbhelpers.Register(dbType, &Helper{})
}

// Helper реализует dbhelpers.Helper для SQL Server.
type Helper struct{}

// Проверка реализации интерфейса на этапе компиляции
var _ dbhelpers.Helper = (*Helper)(nil)

func (h *Helper) DBType() string     { return dbType }
func (h *Helper) DriverName() string { return "sqlserver" }

func (h *Helper) Paramstyle() string      { return "numbered (@p1)" }
func (h *Helper) NamedParamstyle() string { return "named (@name)" }

func (h *Helper) Placeholder(n int) string { return fmt.Sprintf("@p%d", n) }

func (h *Helper) NamedPlaceholder(name string) string { return "@" + name }

// SQL Server не поддерживает стандартный синтаксис SAVEPOINT.
func (h *Helper) SavepointSQL(name string) string {
	return "SAVE TRANSACTION " + name
}

func (h *Helper) RollbackToSQL(name string) string {
	return "ROLLBACK TRANSACTION " + name
}

// Точки сохранения SQL Server не освобождаются явно.
func (h *Helper) ReleaseSQL(name string) string { return "" }

func (h *Helper) TableInfoQuery() string {
	return `
		SELECT
			column_name AS name,
			data_type AS type,
			CASE WHEN is_nullable = 'NO' THEN 1 ELSE 0 END AS not_null,
			CASE WHEN column_default IS NOT NULL THEN 1 ELSE 0 END AS has_default
		FROM information_schema.columns
		WHERE table_name = @p1
			AND table_schema LIKE COALESCE(@p2, '%')
		ORDER BY ordinal_position`
}

func (h *Helper) RequiredParams() []string {
	return []string{"host", "port", "dbname", "user"}
}

func (h *Helper) OptionalParams() []string { return nil }

func (h *Helper) ConnectionString(params map[string]string, password string) (string, error) {
	u := &url.URL{
		Scheme: "sqlserver",
		Host:   net.JoinHostPort(params["host"], params["port"]),
	}
	if password != "" {
		u.User = url.UserPassword(params["user"], password)
	} else {
		u.User = url.User(params["user"])
	}
	q := url.Values{}
	q.Set("database", params["dbname"])
	u.RawQuery = q.Encode()
	return u.String(), nil
}
