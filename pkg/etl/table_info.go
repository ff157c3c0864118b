package etl

import (
	"context"
	"fmt"

	"github.com/BritishGeologicalSurvey/etlhelper/pkg/dbhelpers"
	"github.com/BritishGeologicalSurvey/etlhelper/pkg/row"
	"github.com/BritishGeologicalSurvey/etlhelper/pkg/security"
)

// Column - описание столбца таблицы из метаданных базы.
type Column struct {
	Name       string
	Type       string
	NotNull    bool
	HasDefault bool
}

// TableInfo возвращает столбцы таблицы, искомой без привязки к схеме.
// Если таблица видна в нескольких схемах, возвращается ошибка.
func TableInfo(ctx context.Context, table string, conn *dbhelpers.Connection) ([]Column, error) {
	return tableInfo(ctx, table, nil, conn)
}

// TableInfoInSchema возвращает столбцы таблицы в заданной схеме.
func TableInfoInSchema(ctx context.Context, schema, table string, conn *dbhelpers.Connection) ([]Column, error) {
	if err := security.ValidateIdentifier(schema); err != nil {
		return nil, err
	}
	return tableInfo(ctx, table, schema, conn)
}

func tableInfo(ctx context.Context, table string, schema any, conn *dbhelpers.Connection) ([]Column, error) {
	if err := security.ValidateTableName(table); err != nil {
		return nil, err
	}

	query := conn.Helper().TableInfoQuery()
	if query == "" {
		return nil, &QueryError{
			Query:      "",
			Paramstyle: conn.Helper().Paramstyle(),
			Err: fmt.Errorf("table metadata is not supported for %s connections",
				conn.DBType()),
		}
	}

	rows, err := FetchAll(ctx, query, conn, WithParams(table, schema))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		where := "database"
		if s, ok := schema.(string); ok {
			where = "schema " + s
		}
		return nil, &QueryError{
			Query:      query,
			Paramstyle: conn.Helper().Paramstyle(),
			Err:        fmt.Errorf("table %s not found in %s", table, where),
		}
	}

	columns := make([]Column, 0, len(rows))
	seen := make(map[string]bool, len(rows))
	for _, r := range rows {
		c := Column{
			Name:       asString(value(r, "name")),
			Type:       asString(value(r, "type")),
			NotNull:    asBool(value(r, "not_null")),
			HasDefault: asBool(value(r, "has_default")),
		}
		if seen[c.Name] {
			return nil, &QueryError{
				Query:      query,
				Paramstyle: conn.Helper().Paramstyle(),
				Err: fmt.Errorf(
					"table %s is ambiguous, specify a schema", table),
			}
		}
		seen[c.Name] = true
		columns = append(columns, c)
	}
	return columns, nil
}

func value(r row.Row, name string) any {
	v, _ := r.Get(name)
	return v
}

// asString и asBool сглаживают различия типов метаданных между
// драйверами (sqlite отдает целые вместо булевых, текст может прийти
// как []byte).
func asString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case []byte:
		return string(s)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", s)
	}
}

func asBool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case int64:
		return b != 0
	case int:
		return b != 0
	case []byte:
		return len(b) > 0 && b[0] != '0'
	case string:
		return b != "" && b != "0" && b != "false"
	default:
		return false
	}
}
