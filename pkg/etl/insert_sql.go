package etl

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/BritishGeologicalSurvey/etlhelper/pkg/dbhelpers"
	"github.com/BritishGeologicalSurvey/etlhelper/pkg/row"
	"github.com/BritishGeologicalSurvey/etlhelper/pkg/security"
)

// GenerateInsertSQL строит оператор INSERT для таблицы по образцу
// строки. Имена столбцов берутся из строки, плейсхолдеры - из движка
// подключения. Имя таблицы и имена столбцов проверяются как
// идентификаторы.
func GenerateInsertSQL(table string, r row.Row, conn *dbhelpers.Connection) (string, error) {
	query, _, err := generateInsertSQL(table, r, conn.Helper())
	return query, err
}

// generateInsertSQL дополнительно сообщает, именованные ли
// плейсхолдеры в построенном запросе.
func generateInsertSQL(table string, r row.Row, helper dbhelpers.Helper) (query string, named bool, err error) {
	if err := security.ValidateTableName(table); err != nil {
		return "", false, err
	}

	columns := r.Columns()
	if len(columns) == 0 {
		return "", false, &InsertError{
			Query:      "",
			Paramstyle: helper.Paramstyle(),
			Err: fmt.Errorf(
				"cannot generate insert sql from positional rows; pass rows with column names"),
		}
	}
	for _, c := range columns {
		if err := security.ValidateIdentifier(c); err != nil {
			return "", false, err
		}
	}

	// Map строки привязываются по имени, поэтому запрос для них
	// строится с именованными плейсхолдерами.
	if _, ok := r.(row.Map); ok {
		if helper.NamedParamstyle() == "" {
			return "", false, &InsertError{
				Query:      "",
				Paramstyle: helper.Paramstyle(),
				Err: fmt.Errorf(
					"%s does not support named parameters required for map rows",
					helper.DBType()),
			}
		}
		named = true
	}

	placeholders := make([]string, len(columns))
	for i, c := range columns {
		if named {
			placeholders[i] = helper.NamedPlaceholder(c)
		} else {
			placeholders[i] = helper.Placeholder(i + 1)
		}
	}

	query = fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table,
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "))
	log.Debug().Str("query", query).Msg("Generated insert sql")
	return query, named, nil
}

// bindArgs извлекает аргументы запроса из строки. При заданных
// bindColumns значения берутся по имени в порядке столбцов
// сгенерированного запроса, поэтому лишние поля строки игнорируются,
// а отсутствующие - ошибка строки.
func bindArgs(r row.Row, o *options, helper dbhelpers.Helper) ([]any, error) {
	if o.bindColumns != nil {
		args := make([]any, len(o.bindColumns))
		for i, c := range o.bindColumns {
			v, ok := r.Get(c)
			if !ok {
				return nil, fmt.Errorf("row has no field %q", c)
			}
			if o.bindNamed {
				args[i] = sql.Named(c, v)
			} else {
				args[i] = v
			}
		}
		return args, nil
	}

	// Map строки с пользовательским запросом привязываются по имени
	if m, ok := r.(row.Map); ok {
		if helper.NamedParamstyle() == "" {
			return nil, fmt.Errorf(
				"%s does not support named parameters required for map rows",
				helper.DBType())
		}
		columns := m.Columns()
		args := make([]any, len(columns))
		for i, c := range columns {
			args[i] = sql.Named(c, m[c])
		}
		return args, nil
	}

	return r.Values(), nil
}
