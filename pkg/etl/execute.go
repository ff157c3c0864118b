package etl

import (
	"context"

	"github.com/BritishGeologicalSurvey/etlhelper/pkg/dbhelpers"
)

// Execute выполняет один SQL оператор без результата (DDL, DELETE,
// одиночный INSERT). Оператор выполняется и фиксируется сразу.
func Execute(ctx context.Context, query string, conn *dbhelpers.Connection, params ...any) error {
	log.Debug().Str("query", query).Msg("Executing statement")
	if _, err := conn.DB().ExecContext(ctx, query, params...); err != nil {
		return &QueryError{
			Query:      query,
			Paramstyle: conn.Helper().Paramstyle(),
			Err:        err,
		}
	}
	return nil
}
