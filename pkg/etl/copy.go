package etl

import (
	"context"

	"github.com/BritishGeologicalSurvey/etlhelper/pkg/dbhelpers"
	"github.com/BritishGeologicalSurvey/etlhelper/pkg/row"
	"github.com/BritishGeologicalSurvey/etlhelper/pkg/security"
)

// Load записывает готовые строки в таблицу, генерируя INSERT по
// образцу первой строки. Строки должны нести имена столбцов (Named
// или Map); лишние поля относительно первой строки игнорируются,
// отсутствующие считаются ошибкой строки.
func Load(ctx context.Context, table string, conn *dbhelpers.Connection, rows []row.Row, opts ...Option) (processed, failed int64, err error) {
	o, err := newOptions(opts)
	if err != nil {
		return 0, 0, err
	}

	w := &chunkWriter{conn: conn, o: o}
	for start := 0; start < len(rows); start += o.chunkSize {
		end := start + o.chunkSize
		if end > len(rows) {
			end = len(rows)
		}
		chunk := rows[start:end]
		if o.transform != nil {
			chunk, err = o.transform(chunk)
			if err != nil {
				w.rollback()
				return w.processed, w.failed, &TransformError{Err: err}
			}
			if len(chunk) == 0 {
				continue
			}
		}
		if w.query == "" {
			if err := prepareInsert(w, table, chunk[0]); err != nil {
				return w.processed, w.failed, err
			}
		}
		if err := w.writeChunk(ctx, chunk); err != nil {
			return w.processed, w.failed, err
		}
	}
	if err := w.finish(ctx); err != nil {
		return w.processed, w.failed, err
	}
	return w.processed, w.failed, nil
}

// CopyRows переносит результат запроса из source в dest заданным
// запросом записи. Трансформация применяется на стороне чтения.
func CopyRows(ctx context.Context, selectQuery string, source *dbhelpers.Connection, insertQuery string, dest *dbhelpers.Connection, opts ...Option) (processed, failed int64, err error) {
	o, err := newOptions(opts)
	if err != nil {
		return 0, 0, err
	}

	it, err := IterChunks(ctx, selectQuery, source, opts...)
	if err != nil {
		return 0, 0, err
	}
	defer it.Close()

	w := &chunkWriter{conn: dest, query: insertQuery, o: o}
	for it.Next() {
		if err := w.writeChunk(ctx, it.Chunk()); err != nil {
			return w.processed, w.failed, err
		}
	}
	if err := it.Err(); err != nil {
		w.rollback()
		return w.processed, w.failed, err
	}
	if err := w.finish(ctx); err != nil {
		return w.processed, w.failed, err
	}
	log.Info().Int64("processed", w.processed).Int64("failed", w.failed).
		Msg("Copy finished")
	return w.processed, w.failed, nil
}

// CopyTableRows переносит все строки таблицы из source в dest.
// Запросы чтения и записи генерируются по имени таблицы; целевая
// таблица задается через WithTarget, иначе совпадает с исходной.
func CopyTableRows(ctx context.Context, table string, source *dbhelpers.Connection, dest *dbhelpers.Connection, opts ...Option) (processed, failed int64, err error) {
	o, err := newOptions(opts)
	if err != nil {
		return 0, 0, err
	}
	if err := validateCopyTables(table, o.target); err != nil {
		return 0, 0, err
	}
	target := table
	if o.target != "" {
		target = o.target
	}

	it, err := IterChunks(ctx, "SELECT * FROM "+table, source, opts...)
	if err != nil {
		return 0, 0, err
	}
	defer it.Close()

	w := &chunkWriter{conn: dest, o: o}
	for it.Next() {
		chunk := it.Chunk()
		if w.query == "" {
			if err := prepareInsert(w, target, chunk[0]); err != nil {
				return w.processed, w.failed, err
			}
		}
		if err := w.writeChunk(ctx, chunk); err != nil {
			return w.processed, w.failed, err
		}
	}
	if err := it.Err(); err != nil {
		w.rollback()
		return w.processed, w.failed, err
	}
	if err := w.finish(ctx); err != nil {
		return w.processed, w.failed, err
	}
	log.Info().Str("table", table).
		Int64("processed", w.processed).Int64("failed", w.failed).
		Msg("Table copy finished")
	return w.processed, w.failed, nil
}

// prepareInsert генерирует запрос записи по образцу строки и
// фиксирует порядок привязки столбцов для остальных строк.
func prepareInsert(w *chunkWriter, table string, sample row.Row) error {
	query, named, err := generateInsertSQL(table, sample, w.conn.Helper())
	if err != nil {
		w.rollback()
		return err
	}
	w.query = query
	w.o.bindColumns = sample.Columns()
	w.o.bindNamed = named
	return nil
}

func validateCopyTables(table, target string) error {
	if err := security.ValidateTableName(table); err != nil {
		return err
	}
	if target != "" {
		return security.ValidateTableName(target)
	}
	return nil
}
