// Package etl реализует чанковый конвейер переноса данных между
// базами: чтение запросом, трансформация и запись идут чанками
// фиксированного размера, так что объем памяти не зависит от размера
// выборки.
package etl

import (
	"context"
	"database/sql"

	"github.com/BritishGeologicalSurvey/etlhelper/pkg/dbhelpers"
	"github.com/BritishGeologicalSurvey/etlhelper/pkg/row"
)

// ChunkIterator последовательно выдает чанки строк результата.
// Использование повторяет идиому sql.Rows:
//
//	it, err := etl.IterChunks(ctx, query, conn)
//	if err != nil { ... }
//	defer it.Close()
//	for it.Next() {
//	    chunk := it.Chunk()
//	    ...
//	}
//	if err := it.Err(); err != nil { ... }
type ChunkIterator struct {
	ctx       context.Context
	rows      *sql.Rows
	query     string
	conn      *dbhelpers.Connection
	o         *options
	columns   []string
	makeRow   func(values []any) row.Row
	chunk     []row.Row
	chunkNum  int
	total     int64
	err       error
	exhausted bool
	closed    bool
}

// IterChunks выполняет запрос и возвращает итератор чанков.
// Итератор держит открытый курсор, поэтому обязателен Close.
func IterChunks(ctx context.Context, query string, conn *dbhelpers.Connection, opts ...Option) (*ChunkIterator, error) {
	o, err := newOptions(opts)
	if err != nil {
		return nil, err
	}

	rows, err := conn.DB().QueryContext(ctx, query, o.params...)
	if err != nil {
		return nil, &ExtractError{
			Query:      query,
			Paramstyle: conn.Helper().Paramstyle(),
			Err:        err,
		}
	}

	columns, err := rows.Columns()
	if err != nil {
		rows.Close()
		return nil, &ExtractError{
			Query:      query,
			Paramstyle: conn.Helper().Paramstyle(),
			Err:        err,
		}
	}

	log.Debug().Str("query", query).Int("chunk_size", o.chunkSize).
		Msg("Fetching rows")

	return &ChunkIterator{
		ctx:     ctx,
		rows:    rows,
		query:   query,
		conn:    conn,
		o:       o,
		columns: columns,
		makeRow: o.rowFactory(columns),
	}, nil
}

// Next читает следующий непустой чанк. Возвращает false по окончании
// результата или при ошибке; причина различается через Err.
func (it *ChunkIterator) Next() bool {
	if it.err != nil || it.exhausted || it.closed {
		return false
	}
	for {
		if err := it.ctx.Err(); err != nil {
			it.fail(&AbortError{Msg: "extraction aborted", Err: err})
			return false
		}

		chunk, done := it.readChunk()
		if it.err != nil {
			return false
		}
		if len(chunk) > 0 && it.o.transform != nil {
			transformed, err := it.o.transform(chunk)
			if err != nil {
				it.fail(&TransformError{Err: err})
				return false
			}
			chunk = transformed
		}

		if done {
			it.exhausted = true
			it.rows.Close()
			if it.total == 0 {
				log.Info().Msg("No rows returned")
			} else {
				log.Info().Int64("total", it.total).Msg("All rows returned")
			}
			if len(chunk) == 0 {
				return false
			}
			it.chunk = chunk
			return true
		}
		if len(chunk) == 0 {
			// Трансформация отбросила весь чанк
			continue
		}
		it.chunk = chunk
		return true
	}
}

// readChunk вычитывает до chunkSize строк. done=true означает, что
// курсор исчерпан.
func (it *ChunkIterator) readChunk() (chunk []row.Row, done bool) {
	chunk = make([]row.Row, 0, it.o.chunkSize)
	for len(chunk) < it.o.chunkSize {
		if !it.rows.Next() {
			if err := it.rows.Err(); err != nil {
				it.fail(&ExtractError{
					Query:      it.query,
					Paramstyle: it.conn.Helper().Paramstyle(),
					Err:        err,
				})
				return nil, true
			}
			it.total += int64(len(chunk))
			return chunk, true
		}

		values := make([]any, len(it.columns))
		scanTargets := make([]any, len(it.columns))
		for i := range values {
			scanTargets[i] = &values[i]
		}
		if err := it.rows.Scan(scanTargets...); err != nil {
			it.fail(&ExtractError{
				Query:      it.query,
				Paramstyle: it.conn.Helper().Paramstyle(),
				Err:        err,
			})
			return nil, true
		}
		chunk = append(chunk, it.makeRow(values))
	}
	it.total += int64(len(chunk))
	it.chunkNum++
	log.Debug().Int("chunk", it.chunkNum).Int("rows", len(chunk)).
		Msg("Fetched chunk")
	return chunk, false
}

// Chunk возвращает чанк, прочитанный последним успешным Next.
func (it *ChunkIterator) Chunk() []row.Row { return it.chunk }

// Columns возвращает имена столбцов результата.
func (it *ChunkIterator) Columns() []string { return it.columns }

// Err возвращает ошибку, остановившую итерацию, либо nil.
func (it *ChunkIterator) Err() error { return it.err }

// Close освобождает курсор. Безопасен при повторных вызовах.
func (it *ChunkIterator) Close() error {
	if it.closed {
		return nil
	}
	it.closed = true
	return it.rows.Close()
}

func (it *ChunkIterator) fail(err error) {
	it.err = err
	it.rows.Close()
	it.closed = true
}

// RowIterator выдает строки результата по одной, скрывая чанки.
type RowIterator struct {
	chunks *ChunkIterator
	buf    []row.Row
	pos    int
}

// IterRows выполняет запрос и возвращает построчный итератор.
func IterRows(ctx context.Context, query string, conn *dbhelpers.Connection, opts ...Option) (*RowIterator, error) {
	chunks, err := IterChunks(ctx, query, conn, opts...)
	if err != nil {
		return nil, err
	}
	return &RowIterator{chunks: chunks}, nil
}

// Next переходит к следующей строке.
func (it *RowIterator) Next() bool {
	if it.pos < len(it.buf) {
		it.pos++
		return true
	}
	if !it.chunks.Next() {
		return false
	}
	it.buf = it.chunks.Chunk()
	it.pos = 1
	return len(it.buf) > 0
}

// Row возвращает текущую строку.
func (it *RowIterator) Row() row.Row { return it.buf[it.pos-1] }

// Err возвращает ошибку, остановившую итерацию, либо nil.
func (it *RowIterator) Err() error { return it.chunks.Err() }

// Close освобождает курсор.
func (it *RowIterator) Close() error { return it.chunks.Close() }

// FetchOne возвращает первую строку результата или (nil, nil) для
// пустого результата.
func FetchOne(ctx context.Context, query string, conn *dbhelpers.Connection, opts ...Option) (row.Row, error) {
	// Чанк из одной строки, чтобы не вычитывать лишнего
	opts = append(opts, WithChunkSize(1))
	rows, err := FetchMany(ctx, 1, query, conn, opts...)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// FetchMany возвращает не более size первых строк результата.
func FetchMany(ctx context.Context, size int, query string, conn *dbhelpers.Connection, opts ...Option) ([]row.Row, error) {
	it, err := IterRows(ctx, query, conn, opts...)
	if err != nil {
		return nil, err
	}
	defer it.Close()

	rows := make([]row.Row, 0, size)
	for len(rows) < size && it.Next() {
		rows = append(rows, it.Row())
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return rows, nil
}

// FetchAll возвращает весь результат одним срезом. Для больших
// выборок используйте IterChunks.
func FetchAll(ctx context.Context, query string, conn *dbhelpers.Connection, opts ...Option) ([]row.Row, error) {
	it, err := IterChunks(ctx, query, conn, opts...)
	if err != nil {
		return nil, err
	}
	defer it.Close()

	var rows []row.Row
	for it.Next() {
		rows = append(rows, it.Chunk()...)
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return rows, nil
}
