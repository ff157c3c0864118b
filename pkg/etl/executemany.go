package etl

import (
	"context"
	"database/sql"

	"github.com/BritishGeologicalSurvey/etlhelper/pkg/dbhelpers"
	"github.com/BritishGeologicalSurvey/etlhelper/pkg/row"
)

// Имена точек сохранения, используемых при записи. Точка chunk
// охраняет пакетный проход по чанку, точка row - одну строку
// построчного прохода.
const (
	chunkSavepoint = "etlhelper_chunk"
	rowSavepoint   = "etlhelper_row"
)

// ExecuteMany выполняет запрос для каждой строки rows, чанками.
// Возвращает количество записанных строк и количество отвергнутых
// (ненулевое только с WithOnError).
func ExecuteMany(ctx context.Context, query string, conn *dbhelpers.Connection, rows []row.Row, opts ...Option) (processed, failed int64, err error) {
	o, err := newOptions(opts)
	if err != nil {
		return 0, 0, err
	}

	w := &chunkWriter{conn: conn, query: query, o: o}
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
		if err := w.writeChunk(ctx, chunk); err != nil {
			return w.processed, w.failed, err
		}
	}
	if err := w.finish(ctx); err != nil {
		return w.processed, w.failed, err
	}
	return w.processed, w.failed, nil
}

// chunkWriter ведет транзакционную запись чанков в одно подключение.
// Транзакция открывается лениво перед первым чанком; при commitChunks
// она фиксируется после каждого чанка, иначе одна транзакция живет
// до finish.
type chunkWriter struct {
	conn  *dbhelpers.Connection
	query string
	o     *options

	tx   *sql.Tx
	stmt *sql.Stmt

	// processed и failed отражают только состоявшиеся строки: при
	// откате транзакции счетчики возвращаются к снимку последней
	// фиксации.
	processed int64
	failed    int64

	committedProcessed int64
	committedFailed    int64

	loggedQuery bool
}

// writeChunk записывает один чанк. Сначала весь чанк выполняется
// пакетно под точкой сохранения; при сбое пакетный проход
// откатывается и, если задан обработчик ошибок, чанк повторяется
// построчно с изоляцией каждой строки своей точкой сохранения.
func (w *chunkWriter) writeChunk(ctx context.Context, chunk []row.Row) error {
	if err := ctx.Err(); err != nil {
		w.rollback()
		return &AbortError{Msg: "load aborted", Err: err}
	}
	if err := w.begin(ctx); err != nil {
		return err
	}
	if !w.loggedQuery {
		log.Debug().Str("query", w.query).Msg("Loading rows")
		w.loggedQuery = true
	}

	if err := w.execTx(ctx, w.conn.Helper().SavepointSQL(chunkSavepoint)); err != nil {
		w.rollback()
		return w.insertError(err)
	}

	bulkErr := w.applyAll(ctx, chunk)
	if bulkErr == nil {
		if err := w.release(ctx, chunkSavepoint); err != nil {
			w.rollback()
			return w.insertError(err)
		}
		w.processed += int64(len(chunk))
		return w.endChunk(ctx, len(chunk))
	}

	// Пакетный проход не прошел. Откат к точке сохранения возвращает
	// транзакцию в рабочее состояние, не теряя предыдущие чанки.
	if err := w.execTx(ctx, w.conn.Helper().RollbackToSQL(chunkSavepoint)); err != nil {
		w.rollback()
		return w.insertError(err)
	}

	if w.o.onError == nil {
		w.rollback()
		return w.insertError(bulkErr)
	}
	return w.applyByRow(ctx, chunk)
}

// applyAll выполняет запрос для каждой строки чанка, останавливаясь
// на первой ошибке.
func (w *chunkWriter) applyAll(ctx context.Context, chunk []row.Row) error {
	for _, r := range chunk {
		args, err := bindArgs(r, w.o, w.conn.Helper())
		if err != nil {
			return err
		}
		if _, err := w.stmt.ExecContext(ctx, args...); err != nil {
			return err
		}
	}
	return nil
}

// applyByRow повторяет чанк построчно, собирая отвергнутые строки
// для обработчика. Каждая строка выполняется под собственной точкой
// сохранения, так что отказ базы не портит транзакцию.
func (w *chunkWriter) applyByRow(ctx context.Context, chunk []row.Row) error {
	var failedRows []FailedRow
	for _, r := range chunk {
		if err := ctx.Err(); err != nil {
			w.rollback()
			return &AbortError{Msg: "load aborted", Err: err}
		}

		args, err := bindArgs(r, w.o, w.conn.Helper())
		if err != nil {
			failedRows = append(failedRows, FailedRow{Row: r, Err: err})
			continue
		}

		if err := w.execTx(ctx, w.conn.Helper().SavepointSQL(rowSavepoint)); err != nil {
			w.rollback()
			return w.insertError(err)
		}
		if _, err := w.stmt.ExecContext(ctx, args...); err != nil {
			if rbErr := w.execTx(ctx, w.conn.Helper().RollbackToSQL(rowSavepoint)); rbErr != nil {
				w.rollback()
				return w.insertError(rbErr)
			}
			failedRows = append(failedRows, FailedRow{Row: r, Err: err})
			continue
		}
		if err := w.release(ctx, rowSavepoint); err != nil {
			w.rollback()
			return w.insertError(err)
		}
		w.processed++
	}

	w.failed += int64(len(failedRows))
	w.o.onError(failedRows)
	return w.endChunk(ctx, len(chunk))
}

// endChunk завершает чанк: пишет итоги и при commitChunks фиксирует
// транзакцию.
func (w *chunkWriter) endChunk(ctx context.Context, offered int) error {
	log.Info().Int("rows", offered).
		Int64("processed", w.processed).Int64("failed", w.failed).
		Msg("Chunk written")
	if !w.o.commitChunks {
		return nil
	}
	return w.commit()
}

// finish фиксирует транзакцию, оставшуюся открытой при
// commitChunks=false.
func (w *chunkWriter) finish(ctx context.Context) error {
	if w.tx == nil {
		return nil
	}
	return w.commit()
}

// begin лениво открывает транзакцию и готовит оператор записи.
func (w *chunkWriter) begin(ctx context.Context) error {
	if w.tx != nil {
		return nil
	}
	tx, err := w.conn.DB().BeginTx(ctx, nil)
	if err != nil {
		return w.insertError(err)
	}
	stmt, err := tx.PrepareContext(ctx, w.query)
	if err != nil {
		tx.Rollback()
		return w.insertError(err)
	}
	w.tx, w.stmt = tx, stmt
	return nil
}

func (w *chunkWriter) commit() error {
	w.stmt.Close()
	err := w.tx.Commit()
	w.tx, w.stmt = nil, nil
	if err != nil {
		w.processed, w.failed = w.committedProcessed, w.committedFailed
		return w.insertError(err)
	}
	w.committedProcessed, w.committedFailed = w.processed, w.failed
	return nil
}

// rollback откатывает открытую транзакцию. Безопасен без транзакции.
func (w *chunkWriter) rollback() {
	if w.tx == nil {
		return
	}
	w.stmt.Close()
	w.tx.Rollback()
	w.tx, w.stmt = nil, nil
	w.processed, w.failed = w.committedProcessed, w.committedFailed
}

func (w *chunkWriter) execTx(ctx context.Context, stmt string) error {
	_, err := w.tx.ExecContext(ctx, stmt)
	return err
}

// release освобождает точку сохранения, если движок этого требует.
func (w *chunkWriter) release(ctx context.Context, name string) error {
	stmt := w.conn.Helper().ReleaseSQL(name)
	if stmt == "" {
		return nil
	}
	return w.execTx(ctx, stmt)
}

func (w *chunkWriter) insertError(err error) error {
	return &InsertError{
		Query:      w.query,
		Paramstyle: w.conn.Helper().Paramstyle(),
		Err:        err,
	}
}
