package etl

import (
	"fmt"

	"github.com/BritishGeologicalSurvey/etlhelper/pkg/row"
)

// ExtractError - сбой чтения данных. Сообщение включает текст запроса
// и стиль плейсхолдеров движка: расхождение стиля - самая частая
// причина таких ошибок.
type ExtractError struct {
	Query      string
	Paramstyle string
	Err        error
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("failed to extract rows: %v\nquery: %s\nrequired paramstyle: %s",
		e.Err, e.Query, e.Paramstyle)
}

func (e *ExtractError) Unwrap() error { return e.Err }

// InsertError - невосстановимый сбой записи данных.
type InsertError struct {
	Query      string
	Paramstyle string
	Err        error
}

func (e *InsertError) Error() string {
	return fmt.Sprintf("failed to insert rows: %v\nquery: %s\nrequired paramstyle: %s",
		e.Err, e.Query, e.Paramstyle)
}

func (e *InsertError) Unwrap() error { return e.Err }

// QueryError - сбой произвольного запроса (Execute, метаданные).
type QueryError struct {
	Query      string
	Paramstyle string
	Err        error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query failed: %v\nquery: %s\nrequired paramstyle: %s",
		e.Err, e.Query, e.Paramstyle)
}

func (e *QueryError) Unwrap() error { return e.Err }

// TransformError - сбой пользовательской трансформации. Фатален:
// перенос прерывается немедленно, незафиксированная работа
// откатывается.
type TransformError struct {
	Err error
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("transform failed: %v", e.Err)
}

func (e *TransformError) Unwrap() error { return e.Err }

// AbortError - операция прервана через отмену контекста. Уже
// накопленная незафиксированная работа откачена.
type AbortError struct {
	Msg string
	Err error
}

func (e *AbortError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *AbortError) Unwrap() error { return e.Err }

// ConfigError - недопустимая комбинация опций.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string { return e.Msg }

// FailedRow - строка, отвергнутая базой, вместе с причиной.
type FailedRow struct {
	Row row.Row
	Err error
}

// ErrorHandler получает отвергнутые строки чанка после построчного
// прохода. Вызывается по разу на чанк, в котором был сбой. Паника в
// обработчике не перехватывается.
type ErrorHandler func(failed []FailedRow)
