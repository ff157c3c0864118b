package etl

import (
	"fmt"

	"github.com/BritishGeologicalSurvey/etlhelper/pkg/row"
)

// DefaultChunkSize - размер чанка по умолчанию для чтения и записи.
const DefaultChunkSize = 5000

// Transform преобразует чанк строк перед передачей дальше по
// конвейеру. Может фильтровать, изменять и добавлять строки; пустой
// результат допустим и означает "этот чанк пропустить".
type Transform func(chunk []row.Row) ([]row.Row, error)

// options - собранные настройки одной операции.
type options struct {
	chunkSize    int
	rowFactory   row.Factory
	transform    Transform
	params       []any
	onError      ErrorHandler
	commitChunks bool
	target       string

	// bindColumns и bindNamed выставляются внутренне при
	// авто-генерации INSERT, не через публичные опции.
	bindColumns []string
	bindNamed   bool
}

// Option настраивает одну операцию пакета.
type Option func(*options)

func newOptions(opts []Option) (*options, error) {
	o := &options{
		chunkSize:    DefaultChunkSize,
		rowFactory:   row.NamedFactory,
		commitChunks: true,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.chunkSize <= 0 {
		return nil, &ConfigError{Msg: fmt.Sprintf(
			"chunk size must be positive, got %d", o.chunkSize)}
	}
	return o, nil
}

// WithChunkSize задает количество строк в чанке.
func WithChunkSize(n int) Option {
	return func(o *options) { o.chunkSize = n }
}

// WithRowFactory задает представление строк результата.
func WithRowFactory(f row.Factory) Option {
	return func(o *options) { o.rowFactory = f }
}

// WithTransform задает трансформацию чанков.
func WithTransform(t Transform) Option {
	return func(o *options) { o.transform = t }
}

// WithParams задает позиционные параметры запроса чтения.
func WithParams(args ...any) Option {
	return func(o *options) { o.params = args }
}

// WithOnError включает построчную деградацию при сбое чанка: вместо
// остановки отвергнутые строки передаются обработчику, а остальные
// строки чанка записываются.
func WithOnError(h ErrorHandler) Option {
	return func(o *options) { o.onError = h }
}

// WithCommitChunks управляет границами транзакций записи: true
// (по умолчанию) - коммит после каждого чанка, false - одна
// транзакция на всю операцию.
func WithCommitChunks(commit bool) Option {
	return func(o *options) { o.commitChunks = commit }
}

// WithTarget задает имя целевой таблицы, когда оно отличается от
// исходного (используется в CopyTableRows).
func WithTarget(table string) Option {
	return func(o *options) { o.target = table }
}
