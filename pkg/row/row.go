// Package row определяет представления строк результата запроса.
//
// Одна и та же строка может быть представлена тремя способами:
// позиционный кортеж (Positional), именованный кортеж (Named) и
// отображение имя-значение (Map). Представление выбирается при
// построении пайплайна через Factory, а не определяется динамически
// на каждой строке.
package row

import (
	"fmt"
	"sort"
	"strings"
)

// Row - универсальный доступ к полям одной строки.
// Values возвращает значения в порядке столбцов, Columns - имена
// столбцов (nil для позиционных строк), Get - доступ по имени.
type Row interface {
	Values() []any
	Columns() []string
	Get(name string) (any, bool)
}

// Factory создает функцию-конструктор строк для фиксированного набора
// столбцов. Вызывается один раз на запрос, до чтения первой строки.
type Factory func(columns []string) func(values []any) Row

// ========== Positional ==========

// Positional - строка без имен столбцов, только позиционный доступ.
type Positional []any

func (r Positional) Values() []any          { return r }
func (r Positional) Columns() []string      { return nil }
func (r Positional) Get(string) (any, bool) { return nil, false }

// ========== Named ==========

// Named - неизменяемая строка с позиционным доступом и доступом по
// имени столбца. Аналог именованного кортежа.
type Named struct {
	columns []string
	values  []any
	index   map[string]int
}

// NewNamed создает Named строку. columns и values должны иметь
// одинаковую длину; слайсы не копируются, вызывающий не должен их
// изменять после передачи.
func NewNamed(columns []string, values []any) Named {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		index[c] = i
	}
	return Named{columns: columns, values: values, index: index}
}

func (r Named) Values() []any     { return r.values }
func (r Named) Columns() []string { return r.columns }

func (r Named) Get(name string) (any, bool) {
	i, ok := r.index[name]
	if !ok {
		return nil, false
	}
	return r.values[i], true
}

// Value возвращает значение по позиции столбца.
func (r Named) Value(i int) any { return r.values[i] }

// Len возвращает количество полей.
func (r Named) Len() int { return len(r.values) }

func (r Named) String() string {
	parts := make([]string, len(r.columns))
	for i, c := range r.columns {
		parts[i] = fmt.Sprintf("%s=%v", c, r.values[i])
	}
	return "Row(" + strings.Join(parts, ", ") + ")"
}

// ========== Map ==========

// Map - изменяемая строка с доступом по имени. Порядок столбцов
// не сохраняется, поэтому Columns возвращает отсортированные ключи:
// так авто-генерация SQL остается детерминированной.
type Map map[string]any

func (r Map) Columns() []string {
	columns := make([]string, 0, len(r))
	for c := range r {
		columns = append(columns, c)
	}
	sort.Strings(columns)
	return columns
}

func (r Map) Values() []any {
	columns := r.Columns()
	values := make([]any, len(columns))
	for i, c := range columns {
		values[i] = r[c]
	}
	return values
}

func (r Map) Get(name string) (any, bool) {
	v, ok := r[name]
	return v, ok
}

// ========== Factories ==========

// NamedFactory - фабрика Named строк, представление по умолчанию.
// Имена и индекс столбцов разделяются всеми строками одного запроса.
func NamedFactory(columns []string) func(values []any) Row {
	shared := make([]string, len(columns))
	copy(shared, columns)
	index := make(map[string]int, len(shared))
	for i, c := range shared {
		index[c] = i
	}
	return func(values []any) Row {
		return Named{columns: shared, values: values, index: index}
	}
}

// MapFactory - фабрика Map строк.
func MapFactory(columns []string) func(values []any) Row {
	shared := make([]string, len(columns))
	copy(shared, columns)
	return func(values []any) Row {
		m := make(Map, len(shared))
		for i, c := range shared {
			m[c] = values[i]
		}
		return m
	}
}

// PositionalFactory - фабрика Positional строк.
func PositionalFactory(columns []string) func(values []any) Row {
	return func(values []any) Row {
		return Positional(values)
	}
}
