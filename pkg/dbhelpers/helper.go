// Package dbhelpers абстрагирует различия между движками баз данных:
// имя драйвера, стиль плейсхолдеров, строка подключения, синтаксис
// точек сохранения и запрос метаданных таблицы.
//
// Конкретные движки живут в подпакетах (postgres, mysql, mssql,
// sqlite, odbc) и регистрируются в глобальном реестре через init.
// Импорт подпакета подключает и движок, и его драйвер database/sql:
//
//	import _ "github.com/BritishGeologicalSurvey/etlhelper/pkg/dbhelpers/sqlite"
package dbhelpers

// Helper описывает особенности одного движка базы данных.
type Helper interface {
	// DBType возвращает ключ движка в реестре (postgres, sqlite, ...).
	DBType() string

	// DriverName возвращает имя драйвера для sql.Open.
	DriverName() string

	// Paramstyle возвращает человекочитаемое описание позиционных
	// плейсхолдеров движка, например "qmark (?)" или "numbered ($1)".
	// Используется в сообщениях об ошибках.
	Paramstyle() string

	// NamedParamstyle описывает именованные плейсхолдеры. Пустая
	// строка означает, что движок их не поддерживает.
	NamedParamstyle() string

	// Placeholder возвращает позиционный плейсхолдер для аргумента
	// с номером n, начиная с 1.
	Placeholder(n int) string

	// NamedPlaceholder возвращает именованный плейсхолдер для столбца.
	// Вызывается только если NamedParamstyle не пуст.
	NamedPlaceholder(name string) string

	// SavepointSQL, RollbackToSQL и ReleaseSQL возвращают операторы
	// работы с точкой сохранения. Пустая строка от ReleaseSQL
	// означает, что явное освобождение не требуется.
	SavepointSQL(name string) string
	RollbackToSQL(name string) string
	ReleaseSQL(name string) string

	// TableInfoQuery возвращает запрос метаданных столбцов с двумя
	// позиционными параметрами: имя таблицы и имя схемы (NULL - любая
	// схема). Пустая строка означает, что движок не поддерживает
	// запрос метаданных.
	TableInfoQuery() string

	// RequiredParams возвращает обязательные ключи DbParams помимо
	// dbtype.
	RequiredParams() []string

	// OptionalParams возвращает допустимые необязательные ключи.
	OptionalParams() []string

	// ConnectionString строит DSN для sql.Open. password - значение
	// пароля (может быть пустым).
	ConnectionString(params map[string]string, password string) (string, error)
}
