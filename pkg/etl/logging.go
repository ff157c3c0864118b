package etl

import (
	"io"

	"github.com/rs/zerolog"
)

// Логгер пакета. По умолчанию отключен: библиотека молчит, пока
// приложение явно не попросит диагностику.
var log = zerolog.Nop()

// EnableLogging включает диагностический вывод пакета в w с заданным
// уровнем. Сообщения покрывают границы чанков, итоги записи и
// сгенерированный SQL.
func EnableLogging(w io.Writer, level zerolog.Level) {
	log = zerolog.New(w).Level(level).With().
		Timestamp().
		Str("component", "etlhelper").
		Logger()
}

// SetLogger подставляет готовый логгер приложения.
func SetLogger(l zerolog.Logger) {
	log = l
}

// DisableLogging возвращает логгер в состояние по умолчанию.
func DisableLogging() {
	log = zerolog.Nop()
}
