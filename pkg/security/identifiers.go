// Package security проверяет идентификаторы SQL перед подстановкой
// в текст запроса. Имена таблиц и столбцов, приходящие из данных,
// нельзя параметризовать, поэтому они проверяются по белому списку
// символов.
package security

import (
	"fmt"
	"regexp"
	"strings"
)

// identifierPattern - допустимый вид идентификатора: буква или
// подчеркивание, дальше буквы, цифры и подчеркивания.
var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// IdentifierError - недопустимый идентификатор SQL.
type IdentifierError struct {
	Name string
}

func (e *IdentifierError) Error() string {
	return fmt.Sprintf("%q is not a valid identifier", e.Name)
}

// ValidateIdentifier проверяет одно имя (столбец, таблица без схемы).
func ValidateIdentifier(name string) error {
	if !identifierPattern.MatchString(name) {
		return &IdentifierError{Name: name}
	}
	return nil
}

// ValidateTableName проверяет имя таблицы, допуская квалификацию
// схемой и базой: до трех частей, разделенных точками, каждая часть -
// корректный идентификатор.
func ValidateTableName(name string) error {
	parts := strings.Split(name, ".")
	if len(parts) > 3 {
		return &IdentifierError{Name: name}
	}
	for _, part := range parts {
		if !identifierPattern.MatchString(part) {
			return &IdentifierError{Name: name}
		}
	}
	return nil
}
