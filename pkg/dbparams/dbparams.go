// Package dbparams хранит параметры подключения к базе данных.
//
// Параметры собираются из кода, переменных окружения или YAML файла.
// Пароль намеренно не хранится в DbParams: он читается из переменной
// окружения непосредственно при подключении.
package dbparams

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// DbParams - набор параметров подключения. Обязательный ключ dbtype
// определяет движок (postgres, mysql, mssql, sqlite, odbc), остальные
// ключи зависят от движка.
type DbParams map[string]string

// ParamsError - ошибка состава параметров подключения.
type ParamsError struct {
	Msg string
}

func (e *ParamsError) Error() string { return e.Msg }

// New создает DbParams с указанным типом базы. Тип приводится к
// нижнему регистру.
func New(dbtype string, params map[string]string) DbParams {
	p := make(DbParams, len(params)+1)
	for k, v := range params {
		p[k] = v
	}
	p["dbtype"] = strings.ToLower(dbtype)
	return p
}

// DBType возвращает тип базы данных.
func (p DbParams) DBType() string { return p["dbtype"] }

// Copy возвращает независимую копию параметров.
func (p DbParams) Copy() DbParams {
	c := make(DbParams, len(p))
	for k, v := range p {
		c[k] = v
	}
	return c
}

// FromEnvironment собирает DbParams из переменных окружения с заданным
// префиксом. Пустой префикс означает "ETLHELPER_". Имя переменной без
// префикса, приведенное к нижнему регистру, становится ключом:
// ETLHELPER_DBTYPE=postgres -> dbtype=postgres.
func FromEnvironment(prefix string) (DbParams, error) {
	if prefix == "" {
		prefix = "ETLHELPER_"
	}
	p := make(DbParams)
	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, prefix) {
			continue
		}
		kv := strings.SplitN(env, "=", 2)
		if len(kv) != 2 {
			continue
		}
		key := strings.ToLower(strings.TrimPrefix(kv[0], prefix))
		if key == "" {
			continue
		}
		p[key] = kv[1]
	}
	if len(p) == 0 {
		return nil, &ParamsError{Msg: fmt.Sprintf(
			"no environment variables found with prefix %s", prefix)}
	}
	if p["dbtype"] == "" {
		return nil, &ParamsError{Msg: fmt.Sprintf(
			"%sDBTYPE environment variable is not set", prefix)}
	}
	p["dbtype"] = strings.ToLower(p["dbtype"])
	return p, nil
}

// FromYAML читает именованный набор параметров из YAML файла вида:
//
//	dev:
//	  dbtype: postgres
//	  host: localhost
//	prod:
//	  dbtype: postgres
//	  host: db.example.com
func FromYAML(path, name string) (DbParams, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParamsError{Msg: fmt.Sprintf(
			"failed to read db params file %s: %v", path, err)}
	}
	var sets map[string]map[string]string
	if err := yaml.Unmarshal(data, &sets); err != nil {
		return nil, &ParamsError{Msg: fmt.Sprintf(
			"failed to parse db params file %s: %v", path, err)}
	}
	set, ok := sets[name]
	if !ok {
		return nil, &ParamsError{Msg: fmt.Sprintf(
			"db params set %q not found in %s", name, path)}
	}
	p := make(DbParams, len(set))
	for k, v := range set {
		p[strings.ToLower(k)] = v
	}
	if p["dbtype"] == "" {
		return nil, &ParamsError{Msg: fmt.Sprintf(
			"db params set %q has no dbtype", name)}
	}
	p["dbtype"] = strings.ToLower(p["dbtype"])
	return p, nil
}

// String возвращает параметры без секретов, пригодные для логов.
func (p DbParams) String() string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	// dbtype первым, остальные по алфавиту
	parts := make([]string, 0, len(keys))
	if v, ok := p["dbtype"]; ok {
		parts = append(parts, "dbtype="+v)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if k == "dbtype" {
			continue
		}
		parts = append(parts, k+"="+p[k])
	}
	return "DbParams(" + strings.Join(parts, ", ") + ")"
}
