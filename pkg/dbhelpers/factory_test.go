package dbhelpers

import (
	"errors"
	"reflect"
	"testing"
)

// stubHelper - минимальная реализация Helper для тестов реестра.
type stubHelper struct {
	dbType string
}

var _ Helper = (*stubHelper)(nil)

func (h *stubHelper) DBType() string                 { return h.dbType }
func (h *stubHelper) DriverName() string             { return "stub" }
func (h *stubHelper) Paramstyle() string             { return "qmark (?)" }
func (h *stubHelper) NamedParamstyle() string        { return "" }
func (h *stubHelper) Placeholder(int) string         { return "?" }
func (h *stubHelper) NamedPlaceholder(string) string { return "" }
func (h *stubHelper) SavepointSQL(name string) string {
	return "SAVEPOINT " + name
}
func (h *stubHelper) RollbackToSQL(name string) string {
	return "ROLLBACK TO SAVEPOINT " + name
}
func (h *stubHelper) ReleaseSQL(name string) string {
	return "RELEASE SAVEPOINT " + name
}
func (h *stubHelper) TableInfoQuery() string    { return "" }
func (h *stubHelper) RequiredParams() []string  { return []string{"host"} }
func (h *stubHelper) OptionalParams() []string  { return nil }
func (h *stubHelper) ConnectionString(params map[string]string, password string) (string, error) {
	return params["host"], nil
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	r.Register("StubDB", &stubHelper{dbType: "stubdb"})

	t.Run("lookup is case insensitive", func(t *testing.T) {
		for _, dbType := range []string{"stubdb", "STUBDB", "StubDB"} {
			if !r.IsRegistered(dbType) {
				t.Errorf("IsRegistered(%q) = false", dbType)
			}
			if _, err := r.FromDBType(dbType); err != nil {
				t.Errorf("FromDBType(%q) = %v", dbType, err)
			}
		}
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := r.FromDBType("db2")
		var helperErr *HelperError
		if !errors.As(err, &helperErr) {
			t.Fatalf("expected *HelperError, got %T: %v", err, err)
		}
		if helperErr.DBType != "db2" {
			t.Errorf("DBType = %s", helperErr.DBType)
		}
	})

	t.Run("registered types sorted", func(t *testing.T) {
		r.Register("another", &stubHelper{dbType: "another"})
		want := []string{"another", "stubdb"}
		if got := r.RegisteredTypes(); !reflect.DeepEqual(got, want) {
			t.Errorf("RegisteredTypes() = %v, want %v", got, want)
		}
	})
}
