package dbparams

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestNew(t *testing.T) {
	p := New("SQLite", map[string]string{"filename": "/tmp/test.db"})

	if p.DBType() != "sqlite" {
		t.Errorf("DBType() = %s, want sqlite", p.DBType())
	}
	if p["filename"] != "/tmp/test.db" {
		t.Errorf("filename = %s", p["filename"])
	}
}

func TestCopyIsIndependent(t *testing.T) {
	p := New("sqlite", map[string]string{"filename": "a.db"})
	c := p.Copy()
	c["filename"] = "b.db"

	if p["filename"] != "a.db" {
		t.Error("Copy shares storage with original")
	}
}

func TestFromEnvironment(t *testing.T) {
	t.Setenv("ETLHELPER_DBTYPE", "postgres")
	t.Setenv("ETLHELPER_HOST", "localhost")
	t.Setenv("ETLHELPER_PORT", "5432")

	p, err := FromEnvironment("")
	if err != nil {
		t.Fatalf("FromEnvironment: %v", err)
	}
	if p.DBType() != "postgres" {
		t.Errorf("DBType() = %s", p.DBType())
	}
	if p["host"] != "localhost" || p["port"] != "5432" {
		t.Errorf("unexpected params: %v", p)
	}
}

func TestFromEnvironmentCustomPrefix(t *testing.T) {
	t.Setenv("MYAPP_DBTYPE", "MySQL")
	t.Setenv("MYAPP_HOST", "db.internal")

	p, err := FromEnvironment("MYAPP_")
	if err != nil {
		t.Fatalf("FromEnvironment: %v", err)
	}
	if p.DBType() != "mysql" {
		t.Errorf("DBType() = %s, want mysql", p.DBType())
	}
}

func TestFromEnvironmentMissing(t *testing.T) {
	p, err := FromEnvironment("NO_SUCH_PREFIX_")
	if p != nil {
		t.Errorf("expected nil params, got %v", p)
	}
	var paramsErr *ParamsError
	if !errors.As(err, &paramsErr) {
		t.Fatalf("expected *ParamsError, got %T: %v", err, err)
	}
}

func TestFromEnvironmentNoDBType(t *testing.T) {
	t.Setenv("PARTIAL_HOST", "localhost")

	_, err := FromEnvironment("PARTIAL_")
	var paramsErr *ParamsError
	if !errors.As(err, &paramsErr) {
		t.Fatalf("expected *ParamsError, got %T: %v", err, err)
	}
}

func TestFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db_params.yaml")
	content := `
dev:
  dbtype: sqlite
  filename: /tmp/dev.db
prod:
  dbtype: postgres
  host: db.example.com
  port: "5432"
  dbname: datastore
  user: loader
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Run("existing set", func(t *testing.T) {
		p, err := FromYAML(path, "prod")
		if err != nil {
			t.Fatalf("FromYAML: %v", err)
		}
		if p.DBType() != "postgres" || p["host"] != "db.example.com" {
			t.Errorf("unexpected params: %v", p)
		}
	})

	t.Run("missing set", func(t *testing.T) {
		_, err := FromYAML(path, "staging")
		var paramsErr *ParamsError
		if !errors.As(err, &paramsErr) {
			t.Fatalf("expected *ParamsError, got %T: %v", err, err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := FromYAML(filepath.Join(t.TempDir(), "nope.yaml"), "dev")
		var paramsErr *ParamsError
		if !errors.As(err, &paramsErr) {
			t.Fatalf("expected *ParamsError, got %T: %v", err, err)
		}
	})
}

func TestStringPutsDBTypeFirst(t *testing.T) {
	p := New("sqlite", map[string]string{"filename": "x.db"})

	want := "DbParams(dbtype=sqlite, filename=x.db)"
	if got := p.String(); got != want {
		t.Errorf("String() = %s, want %s", got, want)
	}
}
