package dbhelpers_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/BritishGeologicalSurvey/etlhelper/pkg/dbhelpers"
	"github.com/BritishGeologicalSurvey/etlhelper/pkg/dbparams"

	_ "github.com/BritishGeologicalSurvey/etlhelper/pkg/dbhelpers/sqlite"
)

func TestConnectSQLite(t *testing.T) {
	ctx := context.Background()
	params := dbparams.New("sqlite", map[string]string{
		"filename": filepath.Join(t.TempDir(), "test.db"),
	})

	conn, err := dbhelpers.Connect(ctx, params, "")
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer conn.Close()

	if conn.DBType() != "sqlite" {
		t.Errorf("DBType() = %s", conn.DBType())
	}
	if err := conn.Ping(ctx); err != nil {
		t.Errorf("Ping: %v", err)
	}
}

func TestConnectUnknownDBType(t *testing.T) {
	_, err := dbhelpers.Connect(context.Background(),
		dbparams.New("oracle", nil), "")

	var helperErr *dbhelpers.HelperError
	if !errors.As(err, &helperErr) {
		t.Fatalf("expected *HelperError, got %T: %v", err, err)
	}
}

func TestValidateParams(t *testing.T) {
	tests := []struct {
		name    string
		params  dbparams.DbParams
		wantErr bool
	}{
		{
			name: "complete",
			params: dbparams.New("sqlite", map[string]string{
				"filename": "test.db",
			}),
		},
		{
			name:    "missing required",
			params:  dbparams.New("sqlite", nil),
			wantErr: true,
		},
		{
			name: "unexpected key",
			params: dbparams.New("sqlite", map[string]string{
				"filename": "test.db",
				"host":     "localhost",
			}),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := dbhelpers.ValidateParams(tt.params)
			if tt.wantErr {
				var paramsErr *dbparams.ParamsError
				if !errors.As(err, &paramsErr) {
					t.Fatalf("expected *ParamsError, got %T: %v", err, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ValidateParams: %v", err)
			}
		})
	}
}

func TestPassword(t *testing.T) {
	t.Run("no variable means no password", func(t *testing.T) {
		password, err := dbhelpers.Password("")
		if err != nil || password != "" {
			t.Errorf("Password(\"\") = %q, %v", password, err)
		}
	})

	t.Run("set variable", func(t *testing.T) {
		t.Setenv("TEST_DB_PASSWORD", "s3cret")
		password, err := dbhelpers.Password("TEST_DB_PASSWORD")
		if err != nil {
			t.Fatalf("Password: %v", err)
		}
		if password != "s3cret" {
			t.Errorf("password = %q", password)
		}
	})

	t.Run("unset variable", func(t *testing.T) {
		_, err := dbhelpers.Password("TEST_DB_PASSWORD_UNSET")
		var paramsErr *dbparams.ParamsError
		if !errors.As(err, &paramsErr) {
			t.Fatalf("expected *ParamsError, got %T: %v", err, err)
		}
	})
}

func TestIsReachable(t *testing.T) {
	params := dbparams.New("postgres", map[string]string{
		// Порт из discard-диапазона, слушателя заведомо нет
		"host": "127.0.0.1",
		"port": "9",
	})
	if dbhelpers.IsReachable(params, 100*time.Millisecond) {
		t.Error("IsReachable reported a listener on a closed port")
	}
}

func TestWrapDB(t *testing.T) {
	ctx := context.Background()
	conn, err := dbhelpers.Connect(ctx, dbparams.New("sqlite", map[string]string{
		"filename": filepath.Join(t.TempDir(), "wrap.db"),
	}), "")
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer conn.Close()

	wrapped, err := dbhelpers.WrapDB(conn.DB(), "sqlite")
	if err != nil {
		t.Fatalf("WrapDB: %v", err)
	}
	if wrapped.Helper().DriverName() != "sqlite" {
		t.Errorf("DriverName() = %s", wrapped.Helper().DriverName())
	}
}
