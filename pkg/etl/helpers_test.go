package etl

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/BritishGeologicalSurvey/etlhelper/pkg/dbhelpers"
	"github.com/BritishGeologicalSurvey/etlhelper/pkg/dbparams"

	_ "github.com/BritishGeologicalSurvey/etlhelper/pkg/dbhelpers/sqlite"
)

// testConnection открывает подключение к временной базе SQLite,
// закрываемое при завершении теста.
func testConnection(t *testing.T, name string) *dbhelpers.Connection {
	t.Helper()
	conn, err := dbhelpers.Connect(context.Background(),
		dbparams.New("sqlite", map[string]string{
			"filename": filepath.Join(t.TempDir(), name),
		}), "")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// createRockTable создает таблицу minerals и наполняет ее n строками
// с id от 1 до n.
func createRockTable(t *testing.T, conn *dbhelpers.Connection, n int) {
	t.Helper()
	ctx := context.Background()
	ddl := `CREATE TABLE minerals (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		hardness REAL
	)`
	if err := Execute(ctx, ddl, conn); err != nil {
		t.Fatalf("failed to create table: %v", err)
	}
	for i := 1; i <= n; i++ {
		err := Execute(ctx,
			"INSERT INTO minerals (id, name, hardness) VALUES (?, ?, ?)",
			conn, i, fmt.Sprintf("mineral-%d", i), float64(i)/2)
		if err != nil {
			t.Fatalf("failed to seed row %d: %v", i, err)
		}
	}
}

// countRows возвращает количество строк таблицы.
func countRows(t *testing.T, conn *dbhelpers.Connection, table string) int64 {
	t.Helper()
	r, err := FetchOne(context.Background(),
		"SELECT count(*) AS n FROM "+table, conn)
	if err != nil {
		t.Fatalf("failed to count rows in %s: %v", table, err)
	}
	n, _ := r.Get("n")
	count, ok := n.(int64)
	if !ok {
		t.Fatalf("unexpected count type %T", n)
	}
	return count
}
