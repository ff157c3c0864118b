package etl

import (
	"context"
	"errors"
	"testing"
)

func TestTableInfo(t *testing.T) {
	conn := testConnection(t, "meta.db")
	ctx := context.Background()

	ddl := `CREATE TABLE boreholes (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		depth REAL DEFAULT 0.0,
		note TEXT
	)`
	if err := Execute(ctx, ddl, conn); err != nil {
		t.Fatalf("failed to create table: %v", err)
	}

	columns, err := TableInfo(ctx, "boreholes", conn)
	if err != nil {
		t.Fatalf("TableInfo: %v", err)
	}
	if len(columns) != 4 {
		t.Fatalf("got %d columns, want 4", len(columns))
	}

	byName := make(map[string]Column, len(columns))
	for _, c := range columns {
		byName[c.Name] = c
	}

	if c := byName["name"]; !c.NotNull || c.HasDefault {
		t.Errorf("name column flags = %+v", c)
	}
	if c := byName["depth"]; !c.HasDefault {
		t.Errorf("depth column flags = %+v", c)
	}
	if c := byName["note"]; c.NotNull || c.HasDefault {
		t.Errorf("note column flags = %+v", c)
	}
	if columns[0].Name != "id" {
		t.Errorf("columns out of order: first is %s", columns[0].Name)
	}
	if byName["name"].Type != "text" {
		t.Errorf("name column type = %s", byName["name"].Type)
	}
}

func TestTableInfoMissingTable(t *testing.T) {
	conn := testConnection(t, "meta.db")

	_, err := TableInfo(context.Background(), "no_such_table", conn)
	var queryErr *QueryError
	if !errors.As(err, &queryErr) {
		t.Fatalf("expected *QueryError, got %T: %v", err, err)
	}
}

func TestTableInfoBadNames(t *testing.T) {
	conn := testConnection(t, "meta.db")
	ctx := context.Background()

	if _, err := TableInfo(ctx, "x; DROP TABLE y", conn); err == nil {
		t.Error("bad table name accepted")
	}
	if _, err := TableInfoInSchema(ctx, "bad schema", "table", conn); err == nil {
		t.Error("bad schema name accepted")
	}
}
