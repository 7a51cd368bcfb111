package database

import (
	"context"
	"testing"
	"testing/fstest"
)

func testSource() fstest.MapFS {
	return fstest.MapFS{
		"20260101_000000_gates.up.sql":   {Data: []byte("CREATE TABLE test_gates (id TEXT PRIMARY KEY);")},
		"20260101_000000_gates.down.sql": {Data: []byte("DROP TABLE test_gates;")},
		"20260102_000000_paths.up.sql":   {Data: []byte("CREATE TABLE test_paths (id TEXT PRIMARY KEY);")},
		"README.md":                      {Data: []byte("ignored")},
	}
}

func tableExists(t *testing.T, db *DB, name string) bool {
	t.Helper()
	var count int
	err := db.QueryRowContext(context.Background(),
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", name,
	).Scan(&count)
	if err != nil {
		t.Fatalf("querying sqlite_master: %v", err)
	}
	return count == 1
}

func TestMigrate(t *testing.T) {
	db := openTestDB(t)
	defer db.Close() //nolint:errcheck // Test cleanup
	ctx := context.Background()

	if err := db.Migrate(ctx, testSource()); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}

	for _, table := range []string{"test_gates", "test_paths"} {
		if !tableExists(t, db, table) {
			t.Errorf("table %s not created", table)
		}
	}

	applied, pending, err := db.MigrationStatus(ctx, testSource())
	if err != nil {
		t.Fatalf("MigrationStatus() error = %v", err)
	}
	if len(applied) != 2 || len(pending) != 0 {
		t.Errorf("applied=%d pending=%d, want 2 and 0", len(applied), len(pending))
	}

	if err := db.Migrate(ctx, testSource()); err != nil {
		t.Fatalf("second Migrate() error = %v", err)
	}
}

func TestMigrateDown(t *testing.T) {
	db := openTestDB(t)
	defer db.Close() //nolint:errcheck // Test cleanup
	ctx := context.Background()

	src := fstest.MapFS{
		"20260101_000000_gates.up.sql":   {Data: []byte("CREATE TABLE test_gates (id TEXT PRIMARY KEY);")},
		"20260101_000000_gates.down.sql": {Data: []byte("DROP TABLE test_gates;")},
	}
	if err := db.Migrate(ctx, src); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	if err := db.MigrateDown(ctx, src); err != nil {
		t.Fatalf("MigrateDown() error = %v", err)
	}
	if tableExists(t, db, "test_gates") {
		t.Error("test_gates still exists after MigrateDown")
	}

	_, pending, err := db.MigrationStatus(ctx, src)
	if err != nil {
		t.Fatalf("MigrationStatus() error = %v", err)
	}
	if len(pending) != 1 {
		t.Errorf("pending = %d, want 1", len(pending))
	}
}

func TestMigrateDown_NoDownSQL(t *testing.T) {
	db := openTestDB(t)
	defer db.Close() //nolint:errcheck // Test cleanup
	ctx := context.Background()

	src := fstest.MapFS{
		"20260102_000000_paths.up.sql": {Data: []byte("CREATE TABLE test_paths (id TEXT PRIMARY KEY);")},
	}
	if err := db.Migrate(ctx, src); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	if err := db.MigrateDown(ctx, src); err == nil {
		t.Error("MigrateDown() expected error without down SQL")
	}
}

func TestMigrate_NilSource(t *testing.T) {
	db := openTestDB(t)
	defer db.Close() //nolint:errcheck // Test cleanup

	if err := db.Migrate(context.Background(), nil); err != nil {
		t.Errorf("Migrate(nil) error = %v", err)
	}
}

func TestMigrate_FailureRollsBack(t *testing.T) {
	db := openTestDB(t)
	defer db.Close() //nolint:errcheck // Test cleanup
	ctx := context.Background()

	src := fstest.MapFS{
		"20260101_000000_ok.up.sql":  {Data: []byte("CREATE TABLE ok_table (id TEXT);")},
		"20260102_000000_bad.up.sql": {Data: []byte("CREATE TABLE bad_table (id TEXT); NOT VALID SQL;")},
	}
	if err := db.Migrate(ctx, src); err == nil {
		t.Fatal("Migrate() expected error")
	}
	if !tableExists(t, db, "ok_table") {
		t.Error("earlier migration should stay committed")
	}
	if tableExists(t, db, "bad_table") {
		t.Error("failed migration should be rolled back")
	}
}

func TestParseMigrationFilename(t *testing.T) {
	tests := []struct {
		name        string
		wantVersion string
		wantUp      bool
		wantOK      bool
	}{
		{"20260301_090000_route_history.up.sql", "20260301_090000", true, true},
		{"20260301_090000_route_history.down.sql", "20260301_090000", false, true},
		{"20260301_090000_route_history.sql", "", false, false},
		{"notes.txt", "", false, false},
		{"single.up.sql", "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			version, isUp, ok := parseMigrationFilename(tt.name)
			if version != tt.wantVersion || isUp != tt.wantUp || ok != tt.wantOK {
				t.Errorf("parseMigrationFilename(%q) = (%q, %v, %v), want (%q, %v, %v)",
					tt.name, version, isUp, ok, tt.wantVersion, tt.wantUp, tt.wantOK)
			}
		})
	}
}

func TestExtractMigrationName(t *testing.T) {
	if got := extractMigrationName("20260301_090000_route_history.up.sql"); got != "route_history" {
		t.Errorf("extractMigrationName() = %q, want route_history", got)
	}
	if got := extractMigrationName("odd.up.sql"); got != "odd" {
		t.Errorf("extractMigrationName() = %q, want odd", got)
	}
}
