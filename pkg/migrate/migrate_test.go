package migrate

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"
)

func TestEmbeddedMigrationsValidate(t *testing.T) {
	if err := ValidateFS(Embedded()); err != nil {
		t.Fatalf("embedded migrations invalid: %v", err)
	}
}

func TestArticlesMigrationContainsSchema(t *testing.T) {
	content := readMigration(t, "*_create_articles_table.sql")
	checks := []string{
		"CREATE TABLE IF NOT EXISTS articles",
		"subject VARCHAR(200) NOT NULL",
		"FOREIGN KEY (author_id) REFERENCES members(id) ON DELETE CASCADE",
		"DROP TABLE IF EXISTS articles",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestMembersMigrationContainsSchema(t *testing.T) {
	content := readMigration(t, "*_create_members_table.sql")
	checks := []string{
		"CREATE TABLE IF NOT EXISTS members",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_members_username",
		"CHECK (role IN ('user', 'admin'))",
		"DROP TABLE IF EXISTS members",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func readMigration(t *testing.T, pattern string) string {
	t.Helper()
	matches, err := fs.Glob(Embedded(), pattern)
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration matching %s", pattern)
	}
	data, err := fs.ReadFile(Embedded(), matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}

func TestValidateFSRejectsBadFiles(t *testing.T) {
	cases := map[string]fstest.MapFS{
		"bad name": {
			"create_articles.sql": {Data: []byte("-- +goose Up\n-- +goose Down\n")},
		},
		"duplicate version": {
			"20260101000000_a.sql": {Data: []byte("-- +goose Up\n-- +goose Down\n")},
			"20260101000000_b.sql": {Data: []byte("-- +goose Up\n-- +goose Down\n")},
		},
		"missing down": {
			"20260101000000_a.sql": {Data: []byte("-- +goose Up\n")},
		},
	}
	for name, fsys := range cases {
		t.Run(name, func(t *testing.T) {
			if err := ValidateFS(fsys); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()
	at := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)

	path, err := createSQLMigrationAt(dir, "Add Article Tags!", at)
	if err != nil {
		t.Fatalf("create migration: %v", err)
	}
	if filepath.Base(path) != "20260304050607_add_article_tags.sql" {
		t.Fatalf("unexpected filename %s", filepath.Base(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read created migration: %v", err)
	}
	if !strings.Contains(string(data), "-- rollback add_article_tags") {
		t.Fatalf("template not rendered: %s", data)
	}
	if err := ValidateDir(dir); err != nil {
		t.Fatalf("created migration should validate: %v", err)
	}

	if _, err := createSQLMigrationAt(dir, "Add Article Tags!", at); err == nil {
		t.Fatal("expected duplicate migration error")
	}
	if _, err := createSQLMigrationAt(dir, "!!!", at); err == nil {
		t.Fatal("expected empty name error")
	}
}

func TestParseVersion(t *testing.T) {
	if v, err := ParseVersion("20260101000100"); err != nil || v != 20260101000100 {
		t.Fatalf("unexpected parse result %d %v", v, err)
	}
	for _, raw := range []string{"", "2026", "2026010100010x"} {
		if _, err := ParseVersion(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}
