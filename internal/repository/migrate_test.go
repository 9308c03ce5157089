package repository

import (
	"strings"
	"testing"
)

func TestParseMigrationName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		file          string
		wantVersion   int
		wantLabel     string
		wantDirection string
		wantOK        bool
	}{
		{"up", "000001_users.up.sql", 1, "users", "up", true},
		{"down", "000002_jobs.down.sql", 2, "jobs", "down", true},
		{"label with underscores", "000010_add_job_index.up.sql", 10, "add_job_index", "up", true},
		{"missing direction", "000001_users.sql", 0, "", "", false},
		{"missing label", "000001.up.sql", 0, "", "", false},
		{"non-numeric version", "abc_users.up.sql", 0, "", "", false},
		{"zero version", "000000_users.up.sql", 0, "", "", false},
		{"wrong extension", "000001_users.up.txt", 0, "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			version, label, direction, ok := parseMigrationName(tt.file)
			if ok != tt.wantOK {
				t.Fatalf("parseMigrationName(%q) ok = %v, want %v", tt.file, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if version != tt.wantVersion || label != tt.wantLabel || direction != tt.wantDirection {
				t.Errorf("parseMigrationName(%q) = (%d, %q, %q), want (%d, %q, %q)",
					tt.file, version, label, direction, tt.wantVersion, tt.wantLabel, tt.wantDirection)
			}
		})
	}
}

func TestLoadMigrations(t *testing.T) {
	t.Parallel()

	migrations, err := LoadMigrations()
	if err != nil {
		t.Fatalf("LoadMigrations: %v", err)
	}

	if len(migrations) < 2 {
		t.Fatalf("expected at least 2 migrations, got %d", len(migrations))
	}

	for i, m := range migrations {
		if i > 0 && migrations[i-1].Version >= m.Version {
			t.Errorf("migrations out of order at %d: %d then %d", i, migrations[i-1].Version, m.Version)
		}
		if m.Up == "" || m.Down == "" {
			t.Errorf("migration %d (%s) must have both up and down scripts", m.Version, m.Name)
		}
	}

	if !strings.Contains(migrations[0].Up, "CREATE TABLE IF NOT EXISTS users") {
		t.Errorf("first migration should create users table")
	}
	if !strings.Contains(migrations[1].Up, "job_status") {
		t.Errorf("second migration should create the job_status enum")
	}
}
