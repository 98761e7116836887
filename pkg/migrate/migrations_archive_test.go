package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestArchiveMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_event_archive.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no event archive migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS event_archive",
		"network_id text NOT NULL",
		"occurred_at timestamptz NOT NULL",
		"CHECK (clicks >= 0)",
		"idx_event_archive_network_id",
		"DROP TABLE IF EXISTS event_archive",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}
