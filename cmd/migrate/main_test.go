package main

import (
	"io/fs"
	"strings"
	"testing"
)

func TestMigrationsPaired(t *testing.T) {
	entries, err := fs.ReadDir(migrations, "migrations")
	if err != nil {
		t.Fatalf("read migrations: %v", err)
	}

	ups := map[string]bool{}
	downs := map[string]bool{}
	for _, e := range entries {
		name := e.Name()
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		default:
			t.Errorf("unexpected migration file %s", name)
		}
	}

	if len(ups) != 3 {
		t.Errorf("up migrations: got %d, want 3", len(ups))
	}
	for name := range ups {
		if !downs[name] {
			t.Errorf("migration %s has no down", name)
		}
	}
}
