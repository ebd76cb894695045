package db

import (
	"strings"
	"testing"
)

func TestLoadMigrations_Ordered(t *testing.T) {
	migrations, err := loadMigrations()
	if err != nil {
		t.Fatalf("load migrations: %v", err)
	}

	if len(migrations) == 0 {
		t.Fatalf("expected at least one migration")
	}

	for i := 1; i < len(migrations); i++ {
		if migrations[i-1].version >= migrations[i].version {
			t.Fatalf("migrations out of order: %s before %s", migrations[i-1].name, migrations[i].name)
		}
	}

	first := migrations[0]
	for _, table := range []string{"users", "providers", "categories", "provider_categories", "services", "availabilities"} {
		if !strings.Contains(first.sql, "CREATE TABLE IF NOT EXISTS "+table+" ") {
			t.Fatalf("initial migration is missing table %s", table)
		}
	}

	// the conflict translator relies on these names
	for _, constraint := range []string{"users_email_key", "users_phone_key", "categories_name_key", "categories_slug_key", "providers_user_id_key"} {
		if !strings.Contains(first.sql, constraint) {
			t.Fatalf("initial migration is missing constraint %s", constraint)
		}
	}
}
