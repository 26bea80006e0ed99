package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tokopintar/catalog-backend/pkg/migrate"
)

func TestCatalogMigrationsContainSchemas(t *testing.T) {
	cases := []struct {
		pattern string
		checks  []string
	}{
		{
			pattern: "*_create_users.sql",
			checks: []string{
				"CREATE TABLE users",
				"email text NOT NULL UNIQUE",
				"password_hash text NOT NULL",
			},
		},
		{
			pattern: "*_create_products.sql",
			checks: []string{
				"CREATE TABLE products",
				"price numeric(12,2) NOT NULL",
				"created_by uuid REFERENCES users(id) ON DELETE SET NULL",
			},
		},
		{
			pattern: "*_create_product_images.sql",
			checks: []string{
				"CREATE TABLE product_images",
				"product_id uuid NOT NULL REFERENCES products(id) ON DELETE CASCADE",
				"file_id text NOT NULL UNIQUE",
				"CREATE INDEX idx_product_images_product_id ON product_images (product_id, position)",
			},
		},
		{
			pattern: "*_create_upload_intents.sql",
			checks: []string{
				"CREATE TABLE upload_intents",
				"status text NOT NULL DEFAULT 'pending'",
			},
		},
	}

	for _, tc := range cases {
		matches, err := filepath.Glob(filepath.Join("migrations", tc.pattern))
		if err != nil {
			t.Fatalf("glob migrations: %v", err)
		}
		if len(matches) == 0 {
			t.Fatalf("no migration matching %q found", tc.pattern)
		}

		data, err := os.ReadFile(matches[0])
		if err != nil {
			t.Fatalf("read migration file: %v", err)
		}
		content := string(data)

		for _, sub := range tc.checks {
			if !strings.Contains(content, sub) {
				t.Errorf("%s: missing expected statement %q", matches[0], sub)
			}
		}
	}
}

func TestMigrationDirIsValid(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate migrations dir: %v", err)
	}
}
