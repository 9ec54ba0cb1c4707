package migrate

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/angelmondragon/storefront-cart/pkg/config"
	"github.com/angelmondragon/storefront-cart/pkg/db"
	"github.com/angelmondragon/storefront-cart/pkg/logger"
)

func TestEmbeddedMigrationsAreValid(t *testing.T) {
	if err := ValidateEmbedded(); err != nil {
		t.Fatalf("embedded migrations invalid: %v", err)
	}
	if err := ValidateDir("migrations"); err != nil {
		t.Fatalf("on-disk migrations invalid: %v", err)
	}
}

func TestCartSlotsMigrationContents(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_cart_slots.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no cart_slots migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	for _, sub := range []string{
		"CREATE TABLE IF NOT EXISTS cart_slots",
		"slot_key VARCHAR(255) PRIMARY KEY",
		"payload TEXT NOT NULL",
		"DROP TABLE IF EXISTS cart_slots",
	} {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestValidateDirRejectsBadFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad name.sql"), []byte("-- +goose Up\n-- +goose Down\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := ValidateDir(dir); err == nil {
		t.Fatal("expected filename error")
	}

	dir = t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "20260101000000_x.sql"), []byte("-- +goose Up\nSELECT 1;\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := ValidateDir(dir); err == nil {
		t.Fatal("expected missing Down error")
	}

	if err := ValidateDir(t.TempDir()); err == nil {
		t.Fatal("expected error for empty directory")
	}
}

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	path, err := CreateSQLMigration(dir, "  Add Checkout Audit! ", now)
	if err != nil {
		t.Fatalf("create migration: %v", err)
	}
	if filepath.Base(path) != "20260301120000_add_checkout_audit.sql" {
		t.Fatalf("unexpected filename %s", filepath.Base(path))
	}
	if err := ValidateDir(dir); err != nil {
		t.Fatalf("created migration should validate: %v", err)
	}
	if _, err := CreateSQLMigration(dir, "add checkout audit", now); err == nil {
		t.Fatal("expected duplicate error")
	}
	if _, err := CreateSQLMigration(dir, "!!!", now); err == nil {
		t.Fatal("expected empty slug error")
	}
}

func TestDialect(t *testing.T) {
	cases := map[string]string{"": "postgres", "postgres": "postgres", "sqlite": "sqlite3"}
	for driver, want := range cases {
		got, err := Dialect(driver)
		if err != nil || got != want {
			t.Fatalf("driver %q: got %q err %v", driver, got, err)
		}
	}
	if _, err := Dialect("oracle"); err == nil {
		t.Fatal("expected unsupported driver error")
	}
}

func TestMaybeRunAppliesEmbeddedMigrationsOnSQLite(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{
		App:     config.AppConfig{Env: config.AppEnvDev},
		Storage: config.StorageConfig{Backend: config.StorageBackendSQL},
		DB: config.DBConfig{
			Driver:       config.DBDriverSQLite,
			DSN:          filepath.Join(t.TempDir(), "migrate.db"),
			MaxOpenConns: 1,
			AutoMigrate:  true,
		},
	}
	client, err := db.New(ctx, cfg.DB, logger.Nop())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer client.Close()

	if err := MaybeRun(ctx, cfg, logger.Nop(), client); err != nil {
		t.Fatalf("auto-run migrations: %v", err)
	}
	if !client.DB().Migrator().HasTable("cart_slots") {
		t.Fatal("expected cart_slots table after migrations")
	}

	cfg.DB.AutoMigrate = false
	if err := MaybeRun(ctx, cfg, logger.Nop(), client); err != nil {
		t.Fatalf("disabled auto-run should be a no-op: %v", err)
	}
}
