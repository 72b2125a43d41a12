package models

import (
	"testing"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Startup aborts on a failed migration, so MigrateDB must propagate the
// first AutoMigrate error instead of swallowing it.
func TestMigrateDBReturnsError(t *testing.T) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=127.0.0.1 port=1 user=test dbname=test connect_timeout=1",
	}), &gorm.Config{
		DisableAutomaticPing: true,
		Logger:               logger.Discard,
	})
	if err != nil {
		t.Fatalf("open lazy db: %v", err)
	}

	if err := MigrateDB(db); err == nil {
		t.Error("expected an error migrating against an unreachable database")
	}
}
