package repository

import (
	"context"
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"text-signing-service/internal/domain"
)

func TestMigrationRepository_RecordAndFind(t *testing.T) {
	ctx := context.Background()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "m.db")), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	repo := NewMigrationRepository(db)

	if err := repo.EnsureTable(ctx); err != nil {
		t.Fatalf("EnsureTable failed: %v", err)
	}
	// 2回目も成功する
	if err := repo.EnsureTable(ctx); err != nil {
		t.Fatalf("EnsureTable (second) failed: %v", err)
	}

	applied, err := repo.FindAllApplied(ctx)
	if err != nil {
		t.Fatalf("FindAllApplied failed: %v", err)
	}
	if len(applied) != 0 {
		t.Fatalf("want 0 applied, got %d", len(applied))
	}

	if err := repo.RecordMigration(ctx, nil, &domain.Migration{Version: "002", Name: "b"}); err != nil {
		t.Fatalf("RecordMigration failed: %v", err)
	}
	if err := repo.RecordMigration(ctx, nil, &domain.Migration{Version: "001", Name: "a"}); err != nil {
		t.Fatalf("RecordMigration failed: %v", err)
	}

	applied, err = repo.FindAllApplied(ctx)
	if err != nil {
		t.Fatalf("FindAllApplied failed: %v", err)
	}
	if len(applied) != 2 {
		t.Fatalf("want 2 applied, got %d", len(applied))
	}
	if applied[0].Version != "001" || applied[0].Name != "a" {
		t.Errorf("want first migration 001_a, got %s_%s", applied[0].Version, applied[0].Name)
	}
	if applied[0].AppliedAt == nil || !applied[0].IsApplied() {
		t.Error("want applied status with timestamp")
	}
	if applied[0].AppliedAt == applied[1].AppliedAt {
		t.Error("AppliedAt pointers must not alias")
	}
}
