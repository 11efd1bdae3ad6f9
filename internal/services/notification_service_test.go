package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"peerlend/internal/models"
	"peerlend/internal/repository"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Notification{},
		&models.Transaction{},
		&models.ProtocolData{},
	)
	if err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	return db
}

func TestNotificationLifecycle(t *testing.T) {
	db := setupTestDB(t)
	db.Exec("DELETE FROM notifications")

	service := NewNotificationService(repository.NewRepository(db))
	ctx := context.Background()

	// Addresses are normalized on write, so differently written forms of
	// the same account share one log.
	first, err := service.Create(ctx, models.CreateNotificationRequest{
		UserAddress: "0xABC",
		Message:     "Your lending proposal for 100 STRK is live",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	second, err := service.Create(ctx, models.CreateNotificationRequest{
		UserAddress: "0x0abc",
		Message:     "Proposal 0x1 has been accepted",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if first.UserAddress != second.UserAddress {
		t.Fatalf("expected one normalized address, got %q and %q", first.UserAddress, second.UserAddress)
	}

	// Backdate the first entry so the ordering assertion is deterministic.
	db.Model(&models.Notification{}).Where("id = ?", first.ID).
		Update("created_at", second.CreatedAt.Add(-time.Hour))

	list, err := service.List(ctx, "0xabc")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(list))
	}
	// Newest first.
	if list[0].ID != second.ID {
		t.Errorf("expected newest notification first, got id %d", list[0].ID)
	}

	if err := service.Delete(ctx, first.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	list, err = service.List(ctx, "0xabc")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("expected 1 notification after delete, got %d", len(list))
	}

	// Deleting again reports not found.
	if err := service.Delete(ctx, first.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestNotificationCreateRejectsBadAddress(t *testing.T) {
	db := setupTestDB(t)
	service := NewNotificationService(repository.NewRepository(db))

	_, err := service.Create(context.Background(), models.CreateNotificationRequest{
		UserAddress: "not-an-address",
		Message:     "hello",
	})
	if err == nil {
		t.Fatal("expected malformed address to fail")
	}
}
