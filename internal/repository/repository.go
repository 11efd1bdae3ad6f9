package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"peerlend/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetUserByAddress retrieves a user by normalized wallet address
func (r *Repository) GetUserByAddress(ctx context.Context, address string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("wallet_address = ?", address).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser creates a new user
func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// UpdateUser updates an existing user
func (r *Repository) UpdateUser(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// ListUsers retrieves all users
func (r *Repository) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// CreateNotification appends to the notification log
func (r *Repository) CreateNotification(ctx context.Context, n *models.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

// ListNotifications retrieves a user's notifications, newest first
func (r *Repository) ListNotifications(ctx context.Context, address string) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.WithContext(ctx).
		Where("user_address = ?", address).
		Order("created_at DESC").
		Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

// DeleteNotification removes one notification by id
func (r *Repository) DeleteNotification(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Notification{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateTransaction appends to the transaction ledger
func (r *Repository) CreateTransaction(ctx context.Context, tx *models.Transaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

// ListTransactions retrieves a user's ledger entries, oldest first. A nil
// since means the full history.
func (r *Repository) ListTransactions(ctx context.Context, address string, since *time.Time) ([]models.Transaction, error) {
	query := r.db.WithContext(ctx).Where("user_address = ?", address)
	if since != nil {
		query = query.Where("created_at >= ?", *since)
	}

	var transactions []models.Transaction
	if err := query.Order("created_at ASC").Find(&transactions).Error; err != nil {
		return nil, err
	}
	return transactions, nil
}

// GetProtocolData retrieves the singleton aggregate record, creating the
// zero row on first access.
func (r *Repository) GetProtocolData(ctx context.Context) (*models.ProtocolData, error) {
	var data models.ProtocolData
	err := r.db.WithContext(ctx).First(&data).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		data = models.ProtocolData{ID: 1}
		if err := r.db.WithContext(ctx).Create(&data).Error; err != nil {
			return nil, err
		}
		return &data, nil
	}
	if err != nil {
		return nil, err
	}
	return &data, nil
}

// ApplyProtocolDelta adds a delta to the aggregate record atomically and
// returns the updated snapshot.
func (r *Repository) ApplyProtocolDelta(ctx context.Context, delta models.ProtocolDeltaRequest) (*models.ProtocolData, error) {
	var updated models.ProtocolData
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var data models.ProtocolData
		if err := tx.First(&data).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			data = models.ProtocolData{ID: 1}
			if err := tx.Create(&data).Error; err != nil {
				return err
			}
		}

		data.TotalBorrow = data.TotalBorrow.Add(delta.TotalBorrow)
		data.TotalLend = data.TotalLend.Add(delta.TotalLend)
		data.TotalP2PDeals += delta.TotalP2PDeals
		data.TotalInterestEarned = data.TotalInterestEarned.Add(delta.TotalInterestEarned)
		data.TotalValueLocked = data.TotalValueLocked.Add(delta.TotalValueLocked)

		if err := tx.Save(&data).Error; err != nil {
			return err
		}
		updated = data
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
