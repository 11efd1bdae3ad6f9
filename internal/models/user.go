package models

import (
	"time"
)

// User represents a wallet that has connected to the dashboard
type User struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	WalletAddress string    `gorm:"size:66;uniqueIndex;not null" json:"user_address"` // normalized felt address
	Nickname      string    `gorm:"size:100;not null" json:"nickname"`
	Name          string    `gorm:"size:100" json:"name"`
	Email         string    `gorm:"size:255" json:"email"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}
