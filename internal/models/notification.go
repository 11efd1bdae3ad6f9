package models

import (
	"time"
)

// Notification is one entry in the per-user append-only notification log.
// Created as a side effect of successful on-chain actions; never edited.
type Notification struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserAddress string    `gorm:"size:66;not null;index" json:"user_address"`
	Message     string    `gorm:"type:text;not null" json:"message"`
	CreatedAt   time.Time `gorm:"index" json:"timestamp"`
}

// TableName specifies the table name for Notification model
func (Notification) TableName() string {
	return "notifications"
}

// CreateNotificationRequest represents the request to append a notification
type CreateNotificationRequest struct {
	UserAddress string `json:"user_address" binding:"required"`
	Message     string `json:"message" binding:"required"`
}
