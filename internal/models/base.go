package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base contains common columns for all tables
type Base struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate hook generates a time-ordered UUIDv7 for new records
func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			id = uuid.New()
		}
		b.ID = id.String()
	}
	return nil
}

// SetID assigns a caller-chosen record key.
func (b *Base) SetID(id string) { b.ID = id }

// Owned marks a record as living in one user's namespace.
type Owned struct {
	UserID string `gorm:"type:uuid;not null;index" json:"user_id"`
}

// SetOwner assigns the owning user.
func (o *Owned) SetOwner(userID string) { o.UserID = userID }

// RecordID returns the record key.
func (b *Base) RecordID() string { return b.ID }
