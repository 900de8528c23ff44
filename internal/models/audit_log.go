package models

// AuditLog records one committed change to a user's data.
type AuditLog struct {
	Base
	UserID       string `gorm:"type:uuid;not null;index" json:"user_id"`
	Action       string `gorm:"size:16;not null" json:"action"`
	ResourceType string `gorm:"size:32;not null" json:"resource_type"`
	ResourceID   string `gorm:"not null" json:"resource_id"`
}
