package models

// User represents an account holder. The record key doubles as the
// namespace id under which every other collection is stored.
type User struct {
	Base
	Email            string `gorm:"uniqueIndex;not null" json:"email"`
	Password         string `gorm:"not null" json:"-"`
	DisplayCurrency  string `gorm:"size:3;not null;default:USD" json:"display_currency"`
	CategoriesSeeded bool   `gorm:"not null;default:false" json:"-"`
}
