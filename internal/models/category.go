package models

// CategoryKind separates income categories from expense categories.
type CategoryKind string

const (
	CategoryKindIncome  CategoryKind = "income"
	CategoryKindExpense CategoryKind = "expense"
)

// Category is a user-defined label for incomes or expenses. Entries refer
// to it by Name.
type Category struct {
	Base
	Owned
	Kind  CategoryKind `gorm:"size:16;not null;index" json:"kind"`
	Name  string       `gorm:"not null" json:"name"`
	Emoji string       `json:"emoji"`
	Order int          `gorm:"column:sort_order;not null;default:0" json:"order"`
}
