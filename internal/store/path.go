// Package store adapts the relational database to the hierarchical,
// per-user document namespace the domain services are written against.
// Records live at {collection}/{userId}/{recordId}; writes are grouped in
// batches that commit atomically, and committed changes are pushed to
// subscribers.
package store

import (
	"fmt"
	"strings"

	apperrors "saveandplay/internal/errors"
)

// Collection names a top-level node of the namespace.
type Collection string

const (
	Goals             Collection = "goals"
	Contributions     Collection = "contributions"
	Incomes           Collection = "incomes"
	Expenses          Collection = "expenses"
	Debts             Collection = "debts"
	DebtPayments      Collection = "debtPayments"
	IncomeCategories  Collection = "incomeCategories"
	ExpenseCategories Collection = "expenseCategories"
	Users             Collection = "users"
)

// Path addresses a collection, one user's slice of it, or a single record.
// For the users collection the user id is the record itself.
type Path struct {
	Collection Collection
	UserID     string
	RecordID   string
}

// Root addresses every record of a collection owned by userID.
func Root(c Collection, userID string) Path {
	return Path{Collection: c, UserID: userID}
}

// Record addresses a single record.
func Record(c Collection, userID, recordID string) Path {
	return Path{Collection: c, UserID: userID, RecordID: recordID}
}

// String renders the path as collection/user/record.
func (p Path) String() string {
	parts := []string{string(p.Collection)}
	if p.UserID != "" {
		parts = append(parts, p.UserID)
		if p.RecordID != "" {
			parts = append(parts, p.RecordID)
		}
	}
	return strings.Join(parts, "/")
}

// IsRecord reports whether the path points at one record.
func (p Path) IsRecord() bool {
	if p.Collection == Users {
		return p.UserID != ""
	}
	return p.UserID != "" && p.RecordID != ""
}

// Covers reports whether an event at other is visible to a subscriber of p:
// same collection, and p is either equal to other or one of its ancestors.
func (p Path) Covers(other Path) bool {
	if p.Collection != other.Collection {
		return false
	}
	if p.UserID != "" && p.UserID != other.UserID {
		return false
	}
	return p.RecordID == "" || p.RecordID == other.RecordID
}

// ParsePath parses "collection[/user[/record]]". Leading and trailing
// slashes are ignored.
func ParsePath(s string) (Path, error) {
	trimmed := strings.Trim(s, "/")
	if trimmed == "" {
		return Path{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "empty store path")
	}
	parts := strings.Split(trimmed, "/")
	if len(parts) > 3 {
		return Path{}, apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("store path %q is too deep", s))
	}
	for _, part := range parts {
		if part == "" {
			return Path{}, apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("store path %q has an empty segment", s))
		}
	}

	p := Path{Collection: Collection(parts[0])}
	if _, ok := registry[p.Collection]; !ok {
		return Path{}, apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("unknown collection %q", parts[0]))
	}
	if len(parts) > 1 {
		p.UserID = parts[1]
	}
	if len(parts) > 2 {
		if p.Collection == Users {
			return Path{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "user records have no children")
		}
		p.RecordID = parts[2]
	}
	return p, nil
}
