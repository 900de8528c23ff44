package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "saveandplay/internal/errors"
)

// ListOptions controls List. Field names are logical ("date", "goalId").
type ListOptions struct {
	OrderBy string
	Desc    bool
	Where   map[string]any
	Limit   int
	Offset  int
}

// Reader is the read side shared by the store and an open transaction.
type Reader interface {
	Get(ctx context.Context, p Path, dst any) error
	List(ctx context.Context, p Path, dst any, opts ListOptions) error
	Count(ctx context.Context, p Path, where map[string]any) (int64, error)
}

// Store is the persistent store adapter.
type Store struct {
	db  *gorm.DB
	hub *hub
}

// New creates a Store over db.
func New(db *gorm.DB) *Store {
	return &Store{db: db, hub: newHub()}
}

// DB exposes the underlying connection for queries the namespace model
// cannot express, such as lookups by email.
func (s *Store) DB() *gorm.DB { return s.db }

// Get loads the record at p into dst. A missing record yields the
// collection's not-found error.
func (s *Store) Get(ctx context.Context, p Path, dst any) error {
	return get(s.db.WithContext(ctx), p, dst)
}

// List loads every record under p into dst, a pointer to a slice.
func (s *Store) List(ctx context.Context, p Path, dst any, opts ListOptions) error {
	return list(s.db.WithContext(ctx), p, dst, opts)
}

// Count returns how many records under p match where.
func (s *Store) Count(ctx context.Context, p Path, where map[string]any) (int64, error) {
	return count(s.db.WithContext(ctx), p, where)
}

// Commit applies every operation of b in one database transaction. Either
// all of them persist or none do. Subscribers are notified after the
// transaction commits.
func (s *Store) Commit(ctx context.Context, b *Batch) error {
	return s.Transaction(ctx, func(tx *Tx) error {
		return tx.Apply(b)
	})
}

// Transaction runs fn inside a database transaction. Reads made through tx
// see the transaction's own writes. If fn returns an error nothing is
// persisted and no events are published.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Tx) error) error {
	var events []Event
	err := s.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		tx := &Tx{db: db}
		if err := fn(tx); err != nil {
			return err
		}
		events = tx.events
		return nil
	})
	if err != nil {
		return asAppError(err)
	}
	s.hub.publish(events)
	return nil
}

// Subscribe registers l for changes at or below p and returns a function
// that removes it. An empty UserID subscribes to the whole collection.
func (s *Store) Subscribe(p Path, l Listener) (unsubscribe func()) {
	return s.hub.subscribe(p, l)
}

// Tx is an open transaction.
type Tx struct {
	db     *gorm.DB
	events []Event
}

func (t *Tx) Get(ctx context.Context, p Path, dst any) error {
	return get(t.db.WithContext(ctx), p, dst)
}

func (t *Tx) List(ctx context.Context, p Path, dst any, opts ListOptions) error {
	return list(t.db.WithContext(ctx), p, dst, opts)
}

func (t *Tx) Count(ctx context.Context, p Path, where map[string]any) (int64, error) {
	return count(t.db.WithContext(ctx), p, where)
}

// Apply executes the batch inside the transaction, stopping at the first
// failing operation.
func (t *Tx) Apply(b *Batch) error {
	for i, op := range b.ops {
		events, err := op.apply(t.db)
		if err != nil {
			return fmt.Errorf("batch op %d (%s %s): %w", i, op.kind, op.path, err)
		}
		t.events = append(t.events, events...)
	}
	return nil
}

func scoped(db *gorm.DB, c collection, p Path) *gorm.DB {
	q := db.Model(c.newModel()).Where(clause.Eq{Column: clause.Column{Name: c.ownerColumn}, Value: p.UserID})
	for col, v := range c.scope {
		q = q.Where(clause.Eq{Column: clause.Column{Name: col}, Value: v})
	}
	if p.RecordID != "" && p.Collection != Users {
		q = q.Where(clause.Eq{Column: clause.Column{Name: "id"}, Value: p.RecordID})
	}
	return q
}

func filter(q *gorm.DB, c collection, where map[string]any) (*gorm.DB, error) {
	cols, err := c.columns(where)
	if err != nil {
		return nil, err
	}
	for col, v := range cols {
		q = q.Where(clause.Eq{Column: clause.Column{Name: col}, Value: v})
	}
	return q, nil
}

func get(db *gorm.DB, p Path, dst any) error {
	c, err := lookup(p)
	if err != nil {
		return err
	}
	if !p.IsRecord() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("%s is not a record path", p))
	}
	if err := scoped(db, c, p).Take(dst).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.notFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

func list(db *gorm.DB, p Path, dst any, opts ListOptions) error {
	c, err := lookup(p)
	if err != nil {
		return err
	}
	q, err := filter(scoped(db, c, p), c, opts.Where)
	if err != nil {
		return err
	}
	if opts.OrderBy != "" {
		col, err := c.column(opts.OrderBy)
		if err != nil {
			return err
		}
		q = q.Order(clause.OrderByColumn{Column: clause.Column{Name: col}, Desc: opts.Desc})
	}
	// Ties break on the key so that pages are stable.
	q = q.Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: opts.Desc})
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit).Offset(opts.Offset)
	}
	if err := q.Find(dst).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

func count(db *gorm.DB, p Path, where map[string]any) (int64, error) {
	c, err := lookup(p)
	if err != nil {
		return 0, err
	}
	q, err := filter(scoped(db, c, p), c, where)
	if err != nil {
		return 0, err
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return n, nil
}

func asAppError(err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperrors.Wrap(apperrors.ErrInternalServer, err)
}
