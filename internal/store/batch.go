package store

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "saveandplay/internal/errors"
)

type opKind string

const (
	opCreate      opKind = "create"
	opUpdate      opKind = "update"
	opIncrement   opKind = "increment"
	opDelete      opKind = "delete"
	opDeleteWhere opKind = "delete-where"
)

// Batch collects writes to be committed together. Operations run in the
// order they were added.
type Batch struct {
	ops []batchOp
}

// NewBatch returns an empty batch.
func NewBatch() *Batch { return &Batch{} }

// Len returns the number of queued operations.
func (b *Batch) Len() int { return len(b.ops) }

// Create inserts record under p. If p names a record, that key is used;
// otherwise one is generated.
func (b *Batch) Create(p Path, record any) *Batch {
	b.ops = append(b.ops, batchOp{kind: opCreate, path: p, record: record})
	return b
}

// Update sets fields on the record at p.
func (b *Batch) Update(p Path, fields map[string]any) *Batch {
	return b.UpdateIf(p, fields, nil)
}

// UpdateIf sets fields on the record at p only while every guard field
// still holds the given value. A failed guard aborts the batch with
// ErrConcurrentUpdate.
func (b *Batch) UpdateIf(p Path, fields, guard map[string]any) *Batch {
	b.ops = append(b.ops, batchOp{kind: opUpdate, path: p, fields: fields, guard: guard})
	return b
}

// Increment adds delta to a numeric field in the database, so concurrent
// increments never lose each other.
func (b *Batch) Increment(p Path, field string, delta float64) *Batch {
	b.ops = append(b.ops, batchOp{kind: opIncrement, path: p, field: field, delta: delta})
	return b
}

// Delete removes the record at p.
func (b *Batch) Delete(p Path) *Batch {
	b.ops = append(b.ops, batchOp{kind: opDelete, path: p})
	return b
}

// DeleteWhere removes every record under the collection root p whose field
// equals value. Matching nothing is not an error.
func (b *Batch) DeleteWhere(p Path, field string, value any) *Batch {
	b.ops = append(b.ops, batchOp{kind: opDeleteWhere, path: p, field: field, value: value})
	return b
}

type batchOp struct {
	kind   opKind
	path   Path
	record any
	fields map[string]any
	guard  map[string]any
	field  string
	delta  float64
	value  any
}

type ownedRecord interface {
	SetOwner(userID string)
}

type keyedRecord interface {
	SetID(id string)
	RecordID() string
}

func (op batchOp) apply(db *gorm.DB) ([]Event, error) {
	c, err := lookup(op.path)
	if err != nil {
		return nil, err
	}
	switch op.kind {
	case opCreate:
		return op.create(db, c)
	case opUpdate:
		return op.update(db, c)
	case opIncrement:
		return op.increment(db, c)
	case opDelete:
		return op.delete(db, c)
	case opDeleteWhere:
		return op.deleteWhere(db, c)
	}
	return nil, fmt.Errorf("unknown batch operation %q", op.kind)
}

func (op batchOp) requireRecord() error {
	if !op.path.IsRecord() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("%s needs a record path, got %s", op.kind, op.path))
	}
	return nil
}

func (op batchOp) create(db *gorm.DB, c collection) ([]Event, error) {
	keyed, ok := op.record.(keyedRecord)
	if !ok {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("%T cannot be stored", op.record))
	}
	switch {
	case op.path.Collection == Users:
		keyed.SetID(op.path.UserID)
	case op.path.RecordID != "":
		keyed.SetID(op.path.RecordID)
	}
	if owned, ok := op.record.(ownedRecord); ok {
		owned.SetOwner(op.path.UserID)
	}
	if c.prepare != nil {
		c.prepare(op.record)
	}
	if err := db.Create(op.record).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	p := op.path
	if p.Collection != Users {
		p.RecordID = keyed.RecordID()
	}
	return []Event{{Path: p, Op: Created}}, nil
}

func (op batchOp) update(db *gorm.DB, c collection) ([]Event, error) {
	if err := op.requireRecord(); err != nil {
		return nil, err
	}
	cols, err := c.columns(op.fields)
	if err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return nil, nil
	}
	q, err := filter(scoped(db, c, op.path), c, op.guard)
	if err != nil {
		return nil, err
	}
	res := q.Updates(cols)
	if res.Error != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		if err := op.missed(db, c); err != nil {
			return nil, err
		}
	}
	return []Event{{Path: op.path, Op: Updated}}, nil
}

func (op batchOp) increment(db *gorm.DB, c collection) ([]Event, error) {
	if err := op.requireRecord(); err != nil {
		return nil, err
	}
	col, err := c.column(op.field)
	if err != nil {
		return nil, err
	}
	expr := gorm.Expr("? + ?", clause.Column{Name: col}, op.delta)
	res := scoped(db, c, op.path).Update(col, expr)
	if res.Error != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, c.notFound
	}
	return []Event{{Path: op.path, Op: Updated}}, nil
}

func (op batchOp) delete(db *gorm.DB, c collection) ([]Event, error) {
	if err := op.requireRecord(); err != nil {
		return nil, err
	}
	res := scoped(db, c, op.path).Delete(c.newModel())
	if res.Error != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, c.notFound
	}
	return []Event{{Path: op.path, Op: Deleted}}, nil
}

func (op batchOp) deleteWhere(db *gorm.DB, c collection) ([]Event, error) {
	if op.path.RecordID != "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("delete-where needs a collection path, got %s", op.path))
	}
	q, err := filter(scoped(db, c, op.path), c, map[string]any{op.field: op.value})
	if err != nil {
		return nil, err
	}
	var ids []string
	if err := q.Pluck("id", &ids).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if len(ids) == 0 {
		return nil, nil
	}
	res := scoped(db, c, op.path).Where(clause.IN{Column: clause.Column{Name: "id"}, Values: toAny(ids)}).Delete(c.newModel())
	if res.Error != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	events := make([]Event, 0, len(ids))
	for _, id := range ids {
		events = append(events, Event{Path: Record(op.path.Collection, op.path.UserID, id), Op: Deleted})
	}
	return events, nil
}

// missed tells a vanished record apart from a failed guard.
func (op batchOp) missed(db *gorm.DB, c collection) error {
	var n int64
	if err := scoped(db, c, op.path).Count(&n).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if n == 0 {
		return c.notFound
	}
	if len(op.guard) > 0 {
		return apperrors.ErrConcurrentUpdate
	}
	// The row exists but nothing changed; some drivers report zero rows
	// when the new values equal the old ones.
	return nil
}

func toAny(ids []string) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}
