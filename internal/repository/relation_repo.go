package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"foodgram/internal/database"
	"foodgram/internal/domain"
	"foodgram/internal/metrics"
)

// Generic relation error kinds. Every RelationRepository wraps them in a
// RelationError carrying a relation-specific message.
var (
	ErrRelationExists   = errors.New("relation already exists")
	ErrRelationNotFound = errors.New("relation not found")
	ErrSelfRelation     = errors.New("relation to self is not allowed")
	ErrTargetNotFound   = errors.New("relation target not found")
)

type RelationError struct {
	Kind    error
	Message string
}

func (e *RelationError) Error() string { return e.Message }
func (e *RelationError) Unwrap() error { return e.Kind }

// Relation is the toggle API shared by favorites, shopping cart and subscriptions.
type Relation[R any] interface {
	Add(ctx context.Context, subjectID, objectID int64) (*R, error)
	Remove(ctx context.Context, subjectID, objectID int64) error
	Exists(ctx context.Context, subjectID, objectID int64) (bool, error)
	ObjectIDs(ctx context.Context, subjectID int64) ([]int64, error)
	ExistingObjects(ctx context.Context, subjectID int64, objectIDs []int64) (map[int64]bool, error)
	ListBySubject(ctx context.Context, subjectID int64, limit, offset int) ([]R, int64, error)
}

var (
	_ Relation[domain.Favorite]          = (*FavoriteRepository)(nil)
	_ Relation[domain.ShoppingCartEntry] = (*ShoppingCartRepository)(nil)
	_ Relation[domain.Subscription]      = (*SubscriptionRepository)(nil)
)

// RelationMessages are the human-readable reasons returned to the client.
type RelationMessages struct {
	Exists         string
	NotFound       string
	Self           string
	TargetNotFound string
}

// RelationSpec describes one uniqueness-constrained (subject, object) pair table.
type RelationSpec[R any] struct {
	// Name is used as the metrics label, e.g. "favorite".
	Name          string
	SubjectColumn string
	ObjectColumn  string
	// New builds the row to insert.
	New func(subjectID, objectID int64) *R
	// ForbidSelf rejects subjectID == objectID before touching the store.
	ForbidSelf bool
	// Target is the model the object column points to, e.g. &domain.Recipe{}.
	// When set, Add reports ErrTargetNotFound for a missing object.
	Target   any
	Messages RelationMessages
}

// RelationRepository implements add/remove toggles over a pair table. The
// Exists pre-check only produces a friendlier error; the unique index decides
// which of two concurrent Add calls wins.
type RelationRepository[R any] struct {
	db   *gorm.DB
	spec RelationSpec[R]
}

func NewRelationRepository[R any](db *gorm.DB, spec RelationSpec[R]) *RelationRepository[R] {
	return &RelationRepository[R]{db: db, spec: spec}
}

func (r *RelationRepository[R]) Name() string {
	return r.spec.Name
}

// Add creates the (subject, object) row.
func (r *RelationRepository[R]) Add(ctx context.Context, subjectID, objectID int64) (*R, error) {
	row, err := r.add(ctx, subjectID, objectID)
	metrics.RecordRelationToggle(r.spec.Name, "add", outcome(err))
	return row, err
}

func (r *RelationRepository[R]) add(ctx context.Context, subjectID, objectID int64) (*R, error) {
	if r.spec.ForbidSelf && subjectID == objectID {
		return nil, r.fail(ErrSelfRelation, r.spec.Messages.Self)
	}

	if r.spec.Target != nil {
		var count int64
		if err := r.db.WithContext(ctx).Model(r.spec.Target).Where("id = ?", objectID).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("%s: check target: %w", r.spec.Name, err)
		}
		if count == 0 {
			return nil, r.fail(ErrTargetNotFound, r.spec.Messages.TargetNotFound)
		}
	}

	exists, err := r.Exists(ctx, subjectID, objectID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, r.fail(ErrRelationExists, r.spec.Messages.Exists)
	}

	row := r.spec.New(subjectID, objectID)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return nil, r.fail(ErrRelationExists, r.spec.Messages.Exists)
		}
		return nil, fmt.Errorf("%s: create: %w", r.spec.Name, err)
	}
	return row, nil
}

// Remove deletes the (subject, object) row. A missing row is reported as
// ErrRelationNotFound, not silently ignored.
func (r *RelationRepository[R]) Remove(ctx context.Context, subjectID, objectID int64) error {
	err := r.remove(ctx, subjectID, objectID)
	metrics.RecordRelationToggle(r.spec.Name, "remove", outcome(err))
	return err
}

func (r *RelationRepository[R]) remove(ctx context.Context, subjectID, objectID int64) error {
	result := r.db.WithContext(ctx).
		Where(r.pairClause(), subjectID, objectID).
		Delete(new(R))
	if result.Error != nil {
		return fmt.Errorf("%s: delete: %w", r.spec.Name, result.Error)
	}
	if result.RowsAffected == 0 {
		return r.fail(ErrRelationNotFound, r.spec.Messages.NotFound)
	}
	return nil
}

func (r *RelationRepository[R]) Exists(ctx context.Context, subjectID, objectID int64) (bool, error) {
	if subjectID == 0 {
		return false, nil
	}
	var count int64
	err := r.db.WithContext(ctx).
		Model(new(R)).
		Where(r.pairClause(), subjectID, objectID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("%s: exists: %w", r.spec.Name, err)
	}
	return count > 0, nil
}

// ObjectIDs returns every object id related to the subject.
func (r *RelationRepository[R]) ObjectIDs(ctx context.Context, subjectID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(new(R)).
		Where(r.spec.SubjectColumn+" = ?", subjectID).
		Pluck(r.spec.ObjectColumn, &ids).Error
	if err != nil {
		return nil, fmt.Errorf("%s: object ids: %w", r.spec.Name, err)
	}
	return ids, nil
}

// ExistingObjects resolves, in one query, which of objectIDs are related to
// the subject. Anonymous subjects (id 0) get an empty map.
func (r *RelationRepository[R]) ExistingObjects(ctx context.Context, subjectID int64, objectIDs []int64) (map[int64]bool, error) {
	found := make(map[int64]bool, len(objectIDs))
	if subjectID == 0 || len(objectIDs) == 0 {
		return found, nil
	}
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(new(R)).
		Where(r.spec.SubjectColumn+" = ? AND "+r.spec.ObjectColumn+" IN ?", subjectID, objectIDs).
		Pluck(r.spec.ObjectColumn, &ids).Error
	if err != nil {
		return nil, fmt.Errorf("%s: existing objects: %w", r.spec.Name, err)
	}
	for _, id := range ids {
		found[id] = true
	}
	return found, nil
}

// ListBySubject returns the subject's rows, newest first, with the total count.
func (r *RelationRepository[R]) ListBySubject(ctx context.Context, subjectID int64, limit, offset int) ([]R, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(new(R)).
		Where(r.spec.SubjectColumn+" = ?", subjectID).
		Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("%s: count: %w", r.spec.Name, err)
	}

	query := r.db.WithContext(ctx).
		Where(r.spec.SubjectColumn+" = ?", subjectID).
		Order("created_at DESC").
		Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}

	var rows []R
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("%s: list: %w", r.spec.Name, err)
	}
	return rows, total, nil
}

func (r *RelationRepository[R]) pairClause() string {
	return r.spec.SubjectColumn + " = ? AND " + r.spec.ObjectColumn + " = ?"
}

func (r *RelationRepository[R]) fail(kind error, message string) error {
	if message == "" {
		message = kind.Error()
	}
	return &RelationError{Kind: kind, Message: message}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrRelationExists):
		return "conflict"
	case errors.Is(err, ErrRelationNotFound), errors.Is(err, ErrTargetNotFound):
		return "not_found"
	case errors.Is(err, ErrSelfRelation):
		return "self"
	default:
		return "error"
	}
}
