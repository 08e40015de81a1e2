package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/erp/procurement/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// store is the GORM plumbing shared by every aggregate repository
type store struct {
	db     *gorm.DB
	outbox shared.OutboxEventSaver
}

func (s store) withTx(tx *gorm.DB) store {
	return store{db: tx, outbox: s.outbox}
}

// aggregateWrite describes one versioned aggregate save
type aggregateWrite struct {
	entity   string
	root     *shared.BaseAggregateRoot
	table    any
	build    func() any
	children func(tx *gorm.DB) error
}

// save writes the aggregate row, its child rows and its pending events in one
// transaction. An existing row is only updated when its stored version equals
// the loaded one; the in-memory version is bumped and restored on failure.
func (s store) save(ctx context.Context, w aggregateWrite) error {
	loaded := w.root.Version
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := writeVersioned(tx, w); err != nil {
			return err
		}
		if w.children != nil {
			if err := w.children(tx); err != nil {
				return err
			}
		}
		if events := w.root.GetDomainEvents(); s.outbox != nil && len(events) > 0 {
			if err := s.outbox.SaveEvents(ctx, tx, events...); err != nil {
				return fmt.Errorf("failed to save events to outbox: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		w.root.Version = loaded
		return err
	}
	w.root.ClearDomainEvents()
	return nil
}

func writeVersioned(tx *gorm.DB, w aggregateWrite) error {
	var current []int
	if err := tx.Model(w.table).Where("id = ?", w.root.ID).Pluck("version", &current).Error; err != nil {
		return err
	}
	if len(current) == 0 {
		return tx.Omit(clause.Associations).Create(w.build()).Error
	}
	if current[0] != w.root.Version {
		return shared.NewConflictError(w.entity)
	}

	w.root.Version++
	w.root.UpdatedAt = shared.Now()
	model := w.build()
	result := tx.Model(model).
		Select("*").
		Omit(clause.Associations).
		Where("version = ?", current[0]).
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewConflictError(w.entity)
	}
	return nil
}

// notRemoved hides soft-deleted documents
func notRemoved(db *gorm.DB) *gorm.DB {
	return db.Where("lifecycle_state = ?", shared.LifecycleActive)
}

// orderedLines preloads child lines in document order
func orderedLines(db *gorm.DB) *gorm.DB {
	return db.Order("line_no ASC")
}

// first loads one live document into dest. A miss is reported as
// "<entity> not found" and still matches shared.ErrNotFound.
func first(ctx context.Context, db *gorm.DB, dest any, entity, preload string, query string, args ...any) error {
	q := db.WithContext(ctx).Scopes(notRemoved)
	if preload != "" {
		q = q.Preload(preload, orderedLines)
	}
	if err := q.Where(query, args...).First(dest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return shared.NewNotFoundError(entity)
		}
		return err
	}
	return nil
}

// findPage counts the live rows matched by scope, then loads the requested page
func findPage[M any](ctx context.Context, db *gorm.DB, filter shared.Filter, sortFields map[string]bool, preload string, scope func(*gorm.DB) *gorm.DB) ([]M, int64, error) {
	var total int64
	if err := db.WithContext(ctx).Model(new(M)).Scopes(notRemoved, scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []M
	q := db.WithContext(ctx).Model(new(M)).Scopes(notRemoved, scope, paginate(filter, sortFields))
	if preload != "" {
		q = q.Preload(preload, orderedLines)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// paginate applies a whitelisted order and the filter's page window
func paginate(filter shared.Filter, sortFields map[string]bool) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		orderBy := ValidateSortField(filter.OrderBy, sortFields, "created_at")
		db = db.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir)).Order("id ASC")
		if filter.PageSize > 0 {
			db = db.Offset(filter.Offset()).Limit(filter.PageSize)
		}
		return db
	}
}

// search matches the term case-insensitively against any of the columns.
// JSON columns are compared on their text form.
func search(db *gorm.DB, term string, columns ...string) *gorm.DB {
	term = strings.TrimSpace(term)
	if term == "" || len(columns) == 0 {
		return db
	}
	pattern := "%" + strings.ToLower(term) + "%"
	conds := make([]string, len(columns))
	args := make([]any, len(columns))
	for i, col := range columns {
		conds[i] = "LOWER(CAST(" + col + " AS TEXT)) LIKE ?"
		args[i] = pattern
	}
	return db.Where(strings.Join(conds, " OR "), args...)
}

// filterString returns a non-empty string filter value
func filterString(filter shared.Filter, key string) (string, bool) {
	if filter.Filters == nil {
		return "", false
	}
	switch v := filter.Filters[key].(type) {
	case string:
		return v, v != ""
	case fmt.Stringer:
		s := v.String()
		return s, s != ""
	}
	return "", false
}

// filterUUID returns an id filter value given as uuid.UUID or string
func filterUUID(filter shared.Filter, key string) (uuid.UUID, bool) {
	if filter.Filters == nil {
		return uuid.Nil, false
	}
	switch v := filter.Filters[key].(type) {
	case uuid.UUID:
		return v, v != uuid.Nil
	case string:
		id, err := uuid.Parse(v)
		return id, err == nil
	}
	return uuid.Nil, false
}
