package persistence

import (
	"context"

	"github.com/erp/procurement/internal/domain/shared"
	"github.com/erp/procurement/internal/domain/sourcing"
	"github.com/erp/procurement/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormQuotationRepository implements QuotationRepository using GORM
type GormQuotationRepository struct {
	store
}

// NewGormQuotationRepository creates a new GormQuotationRepository
func NewGormQuotationRepository(db *gorm.DB) *GormQuotationRepository {
	return &GormQuotationRepository{store: store{db: db}}
}

// SetOutboxEventSaver sets the outbox event saver for transactional event publishing
func (r *GormQuotationRepository) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	r.outbox = saver
}

// WithTx returns a repository bound to the given transaction
func (r *GormQuotationRepository) WithTx(tx *gorm.DB) *GormQuotationRepository {
	return &GormQuotationRepository{store: r.withTx(tx)}
}

// FindByID finds a quotation by its ID
func (r *GormQuotationRepository) FindByID(ctx context.Context, id uuid.UUID) (*sourcing.MaterialQuotation, error) {
	var model models.QuotationModel
	if err := first(ctx, r.db, &model, "Quotation", "", "id = ?", id); err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByNumber finds a quotation by its quotation number
func (r *GormQuotationRepository) FindByNumber(ctx context.Context, number string) (*sourcing.MaterialQuotation, error) {
	var model models.QuotationModel
	if err := first(ctx, r.db, &model, "Quotation", "", "quotation_number = ?", number); err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds quotations matching the filter.
// Supported filters: status.
func (r *GormQuotationRepository) FindAll(ctx context.Context, filter shared.Filter) ([]sourcing.MaterialQuotation, int64, error) {
	rows, total, err := findPage[models.QuotationModel](ctx, r.db, filter, QuotationSortFields, "", func(db *gorm.DB) *gorm.DB {
		db = search(db, filter.Search, "quotation_number", "title")
		if status, ok := filterString(filter, "status"); ok {
			db = db.Where("status = ?", status)
		}
		return db
	})
	if err != nil {
		return nil, 0, err
	}
	return toQuotations(rows), total, nil
}

// FindByStatus finds quotations by status
func (r *GormQuotationRepository) FindByStatus(ctx context.Context, status sourcing.QuotationStatus, filter shared.Filter) ([]sourcing.MaterialQuotation, error) {
	rows, _, err := findPage[models.QuotationModel](ctx, r.db, filter, QuotationSortFields, "", func(db *gorm.DB) *gorm.DB {
		return db.Where("status = ?", status)
	})
	if err != nil {
		return nil, err
	}
	return toQuotations(rows), nil
}

// Save re-ranks the quotation, then writes it together with its pending events
func (r *GormQuotationRepository) Save(ctx context.Context, quotation *sourcing.MaterialQuotation) error {
	quotation.Rank()
	return r.save(ctx, aggregateWrite{
		entity: "quotation",
		root:   &quotation.BaseAggregateRoot,
		table:  &models.QuotationModel{},
		build:  func() any { return models.QuotationModelFromDomain(quotation) },
	})
}

func toQuotations(rows []models.QuotationModel) []sourcing.MaterialQuotation {
	quotations := make([]sourcing.MaterialQuotation, len(rows))
	for i := range rows {
		quotations[i] = *rows[i].ToDomain()
	}
	return quotations
}

var _ sourcing.QuotationRepository = (*GormQuotationRepository)(nil)
