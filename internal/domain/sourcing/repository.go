package sourcing

import (
	"context"

	"github.com/erp/procurement/internal/domain/shared"
	"github.com/google/uuid"
)

// QuotationRepository defines the interface for material quotation persistence.
// Save re-ranks the quotation before writing it.
type QuotationRepository interface {
	// FindByID finds a quotation by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*MaterialQuotation, error)

	// FindByNumber finds a quotation by its quotation number
	FindByNumber(ctx context.Context, number string) (*MaterialQuotation, error)

	// FindAll finds quotations matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]MaterialQuotation, int64, error)

	// FindByStatus finds quotations by status
	FindByStatus(ctx context.Context, status QuotationStatus, filter shared.Filter) ([]MaterialQuotation, error)

	// Save creates or updates a quotation together with its pending events
	Save(ctx context.Context, quotation *MaterialQuotation) error
}
