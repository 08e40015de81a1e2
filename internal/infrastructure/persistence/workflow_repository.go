package persistence

import (
	"context"
	"errors"

	"github.com/erp/procurement/internal/domain/shared"
	"github.com/erp/procurement/internal/domain/workflow"
	"github.com/erp/procurement/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormWorkflowRepository implements WorkflowRepository using GORM.
// Workflows are configuration, not documents, so they have no lifecycle.
type GormWorkflowRepository struct {
	store
}

// NewGormWorkflowRepository creates a new GormWorkflowRepository
func NewGormWorkflowRepository(db *gorm.DB) *GormWorkflowRepository {
	return &GormWorkflowRepository{store: store{db: db}}
}

// FindByID finds a workflow by its ID
func (r *GormWorkflowRepository) FindByID(ctx context.Context, id uuid.UUID) (*workflow.Workflow, error) {
	return r.findOne(r.db.WithContext(ctx).Where("id = ?", id))
}

// FindActiveByDocumentType returns the most recently updated active workflow of a document type
func (r *GormWorkflowRepository) FindActiveByDocumentType(ctx context.Context, docType workflow.DocumentType) (*workflow.Workflow, error) {
	return r.findOne(r.db.WithContext(ctx).
		Where("document_type = ? AND is_active = ?", docType, true).
		Order("updated_at DESC"))
}

// Save creates or updates a workflow with a version check
func (r *GormWorkflowRepository) Save(ctx context.Context, w *workflow.Workflow) error {
	if err := w.Validate(); err != nil {
		return err
	}
	return r.save(ctx, aggregateWrite{
		entity: "workflow",
		root:   &w.BaseAggregateRoot,
		table:  &models.WorkflowModel{},
		build:  func() any { return models.WorkflowModelFromDomain(w) },
	})
}

func (r *GormWorkflowRepository) findOne(q *gorm.DB) (*workflow.Workflow, error) {
	var model models.WorkflowModel
	if err := q.First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("Approval workflow")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

var _ workflow.WorkflowRepository = (*GormWorkflowRepository)(nil)
