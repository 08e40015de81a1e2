package workflow

import (
	"context"
	"errors"

	"github.com/erp/procurement/internal/domain/shared"
	"github.com/google/uuid"
)

// WorkflowRepository persists routing definitions
type WorkflowRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Workflow, error)
	// FindActiveByDocumentType returns the active workflow of a document type,
	// or shared.ErrNotFound when none is configured
	FindActiveByDocumentType(ctx context.Context, docType DocumentType) (*Workflow, error)
	Save(ctx context.Context, w *Workflow) error
}

// FindActive returns the active workflow of docType, or nil when none is configured
func FindActive(ctx context.Context, repo WorkflowRepository, docType DocumentType) (*Workflow, error) {
	wf, err := repo.FindActiveByDocumentType(ctx, docType)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return wf, nil
}
