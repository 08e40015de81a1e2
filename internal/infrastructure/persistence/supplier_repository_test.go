package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/erp/procurement/internal/domain/partner"
	"github.com/erp/procurement/internal/domain/shared"
	"github.com/erp/procurement/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSupplier(t *testing.T, number, name string, categories ...string) *partner.Supplier {
	t.Helper()
	s, err := partner.NewSupplier(number, valueobject.NewBilingualText("", name), partner.SupplierTypeManufacturer, "buyer")
	require.NoError(t, err)
	if len(categories) > 0 {
		require.NoError(t, s.UpdateDetails(partner.SupplierDetails{
			CompanyName: s.CompanyName,
			Type:        s.Type,
			Categories:  categories,
		}, "buyer"))
	}
	return s
}

func TestGormSupplierRepository_SaveAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewGormSupplierRepository(newTestDB(t))
	outbox := &recordingOutbox{}
	repo.SetOutboxEventSaver(outbox)

	s := newSupplier(t, "SUP-20260106-001", "Acme Metals", "steel")
	require.NoError(t, repo.Save(ctx, s))
	assert.Empty(t, s.GetDomainEvents())
	assert.Equal(t, []string{partner.EventTypeSupplierCreated}, outbox.types())

	found, err := repo.FindByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "SUP-20260106-001", found.SupplierNumber)
	assert.Equal(t, "Acme Metals", found.CompanyName.EN)
	assert.Equal(t, []string{"steel"}, found.Categories)
	assert.Equal(t, partner.SupplierStatusDraft, found.Status)
	assert.Equal(t, 1, found.Version)

	byNumber, err := repo.FindByNumber(ctx, "SUP-20260106-001")
	require.NoError(t, err)
	assert.Equal(t, s.ID, byNumber.ID)

	_, err = repo.FindByNumber(ctx, "SUP-20260106-999")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormSupplierRepository_VersionConflict(t *testing.T) {
	ctx := context.Background()
	repo := NewGormSupplierRepository(newTestDB(t))

	s := newSupplier(t, "SUP-20260106-001", "Acme Metals")
	require.NoError(t, repo.Save(ctx, s))

	first, err := repo.FindByID(ctx, s.ID)
	require.NoError(t, err)
	stale, err := repo.FindByID(ctx, s.ID)
	require.NoError(t, err)

	require.NoError(t, first.SubmitForApproval("buyer"))
	require.NoError(t, repo.Save(ctx, first))
	assert.Equal(t, 2, first.Version)

	require.NoError(t, stale.SubmitForApproval("other"))
	err = repo.Save(ctx, stale)
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, shared.KindConflict, domainErr.Kind)
	assert.Equal(t, 1, stale.Version, "failed save restores the loaded version")
	assert.NotEmpty(t, stale.GetDomainEvents(), "failed save keeps pending events")

	reloaded, err := repo.FindByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, partner.SupplierStatusPendingApproval, reloaded.Status)
	assert.Equal(t, "buyer", reloaded.Workflow.SubmittedBy)
}

func TestGormSupplierRepository_OutboxFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	repo := NewGormSupplierRepository(newTestDB(t))
	repo.SetOutboxEventSaver(&recordingOutbox{err: assert.AnError})

	s := newSupplier(t, "SUP-20260106-001", "Acme Metals")
	err := repo.Save(ctx, s)
	require.ErrorIs(t, err, assert.AnError)

	_, err = repo.FindByID(ctx, s.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormSupplierRepository_FindAll(t *testing.T) {
	ctx := context.Background()
	repo := NewGormSupplierRepository(newTestDB(t))

	acme := newSupplier(t, "SUP-20260106-001", "Acme Metals", "steel", "aluminium")
	beta := newSupplier(t, "SUP-20260106-002", "Beta Plastics", "resin")
	gamma := newSupplier(t, "SUP-20260106-003", "Gamma Steelworks", "steel-pipe")
	for _, s := range []*partner.Supplier{acme, beta, gamma} {
		require.NoError(t, repo.Save(ctx, s))
	}
	require.NoError(t, beta.SubmitForApproval("buyer"))
	require.NoError(t, repo.Save(ctx, beta))

	t.Run("search", func(t *testing.T) {
		rows, total, err := repo.FindAll(ctx, shared.Filter{Search: "STEEL"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, rows, 1)
		assert.Equal(t, gamma.ID, rows[0].ID)
	})

	t.Run("status", func(t *testing.T) {
		rows, total, err := repo.FindAll(ctx, shared.Filter{Filters: map[string]any{"status": "pending_approval"}})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, beta.ID, rows[0].ID)
	})

	t.Run("category matches whole entries", func(t *testing.T) {
		rows, total, err := repo.FindAll(ctx, shared.Filter{Filters: map[string]any{"category": "steel"}})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, acme.ID, rows[0].ID)
	})

	t.Run("pagination and sort", func(t *testing.T) {
		rows, total, err := repo.FindAll(ctx, shared.Filter{Page: 2, PageSize: 2, OrderBy: "supplier_number", OrderDir: "asc"})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, rows, 1)
		assert.Equal(t, "SUP-20260106-003", rows[0].SupplierNumber)
	})

	t.Run("unknown sort field falls back", func(t *testing.T) {
		rows, _, err := repo.FindAll(ctx, shared.Filter{OrderBy: "1; DROP TABLE suppliers"})
		require.NoError(t, err)
		assert.Len(t, rows, 3)
	})

	t.Run("find by status", func(t *testing.T) {
		rows, err := repo.FindByStatus(ctx, partner.SupplierStatusDraft, shared.Filter{OrderBy: "supplier_number"})
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, acme.ID, rows[0].ID)
		assert.Equal(t, gamma.ID, rows[1].ID)
	})
}

func TestGormSupplierRepository_RemovedIsHidden(t *testing.T) {
	ctx := context.Background()
	repo := NewGormSupplierRepository(newTestDB(t))

	keep := newSupplier(t, "SUP-20260106-001", "Acme Metals")
	gone := newSupplier(t, "SUP-20260106-002", "Beta Plastics")
	require.NoError(t, repo.Save(ctx, keep))
	require.NoError(t, repo.Save(ctx, gone))

	require.NoError(t, gone.SoftDelete("admin"))
	require.NoError(t, repo.Save(ctx, gone))

	_, err := repo.FindByID(ctx, gone.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	rows, total, err := repo.FindAll(ctx, shared.Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, keep.ID, rows[0].ID)

	byIDs, err := repo.FindByIDs(ctx, []uuid.UUID{keep.ID, gone.ID})
	require.NoError(t, err)
	assert.Len(t, byIDs, 1)
}
