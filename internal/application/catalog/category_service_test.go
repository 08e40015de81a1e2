package catalog

import (
	"context"
	"testing"

	"github.com/erp/procurement/internal/domain/catalog"
	"github.com/erp/procurement/internal/domain/shared"
	"github.com/erp/procurement/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newCategory(t *testing.T, code string, parent *catalog.Category) *catalog.Category {
	t.Helper()
	c, err := catalog.NewCategory(code, valueobject.NewBilingualText("", code), parent, "admin")
	require.NoError(t, err)
	c.ClearDomainEvents()
	return c
}

func newCategoryService() (*CategoryService, *MockCategoryRepository, *MockMaterialRepository) {
	categories := new(MockCategoryRepository)
	materials := new(MockMaterialRepository)
	return NewCategoryService(categories, materials, zap.NewNop()), categories, materials
}

func TestCategoryService_Create(t *testing.T) {
	t.Run("root category", func(t *testing.T) {
		svc, categories, _ := newCategoryService()
		categories.On("ExistsByCode", mock.Anything, "RAW").Return(false, nil)
		categories.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Category")).Return(nil)

		view, err := svc.Create(context.Background(), CreateCategoryRequest{Code: "raw", NameEN: "Raw materials", SortOrder: 2}, "admin")
		require.NoError(t, err)
		assert.Equal(t, "RAW", view.Code)
		assert.Equal(t, 0, view.Level)
		assert.Equal(t, "/", view.Path)
		assert.Equal(t, 2, view.SortOrder)
		categories.AssertExpectations(t)
	})

	t.Run("child category", func(t *testing.T) {
		svc, categories, _ := newCategoryService()
		parent := newCategory(t, "RAW", nil)
		categories.On("ExistsByCode", mock.Anything, "METAL").Return(false, nil)
		categories.On("FindByID", mock.Anything, parent.ID).Return(parent, nil)
		categories.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Category")).Return(nil)

		view, err := svc.Create(context.Background(), CreateCategoryRequest{Code: "metal", NameZH: "金属", ParentID: &parent.ID}, "admin")
		require.NoError(t, err)
		assert.Equal(t, 1, view.Level)
		assert.Equal(t, "/RAW/", view.Path)
		assert.Equal(t, &parent.ID, view.ParentID)
	})

	t.Run("duplicate code", func(t *testing.T) {
		svc, categories, _ := newCategoryService()
		categories.On("ExistsByCode", mock.Anything, "RAW").Return(true, nil)

		_, err := svc.Create(context.Background(), CreateCategoryRequest{Code: "RAW", NameEN: "Raw"}, "admin")
		require.Error(t, err)
		assert.Equal(t, "Category with this code already exists", err.Error())
		categories.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("missing parent", func(t *testing.T) {
		svc, categories, _ := newCategoryService()
		parentID := uuid.New()
		categories.On("ExistsByCode", mock.Anything, "METAL").Return(false, nil)
		categories.On("FindByID", mock.Anything, parentID).Return(nil, shared.ErrNotFound)

		_, err := svc.Create(context.Background(), CreateCategoryRequest{Code: "METAL", NameEN: "Metal", ParentID: &parentID}, "admin")
		require.Error(t, err)
		assert.True(t, shared.IsKind(err, shared.KindReferential))
		assert.Equal(t, "Parent category not found", err.Error())
	})

	t.Run("invalid request", func(t *testing.T) {
		svc, categories, _ := newCategoryService()
		_, err := svc.Create(context.Background(), CreateCategoryRequest{Code: "RAW-1"}, "admin")
		require.Error(t, err)
		assert.True(t, shared.IsKind(err, shared.KindValidation))
		categories.AssertNotCalled(t, "ExistsByCode", mock.Anything, mock.Anything)
	})
}

func TestCategoryService_TreeAndAncestors(t *testing.T) {
	svc, categories, _ := newCategoryService()
	raw := newCategory(t, "RAW", nil)
	metal := newCategory(t, "METAL", raw)
	steel := newCategory(t, "STEEL", metal)
	pack := newCategory(t, "PACK", nil)
	categories.On("FindAll", mock.Anything).Return([]*catalog.Category{steel, pack, raw, metal}, nil)

	tree, err := svc.Tree(context.Background())
	require.NoError(t, err)
	require.Len(t, tree, 2)
	var rawNode CategoryNode
	for _, n := range tree {
		if n.Code == "RAW" {
			rawNode = n
		}
	}
	require.Len(t, rawNode.Children, 1)
	assert.Equal(t, "METAL", rawNode.Children[0].Code)
	require.Len(t, rawNode.Children[0].Children, 1)
	assert.Equal(t, "STEEL", rawNode.Children[0].Children[0].Code)

	ancestors, err := svc.Ancestors(context.Background(), steel.ID)
	require.NoError(t, err)
	require.Len(t, ancestors, 2)
	assert.Equal(t, "RAW", ancestors[0].Code)
	assert.Equal(t, "METAL", ancestors[1].Code)

	_, err = svc.Ancestors(context.Background(), uuid.New())
	assert.True(t, shared.IsKind(err, shared.KindReferential))
}

func TestCategoryService_Move(t *testing.T) {
	t.Run("subtree follows the moved category", func(t *testing.T) {
		svc, categories, _ := newCategoryService()
		raw := newCategory(t, "RAW", nil)
		metal := newCategory(t, "METAL", raw)
		steel := newCategory(t, "STEEL", metal)
		pack := newCategory(t, "PACK", nil)
		categories.On("FindAll", mock.Anything).Return([]*catalog.Category{raw, metal, steel, pack}, nil)
		categories.On("SaveAll", mock.Anything, mock.MatchedBy(func(changed []*catalog.Category) bool {
			return len(changed) == 2
		})).Return(nil)

		view, err := svc.Move(context.Background(), metal.ID, MoveCategoryRequest{ParentID: &pack.ID}, "admin")
		require.NoError(t, err)
		assert.Equal(t, "/PACK/", view.Path)
		assert.Equal(t, "/PACK/METAL/", steel.Path)
		assert.Equal(t, 2, steel.Level)
		categories.AssertExpectations(t)
	})

	t.Run("cannot move under own descendant", func(t *testing.T) {
		svc, categories, _ := newCategoryService()
		raw := newCategory(t, "RAW", nil)
		metal := newCategory(t, "METAL", raw)
		categories.On("FindAll", mock.Anything).Return([]*catalog.Category{raw, metal}, nil)

		_, err := svc.Move(context.Background(), raw.ID, MoveCategoryRequest{ParentID: &metal.ID}, "admin")
		require.Error(t, err)
		assert.Equal(t, "Cannot set parent: would create circular reference", err.Error())
		categories.AssertNotCalled(t, "SaveAll", mock.Anything, mock.Anything)
	})

	t.Run("move to root", func(t *testing.T) {
		svc, categories, _ := newCategoryService()
		raw := newCategory(t, "RAW", nil)
		metal := newCategory(t, "METAL", raw)
		categories.On("FindAll", mock.Anything).Return([]*catalog.Category{raw, metal}, nil)
		categories.On("SaveAll", mock.Anything, mock.Anything).Return(nil)

		view, err := svc.Move(context.Background(), metal.ID, MoveCategoryRequest{}, "admin")
		require.NoError(t, err)
		assert.Nil(t, view.ParentID)
		assert.Equal(t, 0, view.Level)
	})
}

func TestCategoryService_Delete(t *testing.T) {
	t.Run("has children", func(t *testing.T) {
		svc, categories, materials := newCategoryService()
		c := newCategory(t, "RAW", nil)
		categories.On("CountChildren", mock.Anything, c.ID).Return(int64(1), nil)
		materials.On("CountByCategory", mock.Anything, c.ID).Return(int64(0), nil)
		categories.On("FindByID", mock.Anything, c.ID).Return(c, nil)

		err := svc.Delete(context.Background(), c.ID, "admin")
		require.Error(t, err)
		assert.Equal(t, "Cannot delete category with subcategories", err.Error())
		categories.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("has materials", func(t *testing.T) {
		svc, categories, materials := newCategoryService()
		c := newCategory(t, "RAW", nil)
		categories.On("CountChildren", mock.Anything, c.ID).Return(int64(0), nil)
		materials.On("CountByCategory", mock.Anything, c.ID).Return(int64(3), nil)
		categories.On("FindByID", mock.Anything, c.ID).Return(c, nil)

		err := svc.Delete(context.Background(), c.ID, "admin")
		require.Error(t, err)
		assert.Equal(t, "Cannot delete category with assigned materials", err.Error())
	})

	t.Run("empty leaf", func(t *testing.T) {
		svc, categories, materials := newCategoryService()
		c := newCategory(t, "RAW", nil)
		categories.On("CountChildren", mock.Anything, c.ID).Return(int64(0), nil)
		materials.On("CountByCategory", mock.Anything, c.ID).Return(int64(0), nil)
		categories.On("FindByID", mock.Anything, c.ID).Return(c, nil)
		categories.On("Save", mock.Anything, c).Return(nil)

		require.NoError(t, svc.Delete(context.Background(), c.ID, "admin"))
		assert.True(t, c.IsRemoved())
	})
}

func TestCategoryService_ActivateDeactivate(t *testing.T) {
	svc, categories, _ := newCategoryService()
	c := newCategory(t, "RAW", nil)
	categories.On("FindByID", mock.Anything, c.ID).Return(c, nil)
	categories.On("Save", mock.Anything, c).Return(nil)

	view, err := svc.Deactivate(context.Background(), c.ID, "admin")
	require.NoError(t, err)
	assert.False(t, view.IsActive)

	view, err = svc.Activate(context.Background(), c.ID, "admin")
	require.NoError(t, err)
	assert.True(t, view.IsActive)
}
