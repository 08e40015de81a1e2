package catalog

import (
	"context"

	"github.com/erp/procurement/internal/application/validation"
	"github.com/erp/procurement/internal/domain/catalog"
	"github.com/erp/procurement/internal/domain/shared"
	"github.com/erp/procurement/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CategoryService handles material category operations
type CategoryService struct {
	categoryRepo catalog.CategoryRepository
	materialRepo catalog.MaterialRepository
	logger       *zap.Logger
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo catalog.CategoryRepository, materialRepo catalog.MaterialRepository, logger *zap.Logger) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		materialRepo: materialRepo,
		logger:       logger,
	}
}

// Create creates a category, as a root or under an existing parent
func (s *CategoryService) Create(ctx context.Context, req CreateCategoryRequest, userID string) (*catalog.CategoryView, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	code := catalog.NormalizeCode(req.Code)
	exists, err := s.categoryRepo.ExistsByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewConsistencyError("ALREADY_EXISTS", "Category with this code already exists")
	}

	var parent *catalog.Category
	if req.ParentID != nil {
		parent, err = s.categoryRepo.FindByID(ctx, *req.ParentID)
		if err != nil {
			if shared.IsKind(err, shared.KindReferential) {
				return nil, shared.NewNotFoundError("Parent category")
			}
			return nil, err
		}
	}

	name := valueobject.NewBilingualText(req.NameZH, req.NameEN)
	category, err := catalog.NewCategory(code, name, parent, userID)
	if err != nil {
		return nil, err
	}
	if req.Description != "" || req.SortOrder != 0 {
		if err := category.Update(name, req.Description, req.SortOrder, userID); err != nil {
			return nil, err
		}
	}
	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}
	view := category.Format()
	return &view, nil
}

// Update changes the name, description and sort order of a category
func (s *CategoryService) Update(ctx context.Context, categoryID uuid.UUID, req UpdateCategoryRequest, userID string) (*catalog.CategoryView, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	return s.mutate(ctx, categoryID, func(c *catalog.Category) error {
		return c.Update(valueobject.NewBilingualText(req.NameZH, req.NameEN), req.Description, req.SortOrder, userID)
	})
}

// GetByID retrieves a category by ID
func (s *CategoryService) GetByID(ctx context.Context, categoryID uuid.UUID) (*catalog.CategoryView, error) {
	category, err := s.categoryRepo.FindByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	view := category.Format()
	return &view, nil
}

// Tree returns the whole category hierarchy
func (s *CategoryService) Tree(ctx context.Context) ([]CategoryNode, error) {
	tree, err := s.loadTree(ctx)
	if err != nil {
		return nil, err
	}
	roots := tree.Roots()
	nodes := make([]CategoryNode, 0, len(roots))
	for _, r := range roots {
		nodes = append(nodes, buildNode(tree, r))
	}
	return nodes, nil
}

// Ancestors returns the chain of categories from the root down to the category's parent
func (s *CategoryService) Ancestors(ctx context.Context, categoryID uuid.UUID) ([]catalog.CategoryView, error) {
	tree, err := s.loadTree(ctx)
	if err != nil {
		return nil, err
	}
	i, ok := tree.IndexOf(categoryID)
	if !ok {
		return nil, shared.NewNotFoundError("Category")
	}
	ancestors := tree.Ancestors(i)
	views := make([]catalog.CategoryView, 0, len(ancestors))
	for _, a := range ancestors {
		views = append(views, tree.Node(a).Format())
	}
	return views, nil
}

// Move reparents a category and persists the recomputed level and path of its whole subtree
func (s *CategoryService) Move(ctx context.Context, categoryID uuid.UUID, req MoveCategoryRequest, userID string) (*catalog.CategoryView, error) {
	tree, err := s.loadTree(ctx)
	if err != nil {
		return nil, err
	}
	i, ok := tree.IndexOf(categoryID)
	if !ok {
		return nil, shared.NewNotFoundError("Category")
	}
	newParent := catalog.NoParent
	if req.ParentID != nil {
		if newParent, ok = tree.IndexOf(*req.ParentID); !ok {
			return nil, shared.NewNotFoundError("Parent category")
		}
	}

	changed, err := tree.Reparent(i, newParent, userID)
	if err != nil {
		return nil, err
	}
	if err := s.categoryRepo.SaveAll(ctx, changed); err != nil {
		return nil, err
	}

	s.logger.Info("category moved",
		zap.String("category_id", categoryID.String()),
		zap.String("path", tree.Node(i).Path),
		zap.Int("changed", len(changed)),
	)
	view := tree.Node(i).Format()
	return &view, nil
}

// Activate marks a category active
func (s *CategoryService) Activate(ctx context.Context, categoryID uuid.UUID, userID string) (*catalog.CategoryView, error) {
	return s.mutate(ctx, categoryID, func(c *catalog.Category) error {
		c.Activate(userID)
		return nil
	})
}

// Deactivate marks a category inactive
func (s *CategoryService) Deactivate(ctx context.Context, categoryID uuid.UUID, userID string) (*catalog.CategoryView, error) {
	return s.mutate(ctx, categoryID, func(c *catalog.Category) error {
		c.Deactivate(userID)
		return nil
	})
}

// Delete soft deletes a category without subcategories or assigned materials
func (s *CategoryService) Delete(ctx context.Context, categoryID uuid.UUID, userID string) error {
	children, err := s.categoryRepo.CountChildren(ctx, categoryID)
	if err != nil {
		return err
	}
	materials, err := s.materialRepo.CountByCategory(ctx, categoryID)
	if err != nil {
		return err
	}
	_, err = s.mutate(ctx, categoryID, func(c *catalog.Category) error {
		return c.SoftDelete(userID, children, materials)
	})
	return err
}

func (s *CategoryService) loadTree(ctx context.Context) (*catalog.CategoryTree, error) {
	categories, err := s.categoryRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.NewCategoryTree(categories)
}

func (s *CategoryService) mutate(ctx context.Context, categoryID uuid.UUID, fn func(*catalog.Category) error) (*catalog.CategoryView, error) {
	category, err := s.categoryRepo.FindByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if err := fn(category); err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}
	view := category.Format()
	return &view, nil
}

func buildNode(tree *catalog.CategoryTree, i int) CategoryNode {
	children := tree.Children(i)
	node := CategoryNode{
		CategoryView: tree.Node(i).Format(),
		Children:     make([]CategoryNode, 0, len(children)),
	}
	for _, c := range children {
		node.Children = append(node.Children, buildNode(tree, c))
	}
	return node
}
