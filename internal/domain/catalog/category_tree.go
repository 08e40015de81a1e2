package catalog

import (
	"fmt"
	"sort"

	"github.com/erp/procurement/internal/domain/shared"
	"github.com/google/uuid"
)

// NoParent is the parent index of a root node
const NoParent = -1

// CategoryTree is an arena of categories. Nodes are addressed by their index and
// parent links are indices, so traversals never fetch documents.
type CategoryTree struct {
	nodes    []*Category
	parent   []int
	children [][]int
	index    map[uuid.UUID]int
}

// NewCategoryTree builds the arena from a flat list of categories.
// A category whose parent is missing from the list is a referential error.
func NewCategoryTree(categories []*Category) (*CategoryTree, error) {
	ordered := append([]*Category(nil), categories...)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Level != ordered[j].Level {
			return ordered[i].Level < ordered[j].Level
		}
		if ordered[i].SortOrder != ordered[j].SortOrder {
			return ordered[i].SortOrder < ordered[j].SortOrder
		}
		return ordered[i].Code < ordered[j].Code
	})

	t := &CategoryTree{
		nodes:    make([]*Category, 0, len(ordered)),
		parent:   make([]int, 0, len(ordered)),
		children: make([][]int, 0, len(ordered)),
		index:    make(map[uuid.UUID]int, len(ordered)),
	}
	for _, c := range ordered {
		t.index[c.ID] = len(t.nodes)
		t.nodes = append(t.nodes, c)
		t.parent = append(t.parent, NoParent)
		t.children = append(t.children, nil)
	}
	for i, c := range t.nodes {
		if c.ParentID == nil {
			continue
		}
		p, ok := t.index[*c.ParentID]
		if !ok {
			return nil, shared.NewNotFoundError("Parent category")
		}
		t.parent[i] = p
		t.children[p] = append(t.children[p], i)
	}
	return t, nil
}

// Len returns the number of nodes
func (t *CategoryTree) Len() int {
	return len(t.nodes)
}

// Node returns the category stored at index i
func (t *CategoryTree) Node(i int) *Category {
	return t.nodes[i]
}

// IndexOf returns the arena index of the category with the given id
func (t *CategoryTree) IndexOf(id uuid.UUID) (int, bool) {
	i, ok := t.index[id]
	return i, ok
}

// Parent returns the parent index of i, or NoParent
func (t *CategoryTree) Parent(i int) int {
	return t.parent[i]
}

// Roots returns the indices of all root categories
func (t *CategoryTree) Roots() []int {
	roots := make([]int, 0)
	for i, p := range t.parent {
		if p == NoParent {
			roots = append(roots, i)
		}
	}
	return roots
}

// Children returns the direct children of i
func (t *CategoryTree) Children(i int) []int {
	return append([]int(nil), t.children[i]...)
}

// Ancestors returns the ancestors of i from the root down to the direct parent
func (t *CategoryTree) Ancestors(i int) []int {
	var out []int
	for p := t.parent[i]; p != NoParent; p = t.parent[p] {
		out = append(out, p)
	}
	for l, r := 0, len(out)-1; l < r; l, r = l+1, r-1 {
		out[l], out[r] = out[r], out[l]
	}
	return out
}

// Descendants returns every node below i in depth-first pre-order
func (t *CategoryTree) Descendants(i int) []int {
	var out []int
	stack := append([]int(nil), t.children[i]...)
	for len(stack) > 0 {
		n := stack[0]
		stack = stack[1:]
		out = append(out, n)
		stack = append(append([]int(nil), t.children[n]...), stack...)
	}
	return out
}

// IsDescendant reports whether candidate lies in the subtree below i
func (t *CategoryTree) IsDescendant(i, candidate int) bool {
	for p := t.parent[candidate]; p != NoParent; p = t.parent[p] {
		if p == i {
			return true
		}
	}
	return false
}

// Add inserts a newly created category into the arena
func (t *CategoryTree) Add(c *Category) (int, error) {
	p := NoParent
	if c.ParentID != nil {
		var ok bool
		if p, ok = t.index[*c.ParentID]; !ok {
			return 0, shared.NewNotFoundError("Parent category")
		}
	}
	i := len(t.nodes)
	t.index[c.ID] = i
	t.nodes = append(t.nodes, c)
	t.parent = append(t.parent, p)
	t.children = append(t.children, nil)
	if p != NoParent {
		t.children[p] = append(t.children[p], i)
	}
	return i, nil
}

// Reparent moves node i under newParent (NoParent makes it a root) and recomputes
// level and path of the whole subtree. It returns every category that changed.
func (t *CategoryTree) Reparent(i, newParent int, userID string) ([]*Category, error) {
	if newParent == i || (newParent != NoParent && t.IsDescendant(i, newParent)) {
		return nil, shared.NewConsistencyError("CIRCULAR_REFERENCE", "Cannot set parent: would create circular reference")
	}

	subtree := t.Descendants(i)
	depth := 0
	for _, d := range subtree {
		if rel := t.nodes[d].Level - t.nodes[i].Level; rel > depth {
			depth = rel
		}
	}
	newLevel := 0
	var parent *Category
	if newParent != NoParent {
		parent = t.nodes[newParent]
		newLevel = parent.Level + 1
	}
	if newLevel+depth >= MaxCategoryDepth {
		return nil, shared.NewValidationError("MAX_DEPTH_EXCEEDED", fmt.Sprintf("Category depth cannot exceed %d levels", MaxCategoryDepth))
	}

	if err := t.nodes[i].SetParent(parent, userID); err != nil {
		return nil, err
	}

	if old := t.parent[i]; old != NoParent {
		t.children[old] = removeIndex(t.children[old], i)
	}
	t.parent[i] = newParent
	if newParent != NoParent {
		t.children[newParent] = append(t.children[newParent], i)
	}

	changed := []*Category{t.nodes[i]}
	for _, d := range subtree {
		p := t.nodes[t.parent[d]]
		n := t.nodes[d]
		n.Level = p.Level + 1
		n.Path = p.ChildPath()
		n.Touch(userID)
		changed = append(changed, n)
	}
	return changed, nil
}

func removeIndex(s []int, v int) []int {
	out := s[:0]
	for _, x := range s {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}
