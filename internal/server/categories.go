package server

import (
	"context"
	"fmt"
	"strings"

	"github.com/alfredjeanlab/tracker/internal/api"
	"github.com/alfredjeanlab/tracker/internal/auth"
	"github.com/alfredjeanlab/tracker/internal/category"
	"github.com/alfredjeanlab/tracker/internal/events"
	"github.com/alfredjeanlab/tracker/internal/model"
	"github.com/alfredjeanlab/tracker/internal/store"
)

// getCategories returns the project's category forest.
func (s *TrackerServer) getCategories(ctx context.Context, who auth.Identity, projectID int64) ([]*model.TreeNode, error) {
	if projectID <= 0 {
		return nil, inputError("project_id must be positive")
	}
	if err := s.authorize(ctx, who, projectID, auth.ActionView); err != nil {
		return nil, err
	}
	cats, err := s.store.ListCategories(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return s.tree.Build(cats)
}

// addCategory creates a category under an existing parent (or as a root
// when the parent is zero) and refreshes the parent's child count.
func (s *TrackerServer) addCategory(ctx context.Context, who auth.Identity, req *api.AddCategoryRequest) (*model.Category, error) {
	c := &model.Category{
		ProjectID:        req.ProjectID,
		ParentCategoryID: req.ParentCategoryID,
		Name:             strings.TrimSpace(req.Name),
	}
	if err := model.ValidateCategory(c); err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, who, c.ProjectID, auth.ActionManageCategories); err != nil {
		return nil, err
	}

	err := s.store.RunInTransaction(ctx, func(tx store.Store) error {
		if err := tx.LockProject(ctx, c.ProjectID); err != nil {
			return storeError(err, fmt.Sprintf("project %d", c.ProjectID))
		}
		if err := checkParent(ctx, tx, c.ProjectID, c.ParentCategoryID); err != nil {
			return err
		}
		if err := tx.CreateCategory(ctx, c); err != nil {
			return fmt.Errorf("create category: %w", err)
		}
		return refreshChildCounts(ctx, tx, c.ProjectID, c.ParentCategoryID)
	})
	if err != nil {
		return nil, err
	}

	s.recordAndPublish(ctx, events.TopicCategoryCreated, categoryEntity(c.ID), who, events.CategoryCreated{Category: c})
	return c, nil
}

// renameCategory changes a category's name and nothing else.
func (s *TrackerServer) renameCategory(ctx context.Context, who auth.Identity, req *api.RenameCategoryRequest) (*model.Category, error) {
	if req.CategoryID <= 0 {
		return nil, inputError("category_id must be positive")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, inputError("name is required")
	}

	c, err := s.store.GetCategory(ctx, req.CategoryID)
	if err != nil {
		return nil, storeError(err, fmt.Sprintf("category %d", req.CategoryID))
	}
	renamed := *c
	renamed.Name = name
	if err := model.ValidateCategory(&renamed); err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, who, c.ProjectID, auth.ActionManageCategories); err != nil {
		return nil, err
	}

	if err := s.store.RenameCategory(ctx, c.ID, name); err != nil {
		return nil, storeError(err, fmt.Sprintf("category %d", c.ID))
	}

	s.recordAndPublish(ctx, events.TopicCategoryRenamed, categoryEntity(c.ID), who, events.CategoryRenamed{
		Category: &renamed,
		OldName:  c.Name,
	})
	return &renamed, nil
}

// moveCategory reparents a category. The caller's view of the current
// parent must still hold, the new parent must be a category of the same
// project, and the move must not put the category under itself. Child
// counts of both parents are refreshed in the same transaction.
func (s *TrackerServer) moveCategory(ctx context.Context, who auth.Identity, req *api.MoveCategoryRequest) (*model.Category, error) {
	if req.CategoryID <= 0 {
		return nil, inputError("category_id must be positive")
	}
	if req.OldParentID == nil || req.NewParentID == nil {
		return nil, inputError("old_parent_id and new_parent_id are required")
	}
	oldParent, newParent := *req.OldParentID, *req.NewParentID
	if oldParent < 0 || newParent < 0 {
		return nil, inputError("parent ids must not be negative")
	}

	c, err := s.store.GetCategory(ctx, req.CategoryID)
	if err != nil {
		return nil, storeError(err, fmt.Sprintf("category %d", req.CategoryID))
	}
	if err := s.authorize(ctx, who, c.ProjectID, auth.ActionManageCategories); err != nil {
		return nil, err
	}

	var moved *model.Category
	err = s.store.RunInTransaction(ctx, func(tx store.Store) error {
		if err := tx.LockProject(ctx, c.ProjectID); err != nil {
			return storeError(err, fmt.Sprintf("project %d", c.ProjectID))
		}
		cur, err := tx.GetCategory(ctx, c.ID)
		if err != nil {
			return storeError(err, fmt.Sprintf("category %d", c.ID))
		}
		if cur.ParentCategoryID != oldParent {
			return fmt.Errorf("%w: category %d has parent %d, not %d", errStaleMove, cur.ID, cur.ParentCategoryID, oldParent)
		}
		moved = cur
		if newParent == oldParent {
			return nil
		}
		if err := checkParent(ctx, tx, cur.ProjectID, newParent); err != nil {
			return err
		}

		cats, err := tx.ListCategories(ctx, cur.ProjectID)
		if err != nil {
			return fmt.Errorf("list categories: %w", err)
		}
		if category.WouldCycle(cats, cur.ID, newParent) {
			return fmt.Errorf("%w: %d is %d or one of its descendants", category.ErrCycle, newParent, cur.ID)
		}

		if err := tx.SetCategoryParent(ctx, cur.ID, newParent); err != nil {
			return storeError(err, fmt.Sprintf("category %d", cur.ID))
		}
		moved.ParentCategoryID = newParent
		return refreshChildCounts(ctx, tx, cur.ProjectID, oldParent, newParent)
	})
	if err != nil {
		return nil, err
	}

	if oldParent != newParent {
		s.recordAndPublish(ctx, events.TopicCategoryMoved, categoryEntity(moved.ID), who, events.CategoryMoved{
			Category:    moved,
			OldParentID: oldParent,
			NewParentID: newParent,
		})
	}
	return moved, nil
}

// deleteCategory removes a category and every descendant, children before
// parents, deriving the descendants from parent pointers. It returns the
// removed ids in deletion order.
func (s *TrackerServer) deleteCategory(ctx context.Context, who auth.Identity, id int64) ([]int64, error) {
	if id <= 0 {
		return nil, inputError("category_id must be positive")
	}
	c, err := s.store.GetCategory(ctx, id)
	if err != nil {
		return nil, storeError(err, fmt.Sprintf("category %d", id))
	}
	if err := s.authorize(ctx, who, c.ProjectID, auth.ActionManageCategories); err != nil {
		return nil, err
	}

	var removed []int64
	err = s.store.RunInTransaction(ctx, func(tx store.Store) error {
		if err := tx.LockProject(ctx, c.ProjectID); err != nil {
			return storeError(err, fmt.Sprintf("project %d", c.ProjectID))
		}
		cats, err := tx.ListCategories(ctx, c.ProjectID)
		if err != nil {
			return fmt.Errorf("list categories: %w", err)
		}
		cur := category.Find(cats, id)
		if cur == nil {
			return notFoundError(fmt.Sprintf("category %d", id))
		}
		removed, err = category.SubtreeDepth(cats, id, s.tree.Limit())
		if err != nil {
			return err
		}
		for _, rid := range removed {
			if err := tx.DeleteCategory(ctx, rid); err != nil {
				return storeError(err, fmt.Sprintf("category %d", rid))
			}
		}
		return refreshChildCounts(ctx, tx, c.ProjectID, cur.ParentCategoryID)
	})
	if err != nil {
		return nil, err
	}

	s.recordAndPublish(ctx, events.TopicCategoryDeleted, categoryEntity(id), who, events.CategoryDeleted{
		ProjectID:  c.ProjectID,
		CategoryID: id,
		Removed:    removed,
	})
	return removed, nil
}

// checkParent verifies that a non-root parent is a category of projectID.
func checkParent(ctx context.Context, tx store.Store, projectID, parentID int64) error {
	if parentID == 0 {
		return nil
	}
	p, err := tx.GetCategory(ctx, parentID)
	if err != nil {
		return storeError(err, fmt.Sprintf("parent category %d", parentID))
	}
	if p.ProjectID != projectID {
		return inputError(fmt.Sprintf("parent category %d belongs to another project", parentID))
	}
	return nil
}

// refreshChildCounts recomputes the cached child count of each listed
// parent from the current rows. Zero (the root) is skipped.
func refreshChildCounts(ctx context.Context, tx store.Store, projectID int64, parents ...int64) error {
	cats, err := tx.ListCategories(ctx, projectID)
	if err != nil {
		return fmt.Errorf("list categories: %w", err)
	}
	counts := category.ChildCounts(cats)
	for _, p := range parents {
		if p == 0 {
			continue
		}
		if err := tx.SetCategoryChildCount(ctx, p, counts[p]); err != nil {
			return storeError(err, fmt.Sprintf("category %d", p))
		}
	}
	return nil
}
