package events

import (
	"context"

	"github.com/alfredjeanlab/tracker/internal/model"
)

// Event topic constants
const (
	TopicCategoryCreated = "tracker.category.created"
	TopicCategoryRenamed = "tracker.category.renamed"
	TopicCategoryMoved   = "tracker.category.moved"
	TopicCategoryDeleted = "tracker.category.deleted"

	TopicAttachmentCreated = "tracker.attachment.created"
	TopicRevisionCreated   = "tracker.revision.created"

	// TopicAll matches every tracker event.
	TopicAll = "tracker.>"
)

// Event types

type CategoryCreated struct {
	Category *model.Category `json:"category"`
}

type CategoryRenamed struct {
	Category *model.Category `json:"category"`
	OldName  string          `json:"old_name"`
}

type CategoryMoved struct {
	Category    *model.Category `json:"category"`
	OldParentID int64           `json:"old_parent_id"`
	NewParentID int64           `json:"new_parent_id"`
}

// CategoryDeleted lists every removed category, descendants first.
type CategoryDeleted struct {
	ProjectID  int64   `json:"project_id"`
	CategoryID int64   `json:"category_id"`
	Removed    []int64 `json:"removed"`
}

type AttachmentCreated struct {
	Attachment *model.Attachment `json:"attachment"`
}

type RevisionCreated struct {
	Revision *model.Revision `json:"revision"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
