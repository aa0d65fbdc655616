package model

import (
	"fmt"
	"strings"
)

// ValidationError holds a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation failure on a named field.
type FieldError struct {
	Field   string
	Message string
}

// Error formats the validation error as a semicolon-separated list of field messages.
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// HasErrors reports whether the validation error contains any field errors.
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

func (e *ValidationError) add(field, msg string) {
	e.Errors = append(e.Errors, FieldError{Field: field, Message: msg})
}

// MaxCategoryNameLength bounds category names, in characters.
const MaxCategoryNameLength = 100

// MaxFileNameLength bounds attachment file names, in characters.
const MaxFileNameLength = 250

// ValidateCategory checks a Category for constraint violations.
// It returns a *ValidationError if any rules fail, or nil if the category is valid.
func ValidateCategory(c *Category) error {
	var ve ValidationError

	if c.ProjectID <= 0 {
		ve.add("project_id", "must be positive")
	}
	name := strings.TrimSpace(c.Name)
	if name == "" {
		ve.add("name", "is required")
	} else if len([]rune(name)) > MaxCategoryNameLength {
		ve.add("name", fmt.Sprintf("must be %d characters or fewer", MaxCategoryNameLength))
	}
	if c.ParentCategoryID < 0 {
		ve.add("parent_category_id", "must not be negative")
	}
	if c.ID != 0 && c.ID == c.ParentCategoryID {
		ve.add("parent_category_id", "must not reference the category itself")
	}

	if ve.HasErrors() {
		return &ve
	}
	return nil
}

// ValidateAttachment checks an Attachment for constraint violations.
func ValidateAttachment(a *Attachment) error {
	var ve ValidationError

	if a.IssueID <= 0 {
		ve.add("issue_id", "must be positive")
	}
	name := strings.TrimSpace(a.FileName)
	if name == "" {
		ve.add("file_name", "is required")
	} else if len([]rune(name)) > MaxFileNameLength {
		ve.add("file_name", fmt.Sprintf("must be %d characters or fewer", MaxFileNameLength))
	} else if strings.ContainsAny(name, `/\`) {
		ve.add("file_name", "must not contain path separators")
	}
	if strings.TrimSpace(a.CreatorUserName) == "" {
		ve.add("creator_username", "is required")
	}
	if a.Size != int64(len(a.Content)) {
		ve.add("size", fmt.Sprintf("is %d but content has %d bytes", a.Size, len(a.Content)))
	}
	if len(a.Content) == 0 {
		ve.add("content", "is required")
	}

	if ve.HasErrors() {
		return &ve
	}
	return nil
}

// ValidateRevision checks a Revision for constraint violations.
func ValidateRevision(r *Revision) error {
	var ve ValidationError

	if r.IssueID <= 0 {
		ve.add("issue_id", "must be positive")
	}
	if r.Revision < 0 {
		ve.add("revision", "must not be negative")
	}
	if strings.TrimSpace(r.Repository) == "" {
		ve.add("repository", "is required")
	}
	if strings.TrimSpace(r.Author) == "" {
		ve.add("author", "is required")
	}

	if ve.HasErrors() {
		return &ve
	}
	return nil
}
