package model

import (
	"strings"
	"testing"
)

// fieldErrors extracts a *ValidationError from err or fails the test.
func fieldErrors(t *testing.T, err error) []FieldError {
	t.Helper()
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	ve, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	return ve.Errors
}

// hasFieldError reports whether the error list contains an error for the given field.
func hasFieldError(errs []FieldError, field string) bool {
	for _, fe := range errs {
		if fe.Field == field {
			return true
		}
	}
	return false
}

func TestValidateCategory(t *testing.T) {
	for _, tc := range []struct {
		name      string
		cat       Category
		wantField string
	}{
		{"Valid", Category{ProjectID: 1, Name: "UI"}, ""},
		{"ValidChild", Category{ProjectID: 1, Name: "Forms", ParentCategoryID: 3}, ""},
		{"MissingProject", Category{Name: "UI"}, "project_id"},
		{"EmptyName", Category{ProjectID: 1, Name: "  "}, "name"},
		{"LongName", Category{ProjectID: 1, Name: strings.Repeat("x", MaxCategoryNameLength+1)}, "name"},
		{"NegativeParent", Category{ProjectID: 1, Name: "UI", ParentCategoryID: -1}, "parent_category_id"},
		{"SelfParent", Category{ID: 4, ProjectID: 1, Name: "UI", ParentCategoryID: 4}, "parent_category_id"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateCategory(&tc.cat)
			if tc.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !hasFieldError(fieldErrors(t, err), tc.wantField) {
				t.Errorf("expected error on field %q, got %v", tc.wantField, err)
			}
		})
	}
}

func TestValidateAttachment(t *testing.T) {
	valid := func() Attachment {
		return Attachment{
			IssueID:         5,
			FileName:        "trace.log",
			CreatorUserName: "rita",
			Content:         []byte("boom"),
			Size:            4,
		}
	}

	a := valid()
	if err := ValidateAttachment(&a); err != nil {
		t.Fatalf("valid attachment rejected: %v", err)
	}

	for _, tc := range []struct {
		name      string
		mutate    func(*Attachment)
		wantField string
	}{
		{"NoIssue", func(a *Attachment) { a.IssueID = 0 }, "issue_id"},
		{"NoFileName", func(a *Attachment) { a.FileName = "" }, "file_name"},
		{"PathInName", func(a *Attachment) { a.FileName = "../etc/passwd" }, "file_name"},
		{"NoCreator", func(a *Attachment) { a.CreatorUserName = "" }, "creator_username"},
		{"SizeMismatch", func(a *Attachment) { a.Size = 10 }, "size"},
		{"NoContent", func(a *Attachment) { a.Content = nil; a.Size = 0 }, "content"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			a := valid()
			tc.mutate(&a)
			if !hasFieldError(fieldErrors(t, ValidateAttachment(&a)), tc.wantField) {
				t.Errorf("expected error on field %q", tc.wantField)
			}
		})
	}
}

func TestValidateRevision(t *testing.T) {
	r := Revision{IssueID: 1, Revision: 12, Repository: "svn://repo", Author: "otto"}
	if err := ValidateRevision(&r); err != nil {
		t.Fatalf("valid revision rejected: %v", err)
	}

	r = Revision{}
	errs := fieldErrors(t, ValidateRevision(&r))
	for _, f := range []string{"issue_id", "repository", "author"} {
		if !hasFieldError(errs, f) {
			t.Errorf("expected error on field %q", f)
		}
	}
}

func TestValidationError_Error(t *testing.T) {
	ve := &ValidationError{Errors: []FieldError{
		{Field: "name", Message: "is required"},
		{Field: "project_id", Message: "must be positive"},
	}}
	want := "validation failed: name: is required; project_id: must be positive"
	if got := ve.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
