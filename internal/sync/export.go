package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/alfredjeanlab/tracker/internal/model"
)

// Source is the read side of the store that an export needs.
type Source interface {
	ListProjects(ctx context.Context) ([]*model.Project, error)
	ListCategories(ctx context.Context, projectID int64) ([]*model.Category, error)
	ListIssues(ctx context.Context, projectID int64) ([]*model.Issue, error)
}

// header is the first JSONL record written by ExportJSONL.
type header struct {
	Version       string    `json:"version"`
	Type          string    `json:"type"`
	Timestamp     time.Time `json:"timestamp"`
	ProjectCount  int       `json:"project_count"`
	CategoryCount int       `json:"category_count"`
	IssueCount    int       `json:"issue_count"`
}

// record wraps a single JSONL line with a type discriminator.
type record struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// ExportJSONL writes every project, category and issue in src as JSONL to w.
// Projects come first, then categories grouped by project in id order, then
// issues grouped by project in id order.
func ExportJSONL(ctx context.Context, src Source, w io.Writer) error {
	projects, err := src.ListProjects(ctx)
	if err != nil {
		return fmt.Errorf("list projects: %w", err)
	}
	sort.Slice(projects, func(i, j int) bool { return projects[i].ID < projects[j].ID })

	var categories []*model.Category
	var issues []*model.Issue
	for _, p := range projects {
		cats, err := src.ListCategories(ctx, p.ID)
		if err != nil {
			return fmt.Errorf("list categories for project %d: %w", p.ID, err)
		}
		sort.Slice(cats, func(i, j int) bool { return cats[i].ID < cats[j].ID })
		categories = append(categories, cats...)

		iss, err := src.ListIssues(ctx, p.ID)
		if err != nil {
			return fmt.Errorf("list issues for project %d: %w", p.ID, err)
		}
		sort.Slice(iss, func(i, j int) bool { return iss[i].ID < iss[j].ID })
		issues = append(issues, iss...)
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(header{
		Version:       "1",
		Type:          "header",
		Timestamp:     time.Now().UTC(),
		ProjectCount:  len(projects),
		CategoryCount: len(categories),
		IssueCount:    len(issues),
	}); err != nil {
		return fmt.Errorf("encode header: %w", err)
	}

	for _, p := range projects {
		if err := enc.Encode(record{Type: "project", Data: p}); err != nil {
			return fmt.Errorf("encode project %d: %w", p.ID, err)
		}
	}
	for _, c := range categories {
		if err := enc.Encode(record{Type: "category", Data: c}); err != nil {
			return fmt.Errorf("encode category %d: %w", c.ID, err)
		}
	}
	for _, is := range issues {
		if err := enc.Encode(record{Type: "issue", Data: is}); err != nil {
			return fmt.Errorf("encode issue %d: %w", is.ID, err)
		}
	}

	return nil
}
