package sync

import (
	"context"
	"errors"

	"github.com/alfredjeanlab/tracker/internal/model"
)

// mockSource is a minimal in-memory Source for sync tests.
type mockSource struct {
	projects   []*model.Project
	categories map[int64][]*model.Category
	issues     map[int64][]*model.Issue
	failIssues bool
}

func newMockSource() *mockSource {
	return &mockSource{
		categories: make(map[int64][]*model.Category),
		issues:     make(map[int64][]*model.Issue),
	}
}

func (m *mockSource) ListProjects(_ context.Context) ([]*model.Project, error) {
	return append([]*model.Project(nil), m.projects...), nil
}

func (m *mockSource) ListCategories(_ context.Context, projectID int64) ([]*model.Category, error) {
	return append([]*model.Category(nil), m.categories[projectID]...), nil
}

func (m *mockSource) ListIssues(_ context.Context, projectID int64) ([]*model.Issue, error) {
	if m.failIssues {
		return nil, errors.New("connection reset")
	}
	return append([]*model.Issue(nil), m.issues[projectID]...), nil
}
