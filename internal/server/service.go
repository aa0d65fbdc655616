package server

import (
	"context"

	"github.com/alfredjeanlab/tracker/internal/api"
	"github.com/alfredjeanlab/tracker/internal/auth"
	"github.com/alfredjeanlab/tracker/internal/model"
)

var _ api.TrackerServiceServer = (*TrackerServer)(nil)

// Health reports server status.
func (s *TrackerServer) Health(context.Context, *api.HealthRequest) (*api.HealthResponse, error) {
	return s.health(), nil
}

// ValidIssue reports whether an issue exists.
func (s *TrackerServer) ValidIssue(ctx context.Context, req *api.ValidIssueRequest) (*api.ValidIssueResponse, error) {
	ok, err := s.validIssue(ctx, auth.FromContext(ctx), req.IssueID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.ValidIssueResponse{Valid: ok}, nil
}

// CreateIssueRevision links a revision to an issue.
func (s *TrackerServer) CreateIssueRevision(ctx context.Context, req *api.CreateRevisionRequest) (*api.CreateRevisionResponse, error) {
	rev, err := s.createRevision(ctx, auth.FromContext(ctx), req)
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.CreateRevisionResponse{Revision: rev}, nil
}

// CreateIssueAttachment attaches a file to an issue.
func (s *TrackerServer) CreateIssueAttachment(ctx context.Context, req *api.CreateAttachmentRequest) (*api.CreateAttachmentResponse, error) {
	a, err := s.createAttachment(ctx, auth.FromContext(ctx), req)
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.CreateAttachmentResponse{Attachment: a}, nil
}

// GetProjectID resolves a project code.
func (s *TrackerServer) GetProjectID(ctx context.Context, req *api.GetProjectIDRequest) (*api.GetProjectIDResponse, error) {
	id, err := s.projectID(ctx, auth.FromContext(ctx), req.Code)
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.GetProjectIDResponse{ProjectID: id}, nil
}

// GetProjectIssues lists a project's issues matching a filter.
func (s *TrackerServer) GetProjectIssues(ctx context.Context, req *api.GetProjectIssuesRequest) (*api.GetProjectIssuesResponse, error) {
	rows, err := s.projectIssues(ctx, auth.FromContext(ctx), req.ProjectID, req.Filter)
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.GetProjectIssuesResponse{Columns: model.IssueRowColumns, Rows: rows}, nil
}

// GetCategories returns a project's category tree.
func (s *TrackerServer) GetCategories(ctx context.Context, req *api.GetCategoriesRequest) (*api.GetCategoriesResponse, error) {
	nodes, err := s.getCategories(ctx, auth.FromContext(ctx), req.ProjectID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.GetCategoriesResponse{Categories: nodes}, nil
}

// AddCategory creates a category.
func (s *TrackerServer) AddCategory(ctx context.Context, req *api.AddCategoryRequest) (*api.AddCategoryResponse, error) {
	c, err := s.addCategory(ctx, auth.FromContext(ctx), req)
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.AddCategoryResponse{Category: c}, nil
}

// RenameCategory renames a category.
func (s *TrackerServer) RenameCategory(ctx context.Context, req *api.RenameCategoryRequest) (*api.RenameCategoryResponse, error) {
	c, err := s.renameCategory(ctx, auth.FromContext(ctx), req)
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.RenameCategoryResponse{Category: c}, nil
}

// MoveCategory reparents a category.
func (s *TrackerServer) MoveCategory(ctx context.Context, req *api.MoveCategoryRequest) (*api.MoveCategoryResponse, error) {
	c, err := s.moveCategory(ctx, auth.FromContext(ctx), req)
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.MoveCategoryResponse{Category: c}, nil
}

// DeleteCategory deletes a category and its descendants.
func (s *TrackerServer) DeleteCategory(ctx context.Context, req *api.DeleteCategoryRequest) (*api.DeleteCategoryResponse, error) {
	removed, err := s.deleteCategory(ctx, auth.FromContext(ctx), req.CategoryID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.DeleteCategoryResponse{Removed: removed}, nil
}

// GetLookup returns one pick list.
func (s *TrackerServer) GetLookup(ctx context.Context, req *api.GetLookupRequest) (*api.GetLookupResponse, error) {
	names, err := s.lookupNames(ctx, auth.FromContext(ctx), req.ProjectID, req.Kind)
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.GetLookupResponse{Names: names}, nil
}

// GetLookups returns every pick list of a project.
func (s *TrackerServer) GetLookups(ctx context.Context, req *api.GetLookupsRequest) (*api.GetLookupsResponse, error) {
	resp, err := s.allLookups(ctx, auth.FromContext(ctx), req.ProjectID)
	if err != nil {
		return nil, toStatus(err)
	}
	return resp, nil
}

// GetWikiSource returns the source of a wiki page version.
func (s *TrackerServer) GetWikiSource(ctx context.Context, req *api.GetWikiSourceRequest) (*api.GetWikiSourceResponse, error) {
	src, err := s.wikiSource(ctx, req)
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.GetWikiSourceResponse{Source: src}, nil
}

// GetWikiPreview renders wiki source to HTML.
func (s *TrackerServer) GetWikiPreview(_ context.Context, req *api.GetWikiPreviewRequest) (*api.GetWikiPreviewResponse, error) {
	html, err := s.wikiPreview(req)
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.GetWikiPreviewResponse{HTML: html}, nil
}
