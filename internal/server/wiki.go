package server

import (
	"context"
	"fmt"

	"github.com/alfredjeanlab/tracker/internal/api"
	"github.com/alfredjeanlab/tracker/internal/wiki"
)

// wikiSource returns the stored source of one page version. A non-empty
// slug must match the page.
func (s *TrackerServer) wikiSource(ctx context.Context, req *api.GetWikiSourceRequest) (string, error) {
	if req.ID <= 0 {
		return "", inputError("id must be positive")
	}
	if req.Version <= 0 {
		return "", inputError("version must be positive")
	}
	entity := fmt.Sprintf("wiki page %d version %d", req.ID, req.Version)
	page, err := s.store.GetWikiContent(ctx, req.ID, req.Version)
	if err != nil {
		return "", storeError(err, entity)
	}
	if req.Slug != "" && req.Slug != page.Slug {
		return "", notFoundError(entity + " with slug " + req.Slug)
	}
	return page.Source, nil
}

// wikiPreview renders unsaved page source to HTML.
func (s *TrackerServer) wikiPreview(req *api.GetWikiPreviewRequest) (string, error) {
	if req.ProjectID <= 0 {
		return "", inputError("project_id must be positive")
	}
	return s.formatter.Format(wiki.Page{ProjectID: req.ProjectID, ID: req.ID, Slug: req.Slug}, req.Source)
}

// health reports liveness and the number of filter tokens dropped so far.
func (s *TrackerServer) health() *api.HealthResponse {
	return &api.HealthResponse{
		Status:              "ok",
		FilterTokensDropped: s.droppedTokens.Load(),
	}
}
