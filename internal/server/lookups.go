package server

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/alfredjeanlab/tracker/internal/api"
	"github.com/alfredjeanlab/tracker/internal/auth"
	"github.com/alfredjeanlab/tracker/internal/model"
)

// lookupRoutes maps the HTTP path names of the pick lists to their kinds.
var lookupRoutes = map[string]model.LookupKind{
	"resolutions": model.LookupResolution,
	"milestones":  model.LookupMilestone,
	"issue-types": model.LookupIssueType,
	"priorities":  model.LookupPriority,
	"statuses":    model.LookupStatus,
}

// lookupNames returns the names of one pick list in sort order.
func (s *TrackerServer) lookupNames(ctx context.Context, who auth.Identity, projectID int64, kind model.LookupKind) ([]string, error) {
	if !kind.IsValid() {
		return nil, inputError(fmt.Sprintf("unknown lookup kind %q", kind))
	}
	if projectID <= 0 {
		return nil, inputError("project_id must be positive")
	}
	if err := s.authorize(ctx, who, projectID, auth.ActionRead); err != nil {
		return nil, err
	}
	return s.listLookupNames(ctx, projectID, kind)
}

func (s *TrackerServer) listLookupNames(ctx context.Context, projectID int64, kind model.LookupKind) ([]string, error) {
	lookups, err := s.store.ListLookups(ctx, projectID, kind)
	if err != nil {
		return nil, fmt.Errorf("list %s lookups: %w", kind, err)
	}
	names := make([]string, 0, len(lookups))
	for _, l := range lookups {
		names = append(names, l.Name)
	}
	return names, nil
}

// allLookups fetches the five pick lists concurrently.
func (s *TrackerServer) allLookups(ctx context.Context, who auth.Identity, projectID int64) (*api.GetLookupsResponse, error) {
	if projectID <= 0 {
		return nil, inputError("project_id must be positive")
	}
	if err := s.authorize(ctx, who, projectID, auth.ActionRead); err != nil {
		return nil, err
	}

	resp := &api.GetLookupsResponse{}
	targets := map[model.LookupKind]*[]string{
		model.LookupResolution: &resp.Resolutions,
		model.LookupMilestone:  &resp.Milestones,
		model.LookupIssueType:  &resp.IssueTypes,
		model.LookupPriority:   &resp.Priorities,
		model.LookupStatus:     &resp.Statuses,
	}

	g, gctx := errgroup.WithContext(ctx)
	for kind, dst := range targets {
		g.Go(func() error {
			names, err := s.listLookupNames(gctx, projectID, kind)
			if err != nil {
				return err
			}
			*dst = names
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return resp, nil
}
