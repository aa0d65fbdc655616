package server

import (
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/zeebo/blake3"

	"github.com/alfredjeanlab/tracker/internal/api"
	"github.com/alfredjeanlab/tracker/internal/auth"
	"github.com/alfredjeanlab/tracker/internal/events"
	"github.com/alfredjeanlab/tracker/internal/filter"
	"github.com/alfredjeanlab/tracker/internal/model"
)

// validIssue reports whether issueID names an existing issue. Only
// signed-in callers may ask.
func (s *TrackerServer) validIssue(ctx context.Context, who auth.Identity, issueID int64) (bool, error) {
	if who.IsAnonymous() {
		return false, auth.ErrUnauthenticated
	}
	if issueID <= 0 {
		return false, inputError("issue_id must be positive")
	}
	_, err := s.store.GetIssue(ctx, issueID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get issue: %w", err)
	}
	return true, nil
}

// issueForContribution loads an issue and checks that who may attach data
// to it.
func (s *TrackerServer) issueForContribution(ctx context.Context, who auth.Identity, issueID int64) (*model.Issue, error) {
	issue, err := s.store.GetIssue(ctx, issueID)
	if err != nil {
		return nil, storeError(err, fmt.Sprintf("issue %d", issueID))
	}
	if err := s.authorize(ctx, who, issue.ProjectID, auth.ActionContribute); err != nil {
		return nil, err
	}
	return issue, nil
}

// createRevision links a source-control revision to an issue.
func (s *TrackerServer) createRevision(ctx context.Context, who auth.Identity, req *api.CreateRevisionRequest) (*model.Revision, error) {
	rev := &model.Revision{
		IssueID:      req.IssueID,
		Revision:     req.Revision,
		Repository:   strings.TrimSpace(req.Repository),
		Author:       strings.TrimSpace(req.Author),
		RevisionDate: req.RevisionDate,
		Message:      req.Message,
		Changeset:    req.Changeset,
		Branch:       req.Branch,
	}
	if err := model.ValidateRevision(rev); err != nil {
		return nil, err
	}
	if _, err := s.issueForContribution(ctx, who, rev.IssueID); err != nil {
		return nil, err
	}

	if err := s.store.CreateRevision(ctx, rev); err != nil {
		return nil, fmt.Errorf("create revision: %w", err)
	}

	s.recordAndPublish(ctx, events.TopicRevisionCreated, issueEntity(rev.IssueID), who, events.RevisionCreated{Revision: rev})
	return rev, nil
}

// createAttachment stores a file against an issue. The size defaults to the
// content length and must match it when given. Content goes to the blob
// store when one is configured and is kept inline otherwise.
func (s *TrackerServer) createAttachment(ctx context.Context, who auth.Identity, req *api.CreateAttachmentRequest) (*model.Attachment, error) {
	if who.IsAnonymous() {
		return nil, auth.ErrUnauthenticated
	}
	a := &model.Attachment{
		IssueID:         req.IssueID,
		FileName:        strings.TrimSpace(req.FileName),
		ContentType:     req.ContentType,
		Size:            int64(len(req.Content)),
		Description:     req.Description,
		CreatorUserName: who.Username,
		Content:         req.Content,
	}
	if req.Size != nil {
		a.Size = *req.Size
	}
	if a.ContentType == "" {
		a.ContentType = "application/octet-stream"
	}
	if err := model.ValidateAttachment(a); err != nil {
		return nil, err
	}
	if _, err := s.issueForContribution(ctx, who, a.IssueID); err != nil {
		return nil, err
	}

	sum := blake3.Sum256(a.Content)
	a.Checksum = hex.EncodeToString(sum[:])

	if s.blobs != nil {
		key, err := s.blobs.Put(ctx, a.FileName, a.ContentType, a.Content)
		if err != nil {
			return nil, fmt.Errorf("store attachment content: %w", err)
		}
		a.ObjectKey = key
	}

	if err := s.store.CreateAttachment(ctx, a); err != nil {
		return nil, fmt.Errorf("create attachment: %w", err)
	}

	s.recordAndPublish(ctx, events.TopicAttachmentCreated, issueEntity(a.IssueID), who, events.AttachmentCreated{Attachment: a})
	return a, nil
}

// projectID resolves a project code.
func (s *TrackerServer) projectID(ctx context.Context, who auth.Identity, code string) (int64, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return 0, inputError("code is required")
	}
	if who.IsAnonymous() {
		return 0, auth.ErrUnauthenticated
	}
	p, err := s.store.GetProjectByCode(ctx, code)
	if err != nil {
		return 0, storeError(err, fmt.Sprintf("project %q", code))
	}
	if err := s.authorize(ctx, who, p.ID, auth.ActionRead); err != nil {
		return 0, err
	}
	return p.ID, nil
}

// projectIssues lists a project's issues as fixed-order rows. Blank filter
// text lists every issue; otherwise the compiled clauses, baseline first,
// restrict the listing. Unrecognised filter tokens are logged and counted.
func (s *TrackerServer) projectIssues(ctx context.Context, who auth.Identity, projectID int64, text string) ([][13]any, error) {
	if projectID <= 0 {
		return nil, inputError("project_id must be positive")
	}
	if err := s.authorize(ctx, who, projectID, auth.ActionRead); err != nil {
		return nil, err
	}

	var (
		issues []*model.Issue
		err    error
	)
	if filter.IsBlank(text) {
		issues, err = s.store.ListIssues(ctx, projectID)
	} else {
		res := filter.CompileWithDiagnostics(text)
		for _, tok := range res.Dropped {
			slog.Warn("dropped unrecognised filter token", "project_id", projectID, "token", tok)
		}
		s.droppedTokens.Add(int64(len(res.Dropped)))
		issues, err = s.store.QueryIssues(ctx, projectID, res.Clauses)
	}
	if err != nil {
		return nil, fmt.Errorf("list issues: %w", err)
	}

	rows := make([][13]any, 0, len(issues))
	for _, i := range issues {
		rows = append(rows, i.Row())
	}
	return rows, nil
}
