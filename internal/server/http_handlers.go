package server

import (
	"net/http"
	"strconv"

	"github.com/alfredjeanlab/tracker/internal/api"
	"github.com/alfredjeanlab/tracker/internal/auth"
	"github.com/alfredjeanlab/tracker/internal/model"
)

// handleValidIssue handles GET /v1/issues/{id}/valid.
func (s *TrackerServer) handleValidIssue(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeOpError(w, err)
		return
	}
	ok, err := s.validIssue(r.Context(), auth.FromContext(r.Context()), id)
	if err != nil {
		writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, api.ValidIssueResponse{Valid: ok})
}

// handleCreateRevision handles POST /v1/issues/{id}/revisions.
func (s *TrackerServer) handleCreateRevision(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeOpError(w, err)
		return
	}
	var req api.CreateRevisionRequest
	if err := decodeBody(r, &req); err != nil {
		writeOpError(w, err)
		return
	}
	req.IssueID = id

	rev, err := s.createRevision(r.Context(), auth.FromContext(r.Context()), &req)
	if err != nil {
		writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, api.CreateRevisionResponse{Revision: rev})
}

// handleCreateAttachment handles POST /v1/issues/{id}/attachments. The body
// is JSON with base64 content.
func (s *TrackerServer) handleCreateAttachment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeOpError(w, err)
		return
	}
	var req api.CreateAttachmentRequest
	if err := decodeBody(r, &req); err != nil {
		writeOpError(w, err)
		return
	}
	req.IssueID = id

	a, err := s.createAttachment(r.Context(), auth.FromContext(r.Context()), &req)
	if err != nil {
		writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, api.CreateAttachmentResponse{Attachment: a})
}

// handleGetProjectID handles GET /v1/project-id?code=.
func (s *TrackerServer) handleGetProjectID(w http.ResponseWriter, r *http.Request) {
	id, err := s.projectID(r.Context(), auth.FromContext(r.Context()), r.URL.Query().Get("code"))
	if err != nil {
		writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, api.GetProjectIDResponse{ProjectID: id})
}

// handleGetProjectIssues handles GET /v1/projects/{id}/issues?filter=.
func (s *TrackerServer) handleGetProjectIssues(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeOpError(w, err)
		return
	}
	rows, err := s.projectIssues(r.Context(), auth.FromContext(r.Context()), id, r.URL.Query().Get("filter"))
	if err != nil {
		writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, api.GetProjectIssuesResponse{Columns: model.IssueRowColumns, Rows: rows})
}

// handleGetCategories handles GET /v1/projects/{id}/categories.
func (s *TrackerServer) handleGetCategories(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeOpError(w, err)
		return
	}
	nodes, err := s.getCategories(r.Context(), auth.FromContext(r.Context()), id)
	if err != nil {
		writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, api.GetCategoriesResponse{Categories: nodes})
}

// handleAddCategory handles POST /v1/projects/{id}/categories.
func (s *TrackerServer) handleAddCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeOpError(w, err)
		return
	}
	var req api.AddCategoryRequest
	if err := decodeBody(r, &req); err != nil {
		writeOpError(w, err)
		return
	}
	req.ProjectID = id

	c, err := s.addCategory(r.Context(), auth.FromContext(r.Context()), &req)
	if err != nil {
		writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, api.AddCategoryResponse{Category: c})
}

// handleRenameCategory handles PATCH /v1/categories/{id}.
func (s *TrackerServer) handleRenameCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeOpError(w, err)
		return
	}
	var req api.RenameCategoryRequest
	if err := decodeBody(r, &req); err != nil {
		writeOpError(w, err)
		return
	}
	req.CategoryID = id

	c, err := s.renameCategory(r.Context(), auth.FromContext(r.Context()), &req)
	if err != nil {
		writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, api.RenameCategoryResponse{Category: c})
}

// handleMoveCategory handles POST /v1/categories/{id}/move.
func (s *TrackerServer) handleMoveCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeOpError(w, err)
		return
	}
	var req api.MoveCategoryRequest
	if err := decodeBody(r, &req); err != nil {
		writeOpError(w, err)
		return
	}
	req.CategoryID = id

	c, err := s.moveCategory(r.Context(), auth.FromContext(r.Context()), &req)
	if err != nil {
		writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, api.MoveCategoryResponse{Category: c})
}

// handleDeleteCategory handles DELETE /v1/categories/{id}.
func (s *TrackerServer) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeOpError(w, err)
		return
	}
	removed, err := s.deleteCategory(r.Context(), auth.FromContext(r.Context()), id)
	if err != nil {
		writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, api.DeleteCategoryResponse{Removed: removed})
}

// handleGetLookups handles GET /v1/projects/{id}/lookups.
func (s *TrackerServer) handleGetLookups(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeOpError(w, err)
		return
	}
	resp, err := s.allLookups(r.Context(), auth.FromContext(r.Context()), id)
	if err != nil {
		writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleGetLookup handles GET /v1/projects/{id}/lookups/{kind}. The kind
// is a plural route name ("priorities") or a raw kind ("priority").
func (s *TrackerServer) handleGetLookup(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeOpError(w, err)
		return
	}
	name := r.PathValue("kind")
	kind, ok := lookupRoutes[name]
	if !ok {
		kind = model.LookupKind(name)
	}
	names, err := s.lookupNames(r.Context(), auth.FromContext(r.Context()), id, kind)
	if err != nil {
		writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, api.GetLookupResponse{Names: names})
}

// handleWikiSource handles GET /v1/wiki/{id}/source?slug=&version=.
func (s *TrackerServer) handleWikiSource(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeOpError(w, err)
		return
	}
	q := r.URL.Query()
	version, err := strconv.Atoi(q.Get("version"))
	if err != nil {
		writeOpError(w, inputError("version must be an integer"))
		return
	}
	src, err := s.wikiSource(r.Context(), &api.GetWikiSourceRequest{ID: id, Slug: q.Get("slug"), Version: version})
	if err != nil {
		writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, api.GetWikiSourceResponse{Source: src})
}

// handleWikiPreview handles POST /v1/projects/{id}/wiki/preview.
func (s *TrackerServer) handleWikiPreview(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeOpError(w, err)
		return
	}
	var req api.GetWikiPreviewRequest
	if err := decodeBody(r, &req); err != nil {
		writeOpError(w, err)
		return
	}
	req.ProjectID = id

	html, err := s.wikiPreview(&req)
	if err != nil {
		writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, api.GetWikiPreviewResponse{HTML: html})
}
