package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/alfredjeanlab/tracker/internal/api"
	"github.com/alfredjeanlab/tracker/internal/model"
)

// HTTPClient implements TrackerClient using the tracker HTTP/JSON API.
type HTTPClient struct {
	baseURL    string
	authz      string
	httpClient *http.Client
}

// NewHTTPClient creates a new HTTP client targeting the given base URL
// (e.g. "http://localhost:8080").
func NewHTTPClient(baseURL string, creds Credentials) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		authz:      creds.Header(),
		httpClient: &http.Client{},
	}
}

// Close is a no-op for the HTTP client.
func (c *HTTPClient) Close() error { return nil }

func idPath(format string, id int64) string {
	return fmt.Sprintf(format, id)
}

// --- Issues ---

func (c *HTTPClient) ValidIssue(ctx context.Context, issueID int64) (bool, error) {
	var resp api.ValidIssueResponse
	if err := c.doJSON(ctx, http.MethodGet, idPath("/v1/issues/%d/valid", issueID), nil, &resp); err != nil {
		return false, err
	}
	return resp.Valid, nil
}

func (c *HTTPClient) CreateRevision(ctx context.Context, req *api.CreateRevisionRequest) (*model.Revision, error) {
	var resp api.CreateRevisionResponse
	if err := c.doJSON(ctx, http.MethodPost, idPath("/v1/issues/%d/revisions", req.IssueID), req, &resp); err != nil {
		return nil, err
	}
	return resp.Revision, nil
}

func (c *HTTPClient) CreateAttachment(ctx context.Context, req *api.CreateAttachmentRequest) (*model.Attachment, error) {
	var resp api.CreateAttachmentResponse
	if err := c.doJSON(ctx, http.MethodPost, idPath("/v1/issues/%d/attachments", req.IssueID), req, &resp); err != nil {
		return nil, err
	}
	return resp.Attachment, nil
}

// --- Projects ---

func (c *HTTPClient) GetProjectID(ctx context.Context, code string) (int64, error) {
	var resp api.GetProjectIDResponse
	path := "/v1/project-id?" + url.Values{"code": {code}}.Encode()
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return 0, err
	}
	return resp.ProjectID, nil
}

func (c *HTTPClient) GetProjectIssues(ctx context.Context, projectID int64, filter string) (*api.GetProjectIssuesResponse, error) {
	path := idPath("/v1/projects/%d/issues", projectID)
	if filter != "" {
		path += "?" + url.Values{"filter": {filter}}.Encode()
	}
	var resp api.GetProjectIssuesResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// --- Categories ---

func (c *HTTPClient) GetCategories(ctx context.Context, projectID int64) ([]*model.TreeNode, error) {
	var resp api.GetCategoriesResponse
	if err := c.doJSON(ctx, http.MethodGet, idPath("/v1/projects/%d/categories", projectID), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Categories, nil
}

func (c *HTTPClient) AddCategory(ctx context.Context, projectID int64, name string, parentID int64) (*model.Category, error) {
	body := api.AddCategoryRequest{ProjectID: projectID, Name: name, ParentCategoryID: parentID}
	var resp api.AddCategoryResponse
	if err := c.doJSON(ctx, http.MethodPost, idPath("/v1/projects/%d/categories", projectID), body, &resp); err != nil {
		return nil, err
	}
	return resp.Category, nil
}

func (c *HTTPClient) RenameCategory(ctx context.Context, categoryID int64, name string) (*model.Category, error) {
	body := api.RenameCategoryRequest{CategoryID: categoryID, Name: name}
	var resp api.RenameCategoryResponse
	if err := c.doJSON(ctx, http.MethodPatch, idPath("/v1/categories/%d", categoryID), body, &resp); err != nil {
		return nil, err
	}
	return resp.Category, nil
}

func (c *HTTPClient) MoveCategory(ctx context.Context, categoryID, oldParentID, newParentID int64) (*model.Category, error) {
	body := api.MoveCategoryRequest{CategoryID: categoryID, OldParentID: &oldParentID, NewParentID: &newParentID}
	var resp api.MoveCategoryResponse
	if err := c.doJSON(ctx, http.MethodPost, idPath("/v1/categories/%d/move", categoryID), body, &resp); err != nil {
		return nil, err
	}
	return resp.Category, nil
}

func (c *HTTPClient) DeleteCategory(ctx context.Context, categoryID int64) ([]int64, error) {
	var resp api.DeleteCategoryResponse
	if err := c.doJSON(ctx, http.MethodDelete, idPath("/v1/categories/%d", categoryID), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Removed, nil
}

// --- Lookups ---

func (c *HTTPClient) GetLookup(ctx context.Context, projectID int64, kind model.LookupKind) ([]string, error) {
	var resp api.GetLookupResponse
	path := idPath("/v1/projects/%d/lookups/", projectID) + url.PathEscape(string(kind))
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Names, nil
}

func (c *HTTPClient) GetLookups(ctx context.Context, projectID int64) (*api.GetLookupsResponse, error) {
	var resp api.GetLookupsResponse
	if err := c.doJSON(ctx, http.MethodGet, idPath("/v1/projects/%d/lookups", projectID), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// --- Wiki ---

func (c *HTTPClient) GetWikiSource(ctx context.Context, id int64, slug string, version int) (string, error) {
	q := url.Values{"version": {strconv.Itoa(version)}}
	if slug != "" {
		q.Set("slug", slug)
	}
	var resp api.GetWikiSourceResponse
	if err := c.doJSON(ctx, http.MethodGet, idPath("/v1/wiki/%d/source", id)+"?"+q.Encode(), nil, &resp); err != nil {
		return "", err
	}
	return resp.Source, nil
}

func (c *HTTPClient) GetWikiPreview(ctx context.Context, req *api.GetWikiPreviewRequest) (string, error) {
	var resp api.GetWikiPreviewResponse
	if err := c.doJSON(ctx, http.MethodPost, idPath("/v1/projects/%d/wiki/preview", req.ProjectID), req, &resp); err != nil {
		return "", err
	}
	return resp.HTML, nil
}

// --- Health ---

func (c *HTTPClient) Health(ctx context.Context) (*api.HealthResponse, error) {
	var resp api.HealthResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/health", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// --- internal helpers ---

// APIError represents an error response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is an API error with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// doJSON performs an HTTP request with optional JSON body and decodes the JSON response.
// If result is nil, the response body is discarded.
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body any, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.authz != "" {
		req.Header.Set("Authorization", c.authz)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			return &APIError{StatusCode: resp.StatusCode, Message: errResp.Error}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}
