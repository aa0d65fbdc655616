package client

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/alfredjeanlab/tracker/internal/api"
	"github.com/alfredjeanlab/tracker/internal/model"
)

// GRPCClient implements TrackerClient using the gRPC transport.
type GRPCClient struct {
	conn   *grpc.ClientConn
	client *api.TrackerServiceClient
}

// NewGRPCClient connects to the given gRPC address and returns a client
// that sends creds with every call.
func NewGRPCClient(addr string, creds Credentials) (*GRPCClient, error) {
	opts := []grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}
	if h := creds.Header(); h != "" {
		opts = append(opts, grpc.WithPerRPCCredentials(headerCredentials(h)))
	}
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("grpc dial: %w", err)
	}
	return &GRPCClient{
		conn:   conn,
		client: api.NewTrackerServiceClient(conn),
	}, nil
}

func (c *GRPCClient) Close() error {
	return c.conn.Close()
}

// headerCredentials attaches a fixed authorization value to each call.
type headerCredentials string

func (h headerCredentials) GetRequestMetadata(context.Context, ...string) (map[string]string, error) {
	return map[string]string{"authorization": string(h)}, nil
}

// RequireTransportSecurity reports false; the client dials without TLS.
func (h headerCredentials) RequireTransportSecurity() bool { return false }

// --- Issues ---

func (c *GRPCClient) ValidIssue(ctx context.Context, issueID int64) (bool, error) {
	resp, err := c.client.ValidIssue(ctx, &api.ValidIssueRequest{IssueID: issueID})
	if err != nil {
		return false, err
	}
	return resp.Valid, nil
}

func (c *GRPCClient) CreateRevision(ctx context.Context, req *api.CreateRevisionRequest) (*model.Revision, error) {
	resp, err := c.client.CreateIssueRevision(ctx, req)
	if err != nil {
		return nil, err
	}
	return resp.Revision, nil
}

func (c *GRPCClient) CreateAttachment(ctx context.Context, req *api.CreateAttachmentRequest) (*model.Attachment, error) {
	resp, err := c.client.CreateIssueAttachment(ctx, req)
	if err != nil {
		return nil, err
	}
	return resp.Attachment, nil
}

// --- Projects ---

func (c *GRPCClient) GetProjectID(ctx context.Context, code string) (int64, error) {
	resp, err := c.client.GetProjectID(ctx, &api.GetProjectIDRequest{Code: code})
	if err != nil {
		return 0, err
	}
	return resp.ProjectID, nil
}

func (c *GRPCClient) GetProjectIssues(ctx context.Context, projectID int64, filter string) (*api.GetProjectIssuesResponse, error) {
	return c.client.GetProjectIssues(ctx, &api.GetProjectIssuesRequest{ProjectID: projectID, Filter: filter})
}

// --- Categories ---

func (c *GRPCClient) GetCategories(ctx context.Context, projectID int64) ([]*model.TreeNode, error) {
	resp, err := c.client.GetCategories(ctx, &api.GetCategoriesRequest{ProjectID: projectID})
	if err != nil {
		return nil, err
	}
	return resp.Categories, nil
}

func (c *GRPCClient) AddCategory(ctx context.Context, projectID int64, name string, parentID int64) (*model.Category, error) {
	resp, err := c.client.AddCategory(ctx, &api.AddCategoryRequest{ProjectID: projectID, Name: name, ParentCategoryID: parentID})
	if err != nil {
		return nil, err
	}
	return resp.Category, nil
}

func (c *GRPCClient) RenameCategory(ctx context.Context, categoryID int64, name string) (*model.Category, error) {
	resp, err := c.client.RenameCategory(ctx, &api.RenameCategoryRequest{CategoryID: categoryID, Name: name})
	if err != nil {
		return nil, err
	}
	return resp.Category, nil
}

func (c *GRPCClient) MoveCategory(ctx context.Context, categoryID, oldParentID, newParentID int64) (*model.Category, error) {
	resp, err := c.client.MoveCategory(ctx, &api.MoveCategoryRequest{
		CategoryID:  categoryID,
		OldParentID: &oldParentID,
		NewParentID: &newParentID,
	})
	if err != nil {
		return nil, err
	}
	return resp.Category, nil
}

func (c *GRPCClient) DeleteCategory(ctx context.Context, categoryID int64) ([]int64, error) {
	resp, err := c.client.DeleteCategory(ctx, &api.DeleteCategoryRequest{CategoryID: categoryID})
	if err != nil {
		return nil, err
	}
	return resp.Removed, nil
}

// --- Lookups ---

func (c *GRPCClient) GetLookup(ctx context.Context, projectID int64, kind model.LookupKind) ([]string, error) {
	resp, err := c.client.GetLookup(ctx, &api.GetLookupRequest{ProjectID: projectID, Kind: kind})
	if err != nil {
		return nil, err
	}
	return resp.Names, nil
}

func (c *GRPCClient) GetLookups(ctx context.Context, projectID int64) (*api.GetLookupsResponse, error) {
	return c.client.GetLookups(ctx, &api.GetLookupsRequest{ProjectID: projectID})
}

// --- Wiki ---

func (c *GRPCClient) GetWikiSource(ctx context.Context, id int64, slug string, version int) (string, error) {
	resp, err := c.client.GetWikiSource(ctx, &api.GetWikiSourceRequest{ID: id, Slug: slug, Version: version})
	if err != nil {
		return "", err
	}
	return resp.Source, nil
}

func (c *GRPCClient) GetWikiPreview(ctx context.Context, req *api.GetWikiPreviewRequest) (string, error) {
	resp, err := c.client.GetWikiPreview(ctx, req)
	if err != nil {
		return "", err
	}
	return resp.HTML, nil
}

// --- Health ---

func (c *GRPCClient) Health(ctx context.Context) (*api.HealthResponse, error) {
	return c.client.Health(ctx, &api.HealthRequest{})
}

var (
	_ TrackerClient = (*HTTPClient)(nil)
	_ TrackerClient = (*GRPCClient)(nil)
)
