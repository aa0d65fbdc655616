package api

import (
	"context"

	"google.golang.org/grpc"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "tracker.v1.TrackerService"

// Method names of the tracker service.
const (
	MethodHealth                = "Health"
	MethodValidIssue            = "ValidIssue"
	MethodCreateIssueRevision   = "CreateIssueRevision"
	MethodCreateIssueAttachment = "CreateIssueAttachment"
	MethodGetProjectID          = "GetProjectID"
	MethodGetProjectIssues      = "GetProjectIssues"
	MethodGetCategories         = "GetCategories"
	MethodAddCategory           = "AddCategory"
	MethodRenameCategory        = "RenameCategory"
	MethodMoveCategory          = "MoveCategory"
	MethodDeleteCategory        = "DeleteCategory"
	MethodGetLookup             = "GetLookup"
	MethodGetLookups            = "GetLookups"
	MethodGetWikiSource         = "GetWikiSource"
	MethodGetWikiPreview        = "GetWikiPreview"
)

// FullMethod returns the gRPC path of method, e.g.
// "/tracker.v1.TrackerService/Health".
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// TrackerServiceServer is the server API for the tracker service.
type TrackerServiceServer interface {
	Health(context.Context, *HealthRequest) (*HealthResponse, error)
	ValidIssue(context.Context, *ValidIssueRequest) (*ValidIssueResponse, error)
	CreateIssueRevision(context.Context, *CreateRevisionRequest) (*CreateRevisionResponse, error)
	CreateIssueAttachment(context.Context, *CreateAttachmentRequest) (*CreateAttachmentResponse, error)
	GetProjectID(context.Context, *GetProjectIDRequest) (*GetProjectIDResponse, error)
	GetProjectIssues(context.Context, *GetProjectIssuesRequest) (*GetProjectIssuesResponse, error)
	GetCategories(context.Context, *GetCategoriesRequest) (*GetCategoriesResponse, error)
	AddCategory(context.Context, *AddCategoryRequest) (*AddCategoryResponse, error)
	RenameCategory(context.Context, *RenameCategoryRequest) (*RenameCategoryResponse, error)
	MoveCategory(context.Context, *MoveCategoryRequest) (*MoveCategoryResponse, error)
	DeleteCategory(context.Context, *DeleteCategoryRequest) (*DeleteCategoryResponse, error)
	GetLookup(context.Context, *GetLookupRequest) (*GetLookupResponse, error)
	GetLookups(context.Context, *GetLookupsRequest) (*GetLookupsResponse, error)
	GetWikiSource(context.Context, *GetWikiSourceRequest) (*GetWikiSourceResponse, error)
	GetWikiPreview(context.Context, *GetWikiPreviewRequest) (*GetWikiPreviewResponse, error)
}

// unary builds the method descriptor for one request/response pair.
func unary[Req, Resp any](method string, call func(TrackerServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			s := srv.(TrackerServiceServer)
			if interceptor == nil {
				return call(s, ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(method)}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return call(s, ctx, req.(*Req))
			})
		},
	}
}

// ServiceDesc describes the tracker service for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*TrackerServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(MethodHealth, TrackerServiceServer.Health),
		unary(MethodValidIssue, TrackerServiceServer.ValidIssue),
		unary(MethodCreateIssueRevision, TrackerServiceServer.CreateIssueRevision),
		unary(MethodCreateIssueAttachment, TrackerServiceServer.CreateIssueAttachment),
		unary(MethodGetProjectID, TrackerServiceServer.GetProjectID),
		unary(MethodGetProjectIssues, TrackerServiceServer.GetProjectIssues),
		unary(MethodGetCategories, TrackerServiceServer.GetCategories),
		unary(MethodAddCategory, TrackerServiceServer.AddCategory),
		unary(MethodRenameCategory, TrackerServiceServer.RenameCategory),
		unary(MethodMoveCategory, TrackerServiceServer.MoveCategory),
		unary(MethodDeleteCategory, TrackerServiceServer.DeleteCategory),
		unary(MethodGetLookup, TrackerServiceServer.GetLookup),
		unary(MethodGetLookups, TrackerServiceServer.GetLookups),
		unary(MethodGetWikiSource, TrackerServiceServer.GetWikiSource),
		unary(MethodGetWikiPreview, TrackerServiceServer.GetWikiPreview),
	},
}

// RegisterTrackerServiceServer registers srv on s.
func RegisterTrackerServiceServer(s grpc.ServiceRegistrar, srv TrackerServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// TrackerServiceClient is the client API for the tracker service. Every call
// uses the JSON codec.
type TrackerServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewTrackerServiceClient wraps a client connection.
func NewTrackerServiceClient(cc grpc.ClientConnInterface) *TrackerServiceClient {
	return &TrackerServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *TrackerServiceClient) Health(ctx context.Context, in *HealthRequest, opts ...grpc.CallOption) (*HealthResponse, error) {
	return invoke[HealthResponse](ctx, c.cc, MethodHealth, in, opts)
}

func (c *TrackerServiceClient) ValidIssue(ctx context.Context, in *ValidIssueRequest, opts ...grpc.CallOption) (*ValidIssueResponse, error) {
	return invoke[ValidIssueResponse](ctx, c.cc, MethodValidIssue, in, opts)
}

func (c *TrackerServiceClient) CreateIssueRevision(ctx context.Context, in *CreateRevisionRequest, opts ...grpc.CallOption) (*CreateRevisionResponse, error) {
	return invoke[CreateRevisionResponse](ctx, c.cc, MethodCreateIssueRevision, in, opts)
}

func (c *TrackerServiceClient) CreateIssueAttachment(ctx context.Context, in *CreateAttachmentRequest, opts ...grpc.CallOption) (*CreateAttachmentResponse, error) {
	return invoke[CreateAttachmentResponse](ctx, c.cc, MethodCreateIssueAttachment, in, opts)
}

func (c *TrackerServiceClient) GetProjectID(ctx context.Context, in *GetProjectIDRequest, opts ...grpc.CallOption) (*GetProjectIDResponse, error) {
	return invoke[GetProjectIDResponse](ctx, c.cc, MethodGetProjectID, in, opts)
}

func (c *TrackerServiceClient) GetProjectIssues(ctx context.Context, in *GetProjectIssuesRequest, opts ...grpc.CallOption) (*GetProjectIssuesResponse, error) {
	return invoke[GetProjectIssuesResponse](ctx, c.cc, MethodGetProjectIssues, in, opts)
}

func (c *TrackerServiceClient) GetCategories(ctx context.Context, in *GetCategoriesRequest, opts ...grpc.CallOption) (*GetCategoriesResponse, error) {
	return invoke[GetCategoriesResponse](ctx, c.cc, MethodGetCategories, in, opts)
}

func (c *TrackerServiceClient) AddCategory(ctx context.Context, in *AddCategoryRequest, opts ...grpc.CallOption) (*AddCategoryResponse, error) {
	return invoke[AddCategoryResponse](ctx, c.cc, MethodAddCategory, in, opts)
}

func (c *TrackerServiceClient) RenameCategory(ctx context.Context, in *RenameCategoryRequest, opts ...grpc.CallOption) (*RenameCategoryResponse, error) {
	return invoke[RenameCategoryResponse](ctx, c.cc, MethodRenameCategory, in, opts)
}

func (c *TrackerServiceClient) MoveCategory(ctx context.Context, in *MoveCategoryRequest, opts ...grpc.CallOption) (*MoveCategoryResponse, error) {
	return invoke[MoveCategoryResponse](ctx, c.cc, MethodMoveCategory, in, opts)
}

func (c *TrackerServiceClient) DeleteCategory(ctx context.Context, in *DeleteCategoryRequest, opts ...grpc.CallOption) (*DeleteCategoryResponse, error) {
	return invoke[DeleteCategoryResponse](ctx, c.cc, MethodDeleteCategory, in, opts)
}

func (c *TrackerServiceClient) GetLookup(ctx context.Context, in *GetLookupRequest, opts ...grpc.CallOption) (*GetLookupResponse, error) {
	return invoke[GetLookupResponse](ctx, c.cc, MethodGetLookup, in, opts)
}

func (c *TrackerServiceClient) GetLookups(ctx context.Context, in *GetLookupsRequest, opts ...grpc.CallOption) (*GetLookupsResponse, error) {
	return invoke[GetLookupsResponse](ctx, c.cc, MethodGetLookups, in, opts)
}

func (c *TrackerServiceClient) GetWikiSource(ctx context.Context, in *GetWikiSourceRequest, opts ...grpc.CallOption) (*GetWikiSourceResponse, error) {
	return invoke[GetWikiSourceResponse](ctx, c.cc, MethodGetWikiSource, in, opts)
}

func (c *TrackerServiceClient) GetWikiPreview(ctx context.Context, in *GetWikiPreviewRequest, opts ...grpc.CallOption) (*GetWikiPreviewResponse, error) {
	return invoke[GetWikiPreviewResponse](ctx, c.cc, MethodGetWikiPreview, in, opts)
}
