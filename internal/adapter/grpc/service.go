package grpc

import (
	"context"

	"google.golang.org/grpc"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "marketplace.MarketplaceService"

// Full method names, used by the auth rules.
const (
	MethodListAds                = "/" + ServiceName + "/ListAds"
	MethodListDirectory          = "/" + ServiceName + "/ListDirectory"
	MethodFindDirectoryListing   = "/" + ServiceName + "/FindDirectoryListing"
	MethodWatchAds               = "/" + ServiceName + "/WatchAds"
	MethodWatchDirectory         = "/" + ServiceName + "/WatchDirectory"
	MethodCreateAd               = "/" + ServiceName + "/CreateAd"
	MethodUploadAdImages         = "/" + ServiceName + "/UploadAdImages"
	MethodRegister               = "/" + ServiceName + "/Register"
	MethodGetMyRole              = "/" + ServiceName + "/GetMyRole"
	MethodCreateDirectoryBuyer   = "/" + ServiceName + "/CreateDirectoryBuyer"
	MethodEnsureDirectoryListing = "/" + ServiceName + "/EnsureDirectoryListing"
)

// MarketplaceServer is the server API of MarketplaceService.
type MarketplaceServer interface {
	ListAds(context.Context, *ListAdsRequest) (*ListAdsResponse, error)
	ListDirectory(context.Context, *ListDirectoryRequest) (*ListDirectoryResponse, error)
	FindDirectoryListing(context.Context, *FindDirectoryListingRequest) (*FindDirectoryListingResponse, error)
	WatchAds(*WatchAdsRequest, grpc.ServerStreamingServer[ListAdsResponse]) error
	WatchDirectory(*WatchDirectoryRequest, grpc.ServerStreamingServer[ListDirectoryResponse]) error
	CreateAd(context.Context, *CreateAdRequest) (*CreateAdResponse, error)
	UploadAdImages(context.Context, *UploadAdImagesRequest) (*UploadAdImagesResponse, error)
	Register(context.Context, *RegisterRequest) (*RegisterResponse, error)
	GetMyRole(context.Context, *GetMyRoleRequest) (*GetMyRoleResponse, error)
	CreateDirectoryBuyer(context.Context, *CreateDirectoryBuyerRequest) (*CreateDirectoryBuyerResponse, error)
	EnsureDirectoryListing(context.Context, *EnsureDirectoryListingRequest) (*EnsureDirectoryListingResponse, error)
}

// RegisterMarketplaceServer registers srv on s.
func RegisterMarketplaceServer(s grpc.ServiceRegistrar, srv MarketplaceServer) {
	s.RegisterService(&MarketplaceServiceDesc, srv)
}

// unary adapts a typed method to a grpc.MethodHandler.
func unary[Req, Res any](fullMethod string, call func(MarketplaceServer, context.Context, *Req) (*Res, error)) func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(MarketplaceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(MarketplaceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

func watchAdsHandler(srv interface{}, stream grpc.ServerStream) error {
	in := new(WatchAdsRequest)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(MarketplaceServer).WatchAds(in, &grpc.GenericServerStream[WatchAdsRequest, ListAdsResponse]{ServerStream: stream})
}

func watchDirectoryHandler(srv interface{}, stream grpc.ServerStream) error {
	in := new(WatchDirectoryRequest)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(MarketplaceServer).WatchDirectory(in, &grpc.GenericServerStream[WatchDirectoryRequest, ListDirectoryResponse]{ServerStream: stream})
}

// MarketplaceServiceDesc describes MarketplaceService for grpc.Server.
var MarketplaceServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*MarketplaceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ListAds", Handler: unary(MethodListAds, MarketplaceServer.ListAds)},
		{MethodName: "ListDirectory", Handler: unary(MethodListDirectory, MarketplaceServer.ListDirectory)},
		{MethodName: "FindDirectoryListing", Handler: unary(MethodFindDirectoryListing, MarketplaceServer.FindDirectoryListing)},
		{MethodName: "CreateAd", Handler: unary(MethodCreateAd, MarketplaceServer.CreateAd)},
		{MethodName: "UploadAdImages", Handler: unary(MethodUploadAdImages, MarketplaceServer.UploadAdImages)},
		{MethodName: "Register", Handler: unary(MethodRegister, MarketplaceServer.Register)},
		{MethodName: "GetMyRole", Handler: unary(MethodGetMyRole, MarketplaceServer.GetMyRole)},
		{MethodName: "CreateDirectoryBuyer", Handler: unary(MethodCreateDirectoryBuyer, MarketplaceServer.CreateDirectoryBuyer)},
		{MethodName: "EnsureDirectoryListing", Handler: unary(MethodEnsureDirectoryListing, MarketplaceServer.EnsureDirectoryListing)},
	},
	Streams: []grpc.StreamDesc{
		{StreamName: "WatchAds", Handler: watchAdsHandler, ServerStreams: true},
		{StreamName: "WatchDirectory", Handler: watchDirectoryHandler, ServerStreams: true},
	},
	Metadata: "marketplace.json",
}

// MarketplaceClient calls MarketplaceService using the JSON codec.
type MarketplaceClient struct {
	cc grpc.ClientConnInterface
}

func NewMarketplaceClient(cc grpc.ClientConnInterface) *MarketplaceClient {
	return &MarketplaceClient{cc: cc}
}

func invoke[Res any](ctx context.Context, cc grpc.ClientConnInterface, method string, in interface{}, opts []grpc.CallOption) (*Res, error) {
	out := new(Res)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func watch[Req, Res any](ctx context.Context, cc grpc.ClientConnInterface, streamIdx int, method string, in *Req, opts []grpc.CallOption) (grpc.ServerStreamingClient[Res], error) {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	stream, err := cc.NewStream(ctx, &MarketplaceServiceDesc.Streams[streamIdx], method, opts...)
	if err != nil {
		return nil, err
	}
	x := &grpc.GenericClientStream[Req, Res]{ClientStream: stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

func (c *MarketplaceClient) ListAds(ctx context.Context, in *ListAdsRequest, opts ...grpc.CallOption) (*ListAdsResponse, error) {
	return invoke[ListAdsResponse](ctx, c.cc, MethodListAds, in, opts)
}

func (c *MarketplaceClient) ListDirectory(ctx context.Context, in *ListDirectoryRequest, opts ...grpc.CallOption) (*ListDirectoryResponse, error) {
	return invoke[ListDirectoryResponse](ctx, c.cc, MethodListDirectory, in, opts)
}

func (c *MarketplaceClient) FindDirectoryListing(ctx context.Context, in *FindDirectoryListingRequest, opts ...grpc.CallOption) (*FindDirectoryListingResponse, error) {
	return invoke[FindDirectoryListingResponse](ctx, c.cc, MethodFindDirectoryListing, in, opts)
}

func (c *MarketplaceClient) WatchAds(ctx context.Context, in *WatchAdsRequest, opts ...grpc.CallOption) (grpc.ServerStreamingClient[ListAdsResponse], error) {
	return watch[WatchAdsRequest, ListAdsResponse](ctx, c.cc, 0, MethodWatchAds, in, opts)
}

func (c *MarketplaceClient) WatchDirectory(ctx context.Context, in *WatchDirectoryRequest, opts ...grpc.CallOption) (grpc.ServerStreamingClient[ListDirectoryResponse], error) {
	return watch[WatchDirectoryRequest, ListDirectoryResponse](ctx, c.cc, 1, MethodWatchDirectory, in, opts)
}

func (c *MarketplaceClient) CreateAd(ctx context.Context, in *CreateAdRequest, opts ...grpc.CallOption) (*CreateAdResponse, error) {
	return invoke[CreateAdResponse](ctx, c.cc, MethodCreateAd, in, opts)
}

func (c *MarketplaceClient) UploadAdImages(ctx context.Context, in *UploadAdImagesRequest, opts ...grpc.CallOption) (*UploadAdImagesResponse, error) {
	return invoke[UploadAdImagesResponse](ctx, c.cc, MethodUploadAdImages, in, opts)
}

func (c *MarketplaceClient) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterResponse, error) {
	return invoke[RegisterResponse](ctx, c.cc, MethodRegister, in, opts)
}

func (c *MarketplaceClient) GetMyRole(ctx context.Context, in *GetMyRoleRequest, opts ...grpc.CallOption) (*GetMyRoleResponse, error) {
	return invoke[GetMyRoleResponse](ctx, c.cc, MethodGetMyRole, in, opts)
}

func (c *MarketplaceClient) CreateDirectoryBuyer(ctx context.Context, in *CreateDirectoryBuyerRequest, opts ...grpc.CallOption) (*CreateDirectoryBuyerResponse, error) {
	return invoke[CreateDirectoryBuyerResponse](ctx, c.cc, MethodCreateDirectoryBuyer, in, opts)
}

func (c *MarketplaceClient) EnsureDirectoryListing(ctx context.Context, in *EnsureDirectoryListingRequest, opts ...grpc.CallOption) (*EnsureDirectoryListingResponse, error) {
	return invoke[EnsureDirectoryListingResponse](ctx, c.cc, MethodEnsureDirectoryListing, in, opts)
}
