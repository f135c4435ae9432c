package matcha

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "matcha.MatchaService"

const (
	MatchaService_Search_FullMethodName         = "/matcha.MatchaService/Search"
	MatchaService_Suggest_FullMethodName        = "/matcha.MatchaService/Suggest"
	MatchaService_SetLike_FullMethodName        = "/matcha.MatchaService/SetLike"
	MatchaService_SetBlock_FullMethodName       = "/matcha.MatchaService/SetBlock"
	MatchaService_SetFake_FullMethodName        = "/matcha.MatchaService/SetFake"
	MatchaService_ViewProfile_FullMethodName    = "/matcha.MatchaService/ViewProfile"
	MatchaService_ListLikedYou_FullMethodName   = "/matcha.MatchaService/ListLikedYou"
	MatchaService_GetFameRating_FullMethodName  = "/matcha.MatchaService/GetFameRating"
	MatchaService_UpdateLocation_FullMethodName = "/matcha.MatchaService/UpdateLocation"
	MatchaService_SetInterests_FullMethodName   = "/matcha.MatchaService/SetInterests"
	MatchaService_NotifyMessage_FullMethodName  = "/matcha.MatchaService/NotifyMessage"
	MatchaService_PollEvents_FullMethodName     = "/matcha.MatchaService/PollEvents"
)

// MatchaServiceServer is the server API for matcha.MatchaService.
// Implementations must embed UnimplementedMatchaServiceServer.
type MatchaServiceServer interface {
	Search(context.Context, *SearchRequest) (*ProfilesResponse, error)
	Suggest(context.Context, *SuggestRequest) (*ProfilesResponse, error)
	SetLike(context.Context, *ToggleRequest) (*SetLikeResponse, error)
	SetBlock(context.Context, *ToggleRequest) (*ToggleResponse, error)
	SetFake(context.Context, *ToggleRequest) (*ToggleResponse, error)
	ViewProfile(context.Context, *ViewProfileRequest) (*ViewProfileResponse, error)
	ListLikedYou(context.Context, *ListLikedYouRequest) (*ListLikedYouResponse, error)
	GetFameRating(context.Context, *GetFameRatingRequest) (*FameRatingResponse, error)
	UpdateLocation(context.Context, *UpdateLocationRequest) (*Empty, error)
	SetInterests(context.Context, *SetInterestsRequest) (*Empty, error)
	NotifyMessage(context.Context, *NotifyMessageRequest) (*NotifyMessageResponse, error)
	PollEvents(context.Context, *PollEventsRequest) (*PollEventsResponse, error)
	mustEmbedUnimplementedMatchaServiceServer()
}

// UnimplementedMatchaServiceServer answers every method with codes.Unimplemented.
type UnimplementedMatchaServiceServer struct{}

func (UnimplementedMatchaServiceServer) Search(context.Context, *SearchRequest) (*ProfilesResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Search not implemented")
}
func (UnimplementedMatchaServiceServer) Suggest(context.Context, *SuggestRequest) (*ProfilesResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Suggest not implemented")
}
func (UnimplementedMatchaServiceServer) SetLike(context.Context, *ToggleRequest) (*SetLikeResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method SetLike not implemented")
}
func (UnimplementedMatchaServiceServer) SetBlock(context.Context, *ToggleRequest) (*ToggleResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method SetBlock not implemented")
}
func (UnimplementedMatchaServiceServer) SetFake(context.Context, *ToggleRequest) (*ToggleResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method SetFake not implemented")
}
func (UnimplementedMatchaServiceServer) ViewProfile(context.Context, *ViewProfileRequest) (*ViewProfileResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ViewProfile not implemented")
}
func (UnimplementedMatchaServiceServer) ListLikedYou(context.Context, *ListLikedYouRequest) (*ListLikedYouResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListLikedYou not implemented")
}
func (UnimplementedMatchaServiceServer) GetFameRating(context.Context, *GetFameRatingRequest) (*FameRatingResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetFameRating not implemented")
}
func (UnimplementedMatchaServiceServer) UpdateLocation(context.Context, *UpdateLocationRequest) (*Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method UpdateLocation not implemented")
}
func (UnimplementedMatchaServiceServer) SetInterests(context.Context, *SetInterestsRequest) (*Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method SetInterests not implemented")
}
func (UnimplementedMatchaServiceServer) NotifyMessage(context.Context, *NotifyMessageRequest) (*NotifyMessageResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method NotifyMessage not implemented")
}
func (UnimplementedMatchaServiceServer) PollEvents(context.Context, *PollEventsRequest) (*PollEventsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method PollEvents not implemented")
}
func (UnimplementedMatchaServiceServer) mustEmbedUnimplementedMatchaServiceServer() {}

func RegisterMatchaServiceServer(s grpc.ServiceRegistrar, srv MatchaServiceServer) {
	s.RegisterService(&MatchaService_ServiceDesc, srv)
}

// unary adapts a typed server method to a grpc.MethodDesc.
func unary[Req, Resp any](name, fullMethod string, call func(MatchaServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(MatchaServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(MatchaServiceServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// MatchaService_ServiceDesc is the grpc.ServiceDesc for matcha.MatchaService.
var MatchaService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*MatchaServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Search", MatchaService_Search_FullMethodName, MatchaServiceServer.Search),
		unary("Suggest", MatchaService_Suggest_FullMethodName, MatchaServiceServer.Suggest),
		unary("SetLike", MatchaService_SetLike_FullMethodName, MatchaServiceServer.SetLike),
		unary("SetBlock", MatchaService_SetBlock_FullMethodName, MatchaServiceServer.SetBlock),
		unary("SetFake", MatchaService_SetFake_FullMethodName, MatchaServiceServer.SetFake),
		unary("ViewProfile", MatchaService_ViewProfile_FullMethodName, MatchaServiceServer.ViewProfile),
		unary("ListLikedYou", MatchaService_ListLikedYou_FullMethodName, MatchaServiceServer.ListLikedYou),
		unary("GetFameRating", MatchaService_GetFameRating_FullMethodName, MatchaServiceServer.GetFameRating),
		unary("UpdateLocation", MatchaService_UpdateLocation_FullMethodName, MatchaServiceServer.UpdateLocation),
		unary("SetInterests", MatchaService_SetInterests_FullMethodName, MatchaServiceServer.SetInterests),
		unary("NotifyMessage", MatchaService_NotifyMessage_FullMethodName, MatchaServiceServer.NotifyMessage),
		unary("PollEvents", MatchaService_PollEvents_FullMethodName, MatchaServiceServer.PollEvents),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "matcha",
}

// MatchaServiceClient is the client API for matcha.MatchaService. Every call
// is sent with the JSON content subtype.
type MatchaServiceClient interface {
	Search(ctx context.Context, in *SearchRequest, opts ...grpc.CallOption) (*ProfilesResponse, error)
	Suggest(ctx context.Context, in *SuggestRequest, opts ...grpc.CallOption) (*ProfilesResponse, error)
	SetLike(ctx context.Context, in *ToggleRequest, opts ...grpc.CallOption) (*SetLikeResponse, error)
	SetBlock(ctx context.Context, in *ToggleRequest, opts ...grpc.CallOption) (*ToggleResponse, error)
	SetFake(ctx context.Context, in *ToggleRequest, opts ...grpc.CallOption) (*ToggleResponse, error)
	ViewProfile(ctx context.Context, in *ViewProfileRequest, opts ...grpc.CallOption) (*ViewProfileResponse, error)
	ListLikedYou(ctx context.Context, in *ListLikedYouRequest, opts ...grpc.CallOption) (*ListLikedYouResponse, error)
	GetFameRating(ctx context.Context, in *GetFameRatingRequest, opts ...grpc.CallOption) (*FameRatingResponse, error)
	UpdateLocation(ctx context.Context, in *UpdateLocationRequest, opts ...grpc.CallOption) (*Empty, error)
	SetInterests(ctx context.Context, in *SetInterestsRequest, opts ...grpc.CallOption) (*Empty, error)
	NotifyMessage(ctx context.Context, in *NotifyMessageRequest, opts ...grpc.CallOption) (*NotifyMessageResponse, error)
	PollEvents(ctx context.Context, in *PollEventsRequest, opts ...grpc.CallOption) (*PollEventsResponse, error)
}

type matchaServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewMatchaServiceClient(cc grpc.ClientConnInterface) MatchaServiceClient {
	return &matchaServiceClient{cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *matchaServiceClient) Search(ctx context.Context, in *SearchRequest, opts ...grpc.CallOption) (*ProfilesResponse, error) {
	return invoke[ProfilesResponse](ctx, c.cc, MatchaService_Search_FullMethodName, in, opts)
}

func (c *matchaServiceClient) Suggest(ctx context.Context, in *SuggestRequest, opts ...grpc.CallOption) (*ProfilesResponse, error) {
	return invoke[ProfilesResponse](ctx, c.cc, MatchaService_Suggest_FullMethodName, in, opts)
}

func (c *matchaServiceClient) SetLike(ctx context.Context, in *ToggleRequest, opts ...grpc.CallOption) (*SetLikeResponse, error) {
	return invoke[SetLikeResponse](ctx, c.cc, MatchaService_SetLike_FullMethodName, in, opts)
}

func (c *matchaServiceClient) SetBlock(ctx context.Context, in *ToggleRequest, opts ...grpc.CallOption) (*ToggleResponse, error) {
	return invoke[ToggleResponse](ctx, c.cc, MatchaService_SetBlock_FullMethodName, in, opts)
}

func (c *matchaServiceClient) SetFake(ctx context.Context, in *ToggleRequest, opts ...grpc.CallOption) (*ToggleResponse, error) {
	return invoke[ToggleResponse](ctx, c.cc, MatchaService_SetFake_FullMethodName, in, opts)
}

func (c *matchaServiceClient) ViewProfile(ctx context.Context, in *ViewProfileRequest, opts ...grpc.CallOption) (*ViewProfileResponse, error) {
	return invoke[ViewProfileResponse](ctx, c.cc, MatchaService_ViewProfile_FullMethodName, in, opts)
}

func (c *matchaServiceClient) ListLikedYou(ctx context.Context, in *ListLikedYouRequest, opts ...grpc.CallOption) (*ListLikedYouResponse, error) {
	return invoke[ListLikedYouResponse](ctx, c.cc, MatchaService_ListLikedYou_FullMethodName, in, opts)
}

func (c *matchaServiceClient) GetFameRating(ctx context.Context, in *GetFameRatingRequest, opts ...grpc.CallOption) (*FameRatingResponse, error) {
	return invoke[FameRatingResponse](ctx, c.cc, MatchaService_GetFameRating_FullMethodName, in, opts)
}

func (c *matchaServiceClient) UpdateLocation(ctx context.Context, in *UpdateLocationRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, MatchaService_UpdateLocation_FullMethodName, in, opts)
}

func (c *matchaServiceClient) SetInterests(ctx context.Context, in *SetInterestsRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, MatchaService_SetInterests_FullMethodName, in, opts)
}

func (c *matchaServiceClient) NotifyMessage(ctx context.Context, in *NotifyMessageRequest, opts ...grpc.CallOption) (*NotifyMessageResponse, error) {
	return invoke[NotifyMessageResponse](ctx, c.cc, MatchaService_NotifyMessage_FullMethodName, in, opts)
}

func (c *matchaServiceClient) PollEvents(ctx context.Context, in *PollEventsRequest, opts ...grpc.CallOption) (*PollEventsResponse, error) {
	return invoke[PollEventsResponse](ctx, c.cc, MatchaService_PollEvents_FullMethodName, in, opts)
}
