package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	ServiceName = "bearlink.v1.Links"

	GetLinkMethod           = "/" + ServiceName + "/GetLink"
	ListCategoryLinksMethod = "/" + ServiceName + "/ListCategoryLinks"
	StatsMethod             = "/" + ServiceName + "/Stats"
)

// LinksServiceServer is the server API of bearlink.v1.Links. Messages are
// protobuf well-known types so no generated code is needed.
type LinksServiceServer interface {
	GetLink(ctx context.Context, in *wrapperspb.StringValue) (*structpb.Struct, error)
	ListCategoryLinks(ctx context.Context, in *wrapperspb.StringValue) (*structpb.Struct, error)
	Stats(ctx context.Context, in *emptypb.Empty) (*structpb.Struct, error)
}

// RegisterLinksServiceServer registers srv on s.
func RegisterLinksServiceServer(s grpc.ServiceRegistrar, srv LinksServiceServer) {
	s.RegisterService(&linksServiceDesc, srv)
}

var linksServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*LinksServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetLink", Handler: getLinkHandler},
		{MethodName: "ListCategoryLinks", Handler: listCategoryLinksHandler},
		{MethodName: "Stats", Handler: statsHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "bearlink/v1/links.proto",
}

func getLinkHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LinksServiceServer).GetLink(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: GetLinkMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LinksServiceServer).GetLink(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func listCategoryLinksHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LinksServiceServer).ListCategoryLinks(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ListCategoryLinksMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LinksServiceServer).ListCategoryLinks(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func statsHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LinksServiceServer).Stats(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: StatsMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LinksServiceServer).Stats(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

// LinksClient calls bearlink.v1.Links.
type LinksClient struct {
	cc grpc.ClientConnInterface
}

func NewLinksClient(cc grpc.ClientConnInterface) *LinksClient {
	return &LinksClient{cc: cc}
}

func (c *LinksClient) GetLink(ctx context.Context, id string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, GetLinkMethod, wrapperspb.String(id), out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *LinksClient) ListCategoryLinks(ctx context.Context, categoryID string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, ListCategoryLinksMethod, wrapperspb.String(categoryID), out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *LinksClient) Stats(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, StatsMethod, &emptypb.Empty{}, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
