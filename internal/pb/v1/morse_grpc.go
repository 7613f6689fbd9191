package pb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Fully qualified method names.
const (
	MorseServiceName                = "morse.v1.MorseService"
	MorseServiceSendTextMethod      = "/morse.v1.MorseService/SendText"
	MorseServiceSetIntensityMethod  = "/morse.v1.MorseService/SetIntensity"
	MorseServiceStopMethod          = "/morse.v1.MorseService/Stop"
	MorseServiceGetStatusMethod     = "/morse.v1.MorseService/GetStatus"
	MorseServiceWatchStatusMethod   = "/morse.v1.MorseService/WatchStatus"
	morseServiceWatchStatusStreamID = 0
)

// MorseServiceServer is the server API for MorseService.
type MorseServiceServer interface {
	SendText(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.StringValue, error)
	SetIntensity(ctx context.Context, req *wrapperspb.UInt32Value) (*emptypb.Empty, error)
	Stop(ctx context.Context, req *emptypb.Empty) (*emptypb.Empty, error)
	GetStatus(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)
	WatchStatus(req *emptypb.Empty, stream grpc.ServerStreamingServer[structpb.Struct]) error
}

// MorseServiceClient is the client API for MorseService.
type MorseServiceClient interface {
	SendText(ctx context.Context, req *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.StringValue, error)
	SetIntensity(ctx context.Context, req *wrapperspb.UInt32Value, opts ...grpc.CallOption) (*emptypb.Empty, error)
	Stop(ctx context.Context, req *emptypb.Empty, opts ...grpc.CallOption) (*emptypb.Empty, error)
	GetStatus(ctx context.Context, req *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	WatchStatus(
		ctx context.Context,
		req *emptypb.Empty,
		opts ...grpc.CallOption,
	) (grpc.ServerStreamingClient[structpb.Struct], error)
}

// MorseServiceDesc describes MorseService for grpc.Server.RegisterService.
//
//nolint:gochecknoglobals // Service descriptors are package-level by convention.
var MorseServiceDesc = grpc.ServiceDesc{
	ServiceName: MorseServiceName,
	HandlerType: (*MorseServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "SendText", Handler: sendTextHandler},
		{MethodName: "SetIntensity", Handler: setIntensityHandler},
		{MethodName: "Stop", Handler: stopHandler},
		{MethodName: "GetStatus", Handler: getStatusHandler},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "WatchStatus",
			Handler:       watchStatusHandler,
			ServerStreams: true,
		},
	},
	Metadata: "morse/v1/morse.proto",
}

// RegisterMorseServiceServer registers srv with s.
func RegisterMorseServiceServer(s grpc.ServiceRegistrar, srv MorseServiceServer) {
	s.RegisterService(&MorseServiceDesc, srv)
}

// unary adapts a typed method into a grpc.MethodHandler body.
func unary[Req any, Res any](
	srv any,
	ctx context.Context, //nolint:revive // Order is fixed by grpc.MethodHandler.
	dec func(any) error,
	interceptor grpc.UnaryServerInterceptor,
	fullMethod string,
	call func(MorseServiceServer, context.Context, *Req) (*Res, error),
) (any, error) {
	in := new(Req)
	if err := dec(in); err != nil {
		return nil, err
	}

	server, _ := srv.(MorseServiceServer)

	if interceptor == nil {
		return call(server, ctx, in)
	}

	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: fullMethod,
	}

	handler := func(ctx context.Context, req any) (any, error) {
		typed, _ := req.(*Req)

		return call(server, ctx, typed)
	}

	return interceptor(ctx, in, info, handler)
}

func sendTextHandler(
	srv any,
	ctx context.Context, //nolint:revive // Order is fixed by grpc.MethodHandler.
	dec func(any) error,
	interceptor grpc.UnaryServerInterceptor,
) (any, error) {
	return unary(srv, ctx, dec, interceptor, MorseServiceSendTextMethod, MorseServiceServer.SendText)
}

func setIntensityHandler(
	srv any,
	ctx context.Context, //nolint:revive // Order is fixed by grpc.MethodHandler.
	dec func(any) error,
	interceptor grpc.UnaryServerInterceptor,
) (any, error) {
	return unary(srv, ctx, dec, interceptor, MorseServiceSetIntensityMethod, MorseServiceServer.SetIntensity)
}

func stopHandler(
	srv any,
	ctx context.Context, //nolint:revive // Order is fixed by grpc.MethodHandler.
	dec func(any) error,
	interceptor grpc.UnaryServerInterceptor,
) (any, error) {
	return unary(srv, ctx, dec, interceptor, MorseServiceStopMethod, MorseServiceServer.Stop)
}

func getStatusHandler(
	srv any,
	ctx context.Context, //nolint:revive // Order is fixed by grpc.MethodHandler.
	dec func(any) error,
	interceptor grpc.UnaryServerInterceptor,
) (any, error) {
	return unary(srv, ctx, dec, interceptor, MorseServiceGetStatusMethod, MorseServiceServer.GetStatus)
}

func watchStatusHandler(srv any, stream grpc.ServerStream) error {
	in := new(emptypb.Empty)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}

	server, _ := srv.(MorseServiceServer)

	return server.WatchStatus(in, &grpc.GenericServerStream[emptypb.Empty, structpb.Struct]{ServerStream: stream})
}

type morseServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewMorseServiceClient returns a client bound to cc.
func NewMorseServiceClient(cc grpc.ClientConnInterface) MorseServiceClient {
	return &morseServiceClient{cc: cc}
}

func (c *morseServiceClient) SendText(
	ctx context.Context,
	req *wrapperspb.StringValue,
	opts ...grpc.CallOption,
) (*wrapperspb.StringValue, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, MorseServiceSendTextMethod, req, out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}

func (c *morseServiceClient) SetIntensity(
	ctx context.Context,
	req *wrapperspb.UInt32Value,
	opts ...grpc.CallOption,
) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.cc.Invoke(ctx, MorseServiceSetIntensityMethod, req, out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}

func (c *morseServiceClient) Stop(
	ctx context.Context,
	req *emptypb.Empty,
	opts ...grpc.CallOption,
) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.cc.Invoke(ctx, MorseServiceStopMethod, req, out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}

func (c *morseServiceClient) GetStatus(
	ctx context.Context,
	req *emptypb.Empty,
	opts ...grpc.CallOption,
) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, MorseServiceGetStatusMethod, req, out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}

func (c *morseServiceClient) WatchStatus(
	ctx context.Context,
	req *emptypb.Empty,
	opts ...grpc.CallOption,
) (grpc.ServerStreamingClient[structpb.Struct], error) {
	stream, err := c.cc.NewStream(
		ctx,
		&MorseServiceDesc.Streams[morseServiceWatchStatusStreamID],
		MorseServiceWatchStatusMethod,
		opts...,
	)
	if err != nil {
		return nil, err
	}

	x := &grpc.GenericClientStream[emptypb.Empty, structpb.Struct]{ClientStream: stream}

	if err := x.SendMsg(req); err != nil {
		return nil, err
	}

	if err := x.CloseSend(); err != nil {
		return nil, err
	}

	return x, nil
}
