package remote

import (
	"context"
	"reflect"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "fitkeeper.sync.v1.SyncService"

const (
	MutateMethod = "/" + ServiceName + "/Mutate"
	QueryMethod  = "/" + ServiceName + "/Query"
	WatchMethod  = "/" + ServiceName + "/Watch"
)

// SyncServiceServer is implemented by the remote backend.
type SyncServiceServer interface {
	Mutate(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	Query(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	Watch(in *structpb.Struct, stream WatchServer) error
}

// WatchServer is the server side of a Watch stream.
type WatchServer interface {
	Send(*structpb.Struct) error
	grpc.ServerStream
}

type watchServer struct {
	grpc.ServerStream
}

func (x *watchServer) Send(m *structpb.Struct) error {
	return x.ServerStream.SendMsg(m)
}

// WatchClient is the client side of a Watch stream.
type WatchClient interface {
	Recv() (*structpb.Struct, error)
	grpc.ClientStream
}

type watchClient struct {
	grpc.ClientStream
}

func (x *watchClient) Recv() (*structpb.Struct, error) {
	m := new(structpb.Struct)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

// SyncServiceClient is the raw RPC surface; GRPCClient wraps it.
type SyncServiceClient interface {
	Mutate(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Query(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Watch(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (WatchClient, error)
}

type syncServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewSyncServiceClient binds the raw RPC surface to a connection.
func NewSyncServiceClient(cc grpc.ClientConnInterface) SyncServiceClient {
	return &syncServiceClient{cc: cc}
}

func (c *syncServiceClient) Mutate(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, MutateMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *syncServiceClient) Query(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, QueryMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *syncServiceClient) Watch(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (WatchClient, error) {
	stream, err := c.cc.NewStream(ctx, &ServiceDesc.Streams[0], WatchMethod, opts...)
	if err != nil {
		return nil, err
	}
	x := &watchClient{ClientStream: stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

func mutateHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SyncServiceServer).Mutate(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MutateMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SyncServiceServer).Mutate(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func queryHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SyncServiceServer).Query(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: QueryMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SyncServiceServer).Query(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func watchHandler(srv any, stream grpc.ServerStream) error {
	in := new(structpb.Struct)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(SyncServiceServer).Watch(in, &watchServer{ServerStream: stream})
}

// ServiceDesc describes the sync service for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SyncServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Mutate", Handler: mutateHandler},
		{MethodName: "Query", Handler: queryHandler},
	},
	Streams: []grpc.StreamDesc{
		{StreamName: "Watch", Handler: watchHandler, ServerStreams: true},
	},
	Metadata: "fitkeeper/sync/v1/sync.proto",
}

// RegisterSyncServiceServer registers srv on s.
func RegisterSyncServiceServer(s grpc.ServiceRegistrar, srv SyncServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// Message fields of the envelope structs.
const (
	fieldRef  = "ref"
	fieldArgs = "args"
	fieldDocs = "docs"
)

// EncodeMutation builds the Mutate request.
func EncodeMutation(ref MutationRef, args Args) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		fieldRef:  string(ref),
		fieldArgs: normalize(map[string]any(args)),
	})
}

// DecodeMutation unpacks a Mutate request.
func DecodeMutation(in *structpb.Struct) (MutationRef, Args) {
	m := in.AsMap()
	ref, _ := m[fieldRef].(string)
	args, _ := m[fieldArgs].(map[string]any)
	if args == nil {
		args = map[string]any{}
	}
	return MutationRef(ref), Args(args)
}

// EncodeQuery builds a Query or Watch request.
func EncodeQuery(ref QueryRef) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		fieldRef: structpb.NewStringValue(string(ref)),
	}}
}

// DecodeQuery unpacks a Query or Watch request.
func DecodeQuery(in *structpb.Struct) QueryRef {
	return QueryRef(in.GetFields()[fieldRef].GetStringValue())
}

// EncodeDocs builds a Query response or Watch frame.
func EncodeDocs(docs []Doc) (*structpb.Struct, error) {
	list := make([]any, len(docs))
	for i, d := range docs {
		list[i] = normalize(map[string]any(d))
	}
	return structpb.NewStruct(map[string]any{fieldDocs: list})
}

// DecodeDocs unpacks a Query response or Watch frame.
func DecodeDocs(in *structpb.Struct) []Doc {
	raw, _ := in.AsMap()[fieldDocs].([]any)
	docs := make([]Doc, 0, len(raw))
	for _, item := range raw {
		if m, ok := item.(map[string]any); ok {
			docs = append(docs, Doc(m))
		}
	}
	return docs
}

// normalize rewrites values into the shapes structpb.NewValue accepts.
func normalize(v any) any {
	switch x := v.(type) {
	case Args:
		return normalize(map[string]any(x))
	case Doc:
		return normalize(map[string]any(x))
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[k] = normalize(val)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, val := range x {
			out[i] = normalize(val)
		}
		return out
	case []map[string]any:
		out := make([]any, len(x))
		for i, val := range x {
			out[i] = normalize(val)
		}
		return out
	case []string:
		return List(x)
	case time.Time:
		return Timestamp(x)
	default:
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.String:
			return rv.String()
		case reflect.Bool:
			return rv.Bool()
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return rv.Int()
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return rv.Uint()
		case reflect.Float32, reflect.Float64:
			return rv.Float()
		}
		return v
	}
}
