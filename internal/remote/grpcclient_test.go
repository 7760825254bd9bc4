package remote

import (
	"context"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/fitkeeper/internal/common"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

type fakeServer struct {
	mu        sync.Mutex
	lastRef   MutationRef
	lastArgs  Args
	lastToken string
	mutateErr error
	docs      []Doc
	frames    [][]Doc
}

func tokenFrom(ctx context.Context) string {
	md, _ := metadata.FromIncomingContext(ctx)
	if v := md.Get(common.AccessTokenHeaderName); len(v) > 0 {
		return v[0]
	}
	return ""
}

func (f *fakeServer) Mutate(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastRef, f.lastArgs = DecodeMutation(in)
	f.lastToken = tokenFrom(ctx)
	if f.mutateErr != nil {
		return nil, f.mutateErr
	}
	return &structpb.Struct{}, nil
}

func (f *fakeServer) Query(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	f.mu.Lock()
	f.lastToken = tokenFrom(ctx)
	f.mu.Unlock()
	return EncodeDocs(f.docs)
}

func (f *fakeServer) Watch(in *structpb.Struct, stream WatchServer) error {
	f.mu.Lock()
	f.lastToken = tokenFrom(stream.Context())
	f.mu.Unlock()
	for _, frame := range f.frames {
		msg, err := EncodeDocs(frame)
		if err != nil {
			return err
		}
		if err := stream.Send(msg); err != nil {
			return err
		}
	}
	return nil
}

func startFake(t *testing.T, f *fakeServer) *GRPCClient {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	RegisterSyncServiceServer(srv, f)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	c, err := NewGRPCClient("passthrough:///bufnet", "tok-1",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestGRPCClient_MutateSendsRefArgsAndToken(t *testing.T) {
	f := &fakeServer{}
	c := startFake(t, f)

	err := c.Mutate(context.Background(), RecipesUpdate, Args{FieldClientID: "R1", "title": "New"})
	require.NoError(t, err)

	require.Equal(t, RecipesUpdate, f.lastRef)
	require.Equal(t, "R1", Doc(f.lastArgs).ClientID())
	require.Equal(t, "New", Doc(f.lastArgs).String("title"))
	require.Equal(t, "tok-1", f.lastToken)
}

func TestGRPCClient_MapsStatusCodes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"unauthenticated", status.Error(codes.Unauthenticated, "x"), ErrUnauthorized},
		{"permission", status.Error(codes.PermissionDenied, "x"), ErrUnauthorized},
		{"unavailable", status.Error(codes.Unavailable, "x"), ErrUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := startFake(t, &fakeServer{mutateErr: tt.err})
			err := c.Mutate(context.Background(), RecipesRemove, Args{FieldClientID: "R1"})
			require.ErrorIs(t, err, tt.want)
		})
	}

	c := startFake(t, &fakeServer{mutateErr: status.Error(codes.InvalidArgument, "bad")})
	err := c.Mutate(context.Background(), RecipesRemove, Args{})
	require.Error(t, err)
	require.False(t, errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrUnavailable))
}

func TestGRPCClient_Query(t *testing.T) {
	f := &fakeServer{docs: []Doc{{"clientId": "E1", "name": "Squat"}}}
	c := startFake(t, f)

	docs, err := c.Query(context.Background(), ExercisesList)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	require.Equal(t, "Squat", docs[0].String("name"))
	require.Equal(t, "tok-1", f.lastToken)
}

func TestGRPCClient_WatchDeliversFramesInOrder(t *testing.T) {
	f := &fakeServer{frames: [][]Doc{
		{{"clientId": "A"}},
		{{"clientId": "A"}, {"clientId": "B"}},
	}}
	c := startFake(t, f)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var sizes []int
	err := c.Watch(ctx, MealLogsList, func(docs []Doc) { sizes = append(sizes, len(docs)) })
	require.NoError(t, err)
	require.Equal(t, []int{1, 2}, sizes)
	require.Equal(t, "tok-1", f.lastToken)
}
