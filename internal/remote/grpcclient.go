package remote

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/fitkeeper/internal/common"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// GRPCClient is the Client implementation over the sync gRPC service.
type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      SyncServiceClient
	accessToken string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (c *GRPCClient) unaryTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	return invoker(withAccessToken(ctx, c.accessToken), method, req, reply, cc, opts...)
}

func (c *GRPCClient) streamTokenInterceptor(
	ctx context.Context,
	desc *grpc.StreamDesc,
	cc *grpc.ClientConn,
	method string,
	streamer grpc.Streamer,
	opts ...grpc.CallOption,
) (grpc.ClientStream, error) {
	return streamer(withAccessToken(ctx, c.accessToken), desc, cc, method, opts...)
}

// NewGRPCClient dials endpointURL and authenticates every call with
// accessToken. Extra dial options (e.g. a bufconn dialer in tests) are
// appended to the defaults.
func NewGRPCClient(endpointURL, accessToken string, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, accessToken: accessToken}

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.unaryTokenInterceptor),
		grpc.WithStreamInterceptor(c.streamTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", endpointURL, err)
	}
	c.conn = conn
	c.client = NewSyncServiceClient(conn)
	return c, nil
}

func (c *GRPCClient) Mutate(ctx context.Context, ref MutationRef, args Args) error {
	req, err := EncodeMutation(ref, args)
	if err != nil {
		return fmt.Errorf("encode %s: %w", ref, err)
	}

	if _, err := c.client.Mutate(ctx, req); err != nil {
		return mapError(err)
	}
	return nil
}

func (c *GRPCClient) Query(ctx context.Context, ref QueryRef) ([]Doc, error) {
	resp, err := c.client.Query(ctx, EncodeQuery(ref))
	if err != nil {
		return nil, mapError(err)
	}
	return DecodeDocs(resp), nil
}

func (c *GRPCClient) Watch(ctx context.Context, ref QueryRef, fn func([]Doc)) error {
	stream, err := c.client.Watch(ctx, EncodeQuery(ref))
	if err != nil {
		return mapError(err)
	}

	for {
		frame, err := stream.Recv()
		if err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				return ctx.Err()
			}
			return mapError(err)
		}
		fn(DecodeDocs(frame))
	}
}

func (c *GRPCClient) Close() error {
	return c.conn.Close()
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return ErrUnauthorized
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
