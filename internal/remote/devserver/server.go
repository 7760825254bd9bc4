package devserver

import (
	"context"
	"errors"
	"net"
	"sync"

	"github.com/dmitrijs2005/fitkeeper/internal/common"
	"github.com/dmitrijs2005/fitkeeper/internal/logging"
	"github.com/dmitrijs2005/fitkeeper/internal/remote"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// Server serves Tables over the sync gRPC service.
type Server struct {
	address   string
	tables    *Tables
	logger    logging.Logger
	jwtSecret []byte

	stopOnce sync.Once
	stopping chan struct{}
}

var _ remote.SyncServiceServer = (*Server)(nil)

func NewServer(address, secretKey string, l logging.Logger) *Server {
	if l == nil {
		l = logging.Nop()
	}
	return &Server{
		address:   address,
		tables:    NewTables(),
		logger:    l.With("module", "dev_remote"),
		jwtSecret: []byte(secretKey),
		stopping:  make(chan struct{}),
	}
}

// Run listens on the configured address and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is done, then stops
// gracefully. Open watch streams are ended first.
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(s.accessTokenInterceptor),
		grpc.ChainStreamInterceptor(s.streamAccessTokenInterceptor),
	)
	remote.RegisterSyncServiceServer(srv, s)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping dev remote...")
		s.stopOnce.Do(func() { close(s.stopping) })
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting dev remote", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	return nil
}

func (s *Server) Mutate(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	user := userFrom(ctx)
	ref, args := remote.DecodeMutation(in)

	if err := s.tables.Apply(user, ref, args); err != nil {
		s.logger.Warn(ctx, "mutation rejected", "mutation", string(ref), "user", user, "error", err)
		return nil, toStatus(err)
	}
	s.logger.Debug(ctx, "mutation applied", "mutation", string(ref), "user", user)
	return &structpb.Struct{}, nil
}

func (s *Server) Query(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	docs, err := s.tables.Snapshot(userFrom(ctx), remote.DecodeQuery(in))
	if err != nil {
		return nil, toStatus(err)
	}
	out, err := remote.EncodeDocs(docs)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

// Watch sends the current snapshot, then a fresh one after every change to
// the table, until the client goes away or the server stops.
func (s *Server) Watch(in *structpb.Struct, stream remote.WatchServer) error {
	ctx := stream.Context()
	user := userFrom(ctx)
	ref := remote.DecodeQuery(in)

	changes, unsubscribe := s.tables.Subscribe(user, ref.Table())
	defer unsubscribe()

	for {
		docs, err := s.tables.Snapshot(user, ref)
		if err != nil {
			return toStatus(err)
		}
		frame, err := remote.EncodeDocs(docs)
		if err != nil {
			return status.Error(codes.Internal, err.Error())
		}
		if err := stream.Send(frame); err != nil {
			return err
		}

		select {
		case <-changes:
		case <-ctx.Done():
			return nil
		case <-s.stopping:
			return nil
		}
	}
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, ErrMissingID), errors.Is(err, ErrUnknownOp):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
