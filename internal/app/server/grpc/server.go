package grpc

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/atinyakov/bearlink/internal/app/service"
	"github.com/atinyakov/bearlink/internal/intercepters"
	"github.com/atinyakov/bearlink/internal/models"
	"github.com/atinyakov/bearlink/internal/storage"
)

// Server wraps the gRPC server and dependencies.
type Server struct {
	grpcServer *grpc.Server
	health     *health.Server
	addr       string
	logger     *zap.Logger
}

// New creates a gRPC server exposing the link read API and the standard
// health service. Stats is restricted to trustedSubnet.
func New(addr, trustedSubnet string, logger *zap.Logger, svc service.LinkServiceIface, auth service.AuthIface) *Server {
	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			logging.UnaryServerInterceptor(intercepters.InterceptorLogger(logger)),
			intercepters.SubnetIPInterceptor,
			intercepters.WithTrustedSubnet(trustedSubnet, StatsMethod),
			intercepters.WithJWT(auth),
		),
	)

	RegisterLinksServiceServer(s, &LinksServer{Service: svc})

	hs := health.NewServer()
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	healthpb.RegisterHealthServer(s, hs)

	return &Server{
		grpcServer: s,
		health:     hs,
		addr:       addr,
		logger:     logger,
	}
}

// SetServing flips the health status reported for the links service.
func (s *Server) SetServing(serving bool) {
	st := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		st = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus(ServiceName, st)
	s.health.SetServingStatus("", st)
}

// Start listens on the configured address and serves until stopped.
func (s *Server) Start() error {
	lis, err := net.Listen("tcp", s.addr)
	if err != nil {
		s.logger.Error("gRPC server failed to listen", zap.Error(err))
		return err
	}
	return s.Serve(lis)
}

func (s *Server) Serve(lis net.Listener) error {
	s.logger.Info("gRPC server listening", zap.String("addr", lis.Addr().String()))
	return s.grpcServer.Serve(lis)
}

// GracefulStop shuts down the server gracefully.
func (s *Server) GracefulStop() {
	s.health.Shutdown()
	s.grpcServer.GracefulStop()
}

// LinksServer implements LinksServiceServer over the link service.
type LinksServer struct {
	Service service.LinkServiceIface
}

func (s *LinksServer) GetLink(ctx context.Context, in *wrapperspb.StringValue) (*structpb.Struct, error) {
	id := strings.TrimSpace(in.GetValue())
	if id == "" {
		return nil, status.Error(codes.InvalidArgument, "link id is required")
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	link, err := s.Service.GetLink(ctx, id)
	if err != nil {
		return nil, toStatus(err)
	}

	return structpb.NewStruct(linkFields(*link))
}

func (s *LinksServer) ListCategoryLinks(ctx context.Context, in *wrapperspb.StringValue) (*structpb.Struct, error) {
	categoryID := strings.TrimSpace(in.GetValue())
	if categoryID == "" {
		return nil, status.Error(codes.InvalidArgument, "category id is required")
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	links, err := s.Service.ListCategoryLinks(ctx, categoryID)
	if err != nil {
		return nil, toStatus(err)
	}

	items := make([]interface{}, 0, len(links))
	for _, l := range links {
		items = append(items, linkFields(l))
	}

	return structpb.NewStruct(map[string]interface{}{"links": items})
}

func (s *LinksServer) Stats(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	stats, err := s.Service.Stats(ctx)
	if err != nil {
		return nil, toStatus(err)
	}

	return structpb.NewStruct(map[string]interface{}{
		"pending":  stats.Pending,
		"complete": stats.Complete,
		"failed":   stats.Failed,
	})
}

// linkFields renders a link with the same keys as its JSON form.
func linkFields(l models.Link) map[string]interface{} {
	fields := map[string]interface{}{
		"id":             l.ID,
		"user_id":        l.UserID,
		"url":            l.URL,
		"title":          nil,
		"thumbnail_url":  nil,
		"preview_status": string(l.Status),
		"created_at":     l.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
	if l.CategoryID != "" {
		fields["category_id"] = l.CategoryID
	}
	if l.RoomID != "" {
		fields["room_id"] = l.RoomID
	}
	if l.Title != nil {
		fields["title"] = *l.Title
	}
	if l.ThumbnailURL != nil {
		fields["thumbnail_url"] = *l.ThumbnailURL
	}
	return fields
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound), errors.Is(err, storage.ErrContainerNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
