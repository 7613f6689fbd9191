package morse

import (
	"context"
	"errors"
	"math"
	"unicode/utf8"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	domain "github.com/oshokin/morse-beacon/internal/domain/device"
	"github.com/oshokin/morse-beacon/internal/domain/morse"
	"github.com/oshokin/morse-beacon/internal/logger"
	pb "github.com/oshokin/morse-beacon/internal/pb/v1"
	"github.com/oshokin/morse-beacon/internal/playback"
)

// MaxTextBytes bounds a SendText payload.
const MaxTextBytes = 400

// Service abstracts the device operations the transport layer depends on.
type Service interface {
	SendText(ctx context.Context, text string, actor *domain.Actor) (string, error)
	SetIntensity(ctx context.Context, intensity uint8, actor *domain.Actor) error
	Stop(ctx context.Context) error
	Snapshot(ctx context.Context) (*domain.Snapshot, error)
	Watch() (<-chan *domain.Snapshot, func())
}

// Server implements the MorseService gRPC API.
type Server struct {
	// service provides the device operations.
	service Service
}

var _ pb.MorseServiceServer = (*Server)(nil)

// NewServer wires the provided service implementation into a gRPC handler.
func NewServer(service Service) *Server {
	return &Server{
		service: service,
	}
}

// SendText encodes and plays the text, returning its rendering.
func (s *Server) SendText(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	text := req.GetValue()

	if len(text) > MaxTextBytes {
		return nil, status.Errorf(codes.InvalidArgument, "text exceeds %d bytes", MaxTextBytes)
	}

	if !utf8.ValidString(text) {
		return nil, status.Error(codes.InvalidArgument, "text must be valid UTF-8")
	}

	code, err := s.service.SendText(ctx, text, pb.ActorFromIncoming(ctx))
	if err != nil {
		return nil, toStatus(ctx, err)
	}

	return wrapperspb.String(code), nil
}

// SetIntensity changes the actuator level.
func (s *Server) SetIntensity(ctx context.Context, req *wrapperspb.UInt32Value) (*emptypb.Empty, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	if req.GetValue() > math.MaxUint8 {
		return nil, status.Errorf(codes.InvalidArgument, "intensity must be in range 0..%d", math.MaxUint8)
	}

	if err := s.service.SetIntensity(ctx, uint8(req.GetValue()), pb.ActorFromIncoming(ctx)); err != nil {
		return nil, toStatus(ctx, err)
	}

	return new(emptypb.Empty), nil
}

// Stop aborts playback.
func (s *Server) Stop(ctx context.Context, _ *emptypb.Empty) (*emptypb.Empty, error) {
	if err := s.service.Stop(ctx); err != nil {
		return nil, toStatus(ctx, err)
	}

	return new(emptypb.Empty), nil
}

// GetStatus returns the current device snapshot.
func (s *Server) GetStatus(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	snapshot, err := s.service.Snapshot(ctx)
	if err != nil {
		return nil, toStatus(ctx, err)
	}

	message, err := pb.SnapshotToStruct(snapshot)
	if err != nil {
		return nil, status.Error(codes.Internal, "unable to encode status")
	}

	return message, nil
}

// WatchStatus streams every status transition until the client goes away.
func (s *Server) WatchStatus(_ *emptypb.Empty, stream grpc.ServerStreamingServer[structpb.Struct]) error {
	ctx := stream.Context()

	updates, cancel := s.service.Watch()
	defer cancel()

	logger.Debug(ctx, "Status watcher attached")

	for {
		select {
		case <-ctx.Done():
			logger.Debug(ctx, "Status watcher detached")

			return nil
		case snapshot, ok := <-updates:
			if !ok {
				return status.Error(codes.Unavailable, "status feed closed")
			}

			message, err := pb.SnapshotToStruct(snapshot)
			if err != nil {
				return status.Error(codes.Internal, "unable to encode status")
			}

			if err = stream.Send(message); err != nil {
				return err
			}
		}
	}
}

// toStatus maps domain errors onto gRPC codes.
func toStatus(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, morse.ErrNoEncodableContent), errors.Is(err, playback.ErrEmptySequence):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, playback.ErrAlreadyPlaying), errors.Is(err, domain.ErrPublish):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, domain.ErrBusy):
		return status.Error(codes.ResourceExhausted, err.Error())
	case errors.Is(err, domain.ErrStopped):
		return status.Error(codes.Unavailable, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return status.FromContextError(err).Err()
	default:
		logger.ErrorKV(ctx, "Request failed", "error", err)

		return status.Error(codes.Internal, "internal error")
	}
}
