package morse

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	domain "github.com/oshokin/morse-beacon/internal/domain/device"
	"github.com/oshokin/morse-beacon/internal/domain/morse"
	pb "github.com/oshokin/morse-beacon/internal/pb/v1"
	"github.com/oshokin/morse-beacon/internal/playback"
)

var errTestBoom = errors.New("boom")

// fakeService implements the Service interface for unit testing the transport.
type fakeService struct {
	// sendErr is returned from SendText when set.
	sendErr error
	// lastText is the text passed to SendText.
	lastText string
	// lastActor is the actor passed to SendText or SetIntensity.
	lastActor *domain.Actor
	// intensity is the last value passed to SetIntensity.
	intensity uint8
	// stopped counts Stop calls.
	stopped int
	// snapshot is returned from Snapshot.
	snapshot *domain.Snapshot
	// updates feeds Watch.
	updates chan *domain.Snapshot
}

func (f *fakeService) SendText(_ context.Context, text string, actor *domain.Actor) (string, error) {
	f.lastText = text
	f.lastActor = actor

	if f.sendErr != nil {
		return "", f.sendErr
	}

	seq, err := morse.Encode(text)
	if err != nil {
		return "", err
	}

	return seq.String(), nil
}

func (f *fakeService) SetIntensity(_ context.Context, intensity uint8, actor *domain.Actor) error {
	f.intensity = intensity
	f.lastActor = actor

	return nil
}

func (f *fakeService) Stop(context.Context) error {
	f.stopped++

	return nil
}

func (f *fakeService) Snapshot(context.Context) (*domain.Snapshot, error) {
	return f.snapshot, nil
}

func (f *fakeService) Watch() (<-chan *domain.Snapshot, func()) {
	return f.updates, func() {}
}

// fakeStream is a minimal server stream collecting sent messages.
type fakeStream struct {
	grpc.ServerStream

	ctx  context.Context //nolint:containedctx // Mirrors grpc.ServerStream.Context.
	sent chan *structpb.Struct
}

func (f *fakeStream) Context() context.Context { return f.ctx }

func (f *fakeStream) Send(m *structpb.Struct) error {
	f.sent <- m

	return nil
}

// TestServer_SendText_Validation ensures invalid requests return InvalidArgument errors.
func TestServer_SendText_Validation(t *testing.T) {
	t.Parallel()

	s := NewServer(new(fakeService))

	_, err := s.SendText(context.Background(), nil)
	require.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = s.SendText(context.Background(), wrapperspb.String(strings.Repeat("e", MaxTextBytes+1)))
	require.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = s.SendText(context.Background(), wrapperspb.String("\xff"))
	require.Equal(t, codes.InvalidArgument, status.Code(err))

	// Nothing encodable.
	_, err = s.SendText(context.Background(), wrapperspb.String("~~~"))
	require.Equal(t, codes.InvalidArgument, status.Code(err))
}

// TestServer_SendText_PassesActor verifies the rendering is returned and the metadata actor forwarded.
func TestServer_SendText_PassesActor(t *testing.T) {
	t.Parallel()

	svc := new(fakeService)
	s := NewServer(svc)

	md := metadata.Pairs(pb.ActorHostnameKey, "bench-01", pb.ActorUsernameKey, "o.shokin")
	ctx := metadata.NewIncomingContext(context.Background(), md)

	response, err := s.SendText(ctx, wrapperspb.String("SOS"))
	require.NoError(t, err)
	require.Equal(t, "... --- ...", response.GetValue())
	require.Equal(t, "SOS", svc.lastText)
	require.Equal(t, &domain.Actor{Hostname: "bench-01", Username: "o.shokin"}, svc.lastActor)
}

// TestToStatus verifies the mapping of domain errors onto gRPC codes.
func TestToStatus(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err  error
		want codes.Code
	}{
		{morse.ErrNoEncodableContent, codes.InvalidArgument},
		{playback.ErrEmptySequence, codes.InvalidArgument},
		{fmt.Errorf("start: %w", playback.ErrAlreadyPlaying), codes.FailedPrecondition},
		{domain.ErrBusy, codes.ResourceExhausted},
		{domain.ErrStopped, codes.Unavailable},
		{fmt.Errorf("await: %w", context.DeadlineExceeded), codes.DeadlineExceeded},
		{context.Canceled, codes.Canceled},
		{fmt.Errorf("%w: %w", domain.ErrPublish, errTestBoom), codes.FailedPrecondition},
		{errTestBoom, codes.Internal},
	}

	for _, tc := range cases {
		require.Equal(t, tc.want, status.Code(toStatus(context.Background(), tc.err)), tc.err.Error())
	}
}

// TestServer_SendText_PublishRejected verifies a rendering the link refuses keeps its reason.
func TestServer_SendText_PublishRejected(t *testing.T) {
	t.Parallel()

	s := NewServer(&fakeService{sendErr: fmt.Errorf("%w: %w", domain.ErrPublish, errTestBoom)})

	_, err := s.SendText(context.Background(), wrapperspb.String("SOS"))
	require.Equal(t, codes.FailedPrecondition, status.Code(err))
	require.Contains(t, status.Convert(err).Message(), errTestBoom.Error())
}

// TestServer_SetIntensity verifies range checking and forwarding.
func TestServer_SetIntensity(t *testing.T) {
	t.Parallel()

	svc := new(fakeService)
	s := NewServer(svc)

	_, err := s.SetIntensity(context.Background(), nil)
	require.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = s.SetIntensity(context.Background(), wrapperspb.UInt32(256))
	require.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = s.SetIntensity(context.Background(), wrapperspb.UInt32(42))
	require.NoError(t, err)
	require.Equal(t, uint8(42), svc.intensity)
	require.Nil(t, svc.lastActor)

	_, err = s.Stop(context.Background(), new(emptypb.Empty))
	require.NoError(t, err)
	require.Equal(t, 1, svc.stopped)
}

// TestServer_GetStatus verifies the snapshot is encoded into the status payload.
func TestServer_GetStatus(t *testing.T) {
	t.Parallel()

	svc := &fakeService{
		snapshot: &domain.Snapshot{
			Status:    domain.StatusPlaying,
			Morse:     ".-",
			Intensity: 128,
		},
	}

	response, err := NewServer(svc).GetStatus(context.Background(), new(emptypb.Empty))
	require.NoError(t, err)

	got, err := pb.SnapshotFromStruct(response)
	require.NoError(t, err)
	require.Equal(t, svc.snapshot, got)
}

// TestServer_WatchStatus verifies updates are streamed until the client leaves.
func TestServer_WatchStatus(t *testing.T) {
	t.Parallel()

	svc := &fakeService{updates: make(chan *domain.Snapshot, 2)}
	svc.updates <- &domain.Snapshot{Status: domain.StatusPlaying}
	svc.updates <- &domain.Snapshot{Status: domain.StatusIdle}

	ctx, cancel := context.WithCancel(context.Background())
	stream := &fakeStream{ctx: ctx, sent: make(chan *structpb.Struct, 2)}

	done := make(chan error, 1)

	go func() {
		done <- NewServer(svc).WatchStatus(new(emptypb.Empty), stream)
	}()

	for _, want := range []domain.Status{domain.StatusPlaying, domain.StatusIdle} {
		select {
		case message := <-stream.sent:
			got, err := pb.SnapshotFromStruct(message)
			require.NoError(t, err)
			require.Equal(t, want, got.Status)
		case <-time.After(time.Second):
			t.Fatal("no update streamed")
		}
	}

	cancel()
	require.NoError(t, <-done)

	// A closed feed ends the stream with Unavailable.
	closed := &fakeService{updates: make(chan *domain.Snapshot)}
	close(closed.updates)

	err := NewServer(closed).WatchStatus(new(emptypb.Empty), &fakeStream{ctx: context.Background()})
	require.Equal(t, codes.Unavailable, status.Code(err))
}
