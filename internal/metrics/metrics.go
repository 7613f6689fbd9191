package metrics

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"

	domain "github.com/oshokin/morse-beacon/internal/domain/device"
)

const namespace = "morse_beacon"

// Collector records device activity. It satisfies the device publisher
// contract, so it can sit in the controller's fan-out.
type Collector struct {
	// status is the last published status code.
	status prometheus.Gauge
	// transitions counts status transitions by target status.
	transitions *prometheus.CounterVec
	// messages counts renderings delivered before playback.
	messages prometheus.Counter
	// pulses counts dots and dashes across all messages.
	pulses prometheus.Counter
	// intensity is the current actuator level.
	intensity prometheus.Gauge
	// connected is 1 while a wireless central is attached.
	connected prometheus.Gauge
	// requests counts gRPC calls by method and code.
	requests *prometheus.CounterVec
	// latency observes gRPC call duration by method.
	latency *prometheus.HistogramVec

	// mu guards last and seen.
	mu sync.Mutex
	// last is the most recently published status.
	last domain.Status
	// seen is false until the first snapshot arrives.
	seen bool
}

// NewCollector creates the collectors and registers them with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		status: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "status",
			Help:      "Current device status code (0 idle, 1 processing, 2 playing, 3 error).",
		}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "status_transitions_total",
			Help:      "Status transitions by target status.",
		}, []string{"status"}),
		messages: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_total",
			Help:      "Messages accepted for playback.",
		}),
		pulses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pulses_total",
			Help:      "Dots and dashes accepted for playback.",
		}),
		intensity: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "intensity",
			Help:      "Current actuator intensity level.",
		}),
		connected: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connected",
			Help:      "Whether a wireless central is connected.",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "grpc_requests_total",
			Help:      "gRPC requests by method and status code.",
		}, []string{"method", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "grpc_request_duration_seconds",
			Help:      "gRPC request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
	}

	reg.MustRegister(
		c.status,
		c.transitions,
		c.messages,
		c.pulses,
		c.intensity,
		c.connected,
		c.requests,
		c.latency,
	)

	return c
}

// PublishMorse counts a rendering about to play. Place the collector after
// any publisher that can reject the message.
func (c *Collector) PublishMorse(_ context.Context, code string) error {
	c.messages.Inc()
	c.pulses.Add(float64(strings.Count(code, ".") + strings.Count(code, "-")))

	return nil
}

// PublishStatus records the snapshot. A transition is counted only when the
// status differs from the previous one.
func (c *Collector) PublishStatus(_ context.Context, snapshot *domain.Snapshot) {
	c.mu.Lock()
	changed := !c.seen || c.last != snapshot.Status
	c.last, c.seen = snapshot.Status, true
	c.mu.Unlock()

	if changed {
		c.transitions.WithLabelValues(snapshot.Status.String()).Inc()
	}

	c.status.Set(float64(snapshot.Status))
	c.intensity.Set(float64(snapshot.Intensity))

	if snapshot.Connected {
		c.connected.Set(1)
	} else {
		c.connected.Set(0)
	}
}

// UnaryServerInterceptor instruments unary gRPC calls.
func (c *Collector) UnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		c.observe(info.FullMethod, start, err)

		return resp, err
	}
}

// StreamServerInterceptor instruments streaming gRPC calls.
func (c *Collector) StreamServerInterceptor() grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		start := time.Now()
		err := handler(srv, ss)

		c.observe(info.FullMethod, start, err)

		return err
	}
}

func (c *Collector) observe(method string, start time.Time, err error) {
	c.requests.WithLabelValues(method, status.Code(err).String()).Inc()
	c.latency.WithLabelValues(method).Observe(time.Since(start).Seconds())
}
