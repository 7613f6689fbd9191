package http

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/protobuf/encoding/protojson"

	domain "github.com/oshokin/morse-beacon/internal/domain/device"
	"github.com/oshokin/morse-beacon/internal/logger"
	pb "github.com/oshokin/morse-beacon/internal/pb/v1"
	"github.com/oshokin/morse-beacon/internal/version"
)

const (
	contentTypeJSON   = "application/json"
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// StatusSource provides the snapshot served by /v1/status.
type StatusSource interface {
	Snapshot(ctx context.Context) (*domain.Snapshot, error)
}

// NewHandler builds the admin router.
func NewHandler(source StatusSource, gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", contentTypeJSON)
		_, _ = fmt.Fprintf(w, `{"status":"ok","version":%q}`+"\n", version.Version)
	})

	r.Get("/v1/status", func(w http.ResponseWriter, r *http.Request) {
		snapshot, err := source.Snapshot(r.Context())
		if err != nil {
			logger.WarnKV(r.Context(), "Status unavailable", "error", err)
			http.Error(w, "status unavailable", http.StatusServiceUnavailable)

			return
		}

		message, err := pb.SnapshotToStruct(snapshot)
		if err != nil {
			http.Error(w, "unable to encode status", http.StatusInternalServerError)

			return
		}

		body, err := protojson.Marshal(message)
		if err != nil {
			http.Error(w, "unable to encode status", http.StatusInternalServerError)

			return
		}

		w.Header().Set("Content-Type", contentTypeJSON)
		_, _ = w.Write(body)
	})

	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	return r
}

// Serve runs handler on address until ctx is canceled, then shuts down
// gracefully.
func Serve(ctx context.Context, address string, handler http.Handler) error {
	lc := net.ListenConfig{}

	lis, err := lc.Listen(ctx, "tcp", address)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", address, err)
	}

	return serve(ctx, lis, handler)
}

func serve(ctx context.Context, lis net.Listener, handler http.Handler) error {
	server := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	done := make(chan struct{})

	go func() {
		defer close(done)

		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		logger.Info(ctx, "Shutting down admin HTTP server")

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.WarnKV(ctx, "Admin HTTP shutdown failed", "error", err)
		}
	}()

	logger.InfoKV(ctx, "Admin HTTP listening", "listen_address", lis.Addr().String())

	if err := server.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve admin HTTP: %w", err)
	}

	<-done

	return nil
}
