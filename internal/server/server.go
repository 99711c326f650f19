package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/aspect-build/dstack-gateway/internal/logx"
	"golang.org/x/sync/errgroup"
)

// Server runs the gateway listener and, when configured, a separate metrics
// listener. The metrics listener never carries gateway routes.
type Server struct {
	cfg     *Config
	srv     *http.Server
	metrics *http.Server
}

// New builds a Server. metricsHandler is ignored when cfg.MetricsAddr is empty.
func New(cfg *Config, gateway http.Handler, metricsHandler http.Handler) *Server {
	s := &Server{
		cfg: cfg,
		srv: &http.Server{Addr: cfg.ListenAddr, Handler: gateway},
	}
	if cfg.MetricsAddr != "" && metricsHandler != nil {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metricsHandler)
		s.metrics = &http.Server{Addr: cfg.MetricsAddr, Handler: mux}
	}
	return s
}

// Run serves until ctx is cancelled or a listener fails, then shuts both
// listeners down within cfg.ShutdownTimeout.
func (s *Server) Run(ctx context.Context) error {
	gwLn, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.ListenAddr, err)
	}
	var metricsLn net.Listener
	if s.metrics != nil {
		metricsLn, err = net.Listen("tcp", s.cfg.MetricsAddr)
		if err != nil {
			gwLn.Close()
			return fmt.Errorf("listen metrics %s: %w", s.cfg.MetricsAddr, err)
		}
	}
	return s.serve(ctx, gwLn, metricsLn)
}

func (s *Server) serve(ctx context.Context, gwLn, metricsLn net.Listener) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logx.Infof("dstack-gateway listening on %s", gwLn.Addr())
		return ignoreClosed(s.srv.Serve(gwLn))
	})
	if metricsLn != nil {
		g.Go(func() error {
			logx.Infof("metrics listening on %s", metricsLn.Addr())
			return ignoreClosed(s.metrics.Serve(metricsLn))
		})
	}

	g.Go(func() error {
		<-ctx.Done()
		return s.shutdown()
	})

	return g.Wait()
}

func (s *Server) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := s.srv.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("gateway shutdown: %w", err))
	}
	if s.metrics != nil {
		if err := s.metrics.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("metrics shutdown: %w", err))
		}
	}
	logx.Infof("dstack-gateway stopped")
	return errors.Join(errs...)
}

func ignoreClosed(err error) error {
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
