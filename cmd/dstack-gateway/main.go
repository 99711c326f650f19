package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aspect-build/dstack-gateway/internal/attestation"
	"github.com/aspect-build/dstack-gateway/internal/logx"
	"github.com/aspect-build/dstack-gateway/internal/metrics"
	"github.com/aspect-build/dstack-gateway/internal/server"
	"github.com/aspect-build/dstack-gateway/internal/version"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

const binaryName = "dstack-gateway"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		listenAddr    string
		metricsAddr   string
		agentEndpoint string
		agentTimeout  time.Duration
		logLevel      string
		verbose       bool
	)

	cmd := &cobra.Command{
		Use:   binaryName,
		Short: "HTTP gateway for the dstack guest agent's quote and app-compose info",
		Long: `Serve two read-only routes backed by the local dstack guest agent:

  GET /quote   fresh TDX quote and event log
  GET /info    app_compose manifest from the agent's tcb_info

Environment variables:
  GATEWAY_LISTEN_ADDR        Listen address (default: 0.0.0.0:8000)
  GATEWAY_METRICS_ADDR       Prometheus listen address (default: disabled)
  DSTACK_ENDPOINT            dstack agent endpoint (default: SDK resolution,
                             DSTACK_SIMULATOR_ENDPOINT then /var/run/dstack.sock)
  GATEWAY_AGENT_TIMEOUT      Per-call agent timeout, e.g. 5s (default: none)
  GATEWAY_SHUTDOWN_TIMEOUT   Graceful shutdown bound (default: 10s)
  GATEWAY_CORS_ORIGINS       Comma-separated allowed CORS origins
  GATEWAY_LOG_LEVEL          debug|info|warn|error (default: info)`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := logx.Configure(logLevel, verbose); err != nil {
				return fmt.Errorf("configure logging: %w", err)
			}

			cfg, err := server.LoadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			flags := cmd.Flags()
			if flags.Changed("listen") {
				cfg.ListenAddr = listenAddr
			}
			if flags.Changed("metrics-listen") {
				cfg.MetricsAddr = metricsAddr
			}
			if flags.Changed("agent-endpoint") {
				cfg.AgentEndpoint = agentEndpoint
			}
			if flags.Changed("agent-timeout") {
				cfg.AgentTimeout = agentTimeout
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg)
		},
	}
	cmd.SetVersionTemplate(version.String(binaryName) + "\n")

	f := cmd.Flags()
	f.StringVar(&listenAddr, "listen", "", "Listen address (overrides GATEWAY_LISTEN_ADDR)")
	f.StringVar(&metricsAddr, "metrics-listen", "", "Prometheus listen address (overrides GATEWAY_METRICS_ADDR)")
	f.StringVar(&agentEndpoint, "agent-endpoint", "", "dstack agent endpoint (overrides DSTACK_ENDPOINT)")
	f.DurationVar(&agentTimeout, "agent-timeout", 0, "Per-call agent timeout (overrides GATEWAY_AGENT_TIMEOUT)")
	f.StringVar(&logLevel, "log-level", "", "Log level: debug|info|warn|error (or GATEWAY_LOG_LEVEL)")
	f.BoolVar(&verbose, "verbose", false, "Enable verbose debug logs (same as --log-level debug)")

	return cmd
}

func run(ctx context.Context, cfg *server.Config) error {
	if !logx.IsDebug() {
		gin.SetMode(gin.ReleaseMode)
	}

	m := metrics.New()
	client := attestation.NewClient(
		attestation.NewDstackAgent(cfg.AgentEndpoint),
		attestation.WithTimeout(cfg.AgentTimeout),
		attestation.WithObserver(m),
	)
	router := server.NewRouter(client, cfg, m)

	logx.Infof("%s", version.String(binaryName))
	logx.Infof("server config: listen=%s metrics=%q agent_endpoint=%q agent_timeout=%s", cfg.ListenAddr, cfg.MetricsAddr, cfg.AgentEndpoint, cfg.AgentTimeout)

	if err := server.New(cfg, router, m.Handler()).Run(ctx); err != nil {
		logx.Errorf("server error: %v", err)
		return err
	}
	return nil
}
