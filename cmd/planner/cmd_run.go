package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/meridianautonomy/planner/core"
	"github.com/meridianautonomy/planner/internal/config"
	"github.com/meridianautonomy/planner/internal/logging"
	"github.com/meridianautonomy/planner/internal/observability"
	"github.com/meridianautonomy/planner/planloop"
	"github.com/meridianautonomy/planner/stages"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a scenario to completion",
		RunE:  runScenario,
	}
	cmd.Flags().String("scenario", "", "Scenario file to run (overrides the config)")
	cmd.Flags().Duration("tick", 0, "Planning tick cadence (overrides the config)")
	cmd.Flags().Int("max-ticks", -1, "Tick budget, 0 for unbounded (overrides the config)")
	cmd.Flags().Bool("accelerated", false, "Run ticks back to back instead of real time")
	return cmd
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	applyRunFlags(cmd, &cfg)

	log := logging.New(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	planID := uuid.NewString()
	ctx := logging.ContextWithPlanID(context.Background(), planID)
	log = log.With(logging.String("plan_id", planID))

	collector, err := observability.NewPlannerCollector(nil)
	if err != nil {
		return fmt.Errorf("initialise metrics collector: %w", err)
	}

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfig{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: "planner",
		Exporter:    cfg.Tracing.Exporter,
		Endpoint:    cfg.Tracing.Endpoint,
		SampleRatio: cfg.Tracing.SampleRatio,
	}, log)
	if err != nil {
		return fmt.Errorf("initialise tracing: %w", err)
	}
	defer observability.ShutdownWithTimeout(context.Background(), shutdownTracing, log)

	metricsSrv := serveMetrics(cfg.Serve.MetricsAddr, collector, log)
	healthSrv, err := serveHealth(cfg.Serve.HealthAddr, log)
	if err != nil {
		return err
	}

	scenarioCfg, err := core.LoadScenarioFile(cfg.Scenario.Path)
	if err != nil {
		return err
	}
	if err := core.Validate(scenarioCfg); err != nil {
		return err
	}

	injector := core.NewDependencyInjector()
	sc := core.NewScenario(scenarioCfg, stages.NewRegistry(), injector,
		core.WithLogger(log),
		core.WithMetricsRecorder(collector),
	)
	sc.Init(ctx)

	mode := planloop.RealTime
	if cfg.Loop.Accelerated {
		mode = planloop.Accelerated
	}
	loop := planloop.New(cfg.Loop.Tick, mode,
		planloop.WithLogger(log),
		planloop.WithTickRecorder(collector),
		planloop.WithMaxTicks(cfg.Loop.MaxTicks),
	)

	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	log.Info(ctx, "starting planning loop",
		logging.String("scenario", sc.Name()),
		logging.String("tick", cfg.Loop.Tick.String()),
		logging.Int("max_ticks", cfg.Loop.MaxTicks),
	)
	result, runErr := loop.Run(runCtx, sc, &core.TrajectoryPoint{})
	log.Info(ctx, "planning loop finished",
		logging.String("scenario", sc.Name()),
		logging.String("status", result.Final.String()),
		logging.Int("ticks", result.Ticks),
	)

	healthSrv.GracefulStop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if metricsSrv != nil {
		_ = metricsSrv.Shutdown(shutdownCtx)
	}

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	if result.Final == core.StatusUnknown {
		return fmt.Errorf("scenario %q ended in UNKNOWN status", sc.Name())
	}
	return nil
}

// applyRunFlags lets explicit command-line flags win over the config file.
func applyRunFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("scenario") {
		cfg.Scenario.Path, _ = cmd.Flags().GetString("scenario")
	}
	if cmd.Flags().Changed("tick") {
		cfg.Loop.Tick, _ = cmd.Flags().GetDuration("tick")
	}
	if cmd.Flags().Changed("max-ticks") {
		cfg.Loop.MaxTicks, _ = cmd.Flags().GetInt("max-ticks")
	}
	if cmd.Flags().Changed("accelerated") {
		cfg.Loop.Accelerated, _ = cmd.Flags().GetBool("accelerated")
	}
}

func serveMetrics(addr string, collector *observability.PlannerCollector, log logging.Logger) *http.Server {
	if addr == "" || collector == nil {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())

	srv := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Warn(context.Background(), "metrics server exited", logging.String("error", err.Error()))
		}
	}()

	log.Info(context.Background(), "serving Prometheus metrics", logging.String("addr", addr))
	return srv
}

// serveHealth exposes the standard gRPC health service so deployment
// tooling can probe the planner process.
func serveHealth(addr string, log logging.Logger) (*grpc.Server, error) {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen for health checks on %s: %w", addr, err)
	}

	srv := grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))
	h := health.NewServer()
	h.SetServingStatus("planner", healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, h)

	go func() {
		if err := srv.Serve(lis); err != nil {
			log.Warn(context.Background(), "health server exited", logging.String("error", err.Error()))
		}
	}()

	log.Info(context.Background(), "serving gRPC health checks", logging.String("addr", addr))
	return srv, nil
}
