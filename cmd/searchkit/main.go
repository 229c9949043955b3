package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/skillsenselab/searchkit/bootstrap"
	"github.com/skillsenselab/searchkit/config"
	"github.com/skillsenselab/searchkit/observability"
	"github.com/skillsenselab/searchkit/readiness"
	"github.com/skillsenselab/searchkit/search"
	"github.com/skillsenselab/searchkit/server"
	"github.com/skillsenselab/searchkit/version"
)

const serviceName = "searchkit"

func main() {
	var (
		waitOnce    = flag.Bool("wait", false, "wait once for the cluster to become ready, then exit")
		showVersion = flag.Bool("version", false, "print version information and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Println(version.GetFullVersion())
		return
	}

	if err := run(*waitOnce); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", serviceName, err)
		os.Exit(1)
	}
}

func run(waitOnce bool) error {
	cfg, err := config.LoadAndValidate(serviceName)
	if err != nil {
		return err
	}

	app, err := bootstrap.NewApp(cfg)
	if err != nil {
		return err
	}

	ctx := context.Background()

	if cfg.Telemetry.Enabled {
		if err := initTelemetry(ctx, app, cfg); err != nil {
			return err
		}
	}

	searchComp, err := search.NewComponent(cfg.Search, app.Logger)
	if err != nil {
		return err
	}
	if err := app.RegisterComponent(searchComp); err != nil {
		return err
	}

	readyComp, recorder, err := readiness.NewComponentWithRecorder(cfg.Readiness, searchComp.Client(), app.Logger)
	if err != nil {
		return err
	}
	if cfg.Telemetry.Enabled {
		metrics, err := observability.NewMetrics(observability.Meter(serviceName))
		if err != nil {
			return err
		}
		readyComp.Poller().WithMetrics(metrics)
	}

	// One-shot mode: block until the cluster is ready, then exit.
	if waitOnce {
		return app.RunTask(ctx, readyComp.Poller().Run)
	}

	if err := app.RegisterComponent(readyComp); err != nil {
		return err
	}

	if cfg.Server.Enabled {
		srv := server.New(cfg.Server, app.Logger)
		srv.ApplyDefaults(cfg.Name, recorder, app.Components.HealthAll)
		if err := app.RegisterComponent(server.NewComponent(srv)); err != nil {
			return err
		}
	}

	return app.Run(ctx)
}

// initTelemetry initializes the OTLP trace and metric exporters and hooks
// their shutdown into the application lifecycle.
func initTelemetry(ctx context.Context, app *bootstrap.App[*config.Config], cfg *config.Config) error {
	tp, err := observability.InitTracer(ctx, observability.TracerConfig{
		ServiceName:    cfg.Name,
		ServiceVersion: app.Version,
		Environment:    cfg.Environment,
		Endpoint:       cfg.Telemetry.Endpoint,
		Insecure:       cfg.Telemetry.Insecure,
		SampleRate:     cfg.Telemetry.SampleRate,
	})
	if err != nil {
		return fmt.Errorf("init tracer: %w", err)
	}

	mp, err := observability.InitMeter(ctx, observability.MeterConfig{
		ServiceName:    cfg.Name,
		ServiceVersion: app.Version,
		Environment:    cfg.Environment,
		Endpoint:       cfg.Telemetry.Endpoint,
		Insecure:       cfg.Telemetry.Insecure,
		Interval:       cfg.Telemetry.Interval,
	})
	if err != nil {
		return fmt.Errorf("init meter: %w", err)
	}

	app.OnStop(func(ctx context.Context) error {
		terr := tp.Shutdown(ctx)
		merr := mp.Shutdown(ctx)
		if terr != nil {
			return terr
		}
		return merr
	})
	return nil
}
