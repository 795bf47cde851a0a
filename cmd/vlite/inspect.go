package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/vango-dev/vlite/internal/errors"
	"github.com/vango-dev/vlite/pkg/devtools"
	"github.com/vango-dev/vlite/pkg/runtime"
	"github.com/vango-dev/vlite/pkg/telemetry"
)

func inspectCmd(flags *globalFlags) *cobra.Command {
	var (
		dataFile string
		addr     string
	)

	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "Render a template and serve devtools until interrupted",
		Long: `Render a template and serve the devtools inspector.

Endpoints:
  GET  /tree              container HTML
  GET  /passes            recent pass reports
  GET  /components        live component instances
  GET  /ws                pass reports as they happen
  GET  /metrics           Prometheus metrics
  POST /snapshots/{key}   store the current tree

Examples:
  vlite inspect views/card.html
  vlite inspect views/card.html --addr :9000`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(flags.configDir, dataFile)
			if err != nil {
				return err
			}
			files, err := p.templates(args)
			if err != nil {
				return err
			}
			if len(files) != 1 {
				return errors.New(errors.CodeInvalidConfig).
					WithDetail("inspect serves one template, got %d", len(files))
			}
			if addr == "" {
				addr = p.cfg.Devtools.Addr
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector())
			metrics := telemetry.NewMetrics(
				telemetry.WithNamespace(p.cfg.Metrics.Namespace),
				telemetry.WithRegistry(reg),
			)
			metrics.WatchCompiler(p.compiler)

			store, err := p.snapshots()
			if err != nil {
				return err
			}

			rt, container := p.newRuntime(
				runtime.WithObserver(metrics),
				runtime.WithObserver(telemetry.NewTracer()),
			)
			inspector := devtools.New(rt,
				devtools.WithHistory(p.cfg.Devtools.History),
				devtools.WithSnapshots(store),
				devtools.WithGatherer(reg),
			)
			if err := p.renderFile(rt, container, files[0]); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			success(cmd, "Rendered %s", files[0])
			info(cmd, "Devtools on http://%s", addr)
			if err := inspector.ListenAndServe(ctx, addr); err != nil {
				return err
			}
			return rt.Unmount()
		},
	}

	cmd.Flags().StringVarP(&dataFile, "data", "d", "", "YAML or JSON file with slot values")
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from vlite.json)")

	return cmd
}
