package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"

	"github.com/glizzus/radio-station/internal/config"
	"github.com/glizzus/radio-station/internal/metrics"
	"github.com/glizzus/radio-station/internal/schedule"
	"github.com/glizzus/radio-station/internal/station"
)

func newApp(logOutput io.Writer) *cli.App {
	return &cli.App{
		Name:      "radio-station",
		Usage:     "Broadcast Ogg Opus audio from standard input to a voice server",
		UsageText: "radio-station --server 127.0.0.1:5002 [--freq 251000000] < audio.opus",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "freq",
				Aliases: []string{"f"},
				Usage:   "transmit frequency in Hz",
				Value:   "251000000",
				EnvVars: []string{"RADIO_FREQUENCY"},
			},
			&cli.StringFlag{
				Name:     "server",
				Aliases:  []string{"s"},
				Usage:    "voice server address as a literal ip:port",
				Required: true,
				EnvVars:  []string{"RADIO_SERVER"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "one of debug, info, warn, error",
				Value:   "info",
				EnvVars: []string{"RADIO_LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "metrics-addr",
				Usage:   "serve prometheus metrics on this address",
				EnvVars: []string{"RADIO_METRICS_ADDR"},
			},
			&cli.StringFlag{
				Name:    "start-at",
				Usage:   "cron expression; wait for its next run time before broadcasting",
				EnvVars: []string{"RADIO_START_CRON"},
			},
		},
		Action: func(c *cli.Context) error {
			if err := setupLogger(logOutput, c.String("log-level")); err != nil {
				return err
			}
			return broadcast(c)
		},
	}
}

func setupLogger(w io.Writer, level string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})))
	return nil
}

func broadcast(c *cli.Context) error {
	ctx := c.Context

	freq, err := config.ParseFrequency(c.String("freq"))
	if err != nil {
		// a bad frequency is reported but is not a failure of the process
		slog.Error("Invalid frequency, not broadcasting", "error", err)
		return nil
	}

	server := c.String("server")
	if _, err := config.ParseServer(server); err != nil {
		return err
	}

	env, err := config.NewStationEnvFromEnv(ctx)
	if err != nil {
		return fmt.Errorf("failed to load station config: %w", err)
	}

	var opts []station.Option
	if addr := c.String("metrics-addr"); addr != "" {
		reg := prometheus.NewRegistry()
		opts = append(opts, station.WithMetrics(metrics.New(reg)))
		go func() {
			slog.Info("Serving metrics", "addr", addr)
			if err := metrics.Serve(ctx, addr, reg); err != nil {
				slog.Error("failed to serve metrics", "error", err)
			}
		}()
	}

	if cron := c.String("start-at"); cron != "" {
		startAt, err := schedule.NextRunTime(cron, time.Now())
		if err != nil {
			return fmt.Errorf("failed to schedule broadcast: %w", err)
		}
		if err := schedule.WaitUntil(ctx, startAt); err != nil {
			return err
		}
	}

	s := station.New(env.Name, opts...)
	s.SetFrequency(freq)
	pos := env.Position()
	s.SetPosition(pos.X, pos.Y, pos.Altitude)
	s.SetPort(env.ControlPort)

	return s.Play(ctx, server)
}

func run(ctx context.Context, args []string) error {
	if err := config.LoadEnv(); err != nil {
		if os.IsNotExist(err) {
			slog.Warn("No .env file found, continuing without it")
		} else {
			return fmt.Errorf("failed to load .env file: %w", err)
		}
	}

	err := newApp(os.Stderr).RunContext(ctx, args)
	if errors.Is(err, context.Canceled) {
		slog.Info("Interrupted, shutting down")
		return nil
	}
	return err
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args); err != nil {
		slog.Error("radio station failed", "error", err)
		stop()
		os.Exit(1)
	}
}
