// Package station runs a synthetic radio transmitter: it joins a voice server
// as a named station and broadcasts audio read from standard input.
package station

import (
	"context"
	"log/slog"
	"time"

	"github.com/glizzus/radio-station/internal/config"
	"github.com/glizzus/radio-station/internal/input"
	"github.com/glizzus/radio-station/internal/metrics"
	"github.com/glizzus/radio-station/internal/opus"
	"github.com/glizzus/radio-station/internal/race"
)

type Station struct {
	cfg config.StationConfig

	dialer  Dialer
	open    input.Opener
	demux   opus.Demuxer
	clock   opus.Clock
	metrics *metrics.Metrics
	grace   time.Duration
}

type Option func(*Station)

func WithDialer(d Dialer) Option {
	return func(s *Station) { s.dialer = d }
}

// WithOpener replaces standard input as the audio source.
func WithOpener(open input.Opener) Option {
	return func(s *Station) { s.open = open }
}

func WithDemuxer(demux opus.Demuxer) Option {
	return func(s *Station) { s.demux = demux }
}

func WithClock(c opus.Clock) Option {
	return func(s *Station) { s.clock = c }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Station) { s.metrics = m }
}

// WithGrace sets how long Play waits for the losing loop to stop.
func WithGrace(d time.Duration) Option {
	return func(s *Station) { s.grace = d }
}

// New returns a station on the default frequency and control port at the origin.
func New(name string, opts ...Option) *Station {
	s := &Station{
		cfg:    config.DefaultStationConfig(name),
		dialer: SRSDialer,
		open:   input.StdinOpener,
		demux:  opus.OggDemuxer,
		clock:  opus.SystemClock{},
		grace:  race.DefaultGrace,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Station) SetFrequency(freq uint64) {
	s.cfg.Frequency = freq
}

func (s *Station) SetPosition(x, y, alt float64) {
	s.cfg.Position = config.Position{X: x, Y: y, Altitude: alt}
}

func (s *Station) SetPort(port uint16) {
	s.cfg.Port = port
}

// Config returns a copy of the station's current configuration.
func (s *Station) Config() config.StationConfig {
	return s.cfg
}

// Play joins server and broadcasts until the session ends. The session ends
// as soon as either the transmitter or the receiver stops; the result of
// whichever stopped first is returned. server must be a literal ip:port.
func (s *Station) Play(ctx context.Context, server string) error {
	addr, err := config.ParseServer(server)
	if err != nil {
		return err
	}
	cfg := s.cfg

	return WithSession(ctx, s.dialer, addr, cfg, func(ctx context.Context, session Session) error {
		slog.Info(
			"Broadcasting",
			slog.String("name", cfg.Name),
			slog.Uint64("frequency", cfg.Frequency),
			slog.String("server", addr.String()),
		)

		tx := &opus.Transmitter{
			Open:    s.open,
			Sink:    session,
			Demux:   s.demux,
			Clock:   s.clock,
			Metrics: s.metrics,
		}

		outcome := race.First(ctx, s.grace,
			race.Task{Name: "transmit", Run: tx.Run},
			race.Task{Name: "receive", Run: func(ctx context.Context) error {
				return Receive(ctx, session, s.metrics)
			}},
		)

		slog.Info("Session ended", slog.String("by", outcome.Winner))
		return outcome.Err
	})
}
