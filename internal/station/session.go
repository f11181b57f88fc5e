package station

import (
	"context"
	"fmt"
	"log/slog"
	"net/netip"

	"github.com/glizzus/radio-station/internal/config"
	"github.com/glizzus/radio-station/internal/opus"
	"github.com/glizzus/radio-station/internal/srs"
)

// Receiver yields inbound voice packets. It returns io.EOF once the server has
// closed the session cleanly.
type Receiver interface {
	Recv(ctx context.Context) ([]byte, error)
}

// Session is an open voice session. Its send and receive halves are used by
// separate goroutines.
type Session interface {
	opus.Sender
	Receiver
	Close() error
}

// Dialer opens a voice session announcing cfg.
type Dialer interface {
	Dial(ctx context.Context, addr netip.AddrPort, cfg config.StationConfig) (Session, error)
}

type DialFunc func(ctx context.Context, addr netip.AddrPort, cfg config.StationConfig) (Session, error)

func (f DialFunc) Dial(ctx context.Context, addr netip.AddrPort, cfg config.StationConfig) (Session, error) {
	return f(ctx, addr, cfg)
}

// SRSDialer joins a SimpleRadio-style voice server.
var SRSDialer Dialer = DialFunc(func(ctx context.Context, addr netip.AddrPort, cfg config.StationConfig) (Session, error) {
	return srs.Dial(ctx, addr, srs.Station{
		Name:      cfg.Name,
		Frequency: cfg.Frequency,
		Position: srs.Position{
			X:   cfg.Position.X,
			Y:   cfg.Position.Y,
			Alt: cfg.Position.Altitude,
		},
		ControlPort: cfg.Port,
	})
})

type SessionFunc func(ctx context.Context, session Session) error

// WithSession is a utility function that opens a voice session, runs the
// callback and closes the session afterwards.
func WithSession(ctx context.Context, dialer Dialer, addr netip.AddrPort, cfg config.StationConfig, callback SessionFunc) error {
	session, err := dialer.Dial(ctx, addr, cfg)
	if err != nil {
		return fmt.Errorf("unable to open voice session: %w", err)
	}
	defer func() {
		if err := session.Close(); err != nil {
			slog.Error("failed to close voice session", "error", err)
		}
	}()

	return callback(ctx, session)
}
