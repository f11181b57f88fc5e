package station

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/glizzus/radio-station/internal/metrics"
)

// Receive drains r, discarding every packet. It returns nil when the session
// is closed cleanly and the transport error otherwise.
func Receive(ctx context.Context, r Receiver, m *metrics.Metrics) error {
	for {
		packet, err := r.Recv(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				slog.Info("Voice session closed by server")
				return nil
			}
			return fmt.Errorf("unable to receive voice packet: %w", err)
		}
		// we are not interested in what other stations transmit
		m.FrameReceived()
		slog.Debug("Discarded inbound voice packet", "bytes", len(packet))
	}
}
