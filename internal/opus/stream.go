package opus

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/glizzus/radio-station/internal/input"
	"github.com/glizzus/radio-station/internal/metrics"
)

// Sender delivers a single audio frame to the voice server.
type Sender interface {
	Send(ctx context.Context, frame []byte) error
}

// Transmitter streams audio from a source to a Sender in real time.
type Transmitter struct {
	Open  input.Opener
	Sink  Sender
	Demux Demuxer
	Clock Clock

	Metrics *metrics.Metrics
}

// Run transmits until an error occurs or the source is exhausted. When a
// stream ends the source is opened again and pacing restarts. A cycle that
// ends without yielding a single frame means nothing more will arrive, and
// Run returns nil.
func (t *Transmitter) Run(ctx context.Context) error {
	for cycle := 1; ; cycle++ {
		slog.Debug("Opening audio source", "cycle", cycle)
		sent, err := t.cycle(ctx)
		if err != nil {
			return err
		}
		if sent == 0 {
			slog.Info("Audio source exhausted", "cycle", cycle)
			return nil
		}
		slog.Debug("Audio stream ended", "cycle", cycle, "frames", sent)
	}
}

func (t *Transmitter) cycle(ctx context.Context) (sent int, err error) {
	src, err := t.Open()
	if err != nil {
		return 0, fmt.Errorf("unable to open audio source: %w", err)
	}
	defer func() {
		if cerr := src.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("unable to close audio source: %w", cerr))
		}
	}()
	t.Metrics.SourceCycle()

	demux := t.Demux
	if demux == nil {
		demux = OggDemuxer
	}
	clock := t.Clock
	if clock == nil {
		clock = SystemClock{}
	}

	packets := demux(src)
	pacer := NewPacer(clock)

	for {
		packet, err := packets.ReadPacket()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return sent, nil
			}
			return sent, fmt.Errorf("unable to demux audio: %w", err)
		}
		if len(packet) == 0 {
			continue
		}

		lag, err := pacer.Wait(ctx)
		if err != nil {
			return sent, err
		}
		if lag > 0 {
			t.Metrics.FrameLate(lag)
		}

		if err := t.Sink.Send(ctx, packet); err != nil {
			return sent, fmt.Errorf("unable to send audio frame: %w", err)
		}
		sent++
		t.Metrics.FrameSent()
	}
}
