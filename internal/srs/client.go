package srs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/netip"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"

	"github.com/glizzus/radio-station/internal/generator"
)

var (
	ErrClosed          = errors.New("voice stream closed")
	ErrVersionMismatch = errors.New("server rejected client version")
)

// DefaultPingInterval is how often the client pings the voice socket.
const DefaultPingInterval = 5 * time.Second

// Station is the identity announced when joining a server.
type Station struct {
	Name        string
	Frequency   uint64 // Hz
	Position    Position
	ControlPort uint16
}

type options struct {
	guid         string
	coalition    Coalition
	unitID       uint32
	pingInterval time.Duration
	logger       *slog.Logger
}

type Option func(*options)

// WithGUID sets the client GUID instead of generating a random one.
func WithGUID(guid string) Option {
	return func(o *options) { o.guid = guid }
}

func WithCoalition(c Coalition) Option {
	return func(o *options) { o.coalition = c }
}

func WithUnitID(id uint32) Option {
	return func(o *options) { o.unitID = id }
}

func WithPingInterval(d time.Duration) Option {
	return func(o *options) { o.pingInterval = d }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// VoiceStream is an open session with a voice server. Send and Recv may be
// called from different goroutines.
type VoiceStream struct {
	station   Station
	guid      string
	unitID    uint32
	frequency Frequency
	logger    *slog.Logger

	control net.Conn
	voice   net.Conn
	encMu   sync.Mutex
	enc     *json.Encoder

	packetID atomic.Uint64
	packets  chan []byte

	failOnce sync.Once
	failed   chan struct{}
	failErr  error

	closeOnce sync.Once
	done      chan struct{}
	wg        sync.WaitGroup
}

// Dial joins the voice server. The control connection goes to the server's
// address on st.ControlPort (or addr's port when unset); voice goes to addr.
func Dial(ctx context.Context, addr netip.AddrPort, st Station, opts ...Option) (*VoiceStream, error) {
	o := options{
		pingInterval: DefaultPingInterval,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.guid == "" {
		gen := generator.ShortGUIDGenerator{}
		guid, err := gen.Next()
		if err != nil {
			return nil, fmt.Errorf("unable to generate client guid: %w", err)
		}
		o.guid = guid
	}
	if len(o.guid) != GUIDLength {
		return nil, fmt.Errorf("client guid must be %d bytes, got %d", GUIDLength, len(o.guid))
	}

	controlPort := st.ControlPort
	if controlPort == 0 {
		controlPort = addr.Port()
	}
	controlAddr := netip.AddrPortFrom(addr.Addr(), controlPort)

	var d net.Dialer
	control, err := d.DialContext(ctx, "tcp", controlAddr.String())
	if err != nil {
		return nil, fmt.Errorf("unable to connect control channel: %w", err)
	}
	voice, err := d.DialContext(ctx, "udp", addr.String())
	if err != nil {
		control.Close()
		return nil, fmt.Errorf("unable to connect voice channel: %w", err)
	}

	s := &VoiceStream{
		station: st,
		guid:    o.guid,
		unitID:  o.unitID,
		frequency: Frequency{
			Freq:       float64(st.Frequency),
			Modulation: ModulationAM,
		},
		logger:  o.logger.With(slog.String("guid", o.guid)),
		control: control,
		voice:   voice,
		enc:     json.NewEncoder(control),
		packets: make(chan []byte, 64),
		failed:  make(chan struct{}),
		done:    make(chan struct{}),
	}

	if err := s.handshake(ctx, o.coalition); err != nil {
		s.Close()
		return nil, err
	}

	s.wg.Add(3)
	go s.readControl()
	go s.readVoice()
	go s.keepAlive(o.pingInterval)

	s.logger.Info(
		"Joined voice server",
		slog.String("control", controlAddr.String()),
		slog.String("voice", addr.String()),
		slog.Uint64("frequency", st.Frequency),
	)
	return s, nil
}

func (s *VoiceStream) handshake(ctx context.Context, coalition Coalition) error {
	if deadline, ok := ctx.Deadline(); ok {
		s.control.SetWriteDeadline(deadline)
		defer s.control.SetWriteDeadline(time.Time{})
	}
	if err := s.sendControl(syncMessage(s.guid, s.station, coalition)); err != nil {
		return fmt.Errorf("unable to send sync message: %w", err)
	}
	if err := s.sendControl(radioUpdateMessage(s.guid, s.station, coalition, s.unitID)); err != nil {
		return fmt.Errorf("unable to send radio update: %w", err)
	}
	if err := s.ping(); err != nil {
		return fmt.Errorf("unable to ping voice channel: %w", err)
	}
	return nil
}

func (s *VoiceStream) sendControl(msg Message) error {
	s.encMu.Lock()
	defer s.encMu.Unlock()
	return s.enc.Encode(msg)
}

// ping registers the client's voice address with the server.
func (s *VoiceStream) ping() error {
	_, err := s.voice.Write([]byte(s.guid))
	return err
}

// GUID returns the client GUID announced to the server.
func (s *VoiceStream) GUID() string {
	return s.guid
}

// Send transmits one audio frame on the station frequency.
func (s *VoiceStream) Send(ctx context.Context, frame []byte) error {
	select {
	case <-s.done:
		return ErrClosed
	default:
	}

	pkt := VoicePacket{
		Audio:            frame,
		Frequencies:      []Frequency{s.frequency},
		UnitID:           s.unitID,
		PacketID:         s.packetID.Add(1),
		TransmissionGUID: s.guid,
		OriginalGUID:     s.guid,
	}
	b, err := pkt.MarshalBinary()
	if err != nil {
		return err
	}

	stop := context.AfterFunc(ctx, func() {
		s.voice.SetWriteDeadline(time.Unix(1, 0))
	})
	defer stop()

	if _, err := s.voice.Write(b); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("unable to write voice packet: %w", err)
	}
	return nil
}

// Recv returns the audio of the next inbound voice packet. It returns io.EOF
// once the server has closed the session cleanly.
func (s *VoiceStream) Recv(ctx context.Context) ([]byte, error) {
	select {
	case audio := <-s.packets:
		return audio, nil
	case <-s.failed:
		return nil, s.failErr
	case <-s.done:
		return nil, ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close leaves the server. It is safe to call more than once.
func (s *VoiceStream) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		err = errors.Join(s.control.Close(), s.voice.Close())
		s.wg.Wait()
	})
	return err
}

// fail records the first fatal transport error and wakes up Recv.
func (s *VoiceStream) fail(err error) {
	s.failOnce.Do(func() {
		s.failErr = err
		close(s.failed)
	})
}

func (s *VoiceStream) closing() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

func (s *VoiceStream) readControl() {
	defer s.wg.Done()

	dec := json.NewDecoder(s.control)
	for {
		var msg Message
		if err := dec.Decode(&msg); err != nil {
			if s.closing() {
				return
			}
			if errors.Is(err, io.EOF) {
				s.logger.Info("Voice server closed the control connection")
				s.fail(io.EOF)
			} else {
				s.fail(fmt.Errorf("unable to read control message: %w", err))
			}
			return
		}

		switch msg.MsgType {
		case MsgVersionMismatch:
			s.logger.Error("Voice server rejected the client version", slog.String("serverVersion", msg.Version))
			s.fail(fmt.Errorf("%w: server version %s", ErrVersionMismatch, msg.Version))
			return
		case MsgSync:
			s.logger.Debug("Received sync", slog.Int("clients", len(msg.Clients)), slog.String("serverVersion", msg.Version))
		case MsgServerSettings:
			s.logger.Debug("Received server settings", slog.Int("settings", len(msg.ServerSettings)))
		default:
			s.logger.Debug("Received control message", slog.Int("msgType", int(msg.MsgType)))
		}
	}
}

func (s *VoiceStream) readVoice() {
	defer s.wg.Done()

	buf := make([]byte, maxPacketLength)
	for {
		n, err := s.voice.Read(buf)
		if err != nil {
			if !s.closing() {
				s.fail(fmt.Errorf("unable to read voice packet: %w", err))
			}
			return
		}
		if n == GUIDLength {
			// Ping echo.
			continue
		}

		var pkt VoicePacket
		if err := pkt.UnmarshalBinary(buf[:n]); err != nil {
			s.logger.Debug("Dropping malformed voice packet", slog.Any("error", err))
			continue
		}

		select {
		case s.packets <- pkt.Audio:
		case <-s.done:
			return
		}
	}
}

func (s *VoiceStream) keepAlive(interval time.Duration) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := s.ping(); err != nil {
				if !s.closing() {
					s.fail(fmt.Errorf("unable to ping voice channel: %w", err))
				}
				return
			}
		case <-s.done:
			return
		}
	}
}
