package opus

import (
	"bytes"
	"errors"
	"io"

	"github.com/jonas747/ogg"
)

var (
	opusHeadMagic = []byte("OpusHead")
	opusTagsMagic = []byte("OpusTags")
)

// PacketSource yields compressed audio packets. It returns io.EOF when the
// stream has ended.
type PacketSource interface {
	ReadPacket() ([]byte, error)
}

// PacketReader reads Opus packets from an Ogg stream.
type PacketReader struct {
	decoder *ogg.PacketDecoder
}

// NewPacketReader returns a new PacketReader that reads from r.
func NewPacketReader(r io.Reader) *PacketReader {
	return &PacketReader{decoder: ogg.NewPacketDecoder(ogg.NewDecoder(r))}
}

// ReadPacket returns the next Opus packet. The identification and comment
// headers are skipped. A stream that stops part way through a page is treated
// as ended.
func (p *PacketReader) ReadPacket() ([]byte, error) {
	for {
		packet, _, err := p.decoder.Decode()
		if err != nil {
			if errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, io.EOF
			}
			return nil, err
		}
		if isHeader(packet) {
			continue
		}
		return packet, nil
	}
}

func isHeader(packet []byte) bool {
	return bytes.HasPrefix(packet, opusHeadMagic) || bytes.HasPrefix(packet, opusTagsMagic)
}

var _ PacketSource = (*PacketReader)(nil)

// Demuxer builds a PacketSource over a freshly opened byte source.
type Demuxer func(r io.Reader) PacketSource

// OggDemuxer is the Demuxer for Ogg encapsulated Opus.
func OggDemuxer(r io.Reader) PacketSource {
	return NewPacketReader(r)
}
