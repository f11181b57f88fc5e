package opus_test

import (
	"context"
	"encoding/binary"
	"io"
	"sync"
	"time"
)

const (
	oggContinued = 0x01
	oggBOS       = 0x02
	oggEOS       = 0x04
)

var oggCRCTable = func() (table [256]uint32) {
	for i := range table {
		r := uint32(i) << 24
		for range 8 {
			if r&0x80000000 != 0 {
				r = r<<1 ^ 0x04c11db7
			} else {
				r <<= 1
			}
		}
		table[i] = r
	}
	return table
}()

func oggCRC(b []byte) uint32 {
	var crc uint32
	for _, v := range b {
		crc = crc<<8 ^ oggCRCTable[byte(crc>>24)^v]
	}
	return crc
}

// oggPage encodes one Ogg page holding whole packets.
func oggPage(headerType byte, seq uint32, packets ...[]byte) []byte {
	var segments, body []byte
	for _, p := range packets {
		n := len(p)
		for n >= 255 {
			segments = append(segments, 255)
			n -= 255
		}
		segments = append(segments, byte(n))
		body = append(body, p...)
	}

	page := make([]byte, 0, 27+len(segments)+len(body))
	page = append(page, "OggS"...)
	page = append(page, 0, headerType)
	page = binary.LittleEndian.AppendUint64(page, uint64(seq)*960)
	page = binary.LittleEndian.AppendUint32(page, 0x5eed)
	page = binary.LittleEndian.AppendUint32(page, seq)
	page = append(page, 0, 0, 0, 0)
	page = append(page, byte(len(segments)))
	page = append(page, segments...)
	page = append(page, body...)
	binary.LittleEndian.PutUint32(page[22:26], oggCRC(page))
	return page
}

// opusStream builds an Ogg Opus stream: the two header pages followed by one
// page per element of pages.
func opusStream(pages ...[][]byte) []byte {
	head := append([]byte("OpusHead"), 1, 2, 0x38, 0x01, 0x80, 0xbb, 0, 0, 0, 0, 0)
	tags := append([]byte("OpusTags"), 0, 0, 0, 0, 0, 0, 0, 0)

	stream := oggPage(oggBOS, 0, head)
	stream = append(stream, oggPage(0, 1, tags)...)
	for i, packets := range pages {
		var headerType byte
		if i == len(pages)-1 {
			headerType = oggEOS
		}
		stream = append(stream, oggPage(headerType, uint32(i+2), packets...)...)
	}
	return stream
}

// fakeClock is a simulated monotonic clock. Sleeping advances it instantly.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Since(t time.Time) time.Duration {
	return c.Now().Sub(t)
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.Advance(d)
	return nil
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// recordingSender records every frame and the clock reading when it was sent.
type recordingSender struct {
	clock   *fakeClock
	cost    time.Duration
	err     error
	frames  []string
	sentAt  []time.Time
	failAt  int
	onSend  func()
	attempt int
}

func (s *recordingSender) Send(ctx context.Context, frame []byte) error {
	s.attempt++
	if s.err != nil && s.attempt >= s.failAt {
		return s.err
	}
	s.frames = append(s.frames, string(frame))
	s.sentAt = append(s.sentAt, s.clock.Now())
	s.clock.Advance(s.cost)
	if s.onSend != nil {
		s.onSend()
	}
	return nil
}

// scriptedSource replays packets, running before[i] (if set) before packet i.
type scriptedSource struct {
	packets [][]byte
	before  map[int]func()
	err     error
	next    int
}

func (s *scriptedSource) ReadPacket() ([]byte, error) {
	if s.next >= len(s.packets) {
		if s.err != nil {
			return nil, s.err
		}
		return nil, io.EOF
	}
	if f, ok := s.before[s.next]; ok {
		f()
	}
	p := s.packets[s.next]
	s.next++
	return p, nil
}

func packets(frames ...string) [][]byte {
	out := make([][]byte, len(frames))
	for i, f := range frames {
		out[i] = []byte(f)
	}
	return out
}
