// Package input provides the byte source the transmitter reads audio from.
//
// An Input is either backed by a file, which can seek, or by a stream such as
// standard input, which cannot. Seeking a stream fails with ErrSeekUnsupported
// so callers can tell "seek unavailable" apart from a failed seek.
package input

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrSeekUnsupported is returned when seeking an Input that is not backed by a file.
var ErrSeekUnsupported = errors.New("seek not supported by stream input")

// Kind identifies the backing variant of an Input.
type Kind int

const (
	KindFile Kind = iota
	KindStdin
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindStdin:
		return "stdin"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Input is a readable audio source.
type Input struct {
	kind   Kind
	file   *os.File
	stream io.Reader
}

var _ io.ReadSeekCloser = (*Input)(nil)

// Open opens the file at path as a seekable Input.
func Open(path string) (*Input, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open input file: %w", err)
	}
	return FromFile(f), nil
}

// FromFile wraps an already open file.
func FromFile(f *os.File) *Input {
	return &Input{kind: KindFile, file: f}
}

// Stdin returns an Input over the process's standard input.
func Stdin() *Input {
	return FromReader(os.Stdin)
}

// FromReader returns a stream Input over r. Even if r happens to implement
// io.Seeker, the returned Input does not seek.
func FromReader(r io.Reader) *Input {
	return &Input{kind: KindStdin, stream: r}
}

func (in *Input) Kind() Kind {
	return in.kind
}

func (in *Input) Read(p []byte) (int, error) {
	if in.kind == KindFile {
		return in.file.Read(p)
	}
	return in.stream.Read(p)
}

// Seek moves the read offset of a file Input. Stream inputs always return
// ErrSeekUnsupported, whatever the arguments.
func (in *Input) Seek(offset int64, whence int) (int64, error) {
	if in.kind == KindFile {
		return in.file.Seek(offset, whence)
	}
	return 0, ErrSeekUnsupported
}

// Close closes a file Input. Stream inputs are owned by the process and are
// left open.
func (in *Input) Close() error {
	if in.kind == KindFile {
		return in.file.Close()
	}
	return nil
}

// Opener opens a fresh Input each time it is called.
type Opener func() (*Input, error)

// StdinOpener is the Opener used by the station: every call wraps standard input again.
func StdinOpener() (*Input, error) {
	return Stdin(), nil
}

// FileOpener returns an Opener that opens path from the start on every call.
func FileOpener(path string) Opener {
	return func() (*Input, error) {
		return Open(path)
	}
}
