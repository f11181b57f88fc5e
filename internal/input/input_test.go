package input_test

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/glizzus/radio-station/internal/input"
)

func TestStreamSeekUnsupported(t *testing.T) {
	// strings.Reader can seek, but the stream variant must still refuse.
	in := input.FromReader(strings.NewReader("hello world"))

	table := []struct {
		name   string
		offset int64
		whence int
	}{
		{name: "start", offset: 0, whence: io.SeekStart},
		{name: "middle", offset: 5, whence: io.SeekStart},
		{name: "current", offset: 1, whence: io.SeekCurrent},
		{name: "end", offset: -1, whence: io.SeekEnd},
		{name: "negative", offset: -100, whence: io.SeekStart},
	}

	for _, tc := range table {
		t.Run(tc.name, func(t *testing.T) {
			_, err := in.Seek(tc.offset, tc.whence)
			if !errors.Is(err, input.ErrSeekUnsupported) {
				t.Errorf("Seek(%d, %d) error = %v; want %v", tc.offset, tc.whence, err, input.ErrSeekUnsupported)
			}
		})
	}

	got, err := io.ReadAll(in)
	if err != nil {
		t.Fatalf("ReadAll returned error: %v", err)
	}
	if string(got) != "hello world" {
		t.Errorf("ReadAll = %q; want %q", got, "hello world")
	}
}

func TestFileSeek(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audio.opus")
	if err := os.WriteFile(path, []byte("0123456789"), 0o600); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	in, err := input.Open(path)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	defer in.Close()

	if in.Kind() != input.KindFile {
		t.Fatalf("Kind() = %v; want %v", in.Kind(), input.KindFile)
	}

	table := []struct {
		offset int64
		want   string
	}{
		{offset: 4, want: "456789"},
		{offset: 0, want: "0123456789"},
		{offset: 9, want: "9"},
		{offset: 10, want: ""},
	}

	for _, tc := range table {
		pos, err := in.Seek(tc.offset, io.SeekStart)
		if err != nil {
			t.Fatalf("Seek(%d) returned error: %v", tc.offset, err)
		}
		if pos != tc.offset {
			t.Errorf("Seek(%d) = %d", tc.offset, pos)
		}
		got, err := io.ReadAll(in)
		if err != nil {
			t.Fatalf("ReadAll returned error: %v", err)
		}
		if string(got) != tc.want {
			t.Errorf("after Seek(%d) read %q; want %q", tc.offset, got, tc.want)
		}
	}
}

func TestOpenMissingFile(t *testing.T) {
	_, err := input.Open(filepath.Join(t.TempDir(), "missing.opus"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Open error = %v; want os.ErrNotExist", err)
	}
}

func TestStdinOpener(t *testing.T) {
	in, err := input.StdinOpener()
	if err != nil {
		t.Fatalf("StdinOpener returned error: %v", err)
	}
	if in.Kind() != input.KindStdin {
		t.Errorf("Kind() = %v; want %v", in.Kind(), input.KindStdin)
	}
	if err := in.Close(); err != nil {
		t.Errorf("Close on stdin input returned error: %v", err)
	}
	if _, err := in.Seek(0, io.SeekStart); !errors.Is(err, input.ErrSeekUnsupported) {
		t.Errorf("Seek error = %v; want %v", err, input.ErrSeekUnsupported)
	}
}
