package tag

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/nattsrk/AnurVCardPro/internal/protocol/ndef"
	"github.com/nattsrk/AnurVCardPro/internal/protocol/tlv"
)

// DefaultCapacity is the usable NDEF area of an NTAG216.
const DefaultCapacity = 868

// Image is the on-disk layout of a token file.
type Image string

const (
	// ImageRaw holds the bare NDEF message.
	ImageRaw Image = "raw"
	// ImageTLV holds a Type 2 tag data area: the message inside an NDEF TLV
	// block followed by a terminator. Capacity is the data area size.
	ImageTLV Image = "tlv"
)

// ParseImage accepts "raw", "tlv" or blank for raw.
func ParseImage(s string) (Image, error) {
	switch Image(strings.ToLower(strings.TrimSpace(s))) {
	case "", ImageRaw:
		return ImageRaw, nil
	case ImageTLV:
		return ImageTLV, nil
	default:
		return "", fmt.Errorf("tag: unknown image layout %q", s)
	}
}

// FileTransport emulates a token with a file holding the raw NDEF message.
// A missing file is a blank token, a zero-length file is a formatted token
// with no message, and a file without write permission is read-only.
type FileTransport struct {
	path     string
	id       string
	capacity int
	image    Image

	mu        sync.Mutex
	connected bool
	writable  bool
}

var _ Transport = (*FileTransport)(nil)

// NewFileTransport builds a transport for path. id defaults to the file
// name and capacity <= 0 to DefaultCapacity.
func NewFileTransport(path, id string, capacity int) *FileTransport {
	id = strings.TrimSpace(id)
	if id == "" {
		id = "file:" + filepath.Base(path)
	}
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &FileTransport{path: path, id: id, capacity: capacity, image: ImageRaw}
}

// WithImage sets the file layout.
func (t *FileTransport) WithImage(img Image) *FileTransport {
	t.image = img
	return t
}

func (t *FileTransport) ID() string { return t.id }

func (t *FileTransport) Path() string { return t.path }

func (t *FileTransport) Connect(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	info, err := os.Stat(t.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		dir, derr := os.Stat(filepath.Dir(t.path))
		if derr != nil {
			return &IOError{Op: "connect", Err: derr}
		}
		t.writable = dir.Mode().Perm()&0o200 != 0
	case err != nil:
		return &IOError{Op: "connect", Err: err}
	case info.IsDir():
		return ErrNotSupported
	default:
		t.writable = info.Mode().Perm()&0o200 != 0
	}
	t.connected = true
	return nil
}

func (t *FileTransport) ReadMessage(ctx context.Context) ([]ndef.Record, error) {
	if err := t.ready(ctx); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(t.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFormatted
	}
	if err != nil {
		return nil, &IOError{Op: "read", Err: err}
	}
	if t.image == ImageTLV && len(raw) > 0 {
		raw, err = tlv.FindMessage(raw)
		if errors.Is(err, tlv.ErrNoMessage) {
			return nil, ErrNotFormatted
		}
		if err != nil {
			return nil, &IOError{Op: "read", Err: err}
		}
	}
	if len(raw) == 0 {
		return nil, ErrEmptyTag
	}
	records, err := ndef.DecodeMessage(raw)
	if err != nil {
		return nil, &IOError{Op: "read", Err: err}
	}
	return records, nil
}

func (t *FileTransport) IsWritable() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.connected && t.writable
}

func (t *FileTransport) MaxPayloadBytes() int {
	if t.image == ImageTLV {
		return tlv.MessageCapacity(t.capacity)
	}
	return t.capacity
}

func (t *FileTransport) WriteMessage(ctx context.Context, records []ndef.Record) error {
	if err := t.ready(ctx); err != nil {
		return err
	}
	if _, err := os.Stat(t.path); errors.Is(err, fs.ErrNotExist) {
		return ErrNotFormatted
	}
	return t.store(ctx, "write", records)
}

func (t *FileTransport) Format(ctx context.Context, records []ndef.Record) error {
	if err := t.ready(ctx); err != nil {
		return err
	}
	return t.store(ctx, "format", records)
}

func (t *FileTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.connected {
		return ErrAlreadyClosed
	}
	t.connected = false
	return nil
}

func (t *FileTransport) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.connected {
		return ErrNotConnected
	}
	return nil
}

// store replaces the file through a rename so a reader never sees half a
// message.
func (t *FileTransport) store(ctx context.Context, op string, records []ndef.Record) error {
	raw, err := ndef.EncodeMessage(records)
	if err == nil && t.image == ImageTLV {
		raw, err = tlv.WrapMessage(raw)
	}
	if err != nil {
		return fmt.Errorf("tag: %s: %w", op, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(t.path), ".tag-*")
	if err != nil {
		return &IOError{Op: op, Err: err}
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return &IOError{Op: op, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &IOError{Op: op, Err: err}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), t.path); err != nil {
		return &IOError{Op: op, Err: err}
	}
	return nil
}
