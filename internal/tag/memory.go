package tag

import (
	"context"
	"sync"

	"github.com/nattsrk/AnurVCardPro/internal/protocol/ndef"
)

// MemoryTransport is an in-process token for tests and the demo server.
type MemoryTransport struct {
	mu        sync.Mutex
	id        string
	capacity  int
	raw       []byte
	formatted bool
	writable  bool
	supported bool
	connected bool
	failNext  error
	writes    int
}

var _ Transport = (*MemoryTransport)(nil)

// NewMemoryTransport returns a formatted, writable, empty token.
func NewMemoryTransport(id string, capacity int) *MemoryTransport {
	return &MemoryTransport{
		id:        id,
		capacity:  capacity,
		formatted: true,
		writable:  true,
		supported: true,
	}
}

// SetRaw replaces the stored message bytes. nil leaves a formatted token
// with no message.
func (m *MemoryTransport) SetRaw(raw []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.raw = append([]byte(nil), raw...)
	m.formatted = true
}

// Raw returns a copy of the stored message bytes.
func (m *MemoryTransport) Raw() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.raw...)
}

func (m *MemoryTransport) SetFormatted(v bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.formatted = v
}

func (m *MemoryTransport) SetWritable(v bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writable = v
}

func (m *MemoryTransport) SetSupported(v bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.supported = v
}

// FailNext makes the next read, write or format fail with err.
func (m *MemoryTransport) FailNext(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext = err
}

// Writes counts successful writes and formats.
func (m *MemoryTransport) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

func (m *MemoryTransport) ID() string { return m.id }

func (m *MemoryTransport) Connect(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.supported {
		return ErrNotSupported
	}
	m.connected = true
	return nil
}

func (m *MemoryTransport) ReadMessage(ctx context.Context) ([]ndef.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkLocked(ctx); err != nil {
		return nil, err
	}
	if !m.formatted {
		return nil, ErrNotFormatted
	}
	if len(m.raw) == 0 {
		return nil, ErrEmptyTag
	}
	records, err := ndef.DecodeMessage(m.raw)
	if err != nil {
		return nil, &IOError{Op: "read", Err: err}
	}
	return records, nil
}

func (m *MemoryTransport) IsWritable() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connected && m.writable
}

func (m *MemoryTransport) MaxPayloadBytes() int { return m.capacity }

func (m *MemoryTransport) WriteMessage(ctx context.Context, records []ndef.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkLocked(ctx); err != nil {
		return err
	}
	if !m.formatted {
		return ErrNotFormatted
	}
	return m.storeLocked("write", records)
}

func (m *MemoryTransport) Format(ctx context.Context, records []ndef.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkLocked(ctx); err != nil {
		return err
	}
	if err := m.storeLocked("format", records); err != nil {
		return err
	}
	m.formatted = true
	return nil
}

func (m *MemoryTransport) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.connected {
		return ErrAlreadyClosed
	}
	m.connected = false
	return nil
}

func (m *MemoryTransport) checkLocked(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !m.connected {
		return ErrNotConnected
	}
	if err := m.failNext; err != nil {
		m.failNext = nil
		return err
	}
	return nil
}

func (m *MemoryTransport) storeLocked(op string, records []ndef.Record) error {
	raw, err := ndef.EncodeMessage(records)
	if err != nil {
		return &IOError{Op: op, Err: err}
	}
	m.raw = raw
	m.writes++
	return nil
}
