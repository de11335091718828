package tag

import (
	"context"
	"errors"
	"fmt"

	"github.com/nattsrk/AnurVCardPro/internal/codec"
	"github.com/nattsrk/AnurVCardPro/internal/protocol/ndef"
)

// Transport is one token in range of the reader.
type Transport interface {
	// ID is the token UID, or a stable stand-in for emulated tokens.
	ID() string
	Connect(ctx context.Context) error
	// ReadMessage returns ErrEmptyTag for a formatted token with no message
	// and ErrNotFormatted for a blank one.
	ReadMessage(ctx context.Context) ([]ndef.Record, error)
	IsWritable() bool
	MaxPayloadBytes() int
	// WriteMessage returns ErrNotFormatted when the token must be formatted
	// first.
	WriteMessage(ctx context.Context, records []ndef.Record) error
	// Format initialises a blank token with records as its first message.
	Format(ctx context.Context, records []ndef.Record) error
	Close() error
}

// Write puts records on t. It refuses read-only tokens and messages larger
// than the token, and formats a blank token instead of writing to it.
func Write(ctx context.Context, t Transport, records []ndef.Record) error {
	if !t.IsWritable() {
		return ErrNotWritable
	}
	size, err := ndef.EncodedSize(records)
	if err != nil {
		return err
	}
	if limit := t.MaxPayloadBytes(); limit > 0 && size > limit {
		return &codec.CapacityError{Needed: size, Available: limit}
	}
	err = t.WriteMessage(ctx, records)
	if errors.Is(err, ErrNotFormatted) {
		if err := t.Format(ctx, records); err != nil {
			return fmt.Errorf("format: %w", err)
		}
		return nil
	}
	return err
}

// Read connects to t and returns its message.
func Read(ctx context.Context, t Transport) ([]ndef.Record, error) {
	if err := t.Connect(ctx); err != nil {
		return nil, err
	}
	return t.ReadMessage(ctx)
}
