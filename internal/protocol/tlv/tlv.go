// Package tlv reads and writes the TLV blocks that hold an NDEF message in
// the data area of an NFC Forum Type 2 tag.
package tlv

import (
	"encoding/binary"
	"errors"
)

var (
	ErrShortBlockHeader = errors.New("tlv: short block header")
	ErrShortBlockValue  = errors.New("tlv: short block value")
	ErrValueTooLong     = errors.New("tlv: value longer than 65534 bytes")
	ErrNoMessage        = errors.New("tlv: no ndef message block")
)

// Block types of a Type 2 tag data area.
const (
	TypeNull          uint8 = 0x00
	TypeLockControl   uint8 = 0x01
	TypeMemoryControl uint8 = 0x02
	TypeNDEF          uint8 = 0x03
	TypeProprietary   uint8 = 0xFD
	TypeTerminator    uint8 = 0xFE
)

const (
	longLength = 0xFF
	maxValue   = 0xFFFE
)

// Block is one decoded TLV block.
type Block struct {
	Type  uint8
	Value []byte
}

// EncodeBlock serializes one block. Null and terminator blocks have no
// length byte.
func EncodeBlock(b Block) ([]byte, error) {
	if b.Type == TypeNull || b.Type == TypeTerminator {
		return []byte{b.Type}, nil
	}
	n := len(b.Value)
	if n > maxValue {
		return nil, ErrValueTooLong
	}
	buf := make([]byte, 0, 4+n)
	buf = append(buf, b.Type)
	if n < longLength {
		buf = append(buf, byte(n))
	} else {
		buf = append(buf, longLength)
		buf = binary.BigEndian.AppendUint16(buf, uint16(n))
	}
	return append(buf, b.Value...), nil
}

// DecodeBlocks parses a data area up to its terminator. Null blocks are
// skipped and bytes after the terminator are padding.
func DecodeBlocks(area []byte) ([]Block, error) {
	blocks := make([]Block, 0, 2)
	for i := 0; i < len(area); {
		typ := area[i]
		i++
		switch typ {
		case TypeNull:
			continue
		case TypeTerminator:
			return blocks, nil
		}
		if i >= len(area) {
			return nil, ErrShortBlockHeader
		}
		n := int(area[i])
		i++
		if n == longLength {
			if len(area)-i < 2 {
				return nil, ErrShortBlockHeader
			}
			n = int(binary.BigEndian.Uint16(area[i : i+2]))
			i += 2
		}
		if len(area)-i < n {
			return nil, ErrShortBlockValue
		}
		val := make([]byte, n)
		copy(val, area[i:i+n])
		i += n
		blocks = append(blocks, Block{Type: typ, Value: val})
	}
	return blocks, nil
}

// WrapMessage returns a data area holding msg followed by a terminator.
func WrapMessage(msg []byte) ([]byte, error) {
	out, err := EncodeBlock(Block{Type: TypeNDEF, Value: msg})
	if err != nil {
		return nil, err
	}
	return append(out, TypeTerminator), nil
}

// FindMessage returns the value of the first NDEF block in area. An empty
// NDEF block yields an empty, non-nil slice.
func FindMessage(area []byte) ([]byte, error) {
	blocks, err := DecodeBlocks(area)
	if err != nil {
		return nil, err
	}
	for _, b := range blocks {
		if b.Type == TypeNDEF {
			if b.Value == nil {
				return []byte{}, nil
			}
			return b.Value, nil
		}
	}
	return nil, ErrNoMessage
}

// MessageCapacity is the largest NDEF message that fits a data area of
// size bytes once wrapped.
func MessageCapacity(size int) int {
	n := size - 3
	if n >= longLength {
		n = min(size-5, maxValue)
	}
	return max(n, 0)
}
