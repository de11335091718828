package ndef

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
)

const (
	flagMB  = 0x80
	flagME  = 0x40
	flagCF  = 0x20
	flagSR  = 0x10
	flagIL  = 0x08
	tnfMask = 0x07

	shortPayloadMax = 0xff
)

// EncodeMessage serializes records as one NDEF message.
func EncodeMessage(records []Record) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteMessage(&buf, records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteMessage writes records to w as one NDEF message.
func WriteMessage(w io.Writer, records []Record) error {
	if len(records) == 0 {
		return ErrEmptyMessage
	}
	for i, rec := range records {
		if err := writeRecord(w, rec, i == 0, i == len(records)-1); err != nil {
			return err
		}
	}
	return nil
}

// EncodedSize returns the serialized message size without allocating it.
func EncodedSize(records []Record) (int, error) {
	if len(records) == 0 {
		return 0, ErrEmptyMessage
	}
	total := 0
	for _, rec := range records {
		n, err := recordSize(rec)
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

func recordSize(rec Record) (int, error) {
	if len(rec.Type) > 0xff {
		return 0, ErrTypeTooLong
	}
	if len(rec.ID) > 0xff {
		return 0, ErrIDTooLong
	}
	if uint64(len(rec.Payload)) > math.MaxUint32 {
		return 0, ErrTruncated
	}
	n := 2 // flags + type length
	if len(rec.Payload) <= shortPayloadMax {
		n++
	} else {
		n += 4
	}
	if len(rec.ID) > 0 {
		n++
	}
	return n + len(rec.Type) + len(rec.ID) + len(rec.Payload), nil
}

func writeRecord(w io.Writer, rec Record, first, last bool) error {
	if _, err := recordSize(rec); err != nil {
		return err
	}
	head := byte(rec.TNF) & tnfMask
	if first {
		head |= flagMB
	}
	if last {
		head |= flagME
	}
	short := len(rec.Payload) <= shortPayloadMax
	if short {
		head |= flagSR
	}
	if len(rec.ID) > 0 {
		head |= flagIL
	}

	buf := make([]byte, 0, 7)
	buf = append(buf, head, byte(len(rec.Type)))
	if short {
		buf = append(buf, byte(len(rec.Payload)))
	} else {
		buf = binary.BigEndian.AppendUint32(buf, uint32(len(rec.Payload)))
	}
	if len(rec.ID) > 0 {
		buf = append(buf, byte(len(rec.ID)))
	}
	if _, err := w.Write(buf); err != nil {
		return err
	}
	for _, part := range [][]byte{rec.Type, rec.ID, rec.Payload} {
		if len(part) == 0 {
			continue
		}
		if _, err := w.Write(part); err != nil {
			return err
		}
	}
	return nil
}

// DecodeMessage parses one NDEF message.
func DecodeMessage(data []byte) ([]Record, error) {
	if len(data) == 0 {
		return nil, ErrEmptyMessage
	}
	records := make([]Record, 0, 4)
	for offset := 0; offset < len(data); {
		head := data[offset]
		if len(records) == 0 && head&flagMB == 0 {
			return nil, ErrMissingBegin
		}
		if head&flagCF != 0 {
			return nil, ErrChunked
		}
		rec, n, err := parseRecord(data[offset:])
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
		offset += n
		if head&flagME != 0 {
			if offset != len(data) {
				return nil, ErrTrailingData
			}
			return records, nil
		}
	}
	return nil, ErrMissingEnd
}

func parseRecord(data []byte) (Record, int, error) {
	if len(data) < 3 {
		return Record{}, 0, ErrTruncated
	}
	head := data[0]
	typeLen := int(data[1])
	offset := 2

	var payloadLen uint64
	if head&flagSR != 0 {
		payloadLen = uint64(data[offset])
		offset++
	} else {
		if len(data) < offset+4 {
			return Record{}, 0, ErrTruncated
		}
		payloadLen = uint64(binary.BigEndian.Uint32(data[offset : offset+4]))
		offset += 4
	}

	idLen := 0
	if head&flagIL != 0 {
		if len(data) < offset+1 {
			return Record{}, 0, ErrTruncated
		}
		idLen = int(data[offset])
		offset++
	}

	remaining := uint64(len(data) - offset)
	if uint64(typeLen)+uint64(idLen)+payloadLen > remaining {
		return Record{}, 0, ErrTruncated
	}

	rec := Record{TNF: TNF(head & tnfMask)}
	rec.Type = cloneBytes(data[offset : offset+typeLen])
	offset += typeLen
	rec.ID = cloneBytes(data[offset : offset+idLen])
	offset += idLen
	end := offset + int(payloadLen)
	rec.Payload = cloneBytes(data[offset:end])
	return rec, end, nil
}

func cloneBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
