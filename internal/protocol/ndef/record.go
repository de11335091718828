package ndef

import (
	"bytes"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// TNF is the 3-bit type name format of a record.
type TNF uint8

const (
	TNFEmpty       TNF = 0x00
	TNFWellKnown   TNF = 0x01
	TNFMedia       TNF = 0x02
	TNFAbsoluteURI TNF = 0x03
	TNFExternal    TNF = 0x04
	TNFUnknown     TNF = 0x05
	TNFUnchanged   TNF = 0x06
	TNFReserved    TNF = 0x07
)

// Record type names for well-known records.
var (
	TypeText = []byte("T")
	TypeURI  = []byte("U")
)

// Kind is the coarse record class the codec dispatches on.
type Kind int

const (
	KindOther Kind = iota
	KindURI
	KindText
	KindMIME
)

func (k Kind) String() string {
	switch k {
	case KindURI:
		return "uri"
	case KindText:
		return "text"
	case KindMIME:
		return "mime"
	default:
		return "other"
	}
}

// Record is one NDEF record.
type Record struct {
	TNF     TNF
	Type    []byte
	ID      []byte
	Payload []byte
}

// Kind classifies r by TNF and type.
func (r Record) Kind() Kind {
	switch r.TNF {
	case TNFWellKnown:
		switch {
		case bytes.Equal(r.Type, TypeURI):
			return KindURI
		case bytes.Equal(r.Type, TypeText):
			return KindText
		}
	case TNFAbsoluteURI:
		return KindURI
	case TNFMedia:
		return KindMIME
	}
	return KindOther
}

// MediaType returns the lower-cased MIME type of a media record.
func (r Record) MediaType() string {
	if r.TNF != TNFMedia {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(string(r.Type)))
}

// Label renders the TNF and type for diagnostics. A type that is not
// printable UTF-8 is shown as hex bytes.
func (r Record) Label() string {
	if utf8.Valid(r.Type) && strings.IndexFunc(string(r.Type), notPrintable) < 0 {
		return fmt.Sprintf("TNF:%d Type:%s", r.TNF, r.Type)
	}
	return fmt.Sprintf("TNF:%d Type:% x", r.TNF, r.Type)
}

func notPrintable(r rune) bool {
	return !unicode.IsPrint(r)
}

// NewMIMERecord creates a media-type record.
func NewMIMERecord(mediaType string, payload []byte) Record {
	buf := make([]byte, len(payload))
	copy(buf, payload)
	return Record{TNF: TNFMedia, Type: []byte(mediaType), Payload: buf}
}
