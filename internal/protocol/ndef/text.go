package ndef

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

const (
	textUTF16Flag   = 0x80
	textLangLenMask = 0x3f
)

// NewTextRecord creates a well-known Text record encoded as UTF-8.
func NewTextRecord(lang, text string) (Record, error) {
	if len(lang) > textLangLenMask {
		return Record{}, ErrLanguageTooLong
	}
	payload := make([]byte, 0, 1+len(lang)+len(text))
	payload = append(payload, byte(len(lang)))
	payload = append(payload, lang...)
	payload = append(payload, text...)
	return Record{TNF: TNFWellKnown, Type: []byte{'T'}, Payload: payload}, nil
}

// Text decodes the language code and text of a Text record.
func (r Record) Text() (lang string, text string, err error) {
	if r.Kind() != KindText {
		return "", "", ErrNotText
	}
	return ParseText(r.Payload)
}

// ParseText decodes a Text record payload. UTF-16 payloads are converted to
// UTF-8; invalid UTF-8 payloads are rejected.
func ParseText(payload []byte) (lang string, text string, err error) {
	if len(payload) == 0 {
		return "", "", ErrInvalidText
	}
	status := payload[0]
	langLen := int(status & textLangLenMask)
	if 1+langLen > len(payload) {
		return "", "", ErrTruncated
	}
	lang = string(payload[1 : 1+langLen])
	body := payload[1+langLen:]

	if status&textUTF16Flag != 0 {
		dec := unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()
		out, err := dec.Bytes(body)
		if err != nil {
			return "", "", ErrInvalidText
		}
		return lang, string(out), nil
	}
	if !utf8.Valid(body) {
		return "", "", ErrInvalidText
	}
	return lang, string(body), nil
}
