package ndef

import (
	"strings"
	"unicode/utf8"
)

// uriPrefixes is the NFC Forum URI identifier code table.
var uriPrefixes = []string{
	"",
	"http://www.",
	"https://www.",
	"http://",
	"https://",
	"tel:",
	"mailto:",
	"ftp://anonymous:anonymous@",
	"ftp://ftp.",
	"ftps://",
	"sftp://",
	"smb://",
	"nfs://",
	"ftp://",
	"dav://",
	"news:",
	"telnet://",
	"imap:",
	"rtsp://",
	"urn:",
	"pop:",
	"sip:",
	"sips:",
	"tftp:",
	"btspp://",
	"btl2cap://",
	"btgoep://",
	"tcpobex://",
	"irdaobex://",
	"file://",
	"urn:epc:id:",
	"urn:epc:tag:",
	"urn:epc:pat:",
	"urn:epc:raw:",
	"urn:epc:",
	"urn:nfc:",
}

// NewURIRecord creates a well-known URI record using the longest matching
// identifier code.
func NewURIRecord(uri string) Record {
	code := 0
	for i := 1; i < len(uriPrefixes); i++ {
		if strings.HasPrefix(uri, uriPrefixes[i]) && len(uriPrefixes[i]) > len(uriPrefixes[code]) {
			code = i
		}
	}
	rest := uri[len(uriPrefixes[code]):]
	payload := make([]byte, 0, 1+len(rest))
	payload = append(payload, byte(code))
	payload = append(payload, rest...)
	return Record{TNF: TNFWellKnown, Type: []byte{'U'}, Payload: payload}
}

// URI decodes the address carried by a URI or absolute-URI record.
func (r Record) URI() (string, error) {
	switch {
	case r.TNF == TNFAbsoluteURI:
		if !utf8.Valid(r.Type) {
			return "", ErrInvalidURI
		}
		return string(r.Type), nil
	case r.Kind() == KindURI:
		return ParseURI(r.Payload)
	default:
		return "", ErrNotURI
	}
}

// ParseURI decodes a well-known URI payload. Unknown identifier codes are
// treated as no prefix.
func ParseURI(payload []byte) (string, error) {
	if len(payload) == 0 {
		return "", ErrInvalidURI
	}
	rest := payload[1:]
	if !utf8.Valid(rest) {
		return "", ErrInvalidURI
	}
	prefix := ""
	if code := int(payload[0]); code < len(uriPrefixes) {
		prefix = uriPrefixes[code]
	}
	return prefix + string(rest), nil
}
