package codec

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/nattsrk/AnurVCardPro/internal/card"
	"github.com/nattsrk/AnurVCardPro/internal/protocol/ndef"
)

const maxPreviewRunes = 100

// Decode classifies every record and gathers the results. It accepts any
// record sequence and never fails.
func Decode(records []ndef.Record) card.Contents {
	b := builder{}
	for i, rec := range records {
		b = b.with(Classify(i+1, rec))
	}
	return b.Build()
}

// Classify maps one record to an entity. index is 1-based and only used in
// diagnostic labels.
func Classify(index int, rec ndef.Record) card.Entity {
	switch rec.Kind() {
	case ndef.KindURI:
		uri, err := rec.URI()
		if err != nil {
			return unclassified(index, rec)
		}
		return card.ProfileLink{URI: uri}
	case ndef.KindMIME:
		if !strings.Contains(rec.MediaType(), "vcard") || !utf8.Valid(rec.Payload) {
			return unclassified(index, rec)
		}
		if info, ok := parseVCard(string(rec.Payload)); ok {
			return info
		}
		return unclassified(index, rec)
	case ndef.KindText:
		_, text, err := rec.Text()
		if err != nil {
			return unclassified(index, rec)
		}
		return classifyText(index, text)
	default:
		return unclassified(index, rec)
	}
}

func classifyText(index int, text string) card.Entity {
	// Headers and markers match regardless of case.
	upper := strings.ToUpper(strings.TrimSpace(text))
	switch {
	case strings.HasPrefix(upper, emergencyHeader):
		if e, n := parseLines(text, emergencyFields); n > 0 {
			return e
		}
	case strings.HasPrefix(upper, policyHeader), strings.Contains(upper, insuranceMarker):
		if p, n := parseLines(text, policyFields); n > 0 {
			if strings.TrimSpace(p.Status) == "" {
				p.Status = card.DefaultStatus
			}
			return p
		}
	case strings.Contains(upper, emergencyMarker):
		if e, n := parseLines(text, emergencyFields); n > 0 {
			return e
		}
	}
	return card.Unclassified{
		Index: index,
		Label: fmt.Sprintf("Text Record %d", index),
		Text:  text,
	}
}

func unclassified(index int, rec ndef.Record) card.Entity {
	var text string
	if utf8.Valid(rec.Payload) {
		text = string(rec.Payload)
	} else {
		text = hexPreview(rec.Payload)
	}
	return card.Unclassified{
		Index: index,
		Label: fmt.Sprintf("Record %d (%s)", index, rec.Label()),
		Text:  truncateRunes(text, maxPreviewRunes),
	}
}

func hexPreview(payload []byte) string {
	parts := make([]string, len(payload))
	for i, b := range payload {
		parts[i] = fmt.Sprintf("%02x", b)
	}
	return strings.Join(parts, " ")
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n]) + "..."
}

// builder accumulates decoded entities. with never mutates its receiver, so
// a builder value can be kept and extended more than once.
type builder struct {
	link         *card.ProfileLink
	personal     *card.PersonalInfo
	emergency    *card.EmergencyContact
	policies     []card.InsurancePolicy
	unclassified []card.Unclassified
}

func (b builder) with(e card.Entity) builder {
	switch v := e.(type) {
	case card.ProfileLink:
		b.link = &v
	case card.PersonalInfo:
		b.personal = &v
	case card.EmergencyContact:
		b.emergency = &v
	case card.InsurancePolicy:
		b.policies = append(slices.Clip(b.policies), v)
	case card.Unclassified:
		b.unclassified = append(slices.Clip(b.unclassified), v)
	}
	return b
}

// Build returns the gathered contents. Each call returns an independent copy.
func (b builder) Build() card.Contents {
	return card.Contents{
		Link:         b.link,
		Personal:     b.personal,
		Emergency:    b.emergency,
		Policies:     b.policies,
		Unclassified: b.unclassified,
	}.Clone()
}
