package codec

import (
	"fmt"
	"strings"

	"github.com/nattsrk/AnurVCardPro/internal/card"
	"github.com/nattsrk/AnurVCardPro/internal/protocol/ndef"
)

// TextLanguage is the language code written on every text record.
const TextLanguage = "en"

// Input is everything the encoder accepts. Unclassified records are not
// encodable and have no place here.
type Input struct {
	Link      *card.ProfileLink
	Personal  *card.PersonalInfo
	Emergency *card.EmergencyContact
	Policies  []card.InsurancePolicy
}

// InputFrom drops the parts of c the encoder cannot write.
func InputFrom(c card.Contents) Input {
	c = c.Clone()
	return Input{
		Link:      c.Link,
		Personal:  c.Personal,
		Emergency: c.Emergency,
		Policies:  c.Policies,
	}
}

// Encode builds the record sequence for in: link, personal info, emergency
// contact, then policies in the given order. Entities that fail their
// presence check are skipped. A capacity of zero or less disables the size
// check.
func Encode(in Input, capacity int) ([]ndef.Record, error) {
	records := make([]ndef.Record, 0, 3+len(in.Policies))

	if in.Link != nil && in.Link.Present() {
		records = append(records, ndef.NewURIRecord(strings.TrimSpace(in.Link.URI)))
	}
	if in.Personal != nil && in.Personal.Present() {
		records = append(records, ndef.NewMIMERecord(vcardMediaType, []byte(renderVCard(*in.Personal))))
	}
	if in.Emergency != nil && in.Emergency.Present() {
		rec, err := ndef.NewTextRecord(TextLanguage, renderLines(emergencyHeader, emergencyFields, *in.Emergency))
		if err != nil {
			return nil, fmt.Errorf("encode emergency contact: %w", err)
		}
		records = append(records, rec)
	}
	n := 0
	for _, p := range in.Policies {
		if !p.Present() {
			continue
		}
		n++
		header := fmt.Sprintf("%s %d", policyHeader, n)
		rec, err := ndef.NewTextRecord(TextLanguage, renderLines(header, policyFields, p))
		if err != nil {
			return nil, fmt.Errorf("encode policy %d: %w", n, err)
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, ErrEmpty
	}
	if capacity > 0 {
		size, err := ndef.EncodedSize(records)
		if err != nil {
			return nil, fmt.Errorf("encode: %w", err)
		}
		if size > capacity {
			return nil, &CapacityError{Needed: size, Available: capacity}
		}
	}
	return records, nil
}

// EncodeContents is Encode over InputFrom(c).
func EncodeContents(c card.Contents, capacity int) ([]ndef.Record, error) {
	return Encode(InputFrom(c), capacity)
}
