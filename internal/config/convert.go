package config

import (
	"strings"

	"github.com/nattsrk/AnurVCardPro/internal/card"
)

// Contents converts the file into the card model in canonical form, so
// what a write stores is what a later read returns. Blank sections are left
// out.
func (d CardData) Contents() card.Contents {
	var out card.Contents
	if link := strings.TrimSpace(d.Link); link != "" {
		out.Link = &card.ProfileLink{URI: link}
	}
	if d.Personal != nil {
		p := card.PersonalInfo(*d.Personal)
		out.Personal = &p
	}
	if d.Emergency != nil {
		e := card.EmergencyContact(*d.Emergency)
		out.Emergency = &e
	}
	for _, p := range d.Policies {
		out.Policies = append(out.Policies, card.InsurancePolicy(p))
	}
	return out.Canonical()
}

// FromContents is the inverse of Contents, used to dump a card to a file.
func FromContents(c card.Contents) CardData {
	var out CardData
	if c.Link != nil {
		out.Link = c.Link.URI
	}
	if c.Personal != nil {
		p := PersonalEntry(*c.Personal)
		out.Personal = &p
	}
	if c.Emergency != nil {
		e := EmergencyEntry(*c.Emergency)
		out.Emergency = &e
	}
	for _, p := range c.Policies {
		out.Policies = append(out.Policies, PolicyEntry(p))
	}
	return out
}
