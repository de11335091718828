package codec

import (
	"strings"

	"github.com/nattsrk/AnurVCardPro/internal/card"
)

const vcardMediaType = "text/vcard"

var vcardEscaper = strings.NewReplacer(
	`\`, `\\`,
	`;`, `\;`,
	`,`, `\,`,
	"\r\n", `\n`,
	"\r", `\n`,
	"\n", `\n`,
)

func renderVCard(p card.PersonalInfo) string {
	var b strings.Builder
	b.WriteString("BEGIN:VCARD\n")
	b.WriteString("VERSION:3.0\n")
	prop := func(name, value string) {
		if strings.TrimSpace(value) == "" {
			return
		}
		b.WriteString(name)
		b.WriteByte(':')
		b.WriteString(vcardEscaper.Replace(value))
		b.WriteByte('\n')
	}
	prop("FN", p.Name)
	prop("TEL", p.Phone)
	prop("EMAIL", p.Email)
	prop("ORG", p.Organization)
	prop("TITLE", p.JobTitle)
	if strings.TrimSpace(p.Address) != "" {
		b.WriteString("ADR:;;")
		b.WriteString(vcardEscaper.Replace(p.Address))
		b.WriteString(";;;;\n")
	}
	prop("URL", p.Website)
	prop("NOTE", p.Notes)
	b.WriteString("END:VCARD")
	return b.String()
}

type vcardProperty struct {
	name  string
	value string
}

var vcardKnown = map[string]struct{}{
	"BEGIN": {}, "END": {}, "VERSION": {},
	"FN": {}, "N": {}, "TEL": {}, "EMAIL": {}, "ORG": {},
	"TITLE": {}, "ADR": {}, "URL": {}, "NOTE": {},
}

// parseVCard extracts personal info. ok is false when no contact property
// was recognised.
func parseVCard(text string) (card.PersonalInfo, bool) {
	var (
		out      card.PersonalInfo
		fallback string
		matched  bool
	)
	for _, line := range splitLines(text) {
		if strings.EqualFold(line, "END:VCARD") {
			break
		}
		for _, prop := range splitProperties(line) {
			switch prop.name {
			case "FN":
				out.Name = unescapeVCard(prop.value)
			case "N":
				fallback = structuredName(prop.value)
			case "TEL":
				out.Phone = unescapeVCard(prop.value)
			case "EMAIL":
				out.Email = unescapeVCard(prop.value)
			case "ORG":
				out.Organization = joinComponents(prop.value, " ")
			case "TITLE":
				out.JobTitle = unescapeVCard(prop.value)
			case "ADR":
				out.Address = joinComponents(prop.value, ", ")
			case "URL":
				out.Website = unescapeVCard(prop.value)
			case "NOTE":
				out.Notes = unescapeVCard(prop.value)
			default:
				continue
			}
			matched = true
		}
	}
	if strings.TrimSpace(out.Name) == "" {
		out.Name = fallback
	}
	return out, matched
}

// Single-valued properties some writers chain on one line, as in
// "TEL:123;EMAIL:a@b.c". Structured values (N, ORG, ADR) use ';' as their
// component separator and are never split.
var vcardChained = map[string]struct{}{
	"FN": {}, "TEL": {}, "EMAIL": {}, "URL": {}, "NOTE": {},
}

// splitProperties parses one content line. Parameters after the property
// name are dropped. On a chained property, a value segment that itself
// looks like a known or extension "KEY:value" starts a new property.
func splitProperties(line string) []vcardProperty {
	colon := indexUnescaped(line, ':')
	if colon <= 0 {
		return nil
	}
	name := propertyName(line[:colon])
	if _, ok := vcardChained[name]; !ok {
		return []vcardProperty{{name: name, value: line[colon+1:]}}
	}
	var props []vcardProperty
	current := vcardProperty{name: name}
	var value []string
	for i, part := range splitUnescaped(line[colon+1:], ';') {
		if i > 0 {
			if next, ok := segmentProperty(part); ok {
				current.value = strings.Join(value, ";")
				props = append(props, current)
				current, value = next, []string{next.value}
				continue
			}
		}
		value = append(value, part)
	}
	current.value = strings.Join(value, ";")
	return append(props, current)
}

func segmentProperty(part string) (vcardProperty, bool) {
	colon := indexUnescaped(part, ':')
	if colon <= 0 {
		return vcardProperty{}, false
	}
	name := propertyName(part[:colon])
	if _, ok := vcardKnown[name]; !ok && !strings.HasPrefix(name, "X-") {
		return vcardProperty{}, false
	}
	return vcardProperty{name: name, value: part[colon+1:]}, true
}

func propertyName(head string) string {
	if semi := strings.IndexByte(head, ';'); semi >= 0 {
		head = head[:semi]
	}
	// Grouped names look like "item1.TEL".
	if dot := strings.LastIndexByte(head, '.'); dot >= 0 {
		head = head[dot+1:]
	}
	return strings.ToUpper(strings.TrimSpace(head))
}

func structuredName(value string) string {
	parts := splitUnescaped(value, ';')
	for i := range parts {
		parts[i] = strings.TrimSpace(unescapeVCard(parts[i]))
	}
	at := func(i int) string {
		if i < len(parts) {
			return parts[i]
		}
		return ""
	}
	// family;given;additional;prefix;suffix
	ordered := []string{at(3), at(1), at(2), at(0), at(4)}
	out := ordered[:0]
	for _, p := range ordered {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}

func joinComponents(value, sep string) string {
	var out []string
	for _, part := range splitUnescaped(value, ';') {
		if part = strings.TrimSpace(unescapeVCard(part)); part != "" {
			out = append(out, part)
		}
	}
	return strings.Join(out, sep)
}

func indexUnescaped(s string, sep byte) int {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case sep:
			return i
		}
	}
	return -1
}

// splitUnescaped splits on sep, leaving escape sequences in place.
func splitUnescaped(s string, sep byte) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case sep:
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	return append(out, s[start:])
}

func unescapeVCard(s string) string {
	if strings.IndexByte(s, '\\') < 0 {
		return strings.TrimSpace(s)
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'n', 'N':
			b.WriteByte('\n')
		default:
			b.WriteByte(s[i])
		}
	}
	return strings.TrimSpace(b.String())
}
