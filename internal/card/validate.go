package card

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phonePattern = regexp.MustCompile(`^[+]?[0-9\s\-()]{7,15}$`)
	urlPattern   = regexp.MustCompile(`^https?://[\w\-.]+(:\d+)?(/.*)?$`)

	bloodGroups = map[string]struct{}{
		"A+": {}, "A-": {}, "B+": {}, "B-": {},
		"AB+": {}, "AB-": {}, "O+": {}, "O-": {},
	}
)

func ValidEmail(s string) bool { return emailPattern.MatchString(s) }

func ValidPhone(s string) bool { return phonePattern.MatchString(s) }

func ValidURL(s string) bool { return urlPattern.MatchString(s) }

func ValidBloodGroup(s string) bool {
	_, ok := bloodGroups[strings.ToUpper(strings.TrimSpace(s))]
	return ok
}

// Warnings lists non-fatal problems with the filled-in fields.
func (p PersonalInfo) Warnings() []string {
	var out []string
	if notBlank(p.Email) && !ValidEmail(p.Email) {
		out = append(out, fmt.Sprintf("email %q does not look valid", p.Email))
	}
	if notBlank(p.Phone) && !ValidPhone(p.Phone) {
		out = append(out, fmt.Sprintf("phone %q does not look valid", p.Phone))
	}
	if notBlank(p.Website) && !ValidURL(p.Website) {
		out = append(out, fmt.Sprintf("website %q does not look valid", p.Website))
	}
	return out
}

// Warnings lists non-fatal problems with the filled-in fields.
func (e EmergencyContact) Warnings() []string {
	var out []string
	if notBlank(e.Phone) && !ValidPhone(e.Phone) {
		out = append(out, fmt.Sprintf("phone %q does not look valid", e.Phone))
	}
	if notBlank(e.BloodGroup) && !ValidBloodGroup(e.BloodGroup) {
		out = append(out, fmt.Sprintf("blood group %q is not one of A/B/AB/O +/-", e.BloodGroup))
	}
	return out
}
