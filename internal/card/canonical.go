package card

import "strings"

// The token stores every value trimmed. Single-line fields (emergency and
// policy) additionally have line breaks folded to spaces, and a blood group
// loses a trailing "(...)" note. Canonical forms apply the same rules up
// front, so a canonical value reads back from a token unchanged.

// CleanLine folds CR, LF and CRLF to a space and trims the result.
func CleanLine(v string) string {
	v = strings.ReplaceAll(v, "\r\n", " ")
	v = strings.ReplaceAll(v, "\r", " ")
	v = strings.ReplaceAll(v, "\n", " ")
	return strings.TrimSpace(v)
}

// CleanText normalises line breaks to LF and trims the result.
func CleanText(v string) string {
	v = strings.ReplaceAll(v, "\r\n", "\n")
	v = strings.ReplaceAll(v, "\r", "\n")
	return strings.TrimSpace(v)
}

// CleanBloodGroup drops a trailing "(...)" note such as "O+ (Universal Donor)".
func CleanBloodGroup(v string) string {
	v = CleanLine(v)
	if !strings.HasSuffix(v, ")") {
		return v
	}
	i := strings.LastIndex(v, "(")
	if i <= 0 {
		return v
	}
	return strings.TrimSpace(v[:i])
}

// Key is the policy number used for matching.
func (p InsurancePolicy) Key() string {
	return strings.TrimSpace(p.PolicyNumber)
}

func (l ProfileLink) Canonical() ProfileLink {
	return ProfileLink{URI: strings.TrimSpace(l.URI)}
}

func (p PersonalInfo) Canonical() PersonalInfo {
	return PersonalInfo{
		Name:         CleanText(p.Name),
		Phone:        CleanText(p.Phone),
		Email:        CleanText(p.Email),
		Organization: CleanText(p.Organization),
		JobTitle:     CleanText(p.JobTitle),
		Address:      CleanText(p.Address),
		Website:      CleanText(p.Website),
		Notes:        CleanText(p.Notes),
	}
}

func (e EmergencyContact) Canonical() EmergencyContact {
	return EmergencyContact{
		Name:              CleanLine(e.Name),
		Phone:             CleanLine(e.Phone),
		BloodGroup:        CleanBloodGroup(e.BloodGroup),
		Location:          CleanLine(e.Location),
		Relationship:      CleanLine(e.Relationship),
		AlternateContact:  CleanLine(e.AlternateContact),
		MedicalConditions: CleanLine(e.MedicalConditions),
		Allergies:         CleanLine(e.Allergies),
	}
}

// Canonical keeps a blank Status blank; EffectiveStatus covers the default.
func (p InsurancePolicy) Canonical() InsurancePolicy {
	return InsurancePolicy{
		Policyholder: CleanLine(p.Policyholder),
		Age:          CleanLine(p.Age),
		Insurer:      CleanLine(p.Insurer),
		PolicyType:   CleanLine(p.PolicyType),
		Premium:      CleanLine(p.Premium),
		SumAssured:   CleanLine(p.SumAssured),
		StartDate:    CleanLine(p.StartDate),
		EndDate:      CleanLine(p.EndDate),
		Status:       CleanLine(p.Status),
		Contact:      CleanLine(p.Contact),
		Mobile:       CleanLine(p.Mobile),
		PolicyNumber: CleanLine(p.PolicyNumber),
	}
}

// Canonical returns a copy of c with every entity in canonical form.
// Unclassified records are display-only and are copied as they are.
func (c Contents) Canonical() Contents {
	out := c.Clone()
	if out.Link != nil {
		l := out.Link.Canonical()
		out.Link = &l
	}
	if out.Personal != nil {
		p := out.Personal.Canonical()
		out.Personal = &p
	}
	if out.Emergency != nil {
		e := out.Emergency.Canonical()
		out.Emergency = &e
	}
	for i := range out.Policies {
		out.Policies[i] = out.Policies[i].Canonical()
	}
	return out
}
