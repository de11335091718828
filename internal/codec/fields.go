package codec

import (
	"strings"

	"github.com/nattsrk/AnurVCardPro/internal/card"
)

// lineField binds one "Label: value" line to an entity field. The first
// alias is the label the encoder writes.
type lineField[T any] struct {
	aliases []string
	get     func(T) string
	set     func(*T, string)
}

func (f lineField[T]) label() string {
	return f.aliases[0]
}

func (f lineField[T]) matches(label string) bool {
	for _, alias := range f.aliases {
		if strings.EqualFold(alias, label) {
			return true
		}
	}
	return false
}

const (
	emergencyHeader = "EMERGENCY CONTACT INFORMATION"
	policyHeader    = "INSURANCE INFORMATION - POLICY"

	emergencyMarker = "EMERGENCY"
	insuranceMarker = "INSURANCE"
)

var emergencyFields = []lineField[card.EmergencyContact]{
	{
		aliases: []string{"Name", "Contact Name", "Emergency Contact"},
		get:     func(e card.EmergencyContact) string { return e.Name },
		set:     func(e *card.EmergencyContact, v string) { e.Name = v },
	},
	{
		aliases: []string{"Mobile", "Phone", "Mobile Number", "Contact Number"},
		get:     func(e card.EmergencyContact) string { return e.Phone },
		set:     func(e *card.EmergencyContact, v string) { e.Phone = v },
	},
	{
		aliases: []string{"Blood Group", "Blood Type"},
		get:     func(e card.EmergencyContact) string { return card.CleanBloodGroup(e.BloodGroup) },
		set:     func(e *card.EmergencyContact, v string) { e.BloodGroup = card.CleanBloodGroup(v) },
	},
	{
		aliases: []string{"Location", "Address"},
		get:     func(e card.EmergencyContact) string { return e.Location },
		set:     func(e *card.EmergencyContact, v string) { e.Location = v },
	},
	{
		aliases: []string{"Relationship", "Relation"},
		get:     func(e card.EmergencyContact) string { return e.Relationship },
		set:     func(e *card.EmergencyContact, v string) { e.Relationship = v },
	},
	{
		aliases: []string{"Alternate Contact", "Alternate Phone"},
		get:     func(e card.EmergencyContact) string { return e.AlternateContact },
		set:     func(e *card.EmergencyContact, v string) { e.AlternateContact = v },
	},
	{
		aliases: []string{"Medical Conditions", "Conditions"},
		get:     func(e card.EmergencyContact) string { return e.MedicalConditions },
		set:     func(e *card.EmergencyContact, v string) { e.MedicalConditions = v },
	},
	{
		aliases: []string{"Allergies"},
		get:     func(e card.EmergencyContact) string { return e.Allergies },
		set:     func(e *card.EmergencyContact, v string) { e.Allergies = v },
	},
}

var policyFields = []lineField[card.InsurancePolicy]{
	{
		aliases: []string{"Policyholder", "Policy Holder", "Policyholder Name"},
		get:     func(p card.InsurancePolicy) string { return p.Policyholder },
		set:     func(p *card.InsurancePolicy, v string) { p.Policyholder = v },
	},
	{
		aliases: []string{"Age"},
		get:     func(p card.InsurancePolicy) string { return p.Age },
		set:     func(p *card.InsurancePolicy, v string) { p.Age = v },
	},
	{
		aliases: []string{"Insurer", "Insurer Name", "Insurance Company"},
		get:     func(p card.InsurancePolicy) string { return p.Insurer },
		set:     func(p *card.InsurancePolicy, v string) { p.Insurer = v },
	},
	{
		aliases: []string{"Policy Type", "Plan Type"},
		get:     func(p card.InsurancePolicy) string { return p.PolicyType },
		set:     func(p *card.InsurancePolicy, v string) { p.PolicyType = v },
	},
	{
		aliases: []string{"Premium", "Premium Amount"},
		get:     func(p card.InsurancePolicy) string { return p.Premium },
		set:     func(p *card.InsurancePolicy, v string) { p.Premium = v },
	},
	{
		aliases: []string{"Sum Assured", "Coverage", "Coverage Amount"},
		get:     func(p card.InsurancePolicy) string { return p.SumAssured },
		set:     func(p *card.InsurancePolicy, v string) { p.SumAssured = v },
	},
	{
		aliases: []string{"Policy Start", "Start Date", "Policy Start Date"},
		get:     func(p card.InsurancePolicy) string { return p.StartDate },
		set:     func(p *card.InsurancePolicy, v string) { p.StartDate = v },
	},
	{
		aliases: []string{"Policy End", "End Date", "Policy End Date"},
		get:     func(p card.InsurancePolicy) string { return p.EndDate },
		set:     func(p *card.InsurancePolicy, v string) { p.EndDate = v },
	},
	{
		aliases: []string{"Status"},
		get:     func(p card.InsurancePolicy) string { return p.EffectiveStatus() },
		set:     func(p *card.InsurancePolicy, v string) { p.Status = v },
	},
	{
		aliases: []string{"Contact", "Contact Number"},
		get:     func(p card.InsurancePolicy) string { return p.Contact },
		set:     func(p *card.InsurancePolicy, v string) { p.Contact = v },
	},
	{
		aliases: []string{"Mobile", "Mobile Number"},
		get:     func(p card.InsurancePolicy) string { return p.Mobile },
		set:     func(p *card.InsurancePolicy, v string) { p.Mobile = v },
	},
	{
		aliases: []string{"Policy Number", "Policy No", "Policy #", "Policy ID"},
		get:     func(p card.InsurancePolicy) string { return p.PolicyNumber },
		set:     func(p *card.InsurancePolicy, v string) { p.PolicyNumber = v },
	},
}
