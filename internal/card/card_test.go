package card

import (
	"reflect"
	"testing"

	"github.com/nattsrk/AnurVCardPro/internal/testutil/testlog"
)

func TestPresenceInvariants(t *testing.T) {
	testlog.Start(t)
	if (PersonalInfo{Name: "", Phone: "555"}).Present() {
		t.Fatalf("personal info without name must not be present")
	}
	if (PersonalInfo{Name: "Jane"}).Present() {
		t.Fatalf("personal info without phone or email must not be present")
	}
	if !(PersonalInfo{Name: "Jane", Email: "j@x.io"}).Present() {
		t.Fatalf("personal info with name and email must be present")
	}
	if (EmergencyContact{Name: "Raj"}).Present() {
		t.Fatalf("emergency contact without phone must not be present")
	}
	if !(EmergencyContact{Name: "Raj", Phone: "999"}).Present() {
		t.Fatalf("emergency contact with name and phone must be present")
	}
	if (InsurancePolicy{Insurer: "LIC"}).Present() {
		t.Fatalf("policy without holder or number must not be present")
	}
	if !(InsurancePolicy{Policyholder: "Jane"}).Present() {
		t.Fatalf("policy with holder must be present")
	}
	if (InsurancePolicy{Policyholder: "Jane"}).Identified() {
		t.Fatalf("policy without number must not be identified")
	}
}

func TestEffectiveStatusDefaultsToActive(t *testing.T) {
	testlog.Start(t)
	if got := (InsurancePolicy{}).EffectiveStatus(); got != DefaultStatus {
		t.Fatalf("unexpected default status: %q", got)
	}
	if got := (InsurancePolicy{Status: "Lapsed"}).EffectiveStatus(); got != "Lapsed" {
		t.Fatalf("unexpected status: %q", got)
	}
}

func TestProfileLinkFor(t *testing.T) {
	testlog.Start(t)
	got := ProfileLinkFor("https://vcard.example.com:3000/", "/jane-doe")
	if got.URI != "https://vcard.example.com:3000/profile/jane-doe" {
		t.Fatalf("unexpected link: %q", got.URI)
	}
	if ProfileLinkFor("https://x", "  ").Present() {
		t.Fatalf("blank slug must not produce a link")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	testlog.Start(t)
	orig := Contents{
		Personal: &PersonalInfo{Name: "Jane", Phone: "1"},
		Policies: []InsurancePolicy{{PolicyNumber: "POL-1"}},
	}
	cp := orig.Clone()
	cp.Personal.Name = "Changed"
	cp.Policies[0].PolicyNumber = "POL-9"
	if orig.Personal.Name != "Jane" || orig.Policies[0].PolicyNumber != "POL-1" {
		t.Fatalf("clone shares state with original: %+v", orig)
	}
}

func TestEntitiesOrderAndDataTypes(t *testing.T) {
	testlog.Start(t)
	c := Contents{
		Link:      &ProfileLink{URI: "https://x/profile/a"},
		Emergency: &EmergencyContact{Name: "Raj", Phone: "9"},
		Policies:  []InsurancePolicy{{PolicyNumber: "A"}, {Policyholder: "B"}},
	}
	kinds := make([]Kind, 0)
	for _, e := range c.Entities() {
		kinds = append(kinds, e.Kind())
	}
	want := []Kind{KindProfileLink, KindEmergencyContact, KindInsurancePolicy, KindInsurancePolicy}
	if !reflect.DeepEqual(kinds, want) {
		t.Fatalf("unexpected entity order: %v", kinds)
	}
	types := c.DataTypes()
	if !reflect.DeepEqual(types, []string{"profile_link", "emergency_contact", "insurance_policy"}) {
		t.Fatalf("unexpected data types: %v", types)
	}
	if !reflect.DeepEqual(c.PolicyNumbers(), []string{"A"}) {
		t.Fatalf("unexpected policy numbers: %v", c.PolicyNumbers())
	}
}

func TestValidators(t *testing.T) {
	testlog.Start(t)
	cases := []struct {
		name string
		ok   bool
	}{
		{"email", ValidEmail("jane@example.com")},
		{"phone", ValidPhone("+91 98765-43210")},
		{"url", ValidURL("https://vcard.example.com:3000/profile/jane")},
		{"blood", ValidBloodGroup("ab-")},
	}
	for _, tc := range cases {
		if !tc.ok {
			t.Fatalf("%s: expected valid", tc.name)
		}
	}
	if ValidBloodGroup("C+") || ValidEmail("nope") || ValidURL("ftp://x") {
		t.Fatalf("expected invalid values to be rejected")
	}
	w := EmergencyContact{Name: "Raj", Phone: "12", BloodGroup: "Z"}.Warnings()
	if len(w) != 2 {
		t.Fatalf("expected two warnings, got %v", w)
	}
}

func TestAmounts(t *testing.T) {
	testlog.Start(t)
	if got := FormatAmount(25000); got != "₹25000" {
		t.Fatalf("unexpected format: %q", got)
	}
	cases := map[string]float64{
		"₹25000":               25000,
		"₹1,00,00,000 (1 Crore)": 10000000,
		"12,500.50 (Annual)":   12500.5,
		"n/a":                  0,
		"":                     0,
	}
	for in, want := range cases {
		if got := ParseAmount(in); got != want {
			t.Fatalf("ParseAmount(%q)=%v want %v", in, got, want)
		}
	}
}

func TestCanonicalForms(t *testing.T) {
	testlog.Start(t)
	c := Contents{
		Link:      &ProfileLink{URI: " https://x.test/profile/jane "},
		Personal:  &PersonalInfo{Name: " Jane ", Notes: "one\r\ntwo\r"},
		Emergency: &EmergencyContact{Name: "Raj\n", BloodGroup: "O+ (Universal Donor)", Allergies: "dust\r\npollen"},
		Policies:  []InsurancePolicy{{PolicyNumber: " POL-2 ", Insurer: "LIC\n", Status: " "}},
	}
	got := c.Canonical()

	if got.Link.URI != "https://x.test/profile/jane" {
		t.Fatalf("unexpected link: %q", got.Link.URI)
	}
	if got.Personal.Name != "Jane" || got.Personal.Notes != "one\ntwo" {
		t.Fatalf("unexpected personal: %+v", *got.Personal)
	}
	wantEmergency := EmergencyContact{Name: "Raj", BloodGroup: "O+", Allergies: "dust pollen"}
	if !reflect.DeepEqual(*got.Emergency, wantEmergency) {
		t.Fatalf("unexpected emergency: %+v", *got.Emergency)
	}
	wantPolicy := InsurancePolicy{PolicyNumber: "POL-2", Insurer: "LIC"}
	if !reflect.DeepEqual(got.Policies[0], wantPolicy) {
		t.Fatalf("unexpected policy: %+v", got.Policies[0])
	}
	if c.Policies[0].PolicyNumber != " POL-2 " || c.Personal.Name != " Jane " {
		t.Fatalf("Canonical must not mutate its receiver")
	}
	if got.Canonical().Policies[0] != got.Policies[0] {
		t.Fatalf("Canonical must be idempotent")
	}
}

func TestPolicyKeyAndBloodGroup(t *testing.T) {
	testlog.Start(t)
	if got := (InsurancePolicy{PolicyNumber: "\tPOL-1 "}).Key(); got != "POL-1" {
		t.Fatalf("unexpected key: %q", got)
	}
	if got := (Contents{Policies: []InsurancePolicy{{PolicyNumber: "POL-1 "}, {Insurer: "LIC"}}}).PolicyNumbers(); !reflect.DeepEqual(got, []string{"POL-1"}) {
		t.Fatalf("unexpected numbers: %v", got)
	}
	cases := map[string]string{
		"O+ (Universal Donor)": "O+",
		" AB- ":                "AB-",
		"(unknown)":            "(unknown)",
		"B+":                   "B+",
	}
	for in, want := range cases {
		if got := CleanBloodGroup(in); got != want {
			t.Fatalf("CleanBloodGroup(%q) = %q, want %q", in, got, want)
		}
	}
}
