package card

import "strings"

// DefaultStatus is the policy status assumed when none was recorded.
const DefaultStatus = "Active"

// Kind names the closed set of entities a token record can decode into.
type Kind int

const (
	KindProfileLink Kind = iota + 1
	KindPersonalInfo
	KindEmergencyContact
	KindInsurancePolicy
	KindUnclassified
)

func (k Kind) String() string {
	switch k {
	case KindProfileLink:
		return "profile_link"
	case KindPersonalInfo:
		return "personal_info"
	case KindEmergencyContact:
		return "emergency_contact"
	case KindInsurancePolicy:
		return "insurance_policy"
	case KindUnclassified:
		return "unclassified"
	default:
		return "unknown"
	}
}

// Entity is implemented only by the record model types in this package.
type Entity interface {
	Kind() Kind
	sealed()
}

var (
	_ Entity = ProfileLink{}
	_ Entity = PersonalInfo{}
	_ Entity = EmergencyContact{}
	_ Entity = InsurancePolicy{}
	_ Entity = Unclassified{}
)

// ProfileLink is the token's canonical profile address.
type ProfileLink struct {
	URI string `json:"uri" yaml:"uri"`
}

func (ProfileLink) Kind() Kind { return KindProfileLink }
func (ProfileLink) sealed()    {}

// Present reports whether the link carries an address.
func (l ProfileLink) Present() bool {
	return strings.TrimSpace(l.URI) != ""
}

// ProfileLinkFor builds the public profile address for slug under base.
func ProfileLinkFor(base, slug string) ProfileLink {
	slug = strings.Trim(strings.TrimSpace(slug), "/")
	if slug == "" {
		return ProfileLink{}
	}
	return ProfileLink{URI: strings.TrimRight(strings.TrimSpace(base), "/") + "/profile/" + slug}
}

// PersonalInfo is the owner's contact card.
type PersonalInfo struct {
	Name         string `json:"name,omitempty" yaml:"name,omitempty"`
	Phone        string `json:"phone,omitempty" yaml:"phone,omitempty"`
	Email        string `json:"email,omitempty" yaml:"email,omitempty"`
	Organization string `json:"organization,omitempty" yaml:"organization,omitempty"`
	JobTitle     string `json:"job_title,omitempty" yaml:"job_title,omitempty"`
	Address      string `json:"address,omitempty" yaml:"address,omitempty"`
	Website      string `json:"website,omitempty" yaml:"website,omitempty"`
	Notes        string `json:"notes,omitempty" yaml:"notes,omitempty"`
}

func (PersonalInfo) Kind() Kind { return KindPersonalInfo }
func (PersonalInfo) sealed()    {}

// Present requires a name and at least one way to reach the owner.
func (p PersonalInfo) Present() bool {
	return notBlank(p.Name) && (notBlank(p.Phone) || notBlank(p.Email))
}

// EmergencyContact is the person to call when the card owner cannot.
type EmergencyContact struct {
	Name              string `json:"name,omitempty" yaml:"name,omitempty"`
	Phone             string `json:"phone,omitempty" yaml:"phone,omitempty"`
	BloodGroup        string `json:"blood_group,omitempty" yaml:"blood_group,omitempty"`
	Location          string `json:"location,omitempty" yaml:"location,omitempty"`
	Relationship      string `json:"relationship,omitempty" yaml:"relationship,omitempty"`
	AlternateContact  string `json:"alternate_contact,omitempty" yaml:"alternate_contact,omitempty"`
	MedicalConditions string `json:"medical_conditions,omitempty" yaml:"medical_conditions,omitempty"`
	Allergies         string `json:"allergies,omitempty" yaml:"allergies,omitempty"`
}

func (EmergencyContact) Kind() Kind { return KindEmergencyContact }
func (EmergencyContact) sealed()    {}

// Present requires both a name and a phone number.
func (e EmergencyContact) Present() bool {
	return notBlank(e.Name) && notBlank(e.Phone)
}

// InsurancePolicy is one policy record. PolicyNumber is the business key
// used to match a card policy with its backend counterpart.
type InsurancePolicy struct {
	Policyholder string `json:"policyholder,omitempty" yaml:"policyholder,omitempty"`
	Age          string `json:"age,omitempty" yaml:"age,omitempty"`
	Insurer      string `json:"insurer,omitempty" yaml:"insurer,omitempty"`
	PolicyType   string `json:"policy_type,omitempty" yaml:"policy_type,omitempty"`
	Premium      string `json:"premium,omitempty" yaml:"premium,omitempty"`
	SumAssured   string `json:"sum_assured,omitempty" yaml:"sum_assured,omitempty"`
	StartDate    string `json:"start_date,omitempty" yaml:"start_date,omitempty"`
	EndDate      string `json:"end_date,omitempty" yaml:"end_date,omitempty"`
	Status       string `json:"status,omitempty" yaml:"status,omitempty"`
	Contact      string `json:"contact,omitempty" yaml:"contact,omitempty"`
	Mobile       string `json:"mobile,omitempty" yaml:"mobile,omitempty"`
	PolicyNumber string `json:"policy_number,omitempty" yaml:"policy_number,omitempty"`
}

func (InsurancePolicy) Kind() Kind { return KindInsurancePolicy }
func (InsurancePolicy) sealed()    {}

// Present reports whether the policy carries enough to be worth writing.
func (p InsurancePolicy) Present() bool {
	return notBlank(p.Policyholder) || notBlank(p.PolicyNumber)
}

// Identified reports whether the policy can take part in matching.
func (p InsurancePolicy) Identified() bool {
	return notBlank(p.PolicyNumber)
}

// EffectiveStatus returns Status, or DefaultStatus when it is blank.
func (p InsurancePolicy) EffectiveStatus() string {
	if notBlank(p.Status) {
		return p.Status
	}
	return DefaultStatus
}

// Unclassified keeps a record that matched no known entity, for display.
type Unclassified struct {
	Index int    `json:"index" yaml:"index"`
	Label string `json:"label" yaml:"label"`
	Text  string `json:"text" yaml:"text"`
}

func (Unclassified) Kind() Kind { return KindUnclassified }
func (Unclassified) sealed()    {}

func notBlank(s string) bool {
	return strings.TrimSpace(s) != ""
}
