package card

// Contents is one decoded view of a token.
type Contents struct {
	Link         *ProfileLink      `json:"link,omitempty" yaml:"link,omitempty"`
	Personal     *PersonalInfo     `json:"personal,omitempty" yaml:"personal,omitempty"`
	Emergency    *EmergencyContact `json:"emergency,omitempty" yaml:"emergency,omitempty"`
	Policies     []InsurancePolicy `json:"policies,omitempty" yaml:"policies,omitempty"`
	Unclassified []Unclassified    `json:"unclassified,omitempty" yaml:"unclassified,omitempty"`
}

// Clone returns a deep copy of c.
func (c Contents) Clone() Contents {
	out := Contents{}
	if c.Link != nil {
		v := *c.Link
		out.Link = &v
	}
	if c.Personal != nil {
		v := *c.Personal
		out.Personal = &v
	}
	if c.Emergency != nil {
		v := *c.Emergency
		out.Emergency = &v
	}
	if len(c.Policies) > 0 {
		out.Policies = append([]InsurancePolicy(nil), c.Policies...)
	}
	if len(c.Unclassified) > 0 {
		out.Unclassified = append([]Unclassified(nil), c.Unclassified...)
	}
	return out
}

// WithPolicies returns a copy of c whose policy list is policies.
func (c Contents) WithPolicies(policies []InsurancePolicy) Contents {
	out := c.Clone()
	out.Policies = append([]InsurancePolicy(nil), policies...)
	return out
}

// IsEmpty reports whether nothing at all was decoded.
func (c Contents) IsEmpty() bool {
	return c.Link == nil && c.Personal == nil && c.Emergency == nil &&
		len(c.Policies) == 0 && len(c.Unclassified) == 0
}

// Entities lists the contents in on-token order.
func (c Contents) Entities() []Entity {
	out := make([]Entity, 0, 3+len(c.Policies)+len(c.Unclassified))
	if c.Link != nil {
		out = append(out, *c.Link)
	}
	if c.Personal != nil {
		out = append(out, *c.Personal)
	}
	if c.Emergency != nil {
		out = append(out, *c.Emergency)
	}
	for _, p := range c.Policies {
		out = append(out, p)
	}
	for _, u := range c.Unclassified {
		out = append(out, u)
	}
	return out
}

// DataTypes lists the distinct entity kinds present, in on-token order.
func (c Contents) DataTypes() []string {
	seen := make(map[Kind]struct{})
	out := make([]string, 0, 5)
	for _, e := range c.Entities() {
		if _, ok := seen[e.Kind()]; ok {
			continue
		}
		seen[e.Kind()] = struct{}{}
		out = append(out, e.Kind().String())
	}
	return out
}

// PolicyNumbers returns the identified policy numbers in order.
func (c Contents) PolicyNumbers() []string {
	out := make([]string, 0, len(c.Policies))
	for _, p := range c.Policies {
		if p.Identified() {
			out = append(out, p.Key())
		}
	}
	return out
}
