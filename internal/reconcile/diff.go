package reconcile

import (
	"fmt"

	"github.com/nattsrk/AnurVCardPro/internal/card"
)

type Side string

const (
	SideCard    Side = "card"
	SideBackend Side = "backend"
)

// Mismatch is one field that differs between the card and backend copies
// of the same policy.
type Mismatch struct {
	PolicyNumber string `json:"policy_number" yaml:"policy_number"`
	Field        string `json:"field" yaml:"field"`
	Card         string `json:"card" yaml:"card"`
	Backend      string `json:"backend" yaml:"backend"`
}

func (m Mismatch) String() string {
	return fmt.Sprintf("%s: %s differs (Card: %s, Backend: %s)", m.PolicyNumber, m.Field, m.Card, m.Backend)
}

// Anomaly is a policy that cannot take part in matching.
type Anomaly struct {
	Side   Side                 `json:"side" yaml:"side"`
	Index  int                  `json:"index" yaml:"index"`
	Reason string               `json:"reason" yaml:"reason"`
	Policy card.InsurancePolicy `json:"policy" yaml:"policy"`
}

func (a Anomaly) String() string {
	return fmt.Sprintf("%s policy %d: %s", a.Side, a.Index+1, a.Reason)
}

// DiffReport is the result of Compare.
type DiffReport struct {
	CardOnly    []card.InsurancePolicy `json:"card_only" yaml:"card_only"`
	BackendOnly []card.InsurancePolicy `json:"backend_only" yaml:"backend_only"`
	Mismatched  []Mismatch             `json:"mismatched" yaml:"mismatched"`
	Anomalies   []Anomaly              `json:"anomalies,omitempty" yaml:"anomalies,omitempty"`
	NeedsSync   bool                   `json:"needs_sync" yaml:"needs_sync"`
}

// MismatchLines renders the mismatches in report order.
func (d DiffReport) MismatchLines() []string {
	out := make([]string, 0, len(d.Mismatched))
	for _, m := range d.Mismatched {
		out = append(out, m.String())
	}
	return out
}

const (
	reasonNoNumber  = "no policy number"
	reasonDuplicate = "duplicate policy number"
)

// Compare matches card and backend policies on policy number, exactly and
// case-sensitively once surrounding whitespace is trimmed. Both sides are
// compared in canonical form. Duplicate numbers keep their first occurrence and are
// reported as anomalies, as are policies without a number.
func Compare(cardPolicies, backendPolicies []card.InsurancePolicy) DiffReport {
	var report DiffReport
	cardIndex, cardOrder := index(SideCard, cardPolicies, &report)
	backendIndex, backendOrder := index(SideBackend, backendPolicies, &report)

	for _, num := range backendOrder {
		if _, ok := cardIndex[num]; !ok {
			report.BackendOnly = append(report.BackendOnly, backendIndex[num])
		}
	}
	for _, num := range cardOrder {
		c := cardIndex[num]
		b, ok := backendIndex[num]
		if !ok {
			report.CardOnly = append(report.CardOnly, c)
			continue
		}
		if cs, bs := c.EffectiveStatus(), b.EffectiveStatus(); cs != bs {
			report.Mismatched = append(report.Mismatched, Mismatch{PolicyNumber: num, Field: "Status", Card: cs, Backend: bs})
		}
		if c.Insurer != b.Insurer {
			report.Mismatched = append(report.Mismatched, Mismatch{PolicyNumber: num, Field: "Insurer", Card: c.Insurer, Backend: b.Insurer})
		}
	}

	report.NeedsSync = len(report.CardOnly) > 0 || len(report.BackendOnly) > 0 || len(report.Mismatched) > 0
	return report
}

func index(side Side, policies []card.InsurancePolicy, report *DiffReport) (map[string]card.InsurancePolicy, []string) {
	byNumber := make(map[string]card.InsurancePolicy, len(policies))
	order := make([]string, 0, len(policies))
	for i, p := range policies {
		p = p.Canonical()
		num := p.Key()
		if !p.Identified() {
			report.Anomalies = append(report.Anomalies, Anomaly{Side: side, Index: i, Reason: reasonNoNumber, Policy: p})
			continue
		}
		if _, dup := byNumber[num]; dup {
			report.Anomalies = append(report.Anomalies, Anomaly{Side: side, Index: i, Reason: reasonDuplicate, Policy: p})
			continue
		}
		byNumber[num] = p
		order = append(order, num)
	}
	return byNumber, order
}
