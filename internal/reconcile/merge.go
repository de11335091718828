package reconcile

import (
	"strings"
	"time"

	"github.com/nattsrk/AnurVCardPro/internal/backend"
	"github.com/nattsrk/AnurVCardPro/internal/card"
	"github.com/nattsrk/AnurVCardPro/internal/codec"
	"github.com/nattsrk/AnurVCardPro/internal/protocol/ndef"
)

// MergePlan is the card contents to write after a backend-to-card sync.
type MergePlan struct {
	Contents card.Contents          `json:"contents" yaml:"contents"`
	Added    []card.InsurancePolicy `json:"added" yaml:"added"`
}

// Empty reports whether the plan adds nothing to the card.
func (p MergePlan) Empty() bool {
	return len(p.Added) == 0
}

// Input returns the plan in the encoder's input shape.
func (p MergePlan) Input() codec.Input {
	return codec.InputFrom(p.Contents)
}

// Encode renders the plan. A capacity overflow rejects the whole plan;
// nothing is dropped to make it fit.
func (p MergePlan) Encode(capacity int) ([]ndef.Record, error) {
	return codec.Encode(p.Input(), capacity)
}

// BuildMergePlan keeps the link, personal info, emergency contact and
// policies already in current, then appends every backend-only policy whose
// number current does not hold yet. displayName fills a blank policyholder.
// Unclassified records are not carried over.
func BuildMergePlan(diff DiffReport, current card.Contents, displayName string) MergePlan {
	next := current.Clone()
	next.Unclassified = nil

	held := make(map[string]struct{}, len(next.Policies))
	for _, p := range next.Policies {
		if p.Identified() {
			held[p.Key()] = struct{}{}
		}
	}

	var added []card.InsurancePolicy
	for _, p := range diff.BackendOnly {
		if !p.Identified() {
			continue
		}
		p = p.Canonical()
		if _, ok := held[p.Key()]; ok {
			continue
		}
		held[p.Key()] = struct{}{}
		if strings.TrimSpace(p.Policyholder) == "" {
			p.Policyholder = displayName
		}
		if strings.TrimSpace(p.Status) == "" {
			p.Status = card.DefaultStatus
		}
		added = append(added, p)
	}

	next = next.WithPolicies(append(append([]card.InsurancePolicy(nil), next.Policies...), added...))
	return MergePlan{Contents: next, Added: added}
}

// DefaultTenure is the policy term assumed when a card policy has no end
// date.
const DefaultTenure = 10

const dateLayout = "2006-01-02"

// BuildUploads turns every card-only policy into a create request for
// userID. now supplies the default start date; the default end date is
// DefaultTenure years later.
func BuildUploads(diff DiffReport, userID int64, now time.Time) []backend.CreatePolicyRequest {
	out := make([]backend.CreatePolicyRequest, 0, len(diff.CardOnly))
	for _, p := range diff.CardOnly {
		if !p.Identified() {
			continue
		}
		out = append(out, backend.CreatePolicyRequest{
			UserID:          userID,
			PolicyNumber:    p.Key(),
			PolicyType:      p.PolicyType,
			InsurerName:     p.Insurer,
			PremiumAmount:   card.ParseAmount(p.Premium),
			SumAssured:      card.ParseAmount(p.SumAssured),
			PolicyStartDate: orDefault(p.StartDate, now.Format(dateLayout)),
			PolicyEndDate:   orDefault(p.EndDate, now.AddDate(DefaultTenure, 0, 0).Format(dateLayout)),
			Status:          p.EffectiveStatus(),
		})
	}
	return out
}

func orDefault(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
