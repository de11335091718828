package backend

import (
	"github.com/nattsrk/AnurVCardPro/internal/card"
)

// Policy is one insurance policy as the service stores it.
type Policy struct {
	ID              int64   `json:"id"`
	UserID          int64   `json:"user_id"`
	PolicyNumber    string  `json:"policyNumber"`
	PolicyType      string  `json:"policyType"`
	InsurerName     string  `json:"insurerName"`
	PremiumAmount   float64 `json:"premiumAmount"`
	SumAssured      float64 `json:"sumAssured"`
	PolicyStartDate string  `json:"policyStartDate"`
	PolicyEndDate   string  `json:"policyEndDate"`
	Status          string  `json:"status"`
	CreatedAt       string  `json:"created_at,omitempty"`
	UpdatedAt       string  `json:"updated_at,omitempty"`
}

// ToCard converts p into the token model in canonical form, so its policy
// number matches the one a token stores. Policyholder is left empty; the
// service does not track it per policy.
func (p Policy) ToCard() card.InsurancePolicy {
	return card.InsurancePolicy{
		Insurer:      p.InsurerName,
		PolicyType:   p.PolicyType,
		Premium:      card.FormatAmount(p.PremiumAmount),
		SumAssured:   card.FormatAmount(p.SumAssured),
		StartDate:    p.PolicyStartDate,
		EndDate:      p.PolicyEndDate,
		Status:       p.Status,
		PolicyNumber: p.PolicyNumber,
	}.Canonical()
}

// CardPolicies converts a backend list, keeping order.
func CardPolicies(policies []Policy) []card.InsurancePolicy {
	out := make([]card.InsurancePolicy, 0, len(policies))
	for _, p := range policies {
		out = append(out, p.ToCard())
	}
	return out
}

// PoliciesResponse is the body of GET api/insurance/user/{userId}. The
// service returns userId as a string.
type PoliciesResponse struct {
	Success  bool     `json:"success"`
	UserID   string   `json:"userId"`
	Policies []Policy `json:"policies"`
}

// CreatePolicyRequest is the body of POST api/insurance/policy.
type CreatePolicyRequest struct {
	UserID          int64   `json:"userId"`
	PolicyNumber    string  `json:"policyNumber"`
	PolicyType      string  `json:"policyType"`
	InsurerName     string  `json:"insurerName"`
	PremiumAmount   float64 `json:"premiumAmount"`
	SumAssured      float64 `json:"sumAssured"`
	PolicyStartDate string  `json:"policyStartDate"`
	PolicyEndDate   string  `json:"policyEndDate"`
	Status          string  `json:"status"`
}

type createPolicyResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Policy  Policy `json:"policy"`
}

// User is the account record behind a card.
type User struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone,omitempty"`
	Company     string `json:"company,omitempty"`
	LinkedIn    string `json:"linkedin,omitempty"`
	ProfileURL  string `json:"profileUrl,omitempty"`
	ProfileSlug string `json:"profileSlug,omitempty"`
}

type userResponse struct {
	Success bool `json:"success"`
	User    User `json:"user"`
}
