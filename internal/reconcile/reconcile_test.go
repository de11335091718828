package reconcile

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/nattsrk/AnurVCardPro/internal/card"
	"github.com/nattsrk/AnurVCardPro/internal/codec"
	"github.com/nattsrk/AnurVCardPro/internal/protocol/ndef"
	"github.com/nattsrk/AnurVCardPro/internal/testutil/testlog"
)

func policy(num, status, insurer string) card.InsurancePolicy {
	return card.InsurancePolicy{PolicyNumber: num, Status: status, Insurer: insurer}
}

func TestCompareStatusMismatchAndBackendOnly(t *testing.T) {
	testlog.Start(t)
	report := Compare(
		[]card.InsurancePolicy{policy("POL-1", "Active", "LIC")},
		[]card.InsurancePolicy{policy("POL-1", "Pending", "LIC"), policy("POL-2", "Active", "HDFC")},
	)
	if !report.NeedsSync {
		t.Fatalf("expected needs sync")
	}
	if len(report.BackendOnly) != 1 || report.BackendOnly[0].PolicyNumber != "POL-2" {
		t.Fatalf("unexpected backend only: %+v", report.BackendOnly)
	}
	if len(report.CardOnly) != 0 {
		t.Fatalf("unexpected card only: %+v", report.CardOnly)
	}
	want := []string{"POL-1: Status differs (Card: Active, Backend: Pending)"}
	if diff := cmp.Diff(want, report.MismatchLines()); diff != "" {
		t.Fatalf("mismatch lines (-want +got):\n%s", diff)
	}
}

func TestCompareInSync(t *testing.T) {
	testlog.Start(t)
	p := policy("POL-1", "Active", "LIC")
	report := Compare([]card.InsurancePolicy{p}, []card.InsurancePolicy{p})
	if report.NeedsSync || len(report.CardOnly)+len(report.BackendOnly)+len(report.Mismatched) != 0 {
		t.Fatalf("expected empty report, got %+v", report)
	}
}

func TestCompareInsurerMismatchAndCardOnly(t *testing.T) {
	testlog.Start(t)
	report := Compare(
		[]card.InsurancePolicy{policy("POL-1", "", "LIC"), policy("POL-3", "Active", "Star")},
		[]card.InsurancePolicy{policy("POL-1", "Active", "LIC Ltd")},
	)
	want := []string{"POL-1: Insurer differs (Card: LIC, Backend: LIC Ltd)"}
	if diff := cmp.Diff(want, report.MismatchLines()); diff != "" {
		t.Fatalf("mismatch lines (-want +got):\n%s", diff)
	}
	if len(report.CardOnly) != 1 || report.CardOnly[0].PolicyNumber != "POL-3" {
		t.Fatalf("unexpected card only: %+v", report.CardOnly)
	}
}

func TestCompareIsCaseSensitive(t *testing.T) {
	testlog.Start(t)
	report := Compare(
		[]card.InsurancePolicy{policy("pol-1", "Active", "LIC")},
		[]card.InsurancePolicy{policy("POL-1", "Active", "LIC")},
	)
	if len(report.CardOnly) != 1 || len(report.BackendOnly) != 1 {
		t.Fatalf("numbers differing in case must not match: %+v", report)
	}
}

func TestCompareAnomalies(t *testing.T) {
	testlog.Start(t)
	report := Compare(
		[]card.InsurancePolicy{{Policyholder: "Jane"}, policy("POL-1", "Active", "LIC")},
		[]card.InsurancePolicy{policy("POL-1", "Active", "LIC"), policy("", "Active", "LIC"), policy("POL-1", "Lapsed", "LIC")},
	)
	if report.NeedsSync {
		t.Fatalf("anomalies alone must not require a sync: %+v", report)
	}
	if len(report.Anomalies) != 3 {
		t.Fatalf("expected 3 anomalies, got %+v", report.Anomalies)
	}
	got := []string{report.Anomalies[0].String(), report.Anomalies[1].String(), report.Anomalies[2].String()}
	want := []string{
		"card policy 1: no policy number",
		"backend policy 2: no policy number",
		"backend policy 3: duplicate policy number",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("anomalies (-want +got):\n%s", diff)
	}
}

func currentCard() card.Contents {
	return card.Contents{
		Link:      &card.ProfileLink{URI: "https://vcard.example.com/profile/jane"},
		Personal:  &card.PersonalInfo{Name: "Jane", Phone: "555"},
		Emergency: &card.EmergencyContact{Name: "Raj", Phone: "999", BloodGroup: "B+"},
		Policies:  []card.InsurancePolicy{{Policyholder: "Jane", PolicyNumber: "POL-1", Status: "Active", Insurer: "LIC"}},
		Unclassified: []card.Unclassified{
			{Index: 5, Label: "Text Record 5", Text: "hello"},
		},
	}
}

func TestBuildMergePlan(t *testing.T) {
	testlog.Start(t)
	current := currentCard()
	backendSide := []card.InsurancePolicy{
		policy("POL-1", "Pending", "LIC"),
		{PolicyNumber: "POL-2", Insurer: "HDFC", Premium: "₹1200"},
	}
	plan := BuildMergePlan(Compare(current.Policies, backendSide), current, "Jane Doe")

	if len(plan.Added) != 1 || plan.Added[0].PolicyNumber != "POL-2" {
		t.Fatalf("unexpected added: %+v", plan.Added)
	}
	if plan.Added[0].Policyholder != "Jane Doe" || plan.Added[0].Status != card.DefaultStatus {
		t.Fatalf("added policy defaults not applied: %+v", plan.Added[0])
	}
	if plan.Contents.Unclassified != nil {
		t.Fatalf("unclassified records must not be carried: %+v", plan.Contents.Unclassified)
	}
	if diff := cmp.Diff(current.Link, plan.Contents.Link); diff != "" {
		t.Fatalf("link changed (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(current.Emergency, plan.Contents.Emergency); diff != "" {
		t.Fatalf("emergency changed (-want +got):\n%s", diff)
	}
	if got := plan.Contents.PolicyNumbers(); !cmp.Equal(got, []string{"POL-1", "POL-2"}) {
		t.Fatalf("unexpected policies: %v", got)
	}
	if current.Policies[0].Status != "Active" || len(current.Policies) != 1 {
		t.Fatalf("current contents must not be mutated: %+v", current.Policies)
	}
}

func TestMergePlanConvergesAndIsIdempotent(t *testing.T) {
	testlog.Start(t)
	current := currentCard()
	backendSide := []card.InsurancePolicy{
		policy("POL-1", "Active", "LIC"),
		policy("POL-2", "Active", "HDFC"),
		policy("POL-3", "Active", "Star"),
	}

	plan := BuildMergePlan(Compare(current.Policies, backendSide), current, "Jane")
	records, err := plan.Encode(0)
	if err != nil {
		t.Fatalf("encode plan: %v", err)
	}
	raw, err := ndef.EncodeMessage(records)
	if err != nil {
		t.Fatalf("encode message: %v", err)
	}
	wire, err := ndef.DecodeMessage(raw)
	if err != nil {
		t.Fatalf("decode message: %v", err)
	}
	after := codec.Decode(wire)

	report := Compare(after.Policies, backendSide)
	if len(report.BackendOnly) != 0 || report.NeedsSync {
		t.Fatalf("expected convergence, got %+v", report)
	}

	again := BuildMergePlan(report, after, "Jane")
	if !again.Empty() {
		t.Fatalf("second plan must add nothing: %+v", again.Added)
	}
	if got := again.Contents.PolicyNumbers(); !cmp.Equal(got, []string{"POL-1", "POL-2", "POL-3"}) {
		t.Fatalf("duplicate or missing policies: %v", got)
	}

	// A stale diff replayed against the already merged card adds nothing.
	stale := BuildMergePlan(Compare(current.Policies, backendSide), after, "Jane")
	if !stale.Empty() {
		t.Fatalf("stale diff must not duplicate policies: %+v", stale.Added)
	}
}

func writeAndRead(t *testing.T, plan MergePlan) card.Contents {
	t.Helper()
	records, err := plan.Encode(0)
	if err != nil {
		t.Fatalf("encode plan: %v", err)
	}
	raw, err := ndef.EncodeMessage(records)
	if err != nil {
		t.Fatalf("encode message: %v", err)
	}
	wire, err := ndef.DecodeMessage(raw)
	if err != nil {
		t.Fatalf("decode message: %v", err)
	}
	return codec.Decode(wire)
}

func TestMergeConvergesOnPaddedValues(t *testing.T) {
	testlog.Start(t)
	cases := []struct {
		name        string
		cardSide    []card.InsurancePolicy
		backendSide []card.InsurancePolicy
		want        []string
	}{
		{
			name:        "padded backend number",
			cardSide:    []card.InsurancePolicy{policy("POL-1", "Active", "LIC")},
			backendSide: []card.InsurancePolicy{policy("POL-1", "Active", "LIC"), policy("POL-2 ", "Active", "HDFC")},
			want:        []string{"POL-1", "POL-2"},
		},
		{
			name:        "padded card number",
			cardSide:    []card.InsurancePolicy{policy(" POL-1", "Active", "LIC")},
			backendSide: []card.InsurancePolicy{policy("POL-1", "Active", "LIC"), policy("POL-3", "Active", "Star")},
			want:        []string{"POL-1", "POL-3"},
		},
		{
			name:        "line break in backend number",
			cardSide:    []card.InsurancePolicy{policy("POL-1", "Active", "LIC")},
			backendSide: []card.InsurancePolicy{policy("POL-4\n", "Active", "Star")},
			want:        []string{"POL-1", "POL-4"},
		},
		{
			name:        "padded insurer and status",
			cardSide:    []card.InsurancePolicy{policy("POL-1", "Active", "LIC")},
			backendSide: []card.InsurancePolicy{policy("POL-1", " Active", "LIC "), policy(" POL-5 ", "Lapsed ", " Star")},
			want:        []string{"POL-1", "POL-5"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			current := currentCard().WithPolicies(tc.cardSide)
			for round := 1; round <= 3; round++ {
				plan := BuildMergePlan(Compare(current.Policies, tc.backendSide), current, "Jane")
				if round > 1 && !plan.Empty() {
					t.Fatalf("round %d added %+v after convergence", round, plan.Added)
				}
				current = writeAndRead(t, plan)
				if got := current.PolicyNumbers(); !cmp.Equal(got, tc.want) {
					t.Fatalf("round %d: unexpected policies %q", round, got)
				}
				if report := Compare(current.Policies, tc.backendSide); report.NeedsSync {
					t.Fatalf("round %d: still out of sync: %+v", round, report)
				}
			}
		})
	}
}

func TestMergePlanRejectsOverflow(t *testing.T) {
	testlog.Start(t)
	current := currentCard()
	backendSide := []card.InsurancePolicy{policy("POL-1", "Active", "LIC"), policy("POL-2", "Active", "HDFC")}
	plan := BuildMergePlan(Compare(current.Policies, backendSide), current, "Jane")

	_, err := plan.Encode(64)
	if !errors.Is(err, codec.ErrCapacityExceeded) {
		t.Fatalf("expected capacity error, got %v", err)
	}
}

func TestBuildUploads(t *testing.T) {
	testlog.Start(t)
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	report := Compare(
		[]card.InsurancePolicy{
			{PolicyNumber: "POL-7", Insurer: "LIC", PolicyType: "Term", Premium: "₹12,500 (Annual)", SumAssured: "₹1,00,00,000"},
			{PolicyNumber: "POL-8", StartDate: "2020-01-01", EndDate: "2030-01-01", Status: "Lapsed"},
		},
		nil,
	)
	uploads := BuildUploads(report, 42, now)
	if len(uploads) != 2 {
		t.Fatalf("expected 2 uploads, got %d", len(uploads))
	}

	first := uploads[0]
	if first.UserID != 42 || first.PremiumAmount != 12500 || first.SumAssured != 10000000 {
		t.Fatalf("unexpected amounts: %+v", first)
	}
	if first.PolicyStartDate != "2026-03-15" || first.PolicyEndDate != "2036-03-15" || first.Status != "Active" {
		t.Fatalf("unexpected defaults: %+v", first)
	}
	second := uploads[1]
	if second.PolicyStartDate != "2020-01-01" || second.PolicyEndDate != "2030-01-01" || second.Status != "Lapsed" {
		t.Fatalf("card values must be kept: %+v", second)
	}
}
