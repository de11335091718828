package station

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nattsrk/AnurVCardPro/internal/backend"
	"github.com/nattsrk/AnurVCardPro/internal/card"
	"github.com/nattsrk/AnurVCardPro/internal/observability"
	"github.com/nattsrk/AnurVCardPro/internal/reconcile"
)

const (
	DirectionToCard    = "backend_to_card"
	DirectionToBackend = "card_to_backend"
)

// Compare diffs the current card view against a fresh backend fetch.
func (s *Station) Compare(ctx context.Context) (reconcile.DiffReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, report, err := s.compareLocked(ctx)
	return report, err
}

func (s *Station) compareLocked(ctx context.Context) (CardView, reconcile.DiffReport, error) {
	if s.view == nil {
		return CardView{}, reconcile.DiffReport{}, ErrNoCardView
	}
	view := cloneView(*s.view)
	bv, err := s.fetchLocked(ctx)
	if err != nil {
		return CardView{}, reconcile.DiffReport{}, fmt.Errorf("compare: %w", err)
	}
	report := reconcile.Compare(view.Contents.Policies, backend.CardPolicies(bv.Policies))
	for _, a := range report.Anomalies {
		s.logger.Warn().Str("anomaly", a.String()).Msg("policy cannot be matched")
	}
	s.logger.Info().
		Uint64("seq", view.Seq).
		Int("card_only", len(report.CardOnly)).
		Int("backend_only", len(report.BackendOnly)).
		Int("mismatched", len(report.Mismatched)).
		Bool("needs_sync", report.NeedsSync).
		Msg("compared card with backend")
	return view, report, nil
}

// SyncToCard writes every backend-only policy onto the card, keeping what
// the card already holds. The whole write is rejected if it does not fit.
func (s *Station) SyncToCard(ctx context.Context) (WriteResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.syncToCardLocked(ctx)
	observability.RecordSync(DirectionToCard, len(res.Added), ignoreNothing(err))
	return res, err
}

func (s *Station) syncToCardLocked(ctx context.Context) (WriteResult, error) {
	view, report, err := s.compareLocked(ctx)
	if err != nil {
		return WriteResult{}, err
	}
	if len(report.BackendOnly) == 0 {
		return WriteResult{}, ErrNothingToSync
	}
	plan := reconcile.BuildMergePlan(report, view.Contents, s.displayNameLocked(ctx))
	if plan.Empty() {
		return WriteResult{}, ErrNothingToSync
	}
	records, err := plan.Encode(s.transport.MaxPayloadBytes())
	if err != nil {
		return WriteResult{}, fmt.Errorf("sync to card: %w", err)
	}
	res, err := s.writeLocked(ctx, records)
	if err != nil {
		return WriteResult{}, err
	}
	for _, p := range plan.Added {
		res.Added = append(res.Added, p.PolicyNumber)
	}
	return res, nil
}

func (s *Station) displayNameLocked(ctx context.Context) string {
	if name := strings.TrimSpace(s.cfg.DisplayName); name != "" {
		return name
	}
	u, err := s.backend.FetchUser(ctx, s.cfg.UserID)
	if err != nil {
		s.logger.Warn().Err(err).Msg("display name lookup failed")
		return ""
	}
	return u.Name
}

// SyncToBackend creates every card-only policy on the backend. Each policy
// is attempted; failures are collected in the result and the returned error.
func (s *Station) SyncToBackend(ctx context.Context) (UploadResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.syncToBackendLocked(ctx)
	observability.RecordSync(DirectionToBackend, len(res.Created), ignoreNothing(err))
	return res, err
}

func (s *Station) syncToBackendLocked(ctx context.Context) (UploadResult, error) {
	_, report, err := s.compareLocked(ctx)
	if err != nil {
		return UploadResult{}, err
	}
	uploads := reconcile.BuildUploads(report, s.cfg.UserID, s.now())
	if len(uploads) == 0 {
		return UploadResult{}, ErrNothingToSync
	}

	var (
		res  UploadResult
		errs []error
	)
	for _, req := range uploads {
		if _, err := s.backend.CreatePolicy(ctx, req); err != nil {
			if res.Failed == nil {
				res.Failed = make(map[string]string)
			}
			res.Failed[req.PolicyNumber] = err.Error()
			errs = append(errs, err)
			continue
		}
		res.Created = append(res.Created, req.PolicyNumber)
	}
	s.backendView = nil
	s.logger.Info().Strs("created", res.Created).Int("failed", len(res.Failed)).Msg("uploaded card policies")
	if len(errs) > 0 {
		return res, fmt.Errorf("sync to backend: %d of %d uploads failed: %w", len(errs), len(uploads), errors.Join(errs...))
	}
	return res, nil
}

func ignoreNothing(err error) error {
	if errors.Is(err, ErrNothingToSync) {
		return nil
	}
	return err
}

func kindNames(c card.Contents) []string {
	entities := c.Entities()
	out := make([]string, 0, len(entities))
	for _, e := range entities {
		out = append(out, e.Kind().String())
	}
	return out
}

func cloneView(v CardView) CardView {
	v.Contents = v.Contents.Clone()
	return v
}
