package station

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/nattsrk/AnurVCardPro/internal/backend"
	"github.com/nattsrk/AnurVCardPro/internal/card"
	"github.com/nattsrk/AnurVCardPro/internal/codec"
	"github.com/nattsrk/AnurVCardPro/internal/observability"
	"github.com/nattsrk/AnurVCardPro/internal/protocol/ndef"
	"github.com/nattsrk/AnurVCardPro/internal/readlog"
	"github.com/nattsrk/AnurVCardPro/internal/tag"
)

type Config struct {
	UserID int64
	// DisplayName fills the policyholder of policies copied from the
	// backend. When blank the backend user name is used.
	DisplayName    string
	ProfileBaseURL string
}

func DefaultConfig() Config {
	return Config{
		UserID:         1,
		ProfileBaseURL: "https://vcard.example.com:3000",
	}
}

// ReadLog records successful reads. *readlog.Store implements it.
type ReadLog interface {
	Append(ctx context.Context, e readlog.Entry) (readlog.Entry, error)
	Recent(ctx context.Context, limit int) ([]readlog.Entry, error)
}

// CardView is the decoded result of one read.
type CardView struct {
	Seq         uint64        `json:"seq" yaml:"seq"`
	CardID      string        `json:"card_id" yaml:"card_id"`
	ReadAt      time.Time     `json:"read_at" yaml:"read_at"`
	RecordCount int           `json:"record_count" yaml:"record_count"`
	Contents    card.Contents `json:"contents" yaml:"contents"`
}

// BackendView is the policy list of the last fetch.
type BackendView struct {
	UserID    int64            `json:"user_id" yaml:"user_id"`
	FetchedAt time.Time        `json:"fetched_at" yaml:"fetched_at"`
	Policies  []backend.Policy `json:"policies" yaml:"policies"`
}

// WriteResult describes a completed card write.
type WriteResult struct {
	CardID  string   `json:"card_id" yaml:"card_id"`
	Records int      `json:"records" yaml:"records"`
	Bytes   int      `json:"bytes" yaml:"bytes"`
	Added   []string `json:"added,omitempty" yaml:"added,omitempty"`
}

// UploadResult describes a card-to-backend sync.
type UploadResult struct {
	Created []string          `json:"created" yaml:"created"`
	Failed  map[string]string `json:"failed,omitempty" yaml:"failed,omitempty"`
}

// Station drives one transport against one backend user. Operations are
// serialised.
type Station struct {
	cfg       Config
	transport tag.Transport
	backend   backend.Service
	reads     ReadLog
	logger    zerolog.Logger
	now       func() time.Time

	mu          sync.Mutex
	seq         uint64
	view        *CardView
	backendView *BackendView
}

type Option func(*Station)

// WithReadLog enables read logging.
func WithReadLog(r ReadLog) Option {
	return func(s *Station) { s.reads = r }
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *Station) { s.logger = l }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Station) { s.now = now }
}

func New(cfg Config, t tag.Transport, svc backend.Service, opts ...Option) *Station {
	s := &Station{
		cfg:       cfg,
		transport: t,
		backend:   svc,
		logger:    zerolog.Nop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With().Str("component", "station").Str("card", t.ID()).Logger()
	return s
}

func (s *Station) Config() Config { return s.cfg }

// ReadCard reads and decodes the card and makes it the current view. A
// blank or empty card is a successful read with no contents.
func (s *Station) ReadCard(ctx context.Context) (CardView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := tag.Read(ctx, s.transport)
	if errors.Is(err, tag.ErrEmptyTag) || errors.Is(err, tag.ErrNotFormatted) {
		s.logger.Info().Err(err).Msg("card holds no message")
		records, err = nil, nil
	}
	size, _ := ndef.EncodedSize(records)
	observability.RecordTagOp("read", err, size)
	if err != nil {
		s.logger.Warn().Err(err).Msg("card read failed")
		return CardView{}, fmt.Errorf("read card: %w", err)
	}

	contents := codec.Decode(records)
	observability.RecordDecoded(kindNames(contents))

	s.seq++
	view := CardView{
		Seq:         s.seq,
		CardID:      s.transport.ID(),
		ReadAt:      s.now(),
		RecordCount: len(records),
		Contents:    contents,
	}
	s.view = &view
	s.logRead(ctx, view)

	s.logger.Info().
		Uint64("seq", view.Seq).
		Int("records", view.RecordCount).
		Strs("data_types", contents.DataTypes()).
		Int("unclassified", len(contents.Unclassified)).
		Msg("card read")
	return cloneView(view), nil
}

func (s *Station) logRead(ctx context.Context, v CardView) {
	if s.reads == nil {
		return
	}
	_, err := s.reads.Append(ctx, readlog.Entry{
		UserID:      s.cfg.UserID,
		CardID:      v.CardID,
		ReadAt:      v.ReadAt,
		DataTypes:   v.Contents.DataTypes(),
		RecordCount: v.RecordCount,
	})
	if err != nil {
		s.logger.Warn().Err(err).Msg("read log append failed")
	}
}

// CardView returns the current view.
func (s *Station) CardView() (CardView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.view == nil {
		return CardView{}, ErrNoCardView
	}
	return cloneView(*s.view), nil
}

// BackendView returns the last fetched backend policies.
func (s *Station) BackendView() (BackendView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.backendView == nil {
		return BackendView{}, ErrNoBackendView
	}
	v := *s.backendView
	v.Policies = append([]backend.Policy(nil), v.Policies...)
	return v, nil
}

// FetchBackend refreshes the backend view.
func (s *Station) FetchBackend(ctx context.Context) (BackendView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, err := s.fetchLocked(ctx)
	if err != nil {
		return BackendView{}, err
	}
	v.Policies = append([]backend.Policy(nil), v.Policies...)
	return v, nil
}

func (s *Station) fetchLocked(ctx context.Context) (BackendView, error) {
	policies, err := s.backend.FetchPolicies(ctx, s.cfg.UserID)
	if err != nil {
		return BackendView{}, err
	}
	v := BackendView{UserID: s.cfg.UserID, FetchedAt: s.now(), Policies: policies}
	s.backendView = &v
	return v, nil
}

// Reads lists recent read log entries, newest first.
func (s *Station) Reads(ctx context.Context, limit int) ([]readlog.Entry, error) {
	if s.reads == nil {
		return nil, nil
	}
	return s.reads.Recent(ctx, limit)
}

// WriteCard replaces the card contents. A missing profile link is filled
// from the backend user's profile slug when one is available.
func (s *Station) WriteCard(ctx context.Context, contents card.Contents) (WriteResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if contents.Link == nil {
		if link, ok := s.profileLinkLocked(ctx); ok {
			contents = contents.Clone()
			contents.Link = &link
		}
	}
	records, err := codec.EncodeContents(contents, s.transport.MaxPayloadBytes())
	if err != nil {
		return WriteResult{}, err
	}
	return s.writeLocked(ctx, records)
}

func (s *Station) profileLinkLocked(ctx context.Context) (card.ProfileLink, bool) {
	if strings.TrimSpace(s.cfg.ProfileBaseURL) == "" {
		return card.ProfileLink{}, false
	}
	u, err := s.backend.FetchUser(ctx, s.cfg.UserID)
	if err != nil {
		s.logger.Warn().Err(err).Msg("profile lookup failed; writing without link")
		return card.ProfileLink{}, false
	}
	link := card.ProfileLinkFor(s.cfg.ProfileBaseURL, u.ProfileSlug)
	return link, link.Present()
}

func (s *Station) writeLocked(ctx context.Context, records []ndef.Record) (WriteResult, error) {
	size, _ := ndef.EncodedSize(records)
	err := s.transport.Connect(ctx)
	if err == nil {
		err = tag.Write(ctx, s.transport, records)
	}
	observability.RecordTagOp("write", err, size)
	if err != nil {
		s.logger.Warn().Err(err).Int("bytes", size).Msg("card write failed")
		return WriteResult{}, fmt.Errorf("write card: %w", err)
	}
	// The card no longer matches the view.
	s.view = nil
	s.logger.Info().Int("records", len(records)).Int("bytes", size).Msg("card written")
	return WriteResult{CardID: s.transport.ID(), Records: len(records), Bytes: size}, nil
}
