package station

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/nattsrk/AnurVCardPro/internal/backend"
	"github.com/nattsrk/AnurVCardPro/internal/card"
	"github.com/nattsrk/AnurVCardPro/internal/codec"
	"github.com/nattsrk/AnurVCardPro/internal/readlog"
	"github.com/nattsrk/AnurVCardPro/internal/tag"
	"github.com/nattsrk/AnurVCardPro/internal/testutil/testlog"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// database/sql keeps a connection opener goroutine per open DB.
		goleak.IgnoreTopFunction("database/sql.(*DB).connectionOpener"),
	)
}

type fixture struct {
	station *Station
	tag     *tag.MemoryTransport
	svc     *backend.MemoryService
	reads   *readlog.Store
}

var fixedNow = time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC)

func newFixture(t *testing.T, capacity int) fixture {
	t.Helper()
	tr := tag.NewMemoryTransport("04a1b2c3", capacity)
	svc := backend.NewMemoryService()
	svc.PutUser(backend.User{ID: 7, Name: "Jane Doe", ProfileSlug: "jane-doe"})

	store, err := readlog.Open(filepath.Join(t.TempDir(), "reads.db"))
	if err != nil {
		t.Fatalf("open read log: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	cfg := DefaultConfig()
	cfg.UserID = 7
	cfg.ProfileBaseURL = "https://vcard.example.com"
	s := New(cfg, tr, svc, WithReadLog(store), WithClock(func() time.Time { return fixedNow }))
	return fixture{station: s, tag: tr, svc: svc, reads: store}
}

func seedCard() card.Contents {
	return card.Contents{
		Personal:  &card.PersonalInfo{Name: "Jane Doe", Phone: "555"},
		Emergency: &card.EmergencyContact{Name: "Raj", Phone: "999"},
		Policies: []card.InsurancePolicy{
			{Policyholder: "Jane Doe", PolicyNumber: "POL-1", Insurer: "LIC", Status: "Active"},
			{Policyholder: "Jane Doe", PolicyNumber: "POL-9", Insurer: "Star", Premium: "₹1,200"},
		},
	}
}

func TestReadBlankCard(t *testing.T) {
	testlog.Start(t)
	f := newFixture(t, 0)
	ctx := context.Background()

	if _, err := f.station.CardView(); !errors.Is(err, ErrNoCardView) {
		t.Fatalf("expected ErrNoCardView, got %v", err)
	}
	view, err := f.station.ReadCard(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if view.Seq != 1 || view.RecordCount != 0 || !view.Contents.IsEmpty() {
		t.Fatalf("unexpected view: %+v", view)
	}
	if _, err := f.station.SyncToCard(ctx); !errors.Is(err, ErrNothingToSync) {
		t.Fatalf("expected ErrNothingToSync, got %v", err)
	}
}

func TestWriteReadSyncCycle(t *testing.T) {
	testlog.Start(t)
	f := newFixture(t, 0)
	ctx := context.Background()

	f.svc.PutPolicy(backend.Policy{UserID: 7, PolicyNumber: "POL-1", InsurerName: "LIC", Status: "Active"})
	f.svc.PutPolicy(backend.Policy{UserID: 7, PolicyNumber: "POL-2", InsurerName: "HDFC", Status: "Active", PremiumAmount: 4800})

	if _, err := f.station.WriteCard(ctx, seedCard()); err != nil {
		t.Fatalf("write: %v", err)
	}
	view, err := f.station.ReadCard(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if view.Contents.Link == nil || view.Contents.Link.URI != "https://vcard.example.com/profile/jane-doe" {
		t.Fatalf("profile link not filled: %+v", view.Contents.Link)
	}

	report, err := f.station.Compare(ctx)
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	if len(report.BackendOnly) != 1 || len(report.CardOnly) != 1 || !report.NeedsSync {
		t.Fatalf("unexpected report: %+v", report)
	}

	res, err := f.station.SyncToCard(ctx)
	if err != nil {
		t.Fatalf("sync to card: %v", err)
	}
	if len(res.Added) != 1 || res.Added[0] != "POL-2" {
		t.Fatalf("unexpected added: %+v", res.Added)
	}
	if _, err := f.station.Compare(ctx); !errors.Is(err, ErrNoCardView) {
		t.Fatalf("a write must invalidate the card view, got %v", err)
	}

	view, err = f.station.ReadCard(ctx)
	if err != nil {
		t.Fatalf("re-read: %v", err)
	}
	if view.Seq != 2 {
		t.Fatalf("expected second read, got seq %d", view.Seq)
	}
	added := view.Contents.Policies[2]
	if added.PolicyNumber != "POL-2" || added.Policyholder != "Jane Doe" || added.Premium != "₹4800" {
		t.Fatalf("unexpected merged policy: %+v", added)
	}

	up, err := f.station.SyncToBackend(ctx)
	if err != nil {
		t.Fatalf("sync to backend: %v", err)
	}
	if len(up.Created) != 1 || up.Created[0] != "POL-9" {
		t.Fatalf("unexpected uploads: %+v", up)
	}
	creates := f.svc.Creates()
	if creates[0].PremiumAmount != 1200 || creates[0].PolicyStartDate != "2026-05-01" || creates[0].PolicyEndDate != "2036-05-01" {
		t.Fatalf("unexpected create request: %+v", creates[0])
	}

	report, err = f.station.Compare(ctx)
	if err != nil {
		t.Fatalf("final compare: %v", err)
	}
	if report.NeedsSync {
		t.Fatalf("expected card and backend in sync: %+v", report)
	}

	entries, err := f.station.Reads(ctx, 10)
	if err != nil {
		t.Fatalf("reads: %v", err)
	}
	if len(entries) != 2 || entries[0].CardID != "04a1b2c3" || entries[0].UserID != 7 {
		t.Fatalf("unexpected read log: %+v", entries)
	}
}

func TestSyncToCardRejectsOverflow(t *testing.T) {
	testlog.Start(t)
	ctx := context.Background()
	f := newFixture(t, 0)
	if _, err := f.station.WriteCard(ctx, seedCard()); err != nil {
		t.Fatalf("write: %v", err)
	}
	before := f.tag.Raw()

	small := New(f.station.Config(), tag.NewMemoryTransport("small", len(before)+8), f.svc)
	smallTag := small.transport.(*tag.MemoryTransport)
	smallTag.SetRaw(before)
	for i := 0; i < 3; i++ {
		f.svc.PutPolicy(backend.Policy{UserID: 7, PolicyNumber: "POL-X" + string(rune('A'+i)), InsurerName: "HDFC"})
	}

	if _, err := small.ReadCard(ctx); err != nil {
		t.Fatalf("read: %v", err)
	}
	_, err := small.SyncToCard(ctx)
	if !errors.Is(err, codec.ErrCapacityExceeded) {
		t.Fatalf("expected capacity error, got %v", err)
	}
	if smallTag.Writes() != 0 {
		t.Fatalf("nothing may be written on overflow")
	}
	if _, err := small.CardView(); err != nil {
		t.Fatalf("a rejected write must keep the view: %v", err)
	}
}

func TestSyncToBackendReportsFailures(t *testing.T) {
	testlog.Start(t)
	ctx := context.Background()
	f := newFixture(t, 0)
	if _, err := f.station.WriteCard(ctx, seedCard()); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := f.station.ReadCard(ctx); err != nil {
		t.Fatalf("read: %v", err)
	}

	_, err := f.station.SyncToBackend(ctx)
	if err != nil {
		t.Fatalf("first upload: %v", err)
	}

	offline := errors.New("backend offline")
	f.svc.WithError(offline)
	if _, err := f.station.SyncToBackend(ctx); !errors.Is(err, offline) {
		t.Fatalf("expected backend error, got %v", err)
	}
}

func TestReadFailureKeepsPreviousView(t *testing.T) {
	testlog.Start(t)
	ctx := context.Background()
	f := newFixture(t, 0)
	if _, err := f.station.WriteCard(ctx, seedCard()); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := f.station.ReadCard(ctx); err != nil {
		t.Fatalf("read: %v", err)
	}

	f.tag.FailNext(&tag.IOError{Op: "read", Err: errors.New("tag lost")})
	if _, err := f.station.ReadCard(ctx); !errors.Is(err, tag.ErrIOFailure) {
		t.Fatalf("expected I/O failure, got %v", err)
	}
	view, err := f.station.CardView()
	if err != nil || view.Seq != 1 {
		t.Fatalf("previous view must survive a failed read: %+v %v", view, err)
	}
}
