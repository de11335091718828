package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/nattsrk/AnurVCardPro/internal/backend"
	"github.com/nattsrk/AnurVCardPro/internal/config"
	"github.com/nattsrk/AnurVCardPro/internal/readlog"
	"github.com/nattsrk/AnurVCardPro/internal/reconcile"
	"github.com/nattsrk/AnurVCardPro/internal/station"
	"github.com/nattsrk/AnurVCardPro/internal/testutil/testlog"
)

type fakeBackend struct {
	mu       sync.Mutex
	policies []backend.Policy
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/api/insurance/user/42":
		_ = json.NewEncoder(w).Encode(backend.PoliciesResponse{Success: true, UserID: "42", Policies: f.policies})
	case r.Method == http.MethodGet && r.URL.Path == "/api/users/42":
		fmt.Fprint(w, `{"success":true,"user":{"id":42,"name":"Jane Doe","profileSlug":"jane-doe"}}`)
	case r.Method == http.MethodPost && r.URL.Path == "/api/insurance/policy":
		var req backend.CreatePolicyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		p := backend.Policy{ID: int64(len(f.policies) + 1), UserID: req.UserID, PolicyNumber: req.PolicyNumber, InsurerName: req.InsurerName, Status: req.Status}
		f.policies = append(f.policies, p)
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "policy": p})
	default:
		http.NotFound(w, r)
	}
}

func setupCLI(t *testing.T) (dir string, fb *fakeBackend) {
	t.Helper()
	fb = &fakeBackend{policies: []backend.Policy{
		{ID: 1, UserID: 42, PolicyNumber: "POL-1", InsurerName: "LIC", Status: "Pending"},
		{ID: 2, UserID: 42, PolicyNumber: "POL-2", InsurerName: "HDFC", Status: "Active", PremiumAmount: 4800},
	}}
	srv := httptest.NewServer(fb)
	t.Cleanup(srv.Close)

	dir = t.TempDir()
	content := fmt.Sprintf(`
user_id = 42
display_name = "Jane Doe"
tag_path = %q
tag_capacity = 4096
backend_url = %q
backend_retries = 0
readlog_path = %q
log_level = "warn"
`, filepath.Join(dir, "card.ndef"), srv.URL, filepath.Join(dir, "reads.db"))
	if err := os.WriteFile(filepath.Join(dir, "station.toml"), []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return dir, fb
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	configPath, outputFormat = "", outputText
	writeDryRun, logLimit = false, readlog.DefaultLimit
	initKind, initOverride = "station", false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCLIWriteCompareSync(t *testing.T) {
	testlog.Start(t)
	dir, fb := setupCLI(t)
	stationCfg := filepath.Join(dir, "station.toml")
	cardFile := filepath.Join(dir, "card.toml")
	if err := config.WriteTemplate(cardFile, "card", false); err != nil {
		t.Fatalf("write card template: %v", err)
	}

	out, err := runCLI(t, "-c", stationCfg, "write", "--dry-run", cardFile)
	if err != nil {
		t.Fatalf("dry run: %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "card.ndef")); !os.IsNotExist(statErr) {
		t.Fatalf("dry run touched the card")
	}
	if !strings.Contains(out, "4 records") {
		t.Fatalf("unexpected dry run output: %q", out)
	}

	if out, err := runCLI(t, "-c", stationCfg, "write", cardFile); err != nil {
		t.Fatalf("write: %v (%s)", err, out)
	}

	out, err = runCLI(t, "-c", stationCfg, "-o", "json", "compare")
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	var report reconcile.DiffReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode report: %v (%s)", err, out)
	}
	if len(report.BackendOnly) != 1 || report.BackendOnly[0].PolicyNumber != "POL-2" {
		t.Fatalf("unexpected backend only: %+v", report.BackendOnly)
	}
	if lines := report.MismatchLines(); len(lines) != 1 || lines[0] != "POL-1: Status differs (Card: Active, Backend: Pending)" {
		t.Fatalf("unexpected mismatches: %v", lines)
	}

	out, err = runCLI(t, "-c", stationCfg, "sync", "card")
	if err != nil {
		t.Fatalf("sync card: %v", err)
	}
	if !strings.Contains(out, "added [POL-2]") {
		t.Fatalf("unexpected sync output: %q", out)
	}

	out, err = runCLI(t, "-c", stationCfg, "-o", "json", "read")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var view station.CardView
	if err := json.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	if got := view.Contents.PolicyNumbers(); len(got) != 2 || got[1] != "POL-2" {
		t.Fatalf("unexpected card policies: %v", got)
	}

	out, err = runCLI(t, "-c", stationCfg, "sync", "card")
	if err != nil || !strings.Contains(out, "already holds") {
		t.Fatalf("second sync must be a no-op: %v %q", err, out)
	}

	out, err = runCLI(t, "-c", stationCfg, "-o", "yaml", "log", "-n", "2")
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	if strings.Count(out, "card_id:") != 2 {
		t.Fatalf("expected two logged reads, got %q", out)
	}
	fb.mu.Lock()
	defer fb.mu.Unlock()
	if len(fb.policies) != 2 {
		t.Fatalf("sync card must not create backend policies: %+v", fb.policies)
	}
}

func TestCLISyncBackend(t *testing.T) {
	testlog.Start(t)
	dir, fb := setupCLI(t)
	stationCfg := filepath.Join(dir, "station.toml")
	f, err := os.OpenFile(stationCfg, os.O_APPEND|os.O_WRONLY, 0)
	if err != nil {
		t.Fatalf("open config: %v", err)
	}
	_, _ = f.WriteString("tag_image = \"tlv\"\n")
	_ = f.Close()

	cardFile := filepath.Join(dir, "card.yaml")
	data := `policies:
  - policyholder: Jane Doe
    insurer: Star
    premium: "₹1,200"
    policy_number: POL-9
`
	if err := os.WriteFile(cardFile, []byte(data), 0o644); err != nil {
		t.Fatalf("write card data: %v", err)
	}
	if out, err := runCLI(t, "-c", stationCfg, "write", cardFile); err != nil {
		t.Fatalf("write: %v (%s)", err, out)
	}

	out, err := runCLI(t, "-c", stationCfg, "sync", "backend")
	if err != nil {
		t.Fatalf("sync backend: %v", err)
	}
	if !strings.Contains(out, "created POL-9") {
		t.Fatalf("unexpected output: %q", out)
	}
	fb.mu.Lock()
	defer fb.mu.Unlock()
	if len(fb.policies) != 3 || fb.policies[2].PolicyNumber != "POL-9" || fb.policies[2].Status != "Active" {
		t.Fatalf("unexpected backend policies: %+v", fb.policies)
	}
}

func TestCLIRejectsUnknownOutput(t *testing.T) {
	testlog.Start(t)
	if _, err := runCLI(t, "-o", "xml", "log"); err == nil || !strings.Contains(err.Error(), "unknown output format") {
		t.Fatalf("expected output format error, got %v", err)
	}
}

func TestCLIConfigInit(t *testing.T) {
	testlog.Start(t)
	path := filepath.Join(t.TempDir(), "conf", "station.toml")
	if _, err := runCLI(t, "config", "init", path); err != nil {
		t.Fatalf("config init: %v", err)
	}
	if _, err := loadStationConfig(path); err != nil {
		t.Fatalf("generated config must load: %v", err)
	}
	if _, err := runCLI(t, "config", "init", path); err == nil {
		t.Fatalf("second init without --force must fail")
	}
}
