package observability

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/nattsrk/AnurVCardPro/internal/testutil/testlog"
)

func TestRegisterMetricsAndRecordersAreSafe(t *testing.T) {
	testlog.Start(t)
	RegisterMetrics()
	RegisterMetrics()

	RecordHTTPRequest("cardctl", "GET", "/health", 200, 12*time.Millisecond)
	RecordDecoded([]string{"profile_link", "insurance_policy", "insurance_policy"})

	before := counterValue(t, syncRuns.WithLabelValues("backend_to_card", "error"))
	RecordSync("backend_to_card", 2, errors.New("capacity"))
	if got := counterValue(t, syncRuns.WithLabelValues("backend_to_card", "error")); got != before+1 {
		t.Fatalf("expected error run to be counted, got %v", got)
	}

	before = counterValue(t, tagOps.WithLabelValues("write", "ok"))
	RecordTagOp("write", nil, 300)
	if got := counterValue(t, tagOps.WithLabelValues("write", "ok")); got != before+1 {
		t.Fatalf("expected write to be counted, got %v", got)
	}
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("read counter: %v", err)
	}
	return m.GetCounter().GetValue()
}
