package wiremetrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	wiremetrics "github.com/dantte-lp/pubsubwire/internal/metrics"
)

func TestNewCollector(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	c := wiremetrics.NewCollector(reg)

	if c.CodecMessages == nil {
		t.Error("CodecMessages is nil")
	}
	if c.CodecErrors == nil {
		t.Error("CodecErrors is nil")
	}
	if c.AuthOutcomes == nil {
		t.Error("AuthOutcomes is nil")
	}
	if c.ReplayConflicts == nil {
		t.Error("ReplayConflicts is nil")
	}
	if c.ReplayStoreSize == nil {
		t.Error("ReplayStoreSize is nil")
	}

	// Verify all metrics are registered by gathering them.
	if _, err := reg.Gather(); err != nil {
		t.Fatalf("Gather() error: %v", err)
	}
}

func TestCodecCounters(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	c := wiremetrics.NewCollector(reg)

	c.IncCodecMessage("s2b", "S2BNotify")
	c.IncCodecMessage("s2b", "S2BNotify")
	c.IncCodecMessage("b2s", "B2SConfirmNotify")

	if got := counterValue(t, c.CodecMessages, "s2b", "S2BNotify"); got != 2 {
		t.Errorf("CodecMessages(s2b, S2BNotify) = %v, want 2", got)
	}
	if got := counterValue(t, c.CodecMessages, "b2s", "B2SConfirmNotify"); got != 1 {
		t.Errorf("CodecMessages(b2s, B2SConfirmNotify) = %v, want 1", got)
	}

	c.IncCodecError("s2b", "malformed")
	if got := counterValue(t, c.CodecErrors, "s2b", "malformed"); got != 1 {
		t.Errorf("CodecErrors(s2b, malformed) = %v, want 1", got)
	}
}

func TestAuthOutcomes(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	c := wiremetrics.NewCollector(reg)

	c.IncAuthOutcome("subscribe_exact", "ok")
	c.IncAuthOutcome("subscribe_exact", "forbidden")
	c.IncAuthOutcome("subscribe_exact", "forbidden")

	if got := counterValue(t, c.AuthOutcomes, "subscribe_exact", "ok"); got != 1 {
		t.Errorf("AuthOutcomes(subscribe_exact, ok) = %v, want 1", got)
	}
	if got := counterValue(t, c.AuthOutcomes, "subscribe_exact", "forbidden"); got != 2 {
		t.Errorf("AuthOutcomes(subscribe_exact, forbidden) = %v, want 2", got)
	}
}

func TestReplayMetrics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	c := wiremetrics.NewCollector(reg)

	c.IncReplayConflict("notify")
	c.IncReplayConflict("notify")
	if got := counterValue(t, c.ReplayConflicts, "notify"); got != 2 {
		t.Errorf("ReplayConflicts(notify) = %v, want 2", got)
	}

	c.SetReplayStoreSize(42)
	m := &dto.Metric{}
	if err := c.ReplayStoreSize.Write(m); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if got := m.GetGauge().GetValue(); got != 42 {
		t.Errorf("ReplayStoreSize = %v, want 42", got)
	}
}

// counterValue reads the current value of a CounterVec with the given labels.
func counterValue(t *testing.T, vec *prometheus.CounterVec, labels ...string) float64 {
	t.Helper()

	counter, err := vec.GetMetricWithLabelValues(labels...)
	if err != nil {
		t.Fatalf("GetMetricWithLabelValues(%v): %v", labels, err)
	}

	m := &dto.Metric{}
	if err := counter.Write(m); err != nil {
		t.Fatalf("Write metric: %v", err)
	}

	return m.GetCounter().GetValue()
}
