package metrics

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/rcrowley/go-metrics"
)

func TestDisabledStubs(t *testing.T) {
	defer func(old bool) { Enabled = old }(Enabled)
	Enabled = false

	if _, ok := NewTimer("test/disabled/timer").(*metrics.NilTimer); !ok {
		t.Error("expected nil timer when disabled")
	}
	if _, ok := NewHistogram("test/disabled/hist", 16).(*metrics.NilHistogram); !ok {
		t.Error("expected nil histogram when disabled")
	}
	if _, ok := NewMeter("test/disabled/meter").(*metrics.NilMeter); !ok {
		t.Error("expected nil meter when disabled")
	}
	var buf bytes.Buffer
	WriteOnce(&buf, "test/")
	if buf.Len() != 0 {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestEnabledRegistry(t *testing.T) {
	defer func(old bool) { Enabled = old }(Enabled)
	Enabled = true
	defer metrics.DefaultRegistry.UnregisterAll()

	timer := NewTimer("test/enabled/timer")
	timer.Update(5 * time.Millisecond)
	if timer.Count() != 1 {
		t.Errorf("timer count mismatch: have %d, want 1", timer.Count())
	}
	if NewTimer("test/enabled/timer") != timer {
		t.Error("expected the registered timer to be reused")
	}
	hist := NewHistogram("test/enabled/hist", 16)
	hist.Update(42)
	meter := NewMeter("test/enabled/meter")
	meter.Mark(3)
	if meter.Count() != 3 {
		t.Errorf("meter count mismatch: have %d, want 3", meter.Count())
	}
	NewCounter("other/counter").Inc(1)

	var buf bytes.Buffer
	WriteOnce(&buf, "test/")
	out := buf.String()
	if !strings.Contains(out, "test/enabled/timer") || !strings.Contains(out, "test/enabled/meter") {
		t.Errorf("missing metrics in output:\n%s", out)
	}
	if strings.Contains(out, "other/counter") {
		t.Errorf("unexpected metric in output:\n%s", out)
	}
}
