package observability

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/san-kum/nbodysim/internal/dynamo"
)

func TestCollectorOnTick(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewCollector(reg)
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}

	bs := dynamo.NewBodySetFrom([]dynamo.Body{{Mass: 5e24}, {Mass: 1}})
	c.OnTick(bs, dynamo.TickStats{Tick: 1, DeltaT: 2, SimTime: 2, Bodies: 2, Duration: time.Millisecond})
	c.OnTick(bs, dynamo.TickStats{Tick: 2, DeltaT: 3, SimTime: 5, Bodies: 2, Duration: time.Millisecond})

	if got := testutil.ToFloat64(c.Ticks); got != 2 {
		t.Errorf("ticks = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.SimTime); got != 5 {
		t.Errorf("sim time = %v, want 5", got)
	}
	if got := testutil.ToFloat64(c.DeltaT); got != 3 {
		t.Errorf("delta t = %v, want 3", got)
	}
	if got := testutil.ToFloat64(c.Bodies); got != 2 {
		t.Errorf("bodies = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.PrimaryMass); got != 5e24 {
		t.Errorf("primary mass = %v, want 5e24", got)
	}
	if n := testutil.CollectAndCount(c.TickDuration); n != 1 {
		t.Errorf("histogram series = %d, want 1", n)
	}
}

func TestCollectorReregister(t *testing.T) {
	reg := prometheus.NewRegistry()
	a, err := NewCollector(reg)
	if err != nil {
		t.Fatalf("first NewCollector: %v", err)
	}
	b, err := NewCollector(reg)
	if err != nil {
		t.Fatalf("second NewCollector: %v", err)
	}

	a.Ticks.Inc()
	if got := testutil.ToFloat64(b.Ticks); got != 1 {
		t.Errorf("second collector does not share counter: %v", got)
	}
}

func TestCollectorNilSafe(t *testing.T) {
	var c *Collector
	c.OnTick(nil, dynamo.TickStats{})
	c.SetPrimaryMass(1)
}

func TestCollectorHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewCollector(reg)
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}
	c.SetPrimaryMass(42)

	srv := httptest.NewServer(c.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if !strings.Contains(string(body), "nbody_primary_mass_kg 42") {
		t.Errorf("metrics output missing primary mass gauge:\n%s", body)
	}
}
