package stats

import (
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestCountersConcurrentIncrement(t *testing.T) {
	var c Counters
	var wg sync.WaitGroup
	const n = 1000
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			c.IncAcquires()
		}()
	}
	wg.Wait()
	if got := c.Snapshot().Acquires; got != n {
		t.Fatalf("expected %d acquires, got %d", n, got)
	}
}

func TestCollectorReportsSnapshot(t *testing.T) {
	var c Counters
	c.IncAcquires()
	c.IncAcquires()
	c.IncReleases()

	col := NewCollector("test-pool", &c)
	reg := prometheus.NewRegistry()
	if err := reg.Register(col); err != nil {
		t.Fatalf("register: %v", err)
	}

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}

	found := map[string]float64{}
	for _, mf := range metrics {
		var m *dto.Metric
		if len(mf.Metric) > 0 {
			m = mf.Metric[0]
		}
		if m == nil {
			continue
		}
		if m.Counter != nil {
			found[mf.GetName()] = m.Counter.GetValue()
		} else if m.Gauge != nil {
			found[mf.GetName()] = m.Gauge.GetValue()
		}
	}
	if found["objpool_acquires_total"] != 2 {
		t.Fatalf("expected 2 acquires reported, got %v", found["objpool_acquires_total"])
	}
	if found["objpool_releases_total"] != 1 {
		t.Fatalf("expected 1 release reported, got %v", found["objpool_releases_total"])
	}
}
