package stats

import "github.com/prometheus/client_golang/prometheus"

// Collector adapts a pool's Counters into a prometheus.Collector
// without putting Prometheus on any write path — Describe/Collect only
// ever read the already-maintained atomics.
type Collector struct {
	counters *Counters
	poolName string

	acquires        *prometheus.Desc
	releases        *prometheus.Desc
	creates         *prometheus.Desc
	crossThreadOps  *prometheus.Desc
	sameThreadHits  *prometheus.Desc
	inUse           *prometheus.Desc
	currentPoolSize *prometheus.Desc
	cacheHits       *prometheus.Desc
	batchOperations *prometheus.Desc
}

// NewCollector builds a Collector reporting counters under the given
// pool name as a constant label, for registration with a Prometheus
// registry by the caller.
func NewCollector(poolName string, counters *Counters) *Collector {
	labels := prometheus.Labels{"pool": poolName}
	mk := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc("objpool_"+name, help, nil, labels)
	}
	return &Collector{
		counters:        counters,
		poolName:        poolName,
		acquires:        mk("acquires_total", "Acquire calls."),
		releases:        mk("releases_total", "Release calls."),
		creates:         mk("creates_total", "Slots constructed via the allocator."),
		crossThreadOps:  mk("cross_thread_ops_total", "Operations whose slot crossed threads."),
		sameThreadHits:  mk("same_thread_hits_total", "Acquires satisfied by the calling thread's own shard."),
		inUse:           mk("in_use", "Slots currently out with callers."),
		currentPoolSize: mk("current_pool_size", "Best-effort approximate free-ring size."),
		cacheHits:       mk("cache_hits_total", "Acquires satisfied from a shard cache."),
		batchOperations: mk("batch_operations_total", "Prewarm and shrink batches processed."),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.acquires
	ch <- c.releases
	ch <- c.creates
	ch <- c.crossThreadOps
	ch <- c.sameThreadHits
	ch <- c.inUse
	ch <- c.currentPoolSize
	ch <- c.cacheHits
	ch <- c.batchOperations
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.counters.Snapshot()
	ch <- prometheus.MustNewConstMetric(c.acquires, prometheus.CounterValue, float64(s.Acquires))
	ch <- prometheus.MustNewConstMetric(c.releases, prometheus.CounterValue, float64(s.Releases))
	ch <- prometheus.MustNewConstMetric(c.creates, prometheus.CounterValue, float64(s.Creates))
	ch <- prometheus.MustNewConstMetric(c.crossThreadOps, prometheus.CounterValue, float64(s.CrossThreadOps))
	ch <- prometheus.MustNewConstMetric(c.sameThreadHits, prometheus.CounterValue, float64(s.SameThreadHits))
	ch <- prometheus.MustNewConstMetric(c.inUse, prometheus.GaugeValue, float64(s.InUse))
	ch <- prometheus.MustNewConstMetric(c.currentPoolSize, prometheus.GaugeValue, float64(s.CurrentPoolSize))
	ch <- prometheus.MustNewConstMetric(c.cacheHits, prometheus.CounterValue, float64(s.CacheHits))
	ch <- prometheus.MustNewConstMetric(c.batchOperations, prometheus.CounterValue, float64(s.BatchOperations))
}

var _ prometheus.Collector = (*Collector)(nil)
