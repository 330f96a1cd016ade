package store

import (
	"fmt"
	"time"

	"github.com/VictoriaMetrics/metrics"
)

// per-database metrics, registered in the default metrics set.
// Use metrics.WritePrometheus() to expose them.
type dbMetrics struct {
	db string
}

func (m dbMetrics) name(metric string, op string) string {
	if op == "" {
		return fmt.Sprintf(`%s{db=%q}`, metric, m.db)
	}
	return fmt.Sprintf(`%s{db=%q,op=%q}`, metric, m.db, op)
}

// done records an operation and returns err unchanged
func (m dbMetrics) done(op string, err error) error {
	metrics.GetOrCreateCounter(m.name("flintdb_ops_total", op)).Inc()
	if err != nil {
		metrics.GetOrCreateCounter(m.name("flintdb_errors_total", op)).Inc()
	}
	return err
}

func (m dbMetrics) cacheHit() {
	metrics.GetOrCreateCounter(m.name("flintdb_cache_hits_total", "")).Inc()
}

func (m dbMetrics) rewrite(start time.Time) {
	metrics.GetOrCreateHistogram(m.name("flintdb_rewrite_duration_seconds", "")).UpdateDuration(start)
}
