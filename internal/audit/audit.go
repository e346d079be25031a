package audit

import (
	"context"
	"sync"

	"github.com/Domenick1991/dummydata/internal/kafka"
	"go.uber.org/zap"
)

// Recorder writes generation events to the audit log and keeps running
// per-table totals.
type Recorder struct {
	log *zap.Logger

	mu     sync.Mutex
	totals map[string]int
}

func NewRecorder(log *zap.Logger) *Recorder {
	return &Recorder{log: log, totals: make(map[string]int)}
}

func (r *Recorder) Record(ctx context.Context, event kafka.GenerationEvent) error {
	if event.Type != kafka.EventTypeGenerated {
		r.log.Debug("skipping audit event", zap.String("type", event.Type))
		return nil
	}

	r.mu.Lock()
	if event.Mode == "reset" {
		r.totals[event.Table] = 0
	}
	r.totals[event.Table] += event.Count
	total := r.totals[event.Table]
	r.mu.Unlock()

	r.log.Info("dummy data generated",
		zap.String("table", event.Table),
		zap.Int("count", event.Count),
		zap.String("mode", event.Mode),
		zap.String("request_id", event.RequestID),
		zap.Time("at", event.At),
		zap.Int("seen_total", total),
	)
	return nil
}

// Total is the number of rows seen for table since the last reset event.
func (r *Recorder) Total(table string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.totals[table]
}
