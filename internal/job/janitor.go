package job

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Janitor periodically removes stored dashboards past their retention period.
type Janitor struct {
	tracer       trace.Tracer
	pruner       DashboardPruner
	retention    time.Duration
	pollInterval time.Duration
}

type DashboardPruner interface {
	Prune(ctx context.Context, maxAge time.Duration) (int, error)
}

func NewJanitor(tracer trace.Tracer, pruner DashboardPruner, retentionDays, pollIntervalSecs int) *Janitor {
	return &Janitor{
		tracer:       tracer,
		pruner:       pruner,
		retention:    time.Duration(retentionDays) * 24 * time.Hour,
		pollInterval: time.Duration(pollIntervalSecs) * time.Second,
	}
}

// Start prunes once immediately and then every poll interval. Blocks until ctx is cancelled.
func (j *Janitor) Start(ctx context.Context) {
	log.Printf("Dashboard janitor starting (retention %s, every %s)", j.retention, j.pollInterval)

	j.runOnce(ctx)

	ticker := time.NewTicker(j.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Dashboard janitor stopped")
			return
		case <-ticker.C:
			j.runOnce(ctx)
		}
	}
}

func (j *Janitor) runOnce(ctx context.Context) {
	ctx, span := j.tracer.Start(ctx, "janitor.prune")
	defer span.End()

	n, err := j.pruner.Prune(ctx, j.retention)
	if err != nil {
		span.RecordError(err)
		log.Printf("janitor prune error: %v", err)
		return
	}
	span.SetAttributes(attribute.Int("dashboard.pruned", n))
	if n > 0 {
		log.Printf("janitor pruned %d dashboards", n)
	}
}
