// Package dashboard turns a comparison into the set of charts a dashboard shows
// and mounts them onto a render target.
package dashboard

import (
	"context"
	"errors"
	"fmt"

	"newslens/internal/chart"
	"newslens/internal/domain"
	"newslens/internal/sentiment"
)

// RenderTarget is a drawing surface with named chart containers.
type RenderTarget interface {
	HasContainer(id string) bool
	Mount(ctx context.Context, spec chart.Spec) error
}

// Clipboard accepts text for the user's clipboard.
type Clipboard interface {
	WriteText(ctx context.Context, text string) error
}

// Options carries the two independent sentiment classifiers.
type Options struct {
	Buckets sentiment.BucketClassifier
	Tone    sentiment.ToneClassifier
}

func DefaultOptions() Options {
	return Options{Buckets: sentiment.DefaultBuckets(), Tone: sentiment.DefaultTone()}
}

type Dashboard struct {
	comparison domain.Comparison
	opts       Options
}

func New(c domain.Comparison, opts Options) *Dashboard {
	return &Dashboard{comparison: c, opts: opts}
}

func (d *Dashboard) Comparison() domain.Comparison {
	return d.comparison
}

// Charts returns the specs that apply to the comparison. Charts whose inputs are
// absent are skipped.
func (d *Dashboard) Charts() []chart.Spec {
	c := d.comparison
	var specs []chart.Spec

	if len(c.Articles1) > 0 {
		specs = append(specs, chart.Scatter(c.Query1, c.Articles1, c.Query2, c.Articles2, d.opts.Tone))
	}
	if len(c.Analysis1.Timeline) > 0 {
		specs = append(specs, chart.Timeline(c.Query1, c.Analysis1, c.Query2, c.Analysis2))
	}
	if len(c.Analysis1.Sources) > 0 {
		specs = append(specs, chart.Sources(c.Query1, c.Analysis1, c.Query2, c.Analysis2))
	}
	if len(c.Articles1) > 0 {
		specs = append(specs, chart.SentimentPie(chart.PieID1, c.Query1, c.Articles1, d.opts.Buckets))
		if c.HasSecondBatch() {
			specs = append(specs, chart.SentimentPie(chart.PieID2, c.Query2, c.Articles2, d.opts.Buckets))
		}
		specs = append(specs, chart.OutletSentiment(chart.OutletID1, c.Query1, c.Articles1, d.opts.Tone))
		if c.HasSecondBatch() {
			specs = append(specs, chart.OutletSentiment(chart.OutletID2, c.Query2, c.Articles2, d.opts.Tone))
		}
	}
	return specs
}

// Chart returns the applicable spec with the given container id.
func (d *Dashboard) Chart(id string) (chart.Spec, bool) {
	for _, s := range d.Charts() {
		if s.ID == id {
			return s, true
		}
	}
	return chart.Spec{}, false
}

// Render mounts every applicable chart the target has a container for and
// returns how many were mounted. Mount failures do not stop the remaining charts.
func (d *Dashboard) Render(ctx context.Context, target RenderTarget) (int, error) {
	mounted := 0
	var errs []error
	for _, spec := range d.Charts() {
		if !target.HasContainer(spec.ID) {
			continue
		}
		if err := target.Mount(ctx, spec); err != nil {
			errs = append(errs, fmt.Errorf("mount %s: %w", spec.ID, err))
			continue
		}
		mounted++
	}
	return mounted, errors.Join(errs...)
}
