package engine

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"statsboard/internal/metrics"
	"statsboard/internal/models"
)

// Pipeline runs select-then-aggregate over a loaded dataset.
type Pipeline struct {
	Rules   RuleSet
	Logger  *zap.Logger
	Metrics *metrics.Collector // optional
}

// NewPipeline uses DefaultRules.
func NewPipeline(logger *zap.Logger, m *metrics.Collector) *Pipeline {
	return &Pipeline{Rules: DefaultRules, Logger: logger, Metrics: m}
}

// Run filters ds, computes every statistic and assembles the report.
// rulesText is the content of the auxiliary rules file, carried for display.
func (p *Pipeline) Run(ctx context.Context, ds *Dataset, rulesText []string) (*models.Report, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	filtered, err := Select(ds, p.Rules)
	if err != nil {
		p.observe(ds.Len(), 0, start, err)
		return nil, fmt.Errorf("select rows: %w", err)
	}
	p.Logger.Info("rows selected",
		zap.Strings("rules", p.Rules.Strings()),
		zap.Int("total", ds.Len()),
		zap.Int("matched", len(filtered)))

	if len(filtered) == 0 {
		p.Logger.Warn("no rows matched the rules, statistics fall back to defaults")
	}

	stats, err := ComputeAll(filtered)
	if err != nil {
		p.observe(ds.Len(), len(filtered), start, err)
		return nil, fmt.Errorf("compute statistics: %w", err)
	}
	p.Logger.Debug("statistics computed", zap.Any("stats", stats))

	report := &models.Report{
		TotalRows:   ds.Len(),
		MatchedRows: len(filtered),
		Rules:       p.Rules.Strings(),
		Stats:       stats,
		Table:       Table(stats),
		Rows:        filtered.Rows(),
	}
	if ds != nil {
		report.Source = ds.Source
	}
	report.RulesFile = rulesText

	p.observe(report.TotalRows, report.MatchedRows, start, nil)
	return report, nil
}

func (p *Pipeline) observe(total, matched int, start time.Time, err error) {
	if p.Metrics == nil {
		return
	}
	p.Metrics.ObserveRun(total, matched, time.Since(start), err)
}
