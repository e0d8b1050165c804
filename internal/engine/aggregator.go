package engine

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"statsboard/internal/models"
)

// FifthColumn is the storage column behind the "fifth column" statistics
// (medianCol5, stdDevCol5, meanCol5). The dataset header is column0..column4,
// so the fifth column by 1-based ordinal is stored as column0.
const FifthColumn = "column0"

// Estimator names.
const (
	EstMean   = "mean"
	EstStdDev = "stddev"
	EstMode   = "mode"
	EstMedian = "median"
)

// StatRequest binds a result key to a column and an estimator.
type StatRequest struct {
	Key       string
	Column    string
	Estimator string
}

// Requests is the fixed list of statistics, in presentation order.
var Requests = []StatRequest{
	{Key: models.KeyMeanCol1, Column: "column1", Estimator: EstMean},
	{Key: models.KeyStdDevCol2, Column: "column2", Estimator: EstStdDev},
	{Key: models.KeyModeCol3, Column: "column3", Estimator: EstMode},
	{Key: models.KeyMedianCol4, Column: "column4", Estimator: EstMedian},
	{Key: models.KeyMedianCol5, Column: FifthColumn, Estimator: EstMedian},
	{Key: models.KeyStdDevCol5, Column: FifthColumn, Estimator: EstStdDev},
	{Key: models.KeyMeanCol5, Column: FifthColumn, Estimator: EstMean},
}

// ComputeAll runs every request over the filtered rows. An empty set yields the
// documented defaults; a missing column fails the whole computation.
func ComputeAll(fs FilteredSet) (*models.StatisticsResult, error) {
	// 1. Extract each referenced column once
	samples := make(map[string][]float64)
	for _, req := range Requests {
		if _, ok := samples[req.Column]; ok {
			continue
		}
		col, err := fs.Column(req.Column)
		if err != nil {
			return nil, fmt.Errorf("extract %s: %w", req.Column, err)
		}
		samples[req.Column] = col
	}

	// 2. Fan out: one goroutine per request, each writing its own slot
	slots := make([]interface{}, len(Requests))
	var g errgroup.Group
	for i, req := range Requests {
		i, req := i, req
		values := samples[req.Column]
		g.Go(func() error {
			v, err := estimate(req.Estimator, values)
			if err != nil {
				return fmt.Errorf("%s: %w", req.Key, err)
			}
			slots[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// 3. Assemble
	res := &models.StatisticsResult{}
	for i, req := range Requests {
		if err := assign(res, req.Key, slots[i]); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func estimate(name string, values []float64) (interface{}, error) {
	switch name {
	case EstMean:
		return Mean(values), nil
	case EstStdDev:
		return StdDev(values), nil
	case EstMode:
		return Mode(values), nil
	case EstMedian:
		return Median(values), nil
	}
	return nil, fmt.Errorf("unknown estimator %q", name)
}

func assign(res *models.StatisticsResult, key string, v interface{}) error {
	if key == models.KeyModeCol3 {
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("%s: expected text, got %T", key, v)
		}
		res.ModeCol3 = s
		return nil
	}

	f, ok := v.(float64)
	if !ok {
		return fmt.Errorf("%s: expected number, got %T", key, v)
	}
	switch key {
	case models.KeyMeanCol1:
		res.MeanCol1 = f
	case models.KeyStdDevCol2:
		res.StdDevCol2 = f
	case models.KeyMedianCol4:
		res.MedianCol4 = f
	case models.KeyMedianCol5:
		res.MedianCol5 = f
	case models.KeyStdDevCol5:
		res.StdDevCol5 = f
	case models.KeyMeanCol5:
		res.MeanCol5 = f
	default:
		return fmt.Errorf("unknown statistic key %q", key)
	}
	return nil
}

// Table lists the results in request order for tabular display.
func Table(res *models.StatisticsResult) []models.StatEntry {
	out := make([]models.StatEntry, 0, len(Requests))
	for _, req := range Requests {
		v, _ := res.Lookup(req.Key)
		out = append(out, models.StatEntry{
			Key:       req.Key,
			Statistic: req.Estimator,
			Column:    req.Column,
			Value:     v,
		})
	}
	return out
}
