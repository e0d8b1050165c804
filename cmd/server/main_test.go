package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/goccy/go-json"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"statsboard/internal/config"
	"statsboard/internal/metrics"
	"statsboard/internal/models"
)

func testFs(t *testing.T) afero.Fs {
	t.Helper()
	fsys := afero.NewMemMapFs()
	// rows 0, 1 and 3 pass (column4 % 7, column3 % 3)
	require.NoError(t, afero.WriteFile(fsys, "dataset.csv", []byte(`column0,column1,column2,column3,column4
5,2,1,3,7
7,4,3,6,7
9,8,5,3,8
11,6,5,9,14
`), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "rules.txt", []byte("column4 multiple of 7\ncolumn3 multiple of 3\n"), 0o644))
	return fsys
}

func testConfig() *config.Config {
	return &config.Config{DatasetPath: "dataset.csv", RulesPath: "rules.txt"}
}

func TestRun(t *testing.T) {
	m := metrics.New()

	report, err := run(context.Background(), testFs(t), testConfig(), zap.NewNop(), m)
	require.NoError(t, err)

	assert.Equal(t, 4, report.TotalRows)
	assert.Equal(t, 3, report.MatchedRows)
	assert.Equal(t, []string{"column4 multiple of 7", "column3 multiple of 3"}, report.RulesFile)
	assert.InDelta(t, 4.0, report.Stats.MeanCol1, 1e-12)
	assert.Equal(t, "3, 6, 9", report.Stats.ModeCol3)
	assert.Equal(t, 7.0, report.Stats.MedianCol5)
}

func TestRunMissingDataset(t *testing.T) {
	cfg := testConfig()
	cfg.DatasetPath = "absent.csv"

	_, err := run(context.Background(), testFs(t), cfg, zap.NewNop(), nil)
	assert.Error(t, err)
}

func TestPrintReport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printReport(context.Background(), &buf, testFs(t), testConfig(), zap.NewNop(), nil))

	var got models.Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "dataset.csv", got.Source)
	assert.Equal(t, 3, got.MatchedRows)
	require.NotNil(t, got.Stats)
	assert.Equal(t, 7.0, got.Stats.MedianCol4)
	assert.Len(t, got.Table, 7)
}
