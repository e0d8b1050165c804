package models

// Statistic keys, shared by the JSON surface and the table view.
const (
	KeyMeanCol1   = "meanCol1"
	KeyStdDevCol2 = "stdDevCol2"
	KeyModeCol3   = "modeCol3"
	KeyMedianCol4 = "medianCol4"
	KeyMedianCol5 = "medianCol5"
	KeyStdDevCol5 = "stdDevCol5"
	KeyMeanCol5   = "meanCol5"
)

// StatisticsResult is the fully assembled output of the statistics engine.
// ModeCol3 is textual: the tied modes joined by ", ", or "N/A" on empty input.
type StatisticsResult struct {
	MeanCol1   float64 `json:"meanCol1"`
	StdDevCol2 float64 `json:"stdDevCol2"`
	ModeCol3   string  `json:"modeCol3"`
	MedianCol4 float64 `json:"medianCol4"`
	MedianCol5 float64 `json:"medianCol5"`
	StdDevCol5 float64 `json:"stdDevCol5"`
	MeanCol5   float64 `json:"meanCol5"`
}

// StatEntry is one row of the statistics table.
type StatEntry struct {
	Key       string      `json:"key"`
	Statistic string      `json:"statistic"`
	Column    string      `json:"column"`
	Value     interface{} `json:"value"`
}

// Lookup returns the value stored under a statistic key.
func (r *StatisticsResult) Lookup(key string) (interface{}, bool) {
	switch key {
	case KeyMeanCol1:
		return r.MeanCol1, true
	case KeyStdDevCol2:
		return r.StdDevCol2, true
	case KeyModeCol3:
		return r.ModeCol3, true
	case KeyMedianCol4:
		return r.MedianCol4, true
	case KeyMedianCol5:
		return r.MedianCol5, true
	case KeyStdDevCol5:
		return r.StdDevCol5, true
	case KeyMeanCol5:
		return r.MeanCol5, true
	}
	return nil, false
}

// Report is what the presentation layer consumes: the statistics plus the
// diagnostic counts and the read-only filtered rows.
type Report struct {
	Source      string               `json:"source"`
	TotalRows   int                  `json:"total_rows"`
	MatchedRows int                  `json:"matched_rows"`
	Rules       []string             `json:"rules"`
	RulesFile   []string             `json:"rules_file,omitempty"`
	Stats       *StatisticsResult    `json:"stats"`
	Table       []StatEntry          `json:"table"`
	Rows        []map[string]float64 `json:"-"`
}

// Summary is the short human-facing view of a report.
type Summary struct {
	Source      string   `json:"source"`
	TotalRows   int      `json:"total_rows"`
	MatchedRows int      `json:"matched_rows"`
	Rules       []string `json:"rules"`
	Message     string   `json:"message"`
}
