package engine

// Record is one dataset row: column name -> numeric value.
// Non-numeric columns and empty cells are simply absent.
type Record map[string]float64

// Num returns the numeric value of column, or a *MissingColumnError.
func (r Record) Num(column string) (float64, error) {
	v, ok := r[column]
	if !ok {
		return 0, &MissingColumnError{Column: column, Row: -1}
	}
	return v, nil
}

// Dataset holds the loaded rows in file order. It is never mutated after loading.
type Dataset struct {
	Source  string
	Columns []string // header order, numeric and non-numeric
	Records []Record
}

// Len is the number of data rows (header excluded).
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Records)
}

// FilteredSet is the order-preserving subsequence of a Dataset that passed the rules.
type FilteredSet []Record

// Column extracts one column's values in row order.
func (fs FilteredSet) Column(name string) ([]float64, error) {
	out := make([]float64, len(fs))
	for i, rec := range fs {
		v, err := rec.Num(name)
		if err != nil {
			return nil, withRow(err, i)
		}
		out[i] = v
	}
	return out, nil
}

// Rows copies the records into plain maps for the presentation layer.
func (fs FilteredSet) Rows() []map[string]float64 {
	rows := make([]map[string]float64, len(fs))
	for i, rec := range fs {
		m := make(map[string]float64, len(rec))
		for k, v := range rec {
			m[k] = v
		}
		rows[i] = m
	}
	return rows
}
