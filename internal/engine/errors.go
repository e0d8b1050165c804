package engine

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidModulus = errors.New("modulus must be non-zero")
	ErrEmptyFile      = errors.New("dataset file has no header row")
)

// MissingColumnError reports a referenced column that is absent or not numeric
// on some record. Row is the 0-based position in the scanned sequence, -1 if unknown.
type MissingColumnError struct {
	Column string
	Row    int
}

func (e *MissingColumnError) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("column %q missing or not numeric", e.Column)
	}
	return fmt.Sprintf("column %q missing or not numeric at row %d", e.Column, e.Row)
}

// withRow stamps the row index onto a MissingColumnError.
func withRow(err error, row int) error {
	var mce *MissingColumnError
	if errors.As(err, &mce) {
		return &MissingColumnError{Column: mce.Column, Row: row}
	}
	return err
}
