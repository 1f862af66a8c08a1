package schema

import (
	"fmt"
	"time"
)

// CommitDateLayout is the date format of the commit selection CSV.
const CommitDateLayout = "2006-01-02 15:04:05"

// CSVTime is a time.Time that round-trips through CommitDateLayout in CSV files.
type CSVTime struct {
	time.Time
}

// MarshalCSV implements gocsv.TypeMarshaller.
func (t CSVTime) MarshalCSV() (string, error) {
	return t.Format(CommitDateLayout), nil
}

// UnmarshalCSV implements gocsv.TypeUnmarshaller. A fractional second suffix is accepted.
func (t *CSVTime) UnmarshalCSV(s string) error {
	for _, layout := range []string{CommitDateLayout, CommitDateLayout + ".999999", time.DateOnly} {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("invalid commit date %q", s)
}

// CommitRecord is one selected snapshot of a repository.
type CommitRecord struct {
	Date CSVTime `csv:"date"`
	SHA  string  `csv:"sha"`
}

// Day returns the calendar day of the record, used as the snapshot key.
func (c CommitRecord) Day() string {
	return c.Date.Format(time.DateOnly)
}

// RemoteCommit is the subset of a hosted commit needed for selection.
type RemoteCommit struct {
	SHA           string
	CommitterDate time.Time
}

// AliasChain is the sequence of paths one logical file has held, newest first.
type AliasChain []string

// Current returns the path the file has today.
func (a AliasChain) Current() string {
	if len(a) == 0 {
		return ""
	}
	return a[0]
}
