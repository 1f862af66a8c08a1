package commits

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/huangsam/utilstudy/schema"
)

// WriteCommitCSV writes "date,sha" lines without a header.
func WriteCommitCSV(path string, records []schema.CommitRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := gocsv.MarshalWithoutHeaders(&records, f); err != nil {
		_ = f.Close()
		return fmt.Errorf("write commit csv: %w", err)
	}
	return f.Close()
}

// ReadCommitCSV reads a file written by WriteCommitCSV.
func ReadCommitCSV(path string) ([]schema.CommitRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var records []schema.CommitRecord
	if err := gocsv.UnmarshalWithoutHeaders(f, &records); err != nil {
		return nil, fmt.Errorf("read commit csv %s: %w", path, err)
	}
	return records, nil
}
