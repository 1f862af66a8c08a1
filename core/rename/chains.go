package rename

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/huangsam/utilstudy/schema"
)

// WriteChains writes one CSV row per chain.
func WriteChains(path string, chains []schema.AliasChain) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := EncodeChains(f, chains); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// EncodeChains writes chains as CSV rows to w.
func EncodeChains(w io.Writer, chains []schema.AliasChain) error {
	cw := csv.NewWriter(w)
	for _, c := range chains {
		if err := cw.Write(c); err != nil {
			return fmt.Errorf("write chain %q: %w", c.Current(), err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadChains reads a file written by WriteChains. Empty rows are skipped.
func ReadChains(path string) ([]schema.AliasChain, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	chains, err := DecodeChains(f)
	if err != nil {
		return nil, fmt.Errorf("read chains %s: %w", path, err)
	}
	return chains, nil
}

// DecodeChains parses rename rows of varying length.
func DecodeChains(r io.Reader) ([]schema.AliasChain, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	var chains []schema.AliasChain
	for {
		row, err := cr.Read()
		if err == io.EOF {
			return chains, nil
		}
		if err != nil {
			return nil, err
		}
		if len(row) == 0 || (len(row) == 1 && row[0] == "") {
			continue
		}
		chains = append(chains, schema.AliasChain(row))
	}
}
