package outwriter

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/huangsam/utilstudy/internal/contract"
	"github.com/huangsam/utilstudy/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateFormatters(t *testing.T) {
	tests := []struct {
		name      string
		precision int
		value     float64
		expected  string
	}{
		{"precision 2", 2, 3.14159, "3.14"},
		{"precision 4", 4, 3.14159, "3.1416"},
		{"negative value", 2, -42.567, "-42.57"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fmtFloat, intFmt := createFormatters(tt.precision)
			assert.Equal(t, tt.expected, fmtFloat(tt.value))
			assert.Equal(t, "%d", intFmt)
		})
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, map[string]int{"util": 3}))
	assert.Equal(t, "{\n  \"util\": 3\n}\n", buf.String())

	err := writeJSON(&buf, make(chan int))
	assert.ErrorContains(t, err, "failed to encode JSON")
}

func TestWriteCSVWithHeader(t *testing.T) {
	var buf bytes.Buffer
	err := writeCSVWithHeader(&buf, []string{"path", "aliases"}, func(w *csv.Writer) error {
		return w.Write([]string{"src/util.c", "a.c, b.c"})
	})
	require.NoError(t, err)
	assert.Equal(t, "path,aliases\nsrc/util.c,\"a.c, b.c\"\n", buf.String())

	err = writeCSVWithHeader(&buf, []string{"col"}, func(*csv.Writer) error { return assert.AnError })
	assert.Equal(t, assert.AnError, err)
}

func TestWriteWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	err := writeWithFile(path, func(w io.Writer) error {
		_, err := io.WriteString(w, "Util Count: 3\n")
		return err
	}, "Wrote report")
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Util Count: 3\n", string(content))

	err = writeWithFile(path, func(io.Writer) error { return assert.AnError }, "Wrote report")
	assert.Equal(t, assert.AnError, err)

	err = writeWithFile("/nonexistent/path/file.txt", func(io.Writer) error { return nil }, "Wrote report")
	assert.Error(t, err)
}

func TestSideLabel(t *testing.T) {
	prev := color.NoColor
	color.NoColor = false
	defer func() { color.NoColor = prev }()

	plain := &contract.Config{UseColors: false}
	assert.Equal(t, "Util", sideLabel(plain, true))
	assert.Equal(t, "Non-Util", sideLabel(plain, false))

	colored := &contract.Config{UseColors: true}
	assert.Contains(t, sideLabel(colored, true), "\x1b[")
	assert.Contains(t, sideLabel(colored, true), "Util")
}

func TestShare(t *testing.T) {
	fmtFloat, _ := createFormatters(2)
	assert.Equal(t, "0.25", share(fmtFloat, 1, 4))
	assert.Equal(t, "-", share(fmtFloat, 1, 0))
}

func TestGetMaxTablePathWidth(t *testing.T) {
	tests := []struct {
		width    int
		reserved int
		expected int
	}{
		{100, 25, 55},
		{40, 25, 15},
		{300, 25, 70},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, GetMaxTablePathWidth(&contract.Config{Width: tt.width}, tt.reserved))
	}
}

func TestDispatch(t *testing.T) {
	called := map[schema.OutputMode]string{}
	text := func(w io.Writer) error { called[schema.TextOut] = "text"; _, err := io.WriteString(w, "text"); return err }
	table := func(w io.Writer) error { called[schema.TableOut] = "table"; _, err := io.WriteString(w, "table"); return err }
	rows := func(w io.Writer) error { called[schema.CSVOut] = "csv"; _, err := io.WriteString(w, "csv"); return err }

	dir := t.TempDir()
	for _, mode := range []schema.OutputMode{schema.TextOut, schema.TableOut, schema.CSVOut, schema.JSONOut} {
		path := filepath.Join(dir, string(mode))
		cfg := &contract.Config{Output: mode, OutputFile: path}
		require.NoError(t, dispatch(cfg, text, table, rows, []int{1}))

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		if mode == schema.JSONOut {
			assert.JSONEq(t, "[1]", string(content))
			continue
		}
		assert.Equal(t, string(mode), string(content))
	}
	assert.Len(t, called, 3)
}

func TestDispatch_WrapsErrors(t *testing.T) {
	fail := func(io.Writer) error { return assert.AnError }
	cfg := &contract.Config{Output: schema.CSVOut, OutputFile: filepath.Join(t.TempDir(), "x.csv")}
	err := dispatch(cfg, fail, fail, fail, nil)
	assert.ErrorIs(t, err, assert.AnError)
	assert.ErrorContains(t, err, "error writing CSV output")
}
