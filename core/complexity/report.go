package complexity

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/huangsam/utilstudy/schema"
)

// WriteSummary writes the dataset header followed by the twelve labelled statistics.
func WriteSummary(w io.Writer, s schema.ComplexitySummary) error {
	var b strings.Builder
	b.WriteString(s.Dataset + "\n")
	line := func(label string, v float64) {
		fmt.Fprintf(&b, "%s:  %s\n", label, strconv.FormatFloat(v, 'g', -1, 64))
	}
	line("Util Mean", s.Util.RatioMean)
	line("Util STD", s.Util.RatioStdDev)
	line("Non Mean", s.Non.RatioMean)
	line("Non STD", s.Non.RatioStdDev)
	line("Util Line Mean", s.Util.LinesMean)
	line("Util Line STD", s.Util.LinesStdDev)
	line("Non Line Mean", s.Non.LinesMean)
	line("Non Line STD", s.Non.LinesStdDev)
	line("Util Uloc Mean", s.Util.UlocMean)
	line("Util Uloc STD", s.Util.UlocStdDev)
	line("Non Uloc Mean", s.Non.UlocMean)
	line("Non Uloc STD", s.Non.UlocStdDev)
	_, err := io.WriteString(w, b.String())
	return err
}
