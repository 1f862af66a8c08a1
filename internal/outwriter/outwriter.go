// Package outwriter renders stage summaries as labelled text, tables, CSV or JSON.
package outwriter

import (
	"github.com/huangsam/utilstudy/internal/contract"
	"github.com/huangsam/utilstudy/schema"
)

// OutWriter is the single output surface used by the commands.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteComplexity prints complexity summaries using the configured output format.
func (ow *OutWriter) WriteComplexity(summaries []schema.ComplexitySummary, cfg *contract.Config) error {
	return PrintComplexity(summaries, cfg)
}

// WriteOddsRatios prints the odds-ratio tables of a project using the configured output format.
func (ow *OutWriter) WriteOddsRatios(project string, results []schema.OddsRatioResult, cfg *contract.Config) error {
	return PrintOddsRatios(project, results, cfg)
}

// WriteCWEComparison prints exclusive CWEs using the configured output format.
func (ow *OutWriter) WriteCWEComparison(comps []schema.CWEComparison, cfg *contract.Config) error {
	return PrintCWEComparison(comps, cfg)
}

// WritePrevalence prints per-language util counts using the configured output format.
func (ow *OutWriter) WritePrevalence(results []schema.PrevalenceResult, cfg *contract.Config) error {
	return PrintPrevalence(results, cfg)
}

// WriteConcentration prints util depth buckets using the configured output format.
func (ow *OutWriter) WriteConcentration(res schema.ConcentrationResult, cfg *contract.Config) error {
	return PrintConcentration(res, cfg)
}

// WritePromotions prints promotion and demotion chains using the configured output format.
func (ow *OutWriter) WritePromotions(res schema.PromotionResult, cfg *contract.Config) error {
	return PrintPromotions(res, cfg)
}

// WriteUsage prints the call graph comparison using the configured output format.
func (ow *OutWriter) WriteUsage(s schema.UsageSummary, cfg *contract.Config) error {
	return PrintUsage(s, cfg)
}

// WriteRecidivism prints recidivism series totals using the configured output format.
func (ow *OutWriter) WriteRecidivism(series []schema.RecidivismSeries, cfg *contract.Config) error {
	return PrintRecidivism(series, cfg)
}
