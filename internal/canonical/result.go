package canonical

import "github.com/thoreinstein/canon/internal/format"

// ConversionResult is the outcome of one conversion.
type ConversionResult struct {
	Content         string        `json:"content"`
	Format          format.Format `json:"format"`
	Warnings        []string      `json:"warnings"`
	LossyConversion bool          `json:"lossyConversion"`
	QualityScore    int           `json:"qualityScore"`
}
