package ingest

import (
	"fmt"

	"fenrir/internal/analyzer"
)

// FormatLine renders an Emission as the single output line spec.md §6
// mandates: "<timestamp> <action> <value>", value either "NA" or a
// decimal dollar amount with exactly two fractional digits.
func FormatLine(e analyzer.Emission) string {
	value := "NA"
	if e.Result.Feasible {
		value = fmt.Sprintf("%d.%02d", e.Result.TotalCents/100, e.Result.TotalCents%100)
	}
	return fmt.Sprintf("%d %s %s", e.Timestamp, e.Side.Action(), value)
}
