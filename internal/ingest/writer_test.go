package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fenrir/internal/analyzer"
	"fenrir/internal/book"
	"fenrir/internal/common"
)

func TestFormatLine_Feasible(t *testing.T) {
	e := analyzer.Emission{
		Timestamp: 28800773,
		Side:      common.Ask,
		Result:    book.SweepResult{Feasible: true, TotalCents: 883600},
	}
	assert.Equal(t, "28800773 B 8836.00", FormatLine(e))
}

func TestFormatLine_Infeasible(t *testing.T) {
	e := analyzer.Emission{
		Timestamp: 28800744,
		Side:      common.Bid,
		Result:    book.SweepResult{Feasible: false},
	}
	assert.Equal(t, "28800744 S NA", FormatLine(e))
}

func TestFormatLine_SubDollarAmountKeepsLeadingZero(t *testing.T) {
	e := analyzer.Emission{
		Timestamp: 1,
		Side:      common.Bid,
		Result:    book.SweepResult{Feasible: true, TotalCents: 7},
	}
	assert.Equal(t, "1 S 0.07", FormatLine(e))
}
