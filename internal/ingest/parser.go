// Package ingest is the I/O boundary (spec.md §2 component F, explicitly
// out of the core): it turns input lines into common.Event values and
// formats analyzer.Emission values back into output lines. Grounded on
// original_source/src/book_analyzer.py's _parse_message, which used the
// same two-grammar regexp dispatch.
package ingest

import (
	"fmt"
	"regexp"
	"strconv"

	"fenrir/internal/common"
)

var (
	addOrderPattern    = regexp.MustCompile(`^(\d+) A ([A-Za-z0-9]+) (B|S) (\d+)\.(\d{2}) (\d+)$`)
	reduceOrderPattern = regexp.MustCompile(`^(\d+) R ([A-Za-z0-9]+) (\d+)$`)
)

// ParseLine turns one input line into an Event. Any line matching neither
// grammar in spec.md §6 is reported as ErrMalformedLine.
func ParseLine(line string) (common.Event, error) {
	if m := addOrderPattern.FindStringSubmatch(line); m != nil {
		return parseAddOrder(m)
	}
	if m := reduceOrderPattern.FindStringSubmatch(line); m != nil {
		return parseReduceOrder(m)
	}
	return nil, fmt.Errorf("%w: %q", common.ErrMalformedLine, line)
}

func parseAddOrder(m []string) (common.Event, error) {
	timestamp, err := strconv.ParseUint(m[1], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: timestamp %q: %v", common.ErrBadField, m[1], err)
	}
	orderID := m[2]
	side, err := parseSide(m[3])
	if err != nil {
		return nil, err
	}
	priceCents, err := parsePriceCents(m[4], m[5])
	if err != nil {
		return nil, err
	}
	size, err := strconv.ParseUint(m[6], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: size %q: %v", common.ErrBadField, m[6], err)
	}

	event := common.AddOrder{
		Timestamp:  timestamp,
		OrderID:    orderID,
		Side:       side,
		PriceCents: priceCents,
		Size:       size,
	}
	if err := event.Validate(); err != nil {
		return nil, err
	}
	return event, nil
}

func parseReduceOrder(m []string) (common.Event, error) {
	timestamp, err := strconv.ParseUint(m[1], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: timestamp %q: %v", common.ErrBadField, m[1], err)
	}
	orderID := m[2]
	sizeReduction, err := strconv.ParseUint(m[3], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: size_reduction %q: %v", common.ErrBadField, m[3], err)
	}

	event := common.ReduceOrder{
		Timestamp:     timestamp,
		OrderID:       orderID,
		SizeReduction: sizeReduction,
	}
	if err := event.Validate(); err != nil {
		return nil, err
	}
	return event, nil
}

func parseSide(tag string) (common.Side, error) {
	switch tag {
	case "B":
		return common.Bid, nil
	case "S":
		return common.Ask, nil
	default:
		return 0, fmt.Errorf("%w: %q", common.ErrUnknownSide, tag)
	}
}

// parsePriceCents combines the dollars and (exactly two digit) cents
// capture groups into an integer cent amount (spec.md §6).
func parsePriceCents(dollarsStr, centsStr string) (uint64, error) {
	dollars, err := strconv.ParseUint(dollarsStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: price dollars %q: %v", common.ErrBadField, dollarsStr, err)
	}
	cents, err := strconv.ParseUint(centsStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: price cents %q: %v", common.ErrBadField, centsStr, err)
	}
	return dollars*100 + cents, nil
}
