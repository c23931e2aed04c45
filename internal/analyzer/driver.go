// Package analyzer owns the two side books and decides, after each event,
// whether the affected side's sweep outcome changed, which emits a line
// (spec.md §2 component E, §4.E). It is the only component that compares
// sweep states.
package analyzer

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"fenrir/internal/book"
	"fenrir/internal/common"
)

// Driver is the analyzer engine: think of it as the single-symbol,
// no-matching sibling of the teacher's engine.Engine, which owned a map of
// OrderBook per asset. Here there is exactly one symbol, so the driver
// owns the bid and ask books directly.
type Driver struct {
	targetSize uint64

	bidBook *book.SideBook
	askBook *book.SideBook

	lastBidSweep book.SweepResult
	lastAskSweep book.SweepResult
}

// New builds a driver for the given target sweep size. Both sides start
// Infeasible, matching the zero value of book.SweepResult.
func New(targetSize uint64) *Driver {
	return &Driver{
		targetSize: targetSize,
		bidBook:    book.NewSideBook(common.Bid),
		askBook:    book.NewSideBook(common.Ask),
	}
}

// Emission is what the driver asks the I/O boundary to print: a line
// iff one was produced by the triggering event.
type Emission struct {
	Timestamp uint64
	Side      common.Side
	Result    book.SweepResult
}

// Apply routes one validated event to the correct side book, recomputes
// that side's sweep result, and reports an Emission when it changed
// (spec.md §4.E steps 1-5). The returned bool is false when the event was
// rejected or produced no change.
func (d *Driver) Apply(event common.Event) (Emission, bool, error) {
	switch e := event.(type) {
	case common.AddOrder:
		return d.applyAdd(e)
	case common.ReduceOrder:
		return d.applyReduce(e)
	default:
		return Emission{}, false, fmt.Errorf("analyzer: unrecognized event type %T", event)
	}
}

func (d *Driver) applyAdd(e common.AddOrder) (Emission, bool, error) {
	if err := e.Validate(); err != nil {
		return Emission{}, false, err
	}

	if _, _, onBid := d.bidBook.FindOrder(e.OrderID); onBid {
		return Emission{}, false, fmt.Errorf("%w: %s", common.ErrDuplicateOrderID, e.OrderID)
	}
	if _, _, onAsk := d.askBook.FindOrder(e.OrderID); onAsk {
		return Emission{}, false, fmt.Errorf("%w: %s", common.ErrDuplicateOrderID, e.OrderID)
	}

	sideBook := d.sideBookFor(e.Side)
	if err := sideBook.AddOrder(e.OrderID, e.PriceCents, e.Size); err != nil {
		return Emission{}, false, err
	}

	prev := *d.lastFor(e.Side)
	emission, emitted, err := d.recompute(e.Timestamp, e.Side)
	d.logDebug(e, e.Side, prev)
	return emission, emitted, err
}

func (d *Driver) applyReduce(e common.ReduceOrder) (Emission, bool, error) {
	if err := e.Validate(); err != nil {
		return Emission{}, false, err
	}

	side, ok := d.findOwningSide(e.OrderID)
	if !ok {
		return Emission{}, false, fmt.Errorf("%w: %s", common.ErrUnknownOrderID, e.OrderID)
	}

	sideBook := d.sideBookFor(side)
	applied, err := sideBook.ReduceOrder(e.OrderID, e.SizeReduction)
	if err != nil {
		return Emission{}, false, err
	}
	if applied < e.SizeReduction {
		log.Debug().
			Str("order_id", e.OrderID).
			Uint64("requested", e.SizeReduction).
			Uint64("applied", applied).
			Msg("reduction clamped to residual size")
	}

	prev := *d.lastFor(side)
	emission, emitted, err := d.recompute(e.Timestamp, side)
	d.logDebug(e, side, prev)
	return emission, emitted, err
}

// findOwningSide implements spec.md §4.C's find_order/§4.E's routing rule:
// search bid first, then ask, since a ReduceOrder message never tags a
// side.
func (d *Driver) findOwningSide(orderID string) (common.Side, bool) {
	if _, _, ok := d.bidBook.FindOrder(orderID); ok {
		return common.Bid, true
	}
	if _, _, ok := d.askBook.FindOrder(orderID); ok {
		return common.Ask, true
	}
	return 0, false
}

func (d *Driver) sideBookFor(side common.Side) *book.SideBook {
	if side == common.Bid {
		return d.bidBook
	}
	return d.askBook
}

func (d *Driver) lastFor(side common.Side) *book.SweepResult {
	if side == common.Bid {
		return &d.lastBidSweep
	}
	return &d.lastAskSweep
}

// logDebug restores book_analyzer.py's unconditional per-line trace:
// every successfully routed event, not just ones that change the emitted
// sweep, gets one debug line naming the command, the side it landed on,
// and the sweep state either side of it. A no-op unless -debug set the
// logger to DebugLevel.
func (d *Driver) logDebug(event common.Event, side common.Side, prev book.SweepResult) {
	log.Debug().
		Str("event", event.String()).
		Str("side", side.String()).
		Str("prev_sweep", sweepLogValue(prev)).
		Str("sweep", sweepLogValue(*d.lastFor(side))).
		Msg("processed event")
}

func sweepLogValue(r book.SweepResult) string {
	if !r.Feasible {
		return "NA"
	}
	return fmt.Sprintf("%d", r.TotalCents)
}

// recompute re-derives the affected side's sweep result and emits iff it
// differs from the last reported value for that side (spec.md §4.E).
func (d *Driver) recompute(timestamp uint64, side common.Side) (Emission, bool, error) {
	var sideBook *book.SideBook
	var last *book.SweepResult
	if side == common.Bid {
		sideBook, last = d.bidBook, &d.lastBidSweep
	} else {
		sideBook, last = d.askBook, &d.lastAskSweep
	}

	result := book.Sweep(sideBook, d.targetSize)
	if result.Equal(*last) {
		return Emission{}, false, nil
	}
	*last = result

	return Emission{Timestamp: timestamp, Side: side, Result: result}, true, nil
}
