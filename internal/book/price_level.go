// Package book implements the dual price-ordered order book: one side's
// aggregate of resting orders per price (PriceLevel), the ordered,
// order-id-indexed book that holds them (SideBook), and the best-N sweep
// aggregator that reads it (Sweep). This is the hard core described in
// spec.md §2 components B-D.
package book

// PriceLevel aggregates every resting order at one price on one side
// (spec.md §3, §4.B). TotalSize is the sum of the residual sizes of the
// listed ids; it stays > 0 for as long as the level exists in a SideBook.
type PriceLevel struct {
	PriceCents uint64
	TotalSize  uint64
	ids        map[string]struct{}
}

func newPriceLevel(priceCents uint64) *PriceLevel {
	return &PriceLevel{
		PriceCents: priceCents,
		ids:        make(map[string]struct{}),
	}
}

// add registers order_id at this level and grows TotalSize by size.
// Precondition: order_id is not already present at this level.
func (l *PriceLevel) add(orderID string, size uint64) {
	l.ids[orderID] = struct{}{}
	l.TotalSize += size
}

// reduce shrinks TotalSize by sizeDelta. Precondition: sizeDelta <= TotalSize.
func (l *PriceLevel) reduce(sizeDelta uint64) {
	l.TotalSize -= sizeDelta
}

// remove drops order_id from the level's id set. It does not touch
// TotalSize — the caller has already accounted for the size via reduce.
func (l *PriceLevel) remove(orderID string) {
	delete(l.ids, orderID)
}

func (l *PriceLevel) isEmpty() bool {
	return l.TotalSize == 0
}
