package book

import (
	"fmt"

	"github.com/tidwall/btree"

	"fenrir/internal/common"
)

// bookOrder is the per-order entry kept in a SideBook's order-id index:
// the order's price, which ReduceOrder uses to look its level up in the
// btree, and its residual size.
type bookOrder struct {
	priceCents   uint64
	residualSize uint64
}

// SideBook is one side (bid or ask) of the book: an order-id index plus a
// btree of PriceLevel keyed by price, ordered so that Scan always yields
// the best price first. One SideBook type serves both sides — the side
// only picks the comparator at construction — per spec.md §9's
// "Per-side polymorphism" redesign note, instead of two near-duplicate
// types.
type SideBook struct {
	side      common.Side
	levels    *btree.BTreeG[*PriceLevel]
	orders    map[string]bookOrder
	totalSize uint64
}

// NewSideBook builds an empty book for side. Bid levels sort highest price
// first, Ask levels sort lowest price first — both directions are "sweep
// order" for that side.
func NewSideBook(side common.Side) *SideBook {
	var less func(a, b *PriceLevel) bool
	if side == common.Bid {
		less = func(a, b *PriceLevel) bool { return a.PriceCents > b.PriceCents }
	} else {
		less = func(a, b *PriceLevel) bool { return a.PriceCents < b.PriceCents }
	}
	return &SideBook{
		side:   side,
		levels: btree.NewBTreeG(less),
		orders: make(map[string]bookOrder),
	}
}

// TotalSize is the cached sum of residual sizes of every live order on
// this side (spec.md §3 invariant 2).
func (sb *SideBook) TotalSize() uint64 {
	return sb.totalSize
}

// AddOrder inserts a new resting order. It fails with ErrDuplicateOrderID
// if order_id is already live on this side; the driver (spec.md §4.E) is
// responsible for also checking the other side before calling this.
func (sb *SideBook) AddOrder(orderID string, priceCents, size uint64) error {
	if _, exists := sb.orders[orderID]; exists {
		return fmt.Errorf("%w: %s", common.ErrDuplicateOrderID, orderID)
	}

	sb.orders[orderID] = bookOrder{priceCents: priceCents, residualSize: size}

	probe := &PriceLevel{PriceCents: priceCents}
	if level, ok := sb.levels.GetMut(probe); ok {
		level.add(orderID, size)
	} else {
		level := newPriceLevel(priceCents)
		level.add(orderID, size)
		sb.levels.Set(level)
	}
	sb.totalSize += size
	return nil
}

// ReduceOrder reduces order_id's residual by up to sizeReduction, clamping
// to the residual rather than erroring (spec.md §4.C). It returns the
// applied reduction for diagnostics. Fully-depleted orders and emptied
// levels are removed.
func (sb *SideBook) ReduceOrder(orderID string, sizeReduction uint64) (applied uint64, err error) {
	entry, ok := sb.orders[orderID]
	if !ok {
		return 0, fmt.Errorf("%w: %s", common.ErrUnknownOrderID, orderID)
	}

	applied = sizeReduction
	if applied > entry.residualSize {
		applied = entry.residualSize
	}

	probe := &PriceLevel{PriceCents: entry.priceCents}
	level, ok := sb.levels.GetMut(probe)
	if !ok {
		// Invariant 1 guarantees the level exists while the order does.
		panic(fmt.Sprintf("side book: order %s has no level at price %d", orderID, entry.priceCents))
	}
	level.reduce(applied)

	entry.residualSize -= applied
	if entry.residualSize == 0 {
		delete(sb.orders, orderID)
		level.remove(orderID)
	} else {
		sb.orders[orderID] = entry
	}

	if level.isEmpty() {
		sb.levels.Delete(level)
	}

	sb.totalSize -= applied
	return applied, nil
}

// FindOrder reports whether order_id is live on this side, and if so its
// price and residual size. Used by the driver to route a ReduceOrder
// without the message itself naming a side (spec.md §4.C, §4.E).
func (sb *SideBook) FindOrder(orderID string) (priceCents, residualSize uint64, ok bool) {
	entry, ok := sb.orders[orderID]
	if !ok {
		return 0, 0, false
	}
	return entry.priceCents, entry.residualSize, true
}

// IterateLevels yields (price, total_size) pairs in sweep order: best
// price first. It stops as soon as yield returns false, so callers that
// only need the top of the book (the aggregator) never walk the whole
// tree (spec.md §4.C performance target).
func (sb *SideBook) IterateLevels(yield func(priceCents, totalSize uint64) bool) {
	sb.levels.Scan(func(level *PriceLevel) bool {
		return yield(level.PriceCents, level.TotalSize)
	})
}
