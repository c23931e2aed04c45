package book

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fenrir/internal/common"
)

// collectLevels walks a SideBook in sweep order and returns the
// (price, total_size) pairs it visited, for assertions against the
// monotonicity invariant (spec.md §3 invariant 4, §8).
func collectLevels(sb *SideBook) [][2]uint64 {
	var got [][2]uint64
	sb.IterateLevels(func(priceCents, totalSize uint64) bool {
		got = append(got, [2]uint64{priceCents, totalSize})
		return true
	})
	return got
}

func TestSideBook_AddOrder_SingleLevel(t *testing.T) {
	sb := NewSideBook(common.Bid)

	require.NoError(t, sb.AddOrder("a", 4405, 100))
	require.NoError(t, sb.AddOrder("b", 4405, 50))

	assert.Equal(t, uint64(150), sb.TotalSize())
	assert.Equal(t, [][2]uint64{{4405, 150}}, collectLevels(sb))
}

func TestSideBook_AddOrder_BidSweepOrderIsDescending(t *testing.T) {
	sb := NewSideBook(common.Bid)

	require.NoError(t, sb.AddOrder("a", 4410, 100))
	require.NoError(t, sb.AddOrder("b", 4426, 100))
	require.NoError(t, sb.AddOrder("c", 4400, 100))

	assert.Equal(t, [][2]uint64{{4426, 100}, {4410, 100}, {4400, 100}}, collectLevels(sb))
}

func TestSideBook_AddOrder_AskSweepOrderIsAscending(t *testing.T) {
	sb := NewSideBook(common.Ask)

	require.NoError(t, sb.AddOrder("d", 4418, 157))
	require.NoError(t, sb.AddOrder("e", 4418, 100))
	require.NoError(t, sb.AddOrder("f", 4401, 10))

	assert.Equal(t, [][2]uint64{{4401, 10}, {4418, 257}}, collectLevels(sb))
}

func TestSideBook_AddOrder_DuplicateIDRejected(t *testing.T) {
	sb := NewSideBook(common.Bid)
	require.NoError(t, sb.AddOrder("z", 200, 5))

	err := sb.AddOrder("z", 300, 5)
	assert.ErrorIs(t, err, common.ErrDuplicateOrderID)

	// Book state is unchanged: still just the original order at 200.
	assert.Equal(t, uint64(5), sb.TotalSize())
	assert.Equal(t, [][2]uint64{{200, 5}}, collectLevels(sb))
}

func TestSideBook_ReduceOrder_ClampsToResidual(t *testing.T) {
	sb := NewSideBook(common.Bid)
	require.NoError(t, sb.AddOrder("a", 100, 10))

	applied, err := sb.ReduceOrder("a", 999)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), applied)
	assert.Equal(t, uint64(0), sb.TotalSize())
	assert.Empty(t, collectLevels(sb))

	_, _, ok := sb.FindOrder("a")
	assert.False(t, ok)
}

func TestSideBook_ReduceOrder_RemovesEmptyLevelButKeepsOthers(t *testing.T) {
	sb := NewSideBook(common.Bid)
	require.NoError(t, sb.AddOrder("b", 4426, 100))
	require.NoError(t, sb.AddOrder("c", 4410, 100))

	applied, err := sb.ReduceOrder("b", 100)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), applied)

	assert.Equal(t, [][2]uint64{{4410, 100}}, collectLevels(sb))
	assert.Equal(t, uint64(100), sb.TotalSize())
}

func TestSideBook_ReduceOrder_PartialLeavesLevel(t *testing.T) {
	sb := NewSideBook(common.Ask)
	require.NoError(t, sb.AddOrder("a", 100, 10))
	require.NoError(t, sb.AddOrder("b", 100, 10))

	applied, err := sb.ReduceOrder("a", 4)
	require.NoError(t, err)
	assert.Equal(t, uint64(4), applied)
	assert.Equal(t, uint64(16), sb.TotalSize())
	assert.Equal(t, [][2]uint64{{100, 16}}, collectLevels(sb))

	price, residual, ok := sb.FindOrder("a")
	assert.True(t, ok)
	assert.Equal(t, uint64(100), price)
	assert.Equal(t, uint64(6), residual)
}

func TestSideBook_ReduceOrder_UnknownIDRejected(t *testing.T) {
	sb := NewSideBook(common.Bid)
	_, err := sb.ReduceOrder("ghost", 5)
	assert.ErrorIs(t, err, common.ErrUnknownOrderID)
}

func TestSideBook_FindOrder_AbsentReportsNotOK(t *testing.T) {
	sb := NewSideBook(common.Ask)
	_, _, ok := sb.FindOrder("nope")
	assert.False(t, ok)
}
