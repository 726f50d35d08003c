package history

import (
	"testing"

	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/stretchr/testify/require"

	"github.com/rony4d/go-lightclient/inter"
)

func entry(l1 idx.Block, ts, height uint64) inter.HistoryEntry {
	return inter.HistoryEntry{
		L1BlockHeight:        l1,
		L1BlockTimestamp:     ts,
		HotShotBlockHeight:   height,
		HotShotBlockCommRoot: inter.ScalarFromUint64(height * 100),
	}
}

func TestLedgerLookup(t *testing.T) {
	require := require.New(t)
	l := New(3600, DefaultMaxEvictPerAppend)

	_, err := l.Lookup(1)
	require.ErrorIs(err, ErrInsufficientSnapshotHistory)

	for i, h := range []uint64{1, 5, 9} {
		_, err := l.Append(entry(idx.Block(10+i), 1000+uint64(i), h), 1000+uint64(i))
		require.NoError(err)
	}
	require.Equal(uint64(3), l.Count())

	for _, tc := range []struct {
		target, want uint64
	}{
		{1, 1}, {4, 1}, {5, 5}, {8, 5}, {9, 9}, {100, 9},
	} {
		got, err := l.Lookup(tc.target)
		require.NoError(err)
		require.Equal(tc.want, got.HotShotBlockHeight, "target %d", tc.target)
	}
	_, err = l.Lookup(0)
	require.ErrorIs(err, ErrInsufficientSnapshotHistory)

	latest, ok := l.Latest()
	require.True(ok)
	require.Equal(uint64(9), latest.HotShotBlockHeight)
}

func TestLedgerEviction(t *testing.T) {
	require := require.New(t)
	l := New(3600, DefaultMaxEvictPerAppend)

	const T = 10_000
	_, err := l.Append(entry(1, T, 1), T)
	require.NoError(err)
	got, err := l.Lookup(1)
	require.NoError(err)
	require.Equal(uint64(1), got.HotShotBlockHeight)

	// exactly at the retention boundary the entry survives
	_, err = l.Append(entry(2, T+3600, 2), T+3600)
	require.NoError(err)
	require.Equal(uint64(2), l.Count())

	plan, err := l.Append(entry(3, T+3601, 3), T+3601)
	require.NoError(err)
	require.Equal(uint64(1), plan.Evict)
	require.Equal([]uint64{0}, plan.Evicted())
	require.Equal(uint64(1), l.FirstIndex())
	require.Equal(uint64(3), l.Len())
	require.Equal(uint64(2), l.Count())
	require.True(l.At(0).IsZero())
	require.Equal(uint64(2), l.At(1).HotShotBlockHeight)

	_, err = l.Lookup(1)
	require.ErrorIs(err, ErrInsufficientSnapshotHistory)
}

func TestLedgerEvictionBound(t *testing.T) {
	require := require.New(t)
	l := New(10, 2)
	for i := uint64(1); i <= 5; i++ {
		_, err := l.Append(entry(idx.Block(i), i, i), i)
		require.NoError(err)
	}
	require.Equal(uint64(5), l.Count())

	plan, err := l.Append(entry(6, 1000, 6), 1000)
	require.NoError(err)
	require.Equal(uint64(2), plan.Evict)
	require.Equal(uint64(2), l.FirstIndex())

	_, err = l.Append(entry(7, 1001, 7), 1001)
	require.NoError(err)
	require.Equal(uint64(4), l.FirstIndex())

	// the fresh entries are never evicted
	_, err = l.Append(entry(8, 1002, 8), 1002)
	require.NoError(err)
	require.Equal(uint64(5), l.FirstIndex())
	require.Equal(uint64(3), l.Count())

	unbounded := New(100, 0)
	for i := uint64(1); i <= 20; i++ {
		_, err := unbounded.Append(entry(idx.Block(i), i, i), i)
		require.NoError(err)
	}
	plan, err = unbounded.Append(entry(21, 5000, 21), 5000)
	require.NoError(err)
	require.Equal(uint64(20), plan.Evict)
	require.Equal(uint64(1), unbounded.Count())
}

func TestLedgerClockBeforeEntry(t *testing.T) {
	l := New(1, 0)
	_, err := l.Append(entry(1, 500, 1), 500)
	require.NoError(t, err)
	plan, err := l.Plan(entry(2, 10, 2), 10)
	require.NoError(t, err)
	require.Zero(t, plan.Evict)
}

func TestLedgerPlanIsPure(t *testing.T) {
	require := require.New(t)
	l := New(1, 0)
	_, err := l.Append(entry(1, 1, 1), 1)
	require.NoError(err)

	plan, err := l.Plan(entry(2, 100, 2), 100)
	require.NoError(err)
	require.Equal(uint64(1), plan.Evict)
	require.Equal(uint64(1), l.Count())
	require.Equal(uint64(0), l.FirstIndex())

	require.NoError(l.Apply(plan))
	require.ErrorIs(l.Apply(plan), ErrStalePlan)
}

func TestLedgerOrdering(t *testing.T) {
	l := New(100, 0)
	_, err := l.Append(entry(1, 1, 5), 1)
	require.NoError(t, err)
	_, err = l.Append(entry(2, 2, 4), 2)
	require.ErrorIs(t, err, ErrOutOfOrder)

	// an equal height is out of order too
	_, err = l.Plan(entry(3, 3, 5), 3)
	require.ErrorIs(t, err, ErrOutOfOrder)
	_, err = l.Append(entry(3, 3, 5), 3)
	require.ErrorIs(t, err, ErrOutOfOrder)
	require.Equal(t, uint64(1), l.Count())

	_, err = l.Append(entry(3, 3, 6), 3)
	require.NoError(t, err)
	require.Equal(t, uint64(2), l.Count())
}

func TestLedgerCompaction(t *testing.T) {
	require := require.New(t)
	l := New(0, 0)
	for i := uint64(1); i <= 200; i++ {
		_, err := l.Append(entry(idx.Block(i), i, i), i)
		require.NoError(err)
		require.Equal(uint64(1), l.Count())
		require.Equal(i-1, l.FirstIndex())
	}
	require.Equal(uint64(200), l.Len())
	require.Less(len(l.entries), 200)
	require.True(l.At(5).IsZero())
	require.Equal(uint64(200), l.At(199).HotShotBlockHeight)
}

func TestLedgerRestore(t *testing.T) {
	require := require.New(t)
	l := New(10, 0)
	for i := uint64(1); i <= 4; i++ {
		_, err := l.Append(entry(idx.Block(i), i*10, i), i*10)
		require.NoError(err)
	}
	require.Equal(uint64(2), l.FirstIndex())

	r, err := Restore(10, 0, l.FirstIndex(), l.Len(), l.Retained())
	require.NoError(err)
	require.Equal(l.Count(), r.Count())
	require.Equal(l.Len(), r.Len())
	require.True(r.At(0).IsZero())
	require.Equal(l.At(3), r.At(3))

	got, err := r.LatestBefore(3)
	require.NoError(err)
	require.Equal(uint64(3), got.HotShotBlockHeight)
	_, err = r.LatestBefore(1)
	require.ErrorIs(err, ErrInsufficientSnapshotHistory)

	_, err = Restore(10, 0, 3, 2, nil)
	require.Error(err)
}
