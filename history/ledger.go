// Package history keeps the retention-bounded ledger of accepted updates.
//
// Entries are addressed by absolute index, starting at 0 for the first update
// ever accepted. Evicted slots keep their index and read back as the zero
// entry, so an index handed out once never changes meaning. The retained
// window is [FirstIndex, Len).
package history

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Fantom-foundation/lachesis-base/inter/idx"

	"github.com/rony4d/go-lightclient/inter"
)

// DefaultMaxEvictPerAppend bounds the eviction work done by a single Append.
const DefaultMaxEvictPerAppend = 8

// compaction threshold for the zeroed prefix
const minCompact = 64

var (
	// ErrInsufficientSnapshotHistory is returned when no retained entry covers
	// the requested height or L1 block.
	ErrInsufficientSnapshotHistory = errors.New("insufficient snapshot history")
	// ErrOutOfOrder is returned when appending an entry not above the latest one.
	ErrOutOfOrder = errors.New("history entry out of order")
	// ErrStalePlan is returned when applying a plan computed against another
	// ledger state.
	ErrStalePlan = errors.New("append plan does not match ledger")
)

// Ledger is the append-only, retention-bounded sequence of history entries.
// It is not safe for concurrent use.
type Ledger struct {
	// entries[i] is the slot with absolute index base+i
	entries    []inter.HistoryEntry
	base       uint64
	firstIndex uint64

	retention uint64
	maxEvict  uint64
}

// AppendPlan describes an append and the eviction it triggers, computed
// without touching the ledger. Slots [From, From+Evict) become evicted.
type AppendPlan struct {
	Entry inter.HistoryEntry
	Index uint64
	From  uint64
	Evict uint64
}

// Evicted lists the absolute indices the plan evicts.
func (p AppendPlan) Evicted() []uint64 {
	out := make([]uint64, 0, p.Evict)
	for i := p.From; i < p.From+p.Evict; i++ {
		out = append(out, i)
	}
	return out
}

// New creates an empty ledger. retention is in seconds; maxEvict bounds the
// stale slots cleared per append, 0 meaning unbounded.
func New(retention uint64, maxEvict uint64) *Ledger {
	return &Ledger{
		retention: retention,
		maxEvict:  maxEvict,
	}
}

// Restore rebuilds a ledger from persisted slots. retained holds the entries
// of [firstIndex, length) in order.
func Restore(retention, maxEvict, firstIndex, length uint64, retained []inter.HistoryEntry) (*Ledger, error) {
	if firstIndex > length || uint64(len(retained)) != length-firstIndex {
		return nil, fmt.Errorf("history window [%d, %d) does not match %d entries", firstIndex, length, len(retained))
	}
	l := New(retention, maxEvict)
	l.base = firstIndex
	l.firstIndex = firstIndex
	l.entries = make([]inter.HistoryEntry, len(retained))
	copy(l.entries, retained)
	return l, nil
}

// Retention returns the retention period in seconds.
func (l *Ledger) Retention() uint64 {
	return l.retention
}

// SetRetention changes the retention period. Already retained entries are
// evicted lazily by subsequent appends.
func (l *Ledger) SetRetention(seconds uint64) {
	l.retention = seconds
}

// MaxEvictPerAppend returns the eviction bound, 0 meaning unbounded.
func (l *Ledger) MaxEvictPerAppend() uint64 {
	return l.maxEvict
}

// Len returns the total number of entries ever appended.
func (l *Ledger) Len() uint64 {
	return l.base + uint64(len(l.entries))
}

// FirstIndex returns the absolute index of the oldest retained entry.
func (l *Ledger) FirstIndex() uint64 {
	return l.firstIndex
}

// Count returns the number of retained entries.
func (l *Ledger) Count() uint64 {
	return l.Len() - l.firstIndex
}

// At returns the slot at absolute index i. Evicted and out of range slots
// read as the zero entry.
func (l *Ledger) At(i uint64) inter.HistoryEntry {
	if i < l.base || i >= l.Len() {
		return inter.HistoryEntry{}
	}
	return l.entries[i-l.base]
}

// Latest returns the newest retained entry.
func (l *Ledger) Latest() (inter.HistoryEntry, bool) {
	if l.Count() == 0 {
		return inter.HistoryEntry{}, false
	}
	return l.At(l.Len() - 1), true
}

// Retained returns a copy of the retained window.
func (l *Ledger) Retained() []inter.HistoryEntry {
	out := make([]inter.HistoryEntry, l.Count())
	copy(out, l.entries[l.firstIndex-l.base:])
	return out
}

func (l *Ledger) stale(e inter.HistoryEntry, now uint64) bool {
	return now > e.L1BlockTimestamp && now-e.L1BlockTimestamp > l.retention
}

// Plan computes the effect of appending entry at time now. Heights must
// strictly increase.
func (l *Ledger) Plan(entry inter.HistoryEntry, now uint64) (AppendPlan, error) {
	if latest, ok := l.Latest(); ok && entry.HotShotBlockHeight <= latest.HotShotBlockHeight {
		return AppendPlan{}, fmt.Errorf("%w: height %d not above %d", ErrOutOfOrder, entry.HotShotBlockHeight, latest.HotShotBlockHeight)
	}
	plan := AppendPlan{
		Entry: entry,
		Index: l.Len(),
		From:  l.firstIndex,
	}
	// the appended entry itself is never evicted
	for cur := l.firstIndex; cur < plan.Index; cur++ {
		if l.maxEvict != 0 && plan.Evict >= l.maxEvict {
			break
		}
		if !l.stale(l.At(cur), now) {
			break
		}
		plan.Evict++
	}
	return plan, nil
}

// Apply commits a plan computed by Plan against the current ledger.
func (l *Ledger) Apply(plan AppendPlan) error {
	if plan.Index != l.Len() || plan.From != l.firstIndex || plan.From+plan.Evict > plan.Index {
		return ErrStalePlan
	}
	l.entries = append(l.entries, plan.Entry)
	for i := plan.From; i < plan.From+plan.Evict; i++ {
		l.entries[i-l.base] = inter.HistoryEntry{}
	}
	l.firstIndex += plan.Evict
	l.compact()
	return nil
}

// Append pushes entry and evicts stale entries from the front.
func (l *Ledger) Append(entry inter.HistoryEntry, now uint64) (AppendPlan, error) {
	plan, err := l.Plan(entry, now)
	if err != nil {
		return plan, err
	}
	return plan, l.Apply(plan)
}

// compact drops the zeroed prefix once it dominates the slice.
func (l *Ledger) compact() {
	dead := l.firstIndex - l.base
	if dead < minCompact || dead*2 <= uint64(len(l.entries)) {
		return
	}
	live := make([]inter.HistoryEntry, len(l.entries)-int(dead))
	copy(live, l.entries[dead:])
	l.entries = live
	l.base = l.firstIndex
}

// Lookup returns the retained entry with the greatest HotShot height not above
// height.
func (l *Ledger) Lookup(height uint64) (inter.HistoryEntry, error) {
	window := l.entries[l.firstIndex-l.base:]
	// first entry strictly above height
	n := sort.Search(len(window), func(i int) bool {
		return window[i].HotShotBlockHeight > height
	})
	if n == 0 {
		return inter.HistoryEntry{}, fmt.Errorf("%w: height %d", ErrInsufficientSnapshotHistory, height)
	}
	return window[n-1], nil
}

// LatestBefore returns the newest retained entry carried by an L1 block not
// above l1Block.
func (l *Ledger) LatestBefore(l1Block idx.Block) (inter.HistoryEntry, error) {
	window := l.entries[l.firstIndex-l.base:]
	n := sort.Search(len(window), func(i int) bool {
		return window[i].L1BlockHeight > l1Block
	})
	if n == 0 {
		return inter.HistoryEntry{}, fmt.Errorf("%w: l1 block %d", ErrInsufficientSnapshotHistory, l1Block)
	}
	return window[n-1], nil
}
