package inter

import (
	"fmt"

	"github.com/Fantom-foundation/lachesis-base/inter/idx"
)

// BlockCtx identifies the L1 block executing an operation. It is the light
// client's only notion of "now".
type BlockCtx struct {
	Number idx.Block
	// Time is the L1 block timestamp in seconds.
	Time uint64
}

// HistoryEntry records one accepted update.
type HistoryEntry struct {
	L1BlockHeight        idx.Block
	L1BlockTimestamp     uint64
	HotShotBlockHeight   uint64
	HotShotBlockCommRoot ScalarField
}

// IsZero reports whether e is the zero entry, which marks an evicted slot.
func (e HistoryEntry) IsZero() bool {
	return e.L1BlockHeight == 0 && e.L1BlockTimestamp == 0 && e.HotShotBlockHeight == 0 && e.HotShotBlockCommRoot.IsZero()
}

func (e HistoryEntry) String() string {
	return fmt.Sprintf("{l1: %d@%d, hotshot: %d, root: %s}",
		e.L1BlockHeight, e.L1BlockTimestamp, e.HotShotBlockHeight, ScalarHex(e.HotShotBlockCommRoot))
}
