package lightclient

import (
	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/ethereum/go-ethereum/common"

	"github.com/rony4d/go-lightclient/epochs"
	"github.com/rony4d/go-lightclient/inter"
	"github.com/rony4d/go-lightclient/inter/iblockproc"
)

// Version is the semantic version of the contract logic.
type Version struct {
	Major, Minor, Patch uint8
}

// Version reports 2.0.0 once epochs are enabled, 1.0.0 before.
func (c *Contract) Version() Version {
	if c.state.EpochsEnabled {
		return Version{Major: 2}
	}
	return Version{Major: 1}
}

func (c *Contract) IsInitialized() bool {
	return c.state.Initialized
}

// State returns a copy of the whole decided state.
func (c *Contract) State() iblockproc.DecidedState {
	return c.state.Copy()
}

func (c *Contract) FinalizedState() inter.LightClientState {
	return c.state.Finalized
}

func (c *Contract) GenesisState() inter.LightClientState {
	return c.state.Genesis
}

func (c *Contract) VotingStakeTableState() inter.StakeTableState {
	return c.state.Voting.Copy()
}

func (c *Contract) GenesisStakeTableState() inter.StakeTableState {
	return c.state.GenesisStake.Copy()
}

// BlocksPerEpoch is zero while epochs are disabled.
func (c *Contract) BlocksPerEpoch() uint64 {
	return c.state.BlocksPerEpoch
}

// CurrentEpoch returns the epoch of the finalized height.
func (c *Contract) CurrentEpoch() uint64 {
	return epochs.FromBlockNumber(c.state.Finalized.BlockHeight, c.state.BlocksPerEpoch)
}

func (c *Contract) EpochFromBlockNumber(height uint64) uint64 {
	return epochs.FromBlockNumber(height, c.state.BlocksPerEpoch)
}

func (c *Contract) IsEpochRoot(height uint64) bool {
	return epochs.IsEpochRoot(height, c.state.BlocksPerEpoch)
}

// GetHotShotCommitment returns the block commitment root and height of the
// newest retained update at or below height.
func (c *Contract) GetHotShotCommitment(height uint64) (inter.ScalarField, uint64, error) {
	e, err := c.ledger.Lookup(height)
	if err != nil {
		return inter.ScalarField{}, 0, err
	}
	return e.HotShotBlockCommRoot, e.HotShotBlockHeight, nil
}

// GetStateHistoryCount returns the number of retained history entries.
func (c *Contract) GetStateHistoryCount() uint64 {
	return c.ledger.Count()
}

func (c *Contract) StateHistoryFirstIndex() uint64 {
	return c.ledger.FirstIndex()
}

// StateHistoryLen returns the number of entries ever recorded.
func (c *Contract) StateHistoryLen() uint64 {
	return c.ledger.Len()
}

// StateHistoryCommitments returns the history slot at index; evicted slots
// are zero.
func (c *Contract) StateHistoryCommitments(index uint64) inter.HistoryEntry {
	return c.ledger.At(index)
}

func (c *Contract) StateHistoryRetentionPeriod() uint32 {
	return c.state.RetentionPeriod
}

func (c *Contract) IsPermissionedProverEnabled() bool {
	return c.state.Permission.IsEnabled()
}

func (c *Contract) PermissionedProver() common.Address {
	return c.state.Permission.Prover
}

func (c *Contract) Owner() common.Address {
	return c.state.Owner
}

// LagOverEscapeHatchThreshold reports whether more than threshold L1 blocks
// passed between the last update carried at or before blockNumber and
// blockNumber itself.
func (c *Contract) LagOverEscapeHatchThreshold(blockNumber idx.Block, threshold uint64) (bool, error) {
	e, err := c.ledger.LatestBefore(blockNumber)
	if err != nil {
		return false, err
	}
	return uint64(blockNumber-e.L1BlockHeight) > threshold, nil
}
