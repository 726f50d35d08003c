// Package iblockproc holds the authoritative state bundle of the light client.
//
// DecidedState is everything a decision of the light client depends on: the
// finalized and genesis HotShot states, the voting and genesis stake tables,
// the epoch configuration, the retention period, the prover allow-list and
// the owner. The history ledger is kept apart because it grows unboundedly;
// the store persists both together.
package iblockproc

import (
	"crypto/sha256"

	"github.com/Fantom-foundation/lachesis-base/hash"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/rony4d/go-lightclient/inter"
	"github.com/rony4d/go-lightclient/permission"
)

// DecidedState is the current (epoch-aware) layout of the state bundle.
type DecidedState struct {
	// Finalized is the latest accepted HotShot state.
	Finalized inter.LightClientState
	// Genesis is the state the light client was initialized with. Frozen.
	Genesis inter.LightClientState

	// Voting is the stake table that signs states of the current epoch.
	Voting inter.StakeTableState
	// GenesisStake is the stake table the light client was initialized with.
	GenesisStake inter.StakeTableState

	// BlocksPerEpoch is zero until epoch-aware mode is enabled.
	BlocksPerEpoch uint64

	// RetentionPeriod bounds the age of retained history entries, in seconds.
	RetentionPeriod uint32

	Permission permission.Policy
	Owner      common.Address

	Initialized   bool
	EpochsEnabled bool

	// RootReplayed is set when Finalized was accepted as a replay of the
	// epoch root it already held. A root is replayed at most once.
	RootReplayed bool `rlp:"optional"`
}

// Copy creates a deep copy, so that the copy can be mutated speculatively.
func (s DecidedState) Copy() DecidedState {
	cp := s
	cp.Voting = s.Voting.Copy()
	cp.GenesisStake = s.GenesisStake.Copy()
	return cp
}

// Hash calculates the SHA256 hash of the RLP-encoded DecidedState.
func (s DecidedState) Hash() hash.Hash {
	cp := s.Copy()
	hasher := sha256.New()
	err := rlp.Encode(hasher, &cp)
	if err != nil {
		panic("can't hash: " + err.Error())
	}
	return hash.BytesToHash(hasher.Sum(nil))
}
