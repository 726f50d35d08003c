package iblockproc

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/rony4d/go-lightclient/inter"
	"github.com/rony4d/go-lightclient/permission"
)

// DecidedStateV0 is the layout written before epoch-aware mode existed. It is
// kept to read old records.
type DecidedStateV0 struct {
	Finalized    inter.LightClientState
	Genesis      inter.LightClientState
	Voting       inter.StakeTableState
	GenesisStake inter.StakeTableState

	RetentionPeriod    uint32
	PermissionedProver common.Address
	Owner              common.Address

	Initialized bool
}

// Upgrade converts a V0 record to the current layout, in legacy mode.
func (s DecidedStateV0) Upgrade() DecidedState {
	return DecidedState{
		Finalized:       s.Finalized,
		Genesis:         s.Genesis,
		Voting:          s.Voting.Copy(),
		GenesisStake:    s.GenesisStake.Copy(),
		RetentionPeriod: s.RetentionPeriod,
		Permission:      permission.Policy{Prover: s.PermissionedProver},
		Owner:           s.Owner,
		Initialized:     s.Initialized,
	}
}
