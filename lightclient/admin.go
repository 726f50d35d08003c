package lightclient

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"

	"github.com/rony4d/go-lightclient/inter"
)

// Initialize sets the genesis state and stake table, the retention period
// and the owner. It may run only once.
func (c *Contract) Initialize(tx TxContext, genesis inter.LightClientState, genesisStake inter.StakeTableState, retention uint32, owner common.Address) error {
	if c.state.Initialized {
		return ErrInvalidInitialization
	}
	if genesisStake.ThresholdOrZero().IsZero() {
		return fmt.Errorf("%w: zero stake threshold", ErrInvalidArgs)
	}
	if err := genesisStake.CheckThreshold(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgs, err)
	}
	if owner == (common.Address{}) {
		return fmt.Errorf("%w: zero owner", ErrInvalidAddress)
	}
	if err := checkRetention(retention); err != nil {
		return err
	}

	next := c.state.Copy()
	next.Genesis = genesis
	next.Finalized = genesis
	next.GenesisStake = genesisStake.Copy()
	next.Voting = genesisStake.Copy()
	next.RetentionPeriod = retention
	next.Owner = owner
	next.Initialized = true
	if err := c.commit(next, nil); err != nil {
		return err
	}

	c.log.WithFields(logrus.Fields{
		"genesis":   genesis.String(),
		"stake":     genesisStake.String(),
		"retention": retention,
		"owner":     owner.Hex(),
	}).Info("Initialized light client")
	c.feeds.ownership.Send(OwnershipTransferredEvent{New: owner})
	return nil
}

// InitializeV2 switches to epoch-aware mode. It may run only once.
func (c *Contract) InitializeV2(tx TxContext, blocksPerEpoch uint64) error {
	if err := c.checkAdmin(tx); err != nil {
		return err
	}
	if c.state.EpochsEnabled {
		return ErrInvalidInitialization
	}
	if blocksPerEpoch == 0 {
		return fmt.Errorf("%w: zero blocks per epoch", ErrInvalidArgs)
	}

	next := c.state.Copy()
	next.BlocksPerEpoch = blocksPerEpoch
	next.EpochsEnabled = true
	if err := c.commit(next, nil); err != nil {
		return err
	}
	c.log.WithField("blocksPerEpoch", blocksPerEpoch).Info("Enabled epochs")
	return nil
}

// SetPermissionedProver restricts updates to prover.
func (c *Contract) SetPermissionedProver(tx TxContext, prover common.Address) error {
	if err := c.checkAdmin(tx); err != nil {
		return err
	}
	next := c.state.Copy()
	n, err := next.Permission.Set(prover)
	if err != nil {
		return err
	}
	if err := c.commit(next, nil); err != nil {
		return err
	}
	c.log.WithField("prover", prover.Hex()).Info("Permissioned prover required")
	c.feeds.permission.Send(n)
	return nil
}

// DisablePermissionedProverMode lets anyone submit updates again.
func (c *Contract) DisablePermissionedProverMode(tx TxContext) error {
	if err := c.checkAdmin(tx); err != nil {
		return err
	}
	next := c.state.Copy()
	n, err := next.Permission.Clear()
	if err != nil {
		return err
	}
	if err := c.commit(next, nil); err != nil {
		return err
	}
	c.log.Info("Permissioned prover not required")
	c.feeds.permission.Send(n)
	return nil
}

// SetStateHistoryRetentionPeriod changes how long history entries are kept.
func (c *Contract) SetStateHistoryRetentionPeriod(tx TxContext, seconds uint32) error {
	if err := c.checkAdmin(tx); err != nil {
		return err
	}
	if err := checkRetention(seconds); err != nil {
		return err
	}
	if seconds == c.state.RetentionPeriod {
		return ErrNoChangeRequired
	}
	next := c.state.Copy()
	next.RetentionPeriod = seconds
	if err := c.commit(next, nil); err != nil {
		return err
	}
	c.log.WithField("seconds", seconds).Info("Changed history retention period")
	return nil
}

// TransferOwnership hands the admin role to owner.
func (c *Contract) TransferOwnership(tx TxContext, owner common.Address) error {
	if owner == (common.Address{}) {
		return fmt.Errorf("%w: zero owner", ErrInvalidAddress)
	}
	return c.setOwner(tx, owner)
}

// RenounceOwnership leaves the contract without owner. Admin operations are
// no longer possible afterwards.
func (c *Contract) RenounceOwnership(tx TxContext) error {
	return c.setOwner(tx, common.Address{})
}

func (c *Contract) setOwner(tx TxContext, owner common.Address) error {
	if err := c.checkAdmin(tx); err != nil {
		return err
	}
	prev := c.state.Owner
	next := c.state.Copy()
	next.Owner = owner
	if err := c.commit(next, nil); err != nil {
		return err
	}
	c.log.WithFields(logrus.Fields{"previous": prev.Hex(), "new": owner.Hex()}).Info("Ownership transferred")
	c.feeds.ownership.Send(OwnershipTransferredEvent{Previous: prev, New: owner})
	return nil
}

func (c *Contract) checkAdmin(tx TxContext) error {
	if !c.state.Initialized {
		return ErrNotInitialized
	}
	return c.access.CheckAdmin(c.state.Owner, tx.Caller)
}

func checkRetention(seconds uint32) error {
	if seconds < MinRetentionPeriod || seconds > MaxRetentionPeriod {
		return fmt.Errorf("%w: %d seconds", ErrInvalidMaxStateHistory, seconds)
	}
	return nil
}
