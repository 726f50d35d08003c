package lightclient

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"

	"github.com/rony4d/go-lightclient/epochs"
	"github.com/rony4d/go-lightclient/history"
	"github.com/rony4d/go-lightclient/inter"
	"github.com/rony4d/go-lightclient/verifier"
)

// TxContext is the environment of a single operation: who calls it and in
// which L1 block.
type TxContext struct {
	Caller common.Address
	Block  inter.BlockCtx
}

// Submit dispatches a decoded submit call. The legacy overload is a no-op.
func (c *Contract) Submit(tx TxContext, s Submission) error {
	switch s.Kind {
	case KindEpochAware:
		return c.SubmitUpdate(tx, s.State, s.NextStakeTable, s.Proof)
	case KindLegacy:
		c.log.WithFields(logrus.Fields{
			"caller": tx.Caller.Hex(),
			"height": s.State.BlockHeight,
		}).Warn("Ignored update submitted through the deprecated overload")
		return nil
	default:
		return fmt.Errorf("%w: submission kind %d", ErrInvalidArgs, s.Kind)
	}
}

// SubmitUpdate verifies and applies a new finalized state. nextStake must be
// present when newState finalizes an epoch root, and is the stake table that
// signs the following epoch.
func (c *Contract) SubmitUpdate(tx TxContext, newState inter.LightClientState, nextStake *inter.StakeTableState, proof verifier.Proof) error {
	err := c.submitUpdate(tx, newState, nextStake, proof)
	if err != nil {
		updateRejectedCounter.Inc(1)
		c.log.WithError(err).WithFields(logrus.Fields{
			"caller": tx.Caller.Hex(),
			"view":   newState.ViewNum,
			"height": newState.BlockHeight,
		}).Debug("Rejected light client update")
		return err
	}
	updateAcceptedCounter.Inc(1)
	return nil
}

func (c *Contract) submitUpdate(tx TxContext, newState inter.LightClientState, nextStake *inter.StakeTableState, proof verifier.Proof) error {
	if !c.state.Initialized {
		return ErrNotInitialized
	}
	if err := c.state.Permission.Authorize(tx.Caller); err != nil {
		return err
	}

	cur := c.state.Finalized
	perEpoch := c.state.BlocksPerEpoch
	epochAware := c.state.EpochsEnabled

	replay, err := c.checkOrdering(cur, newState)
	if err != nil {
		return err
	}
	if nextStake != nil {
		if err := nextStake.CheckThreshold(); err != nil {
			return fmt.Errorf("%w: next stake table: %v", ErrInvalidArgs, err)
		}
	}

	root := epochAware && epochs.IsEpochRoot(newState.BlockHeight, perEpoch)
	switch {
	case root && nextStake == nil:
		return fmt.Errorf("%w: height %d", ErrMissingLastBlockInEpochUpdate, newState.BlockHeight)
	case (!root || replay) && nextStake != nil && !nextStake.Equal(c.state.Voting):
		if replay {
			return fmt.Errorf("%w: replay of epoch root %d must not rotate", ErrWrongStakeTableUsed, newState.BlockHeight)
		}
		return fmt.Errorf("%w: height %d is not an epoch root", ErrWrongStakeTableUsed, newState.BlockHeight)
	case epochAware && newState.BlockHeight > nextEpochRoot(cur.BlockHeight, perEpoch):
		return fmt.Errorf("%w: height %d skips epoch root %d", ErrMissingLastBlockInEpochUpdate, newState.BlockHeight, nextEpochRoot(cur.BlockHeight, perEpoch))
	}

	if err := verifier.CheckKey(c.vk); err != nil {
		return err
	}
	inputs := verifier.NewPublicInput(cur, newState, c.state.Voting, nextStake)
	if !c.verifier.Verify(c.vk, inputs, proof) {
		return ErrInvalidProof
	}

	next := c.state.Copy()
	next.Finalized = newState
	next.RootReplayed = replay
	rotated := root && !replay
	if rotated {
		next.Voting = nextStake.Copy()
	}

	var plan *history.AppendPlan
	if latest, ok := c.ledger.Latest(); !(replay && ok && latest.HotShotBlockHeight == newState.BlockHeight) {
		p, err := c.ledger.Plan(inter.HistoryEntry{
			L1BlockHeight:        tx.Block.Number,
			L1BlockTimestamp:     tx.Block.Time,
			HotShotBlockHeight:   newState.BlockHeight,
			HotShotBlockCommRoot: newState.BlockCommRoot,
		}, tx.Block.Time)
		if err != nil {
			return err
		}
		plan = &p
	}

	if err := c.commit(next, plan); err != nil {
		return err
	}

	fields := logrus.Fields{
		"view":   newState.ViewNum,
		"height": newState.BlockHeight,
		"root":   inter.ScalarHex(newState.BlockCommRoot),
		"l1":     tx.Block.Number,
	}
	if plan != nil && plan.Evict > 0 {
		fields["evicted"] = plan.Evict
	}
	c.log.WithFields(fields).Info("Accepted new finalized state")

	if rotated {
		epoch := epochs.FromBlockNumber(newState.BlockHeight, perEpoch)
		c.log.WithField("epoch", epoch).Info("Entered new epoch")
		c.feeds.epochChanged.Send(EpochChangedEvent{Epoch: epoch})
	}
	c.feeds.newState.Send(NewStateEvent{
		ViewNum:       newState.ViewNum,
		BlockHeight:   newState.BlockHeight,
		BlockCommRoot: newState.BlockCommRoot,
	})
	return nil
}

// checkOrdering requires strict progress of both view and height. In
// epoch-aware mode an epoch root may be finalized once more under a later view
// with the same commitment root; replay reports that case.
func (c *Contract) checkOrdering(cur, newState inter.LightClientState) (replay bool, err error) {
	if newState.ViewNum <= cur.ViewNum {
		return false, fmt.Errorf("%w: view %d not above %d", ErrOutdatedState, newState.ViewNum, cur.ViewNum)
	}
	if newState.BlockHeight > cur.BlockHeight {
		return false, nil
	}
	if !c.state.EpochsEnabled || newState.BlockHeight != cur.BlockHeight || !epochs.IsEpochRoot(cur.BlockHeight, c.state.BlocksPerEpoch) {
		return false, fmt.Errorf("%w: height %d not above %d", ErrOutdatedState, newState.BlockHeight, cur.BlockHeight)
	}
	if c.state.RootReplayed {
		return false, fmt.Errorf("%w: epoch root %d already replayed", ErrOutdatedState, cur.BlockHeight)
	}
	if !newState.BlockCommRoot.Equal(&cur.BlockCommRoot) {
		return false, fmt.Errorf("%w: replay of epoch root %d changes its commitment", ErrOutdatedState, cur.BlockHeight)
	}
	return true, nil
}

// nextEpochRoot is the lowest epoch root above height. Updates may not move
// past it without finalizing it first.
func nextEpochRoot(height, perEpoch uint64) uint64 {
	return epochs.FirstBlock(epochs.FromBlockNumber(height, perEpoch)+1, perEpoch)
}
