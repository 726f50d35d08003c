package lightclient

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/event"

	"github.com/rony4d/go-lightclient/inter"
	"github.com/rony4d/go-lightclient/permission"
)

// NewStateEvent is posted when an update is accepted.
type NewStateEvent struct {
	ViewNum       uint64
	BlockHeight   uint64
	BlockCommRoot inter.ScalarField
}

// EpochChangedEvent is posted when the finalized height enters a new epoch.
type EpochChangedEvent struct {
	Epoch uint64
}

// PermissionEvent is posted when the prover allow-list changes.
type PermissionEvent = permission.Notification

// OwnershipTransferredEvent is posted when the owner changes.
type OwnershipTransferredEvent struct {
	Previous common.Address
	New      common.Address
}

type feeds struct {
	newState     event.Feed
	epochChanged event.Feed
	permission   event.Feed
	ownership    event.Feed
}

// SubscribeNewState registers ch for accepted updates. Send blocks until
// every subscriber received the event, so ch should be buffered or drained.
func (c *Contract) SubscribeNewState(ch chan<- NewStateEvent) event.Subscription {
	return c.feeds.newState.Subscribe(ch)
}

func (c *Contract) SubscribeEpochChanged(ch chan<- EpochChangedEvent) event.Subscription {
	return c.feeds.epochChanged.Subscribe(ch)
}

func (c *Contract) SubscribePermission(ch chan<- PermissionEvent) event.Subscription {
	return c.feeds.permission.Subscribe(ch)
}

func (c *Contract) SubscribeOwnership(ch chan<- OwnershipTransferredEvent) event.Subscription {
	return c.feeds.ownership.Subscribe(ch)
}
