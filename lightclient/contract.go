// Package lightclient implements the epoch-aware HotShot light client.
//
// A Contract accepts a new finalized HotShot state only together with a
// validity proof that ties it to the previous finalized state and the voting
// stake table. At epoch roots the update also carries the stake table of the
// next epoch, which replaces the voting one. Every accepted update is recorded
// in a retention-bounded history ledger that downstream consumers query for
// block commitments.
//
// Operations run to completion one at a time, as transactions on a chain do:
// either every check passes and all mutations take effect, or the operation
// fails and nothing changes. A Contract is not safe for concurrent use; the
// caller serializes calls.
package lightclient

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/rony4d/go-lightclient/history"
	"github.com/rony4d/go-lightclient/inter/iblockproc"
	"github.com/rony4d/go-lightclient/logger"
	"github.com/rony4d/go-lightclient/store"
	"github.com/rony4d/go-lightclient/verifier"
)

// Contract is the light client state machine.
type Contract struct {
	cfg Config

	state  iblockproc.DecidedState
	ledger *history.Ledger

	verifier verifier.ProofVerifier
	vk       *verifier.VerifyingKey

	store  *store.Store
	access AccessController
	log    *logrus.Entry

	feeds feeds
}

// Option customizes a Contract.
type Option func(*Contract)

// WithStore persists every mutation to s before it takes effect.
func WithStore(s *store.Store) Option {
	return func(c *Contract) {
		c.store = s
	}
}

// WithLogger replaces the default module logger.
func WithLogger(l *logrus.Entry) Option {
	return func(c *Contract) {
		c.log = l
	}
}

// WithAccessController replaces the owner-only admin check.
func WithAccessController(a AccessController) Option {
	return func(c *Contract) {
		c.access = a
	}
}

// New creates an uninitialized contract. The verifying key is fixed for the
// lifetime of the contract.
func New(cfg Config, v verifier.ProofVerifier, vk *verifier.VerifyingKey, opts ...Option) *Contract {
	c := &Contract{
		cfg:      cfg,
		ledger:   history.New(0, cfg.MaxEvictPerAppend),
		verifier: v,
		vk:       vk,
		access:   OwnerOnly{},
		log:      logger.Module("lightclient"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Restore rebuilds a contract from the state persisted in s. The returned
// contract keeps writing to s.
func Restore(cfg Config, v verifier.ProofVerifier, vk *verifier.VerifyingKey, s *store.Store, opts ...Option) (*Contract, error) {
	head, entries, err := s.Load()
	if err != nil {
		return nil, err
	}
	ledger, err := history.Restore(uint64(head.State.RetentionPeriod), cfg.MaxEvictPerAppend, head.FirstIndex, head.Len, entries)
	if err != nil {
		return nil, fmt.Errorf("failed to restore history: %w", err)
	}
	c := New(cfg, v, vk, append(opts, WithStore(s))...)
	c.state = head.State
	c.ledger = ledger
	c.updateGauges()
	c.log.WithFields(logrus.Fields{
		"finalized": c.state.Finalized.String(),
		"history":   ledger.Count(),
		"epochs":    c.state.EpochsEnabled,
	}).Info("Restored light client")
	return c, nil
}

// commit persists next and plan, then makes them current. Nothing changes when
// persisting fails.
func (c *Contract) commit(next iblockproc.DecidedState, plan *history.AppendPlan) error {
	if c.store != nil {
		head := store.Head{
			State:      next,
			FirstIndex: c.ledger.FirstIndex(),
			Len:        c.ledger.Len(),
		}
		if plan != nil {
			head.FirstIndex = plan.From + plan.Evict
			head.Len = plan.Index + 1
		}
		if err := c.store.Commit(head, plan); err != nil {
			return fmt.Errorf("failed to persist light client state: %w", err)
		}
	}
	if plan != nil {
		if err := c.ledger.Apply(*plan); err != nil {
			return err
		}
	}
	c.state = next
	c.ledger.SetRetention(uint64(next.RetentionPeriod))
	c.updateGauges()
	return nil
}

// Close releases the attached store.
func (c *Contract) Close() error {
	if c.store == nil {
		return nil
	}
	return c.store.Close()
}
