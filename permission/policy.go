// Package permission implements the optional single-prover allow-list.
package permission

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"
)

var (
	ErrProverNotPermissioned = errors.New("prover not permissioned")
	ErrInvalidAddress        = errors.New("invalid address")
	ErrNoChangeRequired      = errors.New("no change required")
)

// Policy gates who may submit updates. The zero value is disabled: anyone may
// submit.
type Policy struct {
	Prover common.Address
}

// Notification describes a change of the policy.
type Notification struct {
	// Required is true when a permissioned prover has been set, false when
	// the mode was disabled.
	Required bool
	Prover   common.Address
}

// IsEnabled reports whether a permissioned prover is configured.
func (p Policy) IsEnabled() bool {
	return p.Prover != (common.Address{})
}

// Authorize checks that caller may submit updates.
func (p Policy) Authorize(caller common.Address) error {
	if p.IsEnabled() && caller != p.Prover {
		return ErrProverNotPermissioned
	}
	return nil
}

// Set enables the permissioned mode for prover.
func (p *Policy) Set(prover common.Address) (Notification, error) {
	if prover == (common.Address{}) {
		return Notification{}, ErrInvalidAddress
	}
	if prover == p.Prover {
		return Notification{}, ErrNoChangeRequired
	}
	p.Prover = prover
	return Notification{Required: true, Prover: prover}, nil
}

// Clear disables the permissioned mode.
func (p *Policy) Clear() (Notification, error) {
	if !p.IsEnabled() {
		return Notification{}, ErrNoChangeRequired
	}
	p.Prover = common.Address{}
	return Notification{Required: false}, nil
}
