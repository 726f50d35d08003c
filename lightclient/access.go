package lightclient

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// AccessController decides who may run administrative operations.
type AccessController interface {
	CheckAdmin(owner, caller common.Address) error
}

// OwnerOnly admits the owner only. A renounced (zero) owner admits nobody.
type OwnerOnly struct{}

// CheckAdmin implements AccessController.
func (OwnerOnly) CheckAdmin(owner, caller common.Address) error {
	if owner == (common.Address{}) || caller != owner {
		return fmt.Errorf("%w: %s", ErrUnauthorized, caller.Hex())
	}
	return nil
}
