package lightclient

import (
	"errors"

	"github.com/rony4d/go-lightclient/history"
	"github.com/rony4d/go-lightclient/permission"
	"github.com/rony4d/go-lightclient/verifier"
)

var (
	ErrOutdatedState                 = errors.New("outdated state")
	ErrInvalidProof                  = errors.New("invalid proof")
	ErrWrongStakeTableUsed           = errors.New("wrong stake table used")
	ErrMissingLastBlockInEpochUpdate = errors.New("missing last block in epoch update")
	ErrInvalidArgs                   = errors.New("invalid arguments")
	ErrInvalidMaxStateHistory        = errors.New("invalid max state history")
	ErrInvalidInitialization         = errors.New("invalid initialization")
	ErrNotInitialized                = errors.New("not initialized")
	// ErrUnauthorized is returned when a non-owner calls an admin operation.
	ErrUnauthorized = errors.New("unauthorized account")

	ErrInsufficientSnapshotHistory = history.ErrInsufficientSnapshotHistory
	ErrProverNotPermissioned       = permission.ErrProverNotPermissioned
	ErrInvalidAddress              = permission.ErrInvalidAddress
	ErrNoChangeRequired            = permission.ErrNoChangeRequired
	ErrWrongVerifyingKey           = verifier.ErrWrongVerifyingKey
)
