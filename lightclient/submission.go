package lightclient

import (
	"github.com/rony4d/go-lightclient/inter"
	"github.com/rony4d/go-lightclient/verifier"
)

// Kind selects which submit overload a Submission stands for.
type Kind uint8

const (
	// KindEpochAware carries the next stake table and is validated.
	KindEpochAware Kind = iota + 1
	// KindLegacy is the deprecated overload without a stake table. It is
	// accepted and ignored.
	KindLegacy
)

func (k Kind) String() string {
	switch k {
	case KindEpochAware:
		return "epoch-aware"
	case KindLegacy:
		return "legacy"
	default:
		return "unknown"
	}
}

// Submission is a decoded submit call.
type Submission struct {
	Kind           Kind
	State          inter.LightClientState
	NextStakeTable *inter.StakeTableState
	Proof          verifier.Proof
}
