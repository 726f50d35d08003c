// Package inter defines the data model shared by every layer of the light
// client: the finalized HotShot state, the stake table snapshot that empowers
// provers, and the history entries recorded for each accepted update.
//
// Key concepts:
//   - LightClientState: the latest finalized view, block height and block
//     commitment root. Replaced wholesale on each accepted update.
//   - StakeTableState: commitments to the validator set (BLS keys, Schnorr
//     keys, stake amounts) plus the signing threshold. Rotated only at epoch
//     roots.
//   - HistoryEntry: one record per accepted update, pairing the L1 block that
//     carried it with the HotShot height and commitment it finalized.
//
// The types are plain values. Copy them with Copy() when they carry pointer
// fields (StakeTableState.Threshold) so that callers never share mutable
// state with the contract.
package inter

import (
	"crypto/sha256"
	"fmt"
	"io"
	"math/big"

	"github.com/Fantom-foundation/lachesis-base/hash"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
)

// LightClientState is the finalized state of the HotShot chain as seen by the
// light client.
type LightClientState struct {
	// ViewNum is the HotShot consensus view that finalized BlockHeight.
	ViewNum uint64

	// BlockHeight is the height of the latest finalized HotShot block.
	BlockHeight uint64

	// BlockCommRoot is the root of the block commitment tree at BlockHeight.
	// External consumers (bridges, rollups) read it back through the history
	// ledger to prove inclusion of HotShot blocks.
	BlockCommRoot ScalarField
}

// Equal reports whether both states carry the same view, height and root.
func (s LightClientState) Equal(o LightClientState) bool {
	return s.ViewNum == o.ViewNum && s.BlockHeight == o.BlockHeight && s.BlockCommRoot.Equal(&o.BlockCommRoot)
}

// Hash calculates the SHA256 hash of the RLP-encoded state.
func (s LightClientState) Hash() hash.Hash {
	hasher := sha256.New()
	if err := rlp.Encode(hasher, &s); err != nil {
		panic("can't hash: " + err.Error())
	}
	return hash.BytesToHash(hasher.Sum(nil))
}

func (s LightClientState) String() string {
	return fmt.Sprintf("{view: %d, height: %d, root: %s}", s.ViewNum, s.BlockHeight, ScalarHex(s.BlockCommRoot))
}

// StakeTableState commits to the stake table that signs light client states.
//
// The contract holds two logical copies: the voting table used to check
// proofs for the current epoch, and the frozen genesis table kept for audit.
// A new voting table only arrives with an update finalizing an epoch root.
type StakeTableState struct {
	// Threshold is the minimum accumulated stake a valid proof must attest.
	Threshold *uint256.Int

	// BlsKeyComm commits to the column of BLS public keys.
	BlsKeyComm ScalarField

	// SchnorrKeyComm commits to the column of Schnorr state-signing keys.
	SchnorrKeyComm ScalarField

	// AmountComm commits to the column of stake amounts.
	AmountComm ScalarField
}

// Copy returns a deep copy; a nil threshold is normalized to zero.
func (s StakeTableState) Copy() StakeTableState {
	cp := s
	cp.Threshold = new(uint256.Int)
	if s.Threshold != nil {
		cp.Threshold.Set(s.Threshold)
	}
	return cp
}

// stakeTableRLP is the wire form of StakeTableState; the threshold travels as
// a big integer.
type stakeTableRLP struct {
	Threshold      *big.Int
	BlsKeyComm     ScalarField
	SchnorrKeyComm ScalarField
	AmountComm     ScalarField
}

// EncodeRLP implements rlp.Encoder.
func (s StakeTableState) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &stakeTableRLP{
		Threshold:      s.ThresholdOrZero().ToBig(),
		BlsKeyComm:     s.BlsKeyComm,
		SchnorrKeyComm: s.SchnorrKeyComm,
		AmountComm:     s.AmountComm,
	})
}

// DecodeRLP implements rlp.Decoder.
func (s *StakeTableState) DecodeRLP(st *rlp.Stream) error {
	var dec stakeTableRLP
	if err := st.Decode(&dec); err != nil {
		return err
	}
	threshold, overflow := uint256.FromBig(dec.Threshold)
	if overflow {
		return fmt.Errorf("stake threshold overflows 256 bits")
	}
	*s = StakeTableState{
		Threshold:      threshold,
		BlsKeyComm:     dec.BlsKeyComm,
		SchnorrKeyComm: dec.SchnorrKeyComm,
		AmountComm:     dec.AmountComm,
	}
	return nil
}

// CheckThreshold fails with ErrScalarOutOfRange when the threshold cannot be
// committed as a field element of the public input.
func (s StakeTableState) CheckThreshold() error {
	if _, err := ScalarFromBigStrict(s.ThresholdOrZero().ToBig()); err != nil {
		return fmt.Errorf("stake threshold: %w", err)
	}
	return nil
}

// IsZero reports whether no stake table has been set.
func (s StakeTableState) IsZero() bool {
	return s.ThresholdOrZero().IsZero() && s.BlsKeyComm.IsZero() && s.SchnorrKeyComm.IsZero() && s.AmountComm.IsZero()
}

// ThresholdOrZero never returns nil.
func (s StakeTableState) ThresholdOrZero() *uint256.Int {
	if s.Threshold == nil {
		return new(uint256.Int)
	}
	return s.Threshold
}

// Equal compares the threshold and all three commitments. A nil threshold
// equals a zero one.
func (s StakeTableState) Equal(o StakeTableState) bool {
	return s.ThresholdOrZero().Eq(o.ThresholdOrZero()) &&
		s.BlsKeyComm.Equal(&o.BlsKeyComm) &&
		s.SchnorrKeyComm.Equal(&o.SchnorrKeyComm) &&
		s.AmountComm.Equal(&o.AmountComm)
}

// Hash calculates the SHA256 hash of the RLP-encoded stake table state.
func (s StakeTableState) Hash() hash.Hash {
	hasher := sha256.New()
	if err := rlp.Encode(hasher, s); err != nil {
		panic("can't hash: " + err.Error())
	}
	return hash.BytesToHash(hasher.Sum(nil))
}

func (s StakeTableState) String() string {
	return fmt.Sprintf("{threshold: %s, bls: %s, schnorr: %s, amount: %s}",
		s.ThresholdOrZero().ToBig().String(), ScalarHex(s.BlsKeyComm), ScalarHex(s.SchnorrKeyComm), ScalarHex(s.AmountComm))
}
