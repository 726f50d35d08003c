package launcher

import (
	"encoding/json"
	"fmt"
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"

	"github.com/rony4d/go-lightclient/inter"
	"github.com/rony4d/go-lightclient/lightclient"
	"github.com/rony4d/go-lightclient/verifier"
)

// updateJSON is the on-disk form of a state update:
//
//	{
//	  "state": {"view_num": 12, "block_height": 10, "block_comm_root": "0x2a"},
//	  "next_stake_table": {"threshold": "0x1", "bls_key_comm": "0x7b", ...},
//	  "proof": "0x..."
//	}
//
// Setting "legacy" submits through the deprecated overload.
type updateJSON struct {
	State          stateJSON     `json:"state"`
	NextStakeTable *stakeJSON    `json:"next_stake_table,omitempty"`
	Proof          hexutil.Bytes `json:"proof,omitempty"`
	Legacy         bool          `json:"legacy,omitempty"`
}

type stateJSON struct {
	ViewNum       uint64       `json:"view_num"`
	BlockHeight   uint64       `json:"block_height"`
	BlockCommRoot *hexutil.Big `json:"block_comm_root"`
}

type stakeJSON struct {
	Threshold      *hexutil.Big `json:"threshold"`
	BlsKeyComm     *hexutil.Big `json:"bls_key_comm"`
	SchnorrKeyComm *hexutil.Big `json:"schnorr_key_comm"`
	AmountComm     *hexutil.Big `json:"amount_comm"`
}

func bigOrZero(b *hexutil.Big) *big.Int {
	if b == nil {
		return new(big.Int)
	}
	return b.ToInt()
}

func (s stateJSON) decode() (inter.LightClientState, error) {
	root, err := inter.ScalarFromBigStrict(bigOrZero(s.BlockCommRoot))
	if err != nil {
		return inter.LightClientState{}, fmt.Errorf("block_comm_root: %w", err)
	}
	return inter.LightClientState{ViewNum: s.ViewNum, BlockHeight: s.BlockHeight, BlockCommRoot: root}, nil
}

func (s stakeJSON) decode() (inter.StakeTableState, error) {
	var out inter.StakeTableState
	threshold, overflow := uint256.FromBig(bigOrZero(s.Threshold))
	if overflow {
		return out, fmt.Errorf("threshold overflows 256 bits")
	}
	out.Threshold = threshold
	if err := out.CheckThreshold(); err != nil {
		return out, err
	}
	for _, f := range []struct {
		name string
		dst  *inter.ScalarField
		src  *hexutil.Big
	}{
		{"bls_key_comm", &out.BlsKeyComm, s.BlsKeyComm},
		{"schnorr_key_comm", &out.SchnorrKeyComm, s.SchnorrKeyComm},
		{"amount_comm", &out.AmountComm, s.AmountComm},
	} {
		v, err := inter.ScalarFromBigStrict(bigOrZero(f.src))
		if err != nil {
			return out, fmt.Errorf("%s: %w", f.name, err)
		}
		*f.dst = v
	}
	return out, nil
}

func encodeStake(s inter.StakeTableState) *stakeJSON {
	return &stakeJSON{
		Threshold:      (*hexutil.Big)(s.ThresholdOrZero().ToBig()),
		BlsKeyComm:     (*hexutil.Big)(inter.ScalarToBig(s.BlsKeyComm)),
		SchnorrKeyComm: (*hexutil.Big)(inter.ScalarToBig(s.SchnorrKeyComm)),
		AmountComm:     (*hexutil.Big)(inter.ScalarToBig(s.AmountComm)),
	}
}

// Submission converts u into a decoded submit call.
func (u updateJSON) Submission() (lightclient.Submission, error) {
	sub := lightclient.Submission{Kind: lightclient.KindEpochAware, Proof: verifier.Proof(u.Proof)}
	if u.Legacy {
		sub.Kind = lightclient.KindLegacy
	}
	var err error
	if sub.State, err = u.State.decode(); err != nil {
		return sub, err
	}
	if u.NextStakeTable != nil && !u.Legacy {
		next, err := u.NextStakeTable.decode()
		if err != nil {
			return sub, err
		}
		sub.NextStakeTable = &next
	}
	return sub, nil
}

func readUpdate(path string) (updateJSON, error) {
	var u updateJSON
	data, err := os.ReadFile(path)
	if err != nil {
		return u, err
	}
	if err := json.Unmarshal(data, &u); err != nil {
		return u, fmt.Errorf("failed to decode update %s: %w", path, err)
	}
	return u, nil
}

func writeUpdate(path string, u updateJSON) error {
	data, err := json.MarshalIndent(u, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
