// Package lcprecompile exposes the light client as a selector-dispatched
// system contract: ABI-encoded calldata in, ABI-encoded return data out.
//
// The two newFinalizedState overloads are resolved here, at the boundary,
// into a lightclient.Submission. Only the calls of the light client are
// understood; this is not a general ABI layer.
package lcprecompile

import (
	"bytes"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/params"
	"github.com/holiman/uint256"

	"github.com/rony4d/go-lightclient/epochs"
	"github.com/rony4d/go-lightclient/inter"
	"github.com/rony4d/go-lightclient/lightclient"
)

// ContractAddress is where the light client system contract is reachable.
var ContractAddress = common.HexToAddress("0xd100ec0000000000000000000000000000000001")

// Method signatures.
const (
	sigNewFinalizedStateLegacy = "newFinalizedState((uint64,uint64,uint256),bytes)"
	sigNewFinalizedState       = "newFinalizedState((uint64,uint64,uint256),(uint256,uint256,uint256,uint256),bytes)"
	sigFinalizedState          = "finalizedState()"
	sigGenesisState            = "genesisState()"
	sigVotingStakeTableState   = "votingStakeTableState()"
	sigGenesisStakeTableState  = "genesisStakeTableState()"
	sigInitializeV2            = "initializeV2(uint64)"
	sigIsEpochRoot             = "isEpochRoot(uint64)"
	sigEpochFromBlockNumber    = "epochFromBlockNumber(uint64,uint64)"
	sigStateHistoryFirstIndex  = "stateHistoryFirstIndex()"
	sigStateHistoryCommitments = "stateHistoryCommitments(uint256)"
	sigCurrentEpoch            = "currentEpoch()"
	sigGetHotShotCommitment    = "getHotShotCommitment(uint256)"
	sigGetStateHistoryCount    = "getStateHistoryCount()"
	sigIsPermissionedEnabled   = "isPermissionedProverEnabled()"
	sigPermissionedProver      = "permissionedProver()"
	sigSetPermissionedProver   = "setPermissionedProver(address)"
	sigDisablePermissioned     = "disablePermissionedProverMode()"
	sigSetRetentionPeriod      = "setStateHistoryRetentionPeriod(uint32)"
	sigLagOverEscapeHatch      = "lagOverEscapeHatchThreshold(uint256,uint256)"
	sigGetVersion              = "getVersion()"
)

// Gas charged per call kind.
const (
	ReadGas = params.SloadGasEIP2200
	// WriteGas covers a state write of an admin operation.
	WriteGas = params.SstoreSetGasEIP2200
	// SubmitGas covers proof verification plus the state and history writes.
	SubmitGas = 250_000 + 3*params.SstoreSetGasEIP2200
)

var (
	contractABI abi.ABI
	// methods by signature
	methods = make(map[string]abi.Method)
)

func init() {
	var err error
	contractABI, err = abi.JSON(strings.NewReader(ContractABI))
	if err != nil {
		panic(err)
	}
	for _, m := range contractABI.Methods {
		methods[m.Sig] = m
	}
	for _, sig := range []string{
		sigNewFinalizedStateLegacy, sigNewFinalizedState, sigFinalizedState, sigGenesisState,
		sigVotingStakeTableState, sigCurrentEpoch, sigGetHotShotCommitment, sigGetStateHistoryCount,
		sigIsPermissionedEnabled, sigPermissionedProver, sigSetPermissionedProver, sigDisablePermissioned,
		sigSetRetentionPeriod, sigLagOverEscapeHatch, sigGetVersion, sigGenesisStakeTableState,
		sigInitializeV2, sigIsEpochRoot, sigEpochFromBlockNumber, sigStateHistoryFirstIndex,
		sigStateHistoryCommitments,
	} {
		if _, ok := methods[sig]; !ok {
			panic("unknown light client method " + sig)
		}
	}
}

// MethodID returns the selector of sig.
func MethodID(sig string) []byte {
	m, ok := methods[sig]
	if !ok {
		return nil
	}
	return common.CopyBytes(m.ID)
}

// RevertError is a reverted call. It matches vm.ErrExecutionReverted and
// unwraps to the light client error that caused it.
type RevertError struct {
	Reason error
}

func (e *RevertError) Error() string {
	return fmt.Sprintf("%s: %v", vm.ErrExecutionReverted, e.Reason)
}

func (e *RevertError) Unwrap() error {
	return e.Reason
}

func (e *RevertError) Is(target error) bool {
	return target == vm.ErrExecutionReverted
}

func revert(err error) error {
	return &RevertError{Reason: err}
}

type stateArg struct {
	ViewNum       uint64
	BlockHeight   uint64
	BlockCommRoot *big.Int
}

type stakeArg struct {
	Threshold      *big.Int
	BlsKeyComm     *big.Int
	SchnorrKeyComm *big.Int
	AmountComm     *big.Int
}

func (a stateArg) decode() (inter.LightClientState, error) {
	root, err := inter.ScalarFromBigStrict(a.BlockCommRoot)
	if err != nil {
		return inter.LightClientState{}, err
	}
	return inter.LightClientState{ViewNum: a.ViewNum, BlockHeight: a.BlockHeight, BlockCommRoot: root}, nil
}

func encodeState(s inter.LightClientState) stateArg {
	return stateArg{ViewNum: s.ViewNum, BlockHeight: s.BlockHeight, BlockCommRoot: inter.ScalarToBig(s.BlockCommRoot)}
}

func (a stakeArg) decode() (inter.StakeTableState, error) {
	var (
		s   inter.StakeTableState
		err error
	)
	threshold, overflow := uint256.FromBig(a.Threshold)
	if overflow {
		return s, fmt.Errorf("threshold overflows 256 bits")
	}
	s.Threshold = threshold
	if err = s.CheckThreshold(); err != nil {
		return s, err
	}
	for _, f := range []struct {
		dst *inter.ScalarField
		src *big.Int
	}{
		{&s.BlsKeyComm, a.BlsKeyComm},
		{&s.SchnorrKeyComm, a.SchnorrKeyComm},
		{&s.AmountComm, a.AmountComm},
	} {
		if *f.dst, err = inter.ScalarFromBigStrict(f.src); err != nil {
			return s, err
		}
	}
	return s, nil
}

func encodeStake(s inter.StakeTableState) stakeArg {
	return stakeArg{
		Threshold:      s.ThresholdOrZero().ToBig(),
		BlsKeyComm:     inter.ScalarToBig(s.BlsKeyComm),
		SchnorrKeyComm: inter.ScalarToBig(s.SchnorrKeyComm),
		AmountComm:     inter.ScalarToBig(s.AmountComm),
	}
}

// DecodeSubmission resolves calldata of either newFinalizedState overload.
func DecodeSubmission(input []byte) (lightclient.Submission, error) {
	if len(input) < 4 {
		return lightclient.Submission{}, errors.New("short input")
	}
	var (
		sub  lightclient.Submission
		args []interface{}
		err  error
	)
	switch {
	case bytes.Equal(input[:4], methods[sigNewFinalizedState].ID):
		sub.Kind = lightclient.KindEpochAware
		args, err = methods[sigNewFinalizedState].Inputs.Unpack(input[4:])
	case bytes.Equal(input[:4], methods[sigNewFinalizedStateLegacy].ID):
		sub.Kind = lightclient.KindLegacy
		args, err = methods[sigNewFinalizedStateLegacy].Inputs.Unpack(input[4:])
	default:
		return sub, fmt.Errorf("not a submission: selector %x", input[:4])
	}
	if err != nil {
		return sub, err
	}

	st := *abi.ConvertType(args[0], new(stateArg)).(*stateArg)
	if sub.State, err = st.decode(); err != nil {
		return sub, err
	}
	if sub.Kind == lightclient.KindEpochAware {
		sk := *abi.ConvertType(args[1], new(stakeArg)).(*stakeArg)
		next, err := sk.decode()
		if err != nil {
			return sub, err
		}
		sub.NextStakeTable = &next
	}
	sub.Proof = args[len(args)-1].([]byte)
	return sub, nil
}

// EncodeSubmission builds calldata for sub.
func EncodeSubmission(sub lightclient.Submission) ([]byte, error) {
	var (
		m    abi.Method
		args []interface{}
	)
	switch sub.Kind {
	case lightclient.KindEpochAware:
		if sub.NextStakeTable == nil {
			return nil, fmt.Errorf("%w: missing next stake table", lightclient.ErrInvalidArgs)
		}
		m = methods[sigNewFinalizedState]
		args = []interface{}{encodeState(sub.State), encodeStake(*sub.NextStakeTable), []byte(sub.Proof)}
	case lightclient.KindLegacy:
		m = methods[sigNewFinalizedStateLegacy]
		args = []interface{}{encodeState(sub.State), []byte(sub.Proof)}
	default:
		return nil, fmt.Errorf("%w: submission kind %d", lightclient.ErrInvalidArgs, sub.Kind)
	}
	packed, err := m.Inputs.Pack(args...)
	if err != nil {
		return nil, err
	}
	return append(common.CopyBytes(m.ID), packed...), nil
}

// Run executes a call against c and returns the ABI-encoded result and the
// gas left.
func Run(c *lightclient.Contract, tx lightclient.TxContext, input []byte, suppliedGas uint64) ([]byte, uint64, error) {
	if len(input) < 4 {
		return nil, 0, vm.ErrExecutionReverted
	}
	m, err := contractABI.MethodById(input[:4])
	if err != nil {
		return nil, 0, vm.ErrExecutionReverted
	}

	cost := ReadGas
	switch m.Sig {
	case sigNewFinalizedState, sigNewFinalizedStateLegacy:
		cost = SubmitGas
	case sigSetPermissionedProver, sigDisablePermissioned, sigSetRetentionPeriod, sigInitializeV2:
		cost = WriteGas
	}
	if suppliedGas < cost {
		return nil, 0, vm.ErrOutOfGas
	}
	suppliedGas -= cost

	args, err := m.Inputs.Unpack(input[4:])
	if err != nil {
		return nil, 0, revert(fmt.Errorf("%w: %v", lightclient.ErrInvalidArgs, err))
	}

	var out []interface{}
	switch m.Sig {
	case sigNewFinalizedState, sigNewFinalizedStateLegacy:
		sub, err := DecodeSubmission(input)
		if err != nil {
			return nil, 0, revert(fmt.Errorf("%w: %v", lightclient.ErrInvalidArgs, err))
		}
		err = c.Submit(tx, sub)
		if err != nil {
			return nil, 0, revert(err)
		}

	case sigFinalizedState, sigGenesisState:
		s := c.FinalizedState()
		if m.Sig == sigGenesisState {
			s = c.GenesisState()
		}
		out = []interface{}{s.ViewNum, s.BlockHeight, inter.ScalarToBig(s.BlockCommRoot)}

	case sigVotingStakeTableState, sigGenesisStakeTableState:
		s := c.VotingStakeTableState()
		if m.Sig == sigGenesisStakeTableState {
			s = c.GenesisStakeTableState()
		}
		a := encodeStake(s)
		out = []interface{}{a.Threshold, a.BlsKeyComm, a.SchnorrKeyComm, a.AmountComm}

	case sigCurrentEpoch:
		out = []interface{}{c.CurrentEpoch()}

	case sigIsEpochRoot:
		out = []interface{}{c.IsEpochRoot(args[0].(uint64))}

	case sigEpochFromBlockNumber:
		out = []interface{}{epochs.FromBlockNumber(args[0].(uint64), args[1].(uint64))}

	case sigInitializeV2:
		if err := c.InitializeV2(tx, args[0].(uint64)); err != nil {
			return nil, 0, revert(err)
		}

	case sigGetHotShotCommitment:
		height := args[0].(*big.Int)
		if !height.IsUint64() {
			return nil, 0, revert(lightclient.ErrInvalidArgs)
		}
		root, h, err := c.GetHotShotCommitment(height.Uint64())
		if err != nil {
			return nil, 0, revert(err)
		}
		out = []interface{}{inter.ScalarToBig(root), h}

	case sigGetStateHistoryCount:
		out = []interface{}{new(big.Int).SetUint64(c.GetStateHistoryCount())}

	case sigStateHistoryFirstIndex:
		out = []interface{}{c.StateHistoryFirstIndex()}

	case sigStateHistoryCommitments:
		index := args[0].(*big.Int)
		if !index.IsUint64() {
			return nil, 0, revert(lightclient.ErrInvalidArgs)
		}
		e := c.StateHistoryCommitments(index.Uint64())
		out = []interface{}{uint64(e.L1BlockHeight), e.L1BlockTimestamp, e.HotShotBlockHeight, inter.ScalarToBig(e.HotShotBlockCommRoot)}

	case sigIsPermissionedEnabled:
		out = []interface{}{c.IsPermissionedProverEnabled()}

	case sigPermissionedProver:
		out = []interface{}{c.PermissionedProver()}

	case sigSetPermissionedProver:
		if err := c.SetPermissionedProver(tx, args[0].(common.Address)); err != nil {
			return nil, 0, revert(err)
		}

	case sigDisablePermissioned:
		if err := c.DisablePermissionedProverMode(tx); err != nil {
			return nil, 0, revert(err)
		}

	case sigSetRetentionPeriod:
		if err := c.SetStateHistoryRetentionPeriod(tx, args[0].(uint32)); err != nil {
			return nil, 0, revert(err)
		}

	case sigLagOverEscapeHatch:
		blockNumber, threshold := args[0].(*big.Int), args[1].(*big.Int)
		if !blockNumber.IsUint64() || !threshold.IsUint64() {
			return nil, 0, revert(lightclient.ErrInvalidArgs)
		}
		lag, err := c.LagOverEscapeHatchThreshold(idx.Block(blockNumber.Uint64()), threshold.Uint64())
		if err != nil {
			return nil, 0, revert(err)
		}
		out = []interface{}{lag}

	case sigGetVersion:
		v := c.Version()
		out = []interface{}{v.Major, v.Minor, v.Patch}

	default:
		return nil, 0, vm.ErrExecutionReverted
	}

	ret, err := m.Outputs.Pack(out...)
	if err != nil {
		return nil, 0, err
	}
	return ret, suppliedGas, nil
}
