package lcprecompile

import (
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/rony4d/go-lightclient/inter"
	"github.com/rony4d/go-lightclient/lightclient"
	"github.com/rony4d/go-lightclient/verifier"
)

var (
	owner  = common.HexToAddress("0x0a")
	anyone = common.HexToAddress("0x0b")
)

const gas = 10_000_000

func setup(t *testing.T) (*lightclient.Contract, *verifier.VerifyingKey) {
	vk := verifier.DevVerifyingKey()
	c := lightclient.New(lightclient.DefaultConfig(), verifier.DigestVerifier{}, vk)
	stake := inter.StakeTableState{
		Threshold:      uint256.NewInt(1),
		BlsKeyComm:     inter.ScalarFromUint64(123),
		SchnorrKeyComm: inter.ScalarFromUint64(123),
		AmountComm:     inter.ScalarFromUint64(20),
	}
	genesis := inter.LightClientState{BlockCommRoot: inter.ScalarFromUint64(7)}
	require.NoError(t, c.Initialize(txFrom(owner), genesis, stake, 3600, owner))
	return c, vk
}

func txFrom(caller common.Address) lightclient.TxContext {
	return lightclient.TxContext{Caller: caller, Block: inter.BlockCtx{Number: 10, Time: 1000}}
}

func calldata(t *testing.T, sig string, args ...interface{}) []byte {
	packed, err := methods[sig].Inputs.Pack(args...)
	require.NoError(t, err)
	return append(MethodID(sig), packed...)
}

func results(t *testing.T, sig string, ret []byte) []interface{} {
	out, err := methods[sig].Outputs.Unpack(ret)
	require.NoError(t, err)
	return out
}

func TestSubmissionRoundTrip(t *testing.T) {
	require := require.New(t)
	next := inter.StakeTableState{Threshold: uint256.NewInt(5), AmountComm: inter.ScalarFromUint64(9)}
	sub := lightclient.Submission{
		Kind:           lightclient.KindEpochAware,
		State:          inter.LightClientState{ViewNum: 3, BlockHeight: 4, BlockCommRoot: inter.ScalarFromUint64(5)},
		NextStakeTable: &next,
		Proof:          []byte{1, 2, 3},
	}
	input, err := EncodeSubmission(sub)
	require.NoError(err)
	require.Equal(MethodID(sigNewFinalizedState), input[:4])

	got, err := DecodeSubmission(input)
	require.NoError(err)
	require.Equal(lightclient.KindEpochAware, got.Kind)
	require.True(sub.State.Equal(got.State))
	require.True(next.Equal(*got.NextStakeTable))
	require.Equal(sub.Proof, got.Proof)

	sub.Kind = lightclient.KindLegacy
	input, err = EncodeSubmission(sub)
	require.NoError(err)
	require.Equal(MethodID(sigNewFinalizedStateLegacy), input[:4])
	got, err = DecodeSubmission(input)
	require.NoError(err)
	require.Equal(lightclient.KindLegacy, got.Kind)
	require.Nil(got.NextStakeTable)

	_, err = DecodeSubmission(MethodID(sigFinalizedState))
	require.Error(err)
	_, err = DecodeSubmission([]byte{1})
	require.Error(err)
}

func TestRunSubmit(t *testing.T) {
	require := require.New(t)
	c, vk := setup(t)

	s := inter.LightClientState{ViewNum: 1, BlockHeight: 1, BlockCommRoot: inter.ScalarFromUint64(11)}
	voting := c.VotingStakeTableState()
	proof := verifier.DigestVerifier{}.Prove(vk, verifier.NewPublicInput(c.FinalizedState(), s, voting, &voting))
	input, err := EncodeSubmission(lightclient.Submission{Kind: lightclient.KindEpochAware, State: s, NextStakeTable: &voting, Proof: proof})
	require.NoError(err)

	_, _, err = Run(c, txFrom(anyone), input, SubmitGas-1)
	require.ErrorIs(err, vm.ErrOutOfGas)

	ret, left, err := Run(c, txFrom(anyone), input, gas)
	require.NoError(err)
	require.Empty(ret)
	require.Equal(uint64(gas-SubmitGas), left)
	require.True(c.FinalizedState().Equal(s))

	// replaying the same calldata is outdated
	_, _, err = Run(c, txFrom(anyone), input, gas)
	require.ErrorIs(err, vm.ErrExecutionReverted)
	require.ErrorIs(err, lightclient.ErrOutdatedState)

	out := results(t, sigFinalizedState, mustRun(t, c, calldata(t, sigFinalizedState)))
	require.Equal(uint64(1), out[0])
	require.Equal(uint64(1), out[1])
	require.Equal(big.NewInt(11), out[2])

	out = results(t, sigGetHotShotCommitment, mustRun(t, c, calldata(t, sigGetHotShotCommitment, big.NewInt(1))))
	require.Equal(big.NewInt(11), out[0])
	require.Equal(uint64(1), out[1])

	out = results(t, sigGetStateHistoryCount, mustRun(t, c, calldata(t, sigGetStateHistoryCount)))
	require.Equal(big.NewInt(1), out[0])
}

func TestRunDeprecatedSubmit(t *testing.T) {
	c, _ := setup(t)
	input, err := EncodeSubmission(lightclient.Submission{
		Kind:  lightclient.KindLegacy,
		State: inter.LightClientState{ViewNum: 1, BlockHeight: 1},
		Proof: []byte{0xff},
	})
	require.NoError(t, err)
	_, _, err = Run(c, txFrom(anyone), input, gas)
	require.NoError(t, err)
	require.Zero(t, c.FinalizedState().ViewNum)
}

func TestRunAdmin(t *testing.T) {
	require := require.New(t)
	c, _ := setup(t)
	prover := common.HexToAddress("0x0c")

	_, _, err := Run(c, txFrom(anyone), calldata(t, sigSetPermissionedProver, prover), gas)
	require.ErrorIs(err, lightclient.ErrUnauthorized)

	_, _, err = Run(c, txFrom(owner), calldata(t, sigSetPermissionedProver, prover), gas)
	require.NoError(err)

	out := results(t, sigIsPermissionedEnabled, mustRun(t, c, calldata(t, sigIsPermissionedEnabled)))
	require.Equal(true, out[0])
	out = results(t, sigPermissionedProver, mustRun(t, c, calldata(t, sigPermissionedProver)))
	require.Equal(prover, out[0])

	_, _, err = Run(c, txFrom(owner), calldata(t, sigDisablePermissioned), gas)
	require.NoError(err)
	require.False(c.IsPermissionedProverEnabled())

	_, _, err = Run(c, txFrom(owner), calldata(t, sigSetRetentionPeriod, uint32(10)), gas)
	require.ErrorIs(err, lightclient.ErrInvalidMaxStateHistory)
	_, _, err = Run(c, txFrom(owner), calldata(t, sigSetRetentionPeriod, uint32(7200)), gas)
	require.NoError(err)
	require.Equal(uint32(7200), c.StateHistoryRetentionPeriod())
}

func TestRunQueries(t *testing.T) {
	require := require.New(t)
	c, _ := setup(t)

	out := results(t, sigGenesisState, mustRun(t, c, calldata(t, sigGenesisState)))
	require.Equal(big.NewInt(7), out[2])

	out = results(t, sigVotingStakeTableState, mustRun(t, c, calldata(t, sigVotingStakeTableState)))
	require.Equal(big.NewInt(1), out[0])
	require.Equal(big.NewInt(20), out[3])

	out = results(t, sigCurrentEpoch, mustRun(t, c, calldata(t, sigCurrentEpoch)))
	require.Equal(uint64(0), out[0])

	out = results(t, sigGetVersion, mustRun(t, c, calldata(t, sigGetVersion)))
	require.Equal([]interface{}{uint8(1), uint8(0), uint8(0)}, out)

	_, _, err := Run(c, txFrom(anyone), calldata(t, sigGetHotShotCommitment, big.NewInt(1)), gas)
	require.ErrorIs(err, lightclient.ErrInsufficientSnapshotHistory)
	_, _, err = Run(c, txFrom(anyone), calldata(t, sigLagOverEscapeHatch, big.NewInt(10), big.NewInt(1)), gas)
	require.ErrorIs(err, lightclient.ErrInsufficientSnapshotHistory)
}

func TestRunEpochsAndHistory(t *testing.T) {
	require := require.New(t)
	c, vk := setup(t)

	out := results(t, sigGenesisStakeTableState, mustRun(t, c, calldata(t, sigGenesisStakeTableState)))
	require.Equal(big.NewInt(1), out[0])
	require.Equal(big.NewInt(123), out[1])
	require.Equal(big.NewInt(20), out[3])

	_, _, err := Run(c, txFrom(anyone), calldata(t, sigInitializeV2, uint64(10)), gas)
	require.ErrorIs(err, lightclient.ErrUnauthorized)
	_, _, err = Run(c, txFrom(owner), calldata(t, sigInitializeV2, uint64(10)), WriteGas-1)
	require.ErrorIs(err, vm.ErrOutOfGas)
	_, left, err := Run(c, txFrom(owner), calldata(t, sigInitializeV2, uint64(10)), gas)
	require.NoError(err)
	require.Equal(uint64(gas-WriteGas), left)
	require.Equal(uint64(10), c.BlocksPerEpoch())
	_, _, err = Run(c, txFrom(owner), calldata(t, sigInitializeV2, uint64(10)), gas)
	require.ErrorIs(err, lightclient.ErrInvalidInitialization)

	out = results(t, sigIsEpochRoot, mustRun(t, c, calldata(t, sigIsEpochRoot, uint64(10))))
	require.Equal(true, out[0])
	out = results(t, sigIsEpochRoot, mustRun(t, c, calldata(t, sigIsEpochRoot, uint64(5))))
	require.Equal(false, out[0])
	out = results(t, sigEpochFromBlockNumber, mustRun(t, c, calldata(t, sigEpochFromBlockNumber, uint64(25), uint64(10))))
	require.Equal(uint64(3), out[0])
	out = results(t, sigEpochFromBlockNumber, mustRun(t, c, calldata(t, sigEpochFromBlockNumber, uint64(25), uint64(0))))
	require.Equal(uint64(0), out[0])

	s := inter.LightClientState{ViewNum: 1, BlockHeight: 1, BlockCommRoot: inter.ScalarFromUint64(11)}
	proof := verifier.DigestVerifier{}.Prove(vk, verifier.NewPublicInput(c.FinalizedState(), s, c.VotingStakeTableState(), nil))
	require.NoError(c.SubmitUpdate(txFrom(anyone), s, nil, proof))

	out = results(t, sigStateHistoryFirstIndex, mustRun(t, c, calldata(t, sigStateHistoryFirstIndex)))
	require.Equal(uint64(0), out[0])
	out = results(t, sigStateHistoryCommitments, mustRun(t, c, calldata(t, sigStateHistoryCommitments, big.NewInt(0))))
	require.Equal([]interface{}{uint64(10), uint64(1000), uint64(1), big.NewInt(11)}, out)
	out = results(t, sigStateHistoryCommitments, mustRun(t, c, calldata(t, sigStateHistoryCommitments, big.NewInt(5))))
	require.Equal(uint64(0), out[2])
	require.Equal(0, out[3].(*big.Int).Sign())

	_, _, err = Run(c, txFrom(anyone), calldata(t, sigStateHistoryCommitments, new(big.Int).Lsh(big.NewInt(1), 70)), gas)
	require.ErrorIs(err, lightclient.ErrInvalidArgs)
}

func TestDecodeRejectsThresholdOutsideField(t *testing.T) {
	modulus, _ := uint256.FromBig(fr.Modulus())
	next := inter.StakeTableState{Threshold: modulus}
	input, err := EncodeSubmission(lightclient.Submission{
		Kind:           lightclient.KindEpochAware,
		State:          inter.LightClientState{ViewNum: 1, BlockHeight: 1},
		NextStakeTable: &next,
	})
	require.NoError(t, err)
	_, err = DecodeSubmission(input)
	require.ErrorIs(t, err, inter.ErrScalarOutOfRange)

	c, _ := setup(t)
	_, _, err = Run(c, txFrom(anyone), input, gas)
	require.ErrorIs(t, err, lightclient.ErrInvalidArgs)
}

func TestRunMalformed(t *testing.T) {
	c, _ := setup(t)
	for _, input := range [][]byte{
		nil,
		{1, 2, 3},
		{0xde, 0xad, 0xbe, 0xef},
		MethodID(sigGetHotShotCommitment),
	} {
		_, _, err := Run(c, txFrom(anyone), input, gas)
		require.ErrorIs(t, err, vm.ErrExecutionReverted)
	}
	_, _, err := Run(c, txFrom(anyone), calldata(t, sigFinalizedState), ReadGas-1)
	require.ErrorIs(t, err, vm.ErrOutOfGas)
}

func mustRun(t *testing.T, c *lightclient.Contract, input []byte) []byte {
	ret, _, err := Run(c, txFrom(anyone), input, gas)
	require.NoError(t, err)
	return ret
}
