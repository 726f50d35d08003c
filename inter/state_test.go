package inter

import (
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScalarConversions(t *testing.T) {
	require := require.New(t)

	e := ScalarFromUint64(123)
	require.Equal("0x7b", ScalarHex(e))
	require.Equal(big.NewInt(123), ScalarToBig(e))

	parsed, err := ScalarFromHex("0x7b")
	require.NoError(err)
	require.True(parsed.Equal(&e))

	b := ScalarBytes(e)
	require.Equal(byte(123), b[31])

	_, err = ScalarFromBigStrict(fr.Modulus())
	require.ErrorIs(err, ErrScalarOutOfRange)
	_, err = ScalarFromBigStrict(big.NewInt(-1))
	require.ErrorIs(err, ErrScalarOutOfRange)

	reduced := ScalarFromBig(new(big.Int).Add(fr.Modulus(), big.NewInt(5)))
	five := ScalarFromUint64(5)
	require.True(reduced.Equal(&five))

	_, err = ScalarFromHex("zz")
	require.Error(err)
}

func TestLightClientState(t *testing.T) {
	a := LightClientState{ViewNum: 1, BlockHeight: 2, BlockCommRoot: ScalarFromUint64(3)}
	b := a
	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Hash(), b.Hash())

	b.BlockCommRoot = ScalarFromUint64(4)
	assert.False(t, a.Equal(b))
	assert.NotEqual(t, a.Hash(), b.Hash())
	assert.Equal(t, "{view: 1, height: 2, root: 0x3}", a.String())
}

func TestStakeTableState(t *testing.T) {
	t.Run("copy is deep", func(t *testing.T) {
		s := StakeTableState{Threshold: uint256.NewInt(10), BlsKeyComm: ScalarFromUint64(1)}
		cp := s.Copy()
		cp.Threshold.SetUint64(11)
		assert.Equal(t, uint64(10), s.Threshold.Uint64())
		assert.False(t, s.Equal(cp))
	})

	t.Run("nil threshold equals zero", func(t *testing.T) {
		a := StakeTableState{}
		b := StakeTableState{Threshold: new(uint256.Int)}
		assert.True(t, a.Equal(b))
		assert.True(t, a.IsZero())
		assert.NotNil(t, a.Copy().Threshold)
		assert.Equal(t, a.Hash(), b.Hash())
	})

	t.Run("commitments compared", func(t *testing.T) {
		a := StakeTableState{Threshold: uint256.NewInt(1), AmountComm: ScalarFromUint64(20)}
		b := a.Copy()
		b.SchnorrKeyComm = ScalarFromUint64(1)
		assert.False(t, a.Equal(b))
		assert.False(t, a.IsZero())
	})
}

func TestStakeTableStateRLP(t *testing.T) {
	require := require.New(t)

	large, overflow := uint256.FromBig(new(big.Int).Lsh(big.NewInt(1), 200))
	require.False(overflow)
	for _, s := range []StakeTableState{
		{Threshold: large, BlsKeyComm: ScalarFromUint64(1), SchnorrKeyComm: ScalarFromUint64(2), AmountComm: ScalarFromUint64(3)},
		{Threshold: uint256.NewInt(7)},
		{},
	} {
		b, err := rlp.EncodeToBytes(s)
		require.NoError(err)
		var got StakeTableState
		require.NoError(rlp.DecodeBytes(b, &got))
		require.True(s.Equal(got))
		require.NotNil(got.Threshold)
		require.Equal(s.Hash(), got.Hash())
	}

	var decoded StakeTableState
	b, err := rlp.EncodeToBytes(&StakeTableState{Threshold: large})
	require.NoError(err)
	require.NoError(rlp.DecodeBytes(b, &decoded))
	require.Equal(large.ToBig(), decoded.Threshold.ToBig())
}

func TestStakeTableThresholdRange(t *testing.T) {
	require := require.New(t)

	modulus, _ := uint256.FromBig(fr.Modulus())
	below := new(uint256.Int).Sub(modulus, uint256.NewInt(1))

	require.NoError(StakeTableState{}.CheckThreshold())
	require.NoError(StakeTableState{Threshold: below}.CheckThreshold())
	require.ErrorIs(StakeTableState{Threshold: modulus}.CheckThreshold(), ErrScalarOutOfRange)
	allOnes := new(uint256.Int).SetAllOne()
	require.ErrorIs(StakeTableState{Threshold: allOnes}.CheckThreshold(), ErrScalarOutOfRange)
}

func TestHistoryEntryIsZero(t *testing.T) {
	assert.True(t, HistoryEntry{}.IsZero())
	assert.False(t, HistoryEntry{HotShotBlockHeight: 1}.IsZero())
	assert.False(t, HistoryEntry{HotShotBlockCommRoot: ScalarFromUint64(1)}.IsZero())
}
