package inter

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ScalarField is an element of the BN254 scalar field. Every commitment the
// light client stores (block commitment roots, stake table column
// commitments) lives in this field, and the public inputs handed to the proof
// verifier are vectors of it.
type ScalarField = fr.Element

// ErrScalarOutOfRange is returned when a value does not fit the scalar field.
var ErrScalarOutOfRange = errors.New("value exceeds scalar field modulus")

// ScalarFromUint64 lifts a small integer into the field.
func ScalarFromUint64(v uint64) ScalarField {
	var e fr.Element
	e.SetUint64(v)
	return e
}

// ScalarFromBig converts b into the field, reducing modulo the field order.
// Use ScalarFromBigStrict when an out-of-range value must be rejected instead.
func ScalarFromBig(b *big.Int) ScalarField {
	var e fr.Element
	if b != nil {
		e.SetBigInt(b)
	}
	return e
}

// ScalarFromBigStrict converts b into the field, failing if b is negative or
// not smaller than the field modulus.
func ScalarFromBigStrict(b *big.Int) (ScalarField, error) {
	if b == nil {
		return ScalarField{}, nil
	}
	if b.Sign() < 0 || b.Cmp(fr.Modulus()) >= 0 {
		return ScalarField{}, fmt.Errorf("%w: %s", ErrScalarOutOfRange, b)
	}
	return ScalarFromBig(b), nil
}

// ScalarFromHex parses a 0x-prefixed big-endian hex quantity.
func ScalarFromHex(s string) (ScalarField, error) {
	b, err := hexutil.DecodeBig(s)
	if err != nil {
		return ScalarField{}, err
	}
	return ScalarFromBigStrict(b)
}

// ScalarToBig returns the canonical (non-Montgomery) integer value of e.
func ScalarToBig(e ScalarField) *big.Int {
	return e.BigInt(new(big.Int))
}

// ScalarBytes returns the 32-byte big-endian encoding of e.
func ScalarBytes(e ScalarField) [32]byte {
	return e.Bytes()
}

// ScalarHex renders e as a 0x-prefixed hex quantity.
func ScalarHex(e ScalarField) string {
	return hexutil.EncodeBig(ScalarToBig(e))
}
