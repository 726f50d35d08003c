// Package verifier adapts validity-proof backends to the light client.
//
// The light client never inspects a proof. It builds the public input vector
// for a transition, hands it together with the verifying key and the opaque
// proof bytes to a ProofVerifier, and acts on the boolean result.
package verifier

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/Fantom-foundation/lachesis-base/common/bigendian"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// ErrWrongVerifyingKey is returned when a verifying key does not match the
// shape of the light client public input.
var ErrWrongVerifyingKey = errors.New("wrong verifying key")

// Proof is an opaque validity proof.
type Proof []byte

// VerifyingKey is loaded once and treated as an immutable parameter of the
// verifier backend.
type VerifyingKey struct {
	DomainSize uint64        `json:"domainSize"`
	NumInputs  uint64        `json:"numInputs"`
	Raw        hexutil.Bytes `json:"raw"`
}

// ProofVerifier checks a proof against a verifying key and public inputs.
type ProofVerifier interface {
	Verify(vk *VerifyingKey, inputs PublicInput, proof Proof) bool
}

// Digest fingerprints the key.
func (vk *VerifyingKey) Digest() common.Hash {
	return crypto.Keccak256Hash(
		bigendian.Uint64ToBytes(vk.DomainSize),
		bigendian.Uint64ToBytes(vk.NumInputs),
		vk.Raw,
	)
}

// CheckKey ensures vk accepts light client public inputs.
func CheckKey(vk *VerifyingKey) error {
	if vk == nil {
		return fmt.Errorf("%w: missing", ErrWrongVerifyingKey)
	}
	if vk.NumInputs != NumPublicInputs {
		return fmt.Errorf("%w: %d inputs, want %d", ErrWrongVerifyingKey, vk.NumInputs, NumPublicInputs)
	}
	return nil
}

// ParseVerifyingKey decodes a JSON verifying key.
func ParseVerifyingKey(data []byte) (*VerifyingKey, error) {
	vk := new(VerifyingKey)
	if err := json.Unmarshal(data, vk); err != nil {
		return nil, fmt.Errorf("failed to decode verifying key: %w", err)
	}
	return vk, nil
}

// LoadVerifyingKey reads a JSON verifying key from path.
func LoadVerifyingKey(path string) (*VerifyingKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseVerifyingKey(data)
}

// DevVerifyingKey returns the key used by fake networks together with the
// digest backend.
func DevVerifyingKey() *VerifyingKey {
	return &VerifyingKey{
		DomainSize: 1 << 20,
		NumInputs:  NumPublicInputs,
		Raw:        []byte("hotshot-light-client-dev"),
	}
}
