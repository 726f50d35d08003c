package verifier

import (
	"bytes"

	"github.com/ethereum/go-ethereum/crypto"
)

// DigestVerifier is a development backend: a proof is valid iff it equals
// keccak256(vk digest || public input bytes). It binds the proof to every
// input without any zero-knowledge machinery and must not be used where
// provers are untrusted.
type DigestVerifier struct{}

// Prove produces the proof DigestVerifier accepts for inputs.
func (DigestVerifier) Prove(vk *VerifyingKey, inputs PublicInput) Proof {
	digest := vk.Digest()
	return crypto.Keccak256(digest[:], inputs.Bytes())
}

// Verify implements ProofVerifier.
func (d DigestVerifier) Verify(vk *VerifyingKey, inputs PublicInput, proof Proof) bool {
	if vk == nil || len(proof) != 32 {
		return false
	}
	return bytes.Equal(d.Prove(vk, inputs), proof)
}
