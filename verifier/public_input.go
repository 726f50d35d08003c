package verifier

import (
	"github.com/rony4d/go-lightclient/inter"
)

// NumPublicInputs is the length of the public input vector.
const NumPublicInputs = 14

// PublicInput is the ordered vector the proof attests to:
//
//	[prev.view, prev.height, prev.root,
//	 new.view, new.height, new.root,
//	 voting.bls, voting.schnorr, voting.amount, voting.threshold,
//	 next.bls, next.schnorr, next.amount, next.threshold]
type PublicInput struct {
	Prev, Next        inter.LightClientState
	Voting, NextStake inter.StakeTableState
}

// NewPublicInput builds the inputs for the transition prev -> next. A nil
// nextStake means the voting stake table stays in place.
func NewPublicInput(prev, next inter.LightClientState, voting inter.StakeTableState, nextStake *inter.StakeTableState) PublicInput {
	in := PublicInput{
		Prev:   prev,
		Next:   next,
		Voting: voting.Copy(),
	}
	if nextStake != nil {
		in.NextStake = nextStake.Copy()
	} else {
		in.NextStake = voting.Copy()
	}
	return in
}

// Vector returns the inputs as field elements.
func (in PublicInput) Vector() []inter.ScalarField {
	stake := func(s inter.StakeTableState) []inter.ScalarField {
		return []inter.ScalarField{
			s.BlsKeyComm,
			s.SchnorrKeyComm,
			s.AmountComm,
			inter.ScalarFromBig(s.ThresholdOrZero().ToBig()),
		}
	}
	out := make([]inter.ScalarField, 0, NumPublicInputs)
	out = append(out,
		inter.ScalarFromUint64(in.Prev.ViewNum),
		inter.ScalarFromUint64(in.Prev.BlockHeight),
		in.Prev.BlockCommRoot,
		inter.ScalarFromUint64(in.Next.ViewNum),
		inter.ScalarFromUint64(in.Next.BlockHeight),
		in.Next.BlockCommRoot,
	)
	out = append(out, stake(in.Voting)...)
	out = append(out, stake(in.NextStake)...)
	return out
}

// Bytes concatenates the 32-byte big-endian encodings of Vector.
func (in PublicInput) Bytes() []byte {
	vec := in.Vector()
	out := make([]byte, 0, 32*len(vec))
	for _, e := range vec {
		b := inter.ScalarBytes(e)
		out = append(out, b[:]...)
	}
	return out
}
