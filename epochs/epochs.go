// Package epochs maps HotShot block heights onto epochs.
//
// An epoch spans blocksPerEpoch consecutive heights. With 10 blocks per epoch,
// heights 0..9 belong to epoch 1 and heights 10..19 to epoch 2. The first
// height of every epoch after the first is its epoch root: the update that
// finalizes it carries the stake table signing the heights after it. A zero
// blocksPerEpoch means epochs are disabled.
package epochs

// Disabled is the epoch number reported while epochs are not configured.
const Disabled = 0

// FromBlockNumber returns the epoch number containing blockNum.
func FromBlockNumber(blockNum, blocksPerEpoch uint64) uint64 {
	if blocksPerEpoch == 0 {
		return Disabled
	}
	return blockNum/blocksPerEpoch + 1
}

// IsEpochRoot reports whether height is an epoch root, where the stake table
// of the following blocks gets committed.
func IsEpochRoot(height, blocksPerEpoch uint64) bool {
	return blocksPerEpoch != 0 && height > 0 && height%blocksPerEpoch == 0
}

// FirstBlock returns the lowest height of epoch, which is its epoch root for
// every epoch but the first. It is 0 when epochs are disabled or epoch is 0.
func FirstBlock(epoch, blocksPerEpoch uint64) uint64 {
	if blocksPerEpoch == 0 || epoch == 0 {
		return 0
	}
	return (epoch - 1) * blocksPerEpoch
}

// LastBlock returns the highest height of epoch, or 0 when epochs are
// disabled or epoch is 0.
func LastBlock(epoch, blocksPerEpoch uint64) uint64 {
	if blocksPerEpoch == 0 || epoch == 0 {
		return 0
	}
	return epoch*blocksPerEpoch - 1
}
