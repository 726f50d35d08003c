package lcprecompile

// ContractABI declares the call surface of the light client system contract.
// Both newFinalizedState overloads are listed; go-ethereum renames the second
// one, so dispatch goes by signature rather than by name.
const ContractABI = `[
{"type":"function","name":"newFinalizedState","stateMutability":"nonpayable","inputs":[
	{"name":"newState","type":"tuple","components":[
		{"name":"viewNum","type":"uint64"},{"name":"blockHeight","type":"uint64"},{"name":"blockCommRoot","type":"uint256"}]},
	{"name":"proof","type":"bytes"}],"outputs":[]},
{"type":"function","name":"newFinalizedState","stateMutability":"nonpayable","inputs":[
	{"name":"newState","type":"tuple","components":[
		{"name":"viewNum","type":"uint64"},{"name":"blockHeight","type":"uint64"},{"name":"blockCommRoot","type":"uint256"}]},
	{"name":"nextStakeTable","type":"tuple","components":[
		{"name":"threshold","type":"uint256"},{"name":"blsKeyComm","type":"uint256"},{"name":"schnorrKeyComm","type":"uint256"},{"name":"amountComm","type":"uint256"}]},
	{"name":"proof","type":"bytes"}],"outputs":[]},
{"type":"function","name":"finalizedState","stateMutability":"view","inputs":[],"outputs":[
	{"name":"viewNum","type":"uint64"},{"name":"blockHeight","type":"uint64"},{"name":"blockCommRoot","type":"uint256"}]},
{"type":"function","name":"genesisState","stateMutability":"view","inputs":[],"outputs":[
	{"name":"viewNum","type":"uint64"},{"name":"blockHeight","type":"uint64"},{"name":"blockCommRoot","type":"uint256"}]},
{"type":"function","name":"votingStakeTableState","stateMutability":"view","inputs":[],"outputs":[
	{"name":"threshold","type":"uint256"},{"name":"blsKeyComm","type":"uint256"},{"name":"schnorrKeyComm","type":"uint256"},{"name":"amountComm","type":"uint256"}]},
{"type":"function","name":"genesisStakeTableState","stateMutability":"view","inputs":[],"outputs":[
	{"name":"threshold","type":"uint256"},{"name":"blsKeyComm","type":"uint256"},{"name":"schnorrKeyComm","type":"uint256"},{"name":"amountComm","type":"uint256"}]},
{"type":"function","name":"initializeV2","stateMutability":"nonpayable","inputs":[{"name":"blocksPerEpoch","type":"uint64"}],"outputs":[]},
{"type":"function","name":"isEpochRoot","stateMutability":"view","inputs":[{"name":"blockHeight","type":"uint64"}],"outputs":[{"name":"","type":"bool"}]},
{"type":"function","name":"epochFromBlockNumber","stateMutability":"pure","inputs":[
	{"name":"blockNum","type":"uint64"},{"name":"blocksPerEpoch","type":"uint64"}],"outputs":[{"name":"","type":"uint64"}]},
{"type":"function","name":"stateHistoryFirstIndex","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint64"}]},
{"type":"function","name":"stateHistoryCommitments","stateMutability":"view","inputs":[{"name":"index","type":"uint256"}],"outputs":[
	{"name":"l1BlockHeight","type":"uint64"},{"name":"l1BlockTimestamp","type":"uint64"},{"name":"hotShotBlockHeight","type":"uint64"},{"name":"hotShotBlockCommRoot","type":"uint256"}]},
{"type":"function","name":"currentEpoch","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint64"}]},
{"type":"function","name":"getHotShotCommitment","stateMutability":"view","inputs":[{"name":"hotShotBlockHeight","type":"uint256"}],"outputs":[
	{"name":"hotShotBlockCommRoot","type":"uint256"},{"name":"hotshotBlockHeight","type":"uint64"}]},
{"type":"function","name":"getStateHistoryCount","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"isPermissionedProverEnabled","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"bool"}]},
{"type":"function","name":"permissionedProver","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
{"type":"function","name":"setPermissionedProver","stateMutability":"nonpayable","inputs":[{"name":"prover","type":"address"}],"outputs":[]},
{"type":"function","name":"disablePermissionedProverMode","stateMutability":"nonpayable","inputs":[],"outputs":[]},
{"type":"function","name":"setStateHistoryRetentionPeriod","stateMutability":"nonpayable","inputs":[{"name":"historySeconds","type":"uint32"}],"outputs":[]},
{"type":"function","name":"lagOverEscapeHatchThreshold","stateMutability":"view","inputs":[
	{"name":"blockNumber","type":"uint256"},{"name":"blockThreshold","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
{"type":"function","name":"getVersion","stateMutability":"pure","inputs":[],"outputs":[
	{"name":"majorVersion","type":"uint8"},{"name":"minorVersion","type":"uint8"},{"name":"patchVersion","type":"uint8"}]}
]`
