// Package genesis loads the definition a light client is initialized from:
// the genesis HotShot state, the genesis stake table, the owner and the
// network rules it runs under.
//
// The file format is TOML:
//
//	network = "fake"
//	owner = "0x..."
//	retention_period = 3600      # optional override
//	blocks_per_epoch = 10        # optional override
//	verifying_key = "vk.json"    # optional, development key otherwise
//
//	[state]
//	view_num = 0
//	block_height = 0
//	block_comm_root = "0x0"
//
//	[stake_table]
//	threshold = "0x1"
//	bls_key_comm = "0x7b"
//	schnorr_key_comm = "0x7b"
//	amount_comm = "0x14"
package genesis

import (
	"errors"
	"fmt"
	"io"
	"math/big"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"

	"github.com/rony4d/go-lightclient/inter"
	"github.com/rony4d/go-lightclient/rules"
	"github.com/rony4d/go-lightclient/verifier"
)

// State is the genesis HotShot state.
type State struct {
	ViewNum       uint64       `toml:"view_num"`
	BlockHeight   uint64       `toml:"block_height"`
	BlockCommRoot *hexutil.Big `toml:"block_comm_root"`
}

// StakeTable is the genesis stake table.
type StakeTable struct {
	Threshold      *hexutil.Big `toml:"threshold"`
	BlsKeyComm     *hexutil.Big `toml:"bls_key_comm"`
	SchnorrKeyComm *hexutil.Big `toml:"schnorr_key_comm"`
	AmountComm     *hexutil.Big `toml:"amount_comm"`
}

// Genesis is the content of a genesis file.
type Genesis struct {
	Network            string          `toml:"network"`
	Owner              common.Address  `toml:"owner"`
	PermissionedProver *common.Address `toml:"permissioned_prover,omitempty"`
	RetentionPeriod    *uint32         `toml:"retention_period,omitempty"`
	BlocksPerEpoch     *uint64         `toml:"blocks_per_epoch,omitempty"`
	VerifyingKey       string          `toml:"verifying_key,omitempty"`

	State      State      `toml:"state"`
	StakeTable StakeTable `toml:"stake_table"`

	// dir resolves a relative verifying key path
	dir string
}

// Load reads and validates a genesis file.
func Load(path string) (*Genesis, error) {
	g := new(Genesis)
	md, err := toml.DecodeFile(path, g)
	if err != nil {
		return nil, fmt.Errorf("failed to decode genesis %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown genesis fields: %v", undecoded)
	}
	g.dir = filepath.Dir(path)
	return g, g.Validate()
}

// Parse decodes and validates a genesis definition.
func Parse(data string) (*Genesis, error) {
	g := new(Genesis)
	if _, err := toml.Decode(data, g); err != nil {
		return nil, err
	}
	return g, g.Validate()
}

// Encode writes g as TOML.
func (g *Genesis) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(g)
}

func big0(b *hexutil.Big) *big.Int {
	if b == nil {
		return new(big.Int)
	}
	return b.ToInt()
}

// LightClientState returns the genesis state.
func (g *Genesis) LightClientState() (inter.LightClientState, error) {
	root, err := inter.ScalarFromBigStrict(big0(g.State.BlockCommRoot))
	if err != nil {
		return inter.LightClientState{}, fmt.Errorf("block_comm_root: %w", err)
	}
	return inter.LightClientState{
		ViewNum:       g.State.ViewNum,
		BlockHeight:   g.State.BlockHeight,
		BlockCommRoot: root,
	}, nil
}

// StakeTableState returns the genesis stake table.
func (g *Genesis) StakeTableState() (inter.StakeTableState, error) {
	var s inter.StakeTableState
	threshold, overflow := uint256.FromBig(big0(g.StakeTable.Threshold))
	if overflow {
		return s, errors.New("threshold: overflows 256 bits")
	}
	s.Threshold = threshold
	if err := s.CheckThreshold(); err != nil {
		return s, err
	}
	for _, f := range []struct {
		name string
		dst  *inter.ScalarField
		src  *hexutil.Big
	}{
		{"bls_key_comm", &s.BlsKeyComm, g.StakeTable.BlsKeyComm},
		{"schnorr_key_comm", &s.SchnorrKeyComm, g.StakeTable.SchnorrKeyComm},
		{"amount_comm", &s.AmountComm, g.StakeTable.AmountComm},
	} {
		v, err := inter.ScalarFromBigStrict(big0(f.src))
		if err != nil {
			return s, fmt.Errorf("%s: %w", f.name, err)
		}
		*f.dst = v
	}
	return s, nil
}

// Rules returns the network rules with the genesis overrides applied.
func (g *Genesis) Rules() (rules.Rules, error) {
	r, err := rules.ByName(g.Network)
	if err != nil {
		return r, err
	}
	if g.RetentionPeriod != nil {
		r.History.RetentionPeriod = *g.RetentionPeriod
	}
	if g.BlocksPerEpoch != nil {
		r.Epochs.BlocksPerEpoch = *g.BlocksPerEpoch
		r.Upgrades.Epochs = *g.BlocksPerEpoch != 0
	}
	return r, r.Validate()
}

// LoadVerifyingKey returns the configured key, or the development key when
// none is configured.
func (g *Genesis) LoadVerifyingKey() (*verifier.VerifyingKey, error) {
	if g.VerifyingKey == "" {
		return verifier.DevVerifyingKey(), nil
	}
	path := g.VerifyingKey
	if !filepath.IsAbs(path) && g.dir != "" {
		path = filepath.Join(g.dir, path)
	}
	return verifier.LoadVerifyingKey(path)
}

// Validate checks that every value is in range.
func (g *Genesis) Validate() error {
	if g.Owner == (common.Address{}) {
		return errors.New("owner is not set")
	}
	if _, err := g.Rules(); err != nil {
		return err
	}
	if _, err := g.LightClientState(); err != nil {
		return err
	}
	stake, err := g.StakeTableState()
	if err != nil {
		return err
	}
	if stake.Threshold.IsZero() {
		return errors.New("stake table threshold is zero")
	}
	return nil
}

// FakeGenesis returns the genesis of a local network: a zero state and a
// stake table of threshold 1.
func FakeGenesis(owner common.Address) *Genesis {
	return &Genesis{
		Network: "fake",
		Owner:   owner,
		State: State{
			BlockCommRoot: (*hexutil.Big)(big.NewInt(0)),
		},
		StakeTable: StakeTable{
			Threshold:      (*hexutil.Big)(big.NewInt(1)),
			BlsKeyComm:     (*hexutil.Big)(big.NewInt(123)),
			SchnorrKeyComm: (*hexutil.Big)(big.NewInt(123)),
			AmountComm:     (*hexutil.Big)(big.NewInt(20)),
		},
	}
}
