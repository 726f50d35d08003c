// Package rules defines the network parameters a light client deployment runs
// with: how many HotShot blocks form an epoch, how long history is retained
// and which upgrades are active.
//
// The Rules type is selected by network name (main, test, fake) and may be
// overridden by a genesis file.
package rules

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rony4d/go-lightclient/history"
	"github.com/rony4d/go-lightclient/lightclient"
)

// Network identification constants
const (
	MainNetworkID uint64 = 0xe5
	TestNetworkID uint64 = 0xe52
	FakeNetworkID uint64 = 0xe53
)

// RulesRLP is the serializable form of Rules. Upgrades are not part of it.
type RulesRLP struct {
	Name      string
	NetworkID uint64

	Epochs  EpochsRules
	History HistoryRules

	Upgrades Upgrades `rlp:"-"`
}

// Rules describes the configuration of a light client network.
type Rules RulesRLP

// EpochsRules configures stake table rotation.
type EpochsRules struct {
	// BlocksPerEpoch is the number of HotShot blocks per epoch. The last
	// block of each epoch carries the stake table of the next one.
	BlocksPerEpoch uint64
}

// HistoryRules configures the history ledger.
type HistoryRules struct {
	// RetentionPeriod is how long, in seconds, an accepted update stays
	// queryable.
	RetentionPeriod uint32

	// MaxEvictPerAppend bounds the stale entries cleared per accepted update.
	// Zero removes the bound.
	MaxEvictPerAppend uint64
}

// Upgrades tracks which protocol upgrades are enabled.
type Upgrades struct {
	// Epochs enables epoch-aware mode right after initialization.
	Epochs bool
}

// MainNetRules returns the production configuration.
func MainNetRules() Rules {
	return Rules{
		Name:      "main",
		NetworkID: MainNetworkID,
		Epochs:    DefaultEpochsRules(),
		History:   DefaultHistoryRules(),
		Upgrades:  Upgrades{Epochs: true},
	}
}

// TestNetRules returns the configuration of the public test network. It
// matches mainnet.
func TestNetRules() Rules {
	return Rules{
		Name:      "test",
		NetworkID: TestNetworkID,
		Epochs:    DefaultEpochsRules(),
		History:   DefaultHistoryRules(),
		Upgrades:  Upgrades{Epochs: true},
	}
}

// FakeNetRules returns accelerated parameters for local networks:
//   - 10 blocks per epoch
//   - one hour of history
func FakeNetRules() Rules {
	return Rules{
		Name:      "fake",
		NetworkID: FakeNetworkID,
		Epochs:    EpochsRules{BlocksPerEpoch: 10},
		History: HistoryRules{
			RetentionPeriod:   lightclient.MinRetentionPeriod,
			MaxEvictPerAppend: history.DefaultMaxEvictPerAppend,
		},
		Upgrades: Upgrades{Epochs: true},
	}
}

// DefaultEpochsRules returns the mainnet epoch configuration.
func DefaultEpochsRules() EpochsRules {
	return EpochsRules{
		BlocksPerEpoch: 3000,
	}
}

// DefaultHistoryRules keeps ten days of history.
func DefaultHistoryRules() HistoryRules {
	return HistoryRules{
		RetentionPeriod:   10 * 24 * 60 * 60,
		MaxEvictPerAppend: history.DefaultMaxEvictPerAppend,
	}
}

// ByName returns the rules of a known network.
func ByName(name string) (Rules, error) {
	switch name {
	case "main":
		return MainNetRules(), nil
	case "test":
		return TestNetRules(), nil
	case "fake":
		return FakeNetRules(), nil
	}
	return Rules{}, fmt.Errorf("unknown network %q", name)
}

// Validate checks the rules against the light client bounds.
func (r Rules) Validate() error {
	if r.Name == "" {
		return errors.New("network name is empty")
	}
	if r.History.RetentionPeriod < lightclient.MinRetentionPeriod || r.History.RetentionPeriod > lightclient.MaxRetentionPeriod {
		return fmt.Errorf("retention period %d outside [%d, %d]",
			r.History.RetentionPeriod, lightclient.MinRetentionPeriod, lightclient.MaxRetentionPeriod)
	}
	if r.Upgrades.Epochs && r.Epochs.BlocksPerEpoch == 0 {
		return errors.New("epochs upgrade requires non-zero blocks per epoch")
	}
	return nil
}

// LightClientConfig derives the runtime configuration of the contract.
func (r Rules) LightClientConfig() lightclient.Config {
	cfg := lightclient.DefaultConfig()
	cfg.MaxEvictPerAppend = r.History.MaxEvictPerAppend
	return cfg
}

// Copy returns a copy of r. Rules holds no pointers.
func (r Rules) Copy() Rules {
	return r
}

// String returns a JSON representation of Rules.
func (r Rules) String() string {
	b, _ := json.Marshal(&r)
	return string(b)
}
