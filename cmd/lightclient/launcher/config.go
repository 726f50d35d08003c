// This file maps CLI context and config file to the launcher Config.

package launcher

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/urfave/cli.v1"

	"github.com/rony4d/go-lightclient/integration"
	"github.com/rony4d/go-lightclient/lightclient"
	"github.com/rony4d/go-lightclient/logger"
)

// Config aggregates every subsystem's configuration the launcher needs.
type Config struct {
	Node     NodeConfig
	Network  NetworkConfig
	Store    StoreConfig
	History  HistoryConfig
	Metrics  MetricsConfig
	Verifier VerifierConfig
	Preset   string `toml:",omitempty"`
}

type NodeConfig struct {
	DataDir string
	Logging logger.Config
}

type NetworkConfig struct {
	Name    string
	Genesis string `toml:",omitempty"`
}

type StoreConfig struct {
	Path    string
	CacheMB int
	Handles int
}

type HistoryConfig struct {
	MaxEvictPerAppend uint64
}

type MetricsConfig struct {
	Enable bool
}

type VerifierConfig struct {
	Backend string
}

// DBPath resolves the database directory.
func (c Config) DBPath() string {
	if filepath.IsAbs(c.Store.Path) {
		return c.Store.Path
	}
	return filepath.Join(c.Node.DataDir, c.Store.Path)
}

// VerifyingKeyPath is where init stores the verifying key.
func (c Config) VerifyingKeyPath() string {
	return filepath.Join(c.Node.DataDir, "verifying_key.json")
}

// LightClient derives the runtime parameters of the contract.
func (c Config) LightClient() lightclient.Config {
	cfg := lightclient.DefaultConfig()
	cfg.MaxEvictPerAppend = c.History.MaxEvictPerAppend
	return cfg
}

// -----------------------------------------------------------------------------
// Default config + builders
// -----------------------------------------------------------------------------

//	Default config is derived from DefaultConfig in defaults.go so both stay
//	in sync.

func defaultConfig() Config {
	d := DefaultConfig()
	return Config{
		Node: NodeConfig{
			DataDir: resolvePath(d.Node.DataDir),
			Logging: logger.Config{
				Verbosity: d.Logging.Verbosity,
				Format:    d.Logging.Format,
				Color:     d.Logging.Color,
				SentryDSN: d.Logging.SentryDSN,
			},
		},
		Network: NetworkConfig{
			Name:    d.Network.Name,
			Genesis: d.Network.Genesis,
		},
		Store: StoreConfig{
			Path:    d.Storage.DBPath,
			CacheMB: d.Storage.CacheSizeMB,
			Handles: d.Storage.Handles,
		},
		History:  HistoryConfig{MaxEvictPerAppend: d.History.MaxEvictPerAppend},
		Metrics:  MetricsConfig{Enable: d.Metrics.Enable},
		Verifier: VerifierConfig{Backend: d.Verifier.Backend},
	}
}

// MakeAllConfigs merges defaults, the optional config file, the selected
// preset and CLI overrides into a single config struct, in that order.

func MakeAllConfigs(ctx *cli.Context) (Config, error) {
	cfg := defaultConfig()

	if file := ctx.String("config"); file != "" {
		if err := loadConfigFile(file, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to load config file %s: %w", file, err)
		}
	}

	if ctx.IsSet("preset") {
		cfg.Preset = ctx.String("preset")
	}
	if cfg.Preset != "" {
		if err := applyPreset(cfg.Preset, &cfg); err != nil {
			return cfg, err
		}
	}

	applyCLIOverrides(ctx, &cfg)

	if err := ensureDir(cfg.Node.DataDir); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// -----------------------------------------------------------------------------
// Config-file / preset / CLI wiring
// -----------------------------------------------------------------------------

func loadConfigFile(path string, cfg *Config) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown config fields: %v", undecoded)
	}
	cfg.Node.DataDir = resolvePath(cfg.Node.DataDir)
	return nil
}

func applyPreset(name string, cfg *Config) error {
	preset, err := integration.GetPresetByName(name)
	if err != nil {
		return err
	}
	target := integration.PresetConfig{
		Name:              cfg.Preset,
		CacheMB:           cfg.Store.CacheMB,
		Handles:           cfg.Store.Handles,
		MaxEvictPerAppend: cfg.History.MaxEvictPerAppend,
		EnableMetrics:     cfg.Metrics.Enable,
	}
	integration.ApplyPreset(&target, preset)
	cfg.Preset = target.Name
	cfg.Store.CacheMB = target.CacheMB
	cfg.Store.Handles = target.Handles
	cfg.History.MaxEvictPerAppend = target.MaxEvictPerAppend
	cfg.Metrics.Enable = target.EnableMetrics
	return nil
}

func applyCLIOverrides(ctx *cli.Context, cfg *Config) {
	if ctx.IsSet("datadir") {
		cfg.Node.DataDir = resolvePath(ctx.String("datadir"))
	}

	if ctx.IsSet("log.format") {
		cfg.Node.Logging.Format = ctx.String("log.format")
	}
	if ctx.IsSet("log.verbosity") {
		cfg.Node.Logging.Verbosity = ctx.Int("log.verbosity")
	}
	if ctx.IsSet("log.color") {
		cfg.Node.Logging.Color = ctx.Bool("log.color")
	}
	if ctx.IsSet("sentry.dsn") {
		cfg.Node.Logging.SentryDSN = ctx.String("sentry.dsn")
	}
	if ctx.IsSet("metrics") {
		cfg.Metrics.Enable = ctx.Bool("metrics")
	}

	if ctx.IsSet("network") {
		cfg.Network.Name = ctx.String("network")
	}
	if ctx.IsSet("genesis") {
		cfg.Network.Genesis = resolvePath(ctx.String("genesis"))
	}
	if ctx.IsSet("verifier") {
		cfg.Verifier.Backend = ctx.String("verifier")
	}

	if ctx.IsSet("cache") {
		cfg.Store.CacheMB = ctx.Int("cache")
	}
	if ctx.IsSet("handles") {
		cfg.Store.Handles = ctx.Int("handles")
	}
	if ctx.IsSet("datadir.db") {
		cfg.Store.Path = resolvePath(ctx.String("datadir.db"))
	}
	if ctx.IsSet("history.evict") {
		cfg.History.MaxEvictPerAppend = ctx.Uint64("history.evict")
	}
}

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create datadir %s: %w", dir, err)
	}
	return nil
}

func resolvePath(p string) string {
	if strings.HasPrefix(p, "~") {
		return filepath.Join(GuessHomeDir(), strings.TrimPrefix(p, "~"))
	}
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(GuessWorkDir(), p)
}

func GuessWorkDir() string {
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

func GuessHomeDir() string {
	if dir, err := os.UserHomeDir(); err == nil {
		return dir
	}
	return "."
}
