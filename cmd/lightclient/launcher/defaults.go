package launcher

// Defaults bundles the baseline configuration values the launcher uses
// before presets, config files and flags override them.

type Defaults struct {
	Node     NodeDefaults
	Network  NetworkDefaults
	Storage  StorageDefaults
	History  HistoryDefaults
	Metrics  MetricsDefaults
	Verifier VerifierDefaults
	Logging  LoggingDefaults
}

// NodeDefaults captures top-level settings.
type NodeDefaults struct {
	DataDir string //	Filesystem root holding the database and the verifying key. Changing it lets you run several light clients side by side.
}

// NetworkDefaults selects the rules and genesis.
type NetworkDefaults struct {
	Name    string //	Network rules preset (main, test, fake). Sets blocks per epoch and the retention period unless the genesis overrides them.
	Genesis string //	Path to a genesis TOML file. Empty means the built-in fake genesis, which is only accepted on the fake network.
}

// StorageDefaults configures database behaviour.
type StorageDefaults struct {
	DBPath      string //	Directory of the leveldb database, relative to DataDir unless absolute.
	CacheSizeMB int    //	Memory reserved for the leveldb block cache and write buffer.
	Handles     int    //	Number of file handles leveldb may keep open.
}

// HistoryDefaults tunes the history ledger.
type HistoryDefaults struct {
	MaxEvictPerAppend uint64 //	Stale entries cleared per accepted update; 0 clears all of them at once. Bounded eviction keeps the cost of each update flat.
}

type MetricsDefaults struct {
	Enable bool //	Toggle for metrics collection (update counters, history gauges).
}

// VerifierDefaults selects the proof system.
type VerifierDefaults struct {
	Backend string //	Name of a registered proof verifier backend.
}

// LoggingDefaults controls log verbosity/format.
type LoggingDefaults struct {
	Verbosity int    //	Log level numeric (0=silent, 1=error, 2=warn, 3=info, 4=debug, 5=trace).
	Format    string //	Log output format (text vs json).
	Color     bool   //	Whether to use ANSI color codes in logs.
	SentryDSN string //	Sentry project errors are reported to; empty disables reporting.
}

// DefaultConfig returns a fully populated Defaults instance.

func DefaultConfig() Defaults {
	return Defaults{
		Node: NodeDefaults{
			DataDir: "~/.lightclient",
		},
		Network: NetworkDefaults{
			Name: "fake",
		},
		Storage: StorageDefaults{
			DBPath:      "lightclient",
			CacheSizeMB: 64,
			Handles:     128,
		},
		History: HistoryDefaults{
			MaxEvictPerAppend: 8,
		},
		Metrics: MetricsDefaults{
			Enable: false,
		},
		Verifier: VerifierDefaults{
			Backend: "digest",
		},
		Logging: LoggingDefaults{
			Verbosity: 3,
			Format:    "text",
			Color:     true,
		},
	}
}
