package flags

import (
	"gopkg.in/urfave/cli.v1"
)

// NodeFlags holds knobs specific to the local database and history ledger.

func NodeFlags() []cli.Flag {
	return []cli.Flag{
		cli.IntFlag{
			Name:  "cache",
			Usage: "Megabytes of memory allocated to the database cache",
			Value: 64,
		},
		cli.IntFlag{
			Name:  "handles",
			Usage: "Number of open file handles allowed to the database",
			Value: 128,
		},
		cli.StringFlag{
			Name:  "datadir.db",
			Usage: "Override path to the database (defaults to <datadir>/lightclient)",
		},
		cli.Uint64Flag{
			Name:  "history.evict",
			Usage: "Maximum stale history entries cleared per accepted update (0 = unbounded)",
			Value: 8,
		},
	}
}

// AllFlags is every flag group a command accepts.
func AllFlags() []cli.Flag {
	var all []cli.Flag
	all = append(all, CommonFlags()...)
	all = append(all, NetworkFlags()...)
	all = append(all, NodeFlags()...)
	all = append(all, TxFlags()...)
	return all
}
