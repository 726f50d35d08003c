package flags

import (
	"gopkg.in/urfave/cli.v1"
)

// NetworkFlags selects the network rules and the genesis the light client is
// initialized from.

func NetworkFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "network",
			Usage: "Network rules (main|test|fake)",
			Value: "fake",
		},
		cli.StringFlag{
			Name:  "genesis",
			Usage: "Genesis TOML file (defaults to the fake genesis on the fake network)",
		},
		cli.StringFlag{
			Name:  "verifier",
			Usage: "Proof verifier backend",
			Value: "digest",
		},
	}
}

// TxFlags describe the L1 transaction an operation executes in.
func TxFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "caller",
			Usage: "Address the operation is sent from",
		},
		cli.Uint64Flag{
			Name:  "l1.block",
			Usage: "L1 block number the operation is included in",
		},
		cli.Uint64Flag{
			Name:  "l1.time",
			Usage: "L1 block timestamp in seconds (defaults to the current time)",
		},
	}
}

// UpdateFlags locate the state update submitted or proven.
func UpdateFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "update",
			Usage: "JSON file holding the new finalized state, next stake table and proof",
		},
		cli.StringFlag{
			Name:  "out",
			Usage: "Write the proven update here instead of overwriting --update",
		},
	}
}
