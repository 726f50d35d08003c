package launcher

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/metrics"
	"github.com/sirupsen/logrus"
	"gopkg.in/urfave/cli.v1"

	"github.com/rony4d/go-lightclient/contracts/lcprecompile"
	"github.com/rony4d/go-lightclient/epochs"
	"github.com/rony4d/go-lightclient/flags"
	"github.com/rony4d/go-lightclient/inter"
	"github.com/rony4d/go-lightclient/lightclient"
	"github.com/rony4d/go-lightclient/logger"
	"github.com/rony4d/go-lightclient/rules/genesis"
	"github.com/rony4d/go-lightclient/store"
	"github.com/rony4d/go-lightclient/verifier"
)

var (
	errNotInitialized     = errors.New("light client is not initialized, run init first")
	errAlreadyInitialized = errors.New("light client is already initialized")
)

var log = logger.Module("launcher")

func commands() []cli.Command {
	withTx := flags.AllFlags()
	withUpdate := append(flags.AllFlags(), flags.UpdateFlags()...)
	return []cli.Command{
		{
			Name:   "init",
			Usage:  "Initialize the light client from a genesis file",
			Flags:  withTx,
			Action: initAction,
		},
		{
			Name:      "submit",
			Usage:     "Submit a new finalized state",
			ArgsUsage: "--update <file>",
			Flags:     withUpdate,
			Action:    submitAction,
		},
		{
			Name:      "prove",
			Usage:     "Attach a development proof to an update file",
			ArgsUsage: "--update <file> [--out <file>]",
			Flags:     withUpdate,
			Action:    proveAction,
		},
		{
			Name:   "state",
			Usage:  "Print the decided state",
			Flags:  withTx,
			Action: stateAction,
		},
		{
			Name:      "commitment",
			Usage:     "Print the block commitment finalized at or below a HotShot height",
			ArgsUsage: "<height>",
			Flags:     withTx,
			Action:    commitmentAction,
		},
		{
			Name:      "lag",
			Usage:     "Report whether updates lag more than a threshold of L1 blocks",
			ArgsUsage: "<l1 block> <threshold>",
			Flags:     withTx,
			Action:    lagAction,
		},
		{
			Name:      "retention",
			Usage:     "Set the state history retention period",
			ArgsUsage: "<seconds>",
			Flags:     withTx,
			Action:    retentionAction,
		},
		{
			Name:  "prover",
			Usage: "Manage the permissioned prover",
			Subcommands: []cli.Command{
				{
					Name:      "set",
					Usage:     "Only accept updates from this prover",
					ArgsUsage: "<address>",
					Flags:     withTx,
					Action:    proverSetAction,
				},
				{
					Name:   "disable",
					Usage:  "Accept updates from anyone",
					Flags:  withTx,
					Action: proverDisableAction,
				},
			},
		},
		{
			Name:  "owner",
			Usage: "Manage ownership",
			Subcommands: []cli.Command{
				{
					Name:      "transfer",
					Usage:     "Transfer ownership",
					ArgsUsage: "<address>",
					Flags:     withTx,
					Action:    ownerTransferAction,
				},
				{
					Name:   "renounce",
					Usage:  "Give up ownership for good",
					Flags:  withTx,
					Action: ownerRenounceAction,
				},
			},
		},
	}
}

// setup builds the config and applies the logging settings.
func setup(ctx *cli.Context) (Config, error) {
	cfg, err := MakeAllConfigs(ctx)
	if err != nil {
		return cfg, err
	}
	if err := logger.Setup(cfg.Node.Logging); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func parseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("invalid address %q", s)
	}
	return common.HexToAddress(s), nil
}

func txContext(ctx *cli.Context) (lightclient.TxContext, error) {
	tx := lightclient.TxContext{
		Block: inter.BlockCtx{
			Number: idx.Block(ctx.Uint64("l1.block")),
			Time:   uint64(time.Now().Unix()),
		},
	}
	if ctx.IsSet("l1.time") {
		tx.Block.Time = ctx.Uint64("l1.time")
	}
	if ctx.IsSet("caller") {
		caller, err := parseAddress(ctx.String("caller"))
		if err != nil {
			return tx, err
		}
		tx.Caller = caller
	}
	return tx, nil
}

// openContract restores an initialized light client.
func openContract(cfg Config) (*lightclient.Contract, error) {
	backend, err := verifier.NewRegistry().Get(cfg.Verifier.Backend)
	if err != nil {
		return nil, err
	}
	s, err := store.Open(cfg.DBPath(), cfg.Store.CacheMB, cfg.Store.Handles, false)
	if err != nil {
		return nil, err
	}
	has, err := s.Has()
	if err == nil && !has {
		err = errNotInitialized
	}
	if err != nil {
		s.Close()
		return nil, err
	}
	vk, err := verifier.LoadVerifyingKey(cfg.VerifyingKeyPath())
	if err != nil {
		s.Close()
		return nil, err
	}
	c, err := lightclient.Restore(cfg.LightClient(), backend, vk, s)
	if err != nil {
		s.Close()
		return nil, err
	}
	return c, nil
}

// withContract runs fn against the restored light client and closes it.
func withContract(ctx *cli.Context, fn func(cfg Config, c *lightclient.Contract) error) error {
	cfg, err := setup(ctx)
	if err != nil {
		return err
	}
	c, err := openContract(cfg)
	if err != nil {
		return err
	}
	err = fn(cfg, c)
	reportMetrics(cfg)
	if cerr := c.Close(); err == nil {
		err = cerr
	}
	return err
}

// reportMetrics logs the light client meters when the configuration or a
// preset enables metrics.
func reportMetrics(cfg Config) {
	if !cfg.Metrics.Enable {
		return
	}
	log.WithFields(collectMetrics()).Info("Light client metrics")
}

func collectMetrics() logrus.Fields {
	fields := logrus.Fields{}
	metrics.DefaultRegistry.Each(func(name string, m interface{}) {
		if !strings.HasPrefix(name, "lightclient/") {
			return
		}
		switch m := m.(type) {
		case metrics.Counter:
			fields[name] = m.Count()
		case metrics.Gauge:
			fields[name] = m.Value()
		}
	})
	return fields
}

func loadGenesis(ctx *cli.Context, cfg Config, tx lightclient.TxContext) (*genesis.Genesis, error) {
	if cfg.Network.Genesis != "" {
		g, err := genesis.Load(cfg.Network.Genesis)
		if err != nil {
			return nil, err
		}
		if ctx.IsSet("network") && g.Network != cfg.Network.Name {
			return nil, fmt.Errorf("genesis is for network %q, not %q", g.Network, cfg.Network.Name)
		}
		return g, nil
	}
	if cfg.Network.Name != "fake" {
		return nil, fmt.Errorf("network %q requires --genesis", cfg.Network.Name)
	}
	if tx.Caller == (common.Address{}) {
		return nil, errors.New("the fake genesis is owned by --caller, which is not set")
	}
	return genesis.FakeGenesis(tx.Caller), nil
}

func initAction(ctx *cli.Context) error {
	cfg, err := setup(ctx)
	if err != nil {
		return err
	}
	tx, err := txContext(ctx)
	if err != nil {
		return err
	}
	g, err := loadGenesis(ctx, cfg, tx)
	if err != nil {
		return err
	}
	r, err := g.Rules()
	if err != nil {
		return err
	}
	state, err := g.LightClientState()
	if err != nil {
		return err
	}
	stake, err := g.StakeTableState()
	if err != nil {
		return err
	}
	vk, err := g.LoadVerifyingKey()
	if err != nil {
		return err
	}
	if err := verifier.CheckKey(vk); err != nil {
		return err
	}
	backend, err := verifier.NewRegistry().Get(cfg.Verifier.Backend)
	if err != nil {
		return err
	}

	s, err := store.Open(cfg.DBPath(), cfg.Store.CacheMB, cfg.Store.Handles, false)
	if err != nil {
		return err
	}
	c := lightclient.New(r.LightClientConfig(), backend, vk, lightclient.WithStore(s))
	defer c.Close()
	if has, err := s.Has(); err != nil {
		return err
	} else if has {
		return errAlreadyInitialized
	}

	vkJSON, err := json.MarshalIndent(vk, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(cfg.VerifyingKeyPath(), vkJSON, 0o644); err != nil {
		return err
	}

	tx.Caller = g.Owner
	if err := c.Initialize(tx, state, stake, r.History.RetentionPeriod, g.Owner); err != nil {
		return err
	}
	if r.Upgrades.Epochs {
		if err := c.InitializeV2(tx, r.Epochs.BlocksPerEpoch); err != nil {
			return err
		}
	}
	if g.PermissionedProver != nil {
		if err := c.SetPermissionedProver(tx, *g.PermissionedProver); err != nil {
			return err
		}
	}
	log.WithFields(logrus.Fields{
		"network": r.Name,
		"vk":      vk.Digest().Hex(),
		"datadir": cfg.Node.DataDir,
	}).Info("Light client initialized")
	return printState(ctx, c)
}

func submitAction(ctx *cli.Context) error {
	path := ctx.String("update")
	if path == "" {
		return errors.New("--update is required")
	}
	return withContract(ctx, func(cfg Config, c *lightclient.Contract) error {
		tx, err := txContext(ctx)
		if err != nil {
			return err
		}
		u, err := readUpdate(path)
		if err != nil {
			return err
		}
		sub, err := u.Submission()
		if err != nil {
			return err
		}
		input, err := lcprecompile.EncodeSubmission(sub)
		if err != nil {
			return err
		}
		_, gasLeft, err := lcprecompile.Run(c, tx, input, lcprecompile.SubmitGas)
		if err != nil {
			return err
		}
		log.WithField("gasUsed", lcprecompile.SubmitGas-gasLeft).Debug("Submission executed")
		return printState(ctx, c)
	})
}

// prover is a backend able to produce proofs, which only development
// backends are.
type prover interface {
	Prove(vk *verifier.VerifyingKey, inputs verifier.PublicInput) verifier.Proof
}

func proveAction(ctx *cli.Context) error {
	path := ctx.String("update")
	if path == "" {
		return errors.New("--update is required")
	}
	out := ctx.String("out")
	if out == "" {
		out = path
	}
	return withContract(ctx, func(cfg Config, c *lightclient.Contract) error {
		backend, err := verifier.NewRegistry().Get(cfg.Verifier.Backend)
		if err != nil {
			return err
		}
		p, ok := backend.(prover)
		if !ok {
			return fmt.Errorf("verifier %q cannot produce proofs", cfg.Verifier.Backend)
		}
		vk, err := verifier.LoadVerifyingKey(cfg.VerifyingKeyPath())
		if err != nil {
			return err
		}
		u, err := readUpdate(path)
		if err != nil {
			return err
		}
		sub, err := u.Submission()
		if err != nil {
			return err
		}
		inputs := verifier.NewPublicInput(c.FinalizedState(), sub.State, c.VotingStakeTableState(), sub.NextStakeTable)
		u.Proof = hexutil.Bytes(p.Prove(vk, inputs))
		return writeUpdate(out, u)
	})
}

func stateAction(ctx *cli.Context) error {
	return withContract(ctx, func(_ Config, c *lightclient.Contract) error {
		return printState(ctx, c)
	})
}

func printState(ctx *cli.Context, c *lightclient.Contract) error {
	st := c.State()
	v := c.Version()
	w := ctx.App.Writer
	fmt.Fprintf(w, "version:     %d.%d.%d\n", v.Major, v.Minor, v.Patch)
	fmt.Fprintf(w, "owner:       %s\n", st.Owner.Hex())
	fmt.Fprintf(w, "finalized:   %s\n", st.Finalized)
	fmt.Fprintf(w, "genesis:     %s\n", st.Genesis)
	fmt.Fprintf(w, "voting:      %s\n", st.Voting)
	if st.EpochsEnabled {
		epoch := c.CurrentEpoch()
		fmt.Fprintf(w, "epoch:       %d (blocks %d-%d, %d per epoch)\n", epoch,
			epochs.FirstBlock(epoch, st.BlocksPerEpoch), epochs.LastBlock(epoch, st.BlocksPerEpoch), st.BlocksPerEpoch)
	}
	if st.Permission.IsEnabled() {
		fmt.Fprintf(w, "prover:      %s\n", st.Permission.Prover.Hex())
	}
	fmt.Fprintf(w, "retention:   %ds\n", st.RetentionPeriod)
	fmt.Fprintf(w, "history:     %d entries from index %d\n", c.GetStateHistoryCount(), c.StateHistoryFirstIndex())
	return nil
}

func uintArg(ctx *cli.Context, i int, name string) (uint64, error) {
	if ctx.NArg() <= i {
		return 0, fmt.Errorf("missing <%s>", name)
	}
	v, err := strconv.ParseUint(ctx.Args().Get(i), 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid <%s>: %w", name, err)
	}
	return v, nil
}

func commitmentAction(ctx *cli.Context) error {
	height, err := uintArg(ctx, 0, "height")
	if err != nil {
		return err
	}
	return withContract(ctx, func(_ Config, c *lightclient.Contract) error {
		root, at, err := c.GetHotShotCommitment(height)
		if err != nil {
			return err
		}
		fmt.Fprintf(ctx.App.Writer, "height: %d\nroot:   %s\n", at, inter.ScalarHex(root))
		return nil
	})
}

func lagAction(ctx *cli.Context) error {
	block, err := uintArg(ctx, 0, "l1 block")
	if err != nil {
		return err
	}
	threshold, err := uintArg(ctx, 1, "threshold")
	if err != nil {
		return err
	}
	return withContract(ctx, func(_ Config, c *lightclient.Contract) error {
		lagging, err := c.LagOverEscapeHatchThreshold(idx.Block(block), threshold)
		if err != nil {
			return err
		}
		fmt.Fprintln(ctx.App.Writer, lagging)
		return nil
	})
}

func retentionAction(ctx *cli.Context) error {
	seconds, err := uintArg(ctx, 0, "seconds")
	if err != nil {
		return err
	}
	if seconds > uint64(lightclient.MaxRetentionPeriod) {
		return fmt.Errorf("%w: retention %d", lightclient.ErrInvalidMaxStateHistory, seconds)
	}
	return adminAction(ctx, func(c *lightclient.Contract, tx lightclient.TxContext) error {
		return c.SetStateHistoryRetentionPeriod(tx, uint32(seconds))
	})
}

func addressArg(ctx *cli.Context) (common.Address, error) {
	if ctx.NArg() == 0 {
		return common.Address{}, errors.New("missing <address>")
	}
	return parseAddress(ctx.Args().First())
}

func proverSetAction(ctx *cli.Context) error {
	prover, err := addressArg(ctx)
	if err != nil {
		return err
	}
	return adminAction(ctx, func(c *lightclient.Contract, tx lightclient.TxContext) error {
		return c.SetPermissionedProver(tx, prover)
	})
}

func proverDisableAction(ctx *cli.Context) error {
	return adminAction(ctx, func(c *lightclient.Contract, tx lightclient.TxContext) error {
		return c.DisablePermissionedProverMode(tx)
	})
}

func ownerTransferAction(ctx *cli.Context) error {
	owner, err := addressArg(ctx)
	if err != nil {
		return err
	}
	return adminAction(ctx, func(c *lightclient.Contract, tx lightclient.TxContext) error {
		return c.TransferOwnership(tx, owner)
	})
}

func ownerRenounceAction(ctx *cli.Context) error {
	return adminAction(ctx, func(c *lightclient.Contract, tx lightclient.TxContext) error {
		return c.RenounceOwnership(tx)
	})
}

func adminAction(ctx *cli.Context, fn func(c *lightclient.Contract, tx lightclient.TxContext) error) error {
	return withContract(ctx, func(_ Config, c *lightclient.Contract) error {
		tx, err := txContext(ctx)
		if err != nil {
			return err
		}
		if err := fn(c, tx); err != nil {
			return err
		}
		return printState(ctx, c)
	})
}
