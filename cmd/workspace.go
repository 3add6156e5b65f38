package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/tristendillon/injscope/core/config"
	"github.com/tristendillon/injscope/core/identity"
	"github.com/tristendillon/injscope/core/inspector"
	"github.com/tristendillon/injscope/core/render"
	"github.com/tristendillon/injscope/core/snapshot"
)

// workspace is everything a command needs to answer a query.
type workspace struct {
	config    *config.Config
	snapshot  *snapshot.Snapshot
	inspector *inspector.Inspector
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	flags := cmd.Flags()
	if flags.Changed("snapshot") {
		cfg.Snapshot = snapshotPath
	}
	if flags.Changed("output") {
		cfg.Output.Format = outputFormat
	}
	if flags.Changed("ids") {
		cfg.IDs.Strategy = idStrategy
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadWorkspace(cmd *cobra.Command) (*workspace, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	snap, err := snapshot.Load(cfg.Snapshot)
	if err != nil {
		return nil, err
	}
	return newWorkspace(cfg, snap), nil
}

func newWorkspace(cfg *config.Config, snap *snapshot.Snapshot) *workspace {
	session := identity.NewSession(idGenerator(cfg.IDs.Strategy))
	return &workspace{
		config:    cfg,
		snapshot:  snap,
		inspector: inspector.New(snap, session),
	}
}

func idGenerator(strategy string) identity.IDGenerator {
	switch strategy {
	case config.StrategyUUID:
		return identity.UUIDGenerator()
	case config.StrategySequential:
		return identity.SequentialGenerator("inj")
	default:
		return identity.StableGenerator()
	}
}

// emit renders v as text with the given func, or encodes it as json or yaml.
func (ws *workspace) emit(w io.Writer, v interface{}, text func(io.Writer) error) error {
	if ws.config.Output.Format == config.FormatText {
		return text(w)
	}
	return render.Encode(w, ws.config.Output.Format, v)
}
