// Package cli implements the debugwire command line.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/saker-ai/debugwire/internal/config"
	"github.com/saker-ai/debugwire/internal/logger"
)

var (
	// Version information - set by main
	Version   = "dev"
	BuildTime = "unknown"
	Commit    = "none"
)

// SetVersionInfo records build metadata for the version command.
func SetVersionInfo(version, buildTime, commit string) {
	Version = version
	BuildTime = buildTime
	Commit = commit
}

// app is the state shared by subcommands once the root has run.
type app struct {
	configPath string
	logLevel   string

	cfg    config.Config
	logger *zap.Logger
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "debugwire",
		Short: "Render debugger wire commands",
		Long: `debugwire builds the commands a debuggee sends to a remote debugging client.

The render command plays a YAML scenario of paused threads and debugger events
and prints every command in its wire line form.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default is ./debugwire.yaml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override log.level")

	root.AddCommand(
		newRenderCmd(a),
		newKindsCmd(),
		newVersionCmd(a),
	)
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(a.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if level := strings.TrimSpace(a.logLevel); level != "" {
		cfg.Log.Level = level
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	a.cfg = cfg
	a.logger = log
	a.logger.Debug("configuration loaded",
		zap.String("root_dir", cfg.RootDir),
		zap.Int("trace_level", cfg.Debug.TraceLevel),
		zap.Int("max_io_msg_size", cfg.Protocol.MaxIOMessageSize))
	return nil
}
