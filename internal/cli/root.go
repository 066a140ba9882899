package cli

import (
	"fmt"
	"os"

	"github.com/soyeahso/basicagent/internal/config"
	"github.com/soyeahso/basicagent/internal/logging"
	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	logLevel string

	// loaded at init time
	paths config.Paths
	cfg   config.Config
	log   *logging.Logger
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "basicagent",
		Short: "basicagent answers questions with a single LLM agent",
		Long: "basicagent hosts the basic_agent descriptor: a named agent with a model, " +
			"a description and an instruction prompt. Ask it a question from the command line.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			paths, err = config.ResolvePaths()
			if err != nil {
				return err
			}
			if cfgFile != "" {
				paths.Config = cfgFile
			}

			cfg, err = config.Load(paths.Config)
			log = logging.FromConfig(cfg.Logging, logLevel)
			if err != nil {
				// config subcommands must still work on a broken file
				log.Warn().Err(err).Str("path", paths.Config).Msg("failed to load config, using defaults")
				cfg = config.DefaultsWithEnv()
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.basicagent/config.yaml)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error, fatal, silent)")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newAskCmd())
	cmd.AddCommand(newAgentCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newHistoryCmd())
	cmd.AddCommand(newStatusCmd())

	return cmd
}

// Execute runs the root command.
func Execute() error {
	err := newRootCmd().Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}
