package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/soyeahso/basicagent/internal/agent"
	"github.com/soyeahso/basicagent/internal/config"
	"github.com/soyeahso/basicagent/internal/llm"
	"github.com/soyeahso/basicagent/internal/store"
	"github.com/soyeahso/basicagent/internal/version"
	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show basicagent status and configuration summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "basicagent %s (commit %s)\n\n", version.Version, version.Commit)

			// Show paths
			fmt.Fprintf(out, "Config:  %s\n", paths.Config)
			fmt.Fprintf(out, "Data:    %s\n", paths.Data)
			if _, err := os.Stat(paths.Config); os.IsNotExist(err) {
				fmt.Fprintln(out, "         not found (using defaults)")
			}
			fmt.Fprintln(out)

			// Agent
			a := agent.Resolve(cfg.Agent)
			fmt.Fprintf(out, "Agent:   name=%s model=%s\n", a.Name, a.Model)
			if len(cfg.Agent.Fallbacks) > 0 {
				fmt.Fprintf(out, "         fallbacks=%s\n", strings.Join(cfg.Agent.Fallbacks, ","))
			}

			// LLM providers
			registry, err := llm.NewRegistryFromConfig(cfg.Providers, log)
			if err != nil {
				fmt.Fprintf(out, "LLM:     error: %v\n", err)
			} else if providers := registry.List(); len(providers) > 0 {
				fmt.Fprintf(out, "LLM:     %s\n", strings.Join(providers, ", "))
			} else {
				fmt.Fprintln(out, "LLM:     (none configured)")
			}

			// History
			if cfg.History.IsEnabled() {
				path := paths.HistoryPath(cfg.History)
				if db, err := store.Open(path, log); err != nil {
					fmt.Fprintf(out, "History: %s (error: %v)\n", path, err)
				} else {
					n, _ := store.NewExchangeLog(db).Count(cmd.Context())
					v, _ := db.SchemaVersion()
					db.Close()
					fmt.Fprintf(out, "History: %s (%d entries, schema v%d)\n", path, n, v)
				}
			} else {
				fmt.Fprintln(out, "History: disabled")
			}

			// Hooks
			h := cfg.Hooks
			if len(h.BeforeAsk)+len(h.AfterAsk)+len(h.AskFailed) > 0 {
				fmt.Fprintf(out, "Hooks:   beforeAsk=%d afterAsk=%d askFailed=%d\n",
					len(h.BeforeAsk), len(h.AfterAsk), len(h.AskFailed))
			}

			// Validation
			issues := config.Validate(&cfg)
			if len(issues) > 0 {
				fmt.Fprintf(out, "\nValidation issues (%d):\n", len(issues))
				for _, issue := range issues {
					fmt.Fprintf(out, "  - %s: %s\n", issue.Path, issue.Message)
				}
			}

			return nil
		},
	}

	return cmd
}
