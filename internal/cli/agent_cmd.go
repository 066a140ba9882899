package cli

import (
	"encoding/json"
	"fmt"

	"github.com/soyeahso/basicagent/internal/agent"
	"github.com/soyeahso/basicagent/internal/domain"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newAgentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agent",
		Short: "Inspect the agent descriptor",
	}

	cmd.AddCommand(newAgentShowCmd())
	return cmd
}

func newAgentShowCmd() *cobra.Command {
	var (
		format  string
		builtin bool
		prompt  bool
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the agent's name, model, description and instruction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := agent.Resolve(cfg.Agent)
			if builtin {
				a = agent.Root()
			}

			out := cmd.OutOrStdout()
			if prompt {
				fmt.Fprint(out, agent.BuildSystemPrompt(a))
				return nil
			}

			data, err := encodeAgent(a, format)
			if err != nil {
				return err
			}
			fmt.Fprint(out, string(data))
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "o", "yaml", "output format (yaml, json)")
	cmd.Flags().BoolVar(&builtin, "builtin", false, "show the built-in descriptor, ignoring config overrides")
	cmd.Flags().BoolVar(&prompt, "prompt", false, "print the system prompt sent to the model")

	return cmd
}

func encodeAgent(a domain.Agent, format string) ([]byte, error) {
	switch format {
	case "yaml", "":
		return yaml.Marshal(a)
	case "json":
		data, err := json.MarshalIndent(a, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	default:
		return nil, fmt.Errorf("unknown format %q (want yaml or json)", format)
	}
}
