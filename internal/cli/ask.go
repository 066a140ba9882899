package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"strings"
	"syscall"

	"github.com/soyeahso/basicagent/internal/agent"
	"github.com/soyeahso/basicagent/internal/config"
	"github.com/soyeahso/basicagent/internal/domain"
	"github.com/soyeahso/basicagent/internal/hooks"
	"github.com/soyeahso/basicagent/internal/llm"
	"github.com/soyeahso/basicagent/internal/store"
	"github.com/spf13/cobra"
)

func newAskCmd() *cobra.Command {
	var (
		model     string
		stream    bool
		noHistory bool
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask the agent a question and print the answer",
		Long: "Ask the agent a question and print the answer. With no arguments the " +
			"question is read from standard input. Every question is answered on its own.",
		RunE: func(cmd *cobra.Command, args []string) error {
			question := strings.Join(args, " ")
			if len(args) == 0 {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("reading question: %w", err)
				}
				question = string(data)
			}
			if strings.TrimSpace(question) == "" {
				return agent.ErrEmptyQuestion
			}

			for _, issue := range config.Validate(&cfg) {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: config %s\n", issue)
			}

			desc := agent.Resolve(cfg.Agent)
			if model != "" {
				desc = desc.With(domain.WithModel(model))
			}

			registry, err := llm.NewRegistryFromConfig(cfg.Providers, log)
			if err != nil {
				return err
			}
			if len(registry.List()) == 0 {
				return errors.New("no model provider configured: set GOOGLE_API_KEY, providers.gemini.apiKey or providers.ollama.endpoint")
			}

			hookMgr := hooks.NewManager(log)
			hooks.RegisterConfig(hookMgr, cfg.Hooks)

			opts := []agent.RunnerOption{agent.WithHooks(hookMgr)}
			if cfg.History.IsEnabled() && !noHistory {
				db, err := store.Open(paths.HistoryPath(cfg.History), log)
				if err != nil {
					log.Warn().Err(err).Msg("history unavailable, answer will not be recorded")
				} else {
					defer db.Close()
					opts = append(opts, agent.WithRecorder(store.NewExchangeLog(db)))
				}
			}

			runner := agent.NewRunner(
				agent.RunnerConfig{
					Agent:       desc,
					Fallbacks:   cfg.Agent.Fallbacks,
					MaxTokens:   cfg.Agent.MaxTokens,
					Temperature: cfg.Agent.Temperature,
				},
				registry,
				log,
				opts...,
			)

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()

			var result *agent.Result
			if stream {
				result, err = runner.AskStream(ctx, question, func(evt llm.StreamEvent) {
					fmt.Fprint(out, evt.Content)
				})
				if err != nil {
					return err
				}
				fmt.Fprintln(out)
			} else {
				result, err = runner.Ask(ctx, question)
				if err != nil {
					return err
				}
				if asJSON {
					enc := json.NewEncoder(out)
					enc.SetIndent("", "  ")
					return enc.Encode(result)
				}
				fmt.Fprintln(out, result.Answer)
			}

			if result.Model != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "\n[model=%s tokens=%d+%d]\n",
					result.Model, result.Usage.InputTokens, result.Usage.OutputTokens)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&model, "model", "", "model identifier, overrides the agent's model")
	cmd.Flags().BoolVar(&stream, "stream", false, "stream the answer as it is generated")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "do not record this question")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	cmd.MarkFlagsMutuallyExclusive("stream", "json")

	return cmd
}
