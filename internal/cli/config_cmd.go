package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/soyeahso/basicagent/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Get or set configuration values",
		Long: "Read and edit the YAML config file by dotted key, e.g. " +
			"`basicagent config set agent.model gemini-2.5-pro`.",
	}

	cmd.AddCommand(newConfigGetCmd())
	cmd.AddCommand(newConfigSetCmd())
	cmd.AddCommand(newConfigUnsetCmd())
	cmd.AddCommand(newConfigPathCmd())

	return cmd
}

// loadKey parses a dotted key and loads the raw config file.
func loadKey(key string) ([]string, map[string]any, error) {
	path, err := config.ParseConfigPath(key)
	if err != nil {
		return nil, nil, err
	}
	raw, err := config.LoadRaw(paths.Config)
	if err != nil {
		return nil, nil, err
	}
	return path, raw, nil
}

// checkKey rejects edits that leave the value at key invalid. Problems
// elsewhere in the file are left to `status`.
func checkKey(raw map[string]any, key string) error {
	cfg, err := config.FromRaw(raw)
	if err != nil {
		return err
	}
	for _, issue := range config.Validate(&cfg) {
		if issue.Path == key || strings.HasPrefix(issue.Path, key+".") || strings.HasPrefix(issue.Path, key+"[") {
			return fmt.Errorf("invalid value: %s", issue)
		}
	}
	return nil
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, raw, err := loadKey(args[0])
			if err != nil {
				return err
			}

			val, ok := config.GetValueAtPath(raw, path)
			if !ok {
				return fmt.Errorf("key %q not found", args[0])
			}
			return printValue(cmd.OutOrStdout(), val)
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			path, raw, err := loadKey(key)
			if err != nil {
				return err
			}

			value := parseValue(args[1])
			config.SetValueAtPath(raw, path, value)
			if err := checkKey(raw, key); err != nil {
				return err
			}

			if err := config.SaveRaw(paths.Config, raw); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %v\n", key, value)
			return nil
		},
	}
}

func newConfigUnsetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unset <key>",
		Short: "Remove a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, raw, err := loadKey(args[0])
			if err != nil {
				return err
			}

			if !config.UnsetValueAtPath(raw, path) {
				return fmt.Errorf("key %q not found", args[0])
			}
			if err := config.SaveRaw(paths.Config, raw); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Unset %s\n", args[0])
			return nil
		},
	}
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), paths.Config)
		},
	}
}

// printValue writes scalars on one line and maps or lists as YAML.
func printValue(w io.Writer, v any) error {
	switch v.(type) {
	case map[string]any, []any:
		data, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	default:
		_, err := fmt.Fprintln(w, v)
		return err
	}
}

// parseValue reads s as a bool, int or float where it is one, else a string.
func parseValue(s string) any {
	if b, err := strconv.ParseBool(s); err == nil && (strings.EqualFold(s, "true") || strings.EqualFold(s, "false")) {
		return b
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}
