package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/KuaaMU/codesage/pkg/config"
)

const redactedKey = "***"

type configExecutor func(configPath string, stdout io.Writer) error

// NewConfigCommand creates the config command.
func NewConfigCommand() *cobra.Command {
	return newConfigCommandWithDeps(runConfig)
}

func newConfigCommandWithDeps(exec configExecutor) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Print the effective configuration as YAML after merging defaults,
the config file and CODESAGE_* environment variables. The API key is
redacted.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			return exec(configPath, cobraCmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Config file path")

	return cmd
}

func runConfig(configPath string, stdout io.Writer) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.AI.APIKey != "" {
		cfg.AI.APIKey = redactedKey
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	_, err = stdout.Write(data)

	return err
}
