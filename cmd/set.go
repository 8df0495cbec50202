package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"word-styler/internal/config"
)

func newSetCmd(flags *styleFlags) *cobra.Command {
	setCmd := &cobra.Command{
		Use:           "set",
		Short:         "Altera a configuração local",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	setCmd.AddCommand(&cobra.Command{
		Use:           "key <api_key>",
		Short:         "Grava a API key do provedor em ~/.word-styler/.env",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			key := strings.TrimSpace(args[0])
			if key == "" {
				return fmt.Errorf("API key vazia")
			}
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("falha ao ler diretório atual: %w", err)
			}
			cfg, paths, err := config.Load(flags.configArg, cwd)
			if err != nil {
				return err
			}
			keyName := cfg.APIKeyEnv
			if p := strings.TrimSpace(flags.providerArg); p != "" {
				keyName = config.DefaultKeyEnv(p)
			}
			return config.UpsertEnvVar(paths.EnvPath, keyName, key)
		},
	})
	return setCmd
}
