package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"word-styler/internal/config"
	"word-styler/internal/history"
)

func newHistoryCmd(stdout io.Writer, flags *styleFlags) *cobra.Command {
	limit := 20
	c := &cobra.Command{
		Use:           "history",
		Short:         "Lista as últimas execuções registradas",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("falha ao ler diretório atual: %w", err)
			}
			cfg, _, err := config.Load(flags.configArg, cwd)
			if err != nil {
				return err
			}
			store, err := history.Open(cfg.History.DSN)
			if errors.Is(err, history.ErrDisabled) {
				return fmt.Errorf("%w: configure history.dsn no arquivo de configuração", err)
			}
			if err != nil {
				return err
			}
			defer store.Close()
			runs, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("falha ao consultar histórico: %w", err)
			}
			if flags.jsonArg {
				enc := json.NewEncoder(stdout)
				for _, r := range runs {
					if err := enc.Encode(r); err != nil {
						return err
					}
				}
				return nil
			}
			fmt.Fprint(stdout, renderHistory(runs))
			return nil
		},
	}
	c.Flags().IntVar(&limit, "limit", limit, "quantidade de execuções")
	return c
}
