package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"word-styler/internal/app"
)

// ErrReported is returned when the failure was already shown to the user.
var ErrReported = errors.New("falhas já reportadas")

type styleFlags struct {
	configArg      string
	taxonomyArg    string
	outputDirArg   string
	bookArg        string
	concurrencyArg int
	providerArg    string
	modelArg       string
	logFileArg     string
	jsonArg        bool
	verboseArg     bool
	splitArg       bool
	noRemoveArg    bool
	noSanitizeArg  bool
	noZipArg       bool
}

func Execute() error {
	root := NewRootCmd(os.Stdout, os.Stderr)
	root.SetArgs(normalizeArgs(os.Args[1:]))
	return root.Execute()
}

func NewRootCmd(stdout, stderr io.Writer) *cobra.Command {
	flags := &styleFlags{}
	showVersion := false

	root := &cobra.Command{
		Use:           "word-styler [file_or_dir ...]",
		Short:         "Aplica estilos do Word a simulados .docx com ajuda de IA",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runStyle(stdout, flags, &showVersion),
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.CompletionOptions.HiddenDefaultCmd = true
	bindStyleFlags(root, flags)
	root.PersistentFlags().BoolVarP(&showVersion, "version", "v", false, "mostra a versão")

	root.AddCommand(&cobra.Command{
		Use:           "style [file_or_dir ...]",
		Short:         "Classifica, estiliza e empacota os documentos",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runStyle(stdout, flags, &showVersion),
	})
	root.AddCommand(&cobra.Command{
		Use:           "version",
		Short:         "Mostra a versão",
		SilenceUsage:  true,
		SilenceErrors: true,
		Run: func(cmd *cobra.Command, args []string) {
			printVersion(stdout)
		},
	})
	root.AddCommand(newSetCmd(flags))
	root.AddCommand(newHistoryCmd(stdout, flags))
	return root
}

func bindStyleFlags(cmd *cobra.Command, flags *styleFlags) {
	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.configArg, "config", "", "arquivo de configuração, padrão ~/.word-styler/config.yaml")
	pf.StringVar(&flags.taxonomyArg, "taxonomy", "", "arquivo de taxonomia (estilos e remoções)")
	pf.StringVarP(&flags.outputDirArg, "out", "o", "", "diretório de saída")
	pf.StringVar(&flags.bookArg, "book", "", "nome do livro usado nas pastas e arquivos")
	pf.IntVar(&flags.concurrencyArg, "concurrency", 0, "chamadas simultâneas à IA")
	pf.StringVar(&flags.providerArg, "provider", "", "provedor de IA: openai, deepseek, gemini ou claude")
	pf.StringVar(&flags.modelArg, "model", "", "modelo do provedor")
	pf.StringVar(&flags.logFileArg, "log-file", "", "arquivo de log NDJSON")
	pf.BoolVar(&flags.jsonArg, "json", false, "eventos NDJSON na saída padrão")
	pf.BoolVar(&flags.verboseArg, "verbose", false, "mostra eventos de depuração")
	pf.BoolVar(&flags.splitArg, "split", false, "gera questões e gabaritos por simulado")
	pf.BoolVar(&flags.noRemoveArg, "no-remove", false, "não remove capa e cartão resposta")
	pf.BoolVar(&flags.noSanitizeArg, "no-sanitize", false, "mantém a formatação manual dos trechos")
	pf.BoolVar(&flags.noZipArg, "no-zip", false, "não gera o arquivo zip")
}

func runStyle(stdout io.Writer, flags *styleFlags, showVersion *bool) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if showVersion != nil && *showVersion {
			printVersion(stdout)
			return nil
		}
		if len(args) == 0 {
			_ = cmd.Help()
			return nil
		}

		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("falha ao ler diretório atual: %w", err)
		}
		res, err := app.Run(cmd.Context(), app.Options{
			Inputs:       args,
			ConfigPath:   flags.configArg,
			TaxonomyPath: flags.taxonomyArg,
			OutputDir:    flags.outputDirArg,
			Book:         flags.bookArg,
			Concurrency:  flags.concurrencyArg,
			Provider:     flags.providerArg,
			Model:        flags.modelArg,
			LogFile:      flags.logFileArg,
			JSON:         flags.jsonArg,
			Verbose:      flags.verboseArg,
			Split:        flags.splitArg,
			NoRemove:     flags.noRemoveArg,
			NoSanitize:   flags.noSanitizeArg,
			NoZip:        flags.noZipArg,
			CWD:          cwd,
			Stdout:       stdout,
		})
		if err != nil {
			return err
		}
		if !flags.jsonArg {
			fmt.Fprintln(stdout, renderSummary(res))
		}
		if res.Failed > 0 {
			return ErrReported
		}
		return nil
	}
}

var valueFlags = map[string]bool{
	"--config": true, "--taxonomy": true, "--out": true, "-o": true, "--book": true,
	"--concurrency": true, "--provider": true, "--model": true, "--log-file": true,
}

// normalizeArgs routes bare paths to the style subcommand.
func normalizeArgs(args []string) []string {
	if len(args) == 0 {
		return args
	}
	switch args[0] {
	case "style", "help", "completion", "version", "set", "history":
		return args
	case "-h", "--help", "-v", "--version":
		return args
	}
	if !containsPositionalSource(args) {
		return args
	}
	return append([]string{"style"}, args...)
}

func containsPositionalSource(args []string) bool {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			return i+1 < len(args)
		}
		if valueFlags[arg] {
			i++
			continue
		}
		if strings.HasPrefix(arg, "-") {
			continue
		}
		return true
	}
	return false
}
