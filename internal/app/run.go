package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"word-styler/internal/classify"
	"word-styler/internal/config"
	"word-styler/internal/discovery"
	"word-styler/internal/llm"
	"word-styler/internal/logging"
	"word-styler/internal/output"
)

type Options struct {
	Inputs       []string
	ConfigPath   string
	TaxonomyPath string
	OutputDir    string
	Book         string
	Concurrency  int
	Provider     string
	Model        string
	APIKey       string
	LogFile      string
	JSON         bool
	Verbose      bool
	Split        bool
	NoRemove     bool
	NoSanitize   bool
	NoZip        bool
	CWD          string
	Stdout       io.Writer
	// Generator replaces the HTTP/SDK client; an API key is then optional.
	Generator classify.Generator
	Now       func() time.Time
}

type Result struct {
	Succeeded int
	Failed    int
	ElapsedMS int64
	Documents []DocumentResult
}

func Run(ctx context.Context, opts Options) (Result, error) {
	start := time.Now()
	cwd := strings.TrimSpace(opts.CWD)
	if cwd == "" {
		wd, err := os.Getwd()
		if err != nil {
			return Result{}, fmt.Errorf("falha ao ler diretório atual: %w", err)
		}
		cwd = wd
	}
	if opts.Stdout == nil {
		opts.Stdout = io.Discard
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	cfg, paths, err := config.Load(opts.ConfigPath, cwd)
	if err != nil {
		return Result{}, err
	}
	overrideConfig(cfg, opts)

	providerCfg, ok := cfg.Providers[cfg.Provider]
	if !ok {
		return Result{}, fmt.Errorf("provedor não configurado: %s", cfg.Provider)
	}
	if m := strings.TrimSpace(opts.Model); m != "" {
		providerCfg.Model = m
	}

	taxPath := paths.ResolvedTaxonomy
	if strings.TrimSpace(opts.TaxonomyPath) != "" {
		taxPath = absPath(cwd, opts.TaxonomyPath)
	}
	tax, err := config.LoadTaxonomy(taxPath)
	if err != nil {
		return Result{}, err
	}

	gen := opts.Generator
	apiKey, keyErr := resolveAPIKey(paths, cfg, opts.APIKey)
	if gen == nil {
		if keyErr != nil {
			return Result{}, keyErr
		}
		gen = llm.NewClient(time.Duration(cfg.RequestTimeoutSec) * time.Second)
	}

	logger, closer, err := logging.New(opts.Stdout, opts.LogFile, opts.JSON, opts.Verbose)
	if err != nil {
		return Result{}, fmt.Errorf("falha ao iniciar log: %w", err)
	}
	if closer != nil {
		defer closer.Close()
	}
	logger.Emit(logging.Event{Event: "startup", Provider: cfg.Provider, Model: providerCfg.Model})
	logger.Emit(logging.Event{Event: "config_loaded", OutputFile: paths.ConfigSource})

	inputPaths := make([]string, 0, len(opts.Inputs))
	for _, in := range opts.Inputs {
		inputPaths = append(inputPaths, absPath(cwd, in))
	}
	found, err := discovery.Discover(inputPaths)
	if err != nil {
		return Result{}, err
	}
	for _, w := range found.Warnings {
		logger.Emit(logging.Event{Level: "warn", Event: "scan_warning", Error: w})
	}

	outDir := absPath(cwd, cfg.Output.Dir)
	if err := output.EnsureDir(outDir); err != nil {
		return Result{}, fmt.Errorf("falha ao criar diretório de saída: %w", err)
	}

	store := openHistory(ctx, cfg.History.DSN, logger)
	defer store.Close()

	p := &pipeline{
		cfg:      cfg,
		provider: providerCfg,
		tax:      tax,
		gen:      gen,
		apiKey:   apiKey,
		outDir:   outDir,
		now:      opts.Now,
		logger:   logger,
	}

	result := Result{}
	for _, file := range found.Files {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		doc := p.process(ctx, file, bookName(opts.Book, file, len(found.Files)))
		if doc.OK() {
			result.Succeeded++
		} else {
			result.Failed++
		}
		result.Documents = append(result.Documents, doc)
		recordHistory(ctx, store, historyRun(doc, cfg.Provider, providerCfg.Model), logger)
	}
	result.ElapsedMS = time.Since(start).Milliseconds()
	logger.Emit(logging.Event{Event: "finished", Count: result.Succeeded, Total: len(found.Files), LatencyMS: result.ElapsedMS})
	return result, nil
}

// bookName is --book when given, else the file stem. With several inputs the
// stem is appended so output folders do not collide.
func bookName(book, file string, inputs int) string {
	stem := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	book = strings.TrimSpace(book)
	switch {
	case book == "":
		return stem
	case inputs > 1:
		return book + "_" + stem
	}
	return book
}

func overrideConfig(cfg *config.Config, opts Options) {
	if strings.TrimSpace(opts.OutputDir) != "" {
		cfg.Output.Dir = opts.OutputDir
	}
	if opts.Concurrency > 0 {
		cfg.Concurrency = opts.Concurrency
	}
	if p := strings.ToLower(strings.TrimSpace(opts.Provider)); p != "" && p != cfg.Provider {
		cfg.Provider = p
		cfg.APIKeyEnv = config.DefaultKeyEnv(p)
	}
	if opts.Split {
		cfg.Pipeline.Split = true
	}
	if opts.NoRemove {
		cfg.Pipeline.Remove = new(bool)
	}
	if opts.NoSanitize {
		cfg.Pipeline.Sanitize = new(bool)
	}
	if opts.NoZip {
		cfg.Output.Zip = new(bool)
	}
}

func absPath(cwd, p string) string {
	if filepath.IsAbs(p) || strings.TrimSpace(p) == "" {
		return p
	}
	return filepath.Join(cwd, p)
}
