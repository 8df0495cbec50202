package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"word-styler/internal/classify"
	"word-styler/internal/config"
	"word-styler/internal/docx"
	"word-styler/internal/extract"
	"word-styler/internal/logging"
	"word-styler/internal/output"
	"word-styler/internal/reconcile"
	"word-styler/internal/sanitize"
	"word-styler/internal/split"
)

// DocumentResult describes the processing of one input document.
type DocumentResult struct {
	Input      string
	Book       string
	OutputDir  string
	ZipPath    string
	Files      []output.SavedFile
	Stats      classify.Stats
	Styles     reconcile.StyleReport
	Styled     int
	Removed    int
	Sanitized  int
	Parts      int
	DurationMS int64
	Err        *StageError
}

func (d DocumentResult) OK() bool { return d.Err == nil }

type pipeline struct {
	cfg      *config.Config
	provider config.ProviderConfig
	tax      config.Taxonomy
	gen      classify.Generator
	apiKey   string
	outDir   string
	now      func() time.Time
	logger   *logging.Logger
}

func (p *pipeline) process(ctx context.Context, input, book string) DocumentResult {
	start := time.Now()
	res := DocumentResult{Input: input, Book: book}
	if err := p.run(ctx, &res); err != nil {
		var se *StageError
		if !errors.As(err, &se) {
			se = stageFailure("", err)
		}
		res.Err = se
		p.logger.Emit(logging.Event{Event: "stage_failed", Level: "error", Input: input, Stage: string(se.Stage), Error: se.Err.Error()})
	}
	res.DurationMS = time.Since(start).Milliseconds()
	return res
}

func (p *pipeline) run(ctx context.Context, res *DocumentResult) error {
	input := res.Input
	doc, err := docx.Open(input)
	if err != nil {
		return stageFailure(StageReading, err)
	}
	info := doc.Info()
	p.logger.Emit(logging.Event{Event: "document_opened", Input: input, Count: info.Paragraphs, Total: info.Tables})

	ex := extract.Extract(doc)
	p.logger.Emit(logging.Event{Event: "extract_done", Input: input, Count: ex.SplitCount, Total: len(ex.Elements)})
	if len(ex.Elements) == 0 {
		return stageFailure(StageReading, ErrNoElements)
	}

	cls, err := classify.Classify(ctx, p.gen, ex.Elements, p.tax, classify.Options{
		Provider:    p.cfg.Provider,
		BaseURL:     p.provider.BaseURL,
		Model:       p.provider.Model,
		APIKey:      p.apiKey,
		Temperature: p.provider.Temperature,
		MaxTokens:   p.provider.MaxTokens,
		Concurrency: p.cfg.Concurrency,
		Timeout:     time.Duration(p.cfg.RequestTimeoutSec) * time.Second,
		RateLimit:   p.cfg.RateLimitRPS,
		Pricing:     p.cfg.Pricing,
		Input:       input,
		Logger:      p.logger,
	})
	res.Stats = cls.Stats
	if err != nil {
		return stageFailure(StageAIProcessing, err)
	}

	rec := &reconcile.Reconciler{Doc: doc, Tax: p.tax, Input: input, Logger: p.logger}
	res.Styles, _ = rec.MaterializeStyles()
	if res.Styles.Created+res.Styles.Updated == 0 {
		return stageFailure(StageStyling, fmt.Errorf("nenhum estilo pôde ser criado (%d falhas)", res.Styles.Failed))
	}
	res.Styled = rec.Apply(cls.Elements).Styled

	removed := reconcile.Removed{}
	if *p.cfg.Pipeline.Remove {
		removed = rec.Remove(cls.Elements)
		res.Removed = removed.Count()
	}

	var parts []split.Part
	if p.cfg.Pipeline.Split {
		s := &split.Splitter{Tax: p.tax, Input: input, Logger: p.logger}
		parts, err = s.Split(doc, split.ParagraphMarkers(cls.Elements, removed.Paragraphs))
		if err != nil {
			return stageFailure(StageSplitting, err)
		}
		res.Parts = len(parts)
	}

	if *p.cfg.Pipeline.Sanitize {
		rep := sanitize.Document(doc)
		res.Sanitized = rep.Changed()
		for _, part := range parts {
			sanitize.Document(part.Doc)
		}
		p.logger.Emit(logging.Event{Event: "sanitize_done", Input: input, Count: res.Sanitized, Total: rep.Runs})
	}

	return p.save(doc, parts, res)
}

func (p *pipeline) save(doc *docx.Document, parts []split.Part, res *DocumentResult) error {
	layout, err := output.NewLayout(p.outDir, res.Book, p.now(), nil)
	if err != nil {
		return stageFailure(StageSaving, err)
	}
	res.OutputDir = layout.Dir

	write := func(name string, d output.Document) error {
		f, err := layout.Save(name, d)
		if err != nil {
			p.logger.Emit(logging.Event{Event: "write_failed", Level: "error", Input: res.Input, OutputFile: name, Error: err.Error()})
			return stageFailure(StageSaving, err)
		}
		res.Files = append(res.Files, f)
		p.logger.Emit(logging.Event{Event: "write_ok", Input: res.Input, OutputFile: f.Path})
		return nil
	}
	if err := write("completo", doc); err != nil {
		return err
	}
	for _, part := range parts {
		if err := write(part.Name, part.Doc); err != nil {
			return err
		}
	}

	if *p.cfg.Output.Zip {
		zipPath, err := layout.Zip()
		if err != nil {
			return stageFailure(StageSaving, err)
		}
		res.ZipPath = zipPath
		p.logger.Emit(logging.Event{Event: "write_ok", Input: res.Input, OutputFile: zipPath})
	}
	return nil
}
