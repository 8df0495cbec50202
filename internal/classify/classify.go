package classify

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"word-styler/internal/config"
	"word-styler/internal/extract"
	"word-styler/internal/llm"
	"word-styler/internal/logging"
	"word-styler/internal/outcome"
)

var ErrNoElementsMarked = errors.New("nenhum elemento foi marcado pela IA")

const progressEvery = 50

// Generator is the classification endpoint.
type Generator interface {
	Generate(ctx context.Context, req llm.Request) (llm.Response, error)
}

type Options struct {
	Provider    string
	BaseURL     string
	Model       string
	APIKey      string
	Temperature float64
	MaxTokens   int
	Concurrency int
	Timeout     time.Duration
	// RateLimit caps request starts per second; zero disables pacing.
	RateLimit float64
	Pricing   config.PricingConfig
	Input     string
	Logger    *logging.Logger
}

type Stats struct {
	TotalParagraphs  int     `json:"total_paragraphs"`
	Marked           int     `json:"marked"`
	Unmarked         int     `json:"unmarked"`
	APICalls         int     `json:"api_calls"`
	EstimatedCostUSD float64 `json:"estimated_cost_usd"`
	PromptTokens     int64   `json:"prompt_tokens"`
	CompletionTokens int64   `json:"completion_tokens"`
	Failed           int     `json:"failed"`
	Degraded         int     `json:"degraded"`
}

type Result struct {
	Elements []extract.Element
	Stats    Stats
}

type callResult struct {
	element extract.Element
	usage   *llm.Usage
	failed  bool
}

func (o *Options) normalize() {
	if o.Concurrency <= 0 {
		o.Concurrency = 20
	}
	if o.Timeout <= 0 {
		o.Timeout = 45 * time.Second
	}
	if o.MaxTokens <= 0 {
		o.MaxTokens = 50
	}
	if o.Pricing.InputPerMillion <= 0 {
		o.Pricing.InputPerMillion = 2
	}
	if o.Pricing.OutputPerMillion <= 0 {
		o.Pricing.OutputPerMillion = 8
	}
}

// Classify sends one request per element with at most opts.Concurrency in
// flight and returns the elements, in their original order, with markers
// filled in. Failed calls leave the element unmarked. Once dispatched, calls
// are not cancelled by ctx.
func Classify(ctx context.Context, gen Generator, elements []extract.Element, tax config.Taxonomy, opts Options) (Result, error) {
	opts.normalize()
	total := len(elements)
	known := tax.Markers()
	system := systemPrompt(tax)
	log := opts.Logger
	log.Emit(logging.Event{Event: "classify_start", Input: opts.Input, Provider: opts.Provider, Model: opts.Model, Total: total})

	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		burst := int(opts.RateLimit)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}

	dispatchCtx := context.WithoutCancel(ctx)
	slots := make([]outcome.Outcome[callResult], total)
	var done atomic.Int64
	start := time.Now()

	var g errgroup.Group
	g.SetLimit(opts.Concurrency)
	for i := range elements {
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					slots[i] = outcome.Degrade(callResult{element: elements[i]}, fmt.Sprintf("panic: %v", r))
				}
				if n := done.Add(1); n%progressEvery == 0 || int(n) == total {
					log.Emit(logging.Event{Event: "classify_progress", Input: opts.Input, Count: int(n), Total: total})
				}
			}()
			if limiter != nil {
				_ = limiter.Wait(dispatchCtx)
			}
			slots[i] = outcome.OK(classifyOne(dispatchCtx, gen, elements, i, system, known, opts))
			return nil
		})
	}
	_ = g.Wait()

	res := Result{Elements: make([]extract.Element, total)}
	var usages []*llm.Usage
	for i, slot := range slots {
		cr := slot.Value
		if slot.Status == outcome.Degraded {
			res.Stats.Degraded++
			log.Emit(logging.Event{Event: "classify_degraded", Level: "warn", Input: opts.Input, Element: i, Error: slot.Reason})
		}
		if cr.failed {
			res.Stats.Failed++
		}
		res.Elements[i] = cr.element
		usages = append(usages, cr.usage)
	}
	res.Stats = summarize(res.Elements, usages, opts.Pricing, res.Stats)

	log.Emit(logging.Event{
		Event:     "classify_done",
		Input:     opts.Input,
		Count:     res.Stats.Marked,
		Total:     total,
		CostUSD:   res.Stats.EstimatedCostUSD,
		LatencyMS: time.Since(start).Milliseconds(),
	})
	if res.Stats.Marked == 0 {
		return res, ErrNoElementsMarked
	}
	return res, nil
}

func classifyOne(ctx context.Context, gen Generator, elements []extract.Element, i int, system string, known map[string]struct{}, opts Options) callResult {
	el := elements[i]
	el.Markers = nil
	resp, err := gen.Generate(ctx, llm.Request{
		Provider:     opts.Provider,
		BaseURL:      opts.BaseURL,
		Model:        opts.Model,
		APIKey:       opts.APIKey,
		SystemPrompt: system,
		UserPrompt:   userPrompt(elements, i),
		Temperature:  opts.Temperature,
		MaxTokens:    opts.MaxTokens,
		Timeout:      opts.Timeout,
	})
	if err != nil {
		opts.Logger.Emit(logging.Event{Event: "classify_call_failed", Level: "debug", Input: opts.Input, Element: i, Error: err.Error()})
		return callResult{element: el, failed: true}
	}
	if m := normalizeAnswer(resp.Text, known); m != NoneMarker {
		el.Markers = []string{m}
	}
	return callResult{element: el, usage: resp.Usage}
}

func summarize(elements []extract.Element, usages []*llm.Usage, pricing config.PricingConfig, s Stats) Stats {
	s.TotalParagraphs = len(elements)
	s.APICalls = len(elements)
	for _, el := range elements {
		if len(el.Markers) > 0 {
			s.Marked++
		}
	}
	s.Unmarked = s.TotalParagraphs - s.Marked
	for _, u := range usages {
		if u == nil {
			continue
		}
		s.PromptTokens += u.PromptTokens
		s.CompletionTokens += u.CompletionTokens
	}
	s.EstimatedCostUSD = Cost(s.PromptTokens, s.CompletionTokens, pricing)
	return s
}

// Cost prices token usage in USD.
func Cost(promptTokens, completionTokens int64, pricing config.PricingConfig) float64 {
	return float64(promptTokens)/1e6*pricing.InputPerMillion + float64(completionTokens)/1e6*pricing.OutputPerMillion
}
