// Package reconcile writes classification results back onto the source
// document: it materialises the taxonomy's styles, applies them to the
// paragraphs they were assigned to and excises removal ranges.
package reconcile

import (
	"errors"
	"strings"

	"word-styler/internal/config"
	"word-styler/internal/docx"
	"word-styler/internal/extract"
	"word-styler/internal/logging"
	"word-styler/internal/outcome"
)

type Reconciler struct {
	Doc    *docx.Document
	Tax    config.Taxonomy
	Input  string
	Logger *logging.Logger
}

type StyleReport struct {
	Created int
	Updated int
	Failed  int
}

// MaterializeStyles upserts one paragraph style per style rule. A rule with an
// invalid colour still gets its style, without colour.
func (r *Reconciler) MaterializeStyles() (StyleReport, []outcome.Outcome[string]) {
	var rep StyleReport
	results := make([]outcome.Outcome[string], 0, len(r.Tax.Styles))
	for _, rule := range r.Tax.Styles {
		def := docx.StyleDef{Name: rule.WordStyle, BasedOn: "Normal", Priority: 1, QuickStyle: true}
		reason := ""
		if c := strings.TrimSpace(rule.Color); c != "" {
			if config.ValidColor(c) {
				def.Color = strings.TrimPrefix(c, "#")
			} else {
				reason = "cor inválida: " + c
			}
		}
		created, err := r.Doc.UpsertParagraphStyle(def)
		if err != nil {
			rep.Failed++
			r.Logger.Emit(logging.Event{Event: "style_failed", Level: "warn", Input: r.Input, Style: rule.WordStyle, Error: err.Error()})
			results = append(results, outcome.Fail[string](err.Error()))
			continue
		}
		ev := "style_updated"
		if created {
			rep.Created++
			ev = "style_created"
		} else {
			rep.Updated++
		}
		r.Logger.Emit(logging.Event{Event: ev, Level: "debug", Input: r.Input, Style: rule.WordStyle})
		if reason != "" {
			r.Logger.Emit(logging.Event{Event: "style_failed", Level: "warn", Input: r.Input, Style: rule.WordStyle, Error: reason})
			results = append(results, outcome.Degrade(rule.WordStyle, reason))
			continue
		}
		results = append(results, outcome.OK(rule.WordStyle))
	}
	return rep, results
}

type ApplyReport struct {
	Styled    int
	Untouched int
	Missing   int
}

// Apply styles each source paragraph after the first of its elements that
// carries a style marker. Paragraphs with no usable marker keep their style.
func (r *Reconciler) Apply(elements []extract.Element) ApplyReport {
	var rep ApplyReport
	paragraphs := r.Doc.Paragraphs()
	for _, g := range groupByParagraph(elements) {
		if g.paragraph < 0 || g.paragraph >= len(paragraphs) {
			continue
		}
		rule, ok := r.firstStyleRule(g.elements)
		if !ok {
			rep.Untouched++
			continue
		}
		err := paragraphs[g.paragraph].SetStyle(rule.WordStyle)
		switch {
		case errors.Is(err, docx.ErrStyleNotFound):
			rep.Missing++
			r.Logger.Emit(logging.Event{Event: "style_missing", Level: "warn", Input: r.Input, Paragraph: g.paragraph, Style: rule.WordStyle, Error: err.Error()})
		case err != nil:
			rep.Missing++
			r.Logger.Emit(logging.Event{Event: "style_failed", Level: "warn", Input: r.Input, Paragraph: g.paragraph, Style: rule.WordStyle, Error: err.Error()})
		default:
			rep.Styled++
			r.Logger.Emit(logging.Event{Event: "style_applied", Level: "debug", Input: r.Input, Paragraph: g.paragraph, Marker: rule.Marker, Style: rule.WordStyle})
		}
	}
	r.Logger.Emit(logging.Event{Event: "styles_done", Input: r.Input, Count: rep.Styled, Total: rep.Styled + rep.Untouched + rep.Missing})
	return rep
}

func (r *Reconciler) firstStyleRule(elements []extract.Element) (config.StyleRule, bool) {
	for _, el := range elements {
		for _, m := range el.Markers {
			if rule, ok := r.Tax.StyleFor(m); ok {
				return rule, true
			}
		}
	}
	return config.StyleRule{}, false
}

type paragraphGroup struct {
	paragraph int
	elements  []extract.Element
}

// groupByParagraph keeps paragraphs in first-seen order and elements in
// element order. Table elements are skipped.
func groupByParagraph(elements []extract.Element) []paragraphGroup {
	pos := map[int]int{}
	var groups []paragraphGroup
	for _, el := range elements {
		if el.Kind != extract.KindParagraph {
			continue
		}
		i, ok := pos[el.ParagraphIndex]
		if !ok {
			i = len(groups)
			pos[el.ParagraphIndex] = i
			groups = append(groups, paragraphGroup{paragraph: el.ParagraphIndex})
		}
		groups[i].elements = append(groups[i].elements, el)
	}
	return groups
}
