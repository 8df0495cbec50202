// Package sanitize strips local run formatting so that paragraph styles alone
// drive the look of the document when it is imported into layout tools.
package sanitize

import (
	"sort"

	"word-styler/internal/docx"
)

const black = "000000"

type Report struct {
	Paragraphs int
	Runs       int
	Sizes      int
	Fonts      int
	Colors     int
	// Styles counts paragraphs per style name.
	Styles map[string]int
}

// Changed reports how many run properties were removed in total.
func (r Report) Changed() int {
	return r.Sizes + r.Fonts + r.Colors
}

// StyleNames returns the styles in use, most used first.
func (r Report) StyleNames() []string {
	names := make([]string, 0, len(r.Styles))
	for n := range r.Styles {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool {
		if r.Styles[names[i]] != r.Styles[names[j]] {
			return r.Styles[names[i]] > r.Styles[names[j]]
		}
		return names[i] < names[j]
	})
	return names
}

// Document removes explicit font sizes, font names and black text colour
// from every run of the body and of table cells. Bold, italic and underline
// are kept.
func Document(doc *docx.Document) Report {
	rep := Report{Styles: map[string]int{}}
	for _, p := range doc.Paragraphs() {
		rep.paragraph(p)
	}
	for _, t := range doc.Tables() {
		for _, p := range t.Paragraphs() {
			rep.paragraph(p)
		}
	}
	return rep
}

func (r *Report) paragraph(p *docx.Paragraph) {
	r.Paragraphs++
	r.Styles[p.StyleName()]++
	for _, run := range p.Runs() {
		r.Runs++
		if run.ClearSize() {
			r.Sizes++
		}
		if run.ClearFonts() {
			r.Fonts++
		}
		if run.ClearColor(black) {
			r.Colors++
		}
	}
}
