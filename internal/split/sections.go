// Package split separates a styled document into one questions document and
// one answers document per titled section ("Simulado N").
package split

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"word-styler/internal/docx"
	"word-styler/internal/extract"
)

var titlePattern = regexp.MustCompile(`(?i)Simulado\s+(\d+)`)

var headingHints = []string{"heading", "título", "titulo", "title"}

// Section is an inclusive range of body paragraph indices starting at its
// title paragraph.
type Section struct {
	Number int
	Title  string
	Start  int
	End    int
}

func (s Section) ParagraphCount() int { return s.End - s.Start + 1 }

// titleNumber reports whether p looks like a section title and, if so, its
// number.
func titleNumber(p *docx.Paragraph) (int, bool) {
	text := strings.TrimSpace(p.Text())
	m := titlePattern.FindStringSubmatch(text)
	if m == nil || utf8.RuneCountInString(text) > 100 {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	style := strings.ToLower(p.StyleName())
	for _, h := range headingHints {
		if strings.Contains(style, h) {
			return n, true
		}
	}
	if runs := p.Runs(); len(runs) > 0 {
		f := runs[0].Format()
		if (f.Bold != nil && *f.Bold) || f.SizePt > 12 {
			return n, true
		}
	}
	if len(strings.Fields(text)) <= 10 {
		return n, true
	}
	return 0, false
}

// DetectSections partitions the body paragraphs from the first title onward.
// Each section ends right before the next title; the last runs to the end of
// the document. Paragraphs before the first title belong to no section.
func DetectSections(doc *docx.Document) []Section {
	paras := doc.Paragraphs()
	var out []Section
	for i, p := range paras {
		n, ok := titleNumber(p)
		if !ok {
			continue
		}
		if len(out) > 0 {
			out[len(out)-1].End = i - 1
		}
		out = append(out, Section{Number: n, Title: strings.TrimSpace(p.Text()), Start: i, End: len(paras) - 1})
	}
	return out
}

// ParagraphMarkers collects the markers of every source paragraph, aligned
// with the document body after the paragraphs in removed were deleted.
func ParagraphMarkers(elements []extract.Element, removed map[int]struct{}) [][]string {
	count := 0
	for _, el := range elements {
		if el.Kind == extract.KindParagraph && el.ParagraphIndex+1 > count {
			count = el.ParagraphIndex + 1
		}
	}
	byIndex := make([][]string, count)
	for _, el := range elements {
		if el.Kind == extract.KindParagraph && el.ParagraphIndex >= 0 {
			byIndex[el.ParagraphIndex] = append(byIndex[el.ParagraphIndex], el.Markers...)
		}
	}
	out := make([][]string, 0, count)
	for i, m := range byIndex {
		if _, gone := removed[i]; gone {
			continue
		}
		out = append(out, m)
	}
	return out
}
