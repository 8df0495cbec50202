package extract

import (
	"regexp"
	"strings"

	"word-styler/internal/docx"
)

type Kind string

const (
	KindParagraph Kind = "paragraph"
	KindTable     Kind = "table"
)

type ListType string

const (
	ListLetter ListType = "letter"
	ListNumber ListType = "number"
	ListBullet ListType = "bullet"
	ListNone   ListType = "none"
)

type Element struct {
	Index           int
	Kind            Kind
	Text            string
	ParagraphIndex  int
	TableIndex      int
	LineInParagraph int
	LineType        LineType
	WasSplit        bool
	HasImage        bool
	IsImageOnly     bool
	IsListItem      bool
	ListType        ListType
	ListChar        string
	StyleName       string
	Runs            []docx.RunFormat
	Markers         []string
}

type Result struct {
	Elements      []Element
	TableElements map[int]int
	SplitCount    int
}

func (r Result) ParagraphElements() int {
	n := 0
	for _, e := range r.Elements {
		if e.Kind == KindParagraph {
			n++
		}
	}
	return n
}

var (
	nativeLetter = regexp.MustCompile(`^[a-zA-Z][).]\s`)
	nativeNumber = regexp.MustCompile(`^\d+[).]\s`)
	manualLetter = regexp.MustCompile(`^[a-eA-E][).]\s`)
	manualNumber = regexp.MustCompile(`^\d+[).]\s`)
	parenLetter  = regexp.MustCompile(`^\([a-eA-E]\)`)
)

var bulletPrefixes = []string{"• ", "- ", "* ", "→ ", "▪ "}

// Extract turns the body of doc into classifiable elements: paragraphs in
// document order, visually merged lines split apart, followed by one element
// per table.
func Extract(doc *docx.Document) Result {
	res := Result{TableElements: map[int]int{}}
	next := 0

	for pi, p := range doc.Paragraphs() {
		text := p.Text()
		runs := snapshotRuns(p)
		style := p.StyleName()

		if strings.Contains(text, "\n") {
			lines := nonEmptyLines(text)
			if v := shouldSplit(lines); v.split {
				first := firstFormattedRun(runs)
				for li, line := range lines {
					el := Element{
						Index:           next,
						Kind:            KindParagraph,
						Text:            line,
						ParagraphIndex:  pi,
						TableIndex:      -1,
						LineInParagraph: li,
						LineType:        ClassifyLine(line),
						WasSplit:        true,
						StyleName:       style,
						ListType:        ListNone,
					}
					if first != nil {
						r := *first
						r.Text = line
						el.Runs = []docx.RunFormat{r}
					}
					el.IsListItem, el.ListType, el.ListChar = lineListInfo(line)
					res.Elements = append(res.Elements, el)
					next++
				}
				res.SplitCount++
				continue
			}
		}

		hasImage := p.HasImage()
		el := Element{
			Index:          next,
			Kind:           KindParagraph,
			Text:           text,
			ParagraphIndex: pi,
			TableIndex:     -1,
			HasImage:       hasImage,
			IsImageOnly:    hasImage && strings.TrimSpace(text) == "",
			StyleName:      style,
			Runs:           runs,
		}
		el.IsListItem, el.ListType, el.ListChar = paragraphListInfo(p.HasNumbering(), text)
		res.Elements = append(res.Elements, el)
		next++
	}

	for ti, t := range doc.Tables() {
		res.Elements = append(res.Elements, Element{
			Index:          next,
			Kind:           KindTable,
			Text:           TableText(t),
			ParagraphIndex: -1,
			TableIndex:     ti,
			ListType:       ListNone,
		})
		res.TableElements[ti] = next
		next++
	}
	return res
}

// TableText renders a table as rows of " | "-joined non-empty cells.
func TableText(t *docx.Table) string {
	rows := []string{}
	for _, row := range t.Rows() {
		cells := []string{}
		for _, c := range row {
			if v := strings.TrimSpace(c.Text()); v != "" {
				cells = append(cells, v)
			}
		}
		if len(cells) > 0 {
			rows = append(rows, strings.Join(cells, " | "))
		}
	}
	return strings.Join(rows, "\n")
}

func snapshotRuns(p *docx.Paragraph) []docx.RunFormat {
	runs := p.Runs()
	out := make([]docx.RunFormat, 0, len(runs))
	for _, r := range runs {
		out = append(out, r.Format())
	}
	return out
}

func firstFormattedRun(runs []docx.RunFormat) *docx.RunFormat {
	for i := range runs {
		if strings.TrimSpace(runs[i].Text) != "" {
			return &runs[i]
		}
	}
	return nil
}

func paragraphListInfo(numbered bool, text string) (bool, ListType, string) {
	text = strings.TrimSpace(text)
	if numbered {
		switch {
		case text == "":
			return true, ListNone, ""
		case nativeLetter.MatchString(text):
			return true, ListLetter, text[:1]
		case nativeNumber.MatchString(text):
			return true, ListNumber, leadingDigits(text)
		default:
			return true, ListBullet, ""
		}
	}
	return manualListInfo(text)
}

func lineListInfo(line string) (bool, ListType, string) {
	line = strings.TrimSpace(line)
	if parenLetter.MatchString(line) {
		return true, ListLetter, line[1:2]
	}
	return manualListInfo(line)
}

func manualListInfo(text string) (bool, ListType, string) {
	switch {
	case manualLetter.MatchString(text):
		return true, ListLetter, text[:1]
	case manualNumber.MatchString(text):
		return true, ListNumber, leadingDigits(text)
	}
	for _, prefix := range bulletPrefixes {
		if strings.HasPrefix(text, prefix) {
			return true, ListBullet, strings.TrimSpace(prefix)
		}
	}
	return false, ListNone, ""
}

func leadingDigits(s string) string {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return s[:i]
}
