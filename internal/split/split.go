package split

import (
	"fmt"
	"strings"

	"word-styler/internal/config"
	"word-styler/internal/docx"
	"word-styler/internal/logging"
)

type Kind string

const (
	KindQuestions Kind = "questoes"
	KindAnswers   Kind = "gabarito"
)

// Part is one generated document.
type Part struct {
	Name       string
	Kind       Kind
	Section    int
	Paragraphs int
	Doc        *docx.Document
}

type Splitter struct {
	Tax    config.Taxonomy
	Input  string
	Logger *logging.Logger
}

// Split builds the question and answer documents of src. markers is aligned
// with src.Paragraphs(). Without any section title the whole document is
// split once into todas_questoes and todos_gabaritos.
func (s *Splitter) Split(src *docx.Document, markers [][]string) ([]Part, error) {
	paras := src.Paragraphs()
	views := make([]paragraphView, len(paras))
	for i, p := range paras {
		views[i] = paragraphView{Text: p.Text(), StyleName: p.StyleName()}
		if i < len(markers) {
			views[i].Markers = markers[i]
		}
	}

	sections := DetectSections(src)
	if len(sections) == 0 {
		s.Logger.Emit(logging.Event{Event: "split_fallback", Input: s.Input, Total: len(paras)})
		return s.wholeDocument(src, paras, views)
	}

	var parts []Part
	for _, sec := range sections {
		var questions, answers []*docx.Paragraph
		for i := sec.Start; i <= sec.End; i++ {
			if decide(roleChain, views[i], s.Tax).role == Answer {
				answers = append(answers, paras[i])
			} else {
				questions = append(questions, paras[i])
			}
		}
		s.Logger.Emit(logging.Event{Event: "split_section", Input: s.Input, Marker: fmt.Sprint(sec.Number), Count: sec.ParagraphCount(), Total: len(answers)})
		for _, group := range []struct {
			kind  Kind
			label string
			paras []*docx.Paragraph
		}{
			{KindQuestions, "Questões", questions},
			{KindAnswers, "Gabarito", answers},
		} {
			if len(group.paras) == 0 {
				continue
			}
			title := fmt.Sprintf("Simulado %d - %s", sec.Number, group.label)
			doc, n, err := assemble(src, title, group.paras)
			if err != nil {
				return parts, fmt.Errorf("falha ao montar simulado %d: %w", sec.Number, err)
			}
			parts = append(parts, Part{
				Name:       fmt.Sprintf("simulado_%d_%s", sec.Number, group.kind),
				Kind:       group.kind,
				Section:    sec.Number,
				Paragraphs: n,
				Doc:        doc,
			})
		}
	}
	return parts, nil
}

func (s *Splitter) wholeDocument(src *docx.Document, paras []*docx.Paragraph, views []paragraphView) ([]Part, error) {
	var questions, answers []*docx.Paragraph
	for i, p := range paras {
		if decide(fallbackChain, views[i], s.Tax).role == Answer {
			answers = append(answers, p)
		} else {
			questions = append(questions, p)
		}
	}
	qDoc, qn, err := assemble(src, "", questions)
	if err != nil {
		return nil, fmt.Errorf("falha ao montar documento de questões: %w", err)
	}
	aDoc, an, err := assemble(src, "", answers)
	if err != nil {
		return nil, fmt.Errorf("falha ao montar documento de gabaritos: %w", err)
	}
	return []Part{
		{Name: "todas_questoes", Kind: KindQuestions, Paragraphs: qn, Doc: qDoc},
		{Name: "todos_gabaritos", Kind: KindAnswers, Paragraphs: an, Doc: aDoc},
	}, nil
}

// assemble creates a document with the custom styles of src, an optional
// heading and a blank line, then copies every paragraph that has text or an
// image. It returns how many paragraphs were copied.
func assemble(src *docx.Document, title string, paras []*docx.Paragraph) (*docx.Document, int, error) {
	doc := docx.New()
	doc.CopyStyles(src)
	if title != "" {
		// Heading 1 ships with the blank template.
		_ = doc.AddParagraph(title).SetStyle("Heading 1")
		doc.AddParagraph("")
	}
	n := 0
	for _, p := range paras {
		if strings.TrimSpace(p.Text()) == "" && !p.HasImage() {
			continue
		}
		if _, err := doc.CopyParagraph(p); err != nil {
			return nil, n, err
		}
		n++
	}
	return doc, n, nil
}
