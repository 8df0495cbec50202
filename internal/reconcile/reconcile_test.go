package reconcile

import (
	"fmt"
	"strings"
	"testing"

	"word-styler/internal/config"
	"word-styler/internal/docx"
	"word-styler/internal/docx/docxtest"
	"word-styler/internal/extract"
	"word-styler/internal/outcome"
)

func TestMaterializeStylesIsIdempotent(t *testing.T) {
	doc := docx.New()
	r := &Reconciler{Doc: doc, Tax: config.DefaultTaxonomy()}
	rep, results := r.MaterializeStyles()
	if rep.Failed != 0 || len(results) != 5 {
		t.Fatalf("unexpected first report: %+v", rep)
	}
	if rep.Created != 3 || rep.Updated != 2 {
		t.Fatalf("expected 3 custom styles and 2 headings updated, got %+v", rep)
	}
	count := doc.StyleCount()
	rep2, _ := r.MaterializeStyles()
	if rep2.Created != 0 || rep2.Updated != 5 {
		t.Fatalf("second run should only update: %+v", rep2)
	}
	if doc.StyleCount() != count {
		t.Fatalf("style count changed on re-run: %d -> %d", count, doc.StyleCount())
	}
	for _, name := range []string{"Question", "Alternative", "Answer"} {
		if !doc.HasParagraphStyle(name) {
			t.Fatalf("style %s missing", name)
		}
	}
}

func TestMaterializeStylesInvalidColorDegrades(t *testing.T) {
	tax := config.Taxonomy{Styles: []config.StyleRule{{Marker: "[[X]]", Name: "X", WordStyle: "Estilo X", Prompt: "x", Color: "azul"}}}
	doc := docx.New()
	_, results := (&Reconciler{Doc: doc, Tax: tax}).MaterializeStyles()
	if results[0].Status != outcome.Degraded || !strings.Contains(results[0].Reason, "azul") {
		t.Fatalf("expected degraded outcome, got %+v", results[0])
	}
	if !doc.HasParagraphStyle("Estilo X") {
		t.Fatalf("style should still be created")
	}
}

func TestApplyFirstMarkerWins(t *testing.T) {
	doc := docxtest.Open(t, docxtest.Package{Body: docxtest.Para("", "Questão 1\na) Paris") + docxtest.Para("", "solto") + docxtest.Para("", "Resposta: b")})
	r := &Reconciler{Doc: doc, Tax: config.DefaultTaxonomy()}
	r.MaterializeStyles()
	elements := []extract.Element{
		{Index: 0, Kind: extract.KindParagraph, ParagraphIndex: 0, WasSplit: true},
		{Index: 1, Kind: extract.KindParagraph, ParagraphIndex: 0, WasSplit: true, Markers: []string{"[[ENUNCIADO]]"}},
		{Index: 2, Kind: extract.KindParagraph, ParagraphIndex: 0, WasSplit: true, Markers: []string{"[[ALTERNATIVA]]"}},
		{Index: 3, Kind: extract.KindParagraph, ParagraphIndex: 1, Markers: []string{"[[REMOVE_INTRO_START]]"}},
		{Index: 4, Kind: extract.KindParagraph, ParagraphIndex: 2, Markers: []string{"[[GABARITO]]"}},
		{Index: 5, Kind: extract.KindTable, ParagraphIndex: -1, TableIndex: 0, Markers: []string{"[[GABARITO]]"}},
	}
	rep := r.Apply(elements)
	if rep.Styled != 2 || rep.Untouched != 1 || rep.Missing != 0 {
		t.Fatalf("unexpected report: %+v", rep)
	}
	paras := doc.Paragraphs()
	if got := paras[0].StyleName(); got != "Question" {
		t.Fatalf("split paragraph style: %s", got)
	}
	if got := paras[1].StyleName(); got != "Normal" {
		t.Fatalf("removal marker must not restyle: %s", got)
	}
	if got := paras[2].StyleName(); got != "Answer" {
		t.Fatalf("answer style: %s", got)
	}
}

func TestApplyMissingStyleIsSkipped(t *testing.T) {
	doc := docxtest.Open(t, docxtest.Package{Body: docxtest.Para("", "a") + docxtest.Para("", "b")})
	r := &Reconciler{Doc: doc, Tax: config.DefaultTaxonomy()}
	elements := []extract.Element{
		{Index: 0, Kind: extract.KindParagraph, ParagraphIndex: 0, Markers: []string{"[[ENUNCIADO]]"}},
		{Index: 1, Kind: extract.KindParagraph, ParagraphIndex: 1, Markers: []string{"[[TITULO_SIMULADO]]"}},
	}
	rep := r.Apply(elements)
	if rep.Missing != 1 || rep.Styled != 1 {
		t.Fatalf("unexpected report: %+v", rep)
	}
	if doc.Paragraphs()[0].StyleName() != "Normal" || doc.Paragraphs()[1].StyleName() != "Heading 1" {
		t.Fatalf("unexpected styles")
	}
}

func marked(total int, at map[int]string) []extract.Element {
	els := make([]extract.Element, total)
	for i := range els {
		els[i] = extract.Element{Index: i, Kind: extract.KindParagraph, ParagraphIndex: i}
		if m, ok := at[i]; ok {
			els[i].Markers = []string{m}
		}
	}
	return els
}

func TestFindAndValidateRemovalRanges(t *testing.T) {
	tax := config.DefaultTaxonomy()
	els := marked(100, map[int]string{4: "[[REMOVE_INTRO_START]]", 9: "[[REMOVE_INTRO_END]]", 20: "[[REMOVE_CARTAO_START]]"})
	ranges, warnings := FindRemovalRanges(els, tax.Removals)
	if len(ranges) != 1 || ranges[0].Start != 4 || ranges[0].End != 9 {
		t.Fatalf("unexpected ranges: %+v", ranges)
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "20") {
		t.Fatalf("expected unmatched start warning, got %v", warnings)
	}

	accepted, rejected := ValidateRanges([]Range{{Start: 4, End: 9}}, 100)
	if len(accepted) != 1 || len(rejected) != 0 || accepted[0].Len() != 6 {
		t.Fatalf("[4,9] should be accepted: %+v %+v", accepted, rejected)
	}
	accepted, rejected = ValidateRanges([]Range{{Start: 0, End: 60}}, 100)
	if len(accepted) != 0 || len(rejected) != 1 || !strings.Contains(rejected[0].Reason, "muito grande") {
		t.Fatalf("[0,60] should be rejected: %+v %+v", accepted, rejected)
	}
}

func TestValidateRangesOverlapAndBounds(t *testing.T) {
	in := []Range{{Start: 30, End: 35}, {Start: 10, End: 20}, {Start: 15, End: 25}, {Start: 90, End: 100}, {Start: -1, End: 2}}
	accepted, rejected := ValidateRanges(in, 100)
	if fmt.Sprint(accepted) != fmt.Sprint([]Range{{Start: 10, End: 20}, {Start: 30, End: 35}}) {
		t.Fatalf("unexpected accepted: %+v", accepted)
	}
	if len(rejected) != 3 {
		t.Fatalf("unexpected rejected: %+v", rejected)
	}
}

func TestRemoveDeletesParagraphsAndTables(t *testing.T) {
	table := `<w:tbl><w:tr><w:tc><w:p><w:r><w:t>cartão</w:t></w:r></w:p></w:tc></w:tr></w:tbl>`
	body := docxtest.Para("", "p0") + docxtest.Para("", "p1") + docxtest.Para("", "p2") + docxtest.Para("", "p3") +
		docxtest.Para("", "p4") + docxtest.Para("", "p5") + table
	doc := docxtest.Open(t, docxtest.Package{Body: body})
	els := marked(6, map[int]string{1: "[[REMOVE_INTRO_START]]", 2: "[[REMOVE_INTRO_END]]"})
	els = append(els, extract.Element{Index: 6, Kind: extract.KindTable, ParagraphIndex: -1, TableIndex: 0, Markers: []string{"[[REMOVE_CARTAO_START]]"}})
	els[5].Markers = []string{"[[REMOVE_CARTAO_START]]"}
	els[6].Markers = []string{"[[REMOVE_CARTAO_END]]"}

	r := &Reconciler{Doc: doc, Tax: config.DefaultTaxonomy()}
	removed := r.Remove(els)
	if removed.Count() != 4 || len(removed.Tables) != 1 {
		t.Fatalf("removed=%+v", removed)
	}
	for _, i := range []int{1, 2, 5} {
		if _, ok := removed.Paragraphs[i]; !ok {
			t.Fatalf("paragraph %d should be recorded as removed", i)
		}
	}
	var texts []string
	for _, p := range doc.Paragraphs() {
		texts = append(texts, p.Text())
	}
	if strings.Join(texts, ",") != "p0,p3,p4" || len(doc.Tables()) != 0 {
		t.Fatalf("unexpected remaining body: %v tables=%d", texts, len(doc.Tables()))
	}
}
