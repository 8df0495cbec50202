package docx_test

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"word-styler/internal/docx"
	"word-styler/internal/docx/docxtest"
)

func TestParagraphTextAndBreaks(t *testing.T) {
	doc := docxtest.Open(t, docxtest.Package{Body: `<w:p><w:r><w:t>Questão 1</w:t><w:br/><w:t>a) Paris</w:t><w:tab/><w:t>x</w:t></w:r>` +
		`<w:r><w:br w:type="page"/><w:t>fim</w:t></w:r>` +
		`<w:hyperlink r:id="rId9"><w:r><w:t> link</w:t></w:r></w:hyperlink></w:p>`})
	paras := doc.Paragraphs()
	if len(paras) != 1 {
		t.Fatalf("paragraphs: %d", len(paras))
	}
	if got := paras[0].Text(); got != "Questão 1\na) Paris\txfim link" {
		t.Fatalf("unexpected text: %q", got)
	}
}

func TestRunFormatSnapshot(t *testing.T) {
	doc := docxtest.Open(t, docxtest.Package{Body: `<w:p><w:r><w:rPr><w:b/><w:i w:val="0"/><w:u w:val="single"/><w:color w:val="ff0000"/><w:sz w:val="28"/></w:rPr><w:t>Simulado 1</w:t></w:r></w:p>`})
	f := doc.Paragraphs()[0].Runs()[0].Format()
	if f.Bold == nil || !*f.Bold {
		t.Fatalf("bold mismatch: %+v", f)
	}
	if f.Italic == nil || *f.Italic {
		t.Fatalf("italic mismatch: %+v", f)
	}
	if f.Underline == nil || !*f.Underline || f.SizePt != 14 || f.Color != "FF0000" {
		t.Fatalf("format mismatch: %+v", f)
	}
}

func TestStyleNameAndSetStyle(t *testing.T) {
	doc := docxtest.Open(t, docxtest.Package{Body: docxtest.Para("Heading1", "Simulado 1") + docxtest.Para("", "texto")})
	paras := doc.Paragraphs()
	if got := paras[0].StyleName(); got != "Heading 1" {
		t.Fatalf("style name: %q", got)
	}
	if got := paras[1].StyleName(); got != "Normal" {
		t.Fatalf("default style name: %q", got)
	}
	if err := paras[1].SetStyle("heading 2"); err != nil {
		t.Fatalf("SetStyle: %v", err)
	}
	if got := paras[1].StyleName(); got != "Heading 2" {
		t.Fatalf("style after set: %q", got)
	}
	if err := paras[1].SetStyle("Inexistente"); !errors.Is(err, docx.ErrStyleNotFound) {
		t.Fatalf("expected ErrStyleNotFound, got %v", err)
	}
}

func TestUpsertParagraphStyleIsIdempotent(t *testing.T) {
	doc := docx.New()
	before := doc.StyleCount()
	created, err := doc.UpsertParagraphStyle(docx.StyleDef{Name: "Question", BasedOn: "Normal", Priority: 1, QuickStyle: true, Color: "dc2626"})
	if err != nil || !created {
		t.Fatalf("first upsert: created=%v err=%v", created, err)
	}
	if doc.StyleCount() != before+1 {
		t.Fatalf("style count after create: %d", doc.StyleCount())
	}
	created, err = doc.UpsertParagraphStyle(docx.StyleDef{Name: "Question", BasedOn: "Normal", Priority: 1, QuickStyle: true, Color: "dc2626"})
	if err != nil || created {
		t.Fatalf("second upsert: created=%v err=%v", created, err)
	}
	if doc.StyleCount() != before+1 {
		t.Fatalf("style count changed on re-run: %d", doc.StyleCount())
	}
	p := doc.AddParagraph("Qual a capital?")
	if err := p.SetStyle("Question"); err != nil {
		t.Fatalf("SetStyle on upserted style: %v", err)
	}
}

func TestUpsertUnhidesBuiltinStyle(t *testing.T) {
	doc := docx.New()
	if _, err := doc.UpsertParagraphStyle(docx.StyleDef{Name: "Heading 3", Priority: 1, QuickStyle: true}); err != nil {
		t.Fatal(err)
	}
	raw, err := doc.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	back, err := docx.Read(raw)
	if err != nil {
		t.Fatal(err)
	}
	if !back.HasParagraphStyle("Heading 3") {
		t.Fatalf("heading 3 lost")
	}
}

func TestAddParagraphSaveAndReopen(t *testing.T) {
	doc := docx.New()
	doc.AddParagraph("linha 1\nlinha 2")
	doc.AddParagraph("")
	path := filepath.Join(t.TempDir(), "out.docx")
	if err := doc.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	back, err := docx.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	paras := back.Paragraphs()
	if len(paras) != 2 || paras[0].Text() != "linha 1\nlinha 2" {
		t.Fatalf("unexpected paragraphs: %d", len(paras))
	}
}

func TestReadRejectsNonDocx(t *testing.T) {
	if _, err := docx.Read([]byte("not a zip")); !errors.Is(err, docx.ErrNotDocx) {
		t.Fatalf("expected ErrNotDocx, got %v", err)
	}
}

func TestTablesAndRemoval(t *testing.T) {
	body := docxtest.Para("", "antes") +
		`<w:tbl><w:tr><w:tc><w:p><w:r><w:t>A</w:t></w:r></w:p></w:tc><w:tc><w:p/></w:tc></w:tr></w:tbl>` +
		docxtest.Para("", "depois")
	doc := docxtest.Open(t, docxtest.Package{Body: body})
	tables := doc.Tables()
	if len(tables) != 1 {
		t.Fatalf("tables: %d", len(tables))
	}
	rows := tables[0].Rows()
	if len(rows) != 1 || len(rows[0]) != 2 || rows[0][0].Text() != "A" {
		t.Fatalf("unexpected rows")
	}
	tables[0].Remove()
	doc.Paragraphs()[0].Remove()
	if len(doc.Tables()) != 0 || len(doc.Paragraphs()) != 1 || doc.Paragraphs()[0].Text() != "depois" {
		t.Fatalf("removal failed")
	}
}

func TestNumberingAndImageDetection(t *testing.T) {
	body := `<w:p><w:pPr><w:numPr><w:ilvl w:val="0"/><w:numId w:val="1"/></w:numPr></w:pPr><w:r><w:t>item</w:t></w:r></w:p>` +
		`<w:p>` + docxtest.Image("rId10") + `</w:p>`
	doc := docxtest.Open(t, docxtest.Package{Body: body, Media: map[string][]byte{"image1.png": []byte("png")}})
	paras := doc.Paragraphs()
	if !paras[0].HasNumbering() || paras[0].HasImage() {
		t.Fatalf("numbering detection failed")
	}
	if paras[1].HasNumbering() || !paras[1].HasImage() {
		t.Fatalf("image detection failed")
	}
	if info := doc.Info(); info.Paragraphs != 2 || info.Images != 1 {
		t.Fatalf("unexpected info: %+v", info)
	}
}

func TestCopyParagraphWithImage(t *testing.T) {
	body := `<w:p><w:pPr><w:pStyle w:val="Heading1"/><w:jc w:val="center"/></w:pPr><w:r><w:rPr><w:b/><w:sz w:val="32"/></w:rPr><w:t>Simulado 1</w:t></w:r></w:p>` +
		`<w:p>` + docxtest.Image("rId10") + `</w:p>`
	src := docxtest.Open(t, docxtest.Package{Body: body, Media: map[string][]byte{"image1.png": []byte("PNGDATA")}})
	dst := docx.New()

	for _, p := range src.Paragraphs() {
		if _, err := dst.CopyParagraph(p); err != nil {
			t.Fatalf("CopyParagraph: %v", err)
		}
	}
	raw, err := dst.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	back, err := docx.Read(raw)
	if err != nil {
		t.Fatalf("reopen copy: %v", err)
	}
	paras := back.Paragraphs()
	if len(paras) != 2 {
		t.Fatalf("copied paragraphs: %d", len(paras))
	}
	if paras[0].StyleName() != "Heading 1" || paras[0].Alignment() != "center" {
		t.Fatalf("style/format not copied: %q %q", paras[0].StyleName(), paras[0].Alignment())
	}
	f := paras[0].Runs()[0].Format()
	if f.Bold == nil || !*f.Bold || f.SizePt != 16 {
		t.Fatalf("run format not copied: %+v", f)
	}
	if !paras[1].HasImage() {
		t.Fatalf("image not copied")
	}
	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, f := range zr.File {
		if f.Name != "word/media/image1.png" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatal(err)
		}
		data, _ := io.ReadAll(rc)
		rc.Close()
		found = string(data) == "PNGDATA"
	}
	if !found {
		t.Fatalf("media part not copied")
	}
}

func TestCopyStylesOnlyCustom(t *testing.T) {
	styles := docxtest.DefaultStyles + `<w:style w:type="paragraph" w:customStyle="1" w:styleId="Answer"><w:name w:val="Answer"/></w:style>`
	src := docxtest.Open(t, docxtest.Package{Body: docxtest.Para("Answer", "Resposta: b"), Styles: styles})
	dst := docx.New()
	if n := dst.CopyStyles(src); n != 1 {
		t.Fatalf("copied styles: %d", n)
	}
	if n := dst.CopyStyles(src); n != 0 {
		t.Fatalf("second copy should be a no-op, got %d", n)
	}
	p, err := dst.CopyParagraph(src.Paragraphs()[0])
	if err != nil {
		t.Fatal(err)
	}
	if p.StyleName() != "Answer" || !strings.HasPrefix(p.Text(), "Resposta") {
		t.Fatalf("unexpected copy: %q %q", p.StyleName(), p.Text())
	}
}

func TestSanitizeHelpers(t *testing.T) {
	doc := docxtest.Open(t, docxtest.Package{Body: `<w:p><w:r><w:rPr><w:rFonts w:ascii="Arial"/><w:color w:val="000000"/><w:sz w:val="24"/><w:szCs w:val="24"/></w:rPr><w:t>x</w:t></w:r></w:p>`})
	r := doc.Paragraphs()[0].Runs()[0]
	if !r.ClearSize() || !r.ClearFonts() || !r.ClearColor("000000") {
		t.Fatalf("expected all helpers to clear something")
	}
	if r.ClearSize() || r.ClearFonts() || r.ClearColor("000000") {
		t.Fatalf("expected helpers to be no-ops the second time")
	}
	if f := r.Format(); f.SizePt != 0 || f.Color != "" {
		t.Fatalf("format not cleared: %+v", f)
	}
}
