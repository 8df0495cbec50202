package sanitize

import (
	"testing"

	"word-styler/internal/docx/docxtest"
)

func TestDocumentClearsLocalFormatting(t *testing.T) {
	run := func(props, text string) string {
		return `<w:r><w:rPr>` + props + `</w:rPr><w:t>` + text + `</w:t></w:r>`
	}
	body := `<w:p>` + run(`<w:rFonts w:ascii="Arial"/><w:b/><w:color w:val="000000"/><w:sz w:val="24"/>`, "a") +
		run(`<w:color w:val="FF0000"/>`, "b") + `</w:p>` +
		docxtest.Para("Heading1", "Simulado 1") +
		`<w:tbl><w:tr><w:tc><w:p>` + run(`<w:sz w:val="18"/><w:szCs w:val="18"/>`, "c") + `</w:p></w:tc></w:tr></w:tbl>`
	doc := docxtest.Open(t, docxtest.Package{Body: body})

	rep := Document(doc)
	if rep.Paragraphs != 3 || rep.Runs != 4 {
		t.Fatalf("unexpected counts: %+v", rep)
	}
	if rep.Sizes != 2 || rep.Fonts != 1 || rep.Colors != 1 || rep.Changed() != 4 {
		t.Fatalf("unexpected cleared props: %+v", rep)
	}
	runs := doc.Paragraphs()[0].Runs()
	f := runs[0].Format()
	if f.SizePt != 0 || f.Color != "" || f.Bold == nil || !*f.Bold {
		t.Fatalf("first run: %+v", f)
	}
	if runs[1].Format().Color != "FF0000" {
		t.Fatalf("non-black colour must be kept")
	}
	if names := rep.StyleNames(); len(names) != 2 || names[0] != "Normal" || rep.Styles["Heading 1"] != 1 {
		t.Fatalf("unexpected style usage: %v %v", names, rep.Styles)
	}

	if again := Document(doc); again.Changed() != 0 {
		t.Fatalf("second pass should be a no-op: %+v", again)
	}
}
