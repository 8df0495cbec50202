package docx

import (
	"strings"

	"github.com/beevik/etree"
)

type Table struct {
	el  *etree.Element
	doc *Document
}

type Cell struct {
	el  *etree.Element
	doc *Document
}

// Tables returns the body-level tables in document order.
func (d *Document) Tables() []*Table {
	out := []*Table{}
	for _, el := range d.body().SelectElements("w:tbl") {
		out = append(out, &Table{el: el, doc: d})
	}
	return out
}

func (t *Table) Rows() [][]*Cell {
	rows := [][]*Cell{}
	for _, tr := range t.el.SelectElements("w:tr") {
		cells := []*Cell{}
		for _, tc := range tr.SelectElements("w:tc") {
			cells = append(cells, &Cell{el: tc, doc: t.doc})
		}
		rows = append(rows, cells)
	}
	return rows
}

// Paragraphs returns every paragraph inside the table, nested tables included.
func (t *Table) Paragraphs() []*Paragraph {
	out := []*Paragraph{}
	for _, el := range t.el.FindElements(".//w:p") {
		out = append(out, &Paragraph{el: el, doc: t.doc})
	}
	return out
}

func (t *Table) Remove() {
	if parent := t.el.Parent(); parent != nil {
		parent.RemoveChild(t.el)
	}
}

func (c *Cell) Paragraphs() []*Paragraph {
	out := []*Paragraph{}
	for _, el := range c.el.SelectElements("w:p") {
		out = append(out, &Paragraph{el: el, doc: c.doc})
	}
	return out
}

func (c *Cell) Text() string {
	lines := []string{}
	for _, p := range c.Paragraphs() {
		lines = append(lines, p.Text())
	}
	return strings.Join(lines, "\n")
}
