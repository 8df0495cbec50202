package docx

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

type Paragraph struct {
	el  *etree.Element
	doc *Document
}

type Run struct {
	el *etree.Element
}

// RunFormat is a detached snapshot of the formatting of one run.
type RunFormat struct {
	Text      string
	Bold      *bool
	Italic    *bool
	Underline *bool
	SizePt    float64
	Color     string
	HasImage  bool
}

// Paragraphs returns the body-level paragraphs in document order.
func (d *Document) Paragraphs() []*Paragraph {
	body := d.body()
	out := make([]*Paragraph, 0, 64)
	for _, el := range body.SelectElements("w:p") {
		out = append(out, &Paragraph{el: el, doc: d})
	}
	return out
}

func (p *Paragraph) Runs() []*Run {
	out := []*Run{}
	for _, child := range p.el.ChildElements() {
		switch {
		case isW(child, "r"):
			out = append(out, &Run{el: child})
		case isW(child, "hyperlink"), isW(child, "ins"), isW(child, "smartTag"), isW(child, "fldSimple"):
			for _, r := range child.SelectElements("w:r") {
				out = append(out, &Run{el: r})
			}
		}
	}
	return out
}

func (p *Paragraph) Text() string {
	var b strings.Builder
	for _, r := range p.Runs() {
		b.WriteString(r.Text())
	}
	return b.String()
}

func (p *Paragraph) HasImage() bool {
	return hasImage(p.el)
}

func (p *Paragraph) HasNumbering() bool {
	pPr := p.el.SelectElement("w:pPr")
	return pPr != nil && pPr.SelectElement("w:numPr") != nil
}

// StyleName returns the display name of the paragraph style, falling back to
// the document's default paragraph style.
func (p *Paragraph) StyleName() string {
	id := ""
	if pPr := p.el.SelectElement("w:pPr"); pPr != nil {
		if ps := pPr.SelectElement("w:pStyle"); ps != nil {
			id = ps.SelectAttrValue("w:val", "")
		}
	}
	if id != "" {
		if st := p.doc.styleByID(id); st != nil {
			return displayName(styleNameOf(st))
		}
		return id
	}
	if st := p.doc.defaultParagraphStyle(); st != nil {
		return displayName(styleNameOf(st))
	}
	return "Normal"
}

func (p *Paragraph) SetStyle(name string) error {
	st := p.doc.findParagraphStyle(name)
	if st == nil {
		return ErrStyleNotFound
	}
	id := st.SelectAttrValue("w:styleId", "")
	pPr := p.el.SelectElement("w:pPr")
	if pPr == nil {
		pPr = etree.NewElement("w:pPr")
		p.el.InsertChildAt(0, pPr)
	}
	ps := pPr.SelectElement("w:pStyle")
	if ps == nil {
		ps = etree.NewElement("w:pStyle")
		pPr.InsertChildAt(0, ps)
	}
	ps.CreateAttr("w:val", id)
	return nil
}

// Alignment returns the w:jc value, empty when the paragraph inherits it.
func (p *Paragraph) Alignment() string {
	if pPr := p.el.SelectElement("w:pPr"); pPr != nil {
		if jc := pPr.SelectElement("w:jc"); jc != nil {
			return jc.SelectAttrValue("w:val", "")
		}
	}
	return ""
}

func (p *Paragraph) AddRun(text string) *Run {
	r := p.el.CreateElement("w:r")
	writeRunText(r, text)
	return &Run{el: r}
}

func (p *Paragraph) Remove() {
	if parent := p.el.Parent(); parent != nil {
		parent.RemoveChild(p.el)
	}
}

// AddParagraph appends a paragraph to the body, ahead of the final section
// properties.
func (d *Document) AddParagraph(text string) *Paragraph {
	el := etree.NewElement("w:p")
	d.insertBodyElement(el)
	p := &Paragraph{el: el, doc: d}
	if text != "" {
		p.AddRun(text)
	}
	return p
}

func (d *Document) insertBodyElement(el *etree.Element) {
	body := d.body()
	children := body.ChildElements()
	if n := len(children); n > 0 && isW(children[n-1], "sectPr") {
		body.InsertChildAt(children[n-1].Index(), el)
		return
	}
	body.AddChild(el)
}

func writeRunText(r *etree.Element, text string) {
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			r.CreateElement("w:br")
		}
		for j, chunk := range strings.Split(line, "\t") {
			if j > 0 {
				r.CreateElement("w:tab")
			}
			if chunk == "" {
				continue
			}
			t := r.CreateElement("w:t")
			t.CreateAttr("xml:space", "preserve")
			t.SetText(chunk)
		}
	}
}

func (r *Run) Text() string {
	var b strings.Builder
	for _, child := range r.el.ChildElements() {
		if child.Space != "w" {
			continue
		}
		switch child.Tag {
		case "t":
			b.WriteString(child.Text())
		case "tab":
			b.WriteByte('\t')
		case "br":
			switch child.SelectAttrValue("w:type", "textWrapping") {
			case "textWrapping":
				b.WriteByte('\n')
			}
		case "cr":
			b.WriteByte('\n')
		case "noBreakHyphen":
			b.WriteByte('-')
		}
	}
	return b.String()
}

func (r *Run) HasImage() bool {
	return hasImage(r.el)
}

func (r *Run) Format() RunFormat {
	f := RunFormat{Text: r.Text(), HasImage: r.HasImage()}
	rPr := r.el.SelectElement("w:rPr")
	if rPr == nil {
		return f
	}
	f.Bold = onOff(rPr.SelectElement("w:b"))
	f.Italic = onOff(rPr.SelectElement("w:i"))
	if u := rPr.SelectElement("w:u"); u != nil {
		v := u.SelectAttrValue("w:val", "single") != "none"
		f.Underline = &v
	}
	if sz := rPr.SelectElement("w:sz"); sz != nil {
		if half, err := strconv.Atoi(sz.SelectAttrValue("w:val", "")); err == nil {
			f.SizePt = float64(half) / 2
		}
	}
	if c := rPr.SelectElement("w:color"); c != nil {
		if v := c.SelectAttrValue("w:val", ""); v != "" && !strings.EqualFold(v, "auto") {
			f.Color = strings.ToUpper(v)
		}
	}
	return f
}

// ApplyFormat writes the bold/italic/underline/size/colour of f onto the run.
func (r *Run) ApplyFormat(f RunFormat) {
	if f.Bold == nil && f.Italic == nil && f.Underline == nil && f.SizePt == 0 && f.Color == "" {
		return
	}
	rPr := r.el.SelectElement("w:rPr")
	if rPr == nil {
		rPr = etree.NewElement("w:rPr")
		r.el.InsertChildAt(0, rPr)
	}
	if f.Bold != nil {
		setOnOff(rPr, "w:b", *f.Bold)
	}
	if f.Italic != nil {
		setOnOff(rPr, "w:i", *f.Italic)
	}
	if f.Underline != nil {
		u := ensureOrdered(rPr, "w:u", rPrOrder)
		if *f.Underline {
			u.CreateAttr("w:val", "single")
		} else {
			u.CreateAttr("w:val", "none")
		}
	}
	if f.SizePt > 0 {
		half := strconv.Itoa(int(f.SizePt * 2))
		ensureOrdered(rPr, "w:sz", rPrOrder).CreateAttr("w:val", half)
		ensureOrdered(rPr, "w:szCs", rPrOrder).CreateAttr("w:val", half)
	}
	if f.Color != "" {
		ensureOrdered(rPr, "w:color", rPrOrder).CreateAttr("w:val", f.Color)
	}
}

func (r *Run) ClearSize() bool {
	return removeRunProps(r.el, "sz", "szCs")
}

func (r *Run) ClearFonts() bool {
	return removeRunProps(r.el, "rFonts")
}

// ClearColor removes an explicit colour equal to rgb.
func (r *Run) ClearColor(rgb string) bool {
	rPr := r.el.SelectElement("w:rPr")
	if rPr == nil {
		return false
	}
	c := rPr.SelectElement("w:color")
	if c == nil || !strings.EqualFold(c.SelectAttrValue("w:val", ""), rgb) {
		return false
	}
	rPr.RemoveChild(c)
	return true
}

func removeRunProps(run *etree.Element, tags ...string) bool {
	rPr := run.SelectElement("w:rPr")
	if rPr == nil {
		return false
	}
	removed := false
	for _, tag := range tags {
		if el := rPr.SelectElement("w:" + tag); el != nil {
			rPr.RemoveChild(el)
			removed = true
		}
	}
	return removed
}

var rPrOrder = []string{
	"rStyle", "rFonts", "b", "bCs", "i", "iCs", "caps", "smallCaps", "strike", "dstrike",
	"outline", "shadow", "emboss", "imprint", "noProof", "snapToGrid", "vanish", "webHidden",
	"color", "spacing", "w", "kern", "position", "sz", "szCs", "highlight", "u", "effect",
	"bdr", "shd", "fitText", "vertAlign", "rtl", "cs", "em", "lang", "eastAsianLayout", "specVanish", "oMath",
}

func setOnOff(parent *etree.Element, tag string, on bool) {
	el := ensureOrdered(parent, tag, rPrOrder)
	if on {
		el.RemoveAttr("w:val")
		return
	}
	el.CreateAttr("w:val", "0")
}

func onOff(el *etree.Element) *bool {
	if el == nil {
		return nil
	}
	v := true
	switch strings.ToLower(el.SelectAttrValue("w:val", "")) {
	case "0", "false", "off":
		v = false
	}
	return &v
}

// ensureOrdered returns the child tag of parent, creating it at the position
// the schema sequence order requires.
func ensureOrdered(parent *etree.Element, tag string, order []string) *etree.Element {
	if el := parent.SelectElement(tag); el != nil {
		return el
	}
	local := strings.TrimPrefix(tag, "w:")
	rank := indexOf(order, local)
	el := etree.NewElement(tag)
	for _, child := range parent.ChildElements() {
		if child.Space == "w" && rank >= 0 {
			if r := indexOf(order, child.Tag); r > rank {
				parent.InsertChildAt(child.Index(), el)
				return el
			}
		}
	}
	parent.AddChild(el)
	return el
}

func indexOf(list []string, v string) int {
	for i, s := range list {
		if s == v {
			return i
		}
	}
	return -1
}

func hasImage(el *etree.Element) bool {
	return el.FindElement(".//w:drawing") != nil || el.FindElement(".//w:pict") != nil
}

func isW(el *etree.Element, tag string) bool {
	return el.Space == "w" && el.Tag == tag
}
