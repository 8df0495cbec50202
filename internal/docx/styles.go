package docx

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/beevik/etree"
)

// StyleDef describes a paragraph style to create or update.
type StyleDef struct {
	Name       string
	BasedOn    string
	Priority   int
	QuickStyle bool
	Color      string
}

var styleOrder = []string{
	"name", "aliases", "basedOn", "next", "link", "autoRedefine", "hidden", "uiPriority",
	"semiHidden", "unhideWhenUsed", "qFormat", "locked", "personal", "personalCompose",
	"personalReply", "rsid", "pPr", "rPr", "tblPr", "trPr", "tcPr", "tblStylePr",
}

func (d *Document) styleElements() []*etree.Element {
	return d.styles.Root().SelectElements("w:style")
}

func (d *Document) StyleCount() int {
	return len(d.styleElements())
}

func (d *Document) HasParagraphStyle(name string) bool {
	return d.findParagraphStyle(name) != nil
}

func (d *Document) findParagraphStyle(name string) *etree.Element {
	want := strings.ToLower(strings.TrimSpace(name))
	if want == "" {
		return nil
	}
	var byID *etree.Element
	for _, st := range d.styleElements() {
		if st.SelectAttrValue("w:type", "paragraph") != "paragraph" {
			continue
		}
		if strings.ToLower(styleNameOf(st)) == want {
			return st
		}
		if byID == nil && strings.ToLower(st.SelectAttrValue("w:styleId", "")) == want {
			byID = st
		}
	}
	return byID
}

func (d *Document) styleByID(id string) *etree.Element {
	for _, st := range d.styleElements() {
		if st.SelectAttrValue("w:styleId", "") == id {
			return st
		}
	}
	return nil
}

func (d *Document) defaultParagraphStyle() *etree.Element {
	for _, st := range d.styleElements() {
		if st.SelectAttrValue("w:type", "") == "paragraph" && isTrue(st.SelectAttrValue("w:default", "")) {
			return st
		}
	}
	return nil
}

// UpsertParagraphStyle makes sure a visible quick paragraph style exists for
// def.Name and reports whether it had to be created.
func (d *Document) UpsertParagraphStyle(def StyleDef) (bool, error) {
	name := strings.TrimSpace(def.Name)
	if name == "" {
		return false, ErrStyleNotFound
	}
	st := d.findParagraphStyle(name)
	created := false
	if st == nil {
		st = d.styles.Root().CreateElement("w:style")
		st.CreateAttr("w:type", "paragraph")
		st.CreateAttr("w:customStyle", "1")
		st.CreateAttr("w:styleId", d.newStyleID(name))
		ensureOrdered(st, "w:name", styleOrder).CreateAttr("w:val", name)
		created = true
	}

	if def.BasedOn != "" {
		if base := d.findParagraphStyle(def.BasedOn); base != nil && base != st {
			ensureOrdered(st, "w:basedOn", styleOrder).CreateAttr("w:val", base.SelectAttrValue("w:styleId", ""))
		}
	}
	for _, tag := range []string{"w:hidden", "w:semiHidden", "w:unhideWhenUsed"} {
		if el := st.SelectElement(tag); el != nil {
			st.RemoveChild(el)
		}
	}
	if def.Priority > 0 {
		ensureOrdered(st, "w:uiPriority", styleOrder).CreateAttr("w:val", strconv.Itoa(def.Priority))
	}
	if def.QuickStyle {
		ensureOrdered(st, "w:qFormat", styleOrder)
	}
	if def.Color != "" {
		rPr := ensureOrdered(st, "w:rPr", styleOrder)
		ensureOrdered(rPr, "w:color", rPrOrder).CreateAttr("w:val", strings.ToUpper(def.Color))
	}
	return created, nil
}

func (d *Document) newStyleID(name string) string {
	var b strings.Builder
	for _, r := range name {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
		}
	}
	base := b.String()
	if base == "" {
		base = "Estilo"
	}
	id := base
	for i := 1; d.styleByID(id) != nil; i++ {
		id = base + strconv.Itoa(i)
	}
	return id
}

// CopyStyles replicates the custom styles of src that d does not have yet and
// returns how many were added.
func (d *Document) CopyStyles(src *Document) int {
	added := 0
	for _, st := range src.styleElements() {
		if !isTrue(st.SelectAttrValue("w:customStyle", "")) {
			continue
		}
		id := st.SelectAttrValue("w:styleId", "")
		if id == "" || d.styleByID(id) != nil {
			continue
		}
		if st.SelectAttrValue("w:type", "paragraph") == "paragraph" && d.findParagraphStyle(styleNameOf(st)) != nil {
			continue
		}
		d.styles.Root().AddChild(st.Copy())
		added++
	}
	return added
}

func styleNameOf(st *etree.Element) string {
	if n := st.SelectElement("w:name"); n != nil {
		return n.SelectAttrValue("w:val", "")
	}
	return st.SelectAttrValue("w:styleId", "")
}

// displayName maps the lower-case names Word stores for built-in styles to
// the names shown in the UI.
func displayName(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.HasPrefix(lower, "heading "):
		return "Heading " + strings.TrimSpace(name[len("heading "):])
	case lower == "title":
		return "Title"
	case lower == "normal":
		return "Normal"
	}
	return name
}

func isTrue(v string) bool {
	switch strings.ToLower(v) {
	case "1", "true", "on":
		return true
	}
	return false
}
