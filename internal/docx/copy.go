package docx

import (
	"fmt"
	"path"
	"strings"

	"github.com/beevik/etree"
)

var copiedParagraphProps = []string{"w:jc", "w:ind", "w:spacing"}

var pPrOrder = []string{
	"pStyle", "keepNext", "keepLines", "pageBreakBefore", "framePr", "widowControl", "numPr",
	"suppressLineNumbers", "pBdr", "shd", "tabs", "suppressAutoHyphens", "kinsoku", "wordWrap",
	"overflowPunct", "topLinePunct", "autoSpaceDE", "autoSpaceDN", "bidi", "adjustRightInd",
	"snapToGrid", "spacing", "ind", "contextualSpacing", "mirrorIndents", "suppressOverlap", "jc",
	"textDirection", "textAlignment", "textboxTightWrap", "outlineLvl", "divId", "cnfStyle", "rPr",
	"sectPr", "pPrChange",
}

// CopyParagraph appends a copy of src to the body of d. The paragraph style
// is kept when d knows it, run formatting and alignment/indent/spacing are
// carried over, and embedded images are imported with their media parts.
func (d *Document) CopyParagraph(src *Paragraph) (*Paragraph, error) {
	dst := d.AddParagraph("")
	if name := src.StyleName(); name != "" {
		if err := dst.SetStyle(name); err != nil && err != ErrStyleNotFound {
			return dst, err
		}
	}
	if srcPPr := src.el.SelectElement("w:pPr"); srcPPr != nil {
		for _, tag := range copiedParagraphProps {
			el := srcPPr.SelectElement(tag)
			if el == nil {
				continue
			}
			pPr := dst.el.SelectElement("w:pPr")
			if pPr == nil {
				pPr = etree.NewElement("w:pPr")
				dst.el.InsertChildAt(0, pPr)
			}
			target := ensureOrdered(pPr, tag, pPrOrder)
			for _, a := range el.Attr {
				target.CreateAttr(a.FullKey(), a.Value)
			}
		}
	}

	for _, r := range src.Runs() {
		if r.HasImage() {
			cp := r.el.Copy()
			if err := d.importRelationships(src.doc, cp); err != nil {
				return dst, err
			}
			dst.el.AddChild(cp)
			continue
		}
		f := r.Format()
		if f.Text == "" {
			continue
		}
		dst.AddRun(f.Text).ApplyFormat(f)
	}
	return dst, nil
}

// importRelationships rewrites every r:embed, r:id and r:link attribute under
// el so that it points at a relationship of d, copying internal targets.
func (d *Document) importRelationships(src *Document, el *etree.Element) error {
	if src == d {
		return nil
	}
	d.adoptNamespaces(src)
	nodes := append([]*etree.Element{el}, el.FindElements(".//*")...)
	for _, node := range nodes {
		for _, a := range node.Attr {
			if a.Space != "r" || (a.Key != "embed" && a.Key != "id" && a.Key != "link") {
				continue
			}
			newID, err := d.importRelationship(src, a.Value)
			if err != nil {
				return err
			}
			node.CreateAttr(a.FullKey(), newID)
		}
	}
	return nil
}

func (d *Document) importRelationship(src *Document, rid string) (string, error) {
	key := importKey{src: src, rid: rid}
	if id, ok := d.imported[key]; ok {
		return id, nil
	}
	rel := src.relationship(rid)
	if rel == nil {
		return "", fmt.Errorf("relacionamento %s não encontrado no documento de origem", rid)
	}
	relType := rel.SelectAttrValue("Type", "")
	target := rel.SelectAttrValue("Target", "")
	mode := rel.SelectAttrValue("TargetMode", "")
	if strings.EqualFold(mode, "External") {
		id := d.addRelationship(relType, target, mode)
		d.imported[key] = id
		return id, nil
	}

	srcDir, _ := path.Split(src.mainPath)
	srcPart := resolveTarget(srcDir, target)
	data, ok := src.parts[srcPart]
	if !ok {
		return "", fmt.Errorf("parte %s referenciada por %s ausente", srcPart, rid)
	}
	dstDir, _ := path.Split(d.mainPath)
	name := d.uniqueMediaName(path.Base(srcPart))
	d.setPart(dstDir+"media/"+name, data)
	d.ensureDefault(strings.TrimPrefix(path.Ext(name), "."), src.contentTypeFor(srcPart))
	id := d.addRelationship(relType, "media/"+name, "")
	d.imported[key] = id
	return id, nil
}

func (d *Document) uniqueMediaName(base string) string {
	dir, _ := path.Split(d.mainPath)
	ext := path.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	name := base
	for i := 1; ; i++ {
		if _, ok := d.parts[dir+"media/"+name]; !ok {
			return name
		}
		name = fmt.Sprintf("%s_%d%s", stem, i, ext)
	}
}

func (d *Document) adoptNamespaces(src *Document) {
	root := d.main.Root()
	for _, a := range src.main.Root().Attr {
		if a.Space != "xmlns" {
			continue
		}
		if root.SelectAttr(a.FullKey()) == nil {
			root.CreateAttr(a.FullKey(), a.Value)
		}
	}
}
