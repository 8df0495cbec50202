package docx

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

const (
	contentTypesPart = "[Content_Types].xml"
	packageRelsPart  = "_rels/.rels"

	relTypeOfficeDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	relTypeStyles         = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	stylesContentType     = "application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"
)

var (
	ErrStyleNotFound = errors.New("estilo não encontrado")
	ErrNotDocx       = errors.New("arquivo não é um documento .docx válido")
)

type importKey struct {
	src *Document
	rid string
}

// Document is an editable .docx package. Only the main document part, the
// style table, the main part relationships and the content types are parsed;
// every other part is carried through untouched.
type Document struct {
	parts map[string][]byte
	order []string

	mainPath   string
	stylesPath string
	relsPath   string

	main   *etree.Document
	styles *etree.Document
	rels   *etree.Document
	types  *etree.Document

	imported map[importKey]string
}

type Info struct {
	Paragraphs int
	Tables     int
	Images     int
}

func Open(filePath string) (*Document, error) {
	raw, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("lendo documento %s: %w", filePath, err)
	}
	doc, err := Read(raw)
	if err != nil {
		return nil, fmt.Errorf("lendo documento %s: %w", filePath, err)
	}
	return doc, nil
}

func Read(data []byte) (*Document, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotDocx, err)
	}
	d := &Document{parts: map[string][]byte{}, imported: map[importKey]string{}}
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("abrindo parte %s: %w", f.Name, err)
		}
		b, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("lendo parte %s: %w", f.Name, err)
		}
		d.setPart(f.Name, b)
	}
	if err := d.load(); err != nil {
		return nil, err
	}
	return d, nil
}

// New returns a blank document carrying the default style table.
func New() *Document {
	d := &Document{parts: map[string][]byte{}, imported: map[importKey]string{}}
	for _, p := range blankParts() {
		d.setPart(p.name, []byte(p.data))
	}
	if err := d.load(); err != nil {
		panic(fmt.Sprintf("modelo interno inválido: %v", err))
	}
	return d
}

func (d *Document) load() error {
	types, err := parsePart(d.parts, contentTypesPart)
	if err != nil {
		return err
	}
	d.types = types

	pkgRels, err := parsePart(d.parts, packageRelsPart)
	if err != nil {
		return err
	}
	d.mainPath = "word/document.xml"
	for _, rel := range pkgRels.Root().SelectElements("Relationship") {
		if rel.SelectAttrValue("Type", "") == relTypeOfficeDocument {
			d.mainPath = strings.TrimPrefix(rel.SelectAttrValue("Target", d.mainPath), "/")
			break
		}
	}
	main, err := parsePart(d.parts, d.mainPath)
	if err != nil {
		return err
	}
	if main.Root() == nil || main.Root().SelectElement("w:body") == nil {
		return fmt.Errorf("%w: corpo do documento ausente", ErrNotDocx)
	}
	d.main = main

	dir, base := path.Split(d.mainPath)
	d.relsPath = dir + "_rels/" + base + ".rels"
	if _, ok := d.parts[d.relsPath]; !ok {
		d.setPart(d.relsPath, []byte(emptyRelationships))
	}
	rels, err := parsePart(d.parts, d.relsPath)
	if err != nil {
		return err
	}
	d.rels = rels

	for _, rel := range rels.Root().SelectElements("Relationship") {
		if rel.SelectAttrValue("Type", "") == relTypeStyles {
			d.stylesPath = resolveTarget(dir, rel.SelectAttrValue("Target", ""))
			break
		}
	}
	if d.stylesPath == "" || d.parts[d.stylesPath] == nil {
		d.stylesPath = dir + "styles.xml"
		d.setPart(d.stylesPath, []byte(defaultStylesXML))
		d.addRelationship(relTypeStyles, "styles.xml", "")
		d.ensureOverride("/"+d.stylesPath, stylesContentType)
	}
	styles, err := parsePart(d.parts, d.stylesPath)
	if err != nil {
		return err
	}
	d.styles = styles
	return nil
}

func parsePart(parts map[string][]byte, name string) (*etree.Document, error) {
	raw, ok := parts[name]
	if !ok {
		return nil, fmt.Errorf("%w: parte %s ausente", ErrNotDocx, name)
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(raw); err != nil {
		return nil, fmt.Errorf("%w: parte %s: %v", ErrNotDocx, name, err)
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("%w: parte %s vazia", ErrNotDocx, name)
	}
	return doc, nil
}

func (d *Document) setPart(name string, data []byte) {
	if _, ok := d.parts[name]; !ok {
		d.order = append(d.order, name)
	}
	d.parts[name] = data
}

func (d *Document) body() *etree.Element {
	return d.main.Root().SelectElement("w:body")
}

func (d *Document) Save(filePath string) error {
	f, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("criando arquivo %s: %w", filePath, err)
	}
	if _, err := d.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("salvando arquivo %s: %w", filePath, err)
	}
	return f.Close()
}

func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := d.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (d *Document) WriteTo(w io.Writer) (int64, error) {
	for name, tree := range map[string]*etree.Document{
		contentTypesPart: d.types,
		d.mainPath:       d.main,
		d.relsPath:       d.rels,
		d.stylesPath:     d.styles,
	} {
		b, err := tree.WriteToBytes()
		if err != nil {
			return 0, fmt.Errorf("serializando %s: %w", name, err)
		}
		d.parts[name] = b
	}

	cw := &countingWriter{w: w}
	zw := zip.NewWriter(cw)
	names := make([]string, 0, len(d.order))
	names = append(names, contentTypesPart)
	for _, name := range d.order {
		if name != contentTypesPart {
			names = append(names, name)
		}
	}
	for _, name := range names {
		fw, err := zw.Create(name)
		if err != nil {
			return cw.n, err
		}
		if _, err := fw.Write(d.parts[name]); err != nil {
			return cw.n, err
		}
	}
	if err := zw.Close(); err != nil {
		return cw.n, err
	}
	return cw.n, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

func (d *Document) Info() Info {
	info := Info{
		Paragraphs: len(d.Paragraphs()),
		Tables:     len(d.Tables()),
	}
	info.Images = len(d.body().FindElements(".//w:drawing")) + len(d.body().FindElements(".//w:pict"))
	return info
}

func (d *Document) addRelationship(relType, target, mode string) string {
	root := d.rels.Root()
	maxID := 0
	for _, rel := range root.SelectElements("Relationship") {
		id := rel.SelectAttrValue("Id", "")
		if n, err := strconv.Atoi(strings.TrimPrefix(id, "rId")); err == nil && n > maxID {
			maxID = n
		}
	}
	id := "rId" + strconv.Itoa(maxID+1)
	rel := root.CreateElement("Relationship")
	rel.CreateAttr("Id", id)
	rel.CreateAttr("Type", relType)
	rel.CreateAttr("Target", target)
	if mode != "" {
		rel.CreateAttr("TargetMode", mode)
	}
	return id
}

func (d *Document) relationship(id string) *etree.Element {
	for _, rel := range d.rels.Root().SelectElements("Relationship") {
		if rel.SelectAttrValue("Id", "") == id {
			return rel
		}
	}
	return nil
}

func (d *Document) contentTypeFor(partName string) string {
	root := d.types.Root()
	for _, o := range root.SelectElements("Override") {
		if strings.TrimPrefix(o.SelectAttrValue("PartName", ""), "/") == partName {
			return o.SelectAttrValue("ContentType", "")
		}
	}
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(partName)), ".")
	for _, def := range root.SelectElements("Default") {
		if strings.ToLower(def.SelectAttrValue("Extension", "")) == ext {
			return def.SelectAttrValue("ContentType", "")
		}
	}
	return ""
}

func (d *Document) ensureDefault(ext, contentType string) {
	ext = strings.ToLower(ext)
	if ext == "" || contentType == "" {
		return
	}
	root := d.types.Root()
	for _, def := range root.SelectElements("Default") {
		if strings.ToLower(def.SelectAttrValue("Extension", "")) == ext {
			return
		}
	}
	def := etree.NewElement("Default")
	def.CreateAttr("Extension", ext)
	def.CreateAttr("ContentType", contentType)
	root.InsertChildAt(0, def)
}

func (d *Document) ensureOverride(partName, contentType string) {
	root := d.types.Root()
	for _, o := range root.SelectElements("Override") {
		if o.SelectAttrValue("PartName", "") == partName {
			return
		}
	}
	o := root.CreateElement("Override")
	o.CreateAttr("PartName", partName)
	o.CreateAttr("ContentType", contentType)
}

func resolveTarget(dir, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Clean(dir + target)
}
