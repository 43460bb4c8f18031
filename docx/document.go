// Package docx writes WordprocessingML documents with native Office Math.
package docx

import (
	"math"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/shibukawa/mdomml"
	"github.com/shibukawa/mdomml/assembler"
	"github.com/shibukawa/mdomml/omml"
)

// XML namespaces of the main document part
const (
	WordNamespace         = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	RelationshipNamespace = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
)

// A4 portrait in twips
const (
	pageWidth  = 11906
	pageHeight = 16838
)

// Document accumulates body content in document order
type Document struct {
	config *mdomml.Config
	body   *etree.Element
	title  string
}

// New creates an empty document styled by config
func New(config *mdomml.Config) *Document {
	if config == nil {
		config = mdomml.DefaultConfig()
	}

	return &Document{
		config: config,
		body:   etree.NewElement("w:body"),
	}
}

// runStyle is the character formatting of one text run
type runStyle struct {
	font   string
	size   float64
	bold   bool
	italic bool
}

// Title adds the centred document title. The first title also names the package.
func (d *Document) Title(text string) {
	if d.title == "" {
		d.title = text
	}

	p := d.paragraph("", func(pPr *etree.Element) {
		spacing(pPr, 24, 24)
		justify(pPr, "center")
	})
	d.textRun(p, text, runStyle{font: d.config.Fonts.Heading, size: d.config.Fonts.TitleSize, bold: true})
}

// Heading adds a section heading. Level 1 and 2 take the configured sizes, deeper
// levels the body size.
func (d *Document) Heading(level int, text string) {
	level = min(max(level, 1), 3)

	size := d.config.Fonts.BodySize
	switch level {
	case 1:
		size = d.config.Fonts.Heading1
	case 2:
		size = d.config.Fonts.Heading2
	}

	p := d.paragraph("Heading"+strconv.Itoa(level), nil)
	d.textRun(p, text, runStyle{font: d.config.Fonts.Heading, size: size, bold: true})
}

// Paragraph adds a body paragraph with a first-line indent
func (d *Document) Paragraph(runs []assembler.Run) {
	p := d.paragraph("", func(pPr *etree.Element) {
		ind := pPr.CreateElement("w:ind")
		ind.CreateAttr("w:firstLine", twips(d.config.Fonts.FirstIndent))
	})
	d.runs(p, runs)
}

// Bullet adds a bulleted list item
func (d *Document) Bullet(runs []assembler.Run) {
	p := d.paragraph("ListBullet", func(pPr *etree.Element) {
		numPr := pPr.CreateElement("w:numPr")
		setVal(numPr.CreateElement("w:ilvl"), "0")
		setVal(numPr.CreateElement("w:numId"), bulletNumbering)
	})
	d.runs(p, runs)
}

// Formula adds a centred display formula
func (d *Document) Formula(run assembler.Run) {
	p := d.paragraph("", func(pPr *etree.Element) {
		spacing(pPr, 6, 6)
		justify(pPr, "center")
	})

	if run.Kind == assembler.Math {
		p.AddChild(omml.Marshal(run.Equation, true))
		return
	}

	d.textRun(p, run.Text, d.fallbackStyle())
}

// Table adds a bordered grid. The header row is bold, rows shorter than the widest
// row are padded with empty cells.
func (d *Document) Table(header []string, rows [][]string) {
	all := rows
	if len(header) > 0 {
		all = append([][]string{header}, rows...)
	}

	columns := 0
	for _, row := range all {
		columns = max(columns, len(row))
	}

	if columns == 0 {
		return
	}

	available := pageWidth - twipsValue(d.config.Page.MarginLeft) - twipsValue(d.config.Page.MarginRight)
	width := strconv.Itoa(available / columns)

	tbl := d.body.CreateElement("w:tbl")

	tblPr := tbl.CreateElement("w:tblPr")
	setVal(tblPr.CreateElement("w:tblStyle"), "TableGrid")
	tblW := tblPr.CreateElement("w:tblW")
	tblW.CreateAttr("w:w", "0")
	tblW.CreateAttr("w:type", "auto")
	setVal(tblPr.CreateElement("w:jc"), "center")

	borders := tblPr.CreateElement("w:tblBorders")
	for _, side := range []string{"top", "left", "bottom", "right", "insideH", "insideV"} {
		border := borders.CreateElement("w:" + side)
		border.CreateAttr("w:val", "single")
		border.CreateAttr("w:sz", "4")
		border.CreateAttr("w:space", "0")
		border.CreateAttr("w:color", "auto")
	}

	grid := tbl.CreateElement("w:tblGrid")
	for range columns {
		grid.CreateElement("w:gridCol").CreateAttr("w:w", width)
	}

	for i, row := range all {
		tr := tbl.CreateElement("w:tr")
		bold := i == 0 && len(header) > 0

		for column := range columns {
			tc := tr.CreateElement("w:tc")
			tcW := tc.CreateElement("w:tcPr").CreateElement("w:tcW")
			tcW.CreateAttr("w:w", width)
			tcW.CreateAttr("w:type", "dxa")

			p := tc.CreateElement("w:p")
			justify(p.CreateElement("w:pPr"), "center")

			if column < len(row) && row[column] != "" {
				d.textRun(p, row[column], runStyle{font: d.config.Fonts.Body, size: d.config.Fonts.TableSize, bold: bold})
			}
		}
	}
}

// Code adds one unindented paragraph per source line
func (d *Document) Code(text string) {
	for _, line := range strings.Split(text, "\n") {
		p := d.paragraph("", nil)
		if line != "" {
			d.textRun(p, line, runStyle{font: d.config.Fonts.Code, size: d.config.Fonts.TableSize})
		}
	}
}

// paragraph appends a w:p whose properties are filled by props
func (d *Document) paragraph(style string, props func(pPr *etree.Element)) *etree.Element {
	p := d.body.CreateElement("w:p")

	if style == "" && props == nil {
		return p
	}

	pPr := p.CreateElement("w:pPr")
	if style != "" {
		setVal(pPr.CreateElement("w:pStyle"), style)
	}

	if props != nil {
		props(pPr)
	}

	return p
}

func (d *Document) runs(p *etree.Element, runs []assembler.Run) {
	for _, run := range runs {
		switch run.Kind {
		case assembler.Math:
			p.AddChild(omml.Marshal(run.Equation, false))
		case assembler.Fallback:
			d.textRun(p, run.Text, d.fallbackStyle())
		default:
			if run.Text != "" {
				d.textRun(p, run.Text, runStyle{font: d.config.Fonts.Body, size: d.config.Fonts.BodySize, bold: run.Bold})
			}
		}
	}
}

func (d *Document) fallbackStyle() runStyle {
	return runStyle{font: d.config.Fonts.Math, size: d.config.Fonts.BodySize, italic: true}
}

func (d *Document) textRun(p *etree.Element, text string, style runStyle) {
	r := p.CreateElement("w:r")

	rPr := r.CreateElement("w:rPr")
	fonts := rPr.CreateElement("w:rFonts")
	for _, attr := range []string{"w:ascii", "w:hAnsi", "w:eastAsia", "w:cs"} {
		fonts.CreateAttr(attr, style.font)
	}

	if style.bold {
		rPr.CreateElement("w:b")
	}

	if style.italic {
		rPr.CreateElement("w:i")
	}

	setVal(rPr.CreateElement("w:sz"), halfPoints(style.size))
	setVal(rPr.CreateElement("w:szCs"), halfPoints(style.size))

	t := r.CreateElement("w:t")
	if strings.TrimSpace(text) != text {
		t.CreateAttr("xml:space", "preserve")
	}

	t.SetText(text)
}

// sectionProperties describes the page size and margins
func (d *Document) sectionProperties() *etree.Element {
	sectPr := etree.NewElement("w:sectPr")

	pgSz := sectPr.CreateElement("w:pgSz")
	pgSz.CreateAttr("w:w", strconv.Itoa(pageWidth))
	pgSz.CreateAttr("w:h", strconv.Itoa(pageHeight))

	pgMar := sectPr.CreateElement("w:pgMar")
	pgMar.CreateAttr("w:top", twips(d.config.Page.MarginTop))
	pgMar.CreateAttr("w:right", twips(d.config.Page.MarginRight))
	pgMar.CreateAttr("w:bottom", twips(d.config.Page.MarginBottom))
	pgMar.CreateAttr("w:left", twips(d.config.Page.MarginLeft))
	pgMar.CreateAttr("w:header", "851")
	pgMar.CreateAttr("w:footer", "992")
	pgMar.CreateAttr("w:gutter", "0")

	return sectPr
}

// DocumentXML renders the main document part
func (d *Document) DocumentXML() (string, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)

	root := doc.CreateElement("w:document")
	root.CreateAttr("xmlns:w", WordNamespace)
	root.CreateAttr("xmlns:m", omml.Namespace)
	root.CreateAttr("xmlns:r", RelationshipNamespace)

	body := d.body.Copy()
	body.AddChild(d.sectionProperties())
	root.AddChild(body)

	return doc.WriteToString()
}

func spacing(pPr *etree.Element, before, after float64) {
	s := pPr.CreateElement("w:spacing")
	s.CreateAttr("w:before", strconv.Itoa(int(math.Round(before*20))))
	s.CreateAttr("w:after", strconv.Itoa(int(math.Round(after*20))))
}

func justify(pPr *etree.Element, value string) {
	setVal(pPr.CreateElement("w:jc"), value)
}

func setVal(element *etree.Element, value string) {
	element.CreateAttr("w:val", value)
}

// halfPoints converts a font size in points to the w:sz unit
func halfPoints(points float64) string {
	return strconv.Itoa(int(math.Round(points * 2)))
}

func twipsValue(cm float64) int {
	return int(math.Round(cm * 1440 / 2.54))
}

func twips(cm float64) string {
	return strconv.Itoa(twipsValue(cm))
}
