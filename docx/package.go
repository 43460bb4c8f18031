package docx

import (
	"archive/zip"
	"fmt"
	"io"
	"os"

	"github.com/beevik/etree"
)

const bulletNumbering = "1"

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>
<Override PartName="/word/numbering.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.numbering+xml"/>
<Override PartName="/docProps/core.xml" ContentType="application/vnd.openxmlformats-package.core-properties+xml"/>
</Types>`

const packageRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties" Target="docProps/core.xml"/>
</Relationships>`

const documentRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>
<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/numbering" Target="numbering.xml"/>
</Relationships>`

const numberingXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:numbering xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:abstractNum w:abstractNumId="0">
<w:multiLevelType w:val="singleLevel"/>
<w:lvl w:ilvl="0">
<w:start w:val="1"/>
<w:numFmt w:val="bullet"/>
<w:lvlText w:val="•"/>
<w:lvlJc w:val="left"/>
<w:pPr><w:ind w:left="420" w:hanging="420"/></w:pPr>
</w:lvl>
</w:abstractNum>
<w:num w:numId="1"><w:abstractNumId w:val="0"/></w:num>
</w:numbering>`

// part is one file of the package
type part struct {
	name    string
	content string
}

func (d *Document) parts() ([]part, error) {
	document, err := d.DocumentXML()
	if err != nil {
		return nil, fmt.Errorf("failed to render document part: %w", err)
	}

	styles, err := d.stylesXML()
	if err != nil {
		return nil, fmt.Errorf("failed to render styles part: %w", err)
	}

	core, err := d.coreXML()
	if err != nil {
		return nil, fmt.Errorf("failed to render core properties: %w", err)
	}

	return []part{
		{name: "[Content_Types].xml", content: contentTypesXML},
		{name: "_rels/.rels", content: packageRelsXML},
		{name: "word/document.xml", content: document},
		{name: "word/_rels/document.xml.rels", content: documentRelsXML},
		{name: "word/styles.xml", content: styles},
		{name: "word/numbering.xml", content: numberingXML},
		{name: "docProps/core.xml", content: core},
	}, nil
}

// Write writes the complete .docx package to w
func (d *Document) Write(w io.Writer) error {
	parts, err := d.parts()
	if err != nil {
		return err
	}

	archive := zip.NewWriter(w)

	for _, p := range parts {
		f, err := archive.Create(p.name)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", p.name, err)
		}

		if _, err := io.WriteString(f, p.content); err != nil {
			return fmt.Errorf("failed to write %s: %w", p.name, err)
		}
	}

	if err := archive.Close(); err != nil {
		return fmt.Errorf("failed to finish package: %w", err)
	}

	return nil
}

// Save writes the package to path
func (d *Document) Save(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	if err := d.Write(file); err != nil {
		file.Close()
		return err
	}

	return file.Close()
}

func (d *Document) stylesXML() (string, error) {
	fonts := d.config.Fonts

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)

	root := doc.CreateElement("w:styles")
	root.CreateAttr("xmlns:w", WordNamespace)

	rPrDefault := root.CreateElement("w:docDefaults").CreateElement("w:rPrDefault").CreateElement("w:rPr")
	styleFonts(rPrDefault, fonts.Body)
	setVal(rPrDefault.CreateElement("w:sz"), halfPoints(fonts.BodySize))
	setVal(rPrDefault.CreateElement("w:szCs"), halfPoints(fonts.BodySize))

	normal := style(root, "paragraph", "Normal", "Normal", "")
	normal.CreateAttr("w:default", "1")

	headingSizes := []float64{fonts.Heading1, fonts.Heading2, fonts.BodySize}
	for i, size := range headingSizes {
		level := i + 1
		heading := style(root, "paragraph", fmt.Sprintf("Heading%d", level), fmt.Sprintf("heading %d", level), "Normal")
		setVal(heading.CreateElement("w:next"), "Normal")

		pPr := heading.CreateElement("w:pPr")
		pPr.CreateElement("w:keepNext")
		spacing(pPr, 12, 6)
		setVal(pPr.CreateElement("w:outlineLvl"), fmt.Sprint(i))

		rPr := heading.CreateElement("w:rPr")
		styleFonts(rPr, fonts.Heading)
		rPr.CreateElement("w:b")
		setVal(rPr.CreateElement("w:sz"), halfPoints(size))
		setVal(rPr.CreateElement("w:szCs"), halfPoints(size))
	}

	bullet := style(root, "paragraph", "ListBullet", "List Bullet", "Normal")
	numPr := bullet.CreateElement("w:pPr").CreateElement("w:numPr")
	setVal(numPr.CreateElement("w:numId"), bulletNumbering)

	style(root, "table", "TableGrid", "Table Grid", "")

	doc.Indent(2)

	return doc.WriteToString()
}

func style(root *etree.Element, kind, id, name, basedOn string) *etree.Element {
	s := root.CreateElement("w:style")
	s.CreateAttr("w:type", kind)
	s.CreateAttr("w:styleId", id)
	setVal(s.CreateElement("w:name"), name)

	if basedOn != "" {
		setVal(s.CreateElement("w:basedOn"), basedOn)
	}

	return s
}

func styleFonts(rPr *etree.Element, font string) {
	fonts := rPr.CreateElement("w:rFonts")
	for _, attr := range []string{"w:ascii", "w:hAnsi", "w:eastAsia", "w:cs"} {
		fonts.CreateAttr(attr, font)
	}
}

func (d *Document) coreXML() (string, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)

	root := doc.CreateElement("cp:coreProperties")
	root.CreateAttr("xmlns:cp", "http://schemas.openxmlformats.org/package/2006/metadata/core-properties")
	root.CreateAttr("xmlns:dc", "http://purl.org/dc/elements/1.1/")

	if d.title != "" {
		root.CreateElement("dc:title").SetText(d.title)
	}

	root.CreateElement("dc:creator").SetText("mdomml")

	return doc.WriteToString()
}
