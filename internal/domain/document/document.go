// Package document models a receipt as an ordered list of content blocks,
// keeping layout decisions out of the rendering engine so rendering can be
// tested without one.
package document

type Block interface {
	block()
}

type Header struct {
	Title    string
	Subtitle string
}

type Badge struct {
	Label    string
	Positive bool
}

type Field struct {
	Label    string
	Value    string
	Emphasis bool
}

type Section struct {
	Title  string
	Fields []Field
}

type Image struct {
	PNG     []byte
	Caption string
}

type Footer struct {
	Lines []string
}

func (Header) block()  {}
func (Badge) block()   {}
func (Section) block() {}
func (Image) block()   {}
func (Footer) block()  {}

type Document struct {
	blocks []Block
}

func (d *Document) Add(b Block) {
	d.blocks = append(d.blocks, b)
}

func (d *Document) Blocks() []Block {
	return d.blocks
}

type Renderer interface {
	Render(doc *Document) ([]byte, error)
}
