package render

// Kind identifies a payload variant.
type Kind int

const (
	KindPlainText Kind = iota
	KindLines
	KindKeyValue
	KindMixedMarkdownCode
	KindCodeBlock
	KindError
)

// Payload is anything the Renderer knows how to draw.
type Payload interface {
	Kind() Kind
}

// PlainText is written verbatim followed by a newline.
type PlainText string

// Lines is a titled list, one item per line.
type Lines struct {
	Title    string
	Items    []string
	Numbered bool
	// Empty is printed instead of the list when Items is empty.
	Empty string
	// Footer is printed after a non-empty list.
	Footer string
}

// Field is one labelled value of a KeyValueBlock.
type Field struct {
	Label string
	Value string
}

// KeyValueBlock is a titled list of labelled values in order.
type KeyValueBlock struct {
	Title  string
	Fields []Field
}

// MixedMarkdownCode is a model response. When Language is set, fenced
// segments are highlighted as code and the rest is rendered as markdown.
type MixedMarkdownCode struct {
	Text     string
	Language string
}

// CodeBlock is a whole file or snippet shown with highlighting.
type CodeBlock struct {
	Title    string
	Language string
	Code     string
}

// ErrorMessage is shown in a red box on the error stream.
type ErrorMessage struct {
	Err error
}

func (PlainText) Kind() Kind         { return KindPlainText }
func (Lines) Kind() Kind             { return KindLines }
func (KeyValueBlock) Kind() Kind     { return KindKeyValue }
func (MixedMarkdownCode) Kind() Kind { return KindMixedMarkdownCode }
func (CodeBlock) Kind() Kind         { return KindCodeBlock }
func (ErrorMessage) Kind() Kind      { return KindError }
