package paragraph

// Builder assembles styled text into a Paragraph. Styles form a stack:
// text is added with the style on top, or the paragraph's text style when
// the stack is empty.
type Builder struct {
	style  ParagraphStyle
	collab Collaborators
	stack  []TextStyle
	text   []rune
	runs   []StyledRun
}

// NewBuilder creates a builder for a paragraph with the given style.
func NewBuilder(style ParagraphStyle, collab Collaborators) *Builder {
	return &Builder{style: style, collab: collab}
}

// PushStyle makes st the style of subsequently added text.
func (b *Builder) PushStyle(st TextStyle) {
	b.stack = append(b.stack, st)
}

// Pop restores the previous style. Popping an empty stack does nothing.
func (b *Builder) Pop() {
	if n := len(b.stack); n > 0 {
		b.stack = b.stack[:n-1]
	}
}

// PeekStyle returns the current style.
func (b *Builder) PeekStyle() TextStyle {
	if n := len(b.stack); n > 0 {
		return b.stack[n-1]
	}
	return b.style.TextStyle
}

// AddText appends s with the current style. Adjacent text with an equal
// style shares one run.
func (b *Builder) AddText(s string) {
	added := []rune(s)
	if len(added) == 0 {
		return
	}
	st := b.PeekStyle()
	start := len(b.text)
	b.text = append(b.text, added...)
	if n := len(b.runs); n > 0 && b.runs[n-1].Style.Equal(&st) {
		b.runs[n-1].End = len(b.text)
		return
	}
	b.runs = append(b.runs, StyledRun{Start: start, End: len(b.text), Style: st})
}

// Build creates the paragraph. The builder may keep adding text afterwards
// without affecting the built paragraph.
func (b *Builder) Build() (*Paragraph, error) {
	return New(b.text, b.runs, b.style, b.collab)
}
