package mapfile

// Cursor walks the lines of one section. Parsers that consume a variable
// number of lines (regions, wrapped records) share a Cursor so the caller
// resumes exactly where the callee stopped.
type Cursor struct {
	section *Section
	pos     int
}

// NewCursor returns a cursor on the first line of s.
func NewCursor(s *Section) *Cursor {
	return &Cursor{section: s}
}

// AtEnd reports whether every line has been consumed.
func (c *Cursor) AtEnd() bool {
	return c.pos >= len(c.section.Lines)
}

// Peek returns the current line without consuming it.
func (c *Cursor) Peek() (string, bool) {
	if c.AtEnd() {
		return "", false
	}
	return c.section.Lines[c.pos], true
}

// Advance consumes and returns the current line.
func (c *Cursor) Advance() string {
	line, _ := c.Peek()
	if !c.AtEnd() {
		c.pos++
	}
	return line
}

// Pos is the index of the current line within the section.
func (c *Cursor) Pos() int {
	return c.pos
}

// LineNo is the report line number of the current line.
func (c *Cursor) LineNo() int {
	return c.section.LineNo(c.pos)
}

// Section is the section being walked.
func (c *Cursor) Section() *Section {
	return c.section
}
