package parser

// Cursor walks a token sequence. Interpretation is recursive and the
// recursion shares one cursor, so consumption must be visible to every
// caller; an explicit position index keeps that sharing honest.
type Cursor struct {
	tokens []string
	pos    int
}

// NewCursor wraps a scanned token sequence.
func NewCursor(tokens []string) *Cursor { return &Cursor{tokens: tokens} }

// Next pops the next token.
func (c *Cursor) Next() (string, bool) {
	if c.pos >= len(c.tokens) {
		return "", false
	}
	tok := c.tokens[c.pos]
	c.pos++
	return tok, true
}

// Peek returns the next token without consuming it, so the no-match
// path of a lookahead keeps the token available.
func (c *Cursor) Peek() (string, bool) {
	if c.pos >= len(c.tokens) {
		return "", false
	}
	return c.tokens[c.pos], true
}

// Rest consumes and returns everything remaining.
func (c *Cursor) Rest() []string {
	rest := c.tokens[c.pos:]
	c.pos = len(c.tokens)
	return rest
}
