package mobtypes

// Query is the parameter handed to a sentence: absent, literal text, or
// an already-resolved mob.
type Query struct {
	text string
	mob  *Mob
}

// NoQuery returns the absent query.
func NoQuery() Query { return Query{} }

// TextQuery wraps literal text. Empty text is the absent query.
func TextQuery(s string) Query { return Query{text: s} }

// MobQuery wraps a resolved mob.
func MobQuery(m Mob) Query { return Query{mob: &m} }

// Text returns the literal text and whether the query is textual.
func (q Query) Text() (string, bool) { return q.text, q.mob == nil && q.text != "" }

// Mob returns the resolved mob and whether the query carries one.
func (q Query) Mob() (Mob, bool) {
	if q.mob == nil {
		return Mob{}, false
	}
	return *q.mob, true
}

// IsEmpty reports whether the query is absent.
func (q Query) IsEmpty() bool { return q.mob == nil && q.text == "" }

// String renders the query for error messages.
func (q Query) String() string {
	if q.mob != nil {
		return q.mob.Name
	}
	return q.text
}
