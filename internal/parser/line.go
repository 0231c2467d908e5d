// Package parser turns one scanned line into a sentence/query pair.
// The grammar is deliberately tiny: four control keywords, a registry
// of sentence names, and subshell names; anything else defines a new
// subshell. Symbols carry no meaning so mob names stay typeable.
package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"streamsort/pkg/mobtypes"
)

// Control keywords. They win every namespace collision: reserved
// control beats the sentence registry, which beats the scope store.
const (
	kwIn    = "in"
	kwAfter = "after"
	kwTrack = "track"
	kwNom   = "nom"
)

// Registry is the sentence catalog the interpreter resolves names
// against. It is supplied by the caller so extensions registered before
// the session loop starts are visible here without any coupling.
type Registry interface {
	Get(name string) (mobtypes.Sentence, bool)
}

var (
	errMissingScopeName  = errors.New("Missing subshell name after 'in'")
	errUnknownScopeName  = errors.New("Invalid subshell name after 'in'")
	errParamStartsWithIn = errors.New("Parameter may not start with 'in'. Perhaps use 'nom in'")
)

// Interpret consumes the cursor and produces the single sentence/query
// pair the session loop will apply. Recursive calls share the cursor.
//
// An empty cursor yields the identity sentence with no query, so blank
// lines are harmless.
func Interpret(st mobtypes.State, cur *Cursor, reg Registry) (mobtypes.Sentence, mobtypes.Query, error) {
	token, ok := cur.Next()
	if !ok {
		return mobtypes.Identity, mobtypes.NoQuery(), nil
	}
	switch token {
	case kwIn:
		return interpretIn(st, cur, reg)
	case kwAfter:
		// A leading `after` is superfluous: the line means whatever
		// follows it.
		return Interpret(st, cur, reg)
	case kwTrack:
		return interpretTrackLoad(st, cur)
	case kwNom:
		return mobtypes.Identity, joinedQuery(cur.Rest()), nil
	}
	if sentence, found := reg.Get(token); found {
		return interpretSentence(st, cur, reg, sentence)
	}
	if scope, found := st.Scopes.Get(token); found {
		if _, trailing := cur.Peek(); trailing {
			return nil, mobtypes.NoQuery(), fmt.Errorf(
				"Subshell loading does not take a parameter. Perhaps use 'in %s ...'", token)
		}
		load := func(mobtypes.State, mobtypes.Query) (mobtypes.State, error) {
			return scope, nil
		}
		return load, mobtypes.NoQuery(), nil
	}
	return interpretDefine(st, cur, reg, token)
}

// interpretSentence handles a line whose first token named a sentence.
// One token of lookahead decides between a branch control and the
// literal-text fallback; on no match the peeked token stays in place
// and becomes the first word of the parameter.
func interpretSentence(st mobtypes.State, cur *Cursor, reg Registry, sentence mobtypes.Sentence) (mobtypes.Sentence, mobtypes.Query, error) {
	branch, _ := cur.Peek()
	switch branch {
	case kwIn:
		return nil, mobtypes.NoQuery(), errParamStartsWithIn
	case kwAfter:
		cur.Next()
		query, err := resolveAfter(st, cur, reg)
		if err != nil {
			return nil, mobtypes.NoQuery(), err
		}
		return sentence, query, nil
	case kwTrack:
		cur.Next()
		mob, err := resolveTrack(st, cur)
		if err != nil {
			return nil, mobtypes.NoQuery(), err
		}
		return sentence, mobtypes.MobQuery(mob), nil
	case kwNom:
		cur.Next()
		return sentence, joinedQuery(cur.Rest()), nil
	}
	return sentence, joinedQuery(cur.Rest()), nil
}

// interpretIn extends a stored subshell: the rest of the line is
// interpreted and applied against that subshell's own state, and the
// returned sentence writes the result back into the subject's scope
// store. The outer focus never changes.
func interpretIn(st mobtypes.State, cur *Cursor, reg Registry) (mobtypes.Sentence, mobtypes.Query, error) {
	name, ok := cur.Next()
	if !ok {
		return nil, mobtypes.NoQuery(), errMissingScopeName
	}
	scope, found := st.Scopes.Get(name)
	if !found {
		return nil, mobtypes.NoQuery(), errUnknownScopeName
	}
	sentence, query, err := Interpret(scope, cur, reg)
	if err != nil {
		return nil, mobtypes.NoQuery(), err
	}
	updated, err := sentence(scope, query)
	if err != nil {
		return nil, mobtypes.NoQuery(), err
	}
	write := func(subject mobtypes.State, _ mobtypes.Query) (mobtypes.State, error) {
		return subject.WithScope(name, updated), nil
	}
	return write, mobtypes.NoQuery(), nil
}

// interpretDefine creates a subshell: the rest of the line runs against
// a snapshot of the current state and the result is stored under the
// new name when the returned sentence is applied.
func interpretDefine(st mobtypes.State, cur *Cursor, reg Registry, name string) (mobtypes.Sentence, mobtypes.Query, error) {
	sentence, query, err := Interpret(st, cur, reg)
	if err != nil {
		return nil, mobtypes.NoQuery(), err
	}
	snapshot, err := sentence(st, query)
	if err != nil {
		return nil, mobtypes.NoQuery(), err
	}
	write := func(subject mobtypes.State, _ mobtypes.Query) (mobtypes.State, error) {
		return subject.WithScope(name, snapshot), nil
	}
	return write, mobtypes.NoQuery(), nil
}

// interpretTrackLoad handles `track` at the head of a line: the
// resolved item becomes the new focus when the sentence is applied.
func interpretTrackLoad(st mobtypes.State, cur *Cursor) (mobtypes.Sentence, mobtypes.Query, error) {
	mob, err := resolveTrack(st, cur)
	if err != nil {
		return nil, mobtypes.NoQuery(), err
	}
	load := func(subject mobtypes.State, _ mobtypes.Query) (mobtypes.State, error) {
		return subject.WithMob(mob), nil
	}
	return load, mobtypes.NoQuery(), nil
}

// resolveAfter evaluates the rest of the line against the current state
// and yields its resulting focus, so a preceding sentence receives a
// pipeline of the inner line's subject.
func resolveAfter(st mobtypes.State, cur *Cursor, reg Registry) (mobtypes.Query, error) {
	sentence, query, err := Interpret(st, cur, reg)
	if err != nil {
		return mobtypes.NoQuery(), err
	}
	applied, err := sentence(st, query)
	if err != nil {
		return mobtypes.NoQuery(), err
	}
	return mobtypes.MobQuery(applied.Mob), nil
}

// resolveTrack picks an item out of the focused mob's collection, by
// 1-indexed position or by case-insensitive name. Position lookups
// fetch further pages only when the index lies beyond what is already
// materialized.
func resolveTrack(st mobtypes.State, cur *Cursor) (mobtypes.Mob, error) {
	token, ok := cur.Next()
	if !ok {
		return mobtypes.Mob{}, errors.New("Missing parameter after 'track'")
	}
	page := st.Mob.Items
	if page == nil {
		return mobtypes.Mob{}, fmt.Errorf("'%s' does not contain tracks", st.Mob.Name)
	}
	if n, err := strconv.Atoi(token); err == nil && n > 0 {
		return trackByIndex(page, n)
	}
	name := token
	if rest := cur.Rest(); len(rest) > 0 {
		name += " " + strings.Join(rest, " ")
	}
	return trackByName(page, name)
}

func trackByIndex(page *mobtypes.ItemPage, n int) (mobtypes.Mob, error) {
	seen := 0
	for {
		if n-1 < seen+len(page.Items) {
			return page.Items[n-1-seen], nil
		}
		if !page.HasNext() {
			return mobtypes.Mob{}, fmt.Errorf("Track %d was not found", n)
		}
		seen += len(page.Items)
		next, err := page.NextPage()
		if err != nil {
			return mobtypes.Mob{}, err
		}
		if next == nil {
			return mobtypes.Mob{}, fmt.Errorf("Track %d was not found", n)
		}
		page = next
	}
}

func trackByName(page *mobtypes.ItemPage, name string) (mobtypes.Mob, error) {
	for page != nil {
		for _, item := range page.Items {
			if strings.EqualFold(item.Name, name) {
				return item, nil
			}
		}
		if !page.HasNext() {
			break
		}
		next, err := page.NextPage()
		if err != nil {
			return mobtypes.Mob{}, err
		}
		page = next
	}
	return mobtypes.Mob{}, fmt.Errorf("Track %s was not found", name)
}

func joinedQuery(tokens []string) mobtypes.Query {
	return mobtypes.TextQuery(strings.Join(tokens, " "))
}
