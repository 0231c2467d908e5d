package mobtypes

import (
	"errors"
	"fmt"
)

// ErrNoResults marks a search that matched nothing. The session loop
// prints it more gently than other failures.
var ErrNoResults = errors.New("no results")

// UnsupportedVerbError reports a sentence applied to a subject kind it
// cannot work on, e.g. `add` while focusing an artist.
type UnsupportedVerbError struct {
	Subject string
	Verb    string
}

func (e *UnsupportedVerbError) Error() string {
	return fmt.Sprintf("'%s' does not support %s", e.Subject, e.Verb)
}

// UnsupportedQueryError reports a query kind a sentence cannot accept,
// e.g. adding an artist to a playlist.
type UnsupportedQueryError struct {
	Verb  string
	Query string
}

func (e *UnsupportedQueryError) Error() string {
	return fmt.Sprintf("%s does not accept '%s'", e.Verb, e.Query)
}
