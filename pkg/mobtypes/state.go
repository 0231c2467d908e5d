package mobtypes

// Sentence is a named shell operation: it takes the current state and a
// query and produces the next state. Sentences never mutate their
// inputs.
type Sentence func(State, Query) (State, error)

// Identity returns its subject unchanged.
func Identity(subject State, _ Query) (State, error) { return subject, nil }

// State is one snapshot of the shell: the remote session handle, the
// focused mob, and the named subshell scopes. A new State value is
// produced on every successful line; nothing is updated in place.
type State struct {
	API    Session
	Mob    Mob
	Scopes Scopes
}

// WithMob returns a copy of the state focusing m.
func (s State) WithMob(m Mob) State { return State{API: s.API, Mob: m, Scopes: s.Scopes} }

// WithScope returns a copy of the state whose scope store has one entry
// replaced or added.
func (s State) WithScope(name string, scope State) State {
	return State{API: s.API, Mob: s.Mob, Scopes: s.Scopes.With(name, scope)}
}

// WithAPI returns a copy of the state carrying a fresh session handle,
// in the state itself and in every stored scope. Used after a
// reconnect, when focus and scopes survive but the old handle is dead.
func (s State) WithAPI(api Session) State {
	scopes := make(Scopes, len(s.Scopes))
	for name, scope := range s.Scopes {
		scopes[name] = scope.WithAPI(api)
	}
	return State{API: api, Mob: s.Mob, Scopes: scopes}
}

// Scopes maps subshell names to stored state snapshots. It is used
// copy-on-write: With builds a new map, entries are never removed
// implicitly.
type Scopes map[string]State

// Get looks up a scope. Absence is an ordinary outcome, not an error,
// so the interpreter can treat an unknown name as a definition.
func (s Scopes) Get(name string) (State, bool) {
	st, ok := s[name]
	return st, ok
}

// With returns a copy of the store with one entry replaced or added.
func (s Scopes) With(name string, st State) Scopes {
	next := make(Scopes, len(s)+1)
	for k, v := range s {
		next[k] = v
	}
	next[name] = st
	return next
}
