// Package sentences implements the operation catalog: named functions
// of shape (State, Query) -> State that the interpreter dispatches to.
// Builtins wrap the Spotify session; extensions register alongside them
// before the session loop starts.
package sentences

import (
	"fmt"
	"sort"
	"sync"

	"streamsort/internal/interaction"
	"streamsort/pkg/mobtypes"
)

// FetchFunc returns the first page of a remote listing.
type FetchFunc func() (*mobtypes.ItemPage, error)

// Library answers membership questions about the user's liked songs.
type Library interface {
	Contains(mobtypes.Mob) bool
}

// LibraryFunc obtains the (possibly cached) liked-songs library, given
// a fetcher for the live listing.
type LibraryFunc func(fetch FetchFunc) (Library, error)

// Options carries the capabilities the builtins need beyond the State
// they receive: user interaction hooks and the liked-songs library.
// Both are injected here so nothing in this package touches globals.
type Options struct {
	IO      interaction.IO
	Library LibraryFunc
}

// Registry maps sentence names to implementations. Lookup is
// thread-safe; registration happens before the session loop starts.
type Registry struct {
	mu        sync.RWMutex
	sentences map[string]mobtypes.Sentence
}

// NewRegistry builds a registry holding the builtin sentences.
func NewRegistry(opts Options) *Registry {
	if opts.IO.Confirm == nil || opts.IO.Notify == nil {
		opts.IO = interaction.Default()
	}
	open := Open(opts)
	return &Registry{
		sentences: map[string]mobtypes.Sentence{
			"open":   open,
			"get":    open,
			"add":    Add(opts),
			"remove": Remove(opts),
			"play":   Play(opts),
			"all":    All(opts),
			"new":    New(opts),
		},
	}
}

// Register adds a sentence. Returns an error on an empty name or a
// name that is already taken.
func (r *Registry) Register(name string, sentence mobtypes.Sentence) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if name == "" {
		return fmt.Errorf("sentence name cannot be empty")
	}
	if _, exists := r.sentences[name]; exists {
		return fmt.Errorf("sentence %s already registered", name)
	}
	r.sentences[name] = sentence
	return nil
}

// Get retrieves a sentence by name. Satisfies the interpreter's
// registry interface.
func (r *Registry) Get(name string) (mobtypes.Sentence, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sentences[name]
	return s, ok
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.sentences))
	for name := range r.sentences {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
