// Package testutils provides shared test doubles, most importantly an
// in-memory Session fake, so sentence, extension, and shell tests don't
// each grow their own.
package testutils

import (
	"fmt"

	"streamsort/pkg/mobtypes"
)

// PlayCall records one Play invocation.
type PlayCall struct {
	ContextURI string
	OffsetURI  string
	URIs       []string
}

// FakeSession implements mobtypes.Session in memory and records every
// mutating call for assertions.
type FakeSession struct {
	UserMob mobtypes.Mob
	Mobs    map[string]mobtypes.Mob // "kind:id" -> full object
	Results map[mobtypes.Kind][]mobtypes.Mob
	Saved   []mobtypes.Mob

	Searches  []string
	Added     map[string][][]string
	Removed   map[string][][]string
	Created   []string
	Plays     []PlayCall
	LoggedOut bool

	// LogoutErr makes Logout fail when set.
	LogoutErr error
}

// NewFakeSession returns an empty fake.
func NewFakeSession() *FakeSession {
	return &FakeSession{
		Mobs:    map[string]mobtypes.Mob{},
		Results: map[mobtypes.Kind][]mobtypes.Mob{},
		Added:   map[string][][]string{},
		Removed: map[string][][]string{},
	}
}

// Put registers a mob for Lookup.
func (f *FakeSession) Put(m mobtypes.Mob) {
	f.Mobs[string(m.Kind)+":"+m.ID] = m
}

// Me implements mobtypes.Session.
func (f *FakeSession) Me() (mobtypes.Mob, error) { return f.UserMob, nil }

// Lookup implements mobtypes.Session.
func (f *FakeSession) Lookup(kind mobtypes.Kind, id string) (mobtypes.Mob, error) {
	m, ok := f.Mobs[string(kind)+":"+id]
	if !ok {
		return mobtypes.Mob{}, fmt.Errorf("no such %s: %s", kind, id)
	}
	return m, nil
}

// Search implements mobtypes.Session.
func (f *FakeSession) Search(query string, kinds []mobtypes.Kind) (map[mobtypes.Kind]*mobtypes.ItemPage, error) {
	f.Searches = append(f.Searches, query)
	out := make(map[mobtypes.Kind]*mobtypes.ItemPage, len(kinds))
	for _, k := range kinds {
		items := f.Results[k]
		out[k] = mobtypes.NewItemPage(items, len(items), nil)
	}
	return out, nil
}

// SavedTracks implements mobtypes.Session.
func (f *FakeSession) SavedTracks() (*mobtypes.ItemPage, error) {
	return mobtypes.NewItemPage(f.Saved, len(f.Saved), nil), nil
}

// CreatePlaylist implements mobtypes.Session.
func (f *FakeSession) CreatePlaylist(name string) (mobtypes.Mob, error) {
	f.Created = append(f.Created, name)
	m := mobtypes.Mob{
		Kind:  mobtypes.KindPlaylist,
		ID:    "pl-" + name,
		URI:   "spotify:playlist:pl-" + name,
		Name:  name,
		Items: mobtypes.NewItemPage(nil, 0, nil),
	}
	f.Put(m)
	return m, nil
}

// AddToPlaylist implements mobtypes.Session.
func (f *FakeSession) AddToPlaylist(playlistID string, trackIDs []string) error {
	f.Added[playlistID] = append(f.Added[playlistID], trackIDs)
	return nil
}

// RemoveFromPlaylist implements mobtypes.Session.
func (f *FakeSession) RemoveFromPlaylist(playlistID string, trackIDs []string) error {
	f.Removed[playlistID] = append(f.Removed[playlistID], trackIDs)
	return nil
}

// Play implements mobtypes.Session.
func (f *FakeSession) Play(contextURI, offsetURI string, uris []string) error {
	f.Plays = append(f.Plays, PlayCall{contextURI, offsetURI, uris})
	return nil
}

// Logout implements mobtypes.Session.
func (f *FakeSession) Logout() error {
	if f.LogoutErr != nil {
		return f.LogoutErr
	}
	f.LoggedOut = true
	return nil
}

var _ mobtypes.Session = (*FakeSession)(nil)
