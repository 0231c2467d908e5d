// Package mobtypes defines the shared data model for StreamSort: music
// objects ("mobs"), queries, shell state, and the session interface the
// remote-service collaborator implements.
package mobtypes

// Kind discriminates the flavors of music object the shell can focus.
type Kind string

// The mob kinds Spotify hands back, plus the aggregate kind StreamSort
// builds itself (Projects output, liked-songs library, ...).
const (
	KindTrack    Kind = "track"
	KindAlbum    Kind = "album"
	KindArtist   Kind = "artist"
	KindPlaylist Kind = "playlist"
	KindUser     Kind = "user"
	KindSet      Kind = "ss"
)

// Mob is a music object: track, album, artist, playlist, user, or an
// ad-hoc aggregate. The shell core treats it as opaque beyond its kind,
// its identity, and its item collection.
type Mob struct {
	Kind Kind
	ID   string
	URI  string
	Name string

	// Artists lists the credited artists for tracks and albums,
	// as lightweight Kind=artist mobs.
	Artists []Mob

	// Album is the containing album for tracks, nil otherwise.
	Album *Mob

	// Owner is the display name of a playlist's owner.
	Owner string

	// TrackCount is the advertised size of the item collection, when
	// the remote service reports one.
	TrackCount int

	// Items is the materialized portion of the mob's ordered item
	// collection (album tracks, playlist tracks, aggregate members).
	// Nil when the mob has no collection.
	Items *ItemPage
}

// IsZero reports whether the mob is the absent value.
func (m Mob) IsZero() bool { return m.Kind == "" && m.URI == "" && m.Name == "" }

// Same reports identity with another mob. Mobs without URIs (aggregates
// under construction) are never identical to anything.
func (m Mob) Same(other Mob) bool { return m.URI != "" && m.URI == other.URI }

// By returns the name of the mob's primary artist, or its owner for
// playlists, or "" when neither applies.
func (m Mob) By() string {
	if len(m.Artists) > 0 {
		return m.Artists[0].Name
	}
	return m.Owner
}

// NextFunc fetches the next page of an item collection. It is supplied
// by the session collaborator; the core only ever calls it through
// ItemPage.NextPage.
type NextFunc func() (*ItemPage, error)

// ItemPage is one materialized page of a mob's item collection.
type ItemPage struct {
	Items []Mob
	Total int
	next  NextFunc
}

// NewItemPage builds a page. A nil next marks the collection exhausted
// after these items.
func NewItemPage(items []Mob, total int, next NextFunc) *ItemPage {
	return &ItemPage{Items: items, Total: total, next: next}
}

// HasNext reports whether another page can be fetched.
func (p *ItemPage) HasNext() bool { return p != nil && p.next != nil }

// NextPage fetches the following page. Returns nil, nil when the
// collection is already exhausted.
func (p *ItemPage) NextPage() (*ItemPage, error) {
	if !p.HasNext() {
		return nil, nil
	}
	return p.next()
}
