package mobtypes

// Session is the remote-service handle carried by State. The shell core
// never touches it; sentences and the `track` resolver do, through this
// interface only, so tests can substitute fakes.
type Session interface {
	// Me returns the logged-in user as a mob.
	Me() (Mob, error)

	// Lookup fetches one object by kind and id.
	Lookup(kind Kind, id string) (Mob, error)

	// Search runs a text search and returns the first result page per
	// requested kind. Kinds with no hits map to an empty page.
	Search(query string, kinds []Kind) (map[Kind]*ItemPage, error)

	// SavedTracks pages through the user's liked songs.
	SavedTracks() (*ItemPage, error)

	// CreatePlaylist makes an empty playlist owned by the current user.
	CreatePlaylist(name string) (Mob, error)

	// AddToPlaylist appends tracks to a playlist.
	AddToPlaylist(playlistID string, trackIDs []string) error

	// RemoveFromPlaylist removes every occurrence of each track.
	RemoveFromPlaylist(playlistID string, trackIDs []string) error

	// Play starts playback: inside contextURI at offsetURI when both
	// are set, otherwise the given track URIs directly.
	Play(contextURI, offsetURI string, uris []string) error

	// Logout invalidates the stored credentials.
	Logout() error
}
