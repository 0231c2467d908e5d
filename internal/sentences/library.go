package sentences

import (
	"errors"

	"streamsort/pkg/mobtypes"
)

// All focuses the user's complete liked-songs listing as an aggregate
// mob.
func All(Options) mobtypes.Sentence {
	return func(subject mobtypes.State, _ mobtypes.Query) (mobtypes.State, error) {
		page, err := subject.API.SavedTracks()
		if err != nil {
			return subject, err
		}
		return subject.WithMob(mobtypes.Mob{
			Kind:       mobtypes.KindSet,
			Name:       "Liked Songs",
			TrackCount: page.Total,
			Items:      page,
		}), nil
	}
}

// New creates an empty playlist named by the literal query and focuses
// it.
func New(Options) mobtypes.Sentence {
	return func(subject mobtypes.State, query mobtypes.Query) (mobtypes.State, error) {
		if m, ok := query.Mob(); ok {
			return subject, &mobtypes.UnsupportedQueryError{Verb: "new", Query: m.Name}
		}
		name, ok := query.Text()
		if !ok {
			return subject, errors.New("'new' requires a playlist name")
		}
		playlist, err := subject.API.CreatePlaylist(name)
		if err != nil {
			return subject, err
		}
		return subject.WithMob(playlist), nil
	}
}
