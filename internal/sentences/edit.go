package sentences

import (
	"streamsort/pkg/mobtypes"
)

// Add resolves the query like open and appends all of its songs to the
// subject playlist, then refocuses the updated playlist. Artists are
// not addable.
func Add(opts Options) mobtypes.Sentence {
	return editPlaylist(opts, "add", func(api mobtypes.Session, playlistID string, ids []string) error {
		return api.AddToPlaylist(playlistID, ids)
	})
}

// Remove is the inverse of Add: every occurrence of each resolved song
// is removed from the subject playlist.
func Remove(opts Options) mobtypes.Sentence {
	return editPlaylist(opts, "remove", func(api mobtypes.Session, playlistID string, ids []string) error {
		return api.RemoveFromPlaylist(playlistID, ids)
	})
}

func editPlaylist(opts Options, verb string, edit func(mobtypes.Session, string, []string) error) mobtypes.Sentence {
	open := Open(opts)
	return func(subject mobtypes.State, query mobtypes.Query) (mobtypes.State, error) {
		if subject.Mob.Kind != mobtypes.KindPlaylist {
			return subject, &mobtypes.UnsupportedVerbError{Subject: subject.Mob.Name, Verb: verb}
		}
		opened, err := open(subject, query)
		if err != nil {
			return subject, err
		}
		target := opened.Mob
		if target.Kind == mobtypes.KindArtist {
			return subject, &mobtypes.UnsupportedQueryError{Verb: verb, Query: target.Name}
		}
		ids, err := TrackIDs(target)
		if err != nil {
			return subject, err
		}
		if err := edit(subject.API, subject.Mob.ID, ids); err != nil {
			return subject, err
		}
		// The playlist changed remotely; refocus the fresh copy.
		refreshed, err := subject.API.Lookup(mobtypes.KindPlaylist, subject.Mob.ID)
		if err != nil {
			return subject, err
		}
		return subject.WithMob(refreshed), nil
	}
}
