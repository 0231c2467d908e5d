// Package shuffle is the StreamSort shuffle extension: it uploads a
// shuffled copy of the subject to the queried playlist.
package shuffle

import (
	"math/rand"

	"streamsort/internal/sentences"
	"streamsort/pkg/mobtypes"
)

// New builds the shuffle sentence. open resolves the destination
// playlist the same way the builtin open does.
//
// Only the topmost layer of the subject is shuffled, so the members of
// an aggregate (an album group from projects, say) stay together.
func New(open mobtypes.Sentence) mobtypes.Sentence {
	return func(subject mobtypes.State, query mobtypes.Query) (mobtypes.State, error) {
		target := subject.Mob
		if !query.IsEmpty() {
			opened, err := open(subject, query)
			if err != nil {
				return subject, err
			}
			target = opened.Mob
		}
		if target.Kind != mobtypes.KindPlaylist {
			return subject, &mobtypes.UnsupportedQueryError{Verb: "shuffle", Query: target.Name}
		}
		items, err := topItems(subject.Mob)
		if err != nil {
			return subject, &mobtypes.UnsupportedVerbError{Subject: subject.Mob.Name, Verb: "shuffle"}
		}

		shuffled := append([]mobtypes.Mob(nil), items...)
		rand.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		var ids []string
		for _, item := range shuffled {
			itemIDs, err := sentences.TrackIDs(item)
			if err != nil {
				return subject, err
			}
			ids = append(ids, itemIDs...)
		}

		existing, err := sentences.TrackIDs(target)
		if err != nil {
			return subject, err
		}
		if len(existing) > 0 {
			if err := subject.API.RemoveFromPlaylist(target.ID, existing); err != nil {
				return subject, err
			}
		}
		if err := subject.API.AddToPlaylist(target.ID, ids); err != nil {
			return subject, err
		}
		if target.Same(subject.Mob) {
			refreshed, err := subject.API.Lookup(mobtypes.KindPlaylist, target.ID)
			if err != nil {
				return subject, err
			}
			return subject.WithMob(refreshed), nil
		}
		return subject, nil
	}
}

// topItems returns the subject's first-layer members: the tracks or
// groups of its collection, or the subject itself when it is a track.
func topItems(m mobtypes.Mob) ([]mobtypes.Mob, error) {
	if m.Kind == mobtypes.KindTrack {
		return []mobtypes.Mob{m}, nil
	}
	if m.Items == nil {
		return nil, &mobtypes.UnsupportedVerbError{Subject: m.Name, Verb: "shuffle"}
	}
	var out []mobtypes.Mob
	page := m.Items
	for page != nil {
		out = append(out, page.Items...)
		if !page.HasNext() {
			break
		}
		next, err := page.NextPage()
		if err != nil {
			return nil, err
		}
		page = next
	}
	return out, nil
}
